package handlers

import (
	"bytes"
	"io"
	"net/http"

	"notemart-api/initializers"
	"notemart-api/repository"
	"notemart-api/types"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

type UploadsHandler struct {
	profiles *repository.ProfilesRepository
}

func NewUploadsHandler(profiles *repository.ProfilesRepository) *UploadsHandler {
	return &UploadsHandler{profiles: profiles}
}

// readUpload pulls the multipart file into memory, sniffs the real MIME type
// and validates it against the upload policy. The declared Content-Type header
// is ignored on purpose.
func readUpload(c *gin.Context) (data []byte, detectedMIME string, fileName string, ok bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "file is required"))
		return nil, "", "", false
	}
	if fileHeader.Size > initializers.Conf.MaxSize {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "File size exceeds the limit"))
		return nil, "", "", false
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, "Failed to open uploaded file"))
		return nil, "", "", false
	}
	defer src.Close()

	data, err = io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, "Failed to read uploaded file"))
		return nil, "", "", false
	}

	mime := mimetype.Detect(data)
	if err := initializers.CheckFileAllowed(int64(len(data)), mime.String()); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return nil, "", "", false
	}
	return data, mime.String(), fileHeader.Filename, true
}

func putObject(c *gin.Context, bucket string, data []byte, contentType string) (string, bool) {
	objectID := uuid.NewString()
	_, err := initializers.MinioClient.PutObject(
		c.Request.Context(), bucket, objectID,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, "Failed to store file"))
		return "", false
	}
	return objectID, true
}

// UploadNoteFile stores a note document (or its thumbnail) and returns the
// object id to reference when creating the note.
func (h *UploadsHandler) UploadNoteFile(c *gin.Context) {
	data, mime, fileName, ok := readUpload(c)
	if !ok {
		return
	}
	objectID, ok := putObject(c, initializers.Conf.NotesBucket, data, mime)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, types.NewSuccessResponse(gin.H{
		"fileId":   objectID,
		"fileType": mime,
		"fileName": fileName,
		"size":     len(data),
	}))
}

// UploadAvatar stores the image and points the caller's profile at it.
func (h *UploadsHandler) UploadAvatar(c *gin.Context) {
	userID := c.GetInt("userId")
	data, mime, _, ok := readUpload(c)
	if !ok {
		return
	}
	if mime != "image/jpeg" && mime != "image/png" && mime != "image/webp" {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Avatar must be a jpeg, png or webp image"))
		return
	}
	objectID, ok := putObject(c, initializers.Conf.AvatarsBucket, data, mime)
	if !ok {
		return
	}
	if err := h.profiles.SetAvatar(userID, objectID); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, types.NewSuccessResponse(gin.H{"avatarId": objectID}))
}

// GetFileURL returns a short-lived presigned URL for an object the caller
// references, e.g. note previews and avatars.
func (h *UploadsHandler) GetFileURL(c *gin.Context) {
	objectID := c.Param("id")
	if _, err := uuid.Parse(objectID); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid file id"))
		return
	}
	bucket := initializers.Conf.NotesBucket
	if c.Query("kind") == "avatar" {
		bucket = initializers.Conf.AvatarsBucket
	}
	name := c.DefaultQuery("name", objectID)
	url, err := initializers.GenerateFileURL(bucket, objectID, name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, "Failed to generate url"))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"url": url}))
}
