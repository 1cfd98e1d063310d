package initializers

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"gopkg.in/yaml.v3"
)

type MinioConfig struct {
	Endpoint         string
	AccessKey        string
	SecretKey        string
	NotesBucket      string
	AvatarsBucket    string
	UseSSL           bool
	MaxSize          int64
	FileTypes        []string
	Expiry           time.Duration
	ExternalEndpoint string
	ExternalUseSSL   bool
}

var MinioClient *minio.Client
var ExternalMinioClient *minio.Client
var Conf MinioConfig

// uploadsConfigYAML defines optional YAML configuration for upload settings.
// If present, it overrides environment variables for upload-related fields.
type uploadsConfigYAML struct {
	MaxFileSize        int64    `yaml:"max_file_size"`
	AllowedFileTypes   []string `yaml:"allowed_file_types"`
	PresignedURLExpiry int      `yaml:"presigned_url_expiry"` // seconds
}

func loadUploadsConfig() (*uploadsConfigYAML, error) {
	path := os.Getenv("UPLOADS_CONFIG_FILE")
	if strings.TrimSpace(path) == "" {
		path = "config/uploads.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg uploadsConfigYAML
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// InitMinio connects to object storage and ensures the notes and avatars
// buckets exist. A separate external client handles presigned URLs when the
// public endpoint differs from the internal one.
func InitMinio() error {
	Conf = MinioConfig{
		Endpoint:         os.Getenv("MINIO_ENDPOINT"),
		AccessKey:        os.Getenv("MINIO_ACCESS_KEY"),
		SecretKey:        os.Getenv("MINIO_SECRET_KEY"),
		NotesBucket:      envOr("MINIO_NOTES_BUCKET", "notes"),
		AvatarsBucket:    envOr("MINIO_AVATARS_BUCKET", "avatars"),
		UseSSL:           parseBool(os.Getenv("MINIO_USE_SSL")),
		MaxSize:          parseInt64(os.Getenv("MAX_FILE_SIZE"), 26214400),
		FileTypes:        parseFileTypes(os.Getenv("ALLOWED_FILE_TYPES")),
		Expiry:           parseExpiry(os.Getenv("PRESIGNED_URL_EXPIRY")),
		ExternalEndpoint: os.Getenv("MINIO_EXTERNAL_ENDPOINT"),
		ExternalUseSSL: func() bool {
			raw := strings.TrimSpace(os.Getenv("MINIO_EXTERNAL_ENDPOINT"))
			if v := strings.TrimSpace(os.Getenv("MINIO_EXTERNAL_USE_SSL")); v != "" {
				return parseBool(v)
			}
			if strings.HasPrefix(raw, "https://") {
				return true
			}
			if strings.HasPrefix(raw, "http://") {
				return false
			}
			return parseBool(os.Getenv("MINIO_USE_SSL"))
		}(),
	}

	// If YAML config exists, override upload-related settings
	if yamlCfg, err := loadUploadsConfig(); err == nil && yamlCfg != nil {
		if yamlCfg.MaxFileSize > 0 {
			Conf.MaxSize = yamlCfg.MaxFileSize
		}
		if len(yamlCfg.AllowedFileTypes) > 0 {
			Conf.FileTypes = yamlCfg.AllowedFileTypes
		}
		if yamlCfg.PresignedURLExpiry > 0 {
			Conf.Expiry = time.Duration(yamlCfg.PresignedURLExpiry) * time.Second
		}
	}

	client, err := minio.New(Conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(Conf.AccessKey, Conf.SecretKey, ""),
		Secure: Conf.UseSSL,
	})
	if err != nil {
		return err
	}
	MinioClient = client

	for _, bucket := range []string{Conf.NotesBucket, Conf.AvatarsBucket} {
		exists, err := client.BucketExists(context.Background(), bucket)
		if err != nil {
			return err
		}
		if !exists {
			if err := client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{}); err != nil {
				return err
			}
		}
	}

	// Initialize external client once and reuse
	extEndpoint := strings.TrimPrefix(strings.TrimPrefix(Conf.ExternalEndpoint, "http://"), "https://")
	if extEndpoint == "" || extEndpoint == Conf.Endpoint {
		ExternalMinioClient = MinioClient
	} else {
		external, err := minio.New(extEndpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(Conf.AccessKey, Conf.SecretKey, ""),
			Secure: Conf.ExternalUseSSL,
			Region: "us-east-1",
		})
		if err != nil {
			return err
		}
		ExternalMinioClient = external
	}

	return nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parseBool(val string) bool {
	return strings.ToLower(val) == "true"
}

func parseInt64(val string, def int64) int64 {
	if val == "" {
		return def
	}
	v, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return def
	}
	return v
}

func parseFileTypes(val string) []string {
	if val == "" {
		return []string{"application/pdf", "image/jpeg", "image/png"}
	}
	return strings.Split(val, ",")
}

func parseExpiry(val string) time.Duration {
	if val == "" {
		return time.Hour
	}
	v, err := strconv.Atoi(val)
	if err != nil {
		return time.Hour
	}
	return time.Duration(v) * time.Second
}

func baseMIME(mime string) string {
	if mime == "" {
		return ""
	}
	parts := strings.Split(mime, ";")
	return strings.TrimSpace(parts[0])
}

// CheckFileAllowed validates size and detected MIME type against policy.
func CheckFileAllowed(size int64, mime string) error {
	if size > Conf.MaxSize {
		return fmt.Errorf("file size exceeds the limit")
	}
	incoming := baseMIME(mime)
	for _, t := range Conf.FileTypes {
		if baseMIME(t) == incoming {
			return nil
		}
	}
	return fmt.Errorf("file type is not allowed")
}

// GenerateFileURL returns a presigned GET URL for an object in the given
// bucket, served inline under its original file name.
func GenerateFileURL(bucket, objectID, fileName string) (string, error) {
	reqParams := make(url.Values)
	reqParams.Set("response-content-disposition", fmt.Sprintf("inline; filename=\"%s\"", sanitizeFilename(fileName)))

	client := ExternalMinioClient
	if client == nil {
		client = MinioClient
	}
	presignedURL, err := client.PresignedGetObject(context.Background(), bucket, objectID, Conf.Expiry, reqParams)
	if err != nil {
		return "", fmt.Errorf("failed to create presigned url: %v", err)
	}
	return presignedURL.String(), nil
}

func sanitizeFilename(name string) string {
	// Remove double quotes, path separators, and control characters; collapse spaces
	cleaned := strings.ReplaceAll(name, "\"", "")
	cleaned = strings.ReplaceAll(cleaned, "\\", "")
	cleaned = strings.ReplaceAll(cleaned, "/", "")
	cleaned = strings.ReplaceAll(cleaned, "..", "")
	b := make([]rune, 0, len(cleaned))
	for _, r := range cleaned {
		if r < 32 || r == 127 {
			continue
		}
		b = append(b, r)
	}
	s := strings.TrimSpace(string(b))
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		s = "file"
	}
	return s
}
