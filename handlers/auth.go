package handlers

import (
	"net/http"
	"strings"
	"time"

	"notemart-api/cache"
	"notemart-api/models"
	"notemart-api/repository"
	"notemart-api/types"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	profiles  *repository.ProfilesRepository
	follows   *repository.FollowsRepository
	tokens    *cache.Cache
	jwtSecret string
}

func NewAuthHandler(profiles *repository.ProfilesRepository, follows *repository.FollowsRepository, tokens *cache.Cache, jwtSecret string) *AuthHandler {
	return &AuthHandler{profiles: profiles, follows: follows, tokens: tokens, jwtSecret: jwtSecret}
}

const tokenTTL = 24 * time.Hour

func signToken(secret string, userID int) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"jti":    uuid.NewString(),
		"exp":    time.Now().Add(tokenTTL).Unix(),
	})
	return token.SignedString([]byte(secret))
}

func parseToken(secret, raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func setAuthContext(c *gin.Context, claims jwt.MapClaims) bool {
	userID, ok := claims["userId"].(float64)
	if !ok {
		return false
	}
	c.Set("userId", int(userID))
	if jti, ok := claims["jti"].(string); ok {
		c.Set("jti", jti)
	}
	if exp, ok := claims["exp"].(float64); ok {
		c.Set("tokenExp", int64(exp))
	}
	return true
}

// AuthMiddleware validates the bearer token and rejects tokens revoked by
// logout. The denylist lives in Redis and fails open on cache outage.
func AuthMiddleware(secret string, tokens *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, types.NewErrorResponse(types.ErrorCodeUnauthorized, "Authorization header required"))
			c.Abort()
			return
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, types.NewErrorResponse(types.ErrorCodeUnauthorized, "Invalid authorization header"))
			c.Abort()
			return
		}
		claims, err := parseToken(secret, parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, types.NewErrorResponse(types.ErrorCodeInvalidToken, "Invalid token"))
			c.Abort()
			return
		}
		if jti, ok := claims["jti"].(string); ok && tokens.IsTokenDenied(c.Request.Context(), jti) {
			c.JSON(http.StatusUnauthorized, types.NewErrorResponse(types.ErrorCodeInvalidToken, "Token revoked"))
			c.Abort()
			return
		}
		if !setAuthContext(c, claims) {
			c.JSON(http.StatusUnauthorized, types.NewErrorResponse(types.ErrorCodeInvalidToken, "userId not found in token"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the viewer when a valid token is present but
// lets anonymous requests through with userId 0. Browse endpoints use it so
// per-viewer flags work for signed-in users without walling off the catalog.
func OptionalAuthMiddleware(secret string, tokens *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			if claims, err := parseToken(secret, parts[1]); err == nil {
				if jti, ok := claims["jti"].(string); !ok || !tokens.IsTokenDenied(c.Request.Context(), jti) {
					setAuthContext(c, claims)
				}
			}
		}
		c.Next()
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Username string `json:"username" binding:"required"`
		Name     string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if len(req.Password) < 8 {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Password must be at least 8 characters"))
		return
	}
	if len(req.Username) < 3 || len(req.Username) > 50 {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Username must be between 3 and 50 characters"))
		return
	}

	user, err := h.profiles.CreateUser(strings.ToLower(strings.TrimSpace(req.Email)), req.Password, req.Username, req.Name)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, types.NewErrorResponse(types.ErrorCodeConflict, "Email or username already taken"))
			return
		}
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}

	token, err := signToken(h.jwtSecret, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, "Failed to generate token"))
		return
	}
	c.JSON(http.StatusCreated, types.NewSuccessResponse(gin.H{"user": user, "token": token}))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}

	account, err := h.profiles.GetAccountByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if account == nil {
		c.JSON(http.StatusUnauthorized, types.NewErrorResponse(types.ErrorCodeUnauthorized, "Invalid email or password"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, types.NewErrorResponse(types.ErrorCodeUnauthorized, "Invalid email or password"))
		return
	}

	user, err := h.profiles.GetUserByID(account.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if user == nil {
		// Account exists without a profile row; the client routes this to
		// profile completion instead of showing a generic failure.
		c.JSON(http.StatusForbidden, types.NewErrorResponse(types.ErrorCodeProfileNotFound, "Profile setup is incomplete"))
		return
	}

	token, err := signToken(h.jwtSecret, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, "Failed to generate token"))
		return
	}
	_ = h.profiles.TouchLastSeen(user.ID)
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"user": user, "token": token}))
}

// Logout revokes the presented token for the remainder of its lifetime.
func (h *AuthHandler) Logout(c *gin.Context) {
	jti := c.GetString("jti")
	exp := c.GetInt64("tokenExp")
	if jti != "" && exp > 0 {
		ttl := time.Until(time.Unix(exp, 0))
		if err := h.tokens.DenyToken(c.Request.Context(), jti, ttl); err != nil {
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, "Failed to revoke token"))
			return
		}
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"message": "Logged out"}))
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetInt("userId")
	user, err := h.profiles.GetUserByID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if user == nil {
		c.JSON(http.StatusForbidden, types.NewErrorResponse(types.ErrorCodeProfileNotFound, "Profile setup is incomplete"))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(user))
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetInt("userId")
	var req models.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if req.Username != nil && (len(*req.Username) < 3 || len(*req.Username) > 50) {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Username must be between 3 and 50 characters"))
		return
	}

	user, err := h.profiles.UpdateProfile(userID, req)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, types.NewErrorResponse(types.ErrorCodeConflict, "Username already taken"))
			return
		}
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(user))
}

func (h *AuthHandler) UpdateEmail(c *gin.Context) {
	userID := c.GetInt("userId")
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if err := h.profiles.UpdateEmail(userID, strings.ToLower(strings.TrimSpace(req.Email))); err != nil {
		if repository.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, types.NewErrorResponse(types.ErrorCodeConflict, "Email already taken"))
			return
		}
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"message": "Email updated"}))
}

func (h *AuthHandler) SetInterests(c *gin.Context) {
	h.setStringList(c, h.profiles.SetInterests, "interests")
}

func (h *AuthHandler) SetSubjects(c *gin.Context) {
	h.setStringList(c, h.profiles.SetSubjects, "subjects")
}

func (h *AuthHandler) setStringList(c *gin.Context, save func(int, []string) error, field string) {
	userID := c.GetInt("userId")
	var req struct {
		Values []string `json:"values" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, field+" required"))
		return
	}
	cleaned := make([]string, 0, len(req.Values))
	for _, v := range req.Values {
		v = strings.TrimSpace(v)
		if v != "" {
			cleaned = append(cleaned, v)
		}
	}
	if err := save(userID, cleaned); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{field: cleaned}))
}

// GetPublicProfile returns another user's profile without account-private
// fields, plus follow counts and whether the viewer follows them.
func (h *AuthHandler) GetPublicProfile(c *gin.Context) {
	targetID, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, err := h.profiles.GetUserByID(targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "User not found"))
		return
	}

	followers, err := h.follows.CountFollowers(targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	following, err := h.follows.CountFollowing(targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}

	isFollowing := false
	if viewerID := c.GetInt("userId"); viewerID > 0 && viewerID != targetID {
		isFollowing, err = h.follows.IsFollowing(viewerID, targetID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
			return
		}
	}

	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{
		"id":          user.ID,
		"username":    user.Username,
		"name":        user.Name,
		"avatar":      user.Avatar,
		"bio":         user.Bio,
		"website":     user.Website,
		"instagram":   user.Instagram,
		"youtube":     user.Youtube,
		"subjects":    user.Subjects,
		"isVerified":  user.IsVerified,
		"followers":   followers,
		"following":   following,
		"isFollowing": isFollowing,
	}))
}
