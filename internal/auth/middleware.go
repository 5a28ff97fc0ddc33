package auth

import (
	"context"
	"strings"

	apperrors "gameportal/backend/internal/errors"
	"gameportal/backend/internal/models"
	"gameportal/backend/internal/service"
	"gameportal/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserKey   = "user"
	ctxUserIDKey = "userID"
)

// IdentitySyncer maps a verified token subject to a local user.
type IdentitySyncer interface {
	SyncIdentity(ctx context.Context, id service.Identity) (*models.User, error)
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok
}

// UserID returns the authenticated user's id, or 0.
func UserID(c *gin.Context) uint {
	return c.GetUint(ctxUserIDKey)
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func authenticate(c *gin.Context, secret string, users IdentitySyncer) error {
	tokenString, ok := bearerToken(c)
	if !ok {
		return apperrors.NewUnauthorizedError("authorization header required")
	}
	claims, err := jwt.ParseToken(secret, tokenString)
	if err != nil {
		return apperrors.NewUnauthorizedError("invalid token")
	}

	user, err := users.SyncIdentity(c.Request.Context(), service.Identity{
		Subject:   claims.Subject,
		Nickname:  claims.Nickname,
		Email:     claims.Email,
		AvatarURL: claims.AvatarURL,
	})
	if err != nil {
		return err
	}
	c.Set(ctxUserKey, user)
	c.Set(ctxUserIDKey, user.ID)
	return nil
}

func abort(c *gin.Context, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.NewInternalError(err)
	}
	c.AbortWithStatusJSON(appErr.Status, gin.H{
		"error": gin.H{"code": appErr.Code, "message": appErr.Message},
	})
}

// AuthMiddleware requires a valid bearer token and loads the matching user.
func AuthMiddleware(secret string, users IdentitySyncer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := authenticate(c, secret, users); err != nil {
			abort(c, err)
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware loads the user when a valid token is present,
// but never rejects the request.
func OptionalAuthMiddleware(secret string, users IdentitySyncer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := bearerToken(c); ok {
			_ = authenticate(c, secret, users)
		}
		c.Next()
	}
}

// AdminMiddleware checks for the admin role.
// It must be used AFTER AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abort(c, apperrors.NewUnauthorizedError("user not authenticated"))
			return
		}
		if user.Role != models.RoleAdmin {
			abort(c, apperrors.NewForbiddenError("admin access required"))
			return
		}
		c.Next()
	}
}
