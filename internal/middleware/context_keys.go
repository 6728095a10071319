package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey = contextKey("userID")
	tokenKey  = contextKey("accessToken")
)

// WithUserID returns a copy of ctx carrying the authenticated user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromCtx returns the user id stored by WithUserID.
func UserIDFromCtx(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(userIDKey)); exists {
		userID, ok := v.(string)
		return userID, ok && userID != ""
	}
	return UserIDFromCtx(c.Request.Context())
}

// GetAccessTokenFromContext returns the bearer token AuthMiddleware accepted.
func GetAccessTokenFromContext(c *gin.Context) (string, bool) {
	return c.GetString(string(tokenKey)), c.GetString(string(tokenKey)) != ""
}
