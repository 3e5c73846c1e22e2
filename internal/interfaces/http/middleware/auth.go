package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agrichain.backend/internal/domain/entities"
	domainerrors "agrichain.backend/internal/domain/errors"
	"agrichain.backend/internal/interfaces/http/response"
	"agrichain.backend/pkg/logger"
)

const (
	// SessionCookieName is the cookie carrying the signed session token
	SessionCookieName = "agrichain.sid"
	// SessionKey is the gin context key for the resolved session
	SessionKey = "session"
	// UserIDKey is the gin context key for the session's user id
	UserIDKey = "userId"
)

// SessionResolver maps a cookie token to a live session.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*entities.Session, error)
}

// SessionMiddleware attaches the caller's session when the cookie is valid.
// Requests without a usable session continue anonymously.
func SessionMiddleware(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		session, err := resolver.ResolveSession(ctx, token)
		if err != nil {
			if !errors.Is(err, domainerrors.ErrUnauthorized) {
				logger.Warn(ctx, "Session lookup failed", zap.Error(err))
			}
			c.Next()
			return
		}

		c.Set(SessionKey, session)
		c.Set(UserIDKey, session.UserID)
		c.Request = c.Request.WithContext(logger.ContextWithUserID(ctx, session.UserID))
		c.Next()
	}
}

// RequireSession rejects requests that SessionMiddleware left anonymous.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetSession(c); !ok {
			response.Error(c, domainerrors.Unauthenticated("Not authenticated"))
			return
		}
		c.Next()
	}
}

// GetSession returns the session attached by SessionMiddleware.
func GetSession(c *gin.Context) (*entities.Session, bool) {
	v, exists := c.Get(SessionKey)
	if !exists {
		return nil, false
	}
	session, ok := v.(*entities.Session)
	return session, ok && session != nil
}

// GetUserID returns the authenticated user id, or 0 for anonymous callers.
func GetUserID(c *gin.Context) int64 {
	return c.GetInt64(UserIDKey)
}
