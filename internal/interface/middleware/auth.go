package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/skinsync/internal/application"
	"github.com/oksasatya/skinsync/internal/domain/entity"
	"github.com/oksasatya/skinsync/pkg/helpers"
	"github.com/oksasatya/skinsync/pkg/response"
)

const (
	CtxUserIDKey   = "userID"
	CtxUserNameKey = "userName"
	CtxTokenKey    = "accessToken"
)

const notLoggedInMessage = "You must be logged in to see this page"

// SessionResolver maps a session token to a user.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*entity.User, error)
}

// Auth resolves the session token and stores the caller in the Gin context.
// The token comes from the Authorization header, raw or as "Bearer <token>",
// or from the access_token cookie.
func Auth(sessions SessionResolver, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			response.Error(c, http.StatusForbidden, notLoggedInMessage, nil)
			return
		}
		u, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, application.ErrNotLoggedIn) {
				response.Error(c, http.StatusForbidden, notLoggedInMessage, nil)
				return
			}
			if logger != nil {
				logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("resolve session failed")
			}
			response.Error(c, http.StatusInternalServerError, "Internal server error", nil)
			return
		}

		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxUserNameKey, u.Username)
		c.Set(CtxTokenKey, token)
		c.Next()
	}
}

// TokenFromRequest returns the session token sent with the request, if any.
func TokenFromRequest(c *gin.Context) string {
	if h := strings.TrimSpace(c.GetHeader("Authorization")); h != "" {
		if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
			return strings.TrimSpace(h[7:])
		}
		return h
	}
	if v, err := c.Cookie(helpers.AccessCookieName); err == nil {
		return strings.TrimSpace(v)
	}
	return ""
}
