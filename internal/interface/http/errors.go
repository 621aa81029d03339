package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/skinsync/internal/application"
	"github.com/oksasatya/skinsync/pkg/helpers"
	"github.com/oksasatya/skinsync/pkg/response"
	"github.com/oksasatya/skinsync/pkg/validation"
)

const (
	msgInternal    = "Internal server error"
	msgNotLoggedIn = "You must be logged in to see this page"
	msgNotFound    = "Product not found"
	msgForbidden   = "You do not have access to this product"
)

// statusFor maps a service error to an HTTP status and client message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, application.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, application.ErrInvalidCredentials):
		return http.StatusBadRequest, "Credentials do not match"
	case errors.Is(err, application.ErrUsernameTaken):
		return http.StatusBadRequest, "User already exists"
	case errors.Is(err, application.ErrProductNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, application.ErrUserNotFound):
		return http.StatusNotFound, "Could not find user"
	case errors.Is(err, application.ErrForbidden):
		return http.StatusForbidden, msgForbidden
	case errors.Is(err, application.ErrNotLoggedIn):
		return http.StatusForbidden, msgNotLoggedIn
	case errors.Is(err, application.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, "Image storage is not configured"
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError && logger != nil {
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"user_id":    c.GetString("userID"),
			"path":       c.FullPath(),
		})
	}
	response.Error(c, status, msg, nil)
}

func writeBindError(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}
