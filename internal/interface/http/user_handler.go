package handlers

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/skinsync/internal/application"
	"github.com/oksasatya/skinsync/pkg/helpers"
	"github.com/oksasatya/skinsync/pkg/response"
)

type UserHandler struct {
	Svc     *application.UserService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
	Prefix  string
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger, cookieDomain string, cookieSecure bool, prefix string) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure), Prefix: prefix}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type homeResponse struct {
	Username         string `json:"username"`
	DailyReportLink  string `json:"dailyReportLink"`
	ProductShelfLink string `json:"productShelfLink"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	sess, err := h.Svc.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.Cookies.SetAccess(c, sess.AccessToken, sess.ExpiresAt)
	response.Success(c, http.StatusCreated, sess, "User created successfully", nil)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	sess, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.Cookies.SetAccess(c, sess.AccessToken, sess.ExpiresAt)
	response.Success(c, http.StatusOK, sess, "User logged in successfully", map[string]any{"access_expires_at": sess.ExpiresAt})
}

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), c.GetString("userID")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, nil, "User logged out successfully", nil)
}

// Home is the landing payload for a logged in user.
func (h *UserHandler) Home(c *gin.Context) {
	prefix := h.Prefix
	if prefix == "" {
		prefix = "/"
	}
	response.Success(c, http.StatusOK, homeResponse{
		Username:         c.GetString("userName"),
		DailyReportLink:  path.Join(prefix, "dailyReport"),
		ProductShelfLink: path.Join(prefix, "productShelf"),
	}, "", nil)
}
