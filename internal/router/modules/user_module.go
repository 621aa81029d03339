package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/skinsync/internal/interface/http"
	"github.com/oksasatya/skinsync/internal/interface/middleware"
	"github.com/oksasatya/skinsync/pkg/helpers"
)

// UserModule wires account routes.
// Public: POST /register, POST /login
// Protected: POST /logout, GET /userPage
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    gin.HandlerFunc
	Limits  helpers.WindowCounter
}

func NewUserModule(h *handlers.UserHandler, auth gin.HandlerFunc, limits helpers.WindowCounter) *UserModule {
	return &UserModule{Handler: h, Auth: auth, Limits: limits}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	// credential guessing is capped per IP and route
	credLimiter := middleware.RateLimit(m.Limits, middleware.Limit{
		Max: 10, Window: time.Minute, Key: middleware.KeyByIPAndPath(),
		Message: "Too many attempts, try again in a minute",
	})

	rg.POST("/register", credLimiter, m.Handler.Register)
	rg.POST("/login", credLimiter, m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(m.Auth)
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/userPage", m.Handler.Home)
	}
}
