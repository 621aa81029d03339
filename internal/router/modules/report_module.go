package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/skinsync/internal/interface/http"
	"github.com/oksasatya/skinsync/internal/interface/middleware"
	"github.com/oksasatya/skinsync/pkg/helpers"
)

type ReportModule struct {
	Handler *handlers.ReportHandler
	Auth    gin.HandlerFunc
	Limits  helpers.WindowCounter
}

func NewReportModule(h *handlers.ReportHandler, auth gin.HandlerFunc, limits helpers.WindowCounter) *ReportModule {
	return &ReportModule{Handler: h, Auth: auth, Limits: limits}
}

func (m *ReportModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/dailyReport", m.Auth)
	g.POST("", writeLimit(m.Limits), m.Handler.Submit)
	g.GET("", m.Handler.List)
}

// writeLimit caps state-changing calls per user and route.
func writeLimit(limits helpers.WindowCounter) gin.HandlerFunc {
	return middleware.RateLimit(limits, middleware.Limit{
		Max:     30,
		Window:  time.Minute,
		Key:     middleware.KeyByUserAndRoute(),
		Message: "Too many updates, try again in a moment",
	})
}
