package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/skinsync/internal/interface/middleware"
	"github.com/oksasatya/skinsync/pkg/helpers"
)

type DebugModule struct {
	Limits helpers.WindowCounter
}

func NewDebugModule(limits helpers.WindowCounter) *DebugModule { return &DebugModule{Limits: limits} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// Public metrics endpoint (expvar), rate-limited per IP; private networks skip the limit
	rl := middleware.RateLimit(m.Limits, middleware.Limit{
		Max: 120, Window: time.Minute, Key: middleware.KeyByIP(), Allow: middleware.AllowPrivateIP(),
	})
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
