package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/skinsync/internal/interface/http"
)

type StatsModule struct {
	Handler *handlers.StatsHandler
	Auth    gin.HandlerFunc
}

func NewStatsModule(h *handlers.StatsHandler, auth gin.HandlerFunc) *StatsModule {
	return &StatsModule{Handler: h, Auth: auth}
}

func (m *StatsModule) Register(rg *gin.RouterGroup) {
	rg.GET("/statistics", m.Auth, m.Handler.Get)
}
