package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/skinsync/internal/interface/http"
)

type CatalogModule struct {
	Handler *handlers.CatalogHandler
	Auth    gin.HandlerFunc
}

func NewCatalogModule(h *handlers.CatalogHandler, auth gin.HandlerFunc) *CatalogModule {
	return &CatalogModule{Handler: h, Auth: auth}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/", m.Auth)
	auth.GET("/categories", m.Handler.Categories)
	auth.GET("/routines", m.Handler.Routines)
}
