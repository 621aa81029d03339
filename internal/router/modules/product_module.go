package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/skinsync/internal/domain/entity"
	handlers "github.com/oksasatya/skinsync/internal/interface/http"
	"github.com/oksasatya/skinsync/internal/interface/middleware"
	"github.com/oksasatya/skinsync/pkg/helpers"
)

// ProductModule wires the product shelf and its usage ledger under /productShelf.
type ProductModule struct {
	Handler *handlers.ProductHandler
	Auth    gin.HandlerFunc
	Limits  helpers.WindowCounter
}

func NewProductModule(h *handlers.ProductHandler, auth gin.HandlerFunc, limits helpers.WindowCounter) *ProductModule {
	return &ProductModule{Handler: h, Auth: auth, Limits: limits}
}

func (m *ProductModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/productShelf", m.Auth)
	g.Use(middleware.RateLimit(m.Limits, middleware.Limit{Max: 120, Window: time.Minute, Key: middleware.KeyByUserID()}))
	write := writeLimit(m.Limits)

	g.POST("", write, m.Handler.Create)
	g.GET("", m.Handler.List)
	g.GET("/morning", m.Handler.ListRoutine(entity.RoutineMorning))
	g.GET("/night", m.Handler.ListRoutine(entity.RoutineNight))
	g.GET("/search", m.Handler.Search)

	g.POST("/logUsage", write, m.Handler.LogUsage)
	g.POST("/toggleAllUsage", write, m.Handler.ToggleAll)
	g.POST("/usageReset", write, m.Handler.UsageReset)

	g.PUT("/:productId", write, m.Handler.Update)
	g.DELETE("/:productId", write, m.Handler.Delete)
	g.PATCH("/:productId/archive", write, m.Handler.Archive)
	g.PATCH("/:productId/favorite", write, m.Handler.Favorite)

	upload := middleware.RateLimit(m.Limits, middleware.Limit{
		Max: 20, Window: time.Minute, Key: middleware.KeyByUserAndRoute(),
		Message: "Too many image uploads, try again in a moment",
	})
	g.POST("/:productId/image", upload, m.Handler.UploadImage)
}
