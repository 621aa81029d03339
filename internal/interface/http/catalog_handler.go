package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/skinsync/internal/application"
	"github.com/oksasatya/skinsync/internal/domain/entity"
	"github.com/oksasatya/skinsync/pkg/response"
)

type CatalogHandler struct {
	Svc *application.CatalogService
}

func NewCatalogHandler(svc *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{Svc: svc}
}

type categoriesResponse struct {
	response.APIResponse[any]
	Categories []entity.Category `json:"categories"`
}

type routinesResponse struct {
	response.APIResponse[any]
	Routines []entity.Routine `json:"routines"`
}

func (h *CatalogHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, categoriesResponse{
		APIResponse: response.Build[any](c, http.StatusOK, nil, "", nil),
		Categories:  h.Svc.Categories(),
	})
}

func (h *CatalogHandler) Routines(c *gin.Context) {
	c.JSON(http.StatusOK, routinesResponse{
		APIResponse: response.Build[any](c, http.StatusOK, nil, "", nil),
		Routines:    h.Svc.Routines(),
	})
}
