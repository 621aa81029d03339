package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/skinsync/internal/application"
	"github.com/oksasatya/skinsync/internal/domain/entity"
	"github.com/oksasatya/skinsync/internal/domain/repository"
	"github.com/oksasatya/skinsync/pkg/response"
)

type ProductHandler struct {
	Svc            *application.ProductService
	Logger         *logrus.Logger
	MaxUploadBytes int64
}

func NewProductHandler(svc *application.ProductService, logger *logrus.Logger, maxUploadBytes int64) *ProductHandler {
	return &ProductHandler{Svc: svc, Logger: logger, MaxUploadBytes: maxUploadBytes}
}

type createProductRequest struct {
	Name         string      `json:"name" binding:"required"`
	Brand        string      `json:"brand"`
	Category     string      `json:"category" binding:"required,category"`
	Routine      string      `json:"routine" binding:"required,routine"`
	Date         *time.Time  `json:"date"`
	UsageHistory []time.Time `json:"usageHistory"`
}

type updateProductRequest struct {
	Name         *string     `json:"name"`
	Brand        *string     `json:"brand"`
	Category     *string     `json:"category" binding:"omitempty,category"`
	Routine      *string     `json:"routine" binding:"omitempty,routine"`
	Date         *time.Time  `json:"date"`
	UsedToday    *bool       `json:"usedToday"`
	UsageHistory []time.Time `json:"usageHistory"`
}

type logUsageRequest struct {
	ProductID string `json:"productId" binding:"required"`
	UsedToday *bool  `json:"usedToday" binding:"required"`
}

// toggleAllRequest accepts a list of ids or, for older clients, a single one.
type toggleAllRequest struct {
	ProductIDs []string `json:"productIds"`
	ProductID  string   `json:"productId"`
	UsedToday  *bool    `json:"usedToday" binding:"required"`
}

type usageResetRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type archiveRequest struct {
	Archived *bool `json:"archived" binding:"required"`
}

type favoriteRequest struct {
	Favorite *bool `json:"favorite" binding:"required"`
}

type usageOutcomeDTO struct {
	ProductID string      `json:"productId"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Product   *productDTO `json:"product,omitempty"`
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	category, _ := entity.ParseCategory(req.Category)
	routine, _ := entity.ParseRoutine(req.Routine)
	p, err := h.Svc.Create(c.Request.Context(), c.GetString("userID"), application.CreateProductInput{
		Name:         req.Name,
		Brand:        req.Brand,
		Category:     category,
		Routine:      routine,
		Date:         req.Date,
		UsageHistory: req.UsageHistory,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toProductDTO(p), "Product added", nil)
}

// List serves GET /productShelf?routine=&archived=.
func (h *ProductHandler) List(c *gin.Context) {
	var f repository.ProductFilter
	if v := c.Query("routine"); v != "" {
		r, err := entity.ParseRoutine(v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "routine must be morning or night", nil)
			return
		}
		f.Routine = r
	}
	if v := c.Query("archived"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "archived must be a boolean", nil)
			return
		}
		f.IncludeArchived = b
	}
	h.list(c, f)
}

// ListRoutine serves the fixed /productShelf/morning and /night routes.
func (h *ProductHandler) ListRoutine(r entity.Routine) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.list(c, repository.ProductFilter{Routine: r})
	}
}

func (h *ProductHandler) list(c *gin.Context, f repository.ProductFilter) {
	ps, err := h.Svc.List(c.Request.Context(), c.GetString("userID"), f)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.List(c, http.StatusOK, toProductDTOs(ps), "", nil)
}

func (h *ProductHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	ps, err := h.Svc.Search(c.Request.Context(), c.GetString("userID"), c.Query("q"), size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.List(c, http.StatusOK, toProductDTOs(ps), "", map[string]any{"count": len(ps)})
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	in := application.UpdateProductInput{
		Name:         req.Name,
		Brand:        req.Brand,
		Date:         req.Date,
		UsedToday:    req.UsedToday,
		UsageHistory: req.UsageHistory,
	}
	if req.Category != nil {
		cat, _ := entity.ParseCategory(*req.Category)
		in.Category = &cat
	}
	if req.Routine != nil {
		r, _ := entity.ParseRoutine(*req.Routine)
		in.Routine = &r
	}
	p, err := h.Svc.Update(c.Request.Context(), c.GetString("userID"), c.Param("productId"), in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toProductDTO(p), "", nil)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.GetString("userID"), c.Param("productId")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Product deleted successfully", nil)
}

func (h *ProductHandler) Archive(c *gin.Context) {
	var req archiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	p, err := h.Svc.SetArchived(c.Request.Context(), c.GetString("userID"), c.Param("productId"), *req.Archived)
	h.writeProduct(c, p, err)
}

func (h *ProductHandler) Favorite(c *gin.Context) {
	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	p, err := h.Svc.SetFavorite(c.Request.Context(), c.GetString("userID"), c.Param("productId"), *req.Favorite)
	h.writeProduct(c, p, err)
}

// UploadImage accepts a multipart "image" field.
func (h *ProductHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "image file is required", nil)
		return
	}
	if h.MaxUploadBytes > 0 && fh.Size > h.MaxUploadBytes {
		response.Error(c, http.StatusBadRequest, "image is too large", map[string]any{"max_bytes": h.MaxUploadBytes})
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	contentType := fh.Header.Get("Content-Type")
	p, err := h.Svc.UploadImage(c.Request.Context(), c.GetString("userID"), c.Param("productId"), fh.Filename, contentType, f)
	h.writeProduct(c, p, err)
}

func (h *ProductHandler) LogUsage(c *gin.Context) {
	var req logUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	p, err := h.Svc.SetUsage(c.Request.Context(), c.GetString("userID"), req.ProductID, *req.UsedToday)
	h.writeProduct(c, p, err)
}

func (h *ProductHandler) ToggleAll(c *gin.Context) {
	var req toggleAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	if len(req.ProductIDs) == 0 && strings.TrimSpace(req.ProductID) != "" {
		p, err := h.Svc.SetUsage(c.Request.Context(), c.GetString("userID"), req.ProductID, *req.UsedToday)
		h.writeProduct(c, p, err)
		return
	}

	outcomes, err := h.Svc.ToggleAll(c.Request.Context(), c.GetString("userID"), req.ProductIDs, *req.UsedToday)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out := make([]usageOutcomeDTO, len(outcomes))
	failed := 0
	for i, o := range outcomes {
		if o.Err != nil {
			failed++
			status, msg := statusFor(o.Err)
			if status == http.StatusInternalServerError && h.Logger != nil {
				h.Logger.WithError(o.Err).WithField("product_id", o.ProductID).Error("toggle usage failed")
			}
			out[i] = usageOutcomeDTO{ProductID: o.ProductID, Message: msg}
			continue
		}
		dto := toProductDTO(o.Product)
		out[i] = usageOutcomeDTO{ProductID: o.ProductID, Success: true, Message: "Usage updated", Product: &dto}
	}
	response.Success(c, http.StatusOK, out, "", map[string]any{
		"succeeded": len(out) - failed,
		"failed":    failed,
	})
}

func (h *ProductHandler) UsageReset(c *gin.Context) {
	var req usageResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	if _, err := h.Svc.ResetUsage(c.Request.Context(), c.GetString("userID"), req.ProductID); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Usage reset completed", nil)
}

func (h *ProductHandler) writeProduct(c *gin.Context, p *entity.Product, err error) {
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toProductDTO(p), "", nil)
}
