package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/skinsync/internal/application"
	"github.com/oksasatya/skinsync/internal/domain/entity"
	"github.com/oksasatya/skinsync/pkg/response"
)

type ReportHandler struct {
	Svc    *application.ReportService
	Logger *logrus.Logger
}

func NewReportHandler(svc *application.ReportService, logger *logrus.Logger) *ReportHandler {
	return &ReportHandler{Svc: svc, Logger: logger}
}

// All metrics are required; pointers tell a missing field from a zero.
type submitReportRequest struct {
	Exercised   *int       `json:"exercised" binding:"required,min=0"`
	Period      *bool      `json:"period" binding:"required"`
	Stress      *int       `json:"stress" binding:"required,min=0"`
	Acne        *int       `json:"acne" binding:"required,min=0"`
	Sugar       *int       `json:"sugar" binding:"required,min=0"`
	Alcohol     *int       `json:"alcohol" binding:"required,min=0"`
	Dairy       *int       `json:"dairy" binding:"required,min=0"`
	GreasyFood  *int       `json:"greasyFood" binding:"required,min=0"`
	WaterAmount *float64   `json:"waterAmount" binding:"required,min=0"`
	SleepHours  *float64   `json:"sleepHours" binding:"required,min=0,max=24"`
	Date        *time.Time `json:"date"`
}

func (r submitReportRequest) metrics() entity.ReportMetrics {
	return entity.ReportMetrics{
		Exercised:   *r.Exercised,
		Period:      *r.Period,
		Stress:      *r.Stress,
		Acne:        *r.Acne,
		Sugar:       *r.Sugar,
		Alcohol:     *r.Alcohol,
		Dairy:       *r.Dairy,
		GreasyFood:  *r.GreasyFood,
		WaterAmount: *r.WaterAmount,
		SleepHours:  *r.SleepHours,
	}
}

func (h *ReportHandler) Submit(c *gin.Context) {
	var req submitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	res, err := h.Svc.Submit(c.Request.Context(), c.GetString("userID"), req.Date, req.metrics())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	msg := "Daily report updated"
	if res.Created {
		msg = "Daily report created"
	}
	response.Success(c, http.StatusOK, toReportDTO(res.Report), msg, map[string]any{"created": res.Created})
}

func (h *ReportHandler) List(c *gin.Context) {
	reports, err := h.Svc.List(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out := make([]reportDTO, len(reports))
	for i := range reports {
		out[i] = toReportDTO(&reports[i])
	}
	response.List(c, http.StatusOK, out, "Retrieved daily reports successfully", nil)
}
