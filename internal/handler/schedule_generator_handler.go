package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Brekey53/atec-admin-api/internal/dto"
	"github.com/Brekey53/atec-admin-api/internal/service"
	appErrors "github.com/Brekey53/atec-admin-api/pkg/errors"
	"github.com/Brekey53/atec-admin-api/pkg/response"
)

type scheduleGenerator interface {
	Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error)
}

// ScheduleGeneratorHandler exposes schedule generation endpoints.
type ScheduleGeneratorHandler struct {
	service scheduleGenerator
	exports *service.ExportService
	metrics *service.MetricsService
}

// NewScheduleGeneratorHandler constructs the handler.
func NewScheduleGeneratorHandler(svc *service.ScheduleGeneratorService, exports *service.ExportService, metrics *service.MetricsService) *ScheduleGeneratorHandler {
	return &ScheduleGeneratorHandler{service: svc, exports: exports, metrics: metrics}
}

// Generate godoc
// @Summary Generate a class schedule
// @Description Builds a conflict-free session calendar for the class curriculum. Set persist to commit the result; otherwise the response is a preview. Incomplete modules carry a diagnostic in the summary.
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Generate schedule payload"
// @Success 200 {object} response.Envelope
// @Router /schedule/generate [post]
func (h *ScheduleGeneratorHandler) Generate(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}

	start := time.Now()
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveScheduleRun(len(result.Sessions), time.Since(start))
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ExportSummary godoc
// @Summary Export a generation summary
// @Description Runs a preview generation and streams the per-module summary as CSV or PDF.
// @Tags Scheduler
// @Accept json
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Param payload body dto.GenerateScheduleRequest true "Generate schedule payload"
// @Success 200 {file} file
// @Router /schedule/generate/export [post]
func (h *ScheduleGeneratorHandler) ExportSummary(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	req.Persist = false

	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	payload, err := h.exports.ScheduleSummary(result.ClassID, result.Summary, service.ExportFormat(c.DefaultQuery("format", "csv")))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Attachment(c, payload.Filename, payload.ContentType, payload.Data)
}
