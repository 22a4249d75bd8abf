package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Brekey53/atec-admin-api/internal/dto"
	"github.com/Brekey53/atec-admin-api/internal/models"
	"github.com/Brekey53/atec-admin-api/internal/service"
	appErrors "github.com/Brekey53/atec-admin-api/pkg/errors"
	"github.com/Brekey53/atec-admin-api/pkg/response"
)

// SessionHandler exposes the scheduled-session and timetable endpoints.
type SessionHandler struct {
	service *service.SessionService
	exports *service.ExportService
}

// NewSessionHandler constructs the handler.
func NewSessionHandler(svc *service.SessionService, exports *service.ExportService) *SessionHandler {
	return &SessionHandler{service: svc, exports: exports}
}

// List godoc
// @Summary List scheduled sessions
// @Tags Sessions
// @Produce json
// @Param classId query string false "Filter by class"
// @Param trainerId query string false "Filter by trainer"
// @Param roomId query string false "Filter by room"
// @Param dateFrom query string false "Inclusive start date (YYYY-MM-DD)"
// @Param dateTo query string false "Inclusive end date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /sessions [get]
func (h *SessionHandler) List(c *gin.Context) {
	filter := models.SessionFilter{
		ClassID:   c.Query("classId"),
		TrainerID: c.Query("trainerId"),
		RoomID:    c.Query("roomId"),
		Page:      intQuery(c, "page", 1),
		PageSize:  intQuery(c, "pageSize", 20),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	for _, bound := range []struct {
		key    string
		target **time.Time
	}{
		{"dateFrom", &filter.DateFrom},
		{"dateTo", &filter.DateTo},
	} {
		raw := c.Query(bound.key)
		if raw == "" {
			continue
		}
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s must be formatted as YYYY-MM-DD", bound.key)))
			return
		}
		*bound.target = &parsed
	}

	sessions, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, pagination)
}

// Timetable godoc
// @Summary Get the resolved timetable of a class
// @Tags Sessions
// @Produce json
// @Param id path string true "Class ID"
// @Param dateFrom query string false "Inclusive start date (YYYY-MM-DD)"
// @Param dateTo query string false "Inclusive end date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/timetable [get]
func (h *SessionHandler) Timetable(c *gin.Context) {
	var query dto.TimetableQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid timetable query"))
		return
	}
	query.ClassID = c.Param("id")

	sessions, err := h.service.Timetable(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, nil)
}

// ExportTimetable godoc
// @Summary Export the timetable of a class as CSV or PDF
// @Tags Sessions
// @Produce octet-stream
// @Param id path string true "Class ID"
// @Param dateFrom query string false "Inclusive start date (YYYY-MM-DD)"
// @Param dateTo query string false "Inclusive end date (YYYY-MM-DD)"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /classes/{id}/timetable/export [get]
func (h *SessionHandler) ExportTimetable(c *gin.Context) {
	var query dto.TimetableQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid timetable query"))
		return
	}
	query.ClassID = c.Param("id")

	payload, err := h.exports.Timetable(c.Request.Context(), query, service.ExportFormat(c.DefaultQuery("format", "csv")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, payload.Filename, payload.ContentType, payload.Data)
}

// Delete godoc
// @Summary Delete a future session
// @Tags Sessions
// @Param id path string true "Session ID"
// @Success 204
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ClearUpcoming godoc
// @Summary Remove the upcoming sessions of a class
// @Tags Sessions
// @Produce json
// @Param id path string true "Class ID"
// @Param from query string false "Earliest date to clear (YYYY-MM-DD), never before tomorrow"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/sessions [delete]
func (h *SessionHandler) ClearUpcoming(c *gin.Context) {
	removed, err := h.service.ClearUpcoming(c.Request.Context(), c.Param("id"), c.Query("from"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"removed": removed}, nil)
}
