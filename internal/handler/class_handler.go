package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Brekey53/atec-admin-api/internal/models"
	"github.com/Brekey53/atec-admin-api/internal/service"
	appErrors "github.com/Brekey53/atec-admin-api/pkg/errors"
	"github.com/Brekey53/atec-admin-api/pkg/response"
)

// ClassHandler exposes class cohort and methodology endpoints.
type ClassHandler struct {
	service *service.ClassService
}

// NewClassHandler constructs the handler.
func NewClassHandler(svc *service.ClassService) *ClassHandler {
	return &ClassHandler{service: svc}
}

// List godoc
// @Summary List class cohorts
// @Tags Classes
// @Produce json
// @Param courseId query string false "Filter by course"
// @Param search query string false "Name search"
// @Param activeOn query string false "Only classes running on this date (2006-01-02)"
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	filter := models.ClassFilter{
		CourseID:  c.Query("courseId"),
		Search:    c.Query("search"),
		Page:      intQuery(c, "page", 1),
		PageSize:  intQuery(c, "pageSize", 20),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	if activeOn := c.Query("activeOn"); activeOn != "" {
		parsed, err := time.Parse("2006-01-02", activeOn)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "activeOn must use the 2006-01-02 format"))
			return
		}
		filter.ActiveOn = &parsed
	}

	classes, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, pagination)
}

// Get godoc
// @Summary Get a class with its methodology
// @Tags Classes
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id} [get]
func (h *ClassHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Create godoc
// @Summary Create a class cohort
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body service.CreateClassRequest true "Class payload"
// @Success 201 {object} response.Envelope
// @Router /classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	var req service.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid class payload"))
		return
	}
	class, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, class)
}

// Update godoc
// @Summary Update a class cohort
// @Tags Classes
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param payload body service.UpdateClassRequest true "Class payload"
// @Success 200 {object} response.Envelope
// @Router /classes/{id} [put]
func (h *ClassHandler) Update(c *gin.Context) {
	var req service.UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid class payload"))
		return
	}
	class, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, class, nil)
}

// Delete godoc
// @Summary Delete a class cohort
// @Tags Classes
// @Param id path string true "Class ID"
// @Success 204
// @Router /classes/{id} [delete]
func (h *ClassHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListMethodologies godoc
// @Summary List daily time templates
// @Tags Classes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /methodologies [get]
func (h *ClassHandler) ListMethodologies(c *gin.Context) {
	methodologies, err := h.service.ListMethodologies(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, methodologies, nil)
}

// CreateMethodology godoc
// @Summary Create a daily time template
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body service.MethodologyRequest true "Methodology payload"
// @Success 201 {object} response.Envelope
// @Router /methodologies [post]
func (h *ClassHandler) CreateMethodology(c *gin.Context) {
	var req service.MethodologyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid methodology payload"))
		return
	}
	methodology, err := h.service.CreateMethodology(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, methodology)
}

// UpdateMethodology godoc
// @Summary Update a daily time template
// @Tags Classes
// @Accept json
// @Produce json
// @Param id path string true "Methodology ID"
// @Param payload body service.MethodologyRequest true "Methodology payload"
// @Success 200 {object} response.Envelope
// @Router /methodologies/{id} [put]
func (h *ClassHandler) UpdateMethodology(c *gin.Context) {
	var req service.MethodologyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid methodology payload"))
		return
	}
	methodology, err := h.service.UpdateMethodology(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, methodology, nil)
}
