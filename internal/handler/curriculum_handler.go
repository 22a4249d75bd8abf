package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Brekey53/atec-admin-api/internal/service"
	appErrors "github.com/Brekey53/atec-admin-api/pkg/errors"
	"github.com/Brekey53/atec-admin-api/pkg/response"
)

// CurriculumHandler exposes module catalogue and curriculum endpoints.
type CurriculumHandler struct {
	service *service.CurriculumService
}

// NewCurriculumHandler constructs the handler.
func NewCurriculumHandler(svc *service.CurriculumService) *CurriculumHandler {
	return &CurriculumHandler{service: svc}
}

// ListByClass godoc
// @Summary List the curriculum of a class in priority order
// @Tags Curriculum
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/curriculum [get]
func (h *CurriculumHandler) ListByClass(c *gin.Context) {
	entries, err := h.service.ListByClass(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Attach godoc
// @Summary Attach a module to a class curriculum
// @Tags Curriculum
// @Accept json
// @Produce json
// @Param payload body service.AttachModuleRequest true "Curriculum payload"
// @Success 201 {object} response.Envelope
// @Router /curriculum [post]
func (h *CurriculumHandler) Attach(c *gin.Context) {
	var req service.AttachModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid curriculum payload"))
		return
	}
	entry, err := h.service.Attach(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Reprioritize godoc
// @Summary Move a curriculum entry to a new priority rank
// @Tags Curriculum
// @Accept json
// @Produce json
// @Param id path string true "Curriculum entry ID"
// @Success 200 {object} response.Envelope
// @Router /curriculum/{id}/priority [put]
func (h *CurriculumHandler) Reprioritize(c *gin.Context) {
	var req struct {
		Priority int `json:"priority"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid priority payload"))
		return
	}
	if err := h.service.Reprioritize(c.Request.Context(), c.Param("id"), req.Priority); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"priority": req.Priority}, nil)
}

// Detach godoc
// @Summary Remove a module from its class curriculum
// @Tags Curriculum
// @Param id path string true "Curriculum entry ID"
// @Success 204
// @Router /curriculum/{id} [delete]
func (h *CurriculumHandler) Detach(c *gin.Context) {
	if err := h.service.Detach(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListModules godoc
// @Summary List the module catalogue
// @Tags Curriculum
// @Produce json
// @Param search query string false "Name search"
// @Success 200 {object} response.Envelope
// @Router /modules [get]
func (h *CurriculumHandler) ListModules(c *gin.Context) {
	modules, pagination, err := h.service.ListModules(c.Request.Context(), c.Query("search"), intQuery(c, "page", 1), intQuery(c, "pageSize", 20))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, modules, pagination)
}

// CreateModule godoc
// @Summary Create a module
// @Tags Curriculum
// @Accept json
// @Produce json
// @Param payload body service.ModuleRequest true "Module payload"
// @Success 201 {object} response.Envelope
// @Router /modules [post]
func (h *CurriculumHandler) CreateModule(c *gin.Context) {
	var req service.ModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid module payload"))
		return
	}
	module, err := h.service.CreateModule(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, module)
}

// UpdateModule godoc
// @Summary Update a module
// @Tags Curriculum
// @Accept json
// @Produce json
// @Param id path string true "Module ID"
// @Param payload body service.ModuleRequest true "Module payload"
// @Success 200 {object} response.Envelope
// @Router /modules/{id} [put]
func (h *CurriculumHandler) UpdateModule(c *gin.Context) {
	var req service.ModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid module payload"))
		return
	}
	module, err := h.service.UpdateModule(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, module, nil)
}

// ListSubjectTypes godoc
// @Summary List subject types with room category constraints
// @Tags Curriculum
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /subject-types [get]
func (h *CurriculumHandler) ListSubjectTypes(c *gin.Context) {
	types, err := h.service.ListSubjectTypes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, types, nil)
}

// CreateSubjectType godoc
// @Summary Create a subject type
// @Tags Curriculum
// @Accept json
// @Produce json
// @Param payload body service.SubjectTypeRequest true "Subject type payload"
// @Success 201 {object} response.Envelope
// @Router /subject-types [post]
func (h *CurriculumHandler) CreateSubjectType(c *gin.Context) {
	var req service.SubjectTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid subject type payload"))
		return
	}
	subjectType, err := h.service.CreateSubjectType(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, subjectType)
}
