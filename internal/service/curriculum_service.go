package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Brekey53/atec-admin-api/internal/models"
	appErrors "github.com/Brekey53/atec-admin-api/pkg/errors"
)

type curriculumRepository interface {
	ListByClass(ctx context.Context, classID string) ([]models.CurriculumModuleDetail, error)
	FindByID(ctx context.Context, id string) (*models.CurriculumModule, error)
	Create(ctx context.Context, entry *models.CurriculumModule) error
	UpdatePriority(ctx context.Context, id string, priority int) error
	Delete(ctx context.Context, id string) error
}

type moduleRepository interface {
	List(ctx context.Context, search string, page, pageSize int) ([]models.Module, int, error)
	FindByID(ctx context.Context, id string) (*models.Module, error)
	Create(ctx context.Context, module *models.Module) error
	Update(ctx context.Context, module *models.Module) error
	Delete(ctx context.Context, id string) error
	ListSubjectTypes(ctx context.Context) ([]models.SubjectType, error)
	CreateSubjectType(ctx context.Context, subjectType *models.SubjectType) error
}

// AttachModuleRequest binds a module to a class curriculum at a priority rank.
type AttachModuleRequest struct {
	ClassID  string `json:"class_id" validate:"required"`
	ModuleID string `json:"module_id" validate:"required"`
	Priority int    `json:"priority" validate:"required,min=1"`
}

// ModuleRequest represents payload for creating or updating modules.
type ModuleRequest struct {
	Name          string  `json:"name" validate:"required"`
	TotalHours    int     `json:"total_hours" validate:"required,min=1"`
	SubjectTypeID *string `json:"subject_type_id"`
}

// SubjectTypeRequest represents payload for creating subject types.
type SubjectTypeRequest struct {
	Name           string   `json:"name" validate:"required"`
	RoomCategories []string `json:"room_categories"`
}

// CurriculumService orchestrates module catalogue and curriculum operations.
type CurriculumService struct {
	curriculum curriculumRepository
	modules    moduleRepository
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewCurriculumService constructs a CurriculumService.
func NewCurriculumService(curriculum curriculumRepository, modules moduleRepository, validate *validator.Validate, logger *zap.Logger) *CurriculumService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CurriculumService{curriculum: curriculum, modules: modules, validator: validate, logger: logger}
}

// ListByClass returns the ordered curriculum of a class.
func (s *CurriculumService) ListByClass(ctx context.Context, classID string) ([]models.CurriculumModuleDetail, error) {
	entries, err := s.curriculum.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list curriculum")
	}
	return entries, nil
}

// Attach adds a module to a class curriculum. A module may appear only once
// per class and priorities must stay unique within the class.
func (s *CurriculumService) Attach(ctx context.Context, req AttachModuleRequest) (*models.CurriculumModule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid curriculum payload")
	}

	if _, err := s.modules.FindByID(ctx, req.ModuleID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "module not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load module")
	}

	existing, err := s.curriculum.ListByClass(ctx, req.ClassID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing curriculum")
	}
	for _, entry := range existing {
		if entry.ModuleID == req.ModuleID {
			return nil, appErrors.Clone(appErrors.ErrConflict, "module already attached to class")
		}
		if entry.Priority == req.Priority {
			return nil, appErrors.Clone(appErrors.ErrConflict, "priority rank already in use")
		}
	}

	entry := &models.CurriculumModule{
		ClassID:  req.ClassID,
		ModuleID: req.ModuleID,
		Priority: req.Priority,
	}
	if err := s.curriculum.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to attach module")
	}
	return entry, nil
}

// Reprioritize moves a curriculum entry to a new priority rank.
func (s *CurriculumService) Reprioritize(ctx context.Context, id string, priority int) error {
	if priority < 1 {
		return appErrors.Clone(appErrors.ErrValidation, "priority must be at least 1")
	}

	entry, err := s.curriculum.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "curriculum entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load curriculum entry")
	}

	siblings, err := s.curriculum.ListByClass(ctx, entry.ClassID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check sibling priorities")
	}
	for _, sibling := range siblings {
		if sibling.ID != id && sibling.Priority == priority {
			return appErrors.Clone(appErrors.ErrConflict, "priority rank already in use")
		}
	}

	if err := s.curriculum.UpdatePriority(ctx, id, priority); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update priority")
	}
	return nil
}

// Detach removes a module from its class curriculum.
func (s *CurriculumService) Detach(ctx context.Context, id string) error {
	if err := s.curriculum.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to detach module")
	}
	return nil
}

// ListModules returns the module catalogue.
func (s *CurriculumService) ListModules(ctx context.Context, search string, page, pageSize int) ([]models.Module, *models.Pagination, error) {
	modules, total, err := s.modules.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list modules")
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return modules, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// CreateModule registers a new module in the catalogue.
func (s *CurriculumService) CreateModule(ctx context.Context, req ModuleRequest) (*models.Module, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid module payload")
	}

	module := &models.Module{
		Name:          req.Name,
		TotalHours:    req.TotalHours,
		SubjectTypeID: req.SubjectTypeID,
	}
	if err := s.modules.Create(ctx, module); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create module")
	}
	return module, nil
}

// UpdateModule modifies an existing module.
func (s *CurriculumService) UpdateModule(ctx context.Context, id string, req ModuleRequest) (*models.Module, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid module payload")
	}

	module, err := s.modules.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "module not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load module")
	}

	module.Name = req.Name
	module.TotalHours = req.TotalHours
	module.SubjectTypeID = req.SubjectTypeID

	if err := s.modules.Update(ctx, module); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update module")
	}
	return module, nil
}

// ListSubjectTypes returns every subject type with its room categories.
func (s *CurriculumService) ListSubjectTypes(ctx context.Context) ([]models.SubjectType, error) {
	types, err := s.modules.ListSubjectTypes(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subject types")
	}
	return types, nil
}

// CreateSubjectType registers a new subject type.
func (s *CurriculumService) CreateSubjectType(ctx context.Context, req SubjectTypeRequest) (*models.SubjectType, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject type payload")
	}

	subjectType := &models.SubjectType{
		Name:           req.Name,
		RoomCategories: req.RoomCategories,
	}
	if err := s.modules.CreateSubjectType(ctx, subjectType); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject type")
	}
	return subjectType, nil
}
