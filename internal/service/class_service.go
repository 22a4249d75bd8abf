package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Brekey53/atec-admin-api/internal/models"
	appErrors "github.com/Brekey53/atec-admin-api/pkg/errors"
)

type classRepository interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.ClassCohort, int, error)
	FindByID(ctx context.Context, id string) (*models.ClassCohort, error)
	FindDetail(ctx context.Context, id string) (*models.ClassDetail, error)
	Create(ctx context.Context, class *models.ClassCohort) error
	Update(ctx context.Context, class *models.ClassCohort) error
	Delete(ctx context.Context, id string) error
}

type methodologyRepository interface {
	ListAll(ctx context.Context) ([]models.Methodology, error)
	FindByID(ctx context.Context, id string) (*models.Methodology, error)
	Create(ctx context.Context, methodology *models.Methodology) error
	Update(ctx context.Context, methodology *models.Methodology) error
	Delete(ctx context.Context, id string) error
}

// CreateClassRequest represents payload for creating class cohorts.
type CreateClassRequest struct {
	Name          string `json:"name" validate:"required"`
	CourseID      string `json:"course_id" validate:"required"`
	MethodologyID string `json:"methodology_id" validate:"required"`
	StartDate     string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// UpdateClassRequest represents payload for updating class cohorts.
type UpdateClassRequest struct {
	Name          string `json:"name" validate:"required"`
	CourseID      string `json:"course_id" validate:"required"`
	MethodologyID string `json:"methodology_id" validate:"required"`
	StartDate     string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// MethodologyRequest represents payload for creating or updating methodologies.
type MethodologyRequest struct {
	Name       string `json:"name" validate:"required"`
	DayStart   string `json:"day_start" validate:"required,datetime=15:04"`
	DayEnd     string `json:"day_end" validate:"required,datetime=15:04"`
	LunchStart string `json:"lunch_start" validate:"required,datetime=15:04"`
	LunchEnd   string `json:"lunch_end" validate:"required,datetime=15:04"`
}

// ClassService orchestrates class cohort and methodology operations.
type ClassService struct {
	repo          classRepository
	methodologies methodologyRepository
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewClassService constructs a ClassService.
func NewClassService(repo classRepository, methodologies methodologyRepository, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, methodologies: methodologies, validator: validate, logger: logger}
}

// List returns class cohorts plus pagination data.
func (s *ClassService) List(ctx context.Context, filter models.ClassFilter) ([]models.ClassCohort, *models.Pagination, error) {
	classes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return classes, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a class with its methodology resolved.
func (s *ClassService) Get(ctx context.Context, id string) (*models.ClassDetail, error) {
	detail, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return detail, nil
}

// Create registers a new class cohort.
func (s *ClassService) Create(ctx context.Context, req CreateClassRequest) (*models.ClassCohort, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	start, end, err := parseClassRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if _, err := s.methodologies.FindByID(ctx, req.MethodologyID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "methodology not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load methodology")
	}

	class := &models.ClassCohort{
		Name:          strings.TrimSpace(req.Name),
		CourseID:      req.CourseID,
		MethodologyID: req.MethodologyID,
		StartDate:     start,
		EndDate:       end,
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}
	return class, nil
}

// Update modifies an existing class cohort.
func (s *ClassService) Update(ctx context.Context, id string, req UpdateClassRequest) (*models.ClassCohort, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	start, end, err := parseClassRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	class.Name = strings.TrimSpace(req.Name)
	class.CourseID = req.CourseID
	class.MethodologyID = req.MethodologyID
	class.StartDate = start
	class.EndDate = end

	if err := s.repo.Update(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class")
	}
	return class, nil
}

// Delete removes a class cohort.
func (s *ClassService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete class")
	}
	return nil
}

// ListMethodologies returns every daily time template.
func (s *ClassService) ListMethodologies(ctx context.Context) ([]models.Methodology, error) {
	methodologies, err := s.methodologies.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list methodologies")
	}
	return methodologies, nil
}

// CreateMethodology registers a new daily time template. The template must
// describe a coherent day: start before lunch, lunch before end.
func (s *ClassService) CreateMethodology(ctx context.Context, req MethodologyRequest) (*models.Methodology, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid methodology payload")
	}
	if err := validateDayTemplate(req); err != nil {
		return nil, err
	}

	methodology := &models.Methodology{
		Name:       strings.TrimSpace(req.Name),
		DayStart:   req.DayStart,
		DayEnd:     req.DayEnd,
		LunchStart: req.LunchStart,
		LunchEnd:   req.LunchEnd,
	}
	if err := s.methodologies.Create(ctx, methodology); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create methodology")
	}
	return methodology, nil
}

// UpdateMethodology modifies an existing daily time template.
func (s *ClassService) UpdateMethodology(ctx context.Context, id string, req MethodologyRequest) (*models.Methodology, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid methodology payload")
	}
	if err := validateDayTemplate(req); err != nil {
		return nil, err
	}

	methodology, err := s.methodologies.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "methodology not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load methodology")
	}

	methodology.Name = strings.TrimSpace(req.Name)
	methodology.DayStart = req.DayStart
	methodology.DayEnd = req.DayEnd
	methodology.LunchStart = req.LunchStart
	methodology.LunchEnd = req.LunchEnd

	if err := s.methodologies.Update(ctx, methodology); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update methodology")
	}
	return methodology, nil
}

func parseClassRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "start_date must use the 2006-01-02 format")
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "end_date must use the 2006-01-02 format")
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "start_date must be before end_date")
	}
	return start, end, nil
}

func validateDayTemplate(req MethodologyRequest) error {
	if !(req.DayStart < req.LunchStart && req.LunchStart < req.LunchEnd && req.LunchEnd < req.DayEnd) {
		return appErrors.Clone(appErrors.ErrValidation, "day template must order day start, lunch and day end")
	}
	return nil
}
