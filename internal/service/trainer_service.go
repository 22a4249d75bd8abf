package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Brekey53/atec-admin-api/internal/models"
	appErrors "github.com/Brekey53/atec-admin-api/pkg/errors"
)

type trainerRepository interface {
	List(ctx context.Context, filter models.TrainerFilter) ([]models.Trainer, int, error)
	FindByID(ctx context.Context, id string) (*models.Trainer, error)
	Create(ctx context.Context, trainer *models.Trainer) error
	Update(ctx context.Context, trainer *models.Trainer) error
	Delete(ctx context.Context, id string) error
}

type availabilityRepository interface {
	ListByTrainer(ctx context.Context, trainerID string) ([]models.AvailabilityWindow, error)
	ReplaceForTrainer(ctx context.Context, trainerID string, windows []models.AvailabilityWindow) error
	Delete(ctx context.Context, id string) error
}

type assignmentRepository interface {
	ListByClass(ctx context.Context, classID string) ([]models.TrainerAssignmentDetail, error)
	ListByTrainer(ctx context.Context, trainerID string) ([]models.TrainerAssignment, error)
	Create(ctx context.Context, assignment *models.TrainerAssignment) error
	Delete(ctx context.Context, id string) error
}

// CreateTrainerRequest represents payload for creating trainers.
type CreateTrainerRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	FullName  string  `json:"full_name" validate:"required"`
	Phone     *string `json:"phone" validate:"omitempty,max=50"`
	Expertise *string `json:"expertise" validate:"omitempty,max=500"`
}

// UpdateTrainerRequest represents payload for updating trainers.
type UpdateTrainerRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	FullName  string  `json:"full_name" validate:"required"`
	Phone     *string `json:"phone" validate:"omitempty,max=50"`
	Expertise *string `json:"expertise" validate:"omitempty,max=500"`
	Active    *bool   `json:"active"`
}

// AvailabilityWindowRequest is one declared bookable range.
type AvailabilityWindowRequest struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
}

// ReplaceAvailabilityRequest swaps a trainer's full availability declaration.
type ReplaceAvailabilityRequest struct {
	Windows []AvailabilityWindowRequest `json:"windows" validate:"required,dive"`
}

// AssignTrainerRequest binds a trainer to one curriculum module.
type AssignTrainerRequest struct {
	ClassID            string `json:"class_id" validate:"required"`
	CurriculumModuleID string `json:"curriculum_module_id" validate:"required"`
	TrainerID          string `json:"trainer_id" validate:"required"`
}

// TrainerService orchestrates trainer, availability and assignment operations.
type TrainerService struct {
	repo         trainerRepository
	availability availabilityRepository
	assignments  assignmentRepository
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewTrainerService constructs a TrainerService.
func NewTrainerService(repo trainerRepository, availability availabilityRepository, assignments assignmentRepository, validate *validator.Validate, logger *zap.Logger) *TrainerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrainerService{repo: repo, availability: availability, assignments: assignments, validator: validate, logger: logger}
}

// List returns trainers plus pagination data.
func (s *TrainerService) List(ctx context.Context, filter models.TrainerFilter) ([]models.Trainer, *models.Pagination, error) {
	trainers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list trainers")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return trainers, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a trainer by id.
func (s *TrainerService) Get(ctx context.Context, id string) (*models.Trainer, error) {
	trainer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "trainer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer")
	}
	return trainer, nil
}

// Create registers a new trainer record.
func (s *TrainerService) Create(ctx context.Context, req CreateTrainerRequest) (*models.Trainer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid trainer payload")
	}

	trainer := &models.Trainer{
		Email:     strings.TrimSpace(req.Email),
		FullName:  strings.TrimSpace(req.FullName),
		Phone:     normalizeOptional(req.Phone),
		Expertise: normalizeOptional(req.Expertise),
		Active:    true,
	}
	if err := s.repo.Create(ctx, trainer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create trainer")
	}
	return trainer, nil
}

// Update modifies an existing trainer.
func (s *TrainerService) Update(ctx context.Context, id string, req UpdateTrainerRequest) (*models.Trainer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid trainer payload")
	}

	trainer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	trainer.Email = strings.TrimSpace(req.Email)
	trainer.FullName = strings.TrimSpace(req.FullName)
	trainer.Phone = normalizeOptional(req.Phone)
	trainer.Expertise = normalizeOptional(req.Expertise)
	if req.Active != nil {
		trainer.Active = *req.Active
	}

	if err := s.repo.Update(ctx, trainer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update trainer")
	}
	return trainer, nil
}

// Delete removes a trainer record.
func (s *TrainerService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete trainer")
	}
	return nil
}

// ListAvailability returns a trainer's declared windows.
func (s *TrainerService) ListAvailability(ctx context.Context, trainerID string) ([]models.AvailabilityWindow, error) {
	if _, err := s.Get(ctx, trainerID); err != nil {
		return nil, err
	}
	windows, err := s.availability.ListByTrainer(ctx, trainerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list availability")
	}
	return windows, nil
}

// ReplaceAvailability swaps a trainer's declared windows for the given set.
// Each window must start before it ends.
func (s *TrainerService) ReplaceAvailability(ctx context.Context, trainerID string, req ReplaceAvailabilityRequest) ([]models.AvailabilityWindow, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}
	if _, err := s.Get(ctx, trainerID); err != nil {
		return nil, err
	}

	windows := make([]models.AvailabilityWindow, 0, len(req.Windows))
	for _, entry := range req.Windows {
		if entry.StartTime >= entry.EndTime {
			return nil, appErrors.Clone(appErrors.ErrValidation, "availability window must start before it ends")
		}
		date, err := time.Parse("2006-01-02", entry.Date)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "availability date must use the 2006-01-02 format")
		}
		windows = append(windows, models.AvailabilityWindow{
			TrainerID: trainerID,
			Date:      date,
			StartTime: entry.StartTime,
			EndTime:   entry.EndTime,
		})
	}

	if err := s.availability.ReplaceForTrainer(ctx, trainerID, windows); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace availability")
	}
	s.logger.Info("availability replaced", zap.String("trainer_id", trainerID), zap.Int("windows", len(windows)))
	return windows, nil
}

// DeleteAvailability removes one declared window.
func (s *TrainerService) DeleteAvailability(ctx context.Context, windowID string) error {
	if err := s.availability.Delete(ctx, windowID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "availability window not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete availability window")
	}
	s.logger.Info("availability window removed", zap.String("window_id", windowID))
	return nil
}

// ListAssignments returns every assignment of a class.
func (s *TrainerService) ListAssignments(ctx context.Context, classID string) ([]models.TrainerAssignmentDetail, error) {
	assignments, err := s.assignments.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return assignments, nil
}

// Assign binds a trainer to one curriculum module of a class. A module
// already holding an assignment keeps its first trainer.
func (s *TrainerService) Assign(ctx context.Context, req AssignTrainerRequest) (*models.TrainerAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	if _, err := s.Get(ctx, req.TrainerID); err != nil {
		return nil, err
	}

	existing, err := s.assignments.ListByClass(ctx, req.ClassID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing assignments")
	}
	for _, assignment := range existing {
		if assignment.CurriculumModuleID == req.CurriculumModuleID {
			return nil, appErrors.Clone(appErrors.ErrConflict, "module already has an assigned trainer")
		}
	}

	assignment := &models.TrainerAssignment{
		ClassID:            req.ClassID,
		CurriculumModuleID: req.CurriculumModuleID,
		TrainerID:          req.TrainerID,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	return assignment, nil
}

// Unassign removes a trainer assignment.
func (s *TrainerService) Unassign(ctx context.Context, assignmentID string) error {
	if err := s.assignments.Delete(ctx, assignmentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assignment")
	}
	return nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
