package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Brekey53/atec-admin-api/internal/models"
	appErrors "github.com/Brekey53/atec-admin-api/pkg/errors"
)

type traineeRepository interface {
	List(ctx context.Context, filter models.TraineeFilter) ([]models.Trainee, int, error)
	FindByID(ctx context.Context, id string) (*models.Trainee, error)
	Create(ctx context.Context, trainee *models.Trainee) error
	Update(ctx context.Context, trainee *models.Trainee) error
	Delete(ctx context.Context, id string) error
}

// CreateTraineeRequest represents payload for enrolling trainees.
type CreateTraineeRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	FullName string  `json:"full_name" validate:"required"`
	Phone    *string `json:"phone" validate:"omitempty,max=50"`
	ClassID  *string `json:"class_id"`
}

// UpdateTraineeRequest represents payload for updating trainees.
type UpdateTraineeRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	FullName string  `json:"full_name" validate:"required"`
	Phone    *string `json:"phone" validate:"omitempty,max=50"`
	ClassID  *string `json:"class_id"`
	Active   *bool   `json:"active"`
}

// TraineeService orchestrates trainee enrollment operations.
type TraineeService struct {
	repo      traineeRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTraineeService constructs a TraineeService.
func NewTraineeService(repo traineeRepository, validate *validator.Validate, logger *zap.Logger) *TraineeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TraineeService{repo: repo, validator: validate, logger: logger}
}

// List returns trainees plus pagination data.
func (s *TraineeService) List(ctx context.Context, filter models.TraineeFilter) ([]models.Trainee, *models.Pagination, error) {
	trainees, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list trainees")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return trainees, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a trainee by id.
func (s *TraineeService) Get(ctx context.Context, id string) (*models.Trainee, error) {
	trainee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "trainee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainee")
	}
	return trainee, nil
}

// Create enrolls a new trainee.
func (s *TraineeService) Create(ctx context.Context, req CreateTraineeRequest) (*models.Trainee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid trainee payload")
	}

	trainee := &models.Trainee{
		Email:    strings.TrimSpace(req.Email),
		FullName: strings.TrimSpace(req.FullName),
		Phone:    normalizeOptional(req.Phone),
		ClassID:  req.ClassID,
		Active:   true,
	}
	if err := s.repo.Create(ctx, trainee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create trainee")
	}
	return trainee, nil
}

// Update modifies an existing trainee.
func (s *TraineeService) Update(ctx context.Context, id string, req UpdateTraineeRequest) (*models.Trainee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid trainee payload")
	}

	trainee, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	trainee.Email = strings.TrimSpace(req.Email)
	trainee.FullName = strings.TrimSpace(req.FullName)
	trainee.Phone = normalizeOptional(req.Phone)
	trainee.ClassID = req.ClassID
	if req.Active != nil {
		trainee.Active = *req.Active
	}

	if err := s.repo.Update(ctx, trainee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update trainee")
	}
	return trainee, nil
}

// Delete removes a trainee.
func (s *TraineeService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete trainee")
	}
	return nil
}
