package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brekey53/atec-admin-api/internal/models"
	appErrors "github.com/Brekey53/atec-admin-api/pkg/errors"
)

func newTrainerServiceFixture() (*TrainerService, *availabilityRepoStub, *assignmentRepoStub) {
	repo := &trainerRepoStub{items: map[string]*models.Trainer{
		"tr-1": {ID: "tr-1", Email: "ana@atec.pt", FullName: "Ana Costa", Active: true},
	}}
	availability := &availabilityRepoStub{}
	assignments := &assignmentRepoStub{}
	return NewTrainerService(repo, availability, assignments, nil, nil), availability, assignments
}

func TestTrainerServiceReplaceAvailability(t *testing.T) {
	service, availability, _ := newTrainerServiceFixture()

	windows, err := service.ReplaceAvailability(context.Background(), "tr-1", ReplaceAvailabilityRequest{
		Windows: []AvailabilityWindowRequest{
			{Date: "2025-01-06", StartTime: "09:00", EndTime: "17:00"},
			{Date: "2025-01-07", StartTime: "09:00", EndTime: "12:00"},
		},
	})
	require.NoError(t, err)
	assert.Len(t, windows, 2)
	assert.Equal(t, "tr-1", availability.replacedFor)
	assert.Len(t, availability.replacedWith, 2)
}

func TestTrainerServiceReplaceAvailabilityRejectsInvertedWindow(t *testing.T) {
	service, _, _ := newTrainerServiceFixture()

	_, err := service.ReplaceAvailability(context.Background(), "tr-1", ReplaceAvailabilityRequest{
		Windows: []AvailabilityWindowRequest{
			{Date: "2025-01-06", StartTime: "17:00", EndTime: "09:00"},
		},
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestTrainerServiceReplaceAvailabilityUnknownTrainer(t *testing.T) {
	service, _, _ := newTrainerServiceFixture()

	_, err := service.ReplaceAvailability(context.Background(), "missing", ReplaceAvailabilityRequest{
		Windows: []AvailabilityWindowRequest{
			{Date: "2025-01-06", StartTime: "09:00", EndTime: "17:00"},
		},
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestTrainerServiceAssignRejectsSecondTrainer(t *testing.T) {
	service, _, assignments := newTrainerServiceFixture()
	assignments.items = []models.TrainerAssignmentDetail{
		{TrainerAssignment: models.TrainerAssignment{ID: "as-1", ClassID: "cl-1", CurriculumModuleID: "cm-1", TrainerID: "tr-9"}},
	}

	_, err := service.Assign(context.Background(), AssignTrainerRequest{
		ClassID:            "cl-1",
		CurriculumModuleID: "cm-1",
		TrainerID:          "tr-1",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestTrainerServiceAssignCreates(t *testing.T) {
	service, _, assignments := newTrainerServiceFixture()

	assignment, err := service.Assign(context.Background(), AssignTrainerRequest{
		ClassID:            "cl-1",
		CurriculumModuleID: "cm-1",
		TrainerID:          "tr-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "cm-1", assignment.CurriculumModuleID)
	assert.Len(t, assignments.created, 1)
}

// --- Stubs ---

type trainerRepoStub struct {
	items map[string]*models.Trainer
}

func (s *trainerRepoStub) List(ctx context.Context, filter models.TrainerFilter) ([]models.Trainer, int, error) {
	out := make([]models.Trainer, 0, len(s.items))
	for _, trainer := range s.items {
		out = append(out, *trainer)
	}
	return out, len(out), nil
}

func (s *trainerRepoStub) FindByID(ctx context.Context, id string) (*models.Trainer, error) {
	trainer, ok := s.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return trainer, nil
}

func (s *trainerRepoStub) Create(ctx context.Context, trainer *models.Trainer) error {
	s.items[trainer.ID] = trainer
	return nil
}

func (s *trainerRepoStub) Update(ctx context.Context, trainer *models.Trainer) error {
	s.items[trainer.ID] = trainer
	return nil
}

func (s *trainerRepoStub) Delete(ctx context.Context, id string) error {
	delete(s.items, id)
	return nil
}

type availabilityRepoStub struct {
	windows      map[string][]models.AvailabilityWindow
	replacedFor  string
	replacedWith []models.AvailabilityWindow
}

func (s *availabilityRepoStub) ListByTrainer(ctx context.Context, trainerID string) ([]models.AvailabilityWindow, error) {
	return s.windows[trainerID], nil
}

func (s *availabilityRepoStub) ReplaceForTrainer(ctx context.Context, trainerID string, windows []models.AvailabilityWindow) error {
	s.replacedFor = trainerID
	s.replacedWith = windows
	return nil
}

func (s *availabilityRepoStub) Delete(ctx context.Context, id string) error {
	return nil
}

type assignmentRepoStub struct {
	items   []models.TrainerAssignmentDetail
	created []models.TrainerAssignment
}

func (s *assignmentRepoStub) ListByClass(ctx context.Context, classID string) ([]models.TrainerAssignmentDetail, error) {
	return s.items, nil
}

func (s *assignmentRepoStub) ListByTrainer(ctx context.Context, trainerID string) ([]models.TrainerAssignment, error) {
	return nil, nil
}

func (s *assignmentRepoStub) Create(ctx context.Context, assignment *models.TrainerAssignment) error {
	s.created = append(s.created, *assignment)
	return nil
}

func (s *assignmentRepoStub) Delete(ctx context.Context, id string) error {
	return nil
}
