package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brekey53/atec-admin-api/internal/dto"
	"github.com/Brekey53/atec-admin-api/internal/models"
	appErrors "github.com/Brekey53/atec-admin-api/pkg/errors"
)

func newSessionServiceFixture(now time.Time) (*SessionService, *sessionRepoStub) {
	repo := &sessionRepoStub{items: map[string]*models.Session{}}
	service := NewSessionService(repo, nil, time.Minute, nil, nil)
	service.now = func() time.Time { return now }
	return service, repo
}

func TestSessionServiceTimetableFiltersRange(t *testing.T) {
	service, repo := newSessionServiceFixture(time.Now().UTC())
	repo.detail = []models.SessionDetail{
		{Session: models.Session{ID: "s1", ClassID: "cl-1", Date: testDay("2025-01-06")}},
		{Session: models.Session{ID: "s2", ClassID: "cl-1", Date: testDay("2025-01-08")}},
		{Session: models.Session{ID: "s3", ClassID: "cl-1", Date: testDay("2025-01-10")}},
	}

	sessions, err := service.Timetable(context.Background(), dto.TimetableQuery{
		ClassID:  "cl-1",
		DateFrom: "2025-01-07",
		DateTo:   "2025-01-09",
	})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "s2", sessions[0].ID)
}

func TestSessionServiceTimetableRequiresClass(t *testing.T) {
	service, _ := newSessionServiceFixture(time.Now().UTC())

	_, err := service.Timetable(context.Background(), dto.TimetableQuery{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestSessionServiceDeleteRejectsStartedSession(t *testing.T) {
	now := testDay("2025-01-06").Add(10 * time.Hour)
	service, repo := newSessionServiceFixture(now)
	repo.items["s1"] = &models.Session{
		ID: "s1", ClassID: "cl-1",
		Date: testDay("2025-01-06"), StartTime: "09:00", EndTime: "12:00",
	}

	err := service.Delete(context.Background(), "s1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrSessionStarted.Code, appErr.Code)
	assert.Empty(t, repo.deleted)
}

func TestSessionServiceDeleteFutureSession(t *testing.T) {
	now := testDay("2025-01-05")
	service, repo := newSessionServiceFixture(now)
	repo.items["s1"] = &models.Session{
		ID: "s1", ClassID: "cl-1",
		Date: testDay("2025-01-06"), StartTime: "09:00", EndTime: "12:00",
	}

	require.NoError(t, service.Delete(context.Background(), "s1"))
	assert.Equal(t, []string{"s1"}, repo.deleted)
}

func TestSessionServiceClearUpcomingNeverTouchesPast(t *testing.T) {
	now := testDay("2025-01-08")
	service, repo := newSessionServiceFixture(now)

	removed, err := service.ClearUpcoming(context.Background(), "cl-1", "2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, repo.clearedFrom, testDay("2025-01-09"))
	assert.Equal(t, 0, removed)
}

// --- Stubs ---

type sessionRepoStub struct {
	items       map[string]*models.Session
	detail      []models.SessionDetail
	deleted     []string
	clearedFrom time.Time
}

func (s *sessionRepoStub) List(ctx context.Context, filter models.SessionFilter) ([]models.Session, int, error) {
	out := make([]models.Session, 0, len(s.items))
	for _, session := range s.items {
		out = append(out, *session)
	}
	return out, len(out), nil
}

func (s *sessionRepoStub) ListDetailByClass(ctx context.Context, classID string) ([]models.SessionDetail, error) {
	return s.detail, nil
}

func (s *sessionRepoStub) FindByID(ctx context.Context, id string) (*models.Session, error) {
	session, ok := s.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return session, nil
}

func (s *sessionRepoStub) Delete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	delete(s.items, id)
	return nil
}

func (s *sessionRepoStub) DeleteFutureByClass(ctx context.Context, classID string, from time.Time) (int, error) {
	s.clearedFrom = from
	return 0, nil
}
