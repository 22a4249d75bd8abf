package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Brekey53/atec-admin-api/internal/dto"
	"github.com/Brekey53/atec-admin-api/internal/models"
	appErrors "github.com/Brekey53/atec-admin-api/pkg/errors"
)

func TestScheduleGeneratorServiceGenerateSuccess(t *testing.T) {
	fixture := newGeneratorFixture(t, generatorFixtureConfig{})
	service := fixture.build(t)

	resp, err := service.Generate(context.Background(), dto.GenerateScheduleRequest{ClassID: "cl-1"})
	require.NoError(t, err)

	assert.Equal(t, "cl-1", resp.ClassID)
	assert.False(t, resp.Persisted)
	require.Len(t, resp.Summary, 1)
	assert.True(t, resp.Summary[0].Completed)
	assert.Equal(t, 6, resp.Summary[0].ScheduledHours)
	require.NotEmpty(t, resp.Sessions)
	assert.Equal(t, "Networking Basics", resp.Sessions[0].ModuleName)
	assert.Equal(t, "2025-01-06", resp.Sessions[0].Date)
}

func TestScheduleGeneratorServiceValidation(t *testing.T) {
	fixture := newGeneratorFixture(t, generatorFixtureConfig{})
	service := fixture.build(t)

	_, err := service.Generate(context.Background(), dto.GenerateScheduleRequest{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestScheduleGeneratorServiceClassNotFound(t *testing.T) {
	fixture := newGeneratorFixture(t, generatorFixtureConfig{classErr: sql.ErrNoRows})
	service := fixture.build(t)

	_, err := service.Generate(context.Background(), dto.GenerateScheduleRequest{ClassID: "missing"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestScheduleGeneratorServiceEmptyCurriculum(t *testing.T) {
	fixture := newGeneratorFixture(t, generatorFixtureConfig{emptyCurriculum: true})
	service := fixture.build(t)

	_, err := service.Generate(context.Background(), dto.GenerateScheduleRequest{ClassID: "cl-1"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
}

func TestScheduleGeneratorServiceBadMinStartDate(t *testing.T) {
	fixture := newGeneratorFixture(t, generatorFixtureConfig{})
	service := fixture.build(t)

	_, err := service.Generate(context.Background(), dto.GenerateScheduleRequest{ClassID: "cl-1", MinStartDate: "06/01/2025"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestScheduleGeneratorServiceMalformedMethodologyClock(t *testing.T) {
	fixture := newGeneratorFixture(t, generatorFixtureConfig{})
	fixture.classes.detail.Methodology.DayStart = "9h00"
	service := fixture.build(t)

	_, err := service.Generate(context.Background(), dto.GenerateScheduleRequest{ClassID: "cl-1"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
}

func TestScheduleGeneratorServicePersist(t *testing.T) {
	tx, mock := newGeneratorTxMock(t)
	fixture := newGeneratorFixture(t, generatorFixtureConfig{tx: tx})
	service := fixture.build(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := service.Generate(context.Background(), dto.GenerateScheduleRequest{ClassID: "cl-1", Persist: true})
	require.NoError(t, err)
	assert.True(t, resp.Persisted)
	assert.Len(t, fixture.sessions.bulkCreated, len(resp.Sessions))
	assert.Equal(t, []string{"cl-1"}, fixture.invalidator.invalidated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleGeneratorServicePersistRollsBackOnFailure(t *testing.T) {
	tx, mock := newGeneratorTxMock(t)
	fixture := newGeneratorFixture(t, generatorFixtureConfig{tx: tx})
	fixture.sessions.bulkErr = assert.AnError
	service := fixture.build(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := service.Generate(context.Background(), dto.GenerateScheduleRequest{ClassID: "cl-1", Persist: true})
	require.Error(t, err)
	assert.Empty(t, fixture.invalidator.invalidated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleGeneratorServiceAccountsForTaughtHours(t *testing.T) {
	fixture := newGeneratorFixture(t, generatorFixtureConfig{})
	fixture.sessions.taught = map[string]int{"cm-1": 4}
	service := fixture.build(t)

	resp, err := service.Generate(context.Background(), dto.GenerateScheduleRequest{ClassID: "cl-1"})
	require.NoError(t, err)
	require.Len(t, resp.Summary, 1)
	assert.True(t, resp.Summary[0].Completed)
	assert.Equal(t, resp.Summary[0].RequiredHours, resp.Summary[0].ScheduledHours)
	assert.Equal(t, 6, resp.Summary[0].ScheduledHours)

	generated := 0.0
	for _, session := range resp.Sessions {
		start, err := time.Parse("15:04", session.StartTime)
		require.NoError(t, err)
		end, err := time.Parse("15:04", session.EndTime)
		require.NoError(t, err)
		generated += end.Sub(start).Hours()
	}
	assert.Equal(t, 2.0, generated)
}

func TestScheduleGeneratorServiceBlockSizeOverride(t *testing.T) {
	fixture := newGeneratorFixture(t, generatorFixtureConfig{})
	service := fixture.build(t)

	resp, err := service.Generate(context.Background(), dto.GenerateScheduleRequest{ClassID: "cl-1", MaxBlockHours: 2, MinBlockHours: 2})
	require.NoError(t, err)
	for _, session := range resp.Sessions {
		start, err := time.Parse("15:04", session.StartTime)
		require.NoError(t, err)
		end, err := time.Parse("15:04", session.EndTime)
		require.NoError(t, err)
		assert.Equal(t, 2.0, end.Sub(start).Hours())
	}
}

// --- Fixtures ---

type generatorFixtureConfig struct {
	classErr        error
	emptyCurriculum bool
	tx              txProvider
}

type generatorFixture struct {
	classes      classReaderStub
	curriculum   curriculumStub
	assignments  assignmentStub
	availability availabilityStub
	rooms        roomStub
	sessions     *sessionFeederStub
	tx           txProvider
	invalidator  *invalidatorStub
}

// newGeneratorFixture wires a one-module class running Mon 2025-01-06 through
// Fri 2025-01-10 with a 09:00-17:00 template and a noon lunch hour.
func newGeneratorFixture(t *testing.T, cfg generatorFixtureConfig) *generatorFixture {
	t.Helper()

	detail := &models.ClassDetail{
		ClassCohort: models.ClassCohort{
			ID:        "cl-1",
			Name:      "Systems 2025",
			StartDate: testDay("2025-01-06"),
			EndDate:   testDay("2025-01-10"),
		},
		Methodology: models.Methodology{
			DayStart:   "09:00",
			DayEnd:     "17:00",
			LunchStart: "12:00",
			LunchEnd:   "13:00",
		},
	}

	curriculum := []models.CurriculumModuleDetail{
		{
			CurriculumModule: models.CurriculumModule{ID: "cm-1", ClassID: "cl-1", ModuleID: "mod-1", Priority: 1},
			ModuleName:       "Networking Basics",
			TotalHours:       6,
		},
	}
	if cfg.emptyCurriculum {
		curriculum = nil
	}

	var windows []models.AvailabilityWindow
	for i := 0; i < 5; i++ {
		windows = append(windows, models.AvailabilityWindow{
			TrainerID: "tr-1",
			Date:      testDay("2025-01-06").AddDate(0, 0, i),
			StartTime: "09:00",
			EndTime:   "17:00",
		})
	}

	return &generatorFixture{
		classes:    classReaderStub{detail: detail, err: cfg.classErr},
		curriculum: curriculumStub{items: curriculum},
		assignments: assignmentStub{items: []models.TrainerAssignmentDetail{
			{
				TrainerAssignment: models.TrainerAssignment{ID: "as-1", ClassID: "cl-1", CurriculumModuleID: "cm-1", TrainerID: "tr-1"},
				TrainerName:       "Ana Costa",
				ModuleName:        "Networking Basics",
			},
		}},
		availability: availabilityStub{windows: map[string][]models.AvailabilityWindow{"tr-1": windows}},
		rooms:        roomStub{items: []models.Room{{ID: "rm-1", Name: "Room 1", Category: "classroom"}}},
		sessions:     &sessionFeederStub{},
		tx:           cfg.tx,
		invalidator:  &invalidatorStub{},
	}
}

func (f *generatorFixture) build(t *testing.T) *ScheduleGeneratorService {
	t.Helper()
	return NewScheduleGeneratorService(
		f.classes,
		f.curriculum,
		f.assignments,
		f.availability,
		f.rooms,
		f.sessions,
		f.tx,
		f.invalidator,
		validator.New(),
		zap.NewNop(),
		ScheduleGeneratorConfig{MaxBlockHours: 3, MinBlockHours: 1, MaxActiveModules: 3, OverrunMonths: 6},
	)
}

type classReaderStub struct {
	detail *models.ClassDetail
	err    error
}

func (s classReaderStub) FindDetail(ctx context.Context, id string) (*models.ClassDetail, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.detail, nil
}

type curriculumStub struct {
	items []models.CurriculumModuleDetail
}

func (s curriculumStub) ListByClass(ctx context.Context, classID string) ([]models.CurriculumModuleDetail, error) {
	return s.items, nil
}

type assignmentStub struct {
	items []models.TrainerAssignmentDetail
}

func (s assignmentStub) ListByClass(ctx context.Context, classID string) ([]models.TrainerAssignmentDetail, error) {
	return s.items, nil
}

type availabilityStub struct {
	windows map[string][]models.AvailabilityWindow
}

func (s availabilityStub) ListByTrainer(ctx context.Context, trainerID string) ([]models.AvailabilityWindow, error) {
	return s.windows[trainerID], nil
}

type roomStub struct {
	items []models.Room
}

func (s roomStub) ListAll(ctx context.Context) ([]models.Room, error) {
	return s.items, nil
}

type sessionFeederStub struct {
	existing    []models.Session
	taught      map[string]int
	bulkCreated []models.Session
	bulkErr     error
}

func (s *sessionFeederStub) ListBetween(ctx context.Context, from, to time.Time) ([]models.Session, error) {
	return s.existing, nil
}

func (s *sessionFeederStub) SumHoursByModule(ctx context.Context, classID string) (map[string]int, error) {
	if s.taught == nil {
		return map[string]int{}, nil
	}
	return s.taught, nil
}

func (s *sessionFeederStub) BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, sessions []models.Session) error {
	if s.bulkErr != nil {
		return s.bulkErr
	}
	s.bulkCreated = append(s.bulkCreated, sessions...)
	return nil
}

type invalidatorStub struct {
	invalidated []string
}

func (s *invalidatorStub) InvalidateClass(ctx context.Context, classID string) error {
	s.invalidated = append(s.invalidated, classID)
	return nil
}

type generatorTxMock struct {
	db *sqlx.DB
}

func newGeneratorTxMock(t *testing.T) (txProvider, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { db.Close() })
	return &generatorTxMock{db: sqlxdb}, mock
}

func (m *generatorTxMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return m.db.BeginTxx(ctx, opts)
}
