package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brekey53/atec-admin-api/internal/models"
)

func newSessionRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func sessionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "class_id", "curriculum_module_id", "trainer_id", "room_id", "date", "start_time", "end_time", "created_at"})
}

func TestSessionRepositoryListBetween(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	from := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	rows := sessionRows().
		AddRow("s1", "cl-1", "cm-1", "tr-1", "rm-1", from, "09:00", "12:00", time.Now()).
		AddRow("s2", "cl-2", "cm-9", "tr-2", "rm-2", to, "13:00", "16:00", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, class_id, curriculum_module_id, trainer_id, room_id, date, start_time, end_time, created_at FROM sessions WHERE date >= $1 AND date <= $2 ORDER BY date ASC, start_time ASC")).
		WithArgs(from, to).
		WillReturnRows(rows)

	sessions, err := repo.ListBetween(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "cl-2", sessions[1].ClassID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositorySumHoursByModule(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	rows := sqlmock.NewRows([]string{"curriculum_module_id", "start_time", "end_time"}).
		AddRow("cm-1", "09:00", "12:00").
		AddRow("cm-1", "13:00", "14:00").
		AddRow("cm-2", "14:00", "16:00")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT curriculum_module_id, start_time, end_time FROM sessions WHERE class_id = $1")).
		WithArgs("cl-1").
		WillReturnRows(rows)

	taught, err := repo.SumHoursByModule(context.Background(), "cl-1")
	require.NoError(t, err)
	assert.Equal(t, 4, taught["cm-1"])
	assert.Equal(t, 2, taught["cm-2"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryBulkCreateWithTx(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO sessions").
		WithArgs(sqlmock.AnyArg(), "cl-1", "cm-1", "tr-1", "rm-1", sqlmock.AnyArg(), "09:00", "12:00", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO sessions").
		WithArgs(sqlmock.AnyArg(), "cl-1", "cm-1", "tr-1", "rm-1", sqlmock.AnyArg(), "13:00", "16:00", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	sessions := []models.Session{
		{ClassID: "cl-1", CurriculumModuleID: "cm-1", TrainerID: "tr-1", RoomID: "rm-1", Date: day, StartTime: "09:00", EndTime: "12:00"},
		{ClassID: "cl-1", CurriculumModuleID: "cm-1", TrainerID: "tr-1", RoomID: "rm-1", Date: day, StartTime: "13:00", EndTime: "16:00"},
	}
	require.NoError(t, repo.BulkCreateWithTx(context.Background(), tx, sessions))
	require.NoError(t, tx.Commit())

	assert.NotEmpty(t, sessions[0].ID)
	assert.NotEmpty(t, sessions[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryBulkCreateNilTx(t *testing.T) {
	db, _, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	err := repo.BulkCreateWithTx(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestSessionRepositoryDeleteFutureByClass(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE class_id = $1 AND date >= $2")).
		WithArgs("cl-1", from).
		WillReturnResult(sqlmock.NewResult(0, 7))

	removed, err := repo.DeleteFutureByClass(context.Background(), "cl-1", from)
	require.NoError(t, err)
	assert.Equal(t, 7, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
