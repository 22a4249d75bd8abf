package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brekey53/atec-admin-api/internal/models"
)

func newCurriculumRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestCurriculumRepositoryListByClassOrdersByPriority(t *testing.T) {
	db, mock, cleanup := newCurriculumRepoMock(t)
	defer cleanup()
	repo := NewCurriculumRepository(db)

	rows := sqlmock.NewRows([]string{"id", "class_id", "module_id", "priority", "created_at", "module_name", "total_hours", "room_categories"}).
		AddRow("cm-1", "cl-1", "mod-1", 1, time.Now(), "Networking Basics", 25, pq.StringArray{"lab"}).
		AddRow("cm-2", "cl-1", "mod-2", 2, time.Now(), "Soft Skills", 12, pq.StringArray{})
	mock.ExpectQuery("FROM curriculum_modules cm").
		WithArgs("cl-1").
		WillReturnRows(rows)

	entries, err := repo.ListByClass(context.Background(), "cl-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Networking Basics", entries[0].ModuleName)
	assert.Equal(t, []string{"lab"}, []string(entries[0].RoomCategories))
	assert.Empty(t, entries[1].RoomCategories)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCurriculumRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newCurriculumRepoMock(t)
	defer cleanup()
	repo := NewCurriculumRepository(db)

	mock.ExpectExec("INSERT INTO curriculum_modules").
		WithArgs(sqlmock.AnyArg(), "cl-1", "mod-1", 1).
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.CurriculumModule{ClassID: "cl-1", ModuleID: "mod-1", Priority: 1}
	require.NoError(t, repo.Create(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCurriculumRepositoryUpdatePriorityNotFound(t *testing.T) {
	db, mock, cleanup := newCurriculumRepoMock(t)
	defer cleanup()
	repo := NewCurriculumRepository(db)

	mock.ExpectExec("UPDATE curriculum_modules SET priority").
		WithArgs(3, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePriority(context.Background(), "missing", 3)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
