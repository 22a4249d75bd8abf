package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Brekey53/atec-admin-api/internal/models"
)

// SessionRepository provides persistence for scheduled sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = "id, class_id, curriculum_module_id, trainer_id, room_id, date, start_time, end_time, created_at"

// List returns sessions with optional filtering and pagination.
func (r *SessionRepository) List(ctx context.Context, filter models.SessionFilter) ([]models.Session, int, error) {
	base := "FROM sessions WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.TrainerID != "" {
		conditions = append(conditions, fmt.Sprintf("trainer_id = $%d", len(args)+1))
		args = append(args, filter.TrainerID)
	}
	if filter.RoomID != "" {
		conditions = append(conditions, fmt.Sprintf("room_id = $%d", len(args)+1))
		args = append(args, filter.RoomID)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"date":       true,
		"start_time": true,
		"created_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "date"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s, start_time ASC LIMIT %d OFFSET %d", sessionColumns, base, sortBy, order, size, offset)
	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}

	return sessions, total, nil
}

// ListBetween returns every session, across all classes, whose date falls in
// the inclusive range. The schedule generator uses this as its committed set.
func (r *SessionRepository) ListBetween(ctx context.Context, from, to time.Time) ([]models.Session, error) {
	query := fmt.Sprintf("SELECT %s FROM sessions WHERE date >= $1 AND date <= $2 ORDER BY date ASC, start_time ASC", sessionColumns)
	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, query, from, to); err != nil {
		return nil, fmt.Errorf("list sessions between: %w", err)
	}
	return sessions, nil
}

// ListDetailByClass returns a class timetable with display names resolved.
func (r *SessionRepository) ListDetailByClass(ctx context.Context, classID string) ([]models.SessionDetail, error) {
	const query = `
		SELECT s.id, s.class_id, s.curriculum_module_id, s.trainer_id, s.room_id, s.date, s.start_time, s.end_time, s.created_at,
		       m.name AS module_name, t.full_name AS trainer_name, r.name AS room_name
		FROM sessions s
		JOIN curriculum_modules cm ON cm.id = s.curriculum_module_id
		JOIN modules m ON m.id = cm.module_id
		JOIN trainers t ON t.id = s.trainer_id
		JOIN rooms r ON r.id = s.room_id
		WHERE s.class_id = $1
		ORDER BY s.date ASC, s.start_time ASC`
	var sessions []models.SessionDetail
	if err := r.db.SelectContext(ctx, &sessions, query, classID); err != nil {
		return nil, fmt.Errorf("list session detail by class: %w", err)
	}
	return sessions, nil
}

// SumHoursByModule aggregates hours already taught per curriculum module of a
// class. Durations are derived from the stored start/end times.
func (r *SessionRepository) SumHoursByModule(ctx context.Context, classID string) (map[string]int, error) {
	const query = `SELECT curriculum_module_id, start_time, end_time FROM sessions WHERE class_id = $1`
	rows := []struct {
		CurriculumModuleID string `db:"curriculum_module_id"`
		StartTime          string `db:"start_time"`
		EndTime            string `db:"end_time"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, classID); err != nil {
		return nil, fmt.Errorf("sum taught hours: %w", err)
	}
	result := make(map[string]int, len(rows))
	for _, row := range rows {
		start, err := minutesOfDay(row.StartTime)
		if err != nil {
			return nil, fmt.Errorf("sum taught hours: %w", err)
		}
		end, err := minutesOfDay(row.EndTime)
		if err != nil {
			return nil, fmt.Errorf("sum taught hours: %w", err)
		}
		result[row.CurriculumModuleID] += (end - start) / 60
	}
	return result, nil
}

// minutesOfDay parses an "HH:MM" clock value into minutes from midnight.
func minutesOfDay(clock string) (int, error) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", clock, err)
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// Create stores a new session record.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO sessions (id, class_id, curriculum_module_id, trainer_id, room_id, date, start_time, end_time, created_at) VALUES (:id, :class_id, :curriculum_module_id, :trainer_id, :room_id, :date, :start_time, :end_time, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// BulkCreateWithTx inserts sessions using an existing transaction.
func (r *SessionRepository) BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, sessions []models.Session) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	now := time.Now().UTC()
	for i := range sessions {
		payload := sessions[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}

		if _, err := sqlx.NamedExecContext(ctx, tx, `INSERT INTO sessions (id, class_id, curriculum_module_id, trainer_id, room_id, date, start_time, end_time, created_at) VALUES (:id, :class_id, :curriculum_module_id, :trainer_id, :room_id, :date, :start_time, :end_time, :created_at)`, &payload); err != nil {
			return fmt.Errorf("bulk insert session: %w", err)
		}
		sessions[i] = payload
	}
	return nil
}

// FindByID loads a session by id.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.Session, error) {
	query := fmt.Sprintf("SELECT %s FROM sessions WHERE id = $1", sessionColumns)
	var session models.Session
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes a session by id.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %s not found", id)
	}
	return nil
}

// DeleteFutureByClass removes sessions of a class from a given date on,
// typically before regenerating a schedule.
func (r *SessionRepository) DeleteFutureByClass(ctx context.Context, classID string, from time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE class_id = $1 AND date >= $2", classID, from)
	if err != nil {
		return 0, fmt.Errorf("delete future sessions: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete future sessions rows: %w", err)
	}
	return int(affected), nil
}
