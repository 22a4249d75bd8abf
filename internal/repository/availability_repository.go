package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Brekey53/atec-admin-api/internal/models"
)

// AvailabilityRepository provides persistence for trainer availability windows.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository creates a new availability repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

const availabilityColumns = "id, trainer_id, date, start_time, end_time, created_at"

// ListByTrainer returns every declared window of a trainer in chronological order.
func (r *AvailabilityRepository) ListByTrainer(ctx context.Context, trainerID string) ([]models.AvailabilityWindow, error) {
	query := fmt.Sprintf("SELECT %s FROM trainer_availability WHERE trainer_id = $1 ORDER BY date ASC, start_time ASC", availabilityColumns)
	var windows []models.AvailabilityWindow
	if err := r.db.SelectContext(ctx, &windows, query, trainerID); err != nil {
		return nil, fmt.Errorf("list availability for trainer %s: %w", trainerID, err)
	}
	return windows, nil
}

// ListByTrainerBetween returns a trainer's windows within a date range.
func (r *AvailabilityRepository) ListByTrainerBetween(ctx context.Context, trainerID string, from, to time.Time) ([]models.AvailabilityWindow, error) {
	query := fmt.Sprintf("SELECT %s FROM trainer_availability WHERE trainer_id = $1 AND date >= $2 AND date <= $3 ORDER BY date ASC, start_time ASC", availabilityColumns)
	var windows []models.AvailabilityWindow
	if err := r.db.SelectContext(ctx, &windows, query, trainerID, from, to); err != nil {
		return nil, fmt.Errorf("list availability range for trainer %s: %w", trainerID, err)
	}
	return windows, nil
}

// Create stores a new availability window.
func (r *AvailabilityRepository) Create(ctx context.Context, window *models.AvailabilityWindow) error {
	if window.ID == "" {
		window.ID = uuid.NewString()
	}
	if window.CreatedAt.IsZero() {
		window.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO trainer_availability (id, trainer_id, date, start_time, end_time, created_at) VALUES (:id, :trainer_id, :date, :start_time, :end_time, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, window); err != nil {
		return fmt.Errorf("create availability window: %w", err)
	}
	return nil
}

// ReplaceForTrainer atomically swaps a trainer's declared windows for a new set.
func (r *AvailabilityRepository) ReplaceForTrainer(ctx context.Context, trainerID string, windows []models.AvailabilityWindow) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin availability replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM trainer_availability WHERE trainer_id = $1", trainerID); err != nil {
		return fmt.Errorf("clear availability: %w", err)
	}

	now := time.Now().UTC()
	for i := range windows {
		payload := windows[i]
		payload.TrainerID = trainerID
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, tx, `INSERT INTO trainer_availability (id, trainer_id, date, start_time, end_time, created_at) VALUES (:id, :trainer_id, :date, :start_time, :end_time, :created_at)`, &payload); err != nil {
			return fmt.Errorf("insert availability window: %w", err)
		}
		windows[i] = payload
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit availability replace: %w", err)
	}
	return nil
}

// Delete removes one availability window by id.
func (r *AvailabilityRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM trainer_availability WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete availability window: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete availability window rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
