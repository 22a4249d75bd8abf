package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Brekey53/atec-admin-api/internal/models"
)

// MethodologyRepository provides persistence for daily time templates.
type MethodologyRepository struct {
	db *sqlx.DB
}

// NewMethodologyRepository creates a new methodology repository.
func NewMethodologyRepository(db *sqlx.DB) *MethodologyRepository {
	return &MethodologyRepository{db: db}
}

const methodologyColumns = "id, name, day_start, day_end, lunch_start, lunch_end, created_at, updated_at"

// ListAll returns every methodology ordered by name.
func (r *MethodologyRepository) ListAll(ctx context.Context) ([]models.Methodology, error) {
	query := fmt.Sprintf("SELECT %s FROM methodologies ORDER BY name ASC", methodologyColumns)
	var methodologies []models.Methodology
	if err := r.db.SelectContext(ctx, &methodologies, query); err != nil {
		return nil, fmt.Errorf("list methodologies: %w", err)
	}
	return methodologies, nil
}

// FindByID loads a methodology by id.
func (r *MethodologyRepository) FindByID(ctx context.Context, id string) (*models.Methodology, error) {
	query := fmt.Sprintf("SELECT %s FROM methodologies WHERE id = $1", methodologyColumns)
	var methodology models.Methodology
	if err := r.db.GetContext(ctx, &methodology, query, id); err != nil {
		return nil, err
	}
	return &methodology, nil
}

// Create stores a new methodology.
func (r *MethodologyRepository) Create(ctx context.Context, methodology *models.Methodology) error {
	if methodology.ID == "" {
		methodology.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	methodology.CreatedAt = now
	methodology.UpdatedAt = now

	const query = `INSERT INTO methodologies (id, name, day_start, day_end, lunch_start, lunch_end, created_at, updated_at) VALUES (:id, :name, :day_start, :day_end, :lunch_start, :lunch_end, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, methodology); err != nil {
		return fmt.Errorf("create methodology: %w", err)
	}
	return nil
}

// Update modifies an existing methodology.
func (r *MethodologyRepository) Update(ctx context.Context, methodology *models.Methodology) error {
	methodology.UpdatedAt = time.Now().UTC()

	const query = `UPDATE methodologies SET name = :name, day_start = :day_start, day_end = :day_end, lunch_start = :lunch_start, lunch_end = :lunch_end, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, methodology)
	if err != nil {
		return fmt.Errorf("update methodology: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update methodology rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("methodology %s not found", methodology.ID)
	}
	return nil
}

// Delete removes a methodology by id.
func (r *MethodologyRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM methodologies WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete methodology: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete methodology rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("methodology %s not found", id)
	}
	return nil
}
