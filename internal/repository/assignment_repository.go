package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Brekey53/atec-admin-api/internal/models"
)

// AssignmentRepository provides persistence for trainer-to-module assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates a new assignment repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// ListByClass returns every assignment of a class with display names resolved.
func (r *AssignmentRepository) ListByClass(ctx context.Context, classID string) ([]models.TrainerAssignmentDetail, error) {
	const query = `
		SELECT ta.id, ta.class_id, ta.curriculum_module_id, ta.trainer_id, ta.created_at,
		       t.full_name AS trainer_name, m.name AS module_name
		FROM trainer_assignments ta
		JOIN trainers t ON t.id = ta.trainer_id
		JOIN curriculum_modules cm ON cm.id = ta.curriculum_module_id
		JOIN modules m ON m.id = cm.module_id
		WHERE ta.class_id = $1
		ORDER BY ta.created_at ASC`
	var assignments []models.TrainerAssignmentDetail
	if err := r.db.SelectContext(ctx, &assignments, query, classID); err != nil {
		return nil, fmt.Errorf("list assignments for class %s: %w", classID, err)
	}
	return assignments, nil
}

// ListByTrainer returns every assignment held by a trainer.
func (r *AssignmentRepository) ListByTrainer(ctx context.Context, trainerID string) ([]models.TrainerAssignment, error) {
	const query = `SELECT id, class_id, curriculum_module_id, trainer_id, created_at FROM trainer_assignments WHERE trainer_id = $1 ORDER BY created_at ASC`
	var assignments []models.TrainerAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, trainerID); err != nil {
		return nil, fmt.Errorf("list assignments for trainer %s: %w", trainerID, err)
	}
	return assignments, nil
}

// Create stores a new trainer assignment.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.TrainerAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO trainer_assignments (id, class_id, curriculum_module_id, trainer_id, created_at) VALUES (:id, :class_id, :curriculum_module_id, :trainer_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// Delete removes an assignment by id.
func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM trainer_assignments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete assignment rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("assignment %s not found", id)
	}
	return nil
}
