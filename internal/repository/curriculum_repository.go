package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Brekey53/atec-admin-api/internal/models"
)

// CurriculumRepository provides persistence for the module-per-class curriculum.
type CurriculumRepository struct {
	db *sqlx.DB
}

// NewCurriculumRepository creates a new curriculum repository.
func NewCurriculumRepository(db *sqlx.DB) *CurriculumRepository {
	return &CurriculumRepository{db: db}
}

// ListByClass returns the curriculum of a class ordered by priority rank,
// with module metadata and compatible room categories resolved.
func (r *CurriculumRepository) ListByClass(ctx context.Context, classID string) ([]models.CurriculumModuleDetail, error) {
	const query = `
		SELECT cm.id, cm.class_id, cm.module_id, cm.priority, cm.created_at,
		       m.name AS module_name, m.total_hours,
		       COALESCE(st.room_categories, '{}') AS room_categories
		FROM curriculum_modules cm
		JOIN modules m ON m.id = cm.module_id
		LEFT JOIN subject_types st ON st.id = m.subject_type_id
		WHERE cm.class_id = $1
		ORDER BY cm.priority ASC, cm.created_at ASC`
	var entries []models.CurriculumModuleDetail
	if err := r.db.SelectContext(ctx, &entries, query, classID); err != nil {
		return nil, fmt.Errorf("list curriculum for class %s: %w", classID, err)
	}
	return entries, nil
}

// FindByID loads a curriculum entry by id.
func (r *CurriculumRepository) FindByID(ctx context.Context, id string) (*models.CurriculumModule, error) {
	const query = `SELECT id, class_id, module_id, priority, created_at FROM curriculum_modules WHERE id = $1`
	var entry models.CurriculumModule
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Create attaches a module to a class with a priority rank.
func (r *CurriculumRepository) Create(ctx context.Context, entry *models.CurriculumModule) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	const query = `INSERT INTO curriculum_modules (id, class_id, module_id, priority, created_at) VALUES (:id, :class_id, :module_id, :priority, NOW())`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create curriculum entry: %w", err)
	}
	return nil
}

// UpdatePriority moves a curriculum entry to a new priority rank.
func (r *CurriculumRepository) UpdatePriority(ctx context.Context, id string, priority int) error {
	result, err := r.db.ExecContext(ctx, "UPDATE curriculum_modules SET priority = $1 WHERE id = $2", priority, id)
	if err != nil {
		return fmt.Errorf("update curriculum priority: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update curriculum priority rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("curriculum entry %s not found", id)
	}
	return nil
}

// Delete detaches a module from its class.
func (r *CurriculumRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM curriculum_modules WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete curriculum entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete curriculum entry rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("curriculum entry %s not found", id)
	}
	return nil
}
