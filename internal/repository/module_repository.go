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

// ModuleRepository provides persistence for teaching modules and subject types.
type ModuleRepository struct {
	db *sqlx.DB
}

// NewModuleRepository creates a new module repository.
func NewModuleRepository(db *sqlx.DB) *ModuleRepository {
	return &ModuleRepository{db: db}
}

const moduleColumns = "id, name, total_hours, subject_type_id, created_at, updated_at"

// List returns modules, optionally filtered by a name search.
func (r *ModuleRepository) List(ctx context.Context, search string, page, pageSize int) ([]models.Module, int, error) {
	base := "FROM modules WHERE 1=1"
	var args []interface{}

	if search != "" {
		base += fmt.Sprintf(" AND name ILIKE $%d", len(args)+1)
		args = append(args, "%"+strings.TrimSpace(search)+"%")
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf("SELECT %s %s ORDER BY name ASC LIMIT %d OFFSET %d", moduleColumns, base, pageSize, offset)
	var modules []models.Module
	if err := r.db.SelectContext(ctx, &modules, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list modules: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count modules: %w", err)
	}

	return modules, total, nil
}

// FindByID loads a module by id.
func (r *ModuleRepository) FindByID(ctx context.Context, id string) (*models.Module, error) {
	query := fmt.Sprintf("SELECT %s FROM modules WHERE id = $1", moduleColumns)
	var module models.Module
	if err := r.db.GetContext(ctx, &module, query, id); err != nil {
		return nil, err
	}
	return &module, nil
}

// Create stores a new module.
func (r *ModuleRepository) Create(ctx context.Context, module *models.Module) error {
	if module.ID == "" {
		module.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	module.CreatedAt = now
	module.UpdatedAt = now

	const query = `INSERT INTO modules (id, name, total_hours, subject_type_id, created_at, updated_at) VALUES (:id, :name, :total_hours, :subject_type_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, module); err != nil {
		return fmt.Errorf("create module: %w", err)
	}
	return nil
}

// Update modifies an existing module.
func (r *ModuleRepository) Update(ctx context.Context, module *models.Module) error {
	module.UpdatedAt = time.Now().UTC()

	const query = `UPDATE modules SET name = :name, total_hours = :total_hours, subject_type_id = :subject_type_id, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, module)
	if err != nil {
		return fmt.Errorf("update module: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update module rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("module %s not found", module.ID)
	}
	return nil
}

// Delete removes a module by id.
func (r *ModuleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM modules WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete module: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete module rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("module %s not found", id)
	}
	return nil
}

// ListSubjectTypes returns every subject type with its room categories.
func (r *ModuleRepository) ListSubjectTypes(ctx context.Context) ([]models.SubjectType, error) {
	const query = `SELECT id, name, room_categories FROM subject_types ORDER BY name ASC`
	var types []models.SubjectType
	if err := r.db.SelectContext(ctx, &types, query); err != nil {
		return nil, fmt.Errorf("list subject types: %w", err)
	}
	return types, nil
}

// CreateSubjectType stores a new subject type.
func (r *ModuleRepository) CreateSubjectType(ctx context.Context, subjectType *models.SubjectType) error {
	if subjectType.ID == "" {
		subjectType.ID = uuid.NewString()
	}

	const query = `INSERT INTO subject_types (id, name, room_categories) VALUES (:id, :name, :room_categories)`
	if _, err := r.db.NamedExecContext(ctx, query, subjectType); err != nil {
		return fmt.Errorf("create subject type: %w", err)
	}
	return nil
}
