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

// ClassRepository provides persistence for class cohorts.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository creates a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

const classColumns = "id, name, course_id, methodology_id, start_date, end_date, created_at, updated_at"

// List returns class cohorts with optional filtering and pagination.
func (r *ClassRepository) List(ctx context.Context, filter models.ClassFilter) ([]models.ClassCohort, int, error) {
	base := "FROM classes WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.ActiveOn != nil {
		conditions = append(conditions, fmt.Sprintf("start_date <= $%d AND end_date >= $%d", len(args)+1, len(args)+2))
		args = append(args, *filter.ActiveOn, *filter.ActiveOn)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"name":       true,
		"start_date": true,
		"end_date":   true,
		"created_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "start_date"
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
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", classColumns, base, sortBy, order, size, offset)
	var classes []models.ClassCohort
	if err := r.db.SelectContext(ctx, &classes, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list classes: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count classes: %w", err)
	}

	return classes, total, nil
}

// FindByID loads a class cohort by id.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.ClassCohort, error) {
	query := fmt.Sprintf("SELECT %s FROM classes WHERE id = $1", classColumns)
	var class models.ClassCohort
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// FindDetail loads a class together with its methodology time template.
func (r *ClassRepository) FindDetail(ctx context.Context, id string) (*models.ClassDetail, error) {
	class, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	const methodologyQuery = `SELECT id, name, day_start, day_end, lunch_start, lunch_end, created_at, updated_at FROM methodologies WHERE id = $1`
	var methodology models.Methodology
	if err := r.db.GetContext(ctx, &methodology, methodologyQuery, class.MethodologyID); err != nil {
		return nil, fmt.Errorf("load methodology for class %s: %w", id, err)
	}

	return &models.ClassDetail{ClassCohort: *class, Methodology: methodology}, nil
}

// Create stores a new class cohort.
func (r *ClassRepository) Create(ctx context.Context, class *models.ClassCohort) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	class.CreatedAt = now
	class.UpdatedAt = now

	const query = `INSERT INTO classes (id, name, course_id, methodology_id, start_date, end_date, created_at, updated_at) VALUES (:id, :name, :course_id, :methodology_id, :start_date, :end_date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update modifies an existing class cohort.
func (r *ClassRepository) Update(ctx context.Context, class *models.ClassCohort) error {
	class.UpdatedAt = time.Now().UTC()

	const query = `UPDATE classes SET name = :name, course_id = :course_id, methodology_id = :methodology_id, start_date = :start_date, end_date = :end_date, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, class)
	if err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update class rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("class %s not found", class.ID)
	}
	return nil
}

// Delete removes a class cohort by id.
func (r *ClassRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM classes WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete class rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("class %s not found", id)
	}
	return nil
}
