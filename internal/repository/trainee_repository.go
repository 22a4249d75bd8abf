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

// TraineeRepository provides persistence for trainee records.
type TraineeRepository struct {
	db *sqlx.DB
}

// NewTraineeRepository creates a new trainee repository.
func NewTraineeRepository(db *sqlx.DB) *TraineeRepository {
	return &TraineeRepository{db: db}
}

const traineeColumns = "id, email, full_name, phone, class_id, active, created_at, updated_at"

// List returns trainees with optional filtering and pagination.
func (r *TraineeRepository) List(ctx context.Context, filter models.TraineeFilter) ([]models.Trainee, int, error) {
	base := "FROM trainees WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(full_name ILIKE $%d OR email ILIKE $%d)", len(args)+1, len(args)+2))
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"full_name":  true,
		"email":      true,
		"created_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "full_name"
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", traineeColumns, base, sortBy, order, size, offset)
	var trainees []models.Trainee
	if err := r.db.SelectContext(ctx, &trainees, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list trainees: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count trainees: %w", err)
	}

	return trainees, total, nil
}

// FindByID loads a trainee by id.
func (r *TraineeRepository) FindByID(ctx context.Context, id string) (*models.Trainee, error) {
	query := fmt.Sprintf("SELECT %s FROM trainees WHERE id = $1", traineeColumns)
	var trainee models.Trainee
	if err := r.db.GetContext(ctx, &trainee, query, id); err != nil {
		return nil, err
	}
	return &trainee, nil
}

// Create stores a new trainee record.
func (r *TraineeRepository) Create(ctx context.Context, trainee *models.Trainee) error {
	if trainee.ID == "" {
		trainee.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	trainee.CreatedAt = now
	trainee.UpdatedAt = now

	const query = `INSERT INTO trainees (id, email, full_name, phone, class_id, active, created_at, updated_at) VALUES (:id, :email, :full_name, :phone, :class_id, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, trainee); err != nil {
		return fmt.Errorf("create trainee: %w", err)
	}
	return nil
}

// Update modifies an existing trainee record.
func (r *TraineeRepository) Update(ctx context.Context, trainee *models.Trainee) error {
	trainee.UpdatedAt = time.Now().UTC()

	const query = `UPDATE trainees SET email = :email, full_name = :full_name, phone = :phone, class_id = :class_id, active = :active, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, trainee)
	if err != nil {
		return fmt.Errorf("update trainee: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update trainee rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("trainee %s not found", trainee.ID)
	}
	return nil
}

// Delete removes a trainee by id.
func (r *TraineeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM trainees WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete trainee: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete trainee rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("trainee %s not found", id)
	}
	return nil
}
