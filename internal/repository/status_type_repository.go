package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/helpdesk-presence-api/internal/models"
)

const statusTypeColumns = `id, code, label, category, requires_office, color, icon, is_active, created_at, updated_at`

// StatusTypeRepository persists the status type catalog.
type StatusTypeRepository struct {
	db *sqlx.DB
}

// NewStatusTypeRepository constructs repository.
func NewStatusTypeRepository(db *sqlx.DB) *StatusTypeRepository {
	return &StatusTypeRepository{db: db}
}

func (r *StatusTypeRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ListActive returns active status types ordered by label.
func (r *StatusTypeRepository) ListActive(ctx context.Context) ([]models.StatusType, error) {
	return r.List(ctx, false)
}

// List returns status types, optionally including inactive ones.
func (r *StatusTypeRepository) List(ctx context.Context, includeInactive bool) ([]models.StatusType, error) {
	query := `SELECT ` + statusTypeColumns + ` FROM status_types`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY label ASC`

	var statuses []models.StatusType
	if err := r.db.SelectContext(ctx, &statuses, query); err != nil {
		return nil, fmt.Errorf("list status types: %w", err)
	}
	return statuses, nil
}

// FindByID loads a status type regardless of its active flag.
func (r *StatusTypeRepository) FindByID(ctx context.Context, id string) (*models.StatusType, error) {
	query := `SELECT ` + statusTypeColumns + ` FROM status_types WHERE id = $1`
	var status models.StatusType
	if err := r.db.GetContext(ctx, &status, query, id); err != nil {
		return nil, err
	}
	return &status, nil
}

// FindActiveByCode resolves an active status type. Returns sql.ErrNoRows when
// the code is unknown or deactivated.
func (r *StatusTypeRepository) FindActiveByCode(ctx context.Context, exec sqlx.ExtContext, code string) (*models.StatusType, error) {
	query := `SELECT ` + statusTypeColumns + ` FROM status_types WHERE code = $1 AND is_active = TRUE`
	var status models.StatusType
	if err := sqlx.GetContext(ctx, r.exec(exec), &status, query, code); err != nil {
		return nil, err
	}
	return &status, nil
}

// Create inserts a new status type.
func (r *StatusTypeRepository) Create(ctx context.Context, status *models.StatusType) error {
	if status == nil {
		return fmt.Errorf("status type payload is nil")
	}
	if status.ID == "" {
		status.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	status.CreatedAt = now
	status.UpdatedAt = now

	const query = `
INSERT INTO status_types (id, code, label, category, requires_office, color, icon, is_active, created_at, updated_at)
VALUES (:id, :code, :label, :category, :requires_office, :color, :icon, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, status); err != nil {
		return fmt.Errorf("insert status type: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of a status type.
func (r *StatusTypeRepository) Update(ctx context.Context, status *models.StatusType) error {
	if status == nil {
		return fmt.Errorf("status type payload is nil")
	}
	status.UpdatedAt = time.Now().UTC()

	const query = `
UPDATE status_types SET code = :code, label = :label, category = :category, requires_office = :requires_office,
color = :color, icon = :icon, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, status)
	if err != nil {
		return fmt.Errorf("update status type: %w", err)
	}
	return expectAffected(result, "status type")
}

// SetActive toggles the soft-disable flag.
func (r *StatusTypeRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE status_types SET is_active = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, active, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set status type active: %w", err)
	}
	return expectAffected(result, "status type")
}

func expectAffected(result sql.Result, noun string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", noun, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
