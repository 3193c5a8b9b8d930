package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/helpdesk-presence-api/internal/models"
)

const officeLocationColumns = `id, code, name, is_active, created_at, updated_at`

// OfficeLocationRepository persists the office location catalog.
type OfficeLocationRepository struct {
	db *sqlx.DB
}

// NewOfficeLocationRepository constructs repository.
func NewOfficeLocationRepository(db *sqlx.DB) *OfficeLocationRepository {
	return &OfficeLocationRepository{db: db}
}

func (r *OfficeLocationRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ListActive returns active offices ordered by name.
func (r *OfficeLocationRepository) ListActive(ctx context.Context) ([]models.OfficeLocation, error) {
	return r.List(ctx, false)
}

// List returns offices, optionally including inactive ones.
func (r *OfficeLocationRepository) List(ctx context.Context, includeInactive bool) ([]models.OfficeLocation, error) {
	query := `SELECT ` + officeLocationColumns + ` FROM office_locations`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name ASC`

	var offices []models.OfficeLocation
	if err := r.db.SelectContext(ctx, &offices, query); err != nil {
		return nil, fmt.Errorf("list office locations: %w", err)
	}
	return offices, nil
}

// FindByID loads an office regardless of its active flag.
func (r *OfficeLocationRepository) FindByID(ctx context.Context, id string) (*models.OfficeLocation, error) {
	query := `SELECT ` + officeLocationColumns + ` FROM office_locations WHERE id = $1`
	var office models.OfficeLocation
	if err := r.db.GetContext(ctx, &office, query, id); err != nil {
		return nil, err
	}
	return &office, nil
}

// FindActiveByCode resolves an active office by code.
func (r *OfficeLocationRepository) FindActiveByCode(ctx context.Context, exec sqlx.ExtContext, code string) (*models.OfficeLocation, error) {
	query := `SELECT ` + officeLocationColumns + ` FROM office_locations WHERE code = $1 AND is_active = TRUE`
	var office models.OfficeLocation
	if err := sqlx.GetContext(ctx, r.exec(exec), &office, query, code); err != nil {
		return nil, err
	}
	return &office, nil
}

// Create inserts a new office location.
func (r *OfficeLocationRepository) Create(ctx context.Context, office *models.OfficeLocation) error {
	if office == nil {
		return fmt.Errorf("office location payload is nil")
	}
	if office.ID == "" {
		office.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	office.CreatedAt = now
	office.UpdatedAt = now

	const query = `
INSERT INTO office_locations (id, code, name, is_active, created_at, updated_at)
VALUES (:id, :code, :name, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, office); err != nil {
		return fmt.Errorf("insert office location: %w", err)
	}
	return nil
}

// Update rewrites the code and name of an office.
func (r *OfficeLocationRepository) Update(ctx context.Context, office *models.OfficeLocation) error {
	if office == nil {
		return fmt.Errorf("office location payload is nil")
	}
	office.UpdatedAt = time.Now().UTC()

	const query = `UPDATE office_locations SET code = :code, name = :name, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, office)
	if err != nil {
		return fmt.Errorf("update office location: %w", err)
	}
	return expectAffected(result, "office location")
}

// SetActive toggles the soft-disable flag.
func (r *OfficeLocationRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE office_locations SET is_active = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, active, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set office location active: %w", err)
	}
	return expectAffected(result, "office location")
}
