package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/helpdesk-presence-api/internal/models"
)

const presenceSegmentDetailSelect = `
SELECT ps.id, ps.user_id, ps.status_id, ps.office_location_id, ps.notes, ps.start_at, ps.end_at,
       ps.created_at, ps.updated_at,
       st.code AS status_code, st.label AS status_label, st.color AS status_color, st.icon AS status_icon,
       st.requires_office AS status_requires_office,
       ol.code AS office_code, ol.name AS office_name
FROM presence_segments ps
JOIN status_types st ON st.id = ps.status_id
LEFT JOIN office_locations ol ON ol.id = ps.office_location_id`

// PresenceSegmentRepository persists presence segments.
type PresenceSegmentRepository struct {
	db *sqlx.DB
}

// NewPresenceSegmentRepository constructs repository.
func NewPresenceSegmentRepository(db *sqlx.DB) *PresenceSegmentRepository {
	return &PresenceSegmentRepository{db: db}
}

func (r *PresenceSegmentRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// DeleteInWindow removes every segment of userID lying entirely inside [start, end].
func (r *PresenceSegmentRepository) DeleteInWindow(ctx context.Context, exec sqlx.ExtContext, userID string, start, end time.Time) (int64, error) {
	const query = `DELETE FROM presence_segments WHERE user_id = $1 AND start_at >= $2 AND end_at <= $3`
	result, err := r.exec(exec).ExecContext(ctx, query, userID, start, end)
	if err != nil {
		return 0, fmt.Errorf("delete presence segments in window: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("presence segments rows affected: %w", err)
	}
	return affected, nil
}

// CreateBatch inserts segments in order, assigning IDs and timestamps.
func (r *PresenceSegmentRepository) CreateBatch(ctx context.Context, exec sqlx.ExtContext, segments []models.PresenceSegment) error {
	if len(segments) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `
INSERT INTO presence_segments (id, user_id, status_id, office_location_id, notes, start_at, end_at, created_at, updated_at)
VALUES (:id, :user_id, :status_id, :office_location_id, :notes, :start_at, :end_at, :created_at, :updated_at)`
	for i := range segments {
		seg := &segments[i]
		if seg.ID == "" {
			seg.ID = uuid.NewString()
		}
		if seg.CreatedAt.IsZero() {
			seg.CreatedAt = now
		}
		seg.UpdatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, target, query, seg); err != nil {
			return fmt.Errorf("insert presence segment: %w", err)
		}
	}
	return nil
}

// ListDetailedInRange returns userID's segments lying entirely inside [start, end],
// joined with their status and office, ordered by start time.
func (r *PresenceSegmentRepository) ListDetailedInRange(ctx context.Context, userID string, start, end time.Time) ([]models.PresenceSegmentDetail, error) {
	query := presenceSegmentDetailSelect + `
WHERE ps.user_id = $1 AND ps.start_at >= $2 AND ps.end_at <= $3
ORDER BY ps.start_at ASC`
	var segments []models.PresenceSegmentDetail
	if err := r.db.SelectContext(ctx, &segments, query, userID, start, end); err != nil {
		return nil, fmt.Errorf("list presence segments: %w", err)
	}
	return segments, nil
}

// ListActiveAt returns segments containing at, newest start first. An empty
// userIDs slice means every user.
func (r *PresenceSegmentRepository) ListActiveAt(ctx context.Context, at time.Time, userIDs []string) ([]models.PresenceSegmentDetail, error) {
	query := presenceSegmentDetailSelect + `
WHERE ps.start_at <= $1 AND ps.end_at >= $1`
	args := []interface{}{at}
	if len(userIDs) > 0 {
		query += ` AND ps.user_id = ANY($2)`
		args = append(args, pq.Array(userIDs))
	}
	query += `
ORDER BY ps.start_at DESC`

	var segments []models.PresenceSegmentDetail
	if err := r.db.SelectContext(ctx, &segments, query, args...); err != nil {
		return nil, fmt.Errorf("list active presence segments: %w", err)
	}
	return segments, nil
}

// FindByID loads a single segment.
func (r *PresenceSegmentRepository) FindByID(ctx context.Context, id string) (*models.PresenceSegment, error) {
	const query = `SELECT id, user_id, status_id, office_location_id, notes, start_at, end_at, created_at, updated_at
FROM presence_segments WHERE id = $1`
	var segment models.PresenceSegment
	if err := r.db.GetContext(ctx, &segment, query, id); err != nil {
		return nil, err
	}
	return &segment, nil
}

// Delete removes a single segment.
func (r *PresenceSegmentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM presence_segments WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete presence segment: %w", err)
	}
	return expectAffected(result, "presence segment")
}
