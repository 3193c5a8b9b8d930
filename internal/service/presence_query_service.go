package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/helpdesk-presence-api/internal/dto"
	"github.com/noah-isme/helpdesk-presence-api/internal/models"
	appErrors "github.com/noah-isme/helpdesk-presence-api/pkg/errors"
	"github.com/noah-isme/helpdesk-presence-api/pkg/localtime"
)

const weekLength = 7

type segmentReader interface {
	ListDetailedInRange(ctx context.Context, userID string, start, end time.Time) ([]models.PresenceSegmentDetail, error)
	ListActiveAt(ctx context.Context, at time.Time, userIDs []string) ([]models.PresenceSegmentDetail, error)
	FindByID(ctx context.Context, id string) (*models.PresenceSegment, error)
	Delete(ctx context.Context, id string) error
}

// PresenceQueryService serves the read paths and single-segment deletes.
type PresenceQueryService struct {
	segments segmentReader
	metrics  *MetricsService
	logger   *zap.Logger
	loc      *time.Location
	now      func() time.Time
}

// NewPresenceQueryService constructs the query service. defaultLoc applies
// whenever a caller omits a timezone.
func NewPresenceQueryService(segments segmentReader, defaultLoc *time.Location, metrics *MetricsService, logger *zap.Logger) *PresenceQueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &PresenceQueryService{segments: segments, metrics: metrics, logger: logger, loc: defaultLoc, now: time.Now}
}

func (s *PresenceQueryService) location(tz string) (*time.Location, error) {
	loc, err := localtime.LoadLocation(tz, s.loc)
	if err != nil {
		return nil, appErrors.NewValidationFailure([]appErrors.FieldError{{Field: "tz", Message: err.Error()}})
	}
	return loc, nil
}

// GetDay lists userID's segments on a local date, ordered by start.
func (s *PresenceQueryService) GetDay(ctx context.Context, userID, date, tz string) ([]dto.SegmentView, error) {
	loc, err := s.location(tz)
	if err != nil {
		return nil, err
	}
	window, err := localtime.LocalDayWindow(date, loc)
	if err != nil {
		return nil, appErrors.NewValidationFailure([]appErrors.FieldError{{Field: "date", Message: err.Error()}})
	}

	start := time.Now()
	rows, err := s.segments.ListDetailedInRange(ctx, userID, window.Start, window.End)
	s.metrics.ObserveDBQuery("presence_day", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load presence day")
	}

	views := make([]dto.SegmentView, 0, len(rows))
	for _, row := range rows {
		views = append(views, segmentView(row, loc))
	}
	return views, nil
}

// GetWeekView returns seven consecutive local days starting at startDate.
func (s *PresenceQueryService) GetWeekView(ctx context.Context, userID, startDate, tz string) ([]dto.WeekDay, error) {
	loc, err := s.location(tz)
	if err != nil {
		return nil, err
	}
	days, rows, err := s.loadWeek(ctx, userID, startDate, loc)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(days))
	week := make([]dto.WeekDay, 0, len(days))
	for i, date := range days {
		civil, _ := localtime.ParseDate(date)
		index[date] = i
		week = append(week, dto.WeekDay{
			Date:      date,
			DayOfWeek: civil.Weekday().String()[:3],
			Month:     civil.Month().String()[:3],
			DayNumber: civil.Day(),
			Schedules: []dto.WeekSchedule{},
		})
	}

	for _, row := range rows {
		i, ok := index[localtime.UTCToLocalDate(row.StartAt, loc)]
		if !ok {
			continue
		}
		week[i].Schedules = append(week[i].Schedules, weekSchedule(row, loc))
	}
	return week, nil
}

// loadWeek issues one range query for the seven-day window.
func (s *PresenceQueryService) loadWeek(ctx context.Context, userID, startDate string, loc *time.Location) ([]string, []models.PresenceSegmentDetail, error) {
	lastDate, err := localtime.AddDays(startDate, weekLength-1)
	if err != nil {
		return nil, nil, appErrors.NewValidationFailure([]appErrors.FieldError{{Field: "startDate", Message: err.Error()}})
	}
	days, err := localtime.ExpandDates(startDate, lastDate)
	if err != nil {
		return nil, nil, appErrors.NewValidationFailure([]appErrors.FieldError{{Field: "startDate", Message: err.Error()}})
	}
	first, _ := localtime.LocalDayWindow(startDate, loc)
	last, _ := localtime.LocalDayWindow(lastDate, loc)

	start := time.Now()
	rows, err := s.segments.ListDetailedInRange(ctx, userID, first.Start, last.End)
	s.metrics.ObserveDBQuery("presence_week", time.Since(start))
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load presence week")
	}
	return days, rows, nil
}

func weekSchedule(row models.PresenceSegmentDetail, loc *time.Location) dto.WeekSchedule {
	title := row.StatusLabel
	location := row.StatusLabel
	if row.OfficeName != nil && *row.OfficeName != "" {
		title += " - " + *row.OfficeName
		location = *row.OfficeName
	}
	return dto.WeekSchedule{
		ID:        row.ID,
		Title:     title,
		TimeRange: localtime.UTCToLocalTime(row.StartAt, loc) + " - " + localtime.UTCToLocalTime(row.EndAt, loc),
		Location:  location,
		Notes:     row.Notes,
		Color:     row.StatusColor,
	}
}

// GetCurrentPresences returns at most one active segment per user. When a
// user has several segments covering now, the latest start wins.
func (s *PresenceQueryService) GetCurrentPresences(ctx context.Context, userIDs []string, tz string) ([]dto.CurrentPresence, error) {
	loc, err := s.location(tz)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	start := time.Now()
	rows, err := s.segments.ListActiveAt(ctx, now, normaliseUserIDs(userIDs))
	s.metrics.ObserveDBQuery("presence_current", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load current presence")
	}

	// Rows arrive newest start first; sort defensively so dedup never depends on driver order.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].StartAt.After(rows[j].StartAt) })

	seen := make(map[string]struct{}, len(rows))
	result := make([]dto.CurrentPresence, 0, len(rows))
	for _, row := range rows {
		if _, dup := seen[row.UserID]; dup {
			continue
		}
		seen[row.UserID] = struct{}{}
		result = append(result, dto.CurrentPresence{
			UserID:      row.UserID,
			SegmentID:   row.ID,
			StatusCode:  row.StatusCode,
			StatusLabel: row.StatusLabel,
			StatusColor: row.StatusColor,
			StatusIcon:  row.StatusIcon,
			OfficeCode:  row.OfficeCode,
			OfficeName:  row.OfficeName,
			Notes:       row.Notes,
			StartAt:     row.StartAt.UTC(),
			EndAt:       row.EndAt.UTC(),
			Until:       localtime.UTCToLocalTime(row.EndAt, loc),
		})
	}
	return result, nil
}

// CountCurrentByStatus groups the current snapshot by status code.
func (s *PresenceQueryService) CountCurrentByStatus(ctx context.Context) (map[string]int, error) {
	current, err := s.GetCurrentPresences(ctx, nil, "")
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, entry := range current {
		counts[entry.StatusCode]++
	}
	return counts, nil
}

// DeleteSegment removes one of userID's own segments.
func (s *PresenceQueryService) DeleteSegment(ctx context.Context, userID, segmentID string) error {
	if _, err := uuid.Parse(segmentID); err != nil {
		return appErrors.Clone(appErrors.ErrNotFound, "presence segment not found")
	}
	segment, err := s.segments.FindByID(ctx, segmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "presence segment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load presence segment")
	}
	if segment.UserID != userID {
		return appErrors.Clone(appErrors.ErrForbidden, "unauthorized")
	}
	if err := s.segments.Delete(ctx, segmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "presence segment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete presence segment")
	}
	s.logger.Info("presence segment deleted", zap.String("user_id", userID), zap.String("segment_id", segmentID))
	return nil
}

// ParseUserIDs splits a comma separated user list.
func ParseUserIDs(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return normaliseUserIDs(strings.Split(raw, ","))
}

func normaliseUserIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
