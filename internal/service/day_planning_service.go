package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/helpdesk-presence-api/internal/dto"
	"github.com/noah-isme/helpdesk-presence-api/internal/models"
	appErrors "github.com/noah-isme/helpdesk-presence-api/pkg/errors"
	"github.com/noah-isme/helpdesk-presence-api/pkg/localtime"
)

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type structValidator interface {
	Struct(s interface{}) error
}

type catalogSnapshotter interface {
	Snapshot(ctx context.Context) (*models.Catalog, error)
}

type statusCodeResolver interface {
	FindActiveByCode(ctx context.Context, exec sqlx.ExtContext, code string) (*models.StatusType, error)
}

type officeCodeResolver interface {
	FindActiveByCode(ctx context.Context, exec sqlx.ExtContext, code string) (*models.OfficeLocation, error)
}

type segmentWriter interface {
	DeleteInWindow(ctx context.Context, exec sqlx.ExtContext, userID string, start, end time.Time) (int64, error)
	CreateBatch(ctx context.Context, exec sqlx.ExtContext, segments []models.PresenceSegment) error
}

// PlanningConfig carries the business limits and default zone.
type PlanningConfig struct {
	DailyCapMinutes int
	MaxRangeDays    int
	DefaultLocation *time.Location
}

func (c PlanningConfig) withDefaults() PlanningConfig {
	if c.DailyCapMinutes <= 0 {
		c.DailyCapMinutes = DefaultDailyCapMinutes
	}
	if c.MaxRangeDays <= 0 {
		c.MaxRangeDays = DefaultMaxRangeDays
	}
	if c.DefaultLocation == nil {
		c.DefaultLocation = time.UTC
	}
	return c
}

// DayPlanningService replaces a user's segments for one or more local days.
type DayPlanningService struct {
	registry  catalogSnapshotter
	statuses  statusCodeResolver
	offices   officeCodeResolver
	segments  segmentWriter
	tx        txProvider
	validator structValidator
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       PlanningConfig
	newID     func() string
}

// NewDayPlanningService wires the write path.
func NewDayPlanningService(
	registry catalogSnapshotter,
	statuses statusCodeResolver,
	offices officeCodeResolver,
	segments segmentWriter,
	tx txProvider,
	validate structValidator,
	metrics *MetricsService,
	logger *zap.Logger,
	cfg PlanningConfig,
) *DayPlanningService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DayPlanningService{
		registry:  registry,
		statuses:  statuses,
		offices:   offices,
		segments:  segments,
		tx:        tx,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg.withDefaults(),
		newID:     uuid.NewString,
	}
}

// PlanDay validates req and atomically replaces userID's segments on every
// date from req.Date through req.RepeatUntil.
func (s *DayPlanningService) PlanDay(ctx context.Context, userID string, req dto.PlanDayRequest) (*dto.PlanDayResult, error) {
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "missing user context")
	}
	if s.validator != nil {
		if err := s.validator.Struct(req); err != nil {
			s.metrics.RecordPlan(PlanResultRejected, 0)
			return nil, err
		}
	}

	loc, err := localtime.LoadLocation(req.Timezone, s.cfg.DefaultLocation)
	if err != nil {
		s.metrics.RecordPlan(PlanResultRejected, 0)
		return nil, appErrors.NewValidationFailure([]appErrors.FieldError{{Field: "timezone", Message: err.Error()}})
	}

	catalog, err := s.registry.Snapshot(ctx)
	if err != nil {
		s.metrics.RecordPlan(PlanResultFailed, 0)
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "presence catalog unavailable")
	}

	fieldErrs := ValidateDayPlan(req.Segments, catalog, s.cfg.DailyCapMinutes)
	fieldErrs = append(fieldErrs, ValidateRepeatRange(req.Date, req.RepeatUntil, s.cfg.MaxRangeDays)...)
	if len(fieldErrs) > 0 {
		s.metrics.RecordPlan(PlanResultRejected, 0)
		return nil, appErrors.NewValidationFailure(fieldErrs)
	}

	dates, err := s.expandDates(req)
	if err != nil {
		s.metrics.RecordPlan(PlanResultRejected, 0)
		return nil, err
	}

	written, err := s.writeDays(ctx, userID, dates, req.Segments, loc)
	if err != nil {
		s.metrics.RecordPlan(PlanResultFailed, 0)
		return nil, err
	}
	s.metrics.RecordPlan(PlanResultAccepted, len(written)*len(dates))

	s.logger.Info("presence day planned",
		zap.String("user_id", userID),
		zap.String("date", req.Date),
		zap.Int("days", len(dates)),
		zap.Int("segments_per_day", len(req.Segments)),
	)

	return &dto.PlanDayResult{
		Date:         dates[0],
		Timezone:     loc.String(),
		Segments:     written,
		AppliedDates: dates,
	}, nil
}

func (s *DayPlanningService) expandDates(req dto.PlanDayRequest) ([]string, error) {
	until := req.Date
	if req.RepeatUntil != nil && *req.RepeatUntil != "" {
		until = *req.RepeatUntil
	}
	dates, err := localtime.ExpandDates(req.Date, until)
	if err != nil {
		return nil, appErrors.NewValidationFailure([]appErrors.FieldError{{Field: "repeatUntil", Message: err.Error()}})
	}
	if len(dates) > s.cfg.MaxRangeDays+1 {
		return nil, appErrors.NewValidationFailure([]appErrors.FieldError{{
			Field:   "repeatUntil",
			Message: fmt.Sprintf("repeat range cannot exceed %d days", s.cfg.MaxRangeDays),
		}})
	}
	return dates, nil
}

// writeDays runs every day's delete+insert in one transaction and returns the
// first day's segments as views.
func (s *DayPlanningService) writeDays(ctx context.Context, userID string, dates []string, specs []dto.SegmentInput, loc *time.Location) (views []dto.SegmentView, err error) {
	if s.tx == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for i, date := range dates {
		window, winErr := localtime.LocalDayWindow(date, loc)
		if winErr != nil {
			err = appErrors.NewValidationFailure([]appErrors.FieldError{{Field: "date", Message: winErr.Error()}})
			return nil, err
		}
		if _, err = s.segments.DeleteInWindow(ctx, tx, userID, window.Start, window.End); err != nil {
			err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear presence day")
			return nil, err
		}

		rows, dayViews, buildErr := s.buildDay(ctx, tx, userID, date, specs, loc)
		if buildErr != nil {
			err = buildErr
			return nil, err
		}
		if err = s.segments.CreateBatch(ctx, tx, rows); err != nil {
			err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write presence segments")
			return nil, err
		}
		if i == 0 {
			views = dayViews
		}
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit presence plan")
		return nil, err
	}
	return views, nil
}

// buildDay resolves codes inside the transaction so a catalog change made
// after validation still aborts the write.
func (s *DayPlanningService) buildDay(ctx context.Context, tx sqlx.ExtContext, userID, date string, specs []dto.SegmentInput, loc *time.Location) ([]models.PresenceSegment, []dto.SegmentView, error) {
	rows := make([]models.PresenceSegment, 0, len(specs))
	views := make([]dto.SegmentView, 0, len(specs))

	for i, spec := range specs {
		status, err := s.statuses.FindActiveByCode(ctx, tx, spec.StatusCode)
		if err != nil {
			return nil, nil, resolutionError(err, fmt.Sprintf("segments[%d].statusCode", i), "status", spec.StatusCode, date)
		}

		var office *models.OfficeLocation
		if spec.OfficeCode != nil && *spec.OfficeCode != "" {
			office, err = s.offices.FindActiveByCode(ctx, tx, *spec.OfficeCode)
			if err != nil {
				return nil, nil, resolutionError(err, fmt.Sprintf("segments[%d].officeCode", i), "office", *spec.OfficeCode, date)
			}
		}

		startAt, err := localtime.LocalToUTC(date, spec.From, loc)
		if err != nil {
			return nil, nil, appErrors.NewValidationFailure([]appErrors.FieldError{{Field: fmt.Sprintf("segments[%d].from", i), Message: err.Error()}})
		}
		endAt, err := localtime.LocalToUTC(date, spec.To, loc)
		if err != nil {
			return nil, nil, appErrors.NewValidationFailure([]appErrors.FieldError{{Field: fmt.Sprintf("segments[%d].to", i), Message: err.Error()}})
		}
		if !endAt.After(startAt) {
			return nil, nil, appErrors.NewValidationFailure([]appErrors.FieldError{{
				Field:   fmt.Sprintf("segments[%d].to", i),
				Message: fmt.Sprintf("%s-%s does not move forward on %s", spec.From, spec.To, date),
			}})
		}

		row := models.PresenceSegment{
			ID:       s.newID(),
			UserID:   userID,
			StatusID: status.ID,
			Notes:    spec.Notes,
			StartAt:  startAt,
			EndAt:    endAt,
		}
		detail := models.PresenceSegmentDetail{
			StatusCode:           status.Code,
			StatusLabel:          status.Label,
			StatusColor:          status.Color,
			StatusIcon:           status.Icon,
			StatusRequiresOffice: status.RequiresOffice,
		}
		if office != nil {
			row.OfficeLocationID = &office.ID
			detail.OfficeCode = &office.Code
			detail.OfficeName = &office.Name
		}
		detail.PresenceSegment = row

		rows = append(rows, row)
		views = append(views, segmentView(detail, loc))
	}
	return rows, views, nil
}

func resolutionError(err error, field, kind, code, date string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.NewValidationFailure([]appErrors.FieldError{{
			Field:   field,
			Message: fmt.Sprintf("%s %q is unknown or inactive (while writing %s)", kind, code, date),
		}})
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve "+kind)
}

// segmentView projects a stored segment onto loc's wall clock.
func segmentView(detail models.PresenceSegmentDetail, loc *time.Location) dto.SegmentView {
	return dto.SegmentView{
		ID:          detail.ID,
		Date:        localtime.UTCToLocalDate(detail.StartAt, loc),
		From:        localtime.UTCToLocalTime(detail.StartAt, loc),
		To:          localtime.UTCToLocalTime(detail.EndAt, loc),
		StartAt:     detail.StartAt.UTC(),
		EndAt:       detail.EndAt.UTC(),
		StatusCode:  detail.StatusCode,
		StatusLabel: detail.StatusLabel,
		StatusColor: detail.StatusColor,
		StatusIcon:  detail.StatusIcon,
		OfficeCode:  detail.OfficeCode,
		OfficeName:  detail.OfficeName,
		Notes:       detail.Notes,
	}
}
