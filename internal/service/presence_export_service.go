package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/helpdesk-presence-api/internal/models"
	appErrors "github.com/noah-isme/helpdesk-presence-api/pkg/errors"
	"github.com/noah-isme/helpdesk-presence-api/pkg/export"
	"github.com/noah-isme/helpdesk-presence-api/pkg/localtime"
)

// Supported week export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
	ExportFormatICS = "ics"
)

var weekExportHeaders = []string{"Date", "Day", "From", "To", "Status", "Office", "Notes"}

type tabularRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
}

type calendarRenderer interface {
	Render(name string, events []export.CalendarEvent) ([]byte, error)
	ContentType() string
}

// ExportFile is a rendered document ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// PresenceExportService renders the week view as CSV, PDF or iCalendar.
type PresenceExportService struct {
	query *PresenceQueryService
	csv   tabularRenderer
	pdf   tabularRenderer
	ics   calendarRenderer
}

// NewPresenceExportService constructs the export service.
func NewPresenceExportService(query *PresenceQueryService, csv, pdf tabularRenderer, ics calendarRenderer) *PresenceExportService {
	return &PresenceExportService{query: query, csv: csv, pdf: pdf, ics: ics}
}

// ExportWeek renders seven days of userID's segments starting at startDate.
func (s *PresenceExportService) ExportWeek(ctx context.Context, userID, startDate, format, tz string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF && format != ExportFormatICS {
		return nil, appErrors.NewValidationFailure([]appErrors.FieldError{{
			Field:   "format",
			Message: fmt.Sprintf("unsupported export format %q; use csv, pdf or ics", format),
		}})
	}

	loc, err := s.query.location(tz)
	if err != nil {
		return nil, err
	}
	_, rows, err := s.query.loadWeek(ctx, userID, startDate, loc)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("presence-%s.%s", startDate, format)
	title := fmt.Sprintf("Presence week of %s (%s)", startDate, loc.String())

	var (
		payload     []byte
		contentType string
	)
	switch format {
	case ExportFormatICS:
		payload, err = s.ics.Render(title, calendarEvents(rows))
		contentType = s.ics.ContentType()
	case ExportFormatPDF:
		payload, err = s.pdf.Render(weekDataset(title, rows, loc))
		contentType = s.pdf.ContentType()
	default:
		payload, err = s.csv.Render(weekDataset(title, rows, loc))
		contentType = s.csv.ContentType()
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render presence export")
	}
	return &ExportFile{Filename: filename, ContentType: contentType, Payload: payload}, nil
}

func weekDataset(title string, rows []models.PresenceSegmentDetail, loc *time.Location) export.Dataset {
	data := export.Dataset{Title: title, Headers: weekExportHeaders, Rows: make([]map[string]string, 0, len(rows))}
	for _, row := range rows {
		local := row.StartAt.In(loc)
		record := map[string]string{
			"Date":   local.Format(localtime.DateLayout),
			"Day":    local.Weekday().String()[:3],
			"From":   localtime.UTCToLocalTime(row.StartAt, loc),
			"To":     localtime.UTCToLocalTime(row.EndAt, loc),
			"Status": row.StatusLabel,
		}
		if row.OfficeName != nil {
			record["Office"] = *row.OfficeName
		}
		if row.Notes != nil {
			record["Notes"] = *row.Notes
		}
		data.Rows = append(data.Rows, record)
	}
	return data
}

func calendarEvents(rows []models.PresenceSegmentDetail) []export.CalendarEvent {
	events := make([]export.CalendarEvent, 0, len(rows))
	for _, row := range rows {
		schedule := weekSchedule(row, time.UTC)
		ev := export.CalendarEvent{
			UID:      row.ID + "@presence",
			Summary:  schedule.Title,
			Location: schedule.Location,
			Start:    row.StartAt,
			End:      row.EndAt,
		}
		if row.Notes != nil {
			ev.Description = *row.Notes
		}
		events = append(events, ev)
	}
	return events
}
