package service

import (
	"fmt"

	"github.com/noah-isme/helpdesk-presence-api/internal/dto"
	"github.com/noah-isme/helpdesk-presence-api/internal/models"
	appErrors "github.com/noah-isme/helpdesk-presence-api/pkg/errors"
	"github.com/noah-isme/helpdesk-presence-api/pkg/localtime"
)

// Default business limits.
const (
	DefaultDailyCapMinutes = 480
	DefaultMaxRangeDays    = 30
)

// timedSegment is a segment whose clock values parsed and move forward.
type timedSegment struct {
	index int
	from  string
	to    string
	start int
	end   int
}

// ValidateDayPlan checks one day's segments against the catalog and the daily
// cap. Every applicable problem is returned; an empty result means valid.
func ValidateDayPlan(segments []dto.SegmentInput, catalog *models.Catalog, capMinutes int) []appErrors.FieldError {
	if capMinutes <= 0 {
		capMinutes = DefaultDailyCapMinutes
	}
	var errs []appErrors.FieldError
	timed := make([]timedSegment, 0, len(segments))

	for i, seg := range segments {
		field := func(name string) string { return fmt.Sprintf("segments[%d].%s", i, name) }

		if !localtime.ValidClock(seg.From) || !localtime.ValidClock(seg.To) {
			errs = append(errs, appErrors.FieldError{Field: field("from"), Message: "times must use 24-hour HH:mm format"})
			continue
		}
		if localtime.CrossesMidnight(seg.From, seg.To) {
			errs = append(errs, appErrors.FieldError{
				Field:   field("to"),
				Message: fmt.Sprintf("end time %s must be after start time %s; segments cannot cross midnight", seg.To, seg.From),
			})
			continue
		}
		start, _ := localtime.MinuteOfDay(seg.From)
		end, _ := localtime.MinuteOfDay(seg.To)
		timed = append(timed, timedSegment{index: i, from: seg.From, to: seg.To, start: start, end: end})

		status, ok := catalog.Status(seg.StatusCode)
		if !ok {
			errs = append(errs, appErrors.FieldError{
				Field:   field("statusCode"),
				Message: fmt.Sprintf("status %q is unknown or inactive", seg.StatusCode),
			})
			continue
		}
		hasOffice := seg.OfficeCode != nil && *seg.OfficeCode != ""
		if status.RequiresOffice && !hasOffice {
			errs = append(errs, appErrors.FieldError{
				Field:   field("officeCode"),
				Message: fmt.Sprintf("status %q requires an office", status.Code),
			})
		}
		if hasOffice {
			if _, ok := catalog.Office(*seg.OfficeCode); !ok {
				errs = append(errs, appErrors.FieldError{
					Field:   field("officeCode"),
					Message: fmt.Sprintf("office %q is unknown or inactive", *seg.OfficeCode),
				})
			}
		}
	}

	for j := 1; j < len(timed); j++ {
		for i := 0; i < j; i++ {
			a, b := timed[i], timed[j]
			if a.start < b.end && b.start < a.end {
				errs = append(errs, appErrors.FieldError{
					Field:   fmt.Sprintf("segments[%d].from", b.index),
					Message: fmt.Sprintf("overlaps with segments[%d] (%s-%s)", a.index, a.from, a.to),
				})
			}
		}
	}

	total := 0
	for _, seg := range timed {
		total += seg.end - seg.start
	}
	if total > capMinutes {
		errs = append(errs, appErrors.FieldError{
			Field: "segments",
			Message: fmt.Sprintf("total planned time %.1fh exceeds the daily maximum of %.1fh",
				float64(total)/60, float64(capMinutes)/60),
		})
	}

	return errs
}

// ValidateRepeatRange checks the optional repeatUntil against date.
func ValidateRepeatRange(date string, repeatUntil *string, maxDays int) []appErrors.FieldError {
	if repeatUntil == nil || *repeatUntil == "" {
		return nil
	}
	if maxDays <= 0 {
		maxDays = DefaultMaxRangeDays
	}
	span, err := localtime.DaysBetween(date, *repeatUntil)
	if err != nil {
		return []appErrors.FieldError{{Field: "repeatUntil", Message: err.Error()}}
	}
	if span < 0 {
		return []appErrors.FieldError{{Field: "repeatUntil", Message: "repeatUntil must be on or after date"}}
	}
	if span > maxDays {
		return []appErrors.FieldError{{Field: "repeatUntil", Message: fmt.Sprintf("repeat range cannot exceed %d days", maxDays)}}
	}
	return nil
}
