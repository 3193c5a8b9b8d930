package dto

import "time"

// SegmentInput is one proposed time block of a day plan.
type SegmentInput struct {
	StatusCode string  `json:"statusCode" validate:"required,max=64"`
	OfficeCode *string `json:"officeCode,omitempty" validate:"omitempty,max=64"`
	From       string  `json:"from" validate:"required,hhmm"`
	To         string  `json:"to" validate:"required,hhmm"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// PlanDayRequest replaces the caller's segments for a date, optionally repeated
// through RepeatUntil.
type PlanDayRequest struct {
	Date        string         `json:"date" validate:"required,datetime=2006-01-02"`
	Segments    []SegmentInput `json:"segments" validate:"required,min=1,dive"`
	RepeatUntil *string        `json:"repeatUntil,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Timezone    string         `json:"timezone,omitempty" validate:"omitempty,timezone"`
}

// SegmentView is a segment projected onto the caller's local clock.
type SegmentView struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	StartAt     time.Time `json:"startAt"`
	EndAt       time.Time `json:"endAt"`
	StatusCode  string    `json:"statusCode"`
	StatusLabel string    `json:"statusLabel"`
	StatusColor *string   `json:"statusColor,omitempty"`
	StatusIcon  *string   `json:"statusIcon,omitempty"`
	OfficeCode  *string   `json:"officeCode,omitempty"`
	OfficeName  *string   `json:"officeName,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
}

// PlanDayResult reports what a plan wrote. Segments covers the first date only;
// AppliedDates lists every date that was replaced.
type PlanDayResult struct {
	Date         string        `json:"date"`
	Timezone     string        `json:"timezone"`
	Segments     []SegmentView `json:"segments"`
	AppliedDates []string      `json:"appliedDates"`
}

// WeekSchedule is a display-ready entry in the week view.
type WeekSchedule struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	TimeRange string  `json:"timeRange"`
	Location  string  `json:"location"`
	Notes     *string `json:"notes,omitempty"`
	Color     *string `json:"color,omitempty"`
}

// WeekDay is one of the seven days returned by the week view.
type WeekDay struct {
	Date      string         `json:"date"`
	DayOfWeek string         `json:"dayOfWeek"`
	Month     string         `json:"month"`
	DayNumber int            `json:"dayNumber"`
	Schedules []WeekSchedule `json:"schedules"`
}

// CurrentPresence is the single active segment for a user at snapshot time.
type CurrentPresence struct {
	UserID      string    `json:"userId"`
	SegmentID   string    `json:"segmentId"`
	StatusCode  string    `json:"statusCode"`
	StatusLabel string    `json:"statusLabel"`
	StatusColor *string   `json:"statusColor,omitempty"`
	StatusIcon  *string   `json:"statusIcon,omitempty"`
	OfficeCode  *string   `json:"officeCode,omitempty"`
	OfficeName  *string   `json:"officeName,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	StartAt     time.Time `json:"startAt"`
	EndAt       time.Time `json:"endAt"`
	Until       string    `json:"until"`
}

// PresenceQuery carries optional query-string parameters shared by read endpoints.
type PresenceQuery struct {
	Timezone string `form:"tz"`
}

// CurrentPresenceQuery filters the "who is here now" snapshot.
type CurrentPresenceQuery struct {
	UserIDs  string `form:"user_ids"`
	Timezone string `form:"tz"`
}

// WeekExportQuery selects the export format for a week view.
type WeekExportQuery struct {
	Format   string `form:"format"`
	Timezone string `form:"tz"`
}
