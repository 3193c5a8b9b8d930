package export

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
)

// CalendarEvent is one VEVENT in an iCalendar export.
type CalendarEvent struct {
	UID         string
	Summary     string
	Location    string
	Description string
	Start       time.Time
	End         time.Time
}

// ICSExporter renders events as an iCalendar feed.
type ICSExporter struct {
	productID string
	now       func() time.Time
}

// NewICSExporter constructs an iCalendar exporter.
func NewICSExporter(productID string) *ICSExporter {
	if productID == "" {
		productID = "-//helpdesk//presence//EN"
	}
	return &ICSExporter{productID: productID, now: time.Now}
}

// ContentType reports the MIME type of rendered output.
func (e *ICSExporter) ContentType() string { return "text/calendar; charset=utf-8" }

// Render serialises events in UTC.
func (e *ICSExporter) Render(name string, events []CalendarEvent) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(e.productID)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	stamp := e.now().UTC()
	for _, ev := range events {
		if ev.UID == "" {
			return nil, fmt.Errorf("ics event requires a uid")
		}
		if !ev.End.After(ev.Start) {
			return nil, fmt.Errorf("ics event %s ends before it starts", ev.UID)
		}
		vevent := cal.AddEvent(ev.UID)
		vevent.SetDtStampTime(stamp)
		vevent.SetStartAt(ev.Start.UTC())
		vevent.SetEndAt(ev.End.UTC())
		vevent.SetSummary(ev.Summary)
		if ev.Location != "" {
			vevent.SetLocation(ev.Location)
		}
		if ev.Description != "" {
			vevent.SetDescription(ev.Description)
		}
	}

	return []byte(cal.Serialize()), nil
}
