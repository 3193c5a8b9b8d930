package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Presence week of 2025-01-20",
		Headers: []string{"Date", "Time", "Status"},
		Rows: []map[string]string{
			{"Date": "2025-01-20", "Time": "09:00 - 12:00", "Status": "In office"},
			{"Date": "2025-01-20", "Time": "13:00 - 17:00", "Status": "Remote, home"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Time,Status", lines[0])
	assert.Equal(t, `2025-01-20,13:00 - 17:00,"Remote, home"`, lines[2])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestICSExporterRender(t *testing.T) {
	exporter := NewICSExporter("")
	exporter.now = func() time.Time { return time.Date(2025, 1, 19, 0, 0, 0, 0, time.UTC) }

	start := time.Date(2025, 1, 20, 17, 0, 0, 0, time.UTC)
	out, err := exporter.Render("Presence", []CalendarEvent{{
		UID:      "seg-1@presence",
		Summary:  "In office",
		Location: "Headquarters",
		Start:    start,
		End:      start.Add(3 * time.Hour),
	}})
	require.NoError(t, err)

	cal, err := ical.ParseCalendar(bytes.NewReader(out))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "seg-1@presence", events[0].Id())
	gotStart, err := events[0].GetStartAt()
	require.NoError(t, err)
	assert.True(t, gotStart.Equal(start))
}

func TestICSExporterRejectsInvertedEvent(t *testing.T) {
	start := time.Date(2025, 1, 20, 17, 0, 0, 0, time.UTC)
	_, err := NewICSExporter("").Render("", []CalendarEvent{{UID: "x", Start: start, End: start}})
	assert.Error(t, err)
}
