package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/helpdesk-presence-api/internal/dto"
	"github.com/noah-isme/helpdesk-presence-api/internal/middleware"
	"github.com/noah-isme/helpdesk-presence-api/internal/models"
	"github.com/noah-isme/helpdesk-presence-api/internal/service"
	appErrors "github.com/noah-isme/helpdesk-presence-api/pkg/errors"
)

type dayPlannerMock struct {
	userID string
	req    dto.PlanDayRequest
	result *dto.PlanDayResult
	err    error
}

func (m *dayPlannerMock) PlanDay(_ context.Context, userID string, req dto.PlanDayRequest) (*dto.PlanDayResult, error) {
	m.userID = userID
	m.req = req
	return m.result, m.err
}

type presenceReaderMock struct {
	day       []dto.SegmentView
	week      []dto.WeekDay
	current   []dto.CurrentPresence
	err       error
	gotTZ     string
	gotUsers  []string
	deletedID string
}

func (m *presenceReaderMock) GetDay(_ context.Context, _, _, tz string) ([]dto.SegmentView, error) {
	m.gotTZ = tz
	return m.day, m.err
}

func (m *presenceReaderMock) GetWeekView(_ context.Context, _, _, tz string) ([]dto.WeekDay, error) {
	m.gotTZ = tz
	return m.week, m.err
}

func (m *presenceReaderMock) GetCurrentPresences(_ context.Context, userIDs []string, tz string) ([]dto.CurrentPresence, error) {
	m.gotUsers = userIDs
	m.gotTZ = tz
	return m.current, m.err
}

func (m *presenceReaderMock) DeleteSegment(_ context.Context, _, segmentID string) error {
	m.deletedID = segmentID
	return m.err
}

type weekExporterMock struct {
	format string
	file   *service.ExportFile
}

func (m *weekExporterMock) ExportWeek(_ context.Context, _, _, format, _ string) (*service.ExportFile, error) {
	m.format = format
	return m.file, nil
}

type activeCatalogMock struct{}

func (activeCatalogMock) ActiveStatuses(context.Context) ([]models.StatusType, error) {
	return []models.StatusType{{ID: "st-1", Code: "REMOTE", Label: "Remote", IsActive: true}}, nil
}

func (activeCatalogMock) ActiveOffices(context.Context) ([]models.OfficeLocation, error) {
	return nil, appErrors.Clone(appErrors.ErrUnavailable, "presence catalog unavailable")
}

func newPresenceRouter(planner *dayPlannerMock, reader *presenceReaderMock, exporter *weekExporterMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPresenceHandler(planner, reader, exporter, activeCatalogMock{})
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "agent-1", Role: models.RoleAgent})
		c.Next()
	})
	r.POST("/presence/days", h.PlanDay)
	r.GET("/presence/days/:date", h.GetDay)
	r.GET("/presence/weeks/:startDate", h.GetWeek)
	r.GET("/presence/weeks/:startDate/export", h.ExportWeek)
	r.GET("/presence/current", h.Current)
	r.DELETE("/presence/segments/:id", h.DeleteSegment)
	r.GET("/presence/statuses", h.Statuses)
	r.GET("/presence/offices", h.Offices)
	return r
}

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestPresenceHandlerPlanDay(t *testing.T) {
	planner := &dayPlannerMock{result: &dto.PlanDayResult{Date: "2025-01-20", AppliedDates: []string{"2025-01-20"}}}
	r := newPresenceRouter(planner, &presenceReaderMock{}, &weekExporterMock{})

	body := []byte(`{"date":"2025-01-20","segments":[{"statusCode":"REMOTE","from":"09:00","to":"17:00"}]}`)
	req := httptest.NewRequest(http.MethodPost, "/presence/days", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "agent-1", planner.userID)
	require.Len(t, planner.req.Segments, 1)
	assert.Equal(t, "REMOTE", planner.req.Segments[0].StatusCode)
}

func TestPresenceHandlerPlanDayValidationDetails(t *testing.T) {
	planner := &dayPlannerMock{err: appErrors.NewValidationFailure([]appErrors.FieldError{
		{Field: "segments[0].officeCode", Message: `status "AVAILABLE" requires an office`},
		{Field: "segments", Message: "total planned time 9.5h exceeds the daily maximum of 8.0h"},
	})}
	r := newPresenceRouter(planner, &presenceReaderMock{}, &weekExporterMock{})

	body := []byte(`{"date":"2025-01-20","segments":[{"statusCode":"AVAILABLE","from":"08:00","to":"17:30"}]}`)
	req := httptest.NewRequest(http.MethodPost, "/presence/days", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	require.Len(t, env.Error.Details, 2)
	assert.Equal(t, "segments[0].officeCode", env.Error.Details[0].Field)
}

func TestPresenceHandlerPlanDayMalformedJSON(t *testing.T) {
	planner := &dayPlannerMock{}
	r := newPresenceRouter(planner, &presenceReaderMock{}, &weekExporterMock{})

	req := httptest.NewRequest(http.MethodPost, "/presence/days", bytes.NewReader([]byte(`{"date":`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, planner.userID)
}

func TestPresenceHandlerRequiresUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewPresenceHandler(&dayPlannerMock{}, &presenceReaderMock{}, &weekExporterMock{}, activeCatalogMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/presence/days/2025-01-20", nil)

	h.GetDay(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPresenceHandlerGetDayPassesTimezone(t *testing.T) {
	reader := &presenceReaderMock{day: []dto.SegmentView{{ID: "a", From: "09:00", To: "12:00"}}}
	r := newPresenceRouter(&dayPlannerMock{}, reader, &weekExporterMock{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/presence/days/2025-01-20?tz=Europe/Berlin", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Europe/Berlin", reader.gotTZ)
	env := decode(t, w)
	assert.Equal(t, float64(1), env.Meta["count"])
}

func TestPresenceHandlerGetWeek(t *testing.T) {
	reader := &presenceReaderMock{week: []dto.WeekDay{{Date: "2025-01-20", DayOfWeek: "Mon", Schedules: []dto.WeekSchedule{}}}}
	r := newPresenceRouter(&dayPlannerMock{}, reader, &weekExporterMock{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/presence/weeks/2025-01-20", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var week []dto.WeekDay
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &week))
	require.Len(t, week, 1)
	assert.NotNil(t, week[0].Schedules)
}

func TestPresenceHandlerExportWeek(t *testing.T) {
	exporter := &weekExporterMock{file: &service.ExportFile{Filename: "presence-2025-01-20.ics", ContentType: "text/calendar; charset=utf-8", Payload: []byte("BEGIN:VCALENDAR")}}
	r := newPresenceRouter(&dayPlannerMock{}, &presenceReaderMock{}, exporter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/presence/weeks/2025-01-20/export?format=ics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ics", exporter.format)
	assert.Equal(t, `attachment; filename="presence-2025-01-20.ics"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "BEGIN:VCALENDAR", w.Body.String())
}

func TestPresenceHandlerCurrentParsesUserIDs(t *testing.T) {
	reader := &presenceReaderMock{current: []dto.CurrentPresence{{UserID: "agent-2", StatusCode: "REMOTE"}}}
	r := newPresenceRouter(&dayPlannerMock{}, reader, &weekExporterMock{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/presence/current?user_ids=agent-2,%20agent-3,,agent-2", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"agent-2", "agent-3"}, reader.gotUsers)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/presence/current", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, reader.gotUsers)
}

func TestPresenceHandlerDeleteSegment(t *testing.T) {
	reader := &presenceReaderMock{}
	r := newPresenceRouter(&dayPlannerMock{}, reader, &weekExporterMock{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/presence/segments/seg-1", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "seg-1", reader.deletedID)

	reader.err = appErrors.Clone(appErrors.ErrForbidden, "unauthorized")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/presence/segments/seg-2", nil))
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "unauthorized", decode(t, w).Error.Message)
}

func TestPresenceHandlerCatalogListings(t *testing.T) {
	r := newPresenceRouter(&dayPlannerMock{}, &presenceReaderMock{}, &weekExporterMock{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/presence/statuses", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/presence/offices", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}
