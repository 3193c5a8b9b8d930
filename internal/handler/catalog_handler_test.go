package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/helpdesk-presence-api/internal/dto"
	"github.com/noah-isme/helpdesk-presence-api/internal/models"
	appErrors "github.com/noah-isme/helpdesk-presence-api/pkg/errors"
)

type catalogAdminMock struct {
	includeInactive bool
	created         dto.UpsertStatusTypeRequest
	activeID        string
	active          *bool
	busted          bool
	err             error
}

func (m *catalogAdminMock) ListStatuses(_ context.Context, includeInactive bool) ([]models.StatusType, error) {
	m.includeInactive = includeInactive
	return []models.StatusType{}, m.err
}

func (m *catalogAdminMock) CreateStatus(_ context.Context, req dto.UpsertStatusTypeRequest) (*models.StatusType, error) {
	m.created = req
	if m.err != nil {
		return nil, m.err
	}
	return &models.StatusType{ID: "st-new", Code: req.Code, IsActive: true}, nil
}

func (m *catalogAdminMock) UpdateStatus(_ context.Context, id string, req dto.UpsertStatusTypeRequest) (*models.StatusType, error) {
	return &models.StatusType{ID: id, Code: req.Code}, m.err
}

func (m *catalogAdminMock) SetStatusActive(_ context.Context, id string, req dto.SetActiveRequest) (*models.StatusType, error) {
	m.activeID = id
	m.active = req.Active
	return &models.StatusType{ID: id}, m.err
}

func (m *catalogAdminMock) ListOffices(_ context.Context, includeInactive bool) ([]models.OfficeLocation, error) {
	m.includeInactive = includeInactive
	return []models.OfficeLocation{}, m.err
}

func (m *catalogAdminMock) CreateOffice(_ context.Context, req dto.UpsertOfficeLocationRequest) (*models.OfficeLocation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.OfficeLocation{ID: "off-new", Code: req.Code, Name: req.Name}, nil
}

func (m *catalogAdminMock) UpdateOffice(_ context.Context, id string, req dto.UpsertOfficeLocationRequest) (*models.OfficeLocation, error) {
	return &models.OfficeLocation{ID: id, Code: req.Code}, m.err
}

func (m *catalogAdminMock) SetOfficeActive(_ context.Context, id string, req dto.SetActiveRequest) (*models.OfficeLocation, error) {
	m.activeID = id
	m.active = req.Active
	return &models.OfficeLocation{ID: id}, m.err
}

func (m *catalogAdminMock) BustRegistry(context.Context) error {
	m.busted = true
	return m.err
}

func newCatalogRouter(mock *catalogAdminMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCatalogHandler(mock)
	r := gin.New()
	admin := r.Group("/admin/presence")
	admin.GET("/statuses", h.ListStatuses)
	admin.POST("/statuses", h.CreateStatus)
	admin.PUT("/statuses/:id", h.UpdateStatus)
	admin.PATCH("/statuses/:id/active", h.SetStatusActive)
	admin.GET("/offices", h.ListOffices)
	admin.POST("/offices", h.CreateOffice)
	admin.PUT("/offices/:id", h.UpdateOffice)
	admin.PATCH("/offices/:id/active", h.SetOfficeActive)
	admin.POST("/registry/bust", h.BustRegistry)
	return r
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCatalogHandlerListIncludeInactive(t *testing.T) {
	mock := &catalogAdminMock{}
	r := newCatalogRouter(mock)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/presence/statuses?include_inactive=true", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mock.includeInactive)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/presence/offices?include_inactive=nope", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogHandlerCreateStatus(t *testing.T) {
	mock := &catalogAdminMock{}
	r := newCatalogRouter(mock)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPost, "/admin/presence/statuses", `{"code":"LUNCH","label":"Lunch","category":"BREAK"}`))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "LUNCH", mock.created.Code)
}

func TestCatalogHandlerCreateOfficeConflict(t *testing.T) {
	mock := &catalogAdminMock{err: appErrors.Clone(appErrors.ErrConflict, "office code already exists")}
	r := newCatalogRouter(mock)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPost, "/admin/presence/offices", `{"code":"HQ","name":"HQ"}`))
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestCatalogHandlerSetActive(t *testing.T) {
	mock := &catalogAdminMock{}
	r := newCatalogRouter(mock)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPatch, "/admin/presence/offices/off-1/active", `{"active":false}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "off-1", mock.activeID)
	require.NotNil(t, mock.active)
	assert.False(t, *mock.active)
}

func TestCatalogHandlerBustRegistry(t *testing.T) {
	mock := &catalogAdminMock{}
	r := newCatalogRouter(mock)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/presence/registry/bust", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, mock.busted)
}
