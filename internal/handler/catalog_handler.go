package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/helpdesk-presence-api/internal/dto"
	"github.com/noah-isme/helpdesk-presence-api/internal/models"
	"github.com/noah-isme/helpdesk-presence-api/pkg/response"
)

type catalogAdmin interface {
	ListStatuses(ctx context.Context, includeInactive bool) ([]models.StatusType, error)
	CreateStatus(ctx context.Context, req dto.UpsertStatusTypeRequest) (*models.StatusType, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpsertStatusTypeRequest) (*models.StatusType, error)
	SetStatusActive(ctx context.Context, id string, req dto.SetActiveRequest) (*models.StatusType, error)
	ListOffices(ctx context.Context, includeInactive bool) ([]models.OfficeLocation, error)
	CreateOffice(ctx context.Context, req dto.UpsertOfficeLocationRequest) (*models.OfficeLocation, error)
	UpdateOffice(ctx context.Context, id string, req dto.UpsertOfficeLocationRequest) (*models.OfficeLocation, error)
	SetOfficeActive(ctx context.Context, id string, req dto.SetActiveRequest) (*models.OfficeLocation, error)
	BustRegistry(ctx context.Context) error
}

// CatalogHandler administers status types and office locations.
type CatalogHandler struct {
	service catalogAdmin
}

// NewCatalogHandler constructs the catalog admin handler.
func NewCatalogHandler(service catalogAdmin) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// ListStatuses godoc
// @Summary List status types
// @Tags Presence Admin
// @Produce json
// @Param include_inactive query bool false "Include deactivated entries"
// @Success 200 {object} response.Envelope
// @Router /admin/presence/statuses [get]
func (h *CatalogHandler) ListStatuses(c *gin.Context) {
	var query dto.CatalogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err, "invalid query parameters"))
		return
	}
	statuses, err := h.service.ListStatuses(c.Request.Context(), query.IncludeInactive)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, statuses)
}

// CreateStatus godoc
// @Summary Create a status type
// @Tags Presence Admin
// @Accept json
// @Produce json
// @Param payload body dto.UpsertStatusTypeRequest true "Status type"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/presence/statuses [post]
func (h *CatalogHandler) CreateStatus(c *gin.Context) {
	var req dto.UpsertStatusTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid status type payload"))
		return
	}
	status, err := h.service.CreateStatus(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, status)
}

// UpdateStatus godoc
// @Summary Update a status type
// @Tags Presence Admin
// @Accept json
// @Produce json
// @Param id path string true "Status type ID"
// @Param payload body dto.UpsertStatusTypeRequest true "Status type"
// @Success 200 {object} response.Envelope
// @Router /admin/presence/statuses/{id} [put]
func (h *CatalogHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpsertStatusTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid status type payload"))
		return
	}
	status, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status)
}

// SetStatusActive godoc
// @Summary Activate or deactivate a status type
// @Tags Presence Admin
// @Accept json
// @Produce json
// @Param id path string true "Status type ID"
// @Param payload body dto.SetActiveRequest true "Active flag"
// @Success 200 {object} response.Envelope
// @Router /admin/presence/statuses/{id}/active [patch]
func (h *CatalogHandler) SetStatusActive(c *gin.Context) {
	var req dto.SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid payload"))
		return
	}
	status, err := h.service.SetStatusActive(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status)
}

// ListOffices godoc
// @Summary List office locations
// @Tags Presence Admin
// @Produce json
// @Param include_inactive query bool false "Include deactivated entries"
// @Success 200 {object} response.Envelope
// @Router /admin/presence/offices [get]
func (h *CatalogHandler) ListOffices(c *gin.Context) {
	var query dto.CatalogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err, "invalid query parameters"))
		return
	}
	offices, err := h.service.ListOffices(c.Request.Context(), query.IncludeInactive)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, offices)
}

// CreateOffice godoc
// @Summary Create an office location
// @Tags Presence Admin
// @Accept json
// @Produce json
// @Param payload body dto.UpsertOfficeLocationRequest true "Office location"
// @Success 201 {object} response.Envelope
// @Router /admin/presence/offices [post]
func (h *CatalogHandler) CreateOffice(c *gin.Context) {
	var req dto.UpsertOfficeLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid office payload"))
		return
	}
	office, err := h.service.CreateOffice(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, office)
}

// UpdateOffice godoc
// @Summary Update an office location
// @Tags Presence Admin
// @Accept json
// @Produce json
// @Param id path string true "Office ID"
// @Param payload body dto.UpsertOfficeLocationRequest true "Office location"
// @Success 200 {object} response.Envelope
// @Router /admin/presence/offices/{id} [put]
func (h *CatalogHandler) UpdateOffice(c *gin.Context) {
	var req dto.UpsertOfficeLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid office payload"))
		return
	}
	office, err := h.service.UpdateOffice(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, office)
}

// SetOfficeActive godoc
// @Summary Activate or deactivate an office location
// @Tags Presence Admin
// @Accept json
// @Produce json
// @Param id path string true "Office ID"
// @Param payload body dto.SetActiveRequest true "Active flag"
// @Success 200 {object} response.Envelope
// @Router /admin/presence/offices/{id}/active [patch]
func (h *CatalogHandler) SetOfficeActive(c *gin.Context) {
	var req dto.SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid payload"))
		return
	}
	office, err := h.service.SetOfficeActive(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, office)
}

// BustRegistry godoc
// @Summary Drop cached catalogs so the next read refetches
// @Tags Presence Admin
// @Success 204
// @Router /admin/presence/registry/bust [post]
func (h *CatalogHandler) BustRegistry(c *gin.Context) {
	if err := h.service.BustRegistry(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
