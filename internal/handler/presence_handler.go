package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/helpdesk-presence-api/internal/dto"
	"github.com/noah-isme/helpdesk-presence-api/internal/models"
	"github.com/noah-isme/helpdesk-presence-api/internal/service"
	"github.com/noah-isme/helpdesk-presence-api/pkg/response"
)

type dayPlanner interface {
	PlanDay(ctx context.Context, userID string, req dto.PlanDayRequest) (*dto.PlanDayResult, error)
}

type presenceReader interface {
	GetDay(ctx context.Context, userID, date, tz string) ([]dto.SegmentView, error)
	GetWeekView(ctx context.Context, userID, startDate, tz string) ([]dto.WeekDay, error)
	GetCurrentPresences(ctx context.Context, userIDs []string, tz string) ([]dto.CurrentPresence, error)
	DeleteSegment(ctx context.Context, userID, segmentID string) error
}

type weekExporter interface {
	ExportWeek(ctx context.Context, userID, startDate, format, tz string) (*service.ExportFile, error)
}

type activeCatalog interface {
	ActiveStatuses(ctx context.Context) ([]models.StatusType, error)
	ActiveOffices(ctx context.Context) ([]models.OfficeLocation, error)
}

// PresenceHandler exposes the caller's own day planning and the shared presence board.
type PresenceHandler struct {
	planner  dayPlanner
	reader   presenceReader
	exporter weekExporter
	catalog  activeCatalog
}

// NewPresenceHandler constructs the presence handler.
func NewPresenceHandler(planner dayPlanner, reader presenceReader, exporter weekExporter, catalog activeCatalog) *PresenceHandler {
	return &PresenceHandler{planner: planner, reader: reader, exporter: exporter, catalog: catalog}
}

// PlanDay godoc
// @Summary Replace the caller's presence plan for a day
// @Description Replaces every segment on date (and each day through repeatUntil) in one transaction.
// @Tags Presence
// @Accept json
// @Produce json
// @Param payload body dto.PlanDayRequest true "Day plan"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /presence/days [post]
func (h *PresenceHandler) PlanDay(c *gin.Context) {
	userID := requireUserID(c)
	if userID == "" {
		return
	}
	var req dto.PlanDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid day plan payload"))
		return
	}
	result, err := h.planner.PlanDay(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// GetDay godoc
// @Summary Get the caller's segments for a local date
// @Tags Presence
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param tz query string false "IANA timezone"
// @Success 200 {object} response.Envelope
// @Router /presence/days/{date} [get]
func (h *PresenceHandler) GetDay(c *gin.Context) {
	userID := requireUserID(c)
	if userID == "" {
		return
	}
	var query dto.PresenceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err, "invalid query parameters"))
		return
	}
	date := c.Param("date")
	views, err := h.reader.GetDay(c.Request.Context(), userID, date, query.Timezone)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, map[string]interface{}{"date": date, "count": len(views)})
}

// GetWeek godoc
// @Summary Get seven days of the caller's presence
// @Tags Presence
// @Produce json
// @Param startDate path string true "First day (YYYY-MM-DD)"
// @Param tz query string false "IANA timezone"
// @Success 200 {object} response.Envelope
// @Router /presence/weeks/{startDate} [get]
func (h *PresenceHandler) GetWeek(c *gin.Context) {
	userID := requireUserID(c)
	if userID == "" {
		return
	}
	var query dto.PresenceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err, "invalid query parameters"))
		return
	}
	week, err := h.reader.GetWeekView(c.Request.Context(), userID, c.Param("startDate"), query.Timezone)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, week)
}

// ExportWeek godoc
// @Summary Download the caller's week as CSV, PDF or iCalendar
// @Tags Presence
// @Produce octet-stream
// @Param startDate path string true "First day (YYYY-MM-DD)"
// @Param format query string false "csv, pdf or ics" default(csv)
// @Param tz query string false "IANA timezone"
// @Success 200 {file} file
// @Router /presence/weeks/{startDate}/export [get]
func (h *PresenceHandler) ExportWeek(c *gin.Context) {
	userID := requireUserID(c)
	if userID == "" {
		return
	}
	var query dto.WeekExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err, "invalid query parameters"))
		return
	}
	file, err := h.exporter.ExportWeek(c.Request.Context(), userID, c.Param("startDate"), query.Format, query.Timezone)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Payload)
}

// Current godoc
// @Summary Who is present right now
// @Description Returns at most one active segment per user.
// @Tags Presence
// @Produce json
// @Param user_ids query string false "Comma separated user ids"
// @Param tz query string false "IANA timezone used for the until field"
// @Success 200 {object} response.Envelope
// @Router /presence/current [get]
func (h *PresenceHandler) Current(c *gin.Context) {
	var query dto.CurrentPresenceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err, "invalid query parameters"))
		return
	}
	current, err := h.reader.GetCurrentPresences(c.Request.Context(), service.ParseUserIDs(query.UserIDs), query.Timezone)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, current, map[string]interface{}{"count": len(current)})
}

// DeleteSegment godoc
// @Summary Delete one of the caller's segments
// @Tags Presence
// @Param id path string true "Segment ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /presence/segments/{id} [delete]
func (h *PresenceHandler) DeleteSegment(c *gin.Context) {
	userID := requireUserID(c)
	if userID == "" {
		return
	}
	if err := h.reader.DeleteSegment(c.Request.Context(), userID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Statuses godoc
// @Summary List active status types
// @Tags Presence
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /presence/statuses [get]
func (h *PresenceHandler) Statuses(c *gin.Context) {
	statuses, err := h.catalog.ActiveStatuses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, statuses)
}

// Offices godoc
// @Summary List active office locations
// @Tags Presence
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /presence/offices [get]
func (h *PresenceHandler) Offices(c *gin.Context) {
	offices, err := h.catalog.ActiveOffices(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, offices)
}
