package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/helpdesk-presence-api/internal/dto"
	"github.com/noah-isme/helpdesk-presence-api/internal/models"
	appErrors "github.com/noah-isme/helpdesk-presence-api/pkg/errors"
)

const pgUniqueViolation = "23505"

type statusTypeStore interface {
	List(ctx context.Context, includeInactive bool) ([]models.StatusType, error)
	FindByID(ctx context.Context, id string) (*models.StatusType, error)
	Create(ctx context.Context, status *models.StatusType) error
	Update(ctx context.Context, status *models.StatusType) error
	SetActive(ctx context.Context, id string, active bool) error
}

type officeLocationStore interface {
	List(ctx context.Context, includeInactive bool) ([]models.OfficeLocation, error)
	FindByID(ctx context.Context, id string) (*models.OfficeLocation, error)
	Create(ctx context.Context, office *models.OfficeLocation) error
	Update(ctx context.Context, office *models.OfficeLocation) error
	SetActive(ctx context.Context, id string, active bool) error
}

type catalogRegistry interface {
	ActiveStatuses(ctx context.Context) ([]models.StatusType, error)
	ActiveOffices(ctx context.Context) ([]models.OfficeLocation, error)
	Bust(ctx context.Context) error
}

// CatalogService administers status types and office locations. Every write
// busts the registry so the change is visible before the TTL lapses.
type CatalogService struct {
	statuses  statusTypeStore
	offices   officeLocationStore
	registry  catalogRegistry
	validator structValidator
	logger    *zap.Logger
}

// NewCatalogService constructs the catalog service.
func NewCatalogService(statuses statusTypeStore, offices officeLocationStore, registry catalogRegistry, validate structValidator, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{statuses: statuses, offices: offices, registry: registry, validator: validate, logger: logger}
}

// ActiveStatuses returns the registry's active status types.
func (s *CatalogService) ActiveStatuses(ctx context.Context) ([]models.StatusType, error) {
	statuses, err := s.registry.ActiveStatuses(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "presence catalog unavailable")
	}
	return statuses, nil
}

// ActiveOffices returns the registry's active office locations.
func (s *CatalogService) ActiveOffices(ctx context.Context) ([]models.OfficeLocation, error) {
	offices, err := s.registry.ActiveOffices(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "presence catalog unavailable")
	}
	return offices, nil
}

// ListStatuses reads status types from the database.
func (s *CatalogService) ListStatuses(ctx context.Context, includeInactive bool) ([]models.StatusType, error) {
	statuses, err := s.statuses.List(ctx, includeInactive)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list status types")
	}
	return statuses, nil
}

// CreateStatus adds an active status type.
func (s *CatalogService) CreateStatus(ctx context.Context, req dto.UpsertStatusTypeRequest) (*models.StatusType, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	status := &models.StatusType{IsActive: true}
	applyStatusRequest(status, req)
	if err := s.statuses.Create(ctx, status); err != nil {
		return nil, writeError(err, "status type code already exists", "failed to create status type")
	}
	s.afterWrite(ctx, "status_type_created", status.ID)
	return status, nil
}

// UpdateStatus rewrites a status type.
func (s *CatalogService) UpdateStatus(ctx context.Context, id string, req dto.UpsertStatusTypeRequest) (*models.StatusType, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	status, err := s.statuses.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "status type not found", "failed to load status type")
	}
	applyStatusRequest(status, req)
	if err := s.statuses.Update(ctx, status); err != nil {
		return nil, writeError(err, "status type code already exists", "failed to update status type")
	}
	s.afterWrite(ctx, "status_type_updated", status.ID)
	return status, nil
}

// SetStatusActive activates or deactivates a status type. Deactivated types
// stay attached to existing segments but cannot be planned.
func (s *CatalogService) SetStatusActive(ctx context.Context, id string, req dto.SetActiveRequest) (*models.StatusType, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	if err := s.statuses.SetActive(ctx, id, *req.Active); err != nil {
		return nil, lookupError(err, "status type not found", "failed to update status type")
	}
	s.afterWrite(ctx, "status_type_toggled", id)
	status, err := s.statuses.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "status type not found", "failed to load status type")
	}
	return status, nil
}

// ListOffices reads office locations from the database.
func (s *CatalogService) ListOffices(ctx context.Context, includeInactive bool) ([]models.OfficeLocation, error) {
	offices, err := s.offices.List(ctx, includeInactive)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list office locations")
	}
	return offices, nil
}

// CreateOffice adds an active office location.
func (s *CatalogService) CreateOffice(ctx context.Context, req dto.UpsertOfficeLocationRequest) (*models.OfficeLocation, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	office := &models.OfficeLocation{Code: req.Code, Name: req.Name, IsActive: true}
	if err := s.offices.Create(ctx, office); err != nil {
		return nil, writeError(err, "office code already exists", "failed to create office location")
	}
	s.afterWrite(ctx, "office_created", office.ID)
	return office, nil
}

// UpdateOffice rewrites an office location.
func (s *CatalogService) UpdateOffice(ctx context.Context, id string, req dto.UpsertOfficeLocationRequest) (*models.OfficeLocation, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	office, err := s.offices.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "office location not found", "failed to load office location")
	}
	office.Code = req.Code
	office.Name = req.Name
	if err := s.offices.Update(ctx, office); err != nil {
		return nil, writeError(err, "office code already exists", "failed to update office location")
	}
	s.afterWrite(ctx, "office_updated", office.ID)
	return office, nil
}

// SetOfficeActive activates or deactivates an office location.
func (s *CatalogService) SetOfficeActive(ctx context.Context, id string, req dto.SetActiveRequest) (*models.OfficeLocation, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	if err := s.offices.SetActive(ctx, id, *req.Active); err != nil {
		return nil, lookupError(err, "office location not found", "failed to update office location")
	}
	s.afterWrite(ctx, "office_toggled", id)
	office, err := s.offices.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "office location not found", "failed to load office location")
	}
	return office, nil
}

// BustRegistry forces the next registry read to refetch.
func (s *CatalogService) BustRegistry(ctx context.Context) error {
	if err := s.registry.Bust(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to bust presence registry")
	}
	return nil
}

func (s *CatalogService) validate(req interface{}) error {
	if s.validator == nil {
		return nil
	}
	return s.validator.Struct(req)
}

// afterWrite busts the registry. The write already committed, so a failed
// bust is logged and the TTL bounds the staleness.
func (s *CatalogService) afterWrite(ctx context.Context, event, id string) {
	s.logger.Info("presence catalog changed", zap.String("event", event), zap.String("id", id))
	if err := s.registry.Bust(ctx); err != nil {
		s.logger.Warn("registry bust failed", zap.String("event", event), zap.Error(err))
	}
}

func applyStatusRequest(status *models.StatusType, req dto.UpsertStatusTypeRequest) {
	status.Code = req.Code
	status.Label = req.Label
	status.Category = req.Category
	status.RequiresOffice = req.RequiresOffice
	status.Color = req.Color
	status.Icon = req.Icon
}

func lookupError(err error, notFound, internal string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, internal)
}

func writeError(err error, conflict, internal string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
		return appErrors.Clone(appErrors.ErrConflict, conflict)
	}
	return lookupError(err, "resource not found", internal)
}
