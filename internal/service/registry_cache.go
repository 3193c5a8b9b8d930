package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/helpdesk-presence-api/internal/models"
)

// DefaultRegistryTTL bounds how stale the in-process catalog may become.
const DefaultRegistryTTL = 60 * time.Second

// Shared cache keys for the catalog lists.
const (
	registryStatusesKey = "presence:catalog:statuses"
	registryOfficesKey  = "presence:catalog:offices"
	registryKeyPattern  = "presence:catalog:*"
)

// CatalogLoader fetches the active status and office catalogs.
type CatalogLoader interface {
	LoadActiveStatuses(ctx context.Context) ([]models.StatusType, error)
	LoadActiveOffices(ctx context.Context) ([]models.OfficeLocation, error)
}

type activeStatusLister interface {
	ListActive(ctx context.Context) ([]models.StatusType, error)
}

type activeOfficeLister interface {
	ListActive(ctx context.Context) ([]models.OfficeLocation, error)
}

// RepositoryCatalogLoader reads the catalogs straight from PostgreSQL.
type RepositoryCatalogLoader struct {
	statuses activeStatusLister
	offices  activeOfficeLister
}

// NewRepositoryCatalogLoader constructs the database-backed loader.
func NewRepositoryCatalogLoader(statuses activeStatusLister, offices activeOfficeLister) *RepositoryCatalogLoader {
	return &RepositoryCatalogLoader{statuses: statuses, offices: offices}
}

// LoadActiveStatuses implements CatalogLoader.
func (l *RepositoryCatalogLoader) LoadActiveStatuses(ctx context.Context) ([]models.StatusType, error) {
	return l.statuses.ListActive(ctx)
}

// LoadActiveOffices implements CatalogLoader.
func (l *RepositoryCatalogLoader) LoadActiveOffices(ctx context.Context) ([]models.OfficeLocation, error) {
	return l.offices.ListActive(ctx)
}

// SharedCatalogLoader puts Redis in front of another loader so several
// processes share one database fetch per TTL.
type SharedCatalogLoader struct {
	cache *CacheService
	next  CatalogLoader
	ttl   time.Duration
}

// NewSharedCatalogLoader wraps next with the shared cache tier.
func NewSharedCatalogLoader(cache *CacheService, next CatalogLoader, ttl time.Duration) *SharedCatalogLoader {
	return &SharedCatalogLoader{cache: cache, next: next, ttl: ttl}
}

// LoadActiveStatuses implements CatalogLoader.
func (l *SharedCatalogLoader) LoadActiveStatuses(ctx context.Context) ([]models.StatusType, error) {
	var statuses []models.StatusType
	if l.cache.Get(ctx, registryStatusesKey, &statuses) {
		return statuses, nil
	}
	statuses, err := l.next.LoadActiveStatuses(ctx)
	if err != nil {
		return nil, err
	}
	l.cache.Set(ctx, registryStatusesKey, statuses, l.ttl)
	return statuses, nil
}

// LoadActiveOffices implements CatalogLoader.
func (l *SharedCatalogLoader) LoadActiveOffices(ctx context.Context) ([]models.OfficeLocation, error) {
	var offices []models.OfficeLocation
	if l.cache.Get(ctx, registryOfficesKey, &offices) {
		return offices, nil
	}
	offices, err := l.next.LoadActiveOffices(ctx)
	if err != nil {
		return nil, err
	}
	l.cache.Set(ctx, registryOfficesKey, offices, l.ttl)
	return offices, nil
}

// Invalidate drops the shared catalog keys.
func (l *SharedCatalogLoader) Invalidate(ctx context.Context) error {
	return l.cache.Invalidate(ctx, registryKeyPattern)
}

// RegistryOption customises a RegistryCache.
type RegistryOption func(*RegistryCache)

// WithRegistryClock overrides the time source.
func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *RegistryCache) {
		if now != nil {
			r.now = now
		}
	}
}

// WithRegistryMetrics records lookups and refreshes.
func WithRegistryMetrics(metrics *MetricsService) RegistryOption {
	return func(r *RegistryCache) {
		r.metrics = metrics
	}
}

// WithRegistryLogger sets the logger.
func WithRegistryLogger(logger *zap.Logger) RegistryOption {
	return func(r *RegistryCache) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRegistryInvalidator registers a hook run by Bust, typically the shared
// tier's Invalidate.
func WithRegistryInvalidator(fn func(ctx context.Context) error) RegistryOption {
	return func(r *RegistryCache) {
		r.invalidate = fn
	}
}

// RegistryCache is a read-through, time-boxed snapshot of the active catalogs.
// It never writes back. The lock only guards the snapshot pointer; loads run
// outside it, so concurrent refreshes may each hit the loader.
type RegistryCache struct {
	loader     CatalogLoader
	ttl        time.Duration
	now        func() time.Time
	metrics    *MetricsService
	logger     *zap.Logger
	invalidate func(ctx context.Context) error

	mu      sync.RWMutex
	catalog *models.Catalog
}

// NewRegistryCache constructs an empty cache; the first read loads it.
func NewRegistryCache(loader CatalogLoader, ttl time.Duration, opts ...RegistryOption) *RegistryCache {
	if ttl <= 0 {
		ttl = DefaultRegistryTTL
	}
	r := &RegistryCache{
		loader: loader,
		ttl:    ttl,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Snapshot returns the cached catalog, refreshing it when absent or expired.
func (r *RegistryCache) Snapshot(ctx context.Context) (*models.Catalog, error) {
	r.mu.RLock()
	current := r.catalog
	r.mu.RUnlock()

	if current != nil && r.now().Sub(current.FetchedAt) < r.ttl {
		r.metrics.RecordRegistryLookup(true)
		return current, nil
	}
	r.metrics.RecordRegistryLookup(false)
	return r.Refresh(ctx)
}

// Refresh reloads both catalogs unconditionally.
func (r *RegistryCache) Refresh(ctx context.Context) (*models.Catalog, error) {
	start := time.Now()
	catalog, err := r.load(ctx)
	r.metrics.ObserveRegistryRefresh(time.Since(start), err)
	if err != nil {
		r.logger.Error("registry refresh failed", zap.Error(err))
		return nil, err
	}

	r.mu.Lock()
	r.catalog = catalog
	r.mu.Unlock()

	r.logger.Debug("registry refreshed",
		zap.Int("statuses", len(catalog.Statuses)),
		zap.Int("offices", len(catalog.Offices)),
	)
	return catalog, nil
}

func (r *RegistryCache) load(ctx context.Context) (*models.Catalog, error) {
	statuses, err := r.loader.LoadActiveStatuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load status types: %w", err)
	}
	offices, err := r.loader.LoadActiveOffices(ctx)
	if err != nil {
		return nil, fmt.Errorf("load office locations: %w", err)
	}
	return models.NewCatalog(statuses, offices, r.now()), nil
}

// ActiveStatuses returns the active status types.
func (r *RegistryCache) ActiveStatuses(ctx context.Context) ([]models.StatusType, error) {
	catalog, err := r.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Statuses, nil
}

// ActiveOffices returns the active office locations.
func (r *RegistryCache) ActiveOffices(ctx context.Context) ([]models.OfficeLocation, error) {
	catalog, err := r.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Offices, nil
}

// ResolveStatus looks up an active status by code.
func (r *RegistryCache) ResolveStatus(ctx context.Context, code string) (*models.StatusType, bool, error) {
	catalog, err := r.Snapshot(ctx)
	if err != nil {
		return nil, false, err
	}
	status, ok := catalog.Status(code)
	return status, ok, nil
}

// ResolveOffice looks up an active office by code.
func (r *RegistryCache) ResolveOffice(ctx context.Context, code string) (*models.OfficeLocation, bool, error) {
	catalog, err := r.Snapshot(ctx)
	if err != nil {
		return nil, false, err
	}
	office, ok := catalog.Office(code)
	return office, ok, nil
}

// Bust forces the next read to refetch and clears the shared tier if one is configured.
func (r *RegistryCache) Bust(ctx context.Context) error {
	r.mu.Lock()
	r.catalog = nil
	r.mu.Unlock()

	if r.invalidate == nil {
		return nil
	}
	if err := r.invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate shared registry cache: %w", err)
	}
	return nil
}
