package fleet

import (
	"context"
	"fmt"
	"sync"
)

// Logger defines the logging interface used by the fleet package.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry provides machine record management with caching and thread
// safety. It wraps a Repository and adds an in-memory cache for fast
// lookups.
//
// The cache is populated on startup via RefreshCache() and kept in sync
// by cache-invalidating CRUD operations.
//
// All public methods are thread-safe.
type Registry struct {
	repo    Repository
	cache   map[string]*Record // Cached records by ID
	cacheMu sync.RWMutex       // Protects cache
	logger  Logger
}

// NewRegistry creates a new fleet registry.
// The repository is used for persistence; the registry adds caching.
func NewRegistry(repo Repository) *Registry {
	return &Registry{
		repo:   repo,
		cache:  make(map[string]*Record),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// RefreshCache reloads all records from the repository into the cache.
// This should be called on application startup.
func (r *Registry) RefreshCache(ctx context.Context) error {
	records, err := r.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading machines: %w", err)
	}

	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()

	r.cache = make(map[string]*Record, len(records))
	for i := range records {
		rec := records[i]
		r.cache[rec.ID] = rec.Clone()
	}

	r.logger.Info("machine cache refreshed", "count", len(records))
	return nil
}

// Get retrieves a record by ID.
// Returns ErrMachineNotFound if the record does not exist.
// The returned record is a copy; callers can safely modify it.
func (r *Registry) Get(ctx context.Context, id string) (*Record, error) {
	r.cacheMu.RLock()
	cached, ok := r.cache[id]
	r.cacheMu.RUnlock()

	if ok {
		return cached.Clone(), nil
	}

	// Fall back to repository (might be a new record not yet cached)
	record, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.cacheMu.Lock()
	r.cache[id] = record.Clone()
	r.cacheMu.Unlock()

	return record, nil
}

// List retrieves all records.
// The returned records are copies; callers can safely modify them.
func (r *Registry) List(ctx context.Context) ([]Record, error) {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	if len(r.cache) > 0 {
		records := make([]Record, 0, len(r.cache))
		for _, rec := range r.cache {
			records = append(records, *rec.Clone())
		}
		return records, nil
	}

	return r.repo.List(ctx)
}

// ListByKind retrieves all records of a specific kind.
// The returned records are copies; callers can safely modify them.
func (r *Registry) ListByKind(ctx context.Context, kind string) ([]Record, error) {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	if len(r.cache) > 0 {
		var records []Record
		for _, rec := range r.cache {
			if rec.Kind == kind {
				records = append(records, *rec.Clone())
			}
		}
		return records, nil
	}

	return r.repo.ListByKind(ctx, kind)
}

// Create creates a new machine record.
// It generates an ID if not provided, validates the record, and persists it.
func (r *Registry) Create(ctx context.Context, record *Record) error {
	if record != nil && record.ID == "" {
		record.ID = GenerateID()
	}

	if err := ValidateRecord(record); err != nil {
		return err
	}

	if err := r.repo.Create(ctx, record); err != nil {
		return err
	}

	r.cacheMu.Lock()
	r.cache[record.ID] = record.Clone()
	r.cacheMu.Unlock()

	r.logger.Info("machine created",
		"id", record.ID,
		"kind", record.Kind,
		"make", record.Make,
		"model", record.Model,
	)
	return nil
}

// Update modifies an existing machine record.
func (r *Registry) Update(ctx context.Context, record *Record) error {
	if err := ValidateRecord(record); err != nil {
		return err
	}

	if err := r.repo.Update(ctx, record); err != nil {
		return err
	}

	r.cacheMu.Lock()
	r.cache[record.ID] = record.Clone()
	r.cacheMu.Unlock()

	r.logger.Info("machine updated", "id", record.ID, "kind", record.Kind)
	return nil
}

// Delete removes a machine record.
func (r *Registry) Delete(ctx context.Context, id string) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}

	r.cacheMu.Lock()
	delete(r.cache, id)
	r.cacheMu.Unlock()

	r.logger.Info("machine deleted", "id", id)
	return nil
}

// Count returns the number of cached records.
func (r *Registry) Count() int {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()
	return len(r.cache)
}
