package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"watchstate/core/guid"
	"watchstate/core/reconcile"
	"watchstate/core/state"
	"watchstate/feature/history/models"

	"go.uber.org/zap"
)

// ErrUnknownBackend is returned when observations name a backend that is not configured.
var ErrUnknownBackend = errors.New("unknown backend")

// IgnoreSource provides the current ignore list.
type IgnoreSource interface {
	List(ctx context.Context) (guid.IgnoreList, error)
}

// IngestOptions describes where a batch of observations comes from.
type IngestOptions struct {
	// Backend is the configured backend name the observations come from.
	Backend string
	// Tainted marks a low-confidence source: only identity and metadata are merged.
	Tainted bool
	// After is the sync watermark, observations at or before it cannot change watch state.
	After time.Time
}

// IngestReport summarizes an ingest.
type IngestReport struct {
	Backend  string                 `json:"backend"`
	Received int                    `json:"received"`
	Skipped  int                    `json:"skipped"`
	Errors   []string               `json:"errors,omitempty"`
	Result   reconcile.CommitResult `json:"result"`
}

// Service reconciles observations into the history store.
type Service struct {
	store    *Store
	ignore   IgnoreSource
	backends map[string]string
	logger   *zap.Logger
	now      func() time.Time

	// Ingests are serialized so two mappers never stage the same identity concurrently.
	mu sync.Mutex
}

// NewService creates a history service. backends maps backend names to their kind.
func NewService(store *Store, ignore IgnoreSource, backends map[string]string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		ignore:   ignore,
		backends: backends,
		logger:   logger,
		now:      time.Now,
	}
}

// Store returns the underlying store.
func (s *Service) Store() *Store {
	return s.store
}

// Backends returns the configured backends keyed by name.
func (s *Service) Backends() map[string]string {
	return s.backends
}

// Resolver builds the identity resolver of a configured backend.
func (s *Service) Resolver(ctx context.Context, backend string) (*guid.Resolver, error) {
	kind, ok := s.backends[backend]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, backend)
	}

	var list guid.IgnoreList
	if s.ignore != nil {
		var err error
		if list, err = s.ignore.List(ctx); err != nil {
			return nil, fmt.Errorf("failed to load ignore list: %w", err)
		}
	}

	return guid.NewResolver(guid.Options{
		Backend: backend,
		Table:   guid.TableFor(kind),
		Ignore:  list,
		Logger:  s.logger,
	}), nil
}

// Ingest merges a batch of observations from one backend and commits the result.
// Observations that cannot be converted or merged are skipped and reported.
func (s *Service) Ingest(ctx context.Context, items []models.Observation, opts IngestOptions) (*IngestReport, error) {
	resolver, err := s.Resolver(ctx, opts.Backend)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.logger.With(zap.String("backend", opts.Backend), zap.Bool("tainted", opts.Tainted))
	mapper := reconcile.NewMapper(s.store, reconcile.WithLogger(log), reconcile.WithClock(s.now))

	addOpts := reconcile.AddOptions{Policy: state.Trusted, After: opts.After}
	if opts.Tainted {
		addOpts.Policy = state.MetadataOnly
	}

	report := &IngestReport{Backend: opts.Backend, Received: len(items)}
	receivedAt := s.now()
	for i, item := range items {
		e, err := ToEntity(resolver, item, receivedAt)
		if err == nil {
			err = mapper.Add(ctx, e, addOpts)
		}
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("item %d (%s): %v", i, item.ID, err))
			log.Warn("Skipping observation", zap.Int("index", i), zap.String("native_id", item.ID), zap.Error(err))
		}
	}

	result, err := mapper.Commit(ctx)
	report.Result = result
	if err != nil {
		return report, err
	}
	return report, nil
}

// Merge reconciles already built records, e.g. from a backup, and commits the result.
// Primary keys are dropped so records match by identity.
func (s *Service) Merge(ctx context.Context, entities []*state.Entity, opts reconcile.AddOptions) (reconcile.CommitResult, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mapper := reconcile.NewMapper(s.store, reconcile.WithLogger(s.logger), reconcile.WithClock(s.now))
	skipped := 0
	for _, e := range entities {
		e = e.Clone()
		e.ID = 0
		if err := mapper.Add(ctx, e, opts); err != nil {
			skipped++
			s.logger.Warn("Skipping record", append(e.LogFields(), zap.Error(err))...)
		}
	}

	result, err := mapper.Commit(ctx)
	return result, skipped, err
}

// List returns one page of stored records and the total match count.
func (s *Service) List(ctx context.Context, q models.ListQuery) ([]*state.Entity, int64, error) {
	return s.store.Find(ctx, q)
}

// Get returns a stored record by id, or nil.
func (s *Service) Get(ctx context.Context, id int64) (*state.Entity, error) {
	return s.store.GetByID(ctx, id)
}

// Delete removes a stored record by id.
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Remove(ctx, &state.Entity{ID: id})
}

// Stats returns the number of stored records per type.
func (s *Service) Stats(ctx context.Context) (map[state.Type]int64, error) {
	return s.store.Count(ctx)
}
