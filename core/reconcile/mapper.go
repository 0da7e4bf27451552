package reconcile

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"watchstate/core/state"

	"go.uber.org/zap"
)

// AddOptions controls how one observation is merged.
type AddOptions struct {
	// Policy is the merge policy. Observations from low-confidence sources use
	// state.MetadataOnly.
	Policy state.Policy

	// After is the sync watermark. Observations updated at or before it are merged with
	// state.MetadataOnly so an old report cannot flip the watched state. Unplay reports
	// carry the added date as their update time and are not subject to it.
	After time.Time

	// DiffKeys restricts the fields that decide whether a merge produced a change.
	// Empty means all fields.
	DiffKeys []state.Field
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(m *Mapper) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock sets the time source used to stamp unplayed records.
func WithClock(now func() time.Time) Option {
	return func(m *Mapper) {
		if now != nil {
			m.now = now
		}
	}
}

// Mapper stages the effect of observations on canonical records and writes them in
// one commit.
type Mapper struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time

	objects  []*state.Entity
	pointers map[string]int
	changed  map[int]struct{}
	order    []int

	fullyLoaded bool
}

// NewMapper creates a Mapper backed by store.
func NewMapper(store Store, opts ...Option) *Mapper {
	m := &Mapper{
		store:  store,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.Reset()
	return m
}

// LoadData preloads records updated after the given time. Loading with a zero time
// loads everything, after which lookups no longer fall back to the store.
func (m *Mapper) LoadData(ctx context.Context, after time.Time) error {
	entities, err := m.store.GetAll(ctx, after)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	for _, e := range entities {
		if _, ok := m.pointers[idPointer(e.ID)]; ok {
			continue
		}
		if slot, ok := m.lookup(e); ok {
			m.logger.Warn("Stored records share an identity",
				append(e.LogFields(), zap.Int64("other_id", m.objects[slot].ID))...)
		}
		m.track(e)
	}
	m.fullyLoaded = after.IsZero()

	m.logger.Debug("Loaded records",
		zap.Int("count", len(entities)),
		zap.Bool("full", m.fullyLoaded),
	)
	return nil
}

// Add merges one observation. Unknown records are staged for insert, known ones are
// merged and staged for update when the merge changed something.
func (m *Mapper) Add(ctx context.Context, e *state.Entity, opts AddOptions) error {
	if e.IsEpisode() && e.Episode == 0 {
		m.logger.Info("Ignoring episode without episode number", e.LogFields()...)
		return nil
	}
	if err := e.Validate(); err != nil {
		return fmt.Errorf("invalid observation %s: %w", e, err)
	}

	slot, local, err := m.find(ctx, e)
	if err != nil {
		return err
	}

	if local == nil {
		slot = m.track(e.Clone())
		m.stage(slot)
		m.logger.Debug("Queued record for insert", e.LogFields()...)
		return nil
	}

	if opts.Policy.AllowWatchStateChange && local.ShouldMarkUnplayed(e) {
		local.MarkUnplayed(e, m.now())
		local.Apply(e, state.MetadataOnly)
		m.stage(slot)
		m.index(slot)
		m.logger.Info("Marking record as unplayed", local.LogFields()...)
		return nil
	}

	policy := opts.Policy
	if !opts.After.IsZero() && e.Updated <= opts.After.Unix() {
		policy = state.MetadataOnly
	}

	merged := local.Clone().Apply(e, policy)
	if !merged.IsChanged(opts.DiffKeys...) {
		m.logger.Debug("No changes detected", local.LogFields()...)
		return nil
	}

	m.objects[slot] = merged
	m.stage(slot)
	m.index(slot)

	fields := merged.LogFields()
	for _, c := range merged.Diff(opts.DiffKeys...) {
		fields = append(fields, zap.Any(string(c.Field), []any{c.Old, c.New}))
	}
	m.logger.Debug("Queued record for update", fields...)
	return nil
}

// Has reports whether a record matching e is known to the mapper or the store.
func (m *Mapper) Has(ctx context.Context, e *state.Entity) (bool, error) {
	_, local, err := m.find(ctx, e)
	return local != nil, err
}

// Get returns the record matching e, including staged changes, or nil.
func (m *Mapper) Get(ctx context.Context, e *state.Entity) (*state.Entity, error) {
	_, local, err := m.find(ctx, e)
	return local, err
}

// Remove deletes the record matching e from the mapper and the store.
func (m *Mapper) Remove(ctx context.Context, e *state.Entity) (bool, error) {
	slot, local, err := m.find(ctx, e)
	if err != nil || local == nil {
		return false, err
	}

	m.forget(slot)
	if local.ID == 0 {
		return true, nil
	}

	removed, err := m.store.Remove(ctx, local)
	if err != nil {
		return false, fmt.Errorf("failed to remove %s: %w", local, err)
	}
	return removed, nil
}

// Pending returns the staged records in the order they were first staged.
func (m *Mapper) Pending() []*state.Entity {
	out := make([]*state.Entity, 0, len(m.order))
	for _, slot := range m.order {
		if e := m.objects[slot]; e != nil {
			out = append(out, e)
		}
	}
	return out
}

// Count returns the number of records held in memory.
func (m *Mapper) Count() int {
	n := 0
	for _, e := range m.objects {
		if e != nil {
			n++
		}
	}
	return n
}

// Reset drops every loaded and staged record.
func (m *Mapper) Reset() {
	m.objects = nil
	m.pointers = make(map[string]int)
	m.changed = make(map[int]struct{})
	m.order = nil
	m.fullyLoaded = false
}

// Commit writes every staged record and resets the mapper. Per-record failures are
// counted in the result; the error is reserved for failures of the whole batch.
func (m *Mapper) Commit(ctx context.Context) (CommitResult, error) {
	pending := m.Pending()
	defer m.Reset()

	if len(pending) == 0 {
		return CommitResult{}, nil
	}

	var (
		result CommitResult
		err    error
	)
	if committer, ok := m.store.(Committer); ok {
		result, err = committer.Commit(ctx, pending)
		if err != nil {
			return result, fmt.Errorf("failed to commit %d records: %w", len(pending), err)
		}
	} else {
		result = m.commitEach(ctx, pending)
	}

	m.logger.Info("Committed records",
		zap.Int("movies_added", result.Movie.Added),
		zap.Int("movies_updated", result.Movie.Updated),
		zap.Int("movies_failed", result.Movie.Failed),
		zap.Int("episodes_added", result.Episode.Added),
		zap.Int("episodes_updated", result.Episode.Updated),
		zap.Int("episodes_failed", result.Episode.Failed),
	)
	return result, nil
}

func (m *Mapper) commitEach(ctx context.Context, pending []*state.Entity) CommitResult {
	var result CommitResult
	for _, e := range pending {
		counter := result.For(e.Type)

		insert := e.ID == 0
		var err error
		if insert {
			err = m.store.Insert(ctx, e)
		} else {
			err = m.store.Update(ctx, e)
		}

		switch {
		case err != nil:
			counter.Failed++
			m.logger.Error("Failed to write record", append(e.LogFields(), zap.Error(err))...)
		case insert:
			counter.Added++
		default:
			counter.Updated++
		}
	}
	return result
}

// find resolves e to an in-memory slot, consulting the store on a miss.
func (m *Mapper) find(ctx context.Context, e *state.Entity) (int, *state.Entity, error) {
	if slot, ok := m.lookup(e); ok {
		return slot, m.objects[slot], nil
	}
	if m.fullyLoaded {
		return -1, nil, nil
	}

	found, err := m.store.Get(ctx, e)
	if err != nil {
		return -1, nil, fmt.Errorf("failed to look up %s: %w", e, err)
	}
	if found == nil {
		return -1, nil, nil
	}

	if slot, ok := m.lookup(found); ok {
		return slot, m.objects[slot], nil
	}
	slot := m.track(found)
	return slot, m.objects[slot], nil
}

func (m *Mapper) lookup(e *state.Entity) (int, bool) {
	if e.ID > 0 {
		if slot, ok := m.pointers[idPointer(e.ID)]; ok {
			return slot, true
		}
	}
	for _, p := range e.Pointers() {
		if slot, ok := m.pointers[p]; ok {
			return slot, true
		}
	}
	return -1, false
}

func (m *Mapper) track(e *state.Entity) int {
	if e.ID > 0 && e.Persisted() == nil {
		e.Snapshot()
	}
	m.objects = append(m.objects, e)
	slot := len(m.objects) - 1
	m.index(slot)
	return slot
}

func (m *Mapper) index(slot int) {
	e := m.objects[slot]
	if e.ID > 0 {
		m.pointers[idPointer(e.ID)] = slot
	}
	for _, p := range e.Pointers() {
		if _, taken := m.pointers[p]; !taken {
			m.pointers[p] = slot
		}
	}
}

func (m *Mapper) stage(slot int) {
	if _, ok := m.changed[slot]; ok {
		return
	}
	m.changed[slot] = struct{}{}
	m.order = append(m.order, slot)
}

func (m *Mapper) forget(slot int) {
	for p, s := range m.pointers {
		if s == slot {
			delete(m.pointers, p)
		}
	}
	delete(m.changed, slot)
	m.objects[slot] = nil
}

func idPointer(id int64) string {
	return "id://" + strconv.FormatInt(id, 10)
}
