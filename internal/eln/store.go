// Package eln implements the lab data store: projects, experiments and
// batches with their counters, instrument uploads, the audit trail and
// prediction history, written through to a snapshot backend.
//
// Every mutation runs against a staged copy of the state. The touched
// collections are saved in one backend call and the copy replaces the live
// state only when that save succeeds, so a failed mutation changes neither
// memory nor storage.
package eln

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nanoeln/internal/blob"
	"nanoeln/internal/predict"
	"nanoeln/internal/seed"
	"nanoeln/pkg/domain"
)

// MetricsRecorder observes the outcome of store operations.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) Observe(context.Context, string, bool, time.Duration) {}

// Store is the lab data store. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	state   state
	backend domain.SnapshotStore

	nowFn       func() time.Time
	idFn        func(prefix string) string
	actor       domain.Actor
	logger      *zap.Logger
	metrics     MetricsRecorder
	blobs       blob.Store
	predictor   predict.Predictor
	instruments []domain.Instrument
	seedFn      func() seed.Data
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.nowFn = now
		}
	}
}

// WithIDGenerator overrides id generation. fn receives the entity prefix
// ("proj", "exp", "batch", "upload", "audit", "pred").
func WithIDGenerator(fn func(prefix string) string) Option {
	return func(s *Store) {
		if fn != nil {
			s.idFn = fn
		}
	}
}

// WithActor sets the user recorded in audit entries.
func WithActor(actor domain.Actor) Option {
	return func(s *Store) { s.actor = actor }
}

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(rec MetricsRecorder) Option {
	return func(s *Store) {
		if rec != nil {
			s.metrics = rec
		}
	}
}

// WithBlobStore enables raw instrument file storage.
func WithBlobStore(store blob.Store) Option {
	return func(s *Store) { s.blobs = store }
}

// WithPredictor replaces the default formula predictor.
func WithPredictor(p predict.Predictor) Option {
	return func(s *Store) {
		if p != nil {
			s.predictor = p
		}
	}
}

// WithInstruments replaces the static instrument catalogue.
func WithInstruments(instruments []domain.Instrument) Option {
	return func(s *Store) { s.instruments = cloneInstruments(instruments) }
}

// WithSeed replaces the dataset used for first-run seeding and ResetData.
func WithSeed(fn func() seed.Data) Option {
	return func(s *Store) {
		if fn != nil {
			s.seedFn = fn
		}
	}
}

func defaultID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// New loads the persisted collections from backend. When the initialized
// flag is absent or false, the seed is written together with the flag.
func New(ctx context.Context, backend domain.SnapshotStore, opts ...Option) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("eln: snapshot backend required")
	}
	s := &Store{
		backend:     backend,
		nowFn:       func() time.Time { return time.Now().UTC() },
		idFn:        defaultID,
		actor:       seed.DefaultActor,
		logger:      zap.NewNop(),
		metrics:     noopMetrics{},
		predictor:   predict.Formula{},
		instruments: seed.Instruments(),
		seedFn:      seed.Snapshot,
	}
	for _, opt := range opts {
		opt(s)
	}
	start := time.Now()
	err := s.open(ctx)
	s.observe(ctx, "open", start, err)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) open(ctx context.Context) error {
	initialized, err := loadInitialized(ctx, s.backend)
	if err != nil {
		return err
	}
	if !initialized {
		st := stateFromSeed(s.seedFn())
		entries, err := encodeState(&st, domain.CollectionKeys)
		if err != nil {
			return err
		}
		entries[domain.KeyInitialized] = []byte("true")
		if err := s.backend.Save(ctx, entries); err != nil {
			s.logger.Error("seed snapshot failed", zap.Error(err))
			return domain.PersistenceError{Key: strings.Join(sortedKeys(entries), ","), Err: err}
		}
		s.state = st
		s.logger.Info("seeded lab data store", zap.Int("projects", len(st.projects)))
		return nil
	}
	st, err := loadState(ctx, s.backend)
	if err != nil {
		return err
	}
	s.state = st
	s.logger.Debug("loaded lab data store",
		zap.Int("projects", len(st.projects)),
		zap.Int("experiments", len(st.experiments)),
		zap.Int("batches", len(st.batches)),
	)
	return nil
}

// Close releases the snapshot backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Actor returns the user recorded in audit entries.
func (s *Store) Actor() domain.Actor { return s.actor }

// Instruments returns the static instrument catalogue.
func (s *Store) Instruments() []domain.Instrument {
	return cloneInstruments(s.instruments)
}

// Instrument looks up a catalogue entry.
func (s *Store) Instrument(id string) (domain.Instrument, error) {
	for _, inst := range s.instruments {
		if inst.ID == id {
			return inst, nil
		}
	}
	return domain.Instrument{}, domain.NotFoundError{Entity: domain.EntityInstrument, ID: id}
}

// txn is a staged mutation. Collections it modifies are marked dirty and
// saved when the mutation function returns without error.
type txn struct {
	store *Store
	state state
	now   time.Time
	dirty map[string]struct{}
}

func (tx *txn) touch(keys ...string) {
	for _, k := range keys {
		tx.dirty[k] = struct{}{}
	}
}

func (tx *txn) newID(prefix string) string { return tx.store.idFn(prefix) }

// mutate runs fn against a staged copy of the state and commits it.
func (s *Store) mutate(ctx context.Context, op string, fn func(tx *txn) error) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txn{store: s, state: s.state.clone(), now: s.nowFn(), dirty: make(map[string]struct{})}
	err := fn(tx)
	if err == nil {
		err = s.persist(ctx, tx)
	}
	if err == nil {
		s.state = tx.state
	}
	s.observe(ctx, op, start, err)
	return err
}

func (s *Store) persist(ctx context.Context, tx *txn) error {
	if len(tx.dirty) == 0 {
		return nil
	}
	keys := make([]string, 0, len(tx.dirty))
	for k := range tx.dirty {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	entries, err := encodeState(&tx.state, keys)
	if err != nil {
		return err
	}
	if err := s.backend.Save(ctx, entries); err != nil {
		s.logger.Error("persist snapshot failed", zap.Strings("keys", keys), zap.Error(err))
		return domain.PersistenceError{Key: strings.Join(keys, ","), Err: err}
	}
	return nil
}

func (s *Store) observe(ctx context.Context, op string, start time.Time, err error) {
	s.metrics.Observe(ctx, op, err == nil, time.Since(start))
	if err != nil {
		s.logger.Debug("operation failed", zap.String("op", op), zap.Error(err))
		return
	}
	s.logger.Debug("operation completed", zap.String("op", op))
}

// audit prepends an entry attributed to the configured actor.
func (tx *txn) audit(action string, entity domain.EntityType, entityID, details string) {
	entry := domain.AuditLogEntry{
		ID:         tx.newID("audit"),
		Timestamp:  tx.now,
		UserID:     tx.store.actor.ID,
		UserName:   tx.store.actor.Name,
		Action:     action,
		EntityType: entity,
		EntityID:   entityID,
		Details:    details,
	}
	tx.state.audit = append([]domain.AuditLogEntry{entry}, tx.state.audit...)
	tx.touch(domain.KeyAuditLog)
}

// adjustCounter applies delta to a parent counter, flooring at zero, and
// refreshes the parent's updatedAt.
func adjustCounter(counter *int, updatedAt *time.Time, delta int, now time.Time) {
	*counter += delta
	if *counter < 0 {
		*counter = 0
	}
	*updatedAt = now
}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
