package eln

import (
	"context"
	"encoding/json"
	"fmt"

	"nanoeln/internal/seed"
	"nanoeln/pkg/domain"
)

// state holds the persisted collections in insertion order. The audit log
// and predictions are most-recent-first.
type state struct {
	projects    []domain.Project
	experiments []domain.Experiment
	batches     []domain.Batch
	uploads     []domain.DataUpload
	audit       []domain.AuditLogEntry
	predictions []domain.PredictionResult
}

func (s state) clone() state {
	return state{
		projects:    cloneSlice(s.projects, cloneProject),
		experiments: cloneSlice(s.experiments, cloneExperiment),
		batches:     cloneSlice(s.batches, cloneBatch),
		uploads:     cloneSlice(s.uploads, cloneUpload),
		audit:       cloneSlice(s.audit, cloneAuditEntry),
		predictions: cloneSlice(s.predictions, clonePrediction),
	}
}

func stateFromSeed(d seed.Data) state {
	return state{
		projects:    d.Projects,
		experiments: d.Experiments,
		batches:     d.Batches,
		uploads:     d.DataUploads,
		audit:       d.AuditLog,
		predictions: d.Predictions,
	}.clone()
}

// encodeState marshals the named collections. Empty collections encode as
// `[]`, never `null`.
func encodeState(st *state, keys []string) (map[string][]byte, error) {
	entries := make(map[string][]byte, len(keys))
	for _, key := range keys {
		var (
			payload []byte
			err     error
		)
		switch key {
		case domain.KeyProjects:
			payload, err = json.Marshal(nonNil(st.projects))
		case domain.KeyExperiments:
			payload, err = json.Marshal(nonNil(st.experiments))
		case domain.KeyBatches:
			payload, err = json.Marshal(nonNil(st.batches))
		case domain.KeyDataUploads:
			payload, err = json.Marshal(nonNil(st.uploads))
		case domain.KeyAuditLog:
			payload, err = json.Marshal(nonNil(st.audit))
		case domain.KeyPredictions:
			payload, err = json.Marshal(nonNil(st.predictions))
		default:
			return nil, fmt.Errorf("unknown collection key %q", key)
		}
		if err != nil {
			return nil, domain.PersistenceError{Key: key, Err: fmt.Errorf("encode: %w", err)}
		}
		entries[key] = payload
	}
	return entries, nil
}

func loadInitialized(ctx context.Context, backend domain.SnapshotStore) (bool, error) {
	payload, ok, err := backend.Load(ctx, domain.KeyInitialized)
	if err != nil {
		return false, domain.PersistenceError{Key: domain.KeyInitialized, Err: err}
	}
	if !ok {
		return false, nil
	}
	var flag bool
	if err := json.Unmarshal(payload, &flag); err != nil {
		return false, domain.PersistenceError{Key: domain.KeyInitialized, Err: fmt.Errorf("decode: %w", err)}
	}
	return flag, nil
}

// loadState reads every collection; a missing key yields an empty
// collection.
func loadState(ctx context.Context, backend domain.SnapshotStore) (state, error) {
	var st state
	targets := map[string]any{
		domain.KeyProjects:    &st.projects,
		domain.KeyExperiments: &st.experiments,
		domain.KeyBatches:     &st.batches,
		domain.KeyDataUploads: &st.uploads,
		domain.KeyAuditLog:    &st.audit,
		domain.KeyPredictions: &st.predictions,
	}
	for _, key := range domain.CollectionKeys {
		payload, ok, err := backend.Load(ctx, key)
		if err != nil {
			return state{}, domain.PersistenceError{Key: key, Err: err}
		}
		if !ok {
			continue
		}
		if err := json.Unmarshal(payload, targets[key]); err != nil {
			return state{}, domain.PersistenceError{Key: key, Err: fmt.Errorf("decode: %w", err)}
		}
	}
	return st, nil
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

func cloneSlice[T any](in []T, fn func(T) T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}

// copySlice keeps the nil/empty distinction so JSON round trips compare equal.
func copySlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneProject(p domain.Project) domain.Project { return p }

func cloneExperiment(e domain.Experiment) domain.Experiment {
	e.Notes = clonePtr(e.Notes)
	return e
}

func cloneCharacterization(c *domain.CharacterizationData) *domain.CharacterizationData {
	if c == nil {
		return nil
	}
	out := *c
	out.SizeDistribution = copySlice(c.SizeDistribution)
	out.CorrelationFunction = copySlice(c.CorrelationFunction)
	return &out
}

func cloneBatch(b domain.Batch) domain.Batch {
	b.CharacterizationData = cloneCharacterization(b.CharacterizationData)
	b.Notes = clonePtr(b.Notes)
	return b
}

func cloneUpload(u domain.DataUpload) domain.DataUpload {
	u.BatchID = clonePtr(u.BatchID)
	return u
}

func cloneAuditEntry(a domain.AuditLogEntry) domain.AuditLogEntry {
	a.IPAddress = clonePtr(a.IPAddress)
	return a
}

func clonePrediction(p domain.PredictionResult) domain.PredictionResult {
	p.Suggestions = clonePtr(p.Suggestions)
	return p
}

func cloneInstruments(in []domain.Instrument) []domain.Instrument {
	return copySlice(in)
}
