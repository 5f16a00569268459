package eln

import (
	"context"
	"fmt"

	"nanoeln/pkg/domain"
)

// AddBatch appends a batch and increments its experiment's batchCount.
func (s *Store) AddBatch(ctx context.Context, b domain.Batch) (domain.Batch, error) {
	if b.Status == "" {
		b.Status = domain.BatchPending
	}
	if err := validateBatch(b); err != nil {
		return domain.Batch{}, err
	}
	var created domain.Batch
	err := s.mutate(ctx, "add_batch", func(tx *txn) error {
		parent := indexOf(tx.state.experiments, b.ExperimentID, idOfExperiment)
		if parent < 0 {
			return domain.NotFoundError{Entity: domain.EntityExperiment, ID: b.ExperimentID}
		}
		if b.ID == "" {
			b.ID = tx.newID("batch")
		} else if indexOf(tx.state.batches, b.ID, idOfBatch) >= 0 {
			return duplicateID(domain.EntityBatch)
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = tx.now
		}
		b = cloneBatch(b)
		tx.state.batches = append(tx.state.batches, b)
		e := &tx.state.experiments[parent]
		adjustCounter(&e.BatchCount, &e.UpdatedAt, +1, tx.now)
		tx.touch(domain.KeyBatches, domain.KeyExperiments)
		tx.audit("Created batch", domain.EntityBatch, b.ID, fmt.Sprintf("New batch %q created.", b.BatchNumber))
		created = cloneBatch(b)
		return nil
	})
	if err != nil {
		return domain.Batch{}, err
	}
	return created, nil
}

// UpdateBatch applies mutate to the stored batch. Moving a batch to another
// experiment is rejected. Batches carry no updatedAt.
func (s *Store) UpdateBatch(ctx context.Context, id string, mutate func(*domain.Batch) error) (domain.Batch, error) {
	if mutate == nil {
		return domain.Batch{}, nilMutator(domain.EntityBatch)
	}
	var updated domain.Batch
	err := s.mutate(ctx, "update_batch", func(tx *txn) error {
		i := indexOf(tx.state.batches, id, idOfBatch)
		if i < 0 {
			return domain.NotFoundError{Entity: domain.EntityBatch, ID: id}
		}
		current := tx.state.batches[i]
		next := cloneBatch(current)
		if err := mutate(&next); err != nil {
			return err
		}
		if next.ExperimentID != current.ExperimentID {
			return immutable(domain.EntityBatch, "experiment_id")
		}
		next.ID = current.ID
		if err := validateBatch(next); err != nil {
			return err
		}
		next = cloneBatch(next)
		tx.state.batches[i] = next
		tx.touch(domain.KeyBatches)
		updated = cloneBatch(next)
		return nil
	})
	if err != nil {
		return domain.Batch{}, err
	}
	return updated, nil
}

// DeleteBatch removes a batch and decrements its experiment's batchCount,
// never below zero.
func (s *Store) DeleteBatch(ctx context.Context, id string) error {
	return s.mutate(ctx, "delete_batch", func(tx *txn) error {
		i := indexOf(tx.state.batches, id, idOfBatch)
		if i < 0 {
			return domain.NotFoundError{Entity: domain.EntityBatch, ID: id}
		}
		removed := tx.state.batches[i]
		tx.state.batches = removeAt(tx.state.batches, i)
		tx.touch(domain.KeyBatches)
		if parent := indexOf(tx.state.experiments, removed.ExperimentID, idOfExperiment); parent >= 0 {
			e := &tx.state.experiments[parent]
			adjustCounter(&e.BatchCount, &e.UpdatedAt, -1, tx.now)
			tx.touch(domain.KeyExperiments)
		}
		return nil
	})
}

// BatchesByExperiment returns the experiment's batches in insertion order.
func (s *Store) BatchesByExperiment(experimentID string) []domain.Batch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Batch
	for _, b := range s.state.batches {
		if b.ExperimentID == experimentID {
			out = append(out, cloneBatch(b))
		}
	}
	return out
}
