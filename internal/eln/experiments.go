package eln

import (
	"context"
	"fmt"

	"nanoeln/pkg/domain"
)

// AddExperiment appends an experiment and increments its project's
// experimentCount.
func (s *Store) AddExperiment(ctx context.Context, e domain.Experiment) (domain.Experiment, error) {
	if e.Status == "" {
		e.Status = domain.ExperimentPlanning
	}
	if err := validateExperiment(e); err != nil {
		return domain.Experiment{}, err
	}
	var created domain.Experiment
	err := s.mutate(ctx, "add_experiment", func(tx *txn) error {
		parent := indexOf(tx.state.projects, e.ProjectID, idOfProject)
		if parent < 0 {
			return domain.NotFoundError{Entity: domain.EntityProject, ID: e.ProjectID}
		}
		if e.ID == "" {
			e.ID = tx.newID("exp")
		} else if indexOf(tx.state.experiments, e.ID, idOfExperiment) >= 0 {
			return duplicateID(domain.EntityExperiment)
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = tx.now
		}
		if e.UpdatedAt.IsZero() {
			e.UpdatedAt = tx.now
		}
		e.BatchCount = 0
		e = cloneExperiment(e)
		tx.state.experiments = append(tx.state.experiments, e)
		p := &tx.state.projects[parent]
		adjustCounter(&p.ExperimentCount, &p.UpdatedAt, +1, tx.now)
		tx.touch(domain.KeyExperiments, domain.KeyProjects)
		tx.audit("Created experiment", domain.EntityExperiment, e.ID, fmt.Sprintf("New experiment %q created.", e.Name))
		created = cloneExperiment(e)
		return nil
	})
	if err != nil {
		return domain.Experiment{}, err
	}
	return created, nil
}

// UpdateExperiment applies mutate to the stored experiment. Moving an
// experiment to another project is rejected; batchCount is preserved.
func (s *Store) UpdateExperiment(ctx context.Context, id string, mutate func(*domain.Experiment) error) (domain.Experiment, error) {
	if mutate == nil {
		return domain.Experiment{}, nilMutator(domain.EntityExperiment)
	}
	var updated domain.Experiment
	err := s.mutate(ctx, "update_experiment", func(tx *txn) error {
		i := indexOf(tx.state.experiments, id, idOfExperiment)
		if i < 0 {
			return domain.NotFoundError{Entity: domain.EntityExperiment, ID: id}
		}
		current := tx.state.experiments[i]
		next := cloneExperiment(current)
		if err := mutate(&next); err != nil {
			return err
		}
		if next.ProjectID != current.ProjectID {
			return immutable(domain.EntityExperiment, "project_id")
		}
		next.ID = current.ID
		next.BatchCount = current.BatchCount
		if err := validateExperiment(next); err != nil {
			return err
		}
		next.UpdatedAt = tx.now
		next = cloneExperiment(next)
		tx.state.experiments[i] = next
		tx.touch(domain.KeyExperiments)
		updated = cloneExperiment(next)
		return nil
	})
	if err != nil {
		return domain.Experiment{}, err
	}
	return updated, nil
}

// DeleteExperiment removes an experiment and decrements its project's
// experimentCount, never below zero. Batches are left in place.
func (s *Store) DeleteExperiment(ctx context.Context, id string) error {
	return s.mutate(ctx, "delete_experiment", func(tx *txn) error {
		i := indexOf(tx.state.experiments, id, idOfExperiment)
		if i < 0 {
			return domain.NotFoundError{Entity: domain.EntityExperiment, ID: id}
		}
		removed := tx.state.experiments[i]
		tx.state.experiments = removeAt(tx.state.experiments, i)
		tx.touch(domain.KeyExperiments)
		if parent := indexOf(tx.state.projects, removed.ProjectID, idOfProject); parent >= 0 {
			p := &tx.state.projects[parent]
			adjustCounter(&p.ExperimentCount, &p.UpdatedAt, -1, tx.now)
			tx.touch(domain.KeyProjects)
		}
		return nil
	})
}

// ExperimentsByProject returns the project's experiments in insertion order.
func (s *Store) ExperimentsByProject(projectID string) []domain.Experiment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Experiment
	for _, e := range s.state.experiments {
		if e.ProjectID == projectID {
			out = append(out, cloneExperiment(e))
		}
	}
	return out
}
