package eln

import "nanoeln/pkg/domain"

// Projects returns every project in insertion order.
func (s *Store) Projects() []domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.state.projects, cloneProject)
}

// Project looks up a project by id.
func (s *Store) Project(id string) (domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.state.projects, id, idOfProject); i >= 0 {
		return cloneProject(s.state.projects[i]), nil
	}
	return domain.Project{}, domain.NotFoundError{Entity: domain.EntityProject, ID: id}
}

// Experiments returns every experiment in insertion order.
func (s *Store) Experiments() []domain.Experiment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.state.experiments, cloneExperiment)
}

// Experiment looks up an experiment by id.
func (s *Store) Experiment(id string) (domain.Experiment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.state.experiments, id, idOfExperiment); i >= 0 {
		return cloneExperiment(s.state.experiments[i]), nil
	}
	return domain.Experiment{}, domain.NotFoundError{Entity: domain.EntityExperiment, ID: id}
}

// Batches returns every batch in insertion order.
func (s *Store) Batches() []domain.Batch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.state.batches, cloneBatch)
}

// Batch looks up a batch by id.
func (s *Store) Batch(id string) (domain.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.state.batches, id, idOfBatch); i >= 0 {
		return cloneBatch(s.state.batches[i]), nil
	}
	return domain.Batch{}, domain.NotFoundError{Entity: domain.EntityBatch, ID: id}
}

// DataUploads returns every upload in insertion order.
func (s *Store) DataUploads() []domain.DataUpload {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.state.uploads, cloneUpload)
}

// DataUpload looks up an upload by id.
func (s *Store) DataUpload(id string) (domain.DataUpload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.state.uploads, id, idOfUpload); i >= 0 {
		return cloneUpload(s.state.uploads[i]), nil
	}
	return domain.DataUpload{}, domain.NotFoundError{Entity: domain.EntityDataUpload, ID: id}
}

// AuditLog returns the audit trail, most recent first.
func (s *Store) AuditLog() []domain.AuditLogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.state.audit, cloneAuditEntry)
}

// Predictions returns the prediction history, most recent first.
func (s *Store) Predictions() []domain.PredictionResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.state.predictions, clonePrediction)
}
