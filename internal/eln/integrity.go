package eln

import "nanoeln/pkg/domain"

// CounterDrift reports a parent whose stored counter disagrees with the
// number of children that reference it.
type CounterDrift struct {
	Entity domain.EntityType `json:"entity"`
	ID     string            `json:"id"`
	Stored int               `json:"stored"`
	Actual int               `json:"actual"`
}

// IntegrityReport lists dangling references and counter drift. Deleting a
// project leaves its experiments behind, so orphans are expected after
// project deletes.
type IntegrityReport struct {
	OrphanExperiments []string       `json:"orphan_experiments,omitempty"`
	OrphanBatches     []string       `json:"orphan_batches,omitempty"`
	OrphanUploads     []string       `json:"orphan_uploads,omitempty"`
	Drift             []CounterDrift `json:"drift,omitempty"`
}

// Clean reports whether nothing was found.
func (r IntegrityReport) Clean() bool {
	return len(r.OrphanExperiments) == 0 && len(r.OrphanBatches) == 0 &&
		len(r.OrphanUploads) == 0 && len(r.Drift) == 0
}

// CheckIntegrity inspects the current state without modifying it.
func (s *Store) CheckIntegrity() IntegrityReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var report IntegrityReport

	experimentsPer := make(map[string]int)
	for _, e := range s.state.experiments {
		if indexOf(s.state.projects, e.ProjectID, idOfProject) < 0 {
			report.OrphanExperiments = append(report.OrphanExperiments, e.ID)
			continue
		}
		experimentsPer[e.ProjectID]++
	}
	batchesPer := make(map[string]int)
	for _, b := range s.state.batches {
		if indexOf(s.state.experiments, b.ExperimentID, idOfExperiment) < 0 {
			report.OrphanBatches = append(report.OrphanBatches, b.ID)
			continue
		}
		batchesPer[b.ExperimentID]++
	}
	for _, u := range s.state.uploads {
		if u.BatchID != nil && indexOf(s.state.batches, *u.BatchID, idOfBatch) < 0 {
			report.OrphanUploads = append(report.OrphanUploads, u.ID)
		}
	}
	for _, p := range s.state.projects {
		if actual := experimentsPer[p.ID]; actual != p.ExperimentCount {
			report.Drift = append(report.Drift, CounterDrift{Entity: domain.EntityProject, ID: p.ID, Stored: p.ExperimentCount, Actual: actual})
		}
	}
	for _, e := range s.state.experiments {
		if actual := batchesPer[e.ID]; actual != e.BatchCount {
			report.Drift = append(report.Drift, CounterDrift{Entity: domain.EntityExperiment, ID: e.ID, Stored: e.BatchCount, Actual: actual})
		}
	}
	return report
}
