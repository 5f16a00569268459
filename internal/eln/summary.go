package eln

import "nanoeln/pkg/domain"

// recentActivityLimit is the number of audit entries shown on the dashboard.
const recentActivityLimit = 4

// Summary holds the dashboard figures.
type Summary struct {
	ActiveProjects        int                             `json:"active_projects"`
	InProgressExperiments int                             `json:"in_progress_experiments"`
	PendingBatches        int                             `json:"pending_batches"`
	OnlineInstruments     int                             `json:"online_instruments"`
	TotalInstruments      int                             `json:"total_instruments"`
	InstrumentsByStatus   map[domain.InstrumentStatus]int `json:"instruments_by_status"`
	Predictions           int                             `json:"predictions"`
	RecentActivity        []domain.AuditLogEntry          `json:"recent_activity"`
}

// Summary computes the dashboard figures from the current state.
func (s *Store) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum := Summary{
		TotalInstruments:    len(s.instruments),
		InstrumentsByStatus: make(map[domain.InstrumentStatus]int),
		Predictions:         len(s.state.predictions),
	}
	for _, p := range s.state.projects {
		if p.Status == domain.ProjectActive {
			sum.ActiveProjects++
		}
	}
	for _, e := range s.state.experiments {
		if e.Status == domain.ExperimentInProgress {
			sum.InProgressExperiments++
		}
	}
	for _, b := range s.state.batches {
		if b.Status == domain.BatchPending {
			sum.PendingBatches++
		}
	}
	for _, inst := range s.instruments {
		sum.InstrumentsByStatus[inst.Status]++
	}
	sum.OnlineInstruments = sum.InstrumentsByStatus[domain.InstrumentOnline]
	recent := s.state.audit
	if len(recent) > recentActivityLimit {
		recent = recent[:recentActivityLimit]
	}
	sum.RecentActivity = cloneSlice(recent, cloneAuditEntry)
	return sum
}
