package seed

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSnapshotCountersConsistent(t *testing.T) {
	data := Snapshot()
	experiments := map[string]int{}
	for _, e := range data.Experiments {
		experiments[e.ProjectID]++
	}
	for _, p := range data.Projects {
		if p.ExperimentCount != experiments[p.ID] {
			t.Fatalf("project %s experimentCount=%d, want %d", p.ID, p.ExperimentCount, experiments[p.ID])
		}
	}
	batches := map[string]int{}
	for _, b := range data.Batches {
		batches[b.ExperimentID]++
	}
	for _, e := range data.Experiments {
		if e.BatchCount != batches[e.ID] {
			t.Fatalf("experiment %s batchCount=%d, want %d", e.ID, e.BatchCount, batches[e.ID])
		}
	}
}

func TestSnapshotReferencesResolve(t *testing.T) {
	data := Snapshot()
	instruments := map[string]bool{}
	for _, inst := range Instruments() {
		instruments[inst.ID] = true
	}
	batches := map[string]bool{}
	for _, b := range data.Batches {
		batches[b.ID] = true
	}
	for _, u := range data.DataUploads {
		if !instruments[u.InstrumentID] {
			t.Fatalf("upload %s references unknown instrument %s", u.ID, u.InstrumentID)
		}
		if u.BatchID != nil && !batches[*u.BatchID] {
			t.Fatalf("upload %s references unknown batch %s", u.ID, *u.BatchID)
		}
	}
	for i := 1; i < len(data.AuditLog); i++ {
		if data.AuditLog[i].Timestamp.After(data.AuditLog[i-1].Timestamp) {
			t.Fatalf("audit log not most-recent-first at %d", i)
		}
	}
}

func TestSnapshotReturnsFreshCopies(t *testing.T) {
	first := Snapshot()
	first.Projects[0].Name = "mutated"
	first.Batches[0].CharacterizationData.ZAverage = 1
	*first.Experiments[1].Notes = "mutated"

	second := Snapshot()
	if diff := cmp.Diff(Snapshot(), second); diff != "" {
		t.Fatalf("snapshot not stable (-want +got):\n%s", diff)
	}
	if second.Projects[0].Name == "mutated" || second.Batches[0].CharacterizationData.ZAverage == 1 || *second.Experiments[1].Notes == "mutated" {
		t.Fatalf("mutating one snapshot leaked into another")
	}
}
