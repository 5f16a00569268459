package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestStatusValid(t *testing.T) {
	if !ProjectOnHold.Valid() || ProjectStatus("archived").Valid() || ProjectStatus("").Valid() {
		t.Fatalf("unexpected project status validity")
	}
	if !ExperimentFailed.Valid() || ExperimentStatus("done").Valid() {
		t.Fatalf("unexpected experiment status validity")
	}
	if !BatchRejected.Valid() || BatchStatus("shipped").Valid() {
		t.Fatalf("unexpected batch status validity")
	}
	if !UploadLinked.Valid() || UploadStatus("queued").Valid() {
		t.Fatalf("unexpected upload status validity")
	}
}

func TestBatchJSONShape(t *testing.T) {
	b := Batch{
		ID:           "batch-1",
		ExperimentID: "exp-1",
		BatchNumber:  "LNP-2024-001",
		CreatedAt:    time.Date(2024, time.January, 5, 10, 0, 0, 0, time.UTC),
		ProcessParameters: ProcessParameters{
			LipidComposition: LipidComposition{IonizableLipid: 50, DSPC: 10, Cholesterol: 38.5, PEGLipid: 1.5},
			FlowRate:         3,
		},
		Status: BatchPending,
	}
	raw, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(raw)
	for _, want := range []string{`"experiment_id":"exp-1"`, `"batch_number":"LNP-2024-001"`, `"peg_lipid":1.5`, `"created_at":"2024-01-05T10:00:00Z"`} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %s in %s", want, s)
		}
	}
	for _, absent := range []string{"characterization_data", "notes"} {
		if strings.Contains(s, absent) {
			t.Fatalf("expected %s to be omitted from %s", absent, s)
		}
	}

	var back Batch
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(b, back); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMeanConfidence(t *testing.T) {
	p := Predictions{
		ZAverage:                PredictedValue{Confidence: 0.9},
		PDI:                     PredictedValue{Confidence: 0.8},
		EncapsulationEfficiency: PredictedValue{Confidence: 0.7},
		ZetaPotential:           PredictedValue{Confidence: 0.1},
	}
	if got := p.MeanConfidence(); got < 0.7999 || got > 0.8001 {
		t.Fatalf("expected mean of the first three confidences, got %v", got)
	}
}
