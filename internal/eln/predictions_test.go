package eln

import (
	"context"
	"errors"
	"testing"

	"nanoeln/internal/predict"
	"nanoeln/pkg/domain"
)

func referenceParameters() domain.ProcessParameters {
	return domain.ProcessParameters{
		LipidComposition: domain.LipidComposition{IonizableLipid: 50, DSPC: 10, Cholesterol: 38.5, PEGLipid: 1.5},
		FlowRate:         3,
		Temperature:      25,
		PH:               4,
	}
}

func TestRunPredictionRecordsResult(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, WithPredictor(predict.Formula{}))
	before := len(s.Predictions())

	res, err := s.RunPrediction(ctx, referenceParameters())
	if err != nil {
		t.Fatalf("RunPrediction: %v", err)
	}
	if res.ID != "pred-t1" || !res.Timestamp.Equal(testNow) {
		t.Fatalf("unexpected generated fields: %+v", res)
	}
	if res.InputParameters.TotalFlowRate != 12 || res.InputParameters.MixingSpeed != 1200 {
		t.Fatalf("expected normalized inputs, got %+v", res.InputParameters)
	}
	if res.Predictions.ZAverage.Value != 75 || res.Predictions.ZetaPotential.Value != -3 {
		t.Fatalf("unexpected predictions: %+v", res.Predictions)
	}
	if res.Suggestions == nil {
		t.Fatalf("expected suggestions from formula predictor")
	}
	preds := s.Predictions()
	if len(preds) != before+1 || preds[0].ID != res.ID {
		t.Fatalf("expected prediction prepended, got %d entries", len(preds))
	}
	audit := s.AuditLog()
	if audit[0].Action != "Created prediction" || audit[0].EntityType != domain.EntityPrediction || audit[0].EntityID != res.ID {
		t.Fatalf("unexpected audit entry: %+v", audit[0])
	}
}

type failingPredictor struct{ err error }

func (f failingPredictor) Predict(context.Context, domain.ProcessParameters) (domain.Predictions, error) {
	return domain.Predictions{}, f.err
}

func TestRunPredictionPropagatesPredictorError(t *testing.T) {
	boom := errors.New("model offline")
	s, _ := newTestStore(t, WithPredictor(failingPredictor{err: boom}))
	before := len(s.Predictions())
	if _, err := s.RunPrediction(context.Background(), referenceParameters()); !errors.Is(err, boom) {
		t.Fatalf("expected predictor error, got %v", err)
	}
	if got := len(s.Predictions()); got != before {
		t.Fatalf("expected no prediction recorded, got %d", got)
	}
}

type fixedPredictor struct{ out domain.Predictions }

func (f fixedPredictor) Predict(context.Context, domain.ProcessParameters) (domain.Predictions, error) {
	return f.out, nil
}

func TestRunPredictionWithoutSuggester(t *testing.T) {
	out := domain.Predictions{ZAverage: domain.PredictedValue{Value: 90, Confidence: 0.5}}
	s, _ := newTestStore(t, WithPredictor(fixedPredictor{out: out}))
	res, err := s.RunPrediction(context.Background(), referenceParameters())
	if err != nil {
		t.Fatalf("RunPrediction: %v", err)
	}
	if res.Suggestions != nil || res.Predictions != out {
		t.Fatalf("unexpected result: %+v", res)
	}
}
