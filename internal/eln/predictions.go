package eln

import (
	"context"
	"fmt"

	"nanoeln/internal/predict"
	"nanoeln/pkg/domain"
)

// AddPrediction prepends a prediction to the history and audits it.
func (s *Store) AddPrediction(ctx context.Context, p domain.PredictionResult) (domain.PredictionResult, error) {
	var created domain.PredictionResult
	err := s.mutate(ctx, "add_prediction", func(tx *txn) error {
		if p.ID == "" {
			p.ID = tx.newID("pred")
		} else if indexOf(tx.state.predictions, p.ID, idOfPrediction) >= 0 {
			return duplicateID(domain.EntityPrediction)
		}
		if p.Timestamp.IsZero() {
			p.Timestamp = tx.now
		}
		p = clonePrediction(p)
		tx.state.predictions = append([]domain.PredictionResult{p}, tx.state.predictions...)
		tx.touch(domain.KeyPredictions)
		tx.audit("Created prediction", domain.EntityPrediction, p.ID, "AI prediction generated for formulation parameters.")
		created = clonePrediction(p)
		return nil
	})
	if err != nil {
		return domain.PredictionResult{}, err
	}
	return created, nil
}

// RunPrediction fills the derived parameters, asks the configured predictor
// for estimates and records the result. Predictors that also suggest
// parameters contribute suggestions. The predictor runs without the store
// lock held.
func (s *Store) RunPrediction(ctx context.Context, params domain.ProcessParameters) (domain.PredictionResult, error) {
	params = predict.Normalize(params)
	predictions, err := s.predictor.Predict(ctx, params)
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("predict: %w", err)
	}
	result := domain.PredictionResult{InputParameters: params, Predictions: predictions}
	if sg, ok := s.predictor.(predict.Suggester); ok {
		suggested := sg.Suggest(params)
		result.Suggestions = &suggested
	}
	return s.AddPrediction(ctx, result)
}
