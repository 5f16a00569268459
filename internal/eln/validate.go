package eln

import (
	"strings"

	"nanoeln/pkg/domain"
)

func required(entity domain.EntityType, field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.ValidationError{Entity: entity, Field: field, Reason: "is required"}
	}
	return nil
}

func duplicateID(entity domain.EntityType) error {
	return domain.ValidationError{Entity: entity, Field: "id", Reason: "already exists"}
}

func immutable(entity domain.EntityType, field string) error {
	return domain.ValidationError{Entity: entity, Field: field, Reason: "cannot be changed"}
}

func nilMutator(entity domain.EntityType) error {
	return domain.ValidationError{Entity: entity, Field: "mutate", Reason: "is required"}
}

func invalidStatus(entity domain.EntityType, status string) error {
	return domain.ValidationError{Entity: entity, Field: "status", Reason: "unknown value " + strings.TrimSpace(status)}
}

func validateProject(p domain.Project) error {
	if err := required(domain.EntityProject, "name", p.Name); err != nil {
		return err
	}
	if !p.Status.Valid() {
		return invalidStatus(domain.EntityProject, string(p.Status))
	}
	return nil
}

func validateExperiment(e domain.Experiment) error {
	if err := required(domain.EntityExperiment, "project_id", e.ProjectID); err != nil {
		return err
	}
	if err := required(domain.EntityExperiment, "name", e.Name); err != nil {
		return err
	}
	if err := required(domain.EntityExperiment, "hypothesis", e.Hypothesis); err != nil {
		return err
	}
	if !e.Status.Valid() {
		return invalidStatus(domain.EntityExperiment, string(e.Status))
	}
	return nil
}

func validateBatch(b domain.Batch) error {
	if err := required(domain.EntityBatch, "experiment_id", b.ExperimentID); err != nil {
		return err
	}
	if err := required(domain.EntityBatch, "batch_number", b.BatchNumber); err != nil {
		return err
	}
	if !b.Status.Valid() {
		return invalidStatus(domain.EntityBatch, string(b.Status))
	}
	return nil
}

func validateUpload(u domain.DataUpload) error {
	if err := required(domain.EntityDataUpload, "instrument_id", u.InstrumentID); err != nil {
		return err
	}
	if err := required(domain.EntityDataUpload, "file_name", u.FileName); err != nil {
		return err
	}
	if !u.Status.Valid() {
		return invalidStatus(domain.EntityDataUpload, string(u.Status))
	}
	return nil
}

// indexOf returns the position of the record with id, or -1.
func indexOf[T any](items []T, id string, key func(*T) string) int {
	for i := range items {
		if key(&items[i]) == id {
			return i
		}
	}
	return -1
}

func idOfProject(p *domain.Project) string             { return p.ID }
func idOfExperiment(e *domain.Experiment) string       { return e.ID }
func idOfBatch(b *domain.Batch) string                 { return b.ID }
func idOfUpload(u *domain.DataUpload) string           { return u.ID }
func idOfPrediction(p *domain.PredictionResult) string { return p.ID }

func removeAt[T any](items []T, i int) []T {
	return append(items[:i:i], items[i+1:]...)
}
