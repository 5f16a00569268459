// Package seed holds the canonical starting dataset of the lab notebook and
// the static instrument catalogue.
package seed

import (
	"time"

	"nanoeln/pkg/domain"
)

// DefaultActor is the user recorded in audit entries when none is configured.
var DefaultActor = domain.Actor{ID: "user-1", Name: "Dr. Sarah Chen"}

// Data is a complete set of the persisted collections.
type Data struct {
	Projects    []domain.Project
	Experiments []domain.Experiment
	Batches     []domain.Batch
	DataUploads []domain.DataUpload
	AuditLog    []domain.AuditLogEntry
	Predictions []domain.PredictionResult
}

func at(day, hour int) time.Time {
	return time.Date(2024, time.January, day, hour, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

// Snapshot returns a fresh copy of the seed collections. Counters are
// consistent with the experiments and batches it contains.
func Snapshot() Data {
	return Data{
		Projects:    projects(),
		Experiments: experiments(),
		Batches:     batches(),
		DataUploads: uploads(),
		AuditLog:    auditLog(),
		Predictions: predictions(),
	}
}

// Instruments returns the static instrument catalogue.
func Instruments() []domain.Instrument {
	return []domain.Instrument{
		{ID: "inst-1", Name: "Zetasizer Ultra", Type: domain.InstrumentDLS, Status: domain.InstrumentOnline, LastSync: at(20, 9), Location: "Lab 2.14"},
		{ID: "inst-2", Name: "Agilent 1260 Infinity II", Type: domain.InstrumentHPLC, Status: domain.InstrumentOnline, LastSync: at(20, 8), Location: "Lab 2.16"},
		{ID: "inst-3", Name: "JEOL JEM-1400Flash", Type: domain.InstrumentTEM, Status: domain.InstrumentMaintenance, LastSync: at(12, 15), Location: "Imaging Core"},
		{ID: "inst-4", Name: "Orbitrap Exploris 480", Type: domain.InstrumentMassSpec, Status: domain.InstrumentOffline, LastSync: at(5, 11), Location: "Analytical Core"},
		{ID: "inst-5", Name: "NanoDrop One", Type: domain.InstrumentUVVis, Status: domain.InstrumentOnline, LastSync: at(20, 10), Location: "Lab 2.14"},
	}
}

func projects() []domain.Project {
	return []domain.Project{
		{
			ID:              "proj-1",
			Name:            "mRNA-LNP Vaccine Platform",
			Description:     "Optimise ionizable lipid ratios for intramuscular mRNA delivery.",
			Status:          domain.ProjectActive,
			CreatedAt:       at(2, 9),
			UpdatedAt:       at(15, 14),
			LeadScientist:   "Dr. Sarah Chen",
			ExperimentCount: 2,
		},
		{
			ID:              "proj-2",
			Name:            "siRNA Liver Targeting",
			Description:     "Hepatocyte-targeted siRNA nanoparticles with GalNAc ligands.",
			Status:          domain.ProjectActive,
			CreatedAt:       at(4, 10),
			UpdatedAt:       at(10, 16),
			LeadScientist:   "Dr. Marcus Webb",
			ExperimentCount: 1,
		},
		{
			ID:              "proj-3",
			Name:            "PEG-Lipid Stability Screen",
			Description:     "Shelf-life screen of PEG-lipid variants at 4 C.",
			Status:          domain.ProjectCompleted,
			CreatedAt:       at(1, 8),
			UpdatedAt:       at(8, 12),
			LeadScientist:   "Dr. Sarah Chen",
			ExperimentCount: 0,
		},
	}
}

func experiments() []domain.Experiment {
	return []domain.Experiment{
		{
			ID:         "exp-1",
			ProjectID:  "proj-1",
			Name:       "Ionizable Lipid Titration",
			Hypothesis: "Raising ionizable lipid to 50 mol% improves encapsulation above 90%.",
			Status:     domain.ExperimentInProgress,
			CreatedAt:  at(3, 9),
			UpdatedAt:  at(15, 14),
			BatchCount: 2,
		},
		{
			ID:         "exp-2",
			ProjectID:  "proj-1",
			Name:       "Flow Rate Ratio Study",
			Hypothesis: "A 3:1 aqueous to organic ratio yields particles below 90 nm.",
			Status:     domain.ExperimentPlanning,
			CreatedAt:  at(9, 11),
			UpdatedAt:  at(14, 10),
			BatchCount: 1,
			Notes:      ptr("Awaiting microfluidic chip delivery."),
		},
		{
			ID:         "exp-3",
			ProjectID:  "proj-2",
			Name:       "GalNAc Conjugate Density",
			Hypothesis: "Higher ligand density increases hepatocyte uptake without raising PDI.",
			Status:     domain.ExperimentPlanning,
			CreatedAt:  at(10, 16),
			UpdatedAt:  at(10, 16),
			BatchCount: 0,
		},
	}
}

func standardParameters() domain.ProcessParameters {
	return domain.ProcessParameters{
		LipidComposition: domain.LipidComposition{
			IonizableLipid: 50,
			DSPC:           10,
			Cholesterol:    38.5,
			PEGLipid:       1.5,
		},
		FlowRate:              3,
		TotalFlowRate:         12,
		AqueousToOrganicRatio: 3,
		Temperature:           25,
		PH:                    4,
		MixingSpeed:           1200,
	}
}

func batches() []domain.Batch {
	b1 := standardParameters()
	b2 := standardParameters()
	b2.LipidComposition.IonizableLipid = 46
	b2.LipidComposition.Cholesterol = 42.5
	b3 := standardParameters()
	b3.FlowRate = 4
	b3.TotalFlowRate = 16
	return []domain.Batch{
		{
			ID:                "batch-1",
			ExperimentID:      "exp-1",
			BatchNumber:       "LNP-2024-001",
			CreatedAt:         at(5, 10),
			ProcessParameters: b1,
			CharacterizationData: &domain.CharacterizationData{
				ZAverage:                78.4,
				PDI:                     0.11,
				ZetaPotential:           -3.2,
				EncapsulationEfficiency: 93.1,
				SizeDistribution: []domain.SizePoint{
					{Size: 50, Intensity: 4}, {Size: 65, Intensity: 18}, {Size: 78, Intensity: 41},
					{Size: 92, Intensity: 25}, {Size: 110, Intensity: 9}, {Size: 130, Intensity: 3},
				},
				CorrelationFunction: []domain.CorrelationPoint{
					{Time: 1, Correlation: 0.98}, {Time: 10, Correlation: 0.91},
					{Time: 100, Correlation: 0.52}, {Time: 1000, Correlation: 0.04},
				},
			},
			Status: domain.BatchCharacterized,
		},
		{
			ID:                "batch-2",
			ExperimentID:      "exp-1",
			BatchNumber:       "LNP-2024-002",
			CreatedAt:         at(15, 14),
			ProcessParameters: b2,
			CharacterizationData: &domain.CharacterizationData{
				ZAverage:                84.9,
				PDI:                     0.14,
				ZetaPotential:           -2.7,
				EncapsulationEfficiency: 89.6,
				SizeDistribution: []domain.SizePoint{
					{Size: 60, Intensity: 8}, {Size: 75, Intensity: 22}, {Size: 85, Intensity: 38},
					{Size: 100, Intensity: 24}, {Size: 120, Intensity: 8},
				},
			},
			Status: domain.BatchApproved,
			Notes:  ptr("Released for in vivo study."),
		},
		{
			ID:                "batch-3",
			ExperimentID:      "exp-2",
			BatchNumber:       "LNP-2024-003",
			CreatedAt:         at(14, 10),
			ProcessParameters: b3,
			Status:            domain.BatchPending,
		},
	}
}

func uploads() []domain.DataUpload {
	return []domain.DataUpload{
		{
			ID:           "upload-1",
			InstrumentID: "inst-1",
			FileName:     "LNP-2024-001_dls.csv",
			FileType:     "text/csv",
			UploadedAt:   at(5, 12),
			Status:       domain.UploadProcessed,
		},
		{
			ID:           "upload-2",
			InstrumentID: "inst-2",
			FileName:     "LNP-2024-002_ee.xlsx",
			FileType:     "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			UploadedAt:   at(15, 16),
			BatchID:      ptr("batch-2"),
			Status:       domain.UploadLinked,
		},
		{
			ID:           "upload-3",
			InstrumentID: "inst-5",
			FileName:     "rna_quant_0116.txt",
			FileType:     "text/plain",
			UploadedAt:   at(16, 9),
			Status:       domain.UploadPending,
		},
	}
}

func auditLog() []domain.AuditLogEntry {
	return []domain.AuditLogEntry{
		{
			ID:         "audit-3",
			Timestamp:  at(15, 16),
			UserID:     DefaultActor.ID,
			UserName:   DefaultActor.Name,
			Action:     "Linked instrument data",
			EntityType: domain.EntityBatch,
			EntityID:   "batch-2",
			Details:    "Instrument data linked to batch.",
			IPAddress:  ptr("10.0.4.21"),
		},
		{
			ID:         "audit-2",
			Timestamp:  at(15, 14),
			UserID:     DefaultActor.ID,
			UserName:   DefaultActor.Name,
			Action:     "Created batch",
			EntityType: domain.EntityBatch,
			EntityID:   "batch-2",
			Details:    `New batch "LNP-2024-002" created.`,
			IPAddress:  ptr("10.0.4.21"),
		},
		{
			ID:         "audit-1",
			Timestamp:  at(2, 9),
			UserID:     DefaultActor.ID,
			UserName:   DefaultActor.Name,
			Action:     "Created project",
			EntityType: domain.EntityProject,
			EntityID:   "proj-1",
			Details:    `New project "mRNA-LNP Vaccine Platform" created.`,
		},
	}
}

func predictions() []domain.PredictionResult {
	return []domain.PredictionResult{
		{
			ID:              "pred-1",
			Timestamp:       at(12, 13),
			InputParameters: standardParameters(),
			Predictions: domain.Predictions{
				ZAverage:                domain.PredictedValue{Value: 79.2, Confidence: 0.93},
				PDI:                     domain.PredictedValue{Value: 0.125, Confidence: 0.9},
				EncapsulationEfficiency: domain.PredictedValue{Value: 94.3, Confidence: 0.94},
				ZetaPotential:           domain.PredictedValue{Value: -2.1, Confidence: 0.87},
			},
		},
	}
}
