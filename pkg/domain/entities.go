// Package domain defines the persistent entities, value objects, and
// persistence contracts of the nanomedicine lab notebook.
package domain

import "time"

// EntityType identifies the kind of record an audit entry refers to.
type EntityType string

// Entity types recorded in the audit trail and used in error reporting.
const (
	EntityProject    EntityType = "project"
	EntityExperiment EntityType = "experiment"
	EntityBatch      EntityType = "batch"
	EntityPrediction EntityType = "prediction"
	EntityApproval   EntityType = "approval"
	// EntityInstrument and EntityDataUpload never appear in audit entries;
	// they identify records in NotFound and validation errors.
	EntityInstrument EntityType = "instrument"
	EntityDataUpload EntityType = "data_upload"
	EntityAuditEntry EntityType = "audit_entry"
)

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

// Project lifecycle states.
const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectOnHold    ProjectStatus = "on-hold"
)

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectCompleted, ProjectOnHold:
		return true
	}
	return false
}

// ExperimentStatus is the lifecycle state of an experiment.
type ExperimentStatus string

// Experiment lifecycle states.
const (
	ExperimentPlanning   ExperimentStatus = "planning"
	ExperimentInProgress ExperimentStatus = "in-progress"
	ExperimentCompleted  ExperimentStatus = "completed"
	ExperimentFailed     ExperimentStatus = "failed"
	ExperimentOnHold     ExperimentStatus = "on-hold"
)

// Valid reports whether s is a known experiment status.
func (s ExperimentStatus) Valid() bool {
	switch s {
	case ExperimentPlanning, ExperimentInProgress, ExperimentCompleted, ExperimentFailed, ExperimentOnHold:
		return true
	}
	return false
}

// BatchStatus is the review state of a produced batch.
type BatchStatus string

// Batch review states.
const (
	BatchPending       BatchStatus = "pending"
	BatchCharacterized BatchStatus = "characterized"
	BatchApproved      BatchStatus = "approved"
	BatchRejected      BatchStatus = "rejected"
)

// Valid reports whether s is a known batch status.
func (s BatchStatus) Valid() bool {
	switch s {
	case BatchPending, BatchCharacterized, BatchApproved, BatchRejected:
		return true
	}
	return false
}

// InstrumentType enumerates the analytical instrument classes in the lab.
type InstrumentType string

// Supported instrument classes.
const (
	InstrumentDLS      InstrumentType = "dls"
	InstrumentHPLC     InstrumentType = "hplc"
	InstrumentTEM      InstrumentType = "tem"
	InstrumentMassSpec InstrumentType = "mass-spec"
	InstrumentUVVis    InstrumentType = "uv-vis"
)

// InstrumentStatus is the connectivity state of an instrument.
type InstrumentStatus string

// Instrument connectivity states.
const (
	InstrumentOnline      InstrumentStatus = "online"
	InstrumentOffline     InstrumentStatus = "offline"
	InstrumentMaintenance InstrumentStatus = "maintenance"
)

// UploadStatus tracks an instrument file through processing and linking.
type UploadStatus string

// Upload processing states.
const (
	UploadPending   UploadStatus = "pending"
	UploadProcessed UploadStatus = "processed"
	UploadLinked    UploadStatus = "linked"
)

// Valid reports whether s is a known upload status.
func (s UploadStatus) Valid() bool {
	switch s {
	case UploadPending, UploadProcessed, UploadLinked:
		return true
	}
	return false
}

// Project groups experiments under a research goal.
type Project struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	Status          ProjectStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	LeadScientist   string        `json:"lead_scientist"`
	ExperimentCount int           `json:"experiment_count"`
}

// Experiment tests a hypothesis within a project.
type Experiment struct {
	ID         string           `json:"id"`
	ProjectID  string           `json:"project_id"`
	Name       string           `json:"name"`
	Hypothesis string           `json:"hypothesis"`
	Status     ExperimentStatus `json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	BatchCount int              `json:"batch_count"`
	Notes      *string          `json:"notes,omitempty"`
}

// LipidComposition holds molar percentages of the formulation lipids.
type LipidComposition struct {
	IonizableLipid float64 `json:"ionizable_lipid"`
	DSPC           float64 `json:"dspc"`
	Cholesterol    float64 `json:"cholesterol"`
	PEGLipid       float64 `json:"peg_lipid"`
}

// ProcessParameters are the configured inputs of a formulation run.
type ProcessParameters struct {
	LipidComposition      LipidComposition `json:"lipid_composition"`
	FlowRate              float64          `json:"flow_rate"`       // mL/min
	TotalFlowRate         float64          `json:"total_flow_rate"` // mL/min
	AqueousToOrganicRatio float64          `json:"aqueous_to_organic_ratio"`
	Temperature           float64          `json:"temperature"` // Celsius
	PH                    float64          `json:"ph"`
	MixingSpeed           float64          `json:"mixing_speed"` // rpm
}

// SizePoint is one bin of a particle size distribution.
type SizePoint struct {
	Size      float64 `json:"size"`
	Intensity float64 `json:"intensity"`
}

// CorrelationPoint is one sample of a DLS autocorrelation curve.
type CorrelationPoint struct {
	Time        float64 `json:"time"`
	Correlation float64 `json:"correlation"`
}

// CharacterizationData holds physicochemical measurements of a batch.
type CharacterizationData struct {
	ZAverage                float64            `json:"z_average"` // nm
	PDI                     float64            `json:"pdi"`
	ZetaPotential           float64            `json:"zeta_potential"`           // mV
	EncapsulationEfficiency float64            `json:"encapsulation_efficiency"` // percent
	SizeDistribution        []SizePoint        `json:"size_distribution"`
	CorrelationFunction     []CorrelationPoint `json:"correlation_function,omitempty"`
}

// Batch is one executed formulation run.
type Batch struct {
	ID                   string                `json:"id"`
	ExperimentID         string                `json:"experiment_id"`
	BatchNumber          string                `json:"batch_number"`
	CreatedAt            time.Time             `json:"created_at"`
	ProcessParameters    ProcessParameters     `json:"process_parameters"`
	CharacterizationData *CharacterizationData `json:"characterization_data,omitempty"`
	Status               BatchStatus           `json:"status"`
	Notes                *string               `json:"notes,omitempty"`
}

// Instrument is a static reference record for an analytical instrument.
type Instrument struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Type     InstrumentType   `json:"type"`
	Status   InstrumentStatus `json:"status"`
	LastSync time.Time        `json:"last_sync"`
	Location string           `json:"location"`
}

// DataUpload is an instrument file, optionally linked to a batch.
type DataUpload struct {
	ID           string       `json:"id"`
	InstrumentID string       `json:"instrument_id"`
	FileName     string       `json:"file_name"`
	FileType     string       `json:"file_type"`
	UploadedAt   time.Time    `json:"uploaded_at"`
	BatchID      *string      `json:"batch_id,omitempty"`
	Status       UploadStatus `json:"status"`
	BlobKey      string       `json:"blob_key,omitempty"`
}

// AuditLogEntry is an immutable record of a user action.
type AuditLogEntry struct {
	ID         string     `json:"id"`
	Timestamp  time.Time  `json:"timestamp"`
	UserID     string     `json:"user_id"`
	UserName   string     `json:"user_name"`
	Action     string     `json:"action"`
	EntityType EntityType `json:"entity_type"`
	EntityID   string     `json:"entity_id"`
	Details    string     `json:"details"`
	IPAddress  *string    `json:"ip_address,omitempty"`
}

// PredictedValue pairs a predicted quantity with a confidence in [0,1].
type PredictedValue struct {
	Value      float64 `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Predictions holds the predicted characterization outputs.
type Predictions struct {
	ZAverage                PredictedValue `json:"z_average"`
	PDI                     PredictedValue `json:"pdi"`
	EncapsulationEfficiency PredictedValue `json:"encapsulation_efficiency"`
	ZetaPotential           PredictedValue `json:"zeta_potential"`
}

// MeanConfidence averages the size, PDI and encapsulation confidences, the
// figure shown in prediction history.
func (p Predictions) MeanConfidence() float64 {
	return (p.ZAverage.Confidence + p.PDI.Confidence + p.EncapsulationEfficiency.Confidence) / 3
}

// PredictionResult is an immutable record of one prediction run.
type PredictionResult struct {
	ID              string             `json:"id"`
	Timestamp       time.Time          `json:"timestamp"`
	InputParameters ProcessParameters  `json:"input_parameters"`
	Predictions     Predictions        `json:"predictions"`
	Suggestions     *ProcessParameters `json:"suggestions,omitempty"`
}

// Actor identifies the user recorded in audit entries.
type Actor struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}
