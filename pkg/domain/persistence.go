package domain

import "context"

// Persisted snapshot keys. Each collection is stored as one complete JSON
// array under its key; the initialized flag is a JSON boolean.
const (
	KeyProjects    = "nanomed-projects"
	KeyExperiments = "nanomed-experiments"
	KeyBatches     = "nanomed-batches"
	KeyDataUploads = "nanomed-uploads"
	KeyAuditLog    = "nanomed-audit"
	KeyPredictions = "nanomed-predictions"
	KeyInitialized = "nanomed-initialized"
)

// CollectionKeys lists the six persisted collections in a stable order.
var CollectionKeys = []string{
	KeyProjects,
	KeyExperiments,
	KeyBatches,
	KeyDataUploads,
	KeyAuditLog,
	KeyPredictions,
}

// SnapshotStore is the key-value namespace the lab store persists into.
// Implementations must treat payloads as opaque and copy them on both Load
// and Save.
type SnapshotStore interface {
	// Load returns the payload stored under key. ok is false when the key
	// has never been written.
	Load(ctx context.Context, key string) (payload []byte, ok bool, err error)
	// Save writes every entry. Backends with transactions apply all entries
	// atomically.
	Save(ctx context.Context, entries map[string][]byte) error
	// Close releases backend resources.
	Close() error
}
