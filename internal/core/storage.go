// Package core wires configuration into a running lab data store: it picks
// the snapshot backend and blob driver, builds the logger and metrics, and
// owns their lifetimes.
package core

import (
	"context"
	"fmt"

	"nanoeln/internal/config"
	"nanoeln/internal/infra/persistence/memory"
	"nanoeln/internal/infra/persistence/postgres"
	"nanoeln/internal/infra/persistence/sqlite"
	"nanoeln/pkg/domain"
)

// OpenSnapshotStore selects a backend by cfg.Driver; empty means sqlite.
//
//	memory:   process memory only (tests / ephemeral)
//	sqlite:   embedded file at cfg.SQLitePath (default ./nanoeln.db)
//	postgres: server at cfg.PostgresDSN
func OpenSnapshotStore(ctx context.Context, cfg config.StorageConfig) (domain.SnapshotStore, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = config.StorageSQLite
	}
	switch driver {
	case config.StorageMemory:
		return memory.NewStore(), nil
	case config.StorageSQLite:
		return sqlite.NewStore(cfg.SQLitePath)
	case config.StoragePostgres:
		return postgres.NewStore(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
