package core

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"nanoeln/internal/config"
	"nanoeln/internal/infra/persistence/memory"
	"nanoeln/internal/infra/persistence/postgres"
	"nanoeln/internal/infra/persistence/postgres/testutil"
	"nanoeln/internal/infra/persistence/sqlite"
)

func TestOpenSnapshotStoreMemory(t *testing.T) {
	store, err := OpenSnapshotStore(context.Background(), config.StorageConfig{Driver: config.StorageMemory})
	if err != nil {
		t.Fatalf("OpenSnapshotStore: %v", err)
	}
	if _, ok := store.(*memory.Store); !ok {
		t.Fatalf("expected *memory.Store, got %T", store)
	}
}

func TestOpenSnapshotStoreSQLiteDefaultsDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "lab.db")
	store, err := OpenSnapshotStore(context.Background(), config.StorageConfig{SQLitePath: path})
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	sq, ok := store.(*sqlite.Store)
	if !ok {
		t.Fatalf("expected *sqlite.Store, got %T", store)
	}
	if sq.Path() != path {
		t.Fatalf("expected path %s, got %s", path, sq.Path())
	}
}

func TestOpenSnapshotStorePostgres(t *testing.T) {
	db, _ := testutil.NewStubDB()
	var gotDSN string
	restore := postgres.OverrideSQLOpen(func(_, dsn string) (*sql.DB, error) {
		gotDSN = dsn
		return db, nil
	})
	defer restore()

	store, err := OpenSnapshotStore(context.Background(), config.StorageConfig{Driver: config.StoragePostgres, PostgresDSN: "postgres://lab@db/nanoeln"})
	if err != nil {
		t.Fatalf("OpenSnapshotStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if _, ok := store.(*postgres.Store); !ok {
		t.Fatalf("expected *postgres.Store, got %T", store)
	}
	if gotDSN != "postgres://lab@db/nanoeln" {
		t.Fatalf("unexpected dsn %q", gotDSN)
	}
}

func TestOpenSnapshotStoreUnknownDriver(t *testing.T) {
	if _, err := OpenSnapshotStore(context.Background(), config.StorageConfig{Driver: "mongo"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
