package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
)

func TestOpenDefaultsToFilesystem(t *testing.T) {
	store, err := Open(context.Background(), Config{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if store.Driver() != DriverFilesystem {
		t.Fatalf("expected fs driver, got %s", store.Driver())
	}
}

func TestOpenMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, Config{Driver: DriverMemory})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	key := "uploads/inst-1/upload-9/run.csv"
	if _, err := store.Put(ctx, key, bytes.NewBufferString("size,intensity\n"), PutOptions{ContentType: "text/csv"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := store.Put(ctx, key, bytes.NewBufferString("again"), PutOptions{}); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	_, rc, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer func() { _ = rc.Close() }()
	body, _ := io.ReadAll(rc)
	if string(body) != "size,intensity\n" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), Config{Driver: "tape"}); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}

func TestOpenS3RequiresBucket(t *testing.T) {
	if _, err := Open(context.Background(), Config{Driver: DriverS3}); err == nil {
		t.Fatalf("expected missing bucket error")
	}
}

func TestOpenMinIORequiresEndpoint(t *testing.T) {
	if _, err := Open(context.Background(), Config{Driver: DriverMinIO, MinIO: MinIOConfig{Bucket: "files"}}); err == nil {
		t.Fatalf("expected missing endpoint error")
	}
}
