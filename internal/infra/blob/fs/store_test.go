package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"nanoeln/internal/blob/core"
)

func newTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	store.nowFn = func() time.Time { return time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC) }
	return store
}

func TestStorePutGetHeadListDelete(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	key := "uploads/inst-1/upload-1/run.csv"
	info, err := store.Put(ctx, key, strings.NewReader("size,intensity\n78,41\n"), core.PutOptions{ContentType: "text/csv", Metadata: map[string]string{"instrument": "inst-1"}})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if info.Key != key || info.Size != 21 || len(info.ETag) != 64 {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := store.Put(ctx, key, strings.NewReader("x"), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	head, err := store.Head(ctx, key)
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	got, rc, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	if err := rc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if string(body) != "size,intensity\n78,41\n" || got.ETag != head.ETag || got.Metadata["instrument"] != "inst-1" {
		t.Fatalf("unexpected get result %+v body=%q", got, body)
	}
	if !got.LastModified.Equal(store.nowFn()) {
		t.Fatalf("expected stamped time, got %v", got.LastModified)
	}

	if _, err := store.Put(ctx, "uploads/inst-2/upload-2/ee.txt", bytes.NewBufferString("93.1"), core.PutOptions{}); err != nil {
		t.Fatalf("Put second: %v", err)
	}
	list, err := store.List(ctx, "uploads/inst-1/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Key != key {
		t.Fatalf("unexpected list %+v", list)
	}
	all, err := store.List(ctx, "")
	if err != nil || len(all) != 2 || all[0].Key != key {
		t.Fatalf("unexpected full list %+v err=%v", all, err)
	}

	deleted, err := store.Delete(ctx, key)
	if err != nil || !deleted {
		t.Fatalf("Delete: deleted=%v err=%v", deleted, err)
	}
	if deleted, err := store.Delete(ctx, key); err != nil || deleted {
		t.Fatalf("second Delete: deleted=%v err=%v", deleted, err)
	}
	if _, err := os.Stat(filepath.Join(store.Root(), "uploads/inst-1/upload-1/run.csv.meta")); !os.IsNotExist(err) {
		t.Fatalf("expected sidecar removed, stat err=%v", err)
	}
	if _, _, err := store.Get(ctx, key); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from Get, got %v", err)
	}
	if _, err := store.Head(ctx, key); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from Head, got %v", err)
	}
}

func TestStoreRejectsUnsafeKeys(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	for _, key := range []string{"", "  ", "../escape", "/abs/path", "a/../../b", "file.meta"} {
		if _, err := store.Put(ctx, key, strings.NewReader("x"), core.PutOptions{}); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
	if _, err := store.PresignURL(ctx, "../x", core.SignedURLOptions{}); err == nil {
		t.Fatalf("expected presign error for traversal key")
	}
}

func TestStorePresignURL(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	u, err := store.PresignURL(ctx, "uploads/a.csv", core.SignedURLOptions{})
	if err != nil {
		t.Fatalf("PresignURL: %v", err)
	}
	if u != "http://local.blob/uploads/a.csv" {
		t.Fatalf("unexpected url %s", u)
	}
	if _, err := store.PresignURL(ctx, "uploads/a.csv", core.SignedURLOptions{Method: "PUT"}); !errors.Is(err, core.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("instrument disconnected") }

func TestStorePutReaderFailureLeavesNothing(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	if _, err := store.Put(ctx, "uploads/broken.csv", failingReader{}, core.PutOptions{}); err == nil {
		t.Fatalf("expected reader error")
	}
	list, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no blobs after failed put, got %+v", list)
	}
	if _, err := os.Stat(filepath.Join(store.Root(), "uploads/broken.csv")); !os.IsNotExist(err) {
		t.Fatalf("expected no data file, stat err=%v", err)
	}
}

func TestNewDefaultsRoot(t *testing.T) {
	t.Chdir(t.TempDir())
	store, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if store.Root() != defaultRoot || store.Driver() != core.DriverFilesystem {
		t.Fatalf("unexpected store root=%s driver=%s", store.Root(), store.Driver())
	}
}
