package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStoreSaveAndLoadCopiesPayloads(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	payload := []byte(`[{"id":"proj-1"}]`)
	if err := store.Save(ctx, map[string][]byte{"nanomed-projects": payload}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	payload[0] = 'X'

	got, ok, err := store.Load(ctx, "nanomed-projects")
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if string(got) != `[{"id":"proj-1"}]` {
		t.Fatalf("stored payload aliased caller buffer: %s", got)
	}
	got[0] = 'Y'
	again, _, _ := store.Load(ctx, "nanomed-projects")
	if again[0] != '[' {
		t.Fatalf("loaded payload aliased stored buffer")
	}
}

func TestStoreLoadMissingKey(t *testing.T) {
	got, ok, err := NewStore().Load(context.Background(), "nanomed-batches")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok || got != nil {
		t.Fatalf("expected missing key, got ok=%v payload=%q", ok, got)
	}
}

func TestStoreFailSaveAppliesNothing(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	if err := store.Save(ctx, map[string][]byte{"a": []byte("1")}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	boom := errors.New("disk full")
	store.FailSave = boom
	err := store.Save(ctx, map[string][]byte{"a": []byte("2"), "b": []byte("3")})
	if !errors.Is(err, boom) {
		t.Fatalf("expected FailSave error, got %v", err)
	}
	if diff := cmp.Diff([]string{"a"}, store.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	got, _, _ := store.Load(ctx, "a")
	if string(got) != "1" {
		t.Fatalf("expected original payload to survive, got %q", got)
	}
}

func TestStoreClosed(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, _, err := store.Load(ctx, "a"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed from Load, got %v", err)
	}
	if err := store.Save(ctx, map[string][]byte{"a": nil}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed from Save, got %v", err)
	}
}
