package store

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestKV(t *testing.T, path string) *KV {
	t.Helper()
	s, err := Open(path)
	if err != nil {
		t.Fatalf("opening kv: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing kv: %v", err)
		}
	})
	return s
}

func TestKV_GetAbsent(t *testing.T) {
	s := newTestKV(t, ":memory:")

	v, ok, err := s.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok || v != "" {
		t.Fatalf("Get(missing) = (%q, %v), want (\"\", false)", v, ok)
	}
}

func TestKV_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newTestKV(t, ":memory:")

	if err := s.Set(ctx, "waterTracker", `{"a":1}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, "waterTracker", `{"a":2}`); err != nil {
		t.Fatalf("Set: %v", err)
	}

	v, ok, err := s.Get(ctx, "waterTracker")
	if err != nil || !ok {
		t.Fatalf("Get = (%q, %v, %v)", v, ok, err)
	}
	if v != `{"a":2}` {
		t.Fatalf("value = %q, want second write", v)
	}
	if _, ok, _ := s.UpdatedAt(ctx, "waterTracker"); !ok {
		t.Fatal("UpdatedAt reported missing key")
	}
}

func TestKV_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "hydrate.db")

	first, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := first.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second := newTestKV(t, path)
	v, ok, err := second.Get(ctx, "k")
	if err != nil || !ok || v != "v" {
		t.Fatalf("Get after reopen = (%q, %v, %v), want (v, true, nil)", v, ok, err)
	}
}
