package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoad(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, []string{"a", "b"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	ids, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("loaded %d ids; want 2", len(ids))
	}
}

func TestSaveIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, []string{"a"}); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	if err := s.Save(ctx, []string{"a", "b"}); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	ids, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("loaded %d ids after overlapping saves; want 2", len(ids))
	}
}

func TestSaveEmptyIsNoop(t *testing.T) {
	s := openTestStore(t)
	if err := s.Save(context.Background(), nil); err != nil {
		t.Fatalf("empty Save failed: %v", err)
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "reviewed.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.Save(ctx, []string{"x"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	ids, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != "x" {
		t.Fatalf("loaded %v; want [x]", ids)
	}
}
