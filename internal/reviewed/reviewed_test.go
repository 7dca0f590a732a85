package reviewed

import (
	"context"
	"sync"
	"testing"
)

func openTestSet(t *testing.T, store Store) *Set {
	t.Helper()
	s, err := Open(context.Background(), store)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return s
}

func TestMarkReviewedIdempotent(t *testing.T) {
	s := openTestSet(t, NewMemoryStore())
	defer s.Close()

	s.MarkReviewed("a")
	first := s.All()

	s.MarkReviewed("a")
	second := s.All()

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("set sizes = %d, %d; want 1, 1", len(first), len(second))
	}
	if _, ok := second["a"]; !ok {
		t.Fatal("a missing after second mark")
	}
}

func TestContains(t *testing.T) {
	s := openTestSet(t, NewMemoryStore())
	defer s.Close()

	if s.Contains("a") {
		t.Fatal("empty set should not contain a")
	}
	s.MarkReviewed("a")
	if !s.Contains("a") {
		t.Fatal("set should contain a after marking")
	}
}

func TestOpenLoadsPersistedIDs(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Save(context.Background(), []string{"x", "y"}); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	s := openTestSet(t, store)
	defer s.Close()

	if !s.Contains("x") || !s.Contains("y") {
		t.Fatal("persisted ids not visible after Open")
	}
}

func TestCloseFlushesPendingMarks(t *testing.T) {
	store := NewMemoryStore()
	s := openTestSet(t, store)

	s.MarkReviewed("a")
	s.MarkReviewed("b")
	s.Close()

	if !store.Persisted("a") || !store.Persisted("b") {
		t.Fatal("marks not persisted by Close")
	}
}

func TestConcurrentMarksSameID(t *testing.T) {
	store := NewMemoryStore()
	s := openTestSet(t, store)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.MarkReviewed("same")
		}()
	}
	wg.Wait()
	s.Close()

	if got := len(s.All()); got != 1 {
		t.Fatalf("set size = %d after concurrent marks of one id; want 1", got)
	}
	if !store.Persisted("same") {
		t.Fatal("id not persisted")
	}
}

func TestAllReturnsSnapshot(t *testing.T) {
	s := openTestSet(t, NewMemoryStore())
	defer s.Close()

	s.MarkReviewed("a")
	snapshot := s.All()
	s.MarkReviewed("b")

	if len(snapshot) != 1 {
		t.Fatalf("snapshot grew to %d entries after later mark; want 1", len(snapshot))
	}
}

func TestFlushFailureKeepsMemoryAhead(t *testing.T) {
	store := NewMemoryStore()
	store.SaveErr = context.DeadlineExceeded

	s := openTestSet(t, store)
	s.MarkReviewed("a")
	s.Close()

	// The durable copy may be behind, the in-memory set never is.
	if !s.Contains("a") {
		t.Fatal("in-memory set lost a mark on flush failure")
	}
	if store.Persisted("a") {
		t.Fatal("store unexpectedly persisted despite forced error")
	}
}
