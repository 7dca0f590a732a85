// Package reviewed tracks which events the user has already been shown.
// The in-memory set is the source of truth during a run and is always ahead
// of or equal to the durable copy; flushes run in the background and
// coalesce, each eventually covering every insert.
package reviewed

import (
	"context"
	"log"
	"sync"
	"time"
)

const flushTimeout = 30 * time.Second

// Store is the durable backend for the reviewed-id set. Save must be
// idempotent: writing an id that is already persisted is a no-op.
type Store interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, ids []string) error
}

// Set is the in-memory reviewed-event set with asynchronous persistence.
// Membership is monotonic within a run: ids are only ever added.
type Set struct {
	store Store

	mu  sync.Mutex
	ids map[string]struct{}

	flushCh chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
}

// Open loads the persisted set and starts the background flusher.
func Open(ctx context.Context, store Store) (*Set, error) {
	ids, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}

	s := &Set{
		store:   store,
		ids:     make(map[string]struct{}, len(ids)),
		flushCh: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}

	s.wg.Add(1)
	go s.flushLoop()
	return s, nil
}

// Contains reports whether the event has already been reviewed.
func (s *Set) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// MarkReviewed records an event as reviewed and schedules a flush. Marking
// an already-reviewed event is a no-op.
func (s *Set) MarkReviewed(id string) {
	s.mu.Lock()
	if _, ok := s.ids[id]; ok {
		s.mu.Unlock()
		return
	}
	s.ids[id] = struct{}{}
	s.mu.Unlock()

	// Coalesce: one pending signal is enough, the flusher snapshots the
	// whole set when it runs.
	select {
	case s.flushCh <- struct{}{}:
	default:
	}
}

// All returns a snapshot of the reviewed ids for a clustering pass.
func (s *Set) All() map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]struct{}, len(s.ids))
	for id := range s.ids {
		out[id] = struct{}{}
	}
	return out
}

// Close stops the flusher after one final flush so no insert is lost
// without at least an attempt to persist it.
func (s *Set) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Set) flushLoop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.flushCh:
			s.flush()
		case <-s.done:
			s.flush()
			return
		}
	}
}

func (s *Set) flush() {
	snapshot := s.snapshotSlice()
	if len(snapshot) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	// The next mark schedules another attempt, so a failed flush is
	// retried as soon as anything changes again.
	if err := s.store.Save(ctx, snapshot); err != nil {
		log.Printf("reviewed: flush failed: %v", err)
	}
}

func (s *Set) snapshotSlice() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	return out
}
