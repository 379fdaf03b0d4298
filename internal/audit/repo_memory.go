package audit

import (
	"context"
	"sync"
)

// MemoryRepo is a bounded in-memory append-only repository. It backs the
// service when Postgres is not configured, and tests. Once capacity is
// reached the oldest events are discarded.
type MemoryRepo struct {
	mu     sync.Mutex
	cap    int
	events []Event
}

const defaultMemoryCap = 1000

func NewMemoryRepo(capacity int) *MemoryRepo {
	if capacity <= 0 {
		capacity = defaultMemoryCap
	}
	return &MemoryRepo{cap: capacity}
}

func (r *MemoryRepo) Append(ctx context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	if len(r.events) > r.cap {
		r.events = r.events[len(r.events)-r.cap:]
	}
	return nil
}

// ListRecent returns up to limit events, newest first.
func (r *MemoryRepo) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 || limit > len(r.events) {
		limit = len(r.events)
	}
	out := make([]Event, 0, limit)
	for i := len(r.events) - 1; i >= len(r.events)-limit; i-- {
		out = append(out, r.events[i])
	}
	return out, nil
}
