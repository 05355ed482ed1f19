// Package inflight tracks which network-triggering actions are pending so a
// second submit of the same action fails fast instead of racing the first.
package inflight

import (
	"sort"
	"sync"

	"github.com/wimpyapp/ordering/internal/apperr"
)

type Tracker struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

func New() *Tracker {
	return &Tracker{pending: make(map[string]struct{})}
}

// Begin marks action as pending. The returned func marks it idle again and
// must be called exactly once.
func (t *Tracker) Begin(action string) (func(), error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, busy := t.pending[action]; busy {
		return nil, apperr.InFlight(action)
	}
	t.pending[action] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.pending, action)
			t.mu.Unlock()
		})
	}, nil
}

func (t *Tracker) Pending(action string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, busy := t.pending[action]
	return busy
}

// Snapshot lists pending actions in name order.
func (t *Tracker) Snapshot() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]string, 0, len(t.pending))
	for a := range t.pending {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}
