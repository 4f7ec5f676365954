// Package pending keeps at most one in-flight operation per key. Beginning a
// new operation for a key cancels the one already running, and a finishing
// operation can check whether its result is still wanted.
package pending

import (
	"context"
	"sync"
)

type slot struct {
	gen    uint64
	cancel context.CancelFunc
}

// Slots holds only keys with an operation in flight; finished and abandoned
// keys are removed. Generations come from one counter shared by all keys, so
// a ticket from a released slot never matches a later slot for the same key.
type Slots struct {
	mu    sync.Mutex
	next  uint64
	slots map[string]*slot
}

func New() *Slots {
	return &Slots{slots: map[string]*slot{}}
}

// Ticket identifies one started operation.
type Ticket struct {
	s   *Slots
	key string
	gen uint64
}

// Begin abandons any operation pending under key and starts a new one. The
// returned context is cancelled when a later Begin for the same key happens
// or when Done is called.
func (s *Slots) Begin(parent context.Context, key string) (context.Context, Ticket) {
	ctx, cancel := context.WithCancel(parent)

	s.mu.Lock()
	if cur := s.slots[key]; cur != nil {
		cur.cancel()
	}
	s.next++
	gen := s.next
	s.slots[key] = &slot{gen: gen, cancel: cancel}
	s.mu.Unlock()

	return ctx, Ticket{s: s, key: key, gen: gen}
}

// Current reports whether t is still the newest operation for its key.
func (t Ticket) Current() bool {
	if t.s == nil {
		return false
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	cur := t.s.slots[t.key]
	return cur != nil && cur.gen == t.gen
}

// Done releases the slot if t still owns it. Returns false when a newer
// operation replaced t, in which case the caller drops its result.
func (t Ticket) Done() bool {
	if t.s == nil {
		return false
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	cur := t.s.slots[t.key]
	if cur == nil || cur.gen != t.gen {
		return false
	}
	cur.cancel()
	delete(t.s.slots, t.key)
	return true
}

// Abandon cancels whatever is pending under key.
func (s *Slots) Abandon(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur := s.slots[key]; cur != nil {
		cur.cancel()
		delete(s.slots, key)
	}
}
