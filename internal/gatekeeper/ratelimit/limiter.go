// Package ratelimit implements the sliding-window submission rate limiter.
//
// Each form runs its own Limiter instance with its own policy; state lives
// behind the Store interface so single-instance deployments use the in-memory
// store while multi-process deployments can swap in an external atomic store.
package ratelimit

import (
	"sync"
	"time"
)

// Policy parametrizes one limiter instance.
type Policy struct {
	// MaxSubmissions is the number of submissions allowed inside Window.
	MaxSubmissions int

	// Window is the sliding time window.
	Window time.Duration

	// Message is the user-facing text returned when the limit is hit.
	Message string
}

// Result reports whether a submission may proceed.
type Result struct {
	Allowed bool
	Message string
}

// Store holds per-identity submission timestamps. Swap implements the
// check-then-append critical section: it receives the identity's current
// timestamps and stores the returned slice atomically with respect to other
// Swap calls for the same identity.
type Store interface {
	Swap(identity string, fn func(timestamps []time.Time) []time.Time)
}

// MemoryStore is the process-local Store: a mutex-guarded map of identity to
// timestamps. Entries are created lazily, pruned on access, and lost on
// restart. Disposable best-effort state, not a correctness guarantee.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string][]time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]time.Time)}
}

// Swap runs fn under the store lock. An empty result removes the entry so
// fully-expired identities do not accumulate.
func (s *MemoryStore) Swap(identity string, fn func(timestamps []time.Time) []time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := fn(s.entries[identity])
	if len(next) == 0 {
		delete(s.entries, identity)
		return
	}
	s.entries[identity] = next
}

// Len reports how many identities currently have recorded timestamps.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Limiter enforces one sliding-window policy.
type Limiter struct {
	policy Policy
	store  Store
}

// New creates a Limiter with the given policy and store.
func New(policy Policy, store Store) *Limiter {
	return &Limiter{policy: policy, store: store}
}

// CheckAndRecord evaluates a submission from identity at time now.
//
// Timestamps older than the window are pruned, then: if the in-window count
// has reached MaxSubmissions the submission is denied and now is NOT
// recorded; otherwise now is appended and the submission is allowed. The
// prune-check-append sequence runs inside the store's critical section, so
// no identity ever holds more than MaxSubmissions in-window timestamps.
func (l *Limiter) CheckAndRecord(identity string, now time.Time) Result {
	if l.policy.MaxSubmissions <= 0 || l.policy.Window <= 0 || identity == "" {
		return Result{Allowed: true}
	}

	res := Result{Allowed: true}
	cutoff := now.Add(-l.policy.Window)

	l.store.Swap(identity, func(timestamps []time.Time) []time.Time {
		recent := timestamps[:0:0]
		for _, ts := range timestamps {
			if ts.After(cutoff) {
				recent = append(recent, ts)
			}
		}

		if len(recent) >= l.policy.MaxSubmissions {
			res = Result{Allowed: false, Message: l.policy.Message}
			return recent
		}

		return append(recent, now)
	})

	return res
}
