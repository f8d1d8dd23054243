package model

import "sync"

// Lazy is a deferred attribute cell. The value is not computed until the
// first Get, so configuration order does not matter: any provider set
// before the first read wins, regardless of when dependent tasks were
// synthesized.
//
// Configuration (Set/SetProvider) happens in the single-threaded
// configuration phase, but Get is called from task actions, which the
// scheduler runs in parallel. The mutex guarantees the provider runs
// exactly once and every reader sees the same value.
type Lazy[T any] struct {
	mu       sync.Mutex
	provider func() T
	value    T
	resolved bool
}

// NewLazy creates a cell with a default provider.
func NewLazy[T any](provider func() T) *Lazy[T] {
	return &Lazy[T]{provider: provider}
}

// Set replaces the provider with a fixed value. Calling Set after the cell
// has resolved has no effect; configuration is expected to finish before
// the first read.
func (l *Lazy[T]) Set(v T) {
	l.SetProvider(func() T { return v })
}

// SetProvider replaces the provider with a computation evaluated on first
// read.
func (l *Lazy[T]) SetProvider(provider func() T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.resolved {
		return
	}
	l.provider = provider
}

// Get resolves the cell, caching the result. Safe for concurrent readers;
// the provider runs at most once.
func (l *Lazy[T]) Get() T {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.resolved {
		if l.provider != nil {
			l.value = l.provider()
		}
		l.resolved = true
	}
	return l.value
}
