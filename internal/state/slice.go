// Package state holds the storefront's remote-state slices. A slice keeps the
// last snapshot confirmed by the backend together with a loading flag and an
// error slot, and only changes through Start, Succeed and Fail.
package state

import "sync"

// Ticket identifies one Start call. Only the ticket of the most recent Start
// may complete the slice.
type Ticket uint64

type Snapshot[T any] struct {
	Data    T
	Loading bool
	Err     string
}

type Slice[T any] struct {
	name string

	mu      sync.RWMutex
	data    T
	loading bool
	err     string
	gen     uint64
	subs    []func(Snapshot[T])
	onStale func(name string)
}

func NewSlice[T any](name string, initial T) *Slice[T] {
	return &Slice[T]{name: name, data: initial}
}

func (s *Slice[T]) Name() string { return s.name }

// OnStale registers a hook called whenever a superseded completion is dropped.
func (s *Slice[T]) OnStale(fn func(name string)) {
	s.mu.Lock()
	s.onStale = fn
	s.mu.Unlock()
}

// Subscribe registers fn to receive every snapshot after a transition.
func (s *Slice[T]) Subscribe(fn func(Snapshot[T])) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Start marks the slice loading, clears the error and supersedes any
// operation still in flight.
func (s *Slice[T]) Start() Ticket {
	s.mu.Lock()
	s.gen++
	t := Ticket(s.gen)
	s.loading = true
	s.err = ""
	snap := s.snapshotLocked()
	subs := s.subs
	s.mu.Unlock()
	notify(subs, snap)
	return t
}

// Succeed replaces the data wholesale. It reports false and changes nothing
// when t has been superseded by a later Start.
func (s *Slice[T]) Succeed(t Ticket, data T) bool {
	return s.complete(t, func() {
		s.data = data
		s.err = ""
	})
}

// Fail records msg and keeps the last good data. Stale tickets are dropped
// like in Succeed.
func (s *Slice[T]) Fail(t Ticket, msg string) bool {
	return s.complete(t, func() {
		s.err = msg
	})
}

func (s *Slice[T]) complete(t Ticket, apply func()) bool {
	s.mu.Lock()
	if uint64(t) != s.gen {
		stale := s.onStale
		s.mu.Unlock()
		if stale != nil {
			stale(s.name)
		}
		return false
	}
	apply()
	s.loading = false
	snap := s.snapshotLocked()
	subs := s.subs
	s.mu.Unlock()
	notify(subs, snap)
	return true
}

// Reset sets data without a request, e.g. clearing the cart on logout. Any
// operation in flight is superseded.
func (s *Slice[T]) Reset(data T) {
	s.mu.Lock()
	s.gen++
	s.data = data
	s.loading = false
	s.err = ""
	snap := s.snapshotLocked()
	subs := s.subs
	s.mu.Unlock()
	notify(subs, snap)
}

func (s *Slice[T]) ClearError() {
	s.mu.Lock()
	s.err = ""
	snap := s.snapshotLocked()
	subs := s.subs
	s.mu.Unlock()
	notify(subs, snap)
}

func (s *Slice[T]) Snapshot() Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Slice[T]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{Data: s.data, Loading: s.loading, Err: s.err}
}

func notify[T any](subs []func(Snapshot[T]), snap Snapshot[T]) {
	for _, fn := range subs {
		fn(snap)
	}
}
