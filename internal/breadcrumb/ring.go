// Package breadcrumb keeps the bounded, insertion-ordered history of recent
// actions that gets attached to every trace record.
package breadcrumb

// DefaultCapacity is the history length used when none is configured.
const DefaultCapacity = 10

// Ring is a fixed-capacity FIFO history. When full, a push evicts the oldest
// entry. A Ring with capacity <= 0 keeps nothing.
//
// Ring is not safe for concurrent use; the collector serializes access.
type Ring[T any] struct {
	entries  []T
	capacity int
	head     int // index of the oldest entry once the ring is full
}

// New creates a ring holding at most capacity entries.
func New[T any](capacity int) *Ring[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Ring[T]{
		entries:  make([]T, 0, capacity),
		capacity: capacity,
	}
}

// Push appends entry, evicting the oldest entry if the ring is full.
func (r *Ring[T]) Push(entry T) {
	if r.capacity == 0 {
		return
	}
	if len(r.entries) < r.capacity {
		r.entries = append(r.entries, entry)
		return
	}
	r.entries[r.head] = entry
	r.head = (r.head + 1) % r.capacity
}

// Snapshot returns the entries oldest first. The returned slice is a copy.
func (r *Ring[T]) Snapshot() []T {
	out := make([]T, len(r.entries))
	n := copy(out, r.entries[r.head:])
	copy(out[n:], r.entries[:r.head])
	return out
}

// Len returns the number of entries held.
func (r *Ring[T]) Len() int { return len(r.entries) }

// Cap returns the capacity.
func (r *Ring[T]) Cap() int { return r.capacity }
