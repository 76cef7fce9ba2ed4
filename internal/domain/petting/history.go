package petting

// History is a fixed-capacity newest-first list: push front, trim tail.
// It models the bounded record lists (transactions, errors, manual triggers,
// worker logs) so the eviction policy is testable apart from any store.
type History[T any] struct {
	cap   int
	items []T
}

func NewHistory[T any](capacity int) *History[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &History[T]{cap: capacity}
}

func (h *History[T]) PushFront(item T) {
	h.items = append([]T{item}, h.items...)
	if len(h.items) > h.cap {
		h.items = h.items[:h.cap]
	}
}

// Items returns up to limit entries, newest first. limit <= 0 returns all.
func (h *History[T]) Items(limit int) []T {
	n := len(h.items)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]T, n)
	copy(out, h.items[:n])
	return out
}

func (h *History[T]) Len() int { return len(h.items) }

func (h *History[T]) Clear() { h.items = nil }
