package tui

// ring is a bounded buffer that drops its oldest entry once full.
type ring[T any] struct {
	items []T
	max   int
}

func newRing[T any](max int) *ring[T] {
	return &ring[T]{items: make([]T, 0, max), max: max}
}

func (r *ring[T]) push(v T) {
	r.items = append(r.items, v)
	if len(r.items) > r.max {
		r.items = r.items[len(r.items)-r.max:]
	}
}

func (r *ring[T]) last() (T, bool) {
	if len(r.items) == 0 {
		var zero T
		return zero, false
	}
	return r.items[len(r.items)-1], true
}

func (r *ring[T]) len() int { return len(r.items) }

// History is the command-line history with cursor-based navigation.
type History struct {
	entries *ring[string]
	cursor  int // -1 = not navigating
}

// NewHistory creates a history buffer with the given maximum size.
func NewHistory(max int) *History {
	return &History{entries: newRing[string](max), cursor: -1}
}

// Push adds a command. Consecutive duplicates are skipped.
func (h *History) Push(cmd string) {
	if last, ok := h.entries.last(); ok && last == cmd {
		return
	}
	h.entries.push(cmd)
}

// Prev returns the previous (older) entry, stopping at the oldest.
func (h *History) Prev() (string, bool) {
	n := h.entries.len()
	if n == 0 {
		return "", false
	}
	switch {
	case h.cursor == -1:
		h.cursor = n - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.entries.items[h.cursor], true
}

// Next returns the next (newer) entry, or false once past the newest.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= h.entries.len() {
		h.cursor = -1
		return "", false
	}
	return h.entries.items[h.cursor], true
}

// ResetCursor leaves navigation mode.
func (h *History) ResetCursor() {
	h.cursor = -1
}
