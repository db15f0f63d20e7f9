package history

import (
	"github.com/dshills/termline/internal/editor/diff"
	"github.com/dshills/termline/internal/editor/line"
)

// Default configuration values.
const (
	DefaultLineCapacity = line.DefaultCapacity
	DefaultDepth        = 16
)

// History is a fixed ring of line slots holding the in-progress line and
// the most recently committed lines.
//
// Slots are allocated once at construction; committing and navigating
// reuse them in place. The line numbered lastIndex (the in-progress line)
// lives at slot lastIndex mod depth, committed line k at slot k mod depth
// until the ring wraps over it. offset selects how many commits back the
// current view is; offset 0 is the in-progress line.
//
// A History is single-owner: exactly one editor session may use it at a
// time, so no locking is performed.
type History struct {
	slots     []line.Line
	lastIndex int
	offset    int

	// scratch holds the before-state of the selected line so every edit
	// entry point can return a terminal diff without allocating.
	scratch line.Line

	// result holds the most recently committed line. Commit returns a
	// pointer to it so the committed bytes survive the slot reuse that
	// commit itself performs (with depth 1 the committed slot and the
	// next in-progress slot are the same slot).
	result line.Line
}

// Option configures a History during creation.
type Option func(*settings)

type settings struct {
	capacity int
	depth    int
}

// WithLineCapacity sets the byte capacity of every line slot.
func WithLineCapacity(capacity int) Option {
	return func(s *settings) {
		if capacity > 0 {
			s.capacity = capacity
		}
	}
}

// WithDepth sets the number of ring slots. A depth of n retains the
// in-progress line plus the n-1 most recent commits.
func WithDepth(depth int) Option {
	return func(s *settings) {
		if depth > 0 {
			s.depth = depth
		}
	}
}

// New creates a History with all slots allocated up front.
func New(opts ...Option) *History {
	s := settings{
		capacity: DefaultLineCapacity,
		depth:    DefaultDepth,
	}
	for _, opt := range opts {
		opt(&s)
	}

	h := &History{slots: make([]line.Line, s.depth)}
	for i := range h.slots {
		h.slots[i] = *line.New(s.capacity)
	}
	h.scratch = *line.New(s.capacity)
	h.result = *line.New(s.capacity)
	return h
}

// Depth returns the number of ring slots.
func (h *History) Depth() int { return len(h.slots) }

// LineCapacity returns the byte capacity of each slot.
func (h *History) LineCapacity() int { return h.scratch.Cap() }

// LastIndex returns the number of lines committed so far.
func (h *History) LastIndex() int { return h.lastIndex }

// Offset returns how many commits back the selection currently is.
// Zero means the in-progress line is selected.
func (h *History) Offset() int { return h.offset }

// Retained returns how many committed lines are still reachable through
// SelectPrevious.
func (h *History) Retained() int {
	return h.maxOffset()
}

// maxOffset is the furthest back the selection may travel: no further
// than lines were ever committed, and no further than the ring retains.
func (h *History) maxOffset() int {
	max := len(h.slots) - 1
	if h.lastIndex < max {
		max = h.lastIndex
	}
	return max
}

// selected returns the slot index of the currently selected line.
func (h *History) selected() int {
	return (h.lastIndex - h.offset) % len(h.slots)
}

// Current returns the currently selected line. The pointer stays valid
// for the lifetime of the History but its identity changes with the
// selection.
func (h *History) Current() *line.Line {
	return &h.slots[h.selected()]
}

// SelectPrevious moves the selection one commit further back and returns
// the terminal diff for the change of displayed line. Navigating past the
// oldest retained entry is a harmless no-op yielding an empty diff.
func (h *History) SelectPrevious() diff.Diff {
	h.scratch.CopyFrom(h.Current())
	if h.offset < h.maxOffset() {
		h.offset++
	}
	return diff.Compute(&h.scratch, h.Current())
}

// SelectNext moves the selection one commit forward. Navigating forward
// of the in-progress line is a no-op yielding an empty diff.
func (h *History) SelectNext() diff.Diff {
	h.scratch.CopyFrom(h.Current())
	if h.offset > 0 {
		h.offset--
	}
	return diff.Compute(&h.scratch, h.Current())
}

// Commit finalizes the currently selected line as the next permanent
// history entry, resets the selection to the in-progress position and
// clears the slot that becomes the new in-progress line, destroying the
// oldest retained entry once the ring has wrapped.
//
// The returned line holds the committed content and stays valid until
// the next mutating History operation.
func (h *History) Commit() *line.Line {
	sel := h.selected()
	tail := h.lastIndex % len(h.slots)
	if sel != tail {
		// A recalled (and possibly edited) history entry becomes the
		// newest commit in its logical slot; the original entry keeps
		// its own slot untouched.
		h.slots[tail].CopyFrom(&h.slots[sel])
	}
	h.result.CopyFrom(&h.slots[tail])

	h.lastIndex++
	h.offset = 0
	h.slots[h.lastIndex%len(h.slots)].Clear()

	return &h.result
}
