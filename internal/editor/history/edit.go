package history

import (
	"github.com/dshills/termline/internal/editor/diff"
	"github.com/dshills/termline/internal/editor/line"
)

// Edit entry points. Each snapshots the selected line, applies one Line
// operation in place and returns the terminal diff for the transition.
// Edits apply to whichever line is selected, so a recalled history entry
// is edited in place in its ring slot; the in-progress line keeps its own
// slot and reappears unmodified when the selection returns to offset 0.

// InsertChars inserts b at the cursor. A line that cannot hold b is left
// unchanged and the underlying line.ErrOutOfBounds is returned.
func (h *History) InsertChars(b []byte) (diff.Diff, error) {
	cur := h.Current()
	h.scratch.CopyFrom(cur)
	if _, err := cur.Insert(cur.Cursor(), b); err != nil {
		return diff.Diff{}, err
	}
	return diff.Compute(&h.scratch, cur), nil
}

// DeleteChars removes up to n bytes before the cursor. Deleting at the
// start of the line removes nothing and yields an empty diff.
func (h *History) DeleteChars(n int) diff.Diff {
	cur := h.Current()
	h.scratch.CopyFrom(cur)
	if n > cur.Cursor() {
		n = cur.Cursor()
	}
	if n > 0 {
		// The range is valid by construction, so the error is impossible.
		_, _ = cur.Remove(line.Range{Start: cur.Cursor() - n, End: cur.Cursor()})
	}
	return diff.Compute(&h.scratch, cur)
}

// DeleteToEnd removes everything from the cursor to the end of the line.
func (h *History) DeleteToEnd() diff.Diff {
	cur := h.Current()
	h.scratch.CopyFrom(cur)
	_, _ = cur.Remove(line.Range{Start: cur.Cursor(), End: cur.End()})
	return diff.Compute(&h.scratch, cur)
}

// DeleteWord removes the word before the cursor: trailing whitespace
// first, then the run of non-whitespace preceding it.
func (h *History) DeleteWord() diff.Diff {
	cur := h.Current()
	h.scratch.CopyFrom(cur)

	start := cur.Cursor()
	for start > 0 && isWordSpace(h.scratch.Bytes()[start-1]) {
		start--
	}
	for start > 0 && !isWordSpace(h.scratch.Bytes()[start-1]) {
		start--
	}
	if start < cur.Cursor() {
		_, _ = cur.Remove(line.Range{Start: start, End: cur.Cursor()})
	}
	return diff.Compute(&h.scratch, cur)
}

// MoveCursorBy moves the cursor by delta, clamped to the content range.
func (h *History) MoveCursorBy(delta int) diff.Diff {
	cur := h.Current()
	h.scratch.CopyFrom(cur)
	cur.MoveCursor(delta)
	return diff.Compute(&h.scratch, cur)
}

// CursorToStart moves the cursor to the start of the line.
func (h *History) CursorToStart() diff.Diff {
	cur := h.Current()
	return h.MoveCursorBy(-cur.Cursor())
}

// CursorToEnd moves the cursor to the end of the line.
func (h *History) CursorToEnd() diff.Diff {
	cur := h.Current()
	return h.MoveCursorBy(cur.AfterCursor())
}

// isWordSpace reports whether b separates words for DeleteWord.
func isWordSpace(b byte) bool {
	return b == ' ' || b == '\t'
}
