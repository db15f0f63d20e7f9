package line

import "errors"

// ErrOutOfBounds indicates an insert or remove that falls outside the
// line's valid range or exceeds its capacity.
var ErrOutOfBounds = errors.New("index out of line bounds")

// Line is a fixed-capacity mutable byte buffer with a cursor.
//
// The backing array is allocated once at construction and never grows.
// Bytes in [0, end) are the line's content; bytes in [end, capacity) are
// stale and never exposed. The cursor always satisfies 0 <= cursor <= end.
type Line struct {
	data   []byte
	cursor int
	end    int
}

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 256

// New creates an empty line with the given capacity in bytes.
func New(capacity int) *Line {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Line{data: make([]byte, capacity)}
}

// Cap returns the line's fixed capacity.
func (l *Line) Cap() int { return len(l.data) }

// Cursor returns the cursor index.
func (l *Line) Cursor() int { return l.cursor }

// End returns the index one past the last content byte.
func (l *Line) End() int { return l.end }

// Len returns the content length. Equivalent to End.
func (l *Line) Len() int { return l.end }

// AfterCursor returns the number of content bytes at or after the cursor.
func (l *Line) AfterCursor() int { return l.end - l.cursor }

// Bytes returns the line's content.
//
// The slice aliases the line's internal storage and is only valid until
// the next mutating operation.
func (l *Line) Bytes() []byte { return l.data[:l.end] }

// String returns the content as a string. Unlike Bytes, the result does
// not alias internal storage.
func (l *Line) String() string { return string(l.data[:l.end]) }

// Insert copies b into the line at index at, shifting [at, end) right.
// If at is at or before the cursor, the cursor advances by len(b).
//
// The insert is whole-or-nothing: if b does not fit within the remaining
// capacity, or at is outside [0, end], the line is left unchanged and
// ErrOutOfBounds is returned. On success the number of bytes inserted is
// returned.
func (l *Line) Insert(at int, b []byte) (int, error) {
	if at < 0 || at > l.end {
		return 0, ErrOutOfBounds
	}
	if l.end+len(b) > len(l.data) {
		return 0, ErrOutOfBounds
	}

	copy(l.data[at+len(b):l.end+len(b)], l.data[at:l.end])
	copy(l.data[at:], b)
	l.end += len(b)
	if at <= l.cursor {
		l.cursor += len(b)
	}
	return len(b), nil
}

// Remove deletes the content in r, shifting [r.End, end) left to r.Start.
// Returns the number of bytes removed.
//
// The cursor is adjusted so it keeps pointing at the same content byte
// where possible: a removal entirely before the cursor shifts it left by
// the removed length, a removal spanning the cursor snaps it to r.Start,
// and a removal entirely after the cursor leaves it untouched.
//
// Fails with ErrOutOfBounds if r is not a valid range within [0, end];
// the line is left unchanged in that case.
func (l *Line) Remove(r Range) (int, error) {
	if r.Start < 0 || r.Start > r.End || r.End > l.end {
		return 0, ErrOutOfBounds
	}

	copy(l.data[r.Start:], l.data[r.End:l.end])
	l.end -= r.Len()
	if r.End <= l.cursor {
		l.cursor -= r.Len()
	} else if r.Start <= l.cursor {
		l.cursor = r.Start
	}
	return r.Len(), nil
}

// MoveCursor moves the cursor by delta, clamping to [0, end]. Returns the
// signed distance actually moved, which may be smaller in magnitude than
// delta at a boundary.
func (l *Line) MoveCursor(delta int) int {
	target := l.cursor + delta
	if target < 0 {
		target = 0
	}
	if target > l.end {
		target = l.end
	}
	moved := target - l.cursor
	l.cursor = target
	return moved
}

// SetCursor places the cursor at index i, clamped to [0, end].
func (l *Line) SetCursor(i int) {
	if i < 0 {
		i = 0
	}
	if i > l.end {
		i = l.end
	}
	l.cursor = i
}

// AtCursor returns the content byte at cursor+offset. The second return
// is false when the index falls outside the content range [0, end).
func (l *Line) AtCursor(offset int) (byte, bool) {
	idx := l.cursor + offset
	if idx < 0 || idx >= l.end {
		return 0, false
	}
	return l.data[idx], true
}

// Clear resets the cursor and end to zero. Content bytes become stale;
// they are not zeroed.
func (l *Line) Clear() {
	l.cursor = 0
	l.end = 0
}

// CopyFrom overwrites this line's content, cursor and end from other.
// Content that does not fit this line's capacity is truncated and the
// cursor clamped accordingly.
func (l *Line) CopyFrom(other *Line) {
	n := copy(l.data, other.data[:other.end])
	l.end = n
	l.cursor = other.cursor
	if l.cursor > n {
		l.cursor = n
	}
}

// SetBytes replaces the content with b and places the cursor at the end.
// Fails with ErrOutOfBounds if b exceeds the line's capacity.
func (l *Line) SetBytes(b []byte) error {
	if len(b) > len(l.data) {
		return ErrOutOfBounds
	}
	copy(l.data, b)
	l.cursor = len(b)
	l.end = len(b)
	return nil
}
