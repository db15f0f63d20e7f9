package diff

import (
	"io"

	"github.com/dshills/termline/internal/editor/line"
)

// caretBack erases one position backward on a VT100-style terminal.
const caretBack = 0x08

// Diff describes the byte sequence that transitions a remote terminal's
// visible line from one line state to another. It is pure data: the
// ranges index into the new line's content and the Diff owns no buffers.
//
// Apply renders the fields in declaration order.
type Diff struct {
	// Backspace is the number of erase-backward bytes emitted first,
	// moving the caret left to the start of the differing region (or to
	// the new cursor when nothing changed).
	Backspace int

	// Echo is the range of unchanged bytes rewritten to advance the
	// caret. A remote terminal is not assumed to have a raw move-right
	// primitive, so forward motion re-emits the bytes being passed over.
	Echo line.Range

	// Write is the range of new content past the common prefix.
	Write line.Range

	// Clear is the number of stale trailing positions overwritten with
	// spaces when the new content is shorter than the old.
	Clear int

	// Rewind is the number of erase-backward bytes emitted last, landing
	// the caret on the new cursor position.
	Rewind int
}

// IsZero reports whether applying the diff emits no bytes.
func (d Diff) IsZero() bool {
	return d.Backspace == 0 && d.Echo.IsEmpty() && d.Write.IsEmpty() &&
		d.Clear == 0 && d.Rewind == 0
}

// Compute returns the Diff transitioning a terminal displaying old to
// displaying new.
//
// Matching is longest-common-byte-prefix only, not minimal edit distance,
// and operates on raw bytes rather than code points. Both are deliberate:
// the computation is bounded and branch-light, which matters on the slow
// half-duplex links this package targets.
func Compute(old, new *line.Line) Diff {
	oldData, newData := old.Bytes(), new.Bytes()

	prefix := 0
	for prefix < len(oldData) && prefix < len(newData) && oldData[prefix] == newData[prefix] {
		prefix++
	}

	var d Diff
	if prefix < new.End() {
		d.Write = line.Range{Start: prefix, End: new.End()}
	}
	if old.End() > new.End() {
		d.Clear = old.End() - new.End()
	}

	// With content to write or clear the caret must first reach the end
	// of the common prefix. Otherwise the content is identical and the
	// caret heads straight for the new cursor.
	target := prefix
	if d.Write.IsEmpty() && d.Clear == 0 {
		target = new.Cursor()
	}

	switch {
	case old.Cursor() > target:
		d.Backspace = old.Cursor() - target
	case old.Cursor() < target:
		d.Echo = line.Range{Start: old.Cursor(), End: target}
	}

	// Caret position once everything above has been emitted. It can
	// never be left of the new cursor, so the final correction is always
	// a backspace run.
	pos := target + d.Write.Len() + d.Clear
	d.Rewind = pos - new.Cursor()

	return d
}

// Apply renders d against w, reading content bytes from new. After the
// emitted bytes are consumed by a VT100-style terminal, its visible line
// and caret match new exactly.
//
// Short writes are tolerated: Apply loops until each piece is fully
// written or the writer reports an error.
func Apply(w io.Writer, new *line.Line, d Diff) error {
	if err := writeRun(w, caretBack, d.Backspace); err != nil {
		return err
	}
	if !d.Echo.IsEmpty() {
		if err := writeFull(w, new.Bytes()[d.Echo.Start:d.Echo.End]); err != nil {
			return err
		}
	}
	if !d.Write.IsEmpty() {
		if err := writeFull(w, new.Bytes()[d.Write.Start:d.Write.End]); err != nil {
			return err
		}
	}
	if err := writeRun(w, ' ', d.Clear); err != nil {
		return err
	}
	return writeRun(w, caretBack, d.Rewind)
}

// runLen bounds the scratch used for backspace and space runs.
const runLen = 32

var (
	backspaceRun = repeatByte(caretBack)
	spaceRun     = repeatByte(' ')
)

func repeatByte(b byte) []byte {
	run := make([]byte, runLen)
	for i := range run {
		run[i] = b
	}
	return run
}

// writeRun emits n copies of b using the preallocated run slabs.
func writeRun(w io.Writer, b byte, n int) error {
	run := spaceRun
	if b == caretBack {
		run = backspaceRun
	}
	for n > 0 {
		chunk := n
		if chunk > runLen {
			chunk = runLen
		}
		if err := writeFull(w, run[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// writeFull writes all of p, looping on short writes. The transport is
// only required to report how many bytes it accepted.
func writeFull(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		if err != nil {
			return err
		}
		if n <= 0 {
			return io.ErrShortWrite
		}
		p = p[n:]
	}
	return nil
}
