package editor

import (
	"context"
	"errors"
	"io"

	"github.com/dshills/termline/internal/editor/diff"
	"github.com/dshills/termline/internal/editor/history"
	"github.com/dshills/termline/internal/editor/line"
)

// Transport is the byte link an editor session runs over. Reads and
// writes may be short; the editor loops as needed. Implementations that
// need timeouts wrap their own deadlines around Read; the editor never
// spans a multi-byte operation across reads, so cancelling between bytes
// leaves the session state intact.
type Transport interface {
	io.Reader
	io.Writer
}

// Control bytes understood in the char state. The set is fixed; there is
// no remapping mechanism.
const (
	ctrlA   = 0x01 // cursor to line start
	ctrlE   = 0x05 // cursor to line end
	ctrlK   = 0x0B // delete to end of line
	ctrlN   = 0x0E // next history line
	ctrlP   = 0x10 // previous history line
	ctrlW   = 0x17 // delete previous word
	bsByte  = 0x08
	delByte = 0x7F
	escByte = 0x1B
)

// status is the protocol state of a running session.
type status uint8

const (
	statusChar   status = iota // normal input
	statusEscape               // saw ESC
	statusCtrl                 // saw ESC [
)

// String returns the status name.
func (s status) String() string {
	switch s {
	case statusChar:
		return "char"
	case statusEscape:
		return "escape"
	case statusCtrl:
		return "ctrl"
	default:
		return "unknown"
	}
}

// Editor drives interactive line editing over a transport. It reads one
// byte at a time, dispatches it through a three-state protocol machine
// and renders the resulting terminal diff before reading the next byte,
// so the remote display is never out of sync with the internal line.
//
// An Editor exclusively owns its History for the duration of a ReadLine
// call; nothing else may touch either concurrently.
type Editor struct {
	t    Transport
	hist *history.History

	status status
	rbuf   [1]byte
	ibuf   [1]byte
}

// New creates an editor session driver over t, editing into hist.
func New(t Transport, hist *history.History) *Editor {
	return &Editor{t: t, hist: hist}
}

// History returns the editor's history ring.
func (e *Editor) History() *history.History { return e.hist }

// ReadLine reads and edits one line, returning its bytes once a line
// terminator (\n or \r) commits it to history.
//
// The returned slice aliases history storage and stays valid until the
// next History mutation. Malformed escape sequences, transport failures
// and a full line buffer are fatal to the session and returned; the
// in-progress line keeps whatever state it had, so a later ReadLine on
// the same history resumes it. Cancelling ctx between bytes behaves the
// same way.
func (e *Editor) ReadLine(ctx context.Context) ([]byte, error) {
	e.status = statusChar

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := e.readByte()
		if err != nil {
			return nil, err
		}
		done, err := e.processByte(b)
		if err != nil {
			e.status = statusChar
			return nil, err
		}
		if done {
			return e.hist.Commit().Bytes(), nil
		}
	}
}

// processByte dispatches one input byte against the protocol state.
// It reports done once a line terminator is seen.
func (e *Editor) processByte(b byte) (bool, error) {
	// Line terminators end the session from any state.
	if b == '\n' || b == '\r' {
		return true, nil
	}

	switch e.status {
	case statusChar:
		return false, e.processChar(b)
	case statusEscape:
		return false, e.processEscape(b)
	case statusCtrl:
		return false, e.processCtrl(b)
	}
	return false, nil
}

func (e *Editor) processChar(b byte) error {
	switch b {
	case escByte:
		e.status = statusEscape
		return nil
	case bsByte, delByte:
		return e.render(e.hist.DeleteChars(1))
	case ctrlA:
		return e.render(e.hist.CursorToStart())
	case ctrlE:
		return e.render(e.hist.CursorToEnd())
	case ctrlK:
		return e.render(e.hist.DeleteToEnd())
	case ctrlN:
		return e.render(e.hist.SelectNext())
	case ctrlP:
		return e.render(e.hist.SelectPrevious())
	case ctrlW:
		return e.render(e.hist.DeleteWord())
	default:
		return e.insert(b)
	}
}

func (e *Editor) processEscape(b byte) error {
	switch b {
	case escByte:
		return ErrUnexpectedEscape
	case '[':
		e.status = statusCtrl
		return nil
	default:
		return &UnexpectedCharError{Byte: b}
	}
}

// processCtrl resolves the final byte of an ESC [ sequence. Only the
// four cursor keys act; unknown finals are ignored. Either way the
// machine returns to the char state.
func (e *Editor) processCtrl(b byte) error {
	e.status = statusChar

	switch b {
	case escByte:
		return ErrUnexpectedEscape
	case '[':
		return ErrUnexpectedCtrl
	case 'A':
		return e.render(e.hist.SelectPrevious())
	case 'B':
		return e.render(e.hist.SelectNext())
	case 'C':
		return e.render(e.hist.MoveCursorBy(1))
	case 'D':
		return e.render(e.hist.MoveCursorBy(-1))
	default:
		return nil
	}
}

// insert places a literal byte at the cursor. A line at capacity rejects
// the byte; that surfaces as ErrBufferFull.
func (e *Editor) insert(b byte) error {
	e.ibuf[0] = b
	d, err := e.hist.InsertChars(e.ibuf[:1])
	if err != nil {
		if errors.Is(err, line.ErrOutOfBounds) {
			return ErrBufferFull
		}
		return err
	}
	return e.render(d)
}

// render applies a terminal diff to the transport before the next byte
// is read; the remote display is updated per keystroke, never batched.
func (e *Editor) render(d diff.Diff) error {
	if d.IsZero() {
		return nil
	}
	if err := diff.Apply(e.t, e.hist.Current(), d); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	return nil
}

// readByte reads exactly one byte, looping over empty reads.
func (e *Editor) readByte() (byte, error) {
	for {
		n, err := e.t.Read(e.rbuf[:1])
		if n > 0 {
			return e.rbuf[0], nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, ErrUnexpectedEOF
			}
			return 0, &TransportError{Op: "read", Err: err}
		}
	}
}
