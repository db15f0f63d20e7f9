package editor

import (
	"errors"
	"fmt"
)

// Errors returned by editor sessions.
var (
	// ErrUnexpectedEscape indicates an ESC byte arrived while an escape
	// sequence was already in progress.
	ErrUnexpectedEscape = errors.New("unexpected escape byte inside escape sequence")

	// ErrUnexpectedCtrl indicates a malformed control sequence introducer.
	ErrUnexpectedCtrl = errors.New("unexpected control sequence introducer")

	// ErrUnexpectedEOF indicates the transport closed before a line
	// terminator was seen.
	ErrUnexpectedEOF = errors.New("transport closed before line terminator")

	// ErrBufferFull indicates the line reached its fixed capacity. It is
	// the session-level surface of a rejected insert; the line itself is
	// left unchanged.
	ErrBufferFull = errors.New("line buffer full")
)

// UnexpectedCharError indicates a byte that is not valid at the current
// point of an escape sequence. The protocol does not resynchronize
// mid-sequence, so the error is fatal to the session.
type UnexpectedCharError struct {
	Byte byte
}

func (e *UnexpectedCharError) Error() string {
	return fmt.Sprintf("unexpected byte %#02x in escape sequence", e.Byte)
}

// TransportError wraps an error reported by the underlying transport.
// The editor never interprets transport failures.
type TransportError struct {
	Op  string // "read" or "write"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
