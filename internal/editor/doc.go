// Package editor implements an interactive line editor for byte-oriented,
// half-duplex links such as a microcontroller's UART console or a raw TTY.
//
// The editor consumes raw input bytes one at a time, interprets control
// codes and the ANSI cursor-key escape sequences of a minimal VT100
// subset, maintains an editable line plus a bounded ring of previously
// entered lines, and emits the fewest output bytes needed to keep the
// remote terminal's visible line synchronized with internal state. All
// buffers are allocated at construction; the editing loop itself does
// not allocate.
//
// Editing operates on raw bytes, not code points; multi-byte characters
// are passed through but cursor motion is per byte.
//
// A session is strictly sequential: read one byte, fully process it
// including all output writes, read the next. The only blocking points
// are the transport's Read and Write, so a caller can wrap the reader
// with timeout or cancellation semantics and safely cancel between
// bytes; the in-progress line stays resumable by a later session.
package editor
