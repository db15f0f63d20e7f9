// Package diff converts line-edit transitions into the minimal terminal
// byte sequence needed to keep a remote display synchronized.
//
// A terminal on the far side of a half-duplex byte link is assumed to
// understand only three things: literal bytes advance the caret,
// backspace (0x08) moves it one cell left, and a space overwrites a cell.
// Compute produces a compact descriptor from an old and new line state;
// Apply renders it as backspaces, literal writes, space overwrites and a
// final backspace run, in that order.
package diff
