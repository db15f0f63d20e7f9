// Package history provides the bounded ring of committed and in-progress
// lines behind an editor session.
//
// The ring holds a fixed number of line slots allocated at construction.
// One slot is always the in-progress line; the rest hold the most recent
// commits until the ring wraps over them. Navigation moves a selection
// offset over the retained lines, edits mutate the selected slot in
// place, and Commit finalizes the selected line as the next permanent
// entry. Every mutating entry point returns the terminal diff describing
// the visible change, so the caller can keep a remote display in sync
// byte for byte.
package history
