// Package line provides the fixed-capacity byte buffer underlying a
// single editable row of input.
//
// A Line tracks a cursor and a logical end within a backing array that is
// allocated exactly once. All edit operations are bounds-checked and
// mutate in place; a failed operation leaves the line unchanged. Lines are
// never destroyed individually; the history ring reuses its slots.
package line
