// Package repl runs an interactive Lua shell on top of the line editor.
//
// Each line is read through an editor session over the configured
// transport, then compiled and executed in a persistent gopher-lua
// state. Expression results and Lua's print output go back over the
// transport; diagnostics go to a leveled logger on a side channel so
// they never corrupt the edited line.
package repl
