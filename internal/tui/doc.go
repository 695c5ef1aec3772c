// Package tui draws application snapshots on a tcell screen and reads
// key presses from it.
package tui
