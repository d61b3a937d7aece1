// Package wrap maps a logical text buffer onto visual lines: fixed-width
// segments produced by greedy word wrapping. Lines break at word
// boundaries marked by space characters, trailing spaces stay with the
// word before the break, and when the last remaining word cannot be
// displayed in full the line breaks grapheme cluster by grapheme cluster.
//
// The mapping stays consistent across edits and width changes: a buffer
// mutation rewraps only the logical lines it touches and shifts the
// offsets of everything after by the net byte delta, a width change
// rebuilds the table.
//
// Content mirrors the buffer's query surface so callers can stay agnostic
// to whether wrapping is active; before the first WrapAll and after Unwrap
// every query redirects to the logical buffer.
package wrap
