// Package style describes display attributes attached to runs of buffer
// text and the queries the wrapping engine performs on them.
package style

import "golang.org/x/text/unicode/bidi"

// Range assigns display attributes to a run of buffer text.
// Start is an absolute byte offset into the buffer.
type Range struct {
	Start  int
	Length int

	Foreground string // hex color "#rrggbb", empty for the default
	Background string
	Bold       bool
	Italic     bool
	Underline  bool
}

// End returns the offset just past the styled run.
func (r Range) End() int { return r.Start + r.Length }

// Overlapping returns the ranges that overlap [start, start+length),
// clipped to that window. Ranges are expected ordered and non-overlapping;
// the order is preserved and the input slice is not modified. While a line
// is being wrapped its style ranges may lie entirely on another visual
// line, so candidates are filtered through this before measuring.
func Overlapping(ranges []Range, start, length int) []Range {
	if len(ranges) == 0 || length <= 0 {
		return nil
	}
	end := start + length
	var clipped []Range
	for _, r := range ranges {
		if r.End() <= start {
			continue
		}
		if r.Start >= end {
			break
		}
		if r.Start < start {
			r.Length -= start - r.Start
			r.Start = start
		}
		if r.End() > end {
			r.Length = end - r.Start
		}
		if r.Length > 0 {
			clipped = append(clipped, r)
		}
	}
	return clipped
}

// ContainsRTL reports whether s contains a character from a right-to-left
// script, in which case bidi-aware measurement is required.
func ContainsRTL(s string) bool {
	for len(s) > 0 {
		props, size := bidi.LookupString(s)
		switch props.Class() {
		case bidi.R, bidi.AL, bidi.RLE, bidi.RLO, bidi.RLI:
			return true
		}
		if size <= 0 {
			size = 1
		}
		s = s[size:]
	}
	return false
}
