package wrap

import (
	"github.com/rivo/uniseg"

	"github.com/mgrady/softwrap/internal/renderer/measure"
	"github.com/mgrady/softwrap/internal/renderer/style"
)

// fitSegment finds the longest prefix of line, starting at segStart, that
// fits the width budget. The search starts from the estimated character
// count and moves word by word: shrink while the candidate measures at or
// beyond the budget, otherwise grow while the next word still fits. When
// no complete word fits, the search degrades to grapheme-cluster steps,
// which places at least one cluster per visual line and guarantees the
// wrap loop terminates.
//
// Each step measures exactly the candidate segment at its horizontal
// position startX. Returns the segment length in bytes and its measured
// width.
func (c *Content) fitSegment(line string, lineOffset, segStart, startX, width, numChars int, styles []style.Range, sess measure.Session) (int, int) {
	lineLen := len(line)

	est := numChars
	if avail := lineLen - segStart; est > avail {
		est = avail
	}
	// snap the byte estimate to a grapheme cluster boundary
	if b := graphemeFloor(line, segStart+est); b > segStart {
		est = b - segStart
	} else {
		est = graphemeNext(line, segStart) - segStart
	}

	segLen := wordStart(line, segStart, est, c.isSpace)
	segWidth := 0
	if segLen > 0 {
		segWidth = c.segmentWidth(sess, line, lineOffset, segStart, segLen, styles, startX)
		if segWidth >= width {
			for segLen > 1 && segWidth >= width {
				segLen = wordStart(line, segStart, segLen, c.isSpace)
				segWidth = c.segmentWidth(sess, line, lineOffset, segStart, segLen, styles, startX)
			}
		} else {
			for segStart+segLen < lineLen {
				next := wordEnd(line, segStart, segLen, c.isSpace)
				nextWidth := c.segmentWidth(sess, line, lineOffset, segStart, next, styles, startX)
				// would the next word cross the budget?
				if nextWidth >= width {
					break
				}
				segLen, segWidth = next, nextWidth
			}
		}
	}
	if segLen <= 0 {
		// No complete word fits: the first word is either past the estimate
		// or wider than the budget. Search again from the estimate, one
		// grapheme cluster at a time.
		first := graphemeNext(line, segStart) - segStart
		segLen = est
		segWidth = c.segmentWidth(sess, line, lineOffset, segStart, segLen, styles, startX)
		if segWidth >= width {
			for segLen > first && segWidth >= width {
				segLen = graphemeFloor(line, segStart+segLen-1) - segStart
				if segLen < first {
					segLen = first
				}
				segWidth = c.segmentWidth(sess, line, lineOffset, segStart, segLen, styles, startX)
			}
		} else {
			for segStart+segLen < lineLen {
				next := graphemeNext(line, segStart+segLen) - segStart
				nextWidth := c.segmentWidth(sess, line, lineOffset, segStart, next, styles, startX)
				if nextWidth >= width {
					break
				}
				segLen, segWidth = next, nextWidth
			}
		}
	}
	return segLen, segWidth
}

// segmentWidth measures one candidate segment. The logical line's style
// ranges can lie entirely outside the candidate, so they are clipped to
// the segment first; styling beyond the segment must not be charged to it.
func (c *Content) segmentWidth(sess measure.Session, line string, lineOffset, segStart, segLen int, styles []style.Range, startX int) int {
	segment := line[segStart : segStart+segLen]
	clipped := style.Overlapping(styles, lineOffset+segStart, segLen)
	return sess.TextWidth(segment, startX, clipped)
}

// graphemeFloor returns the largest grapheme cluster boundary in line not
// past off. Arbitrary byte positions are tolerated, including positions
// inside a cluster or inside a rune.
func graphemeFloor(line string, off int) int {
	if off <= 0 {
		return 0
	}
	if off >= len(line) {
		return len(line)
	}
	graphemes := uniseg.NewGraphemes(line)
	for graphemes.Next() {
		start, end := graphemes.Positions()
		if off < end {
			return start
		}
	}
	return len(line)
}

// graphemeNext returns the first grapheme cluster boundary past off.
func graphemeNext(line string, off int) int {
	graphemes := uniseg.NewGraphemes(line)
	for graphemes.Next() {
		_, end := graphemes.Positions()
		if end > off {
			return end
		}
	}
	return len(line)
}
