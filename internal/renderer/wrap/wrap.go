package wrap

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/mgrady/softwrap/internal/engine/buffer"
	"github.com/mgrady/softwrap/internal/renderer/measure"
	"github.com/mgrady/softwrap/internal/renderer/style"
)

// Errors returned by Content queries.
var (
	ErrInvalidLine   = errors.New("line index out of range")
	ErrInvalidOffset = errors.New("offset out of range")
)

// Buffer is the logical content capability the engine consumes. The buffer
// owns the text; the engine only reads it, except for mutations forwarded
// on a caller's behalf. *buffer.Buffer satisfies it.
type Buffer interface {
	CharCount() int
	LineCount() int
	Line(index int) string
	LineAtOffset(offset int) int
	OffsetAtLine(index int) int
	TextRange(start, length int) string
	Delimiter() string
	ReplaceTextRange(start, length int, text string) error
	SetText(text string)
	AddChangeListener(l buffer.ChangeListener)
	RemoveChangeListener(l buffer.ChangeListener)
}

// StyleSource supplies the style ranges of a logical line and answers
// whether bidirectional layout is in effect for a wrap pass.
type StyleSource interface {
	// LineStyles returns the style ranges of one logical line, with
	// absolute buffer offsets.
	LineStyles(lineOffset int, line string) []style.Range

	// BidiActive reports whether measurement must be direction-aware.
	BidiActive() bool
}

// Content maps a logical Buffer onto visual (wrapped) lines and mirrors
// the buffer's query surface, so callers need not know whether wrapping is
// active. While the table is empty every query redirects to the buffer.
//
// Content is driven synchronously by its owner's edit and resize events
// and is not safe for concurrent use. The visual line table is exclusively
// owned: it can only be read through the query methods.
type Content struct {
	table

	buf     Buffer
	metrics measure.Provider
	styles  StyleSource
	isSpace SpaceClassifier
	width   int
}

// Option configures Content.
type Option func(*Content)

// WithStyles supplies the style-range capability consulted during
// measurement.
func WithStyles(src StyleSource) Option {
	return func(c *Content) { c.styles = src }
}

// WithSpaceClassifier overrides the word-separator test. The default is
// unicode.IsSpace.
func WithSpaceClassifier(isSpace SpaceClassifier) Option {
	return func(c *Content) {
		if isSpace != nil {
			c.isSpace = isSpace
		}
	}
}

// New creates wrapped content over buf, measuring with metrics. The new
// Content registers itself as a change listener on buf so that mutations
// keep the wrap table current; Detach unregisters it.
func New(buf Buffer, metrics measure.Provider, opts ...Option) *Content {
	c := &Content{
		buf:     buf,
		metrics: metrics,
		isSpace: unicode.IsSpace,
	}
	for _, opt := range opts {
		opt(c)
	}
	buf.AddChangeListener(c)
	return c
}

// Detach unregisters from the buffer and discards the wrap table.
func (c *Content) Detach() {
	c.buf.RemoveChangeListener(c)
	c.Unwrap()
}

// Unwrap discards the visual line table. Queries fall back to the logical
// buffer until the next WrapAll.
func (c *Content) Unwrap() {
	c.lines = nil
	c.count = 0
}

// Queries

// CharCount returns the buffer length in bytes.
func (c *Content) CharCount() int { return c.buf.CharCount() }

// Delimiter returns the logical line delimiter.
func (c *Content) Delimiter() string { return c.buf.Delimiter() }

// LineCount returns the number of visual lines, or of logical lines while
// no wrapping is in effect.
func (c *Content) LineCount() int {
	if c.count == 0 {
		return c.buf.LineCount()
	}
	return c.count
}

// VisualLineCount returns the number of visual lines, zero while no
// wrapping is in effect.
func (c *Content) VisualLineCount() int { return c.count }

// Line returns the text of the visual line at index, without delimiters.
func (c *Content) Line(index int) (string, error) {
	if c.count == 0 {
		if index < 0 || index >= c.buf.LineCount() {
			return "", fmt.Errorf("%w: %d", ErrInvalidLine, index)
		}
		return c.buf.Line(index), nil
	}
	if index < 0 || index >= c.count {
		return "", fmt.Errorf("%w: %d", ErrInvalidLine, index)
	}
	vl := c.lines[index]
	if vl.off == reserved {
		panic("wrap: reserved visual line read outside a wrap pass")
	}
	return c.buf.TextRange(vl.off, vl.length), nil
}

// OffsetAtLine returns the start offset of the visual line at index.
func (c *Content) OffsetAtLine(index int) (int, error) {
	if c.count == 0 {
		if index < 0 || index >= c.buf.LineCount() {
			return 0, fmt.Errorf("%w: %d", ErrInvalidLine, index)
		}
		return c.buf.OffsetAtLine(index), nil
	}
	if index < 0 || index >= c.count {
		return 0, fmt.Errorf("%w: %d", ErrInvalidLine, index)
	}
	vl := c.lines[index]
	if vl.off == reserved {
		panic("wrap: reserved visual line read outside a wrap pass")
	}
	return vl.off, nil
}

// LineAtOffset returns the index of the visual line at offset, with the
// boundary resolution documented on table.search: the shared offset
// between two wrapped segments resolves to the earlier line, and the
// offset past the last visual line resolves to the last line.
func (c *Content) LineAtOffset(offset int) (int, error) {
	if c.count == 0 {
		if offset < 0 || offset > c.buf.CharCount() {
			return 0, fmt.Errorf("%w: %d", ErrInvalidOffset, offset)
		}
		return c.buf.LineAtOffset(offset), nil
	}
	if offset < 0 || offset > c.lastChar() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidOffset, offset)
	}
	return c.search(offset), nil
}

// TextRange returns length bytes starting at start.
func (c *Content) TextRange(start, length int) (string, error) {
	if start < 0 || length < 0 || start+length > c.buf.CharCount() {
		return "", fmt.Errorf("%w: [%d,%d)", ErrInvalidOffset, start, start+length)
	}
	return c.buf.TextRange(start, length), nil
}

// Mutations (forwarded to the logical buffer; the table updates through
// the change listener)

// ReplaceTextRange forwards a replacement to the logical buffer.
func (c *Content) ReplaceTextRange(start, length int, text string) error {
	return c.buf.ReplaceTextRange(start, length, text)
}

// SetText forwards a wholesale content replacement to the logical buffer.
func (c *Content) SetText(text string) { c.buf.SetText(text) }

// AddChangeListener forwards listener registration to the logical buffer.
func (c *Content) AddChangeListener(l buffer.ChangeListener) {
	c.buf.AddChangeListener(l)
}

// RemoveChangeListener forwards listener removal to the logical buffer.
func (c *Content) RemoveChangeListener(l buffer.ChangeListener) {
	c.buf.RemoveChangeListener(l)
}

// Wrapping

// WrapAll rebuilds the whole visual line table at the given width. Calling
// with width zero before any wrapping has happened defers the wrap: the
// owning widget has not been sized yet and a degenerate budget would place
// one word per line for the entire buffer.
func (c *Content) WrapAll(width int) {
	lineCount := c.buf.LineCount()
	c.count = 0
	c.lines = make([]visualLine, lineCount)
	c.resetRange(0, lineCount)
	c.width = width
	c.wrapRange(0, lineCount, 0, width)
}

// wrapRange wraps logical lines [startLine, endLine) into visual lines
// recorded from visualIndex on. One visual line is emitted per fitted
// segment; startX advances by each segment's measured width so that later
// segments of the same logical line are measured at their true horizontal
// position. Returns the next free visual line index.
func (c *Content) wrapRange(startLine, endLine, visualIndex, width int) int {
	if c.count == 0 && width == 0 {
		return visualIndex
	}

	mode := measure.Simple
	if c.styles != nil && c.styles.BidiActive() {
		mode = measure.BidiAware
	}
	sess := c.metrics.Acquire(mode)
	defer sess.Release()

	avg := sess.AverageCharWidth()
	if avg < 1 {
		avg = 1
	}
	numChars := width / avg
	if numChars < 1 {
		numChars = 1
	}

	for i := startLine; i < endLine; i++ {
		line := c.buf.Line(i)
		lineOffset := c.buf.OffsetAtLine(i)

		if len(line) == 0 {
			c.set(visualIndex, lineOffset, 0)
			visualIndex++
			continue
		}

		var styles []style.Range
		if c.styles != nil {
			styles = c.styles.LineStyles(lineOffset, line)
		}
		segStart, startX := 0, 0
		for segStart < len(line) {
			segLen, segWidth := c.fitSegment(line, lineOffset, segStart, startX, width, numChars, styles, sess)
			c.set(visualIndex, lineOffset+segStart, segLen)
			segStart += segLen
			startX += segWidth
			visualIndex++
		}
	}
	return visualIndex
}

// wrapRangeCompact wraps at the current width, then reclaims trailing
// reserved slots left over when a logical line wraps to fewer visual lines
// than before. Returns the next free visual line index.
func (c *Content) wrapRangeCompact(startLine, endLine, visualIndex int) int {
	visualIndex = c.wrapRange(startLine, endLine, visualIndex, c.width)
	c.compact(visualIndex)
	return visualIndex
}

// reset invalidates the given visual line range and rewraps it. A range
// covering partial logical lines is extended to whole ones first: a
// logical line's wrapping depends on its full text, so it is never
// rewrapped from the middle.
func (c *Content) reset(startLine, lineCount int) {
	if lineCount <= 0 || c.count == 0 {
		return
	}
	c.resetLines(startLine, lineCount, true)
}

// resetLines invalidates visual lines [startLine, startLine+lineCount)
// after extending the range to logical line granularity on both ends, and
// rewraps the range when rewrap is set. With rewrap unset the caller must
// rewrap itself before any read; the table holds reserved entries until
// then. Returns the realigned start line.
func (c *Content) resetLines(startLine, lineCount int, rewrap bool) int {
	if lineCount <= 0 {
		return startLine
	}

	// extend the start to the first visual line of the first logical line
	// with a visual line in the range
	visualFirstOffset := c.lines[startLine].off
	logicalFirst := c.buf.LineAtOffset(visualFirstOffset)
	logicalFirstOffset := c.buf.OffsetAtLine(logicalFirst)
	visualFirst := c.search(logicalFirstOffset)

	lineCount += startLine - visualFirst
	startLine = visualFirst

	// extend the end over the rest of the last logical line's wrap group:
	// consecutive visual lines with no gap still belong to the same
	// logical line
	lastLine := startLine + lineCount - 1
	lastLineEnd := c.end(lastLine)
	logicalEnd := 0
	for lastLine < c.count-1 && lastLineEnd == c.lines[lastLine+1].off {
		lastLine++
		lastLineEnd = c.end(lastLine)
	}
	if rewrap {
		if lastLine == c.count-1 {
			logicalEnd = c.buf.LineCount()
		} else {
			logicalEnd = c.buf.LineAtOffset(c.lines[lastLine+1].off)
		}
	}

	lineCount = lastLine - startLine + 1
	c.resetRange(startLine, lineCount)
	c.count -= lineCount
	if rewrap {
		// rewrap immediately: the table must never hold reserved entries
		// once control returns to a reader
		c.wrapRangeCompact(logicalFirst, logicalEnd, startLine)
	}
	return startLine
}

// TextChanged incrementally updates the table for a buffer mutation that
// has already been applied to the logical buffer. Only the visual lines of
// the logical lines touched by the edit are invalidated and rewrapped;
// every visual line after the rewrapped range shifts by the net byte
// delta. No-op while no wrapping is in effect.
//
// Content registers itself as a buffer change listener in New, so this
// fires automatically for mutations made through the buffer or through
// ReplaceTextRange.
func (c *Content) TextChanged(change buffer.TextChange) {
	if c.count == 0 {
		return
	}

	logicalStart := c.buf.LineAtOffset(change.Start)
	visualStart := c.search(change.Start)
	delta := change.Delta()

	if change.DeletedLineCount > 0 {
		visualLast := c.search(change.Start + change.DeletedCharCount)
		// a deletion ending on a wrap boundary affects the rest of the
		// logical line's wrap group, but never the logical line beyond the
		// delimiter gap: that line is not rewrapped, only shifted
		if visualLast != c.count-1 && c.lines[visualLast+1].off == c.end(visualLast) {
			visualLast++
		}
		visualStart = c.resetLines(visualStart, visualLast-visualStart+1, false)
	} else {
		visualStart = c.resetLines(visualStart, 1, false)
	}

	next := c.wrapRangeCompact(logicalStart, logicalStart+1+change.InsertedLineCount, visualStart)
	for i := next; i < c.count; i++ {
		c.lines[i].off += delta
	}
}

// TextSet reacts to a wholesale content replacement: if wrapping is active
// the table is rebuilt at the current width.
func (c *Content) TextSet() {
	if c.count > 0 {
		c.WrapAll(c.width)
	}
}
