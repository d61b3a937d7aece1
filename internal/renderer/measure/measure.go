// Package measure provides text width measurement for the wrapping engine.
//
// A wrap pass acquires one Session up front and releases it when the pass
// ends, rather than acquiring measurement resources per segment. The
// measurement mode is fixed for the lifetime of a session: a pass over
// bidirectional text uses a run-resolving measurement, everything else uses
// the plain one.
package measure

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/bidi"

	"github.com/mgrady/softwrap/internal/renderer/style"
)

// Mode selects the measurement strategy for a wrap pass.
type Mode uint8

const (
	// Simple measures text in logical order.
	Simple Mode = iota
	// BidiAware resolves the text into directional runs and measures the
	// runs in visual order.
	BidiAware
)

// Session is a scoped acquisition of the measurement capability. It must be
// released when the wrap pass that acquired it ends, on every exit path.
type Session interface {
	// TextWidth returns the width of text drawn starting at horizontal
	// position startX, using the given style ranges.
	TextWidth(text string, startX int, styles []style.Range) int
	// AverageCharWidth returns the typical width of one character, used to
	// estimate how many characters fit a width budget.
	AverageCharWidth() int
	// Release returns the session's resources.
	Release()
}

// Provider hands out measurement sessions, one per wrap pass.
type Provider interface {
	Acquire(mode Mode) Session
}

const defaultTabWidth = 8

// CellMetrics measures text in terminal cells: one cell per narrow
// grapheme cluster, two for wide (East Asian) clusters, and tabs advance
// to the next tab stop.
type CellMetrics struct {
	tabWidth int
}

// NewCellMetrics creates cell-based metrics with the given tab width.
// Widths below one fall back to the terminal default of 8.
func NewCellMetrics(tabWidth int) *CellMetrics {
	if tabWidth < 1 {
		tabWidth = defaultTabWidth
	}
	return &CellMetrics{tabWidth: tabWidth}
}

// Acquire returns a session measuring in the given mode.
func (m *CellMetrics) Acquire(mode Mode) Session {
	return &cellSession{metrics: m, mode: mode}
}

type cellSession struct {
	metrics  *CellMetrics
	mode     Mode
	released bool
}

// AverageCharWidth returns 1: the narrow cell.
func (s *cellSession) AverageCharWidth() int { return 1 }

func (s *cellSession) Release() { s.released = true }

// TextWidth returns the cell width of text drawn starting at column
// startX. Tab width depends on the distance to the next tab stop, so a
// segment containing tabs measures differently at different start columns.
// Cell rendering is unaffected by style attributes; styles are accepted to
// satisfy the capability contract.
func (s *cellSession) TextWidth(text string, startX int, styles []style.Range) int {
	if s.released {
		panic("measure: session used after release")
	}
	if s.mode == BidiAware {
		return s.bidiWidth(text, startX)
	}
	return s.cellWidth(text, startX)
}

func (s *cellSession) cellWidth(text string, startX int) int {
	x := startX
	graphemes := uniseg.NewGraphemes(text)
	for graphemes.Next() {
		cluster := graphemes.Str()
		if cluster == "\t" {
			x += s.metrics.tabWidth - x%s.metrics.tabWidth
			continue
		}
		x += runewidth.StringWidth(cluster)
	}
	return x - startX
}

// bidiWidth resolves the segment into directional runs and measures each
// run at its visual position. The run resolution is the layout object a
// direction-aware renderer consumes; for cells the total matches the
// logical measurement.
func (s *cellSession) bidiWidth(text string, startX int) int {
	if text == "" {
		return 0
	}
	var para bidi.Paragraph
	if _, err := para.SetString(text); err != nil {
		return s.cellWidth(text, startX)
	}
	ordering, err := para.Order()
	if err != nil {
		return s.cellWidth(text, startX)
	}
	x := startX
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		x += s.cellWidth(run.String(), x)
	}
	return x - startX
}
