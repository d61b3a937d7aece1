// Package highlight produces style ranges for logical lines by syntax
// highlighting them with chroma. It implements the style source consumed
// by the wrapping engine, so token boundaries influence measured widths
// wherever the metrics are style-sensitive.
package highlight

import (
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/mgrady/softwrap/internal/renderer/style"
)

const defaultMaxCache = 1000

// Highlighter tokenizes lines and maps tokens to style ranges. Lines are
// tokenized independently; multi-line constructs resolve per line, which
// keeps invalidation local to the edited line.
type Highlighter struct {
	mu sync.Mutex

	lexer chroma.Lexer
	style *chroma.Style
	bidi  bool

	// cache maps a line's start offset to its computed ranges, validated
	// against the line text so stale entries self-invalidate
	cache    map[int]*cachedLine
	maxCache int
}

type cachedLine struct {
	text   string
	ranges []style.Range
}

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithBidi marks the highlighted content as bidirectional, so wrap passes
// measure with direction-aware metrics.
func WithBidi(active bool) Option {
	return func(h *Highlighter) { h.bidi = active }
}

// WithCacheSize bounds the per-line cache. Sizes below one keep the
// default of 1000 lines.
func WithCacheSize(n int) Option {
	return func(h *Highlighter) {
		if n > 0 {
			h.maxCache = n
		}
	}
}

// New creates a highlighter for the named file, choosing the lexer by
// file name and the chroma style by name. Unknown files fall back to the
// plaintext lexer, unknown styles to chroma's fallback style.
func New(filename, styleName string, opts ...Option) *Highlighter {
	lexer := lexers.Match(filename)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	h := &Highlighter{
		lexer:    chroma.Coalesce(lexer),
		style:    styles.Get(styleName),
		cache:    make(map[int]*cachedLine),
		maxCache: defaultMaxCache,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Language returns the name of the selected lexer.
func (h *Highlighter) Language() string {
	return h.lexer.Config().Name
}

// BidiActive reports whether direction-aware measurement was requested.
func (h *Highlighter) BidiActive() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bidi
}

// LineStyles returns the style ranges of one logical line, with offsets
// absolute to the buffer. Results are cached by line offset until the
// line text changes.
func (h *Highlighter) LineStyles(lineOffset int, line string) []style.Range {
	if line == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if cached, ok := h.cache[lineOffset]; ok && cached.text == line {
		return cached.ranges
	}

	ranges := h.tokenize(lineOffset, line)
	if len(h.cache) >= h.maxCache {
		h.cache = make(map[int]*cachedLine)
	}
	h.cache[lineOffset] = &cachedLine{text: line, ranges: ranges}
	return ranges
}

// Invalidate drops all cached lines. Callers do this after edits that
// shift line offsets; unshifted lines re-validate against their text and
// recompute only when changed.
func (h *Highlighter) Invalidate() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cache = make(map[int]*cachedLine)
}

func (h *Highlighter) tokenize(lineOffset int, line string) []style.Range {
	it, err := h.lexer.Tokenise(nil, line)
	if err != nil {
		return nil
	}

	var ranges []style.Range
	pos := lineOffset
	for _, tok := range it.Tokens() {
		length := len(tok.Value)
		if length == 0 {
			continue
		}
		if r, ok := h.rangeFor(tok.Type, pos, length); ok {
			ranges = append(ranges, r)
		}
		pos += length
	}
	return ranges
}

// rangeFor maps a token type to a style range through the chroma style.
// Tokens the style leaves unstyled produce no range.
func (h *Highlighter) rangeFor(tt chroma.TokenType, start, length int) (style.Range, bool) {
	entry := h.style.Get(tt)

	r := style.Range{Start: start, Length: length}
	if entry.Colour.IsSet() {
		r.Foreground = entry.Colour.String()
	}
	if entry.Background.IsSet() {
		r.Background = entry.Background.String()
	}
	r.Bold = entry.Bold == chroma.Yes
	r.Italic = entry.Italic == chroma.Yes
	r.Underline = entry.Underline == chroma.Yes

	if r.Foreground == "" && r.Background == "" && !r.Bold && !r.Italic && !r.Underline {
		return style.Range{}, false
	}
	return r, true
}
