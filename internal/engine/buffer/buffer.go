package buffer

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Errors returned by buffer operations.
var (
	ErrRangeInvalid = errors.New("invalid range")
)

// Buffer is an in-memory logical line store. Read queries are total: out of
// range indexes and offsets clamp rather than fail, callers that need
// strict validation wrap the buffer (the wrapping engine does). Mutations
// validate and report ErrRangeInvalid.
//
// All methods are safe for concurrent use; listeners run outside the lock
// on the mutating goroutine.
type Buffer struct {
	mu         sync.RWMutex
	text       string
	lineStarts []int
	delimiter  string
	listeners  []ChangeListener
}

// New creates a new empty buffer.
func New(opts ...Option) *Buffer {
	b := &Buffer{delimiter: "\n"}
	for _, opt := range opts {
		opt(b)
	}
	b.reindex()
	return b
}

// NewFromString creates a buffer with initial content. No change
// notification fires for the initial text.
func NewFromString(text string, opts ...Option) *Buffer {
	b := New(opts...)
	b.text = text
	b.reindex()
	return b
}

// reindex rebuilds the line start table. The caller holds the write lock or
// owns the buffer exclusively during construction.
func (b *Buffer) reindex() {
	starts := make([]int, 1, len(b.lineStarts)+1)
	for i := 0; ; {
		j := strings.Index(b.text[i:], b.delimiter)
		if j < 0 {
			break
		}
		i += j + len(b.delimiter)
		starts = append(starts, i)
	}
	b.lineStarts = starts
}

// Text returns the full buffer content.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// CharCount returns the length of the buffer in bytes.
func (b *Buffer) CharCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.text)
}

// LineCount returns the number of logical lines, at least one.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lineStarts)
}

// Delimiter returns the line delimiter separating logical lines.
func (b *Buffer) Delimiter() string {
	return b.delimiter
}

// Line returns the text of the line at index, without the delimiter.
// Out-of-range indexes yield the empty string.
func (b *Buffer) Line(index int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if index < 0 || index >= len(b.lineStarts) {
		return ""
	}
	start := b.lineStarts[index]
	end := len(b.text)
	if index+1 < len(b.lineStarts) {
		end = b.lineStarts[index+1] - len(b.delimiter)
	}
	return b.text[start:end]
}

// OffsetAtLine returns the start offset of the line at index, clamped to
// the first and last line.
func (b *Buffer) OffsetAtLine(index int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if index <= 0 {
		return 0
	}
	if index >= len(b.lineStarts) {
		index = len(b.lineStarts) - 1
	}
	return b.lineStarts[index]
}

// LineAtOffset returns the index of the line containing offset. An offset
// on a delimiter belongs to the line the delimiter terminates; an offset at
// or past the end of the buffer resolves to the last line.
func (b *Buffer) LineAtOffset(offset int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if offset <= 0 {
		return 0
	}
	if offset >= len(b.text) {
		return len(b.lineStarts) - 1
	}
	return sort.Search(len(b.lineStarts), func(i int) bool {
		return b.lineStarts[i] > offset
	}) - 1
}

// TextRange returns length bytes starting at start, clamped to the buffer.
func (b *Buffer) TextRange(start, length int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if start < 0 {
		start = 0
	}
	if start > len(b.text) {
		start = len(b.text)
	}
	end := start + length
	if end < start {
		end = start
	}
	if end > len(b.text) {
		end = len(b.text)
	}
	return b.text[start:end]
}

// SetText replaces the whole buffer content and notifies listeners via
// TextSet.
func (b *Buffer) SetText(text string) {
	b.mu.Lock()
	b.text = text
	b.reindex()
	listeners := append([]ChangeListener(nil), b.listeners...)
	b.mu.Unlock()

	for _, l := range listeners {
		l.TextSet()
	}
}

// ReplaceTextRange replaces length bytes at start with text. Listeners are
// notified via TextChanged after the mutation is applied, with the line and
// byte counts of both the deleted and the inserted text.
func (b *Buffer) ReplaceTextRange(start, length int, text string) error {
	b.mu.Lock()
	if start < 0 || length < 0 || start+length > len(b.text) {
		b.mu.Unlock()
		return fmt.Errorf("%w: replace [%d,%d) in %d bytes", ErrRangeInvalid, start, start+length, len(b.text))
	}
	change := TextChange{
		Start:             start,
		InsertedLineCount: strings.Count(text, b.delimiter),
		DeletedLineCount:  strings.Count(b.text[start:start+length], b.delimiter),
		InsertedCharCount: len(text),
		DeletedCharCount:  length,
	}
	b.text = b.text[:start] + text + b.text[start+length:]
	b.reindex()
	listeners := append([]ChangeListener(nil), b.listeners...)
	b.mu.Unlock()

	for _, l := range listeners {
		l.TextChanged(change)
	}
	return nil
}

// AddChangeListener registers a listener for buffer mutations.
func (b *Buffer) AddChangeListener(l ChangeListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

// RemoveChangeListener unregisters a previously added listener. Listeners
// are matched by interface equality, so the same value passed to
// AddChangeListener must be passed here.
func (b *Buffer) RemoveChangeListener(l ChangeListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, registered := range b.listeners {
		if registered == l {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			return
		}
	}
}
