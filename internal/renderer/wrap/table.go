package wrap

// reserved marks a table slot allocated for a wrap pass but not yet
// populated. It must never be observable outside a pass.
const reserved = -1

// visualLine is one wrapped segment: a byte range of the buffer that never
// spans a line delimiter.
type visualLine struct {
	off    int
	length int
}

// table is the visual line index: a dense, exclusively-owned sequence of
// visual lines in document order. Entries [0, count) are populated; slots
// beyond count are reserved scratch capacity for the next pass.
type table struct {
	lines []visualLine
	count int
}

// ensureSize grows the backing array to hold at least n entries, doubling
// so that repeated insertion stays amortized. New slots are reserved.
func (t *table) ensureSize(n int) {
	if len(t.lines) >= n {
		return
	}
	size := len(t.lines) * 2
	if size < n {
		size = n
	}
	old := len(t.lines)
	grown := make([]visualLine, size)
	copy(grown, t.lines)
	t.lines = grown
	t.resetRange(old, size-old)
}

// resetRange marks lineCount slots starting at startLine as reserved.
func (t *table) resetRange(startLine, lineCount int) {
	for i := startLine; i < startLine+lineCount; i++ {
		t.lines[i] = visualLine{reserved, reserved}
	}
}

// set records a visual line at index. If the slot is already populated the
// tail of the table shifts right by one; a logical line may wrap to more
// visual lines than it previously occupied.
func (t *table) set(index, off, length int) {
	t.ensureSize(t.count + 1)
	if t.lines[index].off != reserved {
		copy(t.lines[index+1:t.count+1], t.lines[index:t.count])
	}
	t.lines[index] = visualLine{off, length}
	t.count++
}

// end returns the offset just past visual line i.
func (t *table) end(i int) int {
	return t.lines[i].off + t.lines[i].length
}

// lastChar returns the offset past the final visual line. Unlike the
// buffer's byte count this stays valid mid-update, when the buffer has
// already changed but the table has not caught up yet.
func (t *table) lastChar() int {
	return t.end(t.count - 1)
}

// search returns the index of the visual line containing offset. The
// caller guarantees count > 0 and 0 <= offset <= lastChar.
//
// An offset on the shared boundary between two wrapped segments is
// ambiguous: the break is not represented by any character, so the end of
// one visual line equals the start of the next. Such an offset resolves to
// the earlier line. An offset equal to lastChar resolves to the last line,
// the insert-at-end position.
func (t *table) search(offset int) int {
	last := t.count - 1
	if offset == t.end(last) {
		return last
	}

	high, low := t.count, -1
	for high-low > 1 {
		index := (high + low) / 2
		start := t.lines[index].off
		if offset >= start {
			low = index
			if offset <= start+t.lines[index].length {
				break
			}
		} else {
			high = index
		}
	}
	if low > 0 && offset == t.end(low-1) {
		low--
	}
	return low
}

// compact closes a run of reserved slots left at from by a pass that
// produced fewer visual lines than the previous wrapping, so that readers
// never see a reserved entry.
func (t *table) compact(from int) {
	empty := 0
	for i := from; i < len(t.lines); i++ {
		if t.lines[i].off != reserved {
			break
		}
		empty++
	}
	if empty == 0 {
		return
	}
	n := t.count - from
	copy(t.lines[from:from+n], t.lines[from+empty:from+empty+n])
	t.resetRange(from+n, empty)
}
