package wrap

import "testing"

func newTable(entries ...visualLine) *table {
	t := &table{lines: make([]visualLine, len(entries))}
	copy(t.lines, entries)
	t.count = len(entries)
	return t
}

func TestEnsureSizeDoublesAndReserves(t *testing.T) {
	tab := &table{lines: make([]visualLine, 4)}
	tab.resetRange(0, 4)

	tab.ensureSize(5)

	if len(tab.lines) != 8 {
		t.Fatalf("expected doubled capacity 8, got %d", len(tab.lines))
	}
	for i, vl := range tab.lines[4:] {
		if vl.off != reserved || vl.length != reserved {
			t.Errorf("new slot %d not reserved: %+v", 4+i, vl)
		}
	}
}

func TestEnsureSizeGrowsToRequested(t *testing.T) {
	tab := &table{lines: make([]visualLine, 2)}
	tab.resetRange(0, 2)

	tab.ensureSize(20)

	if len(tab.lines) != 20 {
		t.Errorf("expected capacity 20, got %d", len(tab.lines))
	}
}

func TestSetFillsReservedSlot(t *testing.T) {
	tab := &table{lines: make([]visualLine, 2)}
	tab.resetRange(0, 2)

	tab.set(0, 0, 5)
	tab.set(1, 5, 3)

	if tab.count != 2 {
		t.Fatalf("expected count 2, got %d", tab.count)
	}
	if tab.lines[0] != (visualLine{0, 5}) || tab.lines[1] != (visualLine{5, 3}) {
		t.Errorf("unexpected entries %+v", tab.lines[:2])
	}
}

func TestSetShiftsOccupiedSlot(t *testing.T) {
	tab := newTable(visualLine{0, 4}, visualLine{4, 4}, visualLine{9, 2})

	// a logical line now needs an extra visual line at index 1
	tab.set(1, 4, 2)

	if tab.count != 4 {
		t.Fatalf("expected count 4, got %d", tab.count)
	}
	want := []visualLine{{0, 4}, {4, 2}, {4, 4}, {9, 2}}
	for i, w := range want {
		if tab.lines[i] != w {
			t.Errorf("entry %d: expected %+v, got %+v", i, w, tab.lines[i])
		}
	}
}

func TestSearch(t *testing.T) {
	// two wrapped segments of one logical line, a delimiter gap, then a
	// second logical line: "abcd efg\nhi" wrapped at some width
	tab := newTable(visualLine{0, 5}, visualLine{5, 3}, visualLine{9, 2})

	tests := []struct {
		offset int
		want   int
	}{
		{0, 0},
		{4, 0},
		{5, 0}, // segment boundary resolves to the earlier line
		{6, 1},
		{8, 1}, // end of the logical line, no later segment shares it
		{9, 2},
		{10, 2},
		{11, 2}, // offset past the last line resolves to the last line
	}
	for _, tt := range tests {
		if got := tab.search(tt.offset); got != tt.want {
			t.Errorf("search(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}
}

func TestSearchDelimiterGap(t *testing.T) {
	// offsets on the delimiter between two logical lines belong to the
	// line the delimiter terminates
	tab := newTable(visualLine{0, 3}, visualLine{4, 3})

	if got := tab.search(3); got != 0 {
		t.Errorf("search(3) = %d, want 0", got)
	}
}

func TestSearchSingleLine(t *testing.T) {
	tab := newTable(visualLine{0, 0})

	if got := tab.search(0); got != 0 {
		t.Errorf("search(0) = %d, want 0", got)
	}
}

func TestCompact(t *testing.T) {
	tab := &table{lines: []visualLine{
		{0, 4},
		{reserved, reserved},
		{reserved, reserved},
		{10, 2},
		{13, 1},
	}}
	tab.count = 3 // three populated entries, two reserved in the middle

	tab.compact(1)

	want := []visualLine{{0, 4}, {10, 2}, {13, 1}}
	for i, w := range want {
		if tab.lines[i] != w {
			t.Errorf("entry %d: expected %+v, got %+v", i, w, tab.lines[i])
		}
	}
	for _, vl := range tab.lines[3:] {
		if vl.off != reserved {
			t.Errorf("trailing slot not reserved: %+v", vl)
		}
	}
}

func TestCompactNoGap(t *testing.T) {
	tab := newTable(visualLine{0, 4}, visualLine{4, 4})
	before := append([]visualLine(nil), tab.lines...)

	tab.compact(1)

	for i := range before {
		if tab.lines[i] != before[i] {
			t.Errorf("entry %d changed: %+v -> %+v", i, before[i], tab.lines[i])
		}
	}
}
