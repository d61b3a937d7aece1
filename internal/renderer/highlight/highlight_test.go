package highlight

import (
	"testing"
)

func TestNewSelectsLexerByFilename(t *testing.T) {
	h := New("main.go", "monokai")
	if got := h.Language(); got != "Go" {
		t.Errorf("Language = %q, want Go", got)
	}

	h = New("notes.unknown-extension", "monokai")
	if got := h.Language(); got != "fallback" {
		t.Errorf("Language = %q, want fallback", got)
	}
}

func TestLineStylesOffsets(t *testing.T) {
	h := New("main.go", "monokai")
	line := "package main"

	ranges := h.LineStyles(100, line)
	if len(ranges) == 0 {
		t.Fatal("expected style ranges for a Go keyword line")
	}

	end := 100
	for i, r := range ranges {
		if r.Start < end {
			t.Errorf("range %d starts at %d before previous end %d", i, r.Start, end)
		}
		if r.Length <= 0 {
			t.Errorf("range %d has length %d", i, r.Length)
		}
		end = r.End()
	}
	if end > 100+len(line) {
		t.Errorf("ranges extend to %d, past line end %d", end, 100+len(line))
	}

	if ranges[0].Start != 100 || ranges[0].Foreground == "" {
		t.Errorf("keyword range = %+v, want styled range at offset 100", ranges[0])
	}
}

func TestLineStylesEmptyLine(t *testing.T) {
	h := New("main.go", "monokai")

	if got := h.LineStyles(0, ""); got != nil {
		t.Errorf("LineStyles on empty line = %v, want nil", got)
	}
}

func TestLineStylesCache(t *testing.T) {
	h := New("main.go", "monokai")

	first := h.LineStyles(0, "var x int")
	again := h.LineStyles(0, "var x int")
	if len(first) != len(again) {
		t.Fatalf("cached result differs: %d vs %d ranges", len(first), len(again))
	}

	// same offset, different text: the entry self-invalidates
	changed := h.LineStyles(0, "x := 1")
	if len(changed) == 0 {
		t.Fatal("expected ranges after text change")
	}
	total := 0
	for _, r := range changed {
		total += r.Length
	}
	if total > len("x := 1") {
		t.Errorf("stale ranges returned after text change: %v", changed)
	}
}

func TestInvalidate(t *testing.T) {
	h := New("main.go", "monokai")

	h.LineStyles(0, "package main")
	h.Invalidate()
	if len(h.cache) != 0 {
		t.Errorf("cache holds %d entries after Invalidate", len(h.cache))
	}
}

func TestBidiActive(t *testing.T) {
	if New("a.txt", "monokai").BidiActive() {
		t.Error("BidiActive = true by default")
	}
	if !New("a.txt", "monokai", WithBidi(true)).BidiActive() {
		t.Error("BidiActive = false with WithBidi(true)")
	}
}
