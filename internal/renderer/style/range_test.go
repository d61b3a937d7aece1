package style

import "testing"

func TestOverlappingClipsToWindow(t *testing.T) {
	ranges := []Range{
		{Start: 0, Length: 5, Foreground: "#ff0000"},
		{Start: 5, Length: 5, Foreground: "#00ff00"},
		{Start: 12, Length: 4, Foreground: "#0000ff"},
	}

	got := Overlapping(ranges, 3, 6) // window [3, 9)
	if len(got) != 2 {
		t.Fatalf("expected 2 ranges, got %d: %v", len(got), got)
	}

	if got[0].Start != 3 || got[0].Length != 2 {
		t.Errorf("first range: expected [3,5), got [%d,%d)", got[0].Start, got[0].End())
	}
	if got[0].Foreground != "#ff0000" {
		t.Errorf("first range lost its attributes: %+v", got[0])
	}
	if got[1].Start != 5 || got[1].Length != 4 {
		t.Errorf("second range: expected [5,9), got [%d,%d)", got[1].Start, got[1].End())
	}
}

func TestOverlappingSkipsDisjointRanges(t *testing.T) {
	ranges := []Range{
		{Start: 0, Length: 3},
		{Start: 10, Length: 3},
	}

	if got := Overlapping(ranges, 4, 5); got != nil {
		t.Errorf("expected no overlap, got %v", got)
	}
}

func TestOverlappingWholeWindow(t *testing.T) {
	ranges := []Range{{Start: 2, Length: 4, Bold: true}}

	got := Overlapping(ranges, 0, 100)
	if len(got) != 1 || got[0] != ranges[0] {
		t.Errorf("expected range unchanged, got %v", got)
	}
}

func TestOverlappingEmptyInputs(t *testing.T) {
	if got := Overlapping(nil, 0, 10); got != nil {
		t.Errorf("expected nil for nil ranges, got %v", got)
	}
	if got := Overlapping([]Range{{Start: 0, Length: 5}}, 0, 0); got != nil {
		t.Errorf("expected nil for empty window, got %v", got)
	}
}

func TestContainsRTL(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", false},
		{"ascii", "hello world", false},
		{"cjk", "こんにちは", false},
		{"hebrew", "שלום", true},
		{"arabic", "مرحبا", true},
		{"mixed", "price: 42 ₪ שקל", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsRTL(tt.text); got != tt.want {
				t.Errorf("ContainsRTL(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
