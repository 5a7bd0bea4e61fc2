package piece

import (
	"errors"
	"testing"
)

func TestLineAccounting(t *testing.T) {
	tb := mustFromText(t, "a\nb\nc")
	if tb.LineCount() != 3 {
		t.Fatalf("expected 3 lines, got %d", tb.LineCount())
	}
	for i, want := range []string{"a", "b", "c"} {
		got, err := tb.Line(i)
		if err != nil {
			t.Fatalf("Line(%d) failed: %v", i, err)
		}
		if got != want {
			t.Errorf("Line(%d) = %q, want %q", i, got, want)
		}
	}
	if _, err := tb.Line(3); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
	if _, err := tb.Line(-1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestLineTrailingNewline(t *testing.T) {
	tb := mustFromText(t, "a\n")
	if tb.LineCount() != 2 {
		t.Fatalf("expected 2 lines, got %d", tb.LineCount())
	}
	if got, _ := tb.Line(1); got != "" {
		t.Errorf("Line(1) = %q, want empty", got)
	}

	empty := New()
	if got, err := empty.Line(0); err != nil || got != "" {
		t.Errorf("Line(0) on empty = %q, %v", got, err)
	}
}

func TestLineAcrossPieces(t *testing.T) {
	tb := mustFromText(t, "first\nsecond")
	_ = tb.Insert(3, "ST\nxy") // "firST\nxyst\nsecond"
	_ = tb.Insert(17, " line") // "firST\nxyst\nsecond line"
	_ = tb.Insert(0, "zero\n") // "zero\nfirST\nxyst\nsecond line"

	want := []string{"zero", "firST", "xyst", "second line"}
	if tb.LineCount() != len(want) {
		t.Fatalf("LineCount() = %d, want %d (%q)", tb.LineCount(), len(want), tb.String())
	}
	for i, w := range want {
		got, err := tb.Line(i)
		if err != nil {
			t.Fatalf("Line(%d) failed: %v", i, err)
		}
		if got != w {
			t.Errorf("Line(%d) = %q, want %q", i, got, w)
		}
	}
}

func TestLineStartAndLen(t *testing.T) {
	tb := mustFromText(t, "ab\n世界x\n\nlast")
	_ = tb.Insert(1, "Q")

	// "aQb\n世界x\n\nlast"
	tests := []struct {
		line, start, length int
	}{
		{0, 0, 3},
		{1, 4, 3},
		{2, 8, 0},
		{3, 9, 4},
	}
	for _, tt := range tests {
		start, err := tb.LineStart(tt.line)
		if err != nil {
			t.Fatalf("LineStart(%d) failed: %v", tt.line, err)
		}
		if start != tt.start {
			t.Errorf("LineStart(%d) = %d, want %d", tt.line, start, tt.start)
		}
		n, err := tb.LineLen(tt.line)
		if err != nil {
			t.Fatalf("LineLen(%d) failed: %v", tt.line, err)
		}
		if n != tt.length {
			t.Errorf("LineLen(%d) = %d, want %d", tt.line, n, tt.length)
		}
	}
	if _, err := tb.LineStart(4); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestPosition(t *testing.T) {
	tb := mustFromText(t, "ab\ncd")
	_ = tb.Insert(5, "\nef") // "ab\ncd\nef"

	tests := []struct {
		offset, line, col int
	}{
		{0, 0, 0},
		{2, 0, 2},
		{3, 1, 0},
		{5, 1, 2},
		{6, 2, 0},
		{8, 2, 2},
	}
	for _, tt := range tests {
		line, col, err := tb.Position(tt.offset)
		if err != nil {
			t.Fatalf("Position(%d) failed: %v", tt.offset, err)
		}
		if line != tt.line || col != tt.col {
			t.Errorf("Position(%d) = (%d, %d), want (%d, %d)", tt.offset, line, col, tt.line, tt.col)
		}
	}
	if _, _, err := tb.Position(9); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestSlice(t *testing.T) {
	tb := mustFromText(t, "hello world")
	_ = tb.Insert(5, ",")

	tests := []struct {
		start, end int
		expected   string
	}{
		{0, 5, "hello"},
		{4, 7, "o, "},
		{6, 12, " world"},
		{3, 3, ""},
	}
	for _, tt := range tests {
		got, err := tb.Slice(tt.start, tt.end)
		if err != nil {
			t.Fatalf("Slice(%d, %d) failed: %v", tt.start, tt.end, err)
		}
		if got != tt.expected {
			t.Errorf("Slice(%d, %d) = %q, want %q", tt.start, tt.end, got, tt.expected)
		}
	}
	if _, err := tb.Slice(5, 4); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
	if _, err := tb.Slice(0, 13); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
}
