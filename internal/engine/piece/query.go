package piece

import (
	"bufio"
	"io"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"
)

// text returns the runes p refers to.
func (t *Table) text(p Piece) []rune {
	if p.Origin == Added {
		return t.added[p.Begin : p.Begin+p.Len]
	}
	return t.original[p.Begin : p.Begin+p.Len]
}

// Len returns the document length in code points.
func (t *Table) Len() int {
	n := 0
	for _, p := range t.pieces {
		n += p.Len
	}
	return n
}

// IsEmpty returns true if the document has no text.
func (t *Table) IsEmpty() bool {
	return t.Len() == 0
}

// LineCount returns the number of lines: one more than the number of newlines.
// An empty document has one line.
func (t *Table) LineCount() int {
	n := 1
	for _, p := range t.pieces {
		n += len(p.breaks)
	}
	return n
}

// Pieces returns a copy of the piece sequence, sentinel included.
func (t *Table) Pieces() []Piece {
	return slices.Clone(t.pieces)
}

// String returns the full document text.
func (t *Table) String() string {
	var sb strings.Builder
	for _, p := range t.pieces {
		for _, r := range t.text(p) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// WriteTo writes the document as UTF-8 to w. The count is the number of
// bytes w accepted.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)
	var enc [utf8.UTFMax]byte
	for _, p := range t.pieces {
		for _, r := range t.text(p) {
			size := utf8.EncodeRune(enc[:], r)
			if _, err := bw.Write(enc[:size]); err != nil {
				return cw.n, err
			}
		}
	}
	err := bw.Flush()
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Line returns the text of line i (0-indexed) without its newline.
func (t *Table) Line(i int) (string, error) {
	if i < 0 || i >= t.LineCount() {
		return "", outOfBounds("line", i, t.LineCount()-1)
	}

	var sb strings.Builder
	line := 0
	for _, p := range t.pieces {
		// Skip pieces that end before line i starts.
		if line+len(p.breaks) < i {
			line += len(p.breaks)
			continue
		}

		runes := t.text(p)
		start := 0
		if line < i {
			start = p.breaks[i-line-1] + 1
			line = i
		}

		k := sort.SearchInts(p.breaks, start)
		if k < len(p.breaks) {
			writeRunes(&sb, runes[start:p.breaks[k]])
			return sb.String(), nil
		}
		writeRunes(&sb, runes[start:])
	}
	return sb.String(), nil
}

// LineStart returns the code point offset of the first character of line i.
func (t *Table) LineStart(i int) (int, error) {
	if i < 0 || i >= t.LineCount() {
		return 0, outOfBounds("line start", i, t.LineCount()-1)
	}
	if i == 0 {
		return 0, nil
	}

	offset, line := 0, 0
	for _, p := range t.pieces {
		if line+len(p.breaks) >= i {
			return offset + p.breaks[i-line-1] + 1, nil
		}
		line += len(p.breaks)
		offset += p.Len
	}
	return offset, nil
}

// LineLen returns the number of code points in line i, excluding its newline.
func (t *Table) LineLen(i int) (int, error) {
	start, err := t.LineStart(i)
	if err != nil {
		return 0, err
	}
	end := t.Len()
	if i+1 < t.LineCount() {
		next, err := t.LineStart(i + 1)
		if err != nil {
			return 0, err
		}
		end = next - 1
	}
	return end - start, nil
}

// Position returns the line and column of a code point offset.
// offset == Len() is valid and names the end of the last line.
func (t *Table) Position(offset int) (line, col int, err error) {
	total := t.Len()
	if offset < 0 || offset > total {
		return 0, 0, outOfBounds("position", offset, total)
	}

	lineStart, pos := 0, 0
	for _, p := range t.pieces {
		if pos >= offset {
			break
		}
		local := min(offset-pos, p.Len)
		k := sort.SearchInts(p.breaks, local)
		line += k
		if k > 0 {
			lineStart = pos + p.breaks[k-1] + 1
		}
		pos += p.Len
	}
	return line, offset - lineStart, nil
}

// Slice returns the text in the code point range [start, end).
func (t *Table) Slice(start, end int) (string, error) {
	total := t.Len()
	if start < 0 || start > total {
		return "", outOfBounds("slice", start, total)
	}
	if end < start || end > total {
		return "", outOfBounds("slice", end, total)
	}

	var sb strings.Builder
	pos := 0
	for _, p := range t.pieces {
		if pos >= end {
			break
		}
		from := max(start-pos, 0)
		to := min(end-pos, p.Len)
		if from < to {
			writeRunes(&sb, t.text(p)[from:to])
		}
		pos += p.Len
	}
	return sb.String(), nil
}

func writeRunes(sb *strings.Builder, runes []rune) {
	for _, r := range runes {
		sb.WriteRune(r)
	}
}
