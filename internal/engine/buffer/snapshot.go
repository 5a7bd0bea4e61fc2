package buffer

import (
	"io"

	"github.com/dshills/vix/internal/engine/piece"
)

// Snapshot provides a read-only view of a buffer at a specific point in time.
// It is safe for concurrent access and will not change even if the original
// buffer is modified.
type Snapshot struct {
	table      *piece.Table
	revisionID RevisionID
	lineEnding LineEnding
	tabWidth   int
}

// Text returns the full snapshot content as a string.
func (s *Snapshot) Text() string {
	return s.table.String()
}

// TextRange returns text in the given code point range.
func (s *Snapshot) TextRange(start, end Offset) (string, error) {
	return s.table.Slice(start, end)
}

// WriteTo writes the snapshot content to w, restoring the line ending style.
func (s *Snapshot) WriteTo(w io.Writer) (int64, error) {
	return writeTable(w, s.table, s.lineEnding)
}

// Len returns the total length of the snapshot in code points.
func (s *Snapshot) Len() int {
	return s.table.Len()
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() int {
	return s.table.LineCount()
}

// LineText returns the text of a specific line (without newline).
func (s *Snapshot) LineText(line int) (string, error) {
	return s.table.Line(line)
}

// LineWidth returns the number of terminal cells a line occupies.
func (s *Snapshot) LineWidth(line int) (int, error) {
	text, err := s.table.Line(line)
	if err != nil {
		return 0, err
	}
	return displayWidth(text, s.tabWidth), nil
}

// OffsetToPoint converts an offset to line/column.
func (s *Snapshot) OffsetToPoint(offset Offset) (Point, error) {
	return offsetToPoint(s.table, offset)
}

// PointToOffset converts line/column to an offset.
func (s *Snapshot) PointToOffset(point Point) (Offset, error) {
	return pointToOffset(s.table, point)
}

// Pieces returns a copy of the snapshot's piece sequence.
func (s *Snapshot) Pieces() []piece.Piece {
	return s.table.Pieces()
}

// RevisionID returns the revision ID of this snapshot.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revisionID
}

// IsEmpty returns true if the snapshot is empty.
func (s *Snapshot) IsEmpty() bool {
	return s.table.IsEmpty()
}

// LineEnding returns the snapshot's line ending style.
func (s *Snapshot) LineEnding() LineEnding {
	return s.lineEnding
}
