package buffer

import (
	"fmt"
	"sync/atomic"
)

// Offset is a code point position in the buffer.
type Offset = int

// Point represents a line and column position.
// Both Line and Column are 0-indexed.
// Column is measured in code points from the start of the line.
type Point struct {
	Line   int // 0-indexed line number
	Column int // 0-indexed column (code points into the line)
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Point) Compare(other Point) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Column < other.Column {
		return -1
	}
	if p.Column > other.Column {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Point) Before(other Point) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Point) After(other Point) bool {
	return p.Compare(other) > 0
}

// RevisionID uniquely identifies a buffer revision.
// Each modification to the buffer creates a new revision.
type RevisionID uint64

var revisionCounter uint64

// NewRevisionID generates a new unique revision ID.
func NewRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}
