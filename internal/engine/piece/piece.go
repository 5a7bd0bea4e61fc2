package piece

import "fmt"

// Origin names the buffer a piece refers to.
type Origin uint8

const (
	Original Origin = iota // Text loaded at construction
	Added                  // Text appended by inserts
)

// String returns the string representation of the origin.
func (o Origin) String() string {
	switch o {
	case Original:
		return "original"
	case Added:
		return "added"
	default:
		return "unknown"
	}
}

// Piece is a span of one of the table's two buffers.
// Begin and Len are code point counts into the buffer named by Origin.
type Piece struct {
	Origin Origin
	Begin  int
	Len    int

	// breaks holds the local offsets of newlines inside the span, ascending.
	breaks []int
}

// LineBreaks returns a copy of the cached newline offsets, local to the piece.
func (p Piece) LineBreaks() []int {
	if len(p.breaks) == 0 {
		return nil
	}
	out := make([]int, len(p.breaks))
	copy(out, p.breaks)
	return out
}

// String returns a human-readable representation of the piece.
func (p Piece) String() string {
	return fmt.Sprintf("%s[%d:%d]", p.Origin, p.Begin, p.Begin+p.Len)
}

// split shortens p to its first at runes and returns the remainder.
// The caller guarantees 0 < at < p.Len.
func (p *Piece) split(at int) Piece {
	left, right := splitBreaks(p.breaks, at)
	rest := Piece{
		Origin: p.Origin,
		Begin:  p.Begin + at,
		Len:    p.Len - at,
		breaks: right,
	}
	p.Len = at
	p.breaks = left
	return rest
}

// sub returns the part of p covering local offsets [from, to).
func (p Piece) sub(from, to int) Piece {
	if from == 0 && to == p.Len {
		return p
	}
	return Piece{
		Origin: p.Origin,
		Begin:  p.Begin + from,
		Len:    to - from,
		breaks: sliceBreaks(p.breaks, from, to),
	}
}
