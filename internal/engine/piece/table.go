package piece

import (
	"io"
	"slices"
	"unicode/utf8"
)

// Table is a piece table over an immutable original buffer and an
// append-only add buffer.
//
// pieces[0] is always a zero-length sentinel so offset 0 and the empty
// document resolve to a piece without special cases.
type Table struct {
	original []rune
	added    []rune
	pieces   []Piece
}

func sentinel() Piece {
	return Piece{Origin: Original}
}

// New creates an empty table.
func New() *Table {
	return &Table{pieces: []Piece{sentinel()}}
}

// FromText creates a table whose original buffer is s.
// It returns an *InvalidUTF8Error if s is not valid UTF-8.
func FromText(s string) (*Table, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}

	t := New()
	if s == "" {
		return t, nil
	}

	t.original = []rune(s)
	t.pieces = append(t.pieces, Piece{
		Origin: Original,
		Begin:  0,
		Len:    len(t.original),
		breaks: scanBreaks(t.original),
	})
	return t, nil
}

// FromReader creates a table from everything r yields.
func FromReader(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return FromText(string(data))
}

// Validate returns an *InvalidUTF8Error locating the first invalid byte
// sequence in s, or nil.
func Validate(s string) error {
	if utf8.ValidString(s) {
		return nil
	}
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			return &InvalidUTF8Error{Offset: i}
		}
		i += size
	}
	return ErrInvalidUTF8
}

// Clone returns a copy of t that can be read while t keeps being edited.
// The copies share buffer storage: the original buffer is never written and
// the add buffer is only ever appended past the clone's view of it.
func (t *Table) Clone() *Table {
	return &Table{
		original: t.original,
		added:    t.added[:len(t.added):len(t.added)],
		pieces:   slices.Clone(t.pieces),
	}
}

// locate returns the index of the piece holding offset and the offset local
// to that piece. An offset on a boundary between two pieces resolves to the
// end of the earlier one, and offset == Len() to the end of the last piece.
func (t *Table) locate(offset int) (int, int, bool) {
	if offset < 0 {
		return 0, 0, false
	}
	for i, p := range t.pieces {
		if offset <= p.Len {
			return i, offset, true
		}
		offset -= p.Len
	}
	return 0, 0, false
}

// Insert inserts text so that it starts at code point offset.
func (t *Table) Insert(offset int, text string) error {
	idx, local, ok := t.locate(offset)
	if !ok {
		return outOfBounds("insert", offset, t.Len())
	}
	if err := Validate(text); err != nil {
		return err
	}
	if text == "" {
		return nil
	}

	runes := []rune(text)
	begin := len(t.added)
	t.added = append(t.added, runes...)

	np := Piece{
		Origin: Added,
		Begin:  begin,
		Len:    len(runes),
		breaks: scanBreaks(runes),
	}

	if local < t.pieces[idx].Len {
		// [left][np][right]
		right := t.pieces[idx].split(local)
		t.pieces = slices.Insert(t.pieces, idx+1, np, right)
		return nil
	}
	// [left][np]
	t.pieces = slices.Insert(t.pieces, idx+1, np)
	return nil
}

// Delete removes count code points starting at offset.
func (t *Table) Delete(offset, count int) error {
	total := t.Len()
	if offset < 0 || offset > total {
		return outOfBounds("delete", offset, total)
	}
	if count < 0 || count > total-offset {
		return outOfBounds("delete", offset+count, total)
	}
	if count == 0 {
		return nil
	}

	si, sl, _ := t.locate(offset)
	ei, el, _ := t.locate(offset + count)

	start, end := t.pieces[si], t.pieces[ei]
	keep := make([]Piece, 0, 2)
	if left := start.sub(0, sl); left.Len > 0 || si == 0 {
		keep = append(keep, left)
	}
	if right := end.sub(el, end.Len); right.Len > 0 {
		keep = append(keep, right)
	}

	t.pieces = slices.Replace(t.pieces, si, ei+1, keep...)
	return nil
}

// Replace deletes count code points at offset and inserts text in their place.
// Bounds are checked before anything changes.
func (t *Table) Replace(offset, count int, text string) error {
	total := t.Len()
	if offset < 0 || offset > total {
		return outOfBounds("replace", offset, total)
	}
	if count < 0 || count > total-offset {
		return outOfBounds("replace", offset+count, total)
	}
	if err := Validate(text); err != nil {
		return err
	}
	if err := t.Delete(offset, count); err != nil {
		return err
	}
	return t.Insert(offset, text)
}
