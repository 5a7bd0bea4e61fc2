package buffer

import (
	"errors"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/dshills/vix/internal/engine/piece"
)

// Errors returned by buffer operations.
var (
	ErrOutOfBounds  = piece.ErrOutOfBounds
	ErrInvalidUTF8  = piece.ErrInvalidUTF8
	ErrRangeInvalid = errors.New("invalid range")
	ErrEditsOverlap = errors.New("edits overlap or are not in reverse order")
	ErrReadOnly     = errors.New("buffer is read-only")
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Buffer wraps a piece.Table with additional editor functionality.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	table      *piece.Table
	revisionID RevisionID
	lineEnding LineEnding
	tabWidth   int
	readOnly   bool
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		table:      piece.New(),
		revisionID: NewRevisionID(),
		lineEnding: LineEndingLF,
		tabWidth:   4,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewBufferFromString creates a buffer with initial content.
// Fails if s is not valid UTF-8.
func NewBufferFromString(s string, opts ...Option) (*Buffer, error) {
	// Validate first so error offsets refer to s, not the normalized text.
	if err := piece.Validate(s); err != nil {
		return nil, err
	}
	b := NewBuffer(opts...)
	t, err := piece.FromText(normalizeLineEndings(s))
	if err != nil {
		return nil, err
	}
	b.table = t
	return b, nil
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	// CRLF sequences may straddle read boundaries, so read everything first.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data), opts...)
}

// normalizeLineEndings converts CRLF and lone CR to LF.
func normalizeLineEndings(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Read Operations

// Text returns the full buffer content as a string.
// For large buffers, prefer LineText or WriteTo.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.table.String()
}

// TextRange returns text in the given code point range.
func (b *Buffer) TextRange(start, end Offset) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.table.Slice(start, end)
}

// WriteTo writes the buffer content to w, restoring the line ending style.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return writeTable(w, b.table, b.lineEnding)
}

// Len returns the total length of the buffer in code points.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.table.Len()
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.table.LineCount()
}

// LineText returns the text of a specific line (without newline).
func (b *Buffer) LineText(line int) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.table.Line(line)
}

// LineLen returns the length of a specific line in code points (without newline).
func (b *Buffer) LineLen(line int) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.table.LineLen(line)
}

// LineWidth returns the number of terminal cells a line occupies.
func (b *Buffer) LineWidth(line int) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	text, err := b.table.Line(line)
	if err != nil {
		return 0, err
	}
	return displayWidth(text, b.tabWidth), nil
}

// GraphemeCount returns the number of user-perceived characters in a line.
func (b *Buffer) GraphemeCount(line int) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	text, err := b.table.Line(line)
	if err != nil {
		return 0, err
	}
	return graphemeCount(text), nil
}

// RuneAt returns the rune at the given offset.
// Returns utf8.RuneError and false if offset is out of range.
func (b *Buffer) RuneAt(offset Offset) (rune, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, err := b.table.Slice(offset, offset+1)
	if err != nil || s == "" {
		return utf8.RuneError, false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, true
}

// Pieces returns a copy of the underlying piece sequence.
func (b *Buffer) Pieces() []piece.Piece {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.table.Pieces()
}

// Coordinate Conversion

// OffsetToPoint converts an offset to line/column.
func (b *Buffer) OffsetToPoint(offset Offset) (Point, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return offsetToPoint(b.table, offset)
}

// PointToOffset converts line/column to an offset.
func (b *Buffer) PointToOffset(point Point) (Offset, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return pointToOffset(b.table, point)
}

// LineStartOffset returns the offset of the start of a line.
func (b *Buffer) LineStartOffset(line int) (Offset, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.table.LineStart(line)
}

func offsetToPoint(t *piece.Table, offset Offset) (Point, error) {
	line, col, err := t.Position(offset)
	if err != nil {
		return Point{}, err
	}
	return Point{Line: line, Column: col}, nil
}

func pointToOffset(t *piece.Table, point Point) (Offset, error) {
	start, err := t.LineStart(point.Line)
	if err != nil {
		return 0, err
	}
	n, err := t.LineLen(point.Line)
	if err != nil {
		return 0, err
	}
	if point.Column < 0 || point.Column > n {
		return 0, ErrOutOfBounds
	}
	return start + point.Column, nil
}

func writeTable(w io.Writer, t *piece.Table, le LineEnding) (int64, error) {
	if le == LineEndingLF {
		return t.WriteTo(w)
	}
	n, err := io.WriteString(w, strings.ReplaceAll(t.String(), "\n", le.Sequence()))
	return int64(n), err
}

// Write Operations

// Insert inserts text at the given offset.
// Returns the end position of the inserted text.
func (b *Buffer) Insert(offset Offset, text string) (Offset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.readOnly {
		return 0, ErrReadOnly
	}

	text = normalizeLineEndings(text)
	if err := b.table.Insert(offset, text); err != nil {
		return 0, err
	}
	b.revisionID = NewRevisionID()

	return offset + utf8.RuneCountInString(text), nil
}

// Delete removes count code points starting at offset.
func (b *Buffer) Delete(offset Offset, count int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.readOnly {
		return ErrReadOnly
	}
	if err := b.table.Delete(offset, count); err != nil {
		return err
	}
	if count > 0 {
		b.revisionID = NewRevisionID()
	}
	return nil
}

// Replace replaces count code points at offset with text.
// Returns the end position of the replacement text.
func (b *Buffer) Replace(offset Offset, count int, text string) (Offset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.readOnly {
		return 0, ErrReadOnly
	}

	text = normalizeLineEndings(text)
	if err := b.table.Replace(offset, count, text); err != nil {
		return 0, err
	}
	b.revisionID = NewRevisionID()

	return offset + utf8.RuneCountInString(text), nil
}

// ApplyEdit applies a single edit to the buffer.
func (b *Buffer) ApplyEdit(edit Edit) (EditResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.readOnly {
		return EditResult{}, ErrReadOnly
	}
	if !edit.Range.IsValid() {
		return EditResult{}, ErrRangeInvalid
	}

	oldText, err := b.table.Slice(edit.Range.Start, edit.Range.End)
	if err != nil {
		return EditResult{}, err
	}
	text := normalizeLineEndings(edit.NewText)
	if err := b.table.Replace(edit.Range.Start, edit.Range.Len(), text); err != nil {
		return EditResult{}, err
	}
	b.revisionID = NewRevisionID()

	n := utf8.RuneCountInString(text)
	return EditResult{
		OldRange: edit.Range,
		NewRange: Range{Start: edit.Range.Start, End: edit.Range.Start + n},
		OldText:  oldText,
		Delta:    n - edit.Range.Len(),
	}, nil
}

// ApplyEdits applies multiple edits atomically.
// Edits must be in reverse order (highest offset first) to maintain validity.
func (b *Buffer) ApplyEdits(edits []Edit) error {
	if len(edits) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.readOnly {
		return ErrReadOnly
	}

	for i := 1; i < len(edits); i++ {
		if edits[i].Range.End > edits[i-1].Range.Start {
			return ErrEditsOverlap
		}
	}

	length := b.table.Len()
	for _, edit := range edits {
		if edit.Range.Start < 0 || !edit.Range.IsValid() || edit.Range.End > length {
			return ErrRangeInvalid
		}
		if !utf8.ValidString(edit.NewText) {
			return ErrInvalidUTF8
		}
	}

	for _, edit := range edits {
		text := normalizeLineEndings(edit.NewText)
		if err := b.table.Replace(edit.Range.Start, edit.Range.Len(), text); err != nil {
			return err
		}
	}

	b.revisionID = NewRevisionID()
	return nil
}

// Buffer State

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.table.IsEmpty()
}

// IsReadOnly returns true if the buffer rejects edits.
func (b *Buffer) IsReadOnly() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.readOnly
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// TabWidth returns the buffer's tab width.
func (b *Buffer) TabWidth() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tabWidth
}

// SetLineEnding sets the buffer's line ending style.
// Stored text is unaffected; the style applies when writing out.
func (b *Buffer) SetLineEnding(le LineEnding) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lineEnding = le
}

// SetTabWidth sets the buffer's tab width.
func (b *Buffer) SetTabWidth(width int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if width > 0 {
		b.tabWidth = width
	}
}

// Snapshot returns a read-only snapshot of the current buffer state.
// Safe for concurrent access from other goroutines.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return &Snapshot{
		table:      b.table.Clone(),
		revisionID: b.revisionID,
		lineEnding: b.lineEnding,
		tabWidth:   b.tabWidth,
	}
}
