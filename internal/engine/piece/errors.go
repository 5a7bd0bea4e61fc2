package piece

import (
	"errors"
	"fmt"
)

// Errors returned by table operations.
var (
	// ErrOutOfBounds indicates an offset, count or line index outside the document.
	ErrOutOfBounds = errors.New("out of bounds")

	// ErrInvalidUTF8 indicates text that is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid UTF-8 sequence")
)

// InvalidUTF8Error reports the byte offset of the first invalid sequence.
type InvalidUTF8Error struct {
	Offset int
}

func (e *InvalidUTF8Error) Error() string {
	return fmt.Sprintf("invalid UTF-8 sequence at byte %d", e.Offset)
}

// Unwrap returns ErrInvalidUTF8.
func (e *InvalidUTF8Error) Unwrap() error {
	return ErrInvalidUTF8
}

func outOfBounds(op string, offset, limit int) error {
	return fmt.Errorf("%s: %d not in [0, %d]: %w", op, offset, limit, ErrOutOfBounds)
}
