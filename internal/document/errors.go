package document

import (
	"errors"

	"github.com/dshills/vix/internal/engine/buffer"
)

// Errors returned by document operations.
var (
	// ErrUnknownEncoding indicates an encoding label that is not recognized.
	ErrUnknownEncoding = errors.New("unknown encoding")

	// ErrNoPath indicates Save on a document that was never given a path.
	ErrNoPath = errors.New("document has no path")

	// ErrNotOpen indicates a registry lookup for a document that is not open.
	ErrNotOpen = errors.New("document not open")

	// ErrReadOnly indicates a write to a read-only document.
	ErrReadOnly = buffer.ErrReadOnly
)
