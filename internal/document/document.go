package document

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/vix/internal/config"
	"github.com/dshills/vix/internal/engine/buffer"
	"github.com/dshills/vix/internal/logging"
)

// Options controls how documents are decoded and saved.
type Options struct {
	// Encoding is a WHATWG label. Empty means UTF-8.
	Encoding string

	// LineEnding is "auto", "lf", "crlf" or "cr". Empty means auto.
	LineEnding string

	// TabWidth is passed to the buffer. Zero keeps the buffer default.
	TabWidth int

	// ReadOnly rejects edits and saves.
	ReadOnly bool

	// Logger receives debug output. Nil disables logging.
	Logger *logging.Logger
}

// OptionsFromConfig builds Options from the [editor] settings.
func OptionsFromConfig(cfg config.EditorConfig, log *logging.Logger) Options {
	return Options{
		Encoding:   cfg.Encoding,
		LineEnding: cfg.LineEnding,
		TabWidth:   cfg.TabWidth,
		ReadOnly:   cfg.ReadOnly,
		Logger:     log,
	}
}

func (o Options) logger() *logging.Logger {
	if o.Logger == nil {
		return logging.Null()
	}
	return o.Logger.WithComponent("document")
}

// ParseLineEnding maps a config name to a line ending. ok is false for
// "auto" and unknown names.
func ParseLineEnding(name string) (le buffer.LineEnding, ok bool) {
	switch name {
	case "lf":
		return buffer.LineEndingLF, true
	case "crlf":
		return buffer.LineEndingCRLF, true
	case "cr":
		return buffer.LineEndingCR, true
	}
	return buffer.LineEndingLF, false
}

// Document is a buffer bound to a file.
type Document struct {
	id  uuid.UUID
	buf *buffer.Buffer
	log *logging.Logger

	mu       sync.Mutex
	path     string
	encoding string
	bom      bool
	saved    buffer.RevisionID
}

// New creates an empty, unnamed document.
func New(opts Options) (*Document, error) {
	return fromBytes("", nil, opts)
}

// Open reads the file at path. A missing file yields an empty document
// that will be created on Save.
func Open(path string, opts Options) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if errors.Is(err, fs.ErrNotExist) {
		opts.logger().Debug("new file %s", abs)
		return fromBytes(abs, nil, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", abs, err)
	}
	return fromBytes(abs, data, opts)
}

func fromBytes(path string, data []byte, opts Options) (*Document, error) {
	text, name, bom, err := decodeText(data, opts.Encoding)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	bufOpts := []buffer.Option{buffer.WithTabWidth(opts.TabWidth)}
	if le, ok := ParseLineEnding(opts.LineEnding); ok {
		bufOpts = append(bufOpts, buffer.WithLineEnding(le))
	} else {
		bufOpts = append(bufOpts, buffer.WithDetectedLineEnding(text))
	}
	if opts.ReadOnly {
		bufOpts = append(bufOpts, buffer.WithReadOnly())
	}

	buf, err := buffer.NewBufferFromString(text, bufOpts...)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	d := &Document{
		id:       uuid.New(),
		buf:      buf,
		path:     path,
		encoding: name,
		bom:      bom,
		saved:    buf.RevisionID(),
	}
	d.log = opts.logger().WithField("id", d.id.String())
	d.log.Debug("opened %q: %d code points, %d lines, %s, line ending %s",
		path, buf.Len(), buf.LineCount(), name, buf.LineEnding())
	return d, nil
}

// ID returns the document's unique identifier.
func (d *Document) ID() uuid.UUID {
	return d.id
}

// Buffer returns the document's text buffer.
func (d *Document) Buffer() *buffer.Buffer {
	return d.buf
}

// Path returns the absolute file path, or "" for an unnamed document.
func (d *Document) Path() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.path
}

// Encoding returns the canonical name of the file encoding.
func (d *Document) Encoding() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.encoding
}

// HasBOM reports whether the file is written with a byte order mark.
func (d *Document) HasBOM() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bom
}

// SetEncoding changes the encoding used by the next save.
func (d *Document) SetEncoding(label string) error {
	name, _, err := lookupEncoding(label)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.encoding = name
	return nil
}

// Modified reports whether the buffer changed since it was opened or last
// saved.
func (d *Document) Modified() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.RevisionID() != d.saved
}

// Encode returns the bytes Save would write, along with the revision
// they were taken from.
func (d *Document) Encode() ([]byte, buffer.RevisionID, error) {
	d.mu.Lock()
	name, bom := d.encoding, d.bom
	d.mu.Unlock()

	snap := d.buf.Snapshot()
	var text bytes.Buffer
	if _, err := snap.WriteTo(&text); err != nil {
		return nil, 0, err
	}
	out, err := encodeText(text.String(), name, bom)
	if err != nil {
		return nil, 0, fmt.Errorf("encode as %s: %w", name, err)
	}
	return out, snap.RevisionID(), nil
}

// Save writes the document to its path.
func (d *Document) Save() error {
	path := d.Path()
	if path == "" {
		return ErrNoPath
	}
	return d.write(path)
}

// SaveAs writes the document to path and makes path the document's file.
func (d *Document) SaveAs(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := d.write(abs); err != nil {
		return err
	}
	d.mu.Lock()
	d.path = abs
	d.mu.Unlock()
	return nil
}

func (d *Document) write(path string) error {
	if d.buf.IsReadOnly() {
		return ErrReadOnly
	}
	data, rev, err := d.Encode()
	if err != nil {
		return err
	}
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	d.mu.Lock()
	d.saved = rev
	d.mu.Unlock()
	d.log.Debug("saved %q: %d bytes", path, len(data))
	return nil
}

// writeFileAtomic writes data to a temporary file in the target directory
// and renames it over path. An existing file keeps its permissions.
func writeFileAtomic(path string, data []byte) error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
