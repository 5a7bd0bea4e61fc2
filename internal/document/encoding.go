package document

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/dshills/vix/internal/engine/piece"
)

// UTF8 is the canonical name of the default encoding.
const UTF8 = "utf-8"

type byteOrderMark struct {
	prefix []byte
	name   string
	enc    encoding.Encoding
}

// Longest prefixes first.
var byteOrderMarks = []byteOrderMark{
	{[]byte{0xEF, 0xBB, 0xBF}, UTF8, unicode.UTF8},
	{[]byte{0xFF, 0xFE}, "utf-16le", unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)},
	{[]byte{0xFE, 0xFF}, "utf-16be", unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)},
}

// lookupEncoding resolves a WHATWG label to its canonical name and codec.
// An empty label means UTF-8.
func lookupEncoding(label string) (string, encoding.Encoding, error) {
	if label == "" {
		label = UTF8
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return "", nil, fmt.Errorf("%q: %w", label, ErrUnknownEncoding)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		name = strings.ToLower(label)
	}
	return name, enc, nil
}

// sniffBOM reports the byte order mark data starts with, if any.
func sniffBOM(data []byte) (byteOrderMark, bool) {
	for _, bom := range byteOrderMarks {
		if bytes.HasPrefix(data, bom.prefix) {
			return bom, true
		}
	}
	return byteOrderMark{}, false
}

// decodeText converts file bytes to a UTF-8 string. A byte order mark
// overrides label. UTF-8 input is returned unchanged so that invalid
// sequences are reported instead of being replaced; offsets in those
// reports count from the start of data.
func decodeText(data []byte, label string) (text, name string, bom bool, err error) {
	if b, ok := sniffBOM(data); ok {
		data = data[len(b.prefix):]
		if b.name == UTF8 {
			text := string(data)
			if err := piece.Validate(text); err != nil {
				return "", "", false, shiftInvalidUTF8(err, len(b.prefix))
			}
			return text, UTF8, true, nil
		}
		out, err := b.enc.NewDecoder().Bytes(data)
		if err != nil {
			return "", "", false, err
		}
		return string(out), b.name, true, nil
	}

	name, enc, err := lookupEncoding(label)
	if err != nil {
		return "", "", false, err
	}
	if name == UTF8 {
		return string(data), UTF8, false, nil
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", false, err
	}
	return string(out), name, false, nil
}

// shiftInvalidUTF8 rebases an *piece.InvalidUTF8Error offset by the
// number of bytes stripped from the front of the file.
func shiftInvalidUTF8(err error, by int) error {
	var ue *piece.InvalidUTF8Error
	if errors.As(err, &ue) {
		return &piece.InvalidUTF8Error{Offset: ue.Offset + by}
	}
	return err
}

// encodeText converts UTF-8 text to the named encoding, prefixing a byte
// order mark when bom is set.
func encodeText(text, name string, bom bool) ([]byte, error) {
	if bom {
		text = "\uFEFF" + text
	}
	if name == UTF8 {
		return []byte(text), nil
	}
	_, enc, err := lookupEncoding(name)
	if err != nil {
		return nil, err
	}
	return enc.NewEncoder().Bytes([]byte(text))
}
