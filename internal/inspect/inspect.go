// Package inspect renders the internal layout of a piece table as JSON.
//
// The dump has the form
//
//	{
//	  "length": 11,
//	  "line_count": 2,
//	  "pieces": [
//	    {"origin": "original", "begin": 0, "length": 0, "line_breaks": []},
//	    {"origin": "original", "begin": 0, "length": 11, "line_breaks": [5]}
//	  ]
//	}
//
// and can be filtered with gjson path syntax, e.g. "pieces.#.length".
package inspect

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/vix/internal/engine/piece"
)

// ErrNoMatch is returned by Query when the path selects nothing.
var ErrNoMatch = errors.New("query matched nothing")

// Source is anything exposing a piece layout: *piece.Table,
// *buffer.Buffer and *buffer.Snapshot all qualify.
type Source interface {
	Pieces() []piece.Piece
	Len() int
	LineCount() int
}

// Dump returns the compact JSON description of src.
func Dump(src Source) ([]byte, error) {
	doc := []byte(`{}`)
	var err error

	if doc, err = sjson.SetBytes(doc, "length", src.Len()); err != nil {
		return nil, err
	}
	if doc, err = sjson.SetBytes(doc, "line_count", src.LineCount()); err != nil {
		return nil, err
	}
	if doc, err = sjson.SetRawBytes(doc, "pieces", []byte(`[]`)); err != nil {
		return nil, err
	}

	for i, p := range src.Pieces() {
		prefix := "pieces." + strconv.Itoa(i) + "."
		if doc, err = sjson.SetBytes(doc, prefix+"origin", p.Origin.String()); err != nil {
			return nil, err
		}
		if doc, err = sjson.SetBytes(doc, prefix+"begin", p.Begin); err != nil {
			return nil, err
		}
		if doc, err = sjson.SetBytes(doc, prefix+"length", p.Len); err != nil {
			return nil, err
		}
		breaks := p.LineBreaks()
		if breaks == nil {
			breaks = []int{}
		}
		if doc, err = sjson.SetBytes(doc, prefix+"line_breaks", breaks); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// DumpIndent returns Dump's output formatted for reading.
func DumpIndent(src Source) ([]byte, error) {
	doc, err := Dump(src)
	if err != nil {
		return nil, err
	}
	return pretty.Pretty(doc), nil
}

// Query applies a gjson path to a dump.
func Query(doc []byte, path string) (gjson.Result, error) {
	if !gjson.ValidBytes(doc) {
		return gjson.Result{}, errors.New("invalid JSON document")
	}
	res := gjson.GetBytes(doc, path)
	if !res.Exists() {
		return res, fmt.Errorf("%q: %w", path, ErrNoMatch)
	}
	return res, nil
}
