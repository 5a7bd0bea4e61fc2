// Package piece provides a piece table: the text structure behind an editor
// buffer that is edited far more often than it is read back in full.
//
// A Table keeps two rune buffers. The original buffer holds the text the
// document was loaded with and is never modified. The add buffer holds every
// rune ever inserted, in insertion order, and only grows. The document itself
// is an ordered list of pieces, each naming a span of one of those buffers.
// Editing only rewrites the piece list; buffer text is never copied or
// removed.
//
// All offsets and lengths are counted in Unicode code points, never bytes.
//
// Each piece caches the local offsets of the newlines it covers. Splitting or
// trimming a piece partitions that cache with a binary search instead of
// rescanning text, so line queries stay cheap under heavy editing.
//
// Basic usage:
//
//	t, err := piece.FromText("hello\nworld")
//	if err != nil {
//	    return err
//	}
//	_ = t.Insert(5, ",")   // "hello,\nworld"
//	_ = t.Delete(0, 7)     // "world"
//	line, _ := t.Line(0)   // "world"
//	text := t.String()     // "world"
//
// Locating an offset is a linear walk over the piece list. That is fine for
// the piece counts produced by interactive editing; a balanced tree keyed by
// cumulative length can replace it without changing the offset contract.
//
// A Table is not safe for concurrent use. Wrap it (see the buffer package) to
// share it across goroutines.
package piece
