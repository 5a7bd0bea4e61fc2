// Package buffer provides a thread-safe text buffer built on top of the piece
// table. It is the interface the editing shell talks to: edits and viewport
// queries expressed in code point offsets.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex, one lock per buffer
//   - Edits and queries delegated to a piece.Table
//   - Coordinate conversion between offsets and line/column positions
//   - Terminal cell width of lines, grapheme aware (for viewport math)
//   - Read-only snapshots for concurrent access
//   - Line ending normalization
//   - Revision tracking for change management
//
// Basic usage:
//
//	buf, err := buffer.NewBufferFromString("Hello, World!")
//	if err != nil {
//	    return err
//	}
//
//	buf.Insert(7, "Beautiful ")  // "Hello, Beautiful World!"
//	buf.Delete(0, 7)             // "Beautiful World!"
//
//	snap := buf.Snapshot()
//	go func() {
//	    text := snap.Text()
//	    // Process text...
//	}()
//
// Offsets:
//
// Every Offset and every Point column counts Unicode code points. Converting
// a terminal column into an offset is the caller's job; LineWidth and
// GraphemeCount give the numbers needed to do it.
//
// Line endings:
//
// Text is stored with "\n" line endings only. Carriage returns arriving in
// loaded or inserted text are normalized away, and LineEnding records the
// style to restore when the text is written back out.
package buffer
