// Package script runs Lua edit scripts against a buffer.
//
// Scripts see a global table named doc:
//
//	doc.insert(offset, text)        -> end offset
//	doc.delete(offset, count)
//	doc.replace(offset, count, text) -> end offset
//	doc.text([start, end])          -> string
//	doc.line(index)                 -> string without its "\n"
//	doc.line_count()                -> number
//	doc.len()                       -> number of code points
//	doc.width(index)                -> display cells of a line
//	doc.position(offset)            -> line, column
//	doc.offset(line, column)        -> offset
//
// Offsets, counts, lines and columns are zero-based and measured in
// Unicode code points. print writes to the runner's logger.
//
// Only the base, table, string and math libraries are available. Files,
// processes and dynamic code loading are not.
package script
