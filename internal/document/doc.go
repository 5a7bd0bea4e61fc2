// Package document ties a buffer to a file on disk.
//
// A Document owns a buffer.Buffer and remembers where its text came from:
// the path, the character encoding, whether the file started with a byte
// order mark, and the revision that was last written. Text is always held
// as UTF-8 with "\n" line breaks; the encoding and line ending are
// restored when the document is saved.
//
// A Registry keeps the set of open documents so that opening the same
// path twice yields the same Document.
package document
