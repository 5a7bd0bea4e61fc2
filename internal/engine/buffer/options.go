package buffer

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithLineEnding sets the line ending restored when the buffer is written out.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
	}
}

// WithTabWidth sets the buffer's tab width.
func WithTabWidth(width int) Option {
	return func(b *Buffer) {
		if width > 0 {
			b.tabWidth = width
		}
	}
}

// WithReadOnly creates a read-only buffer.
// Write operations return ErrReadOnly.
func WithReadOnly() Option {
	return func(b *Buffer) {
		b.readOnly = true
	}
}

// DetectLineEnding returns a LineEnding based on the most common line ending in the text.
// Returns LineEndingLF if no line endings are found.
func DetectLineEnding(text string) LineEnding {
	var lfCount, crlfCount, crCount int

	i := 0
	for i < len(text) {
		if i+1 < len(text) && text[i] == '\r' && text[i+1] == '\n' {
			crlfCount++
			i += 2
		} else if text[i] == '\r' {
			crCount++
			i++
		} else if text[i] == '\n' {
			lfCount++
			i++
		} else {
			i++
		}
	}

	if crlfCount > 0 && crlfCount >= lfCount && crlfCount >= crCount {
		return LineEndingCRLF
	}
	if crCount > 0 && crCount >= lfCount && crCount >= crlfCount {
		return LineEndingCR
	}
	return LineEndingLF
}

// WithDetectedLineEnding sets the buffer's line ending style based on content.
func WithDetectedLineEnding(text string) Option {
	return WithLineEnding(DetectLineEnding(text))
}
