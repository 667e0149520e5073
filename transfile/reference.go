package transfile

import (
	"strconv"
	"strings"
)

// parseLineNumber parses a native line notation. Line ranges like "7,8"
// keep only the first number; unparsable text yields 0.
func parseLineNumber(text string) int {
	text = strings.TrimSpace(text)
	if comma := strings.IndexAny(text, ",-"); comma >= 0 {
		text = text[:comma]
	}
	line, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0
	}
	return line
}

// parseSourceReference parses a "path/file.ts:7" style reference as used by
// XMB source elements and XLIFF 2.0 location notes.
func parseSourceReference(text string) SourceReference {
	text = strings.TrimSpace(text)
	colon := strings.LastIndex(text, ":")
	if colon < 0 {
		return SourceReference{SourceFile: text}
	}
	return SourceReference{
		SourceFile: text[:colon],
		LineNumber: parseLineNumber(text[colon+1:]),
	}
}

// formatSourceReference renders a reference in "path/file.ts:7" notation.
func formatSourceReference(ref SourceReference) string {
	return ref.SourceFile + ":" + strconv.Itoa(ref.LineNumber)
}
