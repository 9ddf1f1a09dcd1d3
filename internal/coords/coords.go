// Package coords translates between byte offsets into file content and
// 0-based (line, char) editor positions. It is pure and stateless; callers
// that need to avoid re-scanning the same file content own their own cache.
package coords

import "strings"

// PositionFromOffset returns the 0-based (line, char) position of offset
// within content. ok is false if offset is out of [0, len(content)].
func PositionFromOffset(content string, offset int) (line, char int, ok bool) {
	if offset < 0 || offset > len(content) {
		return 0, 0, false
	}
	prefix := content[:offset]
	line = strings.Count(prefix, "\n")
	if idx := strings.LastIndexByte(prefix, '\n'); idx >= 0 {
		char = offset - idx - 1
	} else {
		char = offset
	}
	return line, char, true
}

// OffsetFromPosition returns the byte offset of the 0-based (line, char)
// position within content. ok is false if line exceeds the number of lines
// available, or char runs past the end of that line's content.
func OffsetFromPosition(content string, line, char int) (offset int, ok bool) {
	if line < 0 || char < 0 {
		return -1, false
	}
	lineStart := 0
	for l := 0; l < line; l++ {
		idx := strings.IndexByte(content[lineStart:], '\n')
		if idx < 0 {
			return -1, false
		}
		lineStart += idx + 1
	}
	lineEnd := len(content)
	if idx := strings.IndexByte(content[lineStart:], '\n'); idx >= 0 {
		lineEnd = lineStart + idx
	}
	offset = lineStart + char
	if offset > lineEnd {
		return -1, false
	}
	return offset, true
}

// LineCount returns the number of lines in content, counting a trailing
// unterminated line as one line.
func LineCount(content string) int {
	if content == "" {
		return 1
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}

// LineLength returns the number of characters on the given 0-based line,
// excluding the line terminator. ok is false if line does not exist.
func LineLength(content string, line int) (length int, ok bool) {
	lineStart := 0
	for l := 0; l < line; l++ {
		idx := strings.IndexByte(content[lineStart:], '\n')
		if idx < 0 {
			return 0, false
		}
		lineStart += idx + 1
	}
	if lineStart > len(content) {
		return 0, false
	}
	rest := content[lineStart:]
	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		return idx, true
	}
	return len(rest), true
}
