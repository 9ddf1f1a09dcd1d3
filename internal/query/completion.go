package query

import (
	"context"
	"fmt"

	"github.com/diplomat-ls/diplomat/internal/coords"
)

// Completion implements spec.md §4.5's member-completion rule: walk back
// from the cursor over word characters to find the current word, then one
// more character; if that character is '.', walk back the same way over the
// preceding identifier to find the parent, look up its symbols by name,
// union their direct children, and filter to those whose name has the
// current word as a prefix. Any other preceding character (including none,
// at the start of the line) returns an empty result — completion here never
// falls back to free-standing identifier suggestions, since the core does
// not parse SystemVerilog and so has no notion of "identifiers in scope"
// outside of structural children already observed as facts.
func (l *Layer) Completion(ctx context.Context, path string, pos Position) ([]string, error) {
	file, err := l.Store.GetFileByPath(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("query: completion: %w", err)
	}

	line, ok := lineText(file.Content, pos.Line)
	if !ok {
		return nil, nil
	}
	cursor := pos.Character
	if cursor > len(line) {
		cursor = len(line)
	}

	currentWord, wordStart := wordBeforeCursor(line, cursor)
	if wordStart == 0 || line[wordStart-1] != '.' {
		return nil, nil
	}

	parentWord, _ := wordBeforeCursor(line, wordStart-1)
	if parentWord == "" {
		return nil, nil
	}

	parents, err := l.Store.GetSymbolsByName(ctx, parentWord)
	if err != nil {
		return nil, fmt.Errorf("query: completion: %w", err)
	}

	seen := make(map[string]bool)
	var out []string
	for _, parent := range parents {
		children, err := l.Store.GetSymbolChildren(ctx, parent.Symbol.ID)
		if err != nil {
			return nil, fmt.Errorf("query: completion: %w", err)
		}
		for _, child := range children {
			name := child.Symbol.Name
			if seen[name] || !hasPrefix(name, currentWord) {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	return out, nil
}

// lineText extracts the 0-based line's text (excluding its terminator) from
// content.
func lineText(content string, line int) (string, bool) {
	length, ok := coords.LineLength(content, line)
	if !ok {
		return "", false
	}
	start, ok := coords.OffsetFromPosition(content, line, 0)
	if !ok {
		return "", false
	}
	return content[start : start+length], true
}

// wordBeforeCursor scans backward from cursor over identifier characters
// and returns the word found plus its starting column.
func wordBeforeCursor(line string, cursor int) (word string, start int) {
	if cursor > len(line) {
		cursor = len(line)
	}
	start = cursor
	for start > 0 && isIdentChar(line[start-1]) {
		start--
	}
	return line[start:cursor], start
}

func isIdentChar(b byte) bool {
	return b == '_' || b == '$' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

func hasPrefix(name, prefix string) bool {
	if len(prefix) > len(name) {
		return false
	}
	return name[:len(prefix)] == prefix
}
