package query

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"

	"github.com/diplomat-ls/diplomat/internal/coords"
	"github.com/diplomat-ls/diplomat/internal/store"
	"github.com/diplomat-ls/diplomat/pkg/apierr"
)

// identifierPattern accepts a plain SystemVerilog-style simple identifier:
// a letter or underscore, then any run of letters/digits/underscore/$.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

// PrepareRename resolves the symbol at (path, pos) and returns the range of
// its declaration anchor, for the editor to highlight before prompting for
// a new name. Returns apierr.RenameRejected if the position resolves to no
// symbol, or to one without a declaration anchor.
func (l *Layer) PrepareRename(ctx context.Context, path string, pos Position) (Range, error) {
	sym, err := l.resolveSymbolAt(ctx, path, pos)
	if err != nil {
		var apiErr *apierr.Error
		if errors.As(err, &apiErr) &&
			(apiErr.Code() == apierr.CodeNoAnchorAtPosition || apiErr.Code() == apierr.CodeNoDefinition) {
			return Range{}, apierr.RenameRejected(apiErr.Message())
		}
		return Range{}, err
	}
	if sym.Symbol.DeclarationAnchor == nil {
		return Range{}, apierr.RenameRejected("symbol has no declaration anchor")
	}
	return Range{
		Start: Position{Line: sym.Anchor.StartLine, Character: sym.Anchor.StartChar},
		End:   Position{Line: sym.Anchor.EndLine, Character: sym.Anchor.EndChar},
	}, nil
}

// Rename resolves the symbol at (path, pos), rejects newName if it is not a
// valid identifier or is unchanged, then computes a per-file edit plan
// covering the declaration plus every reference anchor and applies it: the
// symbol's name is updated, each touched file's content is rewritten, and
// every touched anchor's columns are shifted in place so that later queries
// against the same positions keep resolving correctly (spec.md §4.5's
// per-line ordinal shift: anchor i on a line moves by i*Δ at its start and
// (i+1)*Δ at its end, Δ = len(newName) - len(oldName)).
func (l *Layer) Rename(ctx context.Context, path string, pos Position, newName string) (RenamePlan, error) {
	if !identifierPattern.MatchString(newName) {
		return RenamePlan{}, apierr.InvalidIdentifier(newName)
	}

	sym, err := l.resolveSymbolAt(ctx, path, pos)
	if err != nil {
		return RenamePlan{}, err
	}
	oldName := sym.Symbol.Name
	if oldName == newName {
		return RenamePlan{}, apierr.RenameRejected("new name is identical to the current name")
	}

	refs, err := l.Store.GetSymbolReferences(ctx, sym.Symbol.ID)
	if err != nil {
		return RenamePlan{}, fmt.Errorf("query: rename: %w", err)
	}
	touched := append([]store.Anchor{sym.Anchor}, refs...)

	byFile := make(map[int64][]store.Anchor)
	for _, a := range touched {
		byFile[a.FileID] = append(byFile[a.FileID], a)
	}

	delta := len(newName) - len(oldName)
	plan := RenamePlan{
		Edits:   make(map[string][]TextEdit),
		Diffs:   make(map[string]string),
		OldName: oldName,
		NewName: newName,
	}

	var shiftedAnchors []store.Anchor
	for fileID, anchors := range byFile {
		file, err := l.Store.GetFileByID(ctx, fileID)
		if err != nil {
			return RenamePlan{}, fmt.Errorf("query: rename: %w", err)
		}

		// Sort ascending by position so the ordinal assigned per start_line
		// below does not depend on fetch order.
		sort.Slice(anchors, func(i, j int) bool { return anchors[i].Less(anchors[j]) })

		edits := make([]TextEdit, 0, len(anchors))
		lineOrdinal := make(map[int]int)
		for _, a := range anchors {
			edits = append(edits, TextEdit{
				Range: Range{
					Start: Position{Line: a.StartLine, Character: a.StartChar},
					End:   Position{Line: a.EndLine, Character: a.EndChar},
				},
				NewText: newName,
			})

			i := lineOrdinal[a.StartLine]
			lineOrdinal[a.StartLine] = i + 1

			shifted := a
			shifted.StartChar = a.StartChar + i*delta
			shifted.EndChar = a.EndChar + (i+1)*delta
			shiftedAnchors = append(shiftedAnchors, shifted)
		}
		plan.Edits[file.Path] = edits

		newContent := applyRenameEdits(file.Content, anchors, newName)
		plan.Diffs[file.Path] = unifiedRenameDiff(file.Path, file.Content, newContent)

		if err := l.Store.UpdateFileContent(ctx, file.Path, newContent); err != nil {
			return RenamePlan{}, fmt.Errorf("query: rename: update file content %s: %w", file.Path, err)
		}
	}

	if err := l.Store.BulkUpdateAnchors(ctx, shiftedAnchors); err != nil {
		return RenamePlan{}, fmt.Errorf("query: rename: shift anchors: %w", err)
	}
	if err := l.Store.UpdateSymbolName(ctx, sym.Symbol.ID, newName); err != nil {
		return RenamePlan{}, fmt.Errorf("query: rename: update symbol name: %w", err)
	}

	return plan, nil
}

// applyRenameEdits rewrites content, replacing every anchor's range with
// newName. anchors must be sorted ascending by position; edits are applied
// from the last anchor backward so earlier anchors' offsets stay valid in
// the partially-rewritten string.
func applyRenameEdits(content string, anchors []store.Anchor, newName string) string {
	result := content
	for i := len(anchors) - 1; i >= 0; i-- {
		a := anchors[i]
		start, ok1 := coords.OffsetFromPosition(result, a.StartLine, a.StartChar)
		end, ok2 := coords.OffsetFromPosition(result, a.EndLine, a.EndChar)
		if !ok1 || !ok2 || start > end || end > len(result) {
			continue
		}
		result = result[:start] + newName + result[end:]
	}
	return result
}

func unifiedRenameDiff(path, oldContent, newContent string) string {
	u := difflib.UnifiedDiff{
		A:        splitKeepingNewlines(oldContent),
		B:        splitKeepingNewlines(newContent),
		FromFile: path,
		ToFile:   path,
		Context:  3,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return ""
	}
	return s
}

func splitKeepingNewlines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.SplitAfter(s, "\n")
}
