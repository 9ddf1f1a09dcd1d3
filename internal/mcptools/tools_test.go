package mcptools

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/diplomat-ls/diplomat/internal/checker"
	"github.com/diplomat-ls/diplomat/internal/indexstate"
	"github.com/diplomat-ls/diplomat/internal/query"
	"github.com/diplomat-ls/diplomat/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), "")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func noopReindex(context.Context) error { return nil }

// seedDeclarationAndUses mirrors internal/query's fixture of the same name:
// "module m; wire a; assign a = a; endmodule", declaration of a at
// [0,15]..[0,16], uses at [0,25]..[0,26] and [0,29]..[0,30].
func seedDeclarationAndUses(t *testing.T, s *store.Store) int64 {
	t.Helper()
	ctx := context.Background()

	fileID, err := s.AddFile(ctx, "m.sv", "module m; wire a; assign a = a; endmodule")
	require.NoError(t, err)

	declAnchorID, err := s.AddAnchor(ctx, store.Anchor{FileID: fileID, StartLine: 0, StartChar: 15, EndLine: 0, EndChar: 16})
	require.NoError(t, err)
	use1ID, err := s.AddAnchor(ctx, store.Anchor{FileID: fileID, StartLine: 0, StartChar: 25, EndLine: 0, EndChar: 26})
	require.NoError(t, err)
	use2ID, err := s.AddAnchor(ctx, store.Anchor{FileID: fileID, StartLine: 0, StartChar: 29, EndLine: 0, EndChar: 30})
	require.NoError(t, err)

	symbolID, err := s.AddSymbol(ctx, "a", "wire", &declAnchorID)
	require.NoError(t, err)

	_, err = s.AddRef(ctx, use1ID, symbolID)
	require.NoError(t, err)
	_, err = s.AddRef(ctx, use2ID, symbolID)
	require.NoError(t, err)

	return symbolID
}

func TestGoToDefinitionHandler(t *testing.T) {
	s := newTestStore(t)
	seedDeclarationAndUses(t, s)
	layer := query.NewLayer(s, nil, testLogger())
	gate := indexstate.NewGate(nil, testLogger())

	h := NewGoToDefinitionHandler(layer, gate, noopReindex)
	out, err := h.Handle(context.Background(), GoToDefinitionParams{Path: "m.sv", Line: 0, Character: 25})
	require.NoError(t, err)
	require.Equal(t, "m.sv:0:15-0:16", out)
}

func TestGoToDefinitionHandler_MissingPath(t *testing.T) {
	s := newTestStore(t)
	layer := query.NewLayer(s, nil, testLogger())
	gate := indexstate.NewGate(nil, testLogger())

	h := NewGoToDefinitionHandler(layer, gate, noopReindex)
	_, err := h.Handle(context.Background(), GoToDefinitionParams{})
	require.Error(t, err)
}

func TestFindReferencesHandler(t *testing.T) {
	s := newTestStore(t)
	seedDeclarationAndUses(t, s)
	layer := query.NewLayer(s, nil, testLogger())
	gate := indexstate.NewGate(nil, testLogger())

	h := NewFindReferencesHandler(layer, gate, noopReindex)
	out, err := h.Handle(context.Background(), FindReferencesParams{Path: "m.sv", Line: 0, Character: 15})
	require.NoError(t, err)
	require.Contains(t, out, "2 reference(s)")
}

func TestListChildrenHandler(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	fileID, err := s.AddFile(ctx, "s.sv", "typedef struct { logic x; } s_t;")
	require.NoError(t, err)
	anchorID, err := s.AddAnchor(ctx, store.Anchor{FileID: fileID, StartLine: 0, StartChar: 0, EndLine: 0, EndChar: 1})
	require.NoError(t, err)
	parentID, err := s.AddSymbol(ctx, "s_t", "record", &anchorID)
	require.NoError(t, err)
	childID, err := s.AddSymbol(ctx, "x", "variable", &anchorID)
	require.NoError(t, err)
	require.NoError(t, s.AddSymbolRelationship(ctx, parentID, childID))

	layer := query.NewLayer(s, nil, testLogger())
	gate := indexstate.NewGate(nil, testLogger())
	h := NewListChildrenHandler(layer, gate, noopReindex)

	out, err := h.Handle(ctx, ListChildrenParams{SymbolID: parentID})
	require.NoError(t, err)
	require.Contains(t, out, "1 child(ren)")
}

func TestListDescendantsHandler_NoGraphReturnsError(t *testing.T) {
	s := newTestStore(t)
	layer := query.NewLayer(s, nil, testLogger())
	gate := indexstate.NewGate(nil, testLogger())
	h := NewListDescendantsHandler(layer, gate, noopReindex)

	_, err := h.Handle(context.Background(), ListDescendantsParams{SymbolID: 1})
	require.Error(t, err)
}

func TestListAncestorsHandler_NoGraphReturnsError(t *testing.T) {
	s := newTestStore(t)
	layer := query.NewLayer(s, nil, testLogger())
	gate := indexstate.NewGate(nil, testLogger())
	h := NewListAncestorsHandler(layer, gate, noopReindex)

	_, err := h.Handle(context.Background(), ListAncestorsParams{SymbolID: 1})
	require.Error(t, err)
}

func TestCompletionHandler(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	fileID, err := s.AddFile(ctx, "s.sv", "v.x")
	require.NoError(t, err)
	anchorID, err := s.AddAnchor(ctx, store.Anchor{FileID: fileID, StartLine: 0, StartChar: 0, EndLine: 0, EndChar: 1})
	require.NoError(t, err)
	parentID, err := s.AddSymbol(ctx, "v", "variable", &anchorID)
	require.NoError(t, err)
	childID, err := s.AddSymbol(ctx, "x", "variable", &anchorID)
	require.NoError(t, err)
	require.NoError(t, s.AddSymbolRelationship(ctx, parentID, childID))

	layer := query.NewLayer(s, nil, testLogger())
	gate := indexstate.NewGate(nil, testLogger())
	h := NewCompletionHandler(layer, gate, noopReindex)

	out, err := h.Handle(ctx, CompletionParams{Path: "s.sv", Line: 0, Character: 3})
	require.NoError(t, err)
	require.Equal(t, "x", out)
}

func TestPrepareRenameAndRenameHandlers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seedDeclarationAndUses(t, s)
	layer := query.NewLayer(s, nil, testLogger())
	gate := indexstate.NewGate(nil, testLogger())

	prep := NewPrepareRenameHandler(layer, gate, noopReindex)
	out, err := prep.Handle(ctx, PrepareRenameParams{Path: "m.sv", Line: 0, Character: 15})
	require.NoError(t, err)
	require.Equal(t, "0:15-0:16", out)

	ren := NewRenameHandler(layer, gate, noopReindex)
	out, err = ren.Handle(ctx, RenameParams{Path: "m.sv", Line: 0, Character: 15, NewName: "foo"})
	require.NoError(t, err)
	require.Contains(t, out, `Renamed "a" to "foo"`)

	file, err := s.GetFileByPath(ctx, "m.sv")
	require.NoError(t, err)
	require.Equal(t, "module m; wire foo; assign foo = foo; endmodule", file.Content)
}

func fakeSyntaxChecker(t *testing.T, installDir, body string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake checker script is a POSIX shell script")
	}
	require.NoError(t, os.WriteFile(filepath.Join(installDir, "verible-verilog-syntax"), []byte(body), fs.FileMode(0o755)))
}

func TestDidSaveHandler_CleanFileSchedulesReindex(t *testing.T) {
	installDir := t.TempDir()
	fakeSyntaxChecker(t, installDir, "#!/bin/sh\nexit 0\n")

	runner := &checker.Runner{InstallPath: installDir, Log: testLogger()}
	diags := checker.NewDiagnosticStore()
	gate := indexstate.NewGate(nil, testLogger())
	require.NoError(t, gate.EnsureReady(context.Background(), noopReindex))

	h := NewDidSaveHandler(runner, diags, gate)
	out, err := h.Handle(context.Background(), DidSaveParams{Path: "/work/a.sv"})
	require.NoError(t, err)
	require.Contains(t, out, "reindex scheduled")
	require.False(t, gate.IsReady())
}

func TestDidSaveHandler_SyntaxErrorSuppressesReindex(t *testing.T) {
	installDir := t.TempDir()
	fakeSyntaxChecker(t, installDir, `#!/bin/sh
cat <<'JSON'
{"/work/a.sv":{"errors":[{"line":1,"column":1}]}}
JSON
exit 1
`)

	runner := &checker.Runner{InstallPath: installDir, Log: testLogger()}
	diags := checker.NewDiagnosticStore()
	gate := indexstate.NewGate(nil, testLogger())
	require.NoError(t, gate.EnsureReady(context.Background(), noopReindex))

	h := NewDidSaveHandler(runner, diags, gate)
	out, err := h.Handle(context.Background(), DidSaveParams{Path: "/work/a.sv"})
	require.NoError(t, err)
	require.Contains(t, out, "reindex suppressed")
	require.True(t, gate.IsReady())
}

func TestSearchSymbolsHandler(t *testing.T) {
	s := newTestStore(t)
	seedDeclarationAndUses(t, s)
	layer := query.NewLayer(s, nil, testLogger())
	gate := indexstate.NewGate(nil, testLogger())

	h := NewSearchSymbolsHandler(layer, gate, noopReindex)
	out, err := h.Handle(context.Background(), SearchSymbolsParams{Name: "a"})
	require.NoError(t, err)
	require.Contains(t, out, "1 symbol(s) named")
}
