// Command mcp exposes the query layer as an MCP tool server over
// streamable HTTP, sharing the same store file as cmd/indexserver rather
// than calling it over the network.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valkey-io/valkey-go"

	"github.com/diplomat-ls/diplomat/internal/checker"
	"github.com/diplomat-ls/diplomat/internal/config"
	"github.com/diplomat-ls/diplomat/internal/extractor"
	"github.com/diplomat-ls/diplomat/internal/filelist"
	"github.com/diplomat-ls/diplomat/internal/graphsync"
	"github.com/diplomat-ls/diplomat/internal/indexer"
	"github.com/diplomat-ls/diplomat/internal/indexstate"
	"github.com/diplomat-ls/diplomat/internal/mcptools"
	"github.com/diplomat-ls/diplomat/internal/query"
	"github.com/diplomat-ls/diplomat/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := store.Open(ctx, cfg.Store.Path)
	if err != nil {
		logger.Error("failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer s.Close()
	logger.Info("opened store", slog.String("path", cfg.Store.Path))

	var graphClient *graphsync.Client
	if cfg.Neo4j.Enabled {
		gc, err := graphsync.NewClient(cfg.Neo4j)
		if err != nil {
			logger.Warn("neo4j connection failed, list_descendants disabled", slog.String("error", err.Error()))
		} else if err := gc.Verify(ctx); err != nil {
			logger.Warn("neo4j unreachable, list_descendants disabled", slog.String("error", err.Error()))
		} else {
			graphClient = gc
			defer gc.Close(ctx)
			logger.Info("connected to neo4j")
		}
	}

	var vkClient valkey.Client
	if cfg.Valkey.Enabled {
		vc, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{cfg.Valkey.Addr}})
		if err != nil {
			logger.Warn("valkey connection failed, readiness mirror disabled", slog.String("error", err.Error()))
		} else {
			vkClient = vc
			defer vc.Close()
			logger.Info("connected to valkey")
		}
	}

	gate := indexstate.NewGate(vkClient, logger)

	extRunner := &extractor.Runner{
		InstallPath:   cfg.Extractor.VeribleInstallPath,
		WorkspaceRoot: cfg.Extractor.WorkspaceRoot,
		Log:           logger,
	}
	orch := indexer.NewOrchestrator(s, extRunner, nil, graphClient, logger)

	reindex := func(ctx context.Context) error {
		if cfg.Extractor.UsePrebuiltIndex {
			_, err := orch.IngestPrebuilt(ctx, cfg.Extractor.IndexFilePath)
			return err
		}
		files, err := filelist.Load(cfg.Extractor.FileListPath)
		if err != nil {
			return fmt.Errorf("mcp: load file list: %w", err)
		}
		_, err = orch.IngestFiles(ctx, files, os.TempDir())
		return err
	}

	layer := query.NewLayer(s, graphClient, logger)

	sdkServer := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "diplomat", Version: "1.0.0"}, nil)

	goToDefinition := mcptools.NewGoToDefinitionHandler(layer, gate, reindex)
	findReferences := mcptools.NewFindReferencesHandler(layer, gate, reindex)
	listChildren := mcptools.NewListChildrenHandler(layer, gate, reindex)
	listDescendants := mcptools.NewListDescendantsHandler(layer, gate, reindex)
	listAncestors := mcptools.NewListAncestorsHandler(layer, gate, reindex)
	completion := mcptools.NewCompletionHandler(layer, gate, reindex)
	prepareRename := mcptools.NewPrepareRenameHandler(layer, gate, reindex)
	rename := mcptools.NewRenameHandler(layer, gate, reindex)
	searchSymbols := mcptools.NewSearchSymbolsHandler(layer, gate, reindex)

	syntaxChecker := &checker.Runner{
		InstallPath: cfg.Extractor.VeribleInstallPath,
		Log:         logger,
	}
	diags := checker.NewDiagnosticStore()
	didSave := mcptools.NewDidSaveHandler(syntaxChecker, diags, gate)

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "go_to_definition",
		Description: "Resolve a (path, line, character) position to the declaration Location of the symbol referenced there.",
	}, mcptools.WrapHandler[mcptools.GoToDefinitionParams](goToDefinition))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "find_references",
		Description: "List every use-site Location of the symbol referenced at a (path, line, character) position, excluding its declaration.",
	}, mcptools.WrapHandler[mcptools.FindReferencesParams](findReferences))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "list_children",
		Description: "List the direct (non-transitive) children of a symbol by id.",
	}, mcptools.WrapHandler[mcptools.ListChildrenParams](listChildren))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "list_descendants",
		Description: "List every symbol transitively reachable as a child of a symbol by id, via the Neo4j mirror. Unavailable when Neo4j is not configured.",
	}, mcptools.WrapHandler[mcptools.ListDescendantsParams](listDescendants))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "list_ancestors",
		Description: "List every symbol transitively reachable as a parent of a symbol by id, via the Neo4j mirror. Unavailable when Neo4j is not configured.",
	}, mcptools.WrapHandler[mcptools.ListAncestorsParams](listAncestors))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "completion",
		Description: "List member-completion candidates for the identifier being typed at a (path, line, character) position, when it follows a '.'.",
	}, mcptools.WrapHandler[mcptools.CompletionParams](completion))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "prepare_rename",
		Description: "Return the declaration range of the symbol at a (path, line, character) position, for an editor to highlight before prompting for a new name.",
	}, mcptools.WrapHandler[mcptools.PrepareRenameParams](prepareRename))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "rename",
		Description: "Rename the symbol at a (path, line, character) position to new_name across every file it is declared or referenced in, and return a unified diff per file.",
	}, mcptools.WrapHandler[mcptools.RenameParams](rename))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "search_symbols",
		Description: "Look up symbols by exact name, returning their id and kind.",
	}, mcptools.WrapHandler[mcptools.SearchSymbolsParams](searchSymbols))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "did_save",
		Description: "Notify the index that a file was saved: runs the syntax checker and schedules a reindex unless the file set now has a syntax error.",
	}, mcptools.WrapHandler[mcptools.DidSaveParams](didSave))

	// Stateless mode: a process restart never leaves a stale session id
	// returning 404 to the caller, matching the one-shot request pattern a
	// tool-calling LLM uses.
	sdkHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return sdkServer },
		&sdkmcp.StreamableHTTPOptions{Stateless: true},
	)

	mux := http.NewServeMux()
	mux.Handle("/mcp", sdkHandler)

	httpServer := &http.Server{Addr: cfg.MCP.Addr, Handler: mux}

	go func() {
		logger.Info("MCP server listening", slog.String("addr", cfg.MCP.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("MCP HTTP server error", slog.String("error", err.Error()))
		}
	}()

	<-ctx.Done()
	logger.Info("MCP server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("MCP HTTP shutdown", slog.String("error", err.Error()))
	}
	logger.Info("MCP server stopped")
}
