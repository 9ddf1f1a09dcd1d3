// Command indexserver runs the debug/introspection HTTP surface
// (internal/httpapi) over a single index store, wiring the optional
// enrichment services (Neo4j descendant mirror, Valkey cross-process
// readiness mirror, MinIO artifact archival) with the "warn and disable on
// failure" pattern.
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

	"github.com/valkey-io/valkey-go"

	"github.com/diplomat-ls/diplomat/internal/artifacts"
	"github.com/diplomat-ls/diplomat/internal/checker"
	"github.com/diplomat-ls/diplomat/internal/config"
	"github.com/diplomat-ls/diplomat/internal/extractor"
	"github.com/diplomat-ls/diplomat/internal/filelist"
	"github.com/diplomat-ls/diplomat/internal/graphsync"
	"github.com/diplomat-ls/diplomat/internal/httpapi"
	"github.com/diplomat-ls/diplomat/internal/indexer"
	"github.com/diplomat-ls/diplomat/internal/indexstate"
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

	ctx := context.Background()

	s, err := store.Open(ctx, cfg.Store.Path)
	if err != nil {
		logger.Error("failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer s.Close()
	logger.Info("opened store", slog.String("path", cfg.Store.Path))

	// Neo4j (optional) — best-effort descendant mirror.
	var graphClient *graphsync.Client
	if cfg.Neo4j.Enabled {
		gc, err := graphsync.NewClient(cfg.Neo4j)
		if err != nil {
			logger.Warn("neo4j connection failed, descendant queries disabled", slog.String("error", err.Error()))
		} else if err := gc.Verify(ctx); err != nil {
			logger.Warn("neo4j unreachable, descendant queries disabled", slog.String("error", err.Error()))
		} else {
			if err := gc.EnsureConstraints(ctx); err != nil {
				logger.Warn("neo4j constraint setup failed", slog.String("error", err.Error()))
			}
			graphClient = gc
			defer gc.Close(ctx)
			logger.Info("connected to neo4j")
		}
	}

	// MinIO (optional) — artifact archival.
	var artifactStore *artifacts.Store
	if cfg.MinIO.Enabled {
		as, err := artifacts.NewStore(cfg.MinIO)
		if err != nil {
			logger.Warn("minio connection failed, artifact archival disabled", slog.String("error", err.Error()))
		} else if err := as.EnsureBucket(ctx); err != nil {
			logger.Warn("minio bucket setup failed, artifact archival disabled", slog.String("error", err.Error()))
		} else {
			artifactStore = as
			logger.Info("connected to minio")
		}
	}

	// Valkey (optional) — cross-process readiness mirror.
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
	orch := indexer.NewOrchestrator(s, extRunner, artifactStore, graphClient, logger)

	reindex := func(ctx context.Context) error {
		if cfg.Extractor.UsePrebuiltIndex {
			_, err := orch.IngestPrebuilt(ctx, cfg.Extractor.IndexFilePath)
			return err
		}
		files, err := filelist.Load(cfg.Extractor.FileListPath)
		if err != nil {
			return fmt.Errorf("indexserver: load file list: %w", err)
		}
		_, err = orch.IngestFiles(ctx, files, os.TempDir())
		return err
	}

	syntaxChecker := &checker.Runner{
		InstallPath: cfg.Extractor.VeribleInstallPath,
		Log:         logger,
	}
	diags := checker.NewDiagnosticStore()

	layer := query.NewLayer(s, graphClient, logger)
	router := httpapi.NewRouter(logger, s, layer, gate, reindex, syntaxChecker, diags, artifactStore)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting indexserver", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-runCtx.Done()
	logger.Info("shutting down indexserver")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
	}
	logger.Info("indexserver stopped")
}
