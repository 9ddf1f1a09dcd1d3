// Package indexer drives a decoded Kythe fact stream into the index store.
// It owns the signature→store-id cache that lets every node be resolved by
// forward reference alone, and the single most-recently-used file content
// cache used to translate anchor offsets into (line, char) pairs.
package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/diplomat-ls/diplomat/internal/artifacts"
	"github.com/diplomat-ls/diplomat/internal/coords"
	"github.com/diplomat-ls/diplomat/internal/extractor"
	"github.com/diplomat-ls/diplomat/internal/graphsync"
	"github.com/diplomat-ls/diplomat/internal/kythe"
	"github.com/diplomat-ls/diplomat/internal/store"
	"github.com/diplomat-ls/diplomat/pkg/apierr"
)

// Orchestrator ingests one Kythe fact stream at a time into Store. It is not
// safe for concurrent Ingest calls; callers serialize reindex through
// internal/indexstate.
type Orchestrator struct {
	Store     *store.Store
	Extractor *extractor.Runner
	Artifacts *artifacts.Store  // nil disables artifact archival
	Graph     *graphsync.Client // nil disables the Neo4j descendant mirror
	Log       *slog.Logger

	pathToFileID map[string]int64
	anchorCache  map[string]int64
	symbolCache  map[string]int64
	currentFile  *cachedFile
}

type cachedFile struct {
	id      int64
	content string
}

func NewOrchestrator(s *store.Store, ex *extractor.Runner, ar *artifacts.Store, graph *graphsync.Client, log *slog.Logger) *Orchestrator {
	return &Orchestrator{Store: s, Extractor: ex, Artifacts: ar, Graph: graph, Log: log}
}

// Result summarizes one completed ingest run.
type Result struct {
	RunID          uuid.UUID
	FilesIndexed   int
	AnchorsIndexed int
	SymbolsIndexed int
	RefsIndexed    int
}

func (o *Orchestrator) resetCaches() {
	o.pathToFileID = make(map[string]int64)
	o.anchorCache = make(map[string]int64)
	o.symbolCache = make(map[string]int64)
	o.currentFile = nil
}

// IngestFiles runs the extractor over files and ingests its output. workDir
// is where the extractor's JSON artifact is written before being consumed;
// it is not removed by this call (the caller may want to inspect it, and
// ArchiveBytes has already been attempted against it on success).
func (o *Orchestrator) IngestFiles(ctx context.Context, files []string, workDir string) (Result, error) {
	if len(files) == 0 {
		return Result{}, apierr.NoSourceFiles()
	}

	runID := uuid.New()
	log := o.Log.With(slog.String("run_id", runID.String()))

	outputPath := filepath.Join(workDir, "kythe-"+runID.String()+".json")
	log.Info("indexer: running extractor", slog.Int("file_count", len(files)))
	if err := o.Extractor.Run(ctx, files, outputPath); err != nil {
		log.Error("indexer: extractor failed", slog.String("error", err.Error()))
		_ = o.Store.Clear(ctx)
		o.resetCaches()
		return Result{}, apierr.ExtractorFailed(err)
	}

	if o.Artifacts != nil {
		if data, err := os.ReadFile(outputPath); err != nil {
			log.Warn("indexer: could not read artifact for archival", slog.String("error", err.Error()))
		} else if err := o.Artifacts.ArchiveBytes(ctx, runID.String()+"/kythe.json", data); err != nil {
			log.Warn("indexer: artifact archival failed", slog.String("error", err.Error()))
		}
	}

	return o.ingestPath(ctx, runID, outputPath, log)
}

// IngestPrebuilt ingests an already-produced Kythe JSON artifact directly,
// skipping the extractor (backend.usePrebuiltIndex).
func (o *Orchestrator) IngestPrebuilt(ctx context.Context, indexPath string) (Result, error) {
	runID := uuid.New()
	log := o.Log.With(slog.String("run_id", runID.String()))
	return o.ingestPath(ctx, runID, indexPath, log)
}

func (o *Orchestrator) ingestPath(ctx context.Context, runID uuid.UUID, path string, log *slog.Logger) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		_ = o.Store.Clear(ctx)
		o.resetCaches()
		return Result{}, apierr.IndexingFailed(fmt.Errorf("open kythe artifact %s: %w", path, err))
	}
	defer f.Close()

	if err := o.Store.Clear(ctx); err != nil {
		return Result{}, apierr.IndexingFailed(err)
	}
	if o.Graph != nil {
		if err := o.Graph.ClearAll(ctx); err != nil {
			log.Warn("indexer: graph mirror clear failed", slog.String("error", err.Error()))
		}
	}
	o.resetCaches()

	result := Result{RunID: runID}
	decodeErr := kythe.Decode(f, log, func(rec *kythe.Record) error {
		return o.process(ctx, rec, &result, log)
	})
	if decodeErr != nil {
		log.Error("indexer: ingest aborted", slog.String("error", decodeErr.Error()))
		_ = o.Store.Clear(ctx)
		o.resetCaches()
		return Result{}, apierr.IndexingFailed(decodeErr)
	}

	log.Info("indexer: ingest completed",
		slog.Int("files", result.FilesIndexed),
		slog.Int("anchors", result.AnchorsIndexed),
		slog.Int("symbols", result.SymbolsIndexed),
		slog.Int("refs", result.RefsIndexed))
	return result, nil
}

// process applies one logical record to the store. Node and edge
// classification are checked independently — never via early return after
// the first match — because a single record can be simultaneously a node
// (most commonly an anchor) and an edge.
func (o *Orchestrator) process(ctx context.Context, rec *kythe.Record, result *Result, log *slog.Logger) error {
	switch {
	case rec.IsFile():
		if err := o.processFile(ctx, rec, result); err != nil {
			return err
		}
	case rec.IsAnchor():
		if err := o.processAnchor(ctx, rec, result, log); err != nil {
			return err
		}
	case rec.IsSymbol():
		if err := o.processSymbol(ctx, rec, log); err != nil {
			return err
		}
		result.SymbolsIndexed++
	}

	if rec.IsEdge() {
		if err := o.processEdge(ctx, rec, result, log); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) processFile(ctx context.Context, rec *kythe.Record, result *Result) error {
	path := rec.Source.Path
	id, err := o.Store.AddFile(ctx, path, rec.Text())
	if err != nil {
		return fmt.Errorf("indexer: add file %s: %w", path, err)
	}
	o.pathToFileID[path] = id
	result.FilesIndexed++
	return nil
}

func (o *Orchestrator) processAnchor(ctx context.Context, rec *kythe.Record, result *Result, log *slog.Logger) error {
	fileID, ok := o.pathToFileID[rec.Source.Path]
	if !ok {
		log.Warn("indexer: dropping anchor for unknown file", slog.String("path", rec.Source.Path))
		return nil
	}

	content, err := o.fileContent(ctx, fileID)
	if err != nil {
		return err
	}

	startOffset, ok := rec.LocStart()
	if !ok {
		log.Warn("indexer: anchor missing loc/start fact", slog.String("signature", rec.Source.Signature))
		return nil
	}
	endOffset, ok := rec.LocEnd()
	if !ok {
		log.Warn("indexer: anchor missing loc/end fact", slog.String("signature", rec.Source.Signature))
		return nil
	}

	startLine, startChar, ok := coords.PositionFromOffset(content, startOffset)
	if !ok {
		log.Warn("indexer: anchor start offset out of range", slog.Int("offset", startOffset))
		return nil
	}
	endLine, endChar, ok := coords.PositionFromOffset(content, endOffset)
	if !ok {
		log.Warn("indexer: anchor end offset out of range", slog.Int("offset", endOffset))
		return nil
	}

	id, err := o.Store.AddAnchor(ctx, store.Anchor{
		FileID:    fileID,
		StartLine: startLine,
		StartChar: startChar,
		EndLine:   endLine,
		EndChar:   endChar,
	})
	if err != nil {
		return fmt.Errorf("indexer: add anchor: %w", err)
	}
	o.anchorCache[rec.Source.Signature] = id
	result.AnchorsIndexed++
	return nil
}

func (o *Orchestrator) processSymbol(ctx context.Context, rec *kythe.Record, log *slog.Logger) error {
	id, err := o.Store.AddSymbol(ctx, rec.Source.Signature, rec.SymbolType(), nil)
	if err != nil {
		return fmt.Errorf("indexer: add symbol: %w", err)
	}
	o.symbolCache[rec.Source.Signature] = id
	if o.Graph != nil {
		if err := o.Graph.SyncSymbol(ctx, id, rec.Source.Signature, rec.SymbolType()); err != nil {
			log.Warn("indexer: graph mirror sync symbol failed", slog.String("error", err.Error()))
		}
	}
	return nil
}

func (o *Orchestrator) processEdge(ctx context.Context, rec *kythe.Record, result *Result, log *slog.Logger) error {
	switch {
	case rec.DefinesBinding():
		return o.processDefinesBinding(ctx, rec, log)
	case rec.IsRef():
		return o.processRef(ctx, rec, result, log)
	case rec.IsChildOf():
		return o.processChildOf(ctx, rec, log)
	default:
		return nil
	}
}

func (o *Orchestrator) processDefinesBinding(ctx context.Context, rec *kythe.Record, log *slog.Logger) error {
	anchorID, ok := o.anchorCache[rec.Source.Signature]
	if !ok {
		log.Warn("indexer: dropping defines/binding with unknown anchor", slog.String("signature", rec.Source.Signature))
		return nil
	}
	symbolID, ok := o.symbolCache[rec.Target.Signature]
	if !ok {
		log.Warn("indexer: dropping defines/binding with unknown symbol", slog.String("signature", rec.Target.Signature))
		return nil
	}

	anchor, err := o.Store.GetAnchorByID(ctx, anchorID)
	if err != nil {
		return fmt.Errorf("indexer: resolve binding anchor %d: %w", anchorID, err)
	}
	content, err := o.fileContent(ctx, anchor.FileID)
	if err != nil {
		return err
	}
	startOffset, ok1 := coords.OffsetFromPosition(content, anchor.StartLine, anchor.StartChar)
	endOffset, ok2 := coords.OffsetFromPosition(content, anchor.EndLine, anchor.EndChar)
	if !ok1 || !ok2 || startOffset > endOffset || endOffset > len(content) {
		log.Warn("indexer: dropping binding with unresolvable lexeme range", slog.Int64("anchor", anchorID))
		return nil
	}
	lexeme := content[startOffset:endOffset]

	if err := o.Store.UpdateSymbolDeclarationAnchor(ctx, symbolID, anchorID); err != nil {
		return fmt.Errorf("indexer: set declaration anchor for symbol %d: %w", symbolID, err)
	}
	if err := o.Store.UpdateSymbolName(ctx, symbolID, lexeme); err != nil {
		return fmt.Errorf("indexer: set name for symbol %d: %w", symbolID, err)
	}
	if o.Graph != nil {
		if err := o.Graph.SyncSymbolName(ctx, symbolID, lexeme); err != nil {
			log.Warn("indexer: graph mirror sync name failed", slog.String("error", err.Error()))
		}
	}
	return nil
}

func (o *Orchestrator) processRef(ctx context.Context, rec *kythe.Record, result *Result, log *slog.Logger) error {
	anchorID, ok := o.anchorCache[rec.Source.Signature]
	if !ok {
		log.Warn("indexer: dropping ref with unknown anchor", slog.String("signature", rec.Source.Signature))
		return nil
	}
	symbolID, ok := o.symbolCache[rec.Target.Signature]
	if !ok {
		log.Warn("indexer: dropping ref with unknown symbol", slog.String("signature", rec.Target.Signature))
		return nil
	}
	if _, err := o.Store.AddRef(ctx, anchorID, symbolID); err != nil {
		return fmt.Errorf("indexer: add ref: %w", err)
	}
	result.RefsIndexed++
	return nil
}

func (o *Orchestrator) processChildOf(ctx context.Context, rec *kythe.Record, log *slog.Logger) error {
	childID, ok := o.symbolCache[rec.Source.Signature]
	if !ok {
		log.Warn("indexer: dropping childof with unknown child", slog.String("signature", rec.Source.Signature))
		return nil
	}
	parentID, ok := o.symbolCache[rec.Target.Signature]
	if !ok {
		log.Warn("indexer: dropping childof with unknown parent", slog.String("signature", rec.Target.Signature))
		return nil
	}
	if err := o.Store.AddSymbolRelationship(ctx, parentID, childID); err != nil {
		return fmt.Errorf("indexer: add relationship: %w", err)
	}
	if o.Graph != nil {
		if err := o.Graph.SyncRelationship(ctx, parentID, childID); err != nil {
			log.Warn("indexer: graph mirror sync relationship failed", slog.String("error", err.Error()))
		}
	}
	return nil
}

// fileContent returns fileID's content, refreshing the single
// most-recently-used cache entry only when fileID differs from the one
// already cached.
func (o *Orchestrator) fileContent(ctx context.Context, fileID int64) (string, error) {
	if o.currentFile != nil && o.currentFile.id == fileID {
		return o.currentFile.content, nil
	}
	f, err := o.Store.GetFileByID(ctx, fileID)
	if err != nil {
		return "", fmt.Errorf("indexer: fetch file %d: %w", fileID, err)
	}
	o.currentFile = &cachedFile{id: f.ID, content: f.Content}
	return f.Content, nil
}
