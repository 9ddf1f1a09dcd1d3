package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/diplomat-ls/diplomat/internal/artifacts"
	"github.com/diplomat-ls/diplomat/internal/checker"
	"github.com/diplomat-ls/diplomat/internal/indexstate"
	"github.com/diplomat-ls/diplomat/pkg/apierr"
)

// DidSaveHandler runs the external syntax checker over a saved file and
// applies spec.md §4.6's reindex-suppression rule: while any tracked file
// has at least one Error-severity diagnostic, the save leaves the index flag
// untouched and schedules no reindex, since reindexing a broken parse tree
// would only poison it; otherwise the index is marked stale.
// A checker process failure is soft: diagnostics for the file are cleared
// and reindex is likewise deferred, rather than surfaced as a 500.
type DidSaveHandler struct {
	logger    *slog.Logger
	checker   *checker.Runner
	diags     *checker.DiagnosticStore
	gate      *indexstate.Gate
	artifacts *artifacts.Store // nil disables diagnostic-bundle archival
}

func NewDidSaveHandler(logger *slog.Logger, runner *checker.Runner, diags *checker.DiagnosticStore, gate *indexstate.Gate, ar *artifacts.Store) *DidSaveHandler {
	return &DidSaveHandler{logger: logger, checker: runner, diags: diags, gate: gate, artifacts: ar}
}

type didSaveRequest struct {
	Path string `json:"path"`
}

type didSaveResponse struct {
	Diagnostics []checker.Diagnostic `json:"diagnostics"`
	ErrorCount  int                  `json:"error_count"`
	Reindex     bool                 `json:"reindex_scheduled"`
}

// DidSave handles a single-file save notification.
// POST /did-save {"path": "..."}
func (h *DidSaveHandler) DidSave(w http.ResponseWriter, r *http.Request) {
	var req didSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	uri := checker.FileURI(req.Path)
	bundle, err := h.checker.Run(r.Context(), []string{req.Path})
	if err != nil {
		h.logger.Warn("did-save: syntax checker process failed, diagnostics cleared and reindex deferred",
			slog.String("path", req.Path), slog.String("error", err.Error()))
		h.diags.ClearFile(uri)
		writeJSON(w, http.StatusOK, didSaveResponse{ErrorCount: h.diags.ErrorCount()})
		return
	}

	h.diags.UpdateFile(uri, bundle[uri])

	if h.artifacts != nil {
		if raw, err := json.Marshal(bundle); err != nil {
			h.logger.Warn("did-save: could not marshal diagnostic bundle for archival", slog.String("error", err.Error()))
		} else if err := h.artifacts.ArchiveBytes(r.Context(), uuid.New().String()+"/syntax.json", raw); err != nil {
			h.logger.Warn("did-save: diagnostic bundle archival failed", slog.String("error", err.Error()))
		}
	}

	resp := didSaveResponse{Diagnostics: bundle[uri], ErrorCount: h.diags.ErrorCount()}
	if !h.diags.HasErrors() {
		h.gate.MarkStale(r.Context())
		resp.Reindex = true
	}
	writeJSON(w, http.StatusOK, resp)
}
