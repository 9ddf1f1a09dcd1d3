package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/diplomat-ls/diplomat/pkg/apierr"
)

type prepareRenameRequest struct {
	Path      string `json:"path"`
	Line      int    `json:"line"`
	Character int    `json:"character"`
}

type renameRequest struct {
	prepareRenameRequest
	NewName string `json:"newName"`
}

// PrepareRename returns the declaration range the editor should highlight
// before prompting for a new name, or a RENAME_REJECTED error.
// POST /rename/prepare
func (h *QueryHandler) PrepareRename(w http.ResponseWriter, r *http.Request) {
	var req prepareRenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}
	if err := h.gate.EnsureReady(r.Context(), h.reindex); err != nil {
		writeErr(w, h.logger, err)
		return
	}

	rng, err := h.layer.PrepareRename(r.Context(), req.Path, position(req.Line, req.Character))
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rng)
}

// Rename executes a rename and returns the per-file edit plan plus a
// unified-diff preview of each touched file.
// POST /rename
func (h *QueryHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}
	if err := h.gate.EnsureReady(r.Context(), h.reindex); err != nil {
		writeErr(w, h.logger, err)
		return
	}

	plan, err := h.layer.Rename(r.Context(), req.Path, position(req.Line, req.Character), req.NewName)
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// Completion returns member-completion candidates after a "parent." prefix.
// GET /completion?path=...&line=...&character=...
func (h *QueryHandler) Completion(w http.ResponseWriter, r *http.Request) {
	path, pos, perr := positionQuery(r)
	if perr != nil {
		writeAPIError(w, h.logger, perr)
		return
	}
	if err := h.gate.EnsureReady(r.Context(), h.reindex); err != nil {
		writeErr(w, h.logger, err)
		return
	}

	names, err := h.layer.Completion(r.Context(), path, pos)
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": names})
}
