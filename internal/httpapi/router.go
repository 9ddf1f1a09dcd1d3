// Package httpapi is a small debug/introspection HTTP surface over the
// index: health, readiness, a dump-to-file endpoint, read-only
// definition/references/children/completion lookups, rename (which updates
// the store), and a did-save hook. It is
// explicitly not the editor protocol (out of scope per spec.md §1) — a
// stand-in operational surface a real deployment would want for manual
// inspection and scripting.
package httpapi

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/diplomat-ls/diplomat/internal/artifacts"
	"github.com/diplomat-ls/diplomat/internal/checker"
	"github.com/diplomat-ls/diplomat/internal/indexstate"
	"github.com/diplomat-ls/diplomat/internal/query"
	"github.com/diplomat-ls/diplomat/internal/store"
)

// NewRouter wires the debug surface. reindex is invoked by Gate.EnsureReady
// whenever a request observes the index flag cleared (spec.md §5/§7); it is
// supplied by the caller (cmd/indexserver) rather than this package so the
// HTTP layer never needs to know about the extractor or file list. diags is
// the syntax-diagnostic store shared with DidSaveHandler's checker runs;
// ar archives each run's raw diagnostic bundle when MinIO is configured.
func NewRouter(logger *slog.Logger, s *store.Store, layer *query.Layer, gate *indexstate.Gate, reindex func(context.Context) error, syntaxChecker *checker.Runner, diags *checker.DiagnosticStore, ar *artifacts.Store) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	health := NewHealthHandler(gate)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	dump := NewDumpHandler(logger, s)
	r.Post("/debug/dump", dump.Dump)

	q := NewQueryHandler(logger, layer, gate, reindex)
	r.Get("/definition", q.Definition)
	r.Get("/references", q.References)
	r.Get("/children", q.Children)
	r.Get("/descendants", q.Descendants)
	r.Get("/ancestors", q.Ancestors)
	r.Get("/completion", q.Completion)
	r.Post("/rename/prepare", q.PrepareRename)
	r.Post("/rename", q.Rename)
	r.Route("/symbols", func(r chi.Router) {
		r.Get("/{id}", q.Symbol)
	})

	ds := NewDidSaveHandler(logger, syntaxChecker, diags, gate, ar)
	r.Post("/did-save", ds.DidSave)

	resync := NewResyncGraphHandler(logger, s, layer.Graph)
	r.Post("/debug/resync-graph", resync.ResyncGraph)

	return r
}
