package checker

import "sync"

// DiagnosticStore holds the current syntax-diagnostic bundle keyed by file
// URI. It tracks a running count of Error-severity diagnostics so callers
// can cheaply decide whether automatic reindex should be suppressed after a
// save (spec section 4.6: "If any file has at least one Error, automatic
// reindex is suppressed after save").
type DiagnosticStore struct {
	mu       sync.RWMutex
	byURI    map[string][]Diagnostic
	nbErrors int
}

func NewDiagnosticStore() *DiagnosticStore {
	return &DiagnosticStore{byURI: make(map[string][]Diagnostic)}
}

// ClearFile drops all diagnostics for uri, decrementing the error counter by
// however many of them were Error-severity.
func (s *DiagnosticStore) ClearFile(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearFileLocked(uri)
}

func (s *DiagnosticStore) clearFileLocked(uri string) {
	existing, ok := s.byURI[uri]
	if !ok {
		return
	}
	for _, d := range existing {
		if d.Severity == SeverityError {
			s.nbErrors--
		}
	}
	delete(s.byURI, uri)
}

// Clear drops diagnostics for every file currently tracked.
func (s *DiagnosticStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for uri := range s.byURI {
		s.clearFileLocked(uri)
	}
}

// Replace replaces the full diagnostic bundle in one call: every uri present
// in the store is cleared first (so stale entries for files the run no
// longer mentions disappear), then bundle is installed verbatim.
func (s *DiagnosticStore) Replace(bundle map[string][]Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for uri := range s.byURI {
		s.clearFileLocked(uri)
	}
	for uri, diags := range bundle {
		if len(diags) == 0 {
			continue
		}
		s.byURI[uri] = diags
		for _, d := range diags {
			if d.Severity == SeverityError {
				s.nbErrors++
			}
		}
	}
}

// UpdateFile replaces the diagnostics recorded for a single uri, leaving
// every other file's entries untouched. Used after an incremental
// (single-file) checker run, where Replace's store-wide clear would be wrong.
func (s *DiagnosticStore) UpdateFile(uri string, diags []Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearFileLocked(uri)
	if len(diags) == 0 {
		return
	}
	s.byURI[uri] = diags
	for _, d := range diags {
		if d.Severity == SeverityError {
			s.nbErrors++
		}
	}
}

// ForFile returns the diagnostics currently recorded for uri.
func (s *DiagnosticStore) ForFile(uri string) []Diagnostic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Diagnostic(nil), s.byURI[uri]...)
}

// ErrorCount returns the number of Error-severity diagnostics across all
// files currently tracked.
func (s *DiagnosticStore) ErrorCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nbErrors
}

// HasErrors reports whether automatic reindex should be suppressed.
func (s *DiagnosticStore) HasErrors() bool {
	return s.ErrorCount() > 0
}
