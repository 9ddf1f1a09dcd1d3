package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/diplomat-ls/diplomat/internal/indexstate"
)

func TestHealthHandler_Readyz_FallsBackToLocalFlagWithoutValkey(t *testing.T) {
	gate := indexstate.NewGate(nil, discardLogger())
	h := NewHealthHandler(gate)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	h.Readyz(rec, req)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	require.NoError(t, gate.EnsureReady(context.Background(), func(context.Context) error { return nil }))

	rec = httptest.NewRecorder()
	h.Readyz(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthHandler_Healthz(t *testing.T) {
	gate := indexstate.NewGate(nil, discardLogger())
	h := NewHealthHandler(gate)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.Healthz(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
