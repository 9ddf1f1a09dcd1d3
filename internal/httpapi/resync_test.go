package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/diplomat-ls/diplomat/internal/store"
)

func TestResyncGraphHandler_NoGraphReturnsNotImplemented(t *testing.T) {
	s, err := store.Open(context.Background(), "")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	h := NewResyncGraphHandler(discardLogger(), s, nil)

	req := httptest.NewRequest(http.MethodPost, "/debug/resync-graph", nil)
	rec := httptest.NewRecorder()
	h.ResyncGraph(rec, req)

	require.Equal(t, http.StatusNotImplemented, rec.Code)
}
