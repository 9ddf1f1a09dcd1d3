package indexstate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGate_StartsNotReady(t *testing.T) {
	g := NewGate(nil, testLogger())
	require.False(t, g.IsReady())
}

func TestGate_EnsureReadyRunsReindexOnce(t *testing.T) {
	g := NewGate(nil, testLogger())

	var calls int
	err := g.EnsureReady(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
	require.True(t, g.IsReady())
	require.Equal(t, uint64(1), g.Generation())

	// A second call with the flag already set must not reindex again.
	err = g.EnsureReady(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestGate_EnsureReadyPropagatesReindexFailure(t *testing.T) {
	g := NewGate(nil, testLogger())
	boom := errors.New("boom")

	err := g.EnsureReady(context.Background(), func(ctx context.Context) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.False(t, g.IsReady())
}

func TestGate_MarkStaleForcesNextEnsureReadyToReindex(t *testing.T) {
	g := NewGate(nil, testLogger())
	var calls int
	reindex := func(ctx context.Context) error {
		calls++
		return nil
	}

	require.NoError(t, g.EnsureReady(context.Background(), reindex))
	require.Equal(t, 1, calls)

	g.MarkStale(context.Background())
	require.False(t, g.IsReady())

	require.NoError(t, g.EnsureReady(context.Background(), reindex))
	require.Equal(t, 2, calls)
}

func TestGate_ConcurrentEnsureReadyReindexesOnce(t *testing.T) {
	g := NewGate(nil, testLogger())
	var calls int
	var mu sync.Mutex
	reindex := func(ctx context.Context) error {
		mu.Lock()
		calls++
		mu.Unlock()
		return nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = g.EnsureReady(context.Background(), reindex)
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 1, calls)
}

func TestGate_ReadyRemoteWithoutValkeyFallsBackToLocal(t *testing.T) {
	g := NewGate(nil, testLogger())
	ready, err := g.ReadyRemote(context.Background())
	require.NoError(t, err)
	require.False(t, ready)

	require.NoError(t, g.EnsureReady(context.Background(), func(ctx context.Context) error { return nil }))
	ready, err = g.ReadyRemote(context.Background())
	require.NoError(t, err)
	require.True(t, ready)
}
