// Package indexstate serializes reindex against readers via the single
// "indexed" flag described by spec.md section 5: cleared at reindex start,
// set at completion; a query that observes it cleared triggers a blocking
// reindex before answering.
package indexstate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/valkey-io/valkey-go"
)

const valkeyReadyKey = "diplomat:index:ready"

// Gate is the per-process readiness flag. The mutex is the real gate a
// single Go process needs; an optional Valkey mirror lets a second process
// sharing the same store file (e.g. cmd/mcp) observe the same staleness
// state without its own in-memory flag.
type Gate struct {
	mu         sync.RWMutex
	ready      bool
	generation uint64

	valkey valkey.Client // nil disables the mirror
	log    *slog.Logger
}

func NewGate(vk valkey.Client, log *slog.Logger) *Gate {
	return &Gate{valkey: vk, log: log}
}

// IsReady reports the local readiness flag.
func (g *Gate) IsReady() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.ready
}

// Generation returns the number of reindexes completed so far, for callers
// that want to detect a concurrent reindex racing their own.
func (g *Gate) Generation() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.generation
}

// MarkStale clears the flag, e.g. after a save with no blocking syntax
// error. The next EnsureReady call triggers a reindex.
func (g *Gate) MarkStale(ctx context.Context) {
	g.mu.Lock()
	g.ready = false
	g.mu.Unlock()
	g.mirror(ctx, false)
}

// EnsureReady blocks until the index is ready, running reindex at most once
// if the flag was found cleared. Concurrent callers that arrive while a
// reindex is already running wait for it rather than running it twice.
func (g *Gate) EnsureReady(ctx context.Context, reindex func(context.Context) error) error {
	g.mu.RLock()
	ready := g.ready
	g.mu.RUnlock()
	if ready {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ready {
		// Another caller won the race and already reindexed while this one
		// waited for the write lock.
		return nil
	}

	if err := reindex(ctx); err != nil {
		return err
	}
	g.ready = true
	g.generation++
	g.mirror(ctx, true)
	return nil
}

func (g *Gate) mirror(ctx context.Context, ready bool) {
	if g.valkey == nil {
		return
	}
	value := "0"
	if ready {
		value = "1"
	}
	resp := g.valkey.Do(ctx, g.valkey.B().Set().Key(valkeyReadyKey).Value(value).Build())
	if err := resp.Error(); err != nil {
		g.log.Warn("indexstate: valkey mirror write failed", slog.String("error", err.Error()))
	}
}

// ReadyRemote reports the readiness flag as observed through the Valkey
// mirror, for a process that does not own this Gate's in-memory state
// directly. Falls back to the local flag if no Valkey client is wired.
func (g *Gate) ReadyRemote(ctx context.Context) (bool, error) {
	if g.valkey == nil {
		return g.IsReady(), nil
	}
	resp := g.valkey.Do(ctx, g.valkey.B().Get().Key(valkeyReadyKey).Build())
	val, err := resp.ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return false, nil
		}
		return false, fmt.Errorf("indexstate: read valkey mirror: %w", err)
	}
	return val == "1", nil
}
