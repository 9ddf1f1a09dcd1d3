//go:build integration

package indexstate

import (
	"context"
	"os"
	"testing"

	"github.com/valkey-io/valkey-go"
)

func setupValkey(t *testing.T) valkey.Client {
	t.Helper()
	addr := os.Getenv("TEST_VALKEY_ADDR")
	if addr == "" {
		t.Fatal("TEST_VALKEY_ADDR not set")
	}
	client, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{addr}})
	if err != nil {
		t.Skipf("valkey not available: %v", err)
	}
	resp := client.Do(context.Background(), client.B().Ping().Build())
	if resp.Error() != nil {
		t.Skipf("valkey ping failed: %v", resp.Error())
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestGate_MirrorsReadinessAcrossProcesses(t *testing.T) {
	client := setupValkey(t)
	ctx := context.Background()

	writer := NewGate(client, testLogger())
	reader := NewGate(client, testLogger())

	ready, err := reader.ReadyRemote(ctx)
	if err != nil {
		t.Fatalf("ready remote: %v", err)
	}
	if ready {
		t.Fatal("expected not ready before any reindex")
	}

	if err := writer.EnsureReady(ctx, func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("ensure ready: %v", err)
	}

	ready, err = reader.ReadyRemote(ctx)
	if err != nil {
		t.Fatalf("ready remote: %v", err)
	}
	if !ready {
		t.Fatal("expected ready after writer's reindex, observed through the valkey mirror")
	}

	writer.MarkStale(ctx)
	ready, err = reader.ReadyRemote(ctx)
	if err != nil {
		t.Fatalf("ready remote: %v", err)
	}
	if ready {
		t.Fatal("expected stale after MarkStale, observed through the valkey mirror")
	}
}
