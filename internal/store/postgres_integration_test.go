//go:build integration

package store

import (
	"context"
	"os"
	"testing"

	"github.com/MikeSquared-Agency/Placement/internal/placement"
)

func setupTestDB(t *testing.T) *PostgresStore {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	t.Cleanup(func() {
		_, _ = s.pool.Exec(ctx, "TRUNCATE placement_nodes")
		s.Close()
	})

	return s
}

func TestUpsertAndGetNode(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	in := placement.NodeUsage{Name: "pve1", CPU: 1.5, MaxCPU: 16, Mem: 8 << 30, MaxMem: 64 << 30}
	node, err := s.UpsertNode(ctx, in)
	if err != nil {
		t.Fatalf("UpsertNode failed: %v", err)
	}
	if node.UpdatedAt.IsZero() {
		t.Error("expected updated_at to be set")
	}

	got, err := s.GetNode(ctx, "pve1")
	if err != nil {
		t.Fatalf("GetNode failed: %v", err)
	}
	if got.NodeUsage != in {
		t.Errorf("expected %+v, got %+v", in, got.NodeUsage)
	}

	in.CPU = 4
	if _, err := s.UpsertNode(ctx, in); err != nil {
		t.Fatalf("second UpsertNode failed: %v", err)
	}
	got, err = s.GetNode(ctx, "pve1")
	if err != nil {
		t.Fatalf("GetNode failed: %v", err)
	}
	if got.CPU != 4 {
		t.Errorf("expected cpu 4 after upsert, got %v", got.CPU)
	}
}

func TestListAndDeleteNodes(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"pve3", "pve1", "pve2"} {
		if _, err := s.UpsertNode(ctx, placement.NodeUsage{Name: name, MaxCPU: 4, MaxMem: 1 << 30}); err != nil {
			t.Fatalf("UpsertNode %s failed: %v", name, err)
		}
	}

	nodes, err := s.ListNodes(ctx)
	if err != nil {
		t.Fatalf("ListNodes failed: %v", err)
	}
	if len(nodes) != 3 || nodes[0].Name != "pve1" || nodes[2].Name != "pve3" {
		t.Fatalf("unexpected node order: %+v", nodes)
	}

	if err := s.DeleteNode(ctx, "pve2"); err != nil {
		t.Fatalf("DeleteNode failed: %v", err)
	}
	if err := s.DeleteNode(ctx, "pve2"); err != ErrNodeNotFound {
		t.Errorf("expected ErrNodeNotFound, got %v", err)
	}
	if _, err := s.GetNode(ctx, "pve2"); err != ErrNodeNotFound {
		t.Errorf("expected ErrNodeNotFound, got %v", err)
	}
}
