package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Placement/internal/placement"
)

func TestMemoryStoreCRUD(t *testing.T) {
	s := NewMemoryStore()
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	ctx := context.Background()

	n, err := s.UpsertNode(ctx, placement.NodeUsage{Name: "node2", CPU: 1, MaxCPU: 4, Mem: 10, MaxMem: 100})
	require.NoError(t, err)
	assert.Equal(t, fixed, n.UpdatedAt)

	_, err = s.UpsertNode(ctx, placement.NodeUsage{Name: "node1", CPU: 2, MaxCPU: 8, Mem: 20, MaxMem: 200})
	require.NoError(t, err)

	got, err := s.GetNode(ctx, "node2")
	require.NoError(t, err)
	assert.Equal(t, 4, got.MaxCPU)

	_, err = s.UpsertNode(ctx, placement.NodeUsage{Name: "node2", CPU: 3, MaxCPU: 4, Mem: 10, MaxMem: 100})
	require.NoError(t, err)
	got, err = s.GetNode(ctx, "node2")
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.CPU)

	nodes, err := s.ListNodes(ctx)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "node1", nodes[0].Name)
	assert.Equal(t, "node2", nodes[1].Name)
	assert.Equal(t, []string{"node1", "node2"}, []string{Usages(nodes)[0].Name, Usages(nodes)[1].Name})

	require.NoError(t, s.DeleteNode(ctx, "node1"))
	assert.ErrorIs(t, s.DeleteNode(ctx, "node1"), ErrNodeNotFound)

	_, err = s.GetNode(ctx, "node1")
	assert.ErrorIs(t, err, ErrNodeNotFound)
	require.NoError(t, s.Close())
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_, err := s.UpsertNode(ctx, placement.NodeUsage{Name: "n", MaxCPU: 1, MaxMem: 1})
	require.NoError(t, err)

	got, err := s.GetNode(ctx, "n")
	require.NoError(t, err)
	got.CPU = 99

	again, err := s.GetNode(ctx, "n")
	require.NoError(t, err)
	assert.Equal(t, 0.0, again.CPU)
}
