package store

import (
	"context"
	"errors"
	"time"

	"github.com/MikeSquared-Agency/Placement/internal/placement"
)

var ErrNodeNotFound = errors.New("store: node not found")

// Node is a stored usage snapshot.
type Node struct {
	placement.NodeUsage
	UpdatedAt time.Time `json:"updated_at"`
}

// Store keeps the latest usage snapshot per node. Scores are never stored.
type Store interface {
	UpsertNode(ctx context.Context, n placement.NodeUsage) (*Node, error)
	GetNode(ctx context.Context, name string) (*Node, error)
	ListNodes(ctx context.Context) ([]*Node, error)
	DeleteNode(ctx context.Context, name string) error
	Close() error
}

// Usages strips the snapshot metadata, keeping node order.
func Usages(nodes []*Node) []placement.NodeUsage {
	out := make([]placement.NodeUsage, len(nodes))
	for i, n := range nodes {
		out[i] = n.NodeUsage
	}
	return out
}
