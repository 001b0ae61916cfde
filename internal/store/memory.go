package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/MikeSquared-Agency/Placement/internal/placement"
)

// MemoryStore is a process-local Store used when no database is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	nodes map[string]Node
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nodes: make(map[string]Node), now: time.Now}
}

func (s *MemoryStore) UpsertNode(_ context.Context, n placement.NodeUsage) (*Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	node := Node{NodeUsage: n, UpdatedAt: s.now()}
	s.nodes[n.Name] = node
	return &node, nil
}

func (s *MemoryStore) GetNode(_ context.Context, name string) (*Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	node, ok := s.nodes[name]
	if !ok {
		return nil, ErrNodeNotFound
	}
	return &node, nil
}

func (s *MemoryStore) ListNodes(_ context.Context) ([]*Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	nodes := make([]*Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		node := n
		nodes = append(nodes, &node)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
	return nodes, nil
}

func (s *MemoryStore) DeleteNode(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.nodes[name]; !ok {
		return ErrNodeNotFound
	}
	delete(s.nodes, name)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
