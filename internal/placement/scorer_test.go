package placement

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Placement/internal/topsis"
)

const gib = int64(1 << 30)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	s, err := NewScorer(DefaultWeights(), discardLogger())
	require.NoError(t, err)
	return s
}

func testNodes() []NodeUsage {
	return []NodeUsage{
		{Name: "node1", CPU: 2, MaxCPU: 8, Mem: 4 * gib, MaxMem: 16 * gib},
		{Name: "node2", CPU: 6, MaxCPU: 8, Mem: 12 * gib, MaxMem: 16 * gib},
		{Name: "node3", CPU: 1, MaxCPU: 4, Mem: 2 * gib, MaxMem: 8 * gib},
	}
}

func TestDefaultWeightsValid(t *testing.T) {
	require.NoError(t, DefaultWeights().Validate())
}

func TestWeightSetValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*WeightSet)
	}{
		{"zero", func(w *WeightSet) { w.AverageCPU = 0 }},
		{"positive", func(w *WeightSet) { w.HighestCPU = 1 }},
		{"nan", func(w *WeightSet) { w.AverageMemory = math.NaN() }},
		{"infinite", func(w *WeightSet) { w.HighestMemory = math.Inf(-1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := DefaultWeights()
			tt.edit(&w)
			assert.Error(t, w.Validate())

			_, err := NewScorer(w, discardLogger())
			assert.Error(t, err)
		})
	}
}

func TestCriteria(t *testing.T) {
	c := newTestScorer(t).Criteria()
	assert.Equal(t, []string{"average CPU", "highest CPU", "average memory", "highest memory"}, c.Names())
	assert.Equal(t, []float64{-1, -2, -5, -10}, c.Weights())
}

func TestAddServiceUsage(t *testing.T) {
	n := NodeUsage{Name: "n", CPU: 1.5, MaxCPU: 4, Mem: gib, MaxMem: 8 * gib}
	n.AddServiceUsage(ServiceUsage{MaxCPU: 2, MaxMem: gib})
	assert.Equal(t, 3.5, n.CPU)
	assert.Equal(t, 2*gib, n.Mem)

	// unlimited CPU takes the whole node
	n.AddServiceUsage(ServiceUsage{MaxCPU: 0, MaxMem: 0})
	assert.Equal(t, 7.5, n.CPU)
	assert.Equal(t, 2*gib, n.Mem)
}

func TestScoreNodesToStartService(t *testing.T) {
	s := newTestScorer(t)
	nodes := testNodes()

	scores, err := s.ScoreNodesToStartService(nodes, ServiceUsage{MaxCPU: 2, MaxMem: 2 * gib})
	require.NoError(t, err)
	require.Len(t, scores, 3)

	for i, sc := range scores {
		assert.Equal(t, nodes[i].Name, sc.Name)
		assert.GreaterOrEqual(t, sc.Score, 0.0)
		assert.LessOrEqual(t, sc.Score, 1.0)
	}
	assert.InDelta(t, 1.0, scores[0].Score, 1e-9)
	assert.Greater(t, scores[2].Score, scores[1].Score)

	// inputs are not modified by the simulation
	assert.Equal(t, testNodes(), nodes)
}

func TestScoreNodesUnlimitedCPU(t *testing.T) {
	s := newTestScorer(t)
	best, err := s.BestNode(testNodes(), ServiceUsage{MaxCPU: 0, MaxMem: 2 * gib})
	require.NoError(t, err)
	assert.Equal(t, "node1", best.Name)
}

func TestScoreNodesCPUOnly(t *testing.T) {
	s := newTestScorer(t)
	nodes := []NodeUsage{
		{Name: "busy", CPU: 3, MaxCPU: 4, Mem: gib, MaxMem: 8 * gib},
		{Name: "idle", CPU: 0, MaxCPU: 4, Mem: gib, MaxMem: 8 * gib},
	}
	scores, err := s.ScoreNodesToStartService(nodes, ServiceUsage{MaxCPU: 1})
	require.NoError(t, err)
	assert.Equal(t, []NodeScore{{Name: "busy", Score: 0}, {Name: "idle", Score: 1}}, scores)
}

func TestScoreNodesIdenticalNodes(t *testing.T) {
	s := newTestScorer(t)
	nodes := []NodeUsage{
		{Name: "a", MaxCPU: 4, MaxMem: 8 * gib},
		{Name: "b", MaxCPU: 4, MaxMem: 8 * gib},
	}
	scores, err := s.ScoreNodesToStartService(nodes, ServiceUsage{MaxCPU: 1, MaxMem: gib})
	require.NoError(t, err)
	assert.Equal(t, 0.0, scores[0].Score)
	assert.Equal(t, 0.0, scores[1].Score)

	assert.Equal(t, "a", Best(scores).Name)
}

func TestScoreNodesSingleNode(t *testing.T) {
	s := newTestScorer(t)
	scores, err := s.ScoreNodesToStartService(
		[]NodeUsage{{Name: "only", MaxCPU: 4, MaxMem: 8 * gib}},
		ServiceUsage{MaxCPU: 1, MaxMem: gib},
	)
	require.NoError(t, err)
	assert.Equal(t, []NodeScore{{Name: "only", Score: 0}}, scores)
}

func TestScoreNodesErrors(t *testing.T) {
	s := newTestScorer(t)

	_, err := s.ScoreNodesToStartService(nil, ServiceUsage{})
	assert.ErrorIs(t, err, topsis.ErrEmptyMatrix)

	_, err = s.ScoreNodesToStartService([]NodeUsage{{Name: "n", MaxCPU: 0, MaxMem: gib}}, ServiceUsage{})
	assert.ErrorIs(t, err, ErrInvalidNode)

	_, err = s.ScoreNodesToStartService([]NodeUsage{{Name: "n", MaxCPU: 1, MaxMem: 0}}, ServiceUsage{})
	assert.ErrorIs(t, err, ErrInvalidNode)

	_, err = s.ScoreNodesToStartService([]NodeUsage{{MaxCPU: 1, MaxMem: 1}}, ServiceUsage{})
	assert.ErrorIs(t, err, ErrInvalidNode)

	_, err = s.ScoreNodesToStartService(testNodes(), ServiceUsage{MaxCPU: -1})
	assert.ErrorIs(t, err, ErrInvalidService)

	_, err = s.ScoreNodesToStartService(testNodes(), ServiceUsage{MaxMem: -1})
	assert.ErrorIs(t, err, ErrInvalidService)
}

func TestBestEmpty(t *testing.T) {
	assert.Equal(t, NodeScore{}, Best(nil))
}

func TestIsInvalidInput(t *testing.T) {
	s := newTestScorer(t)

	_, err := s.ScoreNodesToStartService(testNodes(), ServiceUsage{MaxCPU: -1})
	assert.True(t, IsInvalidInput(err))

	_, err = s.ScoreNodesToStartService(nil, ServiceUsage{})
	assert.True(t, IsInvalidInput(err))

	assert.False(t, IsInvalidInput(errors.New("db down")))
	assert.False(t, IsInvalidInput(nil))
}
