package placement

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/MikeSquared-Agency/Placement/internal/topsis"
)

// NodeScore is a node's desirability for a placement, in [0, 1].
type NodeScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// alternative holds the criteria values of a simulated placement. Values
// are occupancy fractions offset by 1.0 so that tiny differences between
// lightly used nodes are not inflated: 0.004 is twice 0.002, 1.004 is not.
type alternative struct {
	averageCPU    float64
	highestCPU    float64
	averageMemory float64
	highestMemory float64
}

// Scorer ranks nodes for starting a service on.
type Scorer struct {
	schema *topsis.Schema[alternative]
	logger *slog.Logger
}

// NewScorer creates a Scorer with the given criterion weights.
func NewScorer(weights WeightSet, logger *slog.Logger) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	schema, err := topsis.NewSchema[alternative]().
		Field("average CPU", weights.AverageCPU, func(a alternative) float64 { return a.averageCPU }).
		Field("highest CPU", weights.HighestCPU, func(a alternative) float64 { return a.highestCPU }).
		Field("average memory", weights.AverageMemory, func(a alternative) float64 { return a.averageMemory }).
		Field("highest memory", weights.HighestMemory, func(a alternative) float64 { return a.highestMemory }).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build criteria: %w", err)
	}
	return &Scorer{schema: schema, logger: logger}, nil
}

// Criteria returns the criteria the scorer ranks with.
func (s *Scorer) Criteria() topsis.Criteria { return s.schema.Criteria() }

// ScoreNodesToStartService scores every node as if svc were already running
// on it while all other nodes keep their usage. The result is index-aligned
// with nodes; a higher score is better.
func (s *Scorer) ScoreNodesToStartService(nodes []NodeUsage, svc ServiceUsage) ([]NodeScore, error) {
	if err := svc.Validate(); err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if err := n.Validate(); err != nil {
			return nil, err
		}
	}

	alts := make([]alternative, len(nodes))
	for target := range nodes {
		alts[target] = simulate(nodes, target, svc)
	}

	scores, err := s.schema.Score(alts)
	if err != nil {
		return nil, fmt.Errorf("score nodes: %w", err)
	}

	out := make([]NodeScore, len(nodes))
	for i, score := range scores {
		out[i] = NodeScore{Name: nodes[i].Name, Score: score}
	}
	s.logger.Debug("scored nodes", "nodes", len(nodes), "service_cpu", svc.MaxCPU, "service_mem", svc.MaxMem)
	return out, nil
}

// BestNode returns the highest scoring node. Ties go to the earlier node.
func (s *Scorer) BestNode(nodes []NodeUsage, svc ServiceUsage) (NodeScore, error) {
	scores, err := s.ScoreNodesToStartService(nodes, svc)
	if err != nil {
		return NodeScore{}, err
	}
	return Best(scores), nil
}

// Best returns the first highest scoring entry of scores, or the zero value
// when scores is empty.
func Best(scores []NodeScore) NodeScore {
	values := make([]float64, len(scores))
	for i, s := range scores {
		values[i] = s.Score
	}
	order := topsis.Rank(values)
	if len(order) == 0 {
		return NodeScore{}
	}
	return scores[order[0]]
}

// simulate computes the criteria for placing svc on nodes[target].
func simulate(nodes []NodeUsage, target int, svc ServiceUsage) alternative {
	var highestCPU, squaresCPU, highestMem, squaresMem float64

	for i, n := range nodes {
		node := n
		if i == target {
			node.AddServiceUsage(svc)
		}

		cpu := node.CPU / float64(node.MaxCPU)
		highestCPU = math.Max(highestCPU, cpu)
		squaresCPU += cpu * cpu

		mem := float64(node.Mem) / float64(node.MaxMem)
		highestMem = math.Max(highestMem, mem)
		squaresMem += mem * mem
	}

	count := float64(len(nodes))
	return alternative{
		averageCPU:    1.0 + math.Sqrt(squaresCPU/count),
		highestCPU:    1.0 + highestCPU,
		averageMemory: 1.0 + math.Sqrt(squaresMem/count),
		highestMemory: 1.0 + highestMem,
	}
}
