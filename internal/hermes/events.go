package hermes

import (
	"time"

	"github.com/MikeSquared-Agency/Placement/internal/placement"
)

// PlacementRequestEvent asks for a service to be scored. Nodes defaults to
// the stored inventory when empty.
type PlacementRequestEvent struct {
	RequestID string                 `json:"request_id,omitempty"`
	Service   placement.ServiceUsage `json:"service"`
	Nodes     []placement.NodeUsage  `json:"nodes,omitempty"`
}

type PlacementScoredEvent struct {
	RequestID string                `json:"request_id"`
	Scores    []placement.NodeScore `json:"scores"`
	Best      string                `json:"best"`
	Timestamp time.Time             `json:"timestamp"`
}

type PlacementFailedEvent struct {
	RequestID string    `json:"request_id"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

type NodeEvent struct {
	Name      string               `json:"name"`
	Usage     *placement.NodeUsage `json:"usage,omitempty"`
	Source    string               `json:"source,omitempty"`
	Timestamp time.Time            `json:"timestamp"`
}
