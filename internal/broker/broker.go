package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Placement/internal/config"
	"github.com/MikeSquared-Agency/Placement/internal/hermes"
	"github.com/MikeSquared-Agency/Placement/internal/inventory"
	"github.com/MikeSquared-Agency/Placement/internal/metrics"
	"github.com/MikeSquared-Agency/Placement/internal/placement"
	"github.com/MikeSquared-Agency/Placement/internal/store"
)

// ErrNoCandidates is returned when no uncordoned node is available.
var ErrNoCandidates = errors.New("broker: no candidate nodes")

const requestTimeout = 10 * time.Second

// PlacementRequest asks where a service should start. Without Nodes the
// stored inventory minus cordoned nodes is used.
type PlacementRequest struct {
	RequestID string                 `json:"request_id,omitempty"`
	Service   placement.ServiceUsage `json:"service"`
	Nodes     []placement.NodeUsage  `json:"nodes,omitempty"`
}

type PlacementResult struct {
	RequestID string                `json:"request_id"`
	Scores    []placement.NodeScore `json:"scores"`
	Best      string                `json:"best"`
}

type Broker struct {
	store     store.Store
	hermes    hermes.Client
	inventory inventory.Client
	scorer    *placement.Scorer
	metrics   *metrics.Metrics
	cfg       *config.Config
	logger    *slog.Logger

	cordonedMu sync.RWMutex
	cordoned   map[string]bool

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// New creates a Broker. h and inv may be nil to run without events or
// without inventory sync.
func New(s store.Store, h hermes.Client, inv inventory.Client, scorer *placement.Scorer, m *metrics.Metrics, cfg *config.Config, logger *slog.Logger) *Broker {
	return &Broker{
		store:     s,
		hermes:    h,
		inventory: inv,
		scorer:    scorer,
		metrics:   m,
		cfg:       cfg,
		logger:    logger,
		cordoned:  make(map[string]bool),
		stopCh:    make(chan struct{}),
	}
}

func (b *Broker) Start(ctx context.Context) {
	if b.inventory == nil {
		return
	}
	b.wg.Add(1)
	go b.syncLoop(ctx)
}

func (b *Broker) Stop() {
	b.stopOnce.Do(func() { close(b.stopCh) })
	b.wg.Wait()
}

func (b *Broker) Cordon(ctx context.Context, name string) {
	b.cordonedMu.Lock()
	b.cordoned[name] = true
	n := len(b.cordoned)
	b.cordonedMu.Unlock()

	b.metrics.SetCordoned(n)
	b.publish(ctx, hermes.SubjectNodeCordoned(name), hermes.NodeEvent{Name: name, Timestamp: time.Now()})
}

func (b *Broker) Uncordon(ctx context.Context, name string) {
	b.cordonedMu.Lock()
	delete(b.cordoned, name)
	n := len(b.cordoned)
	b.cordonedMu.Unlock()

	b.metrics.SetCordoned(n)
	b.publish(ctx, hermes.SubjectNodeUncordoned(name), hermes.NodeEvent{Name: name, Timestamp: time.Now()})
}

func (b *Broker) IsCordoned(name string) bool {
	b.cordonedMu.RLock()
	defer b.cordonedMu.RUnlock()
	return b.cordoned[name]
}

// Cordoned returns the cordoned node names in sorted order.
func (b *Broker) Cordoned() []string {
	b.cordonedMu.RLock()
	names := make([]string, 0, len(b.cordoned))
	for name := range b.cordoned {
		names = append(names, name)
	}
	b.cordonedMu.RUnlock()
	sort.Strings(names)
	return names
}

// RecordNode validates and stores a usage snapshot.
func (b *Broker) RecordNode(ctx context.Context, usage placement.NodeUsage, source string) (*store.Node, error) {
	if err := usage.Validate(); err != nil {
		return nil, err
	}
	node, err := b.store.UpsertNode(ctx, usage)
	if err != nil {
		return nil, fmt.Errorf("upsert node %s: %w", usage.Name, err)
	}
	b.publish(ctx, hermes.SubjectNodeUpdated(usage.Name), hermes.NodeEvent{
		Name:      usage.Name,
		Usage:     &usage,
		Source:    source,
		Timestamp: node.UpdatedAt,
	})
	return node, nil
}

func (b *Broker) DeleteNode(ctx context.Context, name string) error {
	if err := b.store.DeleteNode(ctx, name); err != nil {
		return err
	}
	if b.IsCordoned(name) {
		b.Uncordon(ctx, name)
	}
	b.publish(ctx, hermes.SubjectNodeDeleted(name), hermes.NodeEvent{Name: name, Timestamp: time.Now()})
	return nil
}

// Candidates returns stored nodes that are not cordoned.
func (b *Broker) Candidates(ctx context.Context) ([]placement.NodeUsage, error) {
	nodes, err := b.store.ListNodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}
	b.metrics.SetNodes(len(nodes))

	out := make([]placement.NodeUsage, 0, len(nodes))
	for _, n := range store.Usages(nodes) {
		if b.IsCordoned(n.Name) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// Place scores candidate nodes for req.Service and publishes the outcome.
func (b *Broker) Place(ctx context.Context, req PlacementRequest) (*PlacementResult, error) {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	nodes := req.Nodes
	if len(nodes) == 0 {
		candidates, err := b.Candidates(ctx)
		if err != nil {
			return nil, err
		}
		nodes = candidates
	}
	if len(nodes) == 0 {
		b.fail(ctx, req.RequestID, ErrNoCandidates)
		return nil, ErrNoCandidates
	}

	start := time.Now()
	scores, err := b.scorer.ScoreNodesToStartService(nodes, req.Service)
	if err != nil {
		outcome := metrics.OutcomeError
		if placement.IsInvalidInput(err) {
			outcome = metrics.OutcomeInvalid
		}
		b.metrics.ObserveScoring("placement", outcome, len(nodes), time.Since(start))
		b.fail(ctx, req.RequestID, err)
		return nil, err
	}
	b.metrics.ObserveScoring("placement", metrics.OutcomeSuccess, len(nodes), time.Since(start))

	result := &PlacementResult{
		RequestID: req.RequestID,
		Scores:    scores,
		Best:      placement.Best(scores).Name,
	}
	b.logger.Info("placement scored", "request_id", result.RequestID, "nodes", len(scores), "best", result.Best)
	b.publish(ctx, hermes.SubjectPlacementScored(result.RequestID), hermes.PlacementScoredEvent{
		RequestID: result.RequestID,
		Scores:    result.Scores,
		Best:      result.Best,
		Timestamp: time.Now(),
	})
	return result, nil
}

// SetupSubscriptions answers placement requests arriving over NATS.
func (b *Broker) SetupSubscriptions() {
	if b.hermes == nil {
		return
	}
	err := b.hermes.Subscribe(hermes.SubjectPlacementRequest, func(subject string, data []byte) {
		var ev hermes.PlacementRequestEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			b.logger.Warn("invalid placement request", "subject", subject, "error", err)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if _, err := b.Place(ctx, PlacementRequest{RequestID: ev.RequestID, Service: ev.Service, Nodes: ev.Nodes}); err != nil {
			b.logger.Warn("placement request failed", "request_id", ev.RequestID, "error", err)
		}
	})
	if err != nil {
		b.logger.Error("failed to subscribe", "subject", hermes.SubjectPlacementRequest, "error", err)
	}
}

func (b *Broker) fail(ctx context.Context, requestID string, err error) {
	b.publish(ctx, hermes.SubjectPlacementFailed(requestID), hermes.PlacementFailedEvent{
		RequestID: requestID,
		Error:     err.Error(),
		Timestamp: time.Now(),
	})
}

func (b *Broker) publish(ctx context.Context, subject string, data interface{}) {
	if b.hermes == nil {
		return
	}
	if err := b.hermes.Publish(ctx, subject, data); err != nil {
		b.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}
