package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "placement"

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	scoringRequests *prometheus.CounterVec
	scoringDuration *prometheus.HistogramVec
	alternatives    prometheus.Histogram
	nodes           prometheus.Gauge
	cordoned        prometheus.Gauge
	inventorySyncs  *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer to
// expose them on the default /metrics handler.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		scoringRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scoring_requests_total",
			Help:      "Scoring calls by kind and outcome.",
		}, []string{"kind", "outcome"}),
		scoringDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scoring_duration_seconds",
			Help:      "Time spent scoring alternatives.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"kind"}),
		alternatives: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scoring_alternatives",
			Help:      "Number of alternatives per scoring call.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		nodes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "nodes",
			Help:      "Nodes in the inventory.",
		}),
		cordoned: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "nodes_cordoned",
			Help:      "Nodes excluded from placement.",
		}),
		inventorySyncs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventory_syncs_total",
			Help:      "Inventory sync runs by outcome.",
		}, []string{"outcome"}),
	}
}

// ObserveScoring records one scoring call of the given kind.
func (m *Metrics) ObserveScoring(kind, outcome string, alternatives int, elapsed time.Duration) {
	m.scoringRequests.WithLabelValues(kind, outcome).Inc()
	if outcome != OutcomeSuccess {
		return
	}
	m.scoringDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	m.alternatives.Observe(float64(alternatives))
}

func (m *Metrics) SetNodes(n int)    { m.nodes.Set(float64(n)) }
func (m *Metrics) SetCordoned(n int) { m.cordoned.Set(float64(n)) }

func (m *Metrics) InventorySync(outcome string) {
	m.inventorySyncs.WithLabelValues(outcome).Inc()
}
