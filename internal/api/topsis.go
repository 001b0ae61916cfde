package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/MikeSquared-Agency/Placement/internal/metrics"
	"github.com/MikeSquared-Agency/Placement/internal/topsis"
)

type criterionRequest struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

type evaluateRequest struct {
	Criteria []criterionRequest `json:"criteria"`
	Matrix   [][]float64        `json:"matrix"`
}

type scoreResponse struct {
	Scores []float64 `json:"scores"`
}

type explainResponse struct {
	*topsis.Evaluation
	ParetoFront []int `json:"pareto_front"`
}

type rankResponse struct {
	Ranking []int     `json:"ranking"`
	Scores  []float64 `json:"scores"`
}

// TopsisHandler exposes the raw engine for arbitrary criteria.
type TopsisHandler struct {
	metrics *metrics.Metrics
}

func NewTopsisHandler(m *metrics.Metrics) *TopsisHandler {
	return &TopsisHandler{metrics: m}
}

// Score returns closeness scores in row order.
// POST /api/v1/topsis/score
func (h *TopsisHandler) Score(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.evaluate(w, r, "score")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{Scores: ev.Scores})
}

// Rank returns row indices ordered best first.
// POST /api/v1/topsis/rank
func (h *TopsisHandler) Rank(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.evaluate(w, r, "rank")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rankResponse{Ranking: topsis.Rank(ev.Scores), Scores: ev.Scores})
}

// Explain returns every intermediate step of the evaluation and the
// non-dominated alternatives.
// POST /api/v1/topsis/explain
func (h *TopsisHandler) Explain(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	var front []int
	ev, ok := h.observe(w, "explain", len(req.Matrix), func() (*topsis.Evaluation, error) {
		m, c, err := parseEvaluateRequest(req)
		if err != nil {
			return nil, err
		}
		if front, err = topsis.ParetoFront(m, c); err != nil {
			return nil, err
		}
		return topsis.Evaluate(m, c)
	})
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, explainResponse{Evaluation: ev, ParetoFront: front})
}

func (h *TopsisHandler) evaluate(w http.ResponseWriter, r *http.Request, kind string) (*topsis.Evaluation, bool) {
	var req evaluateRequest
	if !decodeJSON(w, r, &req) {
		return nil, false
	}
	return h.observe(w, kind, len(req.Matrix), func() (*topsis.Evaluation, error) {
		m, c, err := parseEvaluateRequest(req)
		if err != nil {
			return nil, err
		}
		return topsis.Evaluate(m, c)
	})
}

// observe runs fn, records its outcome and writes any error response.
func (h *TopsisHandler) observe(w http.ResponseWriter, kind string, n int, fn func() (*topsis.Evaluation, error)) (*topsis.Evaluation, bool) {
	start := time.Now()
	ev, err := fn()
	if err != nil {
		outcome := metrics.OutcomeError
		if topsis.IsInputError(err) {
			outcome = metrics.OutcomeInvalid
		}
		h.metrics.ObserveScoring(kind, outcome, n, time.Since(start))
		writeError(w, err)
		return nil, false
	}
	h.metrics.ObserveScoring(kind, metrics.OutcomeSuccess, n, time.Since(start))
	return ev, true
}

func parseEvaluateRequest(req evaluateRequest) (*topsis.Matrix, topsis.Criteria, error) {
	cs := make([]topsis.Criterion, 0, len(req.Criteria))
	for i, c := range req.Criteria {
		crit, err := topsis.NewCriterion(c.Name, c.Weight)
		if err != nil {
			return nil, topsis.Criteria{}, fmt.Errorf("criterion %d: %w", i, err)
		}
		cs = append(cs, crit)
	}
	criteria, err := topsis.NewCriteria(cs...)
	if err != nil {
		return nil, topsis.Criteria{}, err
	}
	m, err := topsis.NewMatrix(req.Matrix)
	if err != nil {
		return nil, topsis.Criteria{}, err
	}
	return m, criteria, nil
}
