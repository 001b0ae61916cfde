package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/Placement/internal/broker"
)

type PlacementHandler struct {
	broker *broker.Broker
}

func NewPlacementHandler(b *broker.Broker) *PlacementHandler {
	return &PlacementHandler{broker: b}
}

// Score ranks nodes for starting a service.
// POST /api/v1/placement/score
func (h *PlacementHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req broker.PlacementRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RequestID == "" {
		req.RequestID = r.Header.Get("X-Request-ID")
	}

	result, err := h.broker.Place(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
