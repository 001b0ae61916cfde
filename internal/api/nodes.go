package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Placement/internal/broker"
	"github.com/MikeSquared-Agency/Placement/internal/placement"
	"github.com/MikeSquared-Agency/Placement/internal/store"
)

type nodeView struct {
	*store.Node
	Cordoned bool `json:"cordoned"`
}

type NodesHandler struct {
	store  store.Store
	broker *broker.Broker
}

func NewNodesHandler(s store.Store, b *broker.Broker) *NodesHandler {
	return &NodesHandler{store: s, broker: b}
}

func (h *NodesHandler) view(n *store.Node) nodeView {
	return nodeView{Node: n, Cordoned: h.broker.IsCordoned(n.Name)}
}

// GET /api/v1/nodes
func (h *NodesHandler) List(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.store.ListNodes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]nodeView, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, h.view(n))
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/v1/nodes/{name}
func (h *NodesHandler) Get(w http.ResponseWriter, r *http.Request) {
	node, err := h.store.GetNode(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(node))
}

// Put stores a usage snapshot. The path name wins over any name in the body.
// PUT /api/v1/nodes/{name}
func (h *NodesHandler) Put(w http.ResponseWriter, r *http.Request) {
	var usage placement.NodeUsage
	if !decodeJSON(w, r, &usage) {
		return
	}
	usage.Name = chi.URLParam(r, "name")

	node, err := h.broker.RecordNode(r.Context(), usage, "api")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(node))
}

// DELETE /api/v1/nodes/{name}
func (h *NodesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.broker.DeleteNode(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/nodes/{name}/cordon
func (h *NodesHandler) Cordon(w http.ResponseWriter, r *http.Request) {
	h.setCordon(w, r, true)
}

// POST /api/v1/nodes/{name}/uncordon
func (h *NodesHandler) Uncordon(w http.ResponseWriter, r *http.Request) {
	h.setCordon(w, r, false)
}

func (h *NodesHandler) setCordon(w http.ResponseWriter, r *http.Request, cordon bool) {
	node, err := h.store.GetNode(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	if cordon {
		h.broker.Cordon(r.Context(), node.Name)
	} else {
		h.broker.Uncordon(r.Context(), node.Name)
	}
	writeJSON(w, http.StatusOK, h.view(node))
}
