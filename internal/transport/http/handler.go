package http

import (
	"encoding/json"
	"net/http"

	"github.com/quizline/realtime-service/internal/transport/ws"
)

type Handler struct {
	hub *ws.Hub
}

func NewHandler(hub *ws.Hub) *Handler {
	return &Handler{hub: hub}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// GET /rooms/occupancy — тот же снапшот, что уходит в users_response.
func (h *Handler) Occupancy(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"rooms": h.hub.Snapshot()})
}
