package http

import (
	"net/http"
	"time"

	"github.com/quizline/realtime-service/internal/transport/ws"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewareChi.RequestID)
	r.Use(middlewareChi.RealIP)
	r.Use(middlewareChi.Recoverer)

	// WS endpoint без лог-обёртки: upgrade требует Hijacker,
	// а statusWriter его прячет
	r.Get("/ws", wsServer.HandleWS)

	r.Group(func(pr chi.Router) {
		pr.Use(WithRequestLoggerCtx)
		pr.Use(RequestLogger)
		pr.Use(middlewareChi.Timeout(10 * time.Second))

		pr.Get("/rooms/occupancy", h.Occupancy)
	})

	// health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
