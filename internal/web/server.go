package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jaminalder/tic-tac-toe-history/internal/app"
)

// NewServer wires routes and returns an http.Handler. It also installs the
// board fragment as the service's broadcast renderer.
func NewServer(s *app.Service, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	h := &handlers{svc: s, tpl: loadTemplates(), log: log.With("component", "web")}
	s.SetRenderer(func(v app.SessionView) []byte { return h.renderBoard(v, "") })

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(h.log))
	r.Use(middleware.Recoverer)

	r.Get("/", h.index)
	r.Get("/healthz", h.health)
	r.Post("/game", h.create)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", h.view)
		r.Post("/play", h.play)
		r.Post("/undo", h.undo)
		r.Post("/redo", h.redo)
		r.Post("/reset", h.reset)
		r.Get("/events", h.events)
	})
	return r
}
