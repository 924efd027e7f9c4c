package web

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jaminalder/tic-tac-toe-history/internal/app"
	"github.com/jaminalder/tic-tac-toe-history/internal/domain"
)

type handlers struct {
	svc *app.Service
	tpl *templates
	log *slog.Logger
}

func (h *handlers) renderBoard(v app.SessionView, errMsg string) []byte {
	return renderTemplate(h.tpl.board, "", boardData{SessionView: v, Error: errMsg})
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderTemplate(h.tpl.index, "base", nil))
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.CreateGame()
	if err != nil {
		h.log.Error("create game", "error", err)
		http.Error(w, "failed to create", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.svc.Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderTemplate(h.tpl.game, "base", boardData{SessionView: *gs}))
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	i, err := strconv.Atoi(r.Form.Get("i"))
	if err != nil {
		i = -1
	}
	h.respond(w, r, func(id string) (*app.SessionView, error) { return h.svc.Play(id, i) })
}

func (h *handlers) undo(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.svc.Undo)
}

func (h *handlers) redo(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.svc.Redo)
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.svc.Reset)
}

// respond runs op and writes the board fragment. Rejected moves still
// answer 200 with the unchanged board and a short notice.
func (h *handlers) respond(w http.ResponseWriter, r *http.Request, op func(id string) (*app.SessionView, error)) {
	gs, err := op(chi.URLParam(r, "id"))
	if errors.Is(err, app.ErrNotFound) || gs == nil {
		http.NotFound(w, r)
		return
	}
	var errMsg string
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrOccupied):
		errMsg = "Cell is occupied"
	case errors.Is(err, domain.ErrOutOfBounds):
		errMsg = "Out of bounds"
	case errors.Is(err, domain.ErrGameOver):
		errMsg = "Game is over"
	case errors.Is(err, domain.ErrNothingToUndo):
		errMsg = "Nothing to undo"
	case errors.Is(err, domain.ErrNothingToRedo):
		errMsg = "Nothing to redo"
	default:
		errMsg = "Invalid move"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.renderBoard(*gs, errMsg))
}

var heartbeatInterval = 15 * time.Second

// SetHeartbeat changes the SSE keep-alive interval.
func SetHeartbeat(d time.Duration) {
	if d > 0 {
		heartbeatInterval = d
	}
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.svc.Get(id); !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	// In tests or non-EventSource requests, just acknowledge headers and return
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, unsub, err := h.svc.Subscribe(ctx, id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer unsub()
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case b, ok := <-ch:
			if !ok {
				return
			}
			writeEvent(w, "board", b)
			flusher.Flush()
		}
	}
}

// writeEvent emits one SSE event; every payload line gets its own data field.
func writeEvent(w io.Writer, name string, payload []byte) {
	_, _ = fmt.Fprintf(w, "event: %s\n", name)
	for _, line := range strings.Split(strings.TrimRight(string(payload), "\n"), "\n") {
		_, _ = fmt.Fprintf(w, "data: %s\n", line)
	}
	_, _ = io.WriteString(w, "\n")
}
