package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jaminalder/tic-tac-toe-history/internal/domain"
)

// Errors exposed by the service layer.
var (
	ErrNotFound = errors.New("game not found")
)

// session is the in-memory state tracked per game.
type session struct {
	id      string
	game    *domain.Game
	created time.Time
	updated time.Time
}

// SessionView is a read-only snapshot of a session, taken under the lock.
type SessionView struct {
	ID      string
	Board   domain.Board
	Outcome domain.Outcome
	Next    domain.Cell
	Move    int
	Moves   int
	CanUndo bool
	CanRedo bool
	Created time.Time
	Updated time.Time
}

// Status is the line shown above the board.
func (v SessionView) Status() string { return v.Outcome.Status(v.Next) }

// Won is true when the current board holds a completed line.
func (v SessionView) Won() bool { return v.Outcome.Result == domain.Win }

func (s *session) view() SessionView {
	g := s.game
	return SessionView{
		ID:      s.id,
		Board:   g.Current(),
		Outcome: g.Outcome(),
		Next:    g.NextMark(),
		Move:    g.CurrentMove(),
		Moves:   g.Len(),
		CanUndo: g.CanUndo(),
		CanRedo: g.CanRedo(),
		Created: s.created,
		Updated: s.updated,
	}
}

type subscriber struct {
	ch        chan []byte
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service manages games and subscribers. Every state change is rendered
// once and pushed to the game's subscribers; rejected moves are not.
type Service struct {
	mu     sync.Mutex
	games  map[string]*session
	subs   map[string]map[*subscriber]struct{}
	render func(SessionView) []byte
	log    *slog.Logger
	ttl    time.Duration
	now    func() time.Time
}

// NewService creates a service with a default renderer (encodes nothing useful).
func NewService() *Service { return NewServiceWithRenderer(nil) }

// NewServiceWithRenderer allows injecting a renderer for broadcast payloads.
func NewServiceWithRenderer(renderer func(SessionView) []byte) *Service {
	if renderer == nil {
		renderer = func(SessionView) []byte { return nil }
	}
	return &Service{
		games:  make(map[string]*session),
		subs:   make(map[string]map[*subscriber]struct{}),
		render: renderer,
		log:    slog.Default().With("component", "app"),
		now:    time.Now,
	}
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(SessionView) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if renderer == nil {
		s.render = func(SessionView) []byte { return nil }
		return
	}
	s.render = renderer
}

// SetLogger replaces the service logger.
func (s *Service) SetLogger(l *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = l.With("component", "app")
}

// SetTTL sets how long an untouched game survives a sweep. Zero disables eviction.
func (s *Service) SetTTL(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ttl = ttl
}

// CreateGame creates and registers a new game.
func (s *Service) CreateGame() (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	gs := &session{id: uuid.NewString(), game: domain.New(), created: now, updated: now}
	s.games[gs.id] = gs
	s.log.Info("game created", "game_id", gs.id)
	v := gs.view()
	return &v, nil
}

// Get returns a snapshot of the game if present.
func (s *Service) Get(id string) (*SessionView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return nil, false
	}
	v := gs.view()
	return &v, true
}

// Play places the next mark at cell i.
func (s *Service) Play(id string, i int) (*SessionView, error) {
	return s.apply(id, "play", func(g *domain.Game) error {
		if err := g.Play(i); err != nil {
			return fmt.Errorf("cell %d: %w", i, err)
		}
		return nil
	})
}

// Undo steps the game back one position.
func (s *Service) Undo(id string) (*SessionView, error) {
	return s.apply(id, "undo", (*domain.Game).Undo)
}

// Redo re-applies the most recently undone position.
func (s *Service) Redo(id string) (*SessionView, error) {
	return s.apply(id, "redo", (*domain.Game).Redo)
}

// Reset starts the game over with an empty board.
func (s *Service) Reset(id string) (*SessionView, error) {
	return s.apply(id, "reset", func(g *domain.Game) error {
		g.Reset()
		return nil
	})
}

// Delete removes a game and closes its subscribers.
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return ErrNotFound
	}
	s.removeLocked(id)
	s.log.Info("game deleted", "game_id", id)
	return nil
}

// apply runs op against the game and broadcasts the result. A rejected op
// returns the unchanged snapshot alongside the error.
func (s *Service) apply(id, name string, op func(*domain.Game) error) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := op(gs.game); err != nil {
		s.log.Debug("move rejected", "game_id", id, "op", name, "error", err)
		v := gs.view()
		return &v, err
	}
	gs.updated = s.now()

	v := gs.view()
	s.log.Debug("game updated", "game_id", id, "op", name, "move", v.Move, "status", v.Status())
	s.broadcastLocked(id, s.render(v))
	return &v, nil
}

// broadcastLocked closes and drops any subscriber whose buffer is full.
// Subscriber channels are only sent on and closed while s.mu is held.
func (s *Service) broadcastLocked(id string, payload []byte) {
	dropped := 0
	for sub := range s.subs[id] {
		select {
		case sub.ch <- payload:
		default:
			sub.close()
			delete(s.subs[id], sub)
			dropped++
		}
	}
	if dropped > 0 {
		s.log.Warn("dropped slow subscribers", "game_id", id, "count", dropped)
	}
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return nil, nil, ErrNotFound
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan []byte, 1)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub, nil
}

// Sweep evicts games not updated within the TTL and returns how many went.
func (s *Service) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)
	n := 0
	for id, gs := range s.games {
		if gs.updated.Before(cutoff) {
			s.removeLocked(id)
			n++
		}
	}
	if n > 0 {
		s.log.Info("swept idle games", "count", n)
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Service) RunSweeper(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Service) removeLocked(id string) {
	delete(s.games, id)
	for sub := range s.subs[id] {
		sub.close()
	}
	delete(s.subs, id)
}
