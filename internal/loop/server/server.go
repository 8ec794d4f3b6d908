// Package server is the session hub shared by every connected player.
// Each session runs its own simulation; the hub tracks who is connected,
// records finished games and publishes the leaderboard.
package server

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/tomz197/asteroids3d/internal/loop/config"
	"github.com/tomz197/asteroids3d/internal/scoreboard"
)

// storeTimeout bounds a single scoreboard call.
const storeTimeout = 5 * time.Second

// GameServer is the interface clients use to communicate with the hub.
// Decouples the Client from the concrete Server implementation.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	FinishGame(clientID int, result Result)
	TopScores() []scoreboard.Entry
}

// Server tracks connected sessions and owns the scoreboard.
type Server struct {
	store        scoreboard.Store
	logger       *log.Logger
	leaderboard  atomic.Pointer[[]scoreboard.Entry]
	clients      map[int]*ClientHandle
	nextClientID int
	registerCh   chan *ClientHandle
	unregisterCh chan int
	resultCh     chan finishedGame
	mu           sync.RWMutex

	sessionsStarted metric.Int64Counter
	gamesFinished   metric.Int64Counter
	asteroidsShot   metric.Int64Counter
	activeSessions  metric.Int64ObservableGauge
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID        int
	Username  string // Display name for this client
	Connected time.Time
	EventsCh  chan ClientEvent // Events sent to client (shutdown, high score)
}

// Result is the outcome of one game played by a client.
type Result struct {
	Score     int
	Survival  time.Duration
	Lives     int
	Destroyed int  // Asteroids shot
	GameOver  bool // False when the player quit mid-game
}

type finishedGame struct {
	clientID int
	username string
	result   Result
	at       time.Time
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type ClientEventType
	Rank int // 1-based leaderboard position, EventHighScore only
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
	EventHighScore                      // The finished game made the leaderboard
)

// NewServer creates a hub backed by store. Metrics go to the global
// OpenTelemetry provider, a no-op unless one is installed.
func NewServer(store scoreboard.Store, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		store:        store,
		logger:       logger,
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		registerCh:   make(chan *ClientHandle, 16),
		unregisterCh: make(chan int, 16),
		resultCh:     make(chan finishedGame, 16),
	}
	empty := []scoreboard.Entry{}
	s.leaderboard.Store(&empty)

	m := meter()
	var err error
	s.sessionsStarted, err = m.Int64Counter(
		"sessions.started",
		metric.WithDescription("Total sessions registered"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sessions counter: %w", err)
	}
	s.gamesFinished, err = m.Int64Counter(
		"games.finished",
		metric.WithDescription("Total games recorded on the scoreboard"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating games counter: %w", err)
	}
	s.asteroidsShot, err = m.Int64Counter(
		"asteroids.destroyed",
		metric.WithDescription("Total asteroids shot across all games"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating asteroids counter: %w", err)
	}
	s.activeSessions, err = m.Int64ObservableGauge(
		"sessions.active",
		metric.WithDescription("Currently connected sessions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating active sessions gauge: %w", err)
	}
	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			o.ObserveInt64(s.activeSessions, int64(s.Sessions()))
			return nil
		},
		s.activeSessions,
	)
	if err != nil {
		return nil, fmt.Errorf("registering sessions callback: %w", err)
	}

	return s, nil
}

// Run processes registrations and finished games. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	s.refreshLeaderboard(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case handle := <-s.registerCh:
			s.mu.Lock()
			s.clients[handle.ID] = handle
			s.mu.Unlock()
			s.sessionsStarted.Add(ctx, 1)
			s.logger.Info("session started", "id", handle.ID, "user", handle.Username)
		case clientID := <-s.unregisterCh:
			s.mu.Lock()
			handle, ok := s.clients[clientID]
			if ok {
				close(handle.EventsCh)
				delete(s.clients, clientID)
			}
			s.mu.Unlock()
			if ok {
				s.logger.Info("session ended", "id", clientID, "user", handle.Username,
					"duration", time.Since(handle.Connected).Round(time.Second))
			}
		case game := <-s.resultCh:
			s.recordGame(ctx, game)
		}
	}
}

// recordGame stores a finished game and republishes the leaderboard.
func (s *Server) recordGame(ctx context.Context, game finishedGame) {
	r := game.result
	outcome := "quit"
	if r.GameOver {
		outcome = "game_over"
	}
	s.gamesFinished.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	s.asteroidsShot.Add(ctx, int64(r.Destroyed))

	entry := scoreboard.Entry{
		Username:   game.username,
		Score:      r.Score,
		Survival:   r.Survival,
		Lives:      r.Lives,
		FinishedAt: game.at,
	}
	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	if err := s.store.Record(storeCtx, entry); err != nil {
		s.logger.Error("recording score failed", "user", game.username, "err", err)
		return
	}
	s.logger.Info("game finished", "user", game.username, "score", r.Score,
		"survival", r.Survival.Round(time.Second), "outcome", outcome)

	top := s.refreshLeaderboard(ctx)
	for i, e := range top {
		if e.Username == entry.Username && e.Score == entry.Score && e.FinishedAt.Equal(entry.FinishedAt) {
			s.notify(game.clientID, ClientEvent{Type: EventHighScore, Rank: i + 1})
			break
		}
	}
}

// refreshLeaderboard reloads the top scores into the published snapshot.
func (s *Server) refreshLeaderboard(ctx context.Context) []scoreboard.Entry {
	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	top, err := s.store.Top(storeCtx, config.LeaderboardSize)
	if err != nil {
		s.logger.Error("loading leaderboard failed", "err", err)
		return *s.leaderboard.Load()
	}
	s.leaderboard.Store(&top)
	return top
}

// notify sends an event to a client without blocking.
func (s *Server) notify(clientID int, event ClientEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if handle, ok := s.clients[clientID]; ok {
		select {
		case handle.EventsCh <- event:
		default:
		}
	}
}

// Shutdown gracefully shuts down the server by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// The caller should cancel the server context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			if s.Sessions() == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	id := s.nextClientID
	s.nextClientID++
	s.mu.Unlock()

	handle := &ClientHandle{
		ID:        id,
		Username:  username,
		Connected: time.Now(),
		EventsCh:  make(chan ClientEvent, 16),
	}

	s.registerCh <- handle
	return handle
}

// UnregisterClient removes a client from the server.
func (s *Server) UnregisterClient(clientID int) {
	s.unregisterCh <- clientID
}

// FinishGame queues a finished game for the scoreboard.
func (s *Server) FinishGame(clientID int, result Result) {
	s.mu.RLock()
	username := ""
	if handle, ok := s.clients[clientID]; ok {
		username = handle.Username
	}
	s.mu.RUnlock()

	s.resultCh <- finishedGame{
		clientID: clientID,
		username: username,
		result:   result,
		at:       time.Now(),
	}
}

// TopScores returns the latest leaderboard snapshot. Callers must not modify it.
func (s *Server) TopScores() []scoreboard.Entry {
	return *s.leaderboard.Load()
}

// Sessions returns the number of connected clients.
func (s *Server) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}
