package server

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/asteroids3d/internal/scoreboard"
)

func startServer(t *testing.T, store scoreboard.Store) *Server {
	t.Helper()
	s, err := NewServer(store, log.New(io.Discard))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return s
}

func waitSessions(t *testing.T, s *Server, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return s.Sessions() == n }, time.Second, 5*time.Millisecond)
}

func TestRegisterAndUnregister(t *testing.T) {
	s := startServer(t, scoreboard.NewMemoryStore())

	a := s.RegisterClient("alice")
	b := s.RegisterClient("bob")
	assert.NotEqual(t, a.ID, b.ID)
	waitSessions(t, s, 2)

	s.UnregisterClient(a.ID)
	waitSessions(t, s, 1)

	_, open := <-a.EventsCh
	assert.False(t, open, "events channel is closed on unregister")
}

func TestFinishGameUpdatesLeaderboard(t *testing.T) {
	store := scoreboard.NewMemoryStore()
	s := startServer(t, store)
	h := s.RegisterClient("alice")
	waitSessions(t, s, 1)

	s.FinishGame(h.ID, Result{Score: 420, Survival: 90 * time.Second, GameOver: true, Destroyed: 12})

	require.Eventually(t, func() bool { return len(s.TopScores()) == 1 }, time.Second, 5*time.Millisecond)
	top := s.TopScores()
	assert.Equal(t, "alice", top[0].Username)
	assert.Equal(t, 420, top[0].Score)
	assert.Equal(t, 90*time.Second, top[0].Survival)

	select {
	case ev := <-h.EventsCh:
		assert.Equal(t, EventHighScore, ev.Type)
		assert.Equal(t, 1, ev.Rank)
	case <-time.After(time.Second):
		t.Fatal("no high score event")
	}

	stored, err := store.Top(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestLeaderboardLoadedOnStart(t *testing.T) {
	store := scoreboard.NewMemoryStore()
	require.NoError(t, store.Record(context.Background(), scoreboard.Entry{Username: "old", Score: 7}))

	s := startServer(t, store)
	require.Eventually(t, func() bool { return len(s.TopScores()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "old", s.TopScores()[0].Username)
}

func TestShutdownNotifiesClients(t *testing.T) {
	s := startServer(t, scoreboard.NewMemoryStore())
	h := s.RegisterClient("alice")
	waitSessions(t, s, 1)

	go func() {
		ev := <-h.EventsCh
		if ev.Type == EventServerShutdown {
			s.UnregisterClient(h.ID)
		}
	}()

	start := time.Now()
	s.Shutdown(5 * time.Second)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Zero(t, s.Sessions())
}

func TestShutdownTimesOut(t *testing.T) {
	s := startServer(t, scoreboard.NewMemoryStore())
	s.RegisterClient("stubborn")
	waitSessions(t, s, 1)

	start := time.Now()
	s.Shutdown(300 * time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 300*time.Millisecond)
	assert.Equal(t, 1, s.Sessions())
}
