// Package scoreboard records finished games and serves the high-score table.
package scoreboard

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrClosed is returned by a store used after Close.
var ErrClosed = errors.New("scoreboard closed")

// Entry is one finished game.
type Entry struct {
	Username   string
	Score      int
	Survival   time.Duration
	Lives      int // Lives left when the game ended, 0 on game over
	FinishedAt time.Time
}

// Store persists entries and returns the best ones.
type Store interface {
	Record(ctx context.Context, e Entry) error
	// Top returns at most n entries ordered by score, then survival time,
	// then the earliest finish.
	Top(ctx context.Context, n int) ([]Entry, error)
	Close() error
}

// Less orders entries for the high-score table.
func Less(a, b Entry) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Survival != b.Survival {
		return a.Survival > b.Survival
	}
	return a.FinishedAt.Before(b.FinishedAt)
}

// MemoryStore keeps entries in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
	closed  bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Record(ctx context.Context, e Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *MemoryStore) Top(ctx context.Context, n int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	sort.SliceStable(out, func(i, j int) bool { return Less(out[i], out[j]) })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}
