// internal/store/memory.go
//
// In-memory store for live games.
//
// Characteristics:
//   - *game.Game values keyed by ID, guarded by an RWMutex.
//   - Sweep drops games created before a cutoff so abandoned sessions
//     do not accumulate; the server calls it on a ticker.
//   - State is lost when the process restarts; finished games are
//     recorded separately in the SQLite Records store.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/matheusvictorello/termo-solver/internal/game"
)

// ErrNotFound is returned by Get for unknown game IDs.
var ErrNotFound = errors.New("game not found")

// Store defines the persistence interface for live games.
type Store interface {
	Save(ctx context.Context, g *game.Game) error
	Get(ctx context.Context, id string) (*game.Game, error)
	Delete(ctx context.Context, id string) error
}

// Memory is the map-backed Store.
type Memory struct {
	mu    sync.RWMutex
	games map[string]*game.Game
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *Memory {
	return &Memory{games: make(map[string]*game.Game)}
}

func (m *Memory) Save(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = g
	return nil
}

func (m *Memory) Get(ctx context.Context, id string) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[id]; ok {
		return g, nil
	}
	return nil, ErrNotFound
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, id)
	return nil
}

// Sweep removes games created before cutoff and returns how many it removed.
func (m *Memory) Sweep(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, g := range m.games {
		if g.CreatedAt.Before(cutoff) {
			delete(m.games, id)
			n++
		}
	}
	return n
}

// Len returns the number of live games.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}
