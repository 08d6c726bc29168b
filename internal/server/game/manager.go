package game

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"shogi/internal/shogi"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrIllegalMove  = errors.New("move leaves own king in check")
)

type Manager struct {
	mu    sync.RWMutex
	games map[string]*Game
}

func NewManager() *Manager {
	return &Manager{games: make(map[string]*Game)}
}

// NewGame sfen 为空时从平手初始局面开始
func (m *Manager) NewGame(sfen string) (*Game, error) {
	pos := shogi.NewInitialPosition()
	if sfen != "" {
		var err error
		if pos, err = shogi.DecodePosition(sfen); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	g := &Game{
		ID:        uuid.NewString(),
		Pos:       pos,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.mu.Lock()
	m.games[g.ID] = g
	m.mu.Unlock()
	return g, nil
}

func (m *Manager) Get(id string) (*Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[id]; !ok {
		return ErrGameNotFound
	}
	delete(m.games, id)
	return nil
}

// Prune 删除 maxIdle 内没有动过的对局，返回删除数
func (m *Manager) Prune(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, g := range m.games {
		g.mu.Lock()
		idle := g.UpdatedAt.Before(cutoff)
		g.mu.Unlock()
		if idle {
			delete(m.games, id)
			n++
		}
	}
	return n
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}
