// game/manager.go
package game

import (
	"sync"
)

// Manager tracks every live game on the server.
type Manager struct {
	games map[string]*Game
	mutex sync.RWMutex
}

// NewManager creates an empty game registry.
func NewManager() *Manager {
	return &Manager{
		games: make(map[string]*Game),
	}
}

// CreateGame creates a game from cfg and registers it. The game removes
// itself when it is destroyed.
func (m *Manager) CreateGame(cfg Config) *Game {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	inner := cfg.OnDestroy
	cfg.OnDestroy = func(g *Game) {
		m.RemoveGame(g.Name())
		if inner != nil {
			inner(g)
		}
	}
	g := NewGame(cfg)
	m.games[g.Name()] = g
	return g
}

// RemoveGame drops a game from the registry.
func (m *Manager) RemoveGame(name string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.games, name)
}

// GetGame looks a game up by name.
func (m *Manager) GetGame(name string) (*Game, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	g, exists := m.games[name]
	return g, exists
}

// FindAvailableGame returns a game still waiting for players with a free
// seat, or nil.
func (m *Manager) FindAvailableGame() *Game {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, g := range m.games {
		g.mu.Lock()
		open := !g.started && g.countNonObservers() < MaxPlayers
		g.mu.Unlock()
		if open {
			return g
		}
	}
	return nil
}

// Count returns the number of registered games.
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.games)
}
