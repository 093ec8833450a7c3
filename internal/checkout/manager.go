package checkout

import (
	"sync"
	"time"
)

const (
	// DefaultIdleTTL is how long an untouched session survives.
	DefaultIdleTTL = 30 * time.Minute

	sweepInterval = time.Minute
)

// Manager is the in-memory session registry. Abandoned sessions are swept by
// a background loop after the idle TTL.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	idleTTL  time.Duration

	stopSweep chan struct{}
	wg        sync.WaitGroup
}

func NewManager(idleTTL time.Duration) *Manager {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	m := &Manager{
		sessions:  make(map[string]*Session),
		idleTTL:   idleTTL,
		stopSweep: make(chan struct{}),
	}

	m.wg.Add(1)
	go m.sweepLoop()

	return m
}

func (m *Manager) sweepLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-m.stopSweep:
			return
		}
	}
}

func (m *Manager) sweep() {
	cutoff := time.Now().Add(-m.idleTTL)

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := s.lastActive.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(m.sessions, id)
		}
	}
}

func (m *Manager) add(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
}

// Get returns the live session and refreshes its idle clock.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	s.mu.Lock()
	s.touch()
	s.mu.Unlock()
	return s, nil
}

// Delete drops the session from the registry.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Close stops the sweep loop and waits for it to finish.
func (m *Manager) Close() {
	close(m.stopSweep)
	m.wg.Wait()
}
