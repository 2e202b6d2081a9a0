package layout

import (
	"sync"
	"time"

	"github.com/ems-portal/ems-portal/internal/navigation"
	"github.com/ems-portal/ems-portal/internal/shared"
)

// Manager hands out shells and owns the per-session loaders behind them.
type Manager struct {
	mu      sync.Mutex
	delay   time.Duration
	idleTTL time.Duration
	loaders map[string]*Loader
	now     func() time.Time
}

// NewManager constructs a Manager. Loaders idle for longer than idleTTL are
// dropped when new ones are created.
func NewManager(delay, idleTTL time.Duration) *Manager {
	return &Manager{
		delay:   delay,
		idleTTL: idleTTL,
		loaders: make(map[string]*Loader),
		now:     time.Now,
	}
}

// Open builds the shell for the session of the given role.
func (m *Manager) Open(sess *shared.Session, role navigation.Role, schoolID *int) *Shell {
	var loader *Loader
	if sess != nil {
		loader = m.loader(sess.ID)
	}
	return NewShell(navigation.ForRole(role, schoolID), LoadViewState(sess), loader)
}

// Save persists the shell's view state into the session.
func (m *Manager) Save(sess *shared.Session, shell *Shell) {
	if shell == nil {
		return
	}
	shell.state.Save(sess)
}

// Teardown stops and forgets the loader of sessionID.
func (m *Manager) Teardown(sessionID string) {
	m.mu.Lock()
	loader, ok := m.loaders[sessionID]
	delete(m.loaders, sessionID)
	m.mu.Unlock()
	if ok {
		loader.Stop()
	}
}

// Len reports how many sessions currently own a loader.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.loaders)
}

func (m *Manager) loader(sessionID string) *Loader {
	m.mu.Lock()
	defer m.mu.Unlock()
	if loader, ok := m.loaders[sessionID]; ok {
		return loader
	}
	m.sweepLocked()
	loader := NewLoader(m.delay)
	loader.now = m.now
	loader.lastUsed = m.now()
	m.loaders[sessionID] = loader
	return loader
}

func (m *Manager) sweepLocked() {
	if m.idleTTL <= 0 {
		return
	}
	cutoff := m.now().Add(-m.idleTTL)
	for id, loader := range m.loaders {
		lastUsed, loading := loader.idleSince()
		if !loading && lastUsed.Before(cutoff) {
			delete(m.loaders, id)
		}
	}
}
