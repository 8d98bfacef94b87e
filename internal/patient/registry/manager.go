package registry

import (
	"log/slog"
	"sync"

	"prontuario/internal/patient/metrics"
	"prontuario/internal/patient/store"
	id "prontuario/pkg/domain"
)

// Manager hands out one Registry per owner so handlers work against an
// explicitly owned store object instead of ambient state. Registries are
// created lazily on first touch, which only happens for authenticated
// identities.
type Manager struct {
	store   store.Store
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu         sync.Mutex
	registries map[id.UserID]*Registry
}

func NewManager(st store.Store, logger *slog.Logger, m *metrics.Metrics) *Manager {
	return &Manager{
		store:      st,
		logger:     logger,
		metrics:    m,
		registries: make(map[id.UserID]*Registry),
	}
}

// ForOwner returns the owner's registry, creating it on first use.
func (m *Manager) ForOwner(ownerID id.UserID) *Registry {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.registries[ownerID]; ok {
		return r
	}
	r := New(ownerID, m.store, m.logger, m.metrics)
	m.registries[ownerID] = r
	return r
}
