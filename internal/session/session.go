package session

import (
	"errors"
	"sync"
	"time"

	"github.com/food-menu-pos/api/internal/cart"
	"github.com/food-menu-pos/api/internal/catalog"
	"github.com/food-menu-pos/api/internal/enum"
	"github.com/food-menu-pos/api/internal/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Session is one logged-in terminal. It owns its cart and tip selection.
type Session struct {
	ID        uuid.UUID
	Role      string
	CreatedAt time.Time
	ExpiresAt time.Time
	Cart      *cart.Cart

	mu  sync.Mutex
	tip pricing.TipSelection
}

func (s *Session) IsAdmin() bool { return s.Role == enum.RoleAdmin }

// Tip returns the active tip selection.
func (s *Session) Tip() pricing.TipSelection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tip
}

// SelectPresetTip activates a preset, clearing any custom tip.
// On error the previous selection is kept.
func (s *Session) SelectPresetTip(value decimal.Decimal, presets []decimal.Decimal) (pricing.TipSelection, error) {
	sel, err := pricing.SelectPreset(value, presets)
	if err != nil {
		return s.Tip(), err
	}
	s.mu.Lock()
	s.tip = sel
	s.mu.Unlock()
	return sel, nil
}

// SelectCustomTip activates a custom percent, clearing the preset selection.
// On error the previous selection is kept.
func (s *Session) SelectCustomTip(value decimal.Decimal) (pricing.TipSelection, error) {
	sel, err := pricing.SelectCustom(value)
	if err != nil {
		return s.Tip(), err
	}
	s.mu.Lock()
	s.tip = sel
	s.mu.Unlock()
	return sel, nil
}

// Manager tracks open sessions. Safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Open starts a session with an empty cart and the default tip for presets.
func (m *Manager) Open(role string, presets []decimal.Decimal) *Session {
	now := m.now()
	s := &Session{
		ID:        uuid.New(),
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
		Cart:      cart.New(),
		tip:       pricing.DefaultTip(presets),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns a live session.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok || !m.now().Before(s.ExpiresAt) {
		return nil, ErrNotFound
	}
	return s, nil
}

// Close ends a session and clears its cart. Unknown ids are ignored.
func (m *Manager) Close(id uuid.UUID) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.Cart.Clear()
	}
	return ok
}

// Sessions returns all live sessions.
func (m *Manager) Sessions() []*Session {
	now := m.now()
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		if now.Before(s.ExpiresAt) {
			out = append(out, s)
		}
	}
	return out
}

// Sweep closes expired sessions and returns their ids.
func (m *Manager) Sweep() []uuid.UUID {
	now := m.now()
	var expired []*Session

	m.mu.Lock()
	for id, s := range m.sessions {
		if !now.Before(s.ExpiresAt) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	ids := make([]uuid.UUID, len(expired))
	for i, s := range expired {
		s.Cart.Clear()
		ids[i] = s.ID
	}
	return ids
}

// ApplyCatalogEvent keeps every open cart consistent with the catalog:
// updated items are re-priced, removed items are dropped.
func (m *Manager) ApplyCatalogEvent(ev catalog.Event) {
	for _, s := range m.Sessions() {
		switch ev.Kind {
		case enum.CatalogItemUpdated:
			s.Cart.SyncItem(ev.Item)
		case enum.CatalogItemRemoved:
			s.Cart.Remove(ev.Item.ID)
		}
	}
}
