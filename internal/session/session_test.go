package session

import (
	"testing"
	"time"

	"github.com/food-menu-pos/api/internal/catalog"
	"github.com/food-menu-pos/api/internal/enum"
	"github.com/food-menu-pos/api/internal/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var defaultPresets = []decimal.Decimal{dec("19"), dec("20"), dec("22")}

func TestOpen_StartsWithEmptyCartAndMiddlePreset(t *testing.T) {
	m := NewManager(time.Hour)
	s := m.Open(enum.RoleStore, defaultPresets)

	assert.Equal(t, 0, s.Cart.Len())
	assert.False(t, s.IsAdmin())
	tip := s.Tip()
	assert.True(t, tip.IsPreset())
	assert.True(t, tip.Effective().Equal(dec("20")))

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)
}

func TestOpen_SessionsOwnSeparateCarts(t *testing.T) {
	m := NewManager(time.Hour)
	a := m.Open(enum.RoleStore, defaultPresets)
	b := m.Open(enum.RoleAdmin, defaultPresets)

	a.Cart.Add(catalog.MenuItem{ID: "1", Price: dec("1")})

	assert.Equal(t, 1, a.Cart.Len())
	assert.Equal(t, 0, b.Cart.Len())
	assert.True(t, b.IsAdmin())
}

func TestClose_ClearsCart(t *testing.T) {
	m := NewManager(time.Hour)
	s := m.Open(enum.RoleStore, defaultPresets)
	s.Cart.Add(catalog.MenuItem{ID: "1", Price: dec("4.99")})

	assert.True(t, m.Close(s.ID))
	assert.Equal(t, 0, s.Cart.Len())
	_, err := m.Get(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, m.Close(s.ID))
}

func TestGet_Unknown(t *testing.T) {
	m := NewManager(time.Hour)
	_, err := m.Get(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExpiryAndSweep(t *testing.T) {
	m := NewManager(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	old := m.Open(enum.RoleStore, defaultPresets)
	now = now.Add(30 * time.Second)
	fresh := m.Open(enum.RoleStore, defaultPresets)
	now = now.Add(45 * time.Second)

	_, err := m.Get(old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, m.Sessions(), 1)

	swept := m.Sweep()
	assert.Equal(t, []uuid.UUID{old.ID}, swept)
	_, err = m.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestGet_DoesNotExtendLifetime(t *testing.T) {
	m := NewManager(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	s := m.Open(enum.RoleStore, defaultPresets)
	expires := s.ExpiresAt
	for i := 0; i < 5; i++ {
		now = now.Add(10 * time.Second)
		_, err := m.Get(s.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, expires, s.ExpiresAt)

	now = expires
	_, err := m.Get(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTipSelection_MutuallyExclusive(t *testing.T) {
	m := NewManager(time.Hour)
	s := m.Open(enum.RoleStore, defaultPresets)

	sel, err := s.SelectCustomTip(dec("12.5"))
	require.NoError(t, err)
	assert.True(t, sel.IsCustom())
	_, hasPreset := s.Tip().PresetValue()
	assert.False(t, hasPreset)

	sel, err = s.SelectPresetTip(dec("19"), defaultPresets)
	require.NoError(t, err)
	assert.True(t, sel.IsPreset())
	_, hasCustom := s.Tip().CustomValue()
	assert.False(t, hasCustom)
}

func TestTipSelection_InvalidKeepsPrevious(t *testing.T) {
	m := NewManager(time.Hour)
	s := m.Open(enum.RoleStore, defaultPresets)

	_, err := s.SelectCustomTip(dec("-1"))
	assert.ErrorIs(t, err, pricing.ErrInvalidPercent)
	_, err = s.SelectPresetTip(dec("21"), defaultPresets)
	assert.ErrorIs(t, err, pricing.ErrInvalidPercent)

	assert.True(t, s.Tip().Effective().Equal(dec("20")))
}

func TestApplyCatalogEvent(t *testing.T) {
	m := NewManager(time.Hour)
	s := m.Open(enum.RoleStore, defaultPresets)
	s.Cart.Add(catalog.MenuItem{ID: "1", Price: dec("10")})
	s.Cart.Add(catalog.MenuItem{ID: "2", Price: dec("5")})

	m.ApplyCatalogEvent(catalog.Event{Kind: enum.CatalogItemUpdated, Item: catalog.MenuItem{ID: "1", Price: dec("11")}})
	assert.True(t, s.Cart.Subtotal().Equal(dec("16")))

	m.ApplyCatalogEvent(catalog.Event{Kind: enum.CatalogItemRemoved, Item: catalog.MenuItem{ID: "2"}})
	assert.Equal(t, 1, s.Cart.Len())

	m.ApplyCatalogEvent(catalog.Event{Kind: enum.CatalogItemAdded, Item: catalog.MenuItem{ID: "3"}})
	assert.Equal(t, 1, s.Cart.Len())
}
