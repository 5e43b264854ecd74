package main

import (
	"context"
	"testing"

	"github.com/food-menu-pos/api/internal/kv"
	"github.com/food-menu-pos/api/internal/pricing"
	"github.com/food-menu-pos/api/internal/settings"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParsePresets(t *testing.T) {
	got, err := parsePresets("22, 18,20")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "22", got[0].String())

	got, err = parsePresets("[19,20,22]")
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = parsePresets("")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = parsePresets("18,abc")
	assert.ErrorIs(t, err, pricing.ErrInvalidPercent)
}

func TestSeed_WritesEveryKey(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryStore()
	store, err := settings.Load(ctx, backend, zap.NewNop())
	require.NoError(t, err)

	presets := []decimal.Decimal{decimal.NewFromInt(22), decimal.NewFromInt(18)}
	require.NoError(t, seed(ctx, store, decimal.RequireFromString("6.25"), presets, "Trattoria"))

	for key, want := range map[string]string{
		settings.KeySalesTax:   "6.25",
		settings.KeyTipOptions: "[18,22]",
		settings.KeyStoreName:  "Trattoria",
	} {
		v, ok, err := backend.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok, key)
		assert.Equal(t, want, v, key)
	}
}
