package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/food-menu-pos/api/internal/config"
	"github.com/food-menu-pos/api/internal/kv"
	"github.com/food-menu-pos/api/internal/logger"
	"github.com/food-menu-pos/api/internal/pricing"
	"github.com/food-menu-pos/api/internal/settings"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// seed writes tax, tip presets and store name into the configured settings
// backend, so a fresh deployment starts from known values.
func main() {
	cfg := config.Load()

	// CLI flags
	backendName := flag.String("backend", cfg.SettingsBackend, "Settings backend: memory, file, postgres or redis")
	tax := flag.String("tax", settings.DefaultTaxPercent.String(), "Sales tax percent")
	tips := flag.String("tips", settings.EncodePresets(settings.DefaultTipPresets()), "Tip presets, e.g. 18,20,22")
	storeName := flag.String("store-name", settings.DefaultStoreName, "Store name shown in the header")
	flag.Parse()

	log := logger.New(cfg.Env, cfg.LogLevel)
	defer log.Sync()

	taxPercent, err := pricing.ParsePercent(*tax)
	if err != nil {
		log.Fatal("invalid -tax", zap.Error(err))
	}

	presets, err := parsePresets(*tips)
	if err != nil {
		log.Fatal("invalid -tips", zap.Error(err))
	}

	ctx := context.Background()
	backend, closeBackend, err := kv.Open(ctx, strings.ToLower(*backendName), kv.Options{
		FilePath:    cfg.SettingsFile,
		DatabaseURL: cfg.DatabaseURL,
		Redis: kv.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		},
	})
	if err != nil {
		log.Fatal("open settings backend", zap.Error(err))
	}
	defer closeBackend()

	store, err := settings.Load(ctx, backend, log)
	if err != nil {
		log.Fatal("load settings", zap.Error(err))
	}

	if err := seed(ctx, store, taxPercent, presets, *storeName); err != nil {
		closeBackend()
		log.Error("seed settings", zap.Error(err))
		os.Exit(1)
	}

	snap := store.Snapshot()
	log.Info("settings seeded",
		zap.String("backend", *backendName),
		zap.String("tax_percent", snap.TaxPercent.String()),
		zap.String("tip_presets", settings.EncodePresets(snap.TipPresets)),
		zap.String("store_name", snap.StoreName),
	)
}

func seed(ctx context.Context, store *settings.Store, tax decimal.Decimal, presets []decimal.Decimal, name string) error {
	if err := store.SetTaxPercent(ctx, tax); err != nil {
		return err
	}
	if err := store.SetTipPresets(ctx, presets); err != nil {
		return err
	}
	return store.SetStoreName(ctx, name)
}

// parsePresets accepts "18,20,22" as well as the stored form "[18,20,22]".
func parsePresets(raw string) ([]decimal.Decimal, error) {
	raw = strings.Trim(strings.TrimSpace(raw), "[]")
	if raw == "" {
		return nil, nil
	}

	var out []decimal.Decimal
	for _, part := range strings.Split(raw, ",") {
		v, err := pricing.ParsePercent(part)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
