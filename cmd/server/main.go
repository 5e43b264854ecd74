package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/food-menu-pos/api/internal/auth"
	"github.com/food-menu-pos/api/internal/catalog"
	"github.com/food-menu-pos/api/internal/config"
	"github.com/food-menu-pos/api/internal/kv"
	"github.com/food-menu-pos/api/internal/logger"
	"github.com/food-menu-pos/api/internal/router"
	"github.com/food-menu-pos/api/internal/session"
	"github.com/food-menu-pos/api/internal/settings"
	"github.com/food-menu-pos/api/internal/ws"
	"go.uber.org/zap"
)

const sweepInterval = time.Minute

func main() {
	cfg := config.Load()

	log := logger.New(cfg.Env, cfg.LogLevel)
	defer log.Sync()

	log.Info("starting food menu pos api",
		zap.String("env", cfg.Env),
		zap.String("port", cfg.Port),
		zap.String("settings_backend", cfg.SettingsBackend),
	)

	ctx := context.Background()

	backend, closeBackend, err := kv.Open(ctx, cfg.SettingsBackend, kv.Options{
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

	settingsStore, err := settings.Load(ctx, backend, log.Named("settings"))
	if err != nil {
		log.Fatal("load settings", zap.Error(err))
	}

	checker, err := auth.NewChecker()
	if err != nil {
		log.Fatal("hash credentials", zap.Error(err))
	}

	hub := ws.NewHub(log.Named("ws"))
	go hub.Run()

	menu := catalog.NewDefault()
	sessions := session.NewManager(cfg.SessionTTL)
	menu.Subscribe(sessions.ApplyCatalogEvent)

	r := router.New(cfg, log, router.Services{
		Checker:  checker,
		Catalog:  menu,
		Settings: settingsStore,
		Sessions: sessions,
		Hub:      hub,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	go sweepSessions(sweepCtx, sessions, hub, log)

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	stopSweep()
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	hub.Stop()

	log.Info("server exited")
}

// sweepSessions closes expired sessions and disconnects their sockets.
func sweepSessions(ctx context.Context, sessions *session.Manager, hub *ws.Hub, log *zap.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired := sessions.Sweep()
			for _, id := range expired {
				hub.CloseSession(id)
			}
			if len(expired) > 0 {
				log.Info("expired sessions closed", zap.Int("count", len(expired)))
			}
		}
	}
}
