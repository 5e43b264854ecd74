package router

import (
	"net/http"

	"github.com/food-menu-pos/api/internal/catalog"
	"github.com/food-menu-pos/api/internal/config"
	"github.com/food-menu-pos/api/internal/enum"
	"github.com/food-menu-pos/api/internal/handler"
	mw "github.com/food-menu-pos/api/internal/middleware"
	"github.com/food-menu-pos/api/internal/session"
	"github.com/food-menu-pos/api/internal/settings"
	"github.com/food-menu-pos/api/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Services are the long-lived components the routes are served from.
type Services struct {
	Checker  handler.CredentialChecker
	Catalog  *catalog.Store
	Settings *settings.Store
	Sessions *session.Manager
	Hub      *ws.Hub
}

// New creates a Chi router with all application routes wired up.
// Applies authentication and role-based middleware as needed.
func New(cfg *config.Config, log *zap.Logger, svc Services) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(mw.RequestLogger(log))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	authHandler := handler.NewAuthHandler(svc.Checker, svc.Sessions, svc.Settings, svc.Hub, cfg.JWTSecret, cfg.SessionTTL, log)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	sessionOpen := ws.SessionCheckerFunc(func(id uuid.UUID) bool {
		_, err := svc.Sessions.Get(id)
		return err == nil
	})
	r.Get("/ws/session", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(svc.Hub, cfg.JWTSecret, sessionOpen, w, r)
	})

	menuHandler := handler.NewMenuHandler(svc.Catalog, svc.Hub, log)
	cartHandler := handler.NewCartHandler(svc.Catalog, svc.Settings, svc.Hub, log)
	settingsHandler := handler.NewSettingsHandler(svc.Settings, svc.Hub, log)

	// Protected routes (require an open session)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret, svc.Sessions))

		authHandler.RegisterSessionRoutes(r)
		r.Route("/cart", cartHandler.RegisterRoutes)

		r.Route("/menu", func(r chi.Router) {
			menuHandler.RegisterRoutes(r)
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.RoleAdmin))
				menuHandler.RegisterAdminRoutes(r)
			})
		})

		r.Route("/settings", func(r chi.Router) {
			settingsHandler.RegisterRoutes(r)
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.RoleAdmin))
				settingsHandler.RegisterAdminRoutes(r)
			})
		})
	})

	log.Info("router initialized")
	return r
}
