package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/food-menu-pos/api/internal/enum"
	"github.com/food-menu-pos/api/internal/pricing"
	"github.com/food-menu-pos/api/internal/settings"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SettingsStore defines the settings methods needed by settings handlers.
// Satisfied by *settings.Store.
type SettingsStore interface {
	Snapshot() settings.Snapshot
	SetTaxPercent(ctx context.Context, tax decimal.Decimal) error
	AddTipPreset(ctx context.Context, value decimal.Decimal) (bool, error)
	RemoveTipPreset(ctx context.Context, value decimal.Decimal) (bool, error)
	SetTipPresets(ctx context.Context, values []decimal.Decimal) error
	SetStoreName(ctx context.Context, name string) error
	SetTheme(ctx context.Context, th settings.Theme) error
}

// SettingsHandler exposes tax, tip presets, store name and theme.
type SettingsHandler struct {
	store SettingsStore
	hub   Broadcaster
	log   *zap.Logger
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(store SettingsStore, hub Broadcaster, log *zap.Logger) *SettingsHandler {
	return &SettingsHandler{store: store, hub: hub, log: log}
}

// RegisterRoutes registers read access to settings. Mounted at /settings.
func (h *SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
}

// RegisterAdminRoutes registers settings mutations. Mounted at /settings
// behind the admin role check.
func (h *SettingsHandler) RegisterAdminRoutes(r chi.Router) {
	r.Put("/tax", h.SetTax)
	r.Put("/tips", h.ReplaceTips)
	r.Post("/tips", h.AddTip)
	r.Delete("/tips/{value}", h.RemoveTip)
	r.Put("/store-name", h.SetStoreName)
	r.Put("/theme", h.SetTheme)
}

// --- Request / Response types ---

type taxRequest struct {
	TaxPercent json.RawMessage `json:"tax_percent"`
}

type tipPresetRequest struct {
	Value json.RawMessage `json:"value"`
}

type tipPresetsRequest struct {
	Presets []json.RawMessage `json:"presets"`
}

type storeNameRequest struct {
	StoreName string `json:"store_name"`
}

type settingsResponse struct {
	TaxPercent string         `json:"tax_percent"`
	TipPresets []string       `json:"tip_presets"`
	StoreName  string         `json:"store_name"`
	Theme      settings.Theme `json:"theme"`
}

func toSettingsResponse(s settings.Snapshot) settingsResponse {
	return settingsResponse{
		TaxPercent: s.TaxPercent.String(),
		TipPresets: presetStrings(s.TipPresets),
		StoreName:  s.StoreName,
		Theme:      s.Theme,
	}
}

// --- Handlers ---

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toSettingsResponse(h.store.Snapshot()))
}

func (h *SettingsHandler) SetTax(w http.ResponseWriter, r *http.Request) {
	var req taxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tax, err := percentFromJSON(req.TaxPercent)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respond(w, h.store.SetTaxPercent(r.Context(), tax))
}

// ReplaceTips replaces the whole preset list. One bad value rejects the list.
func (h *SettingsHandler) ReplaceTips(w http.ResponseWriter, r *http.Request) {
	var req tipPresetsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	values := make([]decimal.Decimal, 0, len(req.Presets))
	for _, raw := range req.Presets {
		v, err := percentFromJSON(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		values = append(values, v)
	}

	h.respond(w, h.store.SetTipPresets(r.Context(), values))
}

// AddTip adds a preset. A value already in the list is accepted and ignored.
func (h *SettingsHandler) AddTip(w http.ResponseWriter, r *http.Request) {
	var req tipPresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	v, err := percentFromJSON(req.Value)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, err = h.store.AddTipPreset(r.Context(), v)
	h.respond(w, err)
}

// RemoveTip removes a preset. Values not in the list are ignored.
func (h *SettingsHandler) RemoveTip(w http.ResponseWriter, r *http.Request) {
	v, err := pricing.ParsePercent(chi.URLParam(r, "value"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, err = h.store.RemoveTipPreset(r.Context(), v)
	h.respond(w, err)
}

func (h *SettingsHandler) SetStoreName(w http.ResponseWriter, r *http.Request) {
	var req storeNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.respond(w, h.store.SetStoreName(r.Context(), req.StoreName))
}

func (h *SettingsHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req settings.Theme
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.respond(w, h.store.SetTheme(r.Context(), req))
}

// respond maps a mutation result to a response. On success every terminal
// is told to refresh, since tax and presets change everyone's totals.
func (h *SettingsHandler) respond(w http.ResponseWriter, err error) {
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrInvalidPercent),
			errors.Is(err, settings.ErrStoreNameRequired),
			errors.Is(err, settings.ErrThemeIncomplete):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.log.Error("persist settings", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	resp := toSettingsResponse(h.store.Snapshot())
	publishAll(h.hub, h.log, enum.EventSettingsUpdated, resp)
	writeJSON(w, http.StatusOK, resp)
}
