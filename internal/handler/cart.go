package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/food-menu-pos/api/internal/cart"
	"github.com/food-menu-pos/api/internal/catalog"
	"github.com/food-menu-pos/api/internal/enum"
	"github.com/food-menu-pos/api/internal/middleware"
	"github.com/food-menu-pos/api/internal/pricing"
	"github.com/food-menu-pos/api/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MenuLookup resolves catalog ids for the cart. Satisfied by *catalog.Store.
type MenuLookup interface {
	Get(id string) (catalog.MenuItem, bool)
}

// PricingSettings supplies the current tax rate and tip presets.
// Satisfied by *settings.Store.
type PricingSettings interface {
	TaxPercent() decimal.Decimal
	TipPresets() []decimal.Decimal
}

// CartHandler serves the caller's own cart. Every response carries the
// full cart and its totals so terminals never compute money themselves.
type CartHandler struct {
	menu     MenuLookup
	settings PricingSettings
	hub      Broadcaster
	log      *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(menu MenuLookup, settings PricingSettings, hub Broadcaster, log *zap.Logger) *CartHandler {
	return &CartHandler{menu: menu, settings: settings, hub: hub, log: log}
}

// RegisterRoutes registers cart endpoints. Mounted at /cart inside the
// authenticated group.
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Delete("/", h.Clear)
	r.Post("/items", h.AddItem)
	r.Put("/items/{id}", h.SetQuantity)
	r.Patch("/items/{id}", h.AdjustQuantity)
	r.Delete("/items/{id}", h.RemoveItem)
	r.Put("/tip", h.SelectTip)
}

// --- Request / Response types ---

type addCartItemRequest struct {
	ItemID string `json:"item_id"`
}

type setQuantityRequest struct {
	Quantity json.RawMessage `json:"quantity"`
}

type adjustQuantityRequest struct {
	Delta *int `json:"delta"`
}

type selectTipRequest struct {
	Mode  string          `json:"mode"`
	Value json.RawMessage `json:"value"`
}

type cartLineResponse struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	ImageURL  string `json:"image_url"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type tipResponse struct {
	Mode    string   `json:"mode"`
	Value   string   `json:"value"`
	Presets []string `json:"presets"`
}

type cartResponse struct {
	Lines     []cartLineResponse       `json:"lines"`
	ItemCount int                      `json:"item_count"`
	Tip       tipResponse              `json:"tip"`
	Breakdown pricing.DisplayBreakdown `json:"breakdown"`
}

// --- Handlers ---

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.buildResponse(sess))
}

// AddItem puts one more of a catalog item in the cart.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ItemID == "" {
		writeError(w, http.StatusBadRequest, "item_id is required")
		return
	}

	item, found := h.menu.Get(req.ItemID)
	if !found {
		writeError(w, http.StatusNotFound, "menu item not found")
		return
	}

	sess.Cart.Add(item)

	// A catalog edit may have landed between the lookup and the add.
	current, found := h.menu.Get(item.ID)
	if !found {
		sess.Cart.Remove(item.ID)
		writeError(w, http.StatusNotFound, "menu item not found")
		return
	}
	sess.Cart.SyncItem(current)
	h.respondChanged(w, sess)
}

// SetQuantity sets an absolute quantity. Zero or less removes the line;
// anything that is not a whole number is rejected and the cart is untouched.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	qty, err := quantityFromJSON(req.Quantity)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess.Cart.UpdateQuantity(chi.URLParam(r, "id"), qty)
	h.respondChanged(w, sess)
}

// AdjustQuantity changes a line's quantity by a signed delta.
func (h *CartHandler) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req adjustQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, cart.ErrInvalidQuantity.Error())
		return
	}
	if req.Delta == nil {
		writeError(w, http.StatusBadRequest, "delta is required")
		return
	}

	sess.Cart.AdjustQuantity(chi.URLParam(r, "id"), *req.Delta)
	h.respondChanged(w, sess)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Cart.Remove(chi.URLParam(r, "id"))
	h.respondChanged(w, sess)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Cart.Clear()
	h.respondChanged(w, sess)
}

// SelectTip activates a preset or a custom tip percent for this session.
func (h *CartHandler) SelectTip(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req selectTipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	value, err := percentFromJSON(req.Value)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch strings.ToUpper(strings.TrimSpace(req.Mode)) {
	case enum.TipModePreset:
		_, err = sess.SelectPresetTip(value, h.settings.TipPresets())
	case enum.TipModeCustom:
		_, err = sess.SelectCustomTip(value)
	default:
		writeError(w, http.StatusBadRequest, "mode must be PRESET or CUSTOM")
		return
	}
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidPercent) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error("select tip", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.respondChanged(w, sess)
}

// --- Helpers ---

func (h *CartHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess := middleware.SessionFromContext(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return nil, false
	}
	return sess, true
}

func (h *CartHandler) respondChanged(w http.ResponseWriter, sess *session.Session) {
	resp := h.buildResponse(sess)
	publishToSession(h.hub, h.log, sess.ID, enum.EventCartUpdated, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (h *CartHandler) buildResponse(sess *session.Session) cartResponse {
	tip := sess.Tip()
	snap := sess.Cart.Snapshot(h.settings.TaxPercent(), tip.Effective())

	lines := make([]cartLineResponse, len(snap.Lines))
	for i, l := range snap.Lines {
		lines[i] = cartLineResponse{
			ItemID:    l.Item.ID,
			Name:      l.Item.Name,
			Category:  l.Item.Category,
			ImageURL:  l.Item.ImageURL,
			Price:     pricing.Money(l.Item.Price),
			Quantity:  l.Quantity,
			LineTotal: pricing.Money(l.Extended()),
		}
	}

	return cartResponse{
		Lines:     lines,
		ItemCount: snap.ItemCount,
		Tip: tipResponse{
			Mode:    tip.Mode,
			Value:   tip.Effective().String(),
			Presets: presetStrings(h.settings.TipPresets()),
		},
		Breakdown: snap.Breakdown.Display(),
	}
}
