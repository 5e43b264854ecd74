package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/food-menu-pos/api/internal/catalog"
	"github.com/food-menu-pos/api/internal/enum"
	"github.com/food-menu-pos/api/internal/pricing"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CatalogStore defines the catalog methods needed by menu handlers.
// Satisfied by *catalog.Store.
type CatalogStore interface {
	List() []catalog.MenuItem
	Get(id string) (catalog.MenuItem, bool)
	Categories() []string
	Add(item catalog.MenuItem) (catalog.MenuItem, error)
	Update(item catalog.MenuItem) (bool, error)
	Remove(id string) bool
}

// MenuHandler serves the menu to every role and lets admins edit it.
type MenuHandler struct {
	store CatalogStore
	hub   Broadcaster
	log   *zap.Logger
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(store CatalogStore, hub Broadcaster, log *zap.Logger) *MenuHandler {
	return &MenuHandler{store: store, hub: hub, log: log}
}

// RegisterRoutes registers read-only menu endpoints. Mounted at /menu.
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Grouped)
	r.Get("/items", h.List)
	r.Get("/items/{id}", h.Get)
	r.Get("/categories", h.Categories)
}

// RegisterAdminRoutes registers menu editing endpoints. Mounted at /menu
// behind the admin role check.
func (h *MenuHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/items", h.Create)
	r.Put("/items/{id}", h.Update)
	r.Delete("/items/{id}", h.Delete)
}

// --- Request / Response types ---

type menuItemRequest struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       json.RawMessage `json:"price"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
}

type menuItemResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

type menuSectionResponse struct {
	Category string             `json:"category"`
	Count    int                `json:"count"`
	Items    []menuItemResponse `json:"items"`
}

type menuResponse struct {
	Sections   []menuSectionResponse `json:"sections"`
	TotalItems int                   `json:"total_items"`
}

type catalogEventPayload struct {
	Kind string           `json:"kind"`
	Item menuItemResponse `json:"item"`
}

func toMenuItemResponse(it catalog.MenuItem) menuItemResponse {
	return menuItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Price:       pricing.Money(it.Price),
		Category:    it.Category,
		Description: it.Description,
		ImageURL:    it.ImageURL,
	}
}

func (req menuItemRequest) toMenuItem() (catalog.MenuItem, string) {
	price, ok := priceFromJSON(req.Price)
	if !ok {
		return catalog.MenuItem{}, "price must be a number"
	}
	return catalog.MenuItem{
		ID:          req.ID,
		Name:        req.Name,
		Price:       price,
		Category:    req.Category,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}, ""
}

// --- Handlers ---

// Grouped returns the menu as one section per category, in category order.
func (h *MenuHandler) Grouped(w http.ResponseWriter, r *http.Request) {
	items := h.store.List()
	sections := make([]menuSectionResponse, 0)
	index := make(map[string]int)

	for _, it := range items {
		i, ok := index[it.Category]
		if !ok {
			i = len(sections)
			index[it.Category] = i
			sections = append(sections, menuSectionResponse{Category: it.Category, Items: []menuItemResponse{}})
		}
		sections[i].Items = append(sections[i].Items, toMenuItemResponse(it))
		sections[i].Count++
	}

	writeJSON(w, http.StatusOK, menuResponse{Sections: sections, TotalItems: len(items)})
}

func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.store.List()
	resp := make([]menuItemResponse, len(items))
	for i, it := range items {
		resp[i] = toMenuItemResponse(it)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	it, ok := h.store.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "menu item not found")
		return
	}
	writeJSON(w, http.StatusOK, toMenuItemResponse(it))
}

func (h *MenuHandler) Categories(w http.ResponseWriter, r *http.Request) {
	cats := h.store.Categories()
	if cats == nil {
		cats = []string{}
	}
	writeJSON(w, http.StatusOK, cats)
}

// Create adds a menu item. An id is generated when none is given.
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, msg := req.toMenuItem()
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := h.store.Add(item)
	if err != nil {
		h.writeCatalogError(w, err)
		return
	}

	resp := toMenuItemResponse(created)
	publishAll(h.hub, h.log, enum.EventCatalogUpdated, catalogEventPayload{Kind: enum.CatalogItemAdded, Item: resp})
	writeJSON(w, http.StatusCreated, resp)
}

// Update replaces the item identified by the URL. Open carts holding the
// item pick up the new name and price.
func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, msg := req.toMenuItem()
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	item.ID = chi.URLParam(r, "id")

	found, err := h.store.Update(item)
	if err != nil {
		h.writeCatalogError(w, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "menu item not found")
		return
	}

	updated, _ := h.store.Get(item.ID)
	resp := toMenuItemResponse(updated)
	publishAll(h.hub, h.log, enum.EventCatalogUpdated, catalogEventPayload{Kind: enum.CatalogItemUpdated, Item: resp})
	writeJSON(w, http.StatusOK, resp)
}

// Delete removes the item from the menu and from every open cart.
func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	it, ok := h.store.Get(id)
	if !ok || !h.store.Remove(id) {
		writeError(w, http.StatusNotFound, "menu item not found")
		return
	}

	publishAll(h.hub, h.log, enum.EventCatalogUpdated, catalogEventPayload{Kind: enum.CatalogItemRemoved, Item: toMenuItemResponse(it)})
	w.WriteHeader(http.StatusNoContent)
}

func (h *MenuHandler) writeCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNameRequired),
		errors.Is(err, catalog.ErrCategoryRequired),
		errors.Is(err, catalog.ErrInvalidPrice):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrDuplicateID):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.log.Error("catalog mutation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
