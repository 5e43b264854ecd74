package catalog

import (
	"errors"
	"strings"
	"sync"

	"github.com/food-menu-pos/api/internal/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Errors returned by the catalog store.
var (
	ErrNameRequired     = errors.New("name is required")
	ErrCategoryRequired = errors.New("category is required")
	ErrInvalidPrice     = errors.New("price must be >= 0")
	ErrDuplicateID      = errors.New("item id already exists")
)

// MenuItem is a purchasable dish.
type MenuItem struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Category    string
	Description string
	ImageURL    string
}

// Event describes a successful catalog mutation.
type Event struct {
	Kind string // enum.CatalogItem*
	Item MenuItem
}

// Store is an in-memory, ordered menu catalog. Safe for concurrent use.
// Each mutation is applied fully before listeners are notified.
type Store struct {
	mu        sync.RWMutex
	items     []MenuItem
	listeners []func(Event)
}

// New creates a store holding items in the given order.
func New(items []MenuItem) *Store {
	s := &Store{items: make([]MenuItem, 0, len(items))}
	s.items = append(s.items, items...)
	return s
}

// NewDefault creates a store seeded with the house menu.
func NewDefault() *Store {
	return New(DefaultItems())
}

// Subscribe registers fn to be called after every add, update or remove.
// Listeners run synchronously on the mutating goroutine, outside the store lock.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// List returns a snapshot of all items in insertion order.
func (s *Store) List() []MenuItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]MenuItem, len(s.items))
	copy(out, s.items)
	return out
}

// Get looks up an item by id.
func (s *Store) Get(id string) (MenuItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return MenuItem{}, false
}

// Categories returns the distinct categories in order of first appearance.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, it := range s.items {
		if !seen[it.Category] {
			seen[it.Category] = true
			out = append(out, it.Category)
		}
	}
	return out
}

// Add appends item, assigning a new id when none is set.
func (s *Store) Add(item MenuItem) (MenuItem, error) {
	item = normalize(item)
	if err := Validate(item); err != nil {
		return MenuItem{}, err
	}

	s.mu.Lock()
	if item.ID == "" {
		item.ID = uuid.NewString()
	} else if s.indexOf(item.ID) >= 0 {
		s.mu.Unlock()
		return MenuItem{}, ErrDuplicateID
	}
	s.items = append(s.items, item)
	listeners := s.listeners
	s.mu.Unlock()

	notify(listeners, Event{Kind: enum.CatalogItemAdded, Item: item})
	return item, nil
}

// Update replaces the item with the same id. Returns false, without error,
// when no such item exists.
func (s *Store) Update(item MenuItem) (bool, error) {
	item = normalize(item)
	if err := Validate(item); err != nil {
		return false, err
	}

	s.mu.Lock()
	i := s.indexOf(item.ID)
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}
	s.items[i] = item
	listeners := s.listeners
	s.mu.Unlock()

	notify(listeners, Event{Kind: enum.CatalogItemUpdated, Item: item})
	return true, nil
}

// Remove deletes the item with the given id. Returns false when absent.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	removed := s.items[i]
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	listeners := s.listeners
	s.mu.Unlock()

	notify(listeners, Event{Kind: enum.CatalogItemRemoved, Item: removed})
	return true
}

// Validate performs the presence and number checks required of every item.
func Validate(item MenuItem) error {
	if item.Name == "" {
		return ErrNameRequired
	}
	if item.Category == "" {
		return ErrCategoryRequired
	}
	if item.Price.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

func (s *Store) indexOf(id string) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func normalize(item MenuItem) MenuItem {
	item.Name = strings.TrimSpace(item.Name)
	item.Category = strings.TrimSpace(item.Category)
	return item
}

func notify(listeners []func(Event), ev Event) {
	for _, fn := range listeners {
		fn(ev)
	}
}
