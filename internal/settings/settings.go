package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/food-menu-pos/api/internal/kv"
	"github.com/food-menu-pos/api/internal/pricing"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Persisted keys.
const (
	KeySalesTax   = "salesTax"
	KeyTipOptions = "tipOptions"
	KeyStoreName  = "storeName"
	KeyTheme      = "themeColors"
)

const DefaultStoreName = "Food Menu POS"

// Errors returned by the settings store.
var (
	ErrStoreNameRequired = errors.New("store name is required")
	ErrThemeIncomplete   = errors.New("all theme colors are required")
)

// DefaultTaxPercent is used when no valid tax rate has been persisted.
var DefaultTaxPercent = decimal.RequireFromString("8.875")

// DefaultTipPresets is used when no valid preset list has been persisted.
func DefaultTipPresets() []decimal.Decimal {
	return []decimal.Decimal{decimal.NewFromInt(19), decimal.NewFromInt(20), decimal.NewFromInt(22)}
}

// Snapshot is a consistent copy of every setting.
type Snapshot struct {
	TaxPercent decimal.Decimal
	TipPresets []decimal.Decimal
	StoreName  string
	Theme      Theme
}

// Store holds tax, tip presets, store name and theme. Values are loaded once
// at construction and written through to the backing kv.Store on every change.
// A failed write leaves the in-memory value untouched.
type Store struct {
	mu      sync.RWMutex
	backend kv.Store
	log     *zap.Logger

	taxPercent decimal.Decimal
	tipPresets []decimal.Decimal
	storeName  string
	theme      Theme
}

// Load reads persisted settings, falling back to defaults for any key that
// is absent or unparsable. Only backend read failures are returned.
func Load(ctx context.Context, backend kv.Store, log *zap.Logger) (*Store, error) {
	s := &Store{
		backend:    backend,
		log:        log,
		taxPercent: DefaultTaxPercent,
		tipPresets: DefaultTipPresets(),
		storeName:  DefaultStoreName,
		theme:      DefaultTheme(),
	}

	if raw, ok, err := backend.Get(ctx, KeySalesTax); err != nil {
		return nil, fmt.Errorf("load %s: %w", KeySalesTax, err)
	} else if ok {
		if tax, err := pricing.ParsePercent(raw); err == nil {
			s.taxPercent = tax
		} else {
			log.Warn("ignoring unparsable sales tax", zap.String("value", raw), zap.Error(err))
		}
	}

	if raw, ok, err := backend.Get(ctx, KeyTipOptions); err != nil {
		return nil, fmt.Errorf("load %s: %w", KeyTipOptions, err)
	} else if ok {
		if presets, err := decodePresets(raw); err == nil {
			s.tipPresets = presets
		} else {
			log.Warn("ignoring unparsable tip options", zap.String("value", raw), zap.Error(err))
		}
	}

	if raw, ok, err := backend.Get(ctx, KeyStoreName); err != nil {
		return nil, fmt.Errorf("load %s: %w", KeyStoreName, err)
	} else if ok && strings.TrimSpace(raw) != "" {
		s.storeName = strings.TrimSpace(raw)
	}

	if raw, ok, err := backend.Get(ctx, KeyTheme); err != nil {
		return nil, fmt.Errorf("load %s: %w", KeyTheme, err)
	} else if ok {
		var th Theme
		if err := json.Unmarshal([]byte(raw), &th); err == nil && th.complete() {
			s.theme = th
		} else {
			log.Warn("ignoring unparsable theme", zap.String("value", raw))
		}
	}

	return s, nil
}

// Snapshot returns every setting at once.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		TaxPercent: s.taxPercent,
		TipPresets: clonePresets(s.tipPresets),
		StoreName:  s.storeName,
		Theme:      s.theme,
	}
}

func (s *Store) TaxPercent() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.taxPercent
}

// SetTaxPercent validates and persists a new tax rate.
func (s *Store) SetTaxPercent(ctx context.Context, tax decimal.Decimal) error {
	if err := pricing.ValidatePercent(tax); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Set(ctx, KeySalesTax, tax.String()); err != nil {
		return fmt.Errorf("persist sales tax: %w", err)
	}
	s.taxPercent = tax
	return nil
}

// TipPresets returns the presets sorted ascending.
func (s *Store) TipPresets() []decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePresets(s.tipPresets)
}

// AddTipPreset adds value to the presets. Values already present are ignored
// (added == false); values outside [0, 100] are rejected with
// pricing.ErrInvalidPercent.
func (s *Store) AddTipPreset(ctx context.Context, value decimal.Decimal) (added bool, err error) {
	if err := pricing.ValidatePercent(value); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if containsPreset(s.tipPresets, value) {
		return false, nil
	}
	next := normalizePresets(append(clonePresets(s.tipPresets), value))
	if err := s.persistPresets(ctx, next); err != nil {
		return false, err
	}
	s.tipPresets = next
	return true, nil
}

// RemoveTipPreset removes value from the presets. Absent values are ignored.
func (s *Store) RemoveTipPreset(ctx context.Context, value decimal.Decimal) (removed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !containsPreset(s.tipPresets, value) {
		return false, nil
	}
	next := make([]decimal.Decimal, 0, len(s.tipPresets)-1)
	for _, p := range s.tipPresets {
		if !p.Equal(value) {
			next = append(next, p)
		}
	}
	if err := s.persistPresets(ctx, next); err != nil {
		return false, err
	}
	s.tipPresets = next
	return true, nil
}

// SetTipPresets replaces the whole preset list. Duplicates are collapsed and
// the result is sorted; any value outside [0, 100] rejects the whole list.
func (s *Store) SetTipPresets(ctx context.Context, values []decimal.Decimal) error {
	for _, v := range values {
		if err := pricing.ValidatePercent(v); err != nil {
			return err
		}
	}
	next := normalizePresets(clonePresets(values))

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persistPresets(ctx, next); err != nil {
		return err
	}
	s.tipPresets = next
	return nil
}

func (s *Store) StoreName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.storeName
}

func (s *Store) SetStoreName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrStoreNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Set(ctx, KeyStoreName, name); err != nil {
		return fmt.Errorf("persist store name: %w", err)
	}
	s.storeName = name
	return nil
}

func (s *Store) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

func (s *Store) SetTheme(ctx context.Context, th Theme) error {
	if !th.complete() {
		return ErrThemeIncomplete
	}
	raw, err := json.Marshal(th)
	if err != nil {
		return fmt.Errorf("encode theme: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Set(ctx, KeyTheme, string(raw)); err != nil {
		return fmt.Errorf("persist theme: %w", err)
	}
	s.theme = th
	return nil
}

func (s *Store) persistPresets(ctx context.Context, presets []decimal.Decimal) error {
	if err := s.backend.Set(ctx, KeyTipOptions, EncodePresets(presets)); err != nil {
		return fmt.Errorf("persist tip options: %w", err)
	}
	return nil
}

// EncodePresets serializes presets as a JSON array of numbers, e.g. [19,20,22].
func EncodePresets(presets []decimal.Decimal) string {
	parts := make([]string, len(presets))
	for i, p := range presets {
		parts[i] = p.String()
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func decodePresets(raw string) ([]decimal.Decimal, error) {
	var values []decimal.Decimal
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, err
	}
	for _, v := range values {
		if err := pricing.ValidatePercent(v); err != nil {
			return nil, err
		}
	}
	return normalizePresets(values), nil
}

// normalizePresets sorts ascending and drops duplicates in place.
func normalizePresets(values []decimal.Decimal) []decimal.Decimal {
	sort.Slice(values, func(i, j int) bool { return values[i].LessThan(values[j]) })
	out := values[:0]
	for i, v := range values {
		if i > 0 && v.Equal(out[len(out)-1]) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func containsPreset(presets []decimal.Decimal, v decimal.Decimal) bool {
	for _, p := range presets {
		if p.Equal(v) {
			return true
		}
	}
	return false
}

func clonePresets(values []decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	copy(out, values)
	return out
}
