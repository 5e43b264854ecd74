package pricing

import (
	"fmt"

	"github.com/food-menu-pos/api/internal/enum"
	"github.com/shopspring/decimal"
)

// TipSelection is the active tip choice: either one of the presets or a
// custom percent. Exactly one mode is active at any time.
type TipSelection struct {
	Mode  string
	Value decimal.Decimal
}

// DefaultTip picks the initial selection for a preset list sorted ascending:
// the middle of a three-element list (index 1) when there are at least two
// presets, the only preset when there is one, and a custom 0% when empty.
func DefaultTip(presets []decimal.Decimal) TipSelection {
	switch {
	case len(presets) >= 2:
		return TipSelection{Mode: enum.TipModePreset, Value: presets[1]}
	case len(presets) == 1:
		return TipSelection{Mode: enum.TipModePreset, Value: presets[0]}
	default:
		return TipSelection{Mode: enum.TipModeCustom, Value: decimal.Zero}
	}
}

// SelectPreset switches to a preset value, clearing any custom tip.
// The value must be one of presets.
func SelectPreset(value decimal.Decimal, presets []decimal.Decimal) (TipSelection, error) {
	for _, p := range presets {
		if p.Equal(value) {
			return TipSelection{Mode: enum.TipModePreset, Value: p}, nil
		}
	}
	return TipSelection{}, fmt.Errorf("%w: %s is not a tip preset", ErrInvalidPercent, value.String())
}

// SelectCustom switches to a custom percent, clearing the preset selection.
func SelectCustom(value decimal.Decimal) (TipSelection, error) {
	if err := ValidatePercent(value); err != nil {
		return TipSelection{}, err
	}
	return TipSelection{Mode: enum.TipModeCustom, Value: value}, nil
}

// Effective is the percent used in every tip calculation.
func (s TipSelection) Effective() decimal.Decimal {
	return s.Value
}

// IsPreset reports whether a preset tip is active.
func (s TipSelection) IsPreset() bool { return s.Mode == enum.TipModePreset }

// IsCustom reports whether a custom tip is active.
func (s TipSelection) IsCustom() bool { return s.Mode == enum.TipModeCustom }

// PresetValue returns the selected preset, if the preset mode is active.
func (s TipSelection) PresetValue() (decimal.Decimal, bool) {
	if !s.IsPreset() {
		return decimal.Zero, false
	}
	return s.Value, true
}

// CustomValue returns the custom percent, if the custom mode is active.
func (s TipSelection) CustomValue() (decimal.Decimal, bool) {
	if !s.IsCustom() {
		return decimal.Zero, false
	}
	return s.Value, true
}
