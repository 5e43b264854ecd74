package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/food-menu-pos/api/internal/cart"
	"github.com/food-menu-pos/api/internal/pricing"
	"github.com/food-menu-pos/api/internal/ws"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Broadcaster pushes realtime events to connected terminals.
// Satisfied by *ws.Hub.
type Broadcaster interface {
	BroadcastToSession(sessionID uuid.UUID, event ws.Event)
	BroadcastAll(event ws.Event)
	CloseSession(sessionID uuid.UUID)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func publishAll(hub Broadcaster, log *zap.Logger, eventType string, payload interface{}) {
	ev, err := ws.NewEvent(eventType, payload)
	if err != nil {
		log.Error("build ws event", zap.String("type", eventType), zap.Error(err))
		return
	}
	hub.BroadcastAll(ev)
}

func publishToSession(hub Broadcaster, log *zap.Logger, sessionID uuid.UUID, eventType string, payload interface{}) {
	ev, err := ws.NewEvent(eventType, payload)
	if err != nil {
		log.Error("build ws event", zap.String("type", eventType), zap.Error(err))
		return
	}
	hub.BroadcastToSession(sessionID, ev)
}

// --- JSON value helpers ---
//
// Terminals send numbers either as JSON numbers or as the raw text of an
// input field, so both forms are accepted.

func rawText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if string(raw) == "null" {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

func percentFromJSON(raw json.RawMessage) (decimal.Decimal, error) {
	return pricing.ParsePercent(rawText(raw))
}

func quantityFromJSON(raw json.RawMessage) (int, error) {
	text := rawText(raw)
	n, err := decimal.NewFromString(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", cart.ErrInvalidQuantity, text)
	}
	return cart.QuantityFromNumber(n)
}

func priceFromJSON(raw json.RawMessage) (decimal.Decimal, bool) {
	text := rawText(raw)
	if text == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func presetStrings(values []decimal.Decimal) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}
