package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/food-menu-pos/api/internal/catalog"
	"github.com/food-menu-pos/api/internal/kv"
	"github.com/food-menu-pos/api/internal/middleware"
	"github.com/food-menu-pos/api/internal/session"
	"github.com/food-menu-pos/api/internal/settings"
	"github.com/food-menu-pos/api/internal/ws"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// --- Fake hub ---

type recordingHub struct {
	mu        sync.Mutex
	toSession map[uuid.UUID][]ws.Event
	all       []ws.Event
	closed    []uuid.UUID
}

func newRecordingHub() *recordingHub {
	return &recordingHub{toSession: make(map[uuid.UUID][]ws.Event)}
}

func (h *recordingHub) BroadcastToSession(id uuid.UUID, ev ws.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.toSession[id] = append(h.toSession[id], ev)
}

func (h *recordingHub) BroadcastAll(ev ws.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.all = append(h.all, ev)
}

func (h *recordingHub) CloseSession(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = append(h.closed, id)
}

func (h *recordingHub) sessionEvents(id uuid.UUID) []ws.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.toSession[id]
}

func (h *recordingHub) allEvents() []ws.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.all
}

// --- Helpers ---

func doRequest(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func doRawRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func doRequestWithSession(t *testing.T, router http.Handler, method, path string, sessionID uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("X-Session", sessionID.String())
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// withSession puts sess on every request, standing in for the auth middleware.
func withSession(sess *session.Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithSession(r.Context(), sess)))
		})
	}
}

func decodeMap(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func newSettings(t *testing.T, backend kv.Store) *settings.Store {
	t.Helper()
	if backend == nil {
		backend = kv.NewMemoryStore()
	}
	s, err := settings.Load(context.Background(), backend, zap.NewNop())
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	return s
}

func testItem(id, price string) catalog.MenuItem {
	return catalog.MenuItem{ID: id, Name: "Item " + id, Category: "Main Course", Price: decimal.RequireFromString(price)}
}
