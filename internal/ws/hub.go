package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event represents a WebSocket message to be broadcast
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewEvent marshals payload into an Event.
func NewEvent(eventType string, payload interface{}) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: eventType, Payload: raw}, nil
}

// sessionEvent routes an event to one session room, or to every room when
// all is set.
type sessionEvent struct {
	SessionID uuid.UUID
	All       bool
	Event     Event
}

// Hub maintains the set of active clients, one room per POS session, and
// broadcasts messages to them.
type Hub struct {
	// Registered clients by session ID
	rooms map[uuid.UUID]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	closeRoom  chan uuid.UUID

	// Outbound messages to broadcast
	broadcast chan *sessionEvent

	done chan struct{}
	log  *zap.Logger

	// Mutex for thread-safe room access
	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		closeRoom:  make(chan uuid.UUID),
		broadcast:  make(chan *sessionEvent, 256),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run starts the hub's main loop. It returns after Stop is called.
// This should be called as a goroutine: go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for id, clients := range h.rooms {
				for client := range clients {
					close(client.send)
				}
				delete(h.rooms, id)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.sessionID] == nil {
				h.rooms[client.sessionID] = make(map[*Client]bool)
			}
			h.rooms[client.sessionID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.dropLocked(client)
			h.mu.Unlock()

		case id := <-h.closeRoom:
			h.mu.Lock()
			for client := range h.rooms[id] {
				h.dropLocked(client)
			}
			h.mu.Unlock()

		case ev := <-h.broadcast:
			message, err := json.Marshal(ev.Event)
			if err != nil {
				h.log.Error("marshal ws event", zap.String("type", ev.Event.Type), zap.Error(err))
				continue
			}

			h.mu.Lock()
			if ev.All {
				for _, clients := range h.rooms {
					h.sendLocked(clients, message)
				}
			} else {
				h.sendLocked(h.rooms[ev.SessionID], message)
			}
			h.mu.Unlock()
		}
	}
}

// Stop ends Run and closes every client.
func (h *Hub) Stop() {
	close(h.done)
}

// BroadcastToSession sends an event to the clients of one session.
func (h *Hub) BroadcastToSession(sessionID uuid.UUID, event Event) {
	h.enqueue(&sessionEvent{SessionID: sessionID, Event: event})
}

// BroadcastAll sends an event to every connected client.
func (h *Hub) BroadcastAll(event Event) {
	h.enqueue(&sessionEvent{All: true, Event: event})
}

// CloseSession disconnects every client of a session (logout).
func (h *Hub) CloseSession(sessionID uuid.UUID) {
	select {
	case h.closeRoom <- sessionID:
	case <-h.done:
	}
}

func (h *Hub) enqueue(ev *sessionEvent) {
	select {
	case h.broadcast <- ev:
	case <-h.done:
	}
}

// sendLocked delivers message to clients, dropping any whose buffer is full.
func (h *Hub) sendLocked(clients map[*Client]bool, message []byte) {
	for client := range clients {
		select {
		case client.send <- message:
		default:
			h.dropLocked(client)
		}
	}
}

func (h *Hub) dropLocked(client *Client) {
	clients, ok := h.rooms[client.sessionID]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}
	delete(clients, client)
	close(client.send)
	// Clean up empty rooms
	if len(clients) == 0 {
		delete(h.rooms, client.sessionID)
	}
}
