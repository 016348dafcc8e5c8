package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Event represents a WebSocket message to be broadcast
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// draftEvent is an internal struct for routing events to specific drafts
type draftEvent struct {
	DraftID uuid.UUID
	Event   Event
}

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	// Registered clients by draft ID
	rooms map[uuid.UUID]map[*Client]bool

	// Inbound messages from clients (register/unregister)
	register   chan *Client
	unregister chan *Client

	// Outbound messages to broadcast
	broadcast chan *draftEvent

	// Mutex for thread-safe room access
	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *draftEvent, 256),
	}
}

// Run starts the hub's main loop
// This should be called as a goroutine: go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.draftID] == nil {
				h.rooms[client.draftID] = make(map[*Client]bool)
			}
			h.rooms[client.draftID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.draftID]; ok {
				if _, exists := clients[client]; exists {
					delete(clients, client)
					close(client.send)
					// Clean up empty rooms
					if len(clients) == 0 {
						delete(h.rooms, client.draftID)
					}
				}
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.Lock()
			clients := h.rooms[event.DraftID]

			// Marshal event to JSON once
			message, err := json.Marshal(event.Event)
			if err != nil {
				h.mu.Unlock()
				continue
			}

			// Send to all clients in this draft's room
			for client := range clients {
				select {
				case client.send <- message:
				default:
					// Client's send buffer is full, close and unregister
					close(client.send)
					delete(h.rooms[event.DraftID], client)
					if len(h.rooms[event.DraftID]) == 0 {
						delete(h.rooms, event.DraftID)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToDraft sends an event to all clients subscribed to a specific draft
// This is the public API for handlers to broadcast events
func (h *Hub) BroadcastToDraft(draftID uuid.UUID, event Event) {
	h.broadcast <- &draftEvent{
		DraftID: draftID,
		Event:   event,
	}
}

// BroadcastSummary marshals a recomputed summary and pushes it to the
// draft's room as a summary.updated event. Safe to use as a draft
// observer callback.
func (h *Hub) BroadcastSummary(draftID uuid.UUID, summary interface{}) {
	payload, err := json.Marshal(summary)
	if err != nil {
		log.Printf("ERROR: marshal summary for draft %s: %v", draftID, err)
		return
	}
	h.BroadcastToDraft(draftID, Event{Type: "summary.updated", Payload: payload})
}
