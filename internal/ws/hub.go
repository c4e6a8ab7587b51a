package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"ZapRelay/entity"
)

// Event represents a WebSocket event pushed to activity-feed clients.
type Event struct {
	Type string `json:"type"` // "relay"
	Data any    `json:"data"`
}

// Hub maintains the set of active WebSocket clients and broadcasts relay
// activity to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	log        *slog.Logger
}

// NewHub creates a new Hub instance.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// Run starts the hub's event loop. Should be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			// Write lock: stalled clients are dropped from the map here.
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastRelay pushes one relayed message leg to all connected clients.
// The send is non-blocking towards the relay pipeline: a full broadcast
// buffer drops the event rather than stalling a request.
func (h *Hub) BroadcastRelay(msg entity.RelayMessage) {
	select {
	case h.broadcast <- &Event{Type: "relay", Data: msg}:
	default:
		if h.log != nil {
			h.log.Warn("activity feed buffer full, dropping event")
		}
	}
}
