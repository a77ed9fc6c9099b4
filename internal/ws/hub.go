package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Event is the wire envelope for every server-to-client push.
type Event struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Hub tracks connected clients by user identity and by logical channel.
// All pushes are fire-and-forget: a full client buffer drops the client, a
// missing recipient drops the event.
type Hub struct {
	mutex    sync.RWMutex
	byUser   map[uuid.UUID]map[*Client]bool
	channels map[string]map[*Client]bool
	logger   *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		byUser:   make(map[uuid.UUID]map[*Client]bool),
		channels: make(map[string]map[*Client]bool),
		logger:   logger,
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil || client == nil {
		return
	}
	h.mutex.Lock()
	if h.byUser[client.userID] == nil {
		h.byUser[client.userID] = make(map[*Client]bool)
	}
	h.byUser[client.userID][client] = true
	total := len(h.byUser)
	h.mutex.Unlock()

	if h.logger != nil {
		h.logger.Printf("WS connected | user=%s connected_users=%d", client.userID, total)
	}
}

func (h *Hub) Unregister(client *Client) {
	if h == nil || client == nil {
		return
	}
	h.mutex.Lock()
	if conns, ok := h.byUser[client.userID]; ok {
		if conns[client] {
			delete(conns, client)
			close(client.send)
		}
		if len(conns) == 0 {
			delete(h.byUser, client.userID)
		}
	}
	for channel, members := range h.channels {
		delete(members, client)
		if len(members) == 0 {
			delete(h.channels, channel)
		}
	}
	total := len(h.byUser)
	h.mutex.Unlock()

	if h.logger != nil {
		h.logger.Printf("WS disconnected | user=%s connected_users=%d", client.userID, total)
	}
}

func (h *Hub) Subscribe(client *Client, channel string) {
	if h == nil || client == nil || channel == "" {
		return
	}
	h.mutex.Lock()
	if h.channels[channel] == nil {
		h.channels[channel] = make(map[*Client]bool)
	}
	h.channels[channel][client] = true
	h.mutex.Unlock()
}

func (h *Hub) Unsubscribe(client *Client, channel string) {
	if h == nil || client == nil {
		return
	}
	h.mutex.Lock()
	if members, ok := h.channels[channel]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.channels, channel)
		}
	}
	h.mutex.Unlock()
}

func (h *Hub) EmitToUser(userID uuid.UUID, event string, payload any) {
	if h == nil {
		return
	}
	b, err := json.Marshal(Event{Event: event, Payload: payload})
	if err != nil {
		return
	}

	h.mutex.RLock()
	dropped := deliver(h.byUser[userID], b)
	h.mutex.RUnlock()

	h.dropSlow(dropped, event)
}

func (h *Hub) EmitToChannel(channelID string, event string, payload any) {
	if h == nil {
		return
	}
	b, err := json.Marshal(Event{Event: event, Payload: payload})
	if err != nil {
		return
	}

	h.mutex.RLock()
	dropped := deliver(h.channels[channelID], b)
	h.mutex.RUnlock()

	h.dropSlow(dropped, event)
}

func (h *Hub) IsUserConnected(userID uuid.UUID) bool {
	if h == nil {
		return false
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.byUser[userID]) > 0
}

// deliver runs under the hub read lock so no send can race with the close
// in Unregister. Clients with a full buffer are returned for removal.
func deliver(targets map[*Client]bool, message []byte) []*Client {
	var dropped []*Client
	for client := range targets {
		select {
		case client.send <- message:
		default:
			dropped = append(dropped, client)
		}
	}
	return dropped
}

func (h *Hub) dropSlow(clients []*Client, event string) {
	for _, client := range clients {
		if h.logger != nil {
			h.logger.Printf("WS push dropped | event=%s user=%s reason=buffer_full", event, client.userID)
		}
		h.Unregister(client)
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	total := 0
	for _, conns := range h.byUser {
		total += len(conns)
	}
	return total
}
