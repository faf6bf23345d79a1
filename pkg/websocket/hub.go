package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"routebook/pkg/logger"
)

const (
	MessageWelcome       = "welcome"
	MessageComputeRoute  = "compute_route"
	MessageRouteComputed = "route_computed"
	MessageRouteError    = "route_error"
	MessageError         = "error"
)

// Message is the envelope for every frame in both directions.
type Message struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id,omitempty"`
	Timestamp int64           `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

type ErrorPayload struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func newMessage(messageType, requestID string, data interface{}) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{
		Type:      messageType,
		RequestID: requestID,
		Timestamp: time.Now().Unix(),
		Data:      payload,
	})
}

// Hub tracks live connections per owner.
type Hub struct {
	owners     map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
	logger     *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		owners:     make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     log,
	}
}

// Run serves registrations until ctx ends, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// Register blocks until the hub accepts the client. It reports false once
// the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	clients, ok := h.owners[client.OwnerID]
	if !ok {
		clients = make(map[*Client]bool)
		h.owners[client.OwnerID] = clients
	}
	clients[client] = true
	h.mutex.Unlock()

	h.logger.WithOwnerID(client.OwnerID).Debug("Live client registered")

	welcome, err := newMessage(MessageWelcome, "", map[string]string{"message": "Connected successfully"})
	if err == nil {
		client.queue(welcome)
	}
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	if clients, ok := h.owners[client.OwnerID]; ok {
		if clients[client] {
			delete(clients, client)
			h.logger.WithOwnerID(client.OwnerID).Debug("Live client unregistered")
		}
		if len(clients) == 0 {
			delete(h.owners, client.OwnerID)
		}
	}
	h.mutex.Unlock()

	client.close()
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for owner, clients := range h.owners {
		for client := range clients {
			client.close()
		}
		delete(h.owners, owner)
	}
}

// ClientCount returns the number of live connections of ownerID.
func (h *Hub) ClientCount(ownerID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.owners[ownerID])
}

// NotifyOwner pushes a message to every live connection of ownerID.
// Clients whose buffers are full are disconnected.
func (h *Hub) NotifyOwner(ownerID, messageType string, data interface{}) {
	message, err := newMessage(messageType, "", data)
	if err != nil {
		h.logger.WithOwnerID(ownerID).WithError(err).Error("Failed to encode live notification")
		return
	}

	h.mutex.RLock()
	var slow []*Client
	for client := range h.owners[ownerID] {
		if !client.queue(message) {
			slow = append(slow, client)
		}
	}
	h.mutex.RUnlock()

	for _, client := range slow {
		h.logger.WithOwnerID(ownerID).Warn("Dropping slow live client")
		client.close()
	}
}
