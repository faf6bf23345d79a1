package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"routebook/internal/models"
	"routebook/internal/utils"
	"routebook/internal/validators"
	"routebook/pkg/logger"
)

const sendBufferSize = 64

// Planner computes routes for one connection. deliver runs only for the
// latest request, and results of replaced requests are reported as
// models.ErrSuperseded without calling it.
type Planner interface {
	ComputeAndDeliver(ctx context.Context, req models.ComputeRequest, deliver func(*models.ComputedRoute, error)) error
	Close()
}

type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	planner Planner
	config  Config
	logger  *logger.Logger
	OwnerID string

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func NewClient(hub *Hub, conn *websocket.Conn, ownerID string, planner Planner, config Config, log *logger.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		hub:     hub,
		conn:    conn,
		planner: planner,
		config:  config.withDefaults(),
		logger:  log.WithOwnerID(ownerID),
		OwnerID: ownerID,
		ctx:     ctx,
		cancel:  cancel,
		send:    make(chan []byte, sendBufferSize),
	}
}

// queue reports false when the buffer is full. Queueing on a closed client
// is a silent no-op.
func (c *Client) queue(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return true
	}
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// close releases the client lock before closing the planner: the planner
// delivers while holding its own lock.
func (c *Client) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.cancel()
	close(c.send)
	c.mu.Unlock()

	c.planner.Close()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.config.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.config.PongTimeout))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.WithError(err).Warn("Live connection closed unexpectedly")
			}
			break
		}

		c.handleMessage(message)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(message []byte) {
	var msg Message
	if err := json.Unmarshal(message, &msg); err != nil {
		c.sendError(MessageError, "", ErrorPayload{Code: "BAD_MESSAGE", Message: "Message is not valid JSON"})
		return
	}

	switch msg.Type {
	case MessageComputeRoute:
		var req models.ComputeRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			c.sendError(MessageRouteError, msg.RequestID, ErrorPayload{Code: "BAD_MESSAGE", Message: "Invalid compute_route payload"})
			return
		}
		if errs := validators.ValidateComputeRequest(&req); len(errs) > 0 {
			c.sendError(MessageRouteError, msg.RequestID, ErrorPayload{Code: "VALIDATION_ERROR", Message: utils.ErrValidationFailed, Details: errs.Fields()})
			return
		}
		go c.compute(msg.RequestID, req)

	default:
		c.sendError(MessageError, msg.RequestID, ErrorPayload{Code: "UNKNOWN_MESSAGE", Message: "Unsupported message type " + msg.Type})
	}
}

func (c *Client) compute(requestID string, req models.ComputeRequest) {
	queued := true
	err := c.planner.ComputeAndDeliver(c.ctx, req, func(route *models.ComputedRoute, err error) {
		if message := c.resultMessage(requestID, route, err); message != nil {
			queued = c.queue(message)
		}
	})
	if errors.Is(err, models.ErrSuperseded) {
		return
	}
	if !queued {
		c.logger.Warn("Live client buffer full, disconnecting")
		c.close()
	}
}

// resultMessage encodes the outcome of a computation, or returns nil when
// nothing should be sent.
func (c *Client) resultMessage(requestID string, route *models.ComputedRoute, err error) []byte {
	if err != nil {
		if errors.Is(err, models.ErrSuperseded) || c.ctx.Err() != nil {
			return nil
		}
		kind := utils.ClassifyError(err)
		if kind.Status >= 500 {
			c.logger.WithError(err).Warn("Live route computation failed")
		}
		message, encodeErr := newMessage(MessageRouteError, requestID, ErrorPayload{Code: kind.Code, Message: utils.PublicMessage(err)})
		if encodeErr != nil {
			return nil
		}
		return message
	}

	message, err := newMessage(MessageRouteComputed, requestID, route)
	if err != nil {
		c.logger.WithError(err).Error("Failed to encode computed route")
		return nil
	}
	return message
}

func (c *Client) sendError(messageType, requestID string, payload ErrorPayload) {
	message, err := newMessage(messageType, requestID, payload)
	if err != nil {
		return
	}
	c.deliver(message)
}

func (c *Client) deliver(message []byte) {
	if !c.queue(message) {
		c.logger.Warn("Live client buffer full, disconnecting")
		c.close()
	}
}
