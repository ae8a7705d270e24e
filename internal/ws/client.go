package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"huddle.app/chat/common/id"
	"huddle.app/chat/common/logger"
	"huddle.app/chat/internal/auth"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 256
)

// EventHandler processes one inbound event. Handlers run on the
// connection's read goroutine, so inbound events are handled strictly in
// arrival order; a blocking store call stalls only this connection.
type EventHandler func(ctx context.Context, data json.RawMessage)

// Client is one authenticated live connection. The identity attached at
// upgrade time is immutable for the connection's lifetime.
type Client struct {
	ID string

	hub      *Hub
	conn     *websocket.Conn
	identity auth.Identity
	send     chan []byte
	handlers map[string]EventHandler
}

func NewClient(hub *Hub, conn *websocket.Conn, identity auth.Identity) *Client {
	return &Client{
		ID:       fmt.Sprintf("%d", id.New()),
		hub:      hub,
		conn:     conn,
		identity: identity,
		send:     make(chan []byte, sendBufferSize),
		handlers: make(map[string]EventHandler),
	}
}

func (c *Client) Identity() auth.Identity {
	return c.identity
}

// On registers a handler for an event name. The dispatch table is built
// once before Run; it is not safe to modify afterwards.
func (c *Client) On(event string, h EventHandler) {
	c.handlers[event] = h
}

// Run pumps the connection until it closes, then removes the client from
// every room. Blocks until disconnect.
func (c *Client) Run(ctx context.Context) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		UserID:    logger.Ptr(c.identity.UserID),
		ConnID:    logger.Ptr(c.ID),
		Component: "chat.ws.session",
	})

	done := make(chan struct{})
	go c.writePump(done)

	c.readPump(ctx)

	close(done)
	c.hub.RemoveClient(c)
	c.conn.Close()
	slog.InfoContext(ctx, "connection closed")
}

// SendEvent queues an event for this connection only.
func (c *Client) SendEvent(event string, data any) {
	msg, err := json.Marshal(Frame{Event: event, Data: data})
	if err != nil {
		slog.Error("marshaling frame", "event", event, "error", err)
		return
	}
	c.enqueue(msg)
}

// SendError reports a failure to the originating connection. Errors are
// never broadcast.
func (c *Client) SendError(message string) {
	c.SendEvent(EventError, ErrorPayload{Message: message})
}

// enqueue hands a marshaled frame to the write pump. A full buffer means
// a slow consumer; the frame is dropped and logged, never retried, and
// never blocks the broadcasting goroutine.
func (c *Client) enqueue(msg []byte) {
	select {
	case c.send <- msg:
	default:
		slog.Warn("dropping frame for slow consumer", "conn_id", c.ID, "user_id", c.identity.UserID)
	}
}

func (c *Client) readPump(ctx context.Context) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.DebugContext(ctx, "read error", "error", err)
			}
			return
		}

		var frame struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.SendError("malformed frame")
			continue
		}

		handler, ok := c.handlers[frame.Event]
		if !ok {
			c.SendError("unknown event: " + frame.Event)
			continue
		}

		evCtx := logger.WithLogFields(ctx, logger.LogFields{Event: logger.Ptr(frame.Event)})
		handler(evCtx, frame.Data)
	}
}

func (c *Client) writePump(done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
