// Package ws owns the transient room topology: which live connections
// receive which broadcasts. Durable membership lives in the store; the
// hub only ever mirrors a confirmed subset of it, and its state is
// private to this process.
package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Hub is the room-subscription registry. It is constructed once at the
// composition root and injected wherever broadcast is needed, never
// looked up as ambient state.
type Hub struct {
	mu sync.RWMutex

	// rooms maps room key -> subscribed clients.
	rooms map[string]map[*Client]struct{}

	// byClient is the reverse index, for full removal on disconnect.
	byClient map[*Client]map[string]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms:    make(map[string]map[*Client]struct{}),
		byClient: make(map[*Client]map[string]struct{}),
	}
}

// Subscribe adds the client to a room. Subscribing an already-subscribed
// client is a no-op.
func (h *Hub) Subscribe(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][c] = struct{}{}

	if h.byClient[c] == nil {
		h.byClient[c] = make(map[string]struct{})
	}
	h.byClient[c][room] = struct{}{}
}

// Unsubscribe removes the client from a single room.
func (h *Hub) Unsubscribe(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeFromRoom(c, room)
	delete(h.byClient[c], room)
}

// RemoveClient drops the client from every room. Called on disconnect.
func (h *Hub) RemoveClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room := range h.byClient[c] {
		h.removeFromRoom(c, room)
	}
	delete(h.byClient, c)
}

func (h *Hub) removeFromRoom(c *Client, room string) {
	if members := h.rooms[room]; members != nil {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Rooms returns the client's current subscription set.
func (h *Hub) Rooms(c *Client) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	rooms := make([]string, 0, len(h.byClient[c]))
	for room := range h.byClient[c] {
		rooms = append(rooms, room)
	}
	return rooms
}

// Broadcast sends an event to every connection in the room, including
// the sender if subscribed.
func (h *Hub) Broadcast(room, event string, data any) {
	h.broadcast(room, nil, event, data)
}

// BroadcastExcept sends an event to every connection in the room except
// one. Used for typing indicators, which the sender never needs echoed.
func (h *Hub) BroadcastExcept(room string, except *Client, event string, data any) {
	h.broadcast(room, except, event, data)
}

// BroadcastToWorkspace and BroadcastToChannel satisfy the service
// layer's Broadcaster without leaking room-key formatting into it.

func (h *Hub) BroadcastToWorkspace(workspaceID int64, event string, data any) {
	h.Broadcast(WorkspaceRoom(workspaceID), event, data)
}

func (h *Hub) BroadcastToChannel(channelID int64, event string, data any) {
	h.Broadcast(ChannelRoom(channelID), event, data)
}

func (h *Hub) broadcast(room string, except *Client, event string, data any) {
	msg, err := json.Marshal(Frame{Event: event, Data: data})
	if err != nil {
		slog.Error("marshaling broadcast frame", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		if c != except {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.enqueue(msg)
	}
}
