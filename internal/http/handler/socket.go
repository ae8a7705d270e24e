package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"huddle.app/chat/internal/auth"
	"huddle.app/chat/internal/presence"
	"huddle.app/chat/internal/service"
	"huddle.app/chat/internal/ws"
)

// SocketHandler accepts websocket connections and wires each one to the
// hub and the domain services. Authentication happens before the
// upgrade; an invalid token costs a plain 401, not a connection.
type SocketHandler struct {
	hub            *ws.Hub
	verifier       *auth.Verifier
	roomService    service.RoomService
	messageService service.MessageService
	tracker        *presence.Tracker
	upgrader       websocket.Upgrader
}

func NewSocketHandler(
	hub *ws.Hub,
	verifier *auth.Verifier,
	roomService service.RoomService,
	messageService service.MessageService,
	tracker *presence.Tracker,
) *SocketHandler {
	return &SocketHandler{
		hub:            hub,
		verifier:       verifier,
		roomService:    roomService,
		messageService: messageService,
		tracker:        tracker,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Token auth makes the connection origin-independent.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Serve upgrades the request and runs the connection until the client
// disconnects. Blocks for the lifetime of the connection.
func (h *SocketHandler) Serve(c *gin.Context) {
	ctx := c.Request.Context()

	identity, err := h.authenticate(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the failure response.
		slog.WarnContext(ctx, "websocket upgrade failed", "error", err, "user_id", identity.UserID)
		return
	}

	client := ws.NewClient(h.hub, conn, identity)
	h.register(client)
	client.Run(c.Request.Context())
}

// authenticate accepts the token from the Authorization header or, for
// browser clients that cannot set headers on websocket requests, from
// the token query parameter.
func (h *SocketHandler) authenticate(c *gin.Context) (auth.Identity, error) {
	token := bearerToken(c.GetHeader("Authorization"))
	if token == "" {
		token = c.Query("token")
	}
	if token == "" {
		return auth.Identity{}, auth.ErrTokenMissing
	}
	return h.verifier.Verify(token)
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// register builds the connection's dispatch table. Every handler checks
// authorization against the database on each event; room membership on
// the hub is never trusted as an authorization fact.
func (h *SocketHandler) register(client *ws.Client) {
	client.On(ws.EventJoinWorkspaces, func(ctx context.Context, data json.RawMessage) {
		h.joinWorkspaces(ctx, client, data)
	})
	client.On(ws.EventJoinChannels, func(ctx context.Context, data json.RawMessage) {
		h.joinChannels(ctx, client, data)
	})
	client.On(ws.EventSendMessage, func(ctx context.Context, data json.RawMessage) {
		h.sendMessage(ctx, client, data)
	})
	client.On(ws.EventTypingStart, func(ctx context.Context, data json.RawMessage) {
		h.typing(ctx, client, data, true)
	})
	client.On(ws.EventTypingStop, func(ctx context.Context, data json.RawMessage) {
		h.typing(ctx, client, data, false)
	})
}

// joinWorkspaces subscribes the connection to the workspace rooms the
// user is a member of. Ids the user has no membership for are dropped
// without feedback; the client cannot distinguish them from unknown
// ids.
func (h *SocketHandler) joinWorkspaces(ctx context.Context, client *ws.Client, data json.RawMessage) {
	var publicIDs []string
	if err := json.Unmarshal(data, &publicIDs); err != nil {
		client.SendError("invalid workspace list")
		return
	}

	ids, err := h.roomService.MemberWorkspaceIDs(ctx, client.Identity().UserID, publicIDs)
	if err != nil {
		slog.ErrorContext(ctx, "failed to resolve workspace rooms", "error", err)
		client.SendError("failed to join workspaces")
		return
	}
	for _, id := range ids {
		h.hub.Subscribe(client, ws.WorkspaceRoom(id))
	}
}

func (h *SocketHandler) joinChannels(ctx context.Context, client *ws.Client, data json.RawMessage) {
	// Channel ids cross the wire as strings, same as everywhere else.
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		client.SendError("invalid channel list")
		return
	}
	requested := make([]int64, 0, len(raw))
	for _, s := range raw {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			client.SendError("invalid channel list")
			return
		}
		requested = append(requested, id)
	}

	ids, err := h.roomService.MemberChannelIDs(ctx, client.Identity().UserID, requested)
	if err != nil {
		slog.ErrorContext(ctx, "failed to resolve channel rooms", "error", err)
		client.SendError("failed to join channels")
		return
	}
	for _, id := range ids {
		h.hub.Subscribe(client, ws.ChannelRoom(id))
	}
}

func (h *SocketHandler) sendMessage(ctx context.Context, client *ws.Client, data json.RawMessage) {
	var req ws.SendMessageRequest
	if err := json.Unmarshal(data, &req); err != nil {
		client.SendError("invalid message")
		return
	}

	_, err := h.messageService.Send(ctx, client.Identity(), req.ChannelID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingChannel),
			errors.Is(err, service.ErrEmptyMessage),
			errors.Is(err, service.ErrNotChannelMember):
			client.SendError(err.Error())
		default:
			slog.ErrorContext(ctx, "failed to send message", "error", err)
			client.SendError("failed to send message")
		}
	}
}

// typing relays typing state to the other members of the channel room
// and records it in the presence store so it expires even if the stop
// event never arrives. Typing is pure signal: no membership check, the
// sender need not be subscribed to the room, and only subscribers see
// the indicator anyway.
func (h *SocketHandler) typing(ctx context.Context, client *ws.Client, data json.RawMessage, start bool) {
	var req ws.TypingRequest
	if err := json.Unmarshal(data, &req); err != nil || req.ChannelID == 0 {
		client.SendError("invalid typing event")
		return
	}

	identity := client.Identity()
	payload := ws.TypingPayload{UserID: identity.UserID, ChannelID: req.ChannelID}

	var trackErr error
	event := ws.EventUserTyping
	if start {
		trackErr = h.tracker.Start(ctx, req.ChannelID, identity.UserID)
		// The display name rides only on the start event; stop
		// identifies the typist by id alone.
		payload.DisplayName = identity.DisplayName
	} else {
		trackErr = h.tracker.Stop(ctx, req.ChannelID, identity.UserID)
		event = ws.EventUserStoppedTyping
	}
	if trackErr != nil {
		// Presence is advisory; broadcast anyway.
		slog.WarnContext(ctx, "failed to record typing presence", "error", trackErr, "channel_id", req.ChannelID)
	}

	h.hub.BroadcastExcept(ws.ChannelRoom(req.ChannelID), client, event, payload)
}
