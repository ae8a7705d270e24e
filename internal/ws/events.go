package ws

import (
	"time"

	"huddle.app/chat/internal/model"
)

// Inbound event names. Each live connection gets a dispatch table keyed
// by these, built once at accept time.
const (
	EventJoinWorkspaces = "join-workspaces"
	EventJoinChannels   = "join-channels"
	EventSendMessage    = "send-message"
	EventTypingStart    = "typing-start"
	EventTypingStop     = "typing-stop"
)

// Outbound event names.
const (
	EventNewMessage        = "new-message"
	EventUserTyping        = "user-typing"
	EventUserStoppedTyping = "user-stopped-typing"
	EventNewChannel        = "new-channel"
	EventError             = "error"
)

// Frame is the wire envelope in both directions.
type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// All int64 ids cross the wire as strings; snowflake ids overflow the
// 53-bit integer range JavaScript clients can represent.

type SendMessageRequest struct {
	ChannelID int64  `json:"channelId,string"`
	Content   string `json:"content"`
}

type TypingRequest struct {
	ChannelID int64 `json:"channelId,string"`
}

type MessageAuthor struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

type MessagePayload struct {
	ID        int64         `json:"id,string"`
	Content   string        `json:"content"`
	ChannelID int64         `json:"channelId,string"`
	UserID    int64         `json:"userId,string"`
	User      MessageAuthor `json:"user"`
	CreatedAt time.Time     `json:"createdAt"`
}

func NewMessagePayload(m *model.MessageWithAuthor) MessagePayload {
	return MessagePayload{
		ID:        m.ID,
		Content:   m.Content,
		ChannelID: m.ChannelID,
		UserID:    m.UserID,
		User: MessageAuthor{
			DisplayName: m.AuthorName,
			Email:       m.AuthorEmail,
		},
		CreatedAt: m.CreatedAt,
	}
}

// ChannelPayload announces a new channel to a workspace room. The
// workspace id is the public one; internal ids never leave the server.
type ChannelPayload struct {
	ID          int64     `json:"id,string"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	WorkspaceID string    `json:"workspaceId"`
	IsPrivate   bool      `json:"isPrivate"`
	CreatedAt   time.Time `json:"createdAt"`
}

func NewChannelPayload(ch *model.Channel, workspacePublicID string) ChannelPayload {
	return ChannelPayload{
		ID:          ch.ID,
		Name:        ch.Name,
		Description: ch.Description,
		WorkspaceID: workspacePublicID,
		IsPrivate:   ch.IsPrivate,
		CreatedAt:   ch.CreatedAt,
	}
}

type TypingPayload struct {
	UserID      int64  `json:"userId,string"`
	DisplayName string `json:"displayName,omitempty"`
	ChannelID   int64  `json:"channelId,string"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
