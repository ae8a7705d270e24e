package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"huddle.app/chat/common/id"
	"huddle.app/chat/common/logger"
	"huddle.app/chat/internal/auth"
	"huddle.app/chat/internal/model"
	"huddle.app/chat/internal/ws"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 100
)

type MessageService interface {
	// Send validates, checks membership against the database, persists
	// the message, and broadcasts it to the channel room. The sender
	// receives the broadcast too; the authoritative timestamp and id
	// come back on the same event everyone else sees.
	Send(ctx context.Context, sender auth.Identity, channelID int64, content string) (*model.MessageWithAuthor, error)

	// List returns a page of messages in chronological order. Membership
	// is required; limit defaults to 50 and caps at 100.
	List(ctx context.Context, userID, channelID int64, limit, offset int32) ([]model.MessageWithAuthor, error)
}

type messageService struct {
	stores      StoreProvider
	broadcaster Broadcaster
}

func NewMessageService(stores StoreProvider, broadcaster Broadcaster) MessageService {
	return &messageService{stores: stores, broadcaster: broadcaster}
}

func (s *messageService) Send(ctx context.Context, sender auth.Identity, channelID int64, content string) (*model.MessageWithAuthor, error) {
	sc := logger.StartSpan(ctx, "chat.message.send")
	defer sc.End()
	ctx = sc.Context()

	if channelID == 0 {
		return nil, ErrMissingChannel
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	// Membership is checked fresh on every send. Room subscriptions are
	// point-in-time; a member removed after subscribing must not be able
	// to keep posting.
	member, err := s.stores.ChannelMembers().Exists(ctx, channelID, sender.UserID)
	if err != nil {
		return nil, fmt.Errorf("checking channel membership: %w", err)
	}
	if !member {
		return nil, ErrNotChannelMember
	}

	msg := &model.Message{
		ID:        id.New(),
		Content:   content,
		ChannelID: channelID,
		UserID:    sender.UserID,
	}
	if err := s.stores.Messages().Create(ctx, msg); err != nil {
		sc.RecordError(err)
		return nil, fmt.Errorf("creating message: %w", err)
	}

	full := &model.MessageWithAuthor{
		Message:     *msg,
		AuthorName:  sender.DisplayName,
		AuthorEmail: sender.Email,
	}
	s.broadcaster.BroadcastToChannel(channelID, ws.EventNewMessage, ws.NewMessagePayload(full))

	slog.InfoContext(ctx, "message sent",
		"message_id", msg.ID,
		"channel_id", channelID,
		"user_id", sender.UserID,
	)
	return full, nil
}

func (s *messageService) List(ctx context.Context, userID, channelID int64, limit, offset int32) ([]model.MessageWithAuthor, error) {
	member, err := s.stores.ChannelMembers().Exists(ctx, channelID, userID)
	if err != nil {
		return nil, fmt.Errorf("checking channel membership: %w", err)
	}
	if !member {
		return nil, ErrNotChannelMember
	}

	if limit <= 0 {
		limit = defaultMessageLimit
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}
	if offset < 0 {
		offset = 0
	}

	page, err := s.stores.Messages().ListByChannel(ctx, channelID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	// The store pages newest-first; clients render oldest-first.
	for i, j := 0, len(page)-1; i < j; i, j = i+1, j-1 {
		page[i], page[j] = page[j], page[i]
	}
	return page, nil
}
