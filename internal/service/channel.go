package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"huddle.app/chat/common/id"
	"huddle.app/chat/common/logger"
	"huddle.app/chat/internal/model"
	"huddle.app/chat/internal/store"
	"huddle.app/chat/internal/ws"
)

type ChannelService interface {
	// Create provisions the channel and fans membership out in one
	// transaction, then announces it to the workspace room.
	Create(ctx context.Context, creatorID int64, workspacePublicID, name string, description *string, isPrivate bool) (*model.Channel, error)

	Join(ctx context.Context, userID, channelID int64) (*model.Channel, error)
	Leave(ctx context.Context, userID, channelID int64) error

	// GetForMember loads a channel, requiring channel membership.
	GetForMember(ctx context.Context, userID, channelID int64) (*model.Channel, error)
}

type channelService struct {
	stores      StoreProvider
	txRunner    TxRunner
	broadcaster Broadcaster
}

func NewChannelService(stores StoreProvider, txRunner TxRunner, broadcaster Broadcaster) ChannelService {
	return &channelService{stores: stores, txRunner: txRunner, broadcaster: broadcaster}
}

func (s *channelService) Create(ctx context.Context, creatorID int64, workspacePublicID, name string, description *string, isPrivate bool) (*model.Channel, error) {
	sc := logger.StartSpan(ctx, "chat.channel.create")
	defer sc.End()
	ctx = sc.Context()

	workspace, err := s.stores.Workspaces().GetByPublicID(ctx, workspacePublicID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("getting workspace: %w", err)
	}

	if _, err := s.stores.WorkspaceMembers().Get(ctx, workspace.ID, creatorID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotWorkspaceMember
		}
		return nil, fmt.Errorf("checking membership: %w", err)
	}

	if _, err := s.stores.Channels().GetByWorkspaceAndName(ctx, workspace.ID, name); err == nil {
		return nil, ErrChannelNameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking channel name: %w", err)
	}

	channel := &model.Channel{
		ID:          id.New(),
		Name:        name,
		Description: description,
		WorkspaceID: workspace.ID,
		CreatedBy:   creatorID,
		IsPrivate:   isPrivate,
	}

	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if err := stores.Channels().Create(ctx, channel); err != nil {
			return fmt.Errorf("creating channel: %w", err)
		}

		// Public channels include every workspace member from the start;
		// private channels start with the creator only.
		memberIDs := []int64{creatorID}
		if !channel.IsPrivate {
			var err error
			memberIDs, err = stores.WorkspaceMembers().ListUserIDs(ctx, workspace.ID)
			if err != nil {
				return fmt.Errorf("listing workspace members: %w", err)
			}
		}
		if err := stores.ChannelMembers().AddMembers(ctx, channel.ID, memberIDs); err != nil {
			return fmt.Errorf("fanning out channel memberships: %w", err)
		}
		return nil
	})
	if err != nil {
		sc.RecordError(err)
		return nil, err
	}

	s.broadcaster.BroadcastToWorkspace(workspace.ID, ws.EventNewChannel, ws.NewChannelPayload(channel, workspace.PublicID))

	slog.InfoContext(ctx, "channel created",
		"channel_id", channel.ID,
		"workspace_id", workspace.ID,
		"is_private", channel.IsPrivate,
	)
	return channel, nil
}

func (s *channelService) Join(ctx context.Context, userID, channelID int64) (*model.Channel, error) {
	channel, err := s.stores.Channels().GetByID(ctx, channelID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, fmt.Errorf("getting channel: %w", err)
	}

	if _, err := s.stores.WorkspaceMembers().Get(ctx, channel.WorkspaceID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotWorkspaceMember
		}
		return nil, fmt.Errorf("checking workspace membership: %w", err)
	}

	member, err := s.stores.ChannelMembers().Exists(ctx, channelID, userID)
	if err != nil {
		return nil, fmt.Errorf("checking channel membership: %w", err)
	}
	if member {
		return nil, ErrAlreadyChannelMember
	}

	if err := s.stores.ChannelMembers().Add(ctx, channelID, userID); err != nil {
		return nil, fmt.Errorf("adding channel membership: %w", err)
	}

	slog.InfoContext(ctx, "user joined channel",
		"channel_id", channelID,
		"user_id", userID,
	)
	return channel, nil
}

func (s *channelService) Leave(ctx context.Context, userID, channelID int64) error {
	if _, err := s.stores.Channels().GetByID(ctx, channelID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrChannelNotFound
		}
		return fmt.Errorf("getting channel: %w", err)
	}

	member, err := s.stores.ChannelMembers().Exists(ctx, channelID, userID)
	if err != nil {
		return fmt.Errorf("checking channel membership: %w", err)
	}
	if !member {
		return ErrNotChannelMember
	}

	if err := s.stores.ChannelMembers().Remove(ctx, channelID, userID); err != nil {
		return fmt.Errorf("removing channel membership: %w", err)
	}

	slog.InfoContext(ctx, "user left channel",
		"channel_id", channelID,
		"user_id", userID,
	)
	return nil
}

func (s *channelService) GetForMember(ctx context.Context, userID, channelID int64) (*model.Channel, error) {
	channel, err := s.stores.Channels().GetByID(ctx, channelID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, fmt.Errorf("getting channel: %w", err)
	}

	member, err := s.stores.ChannelMembers().Exists(ctx, channelID, userID)
	if err != nil {
		return nil, fmt.Errorf("checking channel membership: %w", err)
	}
	if !member {
		return nil, ErrNotChannelMember
	}
	return channel, nil
}
