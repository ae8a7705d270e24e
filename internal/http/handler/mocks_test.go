package handler_test

import (
	"context"

	"huddle.app/chat/internal/auth"
	"huddle.app/chat/internal/model"
)

type mockWorkspaceService struct {
	createFn         func(ctx context.Context, owner auth.Identity, name string, description *string) (*model.Workspace, *model.Channel, error)
	joinFn           func(ctx context.Context, user auth.Identity, publicID string) (*model.Workspace, error)
	listFn           func(ctx context.Context, userID int64) ([]model.WorkspaceMembership, error)
	previewFn        func(ctx context.Context, publicID string) (*model.Workspace, error)
	getForMemberFn   func(ctx context.Context, userID int64, publicID string) (*model.Workspace, model.Role, error)
	memberChannelsFn func(ctx context.Context, userID, workspaceID int64) ([]model.ChannelMembership, error)
}

func (m *mockWorkspaceService) Create(ctx context.Context, owner auth.Identity, name string, description *string) (*model.Workspace, *model.Channel, error) {
	if m.createFn != nil {
		return m.createFn(ctx, owner, name, description)
	}
	return nil, nil, nil
}

func (m *mockWorkspaceService) Join(ctx context.Context, user auth.Identity, publicID string) (*model.Workspace, error) {
	if m.joinFn != nil {
		return m.joinFn(ctx, user, publicID)
	}
	return nil, nil
}

func (m *mockWorkspaceService) List(ctx context.Context, userID int64) ([]model.WorkspaceMembership, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockWorkspaceService) Preview(ctx context.Context, publicID string) (*model.Workspace, error) {
	if m.previewFn != nil {
		return m.previewFn(ctx, publicID)
	}
	return nil, nil
}

func (m *mockWorkspaceService) GetForMember(ctx context.Context, userID int64, publicID string) (*model.Workspace, model.Role, error) {
	if m.getForMemberFn != nil {
		return m.getForMemberFn(ctx, userID, publicID)
	}
	return nil, "", nil
}

func (m *mockWorkspaceService) MemberChannels(ctx context.Context, userID, workspaceID int64) ([]model.ChannelMembership, error) {
	if m.memberChannelsFn != nil {
		return m.memberChannelsFn(ctx, userID, workspaceID)
	}
	return nil, nil
}

type mockChannelService struct {
	createFn       func(ctx context.Context, creatorID int64, workspacePublicID, name string, description *string, isPrivate bool) (*model.Channel, error)
	joinFn         func(ctx context.Context, userID, channelID int64) (*model.Channel, error)
	leaveFn        func(ctx context.Context, userID, channelID int64) error
	getForMemberFn func(ctx context.Context, userID, channelID int64) (*model.Channel, error)
}

func (m *mockChannelService) Create(ctx context.Context, creatorID int64, workspacePublicID, name string, description *string, isPrivate bool) (*model.Channel, error) {
	if m.createFn != nil {
		return m.createFn(ctx, creatorID, workspacePublicID, name, description, isPrivate)
	}
	return nil, nil
}

func (m *mockChannelService) Join(ctx context.Context, userID, channelID int64) (*model.Channel, error) {
	if m.joinFn != nil {
		return m.joinFn(ctx, userID, channelID)
	}
	return nil, nil
}

func (m *mockChannelService) Leave(ctx context.Context, userID, channelID int64) error {
	if m.leaveFn != nil {
		return m.leaveFn(ctx, userID, channelID)
	}
	return nil
}

func (m *mockChannelService) GetForMember(ctx context.Context, userID, channelID int64) (*model.Channel, error) {
	if m.getForMemberFn != nil {
		return m.getForMemberFn(ctx, userID, channelID)
	}
	return nil, nil
}

type mockMessageService struct {
	sendFn func(ctx context.Context, sender auth.Identity, channelID int64, content string) (*model.MessageWithAuthor, error)
	listFn func(ctx context.Context, userID, channelID int64, limit, offset int32) ([]model.MessageWithAuthor, error)
}

func (m *mockMessageService) Send(ctx context.Context, sender auth.Identity, channelID int64, content string) (*model.MessageWithAuthor, error) {
	if m.sendFn != nil {
		return m.sendFn(ctx, sender, channelID, content)
	}
	return nil, nil
}

func (m *mockMessageService) List(ctx context.Context, userID, channelID int64, limit, offset int32) ([]model.MessageWithAuthor, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, channelID, limit, offset)
	}
	return nil, nil
}

type mockRoomService struct {
	memberWorkspaceIDsFn func(ctx context.Context, userID int64, publicIDs []string) ([]int64, error)
	memberChannelIDsFn   func(ctx context.Context, userID int64, channelIDs []int64) ([]int64, error)
}

func (m *mockRoomService) MemberWorkspaceIDs(ctx context.Context, userID int64, publicIDs []string) ([]int64, error) {
	if m.memberWorkspaceIDsFn != nil {
		return m.memberWorkspaceIDsFn(ctx, userID, publicIDs)
	}
	return nil, nil
}

func (m *mockRoomService) MemberChannelIDs(ctx context.Context, userID int64, channelIDs []int64) ([]int64, error) {
	if m.memberChannelIDsFn != nil {
		return m.memberChannelIDsFn(ctx, userID, channelIDs)
	}
	return nil, nil
}
