package service

import (
	"context"
	"fmt"
)

// RoomService resolves room subscription requests against the membership
// tables. Connections ask to join rooms by id; only the ids the user is
// actually a member of come back. Unauthorized and unknown ids are
// silently filtered rather than rejected, so a probing client learns
// nothing from the response shape.
type RoomService interface {
	MemberWorkspaceIDs(ctx context.Context, userID int64, publicIDs []string) ([]int64, error)
	MemberChannelIDs(ctx context.Context, userID int64, channelIDs []int64) ([]int64, error)
}

type roomService struct {
	stores StoreProvider
}

func NewRoomService(stores StoreProvider) RoomService {
	return &roomService{stores: stores}
}

func (s *roomService) MemberWorkspaceIDs(ctx context.Context, userID int64, publicIDs []string) ([]int64, error) {
	if len(publicIDs) == 0 {
		return nil, nil
	}
	ids, err := s.stores.WorkspaceMembers().FilterMemberWorkspaceIDs(ctx, userID, publicIDs)
	if err != nil {
		return nil, fmt.Errorf("filtering workspace memberships: %w", err)
	}
	return ids, nil
}

func (s *roomService) MemberChannelIDs(ctx context.Context, userID int64, channelIDs []int64) ([]int64, error) {
	if len(channelIDs) == 0 {
		return nil, nil
	}
	ids, err := s.stores.ChannelMembers().FilterMemberChannelIDs(ctx, userID, channelIDs)
	if err != nil {
		return nil, fmt.Errorf("filtering channel memberships: %w", err)
	}
	return ids, nil
}
