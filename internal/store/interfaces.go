package store

import (
	"context"
	"errors"

	"huddle.app/chat/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// UserStore defines the contract for mirrored identity rows
type UserStore interface {
	Upsert(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// WorkspaceStore defines the contract for workspace data access
type WorkspaceStore interface {
	Create(ctx context.Context, ws *model.Workspace) error
	GetByPublicID(ctx context.Context, publicID string) (*model.Workspace, error)
	ListByUser(ctx context.Context, userID int64) ([]model.WorkspaceMembership, error)
}

// WorkspaceMemberStore defines the contract for workspace membership rows
type WorkspaceMemberStore interface {
	Add(ctx context.Context, m *model.WorkspaceMember) error
	Get(ctx context.Context, workspaceID, userID int64) (*model.WorkspaceMember, error)
	ListUserIDs(ctx context.Context, workspaceID int64) ([]int64, error)

	// FilterMemberWorkspaceIDs resolves the requested public workspace ids
	// to internal ids, keeping only those the user is a member of. A
	// single batched query; unknown and unauthorized ids are silently
	// absent from the result.
	FilterMemberWorkspaceIDs(ctx context.Context, userID int64, publicIDs []string) ([]int64, error)
}

// ChannelStore defines the contract for channel data access
type ChannelStore interface {
	Create(ctx context.Context, ch *model.Channel) error
	GetByID(ctx context.Context, id int64) (*model.Channel, error)
	GetByWorkspaceAndName(ctx context.Context, workspaceID int64, name string) (*model.Channel, error)
	ListPublicIDs(ctx context.Context, workspaceID int64) ([]int64, error)
	ListForUser(ctx context.Context, workspaceID, userID int64) ([]model.ChannelMembership, error)
}

// ChannelMemberStore defines the contract for channel membership rows
type ChannelMemberStore interface {
	Add(ctx context.Context, channelID, userID int64) error
	Remove(ctx context.Context, channelID, userID int64) error
	Exists(ctx context.Context, channelID, userID int64) (bool, error)

	// AddMembers inserts one membership row per user in a single
	// multi-row statement. Duplicate rows are skipped, so the fan-out is
	// safe under concurrent joins.
	AddMembers(ctx context.Context, channelID int64, userIDs []int64) error

	// AddToChannels is the join-workspace fan-out: one row per channel
	// for a single user, same duplicate policy as AddMembers.
	AddToChannels(ctx context.Context, userID int64, channelIDs []int64) error

	// FilterMemberChannelIDs keeps only the channel ids the user is a
	// member of. A single batched query.
	FilterMemberChannelIDs(ctx context.Context, userID int64, channelIDs []int64) ([]int64, error)
}

// MessageStore defines the contract for message data access
type MessageStore interface {
	Create(ctx context.Context, m *model.Message) error

	// ListByChannel returns a newest-first page; callers reverse it to
	// chronological order before returning it to clients.
	ListByChannel(ctx context.Context, channelID int64, limit, offset int32) ([]model.MessageWithAuthor, error)
}
