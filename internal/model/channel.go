package model

import "time"

type Channel struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	WorkspaceID int64     `json:"workspace_id"`
	CreatedBy   int64     `json:"created_by"`
	IsPrivate   bool      `json:"is_private"`
	CreatedAt   time.Time `json:"created_at"`
}

// ChannelMember rows are the sole authorization fact for sending and
// receiving in a channel.
type ChannelMember struct {
	ChannelID int64     `json:"channel_id"`
	UserID    int64     `json:"user_id"`
	JoinedAt  time.Time `json:"joined_at"`
}

// ChannelMembership is the read model for listing the channels a user
// belongs to within a workspace.
type ChannelMembership struct {
	Channel
	JoinedAt time.Time `json:"joined_at"`
}
