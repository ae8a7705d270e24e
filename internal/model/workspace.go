package model

import "time"

type Workspace struct {
	ID int64 `json:"id"`

	// PublicID is the 8-digit numeric string users share to invite
	// others. The internal id never leaves the server.
	PublicID    string    `json:"public_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	OwnerID     int64     `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

type WorkspaceMember struct {
	WorkspaceID int64     `json:"workspace_id"`
	UserID      int64     `json:"user_id"`
	Role        Role      `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

// WorkspaceMembership is the read model for listing a user's workspaces.
type WorkspaceMembership struct {
	Workspace
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}
