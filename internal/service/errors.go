package service

import "errors"

// Domain errors surfaced to the transport layers. Handlers map these to
// HTTP statuses; the socket layer maps them to error events. Anything
// else is an internal failure reported generically.
var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrChannelNotFound   = errors.New("channel not found")

	// Authorization failures deliberately leak nothing about the target
	// beyond "access denied".
	ErrNotWorkspaceMember = errors.New("access denied to this workspace")
	ErrNotChannelMember   = errors.New("access denied to this channel")

	ErrAlreadyWorkspaceMember = errors.New("already a member of this workspace")
	ErrAlreadyChannelMember   = errors.New("already a member of this channel")
	ErrChannelNameTaken       = errors.New("channel name already exists in this workspace")

	ErrMissingChannel = errors.New("channel id is required")
	ErrEmptyMessage   = errors.New("message content is required")
)
