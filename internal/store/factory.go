package store

import (
	"huddle.app/chat/core/db"
)

type Stores struct {
	q db.DBTX
}

// NewStores builds the store set over a pool or an open transaction.
func NewStores(q db.DBTX) *Stores {
	return &Stores{q: q}
}

func (s *Stores) Users() UserStore {
	return newUserStore(s.q)
}

func (s *Stores) Workspaces() WorkspaceStore {
	return newWorkspaceStore(s.q)
}

func (s *Stores) WorkspaceMembers() WorkspaceMemberStore {
	return newWorkspaceMemberStore(s.q)
}

func (s *Stores) Channels() ChannelStore {
	return newChannelStore(s.q)
}

func (s *Stores) ChannelMembers() ChannelMemberStore {
	return newChannelMemberStore(s.q)
}

func (s *Stores) Messages() MessageStore {
	return newMessageStore(s.q)
}
