package service

import (
	"huddle.app/chat/core/db"
	"huddle.app/chat/internal/store"
)

// Services is the factory for all domain services. Built once at startup
// with the pool-backed stores, the transaction runner, and the live
// connection broadcaster.
type Services struct {
	workspaces WorkspaceService
	channels   ChannelService
	messages   MessageService
	rooms      RoomService
}

func NewServices(database *db.DB, broadcaster Broadcaster) *Services {
	stores := store.NewStores(database.Pool())
	txRunner := NewTxRunner(database)
	return &Services{
		workspaces: NewWorkspaceService(stores, txRunner),
		channels:   NewChannelService(stores, txRunner, broadcaster),
		messages:   NewMessageService(stores, broadcaster),
		rooms:      NewRoomService(stores),
	}
}

func (s *Services) Workspaces() WorkspaceService { return s.workspaces }
func (s *Services) Channels() ChannelService     { return s.channels }
func (s *Services) Messages() MessageService     { return s.messages }
func (s *Services) Rooms() RoomService           { return s.rooms }
