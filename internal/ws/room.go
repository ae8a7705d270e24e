package ws

import "fmt"

// Room keys. A connection's subscriptions must stay a subset of its
// persisted memberships; the hub only subscribes ids the membership
// store confirmed.

func WorkspaceRoom(workspaceID int64) string {
	return fmt.Sprintf("workspace:%d", workspaceID)
}

func ChannelRoom(channelID int64) string {
	return fmt.Sprintf("channel:%d", channelID)
}
