package service

// Broadcaster fans an event out to every live connection subscribed to a
// room. The hub implements it; services receive it from the composition
// root rather than reaching for a shared transport handle. Delivery is
// best-effort: a broadcast failure after a committed write is logged by
// the transport, never rolled back, never retried.
type Broadcaster interface {
	BroadcastToWorkspace(workspaceID int64, event string, data any)
	BroadcastToChannel(channelID int64, event string, data any)
}
