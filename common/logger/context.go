package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within
// a context. Fields flow through context enrichment, so a socket session can
// tag user/connection once and every log down the call chain carries them.
type LogFields struct {
	UserID      *int64  // authenticated user behind the connection or request
	WorkspaceID *int64  // workspace being operated on
	ChannelID   *int64  // channel being operated on
	ConnID      *string // socket connection id
	Event       *string // inbound socket event name (e.g. "send-message")
	Component   string  // component name (e.g. "chat.ws.session")
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking
// precedence. Context timeouts and cancellation are preserved.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, new LogFields) LogFields {
	result := existing

	if new.UserID != nil {
		result.UserID = new.UserID
	}
	if new.WorkspaceID != nil {
		result.WorkspaceID = new.WorkspaceID
	}
	if new.ChannelID != nil {
		result.ChannelID = new.ChannelID
	}
	if new.ConnID != nil {
		result.ConnID = new.ConnID
	}
	if new.Event != nil {
		result.Event = new.Event
	}
	if new.Component != "" {
		result.Component = new.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{ChannelID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}
