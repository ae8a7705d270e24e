package model

import "time"

// Message is append-only chat history. Once the insert commits the
// message is durable regardless of broadcast outcome.
type Message struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	ChannelID int64     `json:"channel_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageWithAuthor joins the author's identity for history reads and
// broadcast views.
type MessageWithAuthor struct {
	Message
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
}
