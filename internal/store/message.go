package store

import (
	"context"

	"huddle.app/chat/core/db"
	"huddle.app/chat/internal/model"
)

type messageStore struct {
	q db.DBTX
}

func newMessageStore(q db.DBTX) MessageStore {
	return &messageStore{q: q}
}

// Create inserts the message row. This is the durability point of the
// send pipeline: once it returns nil, the message is part of the
// channel's history regardless of broadcast outcome.
func (s *messageStore) Create(ctx context.Context, m *model.Message) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO messages (id, content, channel_id, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		m.ID, m.Content, m.ChannelID, m.UserID,
	)
	return row.Scan(&m.CreatedAt)
}

func (s *messageStore) ListByChannel(ctx context.Context, channelID int64, limit, offset int32) ([]model.MessageWithAuthor, error) {
	rows, err := s.q.Query(ctx, `
		SELECT m.id, m.content, m.channel_id, m.user_id, m.created_at,
		       u.display_name, u.email
		FROM messages m
		JOIN users u ON m.user_id = u.id
		WHERE m.channel_id = $1
		ORDER BY m.created_at DESC
		LIMIT $2 OFFSET $3`,
		channelID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.MessageWithAuthor
	for rows.Next() {
		var m model.MessageWithAuthor
		if err := rows.Scan(
			&m.ID, &m.Content, &m.ChannelID, &m.UserID, &m.CreatedAt,
			&m.AuthorName, &m.AuthorEmail,
		); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}
