package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"huddle.app/chat/core/db"
	"huddle.app/chat/internal/model"
)

type channelStore struct {
	q db.DBTX
}

func newChannelStore(q db.DBTX) ChannelStore {
	return &channelStore{q: q}
}

func (s *channelStore) Create(ctx context.Context, ch *model.Channel) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO channels (id, name, description, workspace_id, created_by, is_private)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		ch.ID, ch.Name, ch.Description, ch.WorkspaceID, ch.CreatedBy, ch.IsPrivate,
	)
	return row.Scan(&ch.CreatedAt)
}

func (s *channelStore) GetByID(ctx context.Context, id int64) (*model.Channel, error) {
	row := s.q.QueryRow(ctx, `
		SELECT id, name, description, workspace_id, created_by, is_private, created_at
		FROM channels
		WHERE id = $1`,
		id,
	)
	return scanChannel(row)
}

func (s *channelStore) GetByWorkspaceAndName(ctx context.Context, workspaceID int64, name string) (*model.Channel, error) {
	row := s.q.QueryRow(ctx, `
		SELECT id, name, description, workspace_id, created_by, is_private, created_at
		FROM channels
		WHERE workspace_id = $1 AND name = $2`,
		workspaceID, name,
	)
	return scanChannel(row)
}

func (s *channelStore) ListPublicIDs(ctx context.Context, workspaceID int64) ([]int64, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id FROM channels
		WHERE workspace_id = $1 AND is_private = false`,
		workspaceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanIDs(rows)
}

func (s *channelStore) ListForUser(ctx context.Context, workspaceID, userID int64) ([]model.ChannelMembership, error) {
	rows, err := s.q.Query(ctx, `
		SELECT c.id, c.name, c.description, c.workspace_id, c.created_by, c.is_private, c.created_at,
		       cm.joined_at
		FROM channels c
		JOIN channel_members cm ON c.id = cm.channel_id
		WHERE c.workspace_id = $1 AND cm.user_id = $2
		ORDER BY c.created_at ASC`,
		workspaceID, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.ChannelMembership
	for rows.Next() {
		var m model.ChannelMembership
		if err := rows.Scan(
			&m.ID, &m.Name, &m.Description, &m.WorkspaceID, &m.CreatedBy, &m.IsPrivate, &m.CreatedAt,
			&m.JoinedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func scanChannel(row pgx.Row) (*model.Channel, error) {
	var ch model.Channel
	err := row.Scan(&ch.ID, &ch.Name, &ch.Description, &ch.WorkspaceID, &ch.CreatedBy, &ch.IsPrivate, &ch.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ch, nil
}
