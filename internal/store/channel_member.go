package store

import (
	"context"

	"huddle.app/chat/core/db"
)

type channelMemberStore struct {
	q db.DBTX
}

func newChannelMemberStore(q db.DBTX) ChannelMemberStore {
	return &channelMemberStore{q: q}
}

func (s *channelMemberStore) Add(ctx context.Context, channelID, userID int64) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO channel_members (channel_id, user_id)
		VALUES ($1, $2)`,
		channelID, userID,
	)
	return err
}

func (s *channelMemberStore) Remove(ctx context.Context, channelID, userID int64) error {
	_, err := s.q.Exec(ctx, `
		DELETE FROM channel_members
		WHERE channel_id = $1 AND user_id = $2`,
		channelID, userID,
	)
	return err
}

func (s *channelMemberStore) Exists(ctx context.Context, channelID, userID int64) (bool, error) {
	row := s.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM channel_members
			WHERE channel_id = $1 AND user_id = $2
		)`,
		channelID, userID,
	)

	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *channelMemberStore) AddMembers(ctx context.Context, channelID int64, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	// One multi-row insert per fan-out; the (channel_id, user_id) unique
	// constraint makes it safe under concurrent joins.
	_, err := s.q.Exec(ctx, `
		INSERT INTO channel_members (channel_id, user_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT (channel_id, user_id) DO NOTHING`,
		channelID, userIDs,
	)
	return err
}

func (s *channelMemberStore) AddToChannels(ctx context.Context, userID int64, channelIDs []int64) error {
	if len(channelIDs) == 0 {
		return nil
	}
	_, err := s.q.Exec(ctx, `
		INSERT INTO channel_members (channel_id, user_id)
		SELECT unnest($1::bigint[]), $2
		ON CONFLICT (channel_id, user_id) DO NOTHING`,
		channelIDs, userID,
	)
	return err
}

func (s *channelMemberStore) FilterMemberChannelIDs(ctx context.Context, userID int64, channelIDs []int64) ([]int64, error) {
	if len(channelIDs) == 0 {
		return nil, nil
	}

	rows, err := s.q.Query(ctx, `
		SELECT channel_id FROM channel_members
		WHERE user_id = $1 AND channel_id = ANY($2)`,
		userID, channelIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanIDs(rows)
}
