package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"huddle.app/chat/core/db"
	"huddle.app/chat/internal/model"
)

type workspaceMemberStore struct {
	q db.DBTX
}

func newWorkspaceMemberStore(q db.DBTX) WorkspaceMemberStore {
	return &workspaceMemberStore{q: q}
}

func (s *workspaceMemberStore) Add(ctx context.Context, m *model.WorkspaceMember) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO workspace_members (workspace_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING joined_at`,
		m.WorkspaceID, m.UserID, m.Role,
	)
	return row.Scan(&m.JoinedAt)
}

func (s *workspaceMemberStore) Get(ctx context.Context, workspaceID, userID int64) (*model.WorkspaceMember, error) {
	row := s.q.QueryRow(ctx, `
		SELECT workspace_id, user_id, role, joined_at
		FROM workspace_members
		WHERE workspace_id = $1 AND user_id = $2`,
		workspaceID, userID,
	)

	var m model.WorkspaceMember
	err := row.Scan(&m.WorkspaceID, &m.UserID, &m.Role, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (s *workspaceMemberStore) ListUserIDs(ctx context.Context, workspaceID int64) ([]int64, error) {
	rows, err := s.q.Query(ctx, `
		SELECT user_id FROM workspace_members WHERE workspace_id = $1`,
		workspaceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanIDs(rows)
}

func (s *workspaceMemberStore) FilterMemberWorkspaceIDs(ctx context.Context, userID int64, publicIDs []string) ([]int64, error) {
	if len(publicIDs) == 0 {
		return nil, nil
	}

	rows, err := s.q.Query(ctx, `
		SELECT wm.workspace_id
		FROM workspace_members wm
		JOIN workspaces w ON wm.workspace_id = w.id
		WHERE wm.user_id = $1 AND w.public_id = ANY($2)`,
		userID, publicIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanIDs(rows)
}

func scanIDs(rows pgx.Rows) ([]int64, error) {
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
