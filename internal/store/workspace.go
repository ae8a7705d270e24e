package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"huddle.app/chat/core/db"
	"huddle.app/chat/internal/model"
)

type workspaceStore struct {
	q db.DBTX
}

func newWorkspaceStore(q db.DBTX) WorkspaceStore {
	return &workspaceStore{q: q}
}

func (s *workspaceStore) Create(ctx context.Context, ws *model.Workspace) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO workspaces (id, public_id, name, description, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		ws.ID, ws.PublicID, ws.Name, ws.Description, ws.OwnerID,
	)
	return row.Scan(&ws.CreatedAt)
}

func (s *workspaceStore) GetByPublicID(ctx context.Context, publicID string) (*model.Workspace, error) {
	row := s.q.QueryRow(ctx, `
		SELECT id, public_id, name, description, owner_id, created_at
		FROM workspaces
		WHERE public_id = $1`,
		publicID,
	)

	var ws model.Workspace
	err := row.Scan(&ws.ID, &ws.PublicID, &ws.Name, &ws.Description, &ws.OwnerID, &ws.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ws, nil
}

func (s *workspaceStore) ListByUser(ctx context.Context, userID int64) ([]model.WorkspaceMembership, error) {
	rows, err := s.q.Query(ctx, `
		SELECT w.id, w.public_id, w.name, w.description, w.owner_id, w.created_at,
		       wm.role, wm.joined_at
		FROM workspaces w
		JOIN workspace_members wm ON w.id = wm.workspace_id
		WHERE wm.user_id = $1
		ORDER BY w.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.WorkspaceMembership
	for rows.Next() {
		var m model.WorkspaceMembership
		if err := rows.Scan(
			&m.ID, &m.PublicID, &m.Name, &m.Description, &m.OwnerID, &m.CreatedAt,
			&m.Role, &m.JoinedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}
