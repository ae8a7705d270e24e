package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"huddle.app/chat/core/db"
	"huddle.app/chat/internal/model"
)

type userStore struct {
	q db.DBTX
}

func newUserStore(q db.DBTX) UserStore {
	return &userStore{q: q}
}

// Upsert mirrors a verified token identity into the users table. Email
// and display name follow whatever the token currently carries.
func (s *userStore) Upsert(ctx context.Context, u *model.User) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO users (id, email, display_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email, display_name = EXCLUDED.display_name
		RETURNING created_at`,
		u.ID, u.Email, u.DisplayName,
	)
	return row.Scan(&u.CreatedAt)
}

func (s *userStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row := s.q.QueryRow(ctx, `
		SELECT id, email, display_name, created_at
		FROM users
		WHERE id = $1`,
		id,
	)

	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
