package service

import (
	"context"

	"huddle.app/chat/core/db"
	"huddle.app/chat/internal/store"
)

// StoreProvider hands out stores bound to one query target, either the
// pool or an open transaction. Services hold one for plain reads and
// receive a transaction-scoped one inside WithTx.
type StoreProvider interface {
	Users() store.UserStore
	Workspaces() store.WorkspaceStore
	WorkspaceMembers() store.WorkspaceMemberStore
	Channels() store.ChannelStore
	ChannelMembers() store.ChannelMemberStore
	Messages() store.MessageStore
}

// TxRunner runs functions within a transaction and provides stores bound
// to that transaction. Provisioning is all-or-nothing: any error rolls
// the whole operation back and callers never observe partial state.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(stores StoreProvider) error) error
}

type dbTxRunner struct {
	db *db.DB
}

// NewTxRunner builds a TxRunner backed by the core DB.
func NewTxRunner(db *db.DB) TxRunner {
	return &dbTxRunner{db: db}
}

func (r *dbTxRunner) WithTx(ctx context.Context, fn func(stores StoreProvider) error) error {
	return r.db.WithTx(ctx, func(q db.DBTX) error {
		return fn(store.NewStores(q))
	})
}
