package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"huddle.app/chat/common/id"
	"huddle.app/chat/common/logger"
	"huddle.app/chat/internal/auth"
	"huddle.app/chat/internal/model"
	"huddle.app/chat/internal/store"
)

const publicIDAttempts = 5

// DefaultChannelName is created in every new workspace so the owner has
// somewhere to talk immediately.
const DefaultChannelName = "general"

var defaultChannelDescription = "General discussion channel"

type WorkspaceService interface {
	// Create provisions the workspace, the owner membership, the default
	// channel and its membership in one transaction. The owner's
	// identity row is refreshed from the token as part of it.
	Create(ctx context.Context, owner auth.Identity, name string, description *string) (*model.Workspace, *model.Channel, error)

	// Join adds the user as a member and fans their membership out to
	// every existing public channel.
	Join(ctx context.Context, user auth.Identity, publicID string) (*model.Workspace, error)

	List(ctx context.Context, userID int64) ([]model.WorkspaceMembership, error)

	// Preview loads a workspace by invite code without requiring
	// membership, for showing what an invite points at before joining.
	Preview(ctx context.Context, publicID string) (*model.Workspace, error)

	// GetForMember loads a workspace by public id, requiring membership.
	GetForMember(ctx context.Context, userID int64, publicID string) (*model.Workspace, model.Role, error)

	// MemberChannels lists the channels the user belongs to in the
	// workspace, oldest first.
	MemberChannels(ctx context.Context, userID, workspaceID int64) ([]model.ChannelMembership, error)
}

type workspaceService struct {
	stores   StoreProvider
	txRunner TxRunner
}

func NewWorkspaceService(stores StoreProvider, txRunner TxRunner) WorkspaceService {
	return &workspaceService{stores: stores, txRunner: txRunner}
}

func (s *workspaceService) Create(ctx context.Context, owner auth.Identity, name string, description *string) (*model.Workspace, *model.Channel, error) {
	sc := logger.StartSpan(ctx, "chat.workspace.create")
	defer sc.End()
	ctx = sc.Context()

	publicID, err := s.availablePublicID(ctx)
	if err != nil {
		return nil, nil, err
	}

	ws := &model.Workspace{
		ID:          id.New(),
		PublicID:    publicID,
		Name:        name,
		Description: description,
		OwnerID:     owner.UserID,
	}
	general := &model.Channel{
		ID:          id.New(),
		Name:        DefaultChannelName,
		Description: &defaultChannelDescription,
		WorkspaceID: ws.ID,
		CreatedBy:   owner.UserID,
	}

	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if err := upsertIdentity(ctx, stores, owner); err != nil {
			return err
		}
		if err := stores.Workspaces().Create(ctx, ws); err != nil {
			return fmt.Errorf("creating workspace: %w", err)
		}
		member := &model.WorkspaceMember{
			WorkspaceID: ws.ID,
			UserID:      owner.UserID,
			Role:        model.RoleOwner,
		}
		if err := stores.WorkspaceMembers().Add(ctx, member); err != nil {
			return fmt.Errorf("adding owner membership: %w", err)
		}
		if err := stores.Channels().Create(ctx, general); err != nil {
			return fmt.Errorf("creating default channel: %w", err)
		}
		if err := stores.ChannelMembers().Add(ctx, general.ID, owner.UserID); err != nil {
			return fmt.Errorf("adding owner to default channel: %w", err)
		}
		return nil
	})
	if err != nil {
		sc.RecordError(err)
		return nil, nil, err
	}

	slog.InfoContext(ctx, "workspace created",
		"workspace_id", ws.ID,
		"public_id", ws.PublicID,
		"owner_id", owner.UserID,
	)
	return ws, general, nil
}

func (s *workspaceService) Join(ctx context.Context, user auth.Identity, publicID string) (*model.Workspace, error) {
	sc := logger.StartSpan(ctx, "chat.workspace.join")
	defer sc.End()
	ctx = sc.Context()

	ws, err := s.stores.Workspaces().GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("getting workspace: %w", err)
	}

	if _, err := s.stores.WorkspaceMembers().Get(ctx, ws.ID, user.UserID); err == nil {
		return nil, ErrAlreadyWorkspaceMember
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking membership: %w", err)
	}

	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if err := upsertIdentity(ctx, stores, user); err != nil {
			return err
		}
		member := &model.WorkspaceMember{
			WorkspaceID: ws.ID,
			UserID:      user.UserID,
			Role:        model.RoleMember,
		}
		if err := stores.WorkspaceMembers().Add(ctx, member); err != nil {
			return fmt.Errorf("adding workspace membership: %w", err)
		}

		publicChannels, err := stores.Channels().ListPublicIDs(ctx, ws.ID)
		if err != nil {
			return fmt.Errorf("listing public channels: %w", err)
		}
		if err := stores.ChannelMembers().AddToChannels(ctx, user.UserID, publicChannels); err != nil {
			return fmt.Errorf("fanning out channel memberships: %w", err)
		}
		return nil
	})
	if err != nil {
		sc.RecordError(err)
		return nil, err
	}

	slog.InfoContext(ctx, "user joined workspace",
		"workspace_id", ws.ID,
		"user_id", user.UserID,
	)
	return ws, nil
}

// upsertIdentity mirrors the token identity into the users table so
// membership and message rows have a row to reference.
func upsertIdentity(ctx context.Context, stores StoreProvider, identity auth.Identity) error {
	u := &model.User{
		ID:          identity.UserID,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
	}
	if err := stores.Users().Upsert(ctx, u); err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}
	return nil
}

func (s *workspaceService) List(ctx context.Context, userID int64) ([]model.WorkspaceMembership, error) {
	return s.stores.Workspaces().ListByUser(ctx, userID)
}

func (s *workspaceService) Preview(ctx context.Context, publicID string) (*model.Workspace, error) {
	ws, err := s.stores.Workspaces().GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("getting workspace: %w", err)
	}
	return ws, nil
}

func (s *workspaceService) GetForMember(ctx context.Context, userID int64, publicID string) (*model.Workspace, model.Role, error) {
	ws, err := s.stores.Workspaces().GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrWorkspaceNotFound
		}
		return nil, "", fmt.Errorf("getting workspace: %w", err)
	}

	member, err := s.stores.WorkspaceMembers().Get(ctx, ws.ID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrNotWorkspaceMember
		}
		return nil, "", fmt.Errorf("checking membership: %w", err)
	}

	return ws, member.Role, nil
}

func (s *workspaceService) MemberChannels(ctx context.Context, userID, workspaceID int64) ([]model.ChannelMembership, error) {
	return s.stores.Channels().ListForUser(ctx, workspaceID, userID)
}

// availablePublicID generates an 8-digit numeric id not yet taken. The
// unique constraint still guards the race between check and insert; a
// collision there fails the provisioning transaction, which is the
// correct outcome.
func (s *workspaceService) availablePublicID(ctx context.Context) (string, error) {
	for i := 0; i < publicIDAttempts; i++ {
		candidate, err := newPublicID()
		if err != nil {
			return "", fmt.Errorf("generating public id: %w", err)
		}
		_, err = s.stores.Workspaces().GetByPublicID(ctx, candidate)
		if errors.Is(err, store.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("checking public id availability: %w", err)
		}
	}
	return "", fmt.Errorf("unable to find available workspace id")
}

func newPublicID() (string, error) {
	// 8 digits, never leading-zero: 10000000..99999999.
	n, err := rand.Int(rand.Reader, big.NewInt(90000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+10000000), nil
}
