package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"huddle.app/chat/common/id"
	"huddle.app/chat/internal/model"
	"huddle.app/chat/internal/service"
	"huddle.app/chat/internal/store"
	"huddle.app/chat/internal/ws"
)

var _ = Describe("ChannelService", func() {
	var (
		svc            service.ChannelService
		workspaces     *mockWorkspaceStore
		members        *mockWorkspaceMemberStore
		channels       *mockChannelStore
		channelMembers *mockChannelMemberStore
		broadcaster    *mockBroadcaster
		ctx            context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		workspaces = &mockWorkspaceStore{}
		members = &mockWorkspaceMemberStore{}
		channels = &mockChannelStore{}
		channelMembers = &mockChannelMemberStore{}
		broadcaster = &mockBroadcaster{}
		provider := &mockStoreProvider{
			workspaces:       workspaces,
			workspaceMembers: members,
			channels:         channels,
			channelMembers:   channelMembers,
		}
		txRunner := &mockTxRunner{
			withTxFn: func(ctx context.Context, fn func(stores service.StoreProvider) error) error {
				return fn(provider)
			},
		}
		svc = service.NewChannelService(provider, txRunner, broadcaster)
		Expect(id.Init(1)).To(Succeed())
	})

	Describe("Create", func() {
		BeforeEach(func() {
			workspaces.getByPublicIDFn = func(_ context.Context, _ string) (*model.Workspace, error) {
				return &model.Workspace{ID: 100, PublicID: "12345678"}, nil
			}
			members.getFn = func(_ context.Context, _, _ int64) (*model.WorkspaceMember, error) {
				return &model.WorkspaceMember{Role: model.RoleMember}, nil
			}
		})

		It("fans a public channel out to every workspace member", func() {
			members.listUserIDsFn = func(_ context.Context, workspaceID int64) ([]int64, error) {
				Expect(workspaceID).To(Equal(int64(100)))
				return []int64{10, 11, 12}, nil
			}
			var fannedOut []int64
			channelMembers.addMembersFn = func(_ context.Context, channelID int64, userIDs []int64) error {
				Expect(channelID).NotTo(BeZero())
				fannedOut = userIDs
				return nil
			}

			ch, err := svc.Create(ctx, 10, "12345678", "random", nil, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(ch.Name).To(Equal("random"))
			Expect(fannedOut).To(Equal([]int64{10, 11, 12}))
		})

		It("adds only the creator to a private channel", func() {
			members.listUserIDsFn = func(_ context.Context, _ int64) ([]int64, error) {
				Fail("private channels must not enumerate workspace members")
				return nil, nil
			}
			var fannedOut []int64
			channelMembers.addMembersFn = func(_ context.Context, _ int64, userIDs []int64) error {
				fannedOut = userIDs
				return nil
			}

			ch, err := svc.Create(ctx, 10, "12345678", "secret", nil, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(ch.IsPrivate).To(BeTrue())
			Expect(fannedOut).To(Equal([]int64{10}))
		})

		It("announces the channel to the workspace room after commit", func() {
			ch, err := svc.Create(ctx, 10, "12345678", "random", nil, false)
			Expect(err).NotTo(HaveOccurred())

			Expect(broadcaster.workspaceCalls).To(HaveLen(1))
			call := broadcaster.workspaceCalls[0]
			Expect(call.roomID).To(Equal(int64(100)))
			Expect(call.event).To(Equal(ws.EventNewChannel))
			payload, ok := call.data.(ws.ChannelPayload)
			Expect(ok).To(BeTrue())
			Expect(payload.ID).To(Equal(ch.ID))
			Expect(payload.WorkspaceID).To(Equal("12345678"))
		})

		It("does not broadcast when the transaction fails", func() {
			channels.createFn = func(_ context.Context, _ *model.Channel) error {
				return errors.New("insert failed")
			}

			_, err := svc.Create(ctx, 10, "12345678", "random", nil, false)
			Expect(err).To(HaveOccurred())
			Expect(broadcaster.workspaceCalls).To(BeEmpty())
		})

		It("rejects a duplicate channel name in the workspace", func() {
			channels.getByWorkspaceAndNameFn = func(_ context.Context, _ int64, name string) (*model.Channel, error) {
				Expect(name).To(Equal("random"))
				return &model.Channel{}, nil
			}

			_, err := svc.Create(ctx, 10, "12345678", "random", nil, false)
			Expect(err).To(MatchError(service.ErrChannelNameTaken))
		})

		It("requires workspace membership", func() {
			members.getFn = func(_ context.Context, _, _ int64) (*model.WorkspaceMember, error) {
				return nil, store.ErrNotFound
			}

			_, err := svc.Create(ctx, 99, "12345678", "random", nil, false)
			Expect(err).To(MatchError(service.ErrNotWorkspaceMember))
		})
	})

	Describe("Join", func() {
		BeforeEach(func() {
			channels.getByIDFn = func(_ context.Context, channelID int64) (*model.Channel, error) {
				return &model.Channel{ID: channelID, WorkspaceID: 100}, nil
			}
			members.getFn = func(_ context.Context, _, _ int64) (*model.WorkspaceMember, error) {
				return &model.WorkspaceMember{Role: model.RoleMember}, nil
			}
		})

		It("adds the membership row", func() {
			ch, err := svc.Join(ctx, 7, 201)
			Expect(err).NotTo(HaveOccurred())
			Expect(ch.ID).To(Equal(int64(201)))
			Expect(channelMembers.addCalls).To(Equal(1))
		})

		It("rejects joining twice", func() {
			channelMembers.existsFn = func(_ context.Context, _, _ int64) (bool, error) {
				return true, nil
			}

			_, err := svc.Join(ctx, 7, 201)
			Expect(err).To(MatchError(service.ErrAlreadyChannelMember))
		})

		It("requires workspace membership first", func() {
			members.getFn = func(_ context.Context, _, _ int64) (*model.WorkspaceMember, error) {
				return nil, store.ErrNotFound
			}

			_, err := svc.Join(ctx, 7, 201)
			Expect(err).To(MatchError(service.ErrNotWorkspaceMember))
		})
	})

	Describe("Leave", func() {
		BeforeEach(func() {
			channels.getByIDFn = func(_ context.Context, channelID int64) (*model.Channel, error) {
				return &model.Channel{ID: channelID, WorkspaceID: 100}, nil
			}
		})

		It("removes the membership row", func() {
			channelMembers.existsFn = func(_ context.Context, _, _ int64) (bool, error) {
				return true, nil
			}
			removed := false
			channelMembers.removeFn = func(_ context.Context, channelID, userID int64) error {
				Expect(channelID).To(Equal(int64(201)))
				Expect(userID).To(Equal(int64(7)))
				removed = true
				return nil
			}

			Expect(svc.Leave(ctx, 7, 201)).To(Succeed())
			Expect(removed).To(BeTrue())
		})

		It("rejects leaving a channel you are not in", func() {
			err := svc.Leave(ctx, 7, 201)
			Expect(err).To(MatchError(service.ErrNotChannelMember))
		})
	})
})
