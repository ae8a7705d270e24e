package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"huddle.app/chat/internal/auth"
	"huddle.app/chat/internal/http/handler"
	"huddle.app/chat/internal/model"
	"huddle.app/chat/internal/presence"
	"huddle.app/chat/internal/service"
)

var _ = Describe("ChannelHandler", func() {
	var (
		router     *gin.Engine
		channelSvc *mockChannelService
		messageSvc *mockMessageService
		tracker    *presence.Tracker
		redisSrv   *miniredis.Miniredis
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		router.Use(identityMiddleware(auth.Identity{UserID: 10, Email: "alice@example.com", DisplayName: "Alice"}))

		var err error
		redisSrv, err = miniredis.Run()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(redisSrv.Close)
		tracker = presence.NewTracker(redis.NewClient(&redis.Options{Addr: redisSrv.Addr()}), time.Second)

		channelSvc = &mockChannelService{}
		messageSvc = &mockMessageService{}
		h := handler.NewChannelHandler(channelSvc, messageSvc, tracker)
		router.POST("/api/workspaces/:workspaceId/channels", h.Create)
		router.POST("/api/channels/:channelId/join", h.Join)
		router.POST("/api/channels/:channelId/leave", h.Leave)
		router.GET("/api/channels/:channelId/messages", h.Messages)
		router.GET("/api/channels/:channelId/typing", h.Typing)
	})

	Describe("Create", func() {
		It("returns 201 with the channel", func() {
			channelSvc.createFn = func(_ context.Context, creatorID int64, workspacePublicID, name string, _ *string, isPrivate bool) (*model.Channel, error) {
				Expect(creatorID).To(Equal(int64(10)))
				Expect(workspacePublicID).To(Equal("12345678"))
				Expect(isPrivate).To(BeTrue())
				return &model.Channel{ID: 200, Name: name, WorkspaceID: 100, IsPrivate: isPrivate}, nil
			}

			body, _ := json.Marshal(map[string]any{"name": "secret", "isPrivate": true})
			req := httptest.NewRequest(http.MethodPost, "/api/workspaces/12345678/channels", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))

			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["name"]).To(Equal("secret"))
			Expect(resp["isPrivate"]).To(BeTrue())
		})

		It("returns 400 for a duplicate name", func() {
			channelSvc.createFn = func(_ context.Context, _ int64, _, _ string, _ *string, _ bool) (*model.Channel, error) {
				return nil, service.ErrChannelNameTaken
			}

			body, _ := json.Marshal(map[string]string{"name": "general"})
			req := httptest.NewRequest(http.MethodPost, "/api/workspaces/12345678/channels", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Join and Leave", func() {
		It("joins a channel by id", func() {
			channelSvc.joinFn = func(_ context.Context, userID, channelID int64) (*model.Channel, error) {
				Expect(userID).To(Equal(int64(10)))
				Expect(channelID).To(Equal(int64(200)))
				return &model.Channel{ID: 200, Name: "random"}, nil
			}

			req := httptest.NewRequest(http.MethodPost, "/api/channels/200/join", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("returns 400 for a malformed channel id", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/channels/not-a-number/join", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("leaves with 204", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/channels/200/leave", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNoContent))
		})

		It("returns 403 when leaving a channel you are not in", func() {
			channelSvc.leaveFn = func(_ context.Context, _, _ int64) error {
				return service.ErrNotChannelMember
			}

			req := httptest.NewRequest(http.MethodPost, "/api/channels/200/leave", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})
	})

	Describe("Messages", func() {
		It("passes pagination through and returns the page", func() {
			messageSvc.listFn = func(_ context.Context, userID, channelID int64, limit, offset int32) ([]model.MessageWithAuthor, error) {
				Expect(userID).To(Equal(int64(10)))
				Expect(channelID).To(Equal(int64(200)))
				Expect(limit).To(Equal(int32(25)))
				Expect(offset).To(Equal(int32(50)))
				return []model.MessageWithAuthor{
					{
						Message:    model.Message{ID: 1, Content: "hi", ChannelID: 200, UserID: 10},
						AuthorName: "Alice",
					},
				}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/api/channels/200/messages?limit=25&offset=50", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var resp struct {
				Messages []map[string]any `json:"messages"`
			}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Messages).To(HaveLen(1))
			Expect(resp.Messages[0]["author"]).To(Equal("Alice"))
			Expect(resp.Messages[0]["channelId"]).To(Equal("200"))
		})

		It("returns 403 for non-members", func() {
			messageSvc.listFn = func(_ context.Context, _, _ int64, _, _ int32) ([]model.MessageWithAuthor, error) {
				return nil, service.ErrNotChannelMember
			}

			req := httptest.NewRequest(http.MethodGet, "/api/channels/200/messages", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})
	})

	Describe("Typing", func() {
		It("returns the active typists", func() {
			channelSvc.getForMemberFn = func(_ context.Context, _, channelID int64) (*model.Channel, error) {
				return &model.Channel{ID: channelID}, nil
			}
			Expect(tracker.Start(context.Background(), 200, 42)).To(Succeed())

			req := httptest.NewRequest(http.MethodGet, "/api/channels/200/typing", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var resp struct {
				UserIDs []string `json:"userIds"`
			}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.UserIDs).To(ConsistOf("42"))
		})

		It("requires channel membership", func() {
			channelSvc.getForMemberFn = func(_ context.Context, _, _ int64) (*model.Channel, error) {
				return nil, service.ErrNotChannelMember
			}

			req := httptest.NewRequest(http.MethodGet, "/api/channels/200/typing", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})
	})
})
