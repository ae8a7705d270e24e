package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"huddle.app/chat/internal/auth"
	"huddle.app/chat/internal/http/handler"
	"huddle.app/chat/internal/http/middleware"
	"huddle.app/chat/internal/model"
	"huddle.app/chat/internal/service"
)

func identityMiddleware(identity auth.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetIdentity(c, identity)
		c.Next()
	}
}

var _ = Describe("WorkspaceHandler", func() {
	var (
		router *gin.Engine
		svc    *mockWorkspaceService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		router.Use(identityMiddleware(auth.Identity{UserID: 10, Email: "alice@example.com", DisplayName: "Alice"}))

		svc = &mockWorkspaceService{}
		h := handler.NewWorkspaceHandler(svc)
		router.POST("/api/workspaces", h.Create)
		router.GET("/api/workspaces", h.List)
		router.POST("/api/workspaces/:workspaceId/join", h.Join)
		router.GET("/api/workspaces/:workspaceId/invite-info", h.InviteInfo)
		router.GET("/api/workspaces/:workspaceId/channels", h.Channels)
	})

	Describe("Create", func() {
		It("returns 201 with the workspace and its default channel", func() {
			svc.createFn = func(_ context.Context, owner auth.Identity, name string, _ *string) (*model.Workspace, *model.Channel, error) {
				Expect(owner.UserID).To(Equal(int64(10)))
				return &model.Workspace{ID: 100, PublicID: "12345678", Name: name, OwnerID: owner.UserID, CreatedAt: time.Now()},
					&model.Channel{ID: 200, Name: "general", WorkspaceID: 100, CreatedBy: owner.UserID},
					nil
			}

			body, _ := json.Marshal(map[string]string{"name": "Acme"})
			req := httptest.NewRequest(http.MethodPost, "/api/workspaces", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))

			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["workspaceId"]).To(Equal("12345678"))
			Expect(resp["id"]).To(Equal("100"), "ids must serialize as strings")
			channel, ok := resp["defaultChannel"].(map[string]any)
			Expect(ok).To(BeTrue())
			Expect(channel["name"]).To(Equal("general"))
		})

		It("returns 400 when the name is missing", func() {
			body, _ := json.Marshal(map[string]string{"description": "no name"})
			req := httptest.NewRequest(http.MethodPost, "/api/workspaces", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Join", func() {
		It("joins by invite code", func() {
			svc.joinFn = func(_ context.Context, user auth.Identity, publicID string) (*model.Workspace, error) {
				Expect(user.UserID).To(Equal(int64(10)))
				Expect(publicID).To(Equal("12345678"))
				return &model.Workspace{ID: 100, PublicID: publicID, Name: "Acme"}, nil
			}

			req := httptest.NewRequest(http.MethodPost, "/api/workspaces/12345678/join", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("returns 404 for an unknown invite code", func() {
			svc.joinFn = func(_ context.Context, _ auth.Identity, _ string) (*model.Workspace, error) {
				return nil, service.ErrWorkspaceNotFound
			}

			req := httptest.NewRequest(http.MethodPost, "/api/workspaces/00000000/join", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("returns 400 when already a member", func() {
			svc.joinFn = func(_ context.Context, _ auth.Identity, _ string) (*model.Workspace, error) {
				return nil, service.ErrAlreadyWorkspaceMember
			}

			req := httptest.NewRequest(http.MethodPost, "/api/workspaces/12345678/join", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("InviteInfo", func() {
		It("previews the workspace without membership", func() {
			svc.previewFn = func(_ context.Context, publicID string) (*model.Workspace, error) {
				return &model.Workspace{ID: 100, PublicID: publicID, Name: "Acme"}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/api/workspaces/12345678/invite-info", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["name"]).To(Equal("Acme"))
			Expect(resp).NotTo(HaveKey("ownerId"), "preview must not leak ownership")
		})
	})

	Describe("Channels", func() {
		It("returns 403 for non-members", func() {
			svc.getForMemberFn = func(_ context.Context, _ int64, _ string) (*model.Workspace, model.Role, error) {
				return nil, "", service.ErrNotWorkspaceMember
			}

			req := httptest.NewRequest(http.MethodGet, "/api/workspaces/12345678/channels", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("lists member channels", func() {
			svc.getForMemberFn = func(_ context.Context, _ int64, _ string) (*model.Workspace, model.Role, error) {
				return &model.Workspace{ID: 100, PublicID: "12345678"}, model.RoleMember, nil
			}
			svc.memberChannelsFn = func(_ context.Context, _, workspaceID int64) ([]model.ChannelMembership, error) {
				Expect(workspaceID).To(Equal(int64(100)))
				return []model.ChannelMembership{
					{Channel: model.Channel{ID: 200, Name: "general", WorkspaceID: 100}},
				}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/api/workspaces/12345678/channels", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var resp struct {
				Channels []map[string]any `json:"channels"`
			}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Channels).To(HaveLen(1))
			Expect(resp.Channels[0]["name"]).To(Equal("general"))
		})
	})
})
