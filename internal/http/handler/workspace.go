package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"huddle.app/chat/internal/http/middleware"
	"huddle.app/chat/internal/model"
	"huddle.app/chat/internal/service"
)

type WorkspaceHandler struct {
	workspaceService service.WorkspaceService
}

func NewWorkspaceHandler(workspaceService service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

type createWorkspaceRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

type workspaceResponse struct {
	ID          int64     `json:"id,string"`
	WorkspaceID string    `json:"workspaceId"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	OwnerID     int64     `json:"ownerId,string"`
	CreatedAt   time.Time `json:"createdAt"`
}

type channelResponse struct {
	ID          int64     `json:"id,string"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	IsPrivate   bool      `json:"isPrivate"`
	CreatedAt   time.Time `json:"createdAt"`
}

type createWorkspaceResponse struct {
	workspaceResponse
	DefaultChannel channelResponse `json:"defaultChannel"`
}

func toWorkspaceResponse(ws *model.Workspace) workspaceResponse {
	return workspaceResponse{
		ID:          ws.ID,
		WorkspaceID: ws.PublicID,
		Name:        ws.Name,
		Description: ws.Description,
		OwnerID:     ws.OwnerID,
		CreatedAt:   ws.CreatedAt,
	}
}

func toChannelResponse(ch *model.Channel) channelResponse {
	return channelResponse{
		ID:          ch.ID,
		Name:        ch.Name,
		Description: ch.Description,
		IsPrivate:   ch.IsPrivate,
		CreatedAt:   ch.CreatedAt,
	}
}

// Create provisions a workspace owned by the caller, with its default
// channel.
func (h *WorkspaceHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req createWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: name is required"})
		return
	}

	ws, general, err := h.workspaceService.Create(ctx, identity, req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createWorkspaceResponse{
		workspaceResponse: toWorkspaceResponse(ws),
		DefaultChannel:    toChannelResponse(general),
	})
}

type workspaceMembershipResponse struct {
	workspaceResponse
	Role     model.Role `json:"role"`
	JoinedAt time.Time  `json:"joinedAt"`
}

type listWorkspacesResponse struct {
	Workspaces []workspaceMembershipResponse `json:"workspaces"`
}

// List returns the workspaces the caller is a member of.
func (h *WorkspaceHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	memberships, err := h.workspaceService.List(ctx, identity.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list workspaces", "error", err, "user_id", identity.UserID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list workspaces"})
		return
	}

	resp := listWorkspacesResponse{
		Workspaces: make([]workspaceMembershipResponse, len(memberships)),
	}
	for i, m := range memberships {
		resp.Workspaces[i] = workspaceMembershipResponse{
			workspaceResponse: toWorkspaceResponse(&m.Workspace),
			Role:              m.Role,
			JoinedAt:          m.JoinedAt,
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Join adds the caller to the workspace identified by its invite code
// and to all of its public channels.
func (h *WorkspaceHandler) Join(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	ws, err := h.workspaceService.Join(ctx, identity, c.Param("workspaceId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toWorkspaceResponse(ws))
}

type inviteInfoResponse struct {
	WorkspaceID string  `json:"workspaceId"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// InviteInfo previews a workspace by invite code without joining it.
// Membership is not required; only the name and description are exposed.
func (h *WorkspaceHandler) InviteInfo(c *gin.Context) {
	ctx := c.Request.Context()

	ws, err := h.workspaceService.Preview(ctx, c.Param("workspaceId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, inviteInfoResponse{
		WorkspaceID: ws.PublicID,
		Name:        ws.Name,
		Description: ws.Description,
	})
}

type channelMembershipResponse struct {
	channelResponse
	JoinedAt time.Time `json:"joinedAt"`
}

type listChannelsResponse struct {
	Channels []channelMembershipResponse `json:"channels"`
}

// Channels returns the channels the caller belongs to in the workspace.
func (h *WorkspaceHandler) Channels(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	ws, _, err := h.workspaceService.GetForMember(ctx, identity.UserID, c.Param("workspaceId"))
	if err != nil {
		respondError(c, err)
		return
	}

	memberships, err := h.workspaceService.MemberChannels(ctx, identity.UserID, ws.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list channels", "error", err, "workspace_id", ws.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list channels"})
		return
	}

	resp := listChannelsResponse{
		Channels: make([]channelMembershipResponse, len(memberships)),
	}
	for i, m := range memberships {
		resp.Channels[i] = channelMembershipResponse{
			channelResponse: toChannelResponse(&m.Channel),
			JoinedAt:        m.JoinedAt,
		}
	}

	c.JSON(http.StatusOK, resp)
}
