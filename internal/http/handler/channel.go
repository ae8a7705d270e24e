package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"huddle.app/chat/internal/http/middleware"
	"huddle.app/chat/internal/model"
	"huddle.app/chat/internal/presence"
	"huddle.app/chat/internal/service"
)

type ChannelHandler struct {
	channelService service.ChannelService
	messageService service.MessageService
	tracker        *presence.Tracker
}

func NewChannelHandler(
	channelService service.ChannelService,
	messageService service.MessageService,
	tracker *presence.Tracker,
) *ChannelHandler {
	return &ChannelHandler{
		channelService: channelService,
		messageService: messageService,
		tracker:        tracker,
	}
}

type createChannelRequest struct {
	Name        string  `json:"name" binding:"required,max=80"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	IsPrivate   bool    `json:"isPrivate"`
}

// Create creates a channel in the workspace and announces it to the
// workspace room.
func (h *ChannelHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req createChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: name is required"})
		return
	}

	ch, err := h.channelService.Create(ctx, identity.UserID, c.Param("workspaceId"), req.Name, req.Description, req.IsPrivate)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toChannelResponse(ch))
}

// Join adds the caller to a channel in a workspace they are a member of.
func (h *ChannelHandler) Join(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	channelID, ok := channelParam(c)
	if !ok {
		return
	}

	ch, err := h.channelService.Join(ctx, identity.UserID, channelID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toChannelResponse(ch))
}

// Leave removes the caller from a channel.
func (h *ChannelHandler) Leave(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	channelID, ok := channelParam(c)
	if !ok {
		return
	}

	if err := h.channelService.Leave(ctx, identity.UserID, channelID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type messageResponse struct {
	ID        int64     `json:"id,string"`
	Content   string    `json:"content"`
	ChannelID int64     `json:"channelId,string"`
	UserID    int64     `json:"userId,string"`
	Author    string    `json:"author"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type listMessagesResponse struct {
	Messages []messageResponse `json:"messages"`
}

// Messages returns a page of channel history in chronological order.
// Pagination walks backwards from the newest message via limit and
// offset.
func (h *ChannelHandler) Messages(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	channelID, ok := channelParam(c)
	if !ok {
		return
	}

	limit := queryInt32(c, "limit", 0)
	offset := queryInt32(c, "offset", 0)

	page, err := h.messageService.List(ctx, identity.UserID, channelID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := listMessagesResponse{
		Messages: make([]messageResponse, len(page)),
	}
	for i, m := range page {
		resp.Messages[i] = toMessageResponse(&m)
	}

	c.JSON(http.StatusOK, resp)
}

func toMessageResponse(m *model.MessageWithAuthor) messageResponse {
	return messageResponse{
		ID:        m.ID,
		Content:   m.Content,
		ChannelID: m.ChannelID,
		UserID:    m.UserID,
		Author:    m.AuthorName,
		Email:     m.AuthorEmail,
		CreatedAt: m.CreatedAt,
	}
}

type typingResponse struct {
	UserIDs []string `json:"userIds"`
}

// Typing returns the users currently typing in the channel. The list
// comes from expiring presence keys, so abandoned sessions age out on
// their own.
func (h *ChannelHandler) Typing(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	channelID, ok := channelParam(c)
	if !ok {
		return
	}

	if _, err := h.channelService.GetForMember(ctx, identity.UserID, channelID); err != nil {
		respondError(c, err)
		return
	}

	userIDs, err := h.tracker.Active(ctx, channelID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read typing presence", "error", err, "channel_id", channelID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read typing state"})
		return
	}

	resp := typingResponse{UserIDs: make([]string, len(userIDs))}
	for i, id := range userIDs {
		resp.UserIDs[i] = strconv.FormatInt(id, 10)
	}

	c.JSON(http.StatusOK, resp)
}

func channelParam(c *gin.Context) (int64, bool) {
	channelID, err := strconv.ParseInt(c.Param("channelId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid channel id"})
		return 0, false
	}
	return channelID, true
}

func queryInt32(c *gin.Context, name string, fallback int32) int32 {
	v := c.Query(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return fallback
	}
	return int32(n)
}
