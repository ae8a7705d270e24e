package router

import (
	"github.com/gin-gonic/gin"

	"huddle.app/chat/internal/http/handler"
)

// ChannelRouter sets up channel routes.
// - creation hangs off the workspace invite code
// - everything else addresses channels by internal id
func ChannelRouter(workspaceRg, channelRg *gin.RouterGroup, h *handler.ChannelHandler) {
	workspaceRg.POST("/:workspaceId/channels", h.Create)

	channelRg.POST("/:channelId/join", h.Join)
	channelRg.POST("/:channelId/leave", h.Leave)
	channelRg.GET("/:channelId/messages", h.Messages)
	channelRg.GET("/:channelId/typing", h.Typing)
}
