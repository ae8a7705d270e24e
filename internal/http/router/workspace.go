package router

import (
	"github.com/gin-gonic/gin"

	"huddle.app/chat/internal/http/handler"
)

// WorkspaceRouter sets up workspace routes. The :workspaceId parameter
// is the 8-digit invite code, not the internal id.
func WorkspaceRouter(rg *gin.RouterGroup, h *handler.WorkspaceHandler) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.POST("/:workspaceId/join", h.Join)
	rg.GET("/:workspaceId/invite-info", h.InviteInfo)
	rg.GET("/:workspaceId/channels", h.Channels)
}
