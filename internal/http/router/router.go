package router

import (
	"github.com/gin-gonic/gin"

	"huddle.app/chat/internal/auth"
	"huddle.app/chat/internal/http/handler"
	"huddle.app/chat/internal/http/middleware"
	"huddle.app/chat/internal/presence"
	"huddle.app/chat/internal/service"
	"huddle.app/chat/internal/ws"
)

func SetupRoutes(
	router *gin.Engine,
	services *service.Services,
	hub *ws.Hub,
	verifier *auth.Verifier,
	tracker *presence.Tracker,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	socketHandler := handler.NewSocketHandler(hub, verifier, services.Rooms(), services.Messages(), tracker)
	router.GET("/ws", socketHandler.Serve)

	api := router.Group("/api")
	api.Use(middleware.RequireAuth(verifier))
	{
		workspaces := api.Group("/workspaces")
		channels := api.Group("/channels")

		workspaceHandler := handler.NewWorkspaceHandler(services.Workspaces())
		WorkspaceRouter(workspaces, workspaceHandler)

		channelHandler := handler.NewChannelHandler(services.Channels(), services.Messages(), tracker)
		ChannelRouter(workspaces, channels, channelHandler)
	}
}
