package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"huddle.app/chat/internal/service"
)

// respondError maps domain errors to HTTP statuses. Anything not in the
// map is an internal failure: logged with the cause, reported without
// it.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrWorkspaceNotFound),
		errors.Is(err, service.ErrChannelNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotWorkspaceMember),
		errors.Is(err, service.ErrNotChannelMember):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyWorkspaceMember),
		errors.Is(err, service.ErrAlreadyChannelMember),
		errors.Is(err, service.ErrChannelNameTaken),
		errors.Is(err, service.ErrMissingChannel),
		errors.Is(err, service.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.ErrorContext(c.Request.Context(), "request failed", "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
