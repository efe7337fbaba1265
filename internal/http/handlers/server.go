package handlers

import (
	"net/http"
	"path/filepath"
	"time"

	"chess_chat/internal/chat"

	"github.com/gin-gonic/gin"
)

// ServerHandler serves the auxiliary HTTP surface next to the websocket route.
// Everything here is advisory: it reads hub snapshots without holding any
// claim over them.
type ServerHandler struct {
	hub       *chat.Hub
	staticDir string
	startTime time.Time
}

func NewServerHandler(hub *chat.Hub, staticDir string) *ServerHandler {
	return &ServerHandler{
		hub:       hub,
		staticDir: staticDir,
		startTime: time.Now(),
	}
}

// Index serves the bundled client page.
func (h *ServerHandler) Index(c *gin.Context) {
	c.File(filepath.Join(h.staticDir, "index.html"))
}

// Count returns the current visitor count as plain text.
func (h *ServerHandler) Count(c *gin.Context) {
	c.String(http.StatusOK, "Visitors: %d", h.hub.VisitorCount())
}

// CheckUsername reports whether a nickname is currently free. The check races
// with concurrent connects; collisions remain possible.
func (h *ServerHandler) CheckUsername(c *gin.Context) {
	name := c.Param("name")
	c.JSON(http.StatusOK, gin.H{
		"username":  name,
		"available": !h.hub.UsernameTaken(name),
	})
}

// Sessions returns a snapshot of all live sessions.
func (h *ServerHandler) Sessions(c *gin.Context) {
	c.JSON(http.StatusOK, h.hub.Sessions())
}

// Liveness is a simple liveness probe.
func (h *ServerHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
	})
}
