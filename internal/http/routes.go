package http

import (
	"chess_chat/internal/chat"
	"chess_chat/internal/config"
	"chess_chat/internal/http/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the websocket entry point and the auxiliary surface
// onto the engine.
func RegisterRoutes(r *gin.Engine, hub *chat.Hub, cfg *config.Config) {
	h := handlers.NewServerHandler(hub, cfg.StaticDir)

	r.GET("/", h.Index)
	r.GET("/count", h.Count)
	r.GET("/check-username/:name", h.CheckUsername)
	r.GET("/sessions", h.Sessions)
	r.GET("/healthz", h.Liveness)

	wsHandler := chat.HandleWS(hub, cfg)
	r.GET("/ws/:username", wsHandler)
	// Anonymous connect; the handler assigns a random nickname.
	r.GET("/ws", wsHandler)

	r.StaticFS("/static", gin.Dir(cfg.StaticDir, false))
}
