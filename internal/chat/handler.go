package chat

import (
	"math/rand"
	"net/http"
	"strings"

	"chess_chat/internal/config"
	"chess_chat/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const nicknameAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// randomNickname builds a fallback nickname for clients that connect without
// one, e.g. "User-x5Gb0...".
func randomNickname() string {
	b := make([]byte, 15)
	for i := range b {
		b[i] = nicknameAlphabet[rand.Intn(len(nicknameAlphabet))]
	}
	return "User-" + string(b)
}

// HandleWS upgrades /ws/:username and starts the session endpoint.
func HandleWS(hub *Hub, cfg *config.Config) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if cfg.AllowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == cfg.AllowedOrigin
		},
	}

	return func(c *gin.Context) {
		username := strings.TrimSpace(c.Param("username"))
		if username == "" {
			username = randomNickname()
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Error("ws upgrade failed", "err", err)
			return
		}

		client := NewClient(hub.NextSessionID(), username, conn, hub, cfg.HeartbeatInterval, cfg.ClientTimeout)
		go client.Run()
	}
}
