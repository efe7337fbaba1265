package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"chess_chat/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	Host          string
	Port          string
	AllowedOrigin string
	StaticDir     string

	LogLevel string
	LogJSON  bool

	// Conversation rooms created at startup, in addition to main/lobby/in_game.
	ChatRooms []string

	HeartbeatInterval time.Duration
	ClientTimeout     time.Duration
}

// Load reads configuration from the environment, falling back to defaults
// where a variable is unset.
func Load() *Config {
	_ = godotenv.Load()

	host := os.Getenv("HOST")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "./static"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	rooms := []string{"mountain", "ocean", "sky", "space"}
	if v := os.Getenv("CHAT_ROOMS"); v != "" {
		rooms = rooms[:0]
		for _, name := range strings.Split(v, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				rooms = append(rooms, name)
			}
		}
	}

	heartbeat := 5 * time.Second
	if v := os.Getenv("HEARTBEAT_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			heartbeat = time.Duration(n) * time.Second
		}
	}

	timeout := 10 * time.Second
	if v := os.Getenv("CLIENT_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Second
		}
	}

	if timeout <= heartbeat {
		logger.Warn("CLIENT_TIMEOUT_SECONDS should exceed HEARTBEAT_INTERVAL_SECONDS",
			"heartbeat", heartbeat, "timeout", timeout)
	}

	return &Config{
		Host:              host,
		Port:              port,
		AllowedOrigin:     os.Getenv("ALLOWED_ORIGIN"),
		StaticDir:         staticDir,
		LogLevel:          logLevel,
		LogJSON:           os.Getenv("LOG_JSON") == "true",
		ChatRooms:         rooms,
		HeartbeatInterval: heartbeat,
		ClientTimeout:     timeout,
	}
}
