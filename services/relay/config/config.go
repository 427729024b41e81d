package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort           = 8002
	defaultAPIBase        = "https://api.telegram.org"
	defaultRequestTimeout = 10 * time.Second
)

// Config holds environment-driven settings for the telegram relay.
type Config struct {
	Port           int
	BotToken       string
	DefaultChatID  string
	APIBase        string
	RequestTimeout time.Duration
}

// Load reads configuration from environment variables (optionally .env).
// A missing bot token is tolerated at startup so the fleet can run without
// notifications; sends then fail with an explicit error.
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Port:           defaultPort,
		APIBase:        defaultAPIBase,
		RequestTimeout: defaultRequestTimeout,
	}

	cfg.BotToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	cfg.DefaultChatID = strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID"))

	if v := strings.TrimSpace(os.Getenv("TELEGRAM_API_BASE")); v != "" {
		cfg.APIBase = strings.TrimRight(v, "/")
	}

	if portStr := strings.TrimSpace(os.Getenv("TELEGRAM_SERVICE_PORT")); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid TELEGRAM_SERVICE_PORT: %s", portStr)
		}
	}

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
