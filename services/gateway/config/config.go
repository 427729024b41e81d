package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort           = 8000
	defaultForwardTimeout = 5 * time.Second
)

// Config holds environment-driven settings for the gateway/registrar.
type Config struct {
	Port             int
	HeartbeatTimeout time.Duration
	ForwardTimeout   time.Duration
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Port:           defaultPort,
		ForwardTimeout: defaultForwardTimeout,
	}

	hbStr := strings.TrimSpace(os.Getenv("HEARTBEAT_TIMEOUT_SECONDS"))
	if hbStr == "" {
		return cfg, errors.New("HEARTBEAT_TIMEOUT_SECONDS is required")
	}
	hb, err := strconv.Atoi(hbStr)
	if err != nil || hb <= 0 {
		return cfg, fmt.Errorf("invalid HEARTBEAT_TIMEOUT_SECONDS: %s", hbStr)
	}
	cfg.HeartbeatTimeout = time.Duration(hb) * time.Second

	if portStr := strings.TrimSpace(os.Getenv("GATEWAY_PORT")); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid GATEWAY_PORT: %s", portStr)
		}
	}

	if v := strings.TrimSpace(os.Getenv("GATEWAY_FORWARD_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid GATEWAY_FORWARD_TIMEOUT: %s", v)
		}
		cfg.ForwardTimeout = d
	}

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
