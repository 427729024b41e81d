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
	defaultPort          = 8001
	defaultSweepInterval = 5 * time.Second
	defaultNotifyTimeout = 10 * time.Second
	defaultMetaPath      = "data/stations.json"
)

// Config holds environment-driven settings for the broker.
type Config struct {
	Port          int
	StaleAfter    time.Duration
	SweepInterval time.Duration
	RelayURL      string
	NotifyTimeout time.Duration
	MetaPath      string
}

// Load reads configuration from environment variables (optionally .env).
// The staleness timeout has no sane default and is required: the broker
// refuses to start without it.
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Port:          defaultPort,
		SweepInterval: defaultSweepInterval,
		NotifyTimeout: defaultNotifyTimeout,
		MetaPath:      defaultMetaPath,
	}

	staleStr := strings.TrimSpace(os.Getenv("BROKER_STALE_SECONDS"))
	if staleStr == "" {
		return cfg, errors.New("BROKER_STALE_SECONDS is required")
	}
	stale, err := strconv.Atoi(staleStr)
	if err != nil || stale <= 0 {
		return cfg, fmt.Errorf("invalid BROKER_STALE_SECONDS: %s", staleStr)
	}
	cfg.StaleAfter = time.Duration(stale) * time.Second

	if portStr := strings.TrimSpace(os.Getenv("BROKER_PORT")); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid BROKER_PORT: %s", portStr)
		}
	}

	if v := strings.TrimSpace(os.Getenv("BROKER_SWEEP_INTERVAL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid BROKER_SWEEP_INTERVAL: %s", v)
		}
		cfg.SweepInterval = d
	}

	if v := strings.TrimSpace(os.Getenv("BROKER_NOTIFY_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid BROKER_NOTIFY_TIMEOUT: %s", v)
		}
		cfg.NotifyTimeout = d
	}

	// Empty is fine: it disables alert notifications.
	cfg.RelayURL = strings.TrimSpace(os.Getenv("TELEGRAM_URL"))

	if path := strings.TrimSpace(os.Getenv("STATION_META_PATH")); path != "" {
		cfg.MetaPath = path
	}

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
