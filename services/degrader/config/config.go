package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultRequestTimeout = 5 * time.Second

// Config holds environment-driven settings for the wear simulator.
type Config struct {
	GatewayURL     string
	Tick           time.Duration
	RequestTimeout time.Duration
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{RequestTimeout: defaultRequestTimeout}

	cfg.GatewayURL = strings.TrimRight(strings.TrimSpace(os.Getenv("GATEWAY_URL")), "/")
	if cfg.GatewayURL == "" {
		return cfg, fmt.Errorf("GATEWAY_URL is required")
	}

	tickStr := strings.TrimSpace(os.Getenv("TICK_SECONDS"))
	if tickStr == "" {
		return cfg, fmt.Errorf("TICK_SECONDS is required")
	}
	seconds, err := strconv.ParseFloat(tickStr, 64)
	if err != nil || seconds <= 0 {
		return cfg, fmt.Errorf("invalid TICK_SECONDS: %s", tickStr)
	}
	cfg.Tick = time.Duration(seconds * float64(time.Second))

	return cfg, nil
}
