package config

import (
	"fmt"
	"hash/crc32"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort              = 9000
	defaultName              = "Unnamed station"
	defaultGatewayURL        = "http://gateway:8000"
	defaultBrokerURL         = "http://broker:8001"
	defaultPublicBaseURL     = "http://station:9000"
	defaultHeartbeatInterval = 10 * time.Second
	defaultRegisterRetry     = 3 * time.Second
	defaultRequestTimeout    = 5 * time.Second
)

// Config holds environment-driven settings for a station agent.
type Config struct {
	StationID         int64
	Name              string
	Lat               *float64
	Lon               *float64
	Port              int
	GatewayURL        string
	BrokerURL         string
	PublicBaseURL     string
	HeartbeatInterval time.Duration
	RegisterRetry     time.Duration
	RequestTimeout    time.Duration
}

// Load reads configuration from environment variables (optionally .env).
// Without an explicit STATION_ID the id derives from a CRC-32 of the name so
// the station appears in the broker immediately, before any gateway
// registration completes.
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Name:              defaultName,
		Port:              defaultPort,
		GatewayURL:        defaultGatewayURL,
		BrokerURL:         defaultBrokerURL,
		PublicBaseURL:     defaultPublicBaseURL,
		HeartbeatInterval: defaultHeartbeatInterval,
		RegisterRetry:     defaultRegisterRetry,
		RequestTimeout:    defaultRequestTimeout,
	}

	if name := strings.TrimSpace(os.Getenv("STATION_NAME")); name != "" {
		cfg.Name = name
	}
	if v := strings.TrimSpace(os.Getenv("GATEWAY_URL")); v != "" {
		cfg.GatewayURL = v
	}
	if v := strings.TrimSpace(os.Getenv("BROKER_URL")); v != "" {
		cfg.BrokerURL = v
	}
	if v := strings.TrimSpace(os.Getenv("PUBLIC_BASE_URL")); v != "" {
		cfg.PublicBaseURL = v
	}

	if idStr := strings.TrimSpace(os.Getenv("STATION_ID")); idStr != "" {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid STATION_ID: %s", idStr)
		}
		cfg.StationID = id
	} else {
		cfg.StationID = StableID(cfg.Name)
	}

	if portStr := strings.TrimSpace(os.Getenv("PORT")); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	}

	cfg.Lat = optionalFloat("STATION_LAT")
	cfg.Lon = optionalFloat("STATION_LON")

	if v := strings.TrimSpace(os.Getenv("HEARTBEAT_INTERVAL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid HEARTBEAT_INTERVAL: %s", v)
		}
		cfg.HeartbeatInterval = d
	}

	return cfg, nil
}

// StableID derives a station id from its name, masked positive.
func StableID(name string) int64 {
	return int64(crc32.ChecksumIEEE([]byte(name)) & 0x7FFFFFFF)
}

func optionalFloat(name string) *float64 {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("invalid %s value: %q", name, v)
		return nil
	}
	return &f
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
