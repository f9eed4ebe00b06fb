package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/currency"
)

type Config struct {
	HTTPPort        string
	ShutdownTimeout time.Duration

	// Camera service (remote capture provider)
	CameraServiceURL      string
	CameraHTTPTimeout     time.Duration
	CameraLocalFallback   bool
	CameraBreakerFailures uint32
	CameraBreakerCooldown time.Duration

	// Extra delete attempts for discarded photos; 0 means a single best-effort attempt.
	CleanupRetries uint64

	StoreCurrency currency.Unit

	// Empty keeps receipts in memory.
	DatabaseURL string

	CORSAllowOrigins []string

	LogDevelopment bool
}

// Load reads the environment, after merging an optional .env file from the working directory.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("godotenv.Load: %w", err)
	}

	return FromEnv()
}

// FromEnv reads configuration from the process environment only.
func FromEnv() (Config, error) {
	unit, err := currency.ParseISO(getenv("STORE_CURRENCY", "USD"))
	if err != nil {
		return Config{}, fmt.Errorf("STORE_CURRENCY: %w", err)
	}

	cameraURL := getenv("CAMERA_SERVICE_URL", "http://localhost:3001")
	if u, err := url.Parse(cameraURL); err != nil || u.Scheme == "" || u.Host == "" {
		return Config{}, fmt.Errorf("CAMERA_SERVICE_URL[%s] is not an absolute URL", cameraURL)
	}

	cfg := Config{
		HTTPPort:        getenv("HTTP_PORT", "8080"),
		ShutdownTimeout: parseDuration(getenv("SHUTDOWN_TIMEOUT", "10s"), 10*time.Second),

		CameraServiceURL:      cameraURL,
		CameraHTTPTimeout:     parseDuration(getenv("CAMERA_HTTP_TIMEOUT", "30s"), 30*time.Second),
		CameraLocalFallback:   parseBool(getenv("CAMERA_LOCAL_FALLBACK", "true"), true),
		CameraBreakerFailures: uint32(parseUint(getenv("CAMERA_BREAKER_FAILURES", "3"), 3, 32)),
		CameraBreakerCooldown: parseDuration(getenv("CAMERA_BREAKER_COOLDOWN", "30s"), 30*time.Second),

		CleanupRetries: parseUint(getenv("CLEANUP_RETRIES", "0"), 0, 64),

		StoreCurrency: unit,
		DatabaseURL:   getenv("DATABASE_URL", ""),

		CORSAllowOrigins: splitCSV(getenv("CORS_ALLOW_ORIGINS", "*")),

		LogDevelopment: parseBool(getenv("LOG_DEVELOPMENT", "false"), false),
	}

	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func parseBool(v string, def bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return b
}

func parseUint(v string, def uint64, bitSize int) uint64 {
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, bitSize)
	if err != nil {
		return def
	}
	return n
}
