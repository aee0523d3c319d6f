package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server settings
	ListenAddr     string        `json:"listen_addr"`
	Debug          bool          `json:"debug"`
	AllowedOrigins []string      `json:"allowed_origins"`
	MaxBodyBytes   int64         `json:"max_body_bytes"`
	ReadTimeout    time.Duration `json:"read_timeout"`
	WriteTimeout   time.Duration `json:"write_timeout"`

	// Logging
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`

	// Analysis
	Locale     string `json:"locale"`
	PolicyFile string `json:"policy_file"`

	// Relative ledger and report paths resolve against DataDirectory
	DataDirectory string `json:"data_directory"`

	// Warnings lists settings that were ignored while loading. Callers log
	// them once their logger exists.
	Warnings []string `json:"-"`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	// Get working directory
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	return &Config{
		ListenAddr:     ":5000",
		Debug:          false,
		AllowedOrigins: []string{"*"},
		MaxBodyBytes:   10 << 20,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   60 * time.Second,
		LogLevel:       "info",
		LogFormat:      "json",
		Locale:         "pt-BR",
		DataDirectory:  wd,
	}
}

// Load loads configuration from a .env file (when present) and environment
func Load() *Config {
	envErr := godotenv.Load()
	cfg := FromEnv()
	if envErr != nil && !os.IsNotExist(envErr) {
		cfg.warn("could not read .env file: %v", envErr)
	}
	return cfg
}

// FromEnv applies CASHPULSE_* environment overrides to the defaults.
// Malformed numbers and durations keep the default and add a warning.
func FromEnv() *Config {
	cfg := DefaultConfig()

	// Override with environment variables
	if addr := os.Getenv("CASHPULSE_LISTEN_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	if debug := os.Getenv("CASHPULSE_DEBUG"); debug == "true" || debug == "1" {
		cfg.Debug = true
		cfg.LogLevel = "debug"
	}
	if level := os.Getenv("CASHPULSE_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if format := os.Getenv("CASHPULSE_LOG_FORMAT"); format != "" {
		cfg.LogFormat = format
	}
	if locale := os.Getenv("CASHPULSE_LOCALE"); locale != "" {
		cfg.Locale = locale
	}
	if origins := os.Getenv("CASHPULSE_ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = splitList(origins)
	}
	if size := os.Getenv("CASHPULSE_MAX_BODY_BYTES"); size != "" {
		if n, err := strconv.ParseInt(size, 10, 64); err == nil && n > 0 {
			cfg.MaxBodyBytes = n
		} else {
			cfg.warn("ignoring invalid CASHPULSE_MAX_BODY_BYTES %q", size)
		}
	}
	cfg.ReadTimeout = cfg.durationEnv("CASHPULSE_READ_TIMEOUT", cfg.ReadTimeout)
	cfg.WriteTimeout = cfg.durationEnv("CASHPULSE_WRITE_TIMEOUT", cfg.WriteTimeout)
	if policy := os.Getenv("CASHPULSE_POLICY_FILE"); policy != "" {
		cfg.PolicyFile = policy
	}
	if dataDir := os.Getenv("CASHPULSE_DATA_DIR"); dataDir != "" {
		cfg.DataDirectory = dataDir
	}

	return cfg
}

// EnsureDataDirectory creates the data directory if it doesn't exist
func (c *Config) EnsureDataDirectory() error {
	return os.MkdirAll(c.DataDirectory, 0700)
}

// durationEnv accepts Go durations ("45s") or a bare number of seconds
func (c *Config) durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	c.warn("ignoring invalid %s %q", key, raw)
	return fallback
}

func (c *Config) warn(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
