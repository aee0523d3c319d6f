package config

import (
	"reflect"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ListenAddr != ":5000" || cfg.Locale != "pt-BR" || cfg.MaxBodyBytes != 10<<20 {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"*"}) {
		t.Errorf("Expected wildcard origin, got %v", cfg.AllowedOrigins)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("CASHPULSE_LISTEN_ADDR", ":9000")
	t.Setenv("CASHPULSE_DEBUG", "1")
	t.Setenv("CASHPULSE_LOG_FORMAT", "text")
	t.Setenv("CASHPULSE_LOCALE", "en")
	t.Setenv("CASHPULSE_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("CASHPULSE_MAX_BODY_BYTES", "2048")
	t.Setenv("CASHPULSE_READ_TIMEOUT", "45s")
	t.Setenv("CASHPULSE_WRITE_TIMEOUT", "90")
	t.Setenv("CASHPULSE_POLICY_FILE", "/etc/cashpulse/policy.json")
	t.Setenv("CASHPULSE_DATA_DIR", "/var/lib/cashpulse")

	cfg := FromEnv()

	if cfg.ListenAddr != ":9000" || !cfg.Debug || cfg.LogLevel != "debug" || cfg.LogFormat != "text" {
		t.Errorf("Unexpected server settings: %+v", cfg)
	}
	if cfg.Locale != "en" || cfg.PolicyFile != "/etc/cashpulse/policy.json" || cfg.DataDirectory != "/var/lib/cashpulse" {
		t.Errorf("Unexpected analysis settings: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"https://a.example", "https://b.example"}) {
		t.Errorf("Unexpected origins: %v", cfg.AllowedOrigins)
	}
	if cfg.MaxBodyBytes != 2048 {
		t.Errorf("Expected 2048, got %d", cfg.MaxBodyBytes)
	}
	if cfg.ReadTimeout != 45*time.Second || cfg.WriteTimeout != 90*time.Second {
		t.Errorf("Unexpected timeouts: %v / %v", cfg.ReadTimeout, cfg.WriteTimeout)
	}
	if len(cfg.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", cfg.Warnings)
	}
}

func TestFromEnvInvalidValues(t *testing.T) {
	t.Setenv("CASHPULSE_MAX_BODY_BYTES", "lots")
	t.Setenv("CASHPULSE_READ_TIMEOUT", "soon")
	t.Setenv("CASHPULSE_LOG_LEVEL", "warn")

	cfg := FromEnv()
	defaults := DefaultConfig()

	if cfg.MaxBodyBytes != defaults.MaxBodyBytes || cfg.ReadTimeout != defaults.ReadTimeout {
		t.Errorf("Expected defaults for malformed values, got %+v", cfg)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Expected warn level, got %q", cfg.LogLevel)
	}

	want := []string{
		`ignoring invalid CASHPULSE_MAX_BODY_BYTES "lots"`,
		`ignoring invalid CASHPULSE_READ_TIMEOUT "soon"`,
	}
	if !reflect.DeepEqual(cfg.Warnings, want) {
		t.Errorf("Warnings = %v, want %v", cfg.Warnings, want)
	}
}

func TestEnsureDataDirectory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDirectory = t.TempDir() + "/nested/data"
	if err := cfg.EnsureDataDirectory(); err != nil {
		t.Fatalf("EnsureDataDirectory failed: %v", err)
	}
}
