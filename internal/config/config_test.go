package config

import (
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"
)

var keys = []string{
	"PORT", "DB_DRIVER", "DB_PATH", "DATABASE_URL", "DB_MAX_RETRIES", "DB_RETRY_DELAY",
	"BALANCE_CACHE_TTL", "SUMMARY_CACHE_TTL", "CONTEXT_CACHE_TTL", "ASSISTANT_RESPONSE_CACHE_TTL",
	"REQUEST_TIMEOUT", "CORS_ORIGINS", "LOG_LEVEL", "LOG_FORMAT",
	"LLM_API_KEY", "LLM_BASE_URL", "LLM_MODEL", "LLM_MAX_TOKENS", "LLM_TEMPERATURE",
}

// clearEnv blanks every key Load reads; empty values select the defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 8080 || cfg.DBDriver != "sqlite" || cfg.DBPath != "./data/ledger.db" {
		t.Errorf("unexpected server defaults: %+v", cfg)
	}
	if cfg.DBMaxRetries != 30 || cfg.DBRetryDelay != 2*time.Second {
		t.Errorf("unexpected retry defaults: %d, %v", cfg.DBMaxRetries, cfg.DBRetryDelay)
	}
	if cfg.BalanceCacheTTL != time.Minute || cfg.SummaryCacheTTL != 5*time.Minute {
		t.Errorf("unexpected balance ttls: %v, %v", cfg.BalanceCacheTTL, cfg.SummaryCacheTTL)
	}
	if cfg.ContextCacheTTL != time.Minute || cfg.AssistantResponseCacheTTL != 5*time.Minute {
		t.Errorf("unexpected assistant ttls: %v, %v", cfg.ContextCacheTTL, cfg.AssistantResponseCacheTTL)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", cfg.RequestTimeout)
	}
	if !slices.Equal(cfg.CORSOrigins, []string{"*"}) {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.CORSOrigins)
	}
	if cfg.LogLevel != slog.LevelInfo || cfg.LogFormat != "text" {
		t.Errorf("unexpected logging defaults: %v, %q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.LLMAPIKey != "" || cfg.LLMMaxTokens != 1000 || cfg.LLMTemperature != 0.7 {
		t.Errorf("unexpected assistant defaults: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://ledger@db/ledger")
	t.Setenv("DB_RETRY_DELAY", "500ms")
	t.Setenv("BALANCE_CACHE_TTL", "120")
	t.Setenv("SUMMARY_CACHE_TTL", "10m")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://ledger.example ,")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("LLM_TEMPERATURE", "0.2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 9090 || cfg.DBDriver != "postgres" || cfg.DatabaseURL != "postgres://ledger@db/ledger" {
		t.Errorf("unexpected server config: %+v", cfg)
	}
	if cfg.DBRetryDelay != 500*time.Millisecond {
		t.Errorf("DBRetryDelay = %v, want 500ms", cfg.DBRetryDelay)
	}
	if cfg.BalanceCacheTTL != 2*time.Minute {
		t.Errorf("BalanceCacheTTL = %v, want bare seconds to parse as 2m", cfg.BalanceCacheTTL)
	}
	if cfg.SummaryCacheTTL != 10*time.Minute {
		t.Errorf("SummaryCacheTTL = %v, want 10m", cfg.SummaryCacheTTL)
	}
	if !slices.Equal(cfg.CORSOrigins, []string{"http://localhost:3000", "https://ledger.example"}) {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.LogLevel != slog.LevelDebug || cfg.LogFormat != "json" {
		t.Errorf("unexpected logging config: %v, %q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.LLMAPIKey != "sk-test" || cfg.LLMTemperature != 0.2 {
		t.Errorf("unexpected assistant config: %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"non-numeric port", "PORT", "http", "invalid PORT"},
		{"port out of range", "PORT", "70000", "PORT must be between"},
		{"unknown driver", "DB_DRIVER", "mysql", "DB_DRIVER must be sqlite or postgres"},
		{"bad duration", "BALANCE_CACHE_TTL", "soon", "invalid BALANCE_CACHE_TTL"},
		{"bad level", "LOG_LEVEL", "loud", "invalid LOG_LEVEL"},
		{"bad format", "LOG_FORMAT", "xml", "LOG_FORMAT must be text or json"},
		{"zero timeout", "REQUEST_TIMEOUT", "0", "REQUEST_TIMEOUT must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
