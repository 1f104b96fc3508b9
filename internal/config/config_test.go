package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.DigestLeagueID != "39" {
		t.Fatalf("unexpected DigestLeagueID: %q", cfg.DigestLeagueID)
	}
	if cfg.PushHourUTC != 9 || cfg.PushMinuteUTC != 0 {
		t.Fatalf("unexpected push time: %d:%d", cfg.PushHourUTC, cfg.PushMinuteUTC)
	}
	if !cfg.SchedulerEnabled {
		t.Fatalf("expected SchedulerEnabled=true by default")
	}
	if !cfg.CacheEnabled || cfg.CacheTTL != 60*time.Second {
		t.Fatalf("unexpected cache defaults: enabled=%v ttl=%s", cfg.CacheEnabled, cfg.CacheTTL)
	}
	if cfg.FootballDataBaseURL != "https://v3.football.api-sports.io" {
		t.Fatalf("unexpected FootballDataBaseURL: %q", cfg.FootballDataBaseURL)
	}
	if cfg.FootballDataTimezone != "UTC" {
		t.Fatalf("unexpected FootballDataTimezone: %q", cfg.FootballDataTimezone)
	}
}

func TestLoad_PushTimeValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PUSH_HOUR_UTC", "24")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for PUSH_HOUR_UTC=24")
	}

	t.Setenv("PUSH_HOUR_UTC", "9")
	t.Setenv("PUSH_MINUTE", "75")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for PUSH_MINUTE=75")
	}
}

func TestLoad_TokensAndTelegram(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("API_TOKEN", " api-secret ")
	t.Setenv("INGEST_TOKEN", "ingest-secret")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-100200")
	t.Setenv("TELEGRAM_TIMEOUT", "4s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.APIToken != "api-secret" {
		t.Fatalf("expected trimmed APIToken, got %q", cfg.APIToken)
	}
	if cfg.IngestToken != "ingest-secret" {
		t.Fatalf("unexpected IngestToken: %q", cfg.IngestToken)
	}
	if cfg.TelegramBotToken != "123:abc" || cfg.TelegramChatID != "-100200" {
		t.Fatalf("unexpected telegram credentials")
	}
	if cfg.TelegramTimeout != 4*time.Second {
		t.Fatalf("unexpected TelegramTimeout: %s", cfg.TelegramTimeout)
	}
}

func TestMissingKeys(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	missing := cfg.MissingKeys()
	want := map[string]bool{
		"DB_URL":                false,
		"TELEGRAM_BOT_TOKEN":    false,
		"TELEGRAM_CHAT_ID":      false,
		"FOOTBALL_DATA_API_KEY": false,
		"API_TOKEN":             false,
		"INGEST_TOKEN":          false,
	}
	for _, key := range missing {
		if _, ok := want[key]; !ok {
			t.Fatalf("unexpected missing key %q", key)
		}
		want[key] = true
	}
	for key, seen := range want {
		if !seen {
			t.Fatalf("expected %q to be reported missing", key)
		}
	}

	t.Setenv("DB_URL", "postgres://localhost/causal_football")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	for _, key := range cfg.MissingKeys() {
		if key == "DB_URL" {
			t.Fatalf("did not expect DB_URL to be missing")
		}
	}
}

func TestLoad_InvalidDurations(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CACHE_TTL", "not-a-duration")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid CACHE_TTL")
	}
}

func TestParseLogLevel(t *testing.T) {
	if parseLogLevel("debug").String() != "debug" {
		t.Fatalf("expected debug level")
	}
	if parseLogLevel("unknown").String() != "info" {
		t.Fatalf("expected info fallback")
	}
}
