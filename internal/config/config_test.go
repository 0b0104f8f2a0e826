package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "DATABASE_URL", "SQLITE_PATH", "REDIS_URL", "DISPATCH_INTERVAL_SECONDS",
		"DIALOGUE_TTL_HOURS", "LOCAL_TIMEZONE", "LOG_DEBUG", "LOG_DEVELOPMENT",
		"TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_WHATSAPP_NUMBER",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.SQLitePath != "reminders.db" {
		t.Errorf("SQLitePath = %q, want reminders.db", cfg.SQLitePath)
	}
	if cfg.DispatchInterval != 30*time.Second {
		t.Errorf("DispatchInterval = %v, want 30s", cfg.DispatchInterval)
	}
	if cfg.DialogueTTL != 24*time.Hour {
		t.Errorf("DialogueTTL = %v, want 24h", cfg.DialogueTTL)
	}
	if cfg.TwilioConfigured() {
		t.Error("TwilioConfigured() = true without credentials")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DISPATCH_INTERVAL_SECONDS", "45")
	t.Setenv("LOCAL_TIMEZONE", "UTC")
	t.Setenv("LOG_DEBUG", "true")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "secret")
	t.Setenv("TWILIO_WHATSAPP_NUMBER", "+15550000000")

	cfg := Load()
	if cfg.DispatchInterval != 45*time.Second {
		t.Errorf("DispatchInterval = %v, want 45s", cfg.DispatchInterval)
	}
	if cfg.LocalTimezone != time.UTC {
		t.Errorf("LocalTimezone = %v, want UTC", cfg.LocalTimezone)
	}
	if !cfg.LogDebug {
		t.Error("LogDebug = false, want true")
	}
	if !cfg.TwilioConfigured() {
		t.Error("TwilioConfigured() = false with credentials set")
	}
}

func TestLoadRejectsNonPositiveInterval(t *testing.T) {
	t.Setenv("DISPATCH_INTERVAL_SECONDS", "0")

	if got := Load().DispatchInterval; got != 30*time.Second {
		t.Errorf("DispatchInterval = %v, want fallback 30s", got)
	}
}

func TestParseIntEnvInvalid(t *testing.T) {
	t.Setenv("SOME_INT", "abc")
	if got := ParseIntEnv("SOME_INT", 7); got != 7 {
		t.Errorf("ParseIntEnv = %d, want 7", got)
	}
}
