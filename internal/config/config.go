package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config stores runtime configuration loaded from environment variables.
type Config struct {
	Port                 string
	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioWhatsAppNumber string
	OpenAIAPIKey         string
	DatabaseURL          string
	SQLitePath           string
	RedisURL             string
	DispatchInterval     time.Duration
	DialogueTTL          time.Duration
	LocalTimezone        *time.Location
	LogDebug             bool
	LogDevelopment       bool
}

// Load reads configuration values and prepares defaults where applicable.
func Load() *Config {
	_ = godotenv.Load()

	timezoneName := getenvDefault("LOCAL_TIMEZONE", "Local")
	location, err := time.LoadLocation(timezoneName)
	if err != nil {
		log.Printf("config: invalid LOCAL_TIMEZONE %q, defaulting to system local: %v", timezoneName, err)
		location = time.Local
	}

	interval := ParseIntEnv("DISPATCH_INTERVAL_SECONDS", 30)
	if interval < 1 {
		log.Printf("config: DISPATCH_INTERVAL_SECONDS must be positive, using 30")
		interval = 30
	}

	return &Config{
		Port:                 getenvDefault("PORT", "8080"),
		TwilioAccountSID:     os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:      os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppNumber: os.Getenv("TWILIO_WHATSAPP_NUMBER"),
		OpenAIAPIKey:         os.Getenv("OPENAI_API_KEY"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		SQLitePath:           getenvDefault("SQLITE_PATH", "reminders.db"),
		RedisURL:             os.Getenv("REDIS_URL"),
		DispatchInterval:     time.Duration(interval) * time.Second,
		DialogueTTL:          time.Duration(ParseIntEnv("DIALOGUE_TTL_HOURS", 24)) * time.Hour,
		LocalTimezone:        location,
		LogDebug:             ParseBoolEnv("LOG_DEBUG", false),
		LogDevelopment:       ParseBoolEnv("LOG_DEVELOPMENT", false),
	}
}

// TwilioConfigured reports whether outbound WhatsApp delivery can be used.
func (c *Config) TwilioConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioWhatsAppNumber != ""
}

func getenvDefault(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	return value
}

// ParseIntEnv returns the integer value for an environment variable or the provided default.
func ParseIntEnv(key string, def int) int {
	value := os.Getenv(key)
	if value == "" {
		return def
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("config: unable to parse %s=%q as int: %v", key, value, err)
		return def
	}
	return parsed
}

// ParseBoolEnv returns the boolean value for an environment variable or the provided default.
func ParseBoolEnv(key string, def bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	return value == "true" || value == "1" || value == "yes"
}
