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

// Config holds environment-based settings
type Config struct {
	Environment    string
	LogLevel       string
	DatabaseURL    string
	MigrationsPath string
	JWTSecret      string
	AdminPassword  string // bcrypt hash
	ServerAddress  string

	SoundtrackURL     string
	SoundtrackToken   string
	SoundtrackRatePer float64

	AladhanBaseURL string
	AladhanTimeout time.Duration

	RedisAddress  string
	RedisUsername string
	RedisPassword string

	MQTTBrokerURL string
	MQTTClientID  string

	RefreshCron string
}

func (c *Config) Development() bool { return c.Environment == "development" }

// Load reads a .env file when present, then configuration from environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		Environment:    get("APP_ENV", "production"),
		LogLevel:       get("LOG_LEVEL", "info"),
		DatabaseURL:    get("DATABASE_URL", ""),
		MigrationsPath: get("MIGRATIONS_PATH", "./migrations"),
		JWTSecret:      get("JWT_SECRET", ""),
		AdminPassword:  get("ADMIN_PASSWORD_HASH", ""),
		ServerAddress:  get("SERVER_ADDRESS", ":8080"),

		SoundtrackURL:   get("SOUNDTRACK_API_URL", "https://api.soundtrackyourbrand.com/v2"),
		SoundtrackToken: get("SOUNDTRACK_API_TOKEN", ""),

		AladhanBaseURL: get("ALADHAN_BASE_URL", "https://api.aladhan.com/v1"),

		RedisAddress:  get("REDIS_ADDRESS", ""),
		RedisUsername: get("REDIS_USERNAME", ""),
		RedisPassword: get("REDIS_PASSWORD", ""),

		MQTTBrokerURL: get("MQTT_BROKER_URL", ""),
		MQTTClientID:  get("MQTT_CLIENT_ID", "prayertimes-scheduler"),

		RefreshCron: get("REFRESH_CRON", "0 0 * * *"),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	rate, err := strconv.ParseFloat(get("SOUNDTRACK_RATE_PER_SEC", "5"), 64)
	if err != nil || rate <= 0 {
		return nil, fmt.Errorf("SOUNDTRACK_RATE_PER_SEC must be a positive number")
	}
	cfg.SoundtrackRatePer = rate

	timeout, err := time.ParseDuration(get("ALADHAN_TIMEOUT", "10s"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("ALADHAN_TIMEOUT must be a positive duration")
	}
	cfg.AladhanTimeout = timeout

	return cfg, nil
}
