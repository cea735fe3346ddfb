// Package config holds product constants and the environment-driven settings
// shared by the portal CLI and the dev backend.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is read once at startup.
type Config struct {
	APIBaseURL     string
	Token          string
	Role           string
	PollInterval   time.Duration
	NotifyInterval time.Duration

	ListenAddr    string
	DatabaseDSN   string
	RedisAddr     string
	JWTSecret     string
	TelegramToken string
	AdminChatID   int64
}

// Load reads .env files (if any) and the process environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		log.Println("WARNING: Error loading .env file")
	}

	cfg := &Config{
		APIBaseURL:     getenv("PORTAL_API_URL", "http://localhost:8080"),
		Token:          os.Getenv("PORTAL_TOKEN"),
		Role:           getenv("PORTAL_ROLE", "student"),
		PollInterval:   ComplaintPollInterval,
		NotifyInterval: NotificationPollInterval,
		ListenAddr:     getenv("DEVSERVER_ADDR", ":8080"),
		DatabaseDSN:    getenv("DATABASE_DSN", "host=localhost user=user password=password dbname=hostel port=5432 sslmode=disable"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		JWTSecret:      getenv("JWT_SECRET", "dev-secret"),
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	if cfg.Role != "admin" && cfg.Role != "student" {
		return nil, fmt.Errorf("PORTAL_ROLE must be admin or student, got %q", cfg.Role)
	}

	var err error
	if cfg.PollInterval, err = durationEnv("PORTAL_POLL_INTERVAL", cfg.PollInterval); err != nil {
		return nil, err
	}
	if cfg.NotifyInterval, err = durationEnv("PORTAL_NOTIFY_INTERVAL", cfg.NotifyInterval); err != nil {
		return nil, err
	}
	if v := os.Getenv("TELEGRAM_ADMIN_CHAT_ID"); v != "" {
		cfg.AdminChatID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ADMIN_CHAT_ID: %w", err)
		}
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
