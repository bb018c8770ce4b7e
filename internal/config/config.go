package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the configuration for the application.
type Config struct {
	Port           string
	Environment    string
	DatabasePath   string
	JWTSecret      string
	AccessCode     string
	AllowedOrigins []string

	// Telegram Config (optional, enables the weekly digest)
	TelegramBotToken string
	TelegramChatID   int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}

	accessCode := os.Getenv("ACCESS_CODE")
	if accessCode == "" {
		return nil, fmt.Errorf("ACCESS_CODE environment variable not set")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	environment := os.Getenv("APP_ENV")
	if environment == "" {
		environment = "development"
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/recipe-planner.db"
	}

	var origins []string
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	// The Telegram digest is optional, but the token and chat ID only make
	// sense together.
	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	chatIDStr := os.Getenv("TELEGRAM_CHAT_ID")
	var chatID int64
	if chatIDStr != "" {
		parsed, err := strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_CHAT_ID must be numeric: %w", err)
		}
		chatID = parsed
	}
	if (botToken == "") != (chatIDStr == "") {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set together")
	}

	return &Config{
		Port:             port,
		Environment:      environment,
		DatabasePath:     dbPath,
		JWTSecret:        jwtSecret,
		AccessCode:       accessCode,
		AllowedOrigins:   origins,
		TelegramBotToken: botToken,
		TelegramChatID:   chatID,
	}, nil
}

// DigestEnabled reports whether the Telegram weekly digest is configured.
func (c *Config) DigestEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
}
