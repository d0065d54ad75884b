package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	BotToken string `env:"BOT_TOKEN"`

	// Inference backend as seen by the bot. Defaults to the embedded proxy.
	BackendURL      string `env:"VQA_BACKEND_URL" envDefault:"http://127.0.0.1:8080/api/proxy"`
	BackendUser     string `env:"VQA_BACKEND_USER"`
	BackendPassword string `env:"VQA_BACKEND_PASSWORD"`

	// Proxy
	ProxyEnabled bool   `env:"PROXY_ENABLED" envDefault:"true"`
	ProxyAddr    string `env:"PROXY_ADDR" envDefault:":8080"`
	UpstreamURL  string `env:"NGROK_URL" envDefault:"https://team37.ngrok.io/v1/vqa/single"`
	UpstreamUser string `env:"NGROK_USER" envDefault:"isro"`
	UpstreamPass string `env:"NGROK_PASS" envDefault:"OneEarth"`

	// Admin
	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`

	// Rate limit (messages per minute per chat)
	RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE" envDefault:"6"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`

	// Telegram logging
	LogTelegramChatID int64 `env:"LOG_TELEGRAM_CHAT_ID"`
	LogTopicError     int   `env:"LOG_TOPIC_ERROR"`
	LogTopicSignIn    int   `env:"LOG_TOPIC_SIGN_IN"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ValidateBot checks the settings only the bot needs.
func (c *Config) ValidateBot() error {
	if strings.TrimSpace(c.BotToken) == "" {
		return errors.New("BOT_TOKEN is required")
	}
	if c.BackendURL == "" {
		return errors.New("VQA_BACKEND_URL is required")
	}
	return nil
}

func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}
