// Package config provides the run's immutable configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds everything one workflow run needs. Built once at process
// start and never mutated afterwards.
type Config struct {
	// Account credentials for the lottery site.
	UserID   string
	Password string

	// Slack delivery settings.
	SlackToken   string
	SlackChannel string

	// Number of ticket sets to purchase.
	Count int

	// Optional secondary notification channel.
	TelegramToken  string
	TelegramChatID int64

	// Operational knobs.
	Headless    bool
	StepTimeout time.Duration
	LogDir      string
}

// FromArgs builds a Config from the five positional inputs
// (user id, password, slack token, slack channel, count), falling back to
// environment variables for any that are absent.
func FromArgs(args []string) (*Config, error) {
	cfg := &Config{
		UserID:       envOr("LOTTO_USER_ID", ""),
		Password:     envOr("LOTTO_USER_PW", ""),
		SlackToken:   envOr("SLACK_BOT_TOKEN", ""),
		SlackChannel: envOr("SLACK_CHANNEL", ""),
		Headless:     true,
		StepTimeout:  20 * time.Second,
		LogDir:       "logs",
	}

	countText := envOr("LOTTO_COUNT", "")

	fields := []*string{&cfg.UserID, &cfg.Password, &cfg.SlackToken, &cfg.SlackChannel, &countText}
	if len(args) > len(fields) {
		return nil, fmt.Errorf("got %d arguments, want at most %d", len(args), len(fields))
	}
	for i, arg := range args {
		*fields[i] = arg
	}

	if countText != "" {
		n, err := strconv.Atoi(countText)
		if err != nil {
			return nil, fmt.Errorf("purchase count %q is not a number", countText)
		}
		cfg.Count = n
	}

	if token := envOr("TELEGRAM_BOT_TOKEN", ""); token != "" {
		cfg.TelegramToken = token
		if chat := envOr("TELEGRAM_CHAT_ID", ""); chat != "" {
			id, err := strconv.ParseInt(chat, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("TELEGRAM_CHAT_ID %q is not a number", chat)
			}
			cfg.TelegramChatID = id
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every required input is present and sane.
func (c *Config) Validate() error {
	switch {
	case c.UserID == "":
		return fmt.Errorf("user id is required")
	case c.Password == "":
		return fmt.Errorf("password is required")
	case c.SlackToken == "":
		return fmt.Errorf("slack bot token is required")
	case c.SlackChannel == "":
		return fmt.Errorf("slack channel is required")
	case c.Count <= 0:
		return fmt.Errorf("purchase count must be a positive integer, got %d", c.Count)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
