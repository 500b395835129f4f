package config

import (
	"strings"
	"testing"
	"time"
)

func TestFromArgsPositional(t *testing.T) {
	cfg, err := FromArgs([]string{"hong", "pw123", "xoxb-token", "#lotto", "3"})
	if err != nil {
		t.Fatalf("FromArgs() error = %v", err)
	}

	if cfg.UserID != "hong" || cfg.Password != "pw123" {
		t.Errorf("credentials = %q/%q, want hong/pw123", cfg.UserID, cfg.Password)
	}
	if cfg.SlackToken != "xoxb-token" || cfg.SlackChannel != "#lotto" {
		t.Errorf("slack = %q/%q", cfg.SlackToken, cfg.SlackChannel)
	}
	if cfg.Count != 3 {
		t.Errorf("Count = %d, want 3", cfg.Count)
	}
	if !cfg.Headless || cfg.StepTimeout != 20*time.Second || cfg.LogDir != "logs" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestFromArgsEnvFallback(t *testing.T) {
	t.Setenv("LOTTO_USER_ID", "envuser")
	t.Setenv("LOTTO_USER_PW", "envpw")
	t.Setenv("SLACK_BOT_TOKEN", "envtoken")
	t.Setenv("SLACK_CHANNEL", "#env")
	t.Setenv("LOTTO_COUNT", "2")

	cfg, err := FromArgs(nil)
	if err != nil {
		t.Fatalf("FromArgs() error = %v", err)
	}
	if cfg.UserID != "envuser" || cfg.Count != 2 {
		t.Errorf("env fallback not applied: %+v", cfg)
	}
}

func TestFromArgsPositionalWinsOverEnv(t *testing.T) {
	t.Setenv("LOTTO_USER_ID", "envuser")
	t.Setenv("LOTTO_USER_PW", "envpw")
	t.Setenv("SLACK_BOT_TOKEN", "envtoken")
	t.Setenv("SLACK_CHANNEL", "#env")
	t.Setenv("LOTTO_COUNT", "2")

	cfg, err := FromArgs([]string{"arguser"})
	if err != nil {
		t.Fatalf("FromArgs() error = %v", err)
	}
	if cfg.UserID != "arguser" {
		t.Errorf("UserID = %q, want positional arguser", cfg.UserID)
	}
	if cfg.Password != "envpw" {
		t.Errorf("Password = %q, want env fallback envpw", cfg.Password)
	}
}

func TestFromArgsTelegramEnv(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123456789:tgtoken")
	t.Setenv("TELEGRAM_CHAT_ID", "-100200300")

	cfg, err := FromArgs([]string{"hong", "pw", "tok", "#ch", "1"})
	if err != nil {
		t.Fatalf("FromArgs() error = %v", err)
	}
	if cfg.TelegramToken != "123456789:tgtoken" {
		t.Errorf("TelegramToken = %q", cfg.TelegramToken)
	}
	if cfg.TelegramChatID != -100200300 {
		t.Errorf("TelegramChatID = %d, want -100200300", cfg.TelegramChatID)
	}
}

func TestFromArgsValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string // substring of the error
	}{
		{"missing everything", nil, "user id"},
		{"missing password", []string{"hong"}, "password"},
		{"missing count", []string{"hong", "pw", "tok", "#ch"}, "count"},
		{"zero count", []string{"hong", "pw", "tok", "#ch", "0"}, "positive"},
		{"negative count", []string{"hong", "pw", "tok", "#ch", "-1"}, "positive"},
		{"non-numeric count", []string{"hong", "pw", "tok", "#ch", "three"}, "not a number"},
		{"too many arguments", []string{"a", "b", "c", "d", "e", "f"}, "at most"},
	}

	// Shield the table from ambient environment configuration.
	for _, key := range []string{"LOTTO_USER_ID", "LOTTO_USER_PW", "SLACK_BOT_TOKEN", "SLACK_CHANNEL", "LOTTO_COUNT"} {
		t.Setenv(key, "")
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromArgs(tt.args)
			if err == nil {
				t.Fatalf("FromArgs(%v) error = nil, want %q", tt.args, tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("FromArgs(%v) error = %v, want substring %q", tt.args, err, tt.want)
			}
		})
	}
}
