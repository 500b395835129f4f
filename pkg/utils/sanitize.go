// Package utils provides small shared helpers: log sanitizing and
// Seoul-localized time formatting.
package utils

import (
	"regexp"
	"strings"
)

// SensitivePatterns matches credential material that must never reach the
// run log: key/value style secrets, bearer headers, Slack bot tokens, and
// Telegram bot tokens.
var SensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(password|passwd|secret|token|auth)\s*[:=]\s*['"]?([a-zA-Z0-9_\-+/=]{4,})['"]?`),
	regexp.MustCompile(`(?i)(bearer\s+)([a-zA-Z0-9_\-+/=]{20,})`),
	regexp.MustCompile(`(?i)(authorization:\s*bearer\s+)([a-zA-Z0-9_\-+/=]{20,})`),
	regexp.MustCompile(`xox[bap]-[a-zA-Z0-9\-]{10,}`),      // Slack bot/app tokens
	regexp.MustCompile(`\b\d{8,10}:[a-zA-Z0-9_\-]{30,}\b`), // Telegram bot tokens
}

// SanitizeLog removes sensitive information from log messages.
func SanitizeLog(message string) string {
	result := message

	for _, pattern := range SensitivePatterns {
		result = pattern.ReplaceAllStringFunc(result, func(match string) string {
			parts := strings.SplitN(match, ":", 2)
			if len(parts) == 2 && !strings.Contains(parts[0], "-") {
				return parts[0] + ": ***REDACTED***"
			}
			return "***REDACTED***"
		})
	}

	return result
}
