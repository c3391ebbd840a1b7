package telemetry

import (
	"log/slog"
	"strings"
)

const redactedValue = "[REDACTED]"

// sensitiveKeyPatterns are substrings of attribute keys whose values are
// never written to the log.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"hash",
	"cookie",
	"authorization",
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, p := range sensitiveKeyPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// redactSensitive is a ReplaceAttr hook. slog calls it for each member of a
// group rather than the group itself, so grouped keys are checked one by one.
func redactSensitive(a slog.Attr) slog.Attr {
	if isSensitiveKey(a.Key) {
		if a.Value.Kind() == slog.KindString && a.Value.String() == "" {
			return a
		}
		return slog.String(a.Key, redactedValue)
	}
	return a
}
