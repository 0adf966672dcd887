package featureflags

import (
	"os"
	"strings"
)

const (
	// ChangeFeed exposes /ws/changes.
	ChangeFeed = "CHANGE_FEED"
	// AuditReads audit-logs GET requests in addition to mutations.
	AuditReads = "AUDIT_READS"
)

// Enabled returns true if a flag is enabled via environment variable.
// Flags are read from env as FLAG_<NAME>=true/1/yes (case-insensitive)
func Enabled(name string) bool {
	return EnabledOr(name, false)
}

// EnabledOr is Enabled with a default for unset or unrecognised values.
func EnabledOr(name string, def bool) bool {
	v := os.Getenv("FLAG_" + strings.ToUpper(name))
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
