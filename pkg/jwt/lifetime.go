package jwt

import (
	"regexp"
	"strconv"
	"time"
)

// DefaultLifetime is used when a lifetime string cannot be parsed.
const DefaultLifetime = 900 * time.Second

var lifetimePattern = regexp.MustCompile(`^(\d+)([smhd])$`)

// ParseLifetime parses a compact duration string of the form "<n><unit>"
// where unit is one of s, m, h, or d. Unrecognized input falls back to
// DefaultLifetime rather than failing, so a misconfigured lifetime can never
// produce tokens that live forever.
func ParseLifetime(s string) time.Duration {
	m := lifetimePattern.FindStringSubmatch(s)
	if m == nil {
		return DefaultLifetime
	}

	value, err := strconv.Atoi(m[1])
	if err != nil {
		return DefaultLifetime
	}

	switch m[2] {
	case "s":
		return time.Duration(value) * time.Second
	case "m":
		return time.Duration(value) * time.Minute
	case "h":
		return time.Duration(value) * time.Hour
	case "d":
		return time.Duration(value) * 24 * time.Hour
	}
	return DefaultLifetime
}
