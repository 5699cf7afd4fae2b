package config

import (
	"os"
	"strconv"
	"time"
)

// RateLimitPolicy is one fixed-window budget for an administrative
// action, keyed per admin principal id.
type RateLimitPolicy struct {
	Name   string        // key segment, e.g. "admin_invite"
	Limit  int           // allowed calls per window
	Window time.Duration // window length
}

// RateLimitConfig carries the per-action policies plus the key
// prefix.  Defaults match the product presets; each policy can be
// tuned via environment variables without a redeploy.
type RateLimitConfig struct {
	Enabled bool
	Prefix  string

	InviteSend    RateLimitPolicy // invite sending
	UserAction    RateLimitPolicy // suspend/activate
	BulkOperation RateLimitPolicy // bulk operations
	API           RateLimitPolicy // generic admin API calls
}

// LoadRateLimitConfig reads environment variables to build a
// RateLimitConfig.  Defaults are used when variables are not set.
func LoadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled: envBool("RATE_LIMIT_ENABLED", true),
		Prefix:  envStr("RATE_LIMIT_PREFIX", "rl"),
		InviteSend: RateLimitPolicy{
			Name:   "admin_invite",
			Limit:  envInt("RATE_LIMIT_INVITE_SEND", 50),
			Window: envDur("RATE_LIMIT_INVITE_SEND_WINDOW", time.Hour),
		},
		UserAction: RateLimitPolicy{
			Name:   "admin_user_action",
			Limit:  envInt("RATE_LIMIT_USER_ACTION", 30),
			Window: envDur("RATE_LIMIT_USER_ACTION_WINDOW", time.Hour),
		},
		BulkOperation: RateLimitPolicy{
			Name:   "admin_bulk",
			Limit:  envInt("RATE_LIMIT_BULK", 5),
			Window: envDur("RATE_LIMIT_BULK_WINDOW", time.Hour),
		},
		API: RateLimitPolicy{
			Name:   "admin_api",
			Limit:  envInt("RATE_LIMIT_API", 200),
			Window: envDur("RATE_LIMIT_API_WINDOW", time.Hour),
		},
	}
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil && dur > 0 {
		return dur
	}
	return d
}
