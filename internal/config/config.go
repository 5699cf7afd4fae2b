package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"time"
)

// Config holds all runtime configuration values.  Each field
// corresponds to an environment variable.  Required variables are
// enforced by must(); everything else degrades gracefully when unset
// (email sending and webhook verification are disabled, rate limits
// fall back to in-process counters).
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBUser         string        // database username
	DBPass         string        // database password (optional)
	DBHost         string        // database host address
	DBPort         string        // database port number
	DBName         string        // database name
	DBMaxConns     int           // connection pool size
	DBConnLifetime time.Duration // connection recycle age

	SessionSecret string // secret used to sign bearer-form sessions
	BaseURL       string // public base URL used in magic-link callbacks

	IdentityURL string // identity provider base URL (magic links)
	IdentityKey string // identity provider service-role key

	SESRegion    string // AWS region for SES
	SESFromEmail string // sender address; empty disables email delivery
	SESFromName  string // sender display name

	WebhookSecret string // shared secret for the invite webhook; empty disables the check
	WebhookSource string // provenance tag recorded for webhook-triggered invites
}

// Load reads configuration from environment variables.  Missing
// required values cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		DBMaxConns:     envInt("DB_MAX_CONNS", 10),
		DBConnLifetime: envDur("DB_CONN_LIFETIME", 30*time.Minute),
		SessionSecret:  must("SESSION_SECRET"),
		BaseURL:        must("APP_BASE_URL"),
		IdentityURL:    must("IDENTITY_PROVIDER_URL"),
		IdentityKey:    must("IDENTITY_SERVICE_KEY"),
		SESRegion:      envStr("SES_REGION", "us-east-1"),
		SESFromEmail:   os.Getenv("SES_FROM_EMAIL"),
		SESFromName:    envStr("SES_FROM_NAME", "ArbitrageOS"),
		WebhookSecret:  os.Getenv("WEBHOOK_SECRET"),
		WebhookSource:  envStr("WEBHOOK_SOURCE", "Grow AI"),
	}
}

// must retrieves the value of a required environment variable.  If
// the variable is unset or empty, the application logs a fatal error
// and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
