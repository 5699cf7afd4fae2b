// Package database opens the MySQL connection backing the admin
// tables (admin_profiles, users, user_invites, workspaces,
// deliverables).
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Config collects the connection settings.  Zero values for the pool
// fields fall back to defaults sized for a single low-traffic admin
// instance.
type Config struct {
	User string
	Pass string // empty means no password
	Host string
	Port string
	Name string

	MaxConns     int           // open and idle pool size (default 10)
	ConnLifetime time.Duration // recycle age (default 30m)
	PingTimeout  time.Duration // startup reachability check (default 5s)
}

// DSN renders the go-sql-driver connection string.  parseTime maps
// DATETIME columns to time.Time and loc=UTC matches the UTC
// timestamps the services write.
func (c Config) DSN() string {
	auth := c.User
	if c.Pass != "" {
		auth = fmt.Sprintf("%s:%s", c.User, c.Pass)
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, c.Host, c.Port, c.Name)
}

// Open connects with the given settings and verifies reachability
// before the server starts taking requests.
func Open(cfg Config) (*sql.DB, error) {
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = 10
	}
	if cfg.ConnLifetime <= 0 {
		cfg.ConnLifetime = 30 * time.Minute
	}
	if cfg.PingTimeout <= 0 {
		cfg.PingTimeout = 5 * time.Second
	}

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxConns)
	db.SetConnMaxLifetime(cfg.ConnLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
