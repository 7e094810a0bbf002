// Package store persists tracked profiles in sqlite or a remote libsql
// database.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"

	"github.com/use-agent/solvetrack/config"
	"github.com/use-agent/solvetrack/models"
)

//go:embed schema.sql
var Schema string

// Store reads and writes profiles.
type Store struct {
	db *sql.DB
}

// New wraps an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to the datastore named by cfg.DSN. libsql:// and https://
// DSNs go to the libsql client; anything else is a sqlite path.
func Open(cfg config.StoreConfig) (*Store, error) {
	driver, dsn := driverFor(cfg.DSN, cfg.AuthToken)
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, storeError("open database", err)
	}
	if driver == "sqlite" {
		// sqlite allows one writer; serialise to avoid SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}
	return New(db), nil
}

func driverFor(dsn, token string) (driver, out string) {
	if strings.HasPrefix(dsn, "libsql://") || strings.HasPrefix(dsn, "https://") || strings.HasPrefix(dsn, "http://") {
		if token == "" {
			return "libsql", dsn
		}
		u, err := url.Parse(dsn)
		if err != nil {
			return "libsql", dsn
		}
		q := u.Query()
		q.Set("authToken", token)
		u.RawQuery = q.Encode()
		return "libsql", u.String()
	}
	return "sqlite", dsn
}

// DB exposes the underlying handle.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Migrate applies the embedded schema.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return storeError("apply schema", err)
	}
	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return storeError("ping database", err)
	}
	return nil
}

func storeError(msg string, err error) *models.ScrapeError {
	return models.NewScrapeError(models.ErrCodeStore, msg, err)
}

func urlColumn(site models.Site) string   { return string(site) + "_url" }
func countColumn(site models.Site) string { return string(site) + "_count" }

// columnList joins the per-site columns produced by col.
func columnList(sites []models.Site, col func(models.Site) string) []string {
	out := make([]string, len(sites))
	for i, s := range sites {
		out[i] = col(s)
	}
	return out
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func assignments(cols []string, from string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		if from == "" {
			parts[i] = c + " = ?"
		} else {
			parts[i] = fmt.Sprintf("%s = %s.%s", c, from, c)
		}
	}
	return strings.Join(parts, ", ")
}
