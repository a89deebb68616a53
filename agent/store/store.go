// Package store persists customers, tickets and interactions with bun.
//
// Postgres DSNs (postgres://, postgresql://) use pgdriver; anything else is
// handed to the sqlite3 driver, which is what tests and the local demo use.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/supportdesk/agent/contract"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

var ErrNoRecord = errors.New("store: no record")

const pingTimeout = 10 * time.Second

// Store is the persistence contract used by the tool layer.
type Store interface {
	GetCustomer(ctx context.Context, id int64) (*contractx.Customer, error)
	ListCustomers(ctx context.Context, status string, limit int) ([]contractx.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, fields map[string]string) (*contractx.Customer, error)
	CreateTicket(ctx context.Context, customerID int64, issue, priority string) (*contractx.Ticket, error)
	ListTickets(ctx context.Context, customerID int64) ([]contractx.Ticket, error)
}

type Config struct {
	DSN      string `split_words:"true" default:"file:supportdesk.db?_foreign_keys=on&_busy_timeout=10000"`
	Seed     bool   `split_words:"true" default:"true"`
	MaxConns int    `split_words:"true" default:"10"`
}

type BunStore struct {
	db  *bun.DB
	now func() time.Time
}

func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db, now: time.Now}
}

// Open connects to the database named by cfg.DSN. It does not create tables;
// call Migrate (and Seed) afterwards.
func Open(ctx context.Context, cfg Config) (*BunStore, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("store dsn is required")
	}

	var db *bun.DB
	if isPostgres(dsn) {
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
		if cfg.MaxConns > 0 {
			sqldb.SetMaxOpenConns(cfg.MaxConns)
		}
		db = bun.NewDB(sqldb, pgdialect.New())
	} else {
		sqldb, err := sql.Open("sqlite3", strings.TrimPrefix(dsn, "sqlite://"))
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// sqlite allows a single writer.
		sqldb.SetMaxOpenConns(1)
		sqldb.SetMaxIdleConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	log.Debug().Str("dialect", db.Dialect().Name().String()).Msg("store connected")
	return NewBunStore(db), nil
}

func (s *BunStore) DB() *bun.DB {
	return s.db
}

func (s *BunStore) Close() error {
	return s.db.Close()
}

func (s *BunStore) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
