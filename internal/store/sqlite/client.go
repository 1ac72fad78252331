package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"worlds/internal/store"

	_ "modernc.org/sqlite"
)

var _ store.Store = (*Client)(nil)

// dbtx is satisfied by *sql.DB and *sql.Tx, so the query helpers serve both
// the store and its transactions.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type queries struct {
	db dbtx
}

type Client struct {
	queries
	sqldb *sql.DB
}

func New(ctx context.Context, dsn string) (*Client, error) {
	driverDSN, err := parseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing sqlite DSN: %w", err)
	}

	db, err := sql.Open("sqlite", driverDSN)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Single connection keeps the per-connection pragmas in force and
	// serializes writers, which sqlite requires anyway.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 30000;",
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}

	return &Client{queries: queries{db: db}, sqldb: db}, nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.sqldb.Close()
}

// WithTx runs fn inside one transaction; any error from fn rolls back every
// write the call made.
func (c *Client) WithTx(ctx context.Context, fn func(store.Tx) error) error {
	tx, err := c.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(&Tx{queries: queries{db: tx}}); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Tx wraps a sql.Tx with the write surface of the store contract.
type Tx struct {
	queries
}

var _ store.Tx = (*Tx)(nil)
