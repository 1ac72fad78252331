package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"worlds/internal/store"
)

var _ store.Store = (*Client)(nil)

// dbtx is satisfied by *pgxpool.Pool and pgx.Tx, so the query helpers serve
// both the store and its transactions.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type queries struct {
	db dbtx
}

type Client struct {
	queries
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Client, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &Client{queries: queries{db: pool}, pool: pool}, nil
}

func (c *Client) Close(ctx context.Context) error {
	c.pool.Close()
	return nil
}

// WithTx runs fn inside one transaction; any error from fn rolls back every
// write the call made.
func (c *Client) WithTx(ctx context.Context, fn func(store.Tx) error) error {
	return pgx.BeginFunc(ctx, c.pool, func(tx pgx.Tx) error {
		return fn(&Tx{queries: queries{db: tx}})
	})
}

// Tx wraps a pgx.Tx with the write surface of the store contract.
type Tx struct {
	queries
}

var _ store.Tx = (*Tx)(nil)
