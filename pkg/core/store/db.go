package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool limits. Session traffic is a handful of small JSONB rows per user.
const (
	maxConns        = 8
	maxConnIdleTime = 5 * time.Minute
	connectTimeout  = 10 * time.Second
)

var (
	pool   *pgxpool.Pool
	poolMu sync.Mutex
)

// InitDB opens the shared connection pool and verifies it with a ping.
// Calling it again after a successful open is a no-op.
func InitDB(ctx context.Context, dbURL string) error {
	poolMu.Lock()
	defer poolMu.Unlock()
	if pool != nil {
		return nil
	}
	if dbURL == "" {
		return errors.New("database URL is empty")
	}

	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}
	config.MaxConns = maxConns
	config.MaxConnIdleTime = maxConnIdleTime

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	p, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return fmt.Errorf("failed to reach database: %w", err)
	}
	pool = p
	return nil
}

// GetPool returns the database connection pool, or nil before InitDB.
func GetPool() *pgxpool.Pool {
	poolMu.Lock()
	defer poolMu.Unlock()
	return pool
}

// Close closes the database connection pool
func Close() {
	poolMu.Lock()
	defer poolMu.Unlock()
	if pool != nil {
		pool.Close()
		pool = nil
	}
}
