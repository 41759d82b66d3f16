package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB owns a pgx connection pool.
type DB struct {
	Pool     *pgxpool.Pool
	DBConfig *pgxpool.Config
}

// Config supplies the connection string.
type Config interface {
	GetDSN() string
}

// New parses the DSN, opens the pool and pings the database.
func New(ctx context.Context, config Config) (*DB, error) {
	dbConfig, err := pgxpool.ParseConfig(config.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if dbConfig.MaxConnIdleTime == 0 {
		dbConfig.MaxConnIdleTime = 5 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &DB{
		Pool:     pool,
		DBConfig: dbConfig,
	}, nil
}

// Close releases every pooled connection.
func (db *DB) Close() {
	if db != nil && db.Pool != nil {
		db.Pool.Close()
	}
}
