package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ConnParams are the five pieces of connection state the core reads out
// of configuration: db, user, password, host, port.
type ConnParams struct {
	DB       string
	User     string
	Password string
	Host     string
	Port     string
}

func (p ConnParams) databaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", p.User, p.Password, p.Host, p.Port, p.DB)
}

// Connect validates that all five connection parameters are non-empty,
// then opens a pooled connection to Postgres. Failure to open the pool
// is the one fatal store error; everything past this point is a
// per-query or per-mutation error.
func Connect(ctx context.Context, params ConnParams, maxConns, minConns int32) (*pgxpool.Pool, error) {
	if params.DB == "" {
		return nil, errors.New("db_name is invalid")
	}
	if params.User == "" {
		return nil, errors.New("db_user is invalid")
	}
	if params.Password == "" {
		return nil, errors.New("db_password is invalid")
	}
	if params.Host == "" {
		return nil, errors.New("db_host is invalid")
	}
	if params.Port == "" {
		return nil, errors.New("db_port is invalid")
	}

	cfg, err := pgxpool.ParseConfig(params.databaseURL())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	cfg.MaxConns = maxConns
	cfg.MinConns = minConns
	cfg.MaxConnLifetime = 1 * time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second
	cfg.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return pool, nil
}
