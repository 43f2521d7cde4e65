package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect builds the connection pool callers pass down explicitly; there is
// no package-level handle.
func Connect(ctx context.Context, dbUrl string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dbUrl)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %v", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %v", err)
	}

	return pool, nil
}

// requiredSchemaVersion is the newest migration under migrations/.
const requiredSchemaVersion = 4

// VerifySchema refuses a database whose migrations have not been run, so a
// missing column fails at startup instead of on the first query.
// golang-migrate records its position in schema_migrations.
func VerifySchema(ctx context.Context, pool *pgxpool.Pool) error {
	var version uint64
	var dirty bool
	err := pool.QueryRow(ctx, "SELECT version, dirty FROM schema_migrations").Scan(&version, &dirty)
	if err != nil {
		return fmt.Errorf("schema is not migrated (run cmd/migrate up): %v", err)
	}
	if dirty {
		return fmt.Errorf("schema migration %d is dirty, resolve it before starting", version)
	}
	if version < requiredSchemaVersion {
		return fmt.Errorf("schema is at migration %d, need %d (run cmd/migrate up)", version, requiredSchemaVersion)
	}
	return nil
}
