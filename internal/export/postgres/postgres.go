package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FranksOps/scout/internal/export"
)

// ensure postgresBackend implements export.Backend
var _ export.Backend = (*postgresBackend)(nil)

type postgresBackend struct {
	pool *pgxpool.Pool
}

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	session_id TEXT NOT NULL,
	rank INTEGER NOT NULL,
	url TEXT NOT NULL,
	name TEXT,
	headline TEXT,
	source_query TEXT NOT NULL,
	exported_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (session_id, url)
);
`

const insertProfile = `
INSERT INTO profiles (
	session_id, rank, url, name, headline, source_query, exported_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (session_id, url) DO NOTHING
`

// New creates a Postgres-backed export.Backend.
func New(ctx context.Context, dsn string) (export.Backend, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	return &postgresBackend{pool: pool}, nil
}

// Write sends the batch as a single pgx batch inside a transaction.
func (b *postgresBackend) Write(ctx context.Context, batch export.Batch) error {
	exportedAt := batch.ExportedAt
	if exportedAt.IsZero() {
		exportedAt = time.Now()
	}

	records := export.Records(batch.Profiles)
	if len(records) == 0 {
		return nil
	}

	qb := &pgx.Batch{}
	for _, rec := range records {
		qb.Queue(insertProfile,
			batch.SessionID,
			rec.Rank,
			rec.URL,
			rec.Name,
			rec.Headline,
			rec.SourceQuery,
			exportedAt,
		)
	}

	err := pgx.BeginFunc(ctx, b.pool, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, qb).Close()
	})
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	return nil
}

func (b *postgresBackend) Close() error {
	b.pool.Close()
	return nil
}
