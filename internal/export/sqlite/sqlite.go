package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/FranksOps/scout/internal/export"
)

// ensure sqliteBackend implements export.Backend
var _ export.Backend = (*sqliteBackend)(nil)

type sqliteBackend struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	session_id TEXT NOT NULL,
	rank INTEGER NOT NULL,
	url TEXT NOT NULL,
	name TEXT,
	headline TEXT,
	source_query TEXT NOT NULL,
	exported_at DATETIME NOT NULL,
	PRIMARY KEY (session_id, url)
);
`

// New creates a SQLite-backed export.Backend.
func New(dsn string) (export.Backend, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: %w", err)
	}

	return &sqliteBackend{db: db}, nil
}

// Write inserts every profile of the batch in one transaction. Rewriting the
// same session is a no-op for rows already present.
func (b *sqliteBackend) Write(ctx context.Context, batch export.Batch) error {
	exportedAt := batch.ExportedAt
	if exportedAt.IsZero() {
		exportedAt = time.Now()
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT OR IGNORE INTO profiles (
		session_id, rank, url, name, headline, source_query, exported_at
	) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}
	defer stmt.Close()

	for _, rec := range export.Records(batch.Profiles) {
		_, err := stmt.ExecContext(ctx,
			batch.SessionID,
			rec.Rank,
			rec.URL,
			rec.Name,
			rec.Headline,
			rec.SourceQuery,
			exportedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("sqlite: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}
	return nil
}

func (b *sqliteBackend) Close() error {
	return b.db.Close()
}
