package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/FranksOps/scout/internal/export"
	"github.com/FranksOps/scout/internal/profile"
)

func TestSQLiteBackend(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "profiles.db")
	b, err := New(dsn)
	if err != nil {
		t.Fatalf("Failed to create SQLite backend: %v", err)
	}
	defer b.Close()

	ctx := context.Background()
	batch := export.Batch{
		SessionID:  "session-1",
		ExportedAt: time.Now().UTC(),
		Profiles: []profile.Profile{
			{Rank: 1, URL: "https://linkedin.com/in/a", Name: "A", Headline: "Banker", SourceQuery: "q1"},
			{Rank: 2, URL: "https://linkedin.com/in/b", SourceQuery: "q2"},
		},
	}

	if err := b.Write(ctx, batch); err != nil {
		t.Fatalf("Failed to write batch: %v", err)
	}
	// A second write of the same session must not duplicate rows.
	if err := b.Write(ctx, batch); err != nil {
		t.Fatalf("Failed to rewrite batch: %v", err)
	}

	db := b.(*sqliteBackend).db

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles WHERE session_id = ?`, "session-1").Scan(&count); err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 rows, got %d", count)
	}

	var name, headline sql.NullString
	var rank int
	err = db.QueryRowContext(ctx,
		`SELECT rank, name, headline FROM profiles WHERE url = ?`, "https://linkedin.com/in/b").
		Scan(&rank, &name, &headline)
	if err != nil {
		t.Fatalf("Failed to query row: %v", err)
	}
	if rank != 2 || name.Valid || headline.Valid {
		t.Errorf("Expected rank 2 with NULL name/headline, got %d %v %v", rank, name, headline)
	}

	other := export.Batch{SessionID: "session-2", Profiles: batch.Profiles[:1]}
	if err := b.Write(ctx, other); err != nil {
		t.Fatalf("Failed to write second session: %v", err)
	}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count); err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 rows across sessions, got %d", count)
	}
}
