package csvbackend

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/FranksOps/scout/internal/export"
)

// ensure csvBackend implements export.Backend
var _ export.Backend = (*csvBackend)(nil)

type csvBackend struct {
	mu   sync.Mutex
	file *os.File
}

// New creates a CSV-backed export.Backend. Each Write replaces the file with
// a header row followed by one row per profile.
func New(filePath string) (export.Backend, error) {
	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("csvbackend: %w", err)
	}

	return &csvBackend{
		file: f,
	}, nil
}

func (b *csvBackend) Write(ctx context.Context, batch export.Batch) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.file.Truncate(0); err != nil {
		return fmt.Errorf("csvbackend: %w", err)
	}
	if _, err := b.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("csvbackend: %w", err)
	}

	w := csv.NewWriter(b.file)
	if err := w.Write(export.Columns); err != nil {
		return fmt.Errorf("csvbackend: %w", err)
	}
	for _, rec := range export.Records(batch.Profiles) {
		if err := w.Write(rec.Row()); err != nil {
			return fmt.Errorf("csvbackend: %w", err)
		}
	}
	w.Flush()

	if err := w.Error(); err != nil {
		return fmt.Errorf("csvbackend: %w", err)
	}

	return nil
}

func (b *csvBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.file.Close()
}
