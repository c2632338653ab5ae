package cli

import (
	"context"
	"fmt"

	"github.com/FranksOps/scout/internal/config"
	"github.com/FranksOps/scout/internal/export"
	"github.com/FranksOps/scout/internal/export/csvbackend"
	"github.com/FranksOps/scout/internal/export/jsonbackend"
	"github.com/FranksOps/scout/internal/export/postgres"
	"github.com/FranksOps/scout/internal/export/sheets"
	"github.com/FranksOps/scout/internal/export/sqlite"
)

// openBackend opens the export destination selected by cfg.
var openBackend = openExportBackend

func openExportBackend(ctx context.Context, cfg config.Export) (export.Backend, string, error) {
	switch cfg.Format {
	case "json", "":
		path := cfg.OutputPath()
		b, err := jsonbackend.New(path)
		return b, path, err
	case "csv":
		path := cfg.OutputPath()
		b, err := csvbackend.New(path)
		return b, path, err
	case "sqlite":
		path := cfg.OutputPath()
		b, err := sqlite.New(path)
		return b, path, err
	case "postgres":
		b, err := postgres.New(ctx, cfg.DSN)
		return b, "postgres", err
	case "sheets":
		b, err := sheets.New(ctx, sheets.Config{
			SpreadsheetID:   cfg.SpreadsheetID,
			Tab:             cfg.SheetTab,
			CredentialsPath: cfg.CredentialsPath,
		})
		return b, "spreadsheet " + cfg.SpreadsheetID, err
	default:
		return nil, "", fmt.Errorf("unsupported export format %q", cfg.Format)
	}
}
