package sheets

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/FranksOps/scout/internal/export"
)

// ensure sheetsBackend implements export.Backend
var _ export.Backend = (*sheetsBackend)(nil)

// Config selects the destination spreadsheet.
type Config struct {
	SpreadsheetID   string
	Tab             string // default Sheet1
	CredentialsPath string
	CredentialsJSON []byte
	// ClientOptions are appended after the credential option.
	ClientOptions []option.ClientOption
}

type sheetsBackend struct {
	service       *sheets.Service
	spreadsheetID string
	tab           string
}

// header is prepended to every batch so sessions stay readable when appended
// one after another on the same tab.
var header = []string{"session_id", "exported_at", "rank", "url", "name", "headline", "source_query"}

// New creates a backend appending rows to a Google Sheets tab.
func New(ctx context.Context, cfg Config) (export.Backend, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets: spreadsheet id is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	} else if len(cfg.CredentialsJSON) > 0 {
		opts = append(opts, option.WithCredentialsJSON(cfg.CredentialsJSON))
	} else if len(cfg.ClientOptions) == 0 {
		return nil, fmt.Errorf("sheets: credentials path or JSON is required")
	}
	opts = append(opts, cfg.ClientOptions...)

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: failed to create service: %w", err)
	}

	tab := cfg.Tab
	if tab == "" {
		tab = "Sheet1"
	}

	return &sheetsBackend{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		tab:           tab,
	}, nil
}

func (b *sheetsBackend) Write(ctx context.Context, batch export.Batch) error {
	records := export.Records(batch.Profiles)
	if len(records) == 0 {
		return nil
	}

	exportedAt := batch.ExportedAt
	if exportedAt.IsZero() {
		exportedAt = time.Now()
	}
	stamp := exportedAt.UTC().Format(time.RFC3339)

	values := make([][]interface{}, 0, len(records)+1)
	values = append(values, toRow(header))
	for _, rec := range records {
		row := append([]string{batch.SessionID, stamp}, rec.Row()...)
		values = append(values, toRow(row))
	}

	_, err := b.service.Spreadsheets.Values.Append(b.spreadsheetID, fmt.Sprintf("%s!A1", b.tab), &sheets.ValueRange{
		Values: values,
	}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: failed to append rows: %w", err)
	}
	return nil
}

func (b *sheetsBackend) Close() error {
	return nil
}

func toRow(cells []string) []interface{} {
	row := make([]interface{}, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
