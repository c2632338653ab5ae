package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/FranksOps/scout/internal/config"
	"github.com/FranksOps/scout/internal/export"
	"github.com/FranksOps/scout/internal/pipeline"
	"github.com/FranksOps/scout/pkg/logging"
)

// fakeAPIs serves a one-combination plan and a single page of two profiles,
// counting every request it receives.
func fakeAPIs(t *testing.T) (cfg config.Config, calls *atomic.Int32) {
	t.Helper()
	calls = new(atomic.Int32)

	llm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		content := `{"combinations":[{"job_title":"Banker","company":"BNP","location":"Paris","priority":1,"xray_query":"site:linkedin.com/in banker"}],"negative_signals":[]}`
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": content}}},
		})
	}))
	t.Cleanup(llm.Close)

	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("start") != "0" {
			w.Write([]byte(`{"organic_results":[]}`))
			return
		}
		var results []map[string]string
		for i := 0; i < 2; i++ {
			results = append(results, map[string]string{
				"link":  fmt.Sprintf("https://www.linkedin.com/in/person-%d/", i),
				"title": fmt.Sprintf("Person %d - Banker | LinkedIn", i),
			})
		}
		json.NewEncoder(w).Encode(map[string]any{"organic_results": results})
	}))
	t.Cleanup(search.Close)

	cfg = config.Default()
	cfg.SearchAPIKey = "serp"
	cfg.TextGenAPIKey = "llm"
	cfg.SearchEndpoint = search.URL
	cfg.TextGenEndpoint = llm.URL
	return cfg, calls
}

func TestExecuteSearch_UnopenableOutputFailsFirst(t *testing.T) {
	cfg, calls := fakeAPIs(t)
	cfg.Export.Format = "json"
	cfg.Export.Output = filepath.Join(t.TempDir(), "missing", "profiles.json")

	var out bytes.Buffer
	err := executeSearch(context.Background(), cfg, pipeline.Request{Description: "bankers"}, "text", &out, logging.Nop())
	if err == nil {
		t.Fatal("Expected error for unopenable output path")
	}
	if got := calls.Load(); got != 0 {
		t.Errorf("Expected no API requests before the export is opened, got %d", got)
	}
	if out.Len() != 0 {
		t.Errorf("Expected no report, got %q", out.String())
	}
}

func TestExecuteSearch_WritesExportAndReport(t *testing.T) {
	cfg, calls := fakeAPIs(t)
	cfg.Export.Format = "json"
	cfg.Export.Output = filepath.Join(t.TempDir(), "profiles.json")

	var out bytes.Buffer
	err := executeSearch(context.Background(), cfg, pipeline.Request{
		Description:     "bankers",
		NumQueries:      1,
		ResultsPerQuery: 20,
	}, "json", &out, logging.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() == 0 {
		t.Error("Expected API requests")
	}

	data, err := os.ReadFile(cfg.Export.Output)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	var records []export.Record
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("export is not a JSON array: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].URL != "https://www.linkedin.com/in/person-0" || records[0].Rank != 1 {
		t.Errorf("unexpected first record: %+v", records[0])
	}

	if !strings.Contains(out.String(), `"SessionID"`) {
		t.Errorf("Expected JSON report on output, got %q", out.String())
	}
}

func TestExecuteSearch_InvalidConfig(t *testing.T) {
	cfg, calls := fakeAPIs(t)
	cfg.TextGenAPIKey = ""

	err := executeSearch(context.Background(), cfg, pipeline.Request{Description: "bankers"}, "none", &bytes.Buffer{}, logging.Nop())
	if err == nil {
		t.Fatal("Expected configuration error")
	}
	if calls.Load() != 0 {
		t.Errorf("Expected no API requests, got %d", calls.Load())
	}
}

type closeFailBackend struct {
	written int
}

func (b *closeFailBackend) Write(_ context.Context, batch export.Batch) error {
	b.written = len(batch.Profiles)
	return nil
}

func (b *closeFailBackend) Close() error {
	return errors.New("disk full")
}

func TestExecuteSearch_ReturnsCloseError(t *testing.T) {
	cfg, _ := fakeAPIs(t)

	backend := &closeFailBackend{}
	orig := openBackend
	openBackend = func(context.Context, config.Export) (export.Backend, string, error) {
		return backend, "test", nil
	}
	t.Cleanup(func() { openBackend = orig })

	err := executeSearch(context.Background(), cfg, pipeline.Request{
		Description:     "bankers",
		NumQueries:      1,
		ResultsPerQuery: 10,
	}, "none", &bytes.Buffer{}, logging.Nop())
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("Expected close error, got %v", err)
	}
	if backend.written != 2 {
		t.Errorf("Expected 2 profiles written before close, got %d", backend.written)
	}
}
