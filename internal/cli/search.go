package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/FranksOps/scout/internal/config"
	"github.com/FranksOps/scout/internal/export"
	"github.com/FranksOps/scout/internal/metrics"
	"github.com/FranksOps/scout/internal/pipeline"
	"github.com/FranksOps/scout/internal/report"
	"github.com/FranksOps/scout/pkg/logging"
)

var searchCmd = &cobra.Command{
	Use:   "search [description]",
	Short: "Plan, run and export a profile search",
	Long: `Generates an X-Ray query plan from the description, executes every
combination in priority order and writes the unique profiles to the selected
export backend. The description is read from the arguments, --file, or stdin.`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	f := searchCmd.Flags()
	f.IntP("queries", "q", pipeline.DefaultNumQueries, "Number of search combinations to plan")
	f.Int("results-per-query", pipeline.DefaultResultsPerQuery, "Results to collect per combination")
	f.IntP("max-results", "n", pipeline.DefaultMaxResults, "Stop once this many unique profiles are collected")
	f.StringP("file", "f", "", "Read the description from a file")
	f.String("report", "text", "Session report format: text, json, none")

	f.String("provider", config.ProviderSerpAPI, "Search provider: serpapi, serper")
	f.String("format", "json", "Export format: json, csv, sqlite, postgres, sheets")
	f.StringP("output", "o", "", "Output path for file exports (default profiles.<ext>)")
	f.Int("metrics-port", 0, "Serve Prometheus metrics on this port during the run (0 disables)")
	f.Float64("rps", 0, "Maximum search page requests per second (0 disables pacing)")
	f.String("proxy-file", "", "File listing egress proxies for search requests, one per line")

	_ = viper.BindPFlag("provider", f.Lookup("provider"))
	_ = viper.BindPFlag("export.format", f.Lookup("format"))
	_ = viper.BindPFlag("export.output", f.Lookup("output"))
	_ = viper.BindPFlag("metrics_port", f.Lookup("metrics-port"))
	_ = viper.BindPFlag("requests_per_second", f.Lookup("rps"))
	_ = viper.BindPFlag("proxy_file", f.Lookup("proxy-file"))
}

func runSearch(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	numQueries, _ := cmd.Flags().GetInt("queries")
	perQuery, _ := cmd.Flags().GetInt("results-per-query")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	reportFormat, _ := cmd.Flags().GetString("report")

	switch reportFormat {
	case "text", "json", "none":
	default:
		return fmt.Errorf("unsupported report format %q", reportFormat)
	}

	desc, err := readDescription(args, file, cmd.InOrStdin())
	if err != nil {
		return err
	}

	cfg := config.FromViper(viper.GetViper())

	log := newLogger()
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return executeSearch(ctx, cfg, pipeline.Request{
		Description:     desc,
		NumQueries:      numQueries,
		ResultsPerQuery: perQuery,
		MaxResults:      maxResults,
	}, reportFormat, cmd.OutOrStdout(), log)
}

// executeSearch opens the export destination before any search or
// text-generation request is made, then runs the session and exports it.
func executeSearch(ctx context.Context, cfg config.Config, req pipeline.Request, reportFormat string, out io.Writer, log *logging.Logger) (err error) {
	if err := cfg.Validate(); err != nil {
		return err
	}

	backend, dest, err := openBackend(ctx, cfg.Export)
	if err != nil {
		return fmt.Errorf("open %s export: %w", cfg.Export.Format, err)
	}
	defer func() {
		if cerr := backend.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", dest, cerr)
		}
	}()

	if cfg.MetricsPort > 0 {
		errc := make(chan error, 1)
		srv := metrics.Start(cfg.MetricsPort, errc)
		log.Info("metrics server listening", "port", cfg.MetricsPort)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Stop(shutdownCtx)
		}()
		go func() {
			if err := <-errc; err != nil {
				log.Error("metrics server failed", "error", err)
			}
		}()
	}

	p, err := pipeline.New(cfg, log)
	if err != nil {
		return err
	}

	res, err := p.Run(ctx, req)
	if err != nil {
		log.Error("search failed", "error", err)
		return err
	}

	batch := export.Batch{
		SessionID:  res.Stats.SessionID,
		ExportedAt: time.Now().UTC(),
		Profiles:   res.Profiles,
	}
	if err := backend.Write(ctx, batch); err != nil {
		return fmt.Errorf("export to %s: %w", dest, err)
	}
	log.Info("profiles exported", "count", len(res.Profiles), "destination", dest)

	summary := report.GenerateSummary(res)
	switch reportFormat {
	case "json":
		return report.WriteJSON(out, summary)
	case "text":
		return report.WriteText(out, summary)
	}
	return nil
}
