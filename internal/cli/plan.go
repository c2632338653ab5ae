package cli

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/FranksOps/scout/internal/config"
	"github.com/FranksOps/scout/internal/pipeline"
	"github.com/FranksOps/scout/internal/report"
)

var planCmd = &cobra.Command{
	Use:   "plan [description]",
	Short: "Generate and print the query plan without searching",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		numQueries, _ := cmd.Flags().GetInt("queries")

		desc, err := readDescription(args, file, cmd.InOrStdin())
		if err != nil {
			return err
		}

		cfg := config.FromViper(viper.GetViper())
		log := newLogger()
		defer func() { _ = log.Sync() }()

		p, err := pipeline.New(cfg, log)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		qp, err := p.Plan(ctx, desc, numQueries)
		if err != nil {
			return err
		}
		return report.WritePlan(cmd.OutOrStdout(), qp)
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().IntP("queries", "q", pipeline.DefaultNumQueries, "Number of search combinations to plan")
	planCmd.Flags().StringP("file", "f", "", "Read the description from a file")
}
