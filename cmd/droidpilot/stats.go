package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/droidpilot-ai/droidpilot/pkg/tracker"
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	var (
		configPath string
		providerF  string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show usage statistics per provider and model",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			tr, err := tracker.New(cfg.DBPath, cfg.Pricing)
			if err != nil {
				return err
			}
			defer func() { _ = tr.Close() }()

			summaries, err := tr.Summary(context.Background(), providerF)
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Println("No usage recorded.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tMODEL\tREQUESTS\tCACHE HITS\tERRORS\tTOKENS\tAVG LATENCY\tEST COST")
			for _, s := range summaries {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%.0fms\t$%.4f\n",
					s.Provider, s.Model, s.RequestCount, s.CacheHits, s.Errors,
					s.TotalTokens, s.AvgLatencyMs, s.EstimatedCostUSD)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file path")
	cmd.Flags().StringVarP(&providerF, "provider", "p", "", "filter by provider")
	return cmd
}
