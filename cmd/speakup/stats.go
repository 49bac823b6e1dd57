package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/speakup-ai/speakup/pkg/config"
	"github.com/speakup-ai/speakup/pkg/tracker"
)

func newStatsCmd() *cobra.Command {
	var (
		configPath string
		since      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show per-mode usage statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			tr, err := tracker.New(cfg.DBPath)
			if err != nil {
				return err
			}
			defer tr.Close()

			summaries, err := tr.Summary(context.Background(), time.Now().Add(-since))
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Println("No usage data found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MODE\tREQUESTS\tAVG SCORE\tCACHE HITS")
			for _, s := range summaries {
				fmt.Fprintf(w, "%s\t%d\t%.1f\t%d\n", s.Mode, s.Requests, s.AvgScore, s.CacheHits)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "speakup.yaml", "path to config file")
	cmd.Flags().DurationVar(&since, "since", 24*time.Hour, "look-back window")
	return cmd
}
