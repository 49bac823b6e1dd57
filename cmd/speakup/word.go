package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/speakup-ai/speakup/pkg/completion"
	"github.com/speakup-ai/speakup/pkg/config"
	"github.com/speakup-ai/speakup/pkg/word"
)

func newWordCmd() *cobra.Command {
	var (
		configPath string
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "word",
		Short: "Print the word of the day",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			if refresh {
				if err := os.Remove(cfg.DailyWordPath); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("discard cached word: %w", err)
				}
			}

			client := completion.New(cfg.Completion, nil)
			w := word.New(cfg.DailyWordPath, client, nil).Today(context.Background())

			fmt.Printf("%s (%s)\n  %s\n  e.g. %s\n", w.Word, w.Date, w.Meaning, w.Example)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "speakup.yaml", "path to config file")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "discard the cached word and regenerate")
	return cmd
}
