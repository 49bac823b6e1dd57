package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/speakup-ai/speakup/pkg/cache/audio"
	"github.com/speakup-ai/speakup/pkg/config"
)

func newCacheCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the on-disk audio cache",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show audio cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			c, err := audio.New(cfg.AudioCache.Dir)
			if err != nil {
				return err
			}

			stats, err := c.Stats()
			if err != nil {
				return err
			}
			fmt.Printf("Files: %d\nBytes: %d\n", stats.Files, stats.Bytes)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached audio files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			c, err := audio.New(cfg.AudioCache.Dir)
			if err != nil {
				return err
			}

			if err := c.Clear(); err != nil {
				return err
			}
			fmt.Println("Audio cache cleared.")
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "speakup.yaml", "path to config file")
	cmd.AddCommand(statsCmd, clearCmd)
	return cmd
}
