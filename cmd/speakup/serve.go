package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/speakup-ai/speakup/pkg/cache/audio"
	"github.com/speakup-ai/speakup/pkg/cache/memory"
	"github.com/speakup-ai/speakup/pkg/completion"
	"github.com/speakup-ai/speakup/pkg/config"
	"github.com/speakup-ai/speakup/pkg/ratelimit"
	"github.com/speakup-ai/speakup/pkg/server"
	"github.com/speakup-ai/speakup/pkg/tracker"
	"github.com/speakup-ai/speakup/pkg/tts"
	"github.com/speakup-ai/speakup/pkg/tutor"
	"github.com/speakup-ai/speakup/pkg/word"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		offline    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the SpeakUp API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if offline {
				cfg.Offline = true
			}

			logger := log.NewWithOptions(os.Stderr, log.Options{
				ReportTimestamp: true,
				TimeFormat:      time.RFC3339,
			})

			var tr tracker.Tracker
			if cfg.Tracker.Enabled {
				st, err := tracker.New(cfg.DBPath)
				if err != nil {
					return fmt.Errorf("init tracker: %w", err)
				}
				defer func() { _ = st.Close() }()
				tr = st
			}

			audioCache, err := audio.New(cfg.AudioCache.Dir)
			if err != nil {
				return fmt.Errorf("init audio cache: %w", err)
			}

			client := completion.New(cfg.Completion, logger)
			engine := tutor.NewEngine(client, memory.New(cfg.Cache.TTL), logger)
			words := word.New(cfg.DailyWordPath, client, logger)
			synth := tts.NewClient(cfg.TTS.URL, cfg.TTS.Voice, cfg.TTS.RequestsPerMinute)
			limiter := ratelimit.New(cfg.RateLimit.Limit, cfg.RateLimit.Window)

			srv := server.New(cfg, engine, words, audioCache, synth, limiter, tr, logger)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "speakup.yaml", "path to config file")
	cmd.Flags().BoolVar(&offline, "offline", false, "serve canned replies without a model backend")
	return cmd
}
