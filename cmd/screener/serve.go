package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"TrendScreener/internal/config"
	"TrendScreener/internal/notifier"
	"TrendScreener/internal/scheduler"
	"TrendScreener/internal/server"
)

func serveCmd(cfg *config.Config) *cobra.Command {
	var runOnStart bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ranking over HTTP and refresh it on a schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.ValidateServe(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			loc, err := time.LoadLocation(cfg.Server.Timezone)
			if err != nil {
				return fmt.Errorf("server.timezone: %w", err)
			}
			ctx := cmd.Context()

			comp := buildComponents(cfg)
			defer comp.Close()

			srv, err := server.New(server.Options{
				Addr:      cfg.Server.Addr,
				AccessKey: cfg.Server.AccessKey,
				Location:  loc,
				Metrics:   comp.Metrics,
			})
			if err != nil {
				return err
			}

			var tn *notifier.TelegramNotifier
			var sender scheduler.Sender
			if cfg.TelegramEnabled() {
				tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
				sender = tn
			}
			var pruner scheduler.Pruner
			if comp.SQLite != nil {
				pruner = comp.SQLite
			}

			sched := scheduler.NewScheduler(ctx, comp.Screener, srv.Latest(), sender, pruner, cfg.Cache.Retention, loc)
			if err := sched.RegisterAll(cfg.Schedule.Cron, cfg.Schedule.PruneCron); err != nil {
				return fmt.Errorf("register cron tasks: %w", err)
			}
			sched.Start()
			defer sched.Stop()

			var tasks []func(context.Context)
			if tn != nil {
				tasks = append(tasks, func(ctx context.Context) { tn.StartPolling(ctx, sched.HandleCommand) })
				log.Info().Msg("telegram polling started")
			}
			if runOnStart || os.Getenv("RUN_ON_START") == "true" {
				tasks = append(tasks, func(ctx context.Context) {
					if _, err := sched.RunNow(ctx); err != nil {
						log.Error().Err(err).Msg("initial ranking")
					}
				})
			}

			return runUntilDone(ctx, srv, 10*time.Second, tasks...)
		},
	}
	cmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "run one ranking immediately instead of waiting for the schedule")
	return cmd
}
