package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"TrendScreener/internal/config"
	"TrendScreener/internal/notifier"
	"TrendScreener/internal/server"
)

func rankCmd(cfg *config.Config) *cobra.Command {
	var (
		desde, hasta     int
		interval, period string
		output           string
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Run one ranking and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("desde") {
				cfg.Screener.Desde = desde
			}
			if flags.Changed("hasta") {
				cfg.Screener.Hasta = hasta
			}
			if flags.Changed("interval") {
				cfg.Screener.Interval = interval
			}
			if flags.Changed("period") {
				cfg.Screener.Period = period
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			loc, err := time.LoadLocation(cfg.Server.Timezone)
			if err != nil {
				return fmt.Errorf("server.timezone: %w", err)
			}

			comp := buildComponents(cfg)
			defer comp.Close()

			report, err := comp.Screener.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch output {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(server.NewRankingResponse(report, loc))
			case "markdown":
				_, err = fmt.Fprint(out, notifier.FormatMarkdown(report, loc))
				return err
			case "pretty":
				r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(160))
				if err != nil {
					return fmt.Errorf("create renderer: %w", err)
				}
				rendered, err := r.Render(notifier.FormatMarkdown(report, loc))
				if err != nil {
					return fmt.Errorf("render ranking: %w", err)
				}
				_, err = fmt.Fprint(out, rendered)
				return err
			default:
				return fmt.Errorf("unknown output %q (want pretty, markdown or json)", output)
			}
		},
	}
	cmd.Flags().IntVar(&desde, "desde", 0, "window start offset from the last bar (<= 0)")
	cmd.Flags().IntVar(&hasta, "hasta", 0, "window end offset from the last bar (<= 0)")
	cmd.Flags().StringVar(&interval, "interval", "", "bar interval, e.g. 1d or 1h")
	cmd.Flags().StringVar(&period, "period", "", "history period, e.g. 1mo")
	cmd.Flags().StringVarP(&output, "output", "o", "pretty", "output format: pretty, markdown or json")
	return cmd
}
