package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"TrendScreener/internal/config"
)

const defaultConfigPath = "configs/config.yaml"

// Execute builds the command tree and runs it.
func Execute(ctx context.Context) error {
	var cfgPath string
	cfg := &config.Config{}

	root := &cobra.Command{
		Use:           "screener",
		Short:         "Rank stocks by how closely they follow a straight trend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			*cfg = *loaded
			level, err := zerolog.ParseLevel(cfg.Log.Level)
			if err != nil {
				return fmt.Errorf("log.level: %w", err)
			}
			zerolog.SetGlobalLevel(level)
			return nil
		},
	}

	defaultPath := defaultConfigPath
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", defaultPath, "path to the YAML config file")

	root.AddCommand(rankCmd(cfg), serveCmd(cfg))
	return root.ExecuteContext(ctx)
}
