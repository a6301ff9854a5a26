// Package cmd wires the pain001 CLI.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fincheck-labs/pain001/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "pain001",
	Short: "Validate ISO 20022 pain.001 payment initiation files",
	Long: `pain001 validates payment initiation files against their message
schema and a battery of structural, financial, and business-calendar rules,
producing line-addressed error reports.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "pain001.yaml", "path to config file")
}

// loadConfig reads the configured file and installs the logger.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return cfg, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
	return cfg, nil
}
