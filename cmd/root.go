// Package cmd implements the creditcast CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theirongolddev/creditcast/internal/config"
	"github.com/theirongolddev/creditcast/internal/logger"
)

var (
	flagConfig  string
	flagVerbose bool

	appCfg config.Config
	log    = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "creditcast",
	Short: "Warehouse credit usage forecasts",
	Long: "Forecast warehouse credit usage through the end of the sixth month ahead\n" +
		"and price it, in the terminal or in a browser.",
	SilenceUsage: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		l, err := logger.New(flagVerbose)
		if err != nil {
			return err
		}
		log = l

		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		appCfg = cfg
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		_ = log.Sync()
	},
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default "+config.Path()+")")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
}
