package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/theirongolddev/creditcast/internal/cli"
	"github.com/theirongolddev/creditcast/internal/pipeline"
)

var (
	flagPrice       float64
	flagEngine      string
	flagWarehouse   string
	flagDSN         string
	flagDB          string
	flagInteractive bool
	flagJSON        bool
	flagWidth       int
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast credit usage and cost in the terminal",
	RunE:  runForecast,
}

func init() {
	forecastCmd.Flags().Float64Var(&flagPrice, "price", 0, "Price per credit in USD (default from config, 2.00)")
	forecastCmd.Flags().StringVar(&flagEngine, "engine", "", "Forecast engine: forecaster or linear")
	forecastCmd.Flags().StringVar(&flagWarehouse, "warehouse", "", "Warehouse driver: snowflake, postgres or sqlite")
	forecastCmd.Flags().StringVar(&flagDSN, "dsn", "", "Postgres connection string")
	forecastCmd.Flags().StringVar(&flagDB, "db", "", "SQLite warehouse file")
	forecastCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Prompt for credentials")
	forecastCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the report as JSON")
	forecastCmd.Flags().IntVar(&flagWidth, "width", 80, "Chart width in columns")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, _ []string) error {
	cfg := appCfg
	if cmd.Flags().Changed("price") {
		cfg.Forecast.Price = flagPrice
	}
	if flagEngine != "" {
		cfg.Forecast.Engine = flagEngine
	}
	if flagWarehouse != "" {
		cfg.Warehouse.Driver = flagWarehouse
	}
	if flagDSN != "" {
		cfg.Warehouse.DSN = flagDSN
	}
	if flagDB != "" {
		cfg.Warehouse.Path = flagDB
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	creds := credentialsFrom(cfg.Warehouse)
	price := cfg.Forecast.Price
	if flagInteractive {
		var err error
		creds, price, err = cli.PromptCredentials(creds, price)
		if err != nil {
			return err
		}
	}

	runner, err := newRunner(cfg, nil)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	req := pipeline.Request{Credentials: creds, Price: price}
	run := func(ctx context.Context) (*pipeline.Report, error) {
		return runner.Run(ctx, req)
	}

	var rep *pipeline.Report
	if !flagJSON && term.IsTerminal(int(os.Stderr.Fd())) {
		rep, err = cli.WithSpinner(ctx, os.Stderr, "Querying usage and fitting the forecast...", run)
	} else {
		rep, err = run(ctx)
	}
	if errors.Is(err, cli.ErrInterrupted) {
		fmt.Fprintln(os.Stderr, cli.RenderError(failureMessage(err)))
		return nil
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.RenderError(failureMessage(err)))
		return fmt.Errorf("forecast failed: %s", pipeline.Kind(err))
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	fmt.Println(cli.RenderReport(rep, flagWidth))
	return nil
}

func failureMessage(err error) string {
	if errors.Is(err, cli.ErrInterrupted) {
		return "Forecast canceled."
	}
	return pipeline.UserMessage(err)
}
