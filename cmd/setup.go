package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/creditcast/internal/cli"
	"github.com/theirongolddev/creditcast/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg := appCfg
	price := strconv.FormatFloat(cfg.Forecast.Price, 'f', 2, 64)

	fmt.Println()
	fmt.Println("  Welcome to creditcast!")
	fmt.Println("  The password is never saved; set SNOWFLAKE_PASSWORD or enter it per run.")
	fmt.Println()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Warehouse").
				Options(
					huh.NewOption("Snowflake", config.DriverSnowflake),
					huh.NewOption("Postgres-compatible", config.DriverPostgres),
					huh.NewOption("Local SQLite file", config.DriverSQLite),
				).
				Value(&cfg.Warehouse.Driver),
		),
		huh.NewGroup(
			huh.NewInput().Title("Account").Description("e.g. xy12345.us-east-1").Value(&cfg.Warehouse.Account),
			huh.NewInput().Title("Username").Value(&cfg.Warehouse.Username),
			huh.NewInput().Title("Role").Value(&cfg.Warehouse.Role),
			huh.NewInput().Title("Virtual warehouse").Description("optional").Value(&cfg.Warehouse.Warehouse),
		).WithHideFunc(func() bool { return cfg.Warehouse.Driver != config.DriverSnowflake }),
		huh.NewGroup(
			huh.NewInput().Title("Connection string").Description("postgres://user@host:5432/db").Value(&cfg.Warehouse.DSN),
		).WithHideFunc(func() bool { return cfg.Warehouse.Driver != config.DriverPostgres }),
		huh.NewGroup(
			huh.NewInput().Title("SQLite file").Value(&cfg.Warehouse.Path),
		).WithHideFunc(func() bool { return cfg.Warehouse.Driver != config.DriverSQLite }),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Forecast engine").
				Options(
					huh.NewOption("Trend + seasonality (forecaster)", "forecaster"),
					huh.NewOption("Linear trend + weekday (linear)", "linear"),
				).
				Value(&cfg.Forecast.Engine),
			huh.NewInput().Title("Price per credit ($)").Value(&price).Validate(cli.ValidatePrice),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup canceled, nothing saved.")
			return nil
		}
		return err
	}

	p, _ := strconv.ParseFloat(price, 64)
	cfg.Forecast.Price = p
	cfg.Warehouse.Password = ""

	if err := config.Save(flagConfig, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	path := flagConfig
	if path == "" {
		path = config.Path()
	}
	fmt.Println()
	fmt.Printf("  Saved to %s\n", path)
	fmt.Println("  Run `creditcast setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
