package cmd

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/creditcast/internal/cli"
	"github.com/theirongolddev/creditcast/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appCfg
	path := flagConfig
	if path == "" {
		path = config.Path()
	}

	fmt.Printf("  Config file: %s\n", path)
	if config.Exists(flagConfig) {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [warehouse]")
	fmt.Printf("    Driver:    %s\n", cfg.Warehouse.Driver)
	switch cfg.Warehouse.Driver {
	case config.DriverSnowflake:
		fmt.Printf("    Account:   %s\n", orUnset(cfg.Warehouse.Account))
		fmt.Printf("    Username:  %s\n", orUnset(cfg.Warehouse.Username))
		fmt.Printf("    Role:      %s\n", orUnset(cfg.Warehouse.Role))
		fmt.Printf("    Warehouse: %s\n", orUnset(cfg.Warehouse.Warehouse))
		if cfg.Warehouse.Password != "" {
			fmt.Println("    Password:  set (from environment)")
		} else {
			fmt.Println("    Password:  not set (SNOWFLAKE_PASSWORD or form)")
		}
	case config.DriverPostgres:
		fmt.Printf("    DSN:       %s\n", maskDSN(cfg.Warehouse.DSN))
	case config.DriverSQLite:
		fmt.Printf("    Path:      %s\n", cfg.Warehouse.Path)
	}
	if cfg.Warehouse.Table != "" {
		fmt.Printf("    Table:     %s\n", cfg.Warehouse.Table)
	}
	fmt.Println()

	fmt.Println("  [forecast]")
	fmt.Printf("    Engine:       %s\n", cfg.Forecast.Engine)
	fmt.Printf("    Price:        %s\n", cli.FormatPrice(cfg.Forecast.Price))
	fmt.Printf("    History days: %d (min %d)\n", cfg.Forecast.HistoryDays, cfg.Forecast.MinHistoryDays)
	fmt.Println()

	fmt.Println("  [server]")
	fmt.Printf("    Address:    %s\n", cfg.Server.Addr)
	if cfg.Server.RateLimit > 0 {
		fmt.Printf("    Rate limit: %.0f runs/min (burst %d)\n", cfg.Server.RateLimit, cfg.Server.Burst)
	} else {
		fmt.Println("    Rate limit: off")
	}
	fmt.Println()

	fmt.Println("  [cache]")
	if cfg.Cache.Size > 0 {
		fmt.Printf("    Size: %d queries, ttl %s\n", cfg.Cache.Size, cfg.Cache.TTLDuration())
	} else {
		fmt.Println("    Disabled")
	}
	fmt.Println()

	fmt.Println("  Run `creditcast setup` to reconfigure.")
	return nil
}

func orUnset(s string) string {
	if s == "" {
		return "not set"
	}
	return s
}

// maskDSN hides the password of URL-form connection strings.
func maskDSN(dsn string) string {
	if dsn == "" {
		return "not set"
	}
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		return "****"
	}
	return u.Redacted()
}
