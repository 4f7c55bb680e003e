package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, k := range []string{
		"CREDITCAST_WAREHOUSE", "CREDITCAST_DSN", "CREDITCAST_DB", "CREDITCAST_TABLE",
		"CREDITCAST_ENGINE", "CREDITCAST_PRICE", "CREDITCAST_ADDR",
		"SNOWFLAKE_ACCOUNT", "SNOWFLAKE_USER", "SNOWFLAKE_ROLE", "SNOWFLAKE_WAREHOUSE", "SNOWFLAKE_PASSWORD",
	} {
		t.Setenv(k, "")
	}
	t.Chdir(dir)
	return dir
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Forecast.Price != 2.00 {
		t.Fatalf("Price = %v, want 2.00", cfg.Forecast.Price)
	}
	if cfg.Warehouse.Driver != DriverSnowflake {
		t.Fatalf("Driver = %q, want %q", cfg.Warehouse.Driver, DriverSnowflake)
	}
	if cfg.Cache.TTLDuration() != 15*time.Minute {
		t.Fatalf("TTL = %v, want 15m", cfg.Cache.TTLDuration())
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "cc.toml")
	body := `
[warehouse]
driver = "sqlite"
path = "/tmp/wh.db"
account = "acme"

[forecast]
price = 3.5
engine = "linear"

[cache]
size = 10
ttl = "1h"
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CREDITCAST_PRICE", "4.25")
	t.Setenv("SNOWFLAKE_PASSWORD", "hunter2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Warehouse.Driver != DriverSQLite || cfg.Warehouse.Path != "/tmp/wh.db" {
		t.Fatalf("warehouse = %+v, want sqlite at /tmp/wh.db", cfg.Warehouse)
	}
	if cfg.Forecast.Engine != "linear" {
		t.Fatalf("Engine = %q, want linear", cfg.Forecast.Engine)
	}
	if cfg.Forecast.Price != 4.25 {
		t.Fatalf("Price = %v, want env override 4.25", cfg.Forecast.Price)
	}
	if cfg.Warehouse.Password != "hunter2" {
		t.Fatalf("Password = %q, want from env", cfg.Warehouse.Password)
	}
	if cfg.Cache.Size != 10 || cfg.Cache.TTLDuration() != time.Hour {
		t.Fatalf("cache = %+v, want size 10 ttl 1h", cfg.Cache)
	}
	// Unset sections keep defaults.
	if cfg.Server.Addr != DefaultConfig().Server.Addr {
		t.Fatalf("Addr = %q, want default", cfg.Server.Addr)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SNOWFLAKE_ACCOUNT=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("SNOWFLAKE_ACCOUNT") })
	// godotenv does not override set variables, so clear the empty one first.
	_ = os.Unsetenv("SNOWFLAKE_ACCOUNT")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Warehouse.Account != "from-dotenv" {
		t.Fatalf("Account = %q, want from-dotenv", cfg.Warehouse.Account)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(path, []byte("[warehouse]\ndriver = \"oracle\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "oracle") {
		t.Fatalf("err = %v, want unknown driver", err)
	}
}

func TestSave_OmitsPassword(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "out", "config.toml")

	cfg := DefaultConfig()
	cfg.Warehouse.Username = "alice"
	cfg.Warehouse.Password = "secret"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists(path) {
		t.Fatal("Exists = false after Save")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "secret") {
		t.Fatalf("saved config contains the password:\n%s", data)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Warehouse.Username != "alice" {
		t.Fatalf("Username = %q, want alice", got.Warehouse.Username)
	}
}

func TestPathUsesXDG(t *testing.T) {
	dir := isolate(t)
	want := filepath.Join(dir, "config", "creditcast", "config.toml")
	if got := Path(); got != want {
		t.Fatalf("Path() = %q, want %q", got, want)
	}
}
