package cmd

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/theirongolddev/creditcast/internal/config"
	"github.com/theirongolddev/creditcast/internal/forecast"
	"github.com/theirongolddev/creditcast/internal/metrics"
	"github.com/theirongolddev/creditcast/internal/model"
	"github.com/theirongolddev/creditcast/internal/pipeline"
	"github.com/theirongolddev/creditcast/internal/store"
	"github.com/theirongolddev/creditcast/internal/warehouse"
)

func newConnector(w config.WarehouseConfig) (warehouse.Connector, error) {
	switch w.Driver {
	case config.DriverSnowflake:
		return warehouse.SnowflakeConnector{
			LoginTimeout: w.LoginTimeoutDuration(),
			Warehouse:    w.Warehouse,
		}, nil
	case config.DriverPostgres:
		if w.DSN == "" {
			return nil, fmt.Errorf("postgres warehouse needs a dsn")
		}
		return warehouse.PostgresConnector{DSN: w.DSN}, nil
	case config.DriverSQLite:
		return warehouse.SQLiteConnector{Path: w.Path}, nil
	default:
		return nil, fmt.Errorf("unknown warehouse driver %q", w.Driver)
	}
}

// newRunner wires the pipeline from cfg. m may be nil.
func newRunner(cfg config.Config, m *metrics.Metrics) (*pipeline.Runner, error) {
	conn, err := newConnector(cfg.Warehouse)
	if err != nil {
		return nil, err
	}
	eng, err := forecast.New(cfg.Forecast.Engine)
	if err != nil {
		return nil, err
	}

	var cache store.Cache[*warehouse.Table] = store.Nop[*warehouse.Table]{}
	if cfg.Cache.Size > 0 {
		lru, err := store.NewLRU[*warehouse.Table](cfg.Cache.Size, cfg.Cache.TTLDuration())
		if err != nil {
			return nil, fmt.Errorf("query cache: %w", err)
		}
		cache = lru
	}

	return &pipeline.Runner{
		Connector:      conn,
		Engine:         eng,
		Cache:          cache,
		Usage:          warehouse.UsageOptions{Table: cfg.Warehouse.Table, Days: cfg.Forecast.HistoryDays},
		MinHistoryDays: cfg.Forecast.MinHistoryDays,
		Metrics:        m,
		Logger:         log,
	}, nil
}

func newMetrics() (*metrics.Metrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return metrics.New(reg), reg
}

func credentialsFrom(w config.WarehouseConfig) model.Credentials {
	return model.Credentials{
		Username: w.Username,
		Password: w.Password,
		Account:  w.Account,
		Role:     w.Role,
	}
}
