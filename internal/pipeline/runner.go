package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/theirongolddev/creditcast/internal/dates"
	"github.com/theirongolddev/creditcast/internal/forecast"
	"github.com/theirongolddev/creditcast/internal/metrics"
	"github.com/theirongolddev/creditcast/internal/model"
	"github.com/theirongolddev/creditcast/internal/store"
	"github.com/theirongolddev/creditcast/internal/warehouse"
)

// Runner executes one end-to-end forecast per request: connect, query,
// forecast, aggregate.
type Runner struct {
	Connector warehouse.Connector
	Engine    forecast.Engine
	// Cache holds usage query results across runs. Nil disables caching.
	Cache          store.Cache[*warehouse.Table]
	Usage          warehouse.UsageOptions
	MinHistoryDays int
	Metrics        *metrics.Metrics // optional
	Logger         *zap.Logger
	Now            func() time.Time
}

// Request carries the user inputs of one run.
type Request struct {
	Credentials model.Credentials
	Price       float64
}

// Report is a completed run.
type Report struct {
	RunID         string        `json:"run_id"`
	GeneratedAt   time.Time     `json:"generated_at"`
	HorizonDays   int           `json:"horizon_days"`
	HorizonEnd    time.Time     `json:"horizon_end"`
	Price         float64       `json:"price"`
	HistoryDays   int           `json:"history_days"`
	CacheHit      bool          `json:"cache_hit"`
	Duration      time.Duration `json:"duration_ns"`
	TotalActual   float64       `json:"total_actual_credits"`
	TotalForecast float64       `json:"total_forecast_credits"`
	TotalCost     float64       `json:"total_forecast_cost"`
	Result        *Result       `json:"result"`
}

// Run performs one forecast. No partial report is returned on error.
func (r *Runner) Run(ctx context.Context, req Request) (*Report, error) {
	log := r.logger()
	start := time.Now()
	runID := uuid.NewString()
	log = log.With(zap.String("run_id", runID))

	rep, err := r.run(ctx, req, log)
	elapsed := time.Since(start)

	kind := "ok"
	if err != nil {
		kind = Kind(err)
	}
	if r.Metrics != nil {
		r.Metrics.RunsTotal.WithLabelValues(kind).Inc()
		r.Metrics.RunDuration.Observe(elapsed.Seconds())
	}
	if err != nil {
		log.Warn("forecast run failed",
			zap.String("kind", kind),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return nil, err
	}

	rep.RunID = runID
	rep.Duration = elapsed
	log.Info("forecast run complete",
		zap.Int("rows", rep.HistoryDays),
		zap.Int("horizon_days", rep.HorizonDays),
		zap.Bool("cache_hit", rep.CacheHit),
		zap.Duration("duration", elapsed),
	)
	return rep, nil
}

func (r *Runner) run(ctx context.Context, req Request, log *zap.Logger) (*Report, error) {
	if r.Connector == nil || r.Engine == nil {
		return nil, errors.New("pipeline: runner is missing a connector or engine")
	}

	conn, err := r.Connector.Connect(ctx, req.Credentials)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var cached *warehouse.CachedConn
	if r.Cache != nil {
		cached = &warehouse.CachedConn{
			Conn:      conn,
			Cache:     r.Cache,
			Namespace: namespace(conn.Dialect(), req.Credentials),
		}
		conn = cached
	}

	queryStart := time.Now()
	history, err := warehouse.FetchDailyUsage(ctx, conn, r.Usage)
	if r.Metrics != nil {
		r.Metrics.QueryDuration.Observe(time.Since(queryStart).Seconds())
	}
	if err != nil {
		return nil, err
	}
	hit := cached != nil && cached.LastHit()
	if r.Metrics != nil && cached != nil {
		r.Metrics.CacheLookups.WithLabelValues(lo.Ternary(hit, "hit", "miss")).Inc()
	}
	log.Debug("usage history fetched", zap.Int("rows", len(history)), zap.Bool("cache_hit", hit))

	now := r.now()
	horizon := dates.ForecastHorizon(now)

	var engine forecast.Engine = r.Engine
	if r.Metrics != nil {
		engine = timedEngine{Engine: r.Engine, m: r.Metrics}
	}
	res, err := Run(ctx, engine, Input{
		History:        history,
		HorizonDays:    horizon,
		Price:          req.Price,
		MinHistoryDays: r.MinHistoryDays,
	})
	if err != nil {
		return nil, err
	}

	distinct := len(lo.Filter(res.Daily, func(d model.MergedRecord, _ int) bool { return d.Actual != nil }))
	if r.Metrics != nil {
		r.Metrics.HistoryDays.Set(float64(distinct))
	}

	return &Report{
		GeneratedAt:   now,
		HorizonDays:   horizon,
		HorizonEnd:    dates.HorizonEnd(now),
		Price:         req.Price,
		HistoryDays:   distinct,
		CacheHit:      hit,
		TotalActual:   lo.SumBy(res.Monthly, func(m model.MonthlyAggregate) float64 { return m.ActualSum }),
		TotalForecast: lo.SumBy(res.Monthly, func(m model.MonthlyAggregate) float64 { return m.ForecastSum }),
		TotalCost:     lo.SumBy(res.Monthly, func(m model.MonthlyAggregate) float64 { return m.ForecastCost }),
		Result:        res,
	}, nil
}

// CacheStats reports query cache counters when the cache keeps them.
func (r *Runner) CacheStats() (store.Stats, bool) {
	if sc, ok := r.Cache.(interface{ Stats() store.Stats }); ok {
		return sc.Stats(), true
	}
	return store.Stats{}, false
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func (r *Runner) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// namespace scopes cached results to one identity.
func namespace(d warehouse.Dialect, c model.Credentials) string {
	return strings.Join([]string{
		string(d),
		strings.ToLower(c.Account),
		strings.ToLower(c.Username),
		strings.ToLower(c.Role),
	}, "/")
}

type timedEngine struct {
	forecast.Engine
	m *metrics.Metrics
}

func (e timedEngine) FitPredict(ctx context.Context, series []model.UsageRecord, horizonDays int) ([]model.ForecastRecord, error) {
	start := time.Now()
	defer func() { e.m.EngineDuration.Observe(time.Since(start).Seconds()) }()
	return e.Engine.FitPredict(ctx, series, horizonDays)
}
