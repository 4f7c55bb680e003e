// Package web serves the forecast form, charts and JSON API over HTTP.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/theirongolddev/creditcast/internal/metrics"
	"github.com/theirongolddev/creditcast/internal/model"
	"github.com/theirongolddev/creditcast/internal/pipeline"
	"github.com/theirongolddev/creditcast/internal/store"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr string
	// RatePerMinute caps forecast runs across all clients; 0 disables limiting.
	RatePerMinute float64
	Burst         int
	DefaultPrice  float64
	// Defaults prefill the form. The password is never prefilled.
	Defaults   model.Credentials
	RunsBuffer int
}

// Forecaster runs one forecast. *pipeline.Runner implements it.
type Forecaster interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Report, error)
}

// RunSummary is a compact record of one run for status payloads.
type RunSummary struct {
	RunID             string    `json:"run_id,omitempty"`
	At                time.Time `json:"at"`
	OK                bool      `json:"ok"`
	Kind              string    `json:"kind,omitempty"`
	HistoryDays       int       `json:"history_days,omitempty"`
	HorizonDays       int       `json:"horizon_days,omitempty"`
	TotalForecastCost float64   `json:"total_forecast_cost,omitempty"`
	CacheHit          bool      `json:"cache_hit"`
	DurationMS        int64     `json:"duration_ms"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt     time.Time    `json:"started_at"`
	Addr          string       `json:"addr"`
	RunCount      int64        `json:"run_count"`
	ErrorCount    int64        `json:"error_count"`
	LimitedCount  int64        `json:"limited_count"`
	LastRun       *RunSummary  `json:"last_run,omitempty"`
	LastError     string       `json:"last_error,omitempty"`
	RatePerMinute float64      `json:"rate_per_minute"`
	Cache         *store.Stats `json:"cache,omitempty"`
}

// cacheStatser is implemented by forecasters that keep a query cache.
type cacheStatser interface {
	CacheStats() (store.Stats, bool)
}

// Server is the HTTP front end of the forecast pipeline.
type Server struct {
	cfg      Config
	runner   Forecaster
	log      *zap.Logger
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	limiter  *rate.Limiter

	mu        sync.RWMutex
	startedAt time.Time
	runCount  int64
	errCount  int64
	limited   int64
	lastError string
	runs      []RunSummary
}

// New returns a server. m and gatherer may be nil, which disables
// instrumentation and the /metrics endpoint.
func New(cfg Config, runner Forecaster, log *zap.Logger, m *metrics.Metrics, gatherer prometheus.Gatherer) *Server {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8501"
	}
	if cfg.RunsBuffer < 1 {
		cfg.RunsBuffer = 50
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if log == nil {
		log = zap.NewNop()
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RatePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerMinute/60), cfg.Burst)
	}

	return &Server{
		cfg:       cfg,
		runner:    runner,
		log:       log,
		metrics:   m,
		gatherer:  gatherer,
		limiter:   limiter,
		startedAt: time.Now(),
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /run", s.handleRun)
	mux.HandleFunc("POST /api/v1/forecast", s.handleAPIForecast)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/runs", s.handleRuns)
	if s.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

// Run serves HTTP until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("serving", zap.String("addr", s.cfg.Addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

// errRateLimited is reported when the limiter rejects a run.
var errRateLimited = errors.New("rate limited")

// forecast runs one request through the limiter and records the outcome.
func (s *Server) forecast(ctx context.Context, req pipeline.Request) (*pipeline.Report, error) {
	if !s.limiter.Allow() {
		s.mu.Lock()
		s.limited++
		s.mu.Unlock()
		if s.metrics != nil {
			s.metrics.RateLimited.Inc()
		}
		return nil, errRateLimited
	}

	start := time.Now()
	rep, err := s.runner.Run(ctx, req)
	sum := RunSummary{
		At:         start,
		OK:         err == nil,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		sum.Kind = pipeline.Kind(err)
	} else {
		sum.RunID = rep.RunID
		sum.HistoryDays = rep.HistoryDays
		sum.HorizonDays = rep.HorizonDays
		sum.TotalForecastCost = rep.TotalCost
		sum.CacheHit = rep.CacheHit
	}
	s.record(sum, err)
	return rep, err
}

func (s *Server) record(sum RunSummary, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runCount++
	if err != nil {
		s.errCount++
		s.lastError = err.Error()
	} else {
		s.lastError = ""
	}
	s.runs = append(s.runs, sum)
	if len(s.runs) > s.cfg.RunsBuffer {
		s.runs = s.runs[len(s.runs)-s.cfg.RunsBuffer:]
	}
}

func (s *Server) status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		StartedAt:     s.startedAt,
		Addr:          s.cfg.Addr,
		RunCount:      s.runCount,
		ErrorCount:    s.errCount,
		LimitedCount:  s.limited,
		LastError:     s.lastError,
		RatePerMinute: s.cfg.RatePerMinute,
	}
	if n := len(s.runs); n > 0 {
		last := s.runs[n-1]
		st.LastRun = &last
	}
	if cs, ok := s.runner.(cacheStatser); ok {
		if stats, ok := cs.CacheStats(); ok {
			st.Cache = &stats
		}
	}
	return st
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.renderPage(w, http.StatusOK, pageData{Form: s.defaultForm()})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderPage(w, http.StatusBadRequest, pageData{Form: s.defaultForm(), Error: "Could not read the form."})
		return
	}
	form := formValues{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Account:  strings.TrimSpace(r.PostFormValue("account")),
		Role:     strings.TrimSpace(r.PostFormValue("role")),
		Price:    strings.TrimSpace(r.PostFormValue("price")),
	}
	data := pageData{Form: form}

	price, err := parsePrice(form.Price)
	if err != nil {
		data.Error = pipeline.UserMessage(err)
		s.renderPage(w, http.StatusOK, data)
		return
	}

	rep, err := s.forecast(r.Context(), pipeline.Request{
		Credentials: model.Credentials{
			Username: form.Username,
			Password: r.PostFormValue("password"),
			Account:  form.Account,
			Role:     form.Role,
		},
		Price: price,
	})
	switch {
	case errors.Is(err, errRateLimited):
		data.Error = "Too many forecasts at once. Please slow down and try again in a moment."
	case err != nil:
		data.Error = pipeline.UserMessage(err)
	default:
		if data.Charts, err = renderCharts(rep.Result); err != nil {
			s.log.Error("rendering charts", zap.Error(err))
			data.Error = "The forecast finished but its charts could not be drawn."
			break
		}
		data.Report = rep
		data.Rows = tableRows(rep.Result.Monthly)
	}
	s.renderPage(w, http.StatusOK, data)
}

// apiRequest is the JSON body of POST /api/v1/forecast.
type apiRequest struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	Account  string   `json:"account"`
	Role     string   `json:"role"`
	Price    *float64 `json:"price"`
}

type apiError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (s *Server) handleAPIForecast(w http.ResponseWriter, r *http.Request) {
	var body apiRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	if err := dec.Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]apiError{
			"error": {Kind: pipeline.KindInvalidInput, Message: "request body must be a JSON object"},
		})
		return
	}
	price := s.cfg.DefaultPrice
	if body.Price != nil {
		price = *body.Price
	}
	if err := pipeline.ValidatePrice(price); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]apiError{
			"error": {Kind: pipeline.KindInvalidInput, Message: pipeline.UserMessage(err)},
		})
		return
	}

	rep, err := s.forecast(r.Context(), pipeline.Request{
		Credentials: model.Credentials{
			Username: body.Username,
			Password: body.Password,
			Account:  body.Account,
			Role:     body.Role,
		},
		Price: price,
	})
	if errors.Is(err, errRateLimited) {
		writeJSON(w, http.StatusTooManyRequests, map[string]apiError{
			"error": {Kind: "rate_limited", Message: "too many requests"},
		})
		return
	}
	if err != nil {
		kind := pipeline.Kind(err)
		writeJSON(w, statusFor(kind), map[string]apiError{
			"error": {Kind: kind, Message: pipeline.UserMessage(err)},
		})
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func statusFor(kind string) int {
	switch kind {
	case pipeline.KindAuthentication:
		return http.StatusUnauthorized
	case pipeline.KindInvalidInput:
		return http.StatusBadRequest
	case pipeline.KindInsufficientHistory:
		return http.StatusUnprocessableEntity
	case pipeline.KindQuery:
		return http.StatusBadGateway
	case pipeline.KindCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.status())
}

func (s *Server) handleRuns(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	runs := make([]RunSummary, len(s.runs))
	copy(runs, s.runs)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, runs)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func parsePrice(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w is required", pipeline.ErrInvalidPrice)
	}
	p, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q is not a number", pipeline.ErrInvalidPrice, s)
	}
	if err := pipeline.ValidatePrice(p); err != nil {
		return 0, err
	}
	return p, nil
}
