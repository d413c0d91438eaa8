package metrics

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics for the signal engine and quote feed.
type Metrics struct {
	// Decision cycle
	CyclesTotal  prometheus.Counter
	CycleDur     prometheus.Histogram
	SignalsTotal *prometheus.CounterVec // labels: signal_type
	SignalErrors prometheus.Counter

	// Risk and execution
	RiskRejections  prometheus.Counter
	OrdersSubmitted prometheus.Counter
	OrderErrors     prometheus.Counter

	// Quote feed
	QuotesTotal    prometheus.Counter
	DroppedQuotes  prometheus.Counter
	WSReconnects   prometheus.Counter
	BufferedWrites prometheus.Counter

	// Market session state
	MarketState prometheus.Gauge // 0=closed, 1=open
}

// New registers and returns the metric set.
func New() *Metrics {
	m := &Metrics{
		CyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sigengine_cycles_total",
			Help: "Total decision cycles executed",
		}),
		CycleDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sigengine_cycle_duration_seconds",
			Help:    "Decision cycle latency",
			Buckets: prometheus.DefBuckets,
		}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sigengine_signals_total",
			Help: "Trade intents generated (by signal type)",
		}, []string{"signal_type"}),
		SignalErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sigengine_signal_errors_total",
			Help: "Per-symbol evaluation failures",
		}),

		RiskRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sigengine_risk_rejections_total",
			Help: "Intents rejected by the risk gate",
		}),
		OrdersSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sigengine_orders_submitted_total",
			Help: "Orders submitted after passing the risk gate",
		}),
		OrderErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sigengine_order_errors_total",
			Help: "Order submissions that failed",
		}),

		QuotesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quotefeed_quotes_total",
			Help: "Quotes received from the WebSocket feed",
		}),
		DroppedQuotes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quotefeed_dropped_quotes_total",
			Help: "Quotes dropped (channel full)",
		}),
		WSReconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quotefeed_ws_reconnects_total",
			Help: "WebSocket reconnection attempts",
		}),
		BufferedWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quotefeed_buffered_writes_total",
			Help: "Quote writes buffered locally while Redis was unavailable",
		}),

		MarketState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sigengine_market_state",
			Help: "Market session state (0=closed, 1=open)",
		}),
	}

	prometheus.MustRegister(
		m.CyclesTotal,
		m.CycleDur,
		m.SignalsTotal,
		m.SignalErrors,
		m.RiskRejections,
		m.OrdersSubmitted,
		m.OrderErrors,
		m.QuotesTotal,
		m.DroppedQuotes,
		m.WSReconnects,
		m.BufferedWrites,
		m.MarketState,
	)

	return m
}

// HealthStatus tracks dependency health for the /healthz endpoint.
type HealthStatus struct {
	mu sync.RWMutex

	WSConnected    bool      `json:"ws_connected"`
	LastQuoteTime  time.Time `json:"last_quote_time"`
	RedisConnected bool      `json:"redis_connected"`
	SQLiteOK       bool      `json:"sqlite_ok"`

	RedisLatencyMs  float64   `json:"redis_latency_ms"`
	SQLiteLatencyMs float64   `json:"sqlite_latency_ms"`
	LastCheckAt     time.Time `json:"last_check_at"`
	StartedAt       time.Time `json:"started_at"`
}

// NewHealthStatus returns a default health status.
func NewHealthStatus() *HealthStatus {
	return &HealthStatus{StartedAt: time.Now()}
}

func (h *HealthStatus) SetWSConnected(v bool) {
	h.mu.Lock()
	h.WSConnected = v
	h.mu.Unlock()
}

func (h *HealthStatus) SetLastQuoteTime(t time.Time) {
	h.mu.Lock()
	h.LastQuoteTime = t
	h.mu.Unlock()
}

func (h *HealthStatus) SetSQLiteOK(v bool) {
	h.mu.Lock()
	h.SQLiteOK = v
	h.mu.Unlock()
}

// CheckRedis pings Redis and records latency and connectivity.
func (h *HealthStatus) CheckRedis(ctx context.Context, rdb *goredis.Client) {
	start := time.Now()
	err := rdb.Ping(ctx).Err()
	latency := time.Since(start)

	h.mu.Lock()
	h.RedisConnected = err == nil
	h.RedisLatencyMs = float64(latency.Microseconds()) / 1000.0
	h.LastCheckAt = time.Now()
	h.mu.Unlock()
}

// CheckSQLite pings the journal database and records latency and health.
func (h *HealthStatus) CheckSQLite(ctx context.Context, db *sql.DB) {
	start := time.Now()
	err := db.PingContext(ctx)
	latency := time.Since(start)

	h.mu.Lock()
	h.SQLiteOK = err == nil
	h.SQLiteLatencyMs = float64(latency.Microseconds()) / 1000.0
	h.LastCheckAt = time.Now()
	h.mu.Unlock()
}

// StartLivenessChecker runs periodic dependency checks. Pass nil for
// dependencies a binary does not use.
func (h *HealthStatus) StartLivenessChecker(ctx context.Context, rdb *goredis.Client, sqlDB *sql.DB, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
				if rdb != nil {
					h.CheckRedis(probeCtx, rdb)
				}
				if sqlDB != nil {
					h.CheckSQLite(probeCtx, sqlDB)
				}
				cancel()
			}
		}
	}()
}

// ServeHTTP handles the /healthz endpoint.
func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	overallStatus := "healthy"
	httpCode := http.StatusOK
	if !h.RedisConnected || !h.SQLiteOK {
		overallStatus = "degraded"
		httpCode = http.StatusServiceUnavailable
	}

	quoteAge := ""
	if !h.LastQuoteTime.IsZero() {
		quoteAge = time.Since(h.LastQuoteTime).Round(time.Millisecond).String()
	}

	status := struct {
		Status          string  `json:"status"`
		Uptime          string  `json:"uptime"`
		WSConnected     bool    `json:"ws_connected"`
		LastQuoteTime   string  `json:"last_quote_time"`
		QuoteAge        string  `json:"quote_age"`
		RedisConnected  bool    `json:"redis_connected"`
		RedisLatencyMs  float64 `json:"redis_latency_ms"`
		SQLiteOK        bool    `json:"sqlite_ok"`
		SQLiteLatencyMs float64 `json:"sqlite_latency_ms"`
		LastCheckAt     string  `json:"last_check_at"`
	}{
		Status:          overallStatus,
		Uptime:          time.Since(h.StartedAt).Round(time.Second).String(),
		WSConnected:     h.WSConnected,
		LastQuoteTime:   h.LastQuoteTime.Format(time.RFC3339),
		QuoteAge:        quoteAge,
		RedisConnected:  h.RedisConnected,
		RedisLatencyMs:  h.RedisLatencyMs,
		SQLiteOK:        h.SQLiteOK,
		SQLiteLatencyMs: h.SQLiteLatencyMs,
		LastCheckAt:     h.LastCheckAt.Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if httpCode != http.StatusOK {
		w.WriteHeader(httpCode)
	}
	json.NewEncoder(w).Encode(status)
}

// Server exposes /metrics and /healthz over HTTP.
type Server struct {
	addr string
	srv  *http.Server
}

// NewServer creates a metrics and health server.
func NewServer(addr string, health *HealthStatus) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", health.ServeHTTP)

	return &Server{
		addr: addr,
		srv:  &http.Server{Addr: addr, Handler: mux},
	}
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		log.Printf("[metrics] server listening on %s", s.addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("[metrics] server error: %v", err)
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) {
	s.srv.Shutdown(ctx)
}
