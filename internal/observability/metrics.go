package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/adaptiq/adaptiq-backend/internal/platform/envutil"
	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests      *CounterVec
	apiLatency       *HistogramVec
	apiInflight      *Gauge
	adaptations      *CounterVec
	rulesFired       *CounterVec
	adaptConfidence  *HistogramVec
	providerRequests *CounterVec
	providerLatency  *HistogramVec
	eventsPublished  *CounterVec
	cacheLookups     *CounterVec
	dbStats          *GaugeVec
	redisUp          *Gauge
	redisPing        *Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false, nil)
}

func Current() *Metrics {
	return instance
}

func scrapeInterval() time.Duration {
	d := envutil.Duration("METRICS_SCRAPE_INTERVAL_SECONDS", 10*time.Second, nil)
	if d <= 0 {
		return 10 * time.Second
	}
	return d
}

// Init builds the process-wide metrics once. Returns nil when METRICS_ENABLED
// is off; every method on a nil *Metrics is a no-op.
func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = New()
		if log != nil {
			log.Info("metrics enabled")
		}
	})
	return instance
}

// New returns an unregistered metrics set.
func New() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("adaptiq_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"adaptiq_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		),
		apiInflight:     NewGauge("adaptiq_api_inflight_requests", "In-flight API requests."),
		adaptations:     NewCounterVec("adaptiq_adaptations_total", "Adaptation engine invocations by operation.", []string{"op"}),
		rulesFired:      NewCounterVec("adaptiq_adaptation_rules_fired_total", "Adaptation rules that matched a learner.", []string{"rule"}),
		adaptConfidence: NewHistogramVec("adaptiq_adaptation_confidence", "Confidence score of adapted content.", nil, []float64{0.7, 0.8, 0.9, 0.95}),
		providerRequests: NewCounterVec(
			"adaptiq_provider_requests_total",
			"Calls to external providers by provider/op/status.",
			[]string{"provider", "op", "status"},
		),
		providerLatency: NewHistogramVec(
			"adaptiq_provider_request_duration_seconds",
			"External provider latency in seconds.",
			[]string{"provider", "op"},
			[]float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		),
		eventsPublished: NewCounterVec("adaptiq_events_published_total", "Domain events published by type/status.", []string{"type", "status"}),
		cacheLookups:    NewCounterVec("adaptiq_settings_cache_lookups_total", "Settings cache lookups by result.", []string{"result"}),
		dbStats:         NewGaugeVec("adaptiq_db_pool", "Database pool statistics.", []string{"stat"}),
		redisUp:         NewGauge("adaptiq_redis_up", "Redis reachability (1 up, 0 down)."),
		redisPing:       NewGauge("adaptiq_redis_ping_seconds", "Redis ping latency in seconds."),
	}
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.adaptations, m.rulesFired, m.adaptConfidence,
		m.providerRequests, m.providerLatency,
		m.eventsPublished, m.cacheLookups,
		m.dbStats, m.redisUp, m.redisPing,
	}
	for _, mw := range writers {
		if err := mw.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// ObserveAdaptation records one engine call and the rules it fired.
func (m *Metrics) ObserveAdaptation(op string, fired []string) {
	if m == nil {
		return
	}
	m.adaptations.Inc(op)
	for _, r := range fired {
		m.rulesFired.Inc(r)
	}
}

func (m *Metrics) ObserveConfidence(score float64) {
	if m == nil {
		return
	}
	m.adaptConfidence.Observe(score)
}

func (m *Metrics) ObserveProvider(provider, op string, err error, dur time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.providerRequests.Inc(provider, op, status)
	m.providerLatency.Observe(dur.Seconds(), provider, op)
}

func (m *Metrics) IncEventPublished(eventType string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.eventsPublished.Inc(eventType, status)
}

func (m *Metrics) IncCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheLookups.Inc("hit")
		return
	}
	m.cacheLookups.Inc("miss")
}

func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.Set(float64(stats.OpenConnections), "open_connections")
				m.dbStats.Set(float64(stats.InUse), "in_use")
				m.dbStats.Set(float64(stats.Idle), "idle")
				m.dbStats.Set(float64(stats.WaitCount), "wait_count")
				m.dbStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
				m.dbStats.Set(float64(stats.MaxOpenConnections), "max_open_connections")
			}
		}
	}()
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	interval := scrapeInterval()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				_ = rdb.Close()
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
