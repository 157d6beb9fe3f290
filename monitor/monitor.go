// monitor/monitor.go
package monitor

import (
	"expvar"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	OnlinePlayers     prometheus.Gauge
	ActiveGames       prometheus.Gauge
	CommandsProcessed prometheus.Counter
	CommandsRejected  prometheus.Counter
	CommandLatency    prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		OnlinePlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online_players",
			Help:      "Number of online players",
		}),
		ActiveGames: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_games",
			Help:      "Number of active games",
		}),
		CommandsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_processed_total",
			Help:      "Total number of accepted game commands",
		}),
		CommandsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_rejected_total",
			Help:      "Total number of rejected game commands",
		}),
		CommandLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_latency_seconds",
			Help:      "Game command processing latency",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10),
		}),
	}

	prometheus.MustRegister(
		m.OnlinePlayers,
		m.ActiveGames,
		m.CommandsProcessed,
		m.CommandsRejected,
		m.CommandLatency,
	)

	return m
}

type Monitor struct {
	metrics      *Metrics
	startTime    time.Time
	requestCount int64
	mutex        sync.Mutex
}

func NewMonitor(namespace string) *Monitor {
	return &Monitor{
		metrics:   NewMetrics(namespace),
		startTime: time.Now(),
	}
}

func (m *Monitor) StartServer(addr string) {
	http.Handle("/metrics", promhttp.Handler())

	// 添加expvar指标
	expvar.Publish("uptime", expvar.Func(func() interface{} {
		return time.Since(m.startTime).Seconds()
	}))

	expvar.Publish("commands", expvar.Func(func() interface{} {
		m.mutex.Lock()
		defer m.mutex.Unlock()
		return m.requestCount
	}))

	go http.ListenAndServe(addr, nil)
}

func (m *Monitor) IncOnlinePlayers() {
	m.metrics.OnlinePlayers.Inc()
}

func (m *Monitor) DecOnlinePlayers() {
	m.metrics.OnlinePlayers.Dec()
}

func (m *Monitor) SetActiveGames(count int) {
	m.metrics.ActiveGames.Set(float64(count))
}

func (m *Monitor) IncCommandsProcessed() {
	m.metrics.CommandsProcessed.Inc()
	m.mutex.Lock()
	m.requestCount++
	m.mutex.Unlock()
}

func (m *Monitor) IncCommandsRejected() {
	m.metrics.CommandsRejected.Inc()
}

func (m *Monitor) ObserveCommandLatency(duration time.Duration) {
	m.metrics.CommandLatency.Observe(duration.Seconds())
}
