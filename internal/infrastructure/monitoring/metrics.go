package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// PTY metrics
	PTYBytes     *prometheus.CounterVec
	PTYResizes   *prometheus.CounterVec
	ReadDuration prometheus.Histogram

	// Stream metrics
	StreamChunks    *prometheus.CounterVec
	Injections      *prometheus.CounterVec
	TokensEstimated prometheus.Counter

	// Session metrics
	SessionRunning prometheus.Gauge

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// System metrics
	Uptime    prometheus.GaugeFunc
	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot Snapshot

	mu sync.RWMutex
}

// Snapshot holds current metric values for the JSON API
type Snapshot struct {
	BytesOut       uint64            `json:"bytes_out"`
	BytesIn        uint64            `json:"bytes_in"`
	Chunks         map[string]uint64 `json:"chunks"`
	Injections     map[string]uint64 `json:"injections"`
	Tokens         uint64            `json:"tokens"`
	Resizes        uint64            `json:"resizes"`
	ResizeFailures uint64            `json:"resize_failures"`
	Running        bool              `json:"running"`
	UptimeSeconds  float64           `json:"uptime_seconds"`
}

// NewMetrics creates a metrics collector registered on reg.
// Passing a fresh prometheus.NewRegistry keeps tests isolated.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),
		snapshot: Snapshot{
			Chunks:     make(map[string]uint64),
			Injections: make(map[string]uint64),
		},

		// PTY metrics
		PTYBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ctxopt_pty_bytes_total",
				Help: "Total bytes moved through the PTY",
			},
			[]string{"direction"},
		),
		PTYResizes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ctxopt_pty_resizes_total",
				Help: "Total number of PTY resize attempts",
			},
			[]string{"status"},
		),
		ReadDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ctxopt_pty_read_duration_seconds",
				Help:    "Time spent waiting for a PTY read to complete",
				Buckets: []float64{.0001, .001, .005, .01, .05, .1, .5, 1, 5, 30},
			},
		),

		// Stream metrics
		StreamChunks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ctxopt_stream_chunks_total",
				Help: "Total number of output chunks by detected content type",
			},
			[]string{"content_type"},
		),
		Injections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ctxopt_injections_total",
				Help: "Total number of suggestions written into the session",
			},
			[]string{"type"},
		),
		TokensEstimated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ctxopt_tokens_estimated_total",
				Help: "Estimated tokens of output produced by the session",
			},
		),

		// Session metrics
		SessionRunning: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ctxopt_session_running",
				Help: "Whether the hosted child process is running",
			},
		),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ctxopt_http_requests_total",
				Help: "Total number of HTTP requests to the status endpoint",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ctxopt_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "path"},
		),
	}

	m.Uptime = factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "ctxopt_uptime_seconds",
			Help: "Wrapper uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// RecordBytes records bytes moved in the given direction
func (m *Metrics) RecordBytes(direction string, n int) {
	if n <= 0 {
		return
	}
	m.PTYBytes.WithLabelValues(direction).Add(float64(n))

	m.mu.Lock()
	switch direction {
	case DirectionIn:
		m.snapshot.BytesIn += uint64(n)
	case DirectionOut:
		m.snapshot.BytesOut += uint64(n)
	}
	m.mu.Unlock()
}

// RecordChunk records one classified output chunk
func (m *Metrics) RecordChunk(contentType string) {
	m.StreamChunks.WithLabelValues(contentType).Inc()
	m.mu.Lock()
	m.snapshot.Chunks[contentType]++
	m.mu.Unlock()
}

// RecordInjection records a suggestion written into the session
func (m *Metrics) RecordInjection(suggestionType string) {
	m.Injections.WithLabelValues(suggestionType).Inc()
	m.mu.Lock()
	m.snapshot.Injections[suggestionType]++
	m.mu.Unlock()
}

// AddTokens adds to the estimated token total
func (m *Metrics) AddTokens(n int) {
	if n <= 0 {
		return
	}
	m.TokensEstimated.Add(float64(n))
	m.mu.Lock()
	m.snapshot.Tokens += uint64(n)
	m.mu.Unlock()
}

// SetSessionRunning sets the session running gauge
func (m *Metrics) SetSessionRunning(running bool) {
	v := 0.0
	if running {
		v = 1
	}
	m.SessionRunning.Set(v)
	m.mu.Lock()
	m.snapshot.Running = running
	m.mu.Unlock()
}

// RecordResize records a resize attempt and its outcome
func (m *Metrics) RecordResize(err error) {
	status := statusLabel(err)
	m.PTYResizes.WithLabelValues(status).Inc()
	m.mu.Lock()
	m.snapshot.Resizes++
	if err != nil {
		m.snapshot.ResizeFailures++
	}
	m.mu.Unlock()
}

// ObserveRead records how long a PTY read took
func (m *Metrics) ObserveRead(d time.Duration) {
	m.ReadDuration.Observe(d.Seconds())
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Snapshot returns a copy of the current values
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	s.Chunks = make(map[string]uint64, len(m.snapshot.Chunks))
	for k, v := range m.snapshot.Chunks {
		s.Chunks[k] = v
	}
	s.Injections = make(map[string]uint64, len(m.snapshot.Injections))
	for k, v := range m.snapshot.Injections {
		s.Injections[k] = v
	}
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
