package metrics

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector is the capability components report through instead of touching
// process-wide state. Every worker receives one at construction.
type Collector interface {
	PostProcessed(status string)
	PostsIndexed(status string, n int)
	Error(component, errType string)
	QueueDepth(queue string, depth int64)
	OpenBatchSize(n int)
	ProcessingDuration(d time.Duration)
	FlushDuration(d time.Duration)
	TopicsExtracted(n int)
}

type promCollector struct {
	processed   *prometheus.CounterVec
	indexed     *prometheus.CounterVec
	errors      *prometheus.CounterVec
	queueDepth  *prometheus.GaugeVec
	openBatch   prometheus.Gauge
	procSeconds prometheus.Histogram
	flushSecs   prometheus.Histogram
	topics      prometheus.Counter
}

// NewPrometheus registers the collector's metric families on reg (or the
// default registerer when reg is nil).
func NewPrometheus(reg prometheus.Registerer) Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &promCollector{
		processed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "posts_processed_total",
			Help: "Total number of posts processed",
		}, []string{"status"}),
		indexed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "posts_indexed_total",
			Help: "Total number of posts indexed",
		}, []string{"status"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors",
		}, []string{"component", "error_type"}),
		queueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "queue_size",
			Help: "Current size of processing queue",
		}, []string{"queue"}),
		openBatch: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "open_batch_size",
			Help: "Records buffered in the open index batch",
		}),
		procSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "processing_duration_seconds",
			Help: "Time spent processing posts",
		}),
		flushSecs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "indexing_duration_seconds",
			Help: "Time spent indexing posts",
		}),
		topics: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "topics_extracted_total",
			Help: "Total number of topic clusters extracted",
		}),
	}

	reg.MustRegister(c.processed, c.indexed, c.errors, c.queueDepth,
		c.openBatch, c.procSeconds, c.flushSecs, c.topics)
	return c
}

func (c *promCollector) PostProcessed(status string) { c.processed.WithLabelValues(status).Inc() }
func (c *promCollector) PostsIndexed(status string, n int) {
	c.indexed.WithLabelValues(status).Add(float64(n))
}
func (c *promCollector) Error(component, errType string) {
	c.errors.WithLabelValues(component, errType).Inc()
}
func (c *promCollector) QueueDepth(queue string, depth int64) {
	c.queueDepth.WithLabelValues(queue).Set(float64(depth))
}
func (c *promCollector) OpenBatchSize(n int)                  { c.openBatch.Set(float64(n)) }
func (c *promCollector) ProcessingDuration(d time.Duration)   { c.procSeconds.Observe(d.Seconds()) }
func (c *promCollector) FlushDuration(d time.Duration)        { c.flushSecs.Observe(d.Seconds()) }
func (c *promCollector) TopicsExtracted(n int)                { c.topics.Add(float64(n)) }

// ServeHTTP exposes /metrics for scraping and /healthz reflecting the
// worker's dependency probes. Blocks until the listener fails.
func ServeHTTP(port int, healthy *atomic.Bool) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if healthy != nil && !healthy.Load() {
			http.Error(w, "dependency unhealthy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	addr := fmt.Sprintf(":%d", port)
	slog.Info("[Metrics] Serving /metrics", slog.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("[Metrics] Listener stopped", slog.String("error", err.Error()))
	}
}

// Noop satisfies Collector for tests and tooling.
type Noop struct{}

func (Noop) PostProcessed(string)              {}
func (Noop) PostsIndexed(string, int)          {}
func (Noop) Error(string, string)              {}
func (Noop) QueueDepth(string, int64)          {}
func (Noop) OpenBatchSize(int)                 {}
func (Noop) ProcessingDuration(time.Duration)  {}
func (Noop) FlushDuration(time.Duration)       {}
func (Noop) TopicsExtracted(int)               {}
