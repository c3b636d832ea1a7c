// Package metrics records search and cache activity as Prometheus metrics.
//
// A [Recorder] implements the observability hook interfaces. Batch jobs are
// too short-lived to be scraped, so metrics are written to a file in the text
// exposition format (for node_exporter's textfile collector) when the job
// finishes.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/quasiclique/pkg/ids"
	"github.com/matzehuels/quasiclique/pkg/observability"
)

// Recorder holds the collectors of one job on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	partitions      *prometheus.CounterVec
	partitionErrors prometheus.Counter
	duration        prometheus.Histogram
	steps           prometheus.Histogram
	improvements    prometheus.Counter
	pruned          prometheus.Counter
	rejected        *prometheus.CounterVec
	cacheOps        *prometheus.CounterVec
	cacheBytes      prometheus.Counter
	lastBestScore   prometheus.Gauge
}

// New creates a recorder with all collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		partitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quasiclique_partitions_total",
				Help: "Partitions processed, by final search state",
			},
			[]string{"state"},
		),
		partitionErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "quasiclique_partition_errors_total",
				Help: "Partitions that failed with an error",
			},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "quasiclique_partition_duration_seconds",
				Help:    "Time spent building and searching one partition",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
			},
		),
		steps: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "quasiclique_search_steps",
				Help:    "Beam search steps executed per partition",
				Buckets: prometheus.ExponentialBuckets(1, 2, 8),
			},
		),
		improvements: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "quasiclique_search_improvements_total",
				Help: "Search steps that improved the best score",
			},
		),
		pruned: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "quasiclique_pruned_nodes_total",
				Help: "Nodes removed by degree pruning",
			},
		),
		rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quasiclique_records_rejected_total",
				Help: "Input records dropped, by reason",
			},
			[]string{"reason"},
		),
		cacheOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quasiclique_cache_operations_total",
				Help: "Cache lookups and writes, by key type and outcome",
			},
			[]string{"key_type", "op"},
		),
		cacheBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "quasiclique_cache_written_bytes_total",
				Help: "Bytes written to the cache",
			},
		),
		lastBestScore: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "quasiclique_last_best_score",
				Help: "Best score of the most recent search step",
			},
		),
	}
	r.registry.MustRegister(
		r.partitions, r.partitionErrors, r.duration, r.steps,
		r.improvements, r.pruned, r.rejected,
		r.cacheOps, r.cacheBytes, r.lastBestScore,
	)
	return r
}

// Registry returns the recorder's registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Install registers r as the process-wide search and cache hooks.
func (r *Recorder) Install() {
	observability.SetSearchHooks(r)
	observability.SetCacheHooks(r)
}

// WriteTextfile writes all metrics to path in the text exposition format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

// OnRecordsRejected implements [observability.SearchHooks].
func (r *Recorder) OnRecordsRejected(_ context.Context, reason string, n int) {
	r.rejected.WithLabelValues(reason).Add(float64(n))
}

// OnPartitionStart implements [observability.SearchHooks].
func (r *Recorder) OnPartitionStart(context.Context, ids.GraphID, int) {}

// OnPartitionComplete implements [observability.SearchHooks].
func (r *Recorder) OnPartitionComplete(_ context.Context, _ ids.GraphID, state string, steps int, d time.Duration, err error) {
	if err != nil {
		r.partitionErrors.Inc()
		return
	}
	r.partitions.WithLabelValues(state).Inc()
	r.duration.Observe(d.Seconds())
	r.steps.Observe(float64(steps))
}

// OnPrune implements [observability.SearchHooks].
func (r *Recorder) OnPrune(_ context.Context, _ ids.GraphID, removed int) {
	r.pruned.Add(float64(removed))
}

// OnStep implements [observability.SearchHooks].
func (r *Recorder) OnStep(_ context.Context, _ ids.GraphID, _ int, best float64, improved bool) {
	if improved {
		r.improvements.Inc()
	}
	r.lastBestScore.Set(best)
}

// OnCacheHit implements [observability.CacheHooks].
func (r *Recorder) OnCacheHit(_ context.Context, keyType string) {
	r.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements [observability.CacheHooks].
func (r *Recorder) OnCacheMiss(_ context.Context, keyType string) {
	r.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements [observability.CacheHooks].
func (r *Recorder) OnCacheSet(_ context.Context, keyType string, size int) {
	r.cacheOps.WithLabelValues(keyType, "set").Inc()
	r.cacheBytes.Add(float64(size))
}

var (
	_ observability.SearchHooks = (*Recorder)(nil)
	_ observability.CacheHooks  = (*Recorder)(nil)
)
