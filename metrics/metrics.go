// Package metrics collects run metrics for the labutils command and exports
// them in the Prometheus textfile format.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder owns a private registry; a nil *Recorder records nothing.
type Recorder struct {
	reg *prometheus.Registry

	splitAttempts   prometheus.Counter
	splitPValues    prometheus.Histogram
	splitOutcomes   *prometheus.CounterVec
	entrezRequests  *prometheus.CounterVec
	entrezDuration  *prometheus.HistogramVec
	downloadRetries prometheus.Counter
	downloadBytes   prometheus.Counter
}

// New registers all collectors under namespace (default "labutils").
func New(namespace string) *Recorder {
	if namespace == "" {
		namespace = "labutils"
	}
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		reg: reg,
		splitAttempts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kfold_candidates_total",
			Help:      "Candidate partitions scored by BalancedKFold",
		}),
		splitPValues: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kfold_candidate_pvalue",
			Help:      "F-test p-value of candidate partitions",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 9),
		}),
		splitOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kfold_splits_total",
			Help:      "Returned splits by outcome",
		}, []string{"outcome"}),
		entrezRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entrez_requests_total",
			Help:      "E-utilities requests by endpoint and result",
		}, []string{"endpoint", "success"}),
		entrezDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "entrez_request_duration_seconds",
			Help:      "E-utilities round-trip time",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		downloadRetries: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "download_retries_total",
			Help:      "Download attempts that were retried",
		}),
		downloadBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "download_bytes_total",
			Help:      "Bytes written by completed downloads",
		}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

// ObserveCandidate matches kfold.Options.OnCandidate.
func (r *Recorder) ObserveCandidate(_ int, p float64) {
	if r == nil {
		return
	}
	r.splitAttempts.Inc()
	r.splitPValues.Observe(p)
}

// ObserveSplit records whether the returned split passed the threshold.
func (r *Recorder) ObserveSplit(accepted bool) {
	if r == nil {
		return
	}
	outcome := "fallback"
	if accepted {
		outcome = "accepted"
	}
	r.splitOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveEntrez matches pubmed.Options.OnRequest.
func (r *Recorder) ObserveEntrez(endpoint string, err error, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.entrezRequests.WithLabelValues(endpoint, strconv.FormatBool(err == nil)).Inc()
	r.entrezDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveRetry matches download.OnRetry.
func (r *Recorder) ObserveRetry(error, time.Duration) {
	if r == nil {
		return
	}
	r.downloadRetries.Inc()
}

// AddDownloadBytes records a completed download.
func (r *Recorder) AddDownloadBytes(n int64) {
	if r == nil || n <= 0 {
		return
	}
	r.downloadBytes.Add(float64(n))
}

// WriteTextfile writes all metrics to path atomically for node-exporter's
// textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.reg)
}
