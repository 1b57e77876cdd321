// Package metrics exposes Prometheus counters for the object-storage API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeOK            = "ok"
	OutcomeInvalid       = "invalid"
	OutcomeNotConfigured = "not_configured"
	OutcomeError         = "error"
)

// Metrics owns a private registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	presignBatches *prometheus.CounterVec
	presignedFiles prometheus.Counter
	deletes        *prometheus.CounterVec
	downloadURLs   *prometheus.CounterVec
}

// New registers all collectors, including the Go runtime and process ones.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		presignBatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "assetvault",
			Name:      "presign_batches_total",
			Help:      "Presign batches by outcome.",
		}, []string{"outcome"}),
		presignedFiles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "assetvault",
			Name:      "presigned_files_total",
			Help:      "Upload URLs issued.",
		}),
		deletes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "assetvault",
			Name:      "deletes_total",
			Help:      "Asset deletions by outcome.",
		}, []string{"outcome"}),
		downloadURLs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "assetvault",
			Name:      "download_urls_total",
			Help:      "Download URLs served, by cache result.",
		}, []string{"cache"}),
	}

	m.registry.MustRegister(
		m.presignBatches,
		m.presignedFiles,
		m.deletes,
		m.downloadURLs,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// PresignBatch counts one batch; files is added only for OutcomeOK.
func (m *Metrics) PresignBatch(outcome string, files int) {
	m.presignBatches.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK {
		m.presignedFiles.Add(float64(files))
	}
}

func (m *Metrics) Delete(outcome string) {
	m.deletes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) DownloadURL(cacheHit bool) {
	label := "miss"
	if cacheHit {
		label = "hit"
	}
	m.downloadURLs.WithLabelValues(label).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
