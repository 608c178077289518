// Package metrics exposes Prometheus instruments for the codec and the pass
// driver.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Codec Metrics
	CodecBytesTotal   *prometheus.CounterVec // direction: encode|decode
	NodesEncodedTotal *prometheus.CounterVec // variant
	NodesDecodedTotal *prometheus.CounterVec // variant
	DecodeErrorsTotal prometheus.Counter

	// Pass Metrics
	PassesTotal       prometheus.Counter
	PassDuration      prometheus.Histogram
	PassMessagesTotal prometheus.Counter
	PartitionDuration *prometheus.HistogramVec // phase: distribute|aggregate
	DanglingMass      prometheus.Gauge
	Vertices          prometheus.Gauge
	Edges             prometheus.Gauge

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initCodecMetrics()
	r.initPassMetrics()

	return r
}

// Gatherer returns the underlying Prometheus registry for exposition.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
