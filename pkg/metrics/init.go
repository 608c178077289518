package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initCodecMetrics() {
	r.CodecBytesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "pagerank_codec_bytes_total",
			Help: "Uncompressed record bytes encoded or decoded",
		},
		[]string{"direction"},
	)

	r.NodesEncodedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "pagerank_nodes_encoded_total",
			Help: "Node records encoded, by variant",
		},
		[]string{"variant"},
	)

	r.NodesDecodedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "pagerank_nodes_decoded_total",
			Help: "Node records decoded, by variant",
		},
		[]string{"variant"},
	)

	r.DecodeErrorsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "pagerank_decode_errors_total",
			Help: "Records that failed to decode",
		},
	)
}

func (r *Registry) initPassMetrics() {
	r.PassesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "pagerank_passes_total",
			Help: "Completed passes",
		},
	)

	r.PassDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pagerank_pass_duration_seconds",
			Help:    "Wall time of one pass",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		},
	)

	r.PassMessagesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "pagerank_pass_messages_total",
			Help: "Mass messages routed between partitions",
		},
	)

	r.PartitionDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pagerank_partition_duration_seconds",
			Help:    "Time spent on one partition in one phase",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1, 10},
		},
		[]string{"phase"},
	)

	r.DanglingMass = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "pagerank_dangling_mass",
			Help: "Mass held by vertices without outlinks in the last pass",
		},
	)

	r.Vertices = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "pagerank_vertices",
			Help: "Vertices in the graph being ranked",
		},
	)

	r.Edges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "pagerank_edges",
			Help: "Edges in the graph being ranked",
		},
	)
}
