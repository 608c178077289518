package metrics

import (
	"time"
)

// RecordEncode records one encoded record.
func (r *Registry) RecordEncode(variant string, bytes int) {
	r.NodesEncodedTotal.WithLabelValues(variant).Inc()
	r.CodecBytesTotal.WithLabelValues("encode").Add(float64(bytes))
}

// RecordDecode records one decoded record.
func (r *Registry) RecordDecode(variant string, bytes int) {
	r.NodesDecodedTotal.WithLabelValues(variant).Inc()
	r.CodecBytesTotal.WithLabelValues("decode").Add(float64(bytes))
}

// RecordDecodeError records a record that failed to decode.
func (r *Registry) RecordDecodeError() {
	r.DecodeErrorsTotal.Inc()
}

// RecordPartition records the time one partition spent in a phase.
func (r *Registry) RecordPartition(phase string, duration time.Duration) {
	r.PartitionDuration.WithLabelValues(phase).Observe(duration.Seconds())
}

// RecordPass records a completed pass.
func (r *Registry) RecordPass(duration time.Duration, messages int, dangling float64) {
	r.PassesTotal.Inc()
	r.PassDuration.Observe(duration.Seconds())
	r.PassMessagesTotal.Add(float64(messages))
	r.DanglingMass.Set(dangling)
}

// SetGraphSize records the size of the graph being ranked.
func (r *Registry) SetGraphSize(vertices, edges int) {
	r.Vertices.Set(float64(vertices))
	r.Edges.Set(float64(edges))
}
