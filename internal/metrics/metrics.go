package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// JobsPublished counts transcode jobs published by the dispatcher.
	JobsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transcode_jobs_published_total",
		Help: "Number of transcode job messages published.",
	})

	// JobsProcessed counts handled jobs by outcome (ready, failed,
	// rejected).
	JobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transcode_jobs_processed_total",
		Help: "Number of transcode jobs handled, by outcome.",
	}, []string{"outcome"})

	// RenditionsProduced counts uploaded renditions by label.
	RenditionsProduced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transcode_renditions_produced_total",
		Help: "Number of renditions produced, by resolution label.",
	}, []string{"label"})

	// TranscodeDuration observes wall-clock seconds per rendition
	// encode.
	TranscodeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "transcode_duration_seconds",
		Help:    "Wall-clock duration of a single rendition encode.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
)
