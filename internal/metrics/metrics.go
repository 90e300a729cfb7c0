package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gauges
var (
	ActiveStreams = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vidgrab_active_streams",
		Help: "Number of downloads currently streaming to clients",
	})
)

// Counters
var (
	ResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidgrab_resolutions_total",
		Help: "Total format resolution requests by outcome",
	}, []string{"outcome"})
	StreamsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidgrab_streams_total",
		Help: "Total streamed downloads by outcome",
	}, []string{"outcome"})
	StreamedBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidgrab_streamed_bytes_total",
		Help: "Total bytes delivered to streaming clients",
	})
)

// Outcome label values.
const (
	OutcomeOK          = "ok"
	OutcomeError       = "error"
	OutcomeCompleted   = "completed"
	OutcomeEngineError = "engine_error"
	OutcomeAborted     = "aborted"
)
