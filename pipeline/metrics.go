package pipeline

import (
	"time"

	"github.com/rcrowley/go-metrics"
)

const metricPrefix = "pipeline."

type recorder struct {
	registry metrics.Registry
	duration metrics.Timer
}

func newRecorder(r metrics.Registry) *recorder {
	return &recorder{
		registry: r,
		duration: metrics.GetOrRegisterTimer(metricPrefix+"commit.duration", r),
	}
}

func (r *recorder) observe(s State, started time.Time) {
	metrics.GetOrRegisterCounter(metricPrefix+"state."+s.String(), r.registry).Inc(1)
	r.duration.UpdateSince(started)
}
