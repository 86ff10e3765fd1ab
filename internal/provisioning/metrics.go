package provisioning

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StepMetrics records per-step durations.
type StepMetrics struct {
	duration *prometheus.HistogramVec
}

// NewStepMetrics registers the step histogram with reg.
func NewStepMetrics(reg prometheus.Registerer) (*StepMetrics, error) {
	m := &StepMetrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "stacktopo",
			Subsystem: "provisioning",
			Name:      "step_duration_seconds",
			Help:      "Duration of provisioning steps.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"step", "result"}),
	}
	if err := reg.Register(m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *StepMetrics) observe(step string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.duration.WithLabelValues(step, result).Observe(elapsed.Seconds())
}
