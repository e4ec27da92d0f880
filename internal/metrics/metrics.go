// Package metrics provides a Prometheus-backed admission observer for a
// Cube, installable via concurrentcube.WithMetrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// groupLabel names the four conflict groups for metric labeling.
var groupLabel = [4]string{"direction-0", "direction-1", "direction-2", "snapshot"}

func labelFor(group int) string {
	if group < 0 || group >= len(groupLabel) {
		return "unknown"
	}
	return groupLabel[group]
}

// Recorder implements concurrentcube.MetricsRecorder with Prometheus
// counters, one per (group, outcome) pair.
type Recorder struct {
	admitted  *prometheus.CounterVec
	blocked   *prometheus.CounterVec
	cancelled *prometheus.CounterVec
}

// New registers the recorder's metrics against reg and returns the
// Recorder. reg may be prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		admitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concurrentcube",
			Name:      "admissions_total",
			Help:      "Number of admitted operations per conflict group.",
		}, []string{"group"}),
		blocked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concurrentcube",
			Name:      "blocked_total",
			Help:      "Number of operations that had to queue per conflict group.",
		}, []string{"group"}),
		cancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concurrentcube",
			Name:      "cancelled_total",
			Help:      "Number of queued operations cancelled before admission per conflict group.",
		}, []string{"group"}),
	}
	reg.MustRegister(r.admitted, r.blocked, r.cancelled)
	return r
}

// Admitted implements concurrentcube.MetricsRecorder.
func (r *Recorder) Admitted(group int) {
	r.admitted.WithLabelValues(labelFor(group)).Inc()
}

// Blocked implements concurrentcube.MetricsRecorder.
func (r *Recorder) Blocked(group int) {
	r.blocked.WithLabelValues(labelFor(group)).Inc()
}

// Cancelled implements concurrentcube.MetricsRecorder.
func (r *Recorder) Cancelled(group int) {
	r.cancelled.WithLabelValues(labelFor(group)).Inc()
}
