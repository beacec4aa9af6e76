package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts camera commits and input activity. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	CameraCommits    *prometheus.CounterVec
	CameraClamps     *prometheus.CounterVec
	CameraAnimations *prometheus.CounterVec
	InputIntents     *prometheus.CounterVec
	InputTransitions *prometheus.CounterVec
	ListenerFailures prometheus.Counter
	DeviceAnomalies  prometheus.Counter
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer to
// expose them globally, or a fresh registry to keep them private.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CameraCommits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "boardcam_camera_commits_total",
			Help: "Total number of committed camera mutations",
		}, []string{"axis"}),
		CameraClamps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "boardcam_camera_clamps_total",
			Help: "Total number of camera requests altered by a constraint",
		}, []string{"axis"}),
		CameraAnimations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "boardcam_camera_animations_total",
			Help: "Total number of camera animations by outcome",
		}, []string{"axis", "outcome"}),
		InputIntents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "boardcam_input_intents_total",
			Help: "Total number of semantic intents emitted by the input machine",
		}, []string{"kind"}),
		InputTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "boardcam_input_transitions_total",
			Help: "Total number of input machine state transitions",
		}, []string{"from", "to"}),
		ListenerFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "boardcam_listener_failures_total",
			Help: "Total number of notification listeners that panicked",
		}),
		DeviceAnomalies: factory.NewCounter(prometheus.CounterOpts{
			Name: "boardcam_input_device_anomalies_total",
			Help: "Total number of unmatched or out-of-order device events recovered",
		}),
	}
}

func (m *Metrics) IncrementCommit(axis string) {
	if m == nil {
		return
	}
	m.CameraCommits.WithLabelValues(axis).Inc()
}

func (m *Metrics) IncrementClamp(axis string) {
	if m == nil {
		return
	}
	m.CameraClamps.WithLabelValues(axis).Inc()
}

// IncrementAnimation records an animation outcome: started, finished or cancelled
func (m *Metrics) IncrementAnimation(axis, outcome string) {
	if m == nil {
		return
	}
	m.CameraAnimations.WithLabelValues(axis, outcome).Inc()
}

func (m *Metrics) IncrementIntent(kind string) {
	if m == nil {
		return
	}
	m.InputIntents.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementTransition(from, to string) {
	if m == nil {
		return
	}
	m.InputTransitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) IncrementListenerFailures() {
	if m == nil {
		return
	}
	m.ListenerFailures.Inc()
}

func (m *Metrics) IncrementDeviceAnomalies() {
	if m == nil {
		return
	}
	m.DeviceAnomalies.Inc()
}
