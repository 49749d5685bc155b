package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "talkie"

// Metrics holds the session collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	framesSent        prometheus.Counter
	framesReceived    prometheus.Counter
	decodeErrors      prometheus.Counter
	deliveryFailures  prometheus.Counter
	synthesisFailures prometheus.Counter
	captureFailures   prometheus.Counter
	messagesSwept     prometheus.Counter
	activePlaybacks   prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		framesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_frames_sent_total",
			Help:      "Audio frames published to the room",
		}),
		framesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_frames_received_total",
			Help:      "Audio frames decoded and handed to playback",
		}),
		decodeErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_decode_errors_total",
			Help:      "Inbound audio frames dropped because they could not be decoded",
		}),
		deliveryFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bus_delivery_failures_total",
			Help:      "Envelopes the room bus failed to deliver",
		}),
		synthesisFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "announcer_failures_total",
			Help:      "Announcements that failed to synthesize",
		}),
		captureFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "capture_failures_total",
			Help:      "Capture acquisitions that failed",
		}),
		messagesSwept: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_swept_total",
			Help:      "Chat log entries evicted by the retention sweep",
		}),
		activePlaybacks: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_playbacks",
			Help:      "Inbound playbacks currently running",
		}),
	}
}

func (m *Metrics) FrameSent() {
	if m != nil {
		m.framesSent.Inc()
	}
}

func (m *Metrics) FrameReceived() {
	if m != nil {
		m.framesReceived.Inc()
	}
}

func (m *Metrics) DecodeError() {
	if m != nil {
		m.decodeErrors.Inc()
	}
}

func (m *Metrics) DeliveryFailure() {
	if m != nil {
		m.deliveryFailures.Inc()
	}
}

func (m *Metrics) SynthesisFailure() {
	if m != nil {
		m.synthesisFailures.Inc()
	}
}

func (m *Metrics) CaptureFailure() {
	if m != nil {
		m.captureFailures.Inc()
	}
}

func (m *Metrics) MessagesSwept(n int) {
	if m != nil && n > 0 {
		m.messagesSwept.Add(float64(n))
	}
}

func (m *Metrics) SetActivePlaybacks(n int) {
	if m != nil {
		m.activePlaybacks.Set(float64(n))
	}
}
