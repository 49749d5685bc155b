package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordOnOwnRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.FrameSent()
	m.FrameSent()
	m.DecodeError()
	m.MessagesSwept(3)
	m.MessagesSwept(0)
	m.SetActivePlaybacks(2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.framesSent))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.decodeErrors))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.messagesSwept))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.activePlaybacks))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 8)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.FrameSent()
		m.FrameReceived()
		m.DecodeError()
		m.DeliveryFailure()
		m.SynthesisFailure()
		m.CaptureFailure()
		m.MessagesSwept(4)
		m.SetActivePlaybacks(1)
	})
}
