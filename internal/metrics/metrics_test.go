package metrics

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, c prometheus.Metric) float64 {
	t.Helper()
	var pb dto.Metric
	require.NoError(t, c.Write(&pb))
	if pb.Counter != nil {
		return pb.GetCounter().GetValue()
	}
	return pb.GetGauge().GetValue()
}

func TestCounters(t *testing.T) {
	m := New()

	m.ConversationCreated()
	m.MessageAppended()
	m.MessageAppended()
	m.MessageDropped()
	m.Overflow()
	m.SubscribersChanged(2)
	m.SubscribersChanged(-1)
	m.Upstream("openai", nil)
	m.Upstream("openai", errors.New("boom"))
	m.Upstream("openai", errors.New("boom"))

	require.Equal(t, 1.0, value(t, m.ConversationsCreated))
	require.Equal(t, 2.0, value(t, m.MessagesAppended))
	require.Equal(t, 1.0, value(t, m.MessagesDropped))
	require.Equal(t, 1.0, value(t, m.StreamOverflow))
	require.Equal(t, 1.0, value(t, m.StreamSubscribers))
	require.Equal(t, 1.0, value(t, m.UpstreamRequests.WithLabelValues("openai", OutcomeSuccess)))
	require.Equal(t, 2.0, value(t, m.UpstreamRequests.WithLabelValues("openai", OutcomeError)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ConversationCreated()
	m.MessageAppended()
	m.MessageDropped()
	m.Overflow()
	m.SubscribersChanged(1)
	m.Upstream("anthropic", nil)
}
