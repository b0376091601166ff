package stats

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromSinkRecordsHitsAndMisses(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewPromSink(reg, "crasim_test")

	s.Hit(1)
	s.Hit(2)
	s.Miss(3)

	var m dto.Metric
	require.NoError(t, s.hits.Write(&m))
	assert.Equal(t, 2.0, m.GetCounter().GetValue())

	m = dto.Metric{}
	require.NoError(t, s.misses.Write(&m))
	assert.Equal(t, 1.0, m.GetCounter().GetValue())
}

func TestPromSinkWindowPercentGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewPromSink(reg, "crasim_test_gauge")

	s.PercentAdaption(0.42)

	var m dto.Metric
	require.NoError(t, s.windowPercent.Write(&m))
	assert.InDelta(t, 0.42, m.GetGauge().GetValue(), 1e-9)
}
