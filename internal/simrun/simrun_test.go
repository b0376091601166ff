package simrun

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himelbrand/crasim/internal/config"
	"github.com/himelbrand/crasim/internal/stats"
	"github.com/himelbrand/crasim/internal/trace"
)

func TestNewPolicyPlainWindowCA(t *testing.T) {
	cfg := config.Default()
	cfg.MaximumSize = 16
	cfg.Sketch = "perfect"

	p, err := NewPolicy(cfg, stats.NopSink{})
	require.NoError(t, err)
	assert.Equal(t, 0, p.Len())
}

func TestNewPolicyAdaptiveCA(t *testing.T) {
	cfg := config.Default()
	cfg.MaximumSize = 16
	cfg.Sketch = "perfect"
	cfg.Strategy = "simple"

	p, err := NewPolicy(cfg, stats.NopSink{})
	require.NoError(t, err)
	assert.Equal(t, 0, p.Len())
}

func TestNewPolicyUnknownStrategyErrors(t *testing.T) {
	cfg := config.Default()
	cfg.MaximumSize = 16
	cfg.Strategy = "nonsense"

	_, err := NewPolicy(cfg, stats.NopSink{})
	assert.Error(t, err)
}

func TestRunDrivesSourceToCompletion(t *testing.T) {
	cfg := config.Default()
	cfg.MaximumSize = 4
	cfg.Sketch = "perfect"

	p, err := NewPolicy(cfg, stats.NopSink{})
	require.NoError(t, err)

	r := strings.NewReader("a.com 1 2\nb.com 1 2\na.com 1 2\n")
	src := trace.NewSource(trace.ParseDNS, r)

	res, err := Run(p, src)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Events)
	assert.Equal(t, 1, res.Hits)
	assert.Equal(t, 2, res.Misses)
}
