package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultIsInvalidWithoutMaximumSize(t *testing.T) {
	err := Default().Validate()
	assert.ErrorIs(t, err, ErrInvalidMaximumSize)
}

func TestDefaultWithMaximumSizeValidates(t *testing.T) {
	cfg := Default()
	cfg.MaximumSize = 1000
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsOutOfRangePercent(t *testing.T) {
	cfg := Default()
	cfg.MaximumSize = 1000
	cfg.PercentMain = 1.5
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidPercent)
}

func TestValidateRejectsBadMaxLists(t *testing.T) {
	cfg := Default()
	cfg.MaximumSize = 1000
	cfg.MaxLists = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidMaxLists)
}

func TestValidateRejectsUnknownStrategy(t *testing.T) {
	cfg := Default()
	cfg.MaximumSize = 1000
	cfg.Strategy = "bogus"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidStrategy)
}

func TestValidateRejectsUnknownSketch(t *testing.T) {
	cfg := Default()
	cfg.MaximumSize = 1000
	cfg.Sketch = "bogus"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidSketch)
}

func TestValidateAcceptsEmptyStrategyAndSketch(t *testing.T) {
	cfg := Default()
	cfg.MaximumSize = 1000
	cfg.Strategy = ""
	cfg.Sketch = ""
	assert.NoError(t, cfg.Validate())
}
