package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himelbrand/crasim/internal/cra"
	"github.com/himelbrand/crasim/internal/sketch"
)

func newTestWindowCA(t *testing.T, maximumSize int) *WindowCA {
	t.Helper()
	sk, err := sketch.New("perfect", uint64(maximumSize))
	require.NoError(t, err)
	p, err := NewWindowCA(WindowCAConfig{
		MaximumSize:          maximumSize,
		PercentMain:          0.75,
		PercentMainProtected: 0.5,
		MaxLists:             4,
		K:                    1,
		Sketch:               sk,
	})
	require.NoError(t, err)
	return p
}

func TestSegmentSizesRespectInvariant(t *testing.T) {
	maxWindow, maxProtected, maxProbation := segmentSizes(WindowCAConfig{
		MaximumSize:          100,
		PercentMain:          0.9,
		PercentMainProtected: 0.8,
	})
	assert.Equal(t, 100, maxWindow+maxProtected+maxProbation)
	assert.Greater(t, maxWindow, 0)
	assert.Greater(t, maxProtected, 0)
	assert.Greater(t, maxProbation, 0)
}

func TestWindowCAMissThenHit(t *testing.T) {
	p := newTestWindowCA(t, 8)

	hit, err := p.Record(cra.AccessEvent{Key: 1, MissPenalty: 5})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.True(t, p.Contains(1))
	assert.Equal(t, 1, p.Len())

	hit, err = p.Record(cra.AccessEvent{Key: 1, MissPenalty: 5})
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestWindowCAContainsUnknownKeyIsFalse(t *testing.T) {
	p := newTestWindowCA(t, 8)
	assert.False(t, p.Contains(123))
}

func TestWindowCANeverExceedsMaximumSize(t *testing.T) {
	p := newTestWindowCA(t, 8)
	for i := uint64(0); i < 64; i++ {
		_, err := p.Record(cra.AccessEvent{Key: i, MissPenalty: float64(i%7) + 1})
		require.NoError(t, err)
		assert.LessOrEqual(t, p.Len(), 8)
	}
}

func TestWindowCANegativeDeltaRemovedOnHit(t *testing.T) {
	p := newTestWindowCA(t, 8)
	hit, err := p.Record(cra.AccessEvent{Key: 1, HitPenalty: 10, MissPenalty: 1})
	require.NoError(t, err)
	assert.False(t, hit)
	// a negative-delta miss is admitted into Window's bucket 0
	assert.True(t, p.Contains(1))
	assert.Equal(t, 1, p.Len())

	// the next touch sees delta < 0 and removes it
	hit, err = p.Record(cra.AccessEvent{Key: 1, HitPenalty: 10, MissPenalty: 1})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.False(t, p.Contains(1))
	assert.Equal(t, 0, p.Len())
}

func TestWindowCARecordsAdmittorFrequencyOnHit(t *testing.T) {
	sk, err := sketch.New("perfect", 8)
	require.NoError(t, err)
	p, err := NewWindowCA(WindowCAConfig{
		MaximumSize:          8,
		PercentMain:          0.75,
		PercentMainProtected: 0.5,
		MaxLists:             4,
		K:                    1,
		Sketch:               sk,
	})
	require.NoError(t, err)

	_, err = p.Record(cra.AccessEvent{Key: 1, MissPenalty: 5})
	require.NoError(t, err)
	assert.Equal(t, uint32(1), sk.Frequency(1))

	_, err = p.Record(cra.AccessEvent{Key: 1, MissPenalty: 5})
	require.NoError(t, err)
	assert.Equal(t, uint32(2), sk.Frequency(1), "a hit must also be recorded into the admittor's frequency sketch")
}

func TestWindowCAPromotesOnProbationHit(t *testing.T) {
	p := newTestWindowCA(t, 8)

	for i := uint64(0); i < 8; i++ {
		_, err := p.Record(cra.AccessEvent{Key: i, MissPenalty: float64(i + 1)})
		require.NoError(t, err)
	}
	w, prob, prot := p.segmentSize()
	assert.Equal(t, 8, w+prob+prot)

	if prob > 0 {
		// re-access a key resident in probation; it should land in protected
		for key, seg := range p.data {
			if seg == segProbation {
				hit, err := p.Record(cra.AccessEvent{Key: key, MissPenalty: 3})
				require.NoError(t, err)
				assert.True(t, hit)
				assert.Equal(t, segProtected, p.data[key])
				break
			}
		}
	}
}
