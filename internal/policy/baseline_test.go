package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himelbrand/crasim/internal/cra"
)

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	p := NewLRU(2)

	hit, err := p.Record(cra.AccessEvent{Key: 1})
	require.NoError(t, err)
	assert.False(t, hit)

	_, err = p.Record(cra.AccessEvent{Key: 2})
	require.NoError(t, err)

	// touch 1 again so 2 becomes the LRU victim
	hit, err = p.Record(cra.AccessEvent{Key: 1})
	require.NoError(t, err)
	assert.True(t, hit)

	_, err = p.Record(cra.AccessEvent{Key: 3})
	require.NoError(t, err)

	assert.True(t, p.Contains(1))
	assert.False(t, p.Contains(2))
	assert.True(t, p.Contains(3))
	assert.Equal(t, 2, p.Len())
}

func TestWLFUWindowFillsBeforeMain(t *testing.T) {
	p := NewWLFU(200)
	hit, err := p.Record(cra.AccessEvent{Key: 1, MissPenalty: 1})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.True(t, p.Contains(1))

	hit, err = p.Record(cra.AccessEvent{Key: 1, MissPenalty: 1})
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestNoneNeverHits(t *testing.T) {
	p := NewNone()
	for i := uint64(0); i < 5; i++ {
		hit, err := p.Record(cra.AccessEvent{Key: i, MissPenalty: 1})
		require.NoError(t, err)
		assert.False(t, hit)
	}
	assert.Equal(t, 0, p.Len())
	assert.False(t, p.Contains(0))
}
