package cra

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCraBlockRejectsBadArgs(t *testing.T) {
	_, err := NewCraBlock(0, 4, 1)
	assert.ErrorIs(t, err, ErrBadCapacity)

	_, err = NewCraBlock(4, 0, 1)
	assert.ErrorIs(t, err, ErrBadMaxLists)
}

func TestAddEntryFillsWithoutEviction(t *testing.T) {
	b, err := NewCraBlock(4, 4, 1)
	require.NoError(t, err)
	b.SetNormalization(0, 10)

	for i := uint64(1); i <= 4; i++ {
		evicted, err := b.AddEntry(AccessEvent{Key: i, MissPenalty: float64(i)})
		require.NoError(t, err)
		assert.Empty(t, evicted)
	}
	assert.Equal(t, 4, b.Len())
	assert.Equal(t, uint64(4), b.Size())
}

func TestAddEntryEvictsWhenOverCapacity(t *testing.T) {
	b, err := NewCraBlock(2, 4, 1)
	require.NoError(t, err)
	b.SetNormalization(0, 10)

	_, err = b.AddEntry(AccessEvent{Key: 1, MissPenalty: 1})
	require.NoError(t, err)
	_, err = b.AddEntry(AccessEvent{Key: 2, MissPenalty: 2})
	require.NoError(t, err)

	evicted, err := b.AddEntry(AccessEvent{Key: 3, MissPenalty: 3})
	require.NoError(t, err)
	require.Len(t, evicted, 1)
	assert.Equal(t, uint64(1), evicted[0].Key)
	assert.Equal(t, 2, b.Len())
	assert.False(t, b.Contains(1))
	assert.True(t, b.Contains(2))
	assert.True(t, b.Contains(3))
}

func TestAddEntryNegativeDeltaGoesToBucketZero(t *testing.T) {
	b, err := NewCraBlock(4, 4, 1)
	require.NoError(t, err)
	b.SetNormalization(0, 10)

	_, err = b.AddEntry(AccessEvent{Key: 1, HitPenalty: 5, MissPenalty: 1})
	require.NoError(t, err)
	_, err = b.AddEntry(AccessEvent{Key: 2, MissPenalty: 2})
	require.NoError(t, err)

	// Bucket 0 (negative delta) is always the victim, regardless of rank.
	victim, err := b.PeekVictim()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), victim.Key)
}

func TestAddEntryDropsWeightExceedingCapacity(t *testing.T) {
	b, err := NewCraBlock(2, 4, 1)
	require.NoError(t, err)
	b.SetNormalization(0, 10)

	evicted, err := b.AddEntry(AccessEvent{Key: 1, Weight: 3, MissPenalty: 1})
	require.NoError(t, err)
	assert.Empty(t, evicted)
	assert.False(t, b.Contains(1))
	assert.Equal(t, 0, b.Len())
}

func TestAddEntryRejectsNaNPenalty(t *testing.T) {
	b, err := NewCraBlock(4, 4, 1)
	require.NoError(t, err)

	_, err = b.AddEntry(AccessEvent{Key: 1, MissPenalty: math.NaN()})
	assert.ErrorIs(t, err, ErrNaNPenalty)
	assert.Equal(t, 0, b.Len())
}

func TestOnAccessRemovesNegativeDeltaNode(t *testing.T) {
	b, err := NewCraBlock(4, 4, 1)
	require.NoError(t, err)
	b.SetNormalization(0, 10)

	_, err = b.AddEntry(AccessEvent{Key: 1, MissPenalty: 5})
	require.NoError(t, err)

	hit, removed, err := b.OnAccess(1, AccessEvent{Key: 1, HitPenalty: 9, MissPenalty: 5})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.True(t, removed)
	assert.False(t, b.Contains(1))
}

func TestOnAccessMissReturnsFalse(t *testing.T) {
	b, err := NewCraBlock(4, 4, 1)
	require.NoError(t, err)

	hit, removed, err := b.OnAccess(99, AccessEvent{Key: 99, MissPenalty: 1})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.False(t, removed)
}

func TestRemoveReturningCarriesPenalties(t *testing.T) {
	b, err := NewCraBlock(4, 4, 1)
	require.NoError(t, err)
	b.SetNormalization(0, 10)

	_, err = b.AddEntry(AccessEvent{Key: 1, HitPenalty: 1, MissPenalty: 4})
	require.NoError(t, err)

	ev, ok := b.RemoveReturning(1)
	require.True(t, ok)
	assert.Equal(t, 1.0, ev.HitPenalty)
	assert.Equal(t, 4.0, ev.MissPenalty)
	assert.False(t, b.Contains(1))

	_, ok = b.RemoveReturning(1)
	assert.False(t, ok)
}

func TestFindVictimOnEmptyBlockIsInvariantViolation(t *testing.T) {
	b, err := NewCraBlock(4, 4, 1)
	require.NoError(t, err)

	_, err = b.FindVictim()
	var invErr *InvariantError
	assert.ErrorAs(t, err, &invErr)
}

// TestEndToEndScenario replays the deterministic Capacity=4, max_lists=4,
// k=1 walk-through: with factor 4 the deltas 1..4 land in buckets 1..4, and
// a lower delta gives a lower rank, so the lowest-delta resident is evicted
// first.
func TestEndToEndScenario(t *testing.T) {
	b, err := NewCraBlock(4, 4, 1)
	require.NoError(t, err)
	b.SetNormalization(0, 4)

	for i := uint64(1); i <= 4; i++ {
		_, err := b.AddEntry(AccessEvent{Key: i, MissPenalty: float64(i)})
		require.NoError(t, err)
	}
	assert.Equal(t, 4, b.Len())

	evicted, err := b.AddEntry(AccessEvent{Key: 5, MissPenalty: 5})
	require.NoError(t, err)
	require.Len(t, evicted, 1)
	assert.Equal(t, uint64(1), evicted[0].Key, "the lowest-delta resident should be evicted first")
}
