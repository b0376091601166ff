package trace

import (
	"strings"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByStrategyDispatch(t *testing.T) {
	_, err := ByStrategy("dns")
	require.NoError(t, err)
	_, err = ByStrategy("latency")
	require.NoError(t, err)
	_, err = ByStrategy("address-penalties")
	require.NoError(t, err)

	_, err = ByStrategy("nonsense")
	assert.Error(t, err)
}

func TestParseDNS(t *testing.T) {
	ev, err := ParseDNS("example.com 1.5 20\n", nil)
	require.NoError(t, err)
	assert.Equal(t, xxhash.Sum64String("example.com"), ev.Key)
	assert.Equal(t, 1.5, ev.HitPenalty)
	assert.Equal(t, 20.0, ev.MissPenalty)
}

func TestParseDNSRejectsMalformedLine(t *testing.T) {
	_, err := ParseDNS("example.com 1.5\n", nil)
	assert.ErrorIs(t, err, ErrBadLine)
}

func TestParseLatencyFoldsSmallID(t *testing.T) {
	ev, err := ParseLatency("42 1 2\n", nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), ev.Key)
}

func TestParseLatencyFoldsWideID(t *testing.T) {
	// 2^70 does not fit in 64 bits; folding XORs the high/low 64-bit words.
	wide := "1180591620717411303424" // 2^70
	ev, err := ParseLatency(wide+" 1 2\n", nil)
	require.NoError(t, err)
	assert.NotZero(t, ev.Key)
}

func TestParseLatencyRejectsNegativeID(t *testing.T) {
	_, err := ParseLatency("-1 1 2\n", nil)
	assert.ErrorIs(t, err, ErrBadLine)
}

func TestParseAddressPenalties(t *testing.T) {
	ev, err := ParseAddressPenalties("R 0x1A 4 1.2 9.9\n", nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1A), ev.Key)
	assert.Equal(t, 1.2, ev.HitPenalty)
	assert.Equal(t, 9.9, ev.MissPenalty)
}

func TestParseAddressPenaltiesRejectsBadHex(t *testing.T) {
	_, err := ParseAddressPenalties("R zz 4 1.2 9.9\n", nil)
	assert.ErrorIs(t, err, ErrBadLine)
}

func TestNewSourceDrainsUntilDone(t *testing.T) {
	r := strings.NewReader("example.com 1 2\nother.com 3 4\n")
	src := NewSource(ParseDNS, r)

	events, err := Drain(src)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, xxhash.Sum64String("example.com"), events[0].Key)
	assert.Equal(t, xxhash.Sum64String("other.com"), events[1].Key)
}

func TestNewSourceHandlesUnterminatedFinalLine(t *testing.T) {
	r := strings.NewReader("example.com 1 2")
	src := NewSource(ParseDNS, r)

	ev, err := src()
	require.NoError(t, err)
	assert.Equal(t, xxhash.Sum64String("example.com"), ev.Key)

	_, err = src()
	assert.ErrorIs(t, err, ErrDone)
}
