package sketch

import (
	"encoding/binary"

	"github.com/bits-and-blooms/bloom/v3"
)

// bloomFreqFalsePositiveRate is the target false-positive rate for the
// doorkeeper bit-vector.
const bloomFreqFalsePositiveRate = 0.01

// bloomFreq is a frequency sketch gated by a doorkeeper bloom filter, the
// admission-filter optimization described in the TinyLFU paper §3.4.2 (the
// teacher's own Filter/doorkeeper, filter.go, is the same idea applied to
// admission rather than frequency: a key's first touch only sets a bit, so
// one-off keys never grow a counter). A key resident in the doorkeeper
// reports frequency = backing-counter + 1; falling out of the doorkeeper
// on Reset, together with halving the backing counter, keeps relative
// frequency bounded the same way cm4's Reset does.
type bloomFreq struct {
	doorkeeper *bloom.BloomFilter
	counters   *cm4
}

func newBloomFreq(size uint64) *bloomFreq {
	if size == 0 {
		size = 1
	}
	return &bloomFreq{
		doorkeeper: bloom.NewWithEstimates(uint(size), bloomFreqFalsePositiveRate),
		counters:   newCM4(size),
	}
}

func keyBytes(key uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], key)
	return buf[:]
}

func (s *bloomFreq) Increment(key uint64) {
	b := keyBytes(key)
	if s.doorkeeper.TestAndAdd(b) {
		s.counters.Increment(key)
	}
}

func (s *bloomFreq) Frequency(key uint64) uint32 {
	freq := s.counters.Frequency(key)
	if s.doorkeeper.Test(keyBytes(key)) {
		freq++
	}
	return freq
}

func (s *bloomFreq) Reset() {
	s.doorkeeper.ClearAll()
	s.counters.Reset()
}
