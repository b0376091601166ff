package sketch

import (
	"encoding/binary"

	farm "github.com/dgryski/go-farm"
)

// cm4Depth is the number of counter copies kept (rows): a single row, where
// the teacher's Count-Min-4 sketch keeps four.
const cm4Depth = 1

// cm4 is a Count-Min sketch with 4-bit counters, heavily based on the
// teacher's cmSketch/cmRow (sketch.go): one byte holds two counters, and
// Reset halves every counter rather than clearing it, preserving relative
// frequency across resets.
type cm4 struct {
	rows [cm4Depth]cm4Row
	mask uint64
}

type cm4Row []byte

func newCM4(numCounters uint64) *cm4 {
	numCounters = next2Power(numCounters)
	if numCounters < 2 {
		numCounters = 2
	}
	s := &cm4{mask: numCounters - 1}
	for i := range s.rows {
		s.rows[i] = make(cm4Row, numCounters/2)
	}
	return s
}

func (s *cm4) hash(key uint64) uint64 {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], key)
	return farm.Hash64(buf[:])
}

func (s *cm4) Increment(key uint64) {
	h := s.hash(key)
	for i := range s.rows {
		s.rows[i].increment(h & s.mask)
	}
}

func (s *cm4) Frequency(key uint64) uint32 {
	h := s.hash(key)
	min := byte(255)
	for i := range s.rows {
		if v := s.rows[i].get(h & s.mask); v < min {
			min = v
		}
	}
	return uint32(min)
}

func (s *cm4) Reset() {
	for _, r := range s.rows {
		r.reset()
	}
}

func (r cm4Row) get(n uint64) byte {
	return byte(r[n/2]>>((n&1)*4)) & 0x0f
}

func (r cm4Row) increment(n uint64) {
	i := n / 2
	shift := (n & 1) * 4
	v := (r[i] >> shift) & 0x0f
	if v < 15 {
		r[i] += 1 << shift
	}
}

func (r cm4Row) reset() {
	for i := range r {
		r[i] = (r[i] >> 1) & 0x77
	}
}

// next2Power rounds x up to the next power of 2.
func next2Power(x uint64) uint64 {
	x--
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	x |= x >> 32
	x++
	return x
}
