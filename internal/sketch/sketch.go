// Package sketch implements the frequency-estimator boundary the
// cost/latency-aware engine treats as an external collaborator: an
// "increment(key)"/"frequency(key)" sketch, and the LATinyLFU admittor
// built on top of it.
package sketch

import "github.com/pkg/errors"

// Sketch is an approximate (or exact) frequency counter keyed on the
// trace's already-numeric key space.
type Sketch interface {
	Increment(key uint64)
	Frequency(key uint64) uint32
	Reset()
}

// ErrUnknownSketch is returned by New for an unrecognized strategy name —
// the "sketch type unknown" constructor error from the error taxonomy.
var ErrUnknownSketch = errors.New("sketch: unknown sketch strategy")

// New builds the named Sketch implementation. size is the number of
// distinct counters to provision (per-strategy interpretation).
func New(strategy string, size uint64) (Sketch, error) {
	switch strategy {
	case "", "cm4":
		return newCM4(size), nil
	case "bloomfreq":
		return newBloomFreq(size), nil
	case "perfect":
		return newPerfect(), nil
	default:
		return nil, errors.Wrapf(ErrUnknownSketch, "strategy %q", strategy)
	}
}
