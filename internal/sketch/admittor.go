package sketch

// Admittor is the Loss-Aware TinyLFU admission filter: a candidate is
// admitted over an eviction victim only when its frequency-weighted delta
// strictly exceeds the victim's, so ties favor the resident entry (the
// same tie-break the teacher's TinyLFU doorkeeper/admission policy uses
// in policy.go: prefer what is already cached).
type Admittor struct {
	sketch Sketch
}

// NewAdmittor wraps an existing Sketch with the LATinyLFU admission rule.
func NewAdmittor(s Sketch) *Admittor {
	return &Admittor{sketch: s}
}

// Record folds a trace touch into the backing sketch. Call this on every
// access, hit or miss, so frequency estimates stay representative of the
// whole trace rather than just the admitted subset.
func (a *Admittor) Record(key uint64) {
	a.sketch.Increment(key)
}

// Admit decides whether candidateKey, with benefit candidateDelta, should
// displace victimKey, with benefit victimDelta. Both deltas are expected
// to be non-negative (miss costlier than hit); a candidate with a
// non-positive delta is never worth admitting.
func (a *Admittor) Admit(candidateKey uint64, candidateDelta float64, victimKey uint64, victimDelta float64) bool {
	if candidateDelta <= 0 {
		return false
	}
	candidateScore := candidateDelta * float64(a.sketch.Frequency(candidateKey))
	victimScore := victimDelta * float64(a.sketch.Frequency(victimKey))
	return candidateScore > victimScore
}

// Reset calls the backing sketch's Reset (cm4 and bloomfreq halve their
// counters, perfect zeroes them). No policy in this module calls it, so
// frequency history is not aged out during a run.
func (a *Admittor) Reset() {
	a.sketch.Reset()
}
