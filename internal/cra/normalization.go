package cra

// normalizationSampleWindow is how many large-delta samples are averaged
// before the running mean is published as the new factor (see §4.1).
const normalizationSampleWindow = 1000

// Normalizer owns the running (bias, factor) linear mapping from delta to
// bucket index, and pushes it out to every CraBlock a policy owns. Factoring
// this out of each policy (rather than letting WindowCA and AdaptiveCA each
// keep their own bias/factor bookkeeping, as the bucketing source does)
// keeps every block a policy owns looking at the same normalization.
type Normalizer struct {
	bias   float64
	factor float64

	sampleSum   float64
	sampleCount int
}

// NewNormalizer returns a Normalizer with a zero bias and a factor that is
// set by the first Observe call that sees a positive delta.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Bias and Factor return the current published mapping.
func (n *Normalizer) Bias() float64   { return n.bias }
func (n *Normalizer) Factor() float64 { return n.factor }

// Observe folds a newly seen delta (from a miss) into the running
// estimators and reports whether (bias, factor) changed as a result.
func (n *Normalizer) Observe(delta float64) (changed bool) {
	nonNeg := delta
	if nonNeg < 0 {
		nonNeg = 0
	}
	if n.bias > 0 {
		if nonNeg < n.bias {
			n.bias = nonNeg
			changed = true
		}
	} else if nonNeg > 0 {
		n.bias = nonNeg
		changed = true
	}

	if delta > n.factor {
		n.sampleSum += delta
		n.sampleCount++
		if n.factor == 0 || n.sampleCount >= normalizationSampleWindow {
			n.factor = n.sampleSum / float64(n.sampleCount)
			n.sampleSum, n.sampleCount = 0, 0
			changed = true
		}
	}
	return changed
}

// Publish propagates the current (bias, factor) into every block.
func (n *Normalizer) Publish(blocks ...*CraBlock) {
	for _, b := range blocks {
		b.SetNormalization(n.bias, n.factor)
	}
}
