package climber

import "math"

// moment is the shared first/second-moment bookkeeping for Adam and Nadam.
type moment struct {
	sample sample

	sampleSize float64
	stepSize   float64
	beta1      float64
	beta2      float64
	epsilon    float64

	m, v float64
	t    int

	previousAvg float64
	hasPrevious bool
}

func (m *moment) ready() bool { return float64(m.sample.count) >= m.sampleSize }

// gradientStep folds the completed sample into the running moments and
// returns the gradient and bias-corrected moment estimates.
func (m *moment) gradientStep() (g, mHat, vHat float64) {
	avg := m.sample.average()
	if m.hasPrevious {
		g = avg - m.previousAvg
	}
	m.t++
	m.m = m.beta1*m.m + (1-m.beta1)*g
	m.v = m.beta2*m.v + (1-m.beta2)*g*g
	mHat = m.m / (1 - math.Pow(m.beta1, float64(m.t)))
	vHat = m.v / (1 - math.Pow(m.beta2, float64(m.t)))

	m.previousAvg = avg
	m.hasPrevious = true
	m.sample.reset()
	return g, mHat, vHat
}

// Adam is a first-and-second-moment optimizer driven by the gradient of
// average sampled penalty.
type Adam struct {
	moment
}

// NewAdam builds an Adam climber. stepSize and sampleSize are absolute
// entry counts.
func NewAdam(stepSize, sampleSize, beta1, beta2, epsilon float64) *Adam {
	return &Adam{moment{stepSize: stepSize, sampleSize: sampleSize, beta1: beta1, beta2: beta2, epsilon: epsilon}}
}

func (c *Adam) OnHit(penalty float64, segment Segment, isFull bool) {
	c.sample.onHit(penalty, segment, isFull)
}

func (c *Adam) OnMiss(penalty float64, isFull bool) {
	c.sample.onMiss(penalty, isFull)
}

func (c *Adam) Adapt(windowSize, probationSize, protectedSize int, isFull bool) Adaptation {
	if !c.ready() {
		return Adaptation{Kind: Hold}
	}
	_, mHat, vHat := c.gradientStep()
	step := c.stepSize / (math.Sqrt(vHat) + c.epsilon) * mHat
	return toAdaptation(step)
}
