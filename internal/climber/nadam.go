package climber

import "math"

// Nadam is Adam with Nesterov-accelerated momentum folded into the update.
type Nadam struct {
	moment
}

// NewNadam builds a Nadam climber. stepSize and sampleSize are absolute
// entry counts.
func NewNadam(stepSize, sampleSize, beta1, beta2, epsilon float64) *Nadam {
	return &Nadam{moment{stepSize: stepSize, sampleSize: sampleSize, beta1: beta1, beta2: beta2, epsilon: epsilon}}
}

func (c *Nadam) OnHit(penalty float64, segment Segment, isFull bool) {
	c.sample.onHit(penalty, segment, isFull)
}

func (c *Nadam) OnMiss(penalty float64, isFull bool) {
	c.sample.onMiss(penalty, isFull)
}

func (c *Nadam) Adapt(windowSize, probationSize, protectedSize int, isFull bool) Adaptation {
	if !c.ready() {
		return Adaptation{Kind: Hold}
	}
	g, mHat, vHat := c.gradientStep()
	nesterov := c.beta1*mHat + (1-c.beta1)/(1-math.Pow(c.beta1, float64(c.t)))*g
	step := c.stepSize / (math.Sqrt(vHat) + c.epsilon) * nesterov
	return toAdaptation(step)
}
