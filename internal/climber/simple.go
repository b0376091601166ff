package climber

import "math"

// Floors below which the Simple climber freezes adaptation rather than
// continuing to shrink its step/sample size toward zero.
const (
	simpleStepSizeFloor   = 0.0625
	simpleSampleSizeFloor = 1
	simpleFrozenSample    = math.MaxInt32
)

// Simple is a hill climber that keeps a direction flag and a decaying
// step/sample size, flipping direction when the average penalty worsens
// beyond tolerance and restarting its schedule after a large jump.
type Simple struct {
	sample sample

	direction float64
	stepSize  float64
	sampleSz  float64

	initialStepSize   float64
	initialSampleSize float64

	tolerance        float64
	stepDecayRate    float64
	sampleDecayRate  float64
	restartThreshold float64

	previousAvg float64
	hasPrevious bool
}

// NewSimple builds a Simple climber. initialStepSize and initialSampleSize
// are absolute entry counts (percent_pivot/percent_sample already scaled
// by capacity).
func NewSimple(initialStepSize, initialSampleSize, tolerance, stepDecayRate, sampleDecayRate, restartThreshold float64) *Simple {
	return &Simple{
		direction:         1,
		stepSize:          initialStepSize,
		sampleSz:          initialSampleSize,
		initialStepSize:   initialStepSize,
		initialSampleSize: initialSampleSize,
		tolerance:         tolerance,
		stepDecayRate:     stepDecayRate,
		sampleDecayRate:   sampleDecayRate,
		restartThreshold:  restartThreshold,
	}
}

func (c *Simple) OnHit(penalty float64, segment Segment, isFull bool) {
	c.sample.onHit(penalty, segment, isFull)
}

func (c *Simple) OnMiss(penalty float64, isFull bool) {
	c.sample.onMiss(penalty, isFull)
}

func (c *Simple) Adapt(windowSize, probationSize, protectedSize int, isFull bool) Adaptation {
	if float64(c.sample.count) < c.sampleSz {
		return Adaptation{Kind: Hold}
	}
	avg := c.sample.average()

	var step float64
	if !c.hasPrevious || c.previousAvg == 0 {
		step = c.direction * c.stepSize
	} else {
		change := avg / c.previousAvg
		if change > 1+c.tolerance {
			c.direction = -c.direction
		}
		if math.Abs(change-1) > c.restartThreshold {
			c.stepSize = c.initialStepSize
			c.sampleSz = c.initialSampleSize
		} else {
			c.stepSize *= c.stepDecayRate
			c.sampleSz *= c.sampleDecayRate
			if c.stepSize < simpleStepSizeFloor || c.sampleSz < simpleSampleSizeFloor {
				c.sampleSz = simpleFrozenSample
			}
		}
		step = c.direction * c.stepSize
	}

	c.previousAvg = avg
	c.hasPrevious = true
	c.sample.reset()
	return toAdaptation(step)
}
