package policy

import (
	"math"

	"github.com/himelbrand/crasim/internal/climber"
	"github.com/himelbrand/crasim/internal/cra"
	"github.com/himelbrand/crasim/internal/sketch"
)

// AdaptiveCA wraps WindowCA with a hill climber that resizes Window
// against Protected once per sample period, grounded on §4.4 and the
// teacher's own segmentation knobs (tinylfu.WithSegmentation) made
// dynamic instead of fixed at construction.
type AdaptiveCA struct {
	*WindowCA
	climb climber.Climber

	// windowSize is the running, unrounded Window size §4.4 requires: each
	// period's climber.Adaptation.Amount accumulates here (signed by Kind)
	// even when it is too small to move the integer capacity on its own.
	// The capacity change actually applied is the floor-difference between
	// successive values, so a run of sub-1 steps still adds up to a real
	// resize instead of being discarded every period.
	windowSize float64
}

// NewAdaptiveCA builds an AdaptiveCA over the same segmentation as
// WindowCA, driven by climb.
func NewAdaptiveCA(cfg WindowCAConfig, climb climber.Climber, opts ...Option) (*AdaptiveCA, error) {
	base, err := NewWindowCA(cfg, opts...)
	if err != nil {
		return nil, err
	}
	maxWindow, _, _ := base.segmentCapacity()
	return &AdaptiveCA{WindowCA: base, climb: climb, windowSize: float64(maxWindow)}, nil
}

// Record overrides WindowCA's embedded method: it performs the same
// segment bookkeeping via touch, then feeds the climber and, once the
// climber is ready, applies the resulting Window/Protected resize.
func (p *AdaptiveCA) Record(ev cra.AccessEvent) (bool, error) {
	full := p.isFull()
	hit, wasMiss, seg, err := p.touch(ev)
	if err != nil {
		return hit, err
	}

	if wasMiss {
		p.climb.OnMiss(ev.MissPenalty, full)
	} else {
		climberSeg := climber.SegmentMain
		if seg == segWindow {
			climberSeg = climber.SegmentWindow
		}
		p.climb.OnHit(ev.HitPenalty, climberSeg, full)
	}

	windowSize, probationSize, protectedSize := p.segmentSize()
	proposal := p.climb.Adapt(windowSize, probationSize, protectedSize, full)

	var quota float64
	switch proposal.Kind {
	case climber.IncreaseWindow:
		quota = proposal.Amount
	case climber.DecreaseWindow:
		quota = -proposal.Amount
	}

	before := math.Floor(p.windowSize)
	p.windowSize += quota
	steps := int(math.Floor(p.windowSize) - before)

	kind := climber.Hold
	amount := steps
	switch {
	case steps > 0:
		kind = climber.IncreaseWindow
	case steps < 0:
		kind = climber.DecreaseWindow
		amount = -steps
	}

	if applyErr := p.apply(kind, amount); applyErr != nil {
		return hit, applyErr
	}
	if kind != climber.Hold {
		p.opts.sink.PercentAdaption(float64(windowSize) / float64(p.maximumSize))
	}
	return hit, nil
}

// apply implements §4.4's "Applying an adaptation": growing Window takes
// capacity from Protected one unit at a time, demoting Protected's own
// victim to Probation if that now overflows and then pulling Probation's
// victim into the freed Window slot; shrinking is the mirror image. kind
// and amount are already the accumulated integer steps, not a climber's
// raw proposal — see Record.
func (p *AdaptiveCA) apply(kind climber.Kind, amount int) error {
	switch kind {
	case climber.Hold:
		return nil
	case climber.IncreaseWindow:
		return p.growWindow(amount)
	case climber.DecreaseWindow:
		return p.shrinkWindow(amount)
	}
	return nil
}

func (p *AdaptiveCA) growWindow(amount int) error {
	maxWindow, _, maxProtected := p.segmentCapacity()
	quota := amount
	if quota > maxProtected {
		quota = maxProtected
	}
	for i := 0; i < quota; i++ {
		maxWindow++
		maxProtected--
		p.window.SetCapacity(uint64(maxWindow))
		p.protected.SetCapacity(uint64(maxProtected))

		if p.protected.Len() > maxProtected {
			if victim, ok := p.popProtectedVictim(); ok {
				if err := p.demoteToProbation(victim); err != nil {
					return err
				}
			}
		}
		if ev, ok := p.popProbationVictim(); ok {
			if err := p.insertIntoWindow(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *AdaptiveCA) shrinkWindow(amount int) error {
	maxWindow, _, maxProtected := p.segmentCapacity()
	quota := amount
	if quota > maxWindow {
		quota = maxWindow
	}
	for i := 0; i < quota; i++ {
		maxWindow--
		maxProtected++
		p.window.SetCapacity(uint64(maxWindow))
		p.protected.SetCapacity(uint64(maxProtected))

		if ev, ok := p.popWindowVictim(); ok {
			if err := p.demoteToProbation(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// NewSketchFor is a convenience wrapper used by the simulator driver to
// build the Sketch a WindowCA/AdaptiveCA's admittor sits on, per the
// `strategy`/`sketch` config key (§6).
func NewSketchFor(strategy string, size uint64) (sketch.Sketch, error) {
	return sketch.New(strategy, size)
}
