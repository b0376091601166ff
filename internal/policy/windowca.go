package policy

import (
	"github.com/himelbrand/crasim/internal/cra"
	"github.com/himelbrand/crasim/internal/sketch"
)

// segment identifies which CraBlock a resident key currently lives in.
type segment uint8

const (
	segWindow segment = iota
	segProbation
	segProtected
)

// WindowCA is the SLRU-main, latency-aware-admission policy: a Window
// segment feeds a two-tier Probation/Protected main cache, with a
// LATinyLFU admittor settling contests between a Window spill and the
// Probation victim, grounded on the teacher's tinylfu.Policy.Record /
// onMiss (tinylfu/tinylfu.go) with its single key-to-*element map and
// three segment lists replaced by three CraBlocks and an AccessEvent-wide
// data map.
type WindowCA struct {
	maximumSize int

	window    *cra.CraBlock
	probation *cra.CraBlock
	protected *cra.CraBlock

	norm     *cra.Normalizer
	admittor *sketch.Admittor

	data map[uint64]segment
	opts *options
}

// WindowCAConfig mirrors the configuration table in §6: percentMain splits
// total capacity into Window vs Main, percentMainProtected further splits
// Main into Probation vs Protected.
type WindowCAConfig struct {
	MaximumSize          int
	PercentMain          float64
	PercentMainProtected float64
	MaxLists             int
	K                     float64
	Sketch               sketch.Sketch
}

func segmentSizes(cfg WindowCAConfig) (maxWindow, maxProtected, maxProbation int) {
	maxMain := int(float64(cfg.MaximumSize) * cfg.PercentMain)
	if maxMain < 1 {
		maxMain = 1
	}
	if maxMain >= cfg.MaximumSize {
		maxMain = cfg.MaximumSize - 1
	}
	maxWindow = cfg.MaximumSize - maxMain
	if maxWindow < 1 {
		maxWindow = 1
	}

	maxProtected = int(float64(maxMain) * cfg.PercentMainProtected)
	if maxProtected < 1 {
		maxProtected = 1
	}
	if maxProtected >= maxMain {
		maxProtected = maxMain - 1
	}
	maxProbation = maxMain - maxProtected
	return maxWindow, maxProtected, maxProbation
}

// NewWindowCA builds a WindowCA policy. The three segment capacities are
// derived from cfg exactly as WithSegmentation does in the teacher's
// tinylfu package.
func NewWindowCA(cfg WindowCAConfig, opts ...Option) (*WindowCA, error) {
	maxWindow, maxProtected, maxProbation := segmentSizes(cfg)

	window, err := cra.NewCraBlock(uint64(maxWindow), cfg.MaxLists, cfg.K)
	if err != nil {
		return nil, err
	}
	probation, err := cra.NewCraBlock(uint64(maxProbation), cfg.MaxLists, cfg.K)
	if err != nil {
		return nil, err
	}
	protected, err := cra.NewCraBlock(uint64(maxProtected), cfg.MaxLists, cfg.K)
	if err != nil {
		return nil, err
	}

	return &WindowCA{
		maximumSize: cfg.MaximumSize,
		window:      window,
		probation:   probation,
		protected:   protected,
		norm:        cra.NewNormalizer(),
		admittor:    sketch.NewAdmittor(cfg.Sketch),
		data:        make(map[uint64]segment, cfg.MaximumSize),
		opts:        newOptions(opts...),
	}, nil
}

func (p *WindowCA) Len() int { return len(p.data) }

func (p *WindowCA) Contains(key uint64) bool {
	_, ok := p.data[key]
	return ok
}

// Record implements Policy.
func (p *WindowCA) Record(ev cra.AccessEvent) (bool, error) {
	hit, _, _, err := p.touch(ev)
	return hit, err
}

// touch is Record's full internal form, also used by AdaptiveCA to learn
// whether the event missed and which segment a hit landed in, for its
// climber's OnHit/OnMiss sampling.
func (p *WindowCA) touch(ev cra.AccessEvent) (hit bool, wasMiss bool, seg segment, err error) {
	p.admittor.Record(ev.Key)

	residentSeg, resident := p.data[ev.Key]
	if !resident {
		return false, true, 0, p.onMiss(ev)
	}

	switch residentSeg {
	case segWindow:
		estimate, _ := p.window.Get(ev.Key)
		h, removed, e := p.window.OnAccess(ev.Key, ev)
		if e != nil {
			return h, false, segWindow, e
		}
		if removed {
			delete(p.data, ev.Key)
		}
		p.opts.sink.Hit(ev.Key)
		p.opts.sink.WeightedHit(ev.Key, ev.EffectiveWeight())
		p.opts.sink.Penalty(true, ev.HitPenalty)
		p.opts.sink.Accuracy(ev.MissPenalty, estimate.MissPenalty)
		return h, false, segWindow, nil
	case segProtected:
		estimate, _ := p.protected.Get(ev.Key)
		h, removed, e := p.protected.OnAccess(ev.Key, ev)
		if e != nil {
			return h, false, segProtected, e
		}
		if removed {
			delete(p.data, ev.Key)
		}
		p.opts.sink.Hit(ev.Key)
		p.opts.sink.WeightedHit(ev.Key, ev.EffectiveWeight())
		p.opts.sink.Penalty(true, ev.HitPenalty)
		p.opts.sink.Accuracy(ev.MissPenalty, estimate.MissPenalty)
		return h, false, segProtected, nil
	case segProbation:
		h, e := p.onProbationHit(ev)
		p.opts.sink.Hit(ev.Key)
		p.opts.sink.WeightedHit(ev.Key, ev.EffectiveWeight())
		p.opts.sink.Penalty(true, ev.HitPenalty)
		return h, false, segProbation, e
	}
	return false, false, residentSeg, nil
}

// onMiss folds ev's delta into the normalization, inserts ev into Window, and, if
// Window overflows, spills its own CRA victim toward Probation — contested
// against Probation's victim via LATinyLFU when the cache is already full
// (§4.3 "On miss").
func (p *WindowCA) onMiss(ev cra.AccessEvent) error {
	if changed := p.norm.Observe(ev.Delta()); changed {
		p.norm.Publish(p.window, p.probation, p.protected)
	}

	spilled, err := p.window.AddEntry(ev)
	if err != nil {
		return err
	}
	p.data[ev.Key] = segWindow
	p.opts.sink.Miss(ev.Key)
	p.opts.sink.WeightedMiss(ev.Key, ev.EffectiveWeight())
	p.opts.sink.Penalty(false, ev.MissPenalty)

	for _, candidate := range spilled {
		delete(p.data, candidate.Key)
		if err := p.spillToProbation(candidate); err != nil {
			return err
		}
	}
	return nil
}

// spillToProbation places a Window-evicted candidate into Probation,
// contesting it against Probation's own victim with the LATinyLFU
// admittor whenever the policy is already at maximumSize.
func (p *WindowCA) spillToProbation(candidate cra.AccessEvent) error {
	if len(p.data) < p.maximumSize {
		evicted, err := p.probation.AddEntry(candidate)
		if err != nil {
			return err
		}
		p.data[candidate.Key] = segProbation
		for _, victim := range evicted {
			delete(p.data, victim.Key)
			p.opts.sink.Eviction(victim.Key)
		}
		return nil
	}

	victim, err := p.probation.PeekVictim()
	if err != nil {
		return err
	}
	admitted := p.admittor.Admit(candidate.Key, candidate.Delta(), victim.Key, victim.Delta())
	p.opts.sink.Admission(candidate.Key, admitted)

	if admitted {
		p.probation.Remove(victim.Key)
		delete(p.data, victim.Key)
		p.opts.sink.Eviction(victim.Key)
		if _, err := p.probation.AddEntry(candidate); err != nil {
			return err
		}
		p.data[candidate.Key] = segProbation
		return nil
	}

	p.opts.sink.Eviction(candidate.Key)
	return nil
}

// onProbationHit promotes a Probation hit to Protected MRU, demoting
// Protected's own CRA victim back to Probation MRU if Protected overflows
// (§4.3 "On hit" / Probation case).
func (p *WindowCA) onProbationHit(ev cra.AccessEvent) (bool, error) {
	resident, ok := p.probation.Get(ev.Key)
	if !ok {
		return false, nil
	}
	p.opts.sink.Accuracy(ev.MissPenalty, resident.MissPenalty)
	merged := cra.AccessEvent{Key: ev.Key, Weight: resident.Weight, HitPenalty: ev.HitPenalty, MissPenalty: ev.MissPenalty}
	p.probation.Remove(ev.Key)
	delete(p.data, ev.Key)

	if merged.Delta() < 0 {
		return true, nil
	}
	return true, p.promoteToProtected(merged)
}

func (p *WindowCA) promoteToProtected(ev cra.AccessEvent) error {
	demoted, err := p.protected.AddEntry(ev)
	if err != nil {
		return err
	}
	p.data[ev.Key] = segProtected
	for _, dem := range demoted {
		if err := p.demoteToProbation(dem); err != nil {
			return err
		}
	}
	return nil
}

func (p *WindowCA) demoteToProbation(ev cra.AccessEvent) error {
	evicted, err := p.probation.AddEntry(ev)
	if err != nil {
		return err
	}
	p.data[ev.Key] = segProbation
	for _, victim := range evicted {
		delete(p.data, victim.Key)
		p.opts.sink.Eviction(victim.Key)
	}
	return nil
}

// popProbationVictim removes Probation's own CRA victim, if any, for
// AdaptiveCA's Window-growth step ("pop Probation LRU and insert at
// Window MRU").
func (p *WindowCA) popProbationVictim() (cra.AccessEvent, bool) {
	if p.probation.Len() == 0 {
		return cra.AccessEvent{}, false
	}
	victim, err := p.probation.PeekVictim()
	if err != nil {
		return cra.AccessEvent{}, false
	}
	p.probation.Remove(victim.Key)
	delete(p.data, victim.Key)
	return victim, true
}

// popProtectedVictim mirrors popProbationVictim for Protected, used when
// growing Window forces Protected to shed its own CRA victim.
func (p *WindowCA) popProtectedVictim() (cra.AccessEvent, bool) {
	if p.protected.Len() == 0 {
		return cra.AccessEvent{}, false
	}
	victim, err := p.protected.PeekVictim()
	if err != nil {
		return cra.AccessEvent{}, false
	}
	p.protected.Remove(victim.Key)
	delete(p.data, victim.Key)
	return victim, true
}

// popWindowVictim mirrors popProbationVictim for Window, used by
// AdaptiveCA's Window-shrink step.
func (p *WindowCA) popWindowVictim() (cra.AccessEvent, bool) {
	if p.window.Len() == 0 {
		return cra.AccessEvent{}, false
	}
	victim, err := p.window.PeekVictim()
	if err != nil {
		return cra.AccessEvent{}, false
	}
	p.window.Remove(victim.Key)
	delete(p.data, victim.Key)
	return victim, true
}

// insertIntoWindow places ev directly into Window (used when AdaptiveCA
// moves a Probation victim into newly grown Window capacity). Any
// resulting eviction — capacity should already have room, but weighted
// entries can still cascade — is dropped from the cache entirely.
func (p *WindowCA) insertIntoWindow(ev cra.AccessEvent) error {
	evicted, err := p.window.AddEntry(ev)
	if err != nil {
		return err
	}
	p.data[ev.Key] = segWindow
	for _, victim := range evicted {
		delete(p.data, victim.Key)
		p.opts.sink.Eviction(victim.Key)
	}
	return nil
}

// segmentSize reports the (windowSize, probationSize, protectedSize)
// triple used by AdaptiveCA's climber and by the Testable Property #5/#3
// invariant checks.
func (p *WindowCA) segmentSize() (window, probation, protected int) {
	return p.window.Len(), p.probation.Len(), p.protected.Len()
}

func (p *WindowCA) segmentCapacity() (maxWindow, maxProbation, maxProtected int) {
	return int(p.window.Capacity()), int(p.probation.Capacity()), int(p.protected.Capacity())
}

func (p *WindowCA) isFull() bool {
	return len(p.data) >= p.maximumSize
}
