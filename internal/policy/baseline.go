package policy

import (
	"container/list"
	"math"

	"github.com/himelbrand/crasim/internal/cra"
)

// LRU is a plain recency-only baseline, adapted from the teacher's LRU
// (policy.go) with string keys replaced by the trace's uint64 key space.
// Capacity is an entry count, not a weight sum — LRU does not reason
// about weight or penalty at all, which is the point of the comparison.
type LRU struct {
	capacity uint64
	ring     *list.List
	look     map[uint64]*list.Element
	opts     *options
}

func NewLRU(capacity uint64, opts ...Option) *LRU {
	return &LRU{
		capacity: capacity,
		ring:     list.New(),
		look:     make(map[uint64]*list.Element, capacity),
		opts:     newOptions(opts...),
	}
}

func (p *LRU) Len() int { return len(p.look) }

func (p *LRU) Contains(key uint64) bool {
	_, ok := p.look[key]
	return ok
}

func (p *LRU) Record(ev cra.AccessEvent) (bool, error) {
	if el, exists := p.look[ev.Key]; exists {
		p.ring.MoveToFront(el)
		p.opts.sink.Hit(ev.Key)
		p.opts.sink.WeightedHit(ev.Key, ev.EffectiveWeight())
		p.opts.sink.Penalty(true, ev.HitPenalty)
		return true, nil
	}

	p.opts.sink.Miss(ev.Key)
	p.opts.sink.WeightedMiss(ev.Key, ev.EffectiveWeight())
	p.opts.sink.Penalty(false, ev.MissPenalty)

	if uint64(p.ring.Len()) >= p.capacity {
		back := p.ring.Back()
		victim := back.Value.(uint64)
		p.ring.Remove(back)
		delete(p.look, victim)
		p.opts.sink.Eviction(victim)
	}
	p.look[ev.Key] = p.ring.PushFront(ev.Key)
	return false, nil
}

// WLFU is the window-plus-sampled-LFU baseline from the teacher's WLFU
// (policy.go): a small recency window feeds a frequency-sampled main
// segment, with no latency awareness at all — a deliberately naive
// counterpoint to WindowCA's delta-bucketed admission.
type WLFU struct {
	window map[uint64]uint32
	main   map[uint64]uint32
	maxWin int
	maxMain int
	opts   *options
}

const wlfuSample = 5

func NewWLFU(capacity uint64, opts ...Option) *WLFU {
	maxWin := int(math.Ceil(float64(capacity) * 0.01))
	if maxWin < 1 {
		maxWin = 1
	}
	maxMain := int(capacity) - maxWin
	if maxMain < 1 {
		maxMain = 1
	}
	return &WLFU{
		window:  make(map[uint64]uint32, maxWin),
		main:    make(map[uint64]uint32, maxMain),
		maxWin:  maxWin,
		maxMain: maxMain,
		opts:    newOptions(opts...),
	}
}

func (p *WLFU) Len() int { return len(p.window) + len(p.main) }

func (p *WLFU) Contains(key uint64) bool {
	_, inWin := p.window[key]
	_, inMain := p.main[key]
	return inWin || inMain
}

func (p *WLFU) sample(m map[uint64]uint32, size int) (uint64, uint32, bool) {
	if len(m) < size {
		return 0, 0, false
	}
	i, minKey, minCount, found := 0, uint64(0), uint32(math.MaxUint32), false
	for k, c := range m {
		if !found || c < minCount {
			minKey, minCount, found = k, c, true
		}
		i++
		if i == wlfuSample {
			break
		}
	}
	return minKey, minCount, found
}

func (p *WLFU) Record(ev cra.AccessEvent) (bool, error) {
	if _, ok := p.window[ev.Key]; ok {
		p.window[ev.Key]++
		p.opts.sink.Hit(ev.Key)
		p.opts.sink.Penalty(true, ev.HitPenalty)
		return true, nil
	}
	if _, ok := p.main[ev.Key]; ok {
		p.main[ev.Key]++
		p.opts.sink.Hit(ev.Key)
		p.opts.sink.Penalty(true, ev.HitPenalty)
		return true, nil
	}

	p.opts.sink.Miss(ev.Key)
	p.opts.sink.Penalty(false, ev.MissPenalty)

	winVictim, winCount, winFull := p.sample(p.window, p.maxWin)
	if !winFull {
		p.window[ev.Key] = 1
		return false, nil
	}
	delete(p.window, winVictim)

	mainVictim, mainCount, mainFull := p.sample(p.main, p.maxMain)
	if !mainFull {
		p.main[winVictim] = winCount
		p.window[ev.Key] = 1
		return false, nil
	}

	if winCount >= mainCount {
		delete(p.main, mainVictim)
		p.opts.sink.Eviction(mainVictim)
		p.main[winVictim] = winCount
	} else {
		p.opts.sink.Eviction(winVictim)
	}
	p.window[ev.Key] = 1
	return false, nil
}

// None never admits anything — every access is a miss. Grounded on the
// teacher's None policy (policy.go), used as the worst-case baseline.
type None struct {
	opts *options
}

func NewNone(opts ...Option) *None {
	return &None{opts: newOptions(opts...)}
}

func (p *None) Len() int                  { return 0 }
func (p *None) Contains(key uint64) bool  { return false }
func (p *None) Record(ev cra.AccessEvent) (bool, error) {
	p.opts.sink.Miss(ev.Key)
	p.opts.sink.Penalty(false, ev.MissPenalty)
	return false, nil
}
