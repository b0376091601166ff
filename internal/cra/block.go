package cra

import (
	"fmt"
	"math"
	"strings"
)

// node is one arena slot: either a sentinel (one per bucket list) or a
// resident entry. A slot's index is stable only within its own block:
// cross-segment movement (owned by higher-level policies) removes the
// entry from one block and adds it to another, which allocates a new slot
// there and starts a fresh last_op; the old slot and last_op are not kept.
type node struct {
	key         uint64
	weight      uint32
	hitPenalty  float64
	missPenalty float64

	lastOp     uint64
	touchEpoch uint64 // decay epoch at the last touch; detects staleness across a reset

	listIndex int
	prev, next int32

	sentinel bool
}

func (n node) delta() float64 {
	return n.missPenalty - n.hitPenalty
}

// CraBlock is the benefit-bucketed, rank-evicting eviction store described
// by the Cost/Latency-Aware Replacement Engine. It is not safe for
// concurrent access — the engine is single-threaded per simulation run.
type CraBlock struct {
	capacity    uint64
	currentSize uint64
	maxLists    int
	k           float64

	arena     []node
	listSize  []int
	activeSet []bool

	data map[uint64]int32
	free []int32

	currOp     uint64
	reqCount   uint64
	decayEpoch uint64

	normBias   float64
	normFactor float64
}

// NewCraBlock creates a block with the given total-weight capacity, number
// of non-negative-delta buckets, and recency/benefit exponent k.
func NewCraBlock(capacity uint64, maxLists int, k float64) (*CraBlock, error) {
	if capacity == 0 {
		return nil, ErrBadCapacity
	}
	if maxLists < 1 {
		return nil, ErrBadMaxLists
	}

	b := &CraBlock{
		capacity:  capacity,
		maxLists:  maxLists,
		k:         k,
		listSize:  make([]int, maxLists+1),
		activeSet: make([]bool, maxLists+1),
		data:      make(map[uint64]int32),
	}
	// Sentinel i anchors bucket i; slot index == bucket index for sentinels.
	b.arena = make([]node, maxLists+1)
	for i := range b.arena {
		b.arena[i] = node{sentinel: true, listIndex: i, prev: int32(i), next: int32(i)}
	}
	return b, nil
}

// Len reports the number of resident keys.
func (b *CraBlock) Len() int { return len(b.data) }

// Size reports the total resident weight.
func (b *CraBlock) Size() uint64 { return b.currentSize }

// Capacity reports the block's total-weight capacity.
func (b *CraBlock) Capacity() uint64 { return b.capacity }

// Contains reports whether key is resident.
func (b *CraBlock) Contains(key uint64) bool {
	_, ok := b.data[key]
	return ok
}

// Get returns the resident AccessEvent for key, if any.
func (b *CraBlock) Get(key uint64) (AccessEvent, bool) {
	slot, ok := b.data[key]
	if !ok {
		return AccessEvent{}, false
	}
	n := &b.arena[slot]
	return AccessEvent{Key: n.key, Weight: n.weight, HitPenalty: n.hitPenalty, MissPenalty: n.missPenalty}, true
}

// SetNormalization updates the (bias, factor) mapping used to bucket
// deltas. Existing nodes are not rewritten eagerly; their bucket is
// corrected the next time they are touched.
func (b *CraBlock) SetNormalization(bias, factor float64) {
	b.normBias, b.normFactor = bias, factor
}

func (b *CraBlock) bucketFor(delta float64) int {
	if delta < 0 {
		return 0
	}
	if b.normFactor <= 0 {
		return 1
	}
	v := (delta - b.normBias) / b.normFactor * float64(b.maxLists+1)
	idx := int(math.Floor(v))
	if idx < 1 {
		idx = 1
	}
	if idx > b.maxLists {
		idx = b.maxLists
	}
	return idx
}

// ageDecay increments the operation counter on every touch, halving it
// (and bumping the decay epoch) every `capacity` requests, bounding the
// dynamic range of last_op for long-running simulations.
func (b *CraBlock) ageDecay() {
	b.currOp++
	b.reqCount++
	if b.reqCount >= b.capacity {
		b.currOp >>= 1
		b.decayEpoch++
		b.reqCount = 0
	}
}

// resetOp lazily halves a node's last_op if it predates the most recent
// age-decay reset, as described for stale victim candidates.
func (b *CraBlock) resetOp(slot int32) {
	n := &b.arena[slot]
	if n.touchEpoch != b.decayEpoch {
		n.lastOp >>= 1
		n.touchEpoch = b.decayEpoch
	}
}

func (b *CraBlock) unlink(slot int32) {
	n := &b.arena[slot]
	prev, next := n.prev, n.next
	b.arena[prev].next = next
	b.arena[next].prev = prev
	b.listSize[n.listIndex]--
	if b.listSize[n.listIndex] == 0 {
		b.activeSet[n.listIndex] = false
	}
}

// linkTail appends slot as the new tail (MRU) of bucket's list.
func (b *CraBlock) linkTail(slot int32, bucket int) {
	sentinel := int32(bucket)
	tail := b.arena[sentinel].prev
	b.arena[tail].next = slot
	b.arena[slot].prev = tail
	b.arena[slot].next = sentinel
	b.arena[sentinel].prev = slot
	b.arena[slot].listIndex = bucket
	b.listSize[bucket]++
	b.activeSet[bucket] = true
}

func (b *CraBlock) allocSlot() int32 {
	if n := len(b.free); n > 0 {
		slot := b.free[n-1]
		b.free = b.free[:n-1]
		return slot
	}
	b.arena = append(b.arena, node{})
	return int32(len(b.arena) - 1)
}

func (b *CraBlock) freeSlot(slot int32) {
	b.arena[slot] = node{}
	b.free = append(b.free, slot)
}

// AddEntry admits ev into the block, evicting victims as needed until
// current_size <= capacity. It returns the full events evicted to make
// room, so callers that spill victims into another segment (WindowCA) can
// carry their penalties forward rather than just their keys. A weight
// exceeding capacity is silently dropped (no state change beyond the
// operation counter), per the unrepresentable-input convention.
func (b *CraBlock) AddEntry(ev AccessEvent) (evicted []AccessEvent, err error) {
	if isUnrepresentable(ev) {
		return nil, ErrNaNPenalty
	}
	weight := uint64(ev.weightOrDefault())
	if weight > b.capacity {
		b.ageDecay()
		return nil, nil
	}

	bucket := b.bucketFor(ev.Delta())
	slot := b.allocSlot()
	b.arena[slot] = node{
		key:         ev.Key,
		weight:      ev.weightOrDefault(),
		hitPenalty:  ev.HitPenalty,
		missPenalty: ev.MissPenalty,
		lastOp:      b.currOp,
	}
	b.linkTail(slot, bucket)
	b.ageDecay()
	b.arena[slot].touchEpoch = b.decayEpoch
	b.data[ev.Key] = slot
	b.currentSize += weight

	for b.currentSize > b.capacity {
		victim, evErr := b.evictOne()
		if evErr != nil {
			return evicted, evErr
		}
		evicted = append(evicted, victim)
	}
	return evicted, nil
}

// FindVictim returns the slot of the best eviction candidate. It never
// returns an invalid slot when current_size > 0 — callers should treat a
// failure here as an invariant violation.
func (b *CraBlock) FindVictim() (int32, error) {
	if b.currentSize == 0 {
		return 0, newInvariantError("find_victim called on an empty block", b.Dump())
	}
	if b.activeSet[0] {
		return b.arena[0].next, nil
	}

	var (
		bestSlot  int32 = -1
		bestRank  float64
		bestRatio float64
	)
	for i := 1; i <= b.maxLists; i++ {
		if !b.activeSet[i] {
			continue
		}
		candidate := b.arena[int32(i)].next
		b.resetOp(candidate)
		n := &b.arena[candidate]

		age := float64(1)
		if b.currOp > n.lastOp {
			age = float64(b.currOp - n.lastOp)
		}
		exponent := math.Pow(age, -b.k)
		rank := math.Copysign(math.Pow(math.Abs(n.delta()), exponent), n.delta())

		ratio := float64(0)
		if b.currOp > 0 {
			ratio = float64(n.lastOp) / float64(b.currOp)
		}

		if bestSlot == -1 || rank < bestRank || (rank == bestRank && ratio < bestRatio) {
			bestSlot, bestRank, bestRatio = candidate, rank, ratio
		}
	}
	if bestSlot == -1 {
		return 0, newInvariantError("find_victim found no active bucket despite nonzero size", b.Dump())
	}
	return bestSlot, nil
}

// PeekVictim reports the current eviction candidate's event without
// removing it, so a caller can decide (e.g. via the LATinyLFU admittor)
// whether to actually evict it before committing to the removal.
func (b *CraBlock) PeekVictim() (AccessEvent, error) {
	slot, err := b.FindVictim()
	if err != nil {
		return AccessEvent{}, err
	}
	n := &b.arena[slot]
	return AccessEvent{Key: n.key, Weight: n.weight, HitPenalty: n.hitPenalty, MissPenalty: n.missPenalty}, nil
}

// evictOne removes the current victim and returns its event.
func (b *CraBlock) evictOne() (AccessEvent, error) {
	slot, err := b.FindVictim()
	if err != nil {
		return AccessEvent{}, err
	}
	return b.removeSlot(slot), nil
}

func (b *CraBlock) removeSlot(slot int32) AccessEvent {
	n := b.arena[slot]
	b.unlink(slot)
	delete(b.data, n.key)
	b.currentSize -= uint64(n.weight)
	b.freeSlot(slot)
	return AccessEvent{Key: n.key, Weight: n.weight, HitPenalty: n.hitPenalty, MissPenalty: n.missPenalty}
}

// Remove evicts key unconditionally (used by cross-segment moves and
// capacity shrink). It is a no-op if key is not resident.
func (b *CraBlock) Remove(key uint64) {
	slot, ok := b.data[key]
	if !ok {
		return
	}
	b.removeSlot(slot)
}

// RemoveReturning evicts key unconditionally and returns its resident
// event, used by cross-segment moves that must carry penalties forward
// (e.g. Protected demoting its LRU to Probation).
func (b *CraBlock) RemoveReturning(key uint64) (AccessEvent, bool) {
	slot, ok := b.data[key]
	if !ok {
		return AccessEvent{}, false
	}
	return b.removeSlot(slot), true
}

// OnAccess handles a hit on key, returning (hit, removed). A negative-delta
// node is removed rather than kept (it would never be beneficial to
// cache); otherwise it is relocated to its (possibly new, renormalized)
// bucket's tail.
func (b *CraBlock) OnAccess(key uint64, updated AccessEvent) (hit bool, removed bool, err error) {
	slot, ok := b.data[key]
	if !ok {
		return false, false, nil
	}
	if isUnrepresentable(updated) {
		return true, false, ErrNaNPenalty
	}

	n := &b.arena[slot]
	n.hitPenalty = updated.HitPenalty
	n.missPenalty = updated.MissPenalty

	if n.delta() < 0 {
		b.removeSlot(slot)
		b.ageDecay()
		return true, true, nil
	}

	bucket := b.bucketFor(n.delta())
	b.unlink(slot)
	b.linkTail(slot, bucket)
	n.lastOp = b.currOp
	b.ageDecay()
	n.touchEpoch = b.decayEpoch
	return true, false, nil
}

// SetCapacity updates the block's total-weight capacity, used when a policy
// reshapes segment capacities (e.g. AdaptiveCA shrink).
func (b *CraBlock) SetCapacity(capacity uint64) {
	b.capacity = capacity
}

// Dump renders a human-readable snapshot for invariant-violation
// diagnostics.
func (b *CraBlock) Dump() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CraBlock{capacity=%d size=%d len=%d currOp=%d}\n", b.capacity, b.currentSize, len(b.data), b.currOp)
	for i := 0; i <= b.maxLists; i++ {
		if !b.activeSet[i] {
			continue
		}
		fmt.Fprintf(&sb, "  bucket[%d] size=%d\n", i, b.listSize[i])
	}
	return sb.String()
}

// activeLists returns the set of non-empty bucket indices, for tests.
func (b *CraBlock) activeLists() []int {
	var out []int
	for i, active := range b.activeSet {
		if active {
			out = append(out, i)
		}
	}
	return out
}
