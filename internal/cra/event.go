// Package cra implements the Cost/Latency-Aware Replacement Engine: a
// benefit-bucketed, rank-evicting store (CraBlock) over a bounded capacity,
// and the AccessEvent/Node types it operates on.
package cra

import "math"

// AccessEvent is one replayed trace record: a key plus the hit and miss
// penalties observed (or assumed) for it.
type AccessEvent struct {
	Key         uint64
	Weight      uint32
	HitPenalty  float64
	MissPenalty float64
}

// Delta is the per-access latency saved by a hit: MissPenalty - HitPenalty.
// A larger Delta means caching this item saves more time per hit; a
// negative Delta means caching it is worse than recomputing.
func (e AccessEvent) Delta() float64 {
	return e.MissPenalty - e.HitPenalty
}

// weightOrDefault returns e.Weight, defaulting to 1 if unset.
func (e AccessEvent) weightOrDefault() uint32 {
	return e.EffectiveWeight()
}

// EffectiveWeight returns e.Weight, defaulting to 1 if unset — every
// admission and capacity check operates on this, not the raw field.
func (e AccessEvent) EffectiveWeight() uint32 {
	if e.Weight == 0 {
		return 1
	}
	return e.Weight
}

// isUnrepresentable reports whether ev cannot be recorded at all: a NaN
// penalty. Weight-exceeds-capacity is checked by the caller, since it is
// relative to a particular block's capacity.
func isUnrepresentable(ev AccessEvent) bool {
	return math.IsNaN(ev.HitPenalty) || math.IsNaN(ev.MissPenalty)
}
