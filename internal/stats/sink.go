// Package stats collects the engine's event stream — the "opaque" sink
// boundary the policies call into — and renders it as a report.
package stats

// Sink is the opaque destination for policy-level telemetry. A Policy calls
// these methods as it processes the trace; Sink implementations decide how
// (or whether) to aggregate, print, or export them. Implementations must
// tolerate being called from a single goroutine only — the engine never
// calls a Sink concurrently with itself.
type Sink interface {
	// Hit/Miss record an unweighted access outcome for key.
	Hit(key uint64)
	Miss(key uint64)
	// WeightedHit/WeightedMiss record the same outcome in weight units,
	// for capacity models where resident size is measured by weight
	// rather than entry count.
	WeightedHit(key uint64, weight uint32)
	WeightedMiss(key uint64, weight uint32)
	// Eviction records that key was evicted to make room for an admission.
	Eviction(key uint64)
	// Admission records an admission decision: admitted is false when the
	// LATinyLFU admittor rejected candidate in favor of the resident
	// victim.
	Admission(candidate uint64, admitted bool)
	// Penalty records the hit_penalty or miss_penalty observed for an
	// event, tagged by whether it was a hit.
	Penalty(hit bool, penalty float64)
	// Accuracy records a (real, estimated) pair of miss penalties, used to
	// track how closely a policy's penalty bookkeeping tracks the trace's
	// ground truth over time.
	Accuracy(real, estimated float64)
	// PercentAdaption records the current Window segment size as a
	// fraction of total capacity, emitted once per AdaptiveCA climb.
	PercentAdaption(percent float64)
}

// NopSink discards every event. It is the zero-value default for policies
// constructed without an explicit sink.
type NopSink struct{}

func (NopSink) Hit(uint64)                      {}
func (NopSink) Miss(uint64)                      {}
func (NopSink) WeightedHit(uint64, uint32)       {}
func (NopSink) WeightedMiss(uint64, uint32)      {}
func (NopSink) Eviction(uint64)                  {}
func (NopSink) Admission(uint64, bool)           {}
func (NopSink) Penalty(bool, float64)            {}
func (NopSink) Accuracy(real, estimated float64) {}
func (NopSink) PercentAdaption(float64)          {}
