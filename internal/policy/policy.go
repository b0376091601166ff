// Package policy implements the cache replacement policies that consume a
// CraBlock, an Admittor, and a climber to decide what stays resident.
package policy

import (
	"github.com/himelbrand/crasim/internal/cra"
	"github.com/himelbrand/crasim/internal/stats"
)

// Policy is the interface every replacement strategy implements: feed it
// one AccessEvent at a time, in trace order.
type Policy interface {
	// Record processes a single trace event and reports whether it was a
	// resident hit. err is non-nil for an invariant violation (see the
	// error taxonomy). WindowCA and AdaptiveCA do not drop unrepresentable
	// input silently: an event with a NaN penalty is not stored and Record
	// returns cra.ErrNaNPenalty.
	Record(ev cra.AccessEvent) (hit bool, err error)
	// Len returns the current resident key count.
	Len() int
	// Contains reports whether key currently occupies a slot.
	Contains(key uint64) bool
}

// Option configures a policy at construction. Mirrors the functional-option
// shape used throughout this codebase's cache construction.
type Option func(*options)

type options struct {
	sink stats.Sink
}

func newOptions(opts ...Option) *options {
	o := &options{sink: stats.NopSink{}}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithSink attaches a telemetry sink. Without this option, events are
// discarded.
func WithSink(sink stats.Sink) Option {
	return func(o *options) {
		o.sink = sink
	}
}
