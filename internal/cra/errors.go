package cra

import "github.com/pkg/errors"

// Sentinel errors for the "unrepresentable input" and "constructor error"
// classes described by the error handling design. These are returned, never
// panicked: the caller decides whether to drop the event or abort the run.
var (
	ErrNaNPenalty            = errors.New("cra: hit/miss penalty is NaN")
	ErrWeightExceedsCapacity = errors.New("cra: weight exceeds block capacity")
	ErrBadCapacity           = errors.New("cra: capacity must be positive")
	ErrBadMaxLists           = errors.New("cra: max lists must be positive")
)

// InvariantError marks a programming error: an invariant from the data
// model was violated. The engine never attempts to repair these — the run
// terminates with a diagnostic carrying a dump of the offending block.
type InvariantError struct {
	Msg  string
	Dump string
}

func (e *InvariantError) Error() string {
	return "cra: invariant violation: " + e.Msg + "\n" + e.Dump
}

func newInvariantError(msg string, dump string) *InvariantError {
	return &InvariantError{Msg: msg, Dump: dump}
}
