// Package trace turns a trace file into a lazy, ordered sequence of
// cra.AccessEvent values, grounded on the teacher's bench/sim Simulator /
// Parser / NewReader shape (bench/sim/sim.go) — a closure that reads and
// parses one line per call instead of materializing the whole file.
package trace

import (
	"bufio"
	"io"

	"github.com/pkg/errors"

	"github.com/himelbrand/crasim/internal/cra"
)

// ErrDone signals the trace is exhausted — the one expected "end of
// input" condition, distinct from a malformed line.
var ErrDone = errors.New("trace: no more events")

// ErrBadLine reports a line that doesn't match the expected format.
var ErrBadLine = errors.New("trace: malformed line")

// Source yields one AccessEvent per call, in file order, until it returns
// ErrDone. It is not safe for concurrent use — callers drive it from the
// single simulation goroutine that owns this trace.
type Source func() (cra.AccessEvent, error)

// Parser turns one raw line into an AccessEvent. readErr is the error
// returned by the underlying bufio.Reader for that line (io.EOF on the
// final, possibly-unterminated line).
type Parser func(line string, readErr error) (cra.AccessEvent, error)

// NewSource wraps r with parser, returning a Source that reads one line
// at a time.
func NewSource(parser Parser, r io.Reader) Source {
	b := bufio.NewReader(r)
	return func() (cra.AccessEvent, error) {
		line, err := b.ReadString('\n')
		if line == "" && err != nil {
			return cra.AccessEvent{}, ErrDone
		}
		return parser(line, err)
	}
}

// Drain reads every remaining event from src into a slice. Intended for
// tests and small traces; the simulator driver itself should prefer
// pulling one event at a time.
func Drain(src Source) ([]cra.AccessEvent, error) {
	var events []cra.AccessEvent
	for {
		ev, err := src()
		if err == ErrDone {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
}

// ByStrategy resolves a trace format name (§6) to its Parser.
func ByStrategy(strategy string) (Parser, error) {
	switch strategy {
	case "dns":
		return ParseDNS, nil
	case "latency":
		return ParseLatency, nil
	case "address-penalties":
		return ParseAddressPenalties, nil
	default:
		return nil, errors.Errorf("trace: unknown format %q", strategy)
	}
}
