// Package simrun wires a trace.Source into a policy.Policy and a
// stats.Sink, driving the single-threaded record loop described in §5.
package simrun

import (
	"github.com/pkg/errors"

	"github.com/himelbrand/crasim/internal/climber"
	"github.com/himelbrand/crasim/internal/config"
	"github.com/himelbrand/crasim/internal/policy"
	"github.com/himelbrand/crasim/internal/sketch"
	"github.com/himelbrand/crasim/internal/stats"
	"github.com/himelbrand/crasim/internal/trace"
)

// ErrUnknownStrategy is wrapped with the offending name when cfg.Strategy
// names no known climber.
var ErrUnknownStrategy = errors.New("simrun: unknown strategy")

// NewPolicy builds the policy.Policy named by cfg.Strategy/cfg.Sketch: a
// plain WindowCA when Strategy is empty, or an AdaptiveCA driven by the
// matching climber otherwise.
func NewPolicy(cfg config.Config, sink stats.Sink) (policy.Policy, error) {
	sk, err := sketch.New(cfg.Sketch, cfg.MaximumSize)
	if err != nil {
		return nil, err
	}

	pcfg := policy.WindowCAConfig{
		MaximumSize:          int(cfg.MaximumSize),
		PercentMain:          cfg.PercentMain,
		PercentMainProtected: cfg.PercentMainProtected,
		MaxLists:             cfg.MaxLists,
		K:                    cfg.K,
		Sketch:               sk,
	}
	opts := []policy.Option{policy.WithSink(sink)}

	if cfg.Strategy == "" {
		return policy.NewWindowCA(pcfg, opts...)
	}
	climb, err := buildClimber(cfg)
	if err != nil {
		return nil, err
	}
	return policy.NewAdaptiveCA(pcfg, climb, opts...)
}

func buildClimber(cfg config.Config) (climber.Climber, error) {
	stepSize := cfg.PercentPivot * float64(cfg.MaximumSize)
	sampleSize := cfg.PercentSample * float64(cfg.MaximumSize)

	switch cfg.Strategy {
	case "simple":
		return climber.NewSimple(stepSize, sampleSize, cfg.Tolerance, cfg.StepDecayRate, cfg.SampleDecayRate, cfg.RestartThreshold), nil
	case "adam":
		return climber.NewAdam(stepSize, sampleSize, cfg.Beta1, cfg.Beta2, cfg.Epsilon), nil
	case "nadam":
		return climber.NewNadam(stepSize, sampleSize, cfg.Beta1, cfg.Beta2, cfg.Epsilon), nil
	default:
		return nil, errors.Wrapf(ErrUnknownStrategy, "%q", cfg.Strategy)
	}
}

// Result summarizes a finished run.
type Result struct {
	Events  int
	Hits    int
	Misses  int
	Len     int
}

// Run drains src through p, one event at a time, to completion. It
// never suspends and never retries — a malformed line (ErrBadLine) is
// fatal, matching the "traces are replayed once" error-handling rule;
// an invariant violation from p.Record is returned unwrapped.
func Run(p policy.Policy, src trace.Source) (Result, error) {
	var res Result
	for {
		ev, err := src()
		if err == trace.ErrDone {
			break
		}
		if err != nil {
			return res, err
		}
		res.Events++

		hit, err := p.Record(ev)
		if err != nil {
			return res, err
		}
		if hit {
			res.Hits++
		} else {
			res.Misses++
		}
	}
	res.Len = p.Len()
	return res, nil
}
