package stats

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink exports the same event stream as Collector through
// prometheus/client_golang counters, histograms and a gauge, for a run embedded in a
// longer-lived process rather than a one-shot CLI report.
type PromSink struct {
	hits, misses           prometheus.Counter
	weightedHits           prometheus.Counter
	weightedMisses         prometheus.Counter
	evictions              prometheus.Counter
	admissions, rejections prometheus.Counter
	hitPenalty, missPenalty prometheus.Histogram
	accuracyError          prometheus.Histogram
	windowPercent          prometheus.Gauge
}

// NewPromSink registers a PromSink's metrics under the given namespace
// (e.g. the policy name), so multiple policies running side by side don't
// collide on metric names. Pass a dedicated *prometheus.Registry per
// policy instance — no cross-policy metric sharing, matching §5's
// "no shared resources" rule.
func NewPromSink(reg *prometheus.Registry, namespace string) *PromSink {
	s := &PromSink{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "hits_total", Help: "Resident-key accesses.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "misses_total", Help: "Non-resident-key accesses.",
		}),
		weightedHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "weighted_hits_total", Help: "Hit weight units.",
		}),
		weightedMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "weighted_misses_total", Help: "Miss weight units.",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "evictions_total", Help: "Entries evicted.",
		}),
		admissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "admissions_total", Help: "Candidates admitted over a victim.",
		}),
		rejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "rejections_total", Help: "Candidates rejected in favor of a victim.",
		}),
		hitPenalty: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "hit_penalty_seconds", Help: "Observed hit penalty per access.",
		}),
		missPenalty: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "miss_penalty_seconds", Help: "Observed miss penalty per access.",
		}),
		accuracyError: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "accuracy_error", Help: "|real - estimated| miss penalty.",
		}),
		windowPercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "window_percent", Help: "Current Window segment size as a fraction of capacity.",
		}),
	}
	reg.MustRegister(s.hits, s.misses, s.weightedHits, s.weightedMisses, s.evictions,
		s.admissions, s.rejections, s.hitPenalty, s.missPenalty, s.accuracyError, s.windowPercent)
	return s
}

func (s *PromSink) Hit(uint64)  { s.hits.Inc() }
func (s *PromSink) Miss(uint64) { s.misses.Inc() }

func (s *PromSink) WeightedHit(_ uint64, weight uint32)  { s.weightedHits.Add(float64(weight)) }
func (s *PromSink) WeightedMiss(_ uint64, weight uint32) { s.weightedMisses.Add(float64(weight)) }

func (s *PromSink) Eviction(uint64) { s.evictions.Inc() }

func (s *PromSink) Admission(_ uint64, admitted bool) {
	if admitted {
		s.admissions.Inc()
	} else {
		s.rejections.Inc()
	}
}

func (s *PromSink) Penalty(hit bool, penalty float64) {
	if hit {
		s.hitPenalty.Observe(penalty)
	} else {
		s.missPenalty.Observe(penalty)
	}
}

func (s *PromSink) Accuracy(real, estimated float64) {
	s.accuracyError.Observe(absFloat(real - estimated))
}

func (s *PromSink) PercentAdaption(percent float64) { s.windowPercent.Set(percent) }
