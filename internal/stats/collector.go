package stats

import (
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Collector is the in-memory Sink, grounded on the teacher's Metrics
// (metrics.go): the same counter taxonomy (hit/miss, keys added/evicted),
// simplified to plain fields since the engine is single-threaded and
// needs none of Metrics' sharded-atomic false-sharing protection.
type Collector struct {
	hits, misses       uint64
	weightedHits       uint64
	weightedMisses     uint64
	evictions          uint64
	admissions         uint64
	rejections         uint64
	hitPenaltySum      float64
	missPenaltySum     float64
	accuracyErrorSum   float64
	accuracySamples    uint64
	lastPercentAdapted float64
}

// NewCollector returns a zeroed Collector.
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Hit(uint64)  { c.hits++ }
func (c *Collector) Miss(uint64) { c.misses++ }

func (c *Collector) WeightedHit(_ uint64, weight uint32)  { c.weightedHits += uint64(weight) }
func (c *Collector) WeightedMiss(_ uint64, weight uint32) { c.weightedMisses += uint64(weight) }

func (c *Collector) Eviction(uint64) { c.evictions++ }

func (c *Collector) Admission(_ uint64, admitted bool) {
	if admitted {
		c.admissions++
	} else {
		c.rejections++
	}
}

func (c *Collector) Penalty(hit bool, penalty float64) {
	if hit {
		c.hitPenaltySum += penalty
	} else {
		c.missPenaltySum += penalty
	}
}

func (c *Collector) Accuracy(real, estimated float64) {
	c.accuracyErrorSum += absFloat(real - estimated)
	c.accuracySamples++
}

func (c *Collector) PercentAdaption(percent float64) { c.lastPercentAdapted = percent }

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// HitRatio is the fraction of accesses that were hits, the same shape as
// the teacher's Metrics.Ratio.
func (c *Collector) HitRatio() float64 {
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}

// MeanAccuracyError is the average |real - estimated| miss-penalty gap
// recorded via Accuracy, or 0 if no pairs were ever reported.
func (c *Collector) MeanAccuracyError() float64 {
	if c.accuracySamples == 0 {
		return 0
	}
	return c.accuracyErrorSum / float64(c.accuracySamples)
}

// Report renders a human-readable summary table to w using go-pretty,
// highlighting the hit ratio with fatih/color the way a terminal report
// would.
func (c *Collector) Report(w io.Writer, label string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"metric", "value"})

	ratio := c.HitRatio()
	ratioText := color.New(color.FgGreen).Sprintf("%.2f%%", ratio*100)
	if ratio < 0.5 {
		ratioText = color.New(color.FgRed).Sprintf("%.2f%%", ratio*100)
	}

	t.AppendRows([]table.Row{
		{"policy", label},
		{"hits", humanize.Comma(int64(c.hits))},
		{"misses", humanize.Comma(int64(c.misses))},
		{"hit ratio", ratioText},
		{"weighted hits", humanize.Comma(int64(c.weightedHits))},
		{"weighted misses", humanize.Comma(int64(c.weightedMisses))},
		{"evictions", humanize.Comma(int64(c.evictions))},
		{"admissions", humanize.Comma(int64(c.admissions))},
		{"rejections", humanize.Comma(int64(c.rejections))},
		{"mean hit penalty", humanizeFloat(c.meanHitPenalty())},
		{"mean miss penalty", humanizeFloat(c.meanMissPenalty())},
		{"mean accuracy error", humanizeFloat(c.MeanAccuracyError())},
		{"last window %", humanizeFloat(c.lastPercentAdapted * 100)},
	})
	t.Render()
}

func (c *Collector) meanHitPenalty() float64 {
	if c.hits == 0 {
		return 0
	}
	return c.hitPenaltySum / float64(c.hits)
}

func (c *Collector) meanMissPenalty() float64 {
	if c.misses == 0 {
		return 0
	}
	return c.missPenaltySum / float64(c.misses)
}

func humanizeFloat(v float64) string {
	return humanize.FormatFloat("#,###.####", v)
}
