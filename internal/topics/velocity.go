package topics

import (
	"log/slog"
	"math"
)

// Matcher decides whether a topic from the current run is the same topic as
// one from the previous run.
type Matcher interface {
	Match(current, previous []string) bool
}

// JaccardMatcher matches topics by keyword-set overlap.
type JaccardMatcher struct {
	Threshold float64
}

func (m JaccardMatcher) Match(current, previous []string) bool {
	if len(current) == 0 || len(previous) == 0 {
		return false
	}
	set := make(map[string]bool, len(current))
	for _, kw := range current {
		set[kw] = true
	}
	intersection := 0
	for _, kw := range previous {
		if set[kw] {
			intersection++
		}
	}
	union := len(set) + len(previous) - intersection
	return float64(intersection)/float64(union) >= m.Threshold
}

type topicSummary struct {
	topKeywords []string
	volume      int
}

// VelocityTracker carries topic volumes from one extraction run to the next
// and computes per-topic growth. It is owned by a single extraction loop and
// is not safe for concurrent use.
type VelocityTracker struct {
	matcher  Matcher
	previous []topicSummary
}

func NewVelocityTracker(matcher Matcher) *VelocityTracker {
	if matcher == nil {
		matcher = JaccardMatcher{Threshold: 0.2}
	}
	return &VelocityTracker{matcher: matcher}
}

// Velocity returns the growth rate of a topic against its best match from
// the previous run. A topic with no match, or whose match had zero volume,
// is treated as brand new and reported as unbounded growth. Each previous
// topic is consumed by at most one current topic.
func (vt *VelocityTracker) Velocity(topKeywords []string, volume int) float64 {
	for i, prev := range vt.previous {
		if !vt.matcher.Match(topKeywords, prev.topKeywords) {
			continue
		}
		vt.previous = append(vt.previous[:i], vt.previous[i+1:]...)
		if prev.volume == 0 {
			return math.Inf(1)
		}
		return float64(volume-prev.volume) / float64(prev.volume)
	}
	return math.Inf(1)
}

// Remember replaces the tracked run with the topics just extracted.
func (vt *VelocityTracker) Remember(summaries []topicSummary) {
	vt.previous = summaries
	slog.Debug("[VelocityTracker] Tracking topics for next run",
		slog.Int("topics", len(summaries)))
}
