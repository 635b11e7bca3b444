package topics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJaccardMatcher(t *testing.T) {
	m := JaccardMatcher{Threshold: 0.2}

	cases := []struct {
		name     string
		current  []string
		previous []string
		want     bool
	}{
		{"identical sets", []string{"a", "b", "c"}, []string{"a", "b", "c"}, true},
		{"disjoint sets", []string{"a", "b"}, []string{"c", "d"}, false},
		{"one shared of five", []string{"a", "b", "c"}, []string{"a", "d", "e"}, true},
		{"empty current", nil, []string{"a"}, false},
		{"empty previous", []string{"a"}, nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, m.Match(tc.current, tc.previous))
		})
	}
}

func TestJaccardMatcherThresholdBoundary(t *testing.T) {
	// 1 shared term out of 5 distinct terms is exactly 0.2.
	m := JaccardMatcher{Threshold: 0.2}
	assert.True(t, m.Match([]string{"a", "b", "c"}, []string{"a", "d", "e"}))

	// 1 of 6 falls below.
	assert.False(t, m.Match([]string{"a", "b", "c"}, []string{"a", "d", "e", "f"}))
}

func TestVelocityAgainstPreviousRun(t *testing.T) {
	vt := NewVelocityTracker(nil)
	vt.Remember([]topicSummary{
		{topKeywords: []string{"gpu", "shortage", "pricing"}, volume: 10},
	})

	v := vt.Velocity([]string{"gpu", "shortage", "pricing"}, 15)
	assert.InDelta(t, 0.5, v, 1e-9)
}

func TestVelocityNewTopicIsUnbounded(t *testing.T) {
	vt := NewVelocityTracker(nil)
	vt.Remember([]topicSummary{
		{topKeywords: []string{"election", "polls"}, volume: 10},
	})

	assert.True(t, math.IsInf(vt.Velocity([]string{"gpu", "shortage"}, 7), 1))
}

func TestVelocityZeroVolumePredecessor(t *testing.T) {
	vt := NewVelocityTracker(nil)
	vt.Remember([]topicSummary{
		{topKeywords: []string{"gpu", "shortage"}, volume: 0},
	})

	assert.True(t, math.IsInf(vt.Velocity([]string{"gpu", "shortage"}, 7), 1))
}

func TestVelocityShrinkingTopicGoesNegative(t *testing.T) {
	vt := NewVelocityTracker(nil)
	vt.Remember([]topicSummary{
		{topKeywords: []string{"gpu", "shortage"}, volume: 20},
	})

	assert.InDelta(t, -0.5, vt.Velocity([]string{"gpu", "shortage"}, 10), 1e-9)
}

func TestVelocityPreviousTopicConsumedOnce(t *testing.T) {
	vt := NewVelocityTracker(nil)
	vt.Remember([]topicSummary{
		{topKeywords: []string{"gpu", "shortage"}, volume: 10},
	})

	assert.InDelta(t, 1.0, vt.Velocity([]string{"gpu", "shortage"}, 20), 1e-9)
	// Second topic matching the same predecessor counts as new.
	assert.True(t, math.IsInf(vt.Velocity([]string{"gpu", "shortage"}, 5), 1))
}
