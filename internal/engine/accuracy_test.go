package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func samplesFromDiffs(diffs ...float64) []AccuracySample {
	out := make([]AccuracySample, len(diffs))
	for i, d := range diffs {
		out[i] = AccuracySample{LiveScore: 10 + d, ProjectedScore: 10}
	}
	return out
}

func TestAggregate_Empty(t *testing.T) {
	s := Aggregate(nil)
	assert.Equal(t, AccuracySummary{}, s)

	s = Aggregate([]AccuracySample{})
	assert.Equal(t, 0, s.WinRate)
	assert.Equal(t, 0, s.SmashRate)
	assert.Equal(t, 0, s.BustRate)
	assert.Equal(t, 0, s.MetRate)
}

func TestAggregate_Quartiles(t *testing.T) {
	// Shuffled on purpose; the aggregator sorts.
	s := Aggregate(samplesFromDiffs(5, -2, 9, -6, 3, 0))

	assert.Equal(t, 6, s.Count)
	assert.Equal(t, -6.0, s.Min)
	assert.Equal(t, 9.0, s.Max)
	assert.InDelta(t, -1.5, s.Q1, 1e-9)
	assert.InDelta(t, 1.5, s.Median, 1e-9)
	assert.InDelta(t, 4.5, s.Q3, 1e-9)
}

func TestAggregate_Classification(t *testing.T) {
	// -6 bust, -2 met, 0 met, 3 met, 5 smash, 9 smash
	s := Aggregate(samplesFromDiffs(-6, -2, 0, 3, 5, 9))

	assert.Equal(t, 1, s.Busts)
	assert.Equal(t, 3, s.Mets)
	assert.Equal(t, 2, s.Smashes)
	assert.Equal(t, 17, s.BustRate)
	assert.Equal(t, 50, s.MetRate)
	assert.Equal(t, 33, s.SmashRate)
	// 0, 3, 5, 9 are at or above projection.
	assert.Equal(t, 67, s.WinRate)
}

func TestAggregate_Totals(t *testing.T) {
	s := Aggregate([]AccuracySample{
		{LiveScore: 12, ProjectedScore: 8},
		{LiveScore: 4, ProjectedScore: 9},
		{LiveScore: 7, ProjectedScore: 7},
	})

	assert.Equal(t, 23.0, s.TotalActual)
	assert.Equal(t, 24.0, s.TotalProjected)
	assert.Equal(t, -1.0, s.OverallDiff)
}

func TestAggregate_TooFewForQuartiles(t *testing.T) {
	s := Aggregate(samplesFromDiffs(4, -1, 2))

	assert.Equal(t, -1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.Zero(t, s.Q1)
	assert.Zero(t, s.Median)
	assert.Zero(t, s.Q3)
}

func TestAggregate_ExactRank(t *testing.T) {
	// n=5 puts every quartile on an exact index.
	s := Aggregate(samplesFromDiffs(1, 2, 3, 4, 5))
	assert.Equal(t, 2.0, s.Q1)
	assert.Equal(t, 3.0, s.Median)
	assert.Equal(t, 4.0, s.Q3)
}

func TestClassifyDiff_Boundaries(t *testing.T) {
	assert.Equal(t, OutcomeMet, ClassifyDiff(3))
	assert.Equal(t, OutcomeMet, ClassifyDiff(-3))
	assert.Equal(t, OutcomeSmash, ClassifyDiff(3.01))
	assert.Equal(t, OutcomeBust, ClassifyDiff(-3.01))
}

func TestAggregate_Deterministic(t *testing.T) {
	samples := samplesFromDiffs(1.25, -7.5, 3.3, 0.1, 12, -2.2, 4)
	first := Aggregate(samples)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Aggregate(samples))
	}
}
