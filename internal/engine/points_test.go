package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputePoints(t *testing.T) {
	scoring := DefaultScoring()

	tests := []struct {
		name     string
		counts   KickOutcomeCounts
		expected float64
	}{
		{
			name:     "all zero counts score nothing",
			counts:   KickOutcomeCounts{},
			expected: 0,
		},
		{
			name: "makes across buckets",
			counts: KickOutcomeCounts{
				Makes: [NumBuckets]int{1, 2, 3, 2, 1, 0},
			},
			expected: 3 + 6 + 9 + 8 + 5,
		},
		{
			name: "extra points",
			counts: KickOutcomeCounts{
				XPMade: 4,
				XPMiss: 1,
			},
			expected: 3,
		},
		{
			name: "generic miss used without granular data",
			counts: KickOutcomeCounts{
				Makes: [NumBuckets]int{0, 0, 2, 0, 0, 0},
				Miss:  3,
			},
			expected: 6 - 3,
		},
		{
			name: "granular misses replace generic miss",
			counts: KickOutcomeCounts{
				Makes:  [NumBuckets]int{0, 0, 2, 0, 0, 0},
				Misses: [NumBuckets]int{0, 0, 0, 1, 0, 0},
				Miss:   5,
			},
			expected: 6 - 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts := tt.counts
			assert.Equal(t, tt.expected, ComputePoints(&counts, &scoring))
		})
	}
}

func TestComputePoints_NilInputs(t *testing.T) {
	scoring := DefaultScoring()
	counts := KickOutcomeCounts{XPMade: 3}

	assert.Equal(t, 0.0, ComputePoints(nil, &scoring))
	assert.Equal(t, 0.0, ComputePoints(&counts, nil))
	assert.Equal(t, 0.0, ComputePoints(nil, nil))
}

func TestComputePoints_ZeroCountsAnyScoring(t *testing.T) {
	scoring := ScoringConfig{
		Name: "odd", FG0To19: 7.5, FG60Plus: -2, Miss40To49: -9, FGMiss: -4, XPMade: 0.5, XPMiss: -3,
	}
	counts := KickOutcomeCounts{}
	assert.Equal(t, 0.0, ComputePoints(&counts, &scoring))
}

func TestComputePoints_LinearInMakes(t *testing.T) {
	scoring := DefaultScoring()
	scoring.FG40To49 = 4.5

	for _, bucket := range Buckets {
		one := KickOutcomeCounts{}
		one.Makes[bucket] = 1
		many := KickOutcomeCounts{}
		many.Makes[bucket] = 7

		single := ComputePoints(&one, &scoring)
		assert.Equal(t, scoring.MakeValue(bucket), single, bucket.String())
		assert.Equal(t, 7*single, ComputePoints(&many, &scoring), bucket.String())
	}

	// Adding makes in another bucket adds exactly that bucket's value.
	base := KickOutcomeCounts{Makes: [NumBuckets]int{0, 0, 0, 2, 0, 0}}
	more := base
	more.Makes[Bucket50To59] = 3
	assert.Equal(t,
		ComputePoints(&base, &scoring)+3*scoring.FG50To59,
		ComputePoints(&more, &scoring))
}

func TestComputePoints_NoDoubleCountedMisses(t *testing.T) {
	scoring := DefaultScoring()
	scoring.FGMiss = -100
	scoring.Miss50To59 = -0.5

	counts := KickOutcomeCounts{
		Misses: [NumBuckets]int{0, 0, 0, 0, 2, 0},
		Miss:   2,
	}

	b := Breakdown(counts, scoring)
	assert.False(t, b.GenericMisses)
	assert.Equal(t, -1.0, b.MissPenalty)
	assert.Equal(t, -1.0, b.Total)
}

func TestBreakdown_MatchesComputePoints(t *testing.T) {
	scoring := DefaultScoring()
	counts := KickOutcomeCounts{
		Makes:  [NumBuckets]int{1, 4, 6, 5, 2, 1},
		Misses: [NumBuckets]int{0, 0, 1, 2, 1, 0},
		XPMade: 20,
		XPMiss: 2,
	}

	b := Breakdown(counts, scoring)
	assert.Len(t, b.Buckets, NumBuckets)
	assert.Equal(t, Bucket30To39, b.Buckets[2].Bucket)
	assert.Equal(t, 18.0, b.Buckets[2].MakePoints)
	assert.Equal(t, -1.0, b.Buckets[2].MissPoints)
	assert.Equal(t, ComputePoints(&counts, &scoring), b.Total)
	assert.Equal(t, b.MakePoints+b.XPMadePoints+b.MissPenalty+b.XPMissPoints, b.Total)
}

func TestComputePoints_Deterministic(t *testing.T) {
	scoring := DefaultScoring()
	scoring.FG50To59 = 5.3
	scoring.XPMade = 1.1
	counts := KickOutcomeCounts{
		Makes:  [NumBuckets]int{0, 3, 7, 5, 3, 1},
		Misses: [NumBuckets]int{0, 1, 0, 1, 1, 0},
		XPMade: 31,
	}

	first := ComputePoints(&counts, &scoring)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ComputePoints(&counts, &scoring))
	}
}
