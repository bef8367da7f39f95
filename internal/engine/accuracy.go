package engine

import (
	"math"
	"sort"
)

// AccuracyTolerance is the largest |live - projected| still counted as met.
const AccuracyTolerance = 3.0

// minQuartileSamples is the smallest sample set that gets quartiles.
const minQuartileSamples = 4

// Outcome classifies one live score against its projection.
type Outcome string

const (
	OutcomeMet   Outcome = "met"
	OutcomeSmash Outcome = "smash"
	OutcomeBust  Outcome = "bust"
)

// ClassifyDiff buckets live minus projected into an outcome.
func ClassifyDiff(diff float64) Outcome {
	switch {
	case diff > AccuracyTolerance:
		return OutcomeSmash
	case diff < -AccuracyTolerance:
		return OutcomeBust
	default:
		return OutcomeMet
	}
}

type AccuracySample struct {
	LiveScore      float64 `json:"live_score"`
	ProjectedScore float64 `json:"projected_score"`
}

// AccuracySummary describes how live scores landed against projections.
// Rates are whole percentages. WinRate is the share of samples that met or
// beat their projection (live >= projected).
type AccuracySummary struct {
	Count          int     `json:"count"`
	TotalActual    float64 `json:"total_actual"`
	TotalProjected float64 `json:"total_projected"`
	OverallDiff    float64 `json:"overall_diff"`

	Smashes int `json:"smashes"`
	Busts   int `json:"busts"`
	Mets    int `json:"mets"`

	WinRate   int `json:"win_rate"`
	SmashRate int `json:"smash_rate"`
	BustRate  int `json:"bust_rate"`
	MetRate   int `json:"met_rate"`

	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
}

// Aggregate summarizes samples. An empty set yields the zero summary, and
// fewer than four samples leave the quartiles at zero.
func Aggregate(samples []AccuracySample) AccuracySummary {
	var s AccuracySummary
	n := len(samples)
	s.Count = n
	if n == 0 {
		return s
	}

	diffs := make([]float64, n)
	wins := 0
	for i, sample := range samples {
		s.TotalActual += sample.LiveScore
		s.TotalProjected += sample.ProjectedScore

		d := sample.LiveScore - sample.ProjectedScore
		diffs[i] = d
		if d >= 0 {
			wins++
		}
		switch ClassifyDiff(d) {
		case OutcomeSmash:
			s.Smashes++
		case OutcomeBust:
			s.Busts++
		default:
			s.Mets++
		}
	}
	s.OverallDiff = s.TotalActual - s.TotalProjected

	s.WinRate = rate(wins, n)
	s.SmashRate = rate(s.Smashes, n)
	s.BustRate = rate(s.Busts, n)
	s.MetRate = rate(s.Mets, n)

	sort.Float64s(diffs)
	s.Min = diffs[0]
	s.Max = diffs[n-1]

	if n >= minQuartileSamples {
		s.Q1 = percentile(diffs, 25)
		s.Median = percentile(diffs, 50)
		s.Q3 = percentile(diffs, 75)
	}
	return s
}

func rate(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) * 100 / float64(total)))
}

// percentile interpolates linearly between the two closest ranks of an
// ascending slice.
func percentile(sorted []float64, p float64) float64 {
	k := float64(len(sorted)-1) * p / 100
	f := math.Floor(k)
	c := math.Ceil(k)
	if f == c {
		return sorted[int(k)]
	}
	return sorted[int(f)]*(c-k) + sorted[int(c)]*(k-f)
}
