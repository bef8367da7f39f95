package engine

import "math"

const (
	// NeutralGrade is the matchup grade of an average opponent.
	NeutralGrade = 90.0

	baseWeight    = 0.50
	offenseWeight = 0.30
	defenseWeight = 0.20

	// A blended projection at or below this floor falls back to the base.
	weightedFloor = 1.0
)

// ProjectionInputs are the per-player values a projection is derived from.
// SeasonAvgPoints is carried for display; the projection recomputes the
// average from SeasonTotalPoints so it follows the active scoring.
type ProjectionInputs struct {
	SeasonAvgPoints    float64 `json:"season_avg_points"`
	SeasonTotalPoints  float64 `json:"season_total_points"`
	GamesPlayed        int     `json:"games_played"`
	MatchupGrade       float64 `json:"matchup_grade"`
	OffenseCapValue    float64 `json:"offense_cap_value"`
	DefenseCapValue    float64 `json:"defense_cap_value"`
	ReferenceAvgPoints float64 `json:"reference_avg_points"`
}

// Projection itemizes a ComputeProjection result.
type Projection struct {
	AvgPoints   float64 `json:"avg_points"`
	Base        float64 `json:"base"`
	ScaleFactor float64 `json:"scale_factor"`
	Offense     float64 `json:"offense"`
	Defense     float64 `json:"defense"`
	Weighted    float64 `json:"weighted"`
	UsedBase    bool    `json:"used_base"`
	Bye         bool    `json:"bye"`
	Points      int     `json:"points"`
}

// ComputeProjection returns next week's whole-point projection.
func ComputeProjection(in ProjectionInputs) int {
	return Project(in).Points
}

// Project computes the projection and keeps every intermediate term.
// A zero matchup grade means no game and projects zero.
func Project(in ProjectionInputs) Projection {
	if in.MatchupGrade == 0 {
		return Projection{Bye: true}
	}

	var p Projection
	p.AvgPoints = in.SeasonTotalPoints / float64(max(in.GamesPlayed, 1))
	p.Base = p.AvgPoints * (in.MatchupGrade / NeutralGrade)

	p.ScaleFactor = 1.0
	if in.ReferenceAvgPoints > 0 {
		p.ScaleFactor = p.AvgPoints / in.ReferenceAvgPoints
	}
	p.Offense = in.OffenseCapValue * p.ScaleFactor
	p.Defense = in.DefenseCapValue * p.ScaleFactor

	p.Weighted = p.Base*baseWeight + p.Offense*offenseWeight + p.Defense*defenseWeight

	result := p.Weighted
	if p.Weighted <= weightedFloor {
		result = p.Base
		p.UsedBase = true
	}
	p.Points = roundHalfUp(result)
	return p
}

// roundHalfUp rounds ties toward positive infinity, so 2.5 becomes 3 and
// -2.5 becomes -2.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
