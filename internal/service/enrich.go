package service

import (
	"time"

	"github.com/CalebUK/kicker-genius-app-sub000/internal/engine"
	"github.com/CalebUK/kicker-genius-app-sub000/internal/models"
)

// Where a view's live score came from.
const (
	LiveSourceLeague   = "league"
	LiveSourceFeed     = "feed"
	LiveSourceComputed = "computed"
)

type enriched struct {
	view       models.KickerView
	season     engine.PointsBreakdown
	week       engine.PointsBreakdown
	inputs     engine.ProjectionInputs
	projection engine.Projection
}

// enrich derives one view row from a snapshot record. The record is not
// modified.
func (s *KickerService) enrich(rec models.PlayerRecord, scoring engine.ScoringConfig, live *models.LiveState, now time.Time) enriched {
	var e enriched
	join := rec.JoinName()

	seasonCounts := rec.SeasonCounts()
	e.season = engine.Breakdown(seasonCounts, scoring)
	seasonPoints := e.season.Total
	// Older feeds carry totals without kick counts.
	if seasonCounts.IsZero() {
		seasonPoints = rec.TotalPoints
	}

	e.week = engine.Breakdown(rec.WeeklyCounts(), scoring)
	livePoints, source := e.week.Total, LiveSourceComputed
	if rec.LivePoints != nil {
		livePoints, source = *rec.LivePoints, LiveSourceFeed
	}
	if live != nil {
		if v, ok := live.Overrides[join]; ok {
			livePoints, source = v, LiveSourceLeague
		}
	}

	e.inputs = engine.ProjectionInputs{
		SeasonAvgPoints:    seasonPoints / float64(max(rec.Games, 1)),
		SeasonTotalPoints:  seasonPoints,
		GamesPlayed:        rec.Games,
		MatchupGrade:       rec.Grade,
		OffenseCapValue:    rec.OffCapValue,
		DefenseCapValue:    rec.DefCapValue,
		ReferenceAvgPoints: rec.AvgPoints,
	}
	e.projection = engine.Project(e.inputs)

	e.view = models.KickerView{
		Name:         rec.Name,
		JoinName:     join,
		Team:         rec.Team,
		Opponent:     rec.Opponent,
		Games:        rec.Games,
		SeasonPoints: seasonPoints,
		AvgPoints:    e.inputs.SeasonAvgPoints,
		Grade:        rec.Grade,
		OffStallRate: rec.OffStallRate,
		DefStallRate: rec.DefStallRate,
		WeekPoints:   e.week.Total,
		LivePoints:   livePoints,
		LiveSource:   source,
		Projection:   e.projection.Points,
		Status:       s.classifier.Classify(rec.GameTime, now),
		GameTime:     rec.GameTime,
		InjuryStatus: rec.InjuryStatus,
	}
	if live != nil {
		e.view.Ownership = live.Owners[join]
		e.view.FantasyTeam = live.Teams[join]
	}
	return e
}
