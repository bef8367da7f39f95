package models

import (
	"time"

	"github.com/CalebUK/kicker-genius-app-sub000/internal/engine"
)

type LeagueMetadata struct {
	LeagueID             int
	Name                 string
	CurrentWeek          int
	CurrentScoringPeriod int
	SeasonID             int
	IsActive             bool
	LastUpdated          time.Time
}

// Ownership partitions kickers relative to the configured fantasy team.
type Ownership string

const (
	OwnershipUnknown Ownership = ""
	OwnershipMine    Ownership = "mine"
	OwnershipTaken   Ownership = "taken"
	OwnershipFree    Ownership = "free"
)

// RosteredKicker is a kicker as the league platform sees it this week.
// LivePoints is nil until an actual stat line exists for the week.
type RosteredKicker struct {
	PlayerID     int
	FullName     string
	JoinName     string
	ProTeam      string
	FantasyTeam  string
	TeamID       int
	LineupSlot   string
	PercentOwned float64
	InjuryStatus string
	LivePoints   *float64
}

// LiveState is the latest roster sync, keyed by snapshot join name.
type LiveState struct {
	Week      int
	Overrides map[string]float64
	Owners    map[string]Ownership
	Teams     map[string]string
	SyncedAt  time.Time
}

// KickerView is a ranking row enriched under one scoring config.
type KickerView struct {
	Name         string           `json:"name"`
	JoinName     string           `json:"join_name"`
	Team         string           `json:"team"`
	Opponent     string           `json:"opponent"`
	Games        int              `json:"games"`
	SeasonPoints float64          `json:"season_points"`
	AvgPoints    float64          `json:"avg_points"`
	Grade        float64          `json:"grade"`
	OffStallRate float64          `json:"off_stall_rate"`
	DefStallRate float64          `json:"def_stall_rate"`
	WeekPoints   float64          `json:"week_points"`
	LivePoints   float64          `json:"live_points"`
	LiveSource   string           `json:"live_source"`
	Projection   int              `json:"projection"`
	Status       engine.GameState `json:"status"`
	GameTime     string           `json:"game_time"`
	InjuryStatus string           `json:"injury_status,omitempty"`
	Ownership    Ownership        `json:"ownership,omitempty"`
	FantasyTeam  string           `json:"fantasy_team,omitempty"`
}

// PlayerExplanation shows how a player's numbers were derived.
type PlayerExplanation struct {
	View       KickerView              `json:"view"`
	Scoring    engine.ScoringConfig    `json:"scoring"`
	Season     engine.PointsBreakdown  `json:"season"`
	Week       engine.PointsBreakdown  `json:"week"`
	Inputs     engine.ProjectionInputs `json:"inputs"`
	Projection engine.Projection       `json:"projection"`
	History    []HistoryEntry          `json:"history"`
}

type AccuracyRow struct {
	Name      string         `json:"name"`
	Team      string         `json:"team"`
	Live      float64        `json:"live"`
	Projected float64        `json:"projected"`
	Diff      float64        `json:"diff"`
	Outcome   engine.Outcome `json:"outcome"`
}

type AccuracyReport struct {
	Week    int                    `json:"week"`
	Current bool                   `json:"current"`
	Rows    []AccuracyRow          `json:"rows"`
	Summary engine.AccuracySummary `json:"summary"`
}
