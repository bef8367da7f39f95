package models

// ESPN fantasy API payloads for the league views the roster sync reads.

type LeagueResponse struct {
	ID              int      `json:"id"`
	ScoringPeriodID int      `json:"scoringPeriodId"`
	SeasonID        int      `json:"seasonId"`
	Status          Status   `json:"status"`
	Teams           []Team   `json:"teams"`
	Settings        Settings `json:"settings"`
}

type Settings struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type Status struct {
	CurrentMatchupPeriod int  `json:"currentMatchupPeriod"`
	FinalScoringPeriod   int  `json:"finalScoringPeriod"`
	FirstScoringPeriod   int  `json:"firstScoringPeriod"`
	IsActive             bool `json:"isActive"`
}

type Team struct {
	ID           int    `json:"id"`
	Abbreviation string `json:"abbrev"`
	Name         string `json:"name"`
	Location     string `json:"location"`
	Nickname     string `json:"nickname"`
	Roster       Roster `json:"roster"`
}

// DisplayName prefers the combined name and falls back to location and
// nickname, which older seasons use instead.
func (t Team) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	if t.Location != "" || t.Nickname != "" {
		return t.Location + " " + t.Nickname
	}
	return t.Abbreviation
}

type Roster struct {
	Entries []RosterEntry `json:"entries"`
}

type RosterEntry struct {
	PlayerID        int             `json:"playerId"`
	LineupSlotID    int             `json:"lineupSlotId"`
	PlayerPoolEntry PlayerPoolEntry `json:"playerPoolEntry"`
}

type PlayerPoolEntry struct {
	ID               int     `json:"id"`
	OnTeamID         int     `json:"onTeamId"`
	Player           Player  `json:"player"`
	AppliedStatTotal float64 `json:"appliedStatTotal"`
}

type Player struct {
	ID                int             `json:"id"`
	FullName          string          `json:"fullName"`
	DefaultPositionID int             `json:"defaultPositionId"`
	ProTeamID         int             `json:"proTeamId"`
	Ownership         PlayerOwnership `json:"ownership"`
	Stats             []Stat          `json:"stats"`
	InjuryStatus      string          `json:"injuryStatus"`
}

type PlayerOwnership struct {
	PercentOwned float64 `json:"percentOwned"`
}

// Stat is one stat line. StatSourceID 0 is actual, 1 is projected.
type Stat struct {
	StatSourceID    int                `json:"statSourceId"`
	ScoringPeriodID int                `json:"scoringPeriodId"`
	AppliedTotal    float64            `json:"appliedTotal"`
	AppliedStats    map[string]float64 `json:"appliedStats"`
}

type PlayerCardResponse struct {
	Players []PlayerPoolEntry `json:"players"`
}
