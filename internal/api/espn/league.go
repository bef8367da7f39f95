package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/CalebUK/kicker-genius-app-sub000/internal/models"
)

const (
	kickerPositionID = 5
	kickerSlotID     = 17
	benchSlotID      = 20
	irSlotID         = 21
)

type API struct {
	client *Client
}

func NewAPI(client *Client) *API {
	return &API{client: client}
}

func (a *API) GetLeagueMetadata(ctx context.Context) (*models.LeagueMetadata, error) {
	var espnResponse models.LeagueResponse
	params := map[string]string{
		"view": "mSettings",
	}

	if err := a.client.Get(ctx, a.client.leagueEndpoint(), params, nil, &espnResponse); err != nil {
		return nil, fmt.Errorf("fetching league metadata: %w", err)
	}

	metadata := &models.LeagueMetadata{
		LeagueID:             espnResponse.ID,
		Name:                 espnResponse.Settings.Name,
		CurrentWeek:          espnResponse.Status.CurrentMatchupPeriod,
		CurrentScoringPeriod: espnResponse.ScoringPeriodID,
		SeasonID:             espnResponse.SeasonID,
		IsActive:             espnResponse.Status.IsActive,
		LastUpdated:          time.Now(),
	}

	return metadata, nil
}

// GetKickerPool returns every rostered kicker for the scoring period,
// followed by free-agent kickers.
func (a *API) GetKickerPool(ctx context.Context, week int) ([]models.RosteredKicker, error) {
	rostered, err := a.getRosteredKickers(ctx, week)
	if err != nil {
		return nil, err
	}
	free, err := a.getFreeAgentKickers(ctx, week)
	if err != nil {
		return nil, err
	}
	return append(rostered, free...), nil
}

func (a *API) getRosteredKickers(ctx context.Context, week int) ([]models.RosteredKicker, error) {
	var leagueResponse models.LeagueResponse
	params := map[string]string{
		"view":            "mRoster,mTeam",
		"scoringPeriodId": fmt.Sprintf("%d", week),
	}

	if err := a.client.Get(ctx, a.client.leagueEndpoint(), params, nil, &leagueResponse); err != nil {
		return nil, fmt.Errorf("fetching league rosters: %w", err)
	}

	var kickers []models.RosteredKicker
	for _, team := range leagueResponse.Teams {
		for _, entry := range team.Roster.Entries {
			player := entry.PlayerPoolEntry.Player
			if player.DefaultPositionID != kickerPositionID {
				continue
			}
			k := toKicker(entry.PlayerPoolEntry, week)
			k.TeamID = team.ID
			k.FantasyTeam = team.DisplayName()
			k.LineupSlot = getLineupSlotString(entry.LineupSlotID)
			kickers = append(kickers, k)
		}
	}

	sort.Slice(kickers, func(i, j int) bool {
		if kickers[i].TeamID != kickers[j].TeamID {
			return kickers[i].TeamID < kickers[j].TeamID
		}
		return kickers[i].FullName < kickers[j].FullName
	})
	return kickers, nil
}

func (a *API) getFreeAgentKickers(ctx context.Context, week int) ([]models.RosteredKicker, error) {
	var cardResponse models.PlayerCardResponse
	params := map[string]string{
		"view":            "kona_player_info",
		"scoringPeriodId": fmt.Sprintf("%d", week),
	}

	filters := map[string]interface{}{
		"players": map[string]interface{}{
			"filterStatus": map[string]interface{}{
				"value": []string{"FREEAGENT", "WAIVERS"},
			},
			"filterSlotIds": map[string]interface{}{
				"value": []int{kickerSlotID},
			},
			"limit": 64,
		},
	}

	filtersJSON, err := json.Marshal(filters)
	if err != nil {
		return nil, fmt.Errorf("error marshalling filters: %w", err)
	}

	headers := map[string]string{
		"x-fantasy-filter": string(filtersJSON),
	}

	if err := a.client.Get(ctx, a.client.leagueEndpoint(), params, headers, &cardResponse); err != nil {
		return nil, fmt.Errorf("fetching free agent kickers: %w", err)
	}

	var kickers []models.RosteredKicker
	for _, entry := range cardResponse.Players {
		if entry.Player.DefaultPositionID != kickerPositionID || entry.OnTeamID != 0 {
			continue
		}
		kickers = append(kickers, toKicker(entry, week))
	}
	sort.Slice(kickers, func(i, j int) bool {
		return kickers[i].FullName < kickers[j].FullName
	})
	return kickers, nil
}

func toKicker(entry models.PlayerPoolEntry, week int) models.RosteredKicker {
	player := entry.Player
	k := models.RosteredKicker{
		PlayerID:     player.ID,
		FullName:     player.FullName,
		JoinName:     models.JoinName(player.FullName),
		ProTeam:      getProTeamString(player.ProTeamID),
		TeamID:       entry.OnTeamID,
		PercentOwned: player.Ownership.PercentOwned,
		InjuryStatus: player.InjuryStatus,
	}
	if points, ok := getActualPoints(player, week); ok {
		k.LivePoints = &points
	}
	return k
}

// getActualPoints returns the actual (not projected) applied total for the
// week, if the player has one yet.
func getActualPoints(player models.Player, week int) (float64, bool) {
	for _, stat := range player.Stats {
		if stat.ScoringPeriodID == week && stat.StatSourceID == 0 {
			return stat.AppliedTotal, true
		}
	}
	return 0, false
}

func getProTeamString(proTeamID int) string {
	teams := map[int]string{
		1: "ATL", 2: "BUF", 3: "CHI", 4: "CIN", 5: "CLE", 6: "DAL", 7: "DEN", 8: "DET",
		9: "GB", 10: "TEN", 11: "IND", 12: "KC", 13: "LV", 14: "LAR", 15: "MIA", 16: "MIN",
		17: "NE", 18: "NO", 19: "NYG", 20: "NYJ", 21: "PHI", 22: "ARI", 23: "PIT", 24: "LAC",
		25: "SF", 26: "SEA", 27: "TB", 28: "WSH", 29: "CAR", 30: "JAX", 33: "BAL", 34: "HOU",
	}

	if team, ok := teams[proTeamID]; ok {
		return team
	}

	return "FA"
}

func getLineupSlotString(slotID int) string {
	switch slotID {
	case kickerSlotID:
		return "K"
	case benchSlotID:
		return "Bench"
	case irSlotID:
		return "IR"
	default:
		return "Unknown"
	}
}
