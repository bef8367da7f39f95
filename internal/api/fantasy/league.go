package fantasy

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/CalebUK/kicker-genius-app-sub000/internal/api/espn"
	"github.com/CalebUK/kicker-genius-app-sub000/internal/api/snapshot"
	"github.com/CalebUK/kicker-genius-app-sub000/internal/models"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ErrSyncDisabled is returned by league calls when no league is configured.
var ErrSyncDisabled = errors.New("league sync disabled")

// nameMatchThreshold is the minimum similarity for a fuzzy name match.
const nameMatchThreshold = 0.7

// API joins the snapshot feed with the optional ESPN league.
type API struct {
	snapshot *snapshot.Client
	espnAPI  *espn.API
	myTeamID int
}

// NewAPI builds the facade. espnAPI may be nil.
func NewAPI(snapshotClient *snapshot.Client, espnAPI *espn.API, myTeamID int) *API {
	return &API{snapshot: snapshotClient, espnAPI: espnAPI, myTeamID: myTeamID}
}

func (a *API) GetSnapshot(ctx context.Context) (*models.Snapshot, error) {
	return a.snapshot.Fetch(ctx)
}

func (a *API) SyncEnabled() bool {
	return a.espnAPI != nil
}

func (a *API) GetLeagueMetadata(ctx context.Context) (*models.LeagueMetadata, error) {
	if a.espnAPI == nil {
		return nil, ErrSyncDisabled
	}
	return a.espnAPI.GetLeagueMetadata(ctx)
}

// GetLiveState pulls the league's kicker pool for week and keys live
// points and ownership by the snapshot's join names.
func (a *API) GetLiveState(ctx context.Context, week int, joinNames []string) (*models.LiveState, error) {
	if a.espnAPI == nil {
		return nil, ErrSyncDisabled
	}
	pool, err := a.espnAPI.GetKickerPool(ctx, week)
	if err != nil {
		return nil, err
	}
	return BuildLiveState(pool, joinNames, a.myTeamID, week, time.Now()), nil
}

// BuildLiveState maps a kicker pool onto known join names. Exact and
// case-insensitive matches claim their names before any fuzzy match runs,
// and a fuzzy match only considers names nobody has claimed. Kickers that
// do not resolve to any known name are dropped.
func BuildLiveState(pool []models.RosteredKicker, joinNames []string, myTeamID, week int, now time.Time) *models.LiveState {
	state := &models.LiveState{
		Week:      week,
		Overrides: make(map[string]float64),
		Owners:    make(map[string]models.Ownership),
		Teams:     make(map[string]string),
		SyncedAt:  now,
	}

	claimed := make(map[string]bool, len(pool))
	var unresolved []models.RosteredKicker
	for _, k := range pool {
		key, ok := matchExact(k.JoinName, joinNames)
		if !ok {
			unresolved = append(unresolved, k)
			continue
		}
		if claimed[key] {
			continue
		}
		claimed[key] = true
		applyKicker(state, key, k, myTeamID)
	}

	for _, k := range unresolved {
		var open []string
		for _, name := range joinNames {
			if !claimed[name] {
				open = append(open, name)
			}
		}
		key, ok := matchFuzzy(k.JoinName, open)
		if !ok {
			continue
		}
		claimed[key] = true
		applyKicker(state, key, k, myTeamID)
	}

	// Known kickers outside every roster and the free-agent page are free.
	for _, name := range joinNames {
		if _, ok := state.Owners[name]; !ok {
			state.Owners[name] = models.OwnershipFree
		}
	}
	return state
}

func applyKicker(state *models.LiveState, key string, k models.RosteredKicker, myTeamID int) {
	if k.LivePoints != nil {
		state.Overrides[key] = *k.LivePoints
	}
	switch {
	case k.TeamID == 0:
		state.Owners[key] = models.OwnershipFree
	case k.TeamID == myTeamID:
		state.Owners[key] = models.OwnershipMine
	default:
		state.Owners[key] = models.OwnershipTaken
	}
	if k.FantasyTeam != "" {
		state.Teams[key] = k.FantasyTeam
	}
}

// MatchJoinName resolves name against known join names: exact match first,
// then case-insensitive, then the closest Levenshtein match above the
// similarity threshold.
func MatchJoinName(name string, known []string) (string, bool) {
	if key, ok := matchExact(name, known); ok {
		return key, true
	}
	return matchFuzzy(name, known)
}

func matchExact(name string, known []string) (string, bool) {
	if name == "" {
		return "", false
	}
	for _, k := range known {
		if k == name {
			return k, true
		}
	}
	for _, k := range known {
		if strings.EqualFold(k, name) {
			return k, true
		}
	}
	return "", false
}

func matchFuzzy(name string, known []string) (string, bool) {
	if name == "" {
		return "", false
	}
	lower := strings.ToLower(name)
	best := ""
	bestScore := nameMatchThreshold
	for _, k := range known {
		candidate := strings.ToLower(k)
		distance := fuzzy.LevenshteinDistance(lower, candidate)
		maxLen := float64(max(len(lower), len(candidate)))
		similarity := 1 - float64(distance)/maxLen

		if similarity > bestScore {
			bestScore = similarity
			best = k
		}
	}
	return best, best != ""
}
