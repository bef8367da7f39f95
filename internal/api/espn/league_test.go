package espn

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/CalebUK/kicker-genius-app-sub000/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rosterPayload = `{
	"id": 12345,
	"scoringPeriodId": 6,
	"seasonId": 2025,
	"status": {"currentMatchupPeriod": 6, "isActive": true},
	"settings": {"name": "Sunday Kickers"},
	"teams": [
		{"id": 1, "name": "Coach Dad", "roster": {"entries": [
			{"lineupSlotId": 17, "playerPoolEntry": {"id": 15683, "player": {
				"id": 15683, "fullName": "Justin Tucker", "defaultPositionId": 5, "proTeamId": 33,
				"ownership": {"percentOwned": 88.5},
				"stats": [
					{"statSourceId": 1, "scoringPeriodId": 6, "appliedTotal": 9.1},
					{"statSourceId": 0, "scoringPeriodId": 6, "appliedTotal": 11}
				]}}},
			{"lineupSlotId": 0, "playerPoolEntry": {"id": 1, "player": {
				"id": 1, "fullName": "Lamar Jackson", "defaultPositionId": 1, "proTeamId": 33}}}
		]}},
		{"id": 2, "location": "Beyond", "nickname": "Cursed", "roster": {"entries": [
			{"lineupSlotId": 20, "playerPoolEntry": {"id": 3055899, "player": {
				"id": 3055899, "fullName": "Harrison Butker", "defaultPositionId": 5, "proTeamId": 12,
				"injuryStatus": "QUESTIONABLE",
				"stats": [{"statSourceId": 1, "scoringPeriodId": 6, "appliedTotal": 8.4}]}}}
		]}}
	]
}`

const freeAgentPayload = `{"players": [
	{"id": 4360234, "onTeamId": 0, "player": {"id": 4360234, "fullName": "Cam Little", "defaultPositionId": 5, "proTeamId": 30,
		"stats": [{"statSourceId": 0, "scoringPeriodId": 6, "appliedTotal": 4}]}},
	{"id": 99, "onTeamId": 0, "player": {"id": 99, "fullName": "Some Punter", "defaultPositionId": 7}}
]}`

func newTestAPI(t *testing.T) *API {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/seasons/2025/segments/0/leagues/12345", r.URL.Path)
		assert.Equal(t, "SWID={abc}; espn_s2=s2", r.Header.Get("Cookie"))

		views := r.URL.Query()["view"]
		switch {
		case contains(views, "kona_player_info"):
			_, _ = w.Write([]byte(freeAgentPayload))
		default:
			_, _ = w.Write([]byte(rosterPayload))
		}
	}))
	t.Cleanup(srv.Close)

	client := NewClient(config.ESPNAPI{
		Year: "2025", LeagueID: "12345", SWID: "{abc}", ESPNS2: "s2", BaseURL: srv.URL,
	})
	return NewAPI(client)
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func TestGetLeagueMetadata(t *testing.T) {
	api := newTestAPI(t)

	meta, err := api.GetLeagueMetadata(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12345, meta.LeagueID)
	assert.Equal(t, "Sunday Kickers", meta.Name)
	assert.Equal(t, 6, meta.CurrentWeek)
	assert.True(t, meta.IsActive)
}

func TestGetKickerPool(t *testing.T) {
	api := newTestAPI(t)

	pool, err := api.GetKickerPool(context.Background(), 6)
	require.NoError(t, err)
	require.Len(t, pool, 3)

	tucker := pool[0]
	assert.Equal(t, "J.Tucker", tucker.JoinName)
	assert.Equal(t, "BAL", tucker.ProTeam)
	assert.Equal(t, 1, tucker.TeamID)
	assert.Equal(t, "Coach Dad", tucker.FantasyTeam)
	assert.Equal(t, "K", tucker.LineupSlot)
	require.NotNil(t, tucker.LivePoints)
	assert.Equal(t, 11.0, *tucker.LivePoints)

	butker := pool[1]
	assert.Equal(t, "H.Butker", butker.JoinName)
	assert.Equal(t, "Beyond Cursed", butker.FantasyTeam)
	assert.Equal(t, "Bench", butker.LineupSlot)
	assert.Equal(t, "QUESTIONABLE", butker.InjuryStatus)
	assert.Nil(t, butker.LivePoints, "projected lines are not live points")

	little := pool[2]
	assert.Equal(t, "C.Little", little.JoinName)
	assert.Equal(t, 0, little.TeamID)
	assert.Equal(t, "JAX", little.ProTeam)
	require.NotNil(t, little.LivePoints)
	assert.Equal(t, 4.0, *little.LivePoints)
}

func TestFreeAgentFilterHeader(t *testing.T) {
	var header string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("x-fantasy-filter")
		_, _ = w.Write([]byte(`{"players": []}`))
	}))
	defer srv.Close()

	api := NewAPI(NewClient(config.ESPNAPI{Year: "2025", LeagueID: "1", BaseURL: srv.URL}))
	kickers, err := api.getFreeAgentKickers(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, kickers)

	var filter map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(header), &filter))
	assert.JSONEq(t, `{"value": [17]}`, string(filter["players"]["filterSlotIds"]))
}

func TestGet_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	api := NewAPI(NewClient(config.ESPNAPI{Year: "2025", LeagueID: "1", BaseURL: srv.URL}))
	_, err := api.GetKickerPool(context.Background(), 3)
	assert.ErrorContains(t, err, "fetching league rosters")
	assert.ErrorContains(t, err, "401")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGet_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < getAttempts {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(rosterPayload))
	}))
	defer srv.Close()

	api := NewAPI(NewClient(config.ESPNAPI{Year: "2025", LeagueID: "12345", BaseURL: srv.URL}))
	meta, err := api.GetLeagueMetadata(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Sunday Kickers", meta.Name)
	assert.Equal(t, int32(getAttempts), hits.Load())
}
