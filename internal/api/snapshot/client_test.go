package snapshot

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/CalebUK/kicker-genius-app-sub000/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feed = `{
	"rankings": [{"player_display_name": "Justin Tucker", "team": "BAL", "grade": 95, "fg_30_39": 4}],
	"ytd": [],
	"injuries": [{"player_display_name": "Evan McPherson", "injury_status": "OUT"}],
	"meta": {"week": 6, "league_avgs": {"avg_pts": 8.1}}
}`

func TestFetch_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(feed))
	}))
	defer srv.Close()

	c := NewClient(config.Snapshot{URL: srv.URL + "/kicker_data.json"})
	snap, err := c.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, snap.Meta.Week)
	assert.Equal(t, 8.1, snap.Meta.LeagueAvgs.AvgPoints)
	require.Len(t, snap.Rankings, 1)
	assert.Equal(t, "Justin Tucker", snap.Rankings[0].Name)
	assert.Equal(t, 4, snap.Rankings[0].FG30To39)
	require.Len(t, snap.Injuries, 1)
	assert.Equal(t, "OUT", snap.Injuries[0].InjuryStatus)
}

func TestFetch_BadStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantHits int32
	}{
		{"server error is retried", http.StatusBadGateway, 3},
		{"client error is not", http.StatusNotFound, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewClient(config.Snapshot{URL: srv.URL, Attempts: 3, RetryDelay: time.Millisecond})
			_, err := c.Fetch(context.Background())
			assert.ErrorContains(t, err, fmt.Sprintf("unexpected status code: %d", tt.status))
			assert.Equal(t, tt.wantHits, hits.Load())
		})
	}
}

func TestFetch_RecoversAfterRetry(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(feed))
	}))
	defer srv.Close()

	c := NewClient(config.Snapshot{URL: srv.URL, Attempts: 3, RetryDelay: time.Millisecond})
	snap, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, snap.Meta.Week)
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetch_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rankings": [`))
	}))
	defer srv.Close()

	_, err := NewClient(config.Snapshot{URL: srv.URL}).Fetch(context.Background())
	assert.ErrorContains(t, err, "error decoding snapshot")
}

func TestFetch_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kicker_data.json")
	require.NoError(t, os.WriteFile(path, []byte(feed), 0o644))

	for _, src := range []string{path, "file://" + path} {
		snap, err := NewClient(config.Snapshot{URL: src}).Fetch(context.Background())
		require.NoError(t, err, src)
		assert.Equal(t, 6, snap.Meta.Week)
	}

	_, err := NewClient(config.Snapshot{URL: filepath.Join(t.TempDir(), "missing.json")}).Fetch(context.Background())
	assert.Error(t, err)
}
