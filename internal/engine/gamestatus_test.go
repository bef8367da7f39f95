package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	kickoff := time.Date(2025, time.October, 12, 17, 0, 0, 0, time.UTC)
	stamp := kickoff.Format(time.RFC3339)

	tests := []struct {
		name     string
		kickoff  string
		now      time.Time
		expected GameState
	}{
		{"empty kickoff", "", kickoff, StateUpcoming},
		{"garbage kickoff", "sunday-ish", kickoff.Add(time.Hour), StateUpcoming},
		{"before kickoff", stamp, kickoff.Add(-time.Second), StateUpcoming},
		{"at kickoff", stamp, kickoff, StateLive},
		{"mid game", stamp, kickoff.Add(2 * time.Hour), StateLive},
		{"just inside window", stamp, kickoff.Add(DefaultLiveWindow - time.Nanosecond), StateLive},
		{"at window end", stamp, kickoff.Add(DefaultLiveWindow), StateFinished},
		{"next day", stamp, kickoff.Add(24 * time.Hour), StateFinished},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.kickoff, tt.now))
		})
	}
}

func TestClassify_Monotonic(t *testing.T) {
	kickoff := time.Date(2025, time.November, 2, 13, 0, 0, 0, time.UTC)
	stamp := kickoff.Format(time.RFC3339)

	prev := StateUpcoming
	for elapsed := -2 * time.Hour; elapsed <= 8*time.Hour; elapsed += 5 * time.Minute {
		state := Classify(stamp, kickoff.Add(elapsed))
		assert.GreaterOrEqual(t, int(state), int(prev), "elapsed %s", elapsed)
		prev = state
	}
	assert.Equal(t, StateFinished, prev)
}

func TestClassifier_NaiveTimestampsUseZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	c := NewClassifier(ny, 0)

	// September is EDT (UTC-4), December is EST (UTC-5).
	sep, ok := c.ParseKickoff("2025-09-14 13:00:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.September, 14, 17, 0, 0, 0, time.UTC), sep.UTC())

	dec, ok := c.ParseKickoff("2025-12-14T13:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.December, 14, 18, 0, 0, 0, time.UTC), dec.UTC())

	// An explicit offset wins over the configured zone.
	off, ok := c.ParseKickoff("2025-09-14T13:00:00-07:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.September, 14, 20, 0, 0, 0, time.UTC), off.UTC())
}

func TestClassifier_CustomWindow(t *testing.T) {
	c := NewClassifier(time.UTC, time.Hour)
	assert.Equal(t, time.Hour, c.LiveWindow)

	now := time.Date(2025, time.October, 5, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, StateLive, c.Classify("2025-10-05 14:00", now))
	assert.Equal(t, StateFinished, c.Classify("2025-10-05 13:30", now))
	assert.Equal(t, StateUpcoming, c.Classify("2025-10-05 15:00", now))
}

func TestNewClassifier_Defaults(t *testing.T) {
	c := NewClassifier(nil, -time.Minute)
	assert.Equal(t, DefaultLiveWindow, c.LiveWindow)
	require.NotNil(t, c.Location)
	assert.Equal(t, DefaultKickoffZone, c.Location.String())
}

func TestGameState_String(t *testing.T) {
	assert.Equal(t, "UPCOMING", StateUpcoming.String())
	assert.Equal(t, "LIVE", StateLive.String())
	assert.Equal(t, "FINISHED", StateFinished.String())

	text, err := StateLive.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "LIVE", string(text))
}
