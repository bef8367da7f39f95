package engine

import (
	"strings"
	"time"
	_ "time/tzdata"
)

// GameState is where a game is in its lifecycle.
type GameState int

const (
	StateUpcoming GameState = iota
	StateLive
	StateFinished
)

func (s GameState) String() string {
	switch s {
	case StateLive:
		return "LIVE"
	case StateFinished:
		return "FINISHED"
	default:
		return "UPCOMING"
	}
}

func (s GameState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

const (
	// DefaultLiveWindow is how long after kickoff a game counts as live.
	// It covers regulation plus a likely overtime rather than tracking the
	// actual final whistle.
	DefaultLiveWindow = 4*time.Hour + 30*time.Minute

	// DefaultKickoffZone is the zone of kickoff strings without an offset.
	DefaultKickoffZone = "America/New_York"
)

// Layouts accepted for kickoff strings that carry no offset.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// Classifier maps kickoff timestamps to game states. Timestamps with an
// explicit offset or Z are taken as written; naive timestamps are read as
// wall-clock time in Location, so DST is applied per date.
type Classifier struct {
	Location   *time.Location
	LiveWindow time.Duration
}

// NewClassifier returns a classifier for loc. A nil loc falls back to
// DefaultKickoffZone and a non-positive window to DefaultLiveWindow.
func NewClassifier(loc *time.Location, window time.Duration) Classifier {
	if loc == nil {
		loc = defaultLocation()
	}
	if window <= 0 {
		window = DefaultLiveWindow
	}
	return Classifier{Location: loc, LiveWindow: window}
}

func defaultLocation() *time.Location {
	loc, err := time.LoadLocation(DefaultKickoffZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

var defaultClassifier = NewClassifier(nil, 0)

// Classify uses the default kickoff zone and live window.
func Classify(kickoff string, now time.Time) GameState {
	return defaultClassifier.Classify(kickoff, now)
}

// Classify returns StateUpcoming for empty or unparseable kickoffs.
func (c Classifier) Classify(kickoff string, now time.Time) GameState {
	start, ok := c.ParseKickoff(kickoff)
	if !ok {
		return StateUpcoming
	}
	elapsed := now.Sub(start)
	switch {
	case elapsed < 0:
		return StateUpcoming
	case elapsed < c.window():
		return StateLive
	default:
		return StateFinished
	}
}

// ParseKickoff parses RFC 3339 timestamps or naive local date-times.
func (c Classifier) ParseKickoff(kickoff string) (time.Time, bool) {
	kickoff = strings.TrimSpace(kickoff)
	if kickoff == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, kickoff); err == nil {
		return t, true
	}
	loc := c.Location
	if loc == nil {
		loc = defaultLocation()
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, kickoff, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (c Classifier) window() time.Duration {
	if c.LiveWindow <= 0 {
		return DefaultLiveWindow
	}
	return c.LiveWindow
}
