package models

import (
	"strings"
	"unicode"

	"github.com/CalebUK/kicker-genius-app-sub000/internal/engine"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Snapshot is the pre-computed analytics feed.
type Snapshot struct {
	Rankings []PlayerRecord `json:"rankings"`
	YTD      []PlayerRecord `json:"ytd"`
	Injuries []PlayerRecord `json:"injuries"`
	Meta     SnapshotMeta   `json:"meta"`
}

type SnapshotMeta struct {
	Week       int            `json:"week"`
	Updated    string         `json:"updated"`
	LeagueAvgs LeagueAverages `json:"league_avgs"`
}

type LeagueAverages struct {
	AvgPoints    float64 `json:"avg_pts"`
	FGPct        float64 `json:"fg_pct"`
	OffStallRate float64 `json:"off_stall_rate"`
	DefStallRate float64 `json:"def_stall_rate"`
}

// HistoryEntry is one past game. Projected is nil for games that were
// never projected.
type HistoryEntry struct {
	Week      int      `json:"week"`
	Opponent  string   `json:"opponent"`
	Points    float64  `json:"pts"`
	Projected *float64 `json:"proj,omitempty"`
}

// PlayerRecord is one kicker row of the snapshot. Numeric fields missing
// from older feeds decode as zero. LivePoints stays nil unless the feed
// carries a live score.
type PlayerRecord struct {
	Name     string `json:"player_display_name"`
	Join     string `json:"join_name,omitempty"`
	Team     string `json:"team"`
	Opponent string `json:"opponent"`

	Games        int     `json:"games"`
	TotalPoints  float64 `json:"total_pts"`
	AvgPoints    float64 `json:"avg_pts"`
	Grade        float64 `json:"grade"`
	OffStallRate float64 `json:"off_stall_rate"`
	DefStallRate float64 `json:"def_stall_rate"`
	OffCapValue  float64 `json:"off_cap_val"`
	DefCapValue  float64 `json:"def_cap_val"`

	InjuryStatus string         `json:"injury_status"`
	GameTime     string         `json:"game_time"`
	History      []HistoryEntry `json:"history"`
	LivePoints   *float64       `json:"live_pts,omitempty"`

	FG0To19      int `json:"fg_0_19"`
	FG20To29     int `json:"fg_20_29"`
	FG30To39     int `json:"fg_30_39"`
	FG40To49     int `json:"fg_40_49"`
	FG50To59     int `json:"fg_50_59"`
	FG60Plus     int `json:"fg_60_plus"`
	FGMiss0To19  int `json:"fg_miss_0_19"`
	FGMiss20To29 int `json:"fg_miss_20_29"`
	FGMiss30To39 int `json:"fg_miss_30_39"`
	FGMiss40To49 int `json:"fg_miss_40_49"`
	FGMiss50To59 int `json:"fg_miss_50_59"`
	FGMiss60Plus int `json:"fg_miss_60_plus"`
	FGMiss       int `json:"fg_miss"`
	XPMade       int `json:"xp_made"`
	XPMiss       int `json:"xp_miss"`

	WkFG0To19      int `json:"wk_fg_0_19"`
	WkFG20To29     int `json:"wk_fg_20_29"`
	WkFG30To39     int `json:"wk_fg_30_39"`
	WkFG40To49     int `json:"wk_fg_40_49"`
	WkFG50To59     int `json:"wk_fg_50_59"`
	WkFG60Plus     int `json:"wk_fg_60_plus"`
	WkFGMiss0To19  int `json:"wk_fg_miss_0_19"`
	WkFGMiss20To29 int `json:"wk_fg_miss_20_29"`
	WkFGMiss30To39 int `json:"wk_fg_miss_30_39"`
	WkFGMiss40To49 int `json:"wk_fg_miss_40_49"`
	WkFGMiss50To59 int `json:"wk_fg_miss_50_59"`
	WkFGMiss60Plus int `json:"wk_fg_miss_60_plus"`
	WkFGMiss       int `json:"wk_fg_miss"`
	WkXPMade       int `json:"wk_xp_made"`
	WkXPMiss       int `json:"wk_xp_miss"`
}

// SeasonCounts extracts the season-to-date kick counts.
func (p PlayerRecord) SeasonCounts() engine.KickOutcomeCounts {
	return engine.KickOutcomeCounts{
		Makes:  [engine.NumBuckets]int{p.FG0To19, p.FG20To29, p.FG30To39, p.FG40To49, p.FG50To59, p.FG60Plus},
		Misses: [engine.NumBuckets]int{p.FGMiss0To19, p.FGMiss20To29, p.FGMiss30To39, p.FGMiss40To49, p.FGMiss50To59, p.FGMiss60Plus},
		Miss:   p.FGMiss,
		XPMade: p.XPMade,
		XPMiss: p.XPMiss,
	}
}

// WeeklyCounts extracts the current-week kick counts.
func (p PlayerRecord) WeeklyCounts() engine.KickOutcomeCounts {
	return engine.KickOutcomeCounts{
		Makes:  [engine.NumBuckets]int{p.WkFG0To19, p.WkFG20To29, p.WkFG30To39, p.WkFG40To49, p.WkFG50To59, p.WkFG60Plus},
		Misses: [engine.NumBuckets]int{p.WkFGMiss0To19, p.WkFGMiss20To29, p.WkFGMiss30To39, p.WkFGMiss40To49, p.WkFGMiss50To59, p.WkFGMiss60Plus},
		Miss:   p.WkFGMiss,
		XPMade: p.WkXPMade,
		XPMiss: p.WkXPMiss,
	}
}

// JoinName returns the record's join key, deriving it from the display
// name when the feed does not carry one.
func (p PlayerRecord) JoinName() string {
	if p.Join != "" {
		return p.Join
	}
	return JoinName(p.Name)
}

var nameSuffixes = map[string]bool{
	"jr": true, "sr": true, "ii": true, "iii": true, "iv": true,
}

// A chained transformer keeps state, so each call builds its own.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// JoinName builds the "F.Last" key used to match a player across the
// snapshot and the league platform. "Ka'imi Fairbairn" becomes
// "K.Fairbairn", "Brandon McManus Jr." becomes "B.McManus". Names that are
// already in join form pass through.
func JoinName(fullName string) string {
	plain, _, err := transform.String(stripMarks(), fullName)
	if err != nil {
		plain = fullName
	}

	if first, last, ok := strings.Cut(strings.TrimSpace(plain), "."); ok && !strings.Contains(first, " ") && len(first) == 1 && last != "" && !strings.Contains(last, " ") {
		return strings.ToUpper(first) + "." + cleanToken(last)
	}

	var tokens []string
	for _, tok := range strings.Fields(plain) {
		tok = cleanToken(tok)
		if tok == "" || nameSuffixes[strings.ToLower(tok)] {
			continue
		}
		tokens = append(tokens, tok)
	}
	if len(tokens) == 0 {
		return ""
	}
	if len(tokens) == 1 {
		return tokens[0]
	}

	initial := []rune(tokens[0])[0]
	return string(unicode.ToUpper(initial)) + "." + strings.Join(tokens[1:], "")
}

func cleanToken(tok string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '\'' {
			return r
		}
		return -1
	}, tok)
}
