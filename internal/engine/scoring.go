// Package engine scores kicker stat lines, projects weekly points, classifies
// game progress and summarizes projection accuracy.
package engine

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
)

// Bucket is a field-goal distance bucket.
type Bucket int

const (
	Bucket0To19 Bucket = iota
	Bucket20To29
	Bucket30To39
	Bucket40To49
	Bucket50To59
	Bucket60Plus

	NumBuckets = 6
)

// Buckets lists every distance bucket in ascending distance order.
var Buckets = [NumBuckets]Bucket{
	Bucket0To19, Bucket20To29, Bucket30To39, Bucket40To49, Bucket50To59, Bucket60Plus,
}

func (b Bucket) String() string {
	switch b {
	case Bucket0To19:
		return "0-19"
	case Bucket20To29:
		return "20-29"
	case Bucket30To39:
		return "30-39"
	case Bucket40To49:
		return "40-49"
	case Bucket50To59:
		return "50-59"
	case Bucket60Plus:
		return "60+"
	default:
		return "unknown"
	}
}

func (b Bucket) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// ScoringConfig holds the point value of every kick outcome. The same
// config scores both season-to-date and weekly counts.
type ScoringConfig struct {
	Name string `json:"name" validate:"required,max=64"`

	FG0To19  float64 `json:"fg_0_19" validate:"gte=-100,lte=100"`
	FG20To29 float64 `json:"fg_20_29" validate:"gte=-100,lte=100"`
	FG30To39 float64 `json:"fg_30_39" validate:"gte=-100,lte=100"`
	FG40To49 float64 `json:"fg_40_49" validate:"gte=-100,lte=100"`
	FG50To59 float64 `json:"fg_50_59" validate:"gte=-100,lte=100"`
	FG60Plus float64 `json:"fg_60_plus" validate:"gte=-100,lte=100"`

	Miss0To19  float64 `json:"fg_miss_0_19" validate:"gte=-100,lte=100"`
	Miss20To29 float64 `json:"fg_miss_20_29" validate:"gte=-100,lte=100"`
	Miss30To39 float64 `json:"fg_miss_30_39" validate:"gte=-100,lte=100"`
	Miss40To49 float64 `json:"fg_miss_40_49" validate:"gte=-100,lte=100"`
	Miss50To59 float64 `json:"fg_miss_50_59" validate:"gte=-100,lte=100"`
	Miss60Plus float64 `json:"fg_miss_60_plus" validate:"gte=-100,lte=100"`

	// FGMiss applies to the aggregate miss count of a player that has no
	// per-bucket miss data.
	FGMiss float64 `json:"fg_miss" validate:"gte=-100,lte=100"`
	XPMade float64 `json:"xp_made" validate:"gte=-100,lte=100"`
	XPMiss float64 `json:"xp_miss" validate:"gte=-100,lte=100"`
}

var validate = validator.New()

// DefaultScoring is the standard league kicker scoring.
func DefaultScoring() ScoringConfig {
	return ScoringConfig{
		Name:       "standard",
		FG0To19:    3,
		FG20To29:   3,
		FG30To39:   3,
		FG40To49:   4,
		FG50To59:   5,
		FG60Plus:   5,
		Miss0To19:  -1,
		Miss20To29: -1,
		Miss30To39: -1,
		Miss40To49: -1,
		Miss50To59: -1,
		Miss60Plus: -1,
		FGMiss:     -1,
		XPMade:     1,
		XPMiss:     -1,
	}
}

// Validate rejects configs without a name and values outside [-100, 100].
// NaN and infinities fail the range checks.
func (s ScoringConfig) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid scoring config: %w", err)
	}
	return nil
}

// MakeValue returns the points awarded for a made field goal in b.
func (s ScoringConfig) MakeValue(b Bucket) float64 {
	switch b {
	case Bucket0To19:
		return s.FG0To19
	case Bucket20To29:
		return s.FG20To29
	case Bucket30To39:
		return s.FG30To39
	case Bucket40To49:
		return s.FG40To49
	case Bucket50To59:
		return s.FG50To59
	case Bucket60Plus:
		return s.FG60Plus
	}
	return 0
}

// MissValue returns the points awarded for a missed field goal in b.
func (s ScoringConfig) MissValue(b Bucket) float64 {
	switch b {
	case Bucket0To19:
		return s.Miss0To19
	case Bucket20To29:
		return s.Miss20To29
	case Bucket30To39:
		return s.Miss30To39
	case Bucket40To49:
		return s.Miss40To49
	case Bucket50To59:
		return s.Miss50To59
	case Bucket60Plus:
		return s.Miss60Plus
	}
	return 0
}

func (s *ScoringConfig) fields() map[string]*float64 {
	return map[string]*float64{
		"fg_0_19":         &s.FG0To19,
		"fg_20_29":        &s.FG20To29,
		"fg_30_39":        &s.FG30To39,
		"fg_40_49":        &s.FG40To49,
		"fg_50_59":        &s.FG50To59,
		"fg_60_plus":      &s.FG60Plus,
		"fg_miss_0_19":    &s.Miss0To19,
		"fg_miss_20_29":   &s.Miss20To29,
		"fg_miss_30_39":   &s.Miss30To39,
		"fg_miss_40_49":   &s.Miss40To49,
		"fg_miss_50_59":   &s.Miss50To59,
		"fg_miss_60_plus": &s.Miss60Plus,
		"fg_miss":         &s.FGMiss,
		"xp_made":         &s.XPMade,
		"xp_miss":         &s.XPMiss,
	}
}

// ScoringKeys returns the settable keys in sorted order.
func ScoringKeys() []string {
	var s ScoringConfig
	keys := make([]string, 0, 15)
	for k := range s.fields() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value stored under key.
func (s ScoringConfig) Get(key string) (float64, bool) {
	p, ok := s.fields()[key]
	if !ok {
		return 0, false
	}
	return *p, true
}

// Set updates one value by its JSON key. The config is left unchanged
// when the key is unknown or the result fails validation.
func (s *ScoringConfig) Set(key string, value float64) error {
	next := *s
	p, ok := next.fields()[key]
	if !ok {
		return fmt.Errorf("unknown scoring key %q", key)
	}
	*p = value
	if err := next.Validate(); err != nil {
		return err
	}
	*s = next
	return nil
}
