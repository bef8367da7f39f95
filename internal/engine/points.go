package engine

// KickOutcomeCounts is one namespace of raw kicking counts, season-to-date
// or single week. Zero values mean the field was absent.
type KickOutcomeCounts struct {
	Makes  [NumBuckets]int
	Misses [NumBuckets]int
	// Miss is the aggregate miss count, used only when every per-bucket
	// miss count is zero.
	Miss   int
	XPMade int
	XPMiss int
}

// HasGranularMisses reports whether any per-bucket miss count is set.
func (c KickOutcomeCounts) HasGranularMisses() bool {
	total := 0
	for _, n := range c.Misses {
		total += n
	}
	return total > 0
}

// IsZero reports whether every count is zero.
func (c KickOutcomeCounts) IsZero() bool {
	return c == KickOutcomeCounts{}
}

// BucketPoints is the contribution of one distance bucket.
type BucketPoints struct {
	Bucket     Bucket  `json:"bucket"`
	Makes      int     `json:"makes"`
	MakePoints float64 `json:"make_points"`
	Misses     int     `json:"misses"`
	MissPoints float64 `json:"miss_points"`
}

// PointsBreakdown itemizes a ComputePoints total.
type PointsBreakdown struct {
	Buckets       []BucketPoints `json:"buckets"`
	MakePoints    float64        `json:"make_points"`
	MissPenalty   float64        `json:"miss_penalty"`
	GenericMisses bool           `json:"generic_misses"`
	XPMadePoints  float64        `json:"xp_made_points"`
	XPMissPoints  float64        `json:"xp_miss_points"`
	Total         float64        `json:"total"`
}

// ComputePoints scores counts under scoring. A nil argument scores zero.
func ComputePoints(counts *KickOutcomeCounts, scoring *ScoringConfig) float64 {
	if counts == nil || scoring == nil {
		return 0
	}
	return Breakdown(*counts, *scoring).Total
}

// Breakdown scores counts and keeps every intermediate term. Per-bucket
// miss values replace the generic miss value whenever the counts carry any
// per-bucket miss; the two are never both applied.
func Breakdown(counts KickOutcomeCounts, scoring ScoringConfig) PointsBreakdown {
	var b PointsBreakdown
	b.Buckets = make([]BucketPoints, 0, NumBuckets)

	var granular float64
	for _, bucket := range Buckets {
		bp := BucketPoints{
			Bucket:     bucket,
			Makes:      counts.Makes[bucket],
			MakePoints: float64(counts.Makes[bucket]) * scoring.MakeValue(bucket),
			Misses:     counts.Misses[bucket],
			MissPoints: float64(counts.Misses[bucket]) * scoring.MissValue(bucket),
		}
		b.MakePoints += bp.MakePoints
		granular += bp.MissPoints
		b.Buckets = append(b.Buckets, bp)
	}

	if counts.HasGranularMisses() {
		b.MissPenalty = granular
	} else {
		b.GenericMisses = counts.Miss > 0
		b.MissPenalty = float64(counts.Miss) * scoring.FGMiss
	}

	b.XPMadePoints = float64(counts.XPMade) * scoring.XPMade
	b.XPMissPoints = float64(counts.XPMiss) * scoring.XPMiss

	b.Total = b.MakePoints + b.XPMadePoints + b.MissPenalty + b.XPMissPoints
	return b
}
