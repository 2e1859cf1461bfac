package analysis

import "paceline/internal/store"

// Climb is a sustained ascent detected in the plan's route
type Climb struct {
	StartM      float64
	EndM        float64
	LengthM     float64
	AscentM     float64
	AvgGradePct float64
	MaxGradePct float64
	DurationS   float64
	AvgPowerW   float64
	Category    string // "HC", "1".."4", or "" for uncategorized
}

// Climb detection thresholds
const (
	climbMinGrade   = 0.02  // slope that starts or extends a climb
	climbGapM       = 200.0 // flat or downhill meters tolerated mid-climb
	climbMinLengthM = 300.0
	climbMinAscentM = 10.0
)

// Category score thresholds, score = length m × average grade %.
// Matches the usual categorization heuristic: a 8 km climb at 1% and a
// 1 km climb at 8% both score 8000.
const (
	scoreCat4 = 8000.0
	scoreCat3 = 16000.0
	scoreCat2 = 32000.0
	scoreCat1 = 64000.0
	scoreHC   = 80000.0
)

// FindClimbs scans the plan for sustained climbs: maximal runs of points at
// or above the minimum grade, tolerating short flat or downhill gaps, then
// filtered by minimum length and ascent.
func FindClimbs(points []store.PlanPoint) []Climb {
	var climbs []Climb

	start, lastUp := -1, -1
	for i, p := range points {
		if p.SlopeTan >= climbMinGrade {
			if start == -1 {
				start = i
			}
			lastUp = i
			continue
		}
		if start != -1 && p.DistanceM-points[lastUp].DistanceM > climbGapM {
			if c, ok := buildClimb(points, start, lastUp); ok {
				climbs = append(climbs, c)
			}
			start, lastUp = -1, -1
		}
	}
	if start != -1 {
		if c, ok := buildClimb(points, start, lastUp); ok {
			climbs = append(climbs, c)
		}
	}

	return climbs
}

// buildClimb summarizes points[start..end] and applies the minimum length
// and ascent filters.
func buildClimb(points []store.PlanPoint, start, end int) (Climb, bool) {
	c := Climb{
		StartM:  points[start].DistanceM,
		EndM:    points[end].DistanceM,
		LengthM: points[end].DistanceM - points[start].DistanceM,
		AscentM: points[end].ElevationM - points[start].ElevationM,
	}
	if c.LengthM < climbMinLengthM || c.AscentM < climbMinAscentM {
		return Climb{}, false
	}

	c.AvgGradePct = c.AscentM / c.LengthM * 100

	// Segment i runs forward from point i, so time and work for the climb
	// come from segments start..end-1; the grade scan includes the crest.
	var workJ float64
	for i := start; i <= end; i++ {
		p := points[i]
		if g := p.SlopeTan * 100; g > c.MaxGradePct {
			c.MaxGradePct = g
		}
		if i < end {
			c.DurationS += p.DurationS
			workJ += p.PowerW * p.DurationS
		}
	}
	if c.DurationS > 0 {
		c.AvgPowerW = workJ / c.DurationS
	}

	c.Category = ClimbCategory(c.LengthM, c.AvgGradePct)
	return c, true
}

// ClimbCategory buckets a climb by its length × grade score
func ClimbCategory(lengthM, avgGradePct float64) string {
	score := lengthM * avgGradePct
	switch {
	case score >= scoreHC:
		return "HC"
	case score >= scoreCat1:
		return "1"
	case score >= scoreCat2:
		return "2"
	case score >= scoreCat3:
		return "3"
	case score >= scoreCat4:
		return "4"
	default:
		return ""
	}
}

// TotalAscentInClimbs sums the ascent of all detected climbs
func TotalAscentInClimbs(climbs []Climb) float64 {
	var total float64
	for _, c := range climbs {
		total += c.AscentM
	}
	return total
}
