package analysis

import "paceline/internal/store"

// surgeMinDropFrac is the share of W′ a dip must drain to count as a surge
const surgeMinDropFrac = 0.05

// WPrimeStats summarizes how the plan spends the anaerobic reserve
type WPrimeStats struct {
	CapacityJ      float64
	MinJ           float64
	MinAtS         float64 // ride time at the lowest balance
	FinalJ         float64
	LowestPct      float64 // lowest balance as a percentage of capacity
	Surges         int     // distinct dips draining ≥ 5% of capacity
	TimeBelowHalfS float64
}

// AnalyzeWPrime walks the plan's W′-balance series and reports where and
// how deeply the reserve is used.
func AnalyzeWPrime(points []store.PlanPoint, wPrimeJ float64) WPrimeStats {
	stats := WPrimeStats{CapacityJ: wPrimeJ, MinJ: wPrimeJ}
	if len(points) == 0 || wPrimeJ <= 0 {
		return stats
	}

	minDrop := wPrimeJ * surgeMinDropFrac
	prev := wPrimeJ
	var dipJ float64

	for _, p := range points {
		if p.WBalJ < stats.MinJ {
			stats.MinJ = p.WBalJ
			stats.MinAtS = p.CumTimeS
		}
		if p.WBalJ < wPrimeJ/2 {
			stats.TimeBelowHalfS += p.DurationS
		}

		// A surge is a contiguous drain deep enough to matter; shallow
		// wobble around the baseline does not count.
		if p.WBalJ < prev {
			dipJ += prev - p.WBalJ
		} else if dipJ > 0 {
			if dipJ >= minDrop {
				stats.Surges++
			}
			dipJ = 0
		}
		prev = p.WBalJ
	}
	if dipJ >= minDrop {
		stats.Surges++
	}

	stats.FinalJ = points[len(points)-1].WBalJ
	stats.LowestPct = stats.MinJ / wPrimeJ * 100
	return stats
}

// WPrimeAssessment returns a human-readable read on how deep the plan digs
func WPrimeAssessment(lowestPct float64) string {
	switch {
	case lowestPct >= 75:
		return "Barely touched - room to push"
	case lowestPct >= 50:
		return "Comfortable reserve"
	case lowestPct >= 25:
		return "Well used"
	case lowestPct >= 10:
		return "Deep effort"
	default:
		return "Empties the tank"
	}
}
