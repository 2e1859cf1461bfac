package analysis

import "paceline/internal/store"

// PeakEffort is the hardest planned stretch of a given duration
type PeakEffort struct {
	WindowS   float64 // requested window
	ActualS   float64 // covered time, first span at or past the window
	AvgPowerW float64
	StartM    float64
	EndM      float64
}

// PeakDurations are the standard windows reported for a plan
var PeakDurations = []float64{60, 300, 1200}

// FindPeakEffort finds the planned stretch of at least windowS seconds with
// the highest average power. Two-pointer over cumulative time and work, so
// each point is visited twice at most. Returns nil when the plan is shorter
// than the window.
func FindPeakEffort(points []store.PlanPoint, windowS float64) *PeakEffort {
	if len(points) == 0 || windowS <= 0 {
		return nil
	}
	if points[len(points)-1].CumTimeS < windowS {
		return nil
	}

	// cumTime[i] / cumWork[i]: time and work through point i-1
	cumTime := make([]float64, len(points)+1)
	cumWork := make([]float64, len(points)+1)
	for i, p := range points {
		cumTime[i+1] = cumTime[i] + p.DurationS
		cumWork[i+1] = cumWork[i] + p.PowerW*p.DurationS
	}

	var best *PeakEffort
	right := 0
	for left := 0; left < len(points); left++ {
		if right < left+1 {
			right = left + 1
		}
		for right <= len(points) && cumTime[right]-cumTime[left] < windowS {
			right++
		}
		if right > len(points) {
			break
		}

		spanS := cumTime[right] - cumTime[left]
		avg := (cumWork[right] - cumWork[left]) / spanS
		if best == nil || avg > best.AvgPowerW {
			// Segment i runs forward from point i, so the window's end
			// is the position of point right (clamped at the last point).
			endIdx := right
			if endIdx > len(points)-1 {
				endIdx = len(points) - 1
			}
			best = &PeakEffort{
				WindowS:   windowS,
				ActualS:   spanS,
				AvgPowerW: avg,
				StartM:    points[left].DistanceM,
				EndM:      points[endIdx].DistanceM,
			}
		}
	}

	return best
}

// FindPeakEfforts reports the peak efforts for the standard durations,
// skipping windows longer than the plan.
func FindPeakEfforts(points []store.PlanPoint) []PeakEffort {
	var efforts []PeakEffort
	for _, d := range PeakDurations {
		if e := FindPeakEffort(points, d); e != nil {
			efforts = append(efforts, *e)
		}
	}
	return efforts
}
