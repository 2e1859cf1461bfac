// Package analysis computes prospective metrics over a stored pacing plan:
// intensity figures, climb inventory, peak planned efforts and W′ usage.
package analysis

import "paceline/internal/store"

// PlanMetrics summarizes how hard a stored plan is
type PlanMetrics struct {
	AvgPowerW        float64
	NormalizedPowerW float64
	IntensityFactor  float64
	TSS              float64
	VariabilityIndex float64
	WPrime           WPrimeStats
	Peaks            []PeakEffort
	Climbs           []Climb
	ZoneTimeS        map[string]float64
}

// ComputePlanMetrics calculates all metrics for a stored plan. thresholdW
// anchors the intensity figures (the rider's FTP when configured); the
// plan's CP stands in when it is zero.
func ComputePlanMetrics(plan *store.Plan, points []store.PlanPoint, thresholdW float64) PlanMetrics {
	if thresholdW <= 0 {
		thresholdW = plan.CP
	}

	metrics := PlanMetrics{ZoneTimeS: make(map[string]float64)}
	if len(points) == 0 {
		return metrics
	}

	metrics.AvgPowerW = AveragePower(points)
	metrics.NormalizedPowerW = NormalizedPower(points)
	metrics.IntensityFactor = IntensityFactor(metrics.NormalizedPowerW, thresholdW)
	metrics.TSS = TrainingStressScore(plan.TotalTimeS, metrics.NormalizedPowerW, thresholdW)
	metrics.VariabilityIndex = VariabilityIndex(metrics.NormalizedPowerW, metrics.AvgPowerW)
	metrics.WPrime = AnalyzeWPrime(points, plan.WPrimeJ)
	metrics.Peaks = FindPeakEfforts(points)
	metrics.Climbs = FindClimbs(points)

	for _, p := range points {
		metrics.ZoneTimeS[p.Zone] += p.DurationS
	}

	return metrics
}

// IntensityAssessment returns a human-readable read on the plan's
// intensity factor
func IntensityAssessment(intensity float64) string {
	switch {
	case intensity < 0.55:
		return "Recovery spin"
	case intensity < 0.70:
		return "Endurance pace"
	case intensity < 0.85:
		return "Solid tempo day"
	case intensity < 0.95:
		return "Hard threshold ride"
	case intensity < 1.05:
		return "Race effort"
	default:
		return "Above race pace - check the targets"
	}
}
