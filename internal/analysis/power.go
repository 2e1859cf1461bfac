package analysis

import (
	"math"

	"paceline/internal/store"
)

// npWindowS is the rolling-average window for normalized power
const npWindowS = 30

// NormalizedPower calculates the normalized power of the target series:
// resample to 1 Hz, take the 30 s rolling average, raise each window mean to
// the fourth power, average, and take the fourth root. Plans shorter than the
// window fall back to the time-weighted average.
func NormalizedPower(points []store.PlanPoint) float64 {
	samples := secondSamples(points)
	if len(samples) < npWindowS {
		return AveragePower(points)
	}

	// Prefix sums make each window mean O(1)
	prefix := make([]float64, len(samples)+1)
	for i, s := range samples {
		prefix[i+1] = prefix[i] + s
	}

	var sum4 float64
	windows := len(samples) - npWindowS + 1
	for w := 0; w < windows; w++ {
		mean := (prefix[w+npWindowS] - prefix[w]) / npWindowS
		sum4 += mean * mean * mean * mean
	}

	return math.Pow(sum4/float64(windows), 0.25)
}

// AveragePower calculates the time-weighted average target power
func AveragePower(points []store.PlanPoint) float64 {
	var workJ, timeS float64
	for _, p := range points {
		workJ += p.PowerW * p.DurationS
		timeS += p.DurationS
	}
	if timeS <= 0 {
		return 0
	}
	return workJ / timeS
}

// IntensityFactor is normalized power as a fraction of threshold power
func IntensityFactor(np, thresholdW float64) float64 {
	if thresholdW <= 0 {
		return 0
	}
	return np / thresholdW
}

// TrainingStressScore calculates TSS, normalized so one hour ridden exactly
// at threshold scores 100.
func TrainingStressScore(durationS, np, thresholdW float64) float64 {
	if thresholdW <= 0 {
		return 0
	}
	intensity := np / thresholdW
	return (durationS * np * intensity) / (thresholdW * 3600) * 100
}

// VariabilityIndex is normalized power over average power. 1.0 is a
// perfectly steady ride; pacing plans should stay close to it.
func VariabilityIndex(np, avgPower float64) float64 {
	if avgPower <= 0 {
		return 0
	}
	return np / avgPower
}

// secondSamples resamples the target series to 1 Hz. A sample at second ts
// takes the power of the point whose segment covers that instant, so uneven
// segment durations weigh in correctly.
func secondSamples(points []store.PlanPoint) []float64 {
	if len(points) == 0 {
		return nil
	}
	total := points[len(points)-1].CumTimeS
	if total <= 0 {
		return nil
	}

	samples := make([]float64, 0, int(total))
	idx := 0
	for ts := 0.5; ts < total; ts += 1.0 {
		for idx < len(points)-1 && points[idx].CumTimeS < ts {
			idx++
		}
		samples = append(samples, points[idx].PowerW)
	}
	return samples
}
