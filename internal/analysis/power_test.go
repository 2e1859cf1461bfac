package analysis

import (
	"math"
	"testing"

	"paceline/internal/store"
)

// steadyPoints builds a plan riding the given powers in order, one segment
// per entry, each lasting durS seconds at 10 m/s.
func steadyPoints(durS float64, powers ...float64) []store.PlanPoint {
	points := make([]store.PlanPoint, len(powers))
	var cumT, cumD float64
	for i, p := range powers {
		points[i] = store.PlanPoint{
			Seq:       i,
			DistanceM: cumD,
			PowerW:    p,
			SpeedMS:   10,
			DurationS: durS,
			CumTimeS:  cumT + durS,
			Zone:      "tempo",
		}
		cumT += durS
		cumD += durS * 10
	}
	return points
}

// repeat returns n copies of v
func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestNormalizedPowerSteady(t *testing.T) {
	// A perfectly steady ride: NP equals the constant power
	points := steadyPoints(10, repeat(240, 60)...)

	np := NormalizedPower(points)
	if math.Abs(np-240) > 1e-9 {
		t.Errorf("NormalizedPower() = %v, want 240", np)
	}
}

func TestNormalizedPowerVariable(t *testing.T) {
	// 10 min at 100 W then 10 min at 300 W. The fourth-power weighting
	// pulls NP well above the 200 W average:
	// mean4 ≈ (571·100⁴ + Σmixed⁴ + 571·300⁴)/1171 → NP ≈ 252.4
	powers := append(repeat(100, 60), repeat(300, 60)...)
	points := steadyPoints(10, powers...)

	np := NormalizedPower(points)
	avg := AveragePower(points)

	if math.Abs(avg-200) > 1e-9 {
		t.Errorf("AveragePower() = %v, want 200", avg)
	}
	if math.Abs(np-252.4) > 2 {
		t.Errorf("NormalizedPower() = %v, want ~252.4", np)
	}
	if np <= avg {
		t.Errorf("NP (%v) should exceed average (%v) on a variable ride", np, avg)
	}
}

func TestNormalizedPowerShortPlan(t *testing.T) {
	// Under 30 s of riding there is no full window; fall back to the
	// time-weighted average.
	points := steadyPoints(10, 100, 300)

	np := NormalizedPower(points)
	if math.Abs(np-200) > 1e-9 {
		t.Errorf("NormalizedPower() = %v, want 200 (average fallback)", np)
	}
}

func TestAveragePower(t *testing.T) {
	tests := []struct {
		name     string
		points   []store.PlanPoint
		expected float64
	}{
		{
			name:     "empty plan",
			points:   nil,
			expected: 0,
		},
		{
			name: "uneven durations weigh in",
			points: []store.PlanPoint{
				{PowerW: 100, DurationS: 10},
				{PowerW: 200, DurationS: 30},
			},
			// (100·10 + 200·30) / 40 = 175
			expected: 175,
		},
		{
			name: "zero duration points ignored",
			points: []store.PlanPoint{
				{PowerW: 220, DurationS: 20},
				{PowerW: 999, DurationS: 0},
			},
			expected: 220,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AveragePower(tt.points)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("AveragePower() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestIntensityFactor(t *testing.T) {
	tests := []struct {
		name      string
		np        float64
		threshold float64
		expected  float64
	}{
		{"at threshold", 250, 250, 1.0},
		{"tempo", 200, 250, 0.8},
		{"zero threshold", 250, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IntensityFactor(tt.np, tt.threshold)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("IntensityFactor(%v, %v) = %v, want %v", tt.np, tt.threshold, result, tt.expected)
			}
		})
	}
}

func TestTrainingStressScore(t *testing.T) {
	tests := []struct {
		name      string
		durationS float64
		np        float64
		threshold float64
		expected  float64
	}{
		// One hour exactly at threshold is the definition of 100 TSS
		{"one hour at threshold", 3600, 250, 250, 100},
		// (1800·200·0.8)/(250·3600)·100 = 32
		{"half hour of tempo", 1800, 200, 250, 32},
		{"two hours at threshold", 7200, 250, 250, 200},
		{"zero threshold", 3600, 250, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TrainingStressScore(tt.durationS, tt.np, tt.threshold)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("TrainingStressScore() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestVariabilityIndex(t *testing.T) {
	if vi := VariabilityIndex(260, 250); math.Abs(vi-1.04) > 1e-9 {
		t.Errorf("VariabilityIndex(260, 250) = %v, want 1.04", vi)
	}
	if vi := VariabilityIndex(260, 0); vi != 0 {
		t.Errorf("VariabilityIndex(260, 0) = %v, want 0", vi)
	}
}
