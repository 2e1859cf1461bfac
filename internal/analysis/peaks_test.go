package analysis

import (
	"math"
	"testing"
)

func TestFindPeakEffort(t *testing.T) {
	// 10 min at 200 W with a one-minute 300 W surge in the middle
	powers := repeat(200, 60)
	for i := 30; i < 36; i++ {
		powers[i] = 300
	}
	points := steadyPoints(10, powers...)

	peak := FindPeakEffort(points, 60)
	if peak == nil {
		t.Fatal("FindPeakEffort() = nil, want the surge window")
	}

	if math.Abs(peak.AvgPowerW-300) > 1e-9 {
		t.Errorf("AvgPowerW = %v, want 300", peak.AvgPowerW)
	}
	if math.Abs(peak.ActualS-60) > 1e-9 {
		t.Errorf("ActualS = %v, want 60", peak.ActualS)
	}
	// Surge covers segments 30..35: 3000 m in, 600 m long
	if math.Abs(peak.StartM-3000) > 1e-9 || math.Abs(peak.EndM-3600) > 1e-9 {
		t.Errorf("peak spans %v-%v m, want 3000-3600", peak.StartM, peak.EndM)
	}
}

func TestFindPeakEffortWholePlan(t *testing.T) {
	// Window equal to the plan duration returns the whole-plan average
	points := steadyPoints(10, 100, 200, 300)

	peak := FindPeakEffort(points, 30)
	if peak == nil {
		t.Fatal("FindPeakEffort() = nil, want whole plan")
	}
	if math.Abs(peak.AvgPowerW-200) > 1e-9 {
		t.Errorf("AvgPowerW = %v, want 200", peak.AvgPowerW)
	}
}

func TestFindPeakEffortTooShort(t *testing.T) {
	points := steadyPoints(10, 200, 200)

	if peak := FindPeakEffort(points, 60); peak != nil {
		t.Errorf("FindPeakEffort() = %+v, want nil for a 20 s plan", peak)
	}
	if peak := FindPeakEffort(nil, 60); peak != nil {
		t.Errorf("FindPeakEffort(nil) = %+v, want nil", peak)
	}
}

func TestFindPeakEfforts(t *testing.T) {
	tests := []struct {
		name      string
		totalS    float64
		wantCount int
	}{
		{"long ride reports all windows", 1500, 3},
		{"short ride drops the 20 min window", 400, 2},
		{"very short ride drops all but the minute", 90, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := steadyPoints(10, repeat(220, int(tt.totalS/10))...)
			efforts := FindPeakEfforts(points)
			if len(efforts) != tt.wantCount {
				t.Fatalf("FindPeakEfforts() returned %d efforts, want %d", len(efforts), tt.wantCount)
			}
			for _, e := range efforts {
				if math.Abs(e.AvgPowerW-220) > 1e-9 {
					t.Errorf("window %v AvgPowerW = %v, want 220", e.WindowS, e.AvgPowerW)
				}
			}
		})
	}
}
