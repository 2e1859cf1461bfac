package pacing

import (
	"math"
	"testing"
)

func TestClassifyZone(t *testing.T) {
	const ftp = 250.0
	tests := []struct {
		powerW float64
		want   Zone
	}{
		{0, ZoneRecovery},
		{100, ZoneRecovery},
		{137, ZoneRecovery},  // just under 0.55
		{140, ZoneEndurance}, // 0.56
		{187, ZoneEndurance}, // just under 0.75
		{200, ZoneTempo},     // 0.80
		{240, ZoneThreshold}, // 0.96
		{250, ZoneThreshold}, // 1.00
		{262, ZoneThreshold}, // just under 1.05
		{290, ZoneVO2Max},    // 1.16
		{310, ZoneAnaerobic}, // 1.24
	}

	for _, tt := range tests {
		if got := ClassifyZone(tt.powerW, ftp); got != tt.want {
			t.Errorf("ClassifyZone(%.0f, %.0f) = %q, want %q", tt.powerW, ftp, got, tt.want)
		}
	}

	if got := ClassifyZone(200, 0); got != ZoneRecovery {
		t.Errorf("ClassifyZone with zero reference = %q, want %q", got, ZoneRecovery)
	}
}

func TestKilocalories(t *testing.T) {
	// 1000 kJ of work at 22% gross efficiency costs about 1087 kcal.
	got := Kilocalories(1_000_000, 0.22)
	want := 1_000_000 / 0.22 / 4184
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Kilocalories() = %.2f, want %.2f", got, want)
	}
	if got < 1086 || got > 1088 {
		t.Errorf("Kilocalories() = %.2f, want about 1087", got)
	}

	if got := Kilocalories(1000, 0); got != 0 {
		t.Errorf("Kilocalories with zero efficiency = %.2f, want 0", got)
	}
}

func TestAccumulator(t *testing.T) {
	acc := newAccumulator()
	acc.add(100, 10, 250, ZoneThreshold)
	acc.add(100, 12, 180, ZoneEndurance)
	acc.add(100, 8, -50, ZoneRecovery) // braking: no work added
	acc.add(0, 0, 200, ZoneTempo)      // terminal point

	if acc.distanceM != 300 {
		t.Errorf("distance = %.1f, want 300", acc.distanceM)
	}
	if acc.timeS != 30 {
		t.Errorf("time = %.1f, want 30", acc.timeS)
	}
	wantEnergy := 250*10.0 + 180*12.0
	if math.Abs(acc.energyJ-wantEnergy) > 1e-9 {
		t.Errorf("energy = %.1f, want %.1f", acc.energyJ, wantEnergy)
	}
	if got := acc.zoneTime[ZoneRecovery]; got != 8 {
		t.Errorf("recovery zone time = %.1f, want 8", got)
	}
}
