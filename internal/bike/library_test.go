package bike

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestResolveReferenceRider(t *testing.T) {
	got, err := Resolve("road_race", "drops", "shallow_alloy", 1.80, 75)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	want := Setup{BikeMassKg: 7.5, CdA: 0.28 + 0.08, Crr: 0.0035, Efficiency: 0.977}
	if math.Abs(got.BikeMassKg-want.BikeMassKg) > 1e-9 {
		t.Errorf("mass = %.3f, want %.3f", got.BikeMassKg, want.BikeMassKg)
	}
	if math.Abs(got.CdA-want.CdA) > 1e-9 {
		t.Errorf("CdA = %.4f, want %.4f", got.CdA, want.CdA)
	}
	if math.Abs(got.Crr-want.Crr) > 1e-9 {
		t.Errorf("Crr = %.5f, want %.5f", got.Crr, want.Crr)
	}
	if math.Abs(got.Efficiency-want.Efficiency) > 1e-9 {
		t.Errorf("efficiency = %.4f, want %.4f", got.Efficiency, want.Efficiency)
	}
}

func TestResolveBodyScaling(t *testing.T) {
	ref, err := Resolve("road_race", "drops", "shallow_alloy", 1.80, 75)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	tall, err := Resolve("road_race", "drops", "shallow_alloy", 1.95, 90)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if tall.CdA <= ref.CdA {
		t.Errorf("larger rider CdA = %.4f, want above %.4f", tall.CdA, ref.CdA)
	}

	small, err := Resolve("road_race", "drops", "shallow_alloy", 1.60, 55)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if small.CdA >= ref.CdA {
		t.Errorf("smaller rider CdA = %.4f, want below %.4f", small.CdA, ref.CdA)
	}

	// Only the rider's share scales: bike and wheel contributions are fixed.
	wantTall := 0.28*math.Pow(1.95/1.80, 0.725)*math.Pow(90.0/75.0, 0.425) + 0.08
	if math.Abs(tall.CdA-wantTall) > 1e-9 {
		t.Errorf("tall CdA = %.5f, want %.5f", tall.CdA, wantTall)
	}
}

func TestResolveWheelDeltas(t *testing.T) {
	base, err := Resolve("aero_road", "tt", "shallow_alloy", 1.80, 75)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	deep, err := Resolve("aero_road", "tt", "deep_section", 1.80, 75)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if got, want := deep.CdA-base.CdA, -0.012; math.Abs(got-want) > 1e-9 {
		t.Errorf("CdA delta = %.4f, want %.4f", got, want)
	}
	if got, want := deep.Crr-base.Crr, -0.0003; math.Abs(got-want) > 1e-9 {
		t.Errorf("Crr delta = %.5f, want %.5f", got, want)
	}
	if got, want := deep.BikeMassKg-base.BikeMassKg, 0.1; math.Abs(got-want) > 1e-9 {
		t.Errorf("mass delta = %.2f, want %.2f", got, want)
	}
}

func TestResolveUnknownComponents(t *testing.T) {
	tests := []struct {
		name                 string
		bike, position, rims string
	}{
		{"bike", "bmx", "drops", "shallow_alloy"},
		{"position", "road_race", "standing", "shallow_alloy"},
		{"wheels", "road_race", "drops", "tri_spoke"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.bike, tt.position, tt.rims, 1.80, 75)
			if !errors.Is(err, ErrUnknownComponent) {
				t.Fatalf("error = %v, want ErrUnknownComponent", err)
			}
			if !strings.Contains(err.Error(), "valid:") {
				t.Errorf("error %q does not list the valid keys", err)
			}
		})
	}
}

func TestResolveInvalidRider(t *testing.T) {
	if _, err := Resolve("road_race", "drops", "shallow_alloy", 0, 75); !errors.Is(err, ErrInvalidRider) {
		t.Errorf("zero height: error = %v, want ErrInvalidRider", err)
	}
	if _, err := Resolve("road_race", "drops", "shallow_alloy", 1.80, -5); !errors.Is(err, ErrInvalidRider) {
		t.Errorf("negative mass: error = %v, want ErrInvalidRider", err)
	}
}

func TestLibraryKeys(t *testing.T) {
	if got := Bikes(); len(got) != 5 {
		t.Errorf("Bikes() = %v, want 5 entries", got)
	}
	if got := Positions(); len(got) != 5 {
		t.Errorf("Positions() = %v, want 5 entries", got)
	}
	if got := WheelSets(); len(got) != 5 {
		t.Errorf("WheelSets() = %v, want 5 entries", got)
	}
	keys := Bikes()
	for i := 1; i < len(keys); i++ {
		if keys[i] < keys[i-1] {
			t.Fatalf("Bikes() not sorted: %v", keys)
		}
	}
}
