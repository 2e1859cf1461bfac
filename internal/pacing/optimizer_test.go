package pacing

import (
	"errors"
	"math"
	"strings"
	"testing"

	"paceline/internal/physics"
	"paceline/internal/route"
)

func testRiderBike() physics.RiderBike {
	return physics.RiderBike{
		RiderMass:  72,
		BikeMass:   8,
		CdA:        0.30,
		Crr:        0.0035,
		Efficiency: 0.97,
		CP:         260,
		WPrime:     20000,
	}
}

func calmAir() physics.Environment {
	return physics.Environment{AirDensity: physics.StandardAirDensity}
}

func flatRoute(n int, spacingM float64) []route.Point {
	pts := make([]route.Point, n)
	for i := range pts {
		pts[i] = route.Point{Distance: float64(i) * spacingM}
	}
	return pts
}

func slopedRoute(n int, spacingM, slopeTan float64) []route.Point {
	pts := flatRoute(n, spacingM)
	for i := range pts {
		pts[i].SlopeTan = slopeTan
		pts[i].Elevation = pts[i].Distance * slopeTan
	}
	return pts
}

func TestPlanFlatRoute(t *testing.T) {
	rb := testRiderBike()
	cfg := DefaultConfig(220)
	pts := flatRoute(101, 100) // 10 km

	res, err := Plan(pts, rb, calmAir(), cfg)
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}

	for i, tgt := range res.Targets {
		if math.Abs(tgt.PowerW-220) > 1e-9 {
			t.Fatalf("point %d: power = %.3f, want 220", i, tgt.PowerW)
		}
		if tgt.SpeedMS < 9 || tgt.SpeedMS > 11 {
			t.Fatalf("point %d: speed = %.2f m/s, want around 10", i, tgt.SpeedMS)
		}
	}

	// Riding below CP on a full tank leaves the tank full.
	if math.Abs(res.Summary.FinalWBalJ-rb.WPrime) > 1e-6 {
		t.Errorf("final W' balance = %.1f, want %.1f", res.Summary.FinalWBalJ, rb.WPrime)
	}
	if res.Summary.DistanceM != 10000 {
		t.Errorf("distance = %.1f, want 10000", res.Summary.DistanceM)
	}
	if res.Summary.WPrimeClampEvents != 0 {
		t.Errorf("clamp events = %d, want 0", res.Summary.WPrimeClampEvents)
	}
	if res.Summary.SolverFallbacks != 0 {
		t.Errorf("solver fallbacks = %d, want 0", res.Summary.SolverFallbacks)
	}

	// 220 W against CP 260 sits in tempo for the whole ride.
	if got := res.Summary.ZoneTimeS[ZoneTempo]; math.Abs(got-res.Summary.TotalTimeS) > 1e-9 {
		t.Errorf("tempo time = %.1f, want %.1f", got, res.Summary.TotalTimeS)
	}

	for i := 1; i < len(res.Targets); i++ {
		if res.Targets[i].CumTimeS < res.Targets[i-1].CumTimeS {
			t.Fatalf("point %d: cumulative time decreased", i)
		}
	}
}

func TestPlanClimbTarget(t *testing.T) {
	rb := testRiderBike()
	cfg := DefaultConfig(220)

	// Flat lead-in, then a steep ramp.
	pts := flatRoute(20, 100)
	for i := 10; i < 20; i++ {
		pts[i].SlopeTan = 0.15
		pts[i].Elevation = (pts[i].Distance - 1000) * 0.15
	}

	res, err := Plan(pts, rb, calmAir(), cfg)
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}

	// 220 * 1.10 = 242, reachable in one step within MaxDelta.
	for i := 10; i < 20; i++ {
		if math.Abs(res.Targets[i].PowerW-242) > 1e-9 {
			t.Errorf("climb point %d: power = %.3f, want 242", i, res.Targets[i].PowerW)
		}
		if res.Targets[i].SpeedMS >= res.Targets[5].SpeedMS {
			t.Errorf("climb point %d: speed %.2f not below flat speed %.2f",
				i, res.Targets[i].SpeedMS, res.Targets[5].SpeedMS)
		}
	}
}

func TestPlanMaxDelta(t *testing.T) {
	rb := testRiderBike()
	rb.WPrime = 200000 // large tank so the anaerobic guard never cuts in
	cfg := DefaultConfig(220)
	cfg.UpMult = 1.5
	cfg.DownMult = 0.5

	// Sawtooth grades force the raw baseline to swing far beyond MaxDelta.
	pts := flatRoute(60, 100)
	for i := range pts {
		if i%2 == 0 {
			pts[i].SlopeTan = 0.05
		} else {
			pts[i].SlopeTan = -0.05
		}
	}

	res, err := Plan(pts, rb, calmAir(), cfg)
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}

	for i := 1; i < len(res.Targets); i++ {
		delta := math.Abs(res.Targets[i].PowerW - res.Targets[i-1].PowerW)
		if delta > cfg.MaxDelta+1e-9 {
			t.Fatalf("point %d: power jumped %.1f W, max allowed %.1f", i, delta, cfg.MaxDelta)
		}
	}
}

func TestPlanWPrimeGuard(t *testing.T) {
	rb := testRiderBike()
	cfg := DefaultConfig(300) // 40 W over CP: unsustainable on a long route
	pts := flatRoute(201, 100) // 20 km

	res, err := Plan(pts, rb, calmAir(), cfg)
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}

	if res.Summary.WPrimeClampEvents == 0 {
		t.Fatal("expected the anaerobic guard to engage")
	}
	if res.Summary.MinWBalJ < 0 {
		t.Errorf("min W' balance = %.3f, must never go negative", res.Summary.MinWBalJ)
	}
	if res.Summary.MinWBalJ > 50 {
		t.Errorf("min W' balance = %.1f, want the tank ridden down to ~0", res.Summary.MinWBalJ)
	}

	for i, tgt := range res.Targets {
		if tgt.PowerW > 300+1e-9 {
			t.Fatalf("point %d: power %.1f above the naive target", i, tgt.PowerW)
		}
		if tgt.PowerW < rb.CP-1e-9 {
			t.Fatalf("point %d: power %.1f cut below CP %.0f", i, tgt.PowerW, rb.CP)
		}
		if tgt.WBalJ < 0 {
			t.Fatalf("point %d: W' balance %.3f negative", i, tgt.WBalJ)
		}
	}

	// Once the tank is empty the plan must settle onto CP, not the naive 300.
	last := res.Targets[len(res.Targets)-1]
	if last.PowerW > rb.CP+5 {
		t.Errorf("final power = %.1f, want near CP %.0f", last.PowerW, rb.CP)
	}
}

func TestPlanSolverFallback(t *testing.T) {
	rb := testRiderBike()
	cfg := DefaultConfig(220)

	// On a -35% wall even zero pedaling exceeds the search ceiling, so the
	// solver cannot find a speed for the descent target.
	pts := slopedRoute(3, 100, -0.35)

	res, err := Plan(pts, rb, calmAir(), cfg)
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}

	if res.Summary.SolverFallbacks != 3 {
		t.Errorf("solver fallbacks = %d, want 3", res.Summary.SolverFallbacks)
	}
	if len(res.Warnings) != 3 {
		t.Errorf("warnings = %d, want 3", len(res.Warnings))
	}
	for i, tgt := range res.Targets {
		if tgt.SpeedMS != cfg.MinSpeed {
			t.Errorf("point %d: speed = %.2f, want fallback %.2f", i, tgt.SpeedMS, cfg.MinSpeed)
		}
	}
}

func TestPlanPerPointEnvironments(t *testing.T) {
	rb := testRiderBike()
	cfg := DefaultConfig(220)
	pts := flatRoute(3, 100)

	headwind := calmAir()
	headwind.WindV = -8 // straight into a northbound rider
	envs := []physics.Environment{calmAir(), headwind, calmAir()}

	res, err := PlanSeries(pts, rb, envs, cfg)
	if err != nil {
		t.Fatalf("PlanSeries() error: %v", err)
	}

	if res.Targets[1].SpeedMS >= res.Targets[0].SpeedMS-1 {
		t.Errorf("headwind point speed %.2f not clearly below calm speed %.2f",
			res.Targets[1].SpeedMS, res.Targets[0].SpeedMS)
	}
	if math.Abs(res.Targets[2].SpeedMS-res.Targets[0].SpeedMS) > 1e-6 {
		t.Errorf("calm points disagree: %.3f vs %.3f",
			res.Targets[2].SpeedMS, res.Targets[0].SpeedMS)
	}
}

func TestPlanInputValidation(t *testing.T) {
	rb := testRiderBike()
	cfg := DefaultConfig(220)

	t.Run("empty route", func(t *testing.T) {
		_, err := Plan(nil, rb, calmAir(), cfg)
		if !errors.Is(err, ErrInvalidRoute) {
			t.Errorf("error = %v, want ErrInvalidRoute", err)
		}
	})

	t.Run("first point off origin", func(t *testing.T) {
		pts := flatRoute(3, 100)
		pts[0].Distance = 50
		pts[1].Distance = 150
		pts[2].Distance = 250
		_, err := Plan(pts, rb, calmAir(), cfg)
		if !errors.Is(err, ErrInvalidRoute) {
			t.Errorf("error = %v, want ErrInvalidRoute", err)
		}
	})

	t.Run("distance decreases", func(t *testing.T) {
		pts := flatRoute(4, 100)
		pts[2].Distance = 50
		_, err := Plan(pts, rb, calmAir(), cfg)
		if !errors.Is(err, ErrInvalidRoute) {
			t.Fatalf("error = %v, want ErrInvalidRoute", err)
		}
		if !strings.Contains(err.Error(), "index 2") {
			t.Errorf("error %q does not name the offending index", err)
		}
	})

	t.Run("environment count mismatch", func(t *testing.T) {
		pts := flatRoute(3, 100)
		envs := []physics.Environment{calmAir(), calmAir()}
		_, err := PlanSeries(pts, rb, envs, cfg)
		if !errors.Is(err, ErrInvalidRoute) {
			t.Errorf("error = %v, want ErrInvalidRoute", err)
		}
	})

	t.Run("bad environment", func(t *testing.T) {
		env := physics.Environment{AirDensity: -1}
		_, err := Plan(flatRoute(3, 100), rb, env, cfg)
		if !errors.Is(err, physics.ErrInvalidParams) {
			t.Errorf("error = %v, want ErrInvalidParams", err)
		}
	})

	t.Run("bad config", func(t *testing.T) {
		bad := cfg
		bad.FlatPower = 0
		_, err := Plan(flatRoute(3, 100), rb, calmAir(), bad)
		if !errors.Is(err, physics.ErrInvalidParams) {
			t.Errorf("error = %v, want ErrInvalidParams", err)
		}
	})

	t.Run("bad rider", func(t *testing.T) {
		badRB := rb
		badRB.CP = 0
		_, err := Plan(flatRoute(3, 100), badRB, calmAir(), cfg)
		if !errors.Is(err, physics.ErrInvalidParams) {
			t.Errorf("error = %v, want ErrInvalidParams", err)
		}
	})
}
