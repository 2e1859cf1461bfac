package physics

import (
	"errors"
	"math"
	"testing"
)

func testRiderBike() RiderBike {
	return RiderBike{
		RiderMass:  72,
		BikeMass:   8,
		CdA:        0.30,
		Crr:        0.0035,
		Efficiency: 0.97,
		CP:         260,
		WPrime:     20000,
	}
}

func calmAir() Environment {
	return Environment{AirDensity: 1.225}
}

func TestPowerRequired(t *testing.T) {
	rb := testRiderBike()

	tests := []struct {
		name       string
		speed      float64
		slopeTan   float64
		bearingDeg float64
		env        Environment
		checkFn    func(t *testing.T, power float64)
	}{
		{
			name:     "flat no wind at 10 m/s",
			speed:    10,
			slopeTan: 0,
			env:      calmAir(),
			checkFn: func(t *testing.T, power float64) {
				// (Crr·m·g·v + 0.5·ρ·CdA·v³) / η
				want := (0.0035*80*gravity*10 + 0.5*1.225*0.30*1000) / 0.97
				if math.Abs(power-want) > 0.01 {
					t.Errorf("power = %.3f, want %.3f", power, want)
				}
			},
		},
		{
			name:     "climbing costs more than flat",
			speed:    8,
			slopeTan: 0.06,
			env:      calmAir(),
			checkFn: func(t *testing.T, power float64) {
				flat, _ := PowerRequired(8, 0, 0, testRiderBike(), calmAir())
				if power <= flat {
					t.Errorf("climb power %.1f should exceed flat power %.1f", power, flat)
				}
			},
		},
		{
			name:     "steep descent returns negative power",
			speed:    10,
			slopeTan: -0.10,
			env:      calmAir(),
			checkFn: func(t *testing.T, power float64) {
				if power >= 0 {
					t.Errorf("descent power = %.1f, want negative (free-wheeling regime)", power)
				}
			},
		},
		{
			name:       "headwind raises required power",
			speed:      10,
			slopeTan:   0,
			bearingDeg: 0, // riding north
			env:        Environment{AirDensity: 1.225, WindU: 0, WindV: -5},
			checkFn: func(t *testing.T, power float64) {
				calm, _ := PowerRequired(10, 0, 0, testRiderBike(), calmAir())
				if power <= calm {
					t.Errorf("headwind power %.1f should exceed calm power %.1f", power, calm)
				}
			},
		},
		{
			name:       "tailwind lowers required power",
			speed:      10,
			slopeTan:   0,
			bearingDeg: 0,
			env:        Environment{AirDensity: 1.225, WindU: 0, WindV: 5},
			checkFn: func(t *testing.T, power float64) {
				calm, _ := PowerRequired(10, 0, 0, testRiderBike(), calmAir())
				if power >= calm {
					t.Errorf("tailwind power %.1f should be below calm power %.1f", power, calm)
				}
			},
		},
		{
			name:       "pure crosswind has no drag effect",
			speed:      10,
			slopeTan:   0,
			bearingDeg: 0,                                             // riding north
			env:        Environment{AirDensity: 1.225, WindU: 6, WindV: 0}, // wind blowing east
			checkFn: func(t *testing.T, power float64) {
				calm, _ := PowerRequired(10, 0, 0, testRiderBike(), calmAir())
				if math.Abs(power-calm) > 1e-9 {
					t.Errorf("crosswind power = %.4f, want %.4f (only along-heading flow counts)", power, calm)
				}
			},
		},
		{
			name:     "zero speed needs zero power",
			speed:    0,
			slopeTan: 0.08,
			env:      calmAir(),
			checkFn: func(t *testing.T, power float64) {
				if power != 0 {
					t.Errorf("power at v=0 = %.4f, want 0", power)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			power, err := PowerRequired(tt.speed, tt.slopeTan, tt.bearingDeg, rb, tt.env)
			if err != nil {
				t.Fatalf("PowerRequired() error = %v", err)
			}
			tt.checkFn(t, power)
		})
	}
}

// Required power grows with speed on flats and climbs without a tailwind.
// Descents are excluded: there the curve first dips (gravity pays the bill
// at low speed) before drag takes over, which is the coasting branch the
// speed solver handles separately.
func TestPowerRequiredMonotonicInSpeed(t *testing.T) {
	rb := testRiderBike()

	envs := []Environment{
		calmAir(),
		{AirDensity: 1.225, WindU: 3, WindV: -3},
		{AirDensity: 1.10, WindU: -4, WindV: 2},
	}
	slopes := []float64{0, 0.03, 0.12}

	for _, env := range envs {
		for _, slope := range slopes {
			prev := math.Inf(-1)
			for v := 0.0; v <= 25; v += 0.25 {
				p, err := PowerRequired(v, slope, 45, rb, env)
				if err != nil {
					t.Fatalf("PowerRequired() error = %v", err)
				}
				if p < prev-1e-9 {
					t.Fatalf("power decreased with speed: slope=%.2f v=%.2f p=%.3f prev=%.3f", slope, v, p, prev)
				}
				prev = p
			}
		}
	}
}

// On a descent the required power dips below zero at moderate speed and
// only turns positive again once drag dominates.
func TestPowerRequiredDescentDip(t *testing.T) {
	rb := testRiderBike()

	low, err := PowerRequired(5, -0.08, 0, rb, calmAir())
	if err != nil {
		t.Fatalf("PowerRequired() error = %v", err)
	}
	if low >= 0 {
		t.Errorf("power at 5 m/s on -8%% = %.1f, want negative", low)
	}

	high, err := PowerRequired(25, -0.08, 0, rb, calmAir())
	if err != nil {
		t.Fatalf("PowerRequired() error = %v", err)
	}
	if high <= 0 {
		t.Errorf("power at 25 m/s on -8%% = %.1f, want positive (drag-dominated)", high)
	}
	if high <= low {
		t.Errorf("power should rise out of the dip: %.1f at 25 m/s vs %.1f at 5 m/s", high, low)
	}
}

func TestPowerRequiredInvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RiderBike, *Environment)
	}{
		{"zero rider mass", func(rb *RiderBike, _ *Environment) { rb.RiderMass = 0 }},
		{"negative bike mass", func(rb *RiderBike, _ *Environment) { rb.BikeMass = -1 }},
		{"zero CdA", func(rb *RiderBike, _ *Environment) { rb.CdA = 0 }},
		{"negative Crr", func(rb *RiderBike, _ *Environment) { rb.Crr = -0.001 }},
		{"zero efficiency", func(rb *RiderBike, _ *Environment) { rb.Efficiency = 0 }},
		{"efficiency above one", func(rb *RiderBike, _ *Environment) { rb.Efficiency = 1.2 }},
		{"zero air density", func(_ *RiderBike, env *Environment) { env.AirDensity = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb := testRiderBike()
			env := calmAir()
			tt.mutate(&rb, &env)

			if _, err := PowerRequired(10, 0, 0, rb, env); !errors.Is(err, ErrInvalidParams) {
				t.Errorf("error = %v, want ErrInvalidParams", err)
			}
		})
	}
}
