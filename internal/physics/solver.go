package physics

import "fmt"

const (
	// Search bounds and resolution for SpeedForPower. The bisection is
	// deterministic: it stops at speedTolerance m/s or after maxIterations
	// halvings, whichever comes first.
	maxSearchSpeed = 30.0 // m/s
	speedTolerance = 1e-3 // m/s
	maxIterations  = 60
	coastScanStep  = 1.0 // m/s, bracket scan on the coasting branch
)

// SpeedForPower inverts PowerRequired: it finds the speed at which holding
// targetW watts is in equilibrium on the given slope and heading.
//
// Required power grows with speed once drag dominates, so a bisection over
// [0, maxSearchSpeed] finds the root. On descents the curve first dips
// negative (gravity pays part of the bill) before rising, so a target at or
// below the zero-speed power is resolved on the rising, coasting branch:
// a free-wheeling descent is a normal case, not an error.
func SpeedForPower(targetW, slopeTan, bearingDeg float64, rb RiderBike, env Environment) (float64, error) {
	if err := rb.Validate(); err != nil {
		return 0, err
	}
	if err := env.Validate(); err != nil {
		return 0, err
	}

	f := func(v float64) float64 {
		return powerRequired(v, slopeTan, bearingDeg, rb, env) - targetW
	}

	lo, hi := 0.0, maxSearchSpeed
	if f(hi) < 0 {
		return 0, fmt.Errorf("%w: %.1f W not reached below %.0f m/s", ErrNoConvergence, targetW, maxSearchSpeed)
	}

	if f(lo) >= 0 {
		// targetW ≤ 0: the root, if any, sits past the dip of a descent
		// (or a strong tailwind). Scan down from the top for a bracket.
		found := false
		for v := hi - coastScanStep; v > 0; v -= coastScanStep {
			if f(v) < 0 {
				lo, hi = v, v+coastScanStep
				found = true
				break
			}
		}
		if !found {
			if targetW >= 0 {
				return 0, nil // zero power on flat or climb: the rider stays put
			}
			return 0, fmt.Errorf("%w: no speed yields %.1f W on slope %.3f", ErrNoConvergence, targetW, slopeTan)
		}
	}

	for i := 0; i < maxIterations; i++ {
		mid := 0.5 * (lo + hi)
		if f(mid) > 0 {
			hi = mid
		} else {
			lo = mid
		}
		if hi-lo < speedTolerance {
			break
		}
	}
	return 0.5 * (lo + hi), nil
}
