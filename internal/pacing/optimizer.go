package pacing

import (
	"errors"
	"fmt"
	"math"

	"paceline/internal/physics"
	"paceline/internal/route"
)

// ErrInvalidRoute reports malformed route input: empty routes, distances
// that do not start at zero or decrease, or mismatched environment series.
var ErrInvalidRoute = errors.New("invalid route")

// firstPointSpeedEstimate is the assumed speed in m/s used to estimate the
// first segment's duration before any speed has been solved.
const firstPointSpeedEstimate = 8.0

// Config holds the tunable pacing knobs. All fields must be set; use
// DefaultConfig for the standard values.
type Config struct {
	FlatPower       float64 // W, target on flat ground
	UpMult          float64 // baseline multiplier on climbs
	DownMult        float64 // baseline multiplier on descents
	SlopeThreshold  float64 // grade tangent beyond which a point counts as climb/descent
	MaxDelta        float64 // W, largest baseline change between consecutive points
	MinSpeed        float64 // m/s, fallback when the solver cannot converge
	GrossEfficiency float64 // metabolic efficiency for kcal conversion
	FTP             float64 // W, zone reference; CP is used when zero
	Recovery        Recovery
}

// DefaultConfig returns the standard pacing configuration around the given
// flat-ground target power.
func DefaultConfig(flatPowerW float64) Config {
	return Config{
		FlatPower:       flatPowerW,
		UpMult:          1.10,
		DownMult:        0.75,
		SlopeThreshold:  0.02,
		MaxDelta:        30,
		MinSpeed:        1.0,
		GrossEfficiency: 0.22,
		Recovery:        DefaultRecovery(),
	}
}

// Validate checks the configuration for non-physical values.
func (c Config) Validate() error {
	switch {
	case c.FlatPower <= 0:
		return fmt.Errorf("%w: flat power must be positive, got %.1f W", physics.ErrInvalidParams, c.FlatPower)
	case c.UpMult <= 0:
		return fmt.Errorf("%w: climb multiplier must be positive, got %.2f", physics.ErrInvalidParams, c.UpMult)
	case c.DownMult <= 0:
		return fmt.Errorf("%w: descent multiplier must be positive, got %.2f", physics.ErrInvalidParams, c.DownMult)
	case c.SlopeThreshold < 0:
		return fmt.Errorf("%w: slope threshold must not be negative, got %.3f", physics.ErrInvalidParams, c.SlopeThreshold)
	case c.MaxDelta <= 0:
		return fmt.Errorf("%w: max power delta must be positive, got %.1f W", physics.ErrInvalidParams, c.MaxDelta)
	case c.MinSpeed <= 0:
		return fmt.Errorf("%w: fallback speed must be positive, got %.2f m/s", physics.ErrInvalidParams, c.MinSpeed)
	case c.GrossEfficiency <= 0 || c.GrossEfficiency > 1:
		return fmt.Errorf("%w: gross efficiency must be in (0, 1], got %.2f", physics.ErrInvalidParams, c.GrossEfficiency)
	case c.Recovery.Tau1 <= 0 || c.Recovery.Tau2 < 0 || c.Recovery.Tau3 <= 0:
		return fmt.Errorf("%w: recovery time constants must be positive", physics.ErrInvalidParams)
	}
	return nil
}

// Target is the plan entry for one route point. Duration and the cumulative
// fields cover the segment from this point to the next; the final point has
// zero duration.
type Target struct {
	PowerW     float64
	SpeedMS    float64
	DurationS  float64
	CumTimeS   float64
	CumEnergyJ float64
	WBalJ      float64 // balance remaining after this segment
	Zone       Zone
}

// Summary aggregates a finished plan.
type Summary struct {
	DistanceM         float64
	TotalTimeS        float64
	EnergyJ           float64
	EnergyKcal        float64
	AvgPowerW         float64
	FinalWBalJ        float64
	MinWBalJ          float64
	WPrimeClampEvents int
	SolverFallbacks   int
	ZoneTimeS         map[Zone]float64
}

// Result is a complete pacing plan.
type Result struct {
	Targets  []Target
	Summary  Summary
	Warnings []string
}

// Plan computes a pacing plan with a single environment applied to the
// whole route.
func Plan(points []route.Point, rb physics.RiderBike, env physics.Environment, cfg Config) (*Result, error) {
	return PlanSeries(points, rb, []physics.Environment{env}, cfg)
}

// PlanSeries computes a pacing plan with per-point environments. The envs
// slice must hold either exactly one entry, applied uniformly, or one entry
// per route point.
//
// The pass is greedy and causal. For each point, in order: derive the
// slope-scaled baseline from FlatPower, clip it to within MaxDelta of the
// previous point's power, reduce it if the estimated segment would spend
// more W′ than remains (never below CP), solve the steady-state speed for
// the final power, then advance the W′-balance and running totals with the
// actual segment duration. Points where the solver cannot converge fall
// back to MinSpeed and are reported in Warnings rather than failing the
// plan. The anaerobic guard may cut power faster than MaxDelta allows;
// exhaustion wins over smoothness.
func PlanSeries(points []route.Point, rb physics.RiderBike, envs []physics.Environment, cfg Config) (*Result, error) {
	if err := rb.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := validateRoute(points, envs); err != nil {
		return nil, err
	}

	zoneRef := cfg.FTP
	if zoneRef <= 0 {
		zoneRef = rb.CP
	}

	res := &Result{Targets: make([]Target, len(points))}
	acc := newAccumulator()
	wbal := rb.WPrime
	minWBal := wbal
	var prevPower, prevSpeed float64

	for i, pt := range points {
		env := envs[0]
		if len(envs) > 1 {
			env = envs[i]
		}

		power := cfg.FlatPower
		switch {
		case pt.SlopeTan > cfg.SlopeThreshold:
			power *= cfg.UpMult
		case pt.SlopeTan < -cfg.SlopeThreshold:
			power *= cfg.DownMult
		}

		if i > 0 {
			power = clampDelta(power, prevPower, cfg.MaxDelta)
		}

		var dsAhead float64
		if i+1 < len(points) {
			dsAhead = points[i+1].Distance - pt.Distance
		}

		estDur := estimateDuration(dsAhead, prevSpeed, i == 0)
		if power > rb.CP && estDur > 0 {
			if depletion := (power - rb.CP) * estDur; depletion > wbal {
				power = rb.CP + wbal/estDur
				res.Summary.WPrimeClampEvents++
			}
		}

		speed, err := physics.SpeedForPower(power, pt.SlopeTan, pt.Bearing, rb, env)
		if err != nil {
			speed = cfg.MinSpeed
			res.Summary.SolverFallbacks++
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("point %d: %v; assuming %.1f m/s", i, err, cfg.MinSpeed))
		}
		if speed < cfg.MinSpeed {
			speed = cfg.MinSpeed
		}

		var dur float64
		if dsAhead > 0 {
			dur = dsAhead / speed
		}

		wbal = WBalStep(wbal, power, dur, rb.CP, rb.WPrime, cfg.Recovery)
		minWBal = math.Min(minWBal, wbal)
		zone := ClassifyZone(power, zoneRef)
		acc.add(dsAhead, dur, power, zone)

		res.Targets[i] = Target{
			PowerW:     power,
			SpeedMS:    speed,
			DurationS:  dur,
			CumTimeS:   acc.timeS,
			CumEnergyJ: acc.energyJ,
			WBalJ:      wbal,
			Zone:       zone,
		}
		prevPower = power
		prevSpeed = speed
	}

	res.Summary.DistanceM = acc.distanceM
	res.Summary.TotalTimeS = acc.timeS
	res.Summary.EnergyJ = acc.energyJ
	res.Summary.EnergyKcal = Kilocalories(acc.energyJ, cfg.GrossEfficiency)
	if acc.timeS > 0 {
		res.Summary.AvgPowerW = acc.energyJ / acc.timeS
	}
	res.Summary.FinalWBalJ = wbal
	res.Summary.MinWBalJ = minWBal
	res.Summary.ZoneTimeS = acc.zoneTime
	return res, nil
}

func validateRoute(points []route.Point, envs []physics.Environment) error {
	if len(points) == 0 {
		return fmt.Errorf("%w: route has no points", ErrInvalidRoute)
	}
	if d := points[0].Distance; math.Abs(d) > 1e-6 {
		return fmt.Errorf("%w: first point must be at distance 0, got %.1f m", ErrInvalidRoute, d)
	}
	for i := 1; i < len(points); i++ {
		if points[i].Distance < points[i-1].Distance {
			return fmt.Errorf("%w: distance decreased at index %d", ErrInvalidRoute, i)
		}
	}
	if len(envs) != 1 && len(envs) != len(points) {
		return fmt.Errorf("%w: got %d environments for %d points", ErrInvalidRoute, len(envs), len(points))
	}
	for i, env := range envs {
		if err := env.Validate(); err != nil {
			return fmt.Errorf("environment %d: %w", i, err)
		}
	}
	return nil
}

// clampDelta clips power to within maxDelta of the previous value.
func clampDelta(power, prev, maxDelta float64) float64 {
	if power > prev+maxDelta {
		return prev + maxDelta
	}
	if power < prev-maxDelta {
		return prev - maxDelta
	}
	return power
}

// estimateDuration guesses a segment's duration before its speed is known,
// using the previous point's solved speed. The first point has no history,
// so a nominal cruising speed stands in.
func estimateDuration(dsAhead, prevSpeed float64, first bool) float64 {
	if dsAhead <= 0 {
		return 0
	}
	if first || prevSpeed <= 0 {
		return dsAhead / firstPointSpeedEstimate
	}
	return dsAhead / prevSpeed
}
