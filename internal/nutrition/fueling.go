// Package nutrition derives fueling guidance from a finished pacing plan:
// how much to eat and drink overall, and where along the route to do it.
package nutrition

import (
	"math"

	"paceline/internal/pacing"
	"paceline/internal/route"
)

// Hourly intake guidelines. Short rides get by on less carbohydrate; past
// two and a half hours glycogen runs down and intake has to step up.
const (
	carbsShortGPerH = 45
	carbsLongGPerH  = 75
	longRideH       = 2.5
	fluidLPerH      = 0.6
	sodiumMgPerH    = 500
)

// DefaultFuelingIntervalS spaces eat/drink reminders 20 minutes apart.
const DefaultFuelingIntervalS = 20 * 60

// minRideForFuelingS skips reminders entirely on rides under half an hour.
const minRideForFuelingS = 30 * 60

// gelCarbBoost bumps the intake when fatigue calls for quick carbs.
const gelCarbBoost = 1.2

// What to reach for at a reminder.
const (
	TypeGel   = "gel"
	TypeBar   = "bar"
	TypeDrink = "drink"
)

// Needs summarizes the intake for a whole ride.
type Needs struct {
	DurationH float64
	CarbsG    float64
	FluidL    float64
	SodiumMg  float64
	Kcal      float64
}

// Estimate computes ride-level intake from the planned duration and
// metabolic cost.
func Estimate(totalTimeS, energyKcal float64) Needs {
	hours := totalTimeS / 3600
	carbsPerH := float64(carbsShortGPerH)
	if hours >= longRideH {
		carbsPerH = carbsLongGPerH
	}
	return Needs{
		DurationH: hours,
		CarbsG:    carbsPerH * hours,
		FluidL:    fluidLPerH * hours,
		SodiumMg:  sodiumMgPerH * hours,
		Kcal:      energyKcal,
	}
}

// FuelingPoint is a reminder pinned to a moment in the plan: when, where,
// what to take and how the rider will be feeling by then.
type FuelingPoint struct {
	TimeS        float64
	DistanceM    float64
	CarbsG       float64
	FluidML      float64
	SodiumMg     float64
	WBalPct      float64 // remaining W′ as a fraction, 1 = fresh
	FatigueIndex float64 // 0 fresh .. 100 exhausted
	Type         string
}

// FatigueIndex blends three strains into one 0-100 number: how much of W′
// is spent, how long the rider has been out (rising steeply past the first
// hours), and how hot the overall pace runs relative to threshold.
func FatigueIndex(wbalFrac, timeH, intensityFactor float64) float64 {
	wFatigue := (1 - wbalFrac) * 40
	durFatigue := math.Min(40, math.Pow(timeH, 1.5)*8)
	intFatigue := math.Max(0, (intensityFactor-0.6)*40)

	total := wFatigue + durFatigue + intFatigue
	return math.Min(100, math.Max(0, total))
}

// FuelingPoints places a reminder every intervalS seconds of planned riding
// time, located at the first plan point past each mark. The targets and
// points slices must be the aligned output and input of the same plan;
// thresholdW anchors the intensity read. Rides under thirty minutes need
// no reminders.
func FuelingPoints(targets []pacing.Target, points []route.Point, wPrimeJ, thresholdW, intervalS float64) []FuelingPoint {
	if len(targets) == 0 || len(targets) != len(points) || intervalS <= 0 {
		return nil
	}

	total := targets[len(targets)-1].CumTimeS
	if total < minRideForFuelingS {
		return nil
	}

	carbsPerH := float64(carbsShortGPerH)
	if total/3600 >= longRideH {
		carbsPerH = carbsLongGPerH
	}
	intervalH := intervalS / 3600
	intensity := rideIntensity(targets, thresholdW)

	var out []FuelingPoint
	idx, n := 0, 0
	for mark := intervalS; mark <= total; mark += intervalS {
		for idx < len(targets) && targets[idx].CumTimeS < mark {
			idx++
		}
		if idx >= len(targets) {
			break
		}
		n++

		timeH := targets[idx].CumTimeS / 3600
		wbalFrac := 1.0
		if wPrimeJ > 0 {
			wbalFrac = targets[idx].WBalJ / wPrimeJ
			if wbalFrac < 0 {
				wbalFrac = 0
			}
		}
		fatigue := FatigueIndex(wbalFrac, timeH, intensity)

		// High fatigue wants quick carbs and more of them; early in the
		// ride solids sit fine; at a hot pace liquids go down easier;
		// otherwise alternate bars and gels.
		carbs := carbsPerH * intervalH
		var kind string
		switch {
		case fatigue > 70:
			kind = TypeGel
			carbs *= gelCarbBoost
		case timeH < 1:
			kind = TypeBar
		case intensity > 0.85:
			kind = TypeDrink
		case n%2 == 0:
			kind = TypeBar
		default:
			kind = TypeGel
		}

		out = append(out, FuelingPoint{
			TimeS:        targets[idx].CumTimeS,
			DistanceM:    points[idx].Distance,
			CarbsG:       carbs,
			FluidML:      fluidLPerH * 1000 * intervalH,
			SodiumMg:     sodiumMgPerH * intervalH,
			WBalPct:      wbalFrac,
			FatigueIndex: fatigue,
			Type:         kind,
		})
	}
	return out
}

// rideIntensity is the time-weighted average target power over threshold.
func rideIntensity(targets []pacing.Target, thresholdW float64) float64 {
	if thresholdW <= 0 {
		return 0
	}
	var workJ, timeS float64
	for _, tr := range targets {
		if tr.PowerW > 0 && tr.DurationS > 0 {
			workJ += tr.PowerW * tr.DurationS
			timeS += tr.DurationS
		}
	}
	if timeS <= 0 {
		return 0
	}
	return workJ / timeS / thresholdW
}
