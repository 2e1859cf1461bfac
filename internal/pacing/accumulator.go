package pacing

// Zone labels a power target relative to a reference threshold power,
// using the common six-band breakdown.
type Zone string

const (
	ZoneRecovery  Zone = "recovery"
	ZoneEndurance Zone = "endurance"
	ZoneTempo     Zone = "tempo"
	ZoneThreshold Zone = "threshold"
	ZoneVO2Max    Zone = "vo2max"
	ZoneAnaerobic Zone = "anaerobic"
)

// ClassifyZone maps a power value to its training zone relative to the
// reference power (FTP, or CP when no FTP is configured).
func ClassifyZone(powerW, refW float64) Zone {
	if refW <= 0 {
		return ZoneRecovery
	}
	switch ratio := powerW / refW; {
	case ratio < 0.55:
		return ZoneRecovery
	case ratio <= 0.75:
		return ZoneEndurance
	case ratio <= 0.90:
		return ZoneTempo
	case ratio <= 1.05:
		return ZoneThreshold
	case ratio <= 1.20:
		return ZoneVO2Max
	default:
		return ZoneAnaerobic
	}
}

// joulesPerKcal converts mechanical work to dietary calories.
const joulesPerKcal = 4184

// Kilocalories converts mechanical work in joules to the metabolic cost in
// kcal, given a gross efficiency (mechanical output / metabolic input).
func Kilocalories(energyJ, grossEfficiency float64) float64 {
	if grossEfficiency <= 0 {
		return 0
	}
	return energyJ / grossEfficiency / joulesPerKcal
}

// accumulator folds per-segment results into running totals. Negative power
// means the rider is coasting or braking, so it contributes no work.
type accumulator struct {
	distanceM float64
	timeS     float64
	energyJ   float64
	zoneTime  map[Zone]float64
}

func newAccumulator() *accumulator {
	return &accumulator{zoneTime: make(map[Zone]float64)}
}

func (a *accumulator) add(distDeltaM, durationS, powerW float64, zone Zone) {
	a.distanceM += distDeltaM
	a.timeS += durationS
	if powerW > 0 {
		a.energyJ += powerW * durationS
	}
	a.zoneTime[zone] += durationS
}
