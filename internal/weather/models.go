package weather

import (
	"fmt"
	"math"
	"time"

	"paceline/internal/physics"
)

// Forecast is the hourly forecast for one coordinate, as returned by the
// Open-Meteo API with unix timestamps and wind speeds in m/s.
type Forecast struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Hourly    Hourly  `json:"hourly"`
}

// Hourly holds the parallel per-hour series.
type Hourly struct {
	Time             []int64   `json:"time"`
	Temperature      []float64 `json:"temperature_2m"`
	RelativeHumidity []float64 `json:"relative_humidity_2m"`
	SurfacePressure  []float64 `json:"surface_pressure"`
	WindSpeed        []float64 `json:"wind_speed_10m"`
	WindDirection    []float64 `json:"wind_direction_10m"`
}

func (h Hourly) validate() error {
	n := len(h.Time)
	if n == 0 {
		return fmt.Errorf("forecast has no hourly data")
	}
	for name, l := range map[string]int{
		"temperature_2m":       len(h.Temperature),
		"relative_humidity_2m": len(h.RelativeHumidity),
		"surface_pressure":     len(h.SurfacePressure),
		"wind_speed_10m":       len(h.WindSpeed),
		"wind_direction_10m":   len(h.WindDirection),
	} {
		if l != n {
			return fmt.Errorf("forecast series %s has %d entries, want %d", name, l, n)
		}
	}
	return nil
}

// Conditions is one hour's weather snapshot.
type Conditions struct {
	Time           time.Time
	TempC          float64
	RelHumidityPct float64
	PressureHPa    float64
	WindSpeedMS    float64
	WindDirDeg     float64 // meteorological: the direction the wind blows from
}

// At returns the conditions for the forecast hour nearest to t. Times more
// than 90 minutes outside the forecast range are rejected.
func (f *Forecast) At(t time.Time) (Conditions, error) {
	if len(f.Hourly.Time) == 0 {
		return Conditions{}, fmt.Errorf("forecast has no hourly data")
	}

	want := t.Unix()
	best := 0
	bestDiff := int64(math.MaxInt64)
	for i, ts := range f.Hourly.Time {
		diff := ts - want
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	if bestDiff > 90*60 {
		return Conditions{}, fmt.Errorf("no forecast near %s", t.Format(time.RFC3339))
	}

	return Conditions{
		Time:           time.Unix(f.Hourly.Time[best], 0),
		TempC:          f.Hourly.Temperature[best],
		RelHumidityPct: f.Hourly.RelativeHumidity[best],
		PressureHPa:    f.Hourly.SurfacePressure[best],
		WindSpeedMS:    f.Hourly.WindSpeed[best],
		WindDirDeg:     f.Hourly.WindDirection[best],
	}, nil
}

// Environment converts the snapshot into physics terms: air density from
// temperature, pressure and humidity, and the wind resolved into
// eastward/northward components.
func (c Conditions) Environment() physics.Environment {
	u, v := Components(c.WindSpeedMS, c.WindDirDeg)
	return physics.Environment{
		AirDensity: physics.AirDensity(c.TempC, c.PressureHPa, c.RelHumidityPct),
		WindU:      u,
		WindV:      v,
	}
}
