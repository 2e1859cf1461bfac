package tui

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"paceline/internal/config"
)

const (
	metersPerMile = 1609.34
	metersPerKm   = 1000.0
	feetPerMeter  = 3.28084
	kjPerKcal     = 4.184
)

// Units provides unit conversion and formatting based on user preferences
type Units struct {
	cfg config.DisplayConfig
}

// NewUnits creates a new Units helper with the given display config
func NewUnits(cfg config.DisplayConfig) Units {
	return Units{cfg: cfg}
}

// FormatDistance formats a distance in meters to the user's preferred unit
func (u Units) FormatDistance(meters float64) string {
	if u.IsMiles() {
		return fmt.Sprintf("%.1f mi", meters/metersPerMile)
	}
	return fmt.Sprintf("%.1f km", meters/metersPerKm)
}

// FormatElevation formats a height in meters (feet when riding in miles)
func (u Units) FormatElevation(meters float64) string {
	if u.IsMiles() {
		return fmt.Sprintf("%.0f ft", meters*feetPerMeter)
	}
	return fmt.Sprintf("%.0f m", meters)
}

// FormatSpeed formats a speed in m/s as km/h or mph
func (u Units) FormatSpeed(ms float64) string {
	if u.IsMiles() {
		return fmt.Sprintf("%.1f mph", ms*3600/metersPerMile)
	}
	return fmt.Sprintf("%.1f km/h", ms*3600/metersPerKm)
}

// SpeedLabel returns the speed unit label
func (u Units) SpeedLabel() string {
	if u.IsMiles() {
		return "mph"
	}
	return "km/h"
}

// ElevationLabel returns the elevation unit label
func (u Units) ElevationLabel() string {
	if u.IsMiles() {
		return "ft"
	}
	return "m"
}

// FormatEnergy formats a metabolic cost given in kcal to the preferred
// energy unit, with thousands separators for long rides
func (u Units) FormatEnergy(kcal float64) string {
	if u.cfg.EnergyUnit == "kj" {
		return humanize.Comma(int64(math.Round(kcal*kjPerKcal))) + " kJ"
	}
	return humanize.Comma(int64(math.Round(kcal))) + " kcal"
}

// FormatDuration renders a span of seconds as "3h 24m" / "42m 10s" / "55s"
func (u Units) FormatDuration(seconds float64) string {
	s := int(math.Round(seconds))
	h := s / 3600
	m := (s % 3600) / 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, s%60)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// FormatClock renders a ride-time offset as "1:12:40" or "20:00"
func (u Units) FormatClock(seconds float64) string {
	s := int(math.Round(seconds))
	h := s / 3600
	m := (s % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s%60)
	}
	return fmt.Sprintf("%d:%02d", m, s%60)
}

// IsMiles returns true if distance unit is miles
func (u Units) IsMiles() bool {
	return u.cfg.DistanceUnit == "mi"
}
