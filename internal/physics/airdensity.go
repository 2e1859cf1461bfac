package physics

import "math"

// Specific gas constants, J/(kg·K).
const (
	rDryAir     = 287.058
	rWaterVapor = 461.495
)

// StandardAirDensity is sea-level density at 15 °C, kg/m³. Used when no
// weather data is available.
const StandardAirDensity = 1.225

// AirDensity returns moist-air density in kg/m³ from temperature (°C),
// station pressure (hPa) and relative humidity (percent). Saturation vapor
// pressure comes from the Tetens approximation; dry air and vapor are then
// treated as ideal gases at their partial pressures.
func AirDensity(tempC, pressureHPa, relHumidityPct float64) float64 {
	satPa := 610.94 * math.Exp(17.625*tempC/(tempC+243.04))
	vaporPa := relHumidityPct / 100 * satPa
	dryPa := pressureHPa*100 - vaporPa
	kelvin := tempC + 273.15
	return dryPa/(rDryAir*kelvin) + vaporPa/(rWaterVapor*kelvin)
}
