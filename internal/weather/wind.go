package weather

import "math"

// Components resolves a meteorological wind reading into vector
// components. Weather services report the direction a wind blows FROM, so
// a northerly (0°) becomes a southward vector: u east-positive, v
// north-positive, both in the units of speedMS.
func Components(speedMS, fromDeg float64) (u, v float64) {
	rad := fromDeg * math.Pi / 180
	return -speedMS * math.Sin(rad), -speedMS * math.Cos(rad)
}
