package physics

import "math"

// PowerRequired returns the power in watts a rider must put through the
// pedals to hold speedMS on the given slope and heading. The result is the
// sum of rolling, gravity, and aerodynamic terms divided by drivetrain
// efficiency. Each point is treated at locally constant speed, so there is
// no acceleration term.
//
// The result is signed: on a descent the gravity term can outweigh the
// others and the required power goes negative, meaning the rider would
// free-wheel or brake. Callers deriving effort or nutrition must treat a
// negative value as zero rider output.
func PowerRequired(speedMS, slopeTan, bearingDeg float64, rb RiderBike, env Environment) (float64, error) {
	if err := rb.Validate(); err != nil {
		return 0, err
	}
	if err := env.Validate(); err != nil {
		return 0, err
	}
	return powerRequired(speedMS, slopeTan, bearingDeg, rb, env), nil
}

// powerRequired is the unchecked model. Callers must have validated rb/env.
func powerRequired(speedMS, slopeTan, bearingDeg float64, rb RiderBike, env Environment) float64 {
	mass := rb.TotalMass()
	angle := math.Atan(slopeTan)
	sinA, cosA := math.Sincos(angle)

	rolling := rb.Crr * mass * gravity * cosA * speedMS
	grade := mass * gravity * sinA * speedMS

	// Drag uses the along-heading component of air velocity relative to the
	// rider, signed by flow direction: a tailwind faster than the rider makes
	// the term negative. Crosswind is not separately modeled.
	vAir := relativeAirSpeed(speedMS, bearingDeg, env)
	aero := 0.5 * env.AirDensity * rb.CdA * vAir * math.Abs(vAir) * speedMS

	return (rolling + grade + aero) / rb.Efficiency
}

// relativeAirSpeed projects the rider's velocity minus the wind vector onto
// the heading unit vector. bearingDeg is compass degrees (0 = north).
func relativeAirSpeed(speedMS, bearingDeg float64, env Environment) float64 {
	rad := bearingDeg * math.Pi / 180
	hx, hy := math.Sin(rad), math.Cos(rad)
	return speedMS - (env.WindU*hx + env.WindV*hy)
}
