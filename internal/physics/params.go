// Package physics models the forward power equation for a rider on a bike
// and its inverse (speed from power). All functions are pure; the caller owns
// any state.
package physics

import (
	"errors"
	"fmt"
	"math"
)

// Standard gravity, m/s².
const gravity = 9.80665

// ErrInvalidParams is returned when rider/bike or environment parameters are
// non-physical (zero mass, negative density, ...). Nothing downstream can be
// trusted after this, so callers should abort before processing any points.
var ErrInvalidParams = errors.New("invalid parameters")

// ErrNoConvergence is returned when the speed solver cannot bracket a root
// within its search budget. It is recoverable per point: callers substitute a
// fallback speed and continue.
var ErrNoConvergence = errors.New("solver did not converge")

// RiderBike holds the physical parameters of the rider+bike system.
// Immutable for the duration of a pass.
type RiderBike struct {
	RiderMass  float64 // kg
	BikeMass   float64 // kg
	CdA        float64 // m², effective frontal area × drag coefficient
	Crr        float64 // rolling resistance coefficient
	Efficiency float64 // drivetrain efficiency, 0 < η ≤ 1
	CP         float64 // critical power, watts
	WPrime     float64 // anaerobic work capacity, joules
}

// TotalMass returns rider + bike mass in kg.
func (rb RiderBike) TotalMass() float64 {
	return rb.RiderMass + rb.BikeMass
}

// Validate checks that all parameters are physically meaningful.
func (rb RiderBike) Validate() error {
	switch {
	case rb.RiderMass <= 0:
		return fmt.Errorf("%w: rider mass must be positive, got %.2f kg", ErrInvalidParams, rb.RiderMass)
	case rb.BikeMass <= 0:
		return fmt.Errorf("%w: bike mass must be positive, got %.2f kg", ErrInvalidParams, rb.BikeMass)
	case rb.CdA <= 0:
		return fmt.Errorf("%w: CdA must be positive, got %.4f m²", ErrInvalidParams, rb.CdA)
	case rb.Crr < 0:
		return fmt.Errorf("%w: Crr cannot be negative, got %.5f", ErrInvalidParams, rb.Crr)
	case rb.Efficiency <= 0 || rb.Efficiency > 1:
		return fmt.Errorf("%w: drivetrain efficiency must be in (0, 1], got %.3f", ErrInvalidParams, rb.Efficiency)
	case rb.CP <= 0:
		return fmt.Errorf("%w: critical power must be positive, got %.1f W", ErrInvalidParams, rb.CP)
	case rb.WPrime <= 0:
		return fmt.Errorf("%w: W' must be positive, got %.0f J", ErrInvalidParams, rb.WPrime)
	}
	return nil
}

// Environment holds ambient conditions. Wind is expressed as two orthogonal
// horizontal velocity components of the air mass: U eastward, V northward
// (both m/s, the direction the air moves toward).
type Environment struct {
	AirDensity float64 // kg/m³
	WindU      float64 // m/s
	WindV      float64 // m/s
}

// WindSpeed returns the wind magnitude in m/s.
func (e Environment) WindSpeed() float64 {
	return math.Hypot(e.WindU, e.WindV)
}

// Validate checks that the environment is physically meaningful.
func (e Environment) Validate() error {
	if e.AirDensity <= 0 {
		return fmt.Errorf("%w: air density must be positive, got %.3f kg/m³", ErrInvalidParams, e.AirDensity)
	}
	return nil
}
