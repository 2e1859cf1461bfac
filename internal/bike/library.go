// Package bike holds the equipment library: bike classes, riding positions
// and wheelsets, and the arithmetic that folds them with rider dimensions
// into the aerodynamic and rolling parameters the physics model needs.
package bike

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Anthropometric reference for the position CdA values. A rider of this
// size uses the table values unscaled.
const (
	refHeightM = 1.80
	refMassKg  = 75.0
)

// ErrUnknownComponent reports a bike, position or wheelset key that is not
// in the library.
var ErrUnknownComponent = errors.New("unknown component")

// ErrInvalidRider reports rider dimensions the frontal-area scaling cannot
// work with.
var ErrInvalidRider = errors.New("invalid rider dimensions")

// Bike describes a bike class: its own mass and its contribution to the
// total drag area, plus the tire and drivetrain characteristics typical
// for the class.
type Bike struct {
	MassKg     float64
	CdA        float64 // bike-only drag area, m²
	Crr        float64
	Efficiency float64 // drivetrain
}

// Position is the rider's contribution to drag area in a given posture,
// for a reference-sized rider.
type Position struct {
	CdA float64 // m²
}

// WheelSet adjusts the base bike: deeper rims add a little mass and cut
// drag, better tires cut rolling resistance.
type WheelSet struct {
	MassDeltaKg float64
	CdADelta    float64
	CrrDelta    float64
}

var bikes = map[string]Bike{
	"road_race": {MassKg: 7.5, CdA: 0.08, Crr: 0.0035, Efficiency: 0.977},
	"aero_road": {MassKg: 8.2, CdA: 0.07, Crr: 0.0035, Efficiency: 0.977},
	"tt":        {MassKg: 9.0, CdA: 0.06, Crr: 0.0030, Efficiency: 0.977},
	"gravel":    {MassKg: 9.5, CdA: 0.10, Crr: 0.0060, Efficiency: 0.970},
	"mountain":  {MassKg: 11.0, CdA: 0.12, Crr: 0.0080, Efficiency: 0.950},
}

var positions = map[string]Position{
	"upright":    {CdA: 0.35},
	"aero_hoods": {CdA: 0.30},
	"drops":      {CdA: 0.28},
	"tt":         {CdA: 0.22},
	"super_tuck": {CdA: 0.18},
}

var wheelSets = map[string]WheelSet{
	"shallow_alloy":  {},
	"shallow_carbon": {MassDeltaKg: -0.4, CdADelta: -0.002, CrrDelta: -0.0002},
	"mid_depth":      {MassDeltaKg: -0.2, CdADelta: -0.008, CrrDelta: -0.0003},
	"deep_section":   {MassDeltaKg: 0.1, CdADelta: -0.012, CrrDelta: -0.0003},
	"disc_rear":      {MassDeltaKg: 0.3, CdADelta: -0.015, CrrDelta: -0.0003},
}

// Setup is a fully resolved equipment choice, ready to feed the physics
// parameters.
type Setup struct {
	BikeMassKg float64
	CdA        float64 // rider + bike + wheels, m²
	Crr        float64
	Efficiency float64
}

// Resolve looks up the named components and combines them with the rider's
// dimensions. The position's drag area is scaled by the Du Bois body
// surface area ratio, so taller or heavier riders present more frontal
// area than the reference rider.
func Resolve(bikeKey, positionKey, wheelsKey string, riderHeightM, riderMassKg float64) (Setup, error) {
	if riderHeightM <= 0 {
		return Setup{}, fmt.Errorf("%w: height must be positive, got %.2f m", ErrInvalidRider, riderHeightM)
	}
	if riderMassKg <= 0 {
		return Setup{}, fmt.Errorf("%w: mass must be positive, got %.2f kg", ErrInvalidRider, riderMassKg)
	}

	b, ok := bikes[bikeKey]
	if !ok {
		return Setup{}, fmt.Errorf("%w: bike %q (valid: %s)", ErrUnknownComponent, bikeKey, strings.Join(Bikes(), ", "))
	}
	p, ok := positions[positionKey]
	if !ok {
		return Setup{}, fmt.Errorf("%w: position %q (valid: %s)", ErrUnknownComponent, positionKey, strings.Join(Positions(), ", "))
	}
	w, ok := wheelSets[wheelsKey]
	if !ok {
		return Setup{}, fmt.Errorf("%w: wheels %q (valid: %s)", ErrUnknownComponent, wheelsKey, strings.Join(WheelSets(), ", "))
	}

	scale := math.Pow(riderHeightM/refHeightM, 0.725) * math.Pow(riderMassKg/refMassKg, 0.425)
	return Setup{
		BikeMassKg: b.MassKg + w.MassDeltaKg,
		CdA:        p.CdA*scale + b.CdA + w.CdADelta,
		Crr:        b.Crr + w.CrrDelta,
		Efficiency: b.Efficiency,
	}, nil
}

// Bikes returns the bike class keys in sorted order.
func Bikes() []string { return sortedKeys(bikes) }

// Positions returns the riding position keys in sorted order.
func Positions() []string { return sortedKeys(positions) }

// WheelSets returns the wheelset keys in sorted order.
func WheelSets() []string { return sortedKeys(wheelSets) }

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
