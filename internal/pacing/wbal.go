// Package pacing turns a prepared route into a per-point power plan. The
// optimizer is a single-pass, causal controller: each point's decision uses
// only earlier points, never future ones. That greedy policy is deliberate;
// the output is a rideable plan, not a globally optimal trajectory.
package pacing

import "math"

// Recovery parameterizes W′ reconstitution below critical power. Published
// parameterizations of the Skiba model differ, so these are configuration,
// not hard-coded physics.
type Recovery struct {
	Tau1 float64 // s
	Tau2 float64 // 1/W
	Tau3 float64 // s
}

// DefaultRecovery returns the 546/0.01/316 parameterization.
func DefaultRecovery() Recovery {
	return Recovery{Tau1: 546, Tau2: 0.01, Tau3: 316}
}

// TimeConstant returns the recovery time constant in seconds for a given
// power deficit below CP. Riding further below CP recovers W′ faster.
func (r Recovery) TimeConstant(deficitW float64) float64 {
	if deficitW < 0 {
		deficitW = 0
	}
	return r.Tau1*math.Exp(-r.Tau2*deficitW) + r.Tau3
}

// WBalStep advances the W′-balance by one segment. Above CP the balance
// depletes linearly with the work done over CP, floored at zero (zero means
// exhaustion). At or below CP it reconstitutes exponentially toward full
// W′ with the deficit-dependent time constant. The result always stays
// within [0, wPrime].
func WBalStep(wPrev, powerW, durationS, cp, wPrime float64, rec Recovery) float64 {
	if durationS <= 0 {
		return clampWBal(wPrev, wPrime)
	}

	if powerW > cp {
		return clampWBal(wPrev-(powerW-cp)*durationS, wPrime)
	}

	tau := rec.TimeConstant(cp - powerW)
	next := wPrime - (wPrime-wPrev)*math.Exp(-durationS/tau)
	return clampWBal(next, wPrime)
}

func clampWBal(w, wPrime float64) float64 {
	if w < 0 {
		return 0
	}
	if w > wPrime {
		return wPrime
	}
	return w
}
