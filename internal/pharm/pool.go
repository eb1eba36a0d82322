package pharm

import "math"

// PoolState is the dominant fraction of a receptor pool.
type PoolState int

const (
	PoolBasal PoolState = iota
	PoolActivated
	PoolDesensitized
)

func (s PoolState) String() string {
	switch s {
	case PoolActivated:
		return "activated"
	case PoolDesensitized:
		return "desensitized"
	default:
		return "basal"
	}
}

// Basal→activated transfer rate per unit of nicotine drive, per minute.
const activationRate = 0.25

// Fraction of the normal recovery rate that remains while nicotine is
// still present (recovery is slowed, not stopped).
const slowedRecoveryFactor = 0.35

// ReceptorPool is a three-state fractional population of α4β2 receptors.
// The fractions are non-negative and sum to 1 at every observable point.
type ReceptorPool struct {
	Basal        float64 `yaml:"basal" json:"basal"`
	Activated    float64 `yaml:"activated" json:"activated"`
	Desensitized float64 `yaml:"desensitized" json:"desensitized"`
}

// PureBasalPool is the reset state: every receptor available.
func PureBasalPool() ReceptorPool {
	return ReceptorPool{Basal: 1}
}

func (rp ReceptorPool) Sum() float64 {
	return rp.Basal + rp.Activated + rp.Desensitized
}

// Normalized restores the sum-to-1 invariant. A degenerate non-positive
// sum resets the pool to pure basal.
func (rp ReceptorPool) Normalized() ReceptorPool {
	sum := rp.Sum()
	if sum <= 0 {
		return PureBasalPool()
	}
	return ReceptorPool{
		Basal:        rp.Basal / sum,
		Activated:    rp.Activated / sum,
		Desensitized: rp.Desensitized / sum,
	}
}

// Dominant returns the pool's dominant state. Ties resolve desensitized
// over either other fraction, and activated over basal.
func (rp ReceptorPool) Dominant() PoolState {
	if rp.Desensitized >= rp.Activated && rp.Desensitized >= rp.Basal {
		return PoolDesensitized
	}
	if rp.Activated >= rp.Basal {
		return PoolActivated
	}
	return PoolBasal
}

// Advance evolves the pool for dtMin minutes at nicotine level nic, using
// the pathway-specific desensitization rate. All three fluxes are computed
// from the pre-step fractions and applied simultaneously; each transfer is
// capped at its source fraction so nothing goes negative before
// renormalization. Pure: identical inputs give bit-identical outputs.
func (rp ReceptorPool) Advance(dtMin, nic, desensRate float64, p Params) ReceptorPool {
	if dtMin <= 0 {
		return rp
	}

	nicDrive := 0.0
	if nic > p.ActThreshold && p.ActThreshold < 1 {
		nicDrive = clamp01((nic - p.ActThreshold) / (1 - p.ActThreshold))
	}

	window := math.Max(p.DesensWindowMin, 1)
	recoveryRate := 1 / window
	if nic >= 0.9*p.ActThreshold {
		recoveryRate = slowedRecoveryFactor / window
	}

	activate := math.Min(activationRate*nicDrive*rp.Basal*dtMin, rp.Basal)
	desensitize := 0.0
	if nic > p.ActThreshold {
		desensitize = math.Min(desensRate*rp.Activated*dtMin, rp.Activated)
	}
	recover := math.Min(recoveryRate*rp.Desensitized*dtMin, rp.Desensitized)

	next := ReceptorPool{
		Basal:        math.Max(rp.Basal-activate+recover, 0),
		Activated:    math.Max(rp.Activated+activate-desensitize, 0),
		Desensitized: math.Max(rp.Desensitized+desensitize-recover, 0),
	}
	return next.Normalized()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
