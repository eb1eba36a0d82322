package pharm

import "math"

// PuffBolus is the instantaneous nicotine concentration added by one puff.
const PuffBolus = 0.25

// State is one full circuit snapshot. Nicotine and both pools are the
// evolving quantities; everything else is derived on each step and carried
// for the renderer.
type State struct {
	Nicotine float64      `json:"nicotine"`
	PoolDA   ReceptorPool `json:"pool_da"`
	PoolGABA ReceptorPool `json:"pool_gaba"`

	AchDrive    float64 `json:"ach_drive"`
	GluDrive    float64 `json:"glu_drive"`
	Alpha7AchOn bool    `json:"alpha7_ach_on"`
	Alpha7GluOn bool    `json:"alpha7_glu_on"`

	GABA     float64 `json:"gaba"`
	DA       float64 `json:"da"`
	Direct   float64 `json:"direct"`
	Indirect float64 `json:"indirect"`
}

// DesensTotal is the combined desensitization observable shown on the
// timeline: the mean of both pathways' desensitized fractions.
func (s State) DesensTotal() float64 {
	return clamp01(0.5*s.PoolDA.Desensitized + 0.5*s.PoolGABA.Desensitized)
}

// NewState builds a consistent snapshot from raw nicotine and pool values:
// pools are normalized and the derived outputs computed via a zero-length
// step, so the result is a fixed point of Step(., 0, false, p).
func NewState(nicotine float64, poolDA, poolGABA ReceptorPool, p Params) State {
	s := State{
		Nicotine: clamp01(nicotine),
		PoolDA:   poolDA.Normalized(),
		PoolGABA: poolGABA.Normalized(),
	}
	return Step(s, 0, false, p)
}

// InitialState is the session default: no nicotine, both pools pure basal.
func InitialState(p Params) State {
	return NewState(0, PureBasalPool(), PureBasalPool(), p)
}

// Step is the single authoritative state transition. It applies, in order:
// the optional puff bolus, exponential nicotine decay, the α7 threshold
// gates and drive proxies, both receptor pool advances (using the
// post-decay nicotine), and the pathway output formulas. Deterministic
// given its inputs; the caller owns the only nondeterminism (puffNow).
func Step(prev State, dtMin float64, puffNow bool, p Params) State {
	nic := prev.Nicotine
	if puffNow {
		nic = clamp01(nic + PuffBolus)
	}
	if dtMin > 0 && p.NicotineHalfLifeMin > 0 {
		nic = clamp01(nic * math.Pow(0.5, dtMin/p.NicotineHalfLifeMin))
	}

	// The two presynaptic α7 gates share a threshold but are evaluated
	// independently; there is no α7 pool.
	achOn := nic > p.Alpha7Threshold
	gluOn := nic > p.Alpha7Threshold

	achDrive := 0.35 + 0.05
	if achOn {
		achDrive = 0.35 + 0.45*nic
	}
	gluDrive := 0.30 + 0.05
	if gluOn {
		gluDrive = 0.30 + 0.55*nic
	}
	achDrive = clamp01(achDrive)
	gluDrive = clamp01(gluDrive)

	poolDA := prev.PoolDA.Advance(dtMin, nic, p.DesensRateDA, p)
	poolGABA := prev.PoolGABA.Advance(dtMin, nic, p.DesensRateGABA, p)

	direct := clamp01(0.15 + 0.95*poolDA.Activated*(0.55*achDrive+0.65*gluDrive))
	gaba := clamp01(0.25 + 0.95*poolGABA.Activated - 0.85*poolGABA.Desensitized)
	indirect := clamp01(0.15 + 0.9*(1-gaba))
	da := clamp01(0.1 + 0.75*direct + 0.35*indirect)

	return State{
		Nicotine:    nic,
		PoolDA:      poolDA,
		PoolGABA:    poolGABA,
		AchDrive:    achDrive,
		GluDrive:    gluDrive,
		Alpha7AchOn: achOn,
		Alpha7GluOn: gluOn,
		GABA:        gaba,
		DA:          da,
		Direct:      direct,
		Indirect:    indirect,
	}
}
