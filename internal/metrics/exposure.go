// Package metrics provides per-tick reductions of the simulation state:
// each metric observes every committed step and collapses the session into
// one number for reporting.
package metrics

import "github.com/san-kum/nicosim/internal/pharm"

// NicotineExposure accumulates the time-weighted area under the nicotine
// curve, in concentration-minutes. Samples are integrated between
// successive observation times, so irregular tick sizes are handled.
type NicotineExposure struct {
	name    string
	lastT   float64
	samples int
	auc     float64
}

func NewNicotineExposure() *NicotineExposure {
	return &NicotineExposure{name: "nicotine_exposure"}
}

func (e *NicotineExposure) Name() string { return e.name }

func (e *NicotineExposure) Observe(s pharm.State, tMin float64) {
	if e.samples > 0 && tMin > e.lastT {
		e.auc += s.Nicotine * (tMin - e.lastT)
	}
	e.lastT = tMin
	e.samples++
}

func (e *NicotineExposure) Value() float64 {
	return e.auc
}

func (e *NicotineExposure) Reset() {
	e.lastT = 0
	e.samples = 0
	e.auc = 0
}
