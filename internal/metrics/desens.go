package metrics

import "github.com/san-kum/nicosim/internal/pharm"

// DesensPeak tracks the maximum combined desensitization reached during
// the session.
type DesensPeak struct {
	name string
	peak float64
}

func NewDesensPeak() *DesensPeak {
	return &DesensPeak{name: "desens_peak"}
}

func (d *DesensPeak) Name() string { return d.name }

func (d *DesensPeak) Observe(s pharm.State, tMin float64) {
	if v := s.DesensTotal(); v > d.peak {
		d.peak = v
	}
}

func (d *DesensPeak) Value() float64 {
	return d.peak
}

func (d *DesensPeak) Reset() {
	d.peak = 0
}
