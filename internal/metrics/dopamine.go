package metrics

import "github.com/san-kum/nicosim/internal/pharm"

// DopamineMean is the running mean of the dopamine output across all
// observed steps.
type DopamineMean struct {
	name    string
	sum     float64
	samples int
}

func NewDopamineMean() *DopamineMean {
	return &DopamineMean{name: "dopamine_mean"}
}

func (d *DopamineMean) Name() string { return d.name }

func (d *DopamineMean) Observe(s pharm.State, tMin float64) {
	d.sum += s.DA
	d.samples++
}

func (d *DopamineMean) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return d.sum / float64(d.samples)
}

func (d *DopamineMean) Reset() {
	d.sum = 0
	d.samples = 0
}
