package pharm

import "fmt"

// Default parameter values for a didactic session.
const (
	DefaultHalfLifeMin     = 8.0
	DefaultActThreshold    = 0.10
	DefaultDesensRateDA    = 0.30
	DefaultDesensRateGABA  = 0.45
	DefaultAlpha7Threshold = 0.35
	DefaultDesensWindowMin = 25.0
)

// Params holds the per-step model configuration. It is treated as immutable
// during a step: updates happen only between ticks, through SetParam with
// bounds checking.
//
// Valid ranges:
//
//	nicotineHalfLifeMin  (0, 600]   minutes
//	actThreshold         [0, 0.95]  fraction
//	desensRateDA         [0, 10]    per minute
//	desensRateGABA       [0, 10]    per minute
//	alpha7Threshold      [0, 1]     fraction
//	desensWindowMin      [1, 600]   minutes
type Params struct {
	NicotineHalfLifeMin float64 `yaml:"nicotine_half_life_min"`
	ActThreshold        float64 `yaml:"act_threshold"`
	DesensRateDA        float64 `yaml:"desens_rate_da"`
	DesensRateGABA      float64 `yaml:"desens_rate_gaba"`
	Alpha7Threshold     float64 `yaml:"alpha7_threshold"`
	DesensWindowMin     float64 `yaml:"desens_window_min"`
}

func DefaultParams() Params {
	return Params{
		NicotineHalfLifeMin: DefaultHalfLifeMin,
		ActThreshold:        DefaultActThreshold,
		DesensRateDA:        DefaultDesensRateDA,
		DesensRateGABA:      DefaultDesensRateGABA,
		Alpha7Threshold:     DefaultAlpha7Threshold,
		DesensWindowMin:     DefaultDesensWindowMin,
	}
}

type paramBounds struct {
	min, max float64
	exclMin  bool
}

var paramRanges = map[string]paramBounds{
	"nicotineHalfLifeMin": {min: 0, max: 600, exclMin: true},
	"actThreshold":        {min: 0, max: 0.95},
	"desensRateDA":        {min: 0, max: 10},
	"desensRateGABA":      {min: 0, max: 10},
	"alpha7Threshold":     {min: 0, max: 1},
	"desensWindowMin":     {min: 1, max: 600},
}

// GetParams returns the current values keyed by their update names.
func (p Params) GetParams() map[string]float64 {
	return map[string]float64{
		"nicotineHalfLifeMin": p.NicotineHalfLifeMin,
		"actThreshold":        p.ActThreshold,
		"desensRateDA":        p.DesensRateDA,
		"desensRateGABA":      p.DesensRateGABA,
		"alpha7Threshold":     p.Alpha7Threshold,
		"desensWindowMin":     p.DesensWindowMin,
	}
}

// SetParam updates one field by key, rejecting unknown keys and values
// outside the documented ranges.
func (p *Params) SetParam(name string, value float64) error {
	b, ok := paramRanges[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	if value < b.min || value > b.max || (b.exclMin && value == b.min) {
		return fmt.Errorf("%w: %s=%g (valid %g..%g)", ErrParamBounds, name, value, b.min, b.max)
	}
	switch name {
	case "nicotineHalfLifeMin":
		p.NicotineHalfLifeMin = value
	case "actThreshold":
		p.ActThreshold = value
	case "desensRateDA":
		p.DesensRateDA = value
	case "desensRateGABA":
		p.DesensRateGABA = value
	case "alpha7Threshold":
		p.Alpha7Threshold = value
	case "desensWindowMin":
		p.DesensWindowMin = value
	}
	return nil
}

// Validate checks every field against its documented range.
func (p Params) Validate() error {
	for name, value := range p.GetParams() {
		b := paramRanges[name]
		if value < b.min || value > b.max || (b.exclMin && value == b.min) {
			return fmt.Errorf("%w: %s=%g (valid %g..%g)", ErrParamBounds, name, value, b.min, b.max)
		}
	}
	return nil
}
