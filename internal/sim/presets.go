package sim

import "github.com/san-kum/nicosim/internal/pharm"

// Preset names a canonical session scenario.
type Preset string

const (
	// PresetSinglePuff starts clean with no automatic puffing: the user
	// triggers puffs manually.
	PresetSinglePuff Preset = "single-puff"
	// PresetRepeated starts clean with automatic puffing at 0.18/min.
	PresetRepeated Preset = "repeated"
	// PresetAbstinence starts with trace nicotine and both pools skewed
	// toward desensitized, modeling the tail of a heavy session.
	PresetAbstinence Preset = "abstinence"
)

// DefaultPreset is the session default restored by Reset.
const DefaultPreset = PresetSinglePuff

type presetInit struct {
	nicotine float64
	puffRate float64
	poolDA   pharm.ReceptorPool
	poolGABA pharm.ReceptorPool
}

var presetInits = map[Preset]presetInit{
	PresetSinglePuff: {
		poolDA:   pharm.PureBasalPool(),
		poolGABA: pharm.PureBasalPool(),
	},
	PresetRepeated: {
		puffRate: 0.18,
		poolDA:   pharm.PureBasalPool(),
		poolGABA: pharm.PureBasalPool(),
	},
	PresetAbstinence: {
		nicotine: 0.02,
		poolDA:   pharm.ReceptorPool{Basal: 0.35, Activated: 0.05, Desensitized: 0.60},
		poolGABA: pharm.ReceptorPool{Basal: 0.40, Activated: 0.05, Desensitized: 0.55},
	},
}

// Presets lists the available preset names in a stable order.
func Presets() []Preset {
	return []Preset{PresetSinglePuff, PresetRepeated, PresetAbstinence}
}

// ParsePreset resolves a preset by name.
func ParsePreset(name string) (Preset, bool) {
	p := Preset(name)
	_, ok := presetInits[p]
	return p, ok
}
