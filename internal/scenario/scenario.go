// Package scenario runs YAML-scripted simulation sessions: a preset, a
// duration, and an explicit schedule of puff times, executed headless
// through the driver.
package scenario

import (
	"context"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/nicosim/internal/pharm"
	"github.com/san-kum/nicosim/internal/sim"
)

// Scenario defines a scripted session.
type Scenario struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Preset      string             `yaml:"preset"`
	Seed        int64              `yaml:"seed,omitempty"`
	DurationMin float64            `yaml:"duration_min"`
	Dt          float64            `yaml:"dt"`
	PuffTimes   []float64          `yaml:"puff_times"`
	Params      map[string]float64 `yaml:"params,omitempty"`
}

// Load reads a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.Preset == "" {
		sc.Preset = string(sim.DefaultPreset)
	}
	if sc.Dt == 0 {
		sc.Dt = 1
	}
	return &sc, nil
}

func (sc *Scenario) validate() error {
	if _, ok := sim.ParsePreset(sc.Preset); !ok {
		return fmt.Errorf("scenario %q: unknown preset %q", sc.Name, sc.Preset)
	}
	if sc.Dt <= 0 {
		return fmt.Errorf("scenario %q: dt must be positive, got %g", sc.Name, sc.Dt)
	}
	if sc.DurationMin <= 0 {
		return fmt.Errorf("scenario %q: duration must be positive, got %g", sc.Name, sc.DurationMin)
	}
	for _, pt := range sc.PuffTimes {
		if pt < 0 || pt > sc.DurationMin {
			return fmt.Errorf("scenario %q: puff time %g outside [0, %g]", sc.Name, pt, sc.DurationMin)
		}
	}
	return nil
}

// Result is the outcome of one scripted session. Points holds the full
// history, not the driver's pruned window.
type Result struct {
	Final   pharm.State
	Points  []sim.TracePoint
	Metrics map[string]float64
}

// Run executes the scenario on the given driver. Each scheduled puff fires
// on the first tick whose end time reaches it; automatic puffing is
// disabled so the schedule is the only nicotine source.
func Run(ctx context.Context, sc *Scenario, d *sim.Driver) (*Result, error) {
	if err := sc.validate(); err != nil {
		return nil, err
	}

	preset, _ := sim.ParsePreset(sc.Preset)
	if err := d.ApplyPreset(preset); err != nil {
		return nil, err
	}
	if len(sc.Params) > 0 {
		if err := d.SetParams(sc.Params); err != nil {
			return nil, err
		}
	}
	if err := d.SetPuffRate(0); err != nil {
		return nil, err
	}
	if sc.Seed != 0 {
		d.Reseed(sc.Seed)
	}

	schedule := append([]float64(nil), sc.PuffTimes...)
	sort.Float64s(schedule)

	steps := int(sc.DurationMin / sc.Dt)
	points := make([]sim.TracePoint, 0, steps)
	cursor := 0

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		end := float64(i+1) * sc.Dt
		puff := false
		for cursor < len(schedule) && schedule[cursor] <= end {
			puff = true
			cursor++
		}

		_, pt := d.Tick(sc.Dt, puff)
		points = append(points, pt)
	}

	return &Result{
		Final:   d.State(),
		Points:  points,
		Metrics: d.MetricValues(),
	}, nil
}
