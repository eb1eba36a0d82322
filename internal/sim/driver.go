package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/nicosim/internal/pharm"
)

// BatchSteps is the number of unit-minute steps taken by Advance60.
const BatchSteps = 60

// Metric observes every simulation step and reduces it to a single value.
type Metric interface {
	Name() string
	Observe(s pharm.State, tMin float64)
	Value() float64
	Reset()
}

// Observer receives each new snapshot and trace point after it is
// committed. Observers must treat their arguments as read-only.
type Observer interface {
	OnTick(s pharm.State, pt TracePoint)
}

// Driver owns the simulation state machine: the continuous tick mode, the
// discrete puff command, and the batch fast-forward, plus preset/reset
// scenario handling and the bounded trace buffer.
//
// A Driver is single-threaded by design. All operations run to completion
// synchronously; the caller hands out snapshots, never the driver itself.
type Driver struct {
	params   pharm.Params
	state    pharm.State
	trace    *Trace
	simMin   float64
	puffRate float64
	preset   Preset
	rng      *rand.Rand

	metrics   []Metric
	observers []Observer

	// Simulated time at which each pathway's dominant state first became
	// desensitized. Observational only; cleared the instant the dominant
	// state changes.
	onsetDA, onsetGABA   float64
	markedDA, markedGABA bool
}

// New creates a driver with the given parameters in the default scenario.
// The puff generator is time-seeded; call Reseed for deterministic runs.
func New(p pharm.Params) *Driver {
	d := &Driver{
		params: p,
		trace:  NewTrace(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		preset: DefaultPreset,
	}
	d.state = pharm.InitialState(p)
	return d
}

// Reseed replaces the puff-event random source for deterministic runs.
func (d *Driver) Reseed(seed int64) {
	d.rng = rand.New(rand.NewSource(seed))
}

func (d *Driver) AddMetric(m Metric)     { d.metrics = append(d.metrics, m) }
func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

// State returns the current snapshot.
func (d *Driver) State() pharm.State { return d.state }

// SimMin returns minutes of simulated time since session start.
func (d *Driver) SimMin() float64 { return d.simMin }

// Params returns the current parameter set.
func (d *Driver) Params() pharm.Params { return d.params }

// Preset returns the most recently applied preset.
func (d *Driver) Preset() Preset { return d.preset }

// PuffRate returns the automatic puff rate in puffs per simulated minute.
func (d *Driver) PuffRate() float64 { return d.puffRate }

// SetPuffRate adjusts the automatic puff rate between ticks.
func (d *Driver) SetPuffRate(rate float64) error {
	if rate < 0 {
		return fmt.Errorf("puff rate must be non-negative, got %g", rate)
	}
	d.puffRate = rate
	return nil
}

// Trace exposes the retained timeline points.
func (d *Driver) Trace() []TracePoint { return d.trace.Points() }

// TraceLen returns the number of retained points.
func (d *Driver) TraceLen() int { return d.trace.Len() }

// DesensOnsetDA reports when the DA pathway's dominant state became
// desensitized, if it currently is.
func (d *Driver) DesensOnsetDA() (float64, bool) { return d.onsetDA, d.markedDA }

// DesensOnsetGABA reports when the GABA pathway's dominant state became
// desensitized, if it currently is.
func (d *Driver) DesensOnsetGABA() (float64, bool) { return d.onsetGABA, d.markedGABA }

// MetricValues returns the current value of every registered metric.
func (d *Driver) MetricValues() map[string]float64 {
	out := make(map[string]float64, len(d.metrics))
	for _, m := range d.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// Tick advances the simulation by dtMin minutes with an externally decided
// puff event, appends one trace point, and prunes the rolling window. This
// is the primitive the continuous-mode scheduler calls once per frame; by
// convention one real second supplies one simulated minute of dtMin.
func (d *Driver) Tick(dtMin float64, puffOccurred bool) (pharm.State, TracePoint) {
	d.state = pharm.Step(d.state, dtMin, puffOccurred, d.params)
	d.simMin += dtMin

	pt := d.point(puffOccurred)
	d.trace.Append(pt)
	d.trace.PruneWindow(WindowMin)

	d.afterStep()
	for _, o := range d.observers {
		o.OnTick(d.state, pt)
	}
	return d.state, pt
}

// TickAuto is Tick with the puff event drawn from the driver's random
// source as a Bernoulli trial with probability puffRate*dtMin.
func (d *Driver) TickAuto(dtMin float64) (pharm.State, TracePoint) {
	puff := d.rng.Float64() < clamp01(d.puffRate*dtMin)
	return d.Tick(dtMin, puff)
}

// DoPuff applies an instantaneous nicotine bolus with no elapsed kinetics
// (the manual "puff" action). No trace point is recorded and simulated
// time does not advance.
func (d *Driver) DoPuff() pharm.State {
	d.state = pharm.Step(d.state, 0, true, d.params)
	d.updateOnsets()
	return d.state
}

// Advance60 fast-forwards the session by exactly 60 unit-minute steps with
// no puffs, producing 60 new trace points as one atomic update, then
// hard-caps the buffer at BatchCap points.
func (d *Driver) Advance60() (pharm.State, []TracePoint) {
	points := make([]TracePoint, 0, BatchSteps)
	for i := 0; i < BatchSteps; i++ {
		d.state = pharm.Step(d.state, 1, false, d.params)
		d.simMin++

		pt := d.point(false)
		d.trace.Append(pt)
		points = append(points, pt)

		d.afterStep()
	}
	// Observers see only the committed batch, never a mid-batch state.
	d.trace.CapCount(BatchCap)
	if last, ok := d.trace.Latest(); ok {
		for _, o := range d.observers {
			o.OnTick(d.state, last)
		}
	}
	return d.state, points
}

// ApplyPreset atomically replaces the whole session: canonical initial
// state, puff rate, cleared trace, simMin back to zero. Params are kept.
func (d *Driver) ApplyPreset(p Preset) error {
	init, ok := presetInits[p]
	if !ok {
		return fmt.Errorf("unknown preset: %q (available: %v)", p, Presets())
	}
	d.preset = p
	d.state = pharm.NewState(init.nicotine, init.poolDA, init.poolGABA, d.params)
	d.puffRate = init.puffRate
	d.restart()
	return nil
}

// Reset restores the session defaults (no nicotine, pure basal pools, no
// automatic puffing, default preset, empty trace) without touching the
// parameter set.
func (d *Driver) Reset() {
	d.preset = DefaultPreset
	d.state = pharm.InitialState(d.params)
	d.puffRate = 0
	d.restart()
}

// SetParams merges named parameter updates between ticks. The whole update
// is rejected, leaving the current set untouched, if any key is unknown or
// any value is out of bounds.
func (d *Driver) SetParams(changes map[string]float64) error {
	next := d.params
	for key, value := range changes {
		if err := next.SetParam(key, value); err != nil {
			return err
		}
	}
	d.params = next
	return nil
}

func (d *Driver) restart() {
	d.simMin = 0
	d.trace.Clear()
	d.markedDA, d.markedGABA = false, false
	d.updateOnsets()
	for _, m := range d.metrics {
		m.Reset()
	}
}

func (d *Driver) point(puff bool) TracePoint {
	return TracePoint{
		T:           d.simMin,
		DA:          d.state.DA,
		GABA:        d.state.GABA,
		Nic:         d.state.Nicotine,
		DesensTotal: d.state.DesensTotal(),
		Puff:        puff,
	}
}

func (d *Driver) afterStep() {
	d.updateOnsets()
	for _, m := range d.metrics {
		m.Observe(d.state, d.simMin)
	}
}

func (d *Driver) updateOnsets() {
	if d.state.PoolDA.Dominant() == pharm.PoolDesensitized {
		if !d.markedDA {
			d.markedDA = true
			d.onsetDA = d.simMin
		}
	} else {
		d.markedDA = false
	}
	if d.state.PoolGABA.Dominant() == pharm.PoolDesensitized {
		if !d.markedGABA {
			d.markedGABA = true
			d.onsetGABA = d.simMin
		}
	} else {
		d.markedGABA = false
	}
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
