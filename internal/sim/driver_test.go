package sim

import (
	"math"
	"testing"

	"github.com/san-kum/nicosim/internal/pharm"
)

func TestDriver_SinglePuffScenario(t *testing.T) {
	d := New(pharm.DefaultParams())
	if err := d.ApplyPreset(PresetSinglePuff); err != nil {
		t.Fatal(err)
	}

	s := d.DoPuff()
	if s.Nicotine != 0.25 {
		t.Errorf("nicotine after one puff = %v, want 0.25", s.Nicotine)
	}
	if s.PoolDA != pharm.PureBasalPool() || s.PoolGABA != pharm.PureBasalPool() {
		t.Error("pools must be untouched by a zero-dt puff")
	}
	if d.SimMin() != 0 {
		t.Errorf("simMin = %v, want 0 (manual puff advances no time)", d.SimMin())
	}
}

func TestDriver_BatchExactness(t *testing.T) {
	d := New(pharm.DefaultParams())
	d.Reseed(7)

	before := d.SimMin()
	_, points := d.Advance60()

	if len(points) != 60 {
		t.Fatalf("got %d points, want 60", len(points))
	}
	for i, pt := range points {
		want := before + float64(i) + 1
		if math.Abs(pt.T-want) > 1e-12 {
			t.Errorf("point %d: t = %v, want %v", i, pt.T, want)
		}
	}
	if got := d.SimMin() - before; math.Abs(got-60) > 1e-12 {
		t.Errorf("simMin advanced by %v, want 60", got)
	}
}

func TestDriver_BatchBufferCap(t *testing.T) {
	d := New(pharm.DefaultParams())

	for i := 0; i < 20; i++ {
		d.Advance60()
		if d.TraceLen() > BatchCap {
			t.Fatalf("buffer grew to %d points, cap is %d", d.TraceLen(), BatchCap)
		}
	}
	if d.TraceLen() != BatchCap {
		t.Errorf("buffer holds %d points after 1200 batch steps, want %d", d.TraceLen(), BatchCap)
	}
}

func TestDriver_ContinuousWindow(t *testing.T) {
	d := New(pharm.DefaultParams())
	d.Reseed(11)
	if err := d.ApplyPreset(PresetRepeated); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 500; i++ {
		d.TickAuto(0.5)
	}

	pts := d.Trace()
	latest := pts[len(pts)-1].T
	for _, pt := range pts {
		if pt.T < latest-WindowMin {
			t.Fatalf("point t=%g retained outside rolling window ending %g", pt.T, latest)
		}
	}
}

func TestDriver_AbstinenceRecovery(t *testing.T) {
	d := New(pharm.DefaultParams())
	if err := d.ApplyPreset(PresetAbstinence); err != nil {
		t.Fatal(err)
	}

	before := d.State()
	after, _ := d.Advance60()

	if after.PoolDA.Desensitized >= before.PoolDA.Desensitized {
		t.Errorf("DA desensitized fraction %v did not fall from %v",
			after.PoolDA.Desensitized, before.PoolDA.Desensitized)
	}
	if after.PoolGABA.Desensitized >= before.PoolGABA.Desensitized {
		t.Errorf("GABA desensitized fraction %v did not fall from %v",
			after.PoolGABA.Desensitized, before.PoolGABA.Desensitized)
	}
}

func TestDriver_RepeatedBeatsSinglePuff(t *testing.T) {
	single := New(pharm.DefaultParams())
	if err := single.ApplyPreset(PresetSinglePuff); err != nil {
		t.Fatal(err)
	}
	singleDA := single.DoPuff().DA

	repeated := New(pharm.DefaultParams())
	repeated.Reseed(42)
	if err := repeated.ApplyPreset(PresetRepeated); err != nil {
		t.Fatal(err)
	}
	var state pharm.State
	for i := 0; i < 60; i++ {
		state, _ = repeated.TickAuto(1)
	}

	if state.DA <= singleDA {
		t.Errorf("repeated-puff da after 60 min = %v, want > single-puff da %v",
			state.DA, singleDA)
	}
}

func TestDriver_ApplyPresetAtomic(t *testing.T) {
	d := New(pharm.DefaultParams())
	d.Reseed(3)
	for i := 0; i < 30; i++ {
		d.Tick(1, i%5 == 0)
	}

	if err := d.ApplyPreset(PresetAbstinence); err != nil {
		t.Fatal(err)
	}

	s := d.State()
	if s.Nicotine != 0.02 {
		t.Errorf("nicotine = %v, want 0.02", s.Nicotine)
	}
	if math.Abs(s.PoolDA.Desensitized-0.60) > 1e-9 {
		t.Errorf("poolDA.desensitized = %v, want 0.60", s.PoolDA.Desensitized)
	}
	if math.Abs(s.PoolGABA.Desensitized-0.55) > 1e-9 {
		t.Errorf("poolGABA.desensitized = %v, want 0.55", s.PoolGABA.Desensitized)
	}
	if d.SimMin() != 0 {
		t.Errorf("simMin = %v, want 0", d.SimMin())
	}
	if d.TraceLen() != 0 {
		t.Errorf("trace holds %d points, want 0", d.TraceLen())
	}
	if d.PuffRate() != 0 {
		t.Errorf("puff rate = %v, want 0", d.PuffRate())
	}
}

func TestDriver_ApplyPresetUnknown(t *testing.T) {
	d := New(pharm.DefaultParams())
	if err := d.ApplyPreset(Preset("chain-smoking")); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestDriver_ResetKeepsParams(t *testing.T) {
	d := New(pharm.DefaultParams())
	if err := d.SetParams(map[string]float64{"nicotineHalfLifeMin": 3}); err != nil {
		t.Fatal(err)
	}
	if err := d.ApplyPreset(PresetRepeated); err != nil {
		t.Fatal(err)
	}
	d.TickAuto(1)

	d.Reset()

	if d.Preset() != DefaultPreset {
		t.Errorf("preset = %v, want %v", d.Preset(), DefaultPreset)
	}
	if d.State().Nicotine != 0 || d.PuffRate() != 0 || d.TraceLen() != 0 || d.SimMin() != 0 {
		t.Error("reset did not restore session defaults")
	}
	if d.Params().NicotineHalfLifeMin != 3 {
		t.Error("reset must not touch the parameter set")
	}
}

func TestDriver_SetParamsRejectsWhole(t *testing.T) {
	d := New(pharm.DefaultParams())
	before := d.Params()

	err := d.SetParams(map[string]float64{
		"actThreshold":    0.2,
		"desensWindowMin": 0.1, // below floor
	})
	if err == nil {
		t.Fatal("expected bounds error")
	}
	if d.Params() != before {
		t.Error("failed update must leave params untouched")
	}
}

func TestDriver_DesensOnsetMarks(t *testing.T) {
	d := New(pharm.DefaultParams())
	if err := d.ApplyPreset(PresetAbstinence); err != nil {
		t.Fatal(err)
	}

	// Abstinence starts desensitized-dominant on both pathways.
	if _, ok := d.DesensOnsetDA(); !ok {
		t.Error("expected DA onset mark at preset start")
	}
	if onset, ok := d.DesensOnsetGABA(); !ok || onset != 0 {
		t.Errorf("GABA onset = %v, %v; want 0, true", onset, ok)
	}

	// Recovery eventually flips the dominant state and clears the marks.
	for i := 0; i < 5; i++ {
		d.Advance60()
	}
	if _, ok := d.DesensOnsetDA(); ok {
		t.Error("DA onset mark should clear once dominance leaves desensitized")
	}
	if _, ok := d.DesensOnsetGABA(); ok {
		t.Error("GABA onset mark should clear once dominance leaves desensitized")
	}
}

func TestDriver_TickAutoSeededDeterminism(t *testing.T) {
	run := func() []TracePoint {
		d := New(pharm.DefaultParams())
		d.Reseed(99)
		if err := d.ApplyPreset(PresetRepeated); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 50; i++ {
			d.TickAuto(1)
		}
		return d.Trace()
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("trace lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("point %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
