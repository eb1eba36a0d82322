package pharm

import (
	"math"
	"testing"
)

func TestPool_SumInvariant(t *testing.T) {
	p := DefaultParams()

	pools := []ReceptorPool{
		PureBasalPool(),
		{Basal: 0.5, Activated: 0.3, Desensitized: 0.2},
		{Basal: 0.35, Activated: 0.05, Desensitized: 0.60},
		{Basal: 0.0, Activated: 0.0, Desensitized: 1.0},
	}
	nics := []float64{0.0, 0.05, 0.15, 0.5, 1.0}
	dts := []float64{0.0, 1.0 / 60, 1.0, 5.0}

	for _, pool := range pools {
		for _, nic := range nics {
			for _, dt := range dts {
				got := pool.Advance(dt, nic, p.DesensRateDA, p)
				if math.Abs(got.Sum()-1.0) > 1e-12 {
					t.Errorf("Advance(dt=%g, nic=%g) sum = %v, want 1", dt, nic, got.Sum())
				}
				if got.Basal < 0 || got.Activated < 0 || got.Desensitized < 0 {
					t.Errorf("Advance(dt=%g, nic=%g) negative fraction: %+v", dt, nic, got)
				}
			}
		}
	}
}

func TestPool_Reproducible(t *testing.T) {
	p := DefaultParams()
	pool := ReceptorPool{Basal: 0.6, Activated: 0.25, Desensitized: 0.15}

	a := pool.Advance(1.0, 0.4, p.DesensRateGABA, p)
	b := pool.Advance(1.0, 0.4, p.DesensRateGABA, p)

	if a != b {
		t.Errorf("Advance not reproducible: %+v vs %+v", a, b)
	}
}

func TestPool_GatedBelowThreshold(t *testing.T) {
	p := DefaultParams()
	pool := ReceptorPool{Basal: 0.7, Activated: 0.3}

	// At or below the activation threshold no activation or
	// desensitization flux may flow.
	for _, nic := range []float64{0.0, p.ActThreshold / 2, p.ActThreshold} {
		got := pool.Advance(1.0, nic, p.DesensRateDA, p)
		if got.Activated > pool.Activated {
			t.Errorf("nic=%g: activated grew from %g to %g", nic, pool.Activated, got.Activated)
		}
		if got.Desensitized > 1e-12 {
			t.Errorf("nic=%g: desensitized = %g, want 0", nic, got.Desensitized)
		}
	}
}

func TestPool_ActivationAboveThreshold(t *testing.T) {
	p := DefaultParams()
	pool := PureBasalPool()

	got := pool.Advance(1.0, 0.5, p.DesensRateDA, p)
	if got.Activated <= 0 {
		t.Errorf("expected activation flux above threshold, got %+v", got)
	}
	if got.Basal >= 1 {
		t.Errorf("basal fraction did not shrink: %+v", got)
	}
}

func TestPool_RecoverySlowedByNicotine(t *testing.T) {
	p := DefaultParams()
	pool := ReceptorPool{Basal: 0.3, Desensitized: 0.7}

	// Below 0.9*actThreshold recovery runs at full rate; at or above it,
	// at 35% of that rate.
	low := pool.Advance(1.0, 0.0, p.DesensRateDA, p)
	high := pool.Advance(1.0, 0.09999, p.DesensRateDA, p)

	lowRecovered := pool.Desensitized - low.Desensitized
	highRecovered := pool.Desensitized - high.Desensitized

	if lowRecovered <= 0 {
		t.Fatal("expected recovery at zero nicotine")
	}
	if highRecovered >= lowRecovered {
		t.Errorf("recovery with nicotine present (%g) should be slower than without (%g)",
			highRecovered, lowRecovered)
	}
	ratio := highRecovered / lowRecovered
	if math.Abs(ratio-slowedRecoveryFactor) > 1e-9 {
		t.Errorf("slowed/full recovery ratio = %g, want %g", ratio, slowedRecoveryFactor)
	}
}

func TestPool_NormalizedDegenerate(t *testing.T) {
	tests := []struct {
		name string
		pool ReceptorPool
	}{
		{"all zero", ReceptorPool{}},
		{"negative sum", ReceptorPool{Basal: -0.5, Activated: -0.1, Desensitized: 0.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.pool.Normalized()
			if got != PureBasalPool() {
				t.Errorf("Normalized() = %+v, want pure basal", got)
			}
		})
	}
}

func TestPool_Dominant(t *testing.T) {
	tests := []struct {
		name string
		pool ReceptorPool
		want PoolState
	}{
		{"pure basal", PureBasalPool(), PoolBasal},
		{"activated leads", ReceptorPool{Basal: 0.2, Activated: 0.6, Desensitized: 0.2}, PoolActivated},
		{"desensitized leads", ReceptorPool{Basal: 0.2, Activated: 0.2, Desensitized: 0.6}, PoolDesensitized},
		{"desens ties activated", ReceptorPool{Basal: 0.2, Activated: 0.4, Desensitized: 0.4}, PoolDesensitized},
		{"desens ties basal", ReceptorPool{Basal: 0.4, Activated: 0.2, Desensitized: 0.4}, PoolDesensitized},
		{"activated ties basal", ReceptorPool{Basal: 0.45, Activated: 0.45, Desensitized: 0.1}, PoolActivated},
		{"three-way tie", ReceptorPool{Basal: 1.0 / 3, Activated: 1.0 / 3, Desensitized: 1.0 / 3}, PoolDesensitized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pool.Dominant(); got != tt.want {
				t.Errorf("Dominant() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPool_ZeroDtIsIdentity(t *testing.T) {
	p := DefaultParams()
	pool := ReceptorPool{Basal: 0.5, Activated: 0.3, Desensitized: 0.2}

	if got := pool.Advance(0, 0.8, p.DesensRateDA, p); got != pool {
		t.Errorf("Advance(0) = %+v, want unchanged %+v", got, pool)
	}
}
