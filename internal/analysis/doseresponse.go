// Package analysis provides offline sweeps over the simulation, currently
// the dose-response curve: steady-state circuit outputs as a function of
// the automatic puff rate.
package analysis

import (
	"fmt"

	"github.com/san-kum/nicosim/internal/pharm"
	"github.com/san-kum/nicosim/internal/sim"
)

// DosePoint is the recorded steady-state response at one puff rate.
type DosePoint struct {
	PuffRate   float64
	MeanDA     float64
	MeanDesens float64
	MeanNic    float64
}

// SweepConfig controls a dose-response sweep. Each rate gets its own
// driver seeded from Seed, runs TransientMin minutes to settle, then
// averages the observables over RecordMin minutes of unit ticks.
type SweepConfig struct {
	RateMin      float64
	RateMax      float64
	RateSteps    int
	TransientMin float64
	RecordMin    float64
	Seed         int64
}

func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		RateMin:      0,
		RateMax:      0.5,
		RateSteps:    11,
		TransientMin: 60,
		RecordMin:    120,
		Seed:         1,
	}
}

// DoseResponse sweeps the puff rate and records steady-state means.
func DoseResponse(params pharm.Params, cfg SweepConfig) ([]DosePoint, error) {
	if cfg.RateSteps < 2 {
		return nil, fmt.Errorf("rate steps must be at least 2, got %d", cfg.RateSteps)
	}
	if cfg.RateMax < cfg.RateMin || cfg.RateMin < 0 {
		return nil, fmt.Errorf("invalid rate range [%g, %g]", cfg.RateMin, cfg.RateMax)
	}
	if cfg.TransientMin < 0 || cfg.RecordMin <= 0 {
		return nil, fmt.Errorf("invalid timing: transient %g, record %g", cfg.TransientMin, cfg.RecordMin)
	}

	rateStep := (cfg.RateMax - cfg.RateMin) / float64(cfg.RateSteps-1)
	points := make([]DosePoint, 0, cfg.RateSteps)

	for i := 0; i < cfg.RateSteps; i++ {
		rate := cfg.RateMin + float64(i)*rateStep

		d := sim.New(params)
		d.Reseed(cfg.Seed + int64(i))
		if err := d.ApplyPreset(sim.PresetRepeated); err != nil {
			return nil, err
		}
		if err := d.SetPuffRate(rate); err != nil {
			return nil, err
		}

		for t := 0.0; t < cfg.TransientMin; t++ {
			d.TickAuto(1)
		}

		var sumDA, sumDesens, sumNic float64
		samples := 0
		for t := 0.0; t < cfg.RecordMin; t++ {
			s, _ := d.TickAuto(1)
			sumDA += s.DA
			sumDesens += s.DesensTotal()
			sumNic += s.Nicotine
			samples++
		}

		n := float64(samples)
		points = append(points, DosePoint{
			PuffRate:   rate,
			MeanDA:     sumDA / n,
			MeanDesens: sumDesens / n,
			MeanNic:    sumNic / n,
		})
	}

	return points, nil
}

// ToASCII renders the mean-DA curve as a fixed-size dot plot for terminal
// output.
func ToASCII(points []DosePoint, width, height int) string {
	if len(points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minV, maxV := points[0].MeanDA, points[0].MeanDA
	for _, p := range points {
		if p.MeanDA < minV {
			minV = p.MeanDA
		}
		if p.MeanDA > maxV {
			maxV = p.MeanDA
		}
	}
	if maxV == minV {
		maxV = minV + 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for i, p := range points {
		col := i * width / len(points)
		if col >= width {
			col = width - 1
		}
		row := height - 1 - int((p.MeanDA-minV)/(maxV-minV)*float64(height-1))
		if row >= 0 && row < height {
			canvas[row][col] = '*'
		}
	}

	out := ""
	for _, row := range canvas {
		out += string(row) + "\n"
	}
	return out
}
