package sim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/nicosim/internal/pharm"
	"github.com/san-kum/nicosim/internal/sim"
)

var _ = Describe("Driver", func() {
	var d *sim.Driver

	BeforeEach(func() {
		d = sim.New(pharm.DefaultParams())
		d.Reseed(1)
	})

	Describe("a zero-length tick without a puff", func() {
		It("leaves a fresh session unchanged", func() {
			before := d.State()
			after, pt := d.Tick(0, false)

			Expect(after).To(Equal(before))
			Expect(pt.T).To(BeZero())
			Expect(pt.Puff).To(BeFalse())
		})
	})

	Describe("the manual puff command", func() {
		It("adds the bolus without advancing kinetics", func() {
			s := d.DoPuff()

			Expect(s.Nicotine).To(BeNumerically("==", pharm.PuffBolus))
			Expect(s.PoolDA).To(Equal(pharm.PureBasalPool()))
			Expect(d.SimMin()).To(BeZero())
		})

		It("saturates at full concentration", func() {
			for i := 0; i < 6; i++ {
				d.DoPuff()
			}
			Expect(d.State().Nicotine).To(BeNumerically("==", 1.0))
		})
	})

	Describe("batch fast-forward", func() {
		It("advances sixty unit minutes atomically", func() {
			state, points := d.Advance60()

			Expect(points).To(HaveLen(60))
			Expect(d.SimMin()).To(BeNumerically("~", 60, 1e-12))
			Expect(state).To(Equal(d.State()))
			for i := 1; i < len(points); i++ {
				Expect(points[i].T - points[i-1].T).To(BeNumerically("~", 1, 1e-12))
			}
		})
	})

	Describe("abstinence recovery", func() {
		It("strictly reduces both desensitized fractions over an hour", func() {
			Expect(d.ApplyPreset(sim.PresetAbstinence)).To(Succeed())
			before := d.State()

			after, _ := d.Advance60()

			Expect(after.PoolDA.Desensitized).To(BeNumerically("<", before.PoolDA.Desensitized))
			Expect(after.PoolGABA.Desensitized).To(BeNumerically("<", before.PoolGABA.Desensitized))
		})
	})

	Describe("parameter updates", func() {
		It("applies valid updates between ticks", func() {
			Expect(d.SetParams(map[string]float64{
				"nicotineHalfLifeMin": 4,
				"alpha7Threshold":     0.5,
			})).To(Succeed())

			Expect(d.Params().NicotineHalfLifeMin).To(Equal(4.0))
			Expect(d.Params().Alpha7Threshold).To(Equal(0.5))
		})

		It("rejects out-of-bounds values wholesale", func() {
			err := d.SetParams(map[string]float64{"actThreshold": 2})
			Expect(err).To(MatchError(pharm.ErrParamBounds))
		})

		It("rejects unknown keys", func() {
			err := d.SetParams(map[string]float64{"bolus": 0.5})
			Expect(err).To(MatchError(pharm.ErrUnknownParam))
		})
	})
})
