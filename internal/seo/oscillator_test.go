package seo_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/seonet/internal/seo"
)

var _ = Describe("Oscillator", func() {
	var grid [2][2][2]*seo.Oscillator

	BeforeEach(func() {
		for i := range grid {
			for j := range grid[i] {
				for k := range grid[i][j] {
					grid[i][j][k] = seo.New(1.0, 0.001, 18.0, 2, 0.007, 3)
				}
			}
		}
		err := grid[0][0][0].SetConnections([]*seo.Oscillator{
			grid[1][0][0], grid[0][1][0], grid[0][0][1],
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("construction", func() {
		It("returns the parameters it was built with", func() {
			Expect(grid[0][0][0].R()).To(Equal(1.0))
			Expect(grid[0][0][1].Rj()).To(Equal(0.001))
			Expect(grid[0][1][0].Cj()).To(Equal(18.0))
			Expect(grid[1][0][0].C()).To(Equal(2))
			Expect(grid[0][1][1].Vd()).To(Equal(0.007))
			Expect(grid[1][1][1].Legs()).To(Equal(3))
		})

		It("starts with no connections and no energy entries", func() {
			o := seo.New(2.5, 0.5, 10, 1, 0.01, 0)
			Expect(o.Connections()).To(BeEmpty())
			Expect(o.Directions()).To(BeEmpty())
			Expect(o.DE(seo.Up)).To(BeZero())
			Expect(o.WT(seo.Down)).To(BeZero())
			Expect(o.Params()).To(Equal(seo.Params{R: 2.5, Rj: 0.5, Cj: 10, C: 1, Vd: 0.01, Legs: 0}))
		})
	})

	Describe("SetConnections", func() {
		It("keeps the supplied order", func() {
			conns := grid[0][0][0].Connections()
			Expect(conns).To(HaveLen(3))
			Expect(conns[0]).To(BeIdenticalTo(grid[1][0][0]))
			Expect(conns[1]).To(BeIdenticalTo(grid[0][1][0]))
			Expect(conns[2]).To(BeIdenticalTo(grid[0][0][1]))
		})

		It("rejects more connections than legs and keeps the previous list", func() {
			err := grid[0][0][0].SetConnections([]*seo.Oscillator{
				grid[1][0][0], grid[0][1][0], grid[0][0][1], grid[1][1][1],
			})
			Expect(err).To(MatchError(seo.ErrInvalidTopology))
			Expect(grid[0][0][0].Connections()).To(Equal([]*seo.Oscillator{
				grid[1][0][0], grid[0][1][0], grid[0][0][1],
			}))
		})

		DescribeTable("rejects a self-connection at any position",
			func(pos int) {
				self := grid[0][0][0]
				candidates := []*seo.Oscillator{grid[1][0][0], grid[0][1][0]}
				candidates = append(candidates[:pos], append([]*seo.Oscillator{self}, candidates[pos:]...)...)
				err := self.SetConnections(candidates)
				Expect(errors.Is(err, seo.ErrInvalidTopology)).To(BeTrue())
				Expect(self.NumConnections()).To(Equal(3))
			},
			Entry("first", 0),
			Entry("middle", 1),
			Entry("last", 2),
		)

		It("rejects a lone self-connection", func() {
			o := grid[1][1][1]
			Expect(o.SetConnections([]*seo.Oscillator{o})).To(MatchError(seo.ErrInvalidTopology))
			Expect(o.Connections()).To(BeEmpty())
		})

		It("rejects duplicate and nil neighbours", func() {
			o := grid[1][1][1]
			Expect(o.SetConnections([]*seo.Oscillator{grid[0][0][0], grid[0][0][0]})).To(MatchError(seo.ErrInvalidTopology))
			Expect(o.SetConnections([]*seo.Oscillator{grid[0][0][0], nil})).To(MatchError(seo.ErrInvalidTopology))
			Expect(o.Connections()).To(BeEmpty())
		})

		It("replaces rather than accumulates", func() {
			o := grid[0][0][0]
			Expect(o.SetConnections([]*seo.Oscillator{grid[1][1][1]})).To(Succeed())
			Expect(o.Connections()).To(Equal([]*seo.Oscillator{grid[1][1][1]}))
			Expect(o.SetConnections(nil)).To(Succeed())
			Expect(o.Connections()).To(BeEmpty())
		})

		It("permits no neighbours when legs is zero", func() {
			o := seo.New(1, 0.001, 18, 2, 0.007, 0)
			Expect(o.SetConnections(nil)).To(Succeed())
			Expect(o.SetConnections([]*seo.Oscillator{grid[0][0][0]})).To(MatchError(seo.ErrInvalidTopology))
		})

		It("does not wire neighbours back", func() {
			Expect(grid[1][0][0].Connections()).To(BeEmpty())
		})

		It("is not affected by mutating the returned slice", func() {
			conns := grid[0][0][0].Connections()
			conns[0] = nil
			Expect(grid[0][0][0].Connections()[0]).To(BeIdenticalTo(grid[1][0][0]))
		})
	})

	Describe("CalculateTunnelWt", func() {
		var o *seo.Oscillator

		BeforeEach(func() {
			o = seo.New(1, 0.001, 18, 2, 0.007, 1)
		})

		It("follows the sign of dE in both directions", func() {
			o.SetDE(seo.Up, 1)
			o.SetDE(seo.Down, -1)
			Expect(o.CalculateTunnelWt()).To(Succeed())
			Expect(o.WT(seo.Up)).NotTo(BeZero())
			Expect(o.WT(seo.Down)).To(BeZero())

			o.SetDE(seo.Up, -1)
			o.SetDE(seo.Down, 1)
			Expect(o.CalculateTunnelWt()).To(Succeed())
			Expect(o.WT(seo.Up)).To(BeZero())
			Expect(o.WT(seo.Down)).NotTo(BeZero())
		})

		DescribeTable("wait time is zero exactly when dE <= 0",
			func(x, y float64) {
				o.SetDE(seo.Up, x)
				o.SetDE(seo.Down, y)
				Expect(o.CalculateTunnelWt()).To(Succeed())
				Expect(o.WT(seo.Up) == 0).To(Equal(x <= 0))
				Expect(o.WT(seo.Down) == 0).To(Equal(y <= 0))
				Expect(o.WT(seo.Up)).To(BeNumerically(">=", 0))
				Expect(o.WT(seo.Down)).To(BeNumerically(">=", 0))
			},
			Entry("both positive", 1e-22, 3.0),
			Entry("both negative", -1e-22, -3.0),
			Entry("zero and positive", 0.0, 1e-21),
			Entry("positive and zero", 5e-20, 0.0),
			Entry("large magnitudes", 1e3, -1e3),
			Entry("wait time underflow", 1e300, -1e300),
			Entry("largest float", math.MaxFloat64, 1e308),
			Entry("smallest positive", math.SmallestNonzeroFloat64, -math.MaxFloat64),
		)

		It("is idempotent", func() {
			o.SetDE(seo.Up, 2e-22)
			o.SetDE(seo.Down, 4e-22)
			Expect(o.CalculateTunnelWt()).To(Succeed())
			up, down := o.WT(seo.Up), o.WT(seo.Down)
			Expect(o.CalculateTunnelWt()).To(Succeed())
			Expect(o.WT(seo.Up)).To(Equal(up))
			Expect(o.WT(seo.Down)).To(Equal(down))
		})

		It("is deterministic across oscillators with equal parameters", func() {
			other := seo.New(1, 0.001, 18, 2, 0.007, 1)
			o.SetDE(seo.Up, 7e-22)
			other.SetDE(seo.Up, 7e-22)
			Expect(o.CalculateTunnelWt()).To(Succeed())
			Expect(other.CalculateTunnelWt()).To(Succeed())
			Expect(o.WT(seo.Up)).To(Equal(other.WT(seo.Up)))
		})

		It("waits less for a larger energy gain", func() {
			o.SetDE(seo.Up, 1e-22)
			o.SetDE(seo.Down, 2e-22)
			Expect(o.CalculateTunnelWt()).To(Succeed())
			Expect(o.WT(seo.Down)).To(BeNumerically("<", o.WT(seo.Up)))
		})

		It("only updates recorded directions", func() {
			o.SetDE(seo.Left, 1)
			Expect(o.CalculateTunnelWt()).To(Succeed())
			Expect(o.Directions()).To(Equal([]seo.Direction{seo.Left}))
			Expect(o.WT(seo.Left)).To(BeNumerically(">", 0))
			Expect(o.WT(seo.Up)).To(BeZero())
		})

		It("keeps underflowed wait times positive for both laws", func() {
			lin := seo.New(1, 0.001, 18, 2, 0.007, 1, seo.WithRateLaw(seo.NewRCLinear(1)))
			for _, osc := range []*seo.Oscillator{o, lin} {
				osc.SetDE(seo.Up, math.MaxFloat64)
				Expect(osc.CalculateTunnelWt()).To(Succeed())
				Expect(osc.WT(seo.Up)).To(Equal(math.SmallestNonzeroFloat64))
			}
		})

		It("caps overflowing wait times at the largest float", func() {
			slow := seo.New(1, 1e290, 18, 2, 0.007, 1)
			slow.SetDE(seo.Up, math.SmallestNonzeroFloat64)
			Expect(slow.CalculateTunnelWt()).To(Succeed())
			Expect(slow.WT(seo.Up)).To(Equal(math.MaxFloat64))
		})

		It("reports a zero junction resistance as non-physical", func() {
			bad := seo.New(1, 0, 18, 2, 0.007, 1)
			bad.SetDE(seo.Up, 1)
			bad.SetDE(seo.Down, -1)
			Expect(bad.CalculateTunnelWt()).To(MatchError(seo.ErrNonPhysical))
			Expect(bad.WT(seo.Up)).To(BeZero())
			Expect(bad.WT(seo.Down)).To(BeZero())
		})

		It("accepts a custom rate law", func() {
			lin := seo.New(1, 0.001, 18, 2, 0.007, 1, seo.WithRateLaw(seo.NewRCLinear(1)))
			lin.SetDE(seo.Up, 2)
			Expect(lin.CalculateTunnelWt()).To(Succeed())
			Expect(lin.WT(seo.Up)).To(BeNumerically("~", 0.001*1e9*18e-18/2, 1e-20))
		})

		It("picks the smallest positive wait time", func() {
			o.SetDE(seo.Up, 1e-22)
			o.SetDE(seo.Down, 3e-22)
			o.SetDE(seo.Left, -1)
			Expect(o.CalculateTunnelWt()).To(Succeed())
			d, wt, ok := o.MinWaitTime()
			Expect(ok).To(BeTrue())
			Expect(d).To(Equal(seo.Down))
			Expect(wt).To(Equal(o.WT(seo.Down)))

			o.SetDE(seo.Up, -1)
			o.SetDE(seo.Down, -1)
			Expect(o.CalculateTunnelWt()).To(Succeed())
			_, _, ok = o.MinWaitTime()
			Expect(ok).To(BeFalse())
		})
	})

	Describe("energy", func() {
		It("allows up tunneling only above threshold", func() {
			o := grid[0][0][0]
			ctot := o.TotalCapacitance(seo.DefaultUnits, 3)
			Expect(ctot).To(BeNumerically("~", 24e-18, 1e-30))
			vth := seo.Threshold(seo.ElementaryCharge, ctot)

			up, down := seo.TunnelEnergy(seo.ElementaryCharge, vth*1.1, ctot)
			Expect(up).To(BeNumerically(">", 0))
			Expect(down).To(BeNumerically("<", 0))

			up, down = seo.TunnelEnergy(seo.ElementaryCharge, vth*0.9, ctot)
			Expect(up).To(BeNumerically("<", 0))
			Expect(down).To(BeNumerically("<", 0))

			up, down = seo.TunnelEnergy(seo.ElementaryCharge, -vth*1.1, ctot)
			Expect(up).To(BeNumerically("<", 0))
			Expect(down).To(BeNumerically(">", 0))
		})
	})

	Describe("Direction", func() {
		It("reverses built-in labels", func() {
			Expect(seo.Up.Opposite()).To(Equal(seo.Down))
			Expect(seo.Left.Opposite()).To(Equal(seo.Right))
			Expect(seo.Front.Opposite()).To(Equal(seo.Back))
			Expect(seo.Direction("diag").Opposite()).To(Equal(seo.Direction("diag")))
		})
	})
})
