package nbody_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbitsim/internal/nbody"
)

func mustUniverse(g float32, specs ...nbody.BodySpec) *nbody.Universe {
	u, err := nbody.NewUniverse(g, specs)
	Expect(err).NotTo(HaveOccurred())
	return u
}

func expectVecNear(got, want mgl32.Vec3, tol float64) {
	for k := 0; k < 3; k++ {
		ExpectWithOffset(1, float64(got[k])).To(BeNumerically("~", float64(want[k]), tol), "component %d", k)
	}
}

func figureEight() []nbody.BodySpec {
	pos := mgl32.Vec3{0.9700044, -0.2430875, 0}
	vel := mgl32.Vec3{0.9324074, 0.8647315, 0}
	return []nbody.BodySpec{
		{Name: "a", Mass: 1, Position: pos, Velocity: vel.Mul(0.5)},
		{Name: "b", Mass: 1, Position: pos.Mul(-1), Velocity: vel.Mul(0.5)},
		{Name: "c", Mass: 1, Position: mgl32.Vec3{}, Velocity: vel.Mul(-1)},
	}
}

var _ = Describe("Stepper", func() {
	var st *nbody.Stepper

	BeforeEach(func() {
		var err error
		st, err = nbody.NewStepper(0.01)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("NewStepper", func() {
		It("rejects non-positive and non-finite steps", func() {
			for _, dt := range []float32{0, -0.01, float32(math.NaN()), float32(math.Inf(1))} {
				_, err := nbody.NewStepper(dt)
				Expect(err).To(MatchError(nbody.ErrInvalidTimestep))
			}
		})
	})

	Describe("pair forces", func() {
		It("are equal and opposite", func() {
			a := mustUniverse(2.5,
				nbody.BodySpec{Mass: 3, Position: mgl32.Vec3{0.3, -1, 2}},
				nbody.BodySpec{Mass: 7, Position: mgl32.Vec3{-1.1, 0.4, 0.5}},
			)
			fab, ok := nbody.PairForce(a.Body(0), a.Body(1), a.G())
			Expect(ok).To(BeTrue())
			fba, ok := nbody.PairForce(a.Body(1), a.Body(0), a.G())
			Expect(ok).To(BeTrue())
			expectVecNear(fab, fba.Mul(-1), 1e-5)
		})

		It("follow the inverse square law along the separation", func() {
			u := mustUniverse(1,
				nbody.BodySpec{Mass: 2, Position: mgl32.Vec3{0, 0, 0}},
				nbody.BodySpec{Mass: 3, Position: mgl32.Vec3{2, 0, 0}},
			)
			f, ok := nbody.PairForce(u.Body(0), u.Body(1), u.G())
			Expect(ok).To(BeTrue())
			expectVecNear(f, mgl32.Vec3{1.5, 0, 0}, 1e-6)
		})

		It("skip coincident bodies", func() {
			u := mustUniverse(1,
				nbody.BodySpec{Mass: 1, Position: mgl32.Vec3{1, 2, 3}},
				nbody.BodySpec{Mass: 5, Position: mgl32.Vec3{1, 2, 3}},
			)
			f, ok := nbody.PairForce(u.Body(0), u.Body(1), u.G())
			Expect(ok).To(BeFalse())
			Expect(f).To(Equal(mgl32.Vec3{}))
		})
	})

	Describe("AccumulateAccelerations", func() {
		It("applies the pair force to both bodies with opposite signs", func() {
			u := mustUniverse(2.5,
				nbody.BodySpec{Mass: 3, Position: mgl32.Vec3{0.3, -1, 2}},
				nbody.BodySpec{Mass: 7, Position: mgl32.Vec3{-1.1, 0.4, 0.5}},
			)
			f, ok := nbody.PairForce(u.Body(1), u.Body(0), u.G())
			Expect(ok).To(BeTrue())

			st.AccumulateAccelerations(u)

			b0, b1 := u.Body(0), u.Body(1)
			f0 := b0.Acceleration.Mul(b0.Mass())
			f1 := b1.Acceleration.Mul(b1.Mass())
			Expect(f0.Len()).To(BeNumerically(">", 1))
			expectVecNear(f0, f1.Mul(-1), 1e-5)
			expectVecNear(f0, f.Mul(-1), 1e-5)
			Expect(b0.Acceleration.Len()).To(BeNumerically(">", b1.Acceleration.Len()))
		})

		It("gives an isolated body exactly zero acceleration", func() {
			u := mustUniverse(1, nbody.BodySpec{Mass: 4, Position: mgl32.Vec3{1, 1, 1}, Velocity: mgl32.Vec3{0, 1, 0}})
			st.AccumulateAccelerations(u)
			Expect(u.Body(0).Acceleration).To(Equal(mgl32.Vec3{}))
		})

		It("produces no NaN for coincident bodies", func() {
			u := mustUniverse(1,
				nbody.BodySpec{Mass: 1, Position: mgl32.Vec3{0, 0, 0}},
				nbody.BodySpec{Mass: 1, Position: mgl32.Vec3{0, 0, 0}},
			)
			st.Step(u, 0.01)
			Expect(u.Body(0).Acceleration).To(Equal(mgl32.Vec3{}))
			Expect(u.Body(1).Acceleration).To(Equal(mgl32.Vec3{}))
			Expect(u.Finite()).To(BeTrue())
		})

		It("still applies the other pairs when one pair coincides", func() {
			u := mustUniverse(1,
				nbody.BodySpec{Mass: 1, Position: mgl32.Vec3{0, 0, 0}},
				nbody.BodySpec{Mass: 1, Position: mgl32.Vec3{0, 0, 0}},
				nbody.BodySpec{Mass: 1, Position: mgl32.Vec3{1, 0, 0}},
			)
			st.AccumulateAccelerations(u)
			expectVecNear(u.Body(0).Acceleration, mgl32.Vec3{1, 0, 0}, 1e-6)
			expectVecNear(u.Body(1).Acceleration, mgl32.Vec3{1, 0, 0}, 1e-6)
			expectVecNear(u.Body(2).Acceleration, mgl32.Vec3{-2, 0, 0}, 1e-6)
		})

		It("divides the net force by each body's own mass", func() {
			u := mustUniverse(1,
				nbody.BodySpec{Mass: 1, Position: mgl32.Vec3{0, 0, 0}},
				nbody.BodySpec{Mass: 4, Position: mgl32.Vec3{0, 2, 0}},
			)
			st.AccumulateAccelerations(u)
			// F = 1*1*4/4 = 1
			expectVecNear(u.Body(0).Acceleration, mgl32.Vec3{0, 1, 0}, 1e-6)
			expectVecNear(u.Body(1).Acceleration, mgl32.Vec3{0, -0.25, 0}, 1e-6)
		})

		It("does not carry acceleration over between ticks", func() {
			u := mustUniverse(1,
				nbody.BodySpec{Mass: 1, Position: mgl32.Vec3{0, 0, 0}},
				nbody.BodySpec{Mass: 1, Position: mgl32.Vec3{1, 0, 0}},
			)
			st.AccumulateAccelerations(u)
			first := u.Body(0).Acceleration
			st.AccumulateAccelerations(u)
			Expect(u.Body(0).Acceleration).To(Equal(first))
		})
	})

	Describe("Step", func() {
		It("clamps the frame delta to the fixed step", func() {
			Expect(st.EffectiveStep(0.5)).To(Equal(float32(0.01)))
			Expect(st.EffectiveStep(0.004)).To(Equal(float32(0.004)))
			Expect(st.EffectiveStep(0)).To(Equal(float32(0)))
			Expect(st.EffectiveStep(-1)).To(Equal(float32(0)))
			Expect(st.EffectiveStep(float32(math.NaN()))).To(Equal(float32(0)))
		})

		It("integrates a slow frame with the fixed step only", func() {
			u := mustUniverse(1, nbody.BodySpec{Mass: 1, Velocity: mgl32.Vec3{1, 0, 0}})
			h := st.Step(u, 2.0)
			Expect(h).To(Equal(float32(0.01)))
			expectVecNear(u.Position(0), mgl32.Vec3{0.01, 0, 0}, 1e-7)
		})

		It("updates velocity before position", func() {
			u := mustUniverse(1,
				nbody.BodySpec{Mass: 1, Position: mgl32.Vec3{0, 0, 0}, Velocity: mgl32.Vec3{0, 0.3, 0}},
				nbody.BodySpec{Mass: 2, Position: mgl32.Vec3{1, 0, 0}, Velocity: mgl32.Vec3{0, -0.15, 0}},
			)
			probe := u.Clone()
			st.AccumulateAccelerations(probe)

			before := u.Body(0)
			a := probe.Body(0).Acceleration
			st.Step(u, 0.01)
			after := u.Body(0)

			v1 := before.Velocity.Add(a.Mul(0.01))
			p1 := before.Position.Add(v1.Mul(0.01))
			explicit := before.Position.Add(before.Velocity.Mul(0.01))

			expectVecNear(after.Velocity, v1, 1e-7)
			expectVecNear(after.Position, p1, 1e-7)
			Expect(after.Position.ApproxEqualThreshold(explicit, 1e-8)).To(BeFalse())
		})

		It("never changes mass", func() {
			u := mustUniverse(1, figureEight()...)
			for i := 0; i < 100; i++ {
				st.Step(u, 0.01)
			}
			u.Each(func(_ int, b nbody.Body) {
				Expect(b.Mass()).To(Equal(float32(1)))
			})
		})

		It("is deterministic", func() {
			a := mustUniverse(1, figureEight()...)
			b := a.Clone()
			for i := 0; i < 500; i++ {
				st.Step(a, 0.01)
				st.Step(b, 0.01)
			}
			Expect(a.Positions(nil)).To(Equal(b.Positions(nil)))
		})
	})

	Describe("conservation", func() {
		It("conserves linear momentum of a closed two-body system", func() {
			u := mustUniverse(1,
				nbody.BodySpec{Mass: 1, Position: mgl32.Vec3{-0.75, 0, 0}, Velocity: mgl32.Vec3{0.05, -1.5, 0.02}},
				nbody.BodySpec{Mass: 3, Position: mgl32.Vec3{0.25, 0, 0}, Velocity: mgl32.Vec3{0.05, 0.5, 0.02}},
			)
			p0 := nbody.Momentum(u)
			const ticks = 1000
			for i := 0; i < ticks; i++ {
				st.Step(u, 0.01)
			}
			p1 := nbody.Momentum(u)
			Expect(p1.Sub(p0).Len()).To(BeNumerically("<", ticks*1e-6))
		})

		It("keeps figure-eight energy bounded", func() {
			u := mustUniverse(1, figureEight()...)
			e0 := nbody.TotalEnergy(u)
			for i := 0; i < 2000; i++ {
				st.Step(u, 0.01)
			}
			Expect(math.Abs((nbody.TotalEnergy(u) - e0) / e0)).To(BeNumerically("<", 0.05))
		})
	})

	Describe("figure-eight orbit", func() {
		var u *nbody.Universe

		BeforeEach(func() {
			u = mustUniverse(1, figureEight()...)
		})

		It("moves each body by about v*dt in one tick", func() {
			before := u.Positions(nil)
			st.Step(u, 0.01)
			for i, spec := range figureEight() {
				moved := u.Position(i).Sub(before[i])
				expectVecNear(moved, spec.Velocity.Mul(0.01), 1e-3)
			}
		})

		It("stays bounded over many periods", func() {
			for i := 0; i < 5000; i++ {
				st.Step(u, 0.01)
				if i%100 == 0 {
					Expect(u.Finite()).To(BeTrue())
					Expect(nbody.Extent(u)).To(BeNumerically("<", 1.5))
				}
			}
			Expect(nbody.Extent(u)).To(BeNumerically("<", 1.5))
		})

		It("returns close to its start after one period", func() {
			start := u.Position(0)
			// period of the figure-eight with G = m = 1 is about 6.3259
			for i := 0; i < 633; i++ {
				st.Step(u, 0.01)
			}
			Expect(float64(u.Position(0).Sub(start).Len())).To(BeNumerically("<", 0.25))
		})

		It("keeps the centre of mass at the origin", func() {
			for i := 0; i < 1000; i++ {
				st.Step(u, 0.01)
			}
			Expect(nbody.CenterOfMass(u).Len()).To(BeNumerically("<", 1e-3))
		})
	})
})
