package sim_test

import (
	"context"
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/trajsim/internal/catalog"
	"github.com/san-kum/trajsim/internal/contact"
	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/sim"
)

const frame = 1.0 / 60

type recorder struct {
	apexY, apexT  float64
	firstContact  *mgl64.Vec3
	impactEnergy  []float64
	settledCounts map[dynamo.LaunchID]int
}

func newRecorder() *recorder {
	return &recorder{apexY: math.Inf(-1), settledCounts: map[dynamo.LaunchID]int{}}
}

func (r *recorder) OnStep(id dynamo.LaunchID, phase dynamo.Phase, s *dynamo.ProjectileState, env dynamo.EnvironmentState, t float64) {
	if s.Position.Y() > r.apexY {
		r.apexY, r.apexT = s.Position.Y(), t
	}
	switch phase {
	case dynamo.Colliding:
		if r.firstContact == nil {
			p := s.Position
			r.firstContact = &p
		}
		r.impactEnergy = append(r.impactEnergy, s.KineticEnergy()+s.RotationalEnergy())
	case dynamo.Settled:
		r.settledCounts[id]++
	}
}

func vacuum() dynamo.EnvironmentState {
	env := dynamo.DefaultEnvironment()
	env.AirDensity = 0
	return env
}

func scenarioBall() catalog.ProjectileDefinition {
	r := 0.32
	return catalog.ProjectileDefinition{
		ID: "scenario", Color: "#ffffff",
		Mass: 0.45, Area: math.Pi * r * r, Radius: r,
		DragCoefficient: 0.32, Restitution: 0.5,
		MomentOfInertia: catalog.SolidSphereInertia(0.45, r),
	}
}

func smallBall() catalog.ProjectileDefinition {
	d, err := catalog.Default().Projectile("soccer")
	Expect(err).NotTo(HaveOccurred())
	return d
}

func newEngine(opts ...sim.Option) *sim.Engine {
	e, err := sim.New(sim.DefaultConfig(), opts...)
	Expect(err).NotTo(HaveOccurred())
	return e
}

func runToRest(e *sim.Engine) {
	Expect(sim.RunUntilSettled(context.Background(), e, frame, 120)).To(Succeed())
}

var _ = Describe("Engine", func() {
	Describe("vertical launch in vacuum", func() {
		It("reaches the closed-form apex", func() {
			rec := newRecorder()
			e := newEngine(sim.WithObserver(rec))
			def := scenarioBall()

			_, err := e.Launch(sim.LaunchParameters{
				Projectile:  def,
				Environment: vacuum(),
				Manual:      &sim.ManualLaunchConfig{Impulse: mgl64.Vec3{0, 4.5, 0}},
			})
			Expect(err).NotTo(HaveOccurred())
			runToRest(e)

			wantT := 10 / 9.81
			wantH := 100 / (2 * 9.81)
			Expect(rec.apexT).To(BeNumerically("~", wantT, wantT*0.01))
			Expect(rec.apexY - def.Radius).To(BeNumerically("~", wantH, wantH*0.01))

			sum := e.GetLaunchRecords()[0].Summary
			Expect(sum).NotTo(BeNil())
			Expect(sum.MaxHeight).To(BeNumerically("~", wantH, wantH*0.01))
			Expect(sum.Forced).To(BeFalse())
		})
	})

	Describe("oblique launch in vacuum", func() {
		It("lands at the parabolic range", func() {
			rec := newRecorder()
			e := newEngine(sim.WithObserver(rec))
			def := smallBall()
			def.DragCoefficient = 0

			speed, angle := 20.0, math.Pi/4
			v := mgl64.Vec3{speed * math.Cos(angle), speed * math.Sin(angle), 0}
			_, err := e.Launch(sim.LaunchParameters{
				Projectile:  def,
				Environment: vacuum(),
				Manual:      &sim.ManualLaunchConfig{Impulse: v.Mul(def.Mass)},
			})
			Expect(err).NotTo(HaveOccurred())
			runToRest(e)

			want := speed * speed * math.Sin(2*angle) / 9.81
			Expect(rec.firstContact).NotTo(BeNil())
			Expect(rec.firstContact.X()).To(BeNumerically("~", want, want*0.01))
		})
	})

	Describe("rest convergence", func() {
		It("settles a dropped ball and loses energy at every bounce", func() {
			rec := newRecorder()
			e := newEngine(sim.WithObserver(rec))
			def := smallBall()
			origin := mgl64.Vec3{0, 3, 0}

			_, err := e.Launch(sim.LaunchParameters{
				Projectile:  def,
				Environment: dynamo.DefaultEnvironment(),
				Manual:      &sim.ManualLaunchConfig{Impulse: mgl64.Vec3{0, -1, 0}},
				Origin:      &origin,
			})
			Expect(err).NotTo(HaveOccurred())
			runToRest(e)

			Expect(e.GetActiveProjectiles()).To(BeEmpty())
			Expect(rec.impactEnergy).NotTo(BeEmpty())
			for i := 1; i < len(rec.impactEnergy); i++ {
				Expect(rec.impactEnergy[i]).To(BeNumerically("<=", rec.impactEnergy[i-1]))
			}
			Expect(e.GetLaunchRecords()[0].Summary.Bounces).To(BeNumerically(">=", 1))
		})
	})

	Describe("frame clamping", func() {
		It("never advances more than MaxFrameDelta per update", func() {
			e := newEngine()
			e.Update(5)
			Expect(e.Time()).To(BeNumerically("<=", sim.DefaultConfig().MaxFrameDelta+1e-9))
		})

		It("applies the time scale after clamping", func() {
			cfg := sim.DefaultConfig()
			cfg.TimeScale = 2
			e, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			e.Update(5)
			Expect(e.Time()).To(BeNumerically("<=", 0.2+1e-9))
			Expect(e.Time()).To(BeNumerically(">", 0.1))
		})

		It("ignores non-positive deltas", func() {
			e := newEngine()
			e.Update(0)
			e.Update(-1)
			e.Update(math.NaN())
			Expect(e.Time()).To(BeZero())
		})
	})

	Describe("launch lifecycle", func() {
		var (
			e   *sim.Engine
			rec *recorder
		)

		BeforeEach(func() {
			rec = newRecorder()
			e = newEngine(sim.WithObserver(rec))
			kick, err := catalog.Default().Profile("kick")
			Expect(err).NotTo(HaveOccurred())
			throw, err := catalog.Default().Profile("throw")
			Expect(err).NotTo(HaveOccurred())
			tennis, err := catalog.Default().Projectile("tennis")
			Expect(err).NotTo(HaveOccurred())

			_, err = e.Launch(sim.LaunchParameters{Profile: kick, Projectile: smallBall(), Environment: dynamo.DefaultEnvironment()})
			Expect(err).NotTo(HaveOccurred())
			_, err = e.Launch(sim.LaunchParameters{Profile: throw, Projectile: tennis, Environment: dynamo.DefaultEnvironment(), Tint: "#ff0000"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("registers records in launch order", func() {
			records := e.GetLaunchRecords()
			Expect(records).To(HaveLen(2))
			Expect(records[0].Labels.Profile).To(Equal("kick"))
			Expect(records[1].Labels.Projectile).To(Equal("tennis"))
			Expect(records[1].Color).To(Equal("#ff0000"))
			Expect(records[0].ID).To(BeNumerically("<", records[1].ID))
		})

		It("grows samples while active and writes the summary once", func() {
			records := e.GetLaunchRecords()
			before := len(records[0].Samples)
			for i := 0; i < 30; i++ {
				e.Update(frame)
			}
			Expect(len(records[0].Samples)).To(BeNumerically(">", before))
			Expect(records[0].Summary).To(BeNil())

			runToRest(e)
			for _, r := range e.GetLaunchRecords() {
				Expect(r.Summary).NotTo(BeNil())
				Expect(rec.settledCounts[r.ID]).To(Equal(1))
			}
		})

		It("samples telemetry on the fixed interval", func() {
			cfg := sim.DefaultConfig()
			for i := 0; i < 60; i++ {
				e.Update(frame)
			}
			samples := e.GetLaunchRecords()[0].Samples
			Expect(e.GetLaunchRecords()[0].Summary).To(BeNil())
			Expect(len(samples)).To(BeNumerically(">=", 10))
			Expect(samples[0].Time).To(BeZero())
			for k := 1; k < len(samples); k++ {
				gap := samples[k].Time - samples[k-1].Time
				Expect(gap).To(BeNumerically("~", cfg.TelemetryInterval, cfg.Step), "sample %d", k)
				Expect(samples[k].Time).To(BeNumerically("~", float64(k)*cfg.TelemetryInterval, cfg.Step), "sample %d", k)
			}
		})

		It("drops settled projectiles from the active view only", func() {
			Expect(e.GetActiveProjectiles()).To(HaveLen(2))
			runToRest(e)
			Expect(e.GetActiveProjectiles()).To(BeEmpty())
			Expect(e.GetLaunchRecords()).To(HaveLen(2))
		})

		It("sends a kick forward", func() {
			runToRest(e)
			sum := e.GetLaunchRecords()[0].Summary
			Expect(sum.Range).To(BeNumerically(">", 10))
			Expect(sum.MaxHeight).To(BeNumerically(">", 1))
		})

		It("clears records on reset but keeps ids increasing", func() {
			last := e.GetLaunchRecords()[1].ID
			e.Reset()
			Expect(e.GetLaunchRecords()).To(BeEmpty())
			Expect(e.GetActiveProjectiles()).To(BeEmpty())

			h, err := e.Launch(sim.LaunchParameters{
				Projectile:  smallBall(),
				Environment: dynamo.DefaultEnvironment(),
				Manual:      &sim.ManualLaunchConfig{Impulse: mgl64.Vec3{1, 2, 0}},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(h.ID).To(BeNumerically(">", last))
		})
	})

	Describe("snapshots", func() {
		It("exposes active state and reports settled launches as gone", func() {
			e := newEngine()
			h, err := e.Launch(sim.LaunchParameters{
				Projectile:  smallBall(),
				Environment: dynamo.DefaultEnvironment(),
				Manual:      &sim.ManualLaunchConfig{Impulse: mgl64.Vec3{2, 3, 0}},
			})
			Expect(err).NotTo(HaveOccurred())

			e.Update(frame)
			s, phase, ok := e.Snapshot(h)
			Expect(ok).To(BeTrue())
			Expect(phase).To(Equal(dynamo.Airborne))
			Expect(s.Velocity.Y()).To(BeNumerically(">", 0))
			Expect(math.Abs(s.Rotation.Len() - 1)).To(BeNumerically("<", 1e-6))

			runToRest(e)
			_, _, ok = e.Snapshot(h)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("validation", func() {
		It("rejects degenerate projectiles", func() {
			e := newEngine()
			def := smallBall()
			def.Mass = 0
			_, err := e.Launch(sim.LaunchParameters{Projectile: def, Environment: dynamo.DefaultEnvironment(), Manual: &sim.ManualLaunchConfig{}})
			Expect(errors.Is(err, dynamo.ErrInvalidDefinition)).To(BeTrue())
			Expect(e.GetLaunchRecords()).To(BeEmpty())
		})

		It("rejects an empty profile without a manual impulse", func() {
			e := newEngine()
			_, err := e.Launch(sim.LaunchParameters{Projectile: smallBall(), Environment: dynamo.DefaultEnvironment()})
			Expect(errors.Is(err, dynamo.ErrInvalidProfile)).To(BeTrue())
		})

		It("refuses an invalid config", func() {
			cfg := sim.DefaultConfig()
			cfg.Step = 1
			_, err := sim.New(cfg)
			Expect(errors.Is(err, dynamo.ErrInvalidConfig)).To(BeTrue())
		})
	})

	Describe("surfaces", func() {
		roll := func(surface contact.SurfaceType) float64 {
			e := newEngine()
			e.SetSurfaceType(surface)
			def := smallBall()
			_, err := e.Launch(sim.LaunchParameters{
				Projectile:  def,
				Environment: dynamo.DefaultEnvironment(),
				Manual:      &sim.ManualLaunchConfig{Impulse: mgl64.Vec3{5 * def.Mass, 0, 0}},
			})
			Expect(err).NotTo(HaveOccurred())
			runToRest(e)
			return e.GetLaunchRecords()[0].Summary.Range
		}

		It("rolls farther on ice than on dirt", func() {
			Expect(roll(contact.Ice)).To(BeNumerically(">", roll(contact.Dirt)))
		})
	})

	Describe("forced settle", func() {
		It("retires projectiles that exceed the flight time limit", func() {
			cfg := sim.DefaultConfig()
			cfg.MaxFlightTime = 0.5
			e, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			_, err = e.Launch(sim.LaunchParameters{
				Projectile:  smallBall(),
				Environment: dynamo.DefaultEnvironment(),
				Manual:      &sim.ManualLaunchConfig{Impulse: mgl64.Vec3{0, 10, 0}},
			})
			Expect(err).NotTo(HaveOccurred())
			runToRest(e)

			sum := e.GetLaunchRecords()[0].Summary
			Expect(sum.Forced).To(BeTrue())
			Expect(sum.FlightTime).To(BeNumerically("~", 0.5, 0.01))
		})
	})

	Describe("determinism", func() {
		run := func(seed int64) []*sim.LaunchRecord {
			cfg := sim.DefaultConfig()
			cfg.Seed = seed
			e, err := sim.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			env := dynamo.DefaultEnvironment()
			env.Wind = mgl64.Vec3{6, 0, -3}
			kick, _ := catalog.Default().Profile("kick")
			_, err = e.Launch(sim.LaunchParameters{Profile: kick, Projectile: smallBall(), Environment: env})
			Expect(err).NotTo(HaveOccurred())
			runToRest(e)
			return e.GetLaunchRecords()
		}

		It("reproduces identical records for the same seed", func() {
			Expect(run(7)).To(Equal(run(7)))
		})

		It("diverges for different seeds in wind", func() {
			Expect(run(7)[0].Samples).NotTo(Equal(run(8)[0].Samples))
		})
	})

	Describe("ensemble", func() {
		It("drives one engine per seed", func() {
			ens := sim.NewEnsemble(sim.DefaultConfig(), 3, 100)
			engines, err := ens.Run(context.Background(), func(ctx context.Context, e *sim.Engine) error {
				_, err := e.Launch(sim.LaunchParameters{
					Projectile:  smallBall(),
					Environment: dynamo.DefaultEnvironment(),
					Manual:      &sim.ManualLaunchConfig{Impulse: mgl64.Vec3{3, 3, 0}},
				})
				if err != nil {
					return err
				}
				return sim.RunUntilSettled(ctx, e, frame, 60)
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(engines).To(HaveLen(3))
			for i, e := range engines {
				Expect(e.Config().Seed).To(Equal(int64(100 + i)))
				Expect(e.GetLaunchRecords()[0].Settled()).To(BeTrue())
			}
		})

		It("propagates driver errors", func() {
			boom := errors.New("boom")
			_, err := sim.NewEnsemble(sim.DefaultConfig(), 2, 0).Run(context.Background(), func(context.Context, *sim.Engine) error {
				return boom
			})
			Expect(err).To(MatchError(boom))
		})
	})

	Describe("RunUntilSettled", func() {
		It("honors context cancellation", func() {
			e := newEngine()
			_, err := e.Launch(sim.LaunchParameters{
				Projectile:  smallBall(),
				Environment: dynamo.DefaultEnvironment(),
				Manual:      &sim.ManualLaunchConfig{Impulse: mgl64.Vec3{0, 5, 0}},
			})
			Expect(err).NotTo(HaveOccurred())
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			Expect(sim.RunUntilSettled(ctx, e, frame, 60)).To(MatchError(context.Canceled))
		})
	})
})
