package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/Gianuzzi/reboundx/internal/astro"
)

func twoBody() *Simulation {
	s := New()
	s.AddBody(Body{M: 1})
	s.AddBodyFromOrbit(0, 0, astro.Elements{A: 1, E: 0})
	return s
}

func TestAddBodyFromOrbit(t *testing.T) {
	s := twoBody()

	rel := s.Bodies[1].Pos.Sub(s.Bodies[0].Pos)
	if math.Abs(rel.Norm()-1) > 1e-12 {
		t.Errorf("separation = %f, want 1", rel.Norm())
	}

	el, err := s.ElementsOf(s.Bodies[1], s.Bodies[0])
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(el.A-1) > 1e-12 {
		t.Errorf("a = %f, want 1", el.A)
	}
	if el.E > 1e-12 {
		t.Errorf("e = %g, want 0", el.E)
	}
}

func TestMoveToCenterOfMassZeroesMomentum(t *testing.T) {
	s := New()
	s.AddBody(Body{M: 1.1})
	s.AddBodyFromOrbit(7.8*9.55e-4, 4.676e-4, astro.Elements{A: 5, E: 0.1, Peri: math.Pi / 4})
	s.AddBodyFromOrbit(1.1, 0, astro.Elements{A: 1000, E: 0, Inc: 85.6 * math.Pi / 180})

	s.MoveToCenterOfMass()

	if p := s.TotalMomentum().Norm(); p > 1e-12 {
		t.Errorf("total momentum after COM correction = %g, want ~0", p)
	}

	var com astro.Vec3
	var total float64
	for _, b := range s.Bodies {
		com = com.Add(b.Pos.Scale(b.M))
		total += b.M
	}
	if com.Scale(1 / total).Norm() > 1e-12 {
		t.Errorf("center of mass not at origin: %v", com)
	}
}

func TestCenterOfMassOfPair(t *testing.T) {
	a := Body{M: 3, Pos: astro.Vec3{X: 1}, Vel: astro.Vec3{Y: 2}}
	b := Body{M: 1, Pos: astro.Vec3{X: 5}, Vel: astro.Vec3{Y: -2}}

	com := CenterOfMassOfPair(a, b)
	if com.M != 4 {
		t.Errorf("mass = %f, want 4", com.M)
	}
	if math.Abs(com.Pos.X-2) > 1e-15 {
		t.Errorf("pos.X = %f, want 2", com.Pos.X)
	}
	if math.Abs(com.Vel.Y-1) > 1e-15 {
		t.Errorf("vel.Y = %f, want 1", com.Vel.Y)
	}
}

func TestCenterOfMassOfPairMassless(t *testing.T) {
	// The test-particle limit must not divide by zero.
	a := Body{Pos: astro.Vec3{X: 2}}
	b := Body{Pos: astro.Vec3{X: 4}}

	com := CenterOfMassOfPair(a, b)
	if com.M != 0 {
		t.Errorf("mass = %f, want 0", com.M)
	}
	if com.Pos.X != 3 {
		t.Errorf("pos.X = %f, want midpoint 3", com.Pos.X)
	}
	if !com.Pos.IsValid() {
		t.Error("massless pair barycenter has invalid position")
	}
}

func TestAdvanceCircularOrbitPeriod(t *testing.T) {
	s := twoBody()
	start := s.Bodies[1].Pos

	// One full period of a test particle at a=1 around m=1 is 2*pi.
	if err := s.Advance(context.Background(), 2*math.Pi); err != nil {
		t.Fatal(err)
	}

	if s.T != 2*math.Pi {
		t.Errorf("clock = %v, want exactly 2*pi", s.T)
	}
	if d := s.Bodies[1].Pos.Sub(start).Norm(); d > 1e-5 {
		t.Errorf("after one period body moved %g from start", d)
	}
}

func TestAdvanceConservesEnergy(t *testing.T) {
	s := New()
	s.AddBody(Body{M: 1})
	s.AddBodyFromOrbit(0.1, 0, astro.Elements{A: 1, E: 0.3})
	s.MoveToCenterOfMass()

	e0 := systemEnergy(s)
	if err := s.Advance(context.Background(), 20*math.Pi); err != nil {
		t.Fatal(err)
	}
	e1 := systemEnergy(s)

	if drift := math.Abs(e1-e0) / math.Abs(e0); drift > 1e-6 {
		t.Errorf("energy drift %g over 10 orbits", drift)
	}
}

func systemEnergy(s *Simulation) float64 {
	var e float64
	for i, b := range s.Bodies {
		e += 0.5 * b.M * b.Vel.Dot(b.Vel)
		for j := i + 1; j < len(s.Bodies); j++ {
			r := s.Bodies[j].Pos.Sub(b.Pos).Norm()
			e -= s.G * b.M * s.Bodies[j].M / r
		}
	}
	return e
}

func TestAdvanceTimeReversed(t *testing.T) {
	s := twoBody()
	s.T = 10

	err := s.Advance(context.Background(), 5)
	if !errors.Is(err, ErrTimeReversed) {
		t.Errorf("err = %v, want ErrTimeReversed", err)
	}

	var ierr *IntegrationError
	if !errors.As(err, &ierr) {
		t.Fatalf("err = %T, want *IntegrationError", err)
	}
	if ierr.Time != 10 {
		t.Errorf("error time = %f, want 10", ierr.Time)
	}
}

func TestAdvanceHonorsContext(t *testing.T) {
	s := twoBody()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Advance(ctx, 2*math.Pi)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if s.T != 0 {
		t.Errorf("clock advanced to %f after cancellation before first substep", s.T)
	}
}

func TestSpinCoupling(t *testing.T) {
	s := twoBody()
	s.Bodies[0].SetParam(ParamMOI, 1e-3)
	s.Bodies[0].SetSpin(astro.Vec3{Z: 5})
	s.CoupleSpins([]int{0})

	if off := s.SpinOffset(0); off != 12 {
		t.Errorf("spin offset = %d, want 12", off)
	}
	if off := s.SpinOffset(1); off != -1 {
		t.Errorf("uncoupled body offset = %d, want -1", off)
	}

	// With no spin force registered the spin is carried unchanged.
	if err := s.Advance(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if sp := s.Bodies[0].Spin(); math.Abs(sp.Z-5) > 1e-12 {
		t.Errorf("spin drifted without a force: %v", sp)
	}
}
