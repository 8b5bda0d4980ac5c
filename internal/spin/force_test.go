package spin

import (
	"context"
	"math"
	"testing"

	"github.com/Gianuzzi/reboundx/internal/astro"
	"github.com/Gianuzzi/reboundx/internal/sim"
)

func TestSpinForcePrecessionPreservesMagnitude(t *testing.T) {
	s := sim.New()
	s.AddBody(sim.Body{M: 1})
	s.AddBodyFromOrbit(1e-3, 1e-4, astro.Elements{A: 1, E: 0.1})
	x := Attach(s)

	f, err := x.LoadForce("spin")
	if err != nil {
		t.Fatal(err)
	}
	x.AddForce(f)

	// Tilted spin, no time lag: pure precession.
	x.SetParam(1, sim.ParamK2, 0.5)
	x.SetParam(1, sim.ParamMOI, 0.25*1e-3*1e-8)
	s.Bodies[1].SetSpin(astro.Vec3{X: 100, Z: 500})

	s.MoveToCenterOfMass()
	x.AlignSimulation()
	x.InitializeSpinODE(f)

	mag0 := s.Bodies[1].Spin().Norm()
	if err := s.Advance(context.Background(), 4*math.Pi); err != nil {
		t.Fatal(err)
	}
	mag1 := s.Bodies[1].Spin().Norm()

	if rel := math.Abs(mag1-mag0) / mag0; rel > 1e-6 {
		t.Errorf("lag-free spin evolution changed magnitude by %g", rel)
	}
}

func TestSpinForceIgnoresZeroSpin(t *testing.T) {
	s := sim.New()
	s.AddBody(sim.Body{M: 1})
	s.AddBodyFromOrbit(1e-3, 1e-4, astro.Elements{A: 1, E: 0})
	x := Attach(s)

	f, err := x.LoadForce("spin")
	if err != nil {
		t.Fatal(err)
	}
	x.AddForce(f)
	x.SetParam(1, sim.ParamK2, 0.5)
	x.SetParam(1, sim.ParamMOI, 1e-12)
	s.Bodies[1].SetSpin(astro.Vec3{})
	x.InitializeSpinODE(f)

	if err := s.Advance(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if sp := s.Bodies[1].Spin(); sp.Norm() != 0 {
		t.Errorf("zero spin evolved to %v", sp)
	}
}
