// Package spin is the rotational/tidal extension of the engine. It holds
// per-body spin parameters, registers the spin force, aligns the system
// with its invariant plane, and couples spin vectors into the integrator
// state.
package spin

import (
	"errors"
	"fmt"
	"math"

	"github.com/Gianuzzi/reboundx/internal/astro"
	"github.com/Gianuzzi/reboundx/internal/sim"
)

// ErrUnknownForce indicates a force name the extension does not provide.
var ErrUnknownForce = errors.New("spin: unknown force")

// Extras attaches rotational state handling to a simulation.
type Extras struct {
	sim *sim.Simulation
}

func Attach(s *sim.Simulation) *Extras {
	return &Extras{sim: s}
}

// LoadForce instantiates a force by name. Only "spin" is provided.
func (x *Extras) LoadForce(name string) (sim.Force, error) {
	if name != "spin" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownForce, name)
	}
	return &Force{}, nil
}

func (x *Extras) AddForce(f sim.Force) {
	x.sim.AddForce(f)
}

// SetParam sets a per-body scalar on body i.
func (x *Extras) SetParam(i int, key string, value float64) {
	x.sim.Bodies[i].SetParam(key, value)
}

// SetTimeLag sets the constant tidal time lag of body i.
func (x *Extras) SetTimeLag(i int, tau float64) {
	x.SetParam(i, sim.ParamTimeLag, tau)
}

// AlignSimulation rotates every position, velocity and spin vector so the
// total angular momentum (orbital plus rotational) points along +z. A pure
// rotation: spin magnitudes are unchanged. Must run after the center of
// mass correction and before InitializeSpinODE, since it changes the frame
// spin components are expressed in.
func (x *Extras) AlignSimulation() {
	l := x.totalAngularMomentum()
	lMag := l.Norm()
	if lMag == 0 {
		return
	}

	zHat := astro.Vec3{Z: 1}
	lHat := l.Scale(1 / lMag)
	axis := lHat.Cross(zHat)
	angle := math.Acos(math.Max(-1, math.Min(1, lHat.Dot(zHat))))
	if axis.Norm() < 1e-15 {
		return // already aligned (or anti-aligned about a degenerate axis)
	}

	for i := range x.sim.Bodies {
		b := &x.sim.Bodies[i]
		b.Pos = b.Pos.Rotate(axis, angle)
		b.Vel = b.Vel.Rotate(axis, angle)
		if _, ok := b.Param(sim.ParamSpinX); ok {
			b.SetSpin(b.Spin().Rotate(axis, angle))
		}
	}
}

func (x *Extras) totalAngularMomentum() astro.Vec3 {
	var l astro.Vec3
	for i := range x.sim.Bodies {
		b := &x.sim.Bodies[i]
		l = l.Add(b.Pos.Cross(b.Vel).Scale(b.M))
		if moi, ok := b.Param(sim.ParamMOI); ok {
			l = l.Add(b.Spin().Scale(moi))
		}
	}
	return l
}

// InitializeSpinODE couples the spin components of every body carrying a
// moment of inertia into the integrator's state vector. Call once, after
// AlignSimulation.
func (x *Extras) InitializeSpinODE(f sim.Force) {
	var coupled []int
	for i := range x.sim.Bodies {
		if _, ok := x.sim.Bodies[i].Param(sim.ParamMOI); ok {
			coupled = append(coupled, i)
		}
	}
	x.sim.CoupleSpins(coupled)
}
