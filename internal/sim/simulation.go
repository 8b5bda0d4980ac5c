package sim

import (
	"context"
	"math"

	"github.com/Gianuzzi/reboundx/internal/astro"
)

// Force contributes additional terms to the state derivative. Forces are
// registered by extensions and called after point-mass gravity on every
// derivative evaluation.
type Force interface {
	Name() string
	Apply(s *Simulation, y State, dy State)
}

// Simulation owns the dynamical state of an N-body system: bodies, spins,
// the simulation clock and the current substep guess. All mutation between
// Advance boundaries happens inside the engine.
type Simulation struct {
	G      float64
	T      float64
	Dt     float64 // initial/current substep guess
	MinDt  float64
	Tol    float64
	Bodies []Body

	forces  []Force
	coupled []int // body indices whose spins ride in the state vector
	st      *stepper
}

func New() *Simulation {
	return &Simulation{
		G:     1.0,
		Dt:    math.Pi * 1e-1,
		MinDt: 1e-12,
		Tol:   1e-9,
		st:    newStepper(),
	}
}

func (s *Simulation) AddBody(b Body) int {
	s.Bodies = append(s.Bodies, b)
	return len(s.Bodies) - 1
}

// AddBodyFromOrbit places a new body on an orbit about the barycenter of
// all bodies added so far, mirroring the usual element-based add of N-body
// setups: the relative state from the elements is offset by the current
// system barycenter.
func (s *Simulation) AddBodyFromOrbit(m, r float64, el astro.Elements) int {
	primary := s.barycenter()
	mu := s.G * (primary.M + m)
	pos, vel := el.Cartesian(mu)
	return s.AddBody(Body{
		M:   m,
		R:   r,
		Pos: primary.Pos.Add(pos),
		Vel: primary.Vel.Add(vel),
	})
}

func (s *Simulation) barycenter() Body {
	com := Body{}
	for _, b := range s.Bodies {
		com = CenterOfMassOfPair(com, b)
	}
	return com
}

// MoveToCenterOfMass shifts every position and velocity so the combined
// center of mass sits at rest at the origin. Spins are frame vectors and
// are left untouched.
func (s *Simulation) MoveToCenterOfMass() {
	com := s.barycenter()
	for i := range s.Bodies {
		s.Bodies[i].Pos = s.Bodies[i].Pos.Sub(com.Pos)
		s.Bodies[i].Vel = s.Bodies[i].Vel.Sub(com.Vel)
	}
}

// TotalMomentum is the system's linear momentum, zero after
// MoveToCenterOfMass up to floating-point error.
func (s *Simulation) TotalMomentum() astro.Vec3 {
	var p astro.Vec3
	for _, b := range s.Bodies {
		p = p.Add(b.Vel.Scale(b.M))
	}
	return p
}

// ElementsOf computes osculating elements of body relative to primary.
func (s *Simulation) ElementsOf(body, primary Body) (astro.Elements, error) {
	mu := s.G * (body.M + primary.M)
	return astro.FromCartesian(mu, body.Pos.Sub(primary.Pos), body.Vel.Sub(primary.Vel))
}

func (s *Simulation) AddForce(f Force) {
	s.forces = append(s.forces, f)
}

// CoupleSpins appends the spin vectors of the given bodies to the
// integration state so registered forces can evolve them.
func (s *Simulation) CoupleSpins(bodies []int) {
	s.coupled = append([]int(nil), bodies...)
}

// SpinOffset returns the state-vector offset of body i's spin block, or -1
// if that body's spin is not coupled.
func (s *Simulation) SpinOffset(i int) int {
	for k, idx := range s.coupled {
		if idx == i {
			return 6*len(s.Bodies) + 3*k
		}
	}
	return -1
}

func (s *Simulation) stateLen() int {
	return 6*len(s.Bodies) + 3*len(s.coupled)
}

func (s *Simulation) pack() State {
	y := make(State, s.stateLen())
	for i, b := range s.Bodies {
		y[6*i+0], y[6*i+1], y[6*i+2] = b.Pos.X, b.Pos.Y, b.Pos.Z
		y[6*i+3], y[6*i+4], y[6*i+5] = b.Vel.X, b.Vel.Y, b.Vel.Z
	}
	base := 6 * len(s.Bodies)
	for k, idx := range s.coupled {
		sp := s.Bodies[idx].Spin()
		y[base+3*k+0], y[base+3*k+1], y[base+3*k+2] = sp.X, sp.Y, sp.Z
	}
	return y
}

func (s *Simulation) unpack(y State) {
	for i := range s.Bodies {
		s.Bodies[i].Pos = astro.Vec3{X: y[6*i+0], Y: y[6*i+1], Z: y[6*i+2]}
		s.Bodies[i].Vel = astro.Vec3{X: y[6*i+3], Y: y[6*i+4], Z: y[6*i+5]}
	}
	base := 6 * len(s.Bodies)
	for k, idx := range s.coupled {
		s.Bodies[idx].SetSpin(astro.Vec3{
			X: y[base+3*k+0],
			Y: y[base+3*k+1],
			Z: y[base+3*k+2],
		})
	}
}

// derive fills dy with point-mass gravity plus registered force terms.
func (s *Simulation) derive(y State, dy State) {
	for i := range dy {
		dy[i] = 0
	}
	n := len(s.Bodies)
	for i := 0; i < n; i++ {
		dy[6*i+0] = y[6*i+3]
		dy[6*i+1] = y[6*i+4]
		dy[6*i+2] = y[6*i+5]
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			rx := y[6*j+0] - y[6*i+0]
			ry := y[6*j+1] - y[6*i+1]
			rz := y[6*j+2] - y[6*i+2]
			r2 := rx*rx + ry*ry + rz*rz
			if r2 == 0 {
				continue
			}
			r3inv := 1 / (r2 * math.Sqrt(r2))

			fi := s.G * s.Bodies[j].M * r3inv
			dy[6*i+3] += fi * rx
			dy[6*i+4] += fi * ry
			dy[6*i+5] += fi * rz

			fj := s.G * s.Bodies[i].M * r3inv
			dy[6*j+3] -= fj * rx
			dy[6*j+4] -= fj * ry
			dy[6*j+5] -= fj * rz
		}
	}
	for _, f := range s.forces {
		f.Apply(s, y, dy)
	}
}

// Advance integrates to the target time with adaptive substeps and
// returns with the clock set to target and all bodies updated. The
// context is honored between substeps only; a failed step is fatal.
func (s *Simulation) Advance(ctx context.Context, target float64) error {
	if target < s.T {
		return &IntegrationError{Time: s.T, Body: -1, Wrapped: ErrTimeReversed}
	}

	y := s.pack()
	dt := s.Dt
	f := s.derive

	for s.T < target {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		last := false
		if s.T+dt >= target {
			dt = target - s.T
			last = true
		}

		yNew, errRatio := s.st.attempt(f, y, dt, s.Tol)
		if !yNew.isValid() {
			return &IntegrationError{Time: s.T, Body: s.badBody(yNew), Wrapped: ErrInvalidState}
		}
		if errRatio > 1 {
			dt = s.st.shrinkDt(dt, errRatio)
			if dt < s.MinDt {
				return &IntegrationError{Time: s.T, Body: -1, Wrapped: ErrStepTooSmall}
			}
			continue
		}

		y = yNew
		if last {
			// Land exactly on the boundary so macro-step times never drift.
			s.T = target
		} else {
			s.T += dt
		}
		dt = s.st.nextDt(dt, errRatio)
	}

	s.Dt = dt
	s.unpack(y)
	return nil
}

// badBody scans the position/velocity blocks for the first invalid entry.
func (s *Simulation) badBody(y State) int {
	for i := range s.Bodies {
		for k := 0; k < 6; k++ {
			v := y[6*i+k]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return i
			}
		}
	}
	return -1
}
