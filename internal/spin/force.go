package spin

import (
	"math"

	"github.com/Gianuzzi/reboundx/internal/astro"
	"github.com/Gianuzzi/reboundx/internal/sim"
)

// Force evolves coupled spin vectors under the quadrupole torque that
// companions exert on each body's rotational bulge, closed with a constant
// time lag. The precession term preserves spin magnitude exactly; the lag
// term drives the spin toward the instantaneous orbit normal and carries
// the dissipation.
type Force struct{}

func (f *Force) Name() string { return "spin" }

func (f *Force) Apply(s *sim.Simulation, y sim.State, dy sim.State) {
	n := len(s.Bodies)

	for i := 0; i < n; i++ {
		off := s.SpinOffset(i)
		if off < 0 {
			continue
		}
		b := &s.Bodies[i]
		moi, ok := b.Param(sim.ParamMOI)
		if !ok || moi == 0 {
			continue
		}
		k2, _ := b.Param(sim.ParamK2)
		tau, _ := b.Param(sim.ParamTimeLag)

		sv := astro.Vec3{X: y[off], Y: y[off+1], Z: y[off+2]}
		sMag := sv.Norm()
		if sMag == 0 {
			continue
		}
		sHat := sv.Scale(1 / sMag)

		// Permanent figure from rotational flattening, C-A ~ k2 s^2 R^5 / 3G.
		ca := k2 * sMag * sMag * math.Pow(b.R, 5) / (3 * s.G)

		var ds astro.Vec3
		for j := 0; j < n; j++ {
			if j == i || s.Bodies[j].M == 0 {
				continue
			}
			rel := astro.Vec3{
				X: y[6*j+0] - y[6*i+0],
				Y: y[6*j+1] - y[6*i+1],
				Z: y[6*j+2] - y[6*i+2],
			}
			r := rel.Norm()
			if r == 0 {
				continue
			}
			rHat := rel.Scale(1 / r)

			k := 3 * s.G * s.Bodies[j].M * ca / (r * r * r * moi)

			// Precession of s about the separation line.
			omega := rHat.Scale(-k * sHat.Dot(rHat))
			ds = ds.Add(omega.Cross(sv))

			// Time-lag dissipation toward the orbit normal.
			if tau > 0 {
				relV := astro.Vec3{
					X: y[6*j+3] - y[6*i+3],
					Y: y[6*j+4] - y[6*i+4],
					Z: y[6*j+5] - y[6*i+5],
				}
				h := rel.Cross(relV)
				if hMag := h.Norm(); hMag > 0 {
					hHat := h.Scale(1 / hMag)
					ds = ds.Add(hHat.Scale(sMag).Sub(sv).Scale(k * tau * sMag))
				}
			}
		}

		dy[off] += ds.X
		dy[off+1] += ds.Y
		dy[off+2] += ds.Z
	}
}
