package kozai

import (
	"math"

	"github.com/Gianuzzi/reboundx/internal/astro"
	"github.com/Gianuzzi/reboundx/internal/config"
	"github.com/Gianuzzi/reboundx/internal/sim"
	"github.com/Gianuzzi/reboundx/internal/spin"
)

// configureSpin sets the rotational/tidal parameters of one body: moment
// of inertia from the gyration constant, spin vector from rotation period
// and obliquity/phase, and the constant tidal time lag in the Q/k2
// parametrization. Bodies without a spin block are left untouched.
func configureSpin(ext *spin.Extras, i int, b *config.BodyConfig) {
	sc := b.Spin
	if sc == nil {
		return
	}
	ext.SetParam(i, sim.ParamK2, sc.K2)
	ext.SetParam(i, sim.ParamMOI, sc.Gyration*b.Mass*b.Radius*b.Radius)

	s := SpinVector(sc.SpinRate(), sc.ObliquityDeg, sc.PhaseDeg)
	ext.SetParam(i, sim.ParamSpinX, s.X)
	ext.SetParam(i, sim.ParamSpinY, s.Y)
	ext.SetParam(i, sim.ParamSpinZ, s.Z)

	ext.SetTimeLag(i, sc.TimeLag())
}

// SpinVector decomposes a spin of the given magnitude into components for
// obliquity theta and azimuthal phase phi in degrees. Zero obliquity puts
// the spin along the +z pole.
func SpinVector(mag, thetaDeg, phiDeg float64) astro.Vec3 {
	rad := math.Pi / 180
	theta := thetaDeg * rad
	phi := phiDeg * rad
	return astro.Vec3{
		X: mag * math.Sin(theta) * math.Sin(phi),
		Y: mag * math.Sin(theta) * math.Cos(phi),
		Z: mag * math.Cos(theta),
	}
}
