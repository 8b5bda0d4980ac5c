package sim

import "github.com/Gianuzzi/reboundx/internal/astro"

// Parameter keys recognized by the spin extension.
const (
	ParamK2      = "k2"
	ParamMOI     = "moi"
	ParamSpinX   = "spin_sx"
	ParamSpinY   = "spin_sy"
	ParamSpinZ   = "spin_sz"
	ParamTimeLag = "tau"
)

// Body is one massive particle. Params carries per-body scalars set by
// extensions (spin components, Love number, moment of inertia, time lag).
type Body struct {
	M      float64
	R      float64
	Pos    astro.Vec3
	Vel    astro.Vec3
	Params map[string]float64
}

// Param reads a per-body scalar, reporting whether it has been set.
func (b *Body) Param(key string) (float64, bool) {
	if b.Params == nil {
		return 0, false
	}
	v, ok := b.Params[key]
	return v, ok
}

// SetParam sets a per-body scalar.
func (b *Body) SetParam(key string, value float64) {
	if b.Params == nil {
		b.Params = make(map[string]float64)
	}
	b.Params[key] = value
}

// Spin returns the body's spin vector, zero if unset.
func (b *Body) Spin() astro.Vec3 {
	sx, _ := b.Param(ParamSpinX)
	sy, _ := b.Param(ParamSpinY)
	sz, _ := b.Param(ParamSpinZ)
	return astro.Vec3{X: sx, Y: sy, Z: sz}
}

// SetSpin overwrites the body's spin vector.
func (b *Body) SetSpin(s astro.Vec3) {
	b.SetParam(ParamSpinX, s.X)
	b.SetParam(ParamSpinY, s.Y)
	b.SetParam(ParamSpinZ, s.Z)
}

// CenterOfMassOfPair collapses two bodies into their mass-weighted
// barycenter. A pair of two massless bodies degenerates to the midpoint,
// so the test-particle limit never divides by zero.
func CenterOfMassOfPair(a, b Body) Body {
	total := a.M + b.M
	if total == 0 {
		return Body{
			Pos: a.Pos.Add(b.Pos).Scale(0.5),
			Vel: a.Vel.Add(b.Vel).Scale(0.5),
		}
	}
	wa := a.M / total
	wb := b.M / total
	return Body{
		M:   total,
		Pos: a.Pos.Scale(wa).Add(b.Pos.Scale(wb)),
		Vel: a.Vel.Scale(wa).Add(b.Vel.Scale(wb)),
	}
}
