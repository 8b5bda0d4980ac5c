package kozai

import (
	"math"

	"github.com/Gianuzzi/reboundx/internal/astro"
	"github.com/Gianuzzi/reboundx/internal/config"
)

// Header is the fixed output schema, one column per field of Record in
// order. The leading t column is in years (clock time over 2*pi).
var Header = []string{
	"t",
	"starx", "stary", "starz", "starvx", "starvy", "starvz",
	"star_sx", "star_sy", "star_sz",
	"a1", "i1", "e1",
	"s1x", "s1y", "s1z", "mag1", "pom1", "Om1", "f1",
	"p1x", "p1y", "p1z", "p1vx", "p1vy", "p1vz",
	"a2", "i2", "e2", "Om2", "pom2",
}

// Record is one immutable macro-step sample. T is the raw simulation
// clock; elements that could not be computed are NaN.
type Record struct {
	T float64

	StarPos  astro.Vec3
	StarVel  astro.Vec3
	StarSpin astro.Vec3

	Inner astro.Elements // planet about star

	PlanetSpin    astro.Vec3
	PlanetSpinMag float64

	PlanetPos astro.Vec3
	PlanetVel astro.Vec3

	Outer astro.Elements // perturber about inner-pair barycenter

	// Obliquities against the fixed z pole, degrees; NaN for zero spin.
	// Observational only, not part of the output schema.
	StarObliquity   float64
	PlanetObliquity float64
}

// Years is the clock time in years.
func (r Record) Years() float64 {
	return r.T / config.TwoPi
}

// Columns returns the row in Header order.
func (r Record) Columns() []float64 {
	return []float64{
		r.Years(),
		r.StarPos.X, r.StarPos.Y, r.StarPos.Z,
		r.StarVel.X, r.StarVel.Y, r.StarVel.Z,
		r.StarSpin.X, r.StarSpin.Y, r.StarSpin.Z,
		r.Inner.A, r.Inner.Inc, r.Inner.E,
		r.PlanetSpin.X, r.PlanetSpin.Y, r.PlanetSpin.Z,
		r.PlanetSpinMag, r.Inner.Pomega, r.Inner.Node, r.Inner.TrueAnom,
		r.PlanetPos.X, r.PlanetPos.Y, r.PlanetPos.Z,
		r.PlanetVel.X, r.PlanetVel.Y, r.PlanetVel.Z,
		r.Outer.A, r.Outer.Inc, r.Outer.E, r.Outer.Node, r.Outer.Pomega,
	}
}

// Obliquity is the angle in degrees between a spin vector and the fixed
// +z reference pole established at setup, not the instantaneous orbit
// normal. NaN for a zero-magnitude spin.
func Obliquity(s astro.Vec3) float64 {
	mag := s.Norm()
	if mag == 0 {
		return math.NaN()
	}
	cos := math.Max(-1, math.Min(1, s.Z/mag))
	return math.Acos(cos) * 180 / math.Pi
}
