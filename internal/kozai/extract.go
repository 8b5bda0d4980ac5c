package kozai

import (
	"math"

	"github.com/Gianuzzi/reboundx/internal/astro"
	"github.com/Gianuzzi/reboundx/internal/sim"
)

// Extract converts the current engine state into one output record:
// inner-orbit elements of the planet about the star, outer-orbit elements
// of the perturber about the mass-weighted barycenter of the inner pair,
// and spin magnitude/obliquity for the spin-bearing bodies.
//
// Degenerate geometry is not an error here: elements that cannot be
// computed come back as NaN so a multi-million-step run keeps going and
// downstream analysis can filter per row.
func Extract(s *sim.Simulation) Record {
	star := s.Bodies[StarIndex]
	planet := s.Bodies[PlanetIndex]
	perturber := s.Bodies[PerturberIndex]

	inner, err := s.ElementsOf(planet, star)
	if err != nil {
		inner = nanElements()
	}

	pair := sim.CenterOfMassOfPair(star, planet)
	outer, err := s.ElementsOf(perturber, pair)
	if err != nil {
		outer = nanElements()
	}

	planetSpin := planet.Spin()

	return Record{
		T:               s.T,
		StarPos:         star.Pos,
		StarVel:         star.Vel,
		StarSpin:        star.Spin(),
		Inner:           inner,
		PlanetSpin:      planetSpin,
		PlanetSpinMag:   planetSpin.Norm(),
		PlanetPos:       planet.Pos,
		PlanetVel:       planet.Vel,
		Outer:           outer,
		StarObliquity:   Obliquity(star.Spin()),
		PlanetObliquity: Obliquity(planetSpin),
	}
}

func nanElements() astro.Elements {
	nan := math.NaN()
	return astro.Elements{A: nan, E: nan, Inc: nan, Node: nan, Peri: nan, Pomega: nan, TrueAnom: nan}
}
