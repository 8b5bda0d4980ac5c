package kozai

import (
	"errors"
	"fmt"
	"math"

	"github.com/Gianuzzi/reboundx/internal/astro"
	"github.com/Gianuzzi/reboundx/internal/config"
	"github.com/Gianuzzi/reboundx/internal/sim"
	"github.com/Gianuzzi/reboundx/internal/spin"
)

// ErrInvalidConfiguration marks physically inconsistent run parameters,
// detected before any integration begins.
var ErrInvalidConfiguration = errors.New("kozai: invalid configuration")

// Body indices inside the simulation.
const (
	StarIndex      = 0
	PlanetIndex    = 1
	PerturberIndex = 2
)

// System is a fully configured simulation: bodies placed, frame centered
// and aligned, spin state coupled into the integrator.
type System struct {
	Sim *sim.Simulation
	Ext *spin.Extras
}

// Build constructs the initial state from named orbital parameters.
//
// Ordering is load-bearing: bodies are added star-first, the whole system
// is re-centered on its combined center of mass (skipping this leaves a
// drift velocity that corrupts long-term element extraction), then the
// invariant plane is aligned, and only then is the spin ODE state
// initialized, since alignment changes the frame spin components are
// expressed in.
func Build(cfg *config.Config) (*System, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	s := sim.New()
	s.AddBody(sim.Body{M: cfg.Star.Mass, R: cfg.Star.Radius})
	s.AddBodyFromOrbit(cfg.Planet.Mass, cfg.Planet.Radius, elements(cfg.Planet.Orbit))
	s.AddBodyFromOrbit(cfg.Perturber.Mass, cfg.Perturber.Radius, elements(cfg.Perturber.Orbit))

	ext := spin.Attach(s)
	force, err := ext.LoadForce("spin")
	if err != nil {
		return nil, err
	}
	ext.AddForce(force)

	configureSpin(ext, StarIndex, &cfg.Star)
	configureSpin(ext, PlanetIndex, &cfg.Planet)
	configureSpin(ext, PerturberIndex, &cfg.Perturber)

	s.MoveToCenterOfMass()
	ext.AlignSimulation()
	ext.InitializeSpinODE(force)

	return &System{Sim: s, Ext: ext}, nil
}

func validate(cfg *config.Config) error {
	for _, b := range []struct {
		name string
		c    *config.BodyConfig
	}{
		{"star", &cfg.Star},
		{"planet", &cfg.Planet},
		{"perturber", &cfg.Perturber},
	} {
		if b.c.Mass < 0 {
			return fmt.Errorf("%w: %s mass %g is negative", ErrInvalidConfiguration, b.name, b.c.Mass)
		}
		if b.c.Orbit != nil && b.c.Orbit.E >= 1 {
			return fmt.Errorf("%w: %s eccentricity %g not below 1 (unbound orbits unsupported)",
				ErrInvalidConfiguration, b.name, b.c.Orbit.E)
		}
	}
	if cfg.Run.IntervalYears <= 0 {
		return fmt.Errorf("%w: macro-step interval must be positive", ErrInvalidConfiguration)
	}
	if cfg.Run.Steps <= 0 && cfg.Run.MaxYears <= 0 {
		return fmt.Errorf("%w: need a step count or a time cap", ErrInvalidConfiguration)
	}
	return nil
}

func elements(o *config.OrbitConfig) astro.Elements {
	rad := math.Pi / 180
	return astro.Elements{
		A:        o.A,
		E:        o.E,
		Inc:      o.IncDeg * rad,
		Node:     o.NodeDeg * rad,
		Peri:     o.PeriDeg * rad,
		TrueAnom: o.AnomDeg * rad,
	}
}
