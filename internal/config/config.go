package config

import (
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Simulation units: G = 1, masses in solar masses, distances in AU,
// 2*pi time units per year.
const (
	TwoPi          = 2 * math.Pi
	SecondsPerYear = 3.154e7
	DaysPerYear    = 365.0
)

const (
	DefaultSteps         = 1000000
	DefaultIntervalYears = 100.0
	DefaultProgressEvery = 10000
	DefaultOutput        = "hd80860.csv"
)

// Config describes one simulation run: the three bodies and the driver
// schedule.
type Config struct {
	Star      BodyConfig `yaml:"star"`
	Planet    BodyConfig `yaml:"planet"`
	Perturber BodyConfig `yaml:"perturber"`
	Run       RunConfig  `yaml:"run"`
}

// BodyConfig carries physical, orbital and rotational parameters of one
// body. Orbit is nil for the body anchoring the frame (the star); Spin is
// nil for bodies without rotational modeling.
type BodyConfig struct {
	Mass   float64      `yaml:"mass"`
	Radius float64      `yaml:"radius"`
	Orbit  *OrbitConfig `yaml:"orbit,omitempty"`
	Spin   *SpinConfig  `yaml:"spin,omitempty"`
}

// OrbitConfig holds initial Keplerian elements, angles in degrees.
type OrbitConfig struct {
	A       float64 `yaml:"a"`
	E       float64 `yaml:"e"`
	IncDeg  float64 `yaml:"inc_deg"`
	PeriDeg float64 `yaml:"peri_deg"` // argument of pericenter
	NodeDeg float64 `yaml:"node_deg"`
	AnomDeg float64 `yaml:"true_anomaly_deg"`
}

// SpinConfig holds rotational and tidal parameters.
//
// Dissipation is parametrized by a lag time in seconds divided by the Love
// number k2; a frequency-dependent sigma parametrization is not supported.
type SpinConfig struct {
	PeriodDays   float64 `yaml:"period_days"`
	ObliquityDeg float64 `yaml:"obliquity_deg"`
	PhaseDeg     float64 `yaml:"phase_deg"`
	K2           float64 `yaml:"k2"`
	LagSeconds   float64 `yaml:"lag_seconds"`
	Gyration     float64 `yaml:"gyration"` // moment of inertia coefficient per unit m*r^2
}

// RunConfig controls the driver schedule and output.
type RunConfig struct {
	Steps         int     `yaml:"steps"`          // macro-step count, 0 = unbounded
	IntervalYears float64 `yaml:"interval_years"` // macro-step size
	MaxYears      float64 `yaml:"max_years"`      // time cap, 0 = none
	Output        string  `yaml:"output"`
	ProgressEvery int     `yaml:"progress_every"`
}

// SpinRate converts the rotation period into an angular frequency in
// simulation units.
func (s *SpinConfig) SpinRate() float64 {
	period := s.PeriodDays * TwoPi / DaysPerYear
	return TwoPi / period
}

// TimeLag converts the lag over k2 into simulation time units.
func (s *SpinConfig) TimeLag() float64 {
	return s.LagSeconds / s.K2 * (TwoPi / SecondsPerYear)
}

// Interval is the macro-step size in simulation time units.
func (r *RunConfig) Interval() float64 {
	return r.IntervalYears * TwoPi
}

// MaxTime is the optional time cap in simulation time units, 0 when unset.
func (r *RunConfig) MaxTime() float64 {
	return r.MaxYears * TwoPi
}

// Default returns the HD 80860 scenario: a 7.8 Jupiter-mass planet at 5 AU
// around a 1.1 solar-mass star, perturbed by an equal-mass companion at
// 1000 AU inclined by 85.6 degrees.
func Default() *Config {
	return &Config{
		Star: BodyConfig{
			Mass:   1.1,
			Radius: 0.00465,
			Spin: &SpinConfig{
				PeriodDays: 20,
				K2:         0.028,
				LagSeconds: 0.2,
				Gyration:   0.08,
			},
		},
		Planet: BodyConfig{
			Mass:   7.8 * 9.55e-4,
			Radius: 4.676e-4,
			Orbit: &OrbitConfig{
				A:       5,
				E:       0.1,
				PeriDeg: 45,
			},
			Spin: &SpinConfig{
				PeriodDays:   10.0 / 24.0,
				ObliquityDeg: 1,
				K2:           0.51,
				LagSeconds:   0.02,
				Gyration:     0.25,
			},
		},
		Perturber: BodyConfig{
			Mass: 1.1,
			Orbit: &OrbitConfig{
				A:      1000,
				IncDeg: 85.6,
			},
		},
		Run: RunConfig{
			Steps:         DefaultSteps,
			IntervalYears: DefaultIntervalYears,
			Output:        DefaultOutput,
			ProgressEvery: DefaultProgressEvery,
		},
	}
}

// Load reads a YAML config, layered over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
