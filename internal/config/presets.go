package config

import "sort"

// presets are named run configurations built on top of the defaults.
var presets = map[string]func() *Config{
	"hd80860": Default,
	"quick": func() *Config {
		cfg := Default()
		cfg.Run.Steps = 200
		cfg.Run.IntervalYears = 10
		cfg.Run.ProgressEvery = 50
		cfg.Run.Output = "quick.csv"
		return cfg
	},
	"coplanar": func() *Config {
		// Perturber in the planet's plane: no Kozai forcing, a control run.
		cfg := Default()
		cfg.Perturber.Orbit.IncDeg = 0
		cfg.Run.Output = "coplanar.csv"
		return cfg
	},
}

func GetPreset(name string) *Config {
	mk, ok := presets[name]
	if !ok {
		return nil
	}
	return mk()
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
