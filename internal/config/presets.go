package config

import "sort"

var Presets = map[string]map[string]*Config{
	"figure8": {
		"default": {
			Scenario: "figure8", Duration: 6.3259, SpeedFactor: 1, SampleEvery: 1,
		},
		"slow": {
			Scenario: "figure8", Duration: 20, SpeedFactor: 0.25, SampleEvery: 2,
		},
		"long": {
			Scenario: "figure8", Duration: 100, SpeedFactor: 4, SampleEvery: 10,
		},
		"si": {
			Scenario: "figure8-si", Duration: 6.3259, SpeedFactor: 1, SampleEvery: 1,
		},
	},
	"binary": {
		"default": {
			Scenario: "binary", Duration: 10, SpeedFactor: 1, SampleEvery: 1,
		},
	},
	"swarm": {
		"small": {
			Scenario: "swarm", Duration: 5, SpeedFactor: 0.5, Seed: 1, NumBodies: 32, SampleEvery: 10,
		},
		"large": {
			Scenario: "swarm", Duration: 5, SpeedFactor: 0.5, Seed: 1, NumBodies: 256, SampleEvery: 20,
		},
	},
	"solar": {
		"inner": {
			Scenario: "solar", Duration: 730, SpeedFactor: 30, NumBodies: 5, SampleEvery: 10,
		},
		"full": {
			Scenario: "solar", Duration: 36525, Dt: 1, SpeedFactor: 3650, SampleEvery: 100,
		},
	},
}

// GetPreset returns a copy of the named preset with server defaults filled
// in, or nil when either name is unknown.
func GetPreset(scenario, preset string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := scenarioPresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.FPS == 0 {
		c.Server.FPS = DefaultFPS
	}
	return &c
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
