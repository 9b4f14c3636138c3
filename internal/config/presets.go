package config

import "sort"

var Presets = map[string]*Config{
	"small": {
		Size:      3,
		Influence: InfluenceConfig{Name: "diffused", Gain: 1},
		Autoplay:  AutoplayConfig{Policy: "sequential"},
	},
	"medium": {
		Size:      5,
		Influence: InfluenceConfig{Name: "diffused", Gain: 1},
		Autoplay:  AutoplayConfig{Policy: "serpentine"},
	},
	"large": {
		Size:      8,
		Influence: InfluenceConfig{Name: "diffused", Gain: 1},
		Autoplay:  AutoplayConfig{Policy: "random", Seed: 1},
	},
	"max": {
		Size:      10,
		Influence: InfluenceConfig{Name: "block", Gain: 1},
		Autoplay:  AutoplayConfig{Policy: "expert"},
	},
}

// GetPreset returns a copy of the named preset with unset fields defaulted,
// or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Size = p.Size
	cfg.Influence = p.Influence
	cfg.Autoplay = p.Autoplay
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
