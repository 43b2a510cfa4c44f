package config

import "sort"

var Presets = map[string]*Config{
	// legacy reproduces the fixed scan of the first 100 markers against trait 0.
	"legacy": {
		Format: "text", Method: "normal",
		Scan: ScanConfig{Trait: "0", Markers: 100},
	},
	"quick": {
		Format: "text", Method: "normal",
		Scan: ScanConfig{Trait: "0", Markers: 10},
	},
	"full": {
		Format: "csv", Method: "normal",
		Scan: ScanConfig{AllTraits: true},
	},
	"stable": {
		Format: "csv", Method: "qr",
		Scan: ScanConfig{AllTraits: true},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *p
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
