package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMethod  = "normal"
	DefaultFormat  = "text"
	DefaultDataDir = ".sems"
	DefaultTrait   = "0"
)

type Config struct {
	Genotype  string       `yaml:"genotype"`
	Phenotype string       `yaml:"phenotype"`
	Output    string       `yaml:"output"`
	Format    string       `yaml:"format"`
	Method    string       `yaml:"method"`
	Scan      ScanConfig   `yaml:"scan"`
	Expect    ExpectConfig `yaml:"expect"`
}

type ScanConfig struct {
	// Trait is a trait index or name.
	Trait     string `yaml:"trait"`
	AllTraits bool   `yaml:"all_traits"`
	Markers   int    `yaml:"markers"`
	Offset    int    `yaml:"offset"`
	Workers   int    `yaml:"workers"`
}

// ExpectConfig holds optional table sizes; zero means unchecked.
type ExpectConfig struct {
	Individuals int `yaml:"individuals"`
	Markers     int `yaml:"markers"`
	Traits      int `yaml:"traits"`
}

func DefaultConfig() *Config {
	return &Config{
		Format: DefaultFormat,
		Method: DefaultMethod,
		Scan: ScanConfig{
			Trait: DefaultTrait,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
