package bnctlcli

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is bnctl's on-disk configuration: model catalogue overrides and
// server limits (SPEC_FULL.md §2: "cmd/bnctl reads a YAML config... for
// model catalogue overrides and server limits").
type Config struct {
	// ModelAliases maps a caller-facing model name to a catalogue entry name
	// (ratematrix.CatalogueNames()), letting a deployment rename or pin
	// models without touching client code.
	ModelAliases map[string]string `yaml:"modelAliases"`
	// ServeConcurrency is read from the config file; the serve subcommand
	// does not use it and starts every Recon job as soon as it is submitted.
	ServeConcurrency int `yaml:"serveConcurrency"`
}

// defaultConfig is used when no --config flag is given.
func defaultConfig() Config {
	return Config{ModelAliases: map[string]string{}, ServeConcurrency: 4}
}

// loadConfig reads and parses a YAML config file at path.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// resolveModel applies cfg's alias table, returning name unchanged if it
// has no alias.
func (c Config) resolveModel(name string) string {
	if alias, ok := c.ModelAliases[name]; ok {
		return alias
	}
	return name
}
