// Package config loads the run parameters a scheduling invocation
// needs beyond the task graph itself: the deadline, the core count,
// and output preferences.
package config

import (
	"os"

	yaml "github.com/goccy/go-yaml"
)

// Config mirrors config.yaml.
type Config struct {
	Deadline int    `yaml:"deadline"` // 0 when unset; used as-is as the target makespan
	Cores    int    `yaml:"cores"`    // 1 (by default)
	Output   string `yaml:"output"`   // "text" or "json"
	Viz      bool   `yaml:"viz"`      // start the Gantt viewer server
	VizPort  int    `yaml:"viz_port"` // 7171 (by default)
}

// defaultConfig returns the config used when no file is present.
func defaultConfig() Config {
	return Config{
		Cores:   1,
		Output:  "text",
		VizPort: 7171,
	}
}

// Load reads YAML and overrides defaults; an empty path returns
// defaults only, matching the "no config found" behavior of a CLI
// invoked with no flags.
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	_ = yaml.Unmarshal(data, &cfg)

	if cfg.Cores <= 0 {
		cfg.Cores = 1
	}
	if cfg.Output != "json" {
		cfg.Output = "text"
	}
	if cfg.VizPort <= 0 {
		cfg.VizPort = 7171
	}

	return cfg
}
