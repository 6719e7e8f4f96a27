// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the schoolmatch run configuration from an optional
// YAML file and SCHOOLMATCH_* environment variables.
package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/viper"
)

const EnvPrefix = "SCHOOLMATCH"

type Config struct {
	Input      InputConfig      `mapstructure:"input"`
	Output     OutputConfig     `mapstructure:"output"`
	Scoring    ScoringConfig    `mapstructure:"scoring"`
	Allocation AllocationConfig `mapstructure:"allocation"`
	Log        LogConfig        `mapstructure:"log"`
}

type InputConfig struct {
	// Dir is searched for person, preference and schools workbooks.
	Dir              string `mapstructure:"dir"`
	PersonPattern    string `mapstructure:"personPattern"`
	PreferenceSuffix string `mapstructure:"preferenceSuffix"`
	SchoolsFile      string `mapstructure:"schoolsFile"`
	// JSONFile, when set, replaces the workbooks with a single JSON document.
	JSONFile string `mapstructure:"jsonFile"`
}

type OutputConfig struct {
	// File ending in .json is written as JSON, otherwise as xlsx.
	File string `mapstructure:"file"`
	// MetricsFile receives prometheus metrics in text format, empty disables.
	MetricsFile string `mapstructure:"metricsFile"`
}

type ScoringConfig struct {
	GradeWeight            float64 `mapstructure:"gradeWeight"`
	ComputerLiterateWeight float64 `mapstructure:"computerLiterateWeight"`
	PhDWeight              float64 `mapstructure:"phdWeight"`
	// OverridesFile is a YAML list of {agent_id, score}.
	OverridesFile string `mapstructure:"overridesFile"`
}

type AllocationConfig struct {
	TieBreak string `mapstructure:"tieBreak"`
	// Workers bounds concurrent scoring, 0 uses every CPU.
	Workers int `mapstructure:"workers"`
}

type LogConfig struct {
	Verbosity   int  `mapstructure:"verbosity"`
	Development bool `mapstructure:"development"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input.dir", ".")
	v.SetDefault("input.personPattern", "person*.xlsx")
	v.SetDefault("input.preferenceSuffix", "_schools_preference.xlsx")
	v.SetDefault("input.schoolsFile", "schools.xlsx")
	v.SetDefault("input.jsonFile", "")

	v.SetDefault("output.file", "assignments.xlsx")
	v.SetDefault("output.metricsFile", "")

	v.SetDefault("scoring.gradeWeight", 10.0)
	v.SetDefault("scoring.computerLiterateWeight", 5.0)
	v.SetDefault("scoring.phdWeight", 15.0)
	v.SetDefault("scoring.overridesFile", "")

	v.SetDefault("allocation.tieBreak", "enumeration")
	v.SetDefault("allocation.workers", 0)

	v.SetDefault("log.verbosity", 2)
	v.SetDefault("log.development", false)
}

// Load reads the configuration. An empty path uses defaults and environment
// only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks for invalid configuration values.
func (c *Config) Validate() error {
	weights := map[string]float64{
		"gradeWeight":            c.Scoring.GradeWeight,
		"computerLiterateWeight": c.Scoring.ComputerLiterateWeight,
		"phdWeight":              c.Scoring.PhDWeight,
	}
	for name, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%s must be finite, got %v", name, w)
		}
	}
	switch c.Allocation.TieBreak {
	case "enumeration", "agent_id":
	default:
		return fmt.Errorf("tieBreak must be enumeration or agent_id, got %q", c.Allocation.TieBreak)
	}
	if c.Allocation.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Allocation.Workers)
	}
	if c.Log.Verbosity < 0 {
		return fmt.Errorf("log verbosity must be >= 0, got %d", c.Log.Verbosity)
	}
	if c.Input.JSONFile == "" {
		if c.Input.PersonPattern == "" || c.Input.PreferenceSuffix == "" || c.Input.SchoolsFile == "" {
			return fmt.Errorf("personPattern, preferenceSuffix and schoolsFile are required")
		}
	}
	if c.Output.File == "" {
		return fmt.Errorf("output file is required")
	}
	return nil
}
