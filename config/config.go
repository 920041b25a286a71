// Copyright (c) 2026 The PDD Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the pipeline's configuration surface (spec.md §6):
// the optimizer's noalias flag, control-flow recovery's converge flag, and
// the back-end printer's purely cosmetic output options.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pdd-project/pdd/cflow"
	"github.com/pdd-project/pdd/opt"
)

// Theme names the back-end printer's color scheme.
type Theme string

const (
	ThemeNone  Theme = "none"
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// OptConfig mirrors opt.Options on the wire.
type OptConfig struct {
	NoAlias bool `yaml:"noalias"`
}

// CflowConfig mirrors cflow.Options on the wire.
type CflowConfig struct {
	Converge bool `yaml:"converge"`
}

// OutConfig holds the back-end printer's cosmetic options. The core pipeline
// never reads these; they pass through untouched for the printer layer
// (spec.md §6: "purely back-end print options, not core").
type OutConfig struct {
	Offsets bool   `yaml:"offsets"`
	Guides  bool   `yaml:"guides"`
	Newline string `yaml:"newline"`
	TabSize int    `yaml:"tabsize"`
	Theme   Theme  `yaml:"theme"`
}

// Config is the pipeline's full configuration surface.
type Config struct {
	Opt   OptConfig   `yaml:"opt"`
	Cflow CflowConfig `yaml:"cflow"`
	Out   OutConfig   `yaml:"out"`
}

// Default returns the configuration the pipeline uses when the caller
// supplies none: aliasing-conservative, no condition re-convergence, a
// plain ASCII printer with no color theme.
func Default() Config {
	return Config{
		Out: OutConfig{
			Newline: "\n",
			TabSize: 4,
			Theme:   ThemeNone,
		},
	}
}

// Load reads and parses a YAML configuration file at path, starting from
// Default() so a partial file only overrides the fields it mentions.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// OptOptions adapts c's optimizer knobs to opt.Options.
func (c Config) OptOptions() opt.Options {
	return opt.Options{NoAlias: c.Opt.NoAlias}
}

// CflowOptions adapts c's control-flow knobs to cflow.Options.
func (c Config) CflowOptions() cflow.Options {
	return cflow.Options{Converge: c.Cflow.Converge}
}
