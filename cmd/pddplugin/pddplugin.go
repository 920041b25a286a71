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

// Package pddplugin is the plugin shim spec.md §1(d) names as an external
// collaborator: "the plugin shim that integrates the decompiler into a host
// process." It registers the mid-end pipeline with golangci-lint's
// module-plugin mechanism, the same registration idiom the grounding base
// uses to plug itself into golangci-lint as cmd/gclplugin.
//
// The fit is partial: golangci-lint's analysis.Analyzer is shaped around
// walking go/ast over a type-checked package, and this pipeline operates on
// a lifted register/memory IR that has nothing to do with Go source. The
// analyzer built here is a development aid, not the pipeline's real
// integration point -- it loads a textcfg fixture named by the "source"
// setting, runs the pipeline over it, and surfaces whatever ended up in the
// diagnostic.Log as lint findings anchored at the package's first file, so
// the pipeline's FixpointDiverged/MalformedIR reporting is exercisable
// through a host golangci-lint already knows how to drive.
package pddplugin

import (
	"fmt"
	"os"

	"github.com/golangci/plugin-module-register/register"
	"golang.org/x/tools/go/analysis"

	"github.com/pdd-project/pdd/config"
	"github.com/pdd-project/pdd/diagnostic"
	"github.com/pdd-project/pdd/lifter/textcfg"
	"github.com/pdd-project/pdd/pipeline"
)

func init() {
	register.Plugin("pdd", New)
}

// New returns the golangci-lint plugin wrapping the mid-end pipeline.
func New(settings any) (register.LinterPlugin, error) {
	s, ok := settings.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expect pdd's configuration to be a map from string to string, got %T", settings)
	}
	conf := make(map[string]string, len(s))
	for k, v := range s {
		vStr, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expect pdd's configuration value for %q to be a string, got %T", k, v)
		}
		conf[k] = vStr
	}
	return &PDDPlugin{conf: conf}, nil
}

// PDDPlugin is the pdd plugin wrapper for golangci-lint.
type PDDPlugin struct {
	conf map[string]string
}

// BuildAnalyzers builds a single analyzer that runs the mid-end pipeline
// over the textcfg fixture named by the "source" setting.
func (p *PDDPlugin) BuildAnalyzers() ([]*analysis.Analyzer, error) {
	source, ok := p.conf["source"]
	if !ok || source == "" {
		return nil, fmt.Errorf("pdd plugin requires a \"source\" setting naming a textcfg fixture to run")
	}
	cfg := config.Default()
	if path, ok := p.conf["config"]; ok && path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading pdd config %s: %w", path, err)
		}
		cfg = loaded
	}

	analyzer := &analysis.Analyzer{
		Name: "pdd",
		Doc:  "runs the pdd mid-end pipeline over a textcfg fixture and reports its diagnostic log",
		Run: func(pass *analysis.Pass) (any, error) {
			return runPipeline(pass, source, cfg)
		},
	}
	return []*analysis.Analyzer{analyzer}, nil
}

// GetLoadMode returns the load mode of the pdd plugin. No type information
// is needed since the analyzer never inspects the package's go/ast.
func (p *PDDPlugin) GetLoadMode() string { return register.LoadModeSyntax }

func runPipeline(pass *analysis.Pass, source string, cfg config.Config) (any, error) {
	if len(pass.Files) == 0 {
		return nil, nil
	}
	anchor := pass.Files[0].Pos()

	src, err := os.ReadFile(source)
	if err != nil {
		pass.Reportf(anchor, "pdd: reading %s: %v", source, err)
		return nil, nil
	}
	f, err := textcfg.ParseFunction(string(src))
	if err != nil {
		pass.Reportf(anchor, "pdd: parsing %s: %v", source, err)
		return nil, nil
	}

	log := diagnostic.NewLog()
	pipeline.Run(f, cfg, log)
	for _, entry := range log.Entries {
		pass.Reportf(anchor, "pdd: %s", entry.String())
	}
	return nil, nil
}
