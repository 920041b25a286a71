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

// pdd is the CLI surface spec.md §6 describes as out of core scope:
// "single command pdd with suffixes pddj (JSON) and pdd? (help); exit codes
// follow host conventions." It loads configuration, feeds a textcfg fixture
// through the front-end contract (lifter.Build), runs pipeline.Run, and
// prints either a plain-text or JSON report of what the mid-end recovered.
// Wiring a real front-end lifter or analysis host is the surrounding
// integration's job, not this binary's; --from-text is the only supported
// IR source here, the same role the grounding base's command-line flags
// play for feeding an already-built package to the analyzer.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pdd-project/pdd/config"
	"github.com/pdd-project/pdd/diagnostic"
	"github.com/pdd-project/pdd/lifter/textcfg"
	"github.com/pdd-project/pdd/pipeline"
)

var (
	_configPath string
	_fromText   string
)

func main() {
	flag.StringVar(&_configPath, "config", "", "path to a YAML configuration file; defaults built in when omitted")
	flag.StringVar(&_fromText, "from-text", "", "path to a textcfg fixture to use as the function's IR, in place of a real front-end/host connection")
	flag.Parse()

	command := "pdd"
	if args := flag.Args(); len(args) > 0 {
		command = args[0]
	}

	if strings.HasSuffix(command, "?") {
		printHelp()
		return
	}

	cfg, err := loadConfig(_configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pdd: %v\n", err)
		os.Exit(1)
	}

	if _fromText == "" {
		fmt.Fprintln(os.Stderr, "pdd: -from-text is required (no front-end/host connection is wired into this binary)")
		os.Exit(1)
	}
	src, err := os.ReadFile(_fromText)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pdd: reading %s: %v\n", _fromText, err)
		os.Exit(1)
	}
	f, err := textcfg.ParseFunction(string(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "pdd: parsing %s: %v\n", _fromText, err)
		os.Exit(1)
	}

	log := diagnostic.NewLog()
	result := pipeline.Run(f, cfg, log)

	if strings.HasSuffix(command, "j") {
		printJSON(result, log)
	} else {
		printPlain(result, log, cfg)
	}

	if log.HasErrors() {
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func printHelp() {
	fmt.Println(`pdd -- mid-end pipeline CLI

Usage:
  pdd   -from-text FILE [-config FILE]   run the pipeline, print a plain-text report
  pddj  -from-text FILE [-config FILE]   run the pipeline, print a JSON report
  pdd?                                   print this message

Flags:
  -from-text FILE   textcfg fixture to use as the function's IR
  -config FILE      YAML configuration file (see config.Config)`)
}

func printPlain(result pipeline.Result, log *diagnostic.Log, cfg config.Config) {
	var b strings.Builder
	log.Print(&b, diagnosticTheme(cfg.Out.Theme))
	fmt.Print(b.String())

	f := result.Function
	fmt.Printf("function %s @ %#x (%d block(s))\n", f.Name, f.Addr, len(f.Blocks))
	for _, loop := range result.Loops {
		fmt.Printf("  loop header=%#x latch=%#x body=%d block(s)\n", loop.Header.Addr, loop.Latch.Addr, len(loop.Body))
	}
	for _, cond := range result.Conditions {
		fmt.Printf("  condition branch=%#x then=%d block(s) else=%d block(s)\n",
			cond.Branch.Addr, len(cond.Then), len(cond.Else))
	}
	fmt.Printf("  %d preserved location(s)\n", len(result.Preserved))
}

// jsonReport is the shape pddj emits: enough structure for a caller to act
// on programmatically without depending on this binary's plain-text layout.
type jsonReport struct {
	Function struct {
		Name   string `json:"name"`
		Addr   uint64 `json:"addr"`
		Blocks int    `json:"blocks"`
	} `json:"function"`
	Loops      int              `json:"loops"`
	Conditions int              `json:"conditions"`
	Preserved  int              `json:"preserved"`
	Diagnostics []diagnosticJSON `json:"diagnostics"`
}

type diagnosticJSON struct {
	Severity string `json:"severity"`
	Function string `json:"function"`
	Message  string `json:"message"`
}

func printJSON(result pipeline.Result, log *diagnostic.Log) {
	var report jsonReport
	report.Function.Name = result.Function.Name
	report.Function.Addr = result.Function.Addr
	report.Function.Blocks = len(result.Function.Blocks)
	report.Loops = len(result.Loops)
	report.Conditions = len(result.Conditions)
	report.Preserved = len(result.Preserved)
	for _, e := range log.Entries {
		report.Diagnostics = append(report.Diagnostics, diagnosticJSON{
			Severity: e.Severity.String(),
			Function: e.Function,
			Message:  e.Message,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		fmt.Fprintf(os.Stderr, "pdd: encoding report: %v\n", err)
		os.Exit(1)
	}
}

func diagnosticTheme(t config.Theme) diagnostic.Theme {
	switch t {
	case config.ThemeDark:
		return diagnostic.ThemeDark
	case config.ThemeLight:
		return diagnostic.ThemeLight
	default:
		return diagnostic.ThemeNone
	}
}
