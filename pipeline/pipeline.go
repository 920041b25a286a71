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

// Package pipeline wires spec.md §2's six stages together in dependency
// order for one function: SSA construction, the optimizer driver, live-range
// and preserved-location analysis, control-flow recovery, and finally
// transform_out for the back-end printer. Nothing elsewhere names an order
// to run those stages in, so that orchestration lives here rather than in
// the CLI.
package pipeline

import (
	"github.com/pdd-project/pdd/cflow"
	"github.com/pdd-project/pdd/config"
	"github.com/pdd-project/pdd/diagnostic"
	"github.com/pdd-project/pdd/ir"
	"github.com/pdd-project/pdd/liverange"
	"github.com/pdd-project/pdd/opt"
	"github.com/pdd-project/pdd/pdderr"
	"github.com/pdd-project/pdd/ssabuild"
)

// maxFixpointIterations bounds every capped fixpoint loop in Run. spec.md §7
// requires "an implementation-defined iteration cap" for FixpointDiverged;
// this is that cap's one definition, shared by every pass driven here.
const maxFixpointIterations = 10000

// Result is everything Run produced for one function: the mutated function
// itself (ready for the back-end printer), the recovered loop/condition
// structure, and the locations preserved-location analysis identified.
type Result struct {
	Function   *ir.Function
	Loops      []cflow.Loop
	Conditions []cflow.Condition
	Preserved  []*ir.Expr
}

// Run executes the full pipeline over f: SSA construction (ssabuild.Build),
// the optimizer driver (opt.Propagator/Pruner to fixpoint), live-range and
// preserved-location analysis (liverange), a follow-up pruner pass so
// preserved-location's Weak/Prune marks actually get eliminated, control-flow
// recovery (cflow.Run), and ir.TransformOut. Per spec.md §7, no stage panics
// across this boundary; a pass that exceeds its iteration cap logs
// FixpointDiverged and Run continues with the IR in its current state.
func Run(f *ir.Function, cfg config.Config, log *diagnostic.Log) Result {
	ctx := ssabuild.Build(f, nil)

	runToFixpoint(f, log, "propagate-safe-defs", func() bool {
		return opt.Propagator(ctx, opt.SafeDefs, opt.CopyReplacer)
	})
	runToFixpoint(f, log, "prune-dead-regs", func() bool {
		return opt.Pruner(ctx, opt.DeadRegs)
	})
	runToFixpoint(f, log, "prune-dead-derefs", func() bool {
		return opt.Pruner(ctx, opt.DeadDerefs(cfg.OptOptions()))
	})
	runToFixpoint(f, log, "extract-dead-results", func() bool {
		return opt.DeadResults(ctx)
	})
	runToFixpoint(f, log, "prune-circular-phis", func() bool {
		return opt.Pruner(ctx, opt.CircularPhis)
	})

	alive := liverange.Analyze(f, liverange.Options{})
	preserved := liverange.PreservedLocations(f, alive)

	runToFixpoint(f, log, "prune-preserved-defs", func() bool {
		return opt.Pruner(ctx, opt.DeadRegs)
	})

	result := cflow.Run(f, cfg.CflowOptions())
	ir.TransformOut(f)

	log.Infof(f.Name, "recovered %d loop(s), %d condition(s), %d preserved location(s)",
		len(result.Loops), len(result.Conditions), len(preserved))

	return Result{
		Function:   f,
		Loops:      result.Loops,
		Conditions: result.Conditions,
		Preserved:  preserved,
	}
}

// runToFixpoint repeats step until it reports no change or maxFixpointIterations
// is reached, in which case it logs FixpointDiverged for f and stops, leaving
// the IR in whatever state the last completed iteration left it.
func runToFixpoint(f *ir.Function, log *diagnostic.Log, stage string, step func() bool) {
	for i := 0; i < maxFixpointIterations; i++ {
		if !step() {
			return
		}
	}
	log.Fail(f.Name, pdderr.New(pdderr.FixpointDiverged, f.Name, "%s did not converge within %d iterations", stage, maxFixpointIterations))
}
