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

// Package cflow implements spec.md §4.6's control-flow recovery: three
// recognizers run in sequence over a function's CFG (fall-throughs, natural
// loops, if/else conditions), annotating blocks with the structured-control-
// flow brackets (ir.Scope) the back-end printer consumes.
package cflow

import (
	"github.com/pdd-project/pdd/graph"
	"github.com/pdd-project/pdd/ir"
)

// Options carries the configuration knobs control-flow recovery consults
// (spec.md §6's "cflow.converge").
type Options struct {
	// Converge re-runs simplify's relational-rank convergence over a
	// recognized branch's condition, catching compound boolean forms left
	// over after SSA propagation (e.g. "(x<y)||(x==y)") now that the
	// branch's role in the CFG is known.
	Converge bool
}

// Result is everything control-flow recovery found, for callers (tests, the
// pipeline driver) that want the recognized structure rather than just its
// side effect on the IR's Scope annotations.
type Result struct {
	Loops      []Loop
	Conditions []Condition
}

// Run merges fall-throughs to a fixpoint, then recognizes natural loops and
// if/else diamonds over the resulting CFG, in the order spec.md §4.6
// specifies. It mutates f's blocks in place (merging, and attaching Scope
// brackets) and returns what it found.
func Run(f *ir.Function, opts Options) Result {
	MergeFallThroughs(f)

	dom := graph.BuildDominatorTree(f.CFG)
	loops := DetectLoops(f, dom)
	conds := DetectConditions(f, opts)

	return Result{Loops: loops, Conditions: conds}
}
