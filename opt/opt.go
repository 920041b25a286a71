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

// Package opt implements the Propagator/Pruner optimizer driver of spec.md
// §4.4: passes that walk a function's SSA definition table (ctx.Defs) looking
// for definitions matching a selector, either substituting their value at
// every use site or removing them outright.
package opt

import (
	"github.com/pdd-project/pdd/ir"
	"github.com/pdd-project/pdd/ssabuild"
)

// Options carries the configuration knobs the built-in selectors consult
// (spec.md §4.4's "noalias configuration").
type Options struct {
	NoAlias bool
}

// Pass is one optimizer pass: it runs once over ctx and reports whether it
// changed anything. The driver (Run) repeats a pass until it reports false
// (spec.md §4.7: "Optimizer per-pass state is {running, stable}; passes loop
// until run() returns false"), then moves to the next pass.
type Pass func(ctx *ssabuild.Context) bool

// Run drives each pass to its own fixpoint in order before moving to the
// next, per spec.md §4.4: "runs each pass to fixpoint before moving to the
// next pass."
func Run(ctx *ssabuild.Context, passes ...Pass) {
	for _, p := range passes {
		for p(ctx) {
		}
	}
}

// defAssign returns def's enclosing Assign expression and its rhs value, or
// ok == false if def is not currently a live ctx.Defs-style definition (e.g.
// it was already removed earlier in the same pass).
func defAssign(def *ir.Expr) (assign, val *ir.Expr, ok bool) {
	assign = def.Parent
	if assign == nil || assign.Kind != ir.KAssign {
		return nil, nil, false
	}
	return assign, assign.Operands[1], true
}

// removeDefAssign plucks def's entire assignment out of its statement,
// detaching every use it made of other definitions, removes the now-empty
// statement from its container, and removes def from ctx.Defs. Pluck alone
// only empties the statement's Exprs slice -- it does not know whether the
// statement itself should disappear, since some callers reuse a statement
// for a replacement expression (see DeadResults' use of ir.Replace instead).
func removeDefAssign(ctx *ssabuild.Context, key string, assign *ir.Expr) {
	stmt := assign.Stmt
	ir.Pluck(assign, true)
	if stmt != nil && stmt.Parent != nil {
		stmt.Parent.RemoveStmt(stmt)
	}
	ctx.Defs.Delete(key)
}
