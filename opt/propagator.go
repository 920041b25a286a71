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

package opt

import (
	"github.com/pdd-project/pdd/ir"
	"github.com/pdd-project/pdd/ssabuild"
)

// Selector decides whether a definition's value should be propagated (or, in
// Pruner, removed). def is the left-hand side leaf, val is its current
// right-hand-side expression.
type Selector func(def, val *ir.Expr) bool

// Replacer builds the expression that should appear at use in place of a
// definition being propagated away.
type Replacer func(use, val *ir.Expr) *ir.Expr

// SafeDefs is spec.md §4.4's conservative copy-propagation selector:
// single-use, non-phi, non-implicit-init (idx != 0) definitions.
func SafeDefs(def, val *ir.Expr) bool {
	return def.Idx != nil && *def.Idx != 0 && val.Kind != ir.KPhi && len(def.Uses) == 1
}

// CopyReplacer is the default Replacer for value propagation: every use gets
// its own structural copy of val, with def/use links re-registered so the
// copy's nameable leaves still show up in their definitions' Uses lists
// (ir.Clone's contract explicitly leaves that to the caller).
func CopyReplacer(_ *ir.Expr, val *ir.Expr) *ir.Expr {
	return cloneAndRegister(val)
}

func cloneAndRegister(val *ir.Expr) *ir.Expr {
	c := ir.Clone(val, ir.PreserveIdx|ir.PreserveDef|ir.PreserveIsSafe|ir.PreserveWeak)
	for _, leaf := range ir.Leaves(c) {
		if !leaf.IsDef && leaf.Def != nil {
			leaf.Def.AddUse(leaf)
		}
	}
	return c
}

// Propagator implements spec.md §4.4's Propagator(selector, replacer): for
// every entry in ctx.Defs whose (def, val) pair satisfies sel, every use of
// def is replaced by repl(use, val); once a definition's uses are all gone
// its assignment is plucked and removed from ctx.Defs. It returns whether it
// changed anything, so Run can drive it to fixpoint.
func Propagator(ctx *ssabuild.Context, sel Selector, repl Replacer) bool {
	changed := false
	for _, key := range ctx.Defs.Keys() {
		def, ok := ctx.Defs.Load(key)
		if !ok {
			continue
		}
		assign, val, ok := defAssign(def)
		if !ok || !sel(def, val) {
			continue
		}

		uses := append([]*ir.Expr(nil), def.Uses...)
		for _, u := range uses {
			ir.Replace(u, repl(u, val))
		}
		changed = true

		if len(def.Uses) == 0 {
			removeDefAssign(ctx, key, assign)
		}
	}
	return changed
}
