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

// Pruner implements spec.md §4.4's Pruner(selector): for every entry in
// ctx.Defs whose (def, val) pair satisfies sel, its assignment is plucked and
// the entry removed. It returns whether it changed anything.
func Pruner(ctx *ssabuild.Context, sel Selector) bool {
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
		removeDefAssign(ctx, key, assign)
		changed = true
	}
	return changed
}

// DeadRegs matches a Reg definition with no remaining uses whose value is
// either not a Call (calls are kept for their side effects unless def.Prune
// is explicitly set by an architecture-specific pass).
func DeadRegs(def, val *ir.Expr) bool {
	if def.Kind != ir.KReg || len(def.Uses) != 0 {
		return false
	}
	return val.Kind != ir.KCall || def.Prune
}

// DeadDerefs returns a Selector matching a Deref definition with no
// remaining uses, following spec.md §4.4's additional aliasing guard: unless
// the deref is marked IsSafe, the store is only removable when its value is
// a Phi or noalias is configured, AND its address expression doesn't itself
// read a variable that is still live elsewhere (approximated here as: a
// nameable leaf in the address whose own definition has uses beyond this
// leaf) -- otherwise discarding the store could discard the only remaining
// evidence that the address computation matters to preserved-location
// analysis.
func DeadDerefs(opts Options) Selector {
	return func(def, val *ir.Expr) bool {
		if def.Kind != ir.KDeref || len(def.Uses) != 0 {
			return false
		}
		if def.IsSafe {
			return true
		}
		if val.Kind != ir.KPhi && !opts.NoAlias {
			return false
		}
		return !addressHasLiveVariable(def.Operands[0])
	}
}

func addressHasLiveVariable(addr *ir.Expr) bool {
	for _, leaf := range ir.Leaves(addr) {
		if leaf.Def != nil && len(leaf.Def.Uses) > 1 {
			return true
		}
	}
	return false
}

// DeadResults is a Pass (not a plain Selector, since it must rewrite rather
// than simply delete): a Reg definition with no uses whose value is a Call
// has its call extracted as a standalone expression statement, preserving
// the call's side effects while dropping the now-pointless assignment.
func DeadResults(ctx *ssabuild.Context) bool {
	changed := false
	for _, key := range ctx.Defs.Keys() {
		def, ok := ctx.Defs.Load(key)
		if !ok {
			continue
		}
		assign, val, ok := defAssign(def)
		if !ok {
			continue
		}
		if def.Kind != ir.KReg || len(def.Uses) != 0 || val.Kind != ir.KCall {
			continue
		}
		ir.Replace(assign, val)
		ctx.Defs.Delete(key)
		changed = true
	}
	return changed
}

// CircularPhis matches a Phi definition whose arguments all trace back,
// through zero or more other Phi definitions, only to members of the same
// closed group (no argument ever bottoms out at a non-Phi value), and whose
// own uses (if any) stay entirely within that same group -- a phi (or ring
// of phis) that carries no value originating from outside itself, per
// spec.md §4.4's "single-use phi assigned to self", "single-use phi assigned
// to circular chain", and "fully circular phi" cases, unified into one
// visited-set DFS over both the argument side and the use side.
func CircularPhis(def, val *ir.Expr) bool {
	if val.Kind != ir.KPhi {
		return false
	}
	visited := map[*ir.Expr]bool{def: true}
	return argsAllCircular(val, visited) && usesAllCircular(def, visited)
}

func argsAllCircular(phiVal *ir.Expr, visited map[*ir.Expr]bool) bool {
	for _, arg := range phiVal.Operands {
		d := arg.Def
		if d == nil {
			return false // a literal/constant argument comes from outside the group
		}
		if visited[d] {
			continue
		}
		dAssign := d.Parent
		if dAssign == nil || dAssign.Kind != ir.KAssign {
			return false
		}
		dVal := dAssign.Operands[1]
		if dVal.Kind != ir.KPhi {
			return false
		}
		visited[d] = true
		if !argsAllCircular(dVal, visited) {
			return false
		}
	}
	return true
}

func usesAllCircular(def *ir.Expr, visited map[*ir.Expr]bool) bool {
	for _, u := range def.Uses {
		parentPhi := u.Parent
		if parentPhi == nil || parentPhi.Kind != ir.KPhi {
			return false // a genuine external consumer
		}
		owner := parentPhi.Parent
		if owner == nil || owner.Kind != ir.KAssign {
			return false
		}
		ownerDef := owner.Operands[0]
		if visited[ownerDef] {
			continue
		}
		visited[ownerDef] = true
		if !usesAllCircular(ownerDef, visited) {
			return false
		}
	}
	return true
}
