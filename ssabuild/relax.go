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

package ssabuild

import "github.com/pdd-project/pdd/ir"

// Relax runs the phi-relaxation fixpoint of spec.md §4.3 over ctx.Defs:
// single-argument phis collapse to a plain copy, self-referencing
// two-argument phis collapse to their other argument, and a phi whose sole
// use is itself an argument of another phi gets folded into that phi and
// deleted. It iterates ctx.Defs by snapshotting the key set on every round
// (spec.md §5's ordering guarantee), since each transform may delete entries
// the live map is being iterated over.
func Relax(ctx *Context) {
	for {
		changed := false
		for _, key := range ctx.Defs.Keys() {
			def, ok := ctx.Defs.Load(key)
			if !ok {
				continue // deleted earlier this round by a fold
			}
			assign := def.Parent
			if assign == nil || assign.Kind != ir.KAssign {
				continue
			}
			rhs := assign.Operands[1]
			if rhs.Kind != ir.KPhi {
				continue
			}
			switch {
			case collapseSingleArgPhi(rhs):
				changed = true
			case collapseSelfRefPhi(def, rhs):
				changed = true
			case foldIntoSingleUsePhi(ctx, key, def, assign, rhs):
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

// collapseSingleArgPhi rewrites x = Phi(y) to x = y.
func collapseSingleArgPhi(rhs *ir.Expr) bool {
	if len(rhs.Operands) != 1 {
		return false
	}
	ir.Replace(rhs, rhs.Operands[0])
	return true
}

// collapseSelfRefPhi rewrites x = Phi(a, x) or x = Phi(x, a) to x = a.
func collapseSelfRefPhi(def, rhs *ir.Expr) bool {
	if len(rhs.Operands) != 2 {
		return false
	}
	var other *ir.Expr
	selfCount := 0
	for _, arg := range rhs.Operands {
		if arg.Def == def {
			selfCount++
		} else {
			other = arg
		}
	}
	if selfCount != 1 || other == nil {
		return false
	}
	ir.Replace(rhs, other)
	return true
}

// foldIntoSingleUsePhi implements: when x = Phi(...) has exactly one use u,
// and u is itself an argument of another phi y = Phi(...), fold x's
// arguments into y's in place of u (skipping any that duplicate a reaching
// definition y's phi already has), then delete x's assignment entirely.
func foldIntoSingleUsePhi(ctx *Context, key string, def, assign, rhs *ir.Expr) bool {
	if len(def.Uses) != 1 {
		return false
	}
	u := def.Uses[0]
	yPhi := u.Parent
	if yPhi == nil || yPhi.Kind != ir.KPhi {
		return false
	}
	idx := yPhi.OperandIndex(u)
	if idx < 0 {
		return false
	}

	seen := make(map[*ir.Expr]bool)
	for i, a := range yPhi.Operands {
		if i == idx {
			continue
		}
		if a.Def != nil {
			seen[a.Def] = true
		}
	}

	def.RemoveUse(u)
	u.Parent = nil

	merged := append([]*ir.Expr(nil), yPhi.Operands[:idx]...)
	for _, a := range rhs.Operands {
		if a.Def != nil && seen[a.Def] {
			if a.Def != nil {
				a.Def.RemoveUse(a)
			}
			continue
		}
		a.Parent = yPhi
		merged = append(merged, a)
		if a.Def != nil {
			seen[a.Def] = true
		}
	}
	merged = append(merged, yPhi.Operands[idx+1:]...)
	yPhi.Operands = merged

	if stmt := assign.Stmt; stmt != nil && stmt.Parent != nil {
		stmt.Parent.RemoveStmt(stmt)
	}
	ctx.Defs.Delete(key)
	return true
}
