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

package ir

// These are the tree-mutation primitives every later pass (simplify,
// ssabuild, opt) is built on. Every one of them must, before returning,
// leave the three bidirectional links in §3's invariants consistent: a
// child's Parent pointer, a use's Def pointer, and a definition's Uses list.
// Getting this wrong silently is, per spec.md §5, "the single largest source
// of bugs" -- so these functions do the bookkeeping once, here, rather than
// asking every caller to repeat it.

// detachUsesExcept walks e's subtree and, for every nameable leaf use (a
// Reg/Var/Deref with IsDef == false and a non-nil Def) not present (by
// pointer identity) in the keep set, removes it from its definition's Uses
// list; such a use below e also has its Parent cleared (e's own links are
// left to the caller). The keep set lets Replace avoid detaching uses that are being reused
// inside the replacement subtree (a common pattern in the simplifier:
// `x + (-c) -> x - c` reuses the actual `x` sub-expression object).
func detachUsesExcept(e *Expr, keep map[*Expr]bool) {
	if e == nil || keep[e] {
		return
	}
	if e.Kind.Nameable() && !e.IsDef && e.Def != nil {
		e.Def.RemoveUse(e)
	}
	for _, o := range e.Operands {
		detachUsesExcept(o, keep)
		if o != nil && !keep[o] && o.Kind.Nameable() && !o.IsDef && o.Def != nil {
			o.Parent = nil
		}
	}
}

func collectIdentitySet(e *Expr, into map[*Expr]bool) {
	if e == nil || into[e] {
		return
	}
	into[e] = true
	for _, o := range e.Operands {
		collectIdentitySet(o, into)
	}
}

// spliceInto installs repl in old's position, either as an operand of old's
// parent expression or as the top-level expression of old's statement.
func spliceInto(old, repl *Expr) {
	switch {
	case old.Parent != nil:
		idx := old.Parent.OperandIndex(old)
		SetOperand(old.Parent, idx, repl)
	case old.Stmt != nil:
		for i, e := range old.Stmt.Exprs {
			if e == old {
				old.Stmt.Exprs[i] = repl
				repl.Parent = nil
				propagateStmt(repl, old.Stmt)
				break
			}
		}
	}
}

// Replace splices new into old's parent slot (or its statement's top-level
// expression list, if old had no parent expression), then detaches old:
// every nameable leaf inside old that is not also reachable from new is
// removed from its definition's Uses list. new's own internal def/use links
// are left untouched ("preserves uses for the replacement's operands").
func Replace(old, new *Expr) {
	if old == new {
		return
	}
	keep := map[*Expr]bool{}
	collectIdentitySet(new, keep)
	detachUsesExcept(old, keep)

	spliceInto(old, new)

	old.Parent = nil
	old.Stmt = nil
}

// Pluck removes e from its parent (or its statement's expression list). If
// detachUses is true, every nameable leaf use inside e is first removed from
// its definition's Uses list -- pass false only when the caller has already
// handled those links itself (e.g. because it immediately re-wires e
// elsewhere).
func Pluck(e *Expr, detachUses bool) {
	if detachUses {
		detachUsesExcept(e, nil)
	}
	switch {
	case e.Parent != nil:
		parent := e.Parent
		idx := parent.OperandIndex(e)
		if idx >= 0 {
			parent.Operands = append(parent.Operands[:idx], parent.Operands[idx+1:]...)
		}
	case e.Stmt != nil:
		stmt := e.Stmt
		for i, x := range stmt.Exprs {
			if x == e {
				stmt.Exprs = append(stmt.Exprs[:i], stmt.Exprs[i+1:]...)
				break
			}
		}
	}
	e.Parent = nil
	e.Stmt = nil
}

// Leaves returns every nameable (Reg/Var/Deref) leaf reachable within e's
// subtree, in left-to-right order. Used by phi insertion (to find locally
// defined operands) and by the live-range walk (to find uses in a block).
func Leaves(e *Expr) []*Expr {
	var out []*Expr
	var walk func(*Expr)
	walk = func(e *Expr) {
		if e == nil {
			return
		}
		if e.Kind.Nameable() {
			out = append(out, e)
		}
		for _, o := range e.Operands {
			walk(o)
		}
	}
	walk(e)
	return out
}
