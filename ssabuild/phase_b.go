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

import (
	"github.com/pdd-project/pdd/graph"
	"github.com/pdd-project/pdd/ir"
)

// Rename runs Phase B of spec.md §4.3: a dominator-tree pre-order walk that
// assigns fresh SSA subscripts to every definition matching sel, wires every
// matching use to its reaching definition, and fills in the corresponding
// phi argument at every successor block.
func Rename(ctx *Context, f *ir.Function, dom *graph.DominatorTree[*ir.BasicBlock], sel Selector) {
	renameBlock(ctx, f, dom, sel, dom.Root())
}

func renameBlock(ctx *Context, f *ir.Function, dom *graph.DominatorTree[*ir.BasicBlock], sel Selector, id graph.ID) {
	b, ok := f.CFG.GetNode(id)
	if !ok {
		return
	}

	var pushed []string
	for _, stmt := range b.Body.Stmts {
		pushed = append(pushed, renameStmt(ctx, sel, stmt)...)
	}

	for _, succID := range f.CFG.Successors(id) {
		wireSuccessorPhis(ctx, f, sel, id, succID)
	}

	for _, child := range dom.Successors(id) {
		renameBlock(ctx, f, dom, sel, child)
	}

	for _, key := range pushed {
		ctx.popDef(key)
	}
}

// renameStmt renames every operand of stmt matching sel, returning the name
// keys of any fresh definitions it pushed (so the caller can pop them once
// this block's subtree has been fully walked).
func renameStmt(ctx *Context, sel Selector, stmt *ir.Stmt) []string {
	if stmt.IsPhiAssign() {
		lhs := stmt.Exprs[0].Operands[0]
		if !sel(lhs) {
			return nil
		}
		return []string{defineNewVersion(ctx, lhs)}
	}

	var pushed []string
	for _, top := range stmt.Exprs {
		if top.Kind == ir.KAssign {
			lhs, rhs := top.Operands[0], top.Operands[1]
			renameUsesRec(ctx, sel, rhs)
			renameUsesRec(ctx, sel, lhs) // walks into e.g. a Deref's address operand
			if sel(lhs) {
				pushed = append(pushed, defineNewVersion(ctx, lhs))
			}
		} else {
			renameUsesRec(ctx, sel, top)
		}
	}
	return pushed
}

// renameUsesRec walks e's subtree and treats every nameable leaf matching
// sel that is not itself a definition (IsDef == false) as a use, resolving
// it against the current reaching definition.
func renameUsesRec(ctx *Context, sel Selector, e *ir.Expr) {
	if e == nil {
		return
	}
	if e.Kind.Nameable() && !e.IsDef && sel(e) {
		resolveUse(ctx, e)
	}
	for _, o := range e.Operands {
		renameUsesRec(ctx, sel, o)
	}
}

// defineNewVersion assigns lhs the next SSA subscript for its name, pushes
// it as the new reaching definition, and registers it in ctx.Defs. It
// returns the name key, so the dominator-tree walk can pop it on return.
func defineNewVersion(ctx *Context, lhs *ir.Expr) string {
	key := nameKey(lhs)
	ctx.count[key]++
	idx := ctx.count[key]
	lhs.Idx = &idx
	if lhs.Uses == nil {
		lhs.Uses = []*ir.Expr{}
	}
	ctx.pushDef(lhs, idx)
	return key
}

// resolveUse wires use to its current reaching definition, synthesizing an
// implicit zero-initialization if none exists yet (spec.md §4.3's add_use).
func resolveUse(ctx *Context, use *ir.Expr) {
	key := nameKey(use)
	def, ok := ctx.topDef(key)
	if !ok {
		def = implicitInit(ctx, use, key)
	}
	idx := *def.Idx
	use.Idx = &idx
	use.Def = def
	def.AddUse(use)
}

// implicitInit synthesizes `name_0 = Val(0)` in ctx.Uninit for a name used
// before any definition reaches it -- typical for the stack pointer or
// argument registers (spec.md §4.3). The synthesized definition is pushed
// permanently: it is never popped by the dominator-tree walk, since it was
// not created during any block's ordinary step-1 processing.
func implicitInit(ctx *Context, like *ir.Expr, key string) *ir.Expr {
	// PreserveIdx so that, for a Deref, the cloned address's own subscripts
	// match like's -- pushDef recomputes the name key from def itself, and
	// that recomputed key must equal the key the caller already resolved.
	def := ir.Clone(like, ir.PreserveIdx)
	def.IsDef = true
	def.Weak = true
	def.Uses = []*ir.Expr{}
	zero := 0
	def.Idx = &zero

	assign := ir.NewAssign(def, ir.NewVal(0, like.Size))
	stmt := ir.NewStmt(ir.SExpr, ctx.Uninit.Entry, assign)
	ctx.Uninit.Append(stmt)

	ctx.pushDef(def, 0)
	return def
}

// wireSuccessorPhis fills in the from-block's argument slot of every phi at
// the top of successor `to` whose defined variable matches sel (spec.md
// §4.3 Phase B step 2).
func wireSuccessorPhis(ctx *Context, f *ir.Function, sel Selector, from, to graph.ID) {
	j := f.CFG.PredIndex(from, to)
	if j < 0 {
		return
	}
	toBlock, ok := f.CFG.GetNode(to)
	if !ok {
		return
	}
	for _, stmt := range toBlock.Body.PhiStmts() {
		assign := stmt.Exprs[0]
		lhs := assign.Operands[0]
		if !sel(lhs) {
			continue
		}
		phi := assign.Operands[1]
		if j >= len(phi.Operands) {
			continue
		}
		resolveUse(ctx, phi.Operands[j])
	}
}
