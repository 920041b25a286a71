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
	"sort"

	"github.com/pdd-project/pdd/graph"
	"github.com/pdd-project/pdd/ir"
)

// InsertPhis runs Cytron et al.'s phi-insertion algorithm (spec.md §4.3
// Phase A) over f for every name matching sel: for each block, the locally
// defined names matching sel seed a worklist; popping a block pushes a phi
// onto every block in its dominance frontier that doesn't already have one
// for that name, and that block is itself pushed onto the worklist if it did
// not already locally define the name.
func InsertPhis(f *ir.Function, dom *graph.DominatorTree[*ir.BasicBlock], sel Selector) {
	defBlocks, repLeaf := collectLocalDefs(f, sel)

	names := make([]string, 0, len(defBlocks))
	for name := range defBlocks {
		names = append(names, name)
	}
	sort.Strings(names) // deterministic iteration independent of map order

	for _, name := range names {
		insertPhisForName(f, dom, name, defBlocks[name], repLeaf[name])
	}
}

// collectLocalDefs scans every block for statements whose Assign LHS matches
// sel, returning, per name key, the set of blocks that locally define it
// (deduplicated, since "if the same location is defined multiple times in
// one block, keep only the last" only affects which leaf is kept as the
// representative -- it does not change block membership), plus one
// representative definition leaf per name (used to size and shape inserted
// phi arguments).
func collectLocalDefs(f *ir.Function, sel Selector) (map[string][]graph.ID, map[string]*ir.Expr) {
	defBlocks := make(map[string][]graph.ID)
	repLeaf := make(map[string]*ir.Expr)
	seenInBlock := make(map[string]map[string]bool)

	for _, b := range f.Blocks {
		id := b.ID()
		for _, stmt := range b.Body.Stmts {
			if stmt.IsPhiAssign() {
				continue // phis are inserted by this very pass, not scanned as seed defs
			}
			for _, top := range stmt.Exprs {
				if top.Kind != ir.KAssign {
					continue
				}
				lhs := top.Operands[0]
				if !sel(lhs) {
					continue
				}
				name := nameKey(lhs)
				repLeaf[name] = lhs // last one wins, per spec.md §4.3
				if seenInBlock[name] == nil {
					seenInBlock[name] = make(map[string]bool)
				}
				if !seenInBlock[name][id] {
					seenInBlock[name][id] = true
					defBlocks[name] = append(defBlocks[name], id)
				}
			}
		}
	}
	return defBlocks, repLeaf
}

func insertPhisForName(f *ir.Function, dom *graph.DominatorTree[*ir.BasicBlock], name string, defs []graph.ID, rep *ir.Expr) {
	hasPhi := make(map[graph.ID]bool)
	isLocalDef := make(map[graph.ID]bool, len(defs))
	for _, id := range defs {
		isLocalDef[id] = true
	}

	worklist := append([]graph.ID(nil), defs...)
	for len(worklist) > 0 {
		n := worklist[0]
		worklist = worklist[1:]

		for _, y := range dom.DominanceFrontier(n) {
			if hasPhi[y] || blockHasPhiFor(f, y, rep) {
				hasPhi[y] = true
				continue
			}
			insertPhiAt(f, y, rep)
			hasPhi[y] = true
			if !isLocalDef[y] {
				worklist = append(worklist, y)
			}
		}
	}
}

func blockHasPhiFor(f *ir.Function, id graph.ID, rep *ir.Expr) bool {
	b, ok := f.CFG.GetNode(id)
	if !ok {
		return false
	}
	for _, stmt := range b.Body.PhiStmts() {
		if ir.SameName(stmt.Exprs[0].Operands[0], rep) {
			return true
		}
	}
	return false
}

// insertPhiAt prepends `rep = Phi(rep, rep, ..., rep)` to block id, with one
// argument per predecessor, marked weak so later passes may eliminate it
// freely if it turns out unnecessary.
func insertPhiAt(f *ir.Function, id graph.ID, rep *ir.Expr) {
	b, ok := f.CFG.GetNode(id)
	if !ok {
		return
	}
	numArgs := len(f.CFG.Predecessors(id))

	// PreserveIdx matters here: rep's address sub-expression (for a Deref
	// selector) may already carry SSA subscripts assigned by an earlier
	// renaming wave, and nameKey must see the same subscripts on every clone
	// of it as it does on rep itself, or phi arguments and real definitions
	// of "the same" location would hash to different keys.
	lhs := ir.Clone(rep, ir.PreserveIdx)
	lhs.IsDef = true
	lhs.Weak = true
	lhs.Uses = []*ir.Expr{}

	args := make([]*ir.Expr, numArgs)
	for i := range args {
		args[i] = ir.Clone(rep, ir.PreserveIdx)
	}
	phi := ir.NewPhi(rep.Size, args...)
	assign := ir.NewAssign(lhs, phi)

	stmt := ir.NewStmt(ir.SExpr, b.Addr, assign)
	b.Body.Prepend(stmt)
}
