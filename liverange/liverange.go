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

// Package liverange implements spec.md §4.5's live-range and
// preserved-location analysis: a propagation over the CFG from each block's
// predecessors, collecting, per block, the set of definitions still alive there, and a
// chain walk identifying locations whose value at every exit traces back
// through pure copy assignments to the function's own idx=0 definition of
// the same name (a callee-saved register being the typical case).
package liverange

import (
	"github.com/pdd-project/pdd/graph"
	"github.com/pdd-project/pdd/ir"
)

// BlockSet maps a definition to the earliest use of it within a particular
// block's container, or nil if the block has no use of it at all (the
// definition merely passes through, still alive, from a predecessor).
type BlockSet map[*ir.Expr]*ir.Expr

// Options controls the analysis.
type Options struct {
	// IgnoreWeakUses excludes uses of Weak definitions from local-kill
	// bookkeeping, per spec.md §4.5's "weak uses may be ignored under a
	// flag" -- synthetic phi/implicit-init definitions otherwise clutter
	// the preserved-location chain walk with uninteresting detail.
	IgnoreWeakUses bool
}

// Analyze computes, for every block in f, the set of definitions still
// alive there: a definition local to a block (made in that block's
// container, or with one of its uses there) plus whatever was still alive at each of the
// block's CFG predecessors (spec.md §4.5: "Definitions alive at a block's
// entry come from predecessors' still-alive definitions (union, dedup)").
// Because the CFG may contain back edges, this is computed as a monotone
// iterative fixpoint (the same style as graph.BuildDominatorTree) rather
// than the naive single memoized backward walk spec.md's wording suggests --
// a plain recursive memoization would not reconverge correctly across a
// loop.
func Analyze(f *ir.Function, opts Options) map[graph.ID]BlockSet {
	local := make(map[graph.ID]BlockSet, len(f.Blocks))
	for _, b := range f.Blocks {
		local[b.ID()] = localKills(b, opts)
	}

	alive := make(map[graph.ID]BlockSet, len(f.Blocks))
	for _, b := range f.Blocks {
		alive[b.ID()] = BlockSet{}
	}

	for changed := true; changed; {
		changed = false
		for _, b := range f.Blocks {
			id := b.ID()
			merged := BlockSet{}
			for def, kill := range local[id] {
				merged[def] = kill
			}
			for _, p := range f.CFG.Predecessors(id) {
				for def := range alive[p] {
					if _, ok := merged[def]; !ok {
						merged[def] = nil
					}
				}
			}
			if !sameBlockSet(alive[id], merged) {
				alive[id] = merged
				changed = true
			}
		}
	}
	return alive
}

// localKills scans b's container in statement order, recording every
// definition made there (with a nil kill until a later use in the same
// container) and the earliest use of every definition it reads (spec.md §4.5: "A definition is killed
// within a block if any of its uses reside in that block").
func localKills(b *ir.BasicBlock, opts Options) BlockSet {
	out := BlockSet{}
	for _, stmt := range b.Body.Stmts {
		for _, top := range stmt.Exprs {
			for _, leaf := range ir.Leaves(top) {
				if leaf.IsDef {
					if _, ok := out[leaf]; !ok {
						out[leaf] = nil
					}
					continue
				}
				if leaf.Def == nil {
					continue
				}
				if opts.IgnoreWeakUses && leaf.Def.Weak {
					continue
				}
				if kill, ok := out[leaf.Def]; !ok || kill == nil {
					out[leaf.Def] = leaf
				}
			}
		}
	}
	return out
}

func sameBlockSet(a, b BlockSet) bool {
	if len(a) != len(b) {
		return false
	}
	for def, kill := range a {
		other, ok := b[def]
		if !ok || other != kill {
			return false
		}
	}
	return true
}

// PreservedLocations finds every named location whose value, at every exit
// block where it is alive, traces back through a chain of pure copy
// assignments to the function's own idx=0 definition of that name (spec.md
// §4.5's preserved-location definition). Every intermediate definition along
// a qualifying chain is marked Weak and Prune (so opt.Pruner's dead-regs/
// dead-derefs selectors, or an architecture-specific pass, can remove it);
// the function returns the idx=0 origin of each preserved location found.
func PreservedLocations(f *ir.Function, alive map[graph.ID]BlockSet) []*ir.Expr {
	if len(f.ExitBlocks) == 0 {
		return nil
	}

	var all []*ir.Expr
	seen := map[*ir.Expr]bool{}
	for _, exit := range f.ExitBlocks {
		for def := range alive[exit.ID()] {
			if def.Kind.Nameable() && !seen[def] {
				seen[def] = true
				all = append(all, def)
			}
		}
	}

	var origins []*ir.Expr
	consumed := map[*ir.Expr]bool{}
	for _, def := range all {
		if consumed[def] {
			continue
		}
		var group []*ir.Expr
		for _, other := range all {
			if !consumed[other] && ir.SameName(def, other) {
				group = append(group, other)
			}
		}
		for _, g := range group {
			consumed[g] = true
		}

		var origin *ir.Expr
		var chains [][]*ir.Expr
		ok := true
		for _, g := range group {
			chain, o, got := copyChain(g)
			if !got || (origin != nil && !ir.SameName(o, origin)) {
				ok = false
				break
			}
			origin = o
			chains = append(chains, chain)
		}
		if !ok || origin == nil {
			continue
		}
		for _, chain := range chains {
			for _, d := range chain {
				d.Weak = true
				d.Prune = true
			}
		}
		origins = append(origins, origin)
	}
	return origins
}

// copyChain walks def backward through a chain of pure copy assignments --
// an Assign whose rhs is itself a plain use of another nameable definition,
// no computation in between -- until it reaches a definition at subscript 0
// of the same name. It returns every definition visited strictly before the
// origin (the origin itself is the real, original value and is never marked
// for removal) plus the origin, or ok == false if the chain involves
// anything other than a bare copy before reaching idx 0.
func copyChain(def *ir.Expr) (chain []*ir.Expr, origin *ir.Expr, ok bool) {
	cur := def
	visited := map[*ir.Expr]bool{}
	for {
		if visited[cur] {
			return nil, nil, false
		}
		visited[cur] = true
		if cur.Idx != nil && *cur.Idx == 0 && ir.SameName(cur, def) {
			return chain, cur, true
		}
		assign := cur.Parent
		if assign == nil || assign.Kind != ir.KAssign {
			return nil, nil, false
		}
		rhs := assign.Operands[1]
		if !rhs.Kind.Nameable() || rhs.IsDef || rhs.Def == nil {
			return nil, nil, false
		}
		chain = append(chain, cur)
		cur = rhs.Def
	}
}
