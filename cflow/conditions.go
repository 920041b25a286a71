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

package cflow

import (
	"github.com/pdd-project/pdd/graph"
	"github.com/pdd-project/pdd/ir"
	"github.com/pdd-project/pdd/simplify"
)

// chainLimit bounds how many blocks a condition arm may span and how far
// DetectConditions searches for a merge point. This analysis only recognizes
// flat if/then and if/then/else diamonds (every block on an arm has exactly
// one successor); a branch arm containing its own nested branch is left
// unannotated rather than handled via general interval/region analysis,
// which spec.md §4.6 does not require ("if/else/if-then diamonds and nested
// forms" is satisfied by running this recognizer again after loop/fall-
// through normalization shrinks the CFG, not by one pass understanding
// arbitrary nesting in a single step).
const chainLimit = 64

// Condition is a recognized if-then or if-then-else diamond.
type Condition struct {
	Branch *ir.BasicBlock
	Then   []*ir.BasicBlock
	Else   []*ir.BasicBlock // empty for a plain if-then
	Merge  *ir.BasicBlock
}

// DetectConditions finds if/then and if/then/else diamonds: a branch block
// whose two successors either rejoin directly at one another or at a common
// third block via flat (unbranching) arms, per spec.md §4.6's third
// recognizer. The then-arm is tagged with a ScopeIf bracket and the else-arm
// (when present) with ScopeElse, opening at the arm's first block and
// closing at its last block before the merge point.
func DetectConditions(f *ir.Function, opts Options) []Condition {
	var conds []Condition
	for _, bID := range f.CFG.Nodes() {
		b, _ := f.CFG.GetNode(bID)
		if b.Jump == nil || b.Fail == nil || len(b.Cases) != 0 {
			continue
		}
		t, e := b.Jump, b.Fail
		if t == e {
			continue
		}

		var cond Condition
		var ok bool
		switch {
		case sameChain(f, t.ID(), e.ID()):
			cond, ok = buildCondition(f, b, t, e, nil)
		case sameChain(f, e.ID(), t.ID()):
			cond, ok = buildCondition(f, b, e, t, nil)
		default:
			if m, found := findMerge(f, t.ID(), e.ID()); found {
				cond, ok = buildCondition(f, b, t, e, m)
			}
		}
		if !ok {
			continue
		}
		conds = append(conds, cond)

		if opts.Converge && len(b.Body.Stmts) > 0 {
			simplify.ReduceStmt(b.Body.Stmts[len(b.Body.Stmts)-1])
		}
	}
	return conds
}

// sameChain reports whether target is reachable from start via a flat
// (single-successor) chain.
func sameChain(f *ir.Function, start, target graph.ID) bool {
	_, ok := straightChainTo(f, start, target)
	return ok
}

// buildCondition tags thenStart's arm with ScopeIf and, if elseStart is
// non-nil, elseStart's arm with ScopeElse, both closing at merge (or, for a
// plain if-then, at elseStart itself -- the fail target IS the merge point).
func buildCondition(f *ir.Function, branch, thenStart, elseStart, merge *ir.BasicBlock) (Condition, bool) {
	mergeID := elseStart.ID()
	if merge != nil {
		mergeID = merge.ID()
	}

	thenChain, ok := straightChainTo(f, thenStart.ID(), mergeID)
	if !ok {
		return Condition{}, false
	}
	tagArm(f, ir.ScopeIf, branch.ID(), thenChain)

	cond := Condition{Branch: branch, Then: idsToBlocks(f, thenChain)}
	if merge != nil {
		cond.Merge = merge
		elseChain, ok := straightChainTo(f, elseStart.ID(), mergeID)
		if !ok {
			return Condition{}, false
		}
		tagArm(f, ir.ScopeElse, branch.ID(), elseChain)
		cond.Else = idsToBlocks(f, elseChain)
	} else {
		cond.Merge = elseStart
	}
	return cond, true
}

func tagArm(f *ir.Function, kind ir.ScopeKind, with string, chain []graph.ID) {
	if len(chain) == 0 {
		return
	}
	first, _ := f.CFG.GetNode(chain[0])
	last, _ := f.CFG.GetNode(chain[len(chain)-1])
	first.Opens = append(first.Opens, ir.Scope{Kind: kind, With: with})
	last.Closes = append(last.Closes, ir.Scope{Kind: kind, With: with})
}

func idsToBlocks(f *ir.Function, ids []graph.ID) []*ir.BasicBlock {
	out := make([]*ir.BasicBlock, len(ids))
	for i, id := range ids {
		out[i], _ = f.CFG.GetNode(id)
	}
	return out
}

// straightChainTo walks forward from start, requiring every block visited
// (including start, excluding target) to have exactly one CFG successor,
// until reaching target. It returns the visited blocks in order, or
// ok == false if a block along the way branches or chainLimit is exceeded.
func straightChainTo(f *ir.Function, start, target graph.ID) ([]graph.ID, bool) {
	var chain []graph.ID
	cur := start
	for i := 0; i < chainLimit; i++ {
		if cur == target {
			return chain, true
		}
		chain = append(chain, cur)
		succs := f.CFG.Successors(cur)
		if len(succs) != 1 {
			return nil, false
		}
		cur = succs[0]
	}
	return nil, false
}

// findMerge returns the common block reachable from both a and b via flat
// chains with the smallest combined distance, preferring the nearest
// confluence so nested diamonds downstream stay distinguishable from this
// one's own merge point.
func findMerge(f *ir.Function, a, b graph.ID) (*ir.BasicBlock, bool) {
	distA := reachDistances(f, a)
	distB := reachDistances(f, b)

	var best graph.ID
	bestSum := -1
	for id, da := range distA {
		db, ok := distB[id]
		if !ok {
			continue
		}
		if bestSum == -1 || da+db < bestSum {
			bestSum, best = da+db, id
		}
	}
	if bestSum == -1 {
		return nil, false
	}
	node, _ := f.CFG.GetNode(best)
	return node, true
}

// reachDistances does a bounded BFS over flat (single-successor) chains
// starting at start, recording each reached block's distance.
func reachDistances(f *ir.Function, start graph.ID) map[graph.ID]int {
	dist := map[graph.ID]int{start: 0}
	queue := []graph.ID{start}
	for len(queue) > 0 && len(dist) < chainLimit {
		id := queue[0]
		queue = queue[1:]
		succs := f.CFG.Successors(id)
		if len(succs) != 1 {
			continue
		}
		s := succs[0]
		if _, seen := dist[s]; !seen {
			dist[s] = dist[id] + 1
			queue = append(queue, s)
		}
	}
	return dist
}
