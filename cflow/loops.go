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
)

// Loop is a natural loop: a header dominating every block in Body, a latch
// (the back edge's source block), and the body blocks themselves (including
// both header and latch).
type Loop struct {
	Header *ir.BasicBlock
	Latch  *ir.BasicBlock
	Body   []*ir.BasicBlock
}

// DetectLoops finds every natural loop in f via back edges of its dominator
// tree (an edge u -> v where v dominates u), per spec.md §4.6's second
// recognizer. The header is tagged with an opening ScopeLoop bracket, the
// latch with the matching close, so the back-end printer can bracket the
// loop body without separately tracking where each loop ends.
func DetectLoops(f *ir.Function, dom *graph.DominatorTree[*ir.BasicBlock]) []Loop {
	universe := graph.NewUniverse(f.CFG.Nodes())

	var loops []Loop
	for _, uID := range f.CFG.Nodes() {
		u, _ := f.CFG.GetNode(uID)
		for _, vID := range f.CFG.Successors(uID) {
			if !dom.Dominates(vID, uID) {
				continue
			}
			header, _ := f.CFG.GetNode(vID)
			body := naturalLoopBody(f, universe, uID, vID)

			header.Opens = append(header.Opens, ir.Scope{Kind: ir.ScopeLoop, With: header.ID()})
			u.Closes = append(u.Closes, ir.Scope{Kind: ir.ScopeLoop, With: header.ID()})

			var blocks []*ir.BasicBlock
			for _, id := range body.Items() {
				b, _ := f.CFG.GetNode(id)
				blocks = append(blocks, b)
			}
			loops = append(loops, Loop{Header: header, Latch: u, Body: blocks})
		}
	}
	return loops
}

// naturalLoopBody walks predecessors backward from the back edge's source u
// until reaching header, collecting every block along the way -- the
// textbook natural-loop construction. The visited set is a graph.Set rather
// than a plain map: it is exactly the "set of block IDs" shape Universe/Set
// was built for.
func naturalLoopBody(f *ir.Function, universe *graph.Universe, u, header graph.ID) *graph.Set {
	body := universe.NewSet()
	body.Add(header)
	body.Add(u)
	stack := []graph.ID{}
	if u != header {
		stack = append(stack, u)
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range f.CFG.Predecessors(id) {
			if !body.Has(p) {
				body.Add(p)
				stack = append(stack, p)
			}
		}
	}
	return body
}
