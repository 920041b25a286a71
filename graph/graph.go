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

// Package graph implements the directed-graph primitives the SSA builder and
// control-flow recovery are built on: a directed graph with a distinguished
// root, DFS reachability (used to discard basic blocks unreachable from the
// chosen entry block when a function has multiple entry candidates), and a
// dominator tree with dominance frontiers (used for phi placement).
//
// The graph is keyed by opaque string IDs rather than by the caller's node
// type directly, so that ir.Function can build one CFG view keyed by block
// address without this package importing ir (which would create an import
// cycle, since ir.Function embeds a *graph.Directed).
package graph

// ID identifies a node. The ir package uses the basic block's entry address,
// formatted, as the ID.
type ID = string

// Directed is a directed graph with a distinguished root node. Edges are
// recorded in insertion order on both ends, which matters: the SSA builder's
// phi arguments must correspond to predecessor order (spec invariant), so
// callers must add edges in the same order every time the CFG is rebuilt.
type Directed[V any] struct {
	root  ID
	order []ID
	nodes map[ID]V
	succ  map[ID][]ID
	pred  map[ID][]ID
}

// NewDirected creates an empty directed graph with the given root ID. The
// root node itself must still be added via AddNode.
func NewDirected[V any](root ID) *Directed[V] {
	return &Directed[V]{
		root:  root,
		nodes: make(map[ID]V),
		succ:  make(map[ID][]ID),
		pred:  make(map[ID][]ID),
	}
}

// Root returns the graph's designated root ID.
func (g *Directed[V]) Root() ID { return g.root }

// AddNode registers a node. Adding the same ID twice overwrites its value but
// does not duplicate it in Nodes().
func (g *Directed[V]) AddNode(id ID, v V) {
	if _, ok := g.nodes[id]; !ok {
		g.order = append(g.order, id)
	}
	g.nodes[id] = v
}

// AddEdge records a directed edge from -> to. Both endpoints must already
// have been added via AddNode.
func (g *Directed[V]) AddEdge(from, to ID) {
	g.succ[from] = append(g.succ[from], to)
	g.pred[to] = append(g.pred[to], from)
}

// GetNode returns the value associated with id, if present.
func (g *Directed[V]) GetNode(id ID) (V, bool) {
	v, ok := g.nodes[id]
	return v, ok
}

// Nodes returns all node IDs in insertion order.
func (g *Directed[V]) Nodes() []ID {
	out := make([]ID, len(g.order))
	copy(out, g.order)
	return out
}

// Successors returns id's successors, in the order edges were added.
func (g *Directed[V]) Successors(id ID) []ID {
	return g.succ[id]
}

// Predecessors returns id's predecessors, in the order edges were added.
// The SSA renaming pass relies on this order to pick the j-th phi argument
// for a given predecessor.
func (g *Directed[V]) Predecessors(id ID) []ID {
	return g.pred[id]
}

// PredIndex returns the index of from among to's predecessors, i.e. the j
// such that from is the j-th predecessor of to. It returns -1 if from is not
// a predecessor of to.
func (g *Directed[V]) PredIndex(from, to ID) int {
	for i, p := range g.pred[to] {
		if p == from {
			return i
		}
	}
	return -1
}

// DFSpanningTree returns the IDs reachable from the graph's root, in
// DFS preorder. It is used to discard basic blocks that are unreachable from
// the function's designated entry block.
func DFSpanningTree[V any](g *Directed[V]) []ID {
	return dfsFrom(g, g.root)
}

func dfsFrom[V any](g *Directed[V], root ID) []ID {
	visited := make(map[ID]bool)
	var order []ID
	var walk func(id ID)
	walk = func(id ID) {
		if visited[id] {
			return
		}
		visited[id] = true
		order = append(order, id)
		for _, s := range g.Successors(id) {
			walk(s)
		}
	}
	walk(root)
	return order
}
