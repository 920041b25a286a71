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

import (
	"fmt"

	"github.com/pdd-project/pdd/graph"
)

// BasicBlock is a single block of a function's control-flow graph: an entry
// address, its statement container, and its CFG successors.
type BasicBlock struct {
	Addr  uint64
	Body  *Container
	Jump  *BasicBlock   // taken / unconditional successor
	Fail  *BasicBlock   // fall-through / not-taken successor
	Cases []*BasicBlock // switch targets, in case order

	Entry bool // this is the function's designated entry block
	Exit  bool // this block has no successors (falls off the end or returns)

	// Opens and Closes hold the structured-control-flow brackets control-flow
	// recovery attaches to a block: Opens brackets render before the block's
	// statements, Closes after. A block may open and/or close more than one
	// scope (e.g. a loop header that is itself the target of an enclosing
	// if-arm).
	Opens  []Scope
	Closes []Scope
}

// NewBasicBlock creates a block at addr with an empty body.
func NewBasicBlock(addr uint64) *BasicBlock {
	return &BasicBlock{Addr: addr, Body: NewContainer(addr)}
}

// ID returns the block's graph.ID, derived from its entry address.
func (b *BasicBlock) ID() graph.ID {
	return fmt.Sprintf("%#x", b.Addr)
}

// Successors returns every direct CFG successor of b (Jump, Fail, Cases),
// skipping nils and in a fixed order: Jump, then Fail, then Cases. This
// order is load-bearing: it is replayed identically every time the CFG is
// (re)built, so predecessor indices stay stable across rebuilds, which phi
// argument placement depends on (spec.md §4.3 step 2).
func (b *BasicBlock) Successors() []*BasicBlock {
	var out []*BasicBlock
	if b.Jump != nil {
		out = append(out, b.Jump)
	}
	if b.Fail != nil && b.Fail != b.Jump {
		out = append(out, b.Fail)
	}
	out = append(out, b.Cases...)
	return out
}

// Arg is a function argument descriptor.
type Arg struct {
	Name string
	Size int
}

// Local is a function local-variable descriptor.
type Local struct {
	Name string
	Size int
}

// Function is the top-level IR unit the mid-end pipeline operates on: one
// function's address, name, arguments, locals, basic blocks, and CFG.
type Function struct {
	Addr   uint64
	Name   string
	Args   []*Arg
	Locals []*Local

	Blocks     []*BasicBlock
	EntryBlock *BasicBlock
	ExitBlocks []*BasicBlock

	CFG *graph.Directed[*BasicBlock]
}

// NewFunction creates a function with the given blocks and entry block. It
// builds the CFG view over the blocks' Jump/Fail/Cases edges and computes
// ExitBlocks (blocks with Exit set, or with no successors at all).
// Blocks unreachable from entry are dropped, per spec.md §4.2's DFS
// spanning-tree use: "discard unreachable blocks when a function has
// multiple entry candidates".
func NewFunction(addr uint64, name string, entry *BasicBlock, blocks []*Arg, locals []*Local, all []*BasicBlock) *Function {
	f := &Function{Addr: addr, Name: name, Args: blocks, Locals: locals, EntryBlock: entry}
	entry.Entry = true
	f.rebuildFrom(all)
	return f
}

// Rebuild recomputes CFG, Blocks, and ExitBlocks from the function's current
// EntryBlock and the Jump/Fail/Cases links reachable from it, discarding
// Blocks entries no longer reachable. Control-flow recovery calls this after
// merging or re-linking blocks (e.g. fall-through merging splices one
// block's successors onto another), since graph.Directed itself has no
// incremental node/edge removal.
func (f *Function) Rebuild() {
	f.rebuildFrom(f.Blocks)
}

func (f *Function) rebuildFrom(all []*BasicBlock) {
	entry := f.EntryBlock
	g := graph.NewDirected[*BasicBlock](entry.ID())
	for _, b := range all {
		g.AddNode(b.ID(), b)
	}
	for _, b := range all {
		for _, s := range b.Successors() {
			g.AddEdge(b.ID(), s.ID())
		}
	}

	reachable := make(map[graph.ID]bool)
	for _, id := range graph.DFSpanningTree(g) {
		reachable[id] = true
	}

	f.CFG = graph.NewDirected[*BasicBlock](entry.ID())
	f.Blocks = nil
	f.ExitBlocks = nil
	for _, b := range all {
		if reachable[b.ID()] {
			f.CFG.AddNode(b.ID(), b)
			f.Blocks = append(f.Blocks, b)
		}
	}
	for _, b := range f.Blocks {
		for _, s := range b.Successors() {
			if reachable[s.ID()] {
				f.CFG.AddEdge(b.ID(), s.ID())
			}
		}
	}

	for _, b := range f.Blocks {
		if b.Exit || len(f.CFG.Successors(b.ID())) == 0 {
			b.Exit = true
			f.ExitBlocks = append(f.ExitBlocks, b)
		}
	}
}

// BlockByAddr returns the block at addr, if it exists in the function.
func (f *Function) BlockByAddr(addr uint64) (*BasicBlock, bool) {
	for _, b := range f.Blocks {
		if b.Addr == addr {
			return b, true
		}
	}
	return nil, false
}

// AllStmts returns every statement in the function, in block order.
func (f *Function) AllStmts() []*Stmt {
	var out []*Stmt
	for _, b := range f.Blocks {
		out = append(out, b.Body.Stmts...)
	}
	return out
}

// AllExprs returns every top-level expression of every statement in the
// function, in block/statement order. Passes that need to reach every
// expression reachable from a statement (spec.md §8's reachability
// invariant) walk from this set.
func (f *Function) AllExprs() []*Expr {
	var out []*Expr
	for _, s := range f.AllStmts() {
		out = append(out, s.Exprs...)
	}
	return out
}
