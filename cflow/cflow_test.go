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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pdd-project/pdd/graph"
	"github.com/pdd-project/pdd/ir"
)

func link(from, to *ir.BasicBlock, asFail bool) {
	if asFail {
		from.Fail = to
	} else {
		from.Jump = to
	}
}

func hasScope(scopes []ir.Scope, kind ir.ScopeKind) bool {
	for _, s := range scopes {
		if s.Kind == kind {
			return true
		}
	}
	return false
}

func TestMergeFallThroughsCombinesLinearChain(t *testing.T) {
	a := ir.NewBasicBlock(0x0)
	b := ir.NewBasicBlock(0x10)
	c := ir.NewBasicBlock(0x20)
	link(a, b, false)
	link(b, c, false)

	a.Body.Append(ir.NewStmt(ir.SExpr, a.Addr, ir.NewVal(1, 64)))
	b.Body.Append(ir.NewStmt(ir.SExpr, b.Addr, ir.NewVal(2, 64)))
	c.Body.Append(ir.NewStmt(ir.SReturn, c.Addr, ir.NewVal(3, 64)))

	f := ir.NewFunction(0x0, "chain", a, nil, nil, []*ir.BasicBlock{a, b, c})

	changed := MergeFallThroughs(f)
	require.True(t, changed)
	require.Len(t, f.Blocks, 1)
	require.Len(t, f.Blocks[0].Body.Stmts, 3)
}

func TestMergeFallThroughsSkipsJoinPoints(t *testing.T) {
	a := ir.NewBasicBlock(0x0)
	b := ir.NewBasicBlock(0x10)
	c := ir.NewBasicBlock(0x20)
	d := ir.NewBasicBlock(0x30)
	link(a, b, false)
	link(a, c, true)
	link(b, d, false)
	link(c, d, false)

	a.Body.Append(ir.NewStmt(ir.SBranch, a.Addr, ir.NewVal(1, 1)))
	b.Body.Append(ir.NewStmt(ir.SExpr, b.Addr, ir.NewVal(1, 64)))
	c.Body.Append(ir.NewStmt(ir.SExpr, c.Addr, ir.NewVal(2, 64)))
	d.Body.Append(ir.NewStmt(ir.SReturn, d.Addr, ir.NewVal(3, 64)))

	f := ir.NewFunction(0x0, "diamond", a, nil, nil, []*ir.BasicBlock{a, b, c, d})

	changed := MergeFallThroughs(f)
	require.False(t, changed)
	require.Len(t, f.Blocks, 4)
}

func TestDetectLoopsTagsHeaderAndLatch(t *testing.T) {
	pre := ir.NewBasicBlock(0x0)
	header := ir.NewBasicBlock(0x10)
	body := ir.NewBasicBlock(0x20)
	exit := ir.NewBasicBlock(0x30)
	link(pre, header, false)
	link(header, body, false)
	link(header, exit, true)
	link(body, header, false)

	pre.Body.Append(ir.NewStmt(ir.SExpr, pre.Addr, ir.NewVal(0, 64)))
	header.Body.Append(ir.NewStmt(ir.SBranch, header.Addr, ir.NewVal(1, 1)))
	body.Body.Append(ir.NewStmt(ir.SExpr, body.Addr, ir.NewVal(1, 64)))
	exit.Body.Append(ir.NewStmt(ir.SReturn, exit.Addr, ir.NewVal(2, 64)))

	f := ir.NewFunction(0x0, "loop", pre, nil, nil, []*ir.BasicBlock{pre, header, body, exit})
	dom := graph.BuildDominatorTree(f.CFG)

	loops := DetectLoops(f, dom)
	require.Len(t, loops, 1)
	require.Same(t, header, loops[0].Header)
	require.Same(t, body, loops[0].Latch)
	require.Len(t, loops[0].Body, 2)

	require.True(t, hasScope(header.Opens, ir.ScopeLoop))
	require.True(t, hasScope(body.Closes, ir.ScopeLoop))
}

func TestDetectConditionsTagsIfElseDiamond(t *testing.T) {
	a := ir.NewBasicBlock(0x0)
	thenB := ir.NewBasicBlock(0x10)
	elseB := ir.NewBasicBlock(0x20)
	merge := ir.NewBasicBlock(0x30)
	link(a, thenB, false)
	link(a, elseB, true)
	link(thenB, merge, false)
	link(elseB, merge, false)

	a.Body.Append(ir.NewStmt(ir.SBranch, a.Addr, ir.NewVal(1, 1)))
	thenB.Body.Append(ir.NewStmt(ir.SExpr, thenB.Addr, ir.NewVal(1, 64)))
	elseB.Body.Append(ir.NewStmt(ir.SExpr, elseB.Addr, ir.NewVal(2, 64)))
	merge.Body.Append(ir.NewStmt(ir.SReturn, merge.Addr, ir.NewVal(3, 64)))

	f := ir.NewFunction(0x0, "ifelse", a, nil, nil, []*ir.BasicBlock{a, thenB, elseB, merge})

	conds := DetectConditions(f, Options{})
	require.Len(t, conds, 1)
	require.Same(t, merge, conds[0].Merge)
	require.Len(t, conds[0].Then, 1)
	require.Len(t, conds[0].Else, 1)

	require.True(t, hasScope(thenB.Opens, ir.ScopeIf))
	require.True(t, hasScope(thenB.Closes, ir.ScopeIf))
	require.True(t, hasScope(elseB.Opens, ir.ScopeElse))
	require.True(t, hasScope(elseB.Closes, ir.ScopeElse))
}

func TestDetectConditionsTagsPlainIfThen(t *testing.T) {
	a := ir.NewBasicBlock(0x0)
	thenB := ir.NewBasicBlock(0x10)
	merge := ir.NewBasicBlock(0x20)
	link(a, thenB, false)
	link(a, merge, true)
	link(thenB, merge, false)

	a.Body.Append(ir.NewStmt(ir.SBranch, a.Addr, ir.NewVal(1, 1)))
	thenB.Body.Append(ir.NewStmt(ir.SExpr, thenB.Addr, ir.NewVal(1, 64)))
	merge.Body.Append(ir.NewStmt(ir.SReturn, merge.Addr, ir.NewVal(2, 64)))

	f := ir.NewFunction(0x0, "ifthen", a, nil, nil, []*ir.BasicBlock{a, thenB, merge})

	conds := DetectConditions(f, Options{})
	require.Len(t, conds, 1)
	require.Same(t, merge, conds[0].Merge)
	require.Empty(t, conds[0].Else)
	require.True(t, hasScope(thenB.Opens, ir.ScopeIf))
	require.True(t, hasScope(thenB.Closes, ir.ScopeIf))
}

func TestRunMergesThenRecognizesLoopAndCondition(t *testing.T) {
	entry := ir.NewBasicBlock(0x0)
	pad := ir.NewBasicBlock(0x8) // fall-through only, should get merged into entry
	header := ir.NewBasicBlock(0x10)
	body := ir.NewBasicBlock(0x20)
	exitB := ir.NewBasicBlock(0x30)
	link(entry, pad, false)
	link(pad, header, false)
	link(header, body, false)
	link(header, exitB, true)
	link(body, header, false)

	entry.Body.Append(ir.NewStmt(ir.SExpr, entry.Addr, ir.NewVal(0, 64)))
	pad.Body.Append(ir.NewStmt(ir.SExpr, pad.Addr, ir.NewVal(1, 64)))
	header.Body.Append(ir.NewStmt(ir.SBranch, header.Addr, ir.NewVal(1, 1)))
	body.Body.Append(ir.NewStmt(ir.SExpr, body.Addr, ir.NewVal(2, 64)))
	exitB.Body.Append(ir.NewStmt(ir.SReturn, exitB.Addr, ir.NewVal(3, 64)))

	f := ir.NewFunction(0x0, "combo", entry, nil, nil, []*ir.BasicBlock{entry, pad, header, body, exitB})

	result := Run(f, Options{})
	require.Len(t, f.Blocks, 4) // entry+pad merged
	require.Len(t, result.Loops, 1)
}
