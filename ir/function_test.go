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

package ir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pdd-project/pdd/ir"
)

func TestNewFunctionBuildsCFGAndDropsUnreachableBlocks(t *testing.T) {
	t.Parallel()

	a := ir.NewBasicBlock(0x100)
	b := ir.NewBasicBlock(0x110)
	c := ir.NewBasicBlock(0x120)
	d := ir.NewBasicBlock(0x130)
	unreachable := ir.NewBasicBlock(0x999)

	a.Jump, a.Fail = b, c
	b.Jump = d
	c.Jump = d
	d.Exit = true

	f := ir.NewFunction(a.Addr, "diamond", a, nil, nil, []*ir.BasicBlock{a, b, c, d, unreachable})

	require.Len(t, f.Blocks, 4)
	for _, blk := range f.Blocks {
		require.NotEqual(t, unreachable.Addr, blk.Addr)
	}

	require.Equal(t, 0, f.CFG.PredIndex(b.ID(), d.ID()))
	require.Equal(t, 1, f.CFG.PredIndex(c.ID(), d.ID()))

	require.Len(t, f.ExitBlocks, 1)
	require.Equal(t, d.Addr, f.ExitBlocks[0].Addr)
}

func TestFunctionAllExprsWalksEveryStatement(t *testing.T) {
	t.Parallel()

	blk := ir.NewBasicBlock(0x200)
	blk.Body.Append(ir.NewStmt(ir.SExpr, 0x200, ir.NewAssign(ir.NewReg("a", 32), ir.NewVal(1, 32))))
	blk.Body.Append(ir.NewStmt(ir.SReturn, 0x204, ir.NewReg("a", 32)))
	blk.Exit = true

	f := ir.NewFunction(blk.Addr, "f", blk, nil, nil, []*ir.BasicBlock{blk})

	exprs := f.AllExprs()
	require.Len(t, exprs, 2)
}
