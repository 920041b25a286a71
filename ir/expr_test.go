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

// defUse builds `x = 5; use = x + 1` and wires x's single use by hand, the
// way the SSA renamer's add_use would.
func defUse(t *testing.T) (def *ir.Expr, use *ir.Expr, root *ir.Expr) {
	t.Helper()
	x := ir.NewReg("x", 32)
	assign := ir.NewAssign(x, ir.NewVal(5, 32))
	stmt := ir.NewStmt(ir.SExpr, 0x1000, assign)
	_ = stmt

	xUse := ir.NewReg("x", 32)
	add := ir.NewBinary(ir.KAdd, xUse, ir.NewVal(1, 32))
	xUse.Def = x
	x.AddUse(xUse)

	return x, xUse, add
}

func TestAssignMarksLHSDef(t *testing.T) {
	t.Parallel()

	x := ir.NewReg("x", 32)
	require.False(t, x.IsDef)
	assign := ir.NewAssign(x, ir.NewVal(1, 32))
	require.True(t, assign.Operands[0].IsDef)
	require.Same(t, x, assign.Operands[0])
}

func TestNewAssignPanicsOnNonNameableLHS(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		ir.NewAssign(ir.NewVal(1, 32), ir.NewVal(2, 32))
	})
}

func TestEqualIgnoresBookkeeping(t *testing.T) {
	t.Parallel()

	a := ir.NewBinary(ir.KAdd, ir.NewReg("x", 32), ir.NewVal(0, 32))
	b := ir.NewBinary(ir.KAdd, ir.NewReg("x", 32), ir.NewVal(0, 32))
	idx := 3
	a.Operands[0].Idx = &idx
	require.True(t, ir.Equal(a, b), "Idx must not affect structural equality")

	c := ir.NewBinary(ir.KAdd, ir.NewReg("y", 32), ir.NewVal(0, 32))
	require.False(t, ir.Equal(a, c))
}

func TestCloneResetsVolatileFields(t *testing.T) {
	t.Parallel()

	def, use, _ := defUse(t)
	idx := 2
	use.Idx = &idx
	use.Weak = true
	use.IsSafe = true

	clone := ir.Clone(use, ir.PreserveIdx|ir.PreserveWeak)
	require.True(t, ir.Equal(clone, use))
	require.NotNil(t, clone.Idx)
	require.Equal(t, 2, *clone.Idx)
	require.True(t, clone.Weak)
	require.False(t, clone.IsSafe, "IsSafe was not in the preserve set")
	require.Nil(t, clone.Def, "Def was not in the preserve set")
	require.False(t, clone.IsDef)
	require.Empty(t, clone.Uses)

	cloneWithDef := ir.Clone(use, ir.PreserveDef)
	require.Same(t, def, cloneWithDef.Def)
}

func TestReplaceDetachesOldUsesButKeepsReusedSubtree(t *testing.T) {
	t.Parallel()

	def, use, root := defUse(t)
	// root is `use + 1`; replace it with `use` alone (simulating `x+0 -> x`
	// reusing the very same `use` node object).
	ir.Replace(root, use)

	require.Len(t, def.Uses, 1, "the reused xUse node must still be registered as a use")
	require.Same(t, use, def.Uses[0])
}

func TestReplaceDetachesUnrelatedOldSubtree(t *testing.T) {
	t.Parallel()

	def, use, root := defUse(t)
	// Replace root with a brand new constant: the old subtree (containing
	// use) must be fully detached from def's Uses.
	ir.Replace(root, ir.NewVal(42, 32))

	require.Empty(t, def.Uses)
	require.Nil(t, use.Parent)
}

func TestReplaceAtStatementTopLevel(t *testing.T) {
	t.Parallel()

	a := ir.NewVal(1, 32)
	stmt := ir.NewStmt(ir.SExpr, 0x10, a)
	b := ir.NewVal(2, 32)

	ir.Replace(a, b)

	require.Len(t, stmt.Exprs, 1)
	require.Same(t, b, stmt.Exprs[0])
	require.Same(t, stmt, b.Stmt)
	require.Nil(t, a.Stmt)
}

func TestPluckDetachesUses(t *testing.T) {
	t.Parallel()

	def, use, root := defUse(t)
	stmt := ir.NewStmt(ir.SExpr, 0x20, root)

	ir.Pluck(root, true)

	require.Empty(t, def.Uses)
	require.Empty(t, stmt.Exprs)
	require.Nil(t, root.Stmt)
	require.Nil(t, use.Parent)
}

func TestPluckWithoutDetachUsesPreservesLinks(t *testing.T) {
	t.Parallel()

	def, use, root := defUse(t)
	stmt := ir.NewStmt(ir.SExpr, 0x20, root)

	ir.Pluck(root, false)

	require.Len(t, def.Uses, 1, "caller asked not to detach uses")
	require.Same(t, use, def.Uses[0])
	require.Empty(t, stmt.Exprs)
}

func TestLeavesFindsNameableOperandsIncludingNestedDeref(t *testing.T) {
	t.Parallel()

	addrReg := ir.NewReg("rbx", 64)
	deref := ir.NewDeref(addrReg, 32)
	v := ir.NewVar("v", 32)
	add := ir.NewBinary(ir.KAdd, deref, v)

	leaves := ir.Leaves(add)
	require.Len(t, leaves, 3)
	require.Same(t, deref, leaves[0])
	require.Same(t, addrReg, leaves[1])
	require.Same(t, v, leaves[2])
}

func TestSameName(t *testing.T) {
	t.Parallel()

	x1 := ir.NewReg("x", 32)
	x2 := ir.NewReg("x", 32)
	y := ir.NewReg("y", 32)
	require.True(t, ir.SameName(x1, x2))
	require.False(t, ir.SameName(x1, y))

	addr1 := ir.NewReg("rbx", 64)
	addr2 := ir.NewReg("rbx", 64)
	d1 := ir.NewDeref(addr1, 32)
	d2 := ir.NewDeref(addr2, 32)
	require.True(t, ir.SameName(d1, d2))

	d3 := ir.NewDeref(ir.NewReg("rcx", 64), 32)
	require.False(t, ir.SameName(d1, d3))
}
