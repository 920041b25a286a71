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

package simplify_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pdd-project/pdd/ir"
	"github.com/pdd-project/pdd/simplify"
)

func TestAddZeroIdentity(t *testing.T) {
	t.Parallel()
	x := ir.NewReg("x", 32)
	e := ir.NewBinary(ir.KAdd, x, ir.NewVal(0, 32))
	got := simplify.ReduceExpr(e)
	require.True(t, ir.Equal(got, x))
}

func TestDoubleBoolNot(t *testing.T) {
	t.Parallel()
	x := ir.NewReg("x", 32)
	e := ir.NewUnary(ir.KBoolNot, ir.NewUnary(ir.KBoolNot, x))
	got := simplify.ReduceExpr(e)
	require.True(t, ir.Equal(got, x))
}

func TestXorSelfIsZero(t *testing.T) {
	t.Parallel()
	x := ir.NewReg("x", 32)
	e := ir.NewBinary(ir.KXor, x, ir.NewReg("x", 32))
	got := simplify.ReduceExpr(e)
	require.True(t, ir.Equal(got, ir.NewVal(0, 32)))
}

func TestEqSubZero(t *testing.T) {
	t.Parallel()
	x, y := ir.NewReg("x", 32), ir.NewReg("y", 32)
	e := ir.NewBinary(ir.KEQ, ir.NewBinary(ir.KSub, x, y), ir.NewVal(0, 1))
	got := simplify.ReduceExpr(e)
	want := ir.NewBinary(ir.KEQ, ir.NewReg("x", 32), ir.NewReg("y", 32))
	require.True(t, ir.Equal(got, want), "got %s", got)
}

func TestRelationalOrConvergesToLE(t *testing.T) {
	t.Parallel()
	x, y := ir.NewReg("x", 32), ir.NewReg("y", 32)
	lt := ir.NewBinary(ir.KLT, x, y)
	eq := ir.NewBinary(ir.KEQ, ir.NewReg("x", 32), ir.NewReg("y", 32))
	e := ir.NewBinary(ir.KBoolOr, lt, eq)
	got := simplify.ReduceExpr(e)
	want := ir.NewBinary(ir.KLE, ir.NewReg("x", 32), ir.NewReg("y", 32))
	require.True(t, ir.Equal(got, want), "got %s", got)
}

func TestRelationalAndConvergesToEQ(t *testing.T) {
	t.Parallel()
	x, y := ir.NewReg("x", 32), ir.NewReg("y", 32)
	le := ir.NewBinary(ir.KLE, x, y)
	ge := ir.NewBinary(ir.KGE, ir.NewReg("x", 32), ir.NewReg("y", 32))
	e := ir.NewBinary(ir.KBoolAnd, le, ge)
	got := simplify.ReduceExpr(e)
	want := ir.NewBinary(ir.KEQ, ir.NewReg("x", 32), ir.NewReg("y", 32))
	require.True(t, ir.Equal(got, want), "got %s", got)
}

func TestBoolNotOfLTConvergesToGE(t *testing.T) {
	t.Parallel()
	x, y := ir.NewReg("x", 32), ir.NewReg("y", 32)
	e := ir.NewUnary(ir.KBoolNot, ir.NewBinary(ir.KLT, x, y))
	got := simplify.ReduceExpr(e)
	want := ir.NewBinary(ir.KGE, ir.NewReg("x", 32), ir.NewReg("y", 32))
	require.True(t, ir.Equal(got, want), "got %s", got)
}

func TestConstantFoldingAdd(t *testing.T) {
	t.Parallel()
	e := ir.NewBinary(ir.KAdd, ir.NewVal(2, 32), ir.NewVal(3, 32))
	got := simplify.ReduceExpr(e)
	require.True(t, ir.Equal(got, ir.NewVal(5, 32)))
}

func TestRightShiftOfMSBSetConstantDoesNotFold(t *testing.T) {
	t.Parallel()
	// 8-bit constant with the MSB set (0x80); the shift must be left intact.
	e := ir.NewBinary(ir.KShr, ir.NewVal(0x80, 8), ir.NewVal(1, 8))
	got := simplify.ReduceExpr(e)
	require.Equal(t, ir.KShr, got.Kind, "shift of an MSB-set constant must not fold")
}

func TestRightShiftOfMSBClearConstantFolds(t *testing.T) {
	t.Parallel()
	e := ir.NewBinary(ir.KShr, ir.NewVal(0x40, 8), ir.NewVal(1, 8))
	got := simplify.ReduceExpr(e)
	require.True(t, ir.Equal(got, ir.NewVal(0x20, 8)), "got %s", got)
}

func TestIdempotence(t *testing.T) {
	t.Parallel()
	x, y := ir.NewReg("x", 32), ir.NewReg("y", 32)
	lt := ir.NewBinary(ir.KLT, x, y)
	eq := ir.NewBinary(ir.KEQ, ir.NewReg("x", 32), ir.NewReg("y", 32))
	e := ir.NewBinary(ir.KBoolOr, lt, eq)

	once := simplify.ReduceExpr(e)
	twice := simplify.ReduceExpr(once)
	require.True(t, ir.Equal(once, twice))
}

func TestSignCorrectionRewritesAddNegConstToSub(t *testing.T) {
	t.Parallel()
	x := ir.NewReg("x", 32)
	e := ir.NewBinary(ir.KAdd, x, ir.NewVal(-5, 32))
	got := simplify.ReduceExpr(e)
	want := ir.NewBinary(ir.KSub, ir.NewReg("x", 32), ir.NewVal(5, 32))
	require.True(t, ir.Equal(got, want), "got %s", got)
}

func TestArithmeticReassociationDifferentOps(t *testing.T) {
	t.Parallel()
	// (x + 5) - 2 -> x + 3
	x := ir.NewReg("x", 32)
	e := ir.NewBinary(ir.KSub, ir.NewBinary(ir.KAdd, x, ir.NewVal(5, 32)), ir.NewVal(2, 32))
	got := simplify.ReduceExpr(e)
	want := ir.NewBinary(ir.KAdd, ir.NewReg("x", 32), ir.NewVal(3, 32))
	require.True(t, ir.Equal(got, want), "got %s", got)
}

func TestAssociativeReassociationAdd(t *testing.T) {
	t.Parallel()
	// (x + 2) + 3 -> x + 5
	x := ir.NewReg("x", 32)
	e := ir.NewBinary(ir.KAdd, ir.NewBinary(ir.KAdd, x, ir.NewVal(2, 32)), ir.NewVal(3, 32))
	got := simplify.ReduceExpr(e)
	want := ir.NewBinary(ir.KAdd, ir.NewReg("x", 32), ir.NewVal(5, 32))
	require.True(t, ir.Equal(got, want), "got %s", got)
}

func TestRefDerefCancellation(t *testing.T) {
	t.Parallel()
	x := ir.NewReg("x", 32)
	addrOfDeref := ir.NewAddrOf(ir.NewDeref(x, 32))
	got := simplify.ReduceExpr(addrOfDeref)
	require.True(t, ir.Equal(got, ir.NewReg("x", 32)))

	y := ir.NewReg("y", 64)
	derefAddrOf := ir.NewDeref(ir.NewAddrOf(y), 64)
	got2 := simplify.ReduceExpr(derefAddrOf)
	require.True(t, ir.Equal(got2, ir.NewReg("y", 64)))
}

func TestReduceExprSplicesIntoParentAutomatically(t *testing.T) {
	t.Parallel()
	x := ir.NewReg("x", 32)
	addZero := ir.NewBinary(ir.KAdd, x, ir.NewVal(0, 32))
	root := ir.NewBinary(ir.KMul, addZero, ir.NewVal(2, 32))

	got := simplify.ReduceExpr(root)
	require.Same(t, root, got, "the outer Mul survives unreduced")
	require.True(t, ir.Equal(root.Operands[0], ir.NewReg("x", 32)), "the inner Add(x,0) must have been spliced to x")
}

func TestReduceExprDetachesDiscardedUses(t *testing.T) {
	t.Parallel()
	def := ir.NewReg("x", 32)
	assign := ir.NewAssign(def, ir.NewVal(1, 32))
	stmt := ir.NewStmt(ir.SExpr, 0x10, assign)
	_ = stmt

	use1 := ir.NewReg("x", 32)
	use1.Def = def
	def.AddUse(use1)
	use2 := ir.NewReg("x", 32)
	use2.Def = def
	def.AddUse(use2)

	e := ir.NewBinary(ir.KAnd, use1, use2)
	got := simplify.ReduceExpr(e)
	require.True(t, ir.Equal(got, ir.NewReg("x", 32)))
	require.Len(t, def.Uses, 1, "one of the two x uses must have been detached")
}
