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

package opt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pdd-project/pdd/ir"
	"github.com/pdd-project/pdd/ssabuild"
)

// defineInContainer builds `def = val` inside a fresh container, registers
// def in ctx.Defs under key, and returns (container, def).
func defineInContainer(ctx *ssabuild.Context, key string, def, val *ir.Expr) (*ir.Container, *ir.Expr) {
	c := ir.NewContainer(0)
	a := ir.NewAssign(def, val)
	c.Append(ir.NewStmt(ir.SExpr, 0, a))
	ctx.Defs.Store(key, def)
	return c, def
}

func TestSafeDefsPropagatesSingleUseAndRemovesAssign(t *testing.T) {
	ctx := ssabuild.NewContext(0)

	defIdx := 1
	def := ir.NewReg("r1", 64)
	def.IsDef = true
	def.Uses = []*ir.Expr{}
	def.Idx = &defIdx
	val := ir.NewVal(42, 64)

	c, def := defineInContainer(ctx, "reg:r1#1", def, val)

	use := ir.NewReg("r1", 64)
	use.Idx = &defIdx
	use.Def = def
	def.AddUse(use)
	useStmt := ir.NewStmt(ir.SReturn, 0, use)
	c.Append(useStmt)

	changed := Propagator(ctx, SafeDefs, CopyReplacer)
	require.True(t, changed)

	require.Len(t, c.Stmts, 1) // the def's own assign statement got plucked
	require.Equal(t, ir.KVal, useStmt.Exprs[0].Kind)
	require.Equal(t, int64(42), useStmt.Exprs[0].IntVal)

	_, ok := ctx.Defs.Load("reg:r1#1")
	require.False(t, ok)
}

func TestSafeDefsSkipsImplicitInit(t *testing.T) {
	zero := 0
	def := ir.NewReg("sp", 64)
	def.IsDef = true
	def.Weak = true
	def.Uses = []*ir.Expr{}
	def.Idx = &zero
	val := ir.NewVal(0, 64)
	ir.NewAssign(def, val)

	use := ir.NewReg("sp", 64)
	use.Idx = &zero
	use.Def = def
	def.AddUse(use)

	require.False(t, SafeDefs(def, val))
}

func TestDeadRegsPrunesZeroUseNonCall(t *testing.T) {
	ctx := ssabuild.NewContext(0)
	def := ir.NewReg("r2", 64)
	def.IsDef = true
	def.Uses = []*ir.Expr{}
	idx := 3
	def.Idx = &idx
	val := ir.NewVal(1, 64)
	c, _ := defineInContainer(ctx, "reg:r2#3", def, val)

	changed := Pruner(ctx, DeadRegs)
	require.True(t, changed)
	require.Empty(t, c.Stmts)
	_, ok := ctx.Defs.Load("reg:r2#3")
	require.False(t, ok)
}

func TestDeadRegsKeepsCallUnlessPruneSet(t *testing.T) {
	ctx := ssabuild.NewContext(0)
	def := ir.NewReg("r3", 64)
	def.IsDef = true
	def.Uses = []*ir.Expr{}
	idx := 1
	def.Idx = &idx
	callee := ir.NewReg("printf", 64)
	val := ir.NewCall(64, callee)
	defineInContainer(ctx, "reg:r3#1", def, val)

	require.False(t, DeadRegs(def, val))
	def.Prune = true
	require.True(t, DeadRegs(def, val))
}

func TestDeadResultsExtractsCallAndDropsAssign(t *testing.T) {
	ctx := ssabuild.NewContext(0)
	def := ir.NewReg("r4", 64)
	def.IsDef = true
	def.Uses = []*ir.Expr{}
	idx := 1
	def.Idx = &idx
	callee := ir.NewReg("malloc", 64)
	val := ir.NewCall(64, callee, ir.NewVal(16, 64))
	c, _ := defineInContainer(ctx, "reg:r4#1", def, val)

	changed := DeadResults(ctx)
	require.True(t, changed)

	require.Len(t, c.Stmts, 1)
	require.Same(t, val, c.Stmts[0].Exprs[0])
	require.Equal(t, ir.KCall, c.Stmts[0].Exprs[0].Kind)

	_, ok := ctx.Defs.Load("reg:r4#1")
	require.False(t, ok)
}

func TestCircularPhisDetectsSelfLoop(t *testing.T) {
	idx := 2
	def := ir.NewReg("r5", 64)
	def.IsDef = true
	def.Uses = []*ir.Expr{}
	def.Idx = &idx

	selfArg1 := ir.NewReg("r5", 64)
	selfArg1.Idx = &idx
	selfArg1.Def = def
	def.AddUse(selfArg1)

	selfArg2 := ir.NewReg("r5", 64)
	selfArg2.Idx = &idx
	selfArg2.Def = def
	def.AddUse(selfArg2)

	val := ir.NewPhi(64, selfArg1, selfArg2)
	ir.NewAssign(def, val)

	require.True(t, CircularPhis(def, val))
}

func TestCircularPhisRejectsExternalArgument(t *testing.T) {
	idx := 2
	def := ir.NewReg("r6", 64)
	def.IsDef = true
	def.Uses = []*ir.Expr{}
	def.Idx = &idx

	external := ir.NewVal(5, 64)
	selfArg := ir.NewReg("r6", 64)
	selfArg.Idx = &idx
	selfArg.Def = def
	def.AddUse(selfArg)

	val := ir.NewPhi(64, external, selfArg)
	ir.NewAssign(def, val)

	require.False(t, CircularPhis(def, val))
}

func TestRunDrivesEachPassToItsOwnFixpoint(t *testing.T) {
	ctx := ssabuild.NewContext(0)

	// x_1 = 9 (one use, as y_1's rhs) and y_1 = x_1 (zero uses) are set up
	// so that Propagator copies 9 into y_1 and drops x_1, then Pruner drops
	// the now-dead y_1, and Run leaves an empty container.
	xIdx := 1
	x := ir.NewReg("x", 64)
	x.IsDef = true
	x.Uses = []*ir.Expr{}
	x.Idx = &xIdx
	xVal := ir.NewVal(9, 64)
	c, _ := defineInContainer(ctx, "reg:x#1", x, xVal)

	yIdx := 1
	y := ir.NewReg("y", 64)
	y.IsDef = true
	y.Uses = []*ir.Expr{}
	y.Idx = &yIdx
	xUse := ir.NewReg("x", 64)
	xUse.Idx = &xIdx
	xUse.Def = x
	x.AddUse(xUse)
	yVal := xUse
	yAssign := ir.NewAssign(y, yVal)
	c.Append(ir.NewStmt(ir.SExpr, 0, yAssign))
	ctx.Defs.Store("reg:y#1", y)

	Run(ctx,
		func(ctx *ssabuild.Context) bool { return Propagator(ctx, SafeDefs, CopyReplacer) },
		func(ctx *ssabuild.Context) bool { return Pruner(ctx, DeadRegs) },
	)

	_, xOK := ctx.Defs.Load("reg:x#1")
	require.False(t, xOK)
	_, yOK := ctx.Defs.Load("reg:y#1")
	require.False(t, yOK)
	require.Empty(t, c.Stmts)
}
