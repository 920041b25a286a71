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

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pdd-project/pdd/config"
	"github.com/pdd-project/pdd/diagnostic"
	"github.com/pdd-project/pdd/ir"
)

func link(from, to *ir.BasicBlock, asFail bool) {
	if asFail {
		from.Fail = to
	} else {
		from.Jump = to
	}
}

func assign(addr uint64, lhs, rhs *ir.Expr) *ir.Stmt {
	return ir.NewStmt(ir.SExpr, addr, ir.NewAssign(lhs, rhs))
}

func useStmt(addr uint64, e *ir.Expr) *ir.Stmt {
	return ir.NewStmt(ir.SReturn, addr, e)
}

// diamondFunction builds a branch-then-merge CFG with one dead assignment
// (r1, never read) and one live one (r0, merged through a phi and
// returned), so Run has real work to do at every stage: phi insertion,
// dead-reg pruning, live-range analysis, and fall-through/condition
// recovery over the diamond shape itself.
func diamondFunction() *ir.Function {
	b0 := ir.NewBasicBlock(0x0)
	b1 := ir.NewBasicBlock(0x10)
	b2 := ir.NewBasicBlock(0x20)
	b3 := ir.NewBasicBlock(0x30)
	link(b0, b1, false)
	link(b0, b2, true)
	link(b1, b3, false)
	link(b2, b3, false)

	b0.Body.Append(ir.NewStmt(ir.SBranch, b0.Addr, ir.NewVal(1, 1)))
	b1.Body.Append(assign(b1.Addr, ir.NewReg("r0", 64), ir.NewVal(1, 64)))
	b1.Body.Append(assign(b1.Addr, ir.NewReg("r1", 64), ir.NewVal(99, 64)))
	b2.Body.Append(assign(b2.Addr, ir.NewReg("r0", 64), ir.NewVal(2, 64)))
	b3.Body.Append(useStmt(b3.Addr, ir.NewReg("r0", 64)))

	return ir.NewFunction(0x0, "diamond", b0, nil, nil, []*ir.BasicBlock{b0, b1, b2, b3})
}

func TestRunProducesTransformedFunctionAndReport(t *testing.T) {
	f := diamondFunction()
	log := diagnostic.NewLog()

	result := Run(f, config.Default(), log)

	require.Same(t, f, result.Function)
	require.False(t, log.HasErrors())
}

func TestRunRecoversConditionOverDiamond(t *testing.T) {
	f := diamondFunction()
	log := diagnostic.NewLog()

	result := Run(f, config.Default(), log)

	require.NotEmpty(t, result.Conditions)
}

func TestRunReportsFixpointDivergedWhenStepNeverSettles(t *testing.T) {
	f := diamondFunction()
	log := diagnostic.NewLog()

	calls := 0
	runToFixpoint(f, log, "never-settles", func() bool {
		calls++
		return true
	})

	require.Equal(t, maxFixpointIterations, calls)
	require.True(t, log.HasErrors())
}

func TestRunToFixpointStopsAsSoonAsNoChange(t *testing.T) {
	f := diamondFunction()
	log := diagnostic.NewLog()

	calls := 0
	runToFixpoint(f, log, "settles-immediately", func() bool {
		calls++
		return false
	})

	require.Equal(t, 1, calls)
	require.False(t, log.HasErrors())
}
