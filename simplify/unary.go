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

package simplify

import "github.com/pdd-project/pdd/ir"

// unaryRules covers Neg, Not, BoolNot, tried in this fixed order against
// each unary node until one fires (spec.md §4.1).
var unaryRules = []rule{
	ruleUnaryConstFold,
	ruleDoubleNegation,
	ruleBoolNotOfConst,
	ruleBoolNotOfComparison,
	ruleDeMorgan,
	ruleBoolNotOfAddSub,
}

// refDerefRules covers AddrOf/Deref cancellation (spec.md §4.1 "Ref/deref").
var refDerefRules = []rule{
	ruleAddrOfDeref,
	ruleDerefAddrOf,
}

// ruleUnaryConstFold folds Neg/Not over a constant operand.
func ruleUnaryConstFold(e *ir.Expr) *ir.Expr {
	x := e.Operands[0]
	if !isConst(x) {
		return nil
	}
	switch e.Kind {
	case ir.KNeg:
		return ir.NewVal(truncate(-constVal(x), e.Size), e.Size)
	case ir.KNot:
		return ir.NewVal(truncate(^constVal(x), e.Size), e.Size)
	}
	return nil
}

// ruleDoubleNegation collapses !!x → x.
func ruleDoubleNegation(e *ir.Expr) *ir.Expr {
	if e.Kind != ir.KBoolNot {
		return nil
	}
	inner := e.Operands[0]
	if inner.Kind != ir.KBoolNot {
		return nil
	}
	return inner.Operands[0]
}

// ruleBoolNotOfConst folds !0 → 1 and !nonzero → 0.
func ruleBoolNotOfConst(e *ir.Expr) *ir.Expr {
	if e.Kind != ir.KBoolNot {
		return nil
	}
	x := e.Operands[0]
	if !isConst(x) {
		return nil
	}
	return ir.NewVal(boolVal(constVal(x) == 0), e.Size)
}

// ruleBoolNotOfComparison applies the converged relational algebra's
// negation: !(x ⋈ y) → rank⊕111.
func ruleBoolNotOfComparison(e *ir.Expr) *ir.Expr {
	if e.Kind != ir.KBoolNot {
		return nil
	}
	inner := e.Operands[0]
	rank, ok := rankOf(inner)
	if !ok {
		return nil
	}
	return rankToExpr(rank^rankTrue, inner.Operands[0], inner.Operands[1])
}

// ruleDeMorgan rewrites !(a && b) → !a || !b and !(a || b) → !a && !b.
func ruleDeMorgan(e *ir.Expr) *ir.Expr {
	if e.Kind != ir.KBoolNot {
		return nil
	}
	inner := e.Operands[0]
	switch inner.Kind {
	case ir.KBoolAnd:
		return ir.NewBinary(ir.KBoolOr, ir.NewUnary(ir.KBoolNot, inner.Operands[0]), ir.NewUnary(ir.KBoolNot, inner.Operands[1]))
	case ir.KBoolOr:
		return ir.NewBinary(ir.KBoolAnd, ir.NewUnary(ir.KBoolNot, inner.Operands[0]), ir.NewUnary(ir.KBoolNot, inner.Operands[1]))
	}
	return nil
}

// ruleBoolNotOfAddSub rewrites !(x + y) → (x == -y) and !(x - y) → (x == y),
// the boolean-negation-of-arithmetic identities (an implicit !=0 test).
func ruleBoolNotOfAddSub(e *ir.Expr) *ir.Expr {
	if e.Kind != ir.KBoolNot {
		return nil
	}
	inner := e.Operands[0]
	switch inner.Kind {
	case ir.KAdd:
		return ir.NewBinary(ir.KEQ, inner.Operands[0], ir.NewUnary(ir.KNeg, inner.Operands[1]))
	case ir.KSub:
		return ir.NewBinary(ir.KEQ, inner.Operands[0], inner.Operands[1])
	}
	return nil
}

// ruleAddrOfDeref rewrites &(*x) → x.
func ruleAddrOfDeref(e *ir.Expr) *ir.Expr {
	if e.Kind != ir.KAddrOf {
		return nil
	}
	inner := e.Operands[0]
	if inner.Kind != ir.KDeref {
		return nil
	}
	return inner.Operands[0]
}

// ruleDerefAddrOf rewrites *(&x) → x.
func ruleDerefAddrOf(e *ir.Expr) *ir.Expr {
	if e.Kind != ir.KDeref {
		return nil
	}
	inner := e.Operands[0]
	if inner.Kind != ir.KAddrOf {
		return nil
	}
	return inner.Operands[0]
}
