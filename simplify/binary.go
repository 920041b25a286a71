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

// binaryRules is tried, in order, against every binary node until one fires.
// The order only matters for which equivalent rewrite is chosen first --
// every rule here is independently sound, so firing any of them preserves
// meaning.
var binaryRules = []rule{
	ruleBinaryConstFold,
	ruleComparisonOfEqualOperands,
	ruleAddZero,
	ruleSubZero,
	ruleMulOne,
	ruleDivOne,
	ruleSignCorrection,
	ruleXorZero,
	ruleXorSelf,
	ruleXorAllOnes,
	ruleAndSelf,
	ruleOrSelf,
	ruleAndZero,
	ruleOrAllOnes,
	ruleShlZeroLeft,
	ruleShlZeroRight,
	ruleShrThenShlMask,
	ruleAssociativeReassoc,
	ruleArithmeticReassoc,
	ruleEqualityAlgebraConstShift,
	ruleEqZeroOfSub,
	ruleEqZeroOfAdd,
	ruleRelationalOr,
	ruleRelationalAnd,
	ruleRelationalEqual,
}

// ruleBinaryConstFold folds an arithmetic, bitwise, shift or comparison
// operator over two Val operands (BoolAnd/BoolOr, and division or modulo by
// zero, are left unfolded), except that a right shift only folds when the left operand's most-significant bit
// (within its own bit-width) is zero, since the sign of a wider shift is
// otherwise ambiguous (spec.md §4.1).
func ruleBinaryConstFold(e *ir.Expr) *ir.Expr {
	x, y := e.Operands[0], e.Operands[1]
	if !isConst(x) || !isConst(y) {
		return nil
	}
	if e.Kind == ir.KShr && !msbZero(x.IntVal, x.Size) {
		return nil
	}
	v, ok := foldBinaryConst(e.Kind, x.IntVal, y.IntVal, x.Size)
	if !ok {
		return nil
	}
	return ir.NewVal(truncate(v, e.Size), e.Size)
}

func msbZero(v int64, size int) bool {
	if size <= 0 || size > 63 {
		return v >= 0
	}
	return truncate(v, size)&(int64(1)<<uint(size-1)) == 0
}

func foldBinaryConst(k ir.Kind, x, y int64, size int) (int64, bool) {
	switch k {
	case ir.KAdd:
		return x + y, true
	case ir.KSub:
		return x - y, true
	case ir.KMul:
		return x * y, true
	case ir.KDiv:
		if y == 0 {
			return 0, false
		}
		return x / y, true
	case ir.KMod:
		if y == 0 {
			return 0, false
		}
		return x % y, true
	case ir.KAnd:
		return x & y, true
	case ir.KOr:
		return x | y, true
	case ir.KXor:
		return x ^ y, true
	case ir.KShl:
		return x << uint(y), true
	case ir.KShr:
		return truncate(x, size) >> uint(y), true
	case ir.KEQ:
		return boolVal(x == y), true
	case ir.KNE:
		return boolVal(x != y), true
	case ir.KLT:
		return boolVal(x < y), true
	case ir.KLE:
		return boolVal(x <= y), true
	case ir.KGT:
		return boolVal(x > y), true
	case ir.KGE:
		return boolVal(x >= y), true
	}
	return 0, false
}

// ruleComparisonOfEqualOperands folds x==x → 1 and x!=x → 0 when the two
// sides are structurally identical, even when neither is a literal constant
// (spec.md §4.1: "for NE only when they are known-equal").
func ruleComparisonOfEqualOperands(e *ir.Expr) *ir.Expr {
	if e.Kind != ir.KEQ && e.Kind != ir.KNE {
		return nil
	}
	if !ir.Equal(e.Operands[0], e.Operands[1]) {
		return nil
	}
	return ir.NewVal(boolVal(e.Kind == ir.KEQ), e.Size)
}

func ruleAddZero(e *ir.Expr) *ir.Expr {
	if e.Kind != ir.KAdd {
		return nil
	}
	if isConstVal(e.Operands[1], 0) {
		return e.Operands[0]
	}
	if isConstVal(e.Operands[0], 0) {
		return e.Operands[1]
	}
	return nil
}

func ruleSubZero(e *ir.Expr) *ir.Expr {
	if e.Kind != ir.KSub || !isConstVal(e.Operands[1], 0) {
		return nil
	}
	return e.Operands[0]
}

func ruleMulOne(e *ir.Expr) *ir.Expr {
	if e.Kind != ir.KMul {
		return nil
	}
	if isConstVal(e.Operands[1], 1) {
		return e.Operands[0]
	}
	if isConstVal(e.Operands[0], 1) {
		return e.Operands[1]
	}
	return nil
}

func ruleDivOne(e *ir.Expr) *ir.Expr {
	if e.Kind != ir.KDiv || !isConstVal(e.Operands[1], 1) {
		return nil
	}
	return e.Operands[0]
}

// ruleSignCorrection rewrites x + (-c) → x - c and x - (-c) → x + c when the
// right operand is a negative constant.
func ruleSignCorrection(e *ir.Expr) *ir.Expr {
	y := e.Operands[1]
	if !isConst(y) || y.IntVal >= 0 {
		return nil
	}
	switch e.Kind {
	case ir.KAdd:
		return ir.NewBinary(ir.KSub, e.Operands[0], ir.NewVal(-y.IntVal, y.Size))
	case ir.KSub:
		return ir.NewBinary(ir.KAdd, e.Operands[0], ir.NewVal(-y.IntVal, y.Size))
	}
	return nil
}

func ruleXorZero(e *ir.Expr) *ir.Expr {
	if e.Kind != ir.KXor {
		return nil
	}
	if isConstVal(e.Operands[0], 0) {
		return e.Operands[1]
	}
	if isConstVal(e.Operands[1], 0) {
		return e.Operands[0]
	}
	return nil
}

func ruleXorSelf(e *ir.Expr) *ir.Expr {
	if e.Kind != ir.KXor || !ir.Equal(e.Operands[0], e.Operands[1]) {
		return nil
	}
	return ir.NewVal(0, e.Size)
}

func ruleXorAllOnes(e *ir.Expr) *ir.Expr {
	if e.Kind != ir.KXor {
		return nil
	}
	mask := allOnesMask(e.Size)
	if isConstVal(e.Operands[1], mask) {
		return ir.NewUnary(ir.KNot, e.Operands[0])
	}
	if isConstVal(e.Operands[0], mask) {
		return ir.NewUnary(ir.KNot, e.Operands[1])
	}
	return nil
}

func ruleAndSelf(e *ir.Expr) *ir.Expr {
	if e.Kind != ir.KAnd || !ir.Equal(e.Operands[0], e.Operands[1]) {
		return nil
	}
	return e.Operands[0]
}

func ruleOrSelf(e *ir.Expr) *ir.Expr {
	if e.Kind != ir.KOr || !ir.Equal(e.Operands[0], e.Operands[1]) {
		return nil
	}
	return e.Operands[0]
}

func ruleAndZero(e *ir.Expr) *ir.Expr {
	if e.Kind != ir.KAnd {
		return nil
	}
	if isConstVal(e.Operands[0], 0) || isConstVal(e.Operands[1], 0) {
		return ir.NewVal(0, e.Size)
	}
	return nil
}

func ruleOrAllOnes(e *ir.Expr) *ir.Expr {
	if e.Kind != ir.KOr {
		return nil
	}
	mask := allOnesMask(e.Size)
	if isConstVal(e.Operands[0], mask) || isConstVal(e.Operands[1], mask) {
		return ir.NewVal(mask, e.Size)
	}
	return nil
}

func ruleShlZeroLeft(e *ir.Expr) *ir.Expr {
	if e.Kind != ir.KShl || !isConstVal(e.Operands[0], 0) {
		return nil
	}
	return ir.NewVal(0, e.Size)
}

func ruleShlZeroRight(e *ir.Expr) *ir.Expr {
	if e.Kind != ir.KShl || !isConstVal(e.Operands[1], 0) {
		return nil
	}
	return e.Operands[0]
}

// ruleShrThenShlMask rewrites (x >> c) << c → x & ~((1<<c)-1).
func ruleShrThenShlMask(e *ir.Expr) *ir.Expr {
	if e.Kind != ir.KShl {
		return nil
	}
	inner := e.Operands[0]
	shiftAmt := e.Operands[1]
	if inner.Kind != ir.KShr || !isConst(shiftAmt) || !isConst(inner.Operands[1]) {
		return nil
	}
	if inner.Operands[1].IntVal != shiftAmt.IntVal {
		return nil
	}
	c := shiftAmt.IntVal
	mask := truncate(^((int64(1) << uint(c)) - 1), e.Size)
	return ir.NewBinary(ir.KAnd, inner.Operands[0], ir.NewVal(mask, e.Size))
}

// ruleAssociativeReassoc rewrites ((x op c1) op c0) → (x op (c1 op c0)) for
// the associative operators Add, Mul, And, Or, Xor.
func ruleAssociativeReassoc(e *ir.Expr) *ir.Expr {
	if !e.Kind.IsAssociative() {
		return nil
	}
	c0 := e.Operands[1]
	inner := e.Operands[0]
	if !isConst(c0) || inner.Kind != e.Kind {
		return nil
	}
	c1 := inner.Operands[1]
	if !isConst(c1) {
		return nil
	}
	combined, ok := foldBinaryConst(e.Kind, c1.IntVal, c0.IntVal, e.Size)
	if !ok {
		return nil
	}
	return ir.NewBinary(e.Kind, inner.Operands[0], ir.NewVal(truncate(combined, e.Size), e.Size))
}

// ruleArithmeticReassoc rewrites (x ± c1) ± c0 → x ± (c1 combined c0), where
// the combined operator is + if the inner and outer operator are the same
// and - otherwise, for the Add/Sub pair (which ruleAssociativeReassoc cannot
// cover because Sub is not associative).
func ruleArithmeticReassoc(e *ir.Expr) *ir.Expr {
	if e.Kind != ir.KAdd && e.Kind != ir.KSub {
		return nil
	}
	c0 := e.Operands[1]
	inner := e.Operands[0]
	if !isConst(c0) || (inner.Kind != ir.KAdd && inner.Kind != ir.KSub) {
		return nil
	}
	c1 := inner.Operands[1]
	if !isConst(c1) {
		return nil
	}
	var combined int64
	if inner.Kind == e.Kind {
		combined = c1.IntVal + c0.IntVal
	} else {
		combined = c1.IntVal - c0.IntVal
	}
	return ir.NewBinary(inner.Kind, inner.Operands[0], ir.NewVal(truncate(combined, e.Size), e.Size))
}

// ruleEqualityAlgebraConstShift rewrites (x ± c1) ⋈ c2 → x ⋈ (c2 ∓ c1).
func ruleEqualityAlgebraConstShift(e *ir.Expr) *ir.Expr {
	if !e.Kind.IsComparison() {
		return nil
	}
	lhs, c2 := e.Operands[0], e.Operands[1]
	if !isConst(c2) || (lhs.Kind != ir.KAdd && lhs.Kind != ir.KSub) {
		return nil
	}
	x, c1 := lhs.Operands[0], lhs.Operands[1]
	if !isConst(c1) {
		return nil
	}
	var shifted int64
	if lhs.Kind == ir.KAdd {
		shifted = c2.IntVal - c1.IntVal
	} else {
		shifted = c2.IntVal + c1.IntVal
	}
	return ir.NewBinary(e.Kind, x, ir.NewVal(truncate(shifted, c1.Size), c1.Size))
}

// ruleEqZeroOfSub rewrites (x - y) == 0 → x == y.
func ruleEqZeroOfSub(e *ir.Expr) *ir.Expr {
	if e.Kind != ir.KEQ || !isConstVal(e.Operands[1], 0) {
		return nil
	}
	lhs := e.Operands[0]
	if lhs.Kind != ir.KSub {
		return nil
	}
	return ir.NewBinary(ir.KEQ, lhs.Operands[0], lhs.Operands[1])
}

// ruleEqZeroOfAdd rewrites (x + y) == 0 → x == -y.
func ruleEqZeroOfAdd(e *ir.Expr) *ir.Expr {
	if e.Kind != ir.KEQ || !isConstVal(e.Operands[1], 0) {
		return nil
	}
	lhs := e.Operands[0]
	if lhs.Kind != ir.KAdd {
		return nil
	}
	return ir.NewBinary(ir.KEQ, lhs.Operands[0], ir.NewUnary(ir.KNeg, lhs.Operands[1]))
}

// ruleRelationalOr rewrites (x ⋈1 y) || (x ⋈2 y) → rank1|rank2.
func ruleRelationalOr(e *ir.Expr) *ir.Expr {
	if e.Kind != ir.KBoolOr {
		return nil
	}
	return relationalCombine(e, func(r1, r2 int) int { return r1 | r2 })
}

// ruleRelationalAnd rewrites (x ⋈1 y) && (x ⋈2 y) → rank1&rank2.
func ruleRelationalAnd(e *ir.Expr) *ir.Expr {
	if e.Kind != ir.KBoolAnd {
		return nil
	}
	return relationalCombine(e, func(r1, r2 int) int { return r1 & r2 })
}

// ruleRelationalEqual rewrites (x ⋈1 y) == (x ⋈2 y) → ¬(rank1⊕rank2).
func ruleRelationalEqual(e *ir.Expr) *ir.Expr {
	if e.Kind != ir.KEQ {
		return nil
	}
	return relationalCombine(e, func(r1, r2 int) int { return (^(r1 ^ r2)) & rankTrue })
}

func relationalCombine(e *ir.Expr, combine func(r1, r2 int) int) *ir.Expr {
	a, b := e.Operands[0], e.Operands[1]
	r1, ok1 := rankOf(a)
	r2, ok2 := rankOf(b)
	if !ok1 || !ok2 || !sameOperands(a, b) {
		return nil
	}
	return rankToExpr(combine(r1, r2), a.Operands[0], a.Operands[1])
}
