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

// The converged relational algebra (spec.md §4.1) encodes each of the six
// comparison kinds as a 3-bit rank so that boolean combinations of two
// comparisons sharing the same operands collapse via bitwise rank algebra:
// 000 is always-false, 111 is always-true, and every other value names
// exactly one comparison kind.
const (
	rankFalse = 0b000
	rankEQ    = 0b001
	rankLT    = 0b010
	rankLE    = 0b011
	rankGT    = 0b100
	rankGE    = 0b101
	rankNE    = 0b110
	rankTrue  = 0b111
)

var kindToRank = map[ir.Kind]int{
	ir.KEQ: rankEQ, ir.KLT: rankLT, ir.KLE: rankLE,
	ir.KGT: rankGT, ir.KGE: rankGE, ir.KNE: rankNE,
}

var rankToKind = map[int]ir.Kind{
	rankEQ: ir.KEQ, rankLT: ir.KLT, rankLE: ir.KLE,
	rankGT: ir.KGT, rankGE: ir.KGE, rankNE: ir.KNE,
}

// rankOf returns e's relational rank and true, if e is one of the six
// comparison kinds.
func rankOf(e *ir.Expr) (int, bool) {
	r, ok := kindToRank[e.Kind]
	return r, ok
}

// sameOperands reports whether a and b are comparisons over structurally
// identical (x, y) operand pairs -- the precondition for combining their
// ranks (spec.md §4.1: "(x ⋈₁ y) || (x ⋈₂ y)").
func sameOperands(a, b *ir.Expr) bool {
	return ir.Equal(a.Operands[0], b.Operands[0]) && ir.Equal(a.Operands[1], b.Operands[1])
}

// rankToExpr builds the expression denoted by rank over (x, y): the matching
// comparison kind, or a 1-bit boolean constant for the always-true/false
// ranks.
func rankToExpr(rank int, x, y *ir.Expr) *ir.Expr {
	switch rank {
	case rankFalse:
		return ir.NewVal(0, 1)
	case rankTrue:
		return ir.NewVal(1, 1)
	default:
		k, ok := rankToKind[rank]
		if !ok {
			return nil
		}
		return ir.NewBinary(k, x, y)
	}
}
