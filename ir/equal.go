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

// Equal reports whether a and b are structurally equal: same kind, size,
// leaf payload, and recursively equal operands. It ignores bookkeeping
// fields (Parent, Stmt, Def, Uses, Weak, IsSafe, Prune) and SSA subscripts
// (Idx), since those are not part of an expression's algebraic identity --
// this is exactly what spec.md §8's algebraic laws and idempotence property
// need ("reduce(Add(x, Val(0))) ≡ x", "reduce_expr(reduce_expr(e)) ≡
// reduce_expr(e)").
func Equal(a, b *Expr) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Size != b.Size {
		return false
	}
	switch a.Kind {
	case KVal:
		if a.IntVal != b.IntVal {
			return false
		}
	case KReg, KVar, KIntrinsic:
		if a.Name != b.Name {
			return false
		}
	}
	if len(a.Operands) != len(b.Operands) {
		return false
	}
	for i := range a.Operands {
		if !Equal(a.Operands[i], b.Operands[i]) {
			return false
		}
	}
	return true
}
