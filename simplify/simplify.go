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

// Package simplify implements the algebraic expression simplifier: a
// bottom-up, fixpoint rewrite pass over ir.Expr trees (spec.md §4.1). Rule
// sets are partitioned by arity (unary/binary/ternary), and every rule
// either fires by returning a replacement node or declines by returning nil.
package simplify

import "github.com/pdd-project/pdd/ir"

// rule is a single rewrite rule: given a node of the arity it is registered
// for, it either returns a replacement or nil meaning "did not fire".
type rule func(e *ir.Expr) *ir.Expr

// ReduceExpr repeatedly applies rewrite rules bottom-up (post-order) to e and
// its subtree until no rule fires anywhere, then returns the (possibly new)
// root of the reduced subtree. If e has a Parent or belongs to a Stmt,
// ReduceExpr splices the result into that slot itself (via ir.Replace) before
// returning, so in that case the caller does not need to re-wire the result.
func ReduceExpr(e *ir.Expr) *ir.Expr {
	if e == nil {
		return nil
	}
	return reduceExprRec(e)
}

// reduceExprRec first recurses into every operand to a fixpoint, then tries
// rules for the current node in a fixed order until no rule fires anywhere
// against it. If the node this settles on differs from e, ir.Replace wires
// it into e's old position once, which both splices it in and detaches every
// leaf discarded across however many rules fired along the way (comparing
// against e's original, untouched subtree, not just the prior iteration).
// Termination follows spec.md §4.1: every firing rule strictly reduces a
// well-founded measure (node count, or distance of constants from the root
// of a finite associative chain).
func reduceExprRec(e *ir.Expr) *ir.Expr {
	for i, o := range e.Operands {
		if o == nil {
			continue
		}
		reduced := reduceExprRec(o)
		if reduced != o {
			ir.SetOperand(e, i, reduced)
		}
	}

	original := e
	cur := e
	for {
		next := tryRules(cur)
		if next == nil {
			break
		}
		cur = next
	}

	if cur != original {
		ir.Replace(original, cur)
	}
	return cur
}

// tryRules dispatches e to its arity's rule set and returns the first firing
// rule's replacement, or nil if none fire.
func tryRules(e *ir.Expr) *ir.Expr {
	switch {
	case e.Kind.IsUnary():
		return firstFire(unaryRules, e)
	case e.Kind.IsBinary():
		return firstFire(binaryRules, e)
	case e.Kind.IsTernary():
		return firstFire(ternaryRules, e)
	case e.Kind == ir.KAddrOf || e.Kind == ir.KDeref:
		return firstFire(refDerefRules, e)
	default:
		return nil
	}
}

func firstFire(rules []rule, e *ir.Expr) *ir.Expr {
	for _, r := range rules {
		if out := r(e); out != nil {
			return out
		}
	}
	return nil
}

// ReduceStmt reduces each top-level expression of s. ReduceExpr already
// splices the reduced result into s.Exprs itself (every top-level expression
// has its Stmt pointer set), so no further wiring is needed here.
func ReduceStmt(s *ir.Stmt) {
	for _, e := range s.Exprs {
		if e == nil {
			continue
		}
		ReduceExpr(e)
	}
}

// isConst reports whether e is a Val leaf.
func isConst(e *ir.Expr) bool {
	return e != nil && e.Kind == ir.KVal
}

// constVal returns e's constant value; callers must check isConst first.
func constVal(e *ir.Expr) int64 { return e.IntVal }

// isConstVal reports whether e is a Val leaf equal to v.
func isConstVal(e *ir.Expr, v int64) bool {
	return isConst(e) && e.IntVal == v
}

// allOnesMask returns the all-ones bit pattern for a value of the given
// bit-width, e.g. 0xFF for size 8.
func allOnesMask(size int) int64 {
	if size <= 0 || size >= 64 {
		return -1
	}
	return (int64(1) << uint(size)) - 1
}

// truncate masks v down to size bits, the width every constant-folding rule
// must apply before comparing or storing results so folded constants do not
// leak bits from Go's 64-bit int64 representation.
func truncate(v int64, size int) int64 {
	mask := allOnesMask(size)
	if mask == -1 {
		return v
	}
	return v & mask
}

func boolVal(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
