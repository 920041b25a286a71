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

import "fmt"

// Expr is a node in the algebraic expression tree (spec.md §3). It is a
// single struct for every variant rather than one type per Kind: every field
// that the original system attached dynamically (op.def, op.uses, op.idx,
// op.weak, op.is_safe, op.prune) is a declared field here instead, each with
// a documented meaning, per spec.md §9's "dynamic attribute attachment"
// re-architecture note.
type Expr struct {
	Kind     Kind
	Operands []*Expr // ordered, possibly empty
	Parent   *Expr   // enclosing expression, nil if this is a statement's top-level expr
	Stmt     *Stmt   // the statement this expression (or its root ancestor) belongs to

	Size int // bit-width

	// Idx is the SSA subscript. Nil before SSA renaming and after
	// transform_out; otherwise assigned by the renaming pass.
	Idx *int

	// Def points to this operand's definition site. Populated only for
	// Reg/Var/Deref operands with IsDef == false (i.e. uses, not defs).
	Def *Expr

	// Uses is the reverse list of operands that use this expression. It is
	// populated only when IsDef == true.
	Uses []*Expr

	// IsDef is true iff this expression is the left-hand side of an Assign.
	// Only meaningful for Reg/Var/Deref (Kind.Nameable()).
	IsDef bool

	// Weak marks a synthetic definition (phi-inserted or implicit-init) that
	// later passes may eliminate without conservative concern.
	Weak bool

	// IsSafe marks a Deref whose address is known not to alias other live
	// state, allowing the dead-deref pruning selector to fire more
	// aggressively (spec.md §4.4).
	IsSafe bool

	// Prune is an explicit hint (set by architecture-specific passes, e.g.
	// preserved-location analysis) that this definition should be removed
	// by the pruner even though it would not otherwise qualify.
	Prune bool

	// Leaf payload. Only the fields relevant to Kind are meaningful.
	IntVal int64  // Val
	Name   string // Reg/Var name, or Intrinsic's opcode name
}

// NewVal returns a new Val(value, size) leaf.
func NewVal(value int64, size int) *Expr {
	return &Expr{Kind: KVal, Size: size, IntVal: value}
}

// NewReg returns a new Reg(name, size) leaf. IsDef defaults to false (a use);
// callers constructing an Assign.lhs must set IsDef explicitly or use
// NewAssign, which does so.
func NewReg(name string, size int) *Expr {
	return &Expr{Kind: KReg, Size: size, Name: name}
}

// NewVar returns a new Var(name, size) leaf.
func NewVar(name string, size int) *Expr {
	return &Expr{Kind: KVar, Size: size, Name: name}
}

// NewDeref returns a new Deref(addr, size) leaf. addr becomes operand 0.
func NewDeref(addr *Expr, size int) *Expr {
	e := &Expr{Kind: KDeref, Size: size}
	SetOperand(e, 0, addr)
	return e
}

// NewAddrOf returns a new AddrOf(inner) node.
func NewAddrOf(inner *Expr) *Expr {
	e := &Expr{Kind: KAddrOf, Size: inner.Size}
	SetOperand(e, 0, inner)
	return e
}

// NewPhi returns a new Phi(args...) node. Argument order must correspond to
// CFG predecessor order (spec.md §3 invariant).
func NewPhi(size int, args ...*Expr) *Expr {
	e := &Expr{Kind: KPhi, Size: size}
	for i, a := range args {
		SetOperand(e, i, a)
	}
	return e
}

// NewUnary returns a new unary expression (Neg, Not, BoolNot) over x.
func NewUnary(k Kind, x *Expr) *Expr {
	if !k.IsUnary() {
		panic(fmt.Sprintf("ir: %s is not a unary kind", k))
	}
	e := &Expr{Kind: k, Size: x.Size}
	SetOperand(e, 0, x)
	return e
}

// NewBinary returns a new binary expression over x, y. Comparisons are sized
// as 1 bit (boolean result); all other binary kinds inherit x's size.
func NewBinary(k Kind, x, y *Expr) *Expr {
	if !k.IsBinary() {
		panic(fmt.Sprintf("ir: %s is not a binary kind", k))
	}
	size := x.Size
	if k.IsComparison() || k == KBoolAnd || k == KBoolOr {
		size = 1
	}
	e := &Expr{Kind: k, Size: size}
	SetOperand(e, 0, x)
	SetOperand(e, 1, y)
	return e
}

// NewTernary returns a new TCond(c, t, f) node.
func NewTernary(c, t, f *Expr) *Expr {
	e := &Expr{Kind: KTCond, Size: t.Size}
	SetOperand(e, 0, c)
	SetOperand(e, 1, t)
	SetOperand(e, 2, f)
	return e
}

// NewCall returns a new Call(callee, args...) node.
func NewCall(size int, callee *Expr, args ...*Expr) *Expr {
	e := &Expr{Kind: KCall, Size: size}
	SetOperand(e, 0, callee)
	for i, a := range args {
		SetOperand(e, i+1, a)
	}
	return e
}

// NewIntrinsic returns a new Intrinsic(args...) node named name.
func NewIntrinsic(name string, size int, args ...*Expr) *Expr {
	e := &Expr{Kind: KIntrinsic, Size: size, Name: name}
	for i, a := range args {
		SetOperand(e, i, a)
	}
	return e
}

// NewAssign returns a new Assign(lhs, rhs) statement-level expression. lhs
// must be a Reg, Var, or Deref (spec.md §3 invariant); NewAssign marks it
// IsDef and leaves Uses initialized empty, ready to be registered as a
// definition.
func NewAssign(lhs, rhs *Expr) *Expr {
	if !lhs.Kind.Nameable() {
		panic(fmt.Sprintf("ir: Assign.lhs must be Reg, Var, or Deref, got %s", lhs.Kind))
	}
	lhs.IsDef = true
	if lhs.Uses == nil {
		lhs.Uses = []*Expr{}
	}
	e := &Expr{Kind: KAssign, Size: rhs.Size}
	SetOperand(e, 0, lhs)
	SetOperand(e, 1, rhs)
	return e
}

// SetOperand installs child as parent's operand at idx, extending
// parent.Operands if necessary, and wires child's Parent and Stmt back
// pointers. It does not touch def/use links.
func SetOperand(parent *Expr, idx int, child *Expr) {
	for len(parent.Operands) <= idx {
		parent.Operands = append(parent.Operands, nil)
	}
	parent.Operands[idx] = child
	if child == nil {
		return
	}
	child.Parent = parent
	propagateStmt(child, parent.Stmt)
}

// propagateStmt sets e's Stmt (and recursively its operands') to stmt.
func propagateStmt(e *Expr, stmt *Stmt) {
	if e == nil || e.Stmt == stmt {
		return
	}
	e.Stmt = stmt
	for _, o := range e.Operands {
		propagateStmt(o, stmt)
	}
}

// Root walks up Parent pointers and returns the top-level expression of e's
// statement (the expression directly held in Stmt.Exprs).
func (e *Expr) Root() *Expr {
	for e.Parent != nil {
		e = e.Parent
	}
	return e
}

// OperandIndex returns the index of child within e.Operands, or -1.
func (e *Expr) OperandIndex(child *Expr) int {
	for i, o := range e.Operands {
		if o == child {
			return i
		}
	}
	return -1
}

// AddUse registers user as a reader of the definition e. e must be a
// definition (IsDef == true).
func (e *Expr) AddUse(user *Expr) {
	e.Uses = append(e.Uses, user)
}

// RemoveUse removes the first occurrence of user from e.Uses.
func (e *Expr) RemoveUse(user *Expr) {
	for i, u := range e.Uses {
		if u == user {
			e.Uses = append(e.Uses[:i], e.Uses[i+1:]...)
			return
		}
	}
}

// SameName reports whether two nameable leaves (Reg/Var/Deref) refer to the
// same source-level location: same kind and same Name. Deref additionally
// requires the address sub-expressions to be structurally equal, since two
// Deref nodes only name "the same location" if they read the same address.
func SameName(a, b *Expr) bool {
	if a.Kind != b.Kind || !a.Kind.Nameable() {
		return false
	}
	if a.Kind == KDeref {
		return Equal(a.Operands[0], b.Operands[0])
	}
	return a.Name == b.Name
}

// String renders a compact debug form of the expression tree, including SSA
// subscripts when present. It is for debugging/test failure messages only;
// pseudo-source rendering is the back-end printer's job (out of scope).
func (e *Expr) String() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case KVal:
		return fmt.Sprintf("%d", e.IntVal)
	case KReg, KVar:
		return e.Name + e.subscript()
	case KDeref:
		return "*(" + e.Operands[0].String() + ")" + e.subscript()
	case KAddrOf:
		return "&(" + e.Operands[0].String() + ")"
	case KPhi:
		s := "Phi("
		for i, o := range e.Operands {
			if i > 0 {
				s += ", "
			}
			s += o.String()
		}
		return s + ")"
	case KNeg:
		return "-(" + e.Operands[0].String() + ")"
	case KNot:
		return "~(" + e.Operands[0].String() + ")"
	case KBoolNot:
		return "!(" + e.Operands[0].String() + ")"
	case KTCond:
		return "(" + e.Operands[0].String() + " ? " + e.Operands[1].String() + " : " + e.Operands[2].String() + ")"
	case KCall:
		s := e.Operands[0].String() + "("
		for i, a := range e.Operands[1:] {
			if i > 0 {
				s += ", "
			}
			s += a.String()
		}
		return s + ")"
	case KIntrinsic:
		s := e.Name + "("
		for i, a := range e.Operands {
			if i > 0 {
				s += ", "
			}
			s += a.String()
		}
		return s + ")"
	case KAssign:
		return e.Operands[0].String() + " = " + e.Operands[1].String()
	default:
		if e.Kind.IsBinary() {
			return "(" + e.Operands[0].String() + " " + binOpSym[e.Kind] + " " + e.Operands[1].String() + ")"
		}
		return e.Kind.String()
	}
}

func (e *Expr) subscript() string {
	if e.Idx == nil {
		return ""
	}
	return fmt.Sprintf("_%d", *e.Idx)
}

var binOpSym = map[Kind]string{
	KAdd: "+", KSub: "-", KMul: "*", KDiv: "/", KMod: "%",
	KAnd: "&", KOr: "|", KXor: "^", KShl: "<<", KShr: ">>",
	KBoolAnd: "&&", KBoolOr: "||",
	KEQ: "==", KNE: "!=", KLT: "<", KLE: "<=", KGT: ">", KGE: ">=",
}
