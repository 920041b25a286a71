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

// StmtKind discriminates the statement subtypes of spec.md §3.
type StmtKind uint8

const (
	SExpr StmtKind = iota
	SReturn
	SGoto
	SBranch
)

func (k StmtKind) String() string {
	switch k {
	case SExpr:
		return "Expr"
	case SReturn:
		return "Return"
	case SGoto:
		return "Goto"
	case SBranch:
		return "Branch"
	default:
		return "Unknown"
	}
}

// Stmt holds an address and an ordered list of top-level expressions
// (typically one). A Branch statement's single expression is its condition;
// a Return statement's expression (if any) is the returned value; a Goto
// statement carries no expression.
type Stmt struct {
	Kind   StmtKind
	Addr   uint64
	Exprs  []*Expr
	Parent *Container
}

// NewStmt creates a statement of the given kind holding exprs, wiring each
// expression's Stmt back-pointer.
func NewStmt(kind StmtKind, addr uint64, exprs ...*Expr) *Stmt {
	s := &Stmt{Kind: kind, Addr: addr, Exprs: exprs}
	for _, e := range exprs {
		propagateStmt(e, s)
	}
	return s
}

// IsPhiAssign reports whether s is a single top-level Assign whose rhs is a
// Phi -- the shape phi insertion produces, and that renaming groups at the
// top of a block's container.
func (s *Stmt) IsPhiAssign() bool {
	if len(s.Exprs) != 1 || s.Exprs[0].Kind != KAssign {
		return false
	}
	return s.Exprs[0].Operands[1].Kind == KPhi
}

// Container is an ordered sequence of statements making up a basic block's
// body, together with the block's entry address.
type Container struct {
	Entry uint64
	Stmts []*Stmt
}

// NewContainer creates an empty container at the given entry address.
func NewContainer(entry uint64) *Container {
	return &Container{Entry: entry}
}

// Append appends stmt to the container, wiring its Parent pointer.
func (c *Container) Append(stmt *Stmt) {
	stmt.Parent = c
	c.Stmts = append(c.Stmts, stmt)
}

// Prepend inserts stmt at the front of the container. Used by phi insertion,
// which must place new phi statements at the top of a block.
func (c *Container) Prepend(stmt *Stmt) {
	stmt.Parent = c
	c.Stmts = append([]*Stmt{stmt}, c.Stmts...)
}

// RemoveStmt removes stmt from the container, if present.
func (c *Container) RemoveStmt(stmt *Stmt) {
	for i, s := range c.Stmts {
		if s == stmt {
			c.Stmts = append(c.Stmts[:i], c.Stmts[i+1:]...)
			stmt.Parent = nil
			return
		}
	}
}

// PhiStmts returns the statements at the top of the container that are phi
// assignments, stopping at the first non-phi statement. spec.md §3 requires
// that "a block with a phi statement sees every phi statement grouped at the
// top of the block's container", so this is exactly the prefix scan that
// invariant guarantees is complete.
func (c *Container) PhiStmts() []*Stmt {
	var out []*Stmt
	for _, s := range c.Stmts {
		if !s.IsPhiAssign() {
			break
		}
		out = append(out, s)
	}
	return out
}
