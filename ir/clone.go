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

// PreserveFlag names which per-node attributes survive a Clone; all others
// reset to their zero value (spec.md §4.1: "preserve_fields names which
// per-node attributes (idx, def, is_safe, weak) survive the clone; others
// are reset").
type PreserveFlag uint8

const (
	PreserveIdx PreserveFlag = 1 << iota
	PreserveDef
	PreserveIsSafe
	PreserveWeak
)

// Has reports whether f includes flag.
func (f PreserveFlag) Has(flag PreserveFlag) bool { return f&flag != 0 }

// Clone deep-copies e and its operands. The result is fully detached: Parent
// is wired within the copied subtree, but Stmt is nil and Uses is always
// empty (a clone is not registered as anyone's definition until a caller
// splices it in and registers it). IsDef is always reset to false, since a
// clone is a plain value copy, not a redeclaration of the original
// assignment's left-hand side.
func Clone(e *Expr, preserve PreserveFlag) *Expr {
	if e == nil {
		return nil
	}
	c := &Expr{
		Kind:   e.Kind,
		Size:   e.Size,
		IntVal: e.IntVal,
		Name:   e.Name,
	}
	if preserve.Has(PreserveIdx) && e.Idx != nil {
		v := *e.Idx
		c.Idx = &v
	}
	if preserve.Has(PreserveDef) {
		c.Def = e.Def
	}
	if preserve.Has(PreserveIsSafe) {
		c.IsSafe = e.IsSafe
	}
	if preserve.Has(PreserveWeak) {
		c.Weak = e.Weak
	}
	if len(e.Operands) > 0 {
		c.Operands = make([]*Expr, len(e.Operands))
		for i, o := range e.Operands {
			child := Clone(o, preserve)
			c.Operands[i] = child
			if child != nil {
				child.Parent = c
			}
		}
	}
	return c
}
