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

// Package ssabuild implements the two-phase SSA construction driver of
// spec.md §4.3: phi insertion (Cytron et al.) followed by dominator-tree
// renaming, run once per selector wave (registers, then locals, then
// dereferences), followed by a phi-relaxation fixpoint after each wave.
package ssabuild

import (
	"fmt"

	"github.com/pdd-project/pdd/ir"
	"github.com/pdd-project/pdd/util/orderedmap"
)

// Context holds the SSA builder's working state for one function: the
// insertion-ordered table of every definition created so far (ctx.defs in
// spec.md §4.3/§4.4, keyed by "<name-key>#<subscript>"), and the synthetic
// container implicit initialization synthesizes definitions into.
type Context struct {
	Defs   *orderedmap.OrderedMap[string, *ir.Expr]
	Uninit *ir.Container

	count map[string]int
	stack map[string][]*ir.Expr
}

// NewContext creates an empty SSA context. uninitEntry is the address
// recorded on the synthetic uninitialized-definitions container.
func NewContext(uninitEntry uint64) *Context {
	return &Context{
		Defs:   orderedmap.New[string, *ir.Expr](),
		Uninit: ir.NewContainer(uninitEntry),
		count:  make(map[string]int),
		stack:  make(map[string][]*ir.Expr),
	}
}

// Selector decides whether a nameable leaf (Reg, Var, or Deref) participates
// in the renaming wave currently running, per spec.md §4.3's "selector
// predicate (e.g. 'is a Register', 'is a Deref', 'is a local Variable')".
type Selector func(e *ir.Expr) bool

// SelectRegs matches register operands -- the first renaming wave.
func SelectRegs(e *ir.Expr) bool { return e.Kind == ir.KReg }

// SelectLocals matches local-variable operands -- the second renaming wave.
func SelectLocals(e *ir.Expr) bool { return e.Kind == ir.KVar }

// SelectDerefs matches memory-dereference operands -- the third renaming
// wave, run last so architecture-specific passes can canonicalize addresses
// using the registers/locals already renamed (spec.md §4.3).
func SelectDerefs(e *ir.Expr) bool { return e.Kind == ir.KDeref }

// nameKey returns the string that identifies "the same named location" for
// renaming purposes: the bare name for Reg/Var, or a structural rendering of
// the address expression for Deref (spec.md §3's SameName notion, stringly
// keyed so it can index the count/stack maps). Because Deref addresses may
// themselves carry SSA subscripts by the time the deref wave runs, two
// dereferences of the same register at different points in the program are
// correctly treated as different locations once that register has been
// renamed -- the "canonicalized addresses" spec.md §4.3 describes.
func nameKey(e *ir.Expr) string {
	switch e.Kind {
	case ir.KReg:
		return "reg:" + e.Name
	case ir.KVar:
		return "var:" + e.Name
	case ir.KDeref:
		return "deref:" + e.Operands[0].String()
	default:
		panic(fmt.Sprintf("ssabuild: %s is not a nameable leaf", e.Kind))
	}
}

// pushDef installs def as the new top-of-stack definition for its name and
// registers it in ctx.Defs. It is used both by ordinary renaming (with a
// freshly incremented subscript) and by phi-insertion-driven defines.
func (ctx *Context) pushDef(def *ir.Expr, idx int) {
	key := nameKey(def)
	ctx.stack[key] = append(ctx.stack[key], def)
	ctx.Defs.Store(fmt.Sprintf("%s#%d", key, idx), def)
}

// popDef removes the top-of-stack definition for key, mirroring a pushDef
// made during the current block's step 1 (spec.md §4.3 step 4: "pop stack
// entries for every def created in step 1").
func (ctx *Context) popDef(key string) {
	s := ctx.stack[key]
	if len(s) == 0 {
		return
	}
	ctx.stack[key] = s[:len(s)-1]
}

// topDef returns the current top-of-stack definition for key, if any.
func (ctx *Context) topDef(key string) (*ir.Expr, bool) {
	s := ctx.stack[key]
	if len(s) == 0 {
		return nil, false
	}
	return s[len(s)-1], true
}
