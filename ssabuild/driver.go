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

package ssabuild

import (
	"github.com/pdd-project/pdd/graph"
	"github.com/pdd-project/pdd/ir"
)

// waves lists the three renaming passes in the order spec.md §4.3 requires:
// registers first, then local variables, then memory dereferences. Derefs run
// last so their address operands have already been through the register and
// local waves by the time the deref wave computes name keys from them.
var waves = []Selector{SelectRegs, SelectLocals, SelectDerefs}

// Between hooks runs after each wave's renaming and relaxation, before the
// next wave's dominator tree is built. Architecture-specific passes (e.g.
// normalizing the stack pointer or flags register) that want to canonicalize
// addresses between waves (spec.md §4.3) plug in here; nil is a valid no-op.
type Between func(ctx *Context, f *ir.Function, wave Selector)

// Build runs the full SSA construction pipeline over f: for each wave, it
// (re)builds the dominator tree over f's current CFG, inserts phis, renames,
// and relaxes to fixpoint, then gives between a chance to run an
// architecture-specific pass before the next wave starts. It returns the
// shared Context so callers (the opt package) can keep driving the fixpoint
// over ctx.Defs.
func Build(f *ir.Function, between Between) *Context {
	ctx := NewContext(f.Addr)
	for _, wave := range waves {
		dom := graph.BuildDominatorTree(f.CFG)
		InsertPhis(f, dom, wave)
		Rename(ctx, f, dom, wave)
		Relax(ctx)
		if between != nil {
			between(ctx, f, wave)
		}
	}
	return ctx
}
