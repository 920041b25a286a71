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

package cflow

import "github.com/pdd-project/pdd/ir"

// MergeFallThroughs merges every pair of blocks joined by a single,
// unconditional successor/predecessor edge into one sequence, per spec.md
// §4.6's first recognizer. It runs to a fixpoint and reports whether any
// merge happened.
func MergeFallThroughs(f *ir.Function) bool {
	changed := false
	for {
		progressed := false
		for _, a := range append([]*ir.BasicBlock(nil), f.Blocks...) {
			b := a.Jump
			if b == nil || a.Fail != nil || len(a.Cases) != 0 {
				continue
			}
			if b == f.EntryBlock || b == a {
				continue
			}
			preds := f.CFG.Predecessors(b.ID())
			if len(preds) != 1 || preds[0] != a.ID() {
				continue
			}
			mergeInto(a, b)
			progressed, changed = true, true
			break
		}
		if !progressed {
			return changed
		}
		f.Rebuild()
	}
}

// mergeInto splices b's statements and outgoing edges onto a, dropping a's
// trailing Goto (now redundant: control falls straight into b's former
// statements) if it has one.
func mergeInto(a, b *ir.BasicBlock) {
	if n := len(a.Body.Stmts); n > 0 && a.Body.Stmts[n-1].Kind == ir.SGoto {
		a.Body.Stmts = a.Body.Stmts[:n-1]
	}
	for _, stmt := range append([]*ir.Stmt(nil), b.Body.Stmts...) {
		a.Body.Append(stmt)
	}
	a.Jump, a.Fail, a.Cases = b.Jump, b.Fail, b.Cases
	a.Exit = b.Exit
	a.Opens = append(a.Opens, b.Opens...)
	a.Closes = append(a.Closes, b.Closes...)
}
