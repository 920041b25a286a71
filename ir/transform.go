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

// TransformOut erases SSA indices from every expression in f, preparing the
// function for the back-end printer, which is not SSA-aware. Per spec.md
// §6/§9, the printer must tolerate both subscripted and non-subscripted IR
// in principle, but this pipeline commits to always calling TransformOut
// before handing a function to the printer, resolving the Open Question in
// spec.md §9 in favor of a single, simpler contract.
func TransformOut(f *Function) {
	for _, e := range f.AllExprs() {
		clearIdx(e)
	}
}

func clearIdx(e *Expr) {
	if e == nil {
		return
	}
	e.Idx = nil
	for _, o := range e.Operands {
		clearIdx(o)
	}
}
