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

var ternaryRules = []rule{
	ruleTernaryConstCond,
}

// ruleTernaryConstCond collapses TCond(const, t, f) to t or f.
func ruleTernaryConstCond(e *ir.Expr) *ir.Expr {
	c := e.Operands[0]
	if !isConst(c) {
		return nil
	}
	if c.IntVal != 0 {
		return e.Operands[1]
	}
	return e.Operands[2]
}
