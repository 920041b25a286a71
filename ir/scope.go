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

// ScopeKind discriminates the structured-control-flow brackets control-flow
// recovery (spec.md §4.6) attaches to blocks for the back-end printer.
type ScopeKind uint8

const (
	ScopeLoop ScopeKind = iota
	ScopeIf
	ScopeElse
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeLoop:
		return "Loop"
	case ScopeIf:
		return "If"
	case ScopeElse:
		return "Else"
	default:
		return "Unknown"
	}
}

// Scope is one bracket of structured control flow: a kind and the ID of the
// block pairing its open and close (a loop's header ID, or the branch
// block's ID for an if/else arm), letting the printer match brackets without
// needing to track a separate nesting stack keyed any other way.
type Scope struct {
	Kind ScopeKind
	With string
}
