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

// Package pdderr defines the error kinds and policy of spec.md §7: every
// error the pipeline produces is one of a small closed set of kinds, each
// with a documented recovery policy, rather than an ad hoc error string.
package pdderr

import "fmt"

// Kind is the closed set of error conditions spec.md §7 enumerates.
type Kind uint8

const (
	// MalformedIR: an IR-model invariant was violated (e.g. an Assign's lhs
	// is not assignable). Assert in debug builds; in release, log and skip
	// the offending statement.
	MalformedIR Kind = iota
	// UnknownArch: the front-end lifter has no matching architecture module.
	// Surface to the caller with a human-readable message; no decompilation
	// is emitted for the run.
	UnknownArch
	// UnknownCallConv: no calling-convention handler exists for a call
	// site. Fail the current function only, not the whole run.
	UnknownCallConv
	// NoSuchDefinition: a use references a name with no definition after
	// renaming. This is recovery, not failure: the caller synthesizes an
	// uninitialized definition in ctx.Uninit.
	NoSuchDefinition
	// FixpointDiverged: a pass exceeded an implementation-defined iteration
	// cap. Break out, log, and leave the IR in its current state.
	FixpointDiverged
)

func (k Kind) String() string {
	switch k {
	case MalformedIR:
		return "MalformedIR"
	case UnknownArch:
		return "UnknownArch"
	case UnknownCallConv:
		return "UnknownCallConv"
	case NoSuchDefinition:
		return "NoSuchDefinition"
	case FixpointDiverged:
		return "FixpointDiverged"
	default:
		return "Unknown"
	}
}

// Fatal reports whether errors of this kind abort the whole run rather than
// just the current function (spec.md §7's per-kind policy column).
func (k Kind) Fatal() bool {
	return k == UnknownArch
}

// Error is a typed pipeline error: a Kind, the function it occurred in (if
// any), a message, and an optional wrapped cause.
type Error struct {
	Kind     Kind
	Function string
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Function != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Function, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds an Error of the given kind with a formatted message.
func New(kind Kind, function, format string, args ...any) *Error {
	return &Error{Kind: kind, Function: function, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given kind around an existing cause.
func Wrap(kind Kind, function string, cause error) *Error {
	return &Error{Kind: kind, Function: function, Message: cause.Error(), Cause: cause}
}
