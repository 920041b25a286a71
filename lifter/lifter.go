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

// Package lifter defines the contract the core consumes from the front-end
// lifter (spec.md §6): a per-function descriptor of entry address, name,
// address bounds, argument descriptors, and basic-block descriptors whose
// instructions are already a Container of statements over the IR model of
// spec.md §3. Build assembles that descriptor into an *ir.Function.
//
// The front-end itself (the architecture-specific transformer from raw
// instructions to IR statements) is explicitly out of core scope (spec.md
// §1): this package only owns the boundary, not the lifting logic behind it.
package lifter

import (
	"sort"

	"github.com/pdd-project/pdd/ir"
	"github.com/pdd-project/pdd/pdderr"
)

// ArgKind discriminates how an argument descriptor's storage is held, per
// spec.md §6: "kind ∈ {arg, reg, var}".
type ArgKind string

const (
	ArgKindArg ArgKind = "arg"
	ArgKindReg ArgKind = "reg"
	ArgKindVar ArgKind = "var"
)

// Ref names an argument's backing storage: either a bare register name, or a
// {base, offset} stack-slot pair, per spec.md §6's "ref=register-name|
// {base, offset}".
type Ref struct {
	Register string
	Base     string
	Offset   int64
}

// ArgDescriptor is one function argument as the front-end reports it.
type ArgDescriptor struct {
	Name string
	Kind ArgKind
	Ref  Ref
	Type string
}

// BlockDescriptor is one basic block as the front-end reports it: an entry
// address, its successor addresses (Jump/Fail/Switch, any of which may be
// absent), whether it is the function's entry or an exit block, and its
// already-lifted instructions.
type BlockDescriptor struct {
	Addr         uint64
	Jump         *uint64
	Fail         *uint64
	Switch       []uint64
	EntryFlag    bool
	ExitFlag     bool
	Instructions []*ir.Stmt
}

// FunctionDescriptor is the complete per-function object spec.md §6 names:
// "entry address, name, lower/upper address bounds, return type hint,
// argument descriptors, and basic-block descriptors".
type FunctionDescriptor struct {
	Addr       uint64
	Name       string
	Lower      uint64
	Upper      uint64
	ReturnType string
	Args       []ArgDescriptor
	Blocks     []BlockDescriptor
}

// Build assembles d into an *ir.Function, ready for the SSA builder. It links each block's Jump/Fail/Cases by address lookup
// against d.Blocks, and fails with pdderr.MalformedIR if a block names a
// successor address with no matching descriptor -- the front-end/core
// boundary invariant that every referenced address resolves within the same
// function.
func Build(d FunctionDescriptor) (*ir.Function, *pdderr.Error) {
	if len(d.Blocks) == 0 {
		return nil, pdderr.New(pdderr.MalformedIR, d.Name, "function has no basic blocks")
	}

	byAddr := make(map[uint64]*ir.BasicBlock, len(d.Blocks))
	all := make([]*ir.BasicBlock, 0, len(d.Blocks))
	var entry *ir.BasicBlock

	for _, bd := range d.Blocks {
		b := ir.NewBasicBlock(bd.Addr)
		b.Exit = bd.ExitFlag
		for _, stmt := range bd.Instructions {
			b.Body.Append(stmt)
		}
		byAddr[bd.Addr] = b
		all = append(all, b)
		if bd.EntryFlag {
			entry = b
		}
	}
	if entry == nil {
		entry = byAddr[d.Addr]
	}
	if entry == nil {
		return nil, pdderr.New(pdderr.MalformedIR, d.Name, "no block is marked entry and none matches the function's own address %#x", d.Addr)
	}

	resolve := func(addr *uint64) (*ir.BasicBlock, *pdderr.Error) {
		if addr == nil {
			return nil, nil
		}
		b, ok := byAddr[*addr]
		if !ok {
			return nil, pdderr.New(pdderr.MalformedIR, d.Name, "block references unknown successor address %#x", *addr)
		}
		return b, nil
	}

	for _, bd := range d.Blocks {
		b := byAddr[bd.Addr]
		jump, perr := resolve(bd.Jump)
		if perr != nil {
			return nil, perr
		}
		fail, perr := resolve(bd.Fail)
		if perr != nil {
			return nil, perr
		}
		b.Jump, b.Fail = jump, fail
		for _, addr := range bd.Switch {
			a := addr
			target, perr := resolve(&a)
			if perr != nil {
				return nil, perr
			}
			b.Cases = append(b.Cases, target)
		}
	}

	args := make([]*ir.Arg, 0, len(d.Args))
	for _, ad := range d.Args {
		args = append(args, &ir.Arg{Name: ad.Name, Size: sizeHint(ad.Type)})
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Addr < all[j].Addr })

	f := ir.NewFunction(d.Addr, d.Name, entry, args, nil, all)
	return f, nil
}

// sizeHint maps a front-end type string to a bit width, defaulting to 64 for
// anything unrecognized (pointer-width is the safe conservative default for
// an architecture-agnostic core).
func sizeHint(typ string) int {
	switch typ {
	case "int8", "uint8", "bool", "byte":
		return 8
	case "int16", "uint16":
		return 16
	case "int32", "uint32", "float32":
		return 32
	default:
		return 64
	}
}
