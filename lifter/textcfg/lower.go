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

package textcfg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdd-project/pdd/ir"
	"github.com/pdd-project/pdd/lifter"
)

const wordSize = 64

func lowerFunction(fn *Function) (lifter.FunctionDescriptor, error) {
	addr, err := parseHex(fn.Addr)
	if err != nil {
		return lifter.FunctionDescriptor{}, fmt.Errorf("function %s: addr: %w", fn.Name, err)
	}

	d := lifter.FunctionDescriptor{
		Addr:       addr,
		Name:       fn.Name,
		ReturnType: fn.Ret,
	}

	for _, a := range fn.Args {
		kind, err := lowerArgKind(a.Kind)
		if err != nil {
			return lifter.FunctionDescriptor{}, fmt.Errorf("function %s: arg %s: %w", fn.Name, a.Name, err)
		}
		size, err := strconv.Atoi(a.Size)
		if err != nil {
			return lifter.FunctionDescriptor{}, fmt.Errorf("function %s: arg %s: size: %w", fn.Name, a.Name, err)
		}
		d.Args = append(d.Args, lifter.ArgDescriptor{
			Name: a.Name,
			Kind: kind,
			Ref:  lifter.Ref{Register: a.Ref},
			Type: fmt.Sprintf("int%d", size),
		})
	}

	for _, b := range fn.Blocks {
		bd, err := lowerBlock(b)
		if err != nil {
			return lifter.FunctionDescriptor{}, fmt.Errorf("function %s: %w", fn.Name, err)
		}
		d.Blocks = append(d.Blocks, bd)
	}
	return d, nil
}

func lowerArgKind(s string) (lifter.ArgKind, error) {
	switch lifter.ArgKind(s) {
	case lifter.ArgKindArg, lifter.ArgKindReg, lifter.ArgKindVar:
		return lifter.ArgKind(s), nil
	default:
		return "", fmt.Errorf("unknown arg kind %q (want arg, reg, or var)", s)
	}
}

func lowerBlock(b *Block) (lifter.BlockDescriptor, error) {
	addr, err := parseHex(b.Addr)
	if err != nil {
		return lifter.BlockDescriptor{}, fmt.Errorf("block: addr: %w", err)
	}
	bd := lifter.BlockDescriptor{Addr: addr}

	for _, flag := range b.Flags {
		switch {
		case flag.Entry:
			bd.EntryFlag = true
		case flag.Exit:
			bd.ExitFlag = true
		case flag.Jump != "":
			v, err := parseHex(flag.Jump)
			if err != nil {
				return lifter.BlockDescriptor{}, fmt.Errorf("block %#x: jump: %w", addr, err)
			}
			bd.Jump = &v
		case flag.Fail != "":
			v, err := parseHex(flag.Fail)
			if err != nil {
				return lifter.BlockDescriptor{}, fmt.Errorf("block %#x: fail: %w", addr, err)
			}
			bd.Fail = &v
		case len(flag.Switch) > 0:
			for _, s := range flag.Switch {
				v, err := parseHex(s)
				if err != nil {
					return lifter.BlockDescriptor{}, fmt.Errorf("block %#x: switch: %w", addr, err)
				}
				bd.Switch = append(bd.Switch, v)
			}
		}
	}

	for _, s := range b.Stmts {
		stmt, err := lowerStmt(addr, s)
		if err != nil {
			return lifter.BlockDescriptor{}, fmt.Errorf("block %#x: %w", addr, err)
		}
		bd.Instructions = append(bd.Instructions, stmt)
	}
	return bd, nil
}

func lowerStmt(addr uint64, s *Stmt) (*ir.Stmt, error) {
	switch {
	case s.Assign != nil:
		dest, err := lowerDest(s.Assign.Dest)
		if err != nil {
			return nil, err
		}
		rhs, err := lowerExpr(s.Assign.Rhs)
		if err != nil {
			return nil, err
		}
		return ir.NewStmt(ir.SExpr, addr, ir.NewAssign(dest, rhs)), nil
	case s.Return != nil:
		if s.Return.Value == nil {
			return ir.NewStmt(ir.SReturn, addr), nil
		}
		v, err := lowerExpr(s.Return.Value)
		if err != nil {
			return nil, err
		}
		return ir.NewStmt(ir.SReturn, addr, v), nil
	case s.Goto != nil:
		return ir.NewStmt(ir.SGoto, addr), nil
	case s.Branch != nil:
		cond, err := lowerExpr(s.Branch.Cond)
		if err != nil {
			return nil, err
		}
		return ir.NewStmt(ir.SBranch, addr, cond), nil
	default:
		return nil, fmt.Errorf("empty statement")
	}
}

func lowerDest(d *Dest) (*ir.Expr, error) {
	switch {
	case d.Reg != "":
		return ir.NewReg(d.Reg, wordSize), nil
	case d.Var != "":
		return ir.NewVar(d.Var, wordSize), nil
	case d.Deref != nil:
		addr, err := lowerExpr(d.Deref)
		if err != nil {
			return nil, err
		}
		return ir.NewDeref(addr, wordSize), nil
	default:
		return nil, fmt.Errorf("empty assignment destination")
	}
}

func lowerExpr(e *Expr) (*ir.Expr, error) {
	return lowerTernary(e.Ternary)
}

func lowerTernary(t *Ternary) (*ir.Expr, error) {
	cond, err := lowerLogicOr(t.Cond)
	if err != nil {
		return nil, err
	}
	if t.Then == nil {
		return cond, nil
	}
	then, err := lowerExpr(t.Then)
	if err != nil {
		return nil, err
	}
	els, err := lowerExpr(t.Else)
	if err != nil {
		return nil, err
	}
	return ir.NewTernary(cond, then, els), nil
}

func lowerLogicOr(n *LogicOr) (*ir.Expr, error) {
	acc, err := lowerLogicAnd(n.Left)
	if err != nil {
		return nil, err
	}
	for _, rhs := range n.Rest {
		rhsExpr, err := lowerLogicAnd(rhs.Operand)
		if err != nil {
			return nil, err
		}
		acc = ir.NewBinary(ir.KBoolOr, acc, rhsExpr)
	}
	return acc, nil
}

func lowerLogicAnd(n *LogicAnd) (*ir.Expr, error) {
	acc, err := lowerCmp(n.Left)
	if err != nil {
		return nil, err
	}
	for _, rhs := range n.Rest {
		rhsExpr, err := lowerCmp(rhs.Operand)
		if err != nil {
			return nil, err
		}
		acc = ir.NewBinary(ir.KBoolAnd, acc, rhsExpr)
	}
	return acc, nil
}

func lowerCmp(n *Cmp) (*ir.Expr, error) {
	acc, err := lowerBitExpr(n.Left)
	if err != nil {
		return nil, err
	}
	for _, rhs := range n.Rest {
		k, err := cmpKind(rhs.Op)
		if err != nil {
			return nil, err
		}
		rhsExpr, err := lowerBitExpr(rhs.Operand)
		if err != nil {
			return nil, err
		}
		acc = ir.NewBinary(k, acc, rhsExpr)
	}
	return acc, nil
}

func lowerBitExpr(n *BitExpr) (*ir.Expr, error) {
	acc, err := lowerShift(n.Left)
	if err != nil {
		return nil, err
	}
	for _, rhs := range n.Rest {
		k, err := bitKind(rhs.Op)
		if err != nil {
			return nil, err
		}
		rhsExpr, err := lowerShift(rhs.Operand)
		if err != nil {
			return nil, err
		}
		acc = ir.NewBinary(k, acc, rhsExpr)
	}
	return acc, nil
}

func lowerShift(n *Shift) (*ir.Expr, error) {
	acc, err := lowerAdd(n.Left)
	if err != nil {
		return nil, err
	}
	for _, rhs := range n.Rest {
		k := ir.KShl
		if rhs.Op == ">>" {
			k = ir.KShr
		}
		rhsExpr, err := lowerAdd(rhs.Operand)
		if err != nil {
			return nil, err
		}
		acc = ir.NewBinary(k, acc, rhsExpr)
	}
	return acc, nil
}

func lowerAdd(n *Add) (*ir.Expr, error) {
	acc, err := lowerMul(n.Left)
	if err != nil {
		return nil, err
	}
	for _, rhs := range n.Rest {
		k := ir.KAdd
		if rhs.Op == "-" {
			k = ir.KSub
		}
		rhsExpr, err := lowerMul(rhs.Operand)
		if err != nil {
			return nil, err
		}
		acc = ir.NewBinary(k, acc, rhsExpr)
	}
	return acc, nil
}

func lowerMul(n *Mul) (*ir.Expr, error) {
	acc, err := lowerUnary(n.Left)
	if err != nil {
		return nil, err
	}
	for _, rhs := range n.Rest {
		k, err := mulKind(rhs.Op)
		if err != nil {
			return nil, err
		}
		rhsExpr, err := lowerUnary(rhs.Operand)
		if err != nil {
			return nil, err
		}
		acc = ir.NewBinary(k, acc, rhsExpr)
	}
	return acc, nil
}

func lowerUnary(n *Unary) (*ir.Expr, error) {
	x, err := lowerPrimary(n.Primary)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "-":
		return ir.NewUnary(ir.KNeg, x), nil
	case "~":
		return ir.NewUnary(ir.KNot, x), nil
	case "!":
		return ir.NewUnary(ir.KBoolNot, x), nil
	default:
		return x, nil
	}
}

func lowerPrimary(p *Primary) (*ir.Expr, error) {
	switch {
	case p.Int != nil:
		v, err := strconv.ParseInt(*p.Int, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("integer literal %q: %w", *p.Int, err)
		}
		return ir.NewVal(v, wordSize), nil
	case p.Hex != nil:
		v, err := parseHex(*p.Hex)
		if err != nil {
			return nil, err
		}
		return ir.NewVal(int64(v), wordSize), nil
	case p.Reg != nil:
		return ir.NewReg(*p.Reg, wordSize), nil
	case p.Var != nil:
		return ir.NewVar(*p.Var, wordSize), nil
	case p.Deref != nil:
		addr, err := lowerExpr(p.Deref)
		if err != nil {
			return nil, err
		}
		return ir.NewDeref(addr, wordSize), nil
	case p.AddrOf != nil:
		inner, err := lowerExpr(p.AddrOf)
		if err != nil {
			return nil, err
		}
		return ir.NewAddrOf(inner), nil
	case p.Paren != nil:
		return lowerExpr(p.Paren)
	case p.CallName != nil:
		if p.Call == nil {
			return ir.NewVar(*p.CallName, wordSize), nil
		}
		args := make([]*ir.Expr, 0, len(p.Call.Args))
		for _, a := range p.Call.Args {
			lowered, err := lowerExpr(a)
			if err != nil {
				return nil, err
			}
			args = append(args, lowered)
		}
		return ir.NewIntrinsic(*p.CallName, wordSize, args...), nil
	default:
		return nil, fmt.Errorf("empty primary expression")
	}
}

func cmpKind(op string) (ir.Kind, error) {
	switch op {
	case "==":
		return ir.KEQ, nil
	case "!=":
		return ir.KNE, nil
	case "<=":
		return ir.KLE, nil
	case ">=":
		return ir.KGE, nil
	case "<":
		return ir.KLT, nil
	case ">":
		return ir.KGT, nil
	default:
		return 0, fmt.Errorf("unknown comparison operator %q", op)
	}
}

func bitKind(op string) (ir.Kind, error) {
	switch op {
	case "&":
		return ir.KAnd, nil
	case "|":
		return ir.KOr, nil
	case "^":
		return ir.KXor, nil
	default:
		return 0, fmt.Errorf("unknown bitwise operator %q", op)
	}
}

func mulKind(op string) (ir.Kind, error) {
	switch op {
	case "*":
		return ir.KMul, nil
	case "/":
		return ir.KDiv, nil
	case "%":
		return ir.KMod, nil
	default:
		return 0, fmt.Errorf("unknown multiplicative operator %q", op)
	}
}

func parseHex(s string) (uint64, error) {
	s = strings.TrimPrefix(s, "0x")
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hex literal %q: %w", s, err)
	}
	return v, nil
}
