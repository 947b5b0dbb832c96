// This file is part of tinysoc - https://github.com/tinysoc/tinysoc
//
// Copyright 2024 The tinysoc Authors
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

package vm

// opt is an operand value that may not have been resolvable yet.
type opt struct {
	v  Cell
	ok bool
}

// Step advances the program by one instruction.
//
// A Step is a no-op while the instance is halted or blocked on an io
// register. An instruction that needs an io input which has not arrived
// rewinds the program counter and returns, so the next Step retries the
// same line; see ReadIn. An instruction that writes to an io register
// completes, then blocks the instance until the value is drained with
// ReadOut.
func (i *Instance) Step() {
	if i.halted || i.dir != ioIdle {
		return
	}
	if i.pc < 0 || int(i.pc) >= len(i.code) {
		i.halted = true
		return
	}
	line := i.code[i.pc]
	i.pc++

	switch line.Op {
	case OpAdd, OpSub, OpMul, OpDiv:
		v1, v2, ok := i.sourceOps(line)
		if !ok {
			return
		}
		i.pend = nil
		r, ok := alu(line.Op, v1, v2)
		if !ok {
			i.halted = true
			return
		}
		i.setRegister(line.C.Reg, r)
	case OpCmp:
		i.rt = 0
		v1, v2, ok := i.sourceOps(line)
		if !ok {
			return
		}
		i.pend = nil
		if v1 == v2 {
			i.rt |= FlagEq
		}
		if v1 < v2 {
			i.rt |= FlagLt
		}
		if v1 > v2 {
			i.rt |= FlagGt
		}
	case OpBrc:
		// branch operands are direct line indices after assembly
		i.pc = line.A.Val
	case OpBeq:
		if i.rt&FlagEq != 0 {
			i.pc = line.A.Val
		}
	case OpBgt:
		if i.rt&FlagGt != 0 {
			i.pc = line.A.Val
		}
	case OpBlt:
		if i.rt&FlagLt != 0 {
			i.pc = line.A.Val
		}
	case OpHlt:
		i.halted = true
	case OpNop:
	}
}

// sourceOps resolves the two source operands of line, consulting any state
// left over from an earlier suspension. When an operand names an io
// register whose value has not been delivered, the instance blocks on that
// port, the program counter is rewound so the next Step retries the same
// line, and ok is false.
func (i *Instance) sourceOps(line Inst) (v1, v2 Cell, ok bool) {
	var a, b opt
	if p := i.pend; p != nil {
		a, b = opt{p.op1, p.ok1}, opt{p.op2, p.ok2}
	} else {
		a = i.operandValue(line.A)
		b = i.operandValue(line.B)
	}
	if !a.ok || !b.ok {
		if i.pend != nil {
			// a delivery arrived since the last suspension
			if !a.ok {
				k, _ := line.A.Reg.IOIndex()
				a = opt{i.rio[k], true}
			} else {
				k, _ := line.B.Reg.IOIndex()
				b = opt{i.rio[k], true}
			}
		}
		if !a.ok || !b.ok {
			if !a.ok {
				i.active, _ = line.A.Reg.IOIndex()
			} else {
				i.active, _ = line.B.Reg.IOIndex()
			}
			i.dir = ioIn
			i.pc--
			i.pend = &pendState{a.v, b.v, a.ok, b.ok}
			return 0, 0, false
		}
	}
	return a.v, b.v, true
}

// operandValue resolves an operand to a value. Io registers never resolve
// directly; their values arrive through a rendezvous.
func (i *Instance) operandValue(o Operand) opt {
	if o.Kind == OpdDir {
		return opt{o.Val, true}
	}
	switch o.Reg {
	case RegPC:
		return opt{i.pc, true}
	case RegR1:
		return opt{i.r1, true}
	case RegR2:
		return opt{i.r2, true}
	case RegRT:
		return opt{i.rt, true}
	}
	return opt{}
}

func (i *Instance) setRegister(r RegID, v Cell) {
	switch r {
	case RegPC:
		i.pc = v
	case RegR1:
		i.r1 = v
	case RegR2:
		i.r2 = v
	case RegRT:
		i.rt = v
	default:
		k, _ := r.IOIndex()
		i.rio[k] = v
		i.active = k
		i.dir = ioOut
	}
}

// alu computes a math instruction in wrapping 16 bit arithmetic. Division
// truncates toward zero; division by zero halts the caller.
func alu(op Op, v1, v2 Cell) (Cell, bool) {
	switch op {
	case OpAdd:
		return v1 + v2, true
	case OpSub:
		return v1 - v2, true
	case OpMul:
		return v1 * v2, true
	case OpDiv:
		if v2 == 0 {
			return 0, false
		}
		return v1 / v2, true
	}
	return 0, false
}
