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

import "strconv"

// Cell is the raw type stored in a register.
type Cell int16

// Op identifies an instruction.
type Op uint8

// Microcontroller instruction opcodes.
const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpCmp
	OpBrc
	OpBeq
	OpBgt
	OpBlt
	OpNop
	OpHlt
)

var opNames = [...]string{
	"ADD",
	"SUB",
	"MUL",
	"DIV",
	"CMP",
	"BRC",
	"BEQ",
	"BGT",
	"BLT",
	"NOP",
	"HLT",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "OP(" + strconv.Itoa(int(o)) + ")"
}

// RegID names a register of an Instance. The named registers come first;
// io registers follow, one per index in the io register bank.
type RegID int16

// Named registers.
const (
	RegPC RegID = iota
	RegR1
	RegR2
	RegRT
	regIO0 // io registers start here
)

// IO returns the RegID of io register k.
func IO(k int) RegID {
	return regIO0 + RegID(k)
}

// IOIndex returns the io register bank index of r, and whether r is an io
// register at all.
func (r RegID) IOIndex() (int, bool) {
	if r >= regIO0 {
		return int(r - regIO0), true
	}
	return 0, false
}

func (r RegID) String() string {
	switch r {
	case RegPC:
		return "PC"
	case RegR1:
		return "R1"
	case RegR2:
		return "R2"
	case RegRT:
		return "RT"
	}
	if k, ok := r.IOIndex(); ok {
		return "IO" + strconv.Itoa(k)
	}
	return "REG(" + strconv.Itoa(int(r)) + ")"
}

// RT flag masks. Exactly one is set by CMP.
const (
	FlagEq Cell = 1 << iota
	FlagLt
	FlagGt
)

// OperandKind discriminates the Operand variants.
type OperandKind uint8

const (
	// OpdNone marks an absent operand.
	OpdNone OperandKind = iota
	// OpdReg is a register reference.
	OpdReg
	// OpdDir is a direct value. Branch operands are direct line indices
	// after assembly.
	OpdDir
)

// Operand is one instruction operand: a register reference, a direct
// value, or nothing. The zero value is the absent operand.
type Operand struct {
	Kind OperandKind
	Reg  RegID
	Val  Cell
}

// Reg returns a register operand.
func Reg(r RegID) Operand {
	return Operand{Kind: OpdReg, Reg: r}
}

// Dir returns a direct operand.
func Dir(v Cell) Operand {
	return Operand{Kind: OpdDir, Val: v}
}

func (o Operand) String() string {
	switch o.Kind {
	case OpdReg:
		return o.Reg.String()
	case OpdDir:
		return "#" + strconv.Itoa(int(o.Val))
	}
	return ""
}

// Inst is one decoded instruction: an opcode and up to three operands.
type Inst struct {
	Op      Op
	A, B, C Operand
}

func (l Inst) String() string {
	s := l.Op.String()
	for _, o := range [...]Operand{l.A, l.B, l.C} {
		if o.Kind == OpdNone {
			break
		}
		s += " " + o.String()
	}
	return s
}

// Code is an assembled program: an immutable sequence of instructions
// indexed from 0.
type Code []Inst
