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

package asm

import (
	"fmt"
	"io"
	"strconv"

	"github.com/tinysoc/tinysoc/vm"
)

// mnemonics maps source mnemonics to opcodes. Lookup is done on the
// uppercased token.
var mnemonics = map[string]vm.Op{
	"ADD": vm.OpAdd,
	"SUB": vm.OpSub,
	"MUL": vm.OpMul,
	"DIV": vm.OpDiv,
	"CMP": vm.OpCmp,
	"BRC": vm.OpBrc,
	"BEQ": vm.OpBeq,
	"BGT": vm.OpBgt,
	"BLT": vm.OpBlt,
	"NOP": vm.OpNop,
	"HLT": vm.OpHlt,
}

// namedRegs maps the named (non io) register tokens.
var namedRegs = map[string]vm.RegID{
	"PC": vm.RegPC,
	"R1": vm.RegR1,
	"R2": vm.RegR2,
	"RT": vm.RegRT,
}

// Kind classifies assembly errors.
type Kind int

const (
	UnknownInst Kind = iota
	UnknownOp
	UnknownNumber
	OutOfRangeIO
	TooManyOps
	TooFewOps
	InvalidOp
	MissingLabel
	MalformedLabel
	InstAfterLabel
	JumpNeedsLabel
)

var kindMessages = [...]string{
	UnknownInst:    "unknown instruction",
	UnknownOp:      "unknown operand",
	UnknownNumber:  "malformed number",
	OutOfRangeIO:   "io register out of range",
	TooManyOps:     "too many operands",
	TooFewOps:      "too few operands",
	InvalidOp:      "operand not valid here",
	MissingLabel:   "unknown or missing label",
	MalformedLabel: "malformed label",
	InstAfterLabel: "expected an instruction after label",
	JumpNeedsLabel: "branch target must be a label",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindMessages) {
		return kindMessages[k]
	}
	return "error " + strconv.Itoa(int(k))
}

// A CodeError describes why assembly failed. Line is the 0-based index of
// the physical source line the error was found on. Assembly stops at the
// first error.
type CodeError struct {
	Name string
	Kind Kind
	Line int
}

func (e *CodeError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Name, e.Line, e.Kind)
}

// Option configures the assembler.
type Option func(*parser)

// IORegisters sets the size of the io register bank that IO<n> operands
// are validated against. The default is vm.DefaultIORegisters; values
// below 1 are ignored.
func IORegisters(n int) Option {
	return func(p *parser) {
		if n > 0 {
			p.nio = n
		}
	}
}

// Assemble compiles assembly read from r and returns the resulting
// program.
//
// The name parameter is used only in error messages to name the source of
// the error. Syntax errors are of type *CodeError and carry the offending
// source line.
func Assemble(name string, r io.Reader, opts ...Option) (vm.Code, error) {
	p := newParser(name)
	for _, opt := range opts {
		opt(p)
	}
	if err := p.parse(r); err != nil {
		return nil, err
	}
	return p.resolve()
}
