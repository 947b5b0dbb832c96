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
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/tinysoc/tinysoc/vm"
)

// interim operand kinds. Label references only exist between the passes;
// pass 2 rewrites them to direct line indices.
const (
	opdReg = iota
	opdDir
	opdLabel
)

type interimOp struct {
	kind  int
	reg   vm.RegID
	val   vm.Cell
	label string
}

// interimLine is one instruction as pass 1 sees it: an optional label
// bound to it, the mnemonic, the operands in source order, and the
// physical source line it came from.
type interimLine struct {
	label    string
	hasLabel bool
	op       vm.Op
	hasInst  bool
	ops      []interimOp
	src      int
}

// parser accumulates interim lines during pass 1 and resolves labels in
// pass 2.
type parser struct {
	name  string
	nio   int
	lines []interimLine
	cur   interimLine
}

func newParser(name string) *parser {
	return &parser{name: name, nio: vm.DefaultIORegisters}
}

func (p *parser) errAt(k Kind, index int) *CodeError {
	return &CodeError{Name: p.name, Kind: k, Line: index}
}

// parse is pass 1: split the source into physical lines, strip comments,
// and accumulate tokens into interim lines. An instruction and its
// operands must share a physical line; a line completes when its physical
// line ends.
func (p *parser) parse(r io.Reader) error {
	src, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "read source")
	}
	for index, line := range strings.Split(string(src), "\n") {
		// a comment runs from ';' to the end of the line
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = line[:i]
		}
		for _, w := range strings.Fields(line) {
			if err := p.token(w, index); err != nil {
				return err
			}
		}
		if p.cur.hasInst {
			if err := p.flush(index); err != nil {
				return err
			}
		}
	}
	if p.cur.hasLabel {
		// a trailing label binds to a synthesized NOP so branches
		// targeting it resolve to a valid line
		p.lines = append(p.lines, interimLine{
			label: p.cur.label, hasLabel: true,
			op: vm.OpNop, hasInst: true,
			src: p.cur.src,
		})
		p.cur = interimLine{}
	}
	return nil
}

func (p *parser) token(w string, index int) error {
	if !p.cur.hasInst {
		if op, ok := mnemonics[strings.ToUpper(w)]; ok {
			p.cur.op, p.cur.hasInst = op, true
			return nil
		}
		if !strings.HasSuffix(w, ":") {
			return p.errAt(UnknownInst, index)
		}
		name := w[:len(w)-1]
		if name == "" {
			return p.errAt(MalformedLabel, index)
		}
		if p.cur.hasLabel {
			// stacked labels: bind the earlier one to a synthesized
			// NOP so each label gets a line index of its own
			p.lines = append(p.lines, interimLine{
				label: p.cur.label, hasLabel: true,
				op: vm.OpNop, hasInst: true,
				src: p.cur.src,
			})
			p.cur = interimLine{}
		}
		p.cur.label, p.cur.hasLabel, p.cur.src = name, true, index
		return nil
	}
	if len(p.cur.ops) == 3 {
		return p.errAt(TooManyOps, index)
	}
	op, err := p.operand(w, index)
	if err != nil {
		return err
	}
	p.cur.ops = append(p.cur.ops, op)
	return nil
}

// operand classifies a single operand token. Mnemonic and register names
// are case-insensitive; label references keep their case.
func (p *parser) operand(w string, index int) (interimOp, error) {
	u := strings.ToUpper(w)
	if r, ok := namedRegs[u]; ok {
		return interimOp{kind: opdReg, reg: r}, nil
	}
	switch {
	case strings.HasPrefix(u, "IO"):
		n, err := strconv.ParseUint(u[2:], 10, 31)
		if err != nil {
			return interimOp{}, p.errAt(UnknownNumber, index)
		}
		if int(n) >= p.nio {
			return interimOp{}, p.errAt(OutOfRangeIO, index)
		}
		return interimOp{kind: opdReg, reg: vm.IO(int(n))}, nil
	case strings.HasPrefix(w, "#"):
		// immediates are unsigned 16 bit values reinterpreted signed
		n, err := strconv.ParseUint(w[1:], 10, 16)
		if err != nil {
			return interimOp{}, p.errAt(UnknownNumber, index)
		}
		return interimOp{kind: opdDir, val: vm.Cell(int16(uint16(n)))}, nil
	}
	return interimOp{kind: opdLabel, label: w}, nil
}

// flush validates the accumulated line against its mnemonic's operand
// shape and emits it.
func (p *parser) flush(index int) error {
	if err := p.validate(&p.cur, index); err != nil {
		return err
	}
	p.cur.src = index
	p.lines = append(p.lines, p.cur)
	p.cur = interimLine{}
	return nil
}

func (p *parser) validate(l *interimLine, index int) error {
	if !l.hasInst {
		if len(l.ops) > 0 {
			return p.errAt(InstAfterLabel, index)
		}
		return nil
	}
	switch l.op {
	case vm.OpHlt, vm.OpNop:
		if len(l.ops) > 0 {
			return p.errAt(TooManyOps, index)
		}
	case vm.OpBrc, vm.OpBeq, vm.OpBgt, vm.OpBlt:
		if len(l.ops) == 0 || l.ops[0].kind != opdLabel {
			return p.errAt(MissingLabel, index)
		}
		if len(l.ops) > 1 {
			return p.errAt(TooManyOps, index)
		}
	case vm.OpCmp:
		if len(l.ops) < 2 {
			return p.errAt(TooFewOps, index)
		}
		if len(l.ops) > 2 {
			return p.errAt(TooManyOps, index)
		}
	default:
		// arithmetic: two sources and a register destination
		if len(l.ops) < 3 {
			return p.errAt(TooFewOps, index)
		}
		if l.ops[2].kind != opdReg {
			return p.errAt(InvalidOp, index)
		}
	}
	return nil
}

// resolve is pass 2: bind every label to the line index it was attached
// to, then rewrite label references to direct operands. A label defined
// twice keeps its later definition.
func (p *parser) resolve() (vm.Code, error) {
	labels := make(map[string]vm.Cell, len(p.lines))
	for i, l := range p.lines {
		if l.hasLabel {
			labels[l.label] = vm.Cell(i)
		}
	}
	code := make(vm.Code, 0, len(p.lines))
	for _, l := range p.lines {
		ins := vm.Inst{Op: l.op}
		dst := [...]*vm.Operand{&ins.A, &ins.B, &ins.C}
		for k, op := range l.ops {
			o, err := p.finalOp(op, labels, l.src)
			if err != nil {
				return nil, err
			}
			*dst[k] = o
		}
		code = append(code, ins)
	}
	return code, nil
}

func (p *parser) finalOp(op interimOp, labels map[string]vm.Cell, index int) (vm.Operand, error) {
	switch op.kind {
	case opdReg:
		return vm.Reg(op.reg), nil
	case opdDir:
		return vm.Dir(op.val), nil
	}
	target, ok := labels[op.label]
	if !ok {
		return vm.Operand{}, p.errAt(MissingLabel, index)
	}
	return vm.Dir(target), nil
}
