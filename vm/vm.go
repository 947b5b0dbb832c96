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

import "github.com/pkg/errors"

// DefaultIORegisters is the io register bank size used when no IORegisters
// option is given.
const DefaultIORegisters = 4

// ioDir tells which way the blocked io register, if any, is facing.
type ioDir uint8

const (
	ioIdle ioDir = iota
	ioIn
	ioOut
)

// pendState carries the source operands already resolved when an
// instruction suspended on an io register, so the retry does not resolve
// them twice.
type pendState struct {
	op1, op2 Cell
	ok1, ok2 bool
}

// Instance is one microcontroller program: a compiled instruction list,
// the register file, and the io handshake state.
type Instance struct {
	code   Code
	pc     Cell
	r1, r2 Cell
	rt     Cell
	rio    []Cell
	active int
	dir    ioDir
	pend   *pendState
	halted bool
}

// Option interface
type Option func(*Instance) error

// IORegisters sets the io register bank size.
func IORegisters(n int) Option {
	return func(i *Instance) error {
		if n < 1 {
			return errors.Errorf("invalid io register count %d", n)
		}
		i.rio = make([]Cell, n)
		return nil
	}
}

func newInstance(code Code) *Instance {
	return &Instance{code: code, active: -1}
}

// New creates an Instance executing the given code, with all registers
// zero and the program counter at line 0.
func New(code Code, opts ...Option) (*Instance, error) {
	i := newInstance(code)
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}
	if i.rio == nil {
		i.rio = make([]Cell, DefaultIORegisters)
	}
	return i, nil
}

// Blank returns a halted Instance whose body is a single HLT. It is the
// program of a microcontroller whose source has not been compiled yet.
func Blank(opts ...Option) *Instance {
	i := newInstance(Code{{Op: OpHlt}})
	for _, opt := range opts {
		opt(i)
	}
	if i.rio == nil {
		i.rio = make([]Cell, DefaultIORegisters)
	}
	i.halted = true
	return i
}

// Register returns the value of a named register. Io registers are not
// directly observable and report false.
func (i *Instance) Register(r RegID) (Cell, bool) {
	switch r {
	case RegPC:
		return i.pc, true
	case RegR1:
		return i.r1, true
	case RegR2:
		return i.r2, true
	case RegRT:
		return i.rt, true
	}
	return 0, false
}

// Halted reports whether the program has stopped for good.
func (i *Instance) Halted() bool {
	return i.halted
}

// IOCount returns the io register bank size.
func (i *Instance) IOCount() int {
	return len(i.rio)
}

// Code returns the instruction list the instance is executing.
func (i *Instance) Code() Code {
	return i.code
}
