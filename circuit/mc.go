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

package circuit

import (
	"strings"

	"github.com/tinysoc/tinysoc/asm"
	"github.com/tinysoc/tinysoc/vm"
)

// Rect is the on-screen rectangle of a microcontroller. The core carries
// it opaquely for the front end; only persistence reads it.
type Rect struct {
	X, Y, W, H float64
}

// MC is one microcontroller: a source listing, the rectangle it is drawn
// in, and the program currently executing. A fresh MC runs a blank,
// halted program until its source is compiled.
type MC struct {
	geom Rect
	src  string
	prog *vm.Instance
	nio  int
}

func newMC(geom Rect, nio int) *MC {
	return &MC{geom: geom, prog: vm.Blank(vm.IORegisters(nio)), nio: nio}
}

// Geometry returns the microcontroller's rectangle.
func (m *MC) Geometry() Rect { return m.geom }

// Source returns the current source listing.
func (m *MC) Source() string { return m.src }

// SetSource replaces the source listing. The running program is untouched
// until the next Compile.
func (m *MC) SetSource(src string) { m.src = src }

// Compile assembles the current source and replaces the running program,
// resetting all registers. On error the previous program keeps running and
// the error (an *asm.CodeError for syntax problems) is returned.
func (m *MC) Compile() error {
	return m.compile("mc")
}

func (m *MC) compile(name string) error {
	code, err := asm.Assemble(name, strings.NewReader(m.src), asm.IORegisters(m.nio))
	if err != nil {
		return err
	}
	p, err := vm.New(code, vm.IORegisters(m.nio))
	if err != nil {
		return err
	}
	m.prog = p
	return nil
}

// Step executes the next instruction of the program.
func (m *MC) Step() { m.prog.Step() }

// Halted reports whether the program has stopped.
func (m *MC) Halted() bool { return m.prog.Halted() }

// ReadIn delivers a value to a waiting io register.
func (m *MC) ReadIn(v vm.Cell, port int) error { return m.prog.ReadIn(v, port) }

// ReadOut drains the value blocked on an io register.
func (m *MC) ReadOut(port int) (vm.Cell, bool) { return m.prog.ReadOut(port) }

// ReadInReady reports whether io register port is waiting for a value.
func (m *MC) ReadInReady(port int) bool { return m.prog.ReadInReady(port) }

// ReadOutReady reports whether io register port holds a value to drain.
func (m *MC) ReadOutReady(port int) bool { return m.prog.ReadOutReady(port) }

// Register returns the value of a named register; io registers report
// false.
func (m *MC) Register(r vm.RegID) (vm.Cell, bool) { return m.prog.Register(r) }

// IOCount returns the io register bank size.
func (m *MC) IOCount() int { return m.prog.IOCount() }

// Program returns the running program, for front ends that render code
// and registers.
func (m *MC) Program() *vm.Instance { return m.prog }
