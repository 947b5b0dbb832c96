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

package vm_test

import (
	"strings"
	"testing"

	"github.com/tinysoc/tinysoc/asm"
	"github.com/tinysoc/tinysoc/vm"
)

func assemble(t *testing.T, name, code string) vm.Code {
	t.Helper()
	c, err := asm.Assemble(name, strings.NewReader(code))
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return c
}

func setup(t *testing.T, name, code string) *vm.Instance {
	t.Helper()
	i, err := vm.New(assemble(t, name, code))
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return i
}

func reg(t *testing.T, i *vm.Instance, r vm.RegID) vm.Cell {
	t.Helper()
	v, ok := i.Register(r)
	if !ok {
		t.Fatalf("register %v not observable", r)
	}
	return v
}

var tests = [...]struct {
	name   string
	code   string
	steps  int
	pc     vm.Cell
	r1, r2 vm.Cell
	rt     vm.Cell
	halted bool
}{
	{name: "nop", code: "NOP", steps: 1, pc: 1},
	{name: "hlt", code: "HLT", steps: 1, pc: 1, halted: true},
	{name: "add", code: "ADD #2 #3 R1", steps: 1, pc: 1, r1: 5},
	{name: "add_wrap", code: "ADD #32767 #1 R1", steps: 1, pc: 1, r1: -32768},
	{name: "sub", code: "SUB #2 #3 R1", steps: 1, pc: 1, r1: -1},
	{name: "mul", code: "MUL #300 #300 R1", steps: 1, pc: 1, r1: 24464},
	{name: "div", code: "DIV #25 #5 R1", steps: 1, pc: 1, r1: 5},
	// #65534 reads back as -2; the quotient truncates toward zero
	{name: "div_trunc", code: "DIV #7 #65534 R1", steps: 1, pc: 1, r1: -3},
	{name: "div_zero", code: "DIV #1 #0 R1", steps: 1, pc: 1, halted: true},
	{name: "imm_reinterpret", code: "ADD #65535 #0 R1", steps: 1, pc: 1, r1: -1},
	{name: "reg_source", code: "ADD #10 #0 R2\nADD R2 R2 R1", steps: 2, pc: 2, r1: 20, r2: 10},
	{name: "pc_source", code: "ADD PC #0 R1", steps: 1, pc: 1, r1: 1},
	{name: "write_pc", code: "ADD #0 #0 PC", steps: 2, pc: 0},
	{name: "cmp_eq", code: "CMP #4 #4", steps: 1, pc: 1, rt: 1},
	{name: "cmp_lt", code: "CMP #3 #4", steps: 1, pc: 1, rt: 2},
	{name: "cmp_gt", code: "CMP #5 #4", steps: 1, pc: 1, rt: 4},
	{name: "beq_taken", code: "CMP #1 #1\nBEQ end\nADD #1 #0 R1\nend:\nHLT", steps: 3, pc: 4, rt: 1, halted: true},
	{name: "beq_not_taken", code: "CMP #1 #2\nBEQ end\nADD #1 #0 R1\nend:\nHLT", steps: 3, pc: 3, rt: 2, r1: 1},
	{name: "bgt_taken", code: "CMP #2 #1\nBGT end\nADD #1 #0 R1\nend:\nHLT", steps: 3, pc: 4, rt: 4, halted: true},
	{name: "blt_taken", code: "CMP #1 #2\nBLT end\nADD #1 #0 R1\nend:\nHLT", steps: 3, pc: 4, rt: 2, halted: true},
	{name: "brc", code: "BRC end\nADD #1 #0 R1\nend:\nHLT", steps: 2, pc: 3, halted: true},
	{name: "loop", code: "ADD #3 #0 R1\nloop:\nSUB R1 #1 R1\nCMP R1 #0\nBGT loop\nHLT", steps: 12, pc: 5, rt: 1, halted: true},
	{name: "end_of_code", code: "NOP", steps: 2, pc: 1, halted: true},
}

func TestCore(t *testing.T) {
	for _, test := range tests {
		i := setup(t, test.name, test.code)
		for n := 0; n < test.steps; n++ {
			i.Step()
		}
		if got := reg(t, i, vm.RegPC); got != test.pc {
			t.Errorf("%s: PC = %d, want %d", test.name, got, test.pc)
		}
		if got := reg(t, i, vm.RegR1); got != test.r1 {
			t.Errorf("%s: R1 = %d, want %d", test.name, got, test.r1)
		}
		if got := reg(t, i, vm.RegR2); got != test.r2 {
			t.Errorf("%s: R2 = %d, want %d", test.name, got, test.r2)
		}
		if got := reg(t, i, vm.RegRT); got != test.rt {
			t.Errorf("%s: RT = %d, want %d", test.name, got, test.rt)
		}
		if i.Halted() != test.halted {
			t.Errorf("%s: halted = %v, want %v", test.name, i.Halted(), test.halted)
		}
	}
}

// A program that runs its counter past the last line halts before decoding.
func TestStep_endOfProgram(t *testing.T) {
	i := setup(t, "end", "NOP")
	i.Step()
	if i.Halted() {
		t.Fatal("halted after NOP")
	}
	i.Step()
	if !i.Halted() {
		t.Fatal("not halted past end of code")
	}
	if got := reg(t, i, vm.RegPC); got != 1 {
		t.Fatalf("PC = %d, want 1", got)
	}
}

// Branching to a line outside the code halts on the next step rather than
// being rejected.
func TestStep_branchPastEnd(t *testing.T) {
	i, err := vm.New(vm.Code{{Op: vm.OpBrc, A: vm.Dir(100)}})
	if err != nil {
		t.Fatal(err)
	}
	i.Step()
	if i.Halted() {
		t.Fatal("halted on the branch itself")
	}
	i.Step()
	if !i.Halted() {
		t.Fatal("not halted after branching past the end")
	}

	i, err = vm.New(vm.Code{{Op: vm.OpBrc, A: vm.Dir(-5)}})
	if err != nil {
		t.Fatal(err)
	}
	i.Step()
	i.Step()
	if !i.Halted() {
		t.Fatal("not halted after branching to a negative line")
	}
}

func TestCmp_signed(t *testing.T) {
	// #65535 reinterprets as -1, so the comparison is signed
	i := setup(t, "cmp_signed", "CMP #65535 #1")
	i.Step()
	if got := reg(t, i, vm.RegRT); got != vm.FlagLt {
		t.Fatalf("RT = %d, want FlagLt", got)
	}
}

func TestBlank(t *testing.T) {
	i := vm.Blank()
	if !i.Halted() {
		t.Fatal("blank instance not halted")
	}
	i.Step()
	if got := reg(t, i, vm.RegPC); got != 0 {
		t.Fatalf("PC moved to %d on a halted instance", got)
	}
	for p := 0; p < i.IOCount(); p++ {
		if i.ReadInReady(p) || i.ReadOutReady(p) {
			t.Fatalf("blank instance ready on port %d", p)
		}
	}
	if n := vm.Blank(vm.IORegisters(8)).IOCount(); n != 8 {
		t.Fatalf("io count = %d, want 8", n)
	}
}

func TestNew_badOption(t *testing.T) {
	if _, err := vm.New(nil, vm.IORegisters(0)); err == nil {
		t.Fatal("unexpected nil error")
	}
}

func TestRegister_io(t *testing.T) {
	i := vm.Blank()
	if _, ok := i.Register(vm.IO(0)); ok {
		t.Fatal("io register directly observable")
	}
}
