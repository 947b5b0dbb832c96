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
	"testing"

	"github.com/tinysoc/tinysoc/vm"
)

// onePortReady checks the rendezvous safety invariant: at most one port in
// one direction blocked at any time.
func onePortReady(t *testing.T, i *vm.Instance) {
	t.Helper()
	ready := 0
	for p := 0; p < i.IOCount(); p++ {
		if i.ReadInReady(p) {
			ready++
		}
		if i.ReadOutReady(p) {
			ready++
		}
	}
	if ready > 1 {
		t.Fatalf("%d ports ready at once", ready)
	}
}

// A write to an io register completes the instruction but blocks the
// instance until the value is drained.
func TestReadOut_blocks(t *testing.T) {
	i := setup(t, "out_blocks", "ADD #7 #0 IO1\nHLT")
	i.Step()
	if !i.ReadOutReady(1) {
		t.Fatal("IO1 not ready after write")
	}
	if i.ReadOutReady(0) || i.ReadInReady(1) {
		t.Fatal("wrong port or direction ready")
	}
	onePortReady(t, i)

	// blocked: further steps must not reach the HLT
	for n := 0; n < 3; n++ {
		i.Step()
	}
	if i.Halted() {
		t.Fatal("stepped past a blocked output")
	}
	if got := reg(t, i, vm.RegPC); got != 1 {
		t.Fatalf("PC = %d, want 1", got)
	}

	if _, ok := i.ReadOut(0); ok {
		t.Fatal("drained the wrong port")
	}
	v, ok := i.ReadOut(1)
	if !ok || v != 7 {
		t.Fatalf("ReadOut(1) = %d, %v, want 7, true", v, ok)
	}
	if _, ok := i.ReadOut(1); ok {
		t.Fatal("drained the same value twice")
	}

	i.Step()
	if !i.Halted() {
		t.Fatal("not halted after drain")
	}
}

// Reading an io register suspends the instruction and rewinds the program
// counter until a value is delivered.
func TestReadIn_suspends(t *testing.T) {
	i := setup(t, "in_suspends", "ADD IO0 #0 R1\nHLT")
	i.Step()
	if !i.ReadInReady(0) {
		t.Fatal("IO0 not waiting after step")
	}
	if got := reg(t, i, vm.RegPC); got != 0 {
		t.Fatalf("PC = %d, want 0 (rewound)", got)
	}
	onePortReady(t, i)

	if err := i.ReadIn(1, 1); err == nil {
		t.Fatal("accepted a value on the wrong port")
	}
	if err := i.ReadIn(42, 0); err != nil {
		t.Fatal(err)
	}
	if err := i.ReadIn(42, 0); err == nil {
		t.Fatal("accepted a second value")
	}

	i.Step()
	if got := reg(t, i, vm.RegR1); got != 42 {
		t.Fatalf("R1 = %d, want 42", got)
	}
	if got := reg(t, i, vm.RegPC); got != 1 {
		t.Fatalf("PC = %d, want 1", got)
	}
}

// An instruction with two io source operands blocks once per operand, in
// operand order.
func TestReadIn_twoPorts(t *testing.T) {
	i := setup(t, "in_two_ports", "ADD IO0 IO1 R1\nHLT")
	i.Step()
	if !i.ReadInReady(0) || i.ReadInReady(1) {
		t.Fatal("want IO0 waiting first")
	}
	if err := i.ReadIn(5, 0); err != nil {
		t.Fatal(err)
	}
	i.Step()
	if !i.ReadInReady(1) || i.ReadInReady(0) {
		t.Fatal("want IO1 waiting second")
	}
	if err := i.ReadIn(7, 1); err != nil {
		t.Fatal(err)
	}
	i.Step()
	if got := reg(t, i, vm.RegR1); got != 12 {
		t.Fatalf("R1 = %d, want 12", got)
	}
}

func TestReadIn_outOfRange(t *testing.T) {
	i := vm.Blank()
	if err := i.ReadIn(1, -1); err == nil {
		t.Fatal("accepted a negative port")
	}
	if err := i.ReadIn(1, i.IOCount()); err == nil {
		t.Fatal("accepted a port past the bank")
	}
	if _, ok := i.ReadOut(i.IOCount()); ok {
		t.Fatal("drained a port past the bank")
	}
}

// CMP zeroes RT before it can suspend, so a waiting comparison shows a
// cleared test register.
func TestCmp_zeroesBeforeSuspend(t *testing.T) {
	i := setup(t, "cmp_suspend", "CMP #1 #1\nCMP IO0 #1\nHLT")
	i.Step()
	if got := reg(t, i, vm.RegRT); got != vm.FlagEq {
		t.Fatalf("RT = %d, want FlagEq", got)
	}
	i.Step()
	if !i.ReadInReady(0) {
		t.Fatal("IO0 not waiting")
	}
	if got := reg(t, i, vm.RegRT); got != 0 {
		t.Fatalf("RT = %d while suspended, want 0", got)
	}
	if err := i.ReadIn(5, 0); err != nil {
		t.Fatal(err)
	}
	i.Step()
	if got := reg(t, i, vm.RegRT); got != vm.FlagGt {
		t.Fatalf("RT = %d, want FlagGt", got)
	}
}

// The value written to an io register does not satisfy a later read of the
// same port.
func TestIO_notMemory(t *testing.T) {
	i := setup(t, "io_not_memory", "ADD #9 #0 IO0\nADD IO0 #0 R1\nHLT")
	i.Step()
	v, ok := i.ReadOut(0)
	if !ok || v != 9 {
		t.Fatalf("ReadOut(0) = %d, %v, want 9, true", v, ok)
	}
	i.Step()
	if !i.ReadInReady(0) {
		t.Fatal("a later read of IO0 must block again")
	}
}
