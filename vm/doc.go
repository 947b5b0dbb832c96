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

// Package vm implements the microcontroller program VM.
//
// An Instance executes one assembled program: a register file of four named
// 16 bit registers (PC, R1, R2 and the test register RT), a bank of io
// registers, and an instruction list produced by the asm package. Step
// executes exactly one instruction. There is no wall clock and no
// goroutine; a host drives the instance by calling Step and the io
// functions, typically once per circuit tick.
//
// Io registers are rendezvous ports, not memory. Reading one suspends the
// instruction mid-flight: the program counter is rewound, the operands
// already resolved are kept aside, and the instance reports ReadInReady on
// that port until the host delivers a value with ReadIn. The next Step then
// finishes the suspended instruction. Writing to an io register completes
// the instruction but blocks the instance until the host drains the value
// with ReadOut. At most one port in one direction is ever blocked, so a
// host can poll the ready predicates cheaply.
//
// The test register RT holds a three bit mask written by CMP: FlagEq,
// FlagLt or FlagGt, exactly one per comparison. The conditional branches
// BEQ, BGT and BLT test one bit each and leave RT alone.
//
// Arithmetic wraps in 16 bits. DIV truncates toward zero; division by zero
// halts the instance, as does running the program counter past either end
// of the code. A halted instance ignores Step for good; recompiling a
// microcontroller replaces the Instance wholesale rather than reviving it.
package vm
