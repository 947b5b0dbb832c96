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

// Package asm assembles microcontroller source into vm code.
//
// Supported mnemonics:
//
//	mnemonic	operands	description
//	--------	--------	------------------------------------------------------------
//	ADD	a b dst		dst := a + b (wrapping)
//	SUB	a b dst		dst := a - b (wrapping)
//	MUL	a b dst		dst := a * b (wrapping)
//	DIV	a b dst		dst := a / b, truncated toward zero
//	CMP	a b		set RT to EQ, LT or GT comparing a and b (signed)
//	BRC	label		jump to label
//	BEQ	label		jump to label if the EQ bit of RT is set
//	BGT	label		jump to label if the GT bit of RT is set
//	BLT	label		jump to label if the LT bit of RT is set
//	NOP			no-op
//	HLT			halt for good
//
// The sources a and b of an arithmetic or compare instruction may be a
// register, an immediate or an io register; the destination dst must be a
// register. Reading an io register blocks the program until another
// microcontroller (or the host) delivers a value; writing one blocks it
// until the value is drained. See the vm package for the handshake.
//
// Registers:
//
// PC, R1, R2 and the test register RT, plus the io registers IO0..IOn-1
// where n is the io register bank size (4 unless changed with the
// IORegisters option). Mnemonics and register names are case-insensitive.
//
// Immediates:
//
// An immediate is written #<n> with n a decimal integer. It is parsed as
// an unsigned 16 bit value and reinterpreted signed, so #65535 is -1.
//
// Labels:
//
// A token ending in ':' declares a label bound to the next emitted
// instruction; a bare identifier references it. References may point
// forward, which is why assembly runs in two passes. Label names are
// case-sensitive and must not collide with a mnemonic or register name
// (such a reference resolves to the register instead). When several labels
// are stacked, the assembler emits a NOP for each label but the last, which
// binds to the instruction that follows; a label that ends the source with
// no instruction after it binds to a NOP of its own. Every label thus binds
// to a line index of its own.
//
// Comments:
//
// A comment starts at ';' and runs to the end of the line. Tokens are
// separated by spaces; an instruction and its operands must share one
// physical line.
package asm
