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

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/tinysoc/tinysoc/circuit"
	"github.com/tinysoc/tinysoc/vm"
)

var namedRegs = [...]vm.RegID{vm.RegPC, vm.RegR1, vm.RegR2, vm.RegRT}

// dumpCircuit prints the register file and port state of every mc.
func dumpCircuit(w io.Writer, circ *circuit.Circuit) {
	for i := 0; i < circ.NumMCs(); i++ {
		fmt.Fprintf(w, "mc%d: %s\n", i, mcState(circ.MC(i), circ.IOCount()))
	}
}

// mcState renders one mc's registers and blocked ports on a single line.
func mcState(m *circuit.MC, ports int) string {
	sb := &strings.Builder{}
	if m.Halted() {
		sb.WriteString("halted  ")
	}
	for n, r := range namedRegs {
		if n > 0 {
			sb.WriteByte(' ')
		}
		v, _ := m.Register(r)
		fmt.Fprintf(sb, "%s=%d", r, v)
	}
	for p := 0; p < ports; p++ {
		if m.ReadInReady(p) {
			fmt.Fprintf(sb, " in@IO%d", p)
		}
		if m.ReadOutReady(p) {
			fmt.Fprintf(sb, " out@IO%d", p)
		}
	}
	return sb.String()
}
