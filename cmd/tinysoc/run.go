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
	"os"

	"gopkg.in/urfave/cli.v2"

	"github.com/tinysoc/tinysoc/asm"
	"github.com/tinysoc/tinysoc/circuit"
)

func loadCircuit(c *cli.Context, opts ...circuit.Option) (*circuit.Circuit, error) {
	circ, err := circuit.New(opts...)
	if err != nil {
		return nil, err
	}
	if err := circ.LoadFile(c.Args().First()); err != nil {
		return nil, err
	}
	// compile failures leave the mc halted on its blank program
	for _, err := range circ.CompileAll() {
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
	}
	return circ, nil
}

func allHalted(circ *circuit.Circuit) bool {
	for i := 0; i < circ.NumMCs(); i++ {
		if !circ.MC(i).Halted() {
			return false
		}
	}
	return true
}

func runCircuit(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return cli.Exit("run wants exactly one circuit file", 1)
	}
	var opts []circuit.Option
	if c.Bool("trace") {
		opts = append(opts, circuit.WithLogger(circuit.LoggerFunc(func(msg string) {
			fmt.Fprintln(os.Stderr, msg)
		})))
	}
	circ, err := loadCircuit(c, opts...)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	max := c.Int("ticks")
	ticks := 0
	for !allHalted(circ) && (max == 0 || ticks < max) {
		circ.Tick()
		ticks++
	}
	fmt.Printf("%d ticks\n", ticks)
	dumpCircuit(os.Stdout, circ)
	return nil
}

func checkSources(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return cli.Exit("check wants at least one source file", 1)
	}
	status := 0
	for _, name := range c.Args().Slice() {
		f, err := os.Open(name)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			status = 1
			continue
		}
		code, err := asm.Assemble(name, f, asm.IORegisters(c.Int("io")))
		f.Close()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			status = 1
			continue
		}
		fmt.Printf("%s: ok, %d instructions\n", name, len(code))
	}
	if status != 0 {
		return cli.Exit("", status)
	}
	return nil
}
