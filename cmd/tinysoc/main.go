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

// Command tinysoc runs microcontroller circuit files from a terminal: a
// batch runner, a source checker, and an interactive stepper.
package main

import (
	"os"
	"sort"

	"gopkg.in/urfave/cli.v2"

	"github.com/tinysoc/tinysoc/vm"
)

func main() {
	app := &cli.App{
		Name:    "tinysoc",
		Usage:   "microcontroller circuit sandbox",
		Version: "v0.1.0",
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "load a circuit file, compile it and tick until every mc halts",
				ArgsUsage: "file.circ",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "ticks",
						Aliases: []string{"n"},
						Usage:   "tick budget (0 runs until every mc halts, however long that takes)",
						Value:   1000,
					},
					&cli.BoolFlag{
						Name:    "trace",
						Aliases: []string{"t"},
						Usage:   "log compile failures and rendezvous to stderr",
					},
				},
				Action: runCircuit,
			},
			{
				Name:      "check",
				Usage:     "assemble source files and report errors",
				ArgsUsage: "file.s ...",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "io",
						Usage: "io registers per mc",
						Value: vm.DefaultIORegisters,
					},
				},
				Action: checkSources,
			},
			{
				Name:      "tui",
				Usage:     "step a circuit file interactively",
				ArgsUsage: "file.circ",
				Action:    runTUI,
			},
		},
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	app.Run(os.Args)
}
