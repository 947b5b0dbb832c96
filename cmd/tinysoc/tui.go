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
	"strings"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
	"gopkg.in/urfave/cli.v2"

	"github.com/tinysoc/tinysoc/circuit"
	"github.com/tinysoc/tinysoc/vm"
)

// tui is the interactive stepper: one pane with every mc's state, one with
// the selected mc's code, one with the key bindings.
type tui struct {
	circ     *circuit.Circuit
	selected int
	ticks    int

	state *widgets.Paragraph
	code  *widgets.Paragraph
	tips  *widgets.Paragraph
}

func runTUI(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return cli.Exit("tui wants exactly one circuit file", 1)
	}
	circ, err := loadCircuit(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if err := ui.Init(); err != nil {
		return cli.Exit(fmt.Sprintf("failed to initialize termui: %v", err), 1)
	}
	defer ui.Close()

	t := &tui{circ: circ}
	t.initLayout()
	t.draw()

	for e := range ui.PollEvents() {
		if e.Type != ui.KeyboardEvent {
			continue
		}
		switch e.ID {
		case "q", "Q", "<C-c>":
			return nil
		case "<Space>":
			t.circ.Tick()
			t.ticks++
		case "<Tab>":
			if n := t.circ.NumMCs(); n > 0 {
				t.selected = (t.selected + 1) % n
			}
		case "c", "C":
			t.circ.CompileAll()
			t.ticks = 0
		}
		t.draw()
	}
	return nil
}

func (t *tui) initLayout() {
	t.state = widgets.NewParagraph()
	t.state.Title = "Circuit"
	t.state.SetRect(0, 0, 60, 20)

	t.code = widgets.NewParagraph()
	t.code.Title = "Code"
	t.code.SetRect(60, 0, 100, 20)

	t.tips = widgets.NewParagraph()
	t.tips.Title = "Tips"
	t.tips.SetRect(0, 20, 100, 23)
	t.tips.Text = "SPACE = Tick    TAB = Select MC    C = Compile All    Q = Quit"
}

func (t *tui) draw() {
	t.renderState()
	t.renderCode()
	ui.Render(t.state, t.code, t.tips)
}

func (t *tui) renderState() {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "tick %d\n\n", t.ticks)
	for i := 0; i < t.circ.NumMCs(); i++ {
		mark := ' '
		if i == t.selected {
			mark = '>'
		}
		fmt.Fprintf(sb, "%c mc%d  %s\n", mark, i, mcState(t.circ.MC(i), t.circ.IOCount()))
	}
	t.state.Text = sb.String()
}

func (t *tui) renderCode() {
	m := t.circ.MC(t.selected)
	if m == nil {
		t.code.Text = ""
		return
	}
	t.code.Title = fmt.Sprintf("Code mc%d", t.selected)
	pc, _ := m.Register(vm.RegPC)
	sb := &strings.Builder{}
	for i, line := range m.Program().Code() {
		if vm.Cell(i) == pc {
			fmt.Fprintf(sb, "[%2d %s](fg:cyan)\n", i, line)
		} else {
			fmt.Fprintf(sb, "%2d %s\n", i, line)
		}
	}
	t.code.Text = sb.String()
}
