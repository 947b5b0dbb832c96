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
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/tinysoc/tinysoc/internal/tsi"
)

const connMarker = "<connections>"

// Save writes the circuit in its line-oriented text format: one block per
// microcontroller holding the geometry and the raw source, then the wiring.
//
//	<mc>
//	<x> <y> <w> <h>
//	<source, trailing newline added>
//	...
//	<connections>
//	<out mc> <out io> <in mc> <in io>
//
// Connections are written in producer order so the output is
// deterministic.
func (c *Circuit) Save(w io.Writer) error {
	ew := tsi.NewErrWriter(w)
	for _, m := range c.mcs {
		ew.Printf("<mc>\n%s %s %s %s\n", num(m.geom.X), num(m.geom.Y), num(m.geom.W), num(m.geom.H))
		ew.WriteString(m.src)
		if !strings.HasSuffix(m.src, "\n") {
			ew.WriteString("\n")
		}
	}
	ew.WriteString(connMarker + "\n")
	outs := make([]Port, 0, len(c.conns))
	for out := range c.conns {
		outs = append(outs, out)
	}
	sort.Slice(outs, func(a, b int) bool {
		if outs[a].MC != outs[b].MC {
			return outs[a].MC < outs[b].MC
		}
		return outs[a].IO < outs[b].IO
	})
	for _, out := range outs {
		in := c.conns[out]
		ew.Printf("%d %d %d %d\n", out.MC, out.IO, in.MC, in.IO)
	}
	return errors.Wrap(ew.Err, "save circuit")
}

// Load replaces the circuit with the one read from r. On any error the
// circuit is left empty.
func (c *Circuit) Load(r io.Reader) error {
	c.Clear()
	if err := c.load(r); err != nil {
		c.Clear()
		return err
	}
	return nil
}

func (c *Circuit) load(r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "load circuit")
	}
	text := string(b)
	if strings.Count(text, connMarker) != 1 {
		return errors.Wrapf(ErrFormat, "want exactly one %s marker", connMarker)
	}
	mcText, connText, _ := strings.Cut(text, connMarker)

	for _, chunk := range strings.Split(mcText, "<mc>")[1:] {
		chunk = strings.TrimLeft(chunk, " \t\r\n")
		geomLine, src, found := strings.Cut(chunk, "\n")
		if !found {
			return errors.Wrap(ErrFormat, "mc block wants a geometry line and a source body")
		}
		geom, err := parseGeometry(geomLine)
		if err != nil {
			return err
		}
		i := c.AddMC(geom)
		c.mcs[i].SetSource(strings.TrimSuffix(src, "\n"))
	}

	for _, line := range strings.Split(connText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		f := strings.Fields(line)
		if len(f) != 4 {
			return errors.Wrapf(ErrFormat, "connection line %q", line)
		}
		var v [4]int
		for k, s := range f {
			n, err := strconv.ParseUint(s, 10, 31)
			if err != nil {
				return errors.Wrapf(ErrFormat, "connection index %q", s)
			}
			v[k] = int(n)
		}
		if err := c.AddConnection(Port{v[0], v[1]}, Port{v[2], v[3]}); err != nil {
			return err
		}
	}
	return nil
}

// SaveFile saves the circuit to path. The file handle does not outlive the
// call.
func (c *Circuit) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "save circuit")
	}
	err = c.Save(f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = errors.Wrap(cerr, "save circuit")
	}
	return err
}

// LoadFile loads the circuit from path, leaving the circuit empty on
// error.
func (c *Circuit) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		c.Clear()
		return errors.Wrap(err, "load circuit")
	}
	defer f.Close()
	return c.Load(f)
}

func parseGeometry(s string) (Rect, error) {
	f := strings.Fields(strings.TrimSpace(s))
	if len(f) != 4 {
		return Rect{}, errors.Wrapf(ErrFormat, "geometry line %q", s)
	}
	var v [4]float64
	for i, w := range f {
		x, err := strconv.ParseFloat(w, 64)
		if err != nil {
			return Rect{}, errors.Wrapf(ErrFormat, "geometry value %q", w)
		}
		v[i] = x
	}
	return Rect{v[0], v[1], v[2], v[3]}, nil
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
