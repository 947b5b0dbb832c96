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
	"fmt"

	"github.com/pkg/errors"

	"github.com/tinysoc/tinysoc/vm"
)

// Connection and persistence error sentinels, testable with errors.Cause.
var (
	ErrMCRange   = errors.New("mc index out of range")
	ErrPortRange = errors.New("io register index out of range")
	ErrFormat    = errors.New("malformed circuit file")
)

// Port names one io register of one microcontroller in a circuit.
type Port struct {
	MC int
	IO int
}

// Circuit is a set of microcontrollers advanced in lockstep plus the
// directed wiring between their io registers.
type Circuit struct {
	mcs   []*MC
	conns map[Port]Port
	nio   int
	log   Logger
}

// Option interface
type Option func(*Circuit) error

// IORegisters sets the io register bank size every microcontroller of the
// circuit is built with.
func IORegisters(n int) Option {
	return func(c *Circuit) error {
		if n < 1 {
			return errors.Errorf("invalid io register count %d", n)
		}
		c.nio = n
		return nil
	}
}

// WithLogger makes the circuit trace compile failures and rendezvous to l.
func WithLogger(l Logger) Option {
	return func(c *Circuit) error {
		c.log = l
		return nil
	}
}

// New creates an empty circuit.
func New(opts ...Option) (*Circuit, error) {
	c := &Circuit{
		conns: make(map[Port]Port),
		nio:   vm.DefaultIORegisters,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Circuit) logf(format string, args ...interface{}) {
	if c.log != nil {
		c.log.Log(fmt.Sprintf(format, args...))
	}
}

// NumMCs returns the number of microcontrollers.
func (c *Circuit) NumMCs() int { return len(c.mcs) }

// IOCount returns the io register bank size of the circuit's
// microcontrollers.
func (c *Circuit) IOCount() int { return c.nio }

// MC returns the microcontroller at index i, or nil when out of range.
func (c *Circuit) MC(i int) *MC {
	if i < 0 || i >= len(c.mcs) {
		return nil
	}
	return c.mcs[i]
}

// AddMC appends a microcontroller with a blank program at the given
// position and returns its index.
func (c *Circuit) AddMC(geom Rect) int {
	c.mcs = append(c.mcs, newMC(geom, c.nio))
	return len(c.mcs) - 1
}

// RemoveMC swap-removes microcontroller i. Connections touching i are
// dropped; connections touching the microcontroller swapped into slot i
// are repointed so the map stays index-valid.
func (c *Circuit) RemoveMC(i int) error {
	if i < 0 || i >= len(c.mcs) {
		return errors.Wrapf(ErrMCRange, "remove mc %d", i)
	}
	last := len(c.mcs) - 1
	var drop, move []Port
	for out, in := range c.conns {
		switch {
		case out.MC == i || in.MC == i:
			drop = append(drop, out)
		case out.MC == last || in.MC == last:
			move = append(move, out)
		}
	}
	for _, k := range drop {
		delete(c.conns, k)
	}
	for _, k := range move {
		in := c.conns[k]
		delete(c.conns, k)
		if k.MC == last {
			k.MC = i
		}
		if in.MC == last {
			in.MC = i
		}
		c.conns[k] = in
	}
	c.mcs[i] = c.mcs[last]
	c.mcs = c.mcs[:last]
	return nil
}

// AddConnection wires producer port out to consumer port in. A producer
// port feeds at most one consumer; wiring it again replaces the edge.
func (c *Circuit) AddConnection(out, in Port) error {
	for _, p := range [...]Port{out, in} {
		if p.MC < 0 || p.MC >= len(c.mcs) {
			return errors.Wrapf(ErrMCRange, "connection %d.%d", p.MC, p.IO)
		}
		if p.IO < 0 || p.IO >= c.nio {
			return errors.Wrapf(ErrPortRange, "connection %d.%d", p.MC, p.IO)
		}
	}
	c.conns[out] = in
	return nil
}

// Connections returns a copy of the wiring, keyed by producer port.
func (c *Circuit) Connections() map[Port]Port {
	m := make(map[Port]Port, len(c.conns))
	for out, in := range c.conns {
		m[out] = in
	}
	return m
}

// Clear drops every microcontroller and connection.
func (c *Circuit) Clear() {
	c.mcs = nil
	c.conns = make(map[Port]Port)
}

// CompileAll assembles every microcontroller's source. Failures are
// reported per microcontroller and do not stop the batch; a failed compile
// leaves that microcontroller's previous program in place.
func (c *Circuit) CompileAll() []error {
	errs := make([]error, len(c.mcs))
	for i, m := range c.mcs {
		errs[i] = m.compile(fmt.Sprintf("mc%d", i))
		if errs[i] != nil {
			c.logf("compile mc%d: %v", i, errs[i])
		}
	}
	return errs
}

// Tick advances the circuit by one clock edge: every microcontroller
// steps one instruction, then ready producer ports are drained into
// waiting consumers until no transfer makes progress. A consumer that
// finishes a suspended instruction during the drain may itself become a
// ready producer, and the rescan picks it up, so a value can cross
// several wires in a single tick. Transfers happen in microcontroller
// insertion order and ascending port order, so a tick is deterministic.
func (c *Circuit) Tick() {
	for _, m := range c.mcs {
		m.Step()
	}
	for progress := true; progress; {
		progress = false
		for i, m := range c.mcs {
			for p := 0; p < c.nio; p++ {
				if !m.ReadOutReady(p) {
					continue
				}
				in, ok := c.conns[Port{i, p}]
				if !ok || !c.mcs[in.MC].ReadInReady(in.IO) {
					continue
				}
				v, _ := m.ReadOut(p)
				c.mcs[in.MC].ReadIn(v, in.IO)
				// let the consumer finish its suspended instruction
				c.mcs[in.MC].Step()
				c.logf("rendezvous %d.%d -> %d.%d: %d", i, p, in.MC, in.IO, v)
				progress = true
			}
		}
	}
}
