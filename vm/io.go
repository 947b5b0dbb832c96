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

package vm

import "github.com/pkg/errors"

// ReadIn delivers v to io register port. It is accepted only while the
// instance is blocked reading that port; the suspended instruction is
// retried on the next Step.
func (i *Instance) ReadIn(v Cell, port int) error {
	if port < 0 || port >= len(i.rio) {
		return errors.Errorf("io register %d out of range", port)
	}
	if i.dir != ioIn || i.active != port {
		return errors.Errorf("io register %d is not accepting a value", port)
	}
	i.rio[port] = v
	i.dir = ioIdle
	i.active = -1
	return nil
}

// ReadOut drains the value blocked on io register port and unblocks the
// instance. It reports false while there is nothing to read on that port.
func (i *Instance) ReadOut(port int) (Cell, bool) {
	if !i.ReadOutReady(port) {
		return 0, false
	}
	i.dir = ioIdle
	i.active = -1
	return i.rio[port], true
}

// ReadInReady reports whether the instance is blocked waiting for a value
// on io register port.
func (i *Instance) ReadInReady(port int) bool {
	return i.dir == ioIn && i.active == port
}

// ReadOutReady reports whether io register port holds a value waiting to
// be drained.
func (i *Instance) ReadOutReady(port int) bool {
	return i.dir == ioOut && i.active == port
}
