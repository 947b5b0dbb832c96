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

// Package circuit schedules a set of microcontrollers in lockstep.
//
// A Circuit owns the microcontrollers, the directed wiring between their
// io registers, and the persistence format. Tick is the only clock: it
// steps every microcontroller one instruction, then drains every ready
// producer port into its waiting consumer until no transfer makes
// progress. The drain order is fixed (microcontroller insertion order,
// ascending ports), so circuits behave the same on every run.
//
// Everything is single-threaded and event-driven: a front end triggers
// ticks, compiles, saves and loads, and reads registers back out to
// render them. The package never blocks and never touches the clock.
package circuit
