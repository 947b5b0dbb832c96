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

// Logger receives trace messages from a circuit. Without the WithLogger
// option nothing is logged.
type Logger interface {
	Log(msg string)
}

// LoggerFunc adapts a function to the Logger interface.
type LoggerFunc func(msg string)

// Log calls f(msg).
func (f LoggerFunc) Log(msg string) { f(msg) }
