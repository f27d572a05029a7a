// Copyright 2024 The Zen Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package source implements the line/content model, form-typed positions
// and chunks, and the scope-aware scanning primitives that the component
// factory builds on.
package source

// Form selects which of a line's three representations a Pos or Chunk
// addresses. Arithmetic between positions of different forms is
// undefined and rejected (position arithmetic
// across forms").
type Form int

const (
	Raw Form = iota
	Uncommented
	Stripped
)

func (f Form) String() string {
	switch f {
	case Raw:
		return "raw"
	case Uncommented:
		return "uncommented"
	case Stripped:
		return "stripped"
	default:
		return "unknown"
	}
}
