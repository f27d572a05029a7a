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

// Package component implements the C++ component taxonomy and the
// scope-aware factory that recognizes them from a Chunk.
package component

// ScopeType disambiguates syntax the factory would otherwise parse the
// same way: a '{' block means something different at file scope, inside
// a class body, and inside a function body.
type ScopeType int

const (
	Global ScopeType = iota
	Class
	Func
)

func (s ScopeType) String() string {
	switch s {
	case Global:
		return "GLOBAL"
	case Class:
		return "CLASS"
	case Func:
		return "FUNC"
	default:
		return "UNKNOWN"
	}
}
