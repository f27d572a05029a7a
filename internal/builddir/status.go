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

package builddir

// Status is the totally ordered rebuild-avoidance lattice every object
// and target resolves to.
type Status int

const (
	Unchecked Status = iota
	NoChange
	MinorChange
	Changed
)

func (s Status) String() string {
	switch s {
	case Unchecked:
		return "UNCHECKED"
	case NoChange:
		return "NO_CHANGE"
	case MinorChange:
		return "MINOR_CHANGE"
	case Changed:
		return "CHANGED"
	default:
		return "UNKNOWN"
	}
}

// Max returns the greater of two statuses in the lattice order, used to
// roll object statuses up into their owning target.
func Max(a, b Status) Status {
	if a > b {
		return a
	}
	return b
}
