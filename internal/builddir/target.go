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

// TargetType classifies what a Target ultimately links into, inferred
// from the output file name CMake recorded for it.
type TargetType int

const (
	UnknownType TargetType = iota
	Executable
	StaticLib
	SharedLib
)

func (t TargetType) String() string {
	switch t {
	case Executable:
		return "EXECUTABLE"
	case StaticLib:
		return "STATIC_LIBRARY"
	case SharedLib:
		return "SHARED_LIBRARY"
	default:
		return "UNKNOWN"
	}
}

// CompileObject is one ".o" CMake will produce from one or more
// SourceFiles (the translation unit itself plus the headers it
// transitively includes, as recorded by depend.internal).
type CompileObject struct {
	Path    string
	Sources []*SourceFile
	Status  Status
}

// TranslationUnit is the first, non-header source named for this
// object: the file that is actually compiled, as opposed to the
// headers it pulls in.
func (o *CompileObject) TranslationUnit() *SourceFile {
	for _, sf := range o.Sources {
		if !sf.IsHeader {
			return sf
		}
	}
	if len(o.Sources) > 0 {
		return o.Sources[0]
	}
	return nil
}

// Target is one CMake build target: an executable or library built
// from a set of CompileObjects and linked against other targets or
// external files.
type Target struct {
	Name     string
	Type     TargetType
	FilePath string
	Objects  []*CompileObject
	Deps     map[string]bool
	Status   Status
}
