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

package source

import "strings"

// Line holds one terminator-preserving split of a source file in its
// three forms. Uncommented is populated exactly once, by
// Content.StripComments; Stripped is derived on demand from it.
type Line struct {
	Index       int
	Raw         string
	uncommented string
	hasUncomm   bool
}

// Uncommented returns the comment-stripped form of the line. It panics
// if StripComments has not yet run for the owning Content, matching the
// teacher source's fail-loud property accessor rather than silently
// returning an empty string.
func (l *Line) Uncommented() string {
	if !l.hasUncomm {
		panic("zen: uncommented value accessed before StripComments ran")
	}
	return l.uncommented
}

func (l *Line) setUncommented(s string) {
	l.uncommented = s
	l.hasUncomm = true
}

// Stripped collapses interior whitespace runs in the uncommented form to
// single spaces, re-appending the trailing newline if the uncommented
// form had one.
func (l *Line) Stripped() string {
	u := l.Uncommented()
	fields := strings.Fields(u)
	s := strings.Join(fields, " ")
	if strings.HasSuffix(u, "\n") {
		s += "\n"
	}
	return s
}

// In returns the line's text in the requested form.
func (l *Line) In(form Form) string {
	switch form {
	case Raw:
		return l.Raw
	case Uncommented:
		return l.Uncommented()
	case Stripped:
		return l.Stripped()
	default:
		panic("zen: unknown source form")
	}
}
