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

// Package zenerr defines the closed set of error kinds used across the
// zen source-analysis pipeline.
package zenerr

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a search target (bracket pair,
// substring-in-scope, quote terminator) is absent in the scanned region.
var ErrNotFound = errors.New("zen: not found")

// ErrComponentCreation is the sentinel a Block's iteration loop consumes
// to know it has reached the end of its children; the component
// package's block parser consumes it and never returns it.
var ErrComponentCreation = errors.New("zen: no component found in chunk")

// ParsingError reports a structural violation: a missing ';' after a
// class body, a function nested in a function, an unterminated macro or
// literal. Callers in the change engine downgrade these to Status
// CHANGED rather than aborting.
type ParsingError struct {
	File    string
	Line    int
	Message string
}

func (e *ParsingError) Error() string {
	if e.File == "" {
		return e.Message
	}
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line+1, e.Message)
}

// NewParsingError builds a ParsingError anchored at the given 0-indexed
// line of file.
func NewParsingError(file string, line int, format string, a ...interface{}) *ParsingError {
	return &ParsingError{File: file, Line: line, Message: fmt.Sprintf(format, a...)}
}

// ValueError reports invalid arguments at the offending call site: bad
// chunk bounds, a non-bracket character passed to FindPair, an unknown
// column keyword.
type ValueError struct {
	Message string
}

func (e *ValueError) Error() string { return e.Message }

// NewValueError builds a ValueError from a format string.
func NewValueError(format string, a ...interface{}) *ValueError {
	return &ValueError{Message: fmt.Sprintf(format, a...)}
}
