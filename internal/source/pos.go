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

import "github.com/TryExceptElse/zen/internal/zenerr"

// Pos is an immutable, form-typed position within a Content: a
// (content, line, column, form) 4-tuple with structural equality
// Two positions compare equal, and hash equal as
// Go map keys, iff all four fields match.
type Pos struct {
	content *Content
	line    int
	col     int
	form    Form
}

// newPos normalizes line/col (negative indices wrap, Python-slice
// style) and applies the end-of-line auto-advance rule: a column equal
// to the line's length, when a next line exists, is the same position
// as column 0 of the next line.
func newPos(content *Content, line, col int, form Form) Pos {
	if form != Raw {
		content.ensureUncommented()
	}
	l, err := content.lineAt(line)
	if err != nil {
		panic(err)
	}
	line = l.Index
	col = normalizeCol(content, line, col, form)
	lineLen := len([]rune(content.Lines[line].In(form)))
	if col == lineLen && line < len(content.Lines)-1 {
		line++
		col = 0
	}
	return Pos{content: content, line: line, col: col, form: form}
}

func normalizeCol(content *Content, line, col int, form Form) int {
	s := content.Lines[line].In(form)
	n := len([]rune(s))
	orig := col
	if col < 0 {
		col += n
	}
	if col < 0 || col > n {
		panic(zenerr.NewValueError(
			"column index invalid: %d (line %d is %d chars long)", orig, line, n))
	}
	return col
}

// Content returns the Content this position addresses.
func (p Pos) Content() *Content { return p.content }

// Line returns the 0-indexed line number.
func (p Pos) Line() int { return p.line }

// Col returns the 0-indexed column, normalized to p.Form().
func (p Pos) Col() int { return p.col }

// Form returns the source form this position addresses.
func (p Pos) Form() Form { return p.form }

// LineObj returns the Line this position falls on.
func (p Pos) LineObj() *Line { return p.content.Lines[p.line] }

// Add advances p by n characters in p.Form(), crossing line boundaries
// transparently. A negative n retreats instead (negative operands swap
// the operation).
func (p Pos) Add(n int) (Pos, error) {
	if n < 0 {
		return p.Sub(-n)
	}
	line := p.content.Lines[p.line]
	lineLen := len([]rune(line.In(p.form)))
	remaining := lineLen - p.col
	if n < remaining {
		return newPos(p.content, p.line, p.col+n, p.form), nil
	}
	n -= remaining
	for i := p.line + 1; i < len(p.content.Lines); i++ {
		l := p.content.Lines[i]
		lc := len([]rune(l.In(p.form)))
		if n < lc {
			return newPos(p.content, i, n, p.form), nil
		}
		n -= lc
	}
	return Pos{}, zenerr.NewValueError("cannot advance past end of content")
}

// Sub retreats p by n characters in p.Form(). A negative n advances
// instead.
func (p Pos) Sub(n int) (Pos, error) {
	if n < 0 {
		return p.Add(-n)
	}
	remaining := p.col
	if n <= remaining {
		return newPos(p.content, p.line, p.col-n, p.form), nil
	}
	n -= remaining
	for i := p.line - 1; i >= 0; i-- {
		l := p.content.Lines[i]
		lc := len([]rune(l.In(p.form)))
		if n <= lc {
			return newPos(p.content, i, lc-n, p.form), nil
		}
		n -= lc
	}
	return Pos{}, zenerr.NewValueError("cannot retreat past start of content")
}

// Less reports whether p precedes q in (line, column) lexicographic
// order; both must address the same Content and Form.
func (p Pos) Less(q Pos) bool {
	if p.line != q.line {
		return p.line < q.line
	}
	return p.col < q.col
}

// Equal reports whether p and q are structurally identical.
func (p Pos) Equal(q Pos) bool {
	return p.content == q.content && p.line == q.line && p.col == q.col && p.form == q.form
}
