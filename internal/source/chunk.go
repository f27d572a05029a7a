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

import (
	"regexp"
	"strings"

	"github.com/TryExceptElse/zen/internal/hashutil"
	"github.com/TryExceptElse/zen/internal/zenerr"
)

var defaultTokenRegex = regexp.MustCompile(`[\w0-9]+`)

// contentTokenRegex splits a line into identifier runs and single
// punctuation characters, so ContentHash sees every non-whitespace
// character but none of the whitespace between them.
var contentTokenRegex = regexp.MustCompile(`[\w0-9]+|\S`)

var brackets = map[rune]rune{
	'(': ')',
	'{': '}',
	'[': ']',
	'<': '>',
}

var closers = map[rune]rune{
	')': '(',
	'}': '{',
	']': '[',
	'>': '<',
}

// Chunk is a half-open [start, end) slice of a Content in a given form
// It flattens its span into a rune slice on first access so
// random access, iteration, FindPair and tokenization can all work
// against plain indices while staying mappable back to form-typed
// positions.
type Chunk struct {
	Content *Content
	Start   Pos
	End     Pos
	Form    Form

	text []rune
	pos  []Pos // pos[i] is the position of text[i]; len(pos) == len(text)+1, pos[len(text)] == End
}

// New builds a Chunk over [start, end) of content in form. A nil start
// or end defaults to the content's bounds. Construction requires
// start <= end in (line, column) lexicographic order.
func New(content *Content, start, end *Pos, form Form) (*Chunk, error) {
	var s, e Pos
	if start != nil {
		s = *start
	} else {
		s = content.StartPos(form)
	}
	if end != nil {
		e = *end
	} else {
		e = content.EndPos(form)
	}
	if s.line > e.line || (s.line == e.line && s.col > e.col) {
		return nil, zenerr.NewValueError(
			"chunk start %v follows end %v", s, e)
	}
	c := &Chunk{Content: content, Start: s, End: e, Form: form}
	return c, nil
}

// MustNew is New but panics on error; used internally where bounds are
// already known-valid (e.g. from FindPair results).
func MustNew(content *Content, start, end *Pos, form Form) *Chunk {
	c, err := New(content, start, end, form)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Chunk) build() {
	if c.text != nil {
		return
	}
	var text []rune
	var positions []Pos
	for li := c.Start.line; li <= c.End.line; li++ {
		line := c.Content.Lines[li]
		runes := []rune(line.In(c.Form))
		from, to := 0, len(runes)
		if li == c.Start.line {
			from = c.Start.col
		}
		if li == c.End.line {
			to = c.End.col
		}
		for col := from; col < to; col++ {
			text = append(text, runes[col])
			positions = append(positions, Pos{content: c.Content, line: li, col: col, form: c.Form})
		}
	}
	positions = append(positions, c.End)
	c.text = text
	c.pos = positions
}

// Len returns the number of characters the chunk spans.
func (c *Chunk) Len() int {
	c.build()
	return len(c.text)
}

// String materializes the chunk's text.
func (c *Chunk) String() string {
	c.build()
	return string(c.text)
}

func (c *Chunk) normIndex(i int) (int, error) {
	c.build()
	n := len(c.text)
	orig := i
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, zenerr.NewValueError("index %d outside chunk of length %d", orig, n)
	}
	return i, nil
}

// At returns the character at flat index i (negative indices count
// from the end).
func (c *Chunk) At(i int) (rune, error) {
	idx, err := c.normIndex(i)
	if err != nil {
		return 0, err
	}
	return c.text[idx], nil
}

// AtPos returns the character at pos, which must fall within the
// chunk's bounds.
func (c *Chunk) AtPos(p Pos) (rune, error) {
	c.build()
	if p.line < c.Start.line || p.line > c.End.line {
		return 0, zenerr.NewValueError("line %d outside chunk lines %d-%d", p.line, c.Start.line, c.End.line)
	}
	if p.line == c.Start.line && p.col < c.Start.col {
		return 0, zenerr.NewValueError("column %d precedes chunk start", p.col)
	}
	if p.line == c.End.line && p.col >= c.End.col {
		return 0, zenerr.NewValueError("column %d does not precede chunk end", p.col)
	}
	idx := c.indexOfPos(p)
	return c.text[idx], nil
}

// indexOfPos finds the flat index whose pos equals p. Chunks are small
// (single compile units' components), so a linear scan is sufficiently
// fast and keeps the position model simple.
func (c *Chunk) indexOfPos(p Pos) int {
	c.build()
	for i, pp := range c.pos {
		if pp.Equal(p) {
			return i
		}
	}
	panic("zen: position not found in chunk (out of bounds)")
}

// IndexOf returns the flat index of position p within the chunk.
func (c *Chunk) IndexOf(p Pos) int {
	return c.indexOfPos(p)
}

// BoundaryPos returns the position between character i-1 and i (so
// BoundaryPos(0) == Start and BoundaryPos(Len()) == End); used to carve
// sub-chunks at arbitrary flat offsets.
func (c *Chunk) BoundaryPos(i int) Pos {
	c.build()
	if i < 0 || i > len(c.text) {
		panic(zenerr.NewValueError("boundary index %d outside chunk of length %d", i, len(c.text)))
	}
	return c.pos[i]
}

// PosAt returns the position of the character at flat index i.
func (c *Chunk) PosAt(i int) Pos {
	idx, err := c.normIndex(i)
	if err != nil {
		panic(err)
	}
	return c.pos[idx]
}

// Slice returns the sub-chunk [start, end); a nil bound defaults to the
// parent chunk's corresponding bound. Chunk has no step-slicing.
func (c *Chunk) Slice(start, end *Pos) (*Chunk, error) {
	s := c.Start
	if start != nil {
		s = *start
	}
	e := c.End
	if end != nil {
		e = *end
	}
	return New(c.Content, &s, &e, c.Form)
}

// Strip trims leading/trailing whitespace from the chunk, returning a
// narrower Chunk.
func (c *Chunk) Strip() *Chunk {
	c.build()
	lo, hi := 0, len(c.text)
	for lo < hi && isSpace(c.text[lo]) {
		lo++
	}
	for hi > lo && isSpace(c.text[hi-1]) {
		hi--
	}
	if lo == 0 && hi == len(c.text) {
		return c
	}
	start := c.pos[lo]
	end := c.pos[hi]
	return MustNew(c.Content, &start, &end, c.Form)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f'
}

// Line returns the Line object pos falls on.
func (c *Chunk) Line(p Pos) *Line {
	return c.Content.Lines[p.line]
}

// FirstLine and LastLine are the Lines the chunk's bounds fall on.
func (c *Chunk) FirstLine() *Line { return c.Content.Lines[c.Start.line] }
func (c *Chunk) LastLine() *Line  { return c.Content.Lines[c.End.line] }

// Tokenize finds all regex matches within the chunk's bounds. An empty
// pattern selects the default `[\w0-9]+` identifier pattern.
func (c *Chunk) Tokenize(pattern string) []string {
	re := defaultTokenRegex
	if pattern != "" {
		re = regexp.MustCompile(pattern)
	}
	return re.FindAllString(c.String(), -1)
}

// FindPair finds the position of the bracket matching the one at
// startPos, tracking nesting depth and skipping over string/character
// literals. If allowSemicolon is false, encountering any ';' outside a
// literal before the pair closes fails with NotFound — the mechanism the
// component factory uses to tentatively treat '<' as a template
// bracket and fall back to operator interpretation on failure.
func (c *Chunk) FindPair(startPos Pos, allowSemicolon bool) (Pos, error) {
	open, err := c.AtPos(startPos)
	if err != nil {
		return Pos{}, err
	}
	closeCh, ok := brackets[open]
	if !ok {
		return Pos{}, zenerr.NewValueError("expected an opening bracket at %v, got %q", startPos, open)
	}
	depth := 0
	c.build()
	i := c.indexOfPos(startPos)
	for i < len(c.text) {
		ch := c.text[i]
		switch {
		case ch == open:
			depth++
			i++
		case ch == closeCh:
			depth--
			if depth == 0 {
				return c.pos[i], nil
			}
			i++
		case ch == '\'' || ch == '"':
			end, err := c.FindQuoteEnd(c.pos[i])
			if err != nil {
				return Pos{}, err
			}
			i = c.indexOfPos(end) + 1
		case ch == ';' && !allowSemicolon:
			return Pos{}, zenerr.ErrNotFound
		default:
			i++
		}
	}
	return Pos{}, zenerr.NewParsingError(c.Content.Path, startPos.line,
		"no closing bracket found for %q opened at line %d", open, startPos.line+1)
}

// FindQuoteEnd returns the position of the matching terminator of the
// quote starting at pos, honoring backslash escapes. It refuses to cross a
// newline: an unterminated literal is a parsing error.
func (c *Chunk) FindQuoteEnd(pos Pos) (Pos, error) {
	quote, err := c.AtPos(pos)
	if err != nil {
		return Pos{}, err
	}
	if quote != '\'' && quote != '"' {
		return Pos{}, zenerr.NewValueError("expected quote character at %v, got %q", pos, quote)
	}
	c.build()
	i := c.indexOfPos(pos) + 1
	for i < len(c.text) {
		ch := c.text[i]
		if ch == '\n' {
			return Pos{}, zenerr.NewParsingError(c.Content.Path, pos.line, "unterminated literal starting at line %d", pos.line+1)
		}
		if ch == '\\' {
			i += 2
			continue
		}
		if ch == quote {
			return c.pos[i], nil
		}
		i++
	}
	return Pos{}, zenerr.NewParsingError(c.Content.Path, pos.line, "unterminated literal starting at line %d", pos.line+1)
}

// FindInScope scans the top level of the chunk, descending into
// matched bracket pairs but skipping their interior, and returns the
// position of the first occurrence of substr. It returns NotFound if
// no top-level occurrence exists.
func (c *Chunk) FindInScope(substr string) (Pos, error) {
	c.build()
	i := 0
	for i < len(c.text) {
		ch := c.text[i]
		if _, ok := brackets[ch]; ok {
			end, err := c.FindPair(c.pos[i], true)
			if err != nil {
				return Pos{}, err
			}
			i = c.indexOfPos(end) + 1
			continue
		}
		if ch == '\'' || ch == '"' {
			end, err := c.FindQuoteEnd(c.pos[i])
			if err != nil {
				return Pos{}, err
			}
			i = c.indexOfPos(end) + 1
			continue
		}
		if i+len(substr) <= len(c.text) && string(c.text[i:i+len(substr)]) == substr {
			return c.pos[i], nil
		}
		i++
	}
	return Pos{}, zenerr.ErrNotFound
}

// ScopeTokens is like Tokenize but excludes characters inside bracket
// pairs and string literals, matching only top-level identifiers.
func (c *Chunk) ScopeTokens(pattern string) []string {
	c.build()
	var b strings.Builder
	i := 0
	for i < len(c.text) {
		ch := c.text[i]
		if _, ok := brackets[ch]; ok {
			end, err := c.FindPair(c.pos[i], true)
			if err != nil {
				b.WriteRune(' ')
				i++
				continue
			}
			b.WriteRune(' ')
			i = c.indexOfPos(end) + 1
			continue
		}
		if ch == '\'' || ch == '"' {
			end, err := c.FindQuoteEnd(c.pos[i])
			if err != nil {
				b.WriteRune(' ')
				i++
				continue
			}
			b.WriteRune(' ')
			i = c.indexOfPos(end) + 1
			continue
		}
		b.WriteRune(ch)
		i++
	}
	re := defaultTokenRegex
	if pattern != "" {
		re = regexp.MustCompile(pattern)
	}
	return re.FindAllString(b.String(), -1)
}

// ContentHash is a whitespace-insensitive hash of the chunk's content:
// each spanned line (trimmed to the chunk's column bounds on its first
// and last line) is split into identifier and punctuation tokens that
// are joined with single spaces, and the resulting per-line strings are
// folded via hashutil.Combine in order.
func (c *Chunk) ContentHash() uint64 {
	var normalized []string
	for li := c.Start.line; li <= c.End.line; li++ {
		line := c.Content.Lines[li]
		runes := []rune(line.In(c.Form))
		from, to := 0, len(runes)
		if li == c.Start.line {
			from = c.Start.col
		}
		if li == c.End.line {
			to = c.End.col
		}
		segment := string(runes[from:to])
		joined := strings.Join(contentTokenRegex.FindAllString(segment, -1), " ")
		normalized = append(normalized, joined)
	}
	return hashutil.IterHash(normalized)
}
