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
	"strings"

	"github.com/TryExceptElse/zen/internal/hashutil"
	"github.com/TryExceptElse/zen/internal/zenerr"
)

// Content owns an ordered list of Lines read from one file and the
// comment-strip state shared by every Pos/Chunk that addresses it.
type Content struct {
	Path           string
	Lines          []*Line
	HasUncommented bool

	strippedHash    uint64
	strippedHashSet bool
}

// NewContent splits s into lines after every '\n', keeping the '\n' on
// each line; a trailing line without one is kept as-is. No other
// character ends a line.
func NewContent(path, s string) *Content {
	return &Content{Path: path, Lines: splitLines(s)}
}

func splitLines(s string) []*Line {
	var lines []*Line
	start := 0
	idx := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, &Line{Index: idx, Raw: s[start : i+1]})
			idx++
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, &Line{Index: idx, Raw: s[start:]})
	}
	return lines
}

// StripComments runs exactly once per Content: it scans each line
// carrying a cross-line in_block flag, replacing block and line
// comments with nothing while preserving line count and trailing
// newlines.
func (c *Content) StripComments() {
	if c.HasUncommented {
		panic("zen: StripComments called twice on the same Content")
	}
	inBlock := false
	for _, line := range c.Lines {
		s := line.Raw
		i := 0
		var b strings.Builder
		for {
			if inBlock {
				end := strings.Index(s[i:], "*/")
				if end == -1 {
					break
				}
				i += end + len("*/")
				inBlock = false
				continue
			}
			start := strings.Index(s[i:], "/*")
			if start == -1 {
				b.WriteString(s[i:])
				break
			}
			b.WriteString(s[i : i+start])
			i += start + len("/*")
			inBlock = true
		}
		unblocked := b.String()
		uncommented := unblocked
		if lc := strings.Index(unblocked, "//"); lc != -1 {
			uncommented = unblocked[:lc]
		}
		if strings.HasSuffix(line.Raw, "\n") && !strings.HasSuffix(uncommented, "\n") {
			uncommented += "\n"
		}
		line.setUncommented(uncommented)
	}
	c.HasUncommented = true
}

func (c *Content) ensureUncommented() {
	if !c.HasUncommented {
		c.StripComments()
	}
}

// StartPos returns the position of the first character of the content
// in the given form.
func (c *Content) StartPos(form Form) Pos {
	return newPos(c, 0, 0, form)
}

// EndPos returns the position just past the last character of the
// content in the given form.
func (c *Content) EndPos(form Form) Pos {
	last := len(c.Lines) - 1
	if last < 0 {
		return newPos(c, 0, 0, form)
	}
	return newPos(c, last, len(c.Lines[last].In(form)), form)
}

// strippedLines returns the non-blank Stripped lines StrippedHash and
// StrippedText both derive from.
func (c *Content) strippedLines() []string {
	c.ensureUncommented()
	var kept []string
	for _, l := range c.Lines {
		s := l.Stripped()
		if s == "\n" {
			continue
		}
		kept = append(kept, strings.TrimRight(s, "\n"))
	}
	return kept
}

// StrippedHash is an order-sensitive hash over the content's Stripped
// lines, excluding lines whose Stripped value is exactly "\n" (pure
// whitespace). It is stable across runs iff the file's non-comment,
// non-whitespace content is identical.
func (c *Content) StrippedHash() uint64 {
	if c.strippedHashSet {
		return c.strippedHash
	}
	c.strippedHash = hashutil.IterHash(c.strippedLines())
	c.strippedHashSet = true
	return c.strippedHash
}

// StrippedText renders the same lines StrippedHash fingerprints, joined
// back into one string, for diagnostic diffing between two revisions of
// a source's substantive content.
func (c *Content) StrippedText() string {
	return strings.Join(c.strippedLines(), "\n")
}

func (c *Content) lineCount() int { return len(c.Lines) }

// LineEndPos returns the position just past the end of line in the
// given form (the position a preprocessor directive's span ends at).
func (c *Content) LineEndPos(line int, form Form) Pos {
	if form != Raw {
		c.ensureUncommented()
	}
	l, err := c.lineAt(line)
	if err != nil {
		panic(err)
	}
	return newPos(c, l.Index, len([]rune(l.In(form))), form)
}

// lineAt returns the Line at i, matching Python's negative-index
// wraparound semantics used throughout SourcePos/Chunk construction.
func (c *Content) lineAt(i int) (*Line, error) {
	n := len(c.Lines)
	orig := i
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return nil, zenerr.NewValueError(
			"line index invalid: %d (%d lines in content)", orig, n)
	}
	return c.Lines[i], nil
}
