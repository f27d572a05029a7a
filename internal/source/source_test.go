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

import "testing"

func TestStripCommentsPreservesLineCount(t *testing.T) {
	c := NewContent("t.cc", "int a; // comment\n/* block\ncomment */ int b;\n")
	before := len(c.Lines)
	c.StripComments()
	if len(c.Lines) != before {
		t.Fatalf("line count changed: %d -> %d", before, len(c.Lines))
	}
	for _, l := range c.Lines {
		if len(l.Raw) > 0 && l.Raw[len(l.Raw)-1] == '\n' {
			if len(l.uncommented) == 0 || l.uncommented[len(l.uncommented)-1] != '\n' {
				t.Fatalf("line %d: raw ends in newline but uncommented does not", l.Index)
			}
		}
	}
}

func TestStrippedHashInvariantUnderWhitespaceAndComments(t *testing.T) {
	a := NewContent("a.cc", "int foo() {\n  return 1;\n}\n")
	b := NewContent("b.cc", "int   foo()   {\n\n  // a comment\n  return 1; /* trailing */\n\n}\n")
	if a.StrippedHash() != b.StrippedHash() {
		t.Fatalf("expected equal stripped hashes for whitespace/comment-only diff")
	}
}

func TestStrippedHashChangesOnTokenChange(t *testing.T) {
	a := NewContent("a.cc", "int foo() { return 1; }\n")
	b := NewContent("b.cc", "int foo() { return 2; }\n")
	if a.StrippedHash() == b.StrippedHash() {
		t.Fatalf("expected different stripped hashes for a token change")
	}
}

func TestPosArithmeticRoundTrip(t *testing.T) {
	c := NewContent("t.cc", "abc\ndef\nghi\n")
	start := c.StartPos(Raw)
	p, err := start.Add(5)
	if err != nil {
		t.Fatal(err)
	}
	back, err := p.Sub(5)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(start) {
		t.Fatalf("p+n-n != p: got line=%d col=%d", back.line, back.col)
	}
}

func TestPosCrossesLineBoundary(t *testing.T) {
	c := NewContent("t.cc", "ab\ncd\n")
	start := c.StartPos(Raw)
	p, err := start.Add(3) // 'a','b','\n' -> first char of next line
	if err != nil {
		t.Fatal(err)
	}
	if p.Line() != 1 || p.Col() != 0 {
		t.Fatalf("expected line 1 col 0, got line %d col %d", p.Line(), p.Col())
	}
}

func TestFindPairBalancesBrackets(t *testing.T) {
	c := NewContent("t.cc", "foo(a, (b), c)\n")
	chunk, err := New(c, nil, nil, Raw)
	if err != nil {
		t.Fatal(err)
	}
	startPos := mustPos(c.StartPos(Raw).Add(3))
	end, err := chunk.FindPair(startPos, true)
	if err != nil {
		t.Fatal(err)
	}
	ch, _ := chunk.AtPos(end)
	if ch != ')' {
		t.Fatalf("expected closing paren, got %q", ch)
	}
	// Every bracket between start and end must balance: the matched
	// close should be the one aligning with the outer open, not the
	// nested "(b)" pair's close.
	if end.Line() != startPos.Line() {
		t.Fatalf("expected match on same line")
	}
}

func TestFindQuoteEndHonorsEscapes(t *testing.T) {
	c := NewContent("t.cc", `"a\"b"` + "\n")
	chunk, err := New(c, nil, nil, Raw)
	if err != nil {
		t.Fatal(err)
	}
	end, err := chunk.FindQuoteEnd(c.StartPos(Raw))
	if err != nil {
		t.Fatal(err)
	}
	ch, _ := chunk.AtPos(end)
	if ch != '"' {
		t.Fatalf("expected closing quote, got %q", ch)
	}
}

func TestContentHashInvariantUnderInteriorWhitespace(t *testing.T) {
	a := NewContent("a.cc", "int   foo ( ) { return  1 ; }\n")
	b := NewContent("b.cc", "int foo() { return 1; }\n")
	ca, _ := New(a, nil, nil, Raw)
	cb, _ := New(b, nil, nil, Raw)
	if ca.ContentHash() != cb.ContentHash() {
		t.Fatalf("expected equal content hashes for whitespace-only diff")
	}
}

func mustPos(p Pos, err error) Pos {
	if err != nil {
		panic(err)
	}
	return p
}

func (p Pos) mustAdd(n int) Pos {
	r, err := p.Add(n)
	if err != nil {
		panic(err)
	}
	return r
}
