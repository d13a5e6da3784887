/*
Copyright (C) 2026  Carl-Philip Hänsch

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package awful

import (
	"errors"
	"testing"
)

func TestScanKinds(t *testing.T) {
	toks, err := Scan(`(ADD x, 1.5e3) {!y: "hi there"} 'single' -4`, DefaultCatalog().IsKeyword, Delimiters)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	want := []struct {
		kind TokenKind
		text string
	}{
		{TokDelimiter, "("},
		{TokKeyword, "ADD"},
		{TokAtom, "x"},
		{TokDelimiter, ","},
		{TokNumber, "1.5e3"},
		{TokDelimiter, ")"},
		{TokDelimiter, "{"},
		{TokDelimiter, "!"},
		{TokAtom, "y"},
		{TokDelimiter, ":"},
		{TokText, "hi there"},
		{TokDelimiter, "}"},
		{TokText, "single"},
		{TokNumber, "-4"},
	}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(toks), toks)
	}
	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Text != w.text {
			t.Fatalf("token %d: expected %s %q, got %s %q", i, w.kind, w.text, toks[i].Kind, toks[i].Text)
		}
	}
	if toks[4].Num != 1500 || toks[13].Num != -4 {
		t.Fatalf("bad numbers: %v %v", toks[4].Num, toks[13].Num)
	}
	if toks[10].Raw != `"hi there"` {
		t.Fatalf("raw text lexeme lost its quotes: %s", toks[10].Raw)
	}
}

func TestScanPositions(t *testing.T) {
	toks, err := Scan("ADD 1\n  x", DefaultCatalog().IsKeyword, Delimiters)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if toks[2].Pos.Line != 2 || toks[2].Pos.Col != 3 || toks[2].Pos.Offset != 8 {
		t.Fatalf("bad position of x: %+v", toks[2].Pos)
	}
	if toks[2].Pos.String() != "2:3" {
		t.Fatalf("bad position text: %s", toks[2].Pos)
	}
}

func TestScanKeywordsAreCaseSensitive(t *testing.T) {
	toks, err := Scan("add ADD", DefaultCatalog().IsKeyword, Delimiters)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if toks[0].Kind != TokAtom || toks[1].Kind != TokKeyword {
		t.Fatalf("expected atom and keyword, got %s and %s", toks[0].Kind, toks[1].Kind)
	}
}

func TestScanUnterminatedText(t *testing.T) {
	_, err := Scan(`ADD "abc`, DefaultCatalog().IsKeyword, Delimiters)
	if !errors.Is(err, ErrEndOfInput) {
		t.Fatalf("expected end of input, got %v", err)
	}
}

func TestScanEmpty(t *testing.T) {
	toks, err := Scan(" \t\r\n", nil, Delimiters)
	if err != nil || len(toks) != 0 {
		t.Fatalf("expected no tokens, got %v %v", toks, err)
	}
}
