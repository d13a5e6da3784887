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
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/chzyer/readline"
)

type input struct {
	line string
	err  error
}

// scripted plays back lines like a terminal would
type scripted struct {
	inputs  []input
	prompts []string
}

func (s *scripted) Readline() (string, error) {
	if len(s.inputs) == 0 {
		return "", io.EOF
	}
	in := s.inputs[0]
	s.inputs = s.inputs[1:]
	return in.line, in.err
}

func (s *scripted) SetPrompt(p string) {
	s.prompts = append(s.prompts, p)
}

func lines(l ...string) []input {
	result := make([]input, len(l))
	for i, s := range l {
		result[i] = input{line: s}
	}
	return result
}

func TestPrompt(t *testing.T) {
	src := &scripted{inputs: lines("ADD 1 2", "", "ADD 1", "2", "x", "ADD \\", "3 4", "bye", "ADD 9 9")}
	var out bytes.Buffer
	if err := Prompt(context.Background(), src, NewRunner(New(), &out, "")); err != nil {
		t.Fatal(err)
	}
	want := "3\n3\nError: unbound variable at 1:1: x\n7\n"
	if out.String() != want {
		t.Fatalf("unexpected output\n%s", out.String())
	}
	if len(src.inputs) != 1 {
		t.Fatalf("bye did not stop the prompt")
	}
	conts := 0
	for _, p := range src.prompts {
		if p == contprompt {
			conts++
		}
	}
	if conts != 2 {
		t.Fatalf("expected 2 continuation prompts, got %d", conts)
	}
}

func TestPromptInterrupt(t *testing.T) {
	src := &scripted{inputs: []input{
		{"ADD 1", nil},
		{"", readline.ErrInterrupt}, // drops the pending line
		{"5", nil},
		{"", readline.ErrInterrupt}, // leaves
		{"6", nil},
	}}
	var out bytes.Buffer
	if err := Prompt(context.Background(), src, NewRunner(New(), &out, "")); err != nil {
		t.Fatal(err)
	}
	if out.String() != "5\n" {
		t.Fatalf("unexpected output\n%s", out.String())
	}
	if src.prompts[len(src.prompts)-1] != newprompt {
		t.Fatalf("prompt not reset")
	}
}

func TestPromptSurvivesPanics(t *testing.T) {
	catalog := NewCatalog(append(Builtins(), Declaration{
		"BOOM", "Test", "panics", []DeclarationParameter{}, "any",
		func(o *Operands) (Value, error) {
			panic("boom")
		},
	})...)
	src := &scripted{inputs: lines("BOOM", "ADD 2 2")}
	var out bytes.Buffer
	if err := Prompt(context.Background(), src, NewRunner(New(WithCatalog(catalog)), &out, "")); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "panic: boom") || !strings.HasSuffix(out.String(), "4\n") {
		t.Fatalf("unexpected output\n%s", out.String())
	}
}

func TestPromptDiscardsIncompleteBodies(t *testing.T) {
	// the source is complete, only the stored body or actual parameter runs out
	src := &scripted{inputs: lines("({:})", "1", "({!x: x} ADD 1)", "ADD 2 3", "bye", "7")}
	var out bytes.Buffer
	if err := Prompt(context.Background(), src, NewRunner(New(), &out, "")); err != nil {
		t.Fatal(err)
	}
	want := "Error: syntax error at 1:1: incomplete function body\n1\n" +
		"Error: syntax error at 1:15: incomplete actual parameter x\n5\n"
	if out.String() != want {
		t.Fatalf("unexpected output\n%s", out.String())
	}
	if len(src.inputs) != 1 {
		t.Fatalf("bye did not stop the prompt")
	}
	for _, p := range src.prompts {
		if p == contprompt {
			t.Fatalf("complete lines must not ask for a continuation")
		}
	}
}
