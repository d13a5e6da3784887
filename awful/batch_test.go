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
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

const script = "ADD 1 2\n\\ comment line\nADD 1 \\\n  2\n\nx\nbye\nADD 5 5\n"
const scriptOutput = "3\n3\nError: unbound variable at 1:1: x line 6\n"

func writeFile(t *testing.T, name string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func writeCompressed(t *testing.T, name string, content string, wrap func(io.Writer) (io.WriteCloser, error)) {
	t.Helper()
	f, err := os.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	w, err := wrap(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(w, content); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "plain.awful"), script)
	writeCompressed(t, filepath.Join(dir, "packed.awful.gz"), script, func(w io.Writer) (io.WriteCloser, error) {
		return gzip.NewWriter(w), nil
	})
	writeCompressed(t, filepath.Join(dir, "packed.awful.lz4"), script, func(w io.Writer) (io.WriteCloser, error) {
		return lz4.NewWriter(w), nil
	})
	writeCompressed(t, filepath.Join(dir, "packed.awful.xz"), script, func(w io.Writer) (io.WriteCloser, error) {
		return xz.NewWriter(w)
	})
	for _, name := range []string{"plain.awful", "packed.awful.gz", "packed.awful.lz4", "packed.awful.xz"} {
		var out bytes.Buffer
		r := NewRunner(New(), &out, dir)
		if err := r.Batch(context.Background(), name); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if out.String() != scriptOutput {
			t.Fatalf("%s: unexpected output\n%s", name, out.String())
		}
	}
}

func TestBatchMissingFile(t *testing.T) {
	r := NewRunner(New(), io.Discard, t.TempDir())
	if err := r.Batch(context.Background(), "nope.awful"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected a missing file, got %v", err)
	}
}

func TestBatchSizeLimit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "big.awful"), strings.Repeat("ADD 1 1\n", 10))
	s := DefaultSettings()
	s.MaxSourceSize = 16
	r := NewRunner(New(WithSettings(s)), io.Discard, dir)
	if err := r.Batch(context.Background(), "big.awful"); !errors.Is(err, ErrLimit) {
		t.Fatalf("expected limit error, got %v", err)
	}
}

func TestNestedBatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.awful"), "ADD 1 0\nbatch sub/inner.awful\nADD 4 0\n")
	writeFile(t, filepath.Join(dir, "sub", "inner.awful"), "ADD 2 0\nbatch leaf.awful\n")
	writeFile(t, filepath.Join(dir, "sub", "leaf.awful"), "ADD 3 0\nbye\nADD 9 9\n")
	var out bytes.Buffer
	r := NewRunner(New(), &out, dir)
	if err := r.Batch(context.Background(), "main.awful"); err != nil {
		t.Fatal(err)
	}
	if out.String() != "1\n2\n3\n4\n" {
		t.Fatalf("unexpected output\n%s", out.String())
	}
	if r.Dir != dir {
		t.Fatalf("directory not restored: %s", r.Dir)
	}
}

func TestBatchRecursionLimit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "self.awful"), "batch self.awful\n")
	var out bytes.Buffer
	r := NewRunner(New(), &out, dir)
	if err := r.Batch(context.Background(), "self.awful"); err != nil {
		t.Fatal(err)
	}
	if strings.Count(out.String(), "nested more than") != 1 {
		t.Fatalf("unexpected output\n%s", out.String())
	}
}

func TestExec(t *testing.T) {
	var out bytes.Buffer
	r := NewRunner(New(), &out, "")
	r.Prefix = "= "
	ctx := context.Background()
	if err := r.Exec(ctx, "  ADD 1 2  "); err != nil || out.String() != "= 3\n" {
		t.Fatalf("unexpected %q %v", out.String(), err)
	}
	out.Reset()
	if err := r.Exec(ctx, "1 2"); err != nil || !strings.HasPrefix(out.String(), "Warning: ") || !strings.HasSuffix(out.String(), "= 1\n") {
		t.Fatalf("unexpected %q %v", out.String(), err)
	}
	out.Reset()
	if err := r.Exec(ctx, "help ADD"); err != nil || !strings.Contains(out.String(), "Help for: ADD") {
		t.Fatalf("unexpected %q %v", out.String(), err)
	}
	if err := r.Exec(ctx, "help NOPE"); err == nil {
		t.Fatalf("expected an error")
	}
	if err := r.Exec(ctx, "bye"); !errors.Is(err, ErrBye) {
		t.Fatalf("expected bye, got %v", err)
	}
	if err := r.Exec(ctx, "ADD"); !errors.Is(err, ErrEndOfInput) {
		t.Fatalf("expected end of input, got %v", err)
	}
}

func TestLineReader(t *testing.T) {
	l := NewLineReader(strings.NewReader("a \\ dropped\nb\nc\nd \\"))
	want := []struct {
		line   string
		lineno int
	}{
		{"a  b", 2},
		{"c", 3},
		{"d  ", 4},
	}
	for _, w := range want {
		line, lineno, ok := l.Next()
		if !ok || line != w.line || lineno != w.lineno {
			t.Fatalf("expected %q at %d, got %q at %d (%v)", w.line, w.lineno, line, lineno, ok)
		}
	}
	if _, _, ok := l.Next(); ok {
		t.Fatalf("expected the end")
	}
	if l.Err() != nil {
		t.Fatal(l.Err())
	}
}
