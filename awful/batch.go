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
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// ErrBye is returned by Exec for the "bye" command
var ErrBye = errors.New("bye")

const maxBatchNesting = 16

// Runner executes command lines: "bye", "batch FILENAME", "help [NAME]"
// or an expression whose rendering is printed to Out.
type Runner struct {
	Interp *Interpreter
	Out    io.Writer
	Dir    string // relative batch file names are resolved against Dir
	Prefix string // printed in front of results

	nesting int
}

func NewRunner(in *Interpreter, out io.Writer, dir string) *Runner {
	return &Runner{Interp: in, Out: out, Dir: dir}
}

// Exec runs one logical line. Evaluation errors are returned, not printed.
func (r *Runner) Exec(ctx context.Context, line string) error {
	text := strings.TrimSpace(line)
	switch {
	case text == "":
		return nil
	case text == "bye":
		return ErrBye
	case text == "help" || strings.HasPrefix(text, "help "):
		help, err := r.Interp.Catalog().Help(strings.TrimSpace(text[4:]))
		if err != nil {
			return err
		}
		fmt.Fprint(r.Out, help)
		return nil
	case strings.HasPrefix(text, "batch ") || strings.HasPrefix(text, "batch\t"):
		return r.Batch(ctx, strings.TrimSpace(text[5:]))
	}
	result, err := r.Interp.EvaluateContext(ctx, text)
	if err != nil {
		return err
	}
	if result.Warning != "" {
		fmt.Fprintln(r.Out, "Warning:", result.Warning)
	}
	fmt.Fprintln(r.Out, r.Prefix+result.Rendered)
	return nil
}

// Batch runs every logical line of a file. Failing lines are reported
// with their line number and do not stop the file; "bye" does.
func (r *Runner) Batch(ctx context.Context, filename string) error {
	if r.nesting >= maxBatchNesting {
		return fmt.Errorf("batch %s: files nested more than %d levels", filename, maxBatchNesting)
	}
	filename = r.resolve(filename)
	content, err := ReadSource(filename, r.Interp.Settings().MaxSourceSize)
	if err != nil {
		return err
	}

	// nested batch files are relative to the including file
	savedDir := r.Dir
	r.Dir = filepath.Dir(filename)
	r.nesting++
	defer func() {
		r.Dir = savedDir
		r.nesting--
	}()

	lines := NewLineReader(bytes.NewReader(content))
	for {
		line, lineno, ok := lines.Next()
		if !ok {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		err := r.Exec(ctx, line)
		if errors.Is(err, ErrBye) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(r.Out, "Error: %v line %d\n", err, lineno)
			r.Interp.Logger().Debug("batch line failed", "file", filename, "line", lineno, "error", err)
		}
	}
	return lines.Err()
}

func (r *Runner) resolve(filename string) string {
	if !filepath.IsAbs(filename) && r.Dir != "" {
		return filepath.Join(r.Dir, filename)
	}
	return filename
}

type readCloser struct {
	io.Reader
	io.Closer
}

// OpenSource opens a batch file; names ending in .gz, .lz4 or .xz are
// decompressed while reading.
func OpenSource(filename string) (io.ReadCloser, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("problem with file %s: %w", filename, err)
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("problem with file %s: %w", filename, err)
		}
		return readCloser{zr, f}, nil
	case ".lz4":
		return readCloser{lz4.NewReader(f), f}, nil
	case ".xz":
		zr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("problem with file %s: %w", filename, err)
		}
		return readCloser{zr, f}, nil
	}
	return f, nil
}

// ReadSource reads a whole (possibly compressed) file, refusing more than
// max bytes of decompressed text when max > 0.
func ReadSource(filename string, max int64) ([]byte, error) {
	rc, err := OpenSource(filename)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	var rd io.Reader = rc
	if max > 0 {
		rd = io.LimitReader(rc, max+1)
	}
	content, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("problem with file %s: %w", filename, err)
	}
	if max > 0 && int64(len(content)) > max {
		return nil, newError(LimitError, Position{}, "file %s is larger than %s", filename, HumanSize(max))
	}
	return content, nil
}

// LineReader yields logical lines: a backslash drops the rest of its
// physical line and joins the next one.
type LineReader struct {
	sc   *bufio.Scanner
	line int
}

func NewLineReader(rd io.Reader) *LineReader {
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &LineReader{sc: sc}
}

// Next returns the next logical line and the number of its last physical line
func (l *LineReader) Next() (string, int, bool) {
	var b strings.Builder
	for l.sc.Scan() {
		l.line++
		head, more := Continuation(l.sc.Text())
		b.WriteString(head)
		if !more {
			return b.String(), l.line, true
		}
	}
	if b.Len() > 0 {
		return b.String(), l.line, true
	}
	return "", l.line, false
}

func (l *LineReader) Err() error {
	return l.sc.Err()
}

// Continuation splits a physical line at its first backslash; more
// reports whether the next line continues this one.
func Continuation(line string) (head string, more bool) {
	i := strings.IndexByte(line, '\\')
	if i < 0 {
		return line, false
	}
	return line[:i] + " ", true
}
