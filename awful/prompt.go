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
	"io"
	"fmt"
	"errors"
	"context"
	"runtime/debug"
	"github.com/chzyer/readline"
)

const newprompt  = "\033[32m>\033[0m "
const contprompt = "\033[32m.\033[0m "
const resultprompt = "\033[31m=\033[0m "

// LineSource is the part of *readline.Instance the prompt loop needs
type LineSource interface {
	Readline() (string, error)
	SetPrompt(string)
}

// Repl reads lines from the terminal until "bye", EOF or a ^C on an empty line
func Repl(ctx context.Context, r *Runner) error {
	l, err := readline.NewEx(&readline.Config {
		Prompt: newprompt,
		HistoryFile: r.Interp.Settings().HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt: "bye",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer l.Close()
	l.CaptureExitSignal()
	r.Prefix = resultprompt
	return Prompt(ctx, l, r)
}

// Prompt runs the read-eval-print loop over any line source. A line that
// ends in a backslash or stops inside an unfinished term is continued on
// the next line.
func Prompt(ctx context.Context, l LineSource, r *Runner) error {
	oldline := ""
	reset := func() {
		oldline = ""
		l.SetPrompt(newprompt)
	}
	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			if oldline == "" && len(line) == 0 {
				return nil
			}
			reset()
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return nil
		}
		head, more := Continuation(line)
		if more {
			oldline += head
			l.SetPrompt(contprompt)
			continue
		}
		line = oldline + line
		if oldline == "" && line == "" {
			continue
		}

		stop := false
		// anti-panic func
		func () {
			defer func () {
				if p := recover(); p != nil {
					fmt.Fprintln(r.Out, "panic:", p, string(debug.Stack()))
					reset()
				}
			}()
			err := r.Exec(ctx, line)
			switch {
			case errors.Is(err, ErrBye):
				stop = true
			case errors.Is(err, ErrEndOfInput):
				// keep oldline
				oldline = line + " "
				l.SetPrompt(contprompt)
			case err != nil:
				fmt.Fprintln(r.Out, "Error:", err)
				reset()
			default:
				reset()
			}
		}()
		if stop {
			return nil
		}
	}
}
