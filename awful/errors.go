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
	"fmt"
)

type ErrorKind uint8

const (
	SyntaxError ErrorKind = iota + 1
	EndOfInput
	UnboundVariable
	TypeError
	ArityError
	LimitError
)

func (k ErrorKind) String() string {
	switch k {
	case SyntaxError:
		return "syntax error"
	case EndOfInput:
		return "unexpected end of text"
	case UnboundVariable:
		return "unbound variable"
	case TypeError:
		return "type error"
	case ArityError:
		return "arity error"
	case LimitError:
		return "limit exceeded"
	}
	return fmt.Sprintf("error %d", uint8(k))
}

// Error is the only error type produced by scanning and evaluation.
// Pos is the zero Position when no token was available.
type Error struct {
	Kind ErrorKind
	Pos  Position
	Msg  string
	Err  error
}

// sentinels for errors.Is
var (
	ErrSyntax     = &Error{Kind: SyntaxError}
	ErrEndOfInput = &Error{Kind: EndOfInput}
	ErrUnbound    = &Error{Kind: UnboundVariable}
	ErrType       = &Error{Kind: TypeError}
	ErrArity      = &Error{Kind: ArityError}
	ErrLimit      = &Error{Kind: LimitError}
)

func (e *Error) Error() string {
	s := e.Kind.String()
	if e.Pos.Line > 0 {
		s += " at " + e.Pos.String()
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind when the target carries no message
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Msg == "" && t.Err == nil {
		return t.Kind == e.Kind
	}
	return t == e
}

func newError(kind ErrorKind, pos Position, format string, a ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, a...)}
}
