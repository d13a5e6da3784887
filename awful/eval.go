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
/*
 * Awful - AWful FUnctional Language
 *
 * There is no syntax tree: every term is parsed while it is evaluated.
 * Keywords fetch their operands from the token stream themselves,
 * closures keep the tokens of their body and re-enter the evaluator on
 * application.
 */
package awful

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

type Interpreter struct {
	catalog  *Catalog
	settings Settings
	trace    *Tracefile
	logger   *slog.Logger
}

type Option func(*Interpreter)

func WithCatalog(c *Catalog) Option { return func(in *Interpreter) { in.catalog = c } }
func WithSettings(s Settings) Option { return func(in *Interpreter) { in.settings = s } }
func WithTrace(t *Tracefile) Option { return func(in *Interpreter) { in.trace = t } }
func WithLogger(l *slog.Logger) Option { return func(in *Interpreter) { in.logger = l } }

// New returns an interpreter over the default catalog and settings. The
// interpreter holds no per-evaluation state and may be shared.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		catalog:  DefaultCatalog(),
		settings: DefaultSettings(),
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(in)
	}
	return in
}

func (in *Interpreter) Catalog() *Catalog { return in.catalog }
func (in *Interpreter) Settings() Settings { return in.settings }
func (in *Interpreter) Logger() *slog.Logger { return in.logger }

type Result struct {
	Value    Value
	Rendered string
	Residual int    // number of tokens left after the top-level term
	Warning  string // set when Residual > 0
}

func (in *Interpreter) Evaluate(source string) (Result, error) {
	return in.EvaluateContext(context.Background(), source)
}

// EvaluateContext scans source and evaluates exactly one term in the empty
// environment. Tokens after that term do not fail the evaluation, they
// are reported in Result.Warning.
func (in *Interpreter) EvaluateContext(ctx context.Context, source string) (Result, error) {
	if err := in.settings.checkSourceSize(int64(len(source))); err != nil {
		return Result{}, err
	}
	toks, err := Scan(source, in.catalog.IsKeyword, Delimiters)
	if err != nil {
		return Result{}, err
	}
	ev := &evaluation{in: in, ctx: ctx}
	c := newCursor(toks, endPosition(source))
	v, err := ev.term(c, nil)
	if err != nil {
		return Result{}, err
	}
	result := Result{Value: v, Rendered: Render(v)}
	if !c.done() {
		next := c.toks[c.pos]
		result.Residual = c.remaining()
		result.Warning = fmt.Sprintf("more stuff on the expression after evaluation: %d token(s) ignored from %s", result.Residual, next.Pos)
		if in.settings.Warnings {
			in.logger.Warn("residual tokens", "count", result.Residual, "at", next.Pos.String(), "token", next.Raw)
		}
	}
	return result, nil
}

func endPosition(source string) Position {
	line := 1 + strings.Count(source, "\n")
	col := len(source) - strings.LastIndexByte(source, '\n')
	return Position{len(source), line, col}
}

// evaluation is the state of one top-level call
type evaluation struct {
	in    *Interpreter
	ctx   context.Context
	depth int
}

// term consumes exactly the tokens of one term
func (ev *evaluation) term(c *cursor, env *Env) (Value, error) {
	ev.depth++
	defer func() { ev.depth-- }()
	tok, err := c.pop()
	if err != nil {
		return nil, err
	}
	if max := ev.in.settings.MaxDepth; max > 0 && ev.depth > max {
		return nil, newError(LimitError, tok.Pos, "evaluation too nested: max %d allowed", max)
	}
	switch tok.Kind {
	case TokNumber:
		return Number(tok.Num), nil
	case TokText:
		return Text(tok.Text), nil
	case TokAtom:
		v, found, pending := env.Lookup(tok.Text)
		if !found {
			return nil, newError(UnboundVariable, tok.Pos, "%s", tok.Text)
		}
		if pending {
			return nil, newError(UnboundVariable, tok.Pos, "delayed parameter %s used before it was forced", tok.Text)
		}
		return v, nil
	case TokKeyword:
		return ev.keyword(tok, c, env)
	case TokDelimiter:
		switch tok.Text[0] {
		case '{':
			return ev.closure(tok, c, env)
		case '(':
			return ev.application(tok, c, env)
		}
	}
	return nil, newError(SyntaxError, tok.Pos, "unexpected %q", tok.Raw)
}

func (ev *evaluation) keyword(tok Token, c *cursor, env *Env) (Value, error) {
	def := ev.in.catalog.Get(tok.Text)
	if def == nil {
		return nil, newError(SyntaxError, tok.Pos, "unknown keyword %s", tok.Text)
	}
	ops := &Operands{ev: ev, c: c, env: env, at: tok}
	var v Value
	var err error
	if ev.in.trace != nil {
		ev.in.trace.Duration(def.Name, "keyword", func() {
			v, err = def.Fn(ops)
		})
	} else {
		v, err = def.Fn(ops)
	}
	if err != nil {
		return nil, err
	}
	if ops.n != def.Arity() {
		return nil, newError(ArityError, tok.Pos, "keyword %s fetched %d operands but declares %d", def.Name, ops.n, def.Arity())
	}
	return v, nil
}

// Operands hands the operands of a keyword to its implementation. Every
// call to Next evaluates the following term of the token stream.
type Operands struct {
	ev  *evaluation
	c   *cursor
	env *Env
	at  Token
	n   int
}

func (o *Operands) Next() (Value, error) {
	o.n++
	return o.ev.term(o.c, o.env)
}

func (o *Operands) Keyword() string {
	return o.at.Text
}

// TypeError reports operand i (1-based) having the wrong kind
func (o *Operands) TypeError(i int, want Kind, got Value) error {
	return newError(TypeError, o.at.Pos, "%s expects operand %d to be %s, found %s", o.at.Text, i, want, got.Kind())
}
