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

/*
 Closures and application

   {x !y: body}     closure; y is bound after all actual parameters are paired
   (f e1, e2)       application of the closure f
   (KEYWORD e1 e2)  keyword call in parentheses
*/

// closure parses the rest of a closure literal after its '{'
func (ev *evaluation) closure(open Token, c *cursor, env *Env) (Value, error) {
	var params []Param
	for {
		tok, err := c.peek()
		if err != nil {
			return nil, err
		}
		if tok.isDelim(':') {
			c.pop()
			break
		}
		delayed := false
		if tok.isDelim('!') {
			c.pop()
			delayed = true
		}
		name, err := c.expect(TokAtom)
		if err != nil {
			if e, ok := err.(*Error); ok && e.Kind == SyntaxError {
				e.Msg = "atom expected in function parameter list, found " + name.Raw
			}
			return nil, err
		}
		for _, p := range params {
			if p.Name == name.Text {
				return nil, newError(SyntaxError, name.Pos, "parameter %s declared twice", name.Text)
			}
		}
		params = append(params, Param{name.Text, delayed})
	}

	// any token up to the matching '}' belongs to the body
	start := c.pos
	nesting := 0
	for {
		tok, err := c.peek()
		if err != nil {
			return nil, newError(SyntaxError, open.Pos, "'{' without matching '}'")
		}
		if tok.isDelim('}') {
			if nesting == 0 {
				break
			}
			nesting--
		} else if tok.isDelim('{') {
			nesting++
		}
		c.pop()
	}
	body := c.span(start)
	c.pop() // '}'
	return &Closure{Params: params, Body: body, Env: env}, nil
}

// application parses and evaluates the rest of "(f e1, ..., en)" including
// the closing ')'
func (ev *evaluation) application(open Token, c *cursor, env *Env) (Value, error) {
	tok, err := c.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == TokKeyword {
		c.pop()
		v, err := ev.keyword(tok, c, env)
		if err != nil {
			return nil, err
		}
		if _, err := c.expectDelim(')'); err != nil {
			return nil, err
		}
		return v, nil
	}

	fv, err := ev.term(c, env)
	if err != nil {
		return nil, err
	}
	f, ok := fv.(*Closure)
	if !ok {
		return nil, newError(TypeError, tok.Pos, "not a function: %s", Render(fv))
	}
	if ev.ctx != nil {
		if err := ev.ctx.Err(); err != nil {
			return nil, &Error{Kind: LimitError, Pos: open.Pos, Msg: "evaluation aborted", Err: err}
		}
	}
	if ev.in.trace != nil {
		var v Value
		ev.in.trace.Duration("apply "+open.Pos.String(), "closure", func() {
			v, err = ev.apply(f, open, c, env)
		})
		return v, err
	}
	return ev.apply(f, open, c, env)
}

// apply pairs the actual parameters read from c with the formals of f,
// forces the delayed ones and evaluates the body
func (ev *evaluation) apply(f *Closure, open Token, c *cursor, env *Env) (Value, error) {
	bindings := make([]binding, len(f.Params))
	if len(f.Params) == 0 {
		tok, err := c.pop()
		if err != nil {
			return nil, err
		}
		if !tok.isDelim(')') {
			return nil, newError(ArityError, tok.Pos, "function takes no parameters")
		}
	}
	for i, p := range f.Params {
		tok, err := c.peek()
		if err != nil {
			return nil, err
		}
		if tok.isDelim(')') {
			return nil, newError(ArityError, tok.Pos, "too few actual parameters: %d expected, %d given", len(f.Params), i)
		}
		bindings[i].name = p.Name
		if p.Delayed {
			if bindings[i].raw, err = ev.actualParameter(c); err != nil {
				return nil, err
			}
		} else {
			// evaluated right away in the environment of the caller
			if bindings[i].value, err = ev.term(c, env); err != nil {
				return nil, err
			}
		}
		sep, err := c.pop()
		if err != nil {
			return nil, err
		}
		switch {
		case sep.isDelim(')'):
			if i+1 != len(f.Params) {
				return nil, newError(ArityError, sep.Pos, "too few actual parameters: %d expected, %d given", len(f.Params), i+1)
			}
		case sep.isDelim(','):
			if i+1 == len(f.Params) {
				return nil, newError(ArityError, sep.Pos, "too many actual parameters: %d expected", len(f.Params))
			}
		default:
			return nil, newError(SyntaxError, sep.Pos, "',' or ')' expected in actual parameter list, found %q", sep.Raw)
		}
	}

	// delayed parameters see the closure's scope plus the bindings made so
	// far; closures created while forcing share the frame and see the
	// bindings forced after them
	frame := &Frame{bindings: bindings}
	scope := f.Env.Push(frame)
	for i, p := range f.Params {
		if !p.Delayed {
			continue
		}
		sub := c.sub(bindings[i].raw)
		v, err := ev.term(sub, scope)
		if err != nil {
			return nil, incomplete(err, "incomplete actual parameter "+p.Name)
		}
		if !sub.done() {
			return nil, newError(SyntaxError, sub.toks[sub.pos].Pos, "extra tokens in actual parameter %s", p.Name)
		}
		frame.bindings[i] = binding{name: p.Name, value: v}
	}

	body := c.sub(f.Body)
	if len(f.Body) == 0 {
		body.end = open.Pos
	}
	v, err := ev.term(body, scope)
	if err != nil {
		return nil, incomplete(err, "incomplete function body")
	}
	if !body.done() {
		return nil, newError(SyntaxError, body.toks[body.pos].Pos, "extra tokens in function body")
	}
	return v, nil
}

// actualParameter reads the tokens up to the next ',' or ')' outside of any
// parentheses or braces without evaluating them
func (ev *evaluation) actualParameter(c *cursor) ([]Token, error) {
	start := c.pos
	parens, braces := 0, 0
	for {
		tok, err := c.peek()
		if err != nil {
			return nil, err
		}
		if parens == 0 && braces == 0 && (tok.isDelim(',') || tok.isDelim(')')) {
			if c.pos == start {
				return nil, newError(SyntaxError, tok.Pos, "empty actual parameter")
			}
			return c.span(start), nil
		}
		switch {
		case tok.isDelim('('):
			parens++
		case tok.isDelim(')'):
			parens--
		case tok.isDelim('{'):
			braces++
		case tok.isDelim('}'):
			braces--
			if braces < 0 {
				return nil, newError(SyntaxError, tok.Pos, "unmatching braces in actual parameter")
			}
		}
		c.pop()
	}
}

// incomplete turns running out of a stored span into a syntax error; only
// the end of the source text itself means more input may follow
func incomplete(err error, msg string) error {
	if e, ok := err.(*Error); ok && e.Kind == EndOfInput {
		return &Error{Kind: SyntaxError, Pos: e.Pos, Msg: msg}
	}
	return err
}
