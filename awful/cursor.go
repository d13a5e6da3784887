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

/* the cursor never copies tokens: closure bodies and delayed actual
parameters are sub-slices of the token array of the top-level call */

type cursor struct {
	toks []Token
	pos  int
	end  Position // reported when the tokens run out
}

func newCursor(toks []Token, end Position) *cursor {
	return &cursor{toks: toks, end: end}
}

func (c *cursor) done() bool {
	return c.pos >= len(c.toks)
}

func (c *cursor) remaining() int {
	return len(c.toks) - c.pos
}

func (c *cursor) peek() (Token, error) {
	if c.done() {
		return Token{}, newError(EndOfInput, c.end, "")
	}
	return c.toks[c.pos], nil
}

func (c *cursor) pop() (Token, error) {
	tok, err := c.peek()
	if err != nil {
		return tok, err
	}
	c.pos++
	return tok, nil
}

func (c *cursor) expect(kind TokenKind) (Token, error) {
	tok, err := c.pop()
	if err != nil {
		return tok, err
	}
	if tok.Kind != kind {
		return tok, newError(SyntaxError, tok.Pos, "%s expected, found %q", kind, tok.Raw)
	}
	return tok, nil
}

func (c *cursor) expectDelim(ch byte) (Token, error) {
	tok, err := c.pop()
	if err != nil {
		return tok, err
	}
	if !tok.isDelim(ch) {
		return tok, newError(SyntaxError, tok.Pos, "'%c' expected, found %q", ch, tok.Raw)
	}
	return tok, nil
}

// span returns the tokens consumed since index from
func (c *cursor) span(from int) []Token {
	return c.toks[from:c.pos:c.pos]
}

// sub opens a cursor over a stored token span; exhaustion is reported at
// the position following the span
func (c *cursor) sub(toks []Token) *cursor {
	end := c.end
	if len(toks) > 0 {
		last := toks[len(toks)-1]
		end = Position{last.Pos.Offset + len(last.Raw), last.Pos.Line, last.Pos.Col + len(last.Raw)}
	}
	return newCursor(toks, end)
}
