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
	"fmt"
	"strconv"
	"strings"
)

type TokenKind uint8

const (
	TokNumber TokenKind = iota
	TokText
	TokAtom
	TokKeyword
	TokDelimiter
)

func (k TokenKind) String() string {
	switch k {
	case TokNumber:
		return "number"
	case TokText:
		return "text"
	case TokAtom:
		return "atom"
	case TokKeyword:
		return "keyword"
	case TokDelimiter:
		return "delimiter"
	}
	return fmt.Sprintf("token(%d)", uint8(k))
}

// Delimiters is the delimiter set of the Awful grammar
const Delimiters = "(){}:,!"

const spaces = " \t\r\n"

type Position struct {
	Offset int
	Line   int
	Col    int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

type Token struct {
	Kind TokenKind
	Text string  // atom or keyword name, text content, delimiter character
	Num  float64 // only for TokNumber
	Raw  string  // lexeme as written in the source
	Pos  Position
}

func (t Token) String() string {
	return t.Raw
}

// isDelim reports whether t is the delimiter ch
func (t Token) isDelim(ch byte) bool {
	return t.Kind == TokDelimiter && t.Text[0] == ch
}

// Scan splits source into tokens. Runs of characters that are neither
// spaces nor delimiters are numbers if strconv accepts them, keywords if
// isKeyword accepts them and atoms otherwise.
func Scan(source string, isKeyword func(string) bool, delimiters string) ([]Token, error) {
	result := make([]Token, 0, len(source)/2)
	line, col := 1, 1
	pos := func(i int) Position { return Position{i, line, col} }
	advance := func(s string) {
		for _, ch := range s {
			if ch == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
	}

	i := 0
	for i < len(source) {
		ch := source[i]
		switch {
		case strings.IndexByte(spaces, ch) >= 0:
			advance(source[i : i+1])
			i++
		case strings.IndexByte(delimiters, ch) >= 0:
			result = append(result, Token{TokDelimiter, source[i : i+1], 0, source[i : i+1], pos(i)})
			advance(source[i : i+1])
			i++
		case ch == '"' || ch == '\'':
			end := strings.IndexByte(source[i+1:], ch)
			if end < 0 {
				return nil, newError(EndOfInput, pos(i), "unterminated text literal")
			}
			raw := source[i : i+end+2]
			result = append(result, Token{TokText, raw[1 : len(raw)-1], 0, raw, pos(i)})
			advance(raw)
			i += len(raw)
		default:
			j := i + 1
			for j < len(source) && strings.IndexByte(spaces, source[j]) < 0 && strings.IndexByte(delimiters, source[j]) < 0 {
				j++
			}
			run := source[i:j]
			tok := Token{TokAtom, run, 0, run, pos(i)}
			if f, err := strconv.ParseFloat(run, 64); err == nil || errors.Is(err, strconv.ErrRange) {
				tok.Kind = TokNumber
				tok.Num = f
			} else if isKeyword != nil && isKeyword(run) {
				tok.Kind = TokKeyword
			}
			result = append(result, tok)
			advance(run)
			i = j
		}
	}
	return result, nil
}
