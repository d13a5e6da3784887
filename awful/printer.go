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
	"math"
	"strconv"
	"strings"
)

// Render returns the canonical text of a value: numbers in decimal form,
// texts double quoted, lists as [a,b,c] and closures as {params: body}.
func Render(v Value) string {
	var b strings.Builder
	render(&b, v)
	return b.String()
}

func render(b *strings.Builder, v Value) {
	switch x := v.(type) {
	case Number:
		b.WriteString(FormatNumber(float64(x)))
	case Text:
		b.WriteByte('"')
		b.WriteString(string(x))
		b.WriteByte('"')
	case List:
		b.WriteByte('[')
		for i, item := range x {
			if i > 0 {
				b.WriteByte(',')
			}
			render(b, item)
		}
		b.WriteByte(']')
	case *Closure:
		b.WriteByte('{')
		for i, p := range x.Params {
			if i > 0 {
				b.WriteByte(' ')
			}
			if p.Delayed {
				b.WriteByte('!')
			}
			b.WriteString(p.Name)
		}
		b.WriteString(": ")
		b.WriteString(Source(x.Body))
		b.WriteByte('}')
	default:
		panic(fmt.Sprintf("unknown value %T", v))
	}
}

// FormatNumber prints the shortest decimal that reads back to the same
// float64; very large and very small magnitudes use exponent form.
func FormatNumber(f float64) string {
	a := math.Abs(f)
	if a != 0 && (a < 1e-6 || a >= 1e21) && !math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Source joins the lexemes of a token span
func Source(toks []Token) string {
	l := make([]string, len(toks))
	for i, t := range toks {
		l[i] = t.Raw
	}
	return strings.Join(l, " ")
}
