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

import "math"

// numbers evaluates two operands and requires both to be numbers
func numbers(o *Operands) (float64, float64, error) {
	x, err := o.Next()
	if err != nil {
		return 0, 0, err
	}
	y, err := o.Next()
	if err != nil {
		return 0, 0, err
	}
	a, ok := x.(Number)
	if !ok {
		return 0, 0, o.TypeError(1, KindNumber, x)
	}
	b, ok := y.(Number)
	if !ok {
		return 0, 0, o.TypeError(2, KindNumber, y)
	}
	return float64(a), float64(b), nil
}

func arithmetic(name, desc string, op func(a, b float64) float64) Declaration {
	return Declaration{
		name, "Arithmetic", desc,
		[]DeclarationParameter{
			{"x", "Number", "first operand"},
			{"y", "Number", "second operand"},
		}, "Number",
		func(o *Operands) (Value, error) {
			a, b, err := numbers(o)
			if err != nil {
				return nil, err
			}
			return Number(op(a, b)), nil
		},
	}
}

func comparison(name, desc string, op func(a, b float64) bool) Declaration {
	return Declaration{
		name, "Comparison", desc,
		[]DeclarationParameter{
			{"x", "Number", "left side"},
			{"y", "Number", "right side"},
		}, "Number",
		func(o *Operands) (Value, error) {
			a, b, err := numbers(o)
			if err != nil {
				return nil, err
			}
			return Bool(op(a, b)), nil
		},
	}
}

func equality(name, desc string, want bool) Declaration {
	return Declaration{
		name, "Comparison", desc,
		[]DeclarationParameter{
			{"x", "any", "left side"},
			{"y", "any", "right side"},
		}, "Number",
		func(o *Operands) (Value, error) {
			x, err := o.Next()
			if err != nil {
				return nil, err
			}
			y, err := o.Next()
			if err != nil {
				return nil, err
			}
			return Bool(Equal(x, y) == want), nil
		},
	}
}

func aluDeclarations() []Declaration {
	return []Declaration{
		arithmetic("ADD", "adds two numbers", func(a, b float64) float64 { return a + b }),
		arithmetic("SUB", "subtracts y from x", func(a, b float64) float64 { return a - b }),
		arithmetic("MUL", "multiplies two numbers", func(a, b float64) float64 { return a * b }),
		arithmetic("DIV", "divides x by y (IEEE division, x/0 is infinite)", func(a, b float64) float64 { return a / b }),
		arithmetic("POW", "raises x to the power of y", math.Pow),
		arithmetic("MAX", "returns the larger of two numbers", math.Max),
		arithmetic("MIN", "returns the smaller of two numbers", math.Min),
		equality("EQ", "returns 1 if both values are structurally equal, else 0", true),
		equality("NE", "returns 1 if both values differ, else 0", false),
		comparison("LT", "returns 1 if x < y, else 0", func(a, b float64) bool { return a < b }),
		comparison("LE", "returns 1 if x <= y, else 0", func(a, b float64) bool { return a <= b }),
		comparison("GT", "returns 1 if x > y, else 0", func(a, b float64) bool { return a > b }),
		comparison("GE", "returns 1 if x >= y, else 0", func(a, b float64) bool { return a >= b }),
		Declaration{
			"COND", "Control", `COND c x y chooses x if c is not 0, else y.
All three operands are evaluated before the choice is made; to guard an
evaluation, choose between parameterless functions and apply the result:
((COND (EQ n 0) {: 1} {: DIV 1 n}))`,
			[]DeclarationParameter{
				{"condition", "Number", "selects x when it is not 0"},
				{"x", "any", "value for a non-zero condition"},
				{"y", "any", "value for a zero condition"},
			}, "any",
			func(o *Operands) (Value, error) {
				c, err := o.Next()
				if err != nil {
					return nil, err
				}
				x, err := o.Next()
				if err != nil {
					return nil, err
				}
				y, err := o.Next()
				if err != nil {
					return nil, err
				}
				n, ok := c.(Number)
				if !ok {
					return nil, o.TypeError(1, KindNumber, c)
				}
				if n != 0 {
					return x, nil
				}
				return y, nil
			},
		},
	}
}
