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

import "fmt"

type Kind uint8

const (
	KindNumber Kind = iota + 1
	KindText
	KindList
	KindClosure
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindText:
		return "Text"
	case KindList:
		return "List"
	case KindClosure:
		return "Closure"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Value is one of Number, Text, List or *Closure. The set is closed: the
// marker method is unexported.
type Value interface {
	Kind() Kind
	value()
}

type Number float64
type Text string

// List is never modified after construction, so sub-slices may be shared.
type List []Value

type Param struct {
	Name    string
	Delayed bool
}

type Closure struct {
	Params []Param
	Body   []Token
	Env    *Env
}

func (Number) Kind() Kind   { return KindNumber }
func (Text) Kind() Kind     { return KindText }
func (List) Kind() Kind     { return KindList }
func (*Closure) Kind() Kind { return KindClosure }

func (Number) value()   {}
func (Text) value()     {}
func (List) value()     {}
func (*Closure) value() {}

func Bool(b bool) Number {
	if b {
		return 1
	}
	return 0
}

// Equal is structural over numbers, texts and lists; a closure is only
// equal to itself.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Number:
		y, ok := b.(Number)
		return ok && x == y
	case Text:
		y, ok := b.(Text)
		return ok && x == y
	case List:
		y, ok := b.(List)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Closure:
		y, ok := b.(*Closure)
		return ok && x == y
	default:
		panic(fmt.Sprintf("unknown value %T", a))
	}
}
