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
 Environments
*/

type binding struct {
	name  string
	value Value   // nil while a delayed parameter is pending
	raw   []Token // unevaluated actual parameter of a delayed formal
}

// Frame holds the bindings of one application. apply fills in delayed
// parameters while it builds the frame; afterwards it is never modified.
type Frame struct {
	bindings []binding
}

func (f *Frame) find(name string) (binding, bool) {
	for _, b := range f.bindings {
		if b.name == name {
			return b, true
		}
	}
	return binding{}, false
}

// Env is a persistent chain of frames, innermost first. The nil *Env is
// the empty environment.
type Env struct {
	frame *Frame
	outer *Env
}

// Push returns a new environment with f in front; e is shared, not copied.
func (e *Env) Push(f *Frame) *Env {
	return &Env{frame: f, outer: e}
}

// Lookup returns the innermost binding of name. pending is true when the
// name belongs to a delayed parameter that has not been forced yet.
func (e *Env) Lookup(name string) (v Value, found bool, pending bool) {
	for ; e != nil; e = e.outer {
		if b, ok := e.frame.find(name); ok {
			return b.value, true, b.value == nil
		}
	}
	return nil, false, false
}
