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

func listOperand(o *Operands, i int) (List, error) {
	v, err := o.Next()
	if err != nil {
		return nil, err
	}
	l, ok := v.(List)
	if !ok {
		return nil, o.TypeError(i, KindList, v)
	}
	return l, nil
}

func listDeclarations() []Declaration {
	return []Declaration{
		{
			"NIL", "Lists", "returns the empty list",
			[]DeclarationParameter{}, "List",
			func(o *Operands) (Value, error) {
				return List{}, nil
			},
		},
		{
			"ISNIL", "Lists", "returns 1 if the value is the empty list, else 0",
			[]DeclarationParameter{
				{"value", "any", "value to examine"},
			}, "Number",
			func(o *Operands) (Value, error) {
				v, err := o.Next()
				if err != nil {
					return nil, err
				}
				l, ok := v.(List)
				return Bool(ok && len(l) == 0), nil
			},
		},
		{
			"PUSH", "Lists", "returns the list with the value prepended",
			[]DeclarationParameter{
				{"value", "any", "new first element"},
				{"list", "List", "list to extend"},
			}, "List",
			func(o *Operands) (Value, error) {
				x, err := o.Next()
				if err != nil {
					return nil, err
				}
				l, err := listOperand(o, 2)
				if err != nil {
					return nil, err
				}
				result := make(List, 0, len(l)+1)
				result = append(result, x)
				return append(result, l...), nil
			},
		},
		{
			"TOS", "Lists", "returns the first element of a list, or the empty list if the list is empty",
			[]DeclarationParameter{
				{"list", "List", "list to examine"},
			}, "any",
			func(o *Operands) (Value, error) {
				l, err := listOperand(o, 1)
				if err != nil {
					return nil, err
				}
				if len(l) == 0 {
					return List{}, nil
				}
				return l[0], nil
			},
		},
		{
			"BOS", "Lists", "returns the list without its first element; the empty list stays empty",
			[]DeclarationParameter{
				{"list", "List", "list to shorten"},
			}, "List",
			func(o *Operands) (Value, error) {
				l, err := listOperand(o, 1)
				if err != nil {
					return nil, err
				}
				if len(l) == 0 {
					return List{}, nil
				}
				return l[1:], nil
			},
		},
	}
}
