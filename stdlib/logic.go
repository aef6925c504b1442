/*
 * NS
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package stdlib

import (
	"ns/env"
	"ns/interp"
)

/*
LogicClass is the built-in class every and/or/xor/nand/nor/nxor
constructor returns an instance of (§6): a `connect` method plus `>`
wired through Op.Gt so `a > b` reads as "wire a's output into b".
*/
var LogicClass *interp.Class

func init() {
	LogicClass = &interp.Class{Name: "Logic", Props: map[string]*interp.Value{}, Traits: map[*interp.Trait]*interp.Class{}}
	LogicClass.Props["connect"] = native("connect", connectFunc)
	LogicClass.Traits[interp.TraitOpGt] = &interp.Class{
		Name: "Logic.Op.Gt",
		Props: map[string]*interp.Value{
			"gt": native("gt", gtFunc),
		},
	}
}

/*
newLogic builds a fresh Logic instance of the named gate kind, wiring
any args given at construction time in as initial inputs (so `and(a,
b)` reads naturally as "a gate fed by a and b").
*/
func newLogic(kind string, inputs []*interp.Value) *interp.Value {
	v := &interp.Value{
		Kind:  interp.KindInstance,
		Class: LogicClass,
		Props: map[string]*interp.Value{
			"kind":   interp.NewString(kind),
			"inputs": interp.NewArray(append([]*interp.Value{}, inputs...)),
		},
	}
	return v
}

/*
connectFunc implements `gate:connect(other)`: wires self as one of
other's inputs and returns other, so chained connects (`a:connect(b)
:connect(c)`) read left to right in signal-flow order.
*/
func connectFunc(p *interp.Provider, frame *env.Frame, args []*interp.Value) (*interp.Value, error) {
	self, other := args[0], args[1]
	wire(self, other)
	return other, nil
}

/*
gtFunc backs Logic's Op.Gt implementation: `a > b` wires a into b and
evaluates to b, so a chain `a > b > c` wires a into b and b into c left
to right, exactly like repeated `:connect` calls.
*/
func gtFunc(p *interp.Provider, frame *env.Frame, args []*interp.Value) (*interp.Value, error) {
	self, other := args[0], args[1]
	wire(self, other)
	return other, nil
}

func wire(source, sink *interp.Value) {
	inputs, ok := interp.Arr(sink.Props["inputs"])
	if !ok {
		inputs = &interp.ArrayData{}
		sink.Props["inputs"] = &interp.Value{Kind: interp.KindInstance, Class: interp.ArrayClass, Data: inputs}
	}
	inputs.Items = append(inputs.Items, source)
}
