/*
 * NS
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package stdlib installs NS's standard built-ins (§6): print, the
// boolean and null literals' names, the six logic-gate constructors,
// the `export` decorator marker and `require`.
package stdlib

import (
	"fmt"
	"os"

	"ns/env"
	"ns/interp"
	"ns/util"
)

func native(name string, fn interp.NativeFunc) *interp.Value {
	return interp.NewFunction(&interp.FuncData{Name: name, Native: fn})
}

/*
Install populates frame with every standard built-in (§6's "standard
built-ins" list), suitable for use as interp.Provider.InstallBuiltins.
The frame's Vars are left unlocked.
*/
func Install(frame *env.Frame) {
	frame.Vars().Declare("true", interp.NewBoolean(true))
	frame.Vars().Declare("false", interp.NewBoolean(false))
	frame.Vars().Declare("null", interp.Null())

	frame.Vars().Declare("print", native("print", printFunc))
	frame.Vars().Declare("export", native("export", exportFunc))
	frame.Vars().Declare("require", native("require", requireFunc))

	for _, kind := range []string{"and", "or", "xor", "nand", "nor", "nxor"} {
		kind := kind
		frame.Vars().Declare(kind, native(kind, func(p *interp.Provider, frame *env.Frame, args []*interp.Value) (*interp.Value, error) {
			return newLogic(kind, args), nil
		}))
	}
}

/*
printFunc implements `print`: every argument's display form (interp.
ToDisplayString), space-separated, one line to stdout. Returns Null.
*/
func printFunc(p *interp.Provider, frame *env.Frame, args []*interp.Value) (*interp.Value, error) {
	parts := make([]interface{}, len(args))
	for i, a := range args {
		parts[i] = interp.ToDisplayString(a)
	}
	fmt.Fprintln(os.Stdout, parts...)
	return interp.Null(), nil
}

/*
exportFunc backs the name `export` is bound to in Vars so referencing
it as a plain value (rather than `@export`ing a declaration) is
meaningful instead of unbound; `@export` itself is intercepted by name
before reaching here (interp/rt_decl.go's applyDecorators), since
rebinding into the root Frame needs direct Frame access a Value-to-
Value native function cannot express.
*/
func exportFunc(p *interp.Provider, frame *env.Frame, args []*interp.Value) (*interp.Value, error) {
	return nil, p.NewRuntimeError(util.ErrNotCallable, "`export` can only be used as a @decorator", nil)
}

/*
requireFunc implements `require(path)` (§6): loads path the same way
`import` does and returns its `component` export, logging at Info and
returning Null if the module defines none (§2.2).
*/
func requireFunc(p *interp.Provider, frame *env.Frame, args []*interp.Value) (*interp.Value, error) {
	if len(args) != 1 {
		return nil, p.NewRuntimeError(util.ErrWrongArgCount, "require(path) takes exactly one argument", nil)
	}
	path, ok := interp.Str(args[0])
	if !ok {
		return nil, p.NewRuntimeError(util.ErrNotCallable, "require(path) expects a String path", nil)
	}

	mod, err := p.RunModule(path, nil)
	if err != nil {
		return nil, err
	}
	modFrame := mod.Data.(*env.Frame)

	comp, ok := modFrame.Vars().Lookup("component")
	if !ok {
		p.Logger.LogInfo(fmt.Sprintf("required module %q has no `component` export", path))
		return interp.Null(), nil
	}
	return comp.(*interp.Value), nil
}
