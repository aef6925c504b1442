/*
 * NS
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package interp

import (
	"ns/env"
	"ns/parser"
	"ns/util"
)

// Let
// ===

type letRuntime struct{ *baseRuntime }

func letRuntimeInst(p *Provider, node parser.Node) parser.Runtime {
	return &letRuntime{newBaseRuntime(p, node)}
}

func (rt *letRuntime) Eval(frame parser.Frame, is map[string]interface{}, wantLvalue bool) (interface{}, error) {
	n := rt.node.(*parser.Let)
	fr := frame.(*env.Frame)

	v := Null()
	if n.Init != nil {
		val, flow, err := evalNode(rt.p, n.Init, fr, is, false)
		if err != nil {
			return nil, err
		}
		if flow != nil {
			return flow, nil
		}
		v, err = rt.p.copyValue(fr, val)
		if err != nil {
			return nil, err
		}
	}

	v, err := rt.p.applyDecorators(fr, n.Decorators, n.Name, v, rt.node)
	if err != nil {
		return nil, err
	}

	if err := fr.Vars().Declare(n.Name, v); err != nil {
		return nil, rt.p.NewRuntimeError(util.ErrInvalidAssignment, err.Error(), rt.node)
	}
	return v, nil
}

// Function
// ========

type functionRuntime struct{ *baseRuntime }

func functionRuntimeInst(p *Provider, node parser.Node) parser.Runtime {
	return &functionRuntime{newBaseRuntime(p, node)}
}

func (rt *functionRuntime) Eval(frame parser.Frame, is map[string]interface{}, wantLvalue bool) (interface{}, error) {
	n := rt.node.(*parser.Function)
	fr := frame.(*env.Frame)

	params := make([]Param, len(n.Params))
	for i, fp := range n.Params {
		params[i] = Param{Name: fp.Name, Default: fp.Default}
	}

	fd := &FuncData{Name: n.Name, Params: params, Body: n.Body, Closure: fr}
	v := NewFunction(fd)

	v, err := rt.p.applyDecorators(fr, n.Decorators, n.Name, v, rt.node)
	if err != nil {
		return nil, err
	}

	if n.Name != "" {
		if err := fr.Vars().Declare(n.Name, v); err != nil {
			return nil, rt.p.NewRuntimeError(util.ErrInvalidAssignment, err.Error(), rt.node)
		}
	}
	return v, nil
}

// Struct
// ======

type structRuntime struct{ *baseRuntime }

func structRuntimeInst(p *Provider, node parser.Node) parser.Runtime {
	return &structRuntime{newBaseRuntime(p, node)}
}

func (rt *structRuntime) Eval(frame parser.Frame, is map[string]interface{}, wantLvalue bool) (interface{}, error) {
	n := rt.node.(*parser.Struct)
	fr := frame.(*env.Frame)

	c := &Class{Name: n.Name, Props: map[string]*Value{}, Traits: map[*Trait]*Class{}}
	if n.Body != nil {
		for _, stmt := range n.Body.Stmts {
			prop, ok := stmt.(*parser.StructProp)
			if !ok {
				continue
			}
			c.Props[prop.Name] = Null()
		}
	}

	v := ClassValue(c)
	if n.Name != "" {
		if err := fr.Vars().Declare(n.Name, v); err != nil {
			return nil, rt.p.NewRuntimeError(util.ErrInvalidAssignment, err.Error(), rt.node)
		}
	}
	return v, nil
}

// Enum
// ====

type enumRuntime struct{ *baseRuntime }

func enumRuntimeInst(p *Provider, node parser.Node) parser.Runtime {
	return &enumRuntime{newBaseRuntime(p, node)}
}

func (rt *enumRuntime) Eval(frame parser.Frame, is map[string]interface{}, wantLvalue bool) (interface{}, error) {
	n := rt.node.(*parser.Enum)
	fr := frame.(*env.Frame)

	c := &Class{Name: n.Name, Props: map[string]*Value{}, Traits: map[*Trait]*Class{}}
	for _, member := range n.Members {
		memberClass := &Class{Name: n.Name + "." + member.Name}
		switch member.Form {
		case parser.EnumMemberUnit:
			c.Props[member.Name] = &Value{Kind: KindInstance, Class: memberClass}
		case parser.EnumMemberTuple:
			mc := memberClass
			c.Props[member.Name] = nativeMethod(member.Name, func(p *Provider, frame *env.Frame, args []*Value) (*Value, error) {
				return &Value{Kind: KindInstance, Class: mc, Data: &ArrayData{Items: args}}, nil
			})
		case parser.EnumMemberStruct:
			mc := memberClass
			fields := member.Fields
			c.Props[member.Name] = nativeMethod(member.Name, func(p *Provider, frame *env.Frame, args []*Value) (*Value, error) {
				props := map[string]*Value{}
				for i, f := range fields {
					if i < len(args) {
						props[f.Name] = args[i]
					} else {
						props[f.Name] = Null()
					}
				}
				return &Value{Kind: KindInstance, Class: mc, Props: props}, nil
			})
		}
	}

	v := ClassValue(c)
	if n.Name != "" {
		if err := fr.Vars().Declare(n.Name, v); err != nil {
			return nil, rt.p.NewRuntimeError(util.ErrInvalidAssignment, err.Error(), rt.node)
		}
	}
	return v, nil
}

// Import
// ======

type importRuntime struct{ *baseRuntime }

func importRuntimeInst(p *Provider, node parser.Node) parser.Runtime {
	return &importRuntime{newBaseRuntime(p, node)}
}

func (rt *importRuntime) Eval(frame parser.Frame, is map[string]interface{}, wantLvalue bool) (interface{}, error) {
	n := rt.node.(*parser.Import)
	fr := frame.(*env.Frame)

	for _, name := range n.Names {
		mod, err := rt.p.RunModule(name, rt.node)
		if err != nil {
			return nil, err
		}
		if err := fr.Vars().Declare(name, mod); err != nil {
			return nil, rt.p.NewRuntimeError(util.ErrInvalidAssignment, err.Error(), rt.node)
		}
	}
	return Null(), nil
}

/*
RunModule resolves name through the Provider's ImportLocator, parses
and evaluates it in an isolated root Frame (§5: "module imports
evaluate child programs in isolated root Frames"), and wraps that
frame as a Module value. Exported so stdlib's `require` can drive the
same module-loading path `import` uses.
*/
func (p *Provider) RunModule(name string, node parser.Node) (*Value, error) {
	src, err := p.ImportLocator.Resolve(name)
	if err != nil {
		return nil, p.NewRuntimeError(util.ErrImportFailed, err.Error(), node)
	}

	root, err := parser.Parse(parser.NewSource(name, src))
	if err != nil {
		return nil, p.NewRuntimeError(util.ErrImportFailed, err.Error(), node)
	}
	if err := p.Runtime(root).Validate(); err != nil {
		return nil, err
	}

	modFrame := env.NewFrame(name)
	if p.InstallBuiltins != nil {
		p.InstallBuiltins(modFrame)
	}

	_, flow, err := evalNode(p, root, modFrame, nil, false)
	if err != nil {
		return nil, err
	}
	if flow != nil {
		return nil, p.NewRuntimeError(util.ErrStrayControlFlow, flow.String(), node)
	}

	return &Value{Kind: KindInstance, Class: ModuleClass, Data: modFrame}, nil
}

// Constructor
// ===========

type constructorRuntime struct{ *baseRuntime }

func constructorRuntimeInst(p *Provider, node parser.Node) parser.Runtime {
	return &constructorRuntime{newBaseRuntime(p, node)}
}

func (rt *constructorRuntime) Eval(frame parser.Frame, is map[string]interface{}, wantLvalue bool) (interface{}, error) {
	n := rt.node.(*parser.Constructor)
	fr := frame.(*env.Frame)

	structVal, flow, err := evalNode(rt.p, n.StructName, fr, is, false)
	if err != nil {
		return nil, err
	}
	if flow != nil {
		return flow, nil
	}
	if structVal.Kind != KindClass {
		return nil, rt.p.NewRuntimeError(util.ErrRuntimeError, "constructor target is not a class", rt.node)
	}

	props := map[string]*Value{}
	for k, def := range structVal.Class.Props {
		props[k] = def
	}
	for _, field := range n.Fields {
		fieldName, ok := field.Left.(*parser.Name)
		if !ok {
			return nil, rt.p.NewRuntimeError(util.ErrRuntimeError, "constructor field is not a name", rt.node)
		}
		val, flow, err := evalNode(rt.p, field.Right, fr, is, false)
		if err != nil {
			return nil, err
		}
		if flow != nil {
			return flow, nil
		}
		val, err = rt.p.copyValue(fr, val)
		if err != nil {
			return nil, err
		}
		props[fieldName.Ident] = val
	}

	return &Value{Kind: KindInstance, Class: structVal.Class, Props: props}, nil
}

// RefExpression
// =============

type refExpressionRuntime struct{ *baseRuntime }

func refExpressionRuntimeInst(p *Provider, node parser.Node) parser.Runtime {
	return &refExpressionRuntime{newBaseRuntime(p, node)}
}

func (rt *refExpressionRuntime) Eval(frame parser.Frame, is map[string]interface{}, wantLvalue bool) (interface{}, error) {
	n := rt.node.(*parser.RefExpression)
	fr := frame.(*env.Frame)

	var head *Value
	if n.Ref {
		ref, flow, err := rt.p.evalLvalueRef(fr, n.Head, is)
		if err != nil {
			return nil, err
		}
		if flow != nil {
			return flow, nil
		}
		head = ref
	} else {
		v, flow, err := evalNode(rt.p, n.Head, fr, is, false)
		if err != nil {
			return nil, err
		}
		if flow != nil {
			return flow, nil
		}
		head = v
	}

	inner := fr.Child(fr.Name(), map[string]interface{}{n.Name: head, "self": head})
	bodyVal, flow, err := evalNode(rt.p, n.Body, inner, is, false)
	if err != nil {
		return nil, err
	}
	if flow != nil {
		return flow, nil
	}

	if n.TakeResult {
		return bodyVal, nil
	}
	return head, nil
}

// --- decorators ---------------------------------------------------------

/*
applyDecorators runs decs in source order as post-hooks over value
(§4.7): a plain Function decorator value is called with (value,
decorator-args...) and its result replaces value; `export` is
special-cased since re-binding into the root Frame needs direct frame
access a Value-to-Value transform cannot express. Pre-hooks are not
modeled - nothing in this language's surface needs to observe or
reject a declaration before it is evaluated.
*/
func (p *Provider) applyDecorators(frame *env.Frame, decs []*parser.Decorator, name string, value *Value, node parser.Node) (*Value, error) {
	for _, dec := range decs {
		if dec.Name == "export" {
			if name == "" {
				return nil, p.NewRuntimeError(util.ErrRuntimeError, "@export requires a named declaration", node)
			}
			frame.Root().Vars().Declare(name, value)
			continue
		}

		decVal, ok := frame.Vars().Lookup(dec.Name)
		if !ok {
			return nil, p.NewRuntimeError(util.ErrUnboundName, dec.Name, node)
		}
		dv := decVal.(*Value)

		args := make([]*Value, 0, len(dec.Args)+1)
		args = append(args, value)
		for _, argNode := range dec.Args {
			av, flow, err := evalNode(p, argNode, frame, nil, false)
			if err != nil {
				return nil, err
			}
			if flow != nil {
				return nil, p.NewRuntimeError(util.ErrStrayControlFlow, flow.String(), node)
			}
			args = append(args, av)
		}

		replaced, err := p.callFunction(frame, dv, args, node)
		if err != nil {
			return nil, err
		}
		value = replaced
	}
	return value, nil
}
