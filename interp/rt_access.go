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

// Access (`.`, `:`, `::`)
// =======================

type accessRuntime struct{ *baseRuntime }

func accessRuntimeInst(p *Provider, node parser.Node) parser.Runtime {
	return &accessRuntime{newBaseRuntime(p, node)}
}

func (rt *accessRuntime) Eval(frame parser.Frame, is map[string]interface{}, wantLvalue bool) (interface{}, error) {
	n := rt.node.(*parser.Access)
	fr := frame.(*env.Frame)

	recv, flow, err := rt.p.resolveAccessReceiver(fr, n.Recv, is, rt.node)
	if err != nil {
		return nil, err
	}
	if flow != nil {
		return flow, nil
	}

	if recv.Kind == KindInstance && recv.Class == ModuleClass {
		modFrame := recv.Data.(*env.Frame)
		v, ok := modFrame.Vars().Lookup(n.Prop)
		if !ok {
			return nil, rt.p.NewRuntimeError(util.ErrUnboundName, n.Prop, rt.node)
		}
		return v.(*Value), nil
	}

	if n.Kind() == parser.KindAccessDot {
		if recv.Props == nil {
			return nil, rt.p.NewRuntimeError(util.ErrRuntimeError, "unbound property: "+n.Prop, rt.node)
		}
		v, ok := recv.Props[n.Prop]
		if !ok {
			return nil, rt.p.NewRuntimeError(util.ErrRuntimeError, "unbound property: "+n.Prop, rt.node)
		}
		return v, nil
	}

	// AccessColon / AccessColonDouble: a class-level property.
	if recv.Class == nil {
		return nil, rt.p.NewRuntimeError(util.ErrRuntimeError, "value has no class properties", rt.node)
	}
	v, ok := recv.Class.Props[n.Prop]
	if !ok {
		return nil, rt.p.NewRuntimeError(util.ErrRuntimeError, "unbound class property: "+n.Prop, rt.node)
	}
	if n.Kind() == parser.KindAccessColon {
		if _, ok := Fn(v); ok {
			return bindMethod(v, recv), nil
		}
	}
	return v, nil
}

/*
resolveAccessReceiver evaluates recv, defaulting to the frame's bound
`self` when recv is nil (bare `.prop`), and transparently follows a Ref
to its target (§4.6: "Property access on a Ref transparently forwards
to the target").
*/
func (p *Provider) resolveAccessReceiver(frame *env.Frame, recv parser.Node, is map[string]interface{}, node parser.Node) (*Value, *Flow, error) {
	var v *Value
	if recv == nil {
		self, ok := frame.Vars().Lookup("self")
		if !ok {
			return nil, nil, p.NewRuntimeError(util.ErrUnboundName, "self", node)
		}
		v = self.(*Value)
	} else {
		val, flow, err := evalNode(p, recv, frame, is, false)
		if err != nil {
			return nil, nil, err
		}
		if flow != nil {
			return nil, flow, nil
		}
		v = val
	}
	for v.Kind == KindRef {
		target, _ := RefTarget(v)
		v = target
	}
	return v, nil, nil
}

// Call
// ====

type callRuntime struct{ *baseRuntime }

func callRuntimeInst(p *Provider, node parser.Node) parser.Runtime {
	return &callRuntime{newBaseRuntime(p, node)}
}

func (rt *callRuntime) Eval(frame parser.Frame, is map[string]interface{}, wantLvalue bool) (interface{}, error) {
	n := rt.node.(*parser.Call)
	fr := frame.(*env.Frame)

	callee, flow, err := evalNode(rt.p, n.Callee, fr, is, false)
	if err != nil {
		return nil, err
	}
	if flow != nil {
		return flow, nil
	}

	args := make([]*Value, 0, len(n.Args))
	for _, argNode := range n.Args {
		argVal, flow, err := evalNode(rt.p, argNode, fr, is, false)
		if err != nil {
			return nil, err
		}
		if flow != nil {
			return flow, nil
		}
		argVal, err = rt.p.copyValue(fr, argVal)
		if err != nil {
			return nil, err
		}
		args = append(args, argVal)
	}

	v, err := rt.p.callFunction(fr, callee, args, rt.node)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Index
// =====

type indexRuntime struct{ *baseRuntime }

func indexRuntimeInst(p *Provider, node parser.Node) parser.Runtime {
	return &indexRuntime{newBaseRuntime(p, node)}
}

func (rt *indexRuntime) Eval(frame parser.Frame, is map[string]interface{}, wantLvalue bool) (interface{}, error) {
	n := rt.node.(*parser.Index)
	fr := frame.(*env.Frame)

	if n.Sep == ":" {
		return nil, rt.p.NewRuntimeError(util.ErrNotSupported, "`:`-separated index expressions", rt.node)
	}
	if len(n.Args) != 1 {
		return nil, rt.p.NewRuntimeError(util.ErrNotSupported, "multi-argument index expressions", rt.node)
	}

	recv, flow, err := evalNode(rt.p, n.Recv, fr, is, false)
	if err != nil {
		return nil, err
	}
	if flow != nil {
		return flow, nil
	}
	for recv.Kind == KindRef {
		recv, _ = RefTarget(recv)
	}

	a, ok := Arr(recv)
	if !ok {
		return nil, rt.p.NewRuntimeError(util.ErrRuntimeError, "value is not indexable", rt.node)
	}

	idxVal, flow, err := evalNode(rt.p, n.Args[0], fr, is, false)
	if err != nil {
		return nil, err
	}
	if flow != nil {
		return flow, nil
	}
	f, ok := Num(idxVal)
	if !ok {
		return nil, rt.p.NewRuntimeError(util.ErrNotANumber, "array index must be a number", rt.node)
	}
	idx := int(f)
	if idx < 0 || idx >= len(a.Items) {
		return nil, rt.p.NewRuntimeError(util.ErrRuntimeError, "array index out of range", rt.node)
	}
	return a.Items[idx], nil
}

// Cast
// ====

type castRuntime struct{ *baseRuntime }

func castRuntimeInst(p *Provider, node parser.Node) parser.Runtime {
	return &castRuntime{newBaseRuntime(p, node)}
}

func (rt *castRuntime) Eval(frame parser.Frame, is map[string]interface{}, wantLvalue bool) (interface{}, error) {
	// No static type checking (§9): <> just passes the value through.
	n := rt.node.(*parser.Cast)
	v, flow, err := evalNode(rt.p, n.Value, frame.(*env.Frame), is, wantLvalue)
	if err != nil {
		return nil, err
	}
	if flow != nil {
		return flow, nil
	}
	return v, nil
}

// Generic
// =======

type genericRuntime struct{ *baseRuntime }

func genericRuntimeInst(p *Provider, node parser.Node) parser.Runtime {
	return &genericRuntime{newBaseRuntime(p, node)}
}

func (rt *genericRuntime) Eval(frame parser.Frame, is map[string]interface{}, wantLvalue bool) (interface{}, error) {
	// Type arguments are erased at runtime; only the base value matters.
	n := rt.node.(*parser.Generic)
	v, flow, err := evalNode(rt.p, n.Value, frame.(*env.Frame), is, wantLvalue)
	if err != nil {
		return nil, err
	}
	if flow != nil {
		return flow, nil
	}
	return v, nil
}
