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
	"strconv"

	"ns/env"
	"ns/parser"
	"ns/util"
)

// Number, String and Name literals
// =================================

type numberRuntime struct{ *baseRuntime }

func numberRuntimeInst(p *Provider, node parser.Node) parser.Runtime {
	return &numberRuntime{newBaseRuntime(p, node)}
}

func (rt *numberRuntime) Eval(frame parser.Frame, is map[string]interface{}, wantLvalue bool) (interface{}, error) {
	n := rt.node.(*parser.Number)
	f, err := strconv.ParseFloat(n.Text, 64)
	if err != nil {
		return nil, rt.p.NewRuntimeError(util.ErrRuntimeError, "malformed number literal: "+n.Text, rt.node)
	}
	return NewNumber(f), nil
}

type stringRuntime struct{ *baseRuntime }

func stringRuntimeInst(p *Provider, node parser.Node) parser.Runtime {
	return &stringRuntime{newBaseRuntime(p, node)}
}

func (rt *stringRuntime) Eval(frame parser.Frame, is map[string]interface{}, wantLvalue bool) (interface{}, error) {
	return NewString(rt.node.(*parser.String).Value), nil
}

type nameRuntime struct{ *baseRuntime }

func nameRuntimeInst(p *Provider, node parser.Node) parser.Runtime {
	return &nameRuntime{newBaseRuntime(p, node)}
}

func (rt *nameRuntime) Eval(frame parser.Frame, is map[string]interface{}, wantLvalue bool) (interface{}, error) {
	n := rt.node.(*parser.Name)
	fr := frame.(*env.Frame)
	v, ok := fr.Vars().Lookup(n.Ident)
	if !ok {
		return nil, rt.p.NewRuntimeError(util.ErrUnboundName, n.Ident, rt.node)
	}
	return v.(*Value), nil
}

// Array literal
// =============

type arrayRuntime struct{ *baseRuntime }

func arrayRuntimeInst(p *Provider, node parser.Node) parser.Runtime {
	return &arrayRuntime{newBaseRuntime(p, node)}
}

func (rt *arrayRuntime) Eval(frame parser.Frame, is map[string]interface{}, wantLvalue bool) (interface{}, error) {
	n := rt.node.(*parser.Array)
	fr := frame.(*env.Frame)
	items := make([]*Value, 0, len(n.Items))
	for _, item := range n.Items {
		v, flow, err := evalNode(rt.p, item, fr, is, false)
		if err != nil {
			return nil, err
		}
		if flow != nil {
			return flow, nil
		}
		items = append(items, v)
	}
	return NewArray(items), nil
}

// Expression wrapper
// ==================

type expressionRuntime struct{ *baseRuntime }

func expressionRuntimeInst(p *Provider, node parser.Node) parser.Runtime {
	return &expressionRuntime{newBaseRuntime(p, node)}
}

func (rt *expressionRuntime) Eval(frame parser.Frame, is map[string]interface{}, wantLvalue bool) (interface{}, error) {
	n := rt.node.(*parser.Expression)
	if n.Result == nil {
		return Null(), nil
	}
	fr := frame.(*env.Frame)
	v, flow, err := evalNode(rt.p, n.Result, fr, is, wantLvalue)
	if err != nil {
		return nil, err
	}
	if flow != nil {
		return flow, nil
	}
	return v, nil
}
