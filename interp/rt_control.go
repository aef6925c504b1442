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

// Block
// =====

type blockRuntime struct{ *baseRuntime }

func blockRuntimeInst(p *Provider, node parser.Node) parser.Runtime {
	return &blockRuntime{newBaseRuntime(p, node)}
}

func (rt *blockRuntime) Eval(frame parser.Frame, is map[string]interface{}, wantLvalue bool) (interface{}, error) {
	n := rt.node.(*parser.Block)
	inner := frame.(*env.Frame).Nest()

	result := Null()
	for _, stmt := range n.Stmts {
		v, flow, err := evalNode(rt.p, stmt, inner, is, false)
		if err != nil {
			return nil, err
		}
		if flow != nil {
			return flow, nil
		}
		result = v
	}
	return result, nil
}

// If
// ==

type ifRuntime struct{ *baseRuntime }

func ifRuntimeInst(p *Provider, node parser.Node) parser.Runtime {
	return &ifRuntime{newBaseRuntime(p, node)}
}

func (rt *ifRuntime) Eval(frame parser.Frame, is map[string]interface{}, wantLvalue bool) (interface{}, error) {
	n := rt.node.(*parser.If)
	fr := frame.(*env.Frame)

	cond, flow, err := evalNode(rt.p, n.Cond, fr, is, false)
	if err != nil {
		return nil, err
	}
	if flow != nil {
		return flow, nil
	}

	if Truthy(cond) {
		return evalBranch(rt.p, n.Then, fr, is)
	}
	if n.Else != nil {
		return evalBranch(rt.p, n.Else, fr, is)
	}
	return Null(), nil
}

func evalBranch(p *Provider, branch parser.Node, frame *env.Frame, is map[string]interface{}) (interface{}, error) {
	v, flow, err := evalNode(p, branch, frame, is, false)
	if err != nil {
		return nil, err
	}
	if flow != nil {
		return flow, nil
	}
	return v, nil
}

// While
// =====

type whileRuntime struct{ *baseRuntime }

func whileRuntimeInst(p *Provider, node parser.Node) parser.Runtime {
	return &whileRuntime{newBaseRuntime(p, node)}
}

func (rt *whileRuntime) Eval(frame parser.Frame, is map[string]interface{}, wantLvalue bool) (interface{}, error) {
	n := rt.node.(*parser.While)
	fr := frame.(*env.Frame)

	result := Null()
	for {
		cond, flow, err := evalNode(rt.p, n.Cond, fr, is, false)
		if err != nil {
			return nil, err
		}
		if flow != nil {
			return flow, nil
		}
		if !Truthy(cond) {
			break
		}

		v, flow, err := evalNode(rt.p, n.Body, fr, is, false)
		if err != nil {
			return nil, err
		}
		if flow != nil {
			switch flow.Kind {
			case FlowBreak:
				return flowValue(flow), nil
			case FlowContinue:
				continue
			default:
				return flow, nil
			}
		}
		result = v
	}
	return result, nil
}

func flowValue(f *Flow) *Value {
	if f.Value == nil {
		return Null()
	}
	return f.Value
}

// For
// ===

type forRuntime struct{ *baseRuntime }

func forRuntimeInst(p *Provider, node parser.Node) parser.Runtime {
	return &forRuntime{newBaseRuntime(p, node)}
}

func (rt *forRuntime) Eval(frame parser.Frame, is map[string]interface{}, wantLvalue bool) (interface{}, error) {
	n := rt.node.(*parser.For)
	fr := frame.(*env.Frame)

	iterable, flow, err := evalNode(rt.p, n.Iterable, fr, is, false)
	if err != nil {
		return nil, err
	}
	if flow != nil {
		return flow, nil
	}

	items, err := rt.p.iterableItems(fr, iterable, n)
	if err != nil {
		return nil, err
	}

	result := Null()
	for i, item := range items {
		bindings := map[string]interface{}{n.Iter: item}
		if n.HasIndex {
			bindings[n.Index] = NewNumber(float64(i))
		}
		iterFrame := fr.Child(fr.Name(), bindings)

		v, flow, err := evalNode(rt.p, n.Body, iterFrame, is, false)
		if err != nil {
			return nil, err
		}
		if flow != nil {
			switch flow.Kind {
			case FlowBreak:
				return flowValue(flow), nil
			case FlowContinue:
				continue
			default:
				return flow, nil
			}
		}
		result = v
	}
	return result, nil
}

/*
iterableItems resolves the items a For loop walks: an Array's own
items directly, or the result of calling the value's Iterator.items
trait method (§4.5's Iterator trait), which must itself return an
Array.
*/
func (p *Provider) iterableItems(frame *env.Frame, v *Value, node parser.Node) ([]*Value, error) {
	if a, ok := Arr(v); ok {
		return a.Items, nil
	}
	if v.Kind == KindInstance && v.Class != nil {
		itemsFn := v.Class.GetTraitMethod(TraitIterator, "items")
		if itemsFn != nil {
			result, err := p.callFunction(frame, bindMethod(itemsFn, v), nil, node)
			if err != nil {
				return nil, err
			}
			if a, ok := Arr(result); ok {
				return a.Items, nil
			}
			return nil, p.NewRuntimeError(util.ErrRuntimeError, "Iterator.items did not return an array", node)
		}
	}
	return nil, p.NewRuntimeError(util.ErrMissingTraitImpl, "value is not iterable", node)
}

// Return / Break / Continue
// =========================

type returnRuntime struct{ *baseRuntime }

func returnRuntimeInst(p *Provider, node parser.Node) parser.Runtime {
	return &returnRuntime{newBaseRuntime(p, node)}
}

func (rt *returnRuntime) Eval(frame parser.Frame, is map[string]interface{}, wantLvalue bool) (interface{}, error) {
	return unwind(rt.p, frame.(*env.Frame), is, rt.node.(*parser.Return).Value, FlowReturn)
}

type breakRuntime struct{ *baseRuntime }

func breakRuntimeInst(p *Provider, node parser.Node) parser.Runtime {
	return &breakRuntime{newBaseRuntime(p, node)}
}

func (rt *breakRuntime) Eval(frame parser.Frame, is map[string]interface{}, wantLvalue bool) (interface{}, error) {
	return unwind(rt.p, frame.(*env.Frame), is, rt.node.(*parser.Break).Value, FlowBreak)
}

type continueRuntime struct{ *baseRuntime }

func continueRuntimeInst(p *Provider, node parser.Node) parser.Runtime {
	return &continueRuntime{newBaseRuntime(p, node)}
}

func (rt *continueRuntime) Eval(frame parser.Frame, is map[string]interface{}, wantLvalue bool) (interface{}, error) {
	return unwind(rt.p, frame.(*env.Frame), is, rt.node.(*parser.Continue).Value, FlowContinue)
}

func unwind(p *Provider, frame *env.Frame, is map[string]interface{}, valueNode parser.Node, kind FlowKind) (interface{}, error) {
	if valueNode == nil {
		return &Flow{Kind: kind, Value: Null()}, nil
	}
	v, flow, err := evalNode(p, valueNode, frame, is, false)
	if err != nil {
		return nil, err
	}
	if flow != nil {
		return flow, nil
	}
	return &Flow{Kind: kind, Value: v}, nil
}
