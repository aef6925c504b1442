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

var compoundBinaryOp = map[string]string{
	"+=":  "+",
	"-=":  "-",
	"*=":  "*",
	"/=":  "/",
	"%=":  "%",
	"^=":  "^",
	"&=":  "&",
	"|=":  "|",
	"&&=": "&&",
	"||=": "||",
	">>=": ">>",
	"<<=": "<<",
}

// Binary
// ======

type binaryRuntime struct{ *baseRuntime }

func binaryRuntimeInst(p *Provider, node parser.Node) parser.Runtime {
	return &binaryRuntime{newBaseRuntime(p, node)}
}

func (rt *binaryRuntime) Eval(frame parser.Frame, is map[string]interface{}, wantLvalue bool) (interface{}, error) {
	n := rt.node.(*parser.Binary)
	fr := frame.(*env.Frame)

	if n.Op == "=" {
		rhs, flow, err := evalNode(rt.p, n.Right, fr, is, false)
		if err != nil {
			return nil, err
		}
		if flow != nil {
			return flow, nil
		}
		return rt.p.assignTo(fr, n.Left, rhs, rt.node)
	}

	if baseOp, ok := compoundBinaryOp[n.Op]; ok {
		cur, flow, err := evalNode(rt.p, n.Left, fr, is, false)
		if err != nil {
			return nil, err
		}
		if flow != nil {
			return flow, nil
		}
		rhs, flow, err := evalNode(rt.p, n.Right, fr, is, false)
		if err != nil {
			return nil, err
		}
		if flow != nil {
			return flow, nil
		}
		newVal, err := rt.p.applyBinaryOp(fr, baseOp, cur, rhs, rt.node)
		if err != nil {
			return nil, err
		}
		return rt.p.assignTo(fr, n.Left, newVal, rt.node)
	}

	// Short-circuiting logical operators evaluate the right side lazily.
	if n.Op == "&&" || n.Op == "||" {
		left, flow, err := evalNode(rt.p, n.Left, fr, is, false)
		if err != nil {
			return nil, err
		}
		if flow != nil {
			return flow, nil
		}
		if n.Op == "&&" && !Truthy(left) {
			return left, nil
		}
		if n.Op == "||" && Truthy(left) {
			return left, nil
		}
		right, flow, err := evalNode(rt.p, n.Right, fr, is, false)
		if err != nil {
			return nil, err
		}
		if flow != nil {
			return flow, nil
		}
		return right, nil
	}

	left, flow, err := evalNode(rt.p, n.Left, fr, is, false)
	if err != nil {
		return nil, err
	}
	if flow != nil {
		return flow, nil
	}
	right, flow, err := evalNode(rt.p, n.Right, fr, is, false)
	if err != nil {
		return nil, err
	}
	if flow != nil {
		return flow, nil
	}
	return rt.p.applyBinaryOp(fr, n.Op, left, right, rt.node)
}

/*
applyBinaryOp evaluates one binary operator over already-evaluated
operands (§4.4's BinaryOp rule): `==`/`!=` fall back to Op.Eq, the
arithmetic and ordering operators dispatch through
operatorTraitByLexeme on the left operand's class, `>=`/`<=` are
derived from Gt/Lt, and the bitwise operators work directly on Number
without going through the trait table (no class implements them).
*/
func (p *Provider) applyBinaryOp(frame *env.Frame, op string, left, right *Value, node parser.Node) (*Value, error) {
	switch op {
	case "==", "!=":
		eq, err := p.valuesEqual(frame, left, right, node)
		if err != nil {
			return nil, err
		}
		if op == "!=" {
			return NewBoolean(!eq), nil
		}
		return NewBoolean(eq), nil

	case ">=", "<=":
		// a >= b is !(a < b); a <= b is !(a > b).
		trait := TraitOpGt
		if op == ">=" {
			trait = TraitOpLt
		}
		negated := true
		v, err := p.dispatchOperatorTrait(frame, trait, left, right, node)
		if err != nil {
			return nil, err
		}
		b, ok := Bool(v)
		if !ok {
			return nil, p.NewRuntimeError(util.ErrNotABoolean, "comparison trait did not return a boolean", node)
		}
		if negated {
			return NewBoolean(!b), nil
		}
		return NewBoolean(b), nil

	case "&", "|", "^", ">>", "<<":
		a, ok := Num(left)
		if !ok {
			return nil, p.NewRuntimeError(util.ErrNotANumber, "bitwise operand", node)
		}
		b, ok := Num(right)
		if !ok {
			return nil, p.NewRuntimeError(util.ErrNotANumber, "bitwise operand", node)
		}
		ai, bi := int64(a), int64(b)
		switch op {
		case "&":
			return NewNumber(float64(ai & bi)), nil
		case "|":
			return NewNumber(float64(ai | bi)), nil
		case "^":
			return NewNumber(float64(ai ^ bi)), nil
		case ">>":
			return NewNumber(float64(ai >> uint(bi))), nil
		case "<<":
			return NewNumber(float64(ai << uint(bi))), nil
		}
	}

	trait, ok := operatorTraitByLexeme[op]
	if !ok {
		return nil, p.NewRuntimeError(util.ErrRuntimeError, "unsupported binary operator: "+op, node)
	}
	return p.dispatchOperatorTrait(frame, trait, left, right, node)
}

/*
dispatchOperatorTrait looks up trait on left's class (§4.5) and calls
its single method with (left, right), erroring with both operand
class names when the implementation is missing (§4.4's "identifies
both operand types" requirement).
*/
func (p *Provider) dispatchOperatorTrait(frame *env.Frame, trait *Trait, left, right *Value, node parser.Node) (*Value, error) {
	if left.Class == nil {
		return nil, p.NewRuntimeError(util.ErrMissingTraitImpl, trait.Name+" on "+ToDisplayString(left), node)
	}
	fn := left.Class.GetTraitMethod(trait, trait.Methods[0])
	if fn == nil {
		return nil, p.NewRuntimeError(util.ErrMissingTraitImpl,
			trait.Name+" not implemented between "+left.Class.Name+" and "+classNameOf(right), node)
	}
	return p.callFunction(frame, fn, []*Value{left, right}, node)
}

func classNameOf(v *Value) string {
	if v == nil || v.Class == nil {
		return "Null"
	}
	return v.Class.Name
}

/*
valuesEqual implements `==` (§4.4/§4.5): identity first (same pointer,
or both Null), falling back to the left operand's Op.Eq trait method
when neither side is trivially identical.
*/
func (p *Provider) valuesEqual(frame *env.Frame, left, right *Value, node parser.Node) (bool, error) {
	for left.Kind == KindRef {
		left, _ = RefTarget(left)
	}
	for right.Kind == KindRef {
		right, _ = RefTarget(right)
	}
	if left == right {
		return true, nil
	}
	if left.Kind == KindNull && right.Kind == KindNull {
		return true, nil
	}
	if left.Kind == KindNull || right.Kind == KindNull {
		return false, nil
	}
	if left.Class == nil {
		return false, nil
	}
	fn := left.Class.GetTraitMethod(TraitOpEq, "eq")
	if fn == nil {
		return false, p.NewRuntimeError(util.ErrMissingTraitImpl, TraitOpEq.Name+" on "+left.Class.Name, node)
	}
	result, err := p.callFunction(frame, fn, []*Value{left, right}, node)
	if err != nil {
		return false, err
	}
	b, ok := Bool(result)
	if !ok {
		return false, p.NewRuntimeError(util.ErrNotABoolean, "Op.Eq.eq did not return a boolean", node)
	}
	return b, nil
}

// Prefix / Postfix
// ================

type prefixRuntime struct{ *baseRuntime }

func prefixRuntimeInst(p *Provider, node parser.Node) parser.Runtime {
	return &prefixRuntime{newBaseRuntime(p, node)}
}

func (rt *prefixRuntime) Eval(frame parser.Frame, is map[string]interface{}, wantLvalue bool) (interface{}, error) {
	n := rt.node.(*parser.Prefix)
	fr := frame.(*env.Frame)

	switch n.Op {
	case "&":
		ref, flow, err := rt.p.evalLvalueRef(fr, n.Operand, is)
		if err != nil {
			return nil, err
		}
		if flow != nil {
			return flow, nil
		}
		return ref, nil

	case "*":
		v, flow, err := evalNode(rt.p, n.Operand, fr, is, false)
		if err != nil {
			return nil, err
		}
		if flow != nil {
			return flow, nil
		}
		target, ok := RefTarget(v)
		if !ok {
			return nil, rt.p.NewRuntimeError(util.ErrNotARef, "* requires a reference", rt.node)
		}
		return target, nil

	case "++", "--":
		return rt.p.prefixIncDec(fr, n.Op, n.Operand, is, rt.node)

	case "+", "-", "!", "~":
		v, flow, err := evalNode(rt.p, n.Operand, fr, is, false)
		if err != nil {
			return nil, err
		}
		if flow != nil {
			return flow, nil
		}
		return applyUnaryOp(rt.p, n.Op, v, rt.node)
	}

	return nil, rt.p.NewRuntimeError(util.ErrNotSupported, "prefix operator "+n.Op, rt.node)
}

func applyUnaryOp(p *Provider, op string, v *Value, node parser.Node) (*Value, error) {
	switch op {
	case "!":
		return NewBoolean(!Truthy(v)), nil
	case "+", "-", "~":
		f, ok := Num(v)
		if !ok {
			return nil, p.NewRuntimeError(util.ErrNotANumber, "unary "+op+" operand", node)
		}
		switch op {
		case "+":
			return NewNumber(f), nil
		case "-":
			return NewNumber(-f), nil
		case "~":
			return NewNumber(float64(^int64(f))), nil
		}
	}
	return nil, p.NewRuntimeError(util.ErrNotSupported, "unary operator "+op, node)
}

type postfixRuntime struct{ *baseRuntime }

func postfixRuntimeInst(p *Provider, node parser.Node) parser.Runtime {
	return &postfixRuntime{newBaseRuntime(p, node)}
}

func (rt *postfixRuntime) Eval(frame parser.Frame, is map[string]interface{}, wantLvalue bool) (interface{}, error) {
	n := rt.node.(*parser.Postfix)
	fr := frame.(*env.Frame)

	switch n.Op {
	case "++", "--":
		return rt.p.postfixIncDec(fr, n.Op, n.Operand, is, rt.node)
	}

	// The parser never produces any other postfix operator (see
	// parser/feed_expr.go: postfix `*` is deliberately not attempted).
	return nil, rt.p.NewRuntimeError(util.ErrNotSupported, "postfix operator "+n.Op, rt.node)
}

func incDecTrait(op string) *Trait {
	if op == "++" {
		return TraitOpInc
	}
	return TraitOpDec
}

func (p *Provider) prefixIncDec(frame *env.Frame, op string, operand parser.Node, is map[string]interface{}, node parser.Node) (*Value, error) {
	cur, flow, err := evalNode(p, operand, frame, is, false)
	if err != nil {
		return nil, err
	}
	if flow != nil {
		return nil, p.NewRuntimeError(util.ErrStrayControlFlow, flow.String(), node)
	}
	next, err := p.applyIncDec(frame, op, cur, node)
	if err != nil {
		return nil, err
	}
	if _, err := p.assignTo(frame, operand, next, node); err != nil {
		return nil, err
	}
	return next, nil
}

func (p *Provider) postfixIncDec(frame *env.Frame, op string, operand parser.Node, is map[string]interface{}, node parser.Node) (*Value, error) {
	cur, flow, err := evalNode(p, operand, frame, is, false)
	if err != nil {
		return nil, err
	}
	if flow != nil {
		return nil, p.NewRuntimeError(util.ErrStrayControlFlow, flow.String(), node)
	}
	next, err := p.applyIncDec(frame, op, cur, node)
	if err != nil {
		return nil, err
	}
	if _, err := p.assignTo(frame, operand, next, node); err != nil {
		return nil, err
	}
	return cur, nil
}

func (p *Provider) applyIncDec(frame *env.Frame, op string, v *Value, node parser.Node) (*Value, error) {
	trait := incDecTrait(op)
	if v.Class == nil {
		return nil, p.NewRuntimeError(util.ErrMissingTraitImpl, trait.Name+" on "+ToDisplayString(v), node)
	}
	fn := v.Class.GetTraitMethod(trait, trait.Methods[0])
	if fn == nil {
		return nil, p.NewRuntimeError(util.ErrMissingTraitImpl, trait.Name+" on "+v.Class.Name, node)
	}
	return p.callFunction(frame, fn, []*Value{v}, node)
}

// --- lvalues -------------------------------------------------------------

/*
evalLvalueRef produces a Ref to the exact storage location node names
(§4.6): the *Value pointer actually held in a Vars slot or a Props map,
not a copy, so writes through the Ref are visible to every other alias
of that slot.
*/
func (p *Provider) evalLvalueRef(frame *env.Frame, node parser.Node, is map[string]interface{}) (*Value, *Flow, error) {
	switch n := node.(type) {
	case *parser.Name:
		v, ok := frame.Vars().Lookup(n.Ident)
		if !ok {
			return nil, nil, p.NewRuntimeError(util.ErrUnboundName, n.Ident, node)
		}
		return NewRef(v.(*Value)), nil, nil

	case *parser.Access:
		recv, flow, err := p.resolveAccessReceiver(frame, n.Recv, is, node)
		if err != nil {
			return nil, nil, err
		}
		if flow != nil {
			return nil, flow, nil
		}
		target, ok := p.lvaluePropSlot(recv, n.Kind(), n.Prop)
		if !ok {
			return nil, nil, p.NewRuntimeError(util.ErrRuntimeError, "unbound property: "+n.Prop, node)
		}
		return NewRef(target), nil, nil

	case *parser.Expression:
		return p.evalLvalueRef(frame, n.Result, is)
	}
	return nil, nil, p.NewRuntimeError(util.ErrInvalidAssignment, "not a reference-capable expression", node)
}

/*
lvaluePropSlot returns the live *Value stored for prop on recv:
instance Props for AccessDot, class Props for AccessColon/
AccessColonDouble. Shared by evalLvalueRef (for &) and assignTo (for
`.`-assignment).
*/
func (p *Provider) lvaluePropSlot(recv *Value, kind parser.NodeKind, prop string) (*Value, bool) {
	if kind == parser.KindAccessDot {
		if recv.Props == nil {
			return nil, false
		}
		v, ok := recv.Props[prop]
		return v, ok
	}
	if recv.Class == nil {
		return nil, false
	}
	v, ok := recv.Class.Props[prop]
	return v, ok
}

/*
assignTo implements the `=` rule's left-hand-side pattern match (§4.4):
a bare Name rebinds its Vars slot, a `.` access mutates the receiver's
instance property, and a prefix `*` replaces a Ref's target in place.
Every other left-hand form is a runtime error (class properties and
module members are not assignable from NS source).
*/
func (p *Provider) assignTo(frame *env.Frame, left parser.Node, value *Value, node parser.Node) (*Value, error) {
	value, err := p.copyValue(frame, value)
	if err != nil {
		return nil, err
	}

	switch l := left.(type) {
	case *parser.Name:
		if err := frame.Vars().Assign(l.Ident, value); err != nil {
			return nil, p.NewRuntimeError(util.ErrUnboundName, l.Ident, node)
		}
		return value, nil

	case *parser.Access:
		if l.Kind() != parser.KindAccessDot {
			return nil, p.NewRuntimeError(util.ErrInvalidAssignment, "only `.` access can be assigned to", node)
		}
		recv, flow, err := p.resolveAccessReceiver(frame, l.Recv, nil, node)
		if err != nil {
			return nil, err
		}
		if flow != nil {
			return nil, p.NewRuntimeError(util.ErrStrayControlFlow, flow.String(), node)
		}
		if recv.Props == nil {
			recv.Props = map[string]*Value{}
		}
		recv.Props[l.Prop] = value
		return value, nil

	case *parser.Prefix:
		if l.Op != "*" {
			return nil, p.NewRuntimeError(util.ErrInvalidAssignment, "invalid assignment target", node)
		}
		refVal, flow, err := evalNode(p, l.Operand, frame, nil, false)
		if err != nil {
			return nil, err
		}
		if flow != nil {
			return nil, p.NewRuntimeError(util.ErrStrayControlFlow, flow.String(), node)
		}
		target, ok := RefTarget(refVal)
		if !ok {
			return nil, p.NewRuntimeError(util.ErrNotARef, "* requires a reference", node)
		}
		*target = *value
		return target, nil

	case *parser.Expression:
		return p.assignTo(frame, l.Result, value, node)
	}

	return nil, p.NewRuntimeError(util.ErrInvalidAssignment, "invalid assignment target", node)
}
