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
	"strings"

	"ns/env"
	"ns/util"
)

/*
Operator traits (§4.5/§4.4): identity is the pointer, so two classes
only ever "implement Op.Add" by sharing this exact *Trait value.
*/
var (
	TraitOpAdd = &Trait{Name: "Op.Add", Methods: []string{"add"}}
	TraitOpSub = &Trait{Name: "Op.Sub", Methods: []string{"sub"}}
	TraitOpMul = &Trait{Name: "Op.Mul", Methods: []string{"mul"}}
	TraitOpDiv = &Trait{Name: "Op.Div", Methods: []string{"div"}}
	TraitOpEq  = &Trait{Name: "Op.Eq", Methods: []string{"eq"}}
	TraitOpGt  = &Trait{Name: "Op.Gt", Methods: []string{"gt"}}
	TraitOpLt  = &Trait{Name: "Op.Lt", Methods: []string{"lt"}}
	TraitOpInc = &Trait{Name: "Op.Inc", Methods: []string{"inc"}}
	TraitOpDec = &Trait{Name: "Op.Dec", Methods: []string{"dec"}}

	TraitCopy     = &Trait{Name: "Copy", Methods: []string{"copy"}}
	TraitIterator = &Trait{Name: "Iterator", Methods: []string{"items"}}
	TraitToString = &Trait{Name: "ToString", Methods: []string{"to_string"}}
)

/*
operatorTraitByLexeme maps a binary-operator lexeme to the trait the
left operand's class must implement (§4.4's BinaryOp rule). `==` is
handled separately (identity fallback before the trait lookup).
*/
var operatorTraitByLexeme = map[string]*Trait{
	"+": TraitOpAdd,
	"-": TraitOpSub,
	"*": TraitOpMul,
	"/": TraitOpDiv,
	">": TraitOpGt,
	"<": TraitOpLt,
}

func nativeMethod(name string, fn NativeFunc) *Value {
	return NewFunction(&FuncData{Name: name, Native: fn})
}

/*
NumberClass, StringClass, BooleanClass, ArrayClass and FunctionClass
are the five built-in classes every program can rely on (§4.5's
minimum set). They're constructed once at package init and referenced
by pointer identity everywhere a Value's Class field names one of
them (Num/Str/Bool/Arr/Fn in value.go all compare against these
pointers).
*/
var (
	NumberClass   *Class
	StringClass   *Class
	BooleanClass  *Class
	ArrayClass    *Class
	FunctionClass *Class

	/*
	ModuleClass marks the Value an `import` binds a name to: Data holds
	the imported file's root *env.Frame directly rather than going
	through the generic Props map, since a module's members are that
	frame's Vars bindings, not per-instance fields (the Access executor
	special-cases this Class).
	*/
	ModuleClass *Class
)

func init() {
	ModuleClass = &Class{Name: "Module", Builtin: true}

	// FunctionClass comes first: every nativeMethod below is a Function
	// Value and takes its Class from it.
	FunctionClass = &Class{Name: "Function", Builtin: true, Traits: map[*Trait]*Class{}}
	FunctionClass.Traits[TraitCopy] = &Class{Name: "Function.Copy", Builtin: true}

	NumberClass = &Class{Name: "Number", Builtin: true, Props: map[string]*Value{}, Traits: map[*Trait]*Class{}}
	NumberClass.Traits[TraitCopy] = &Class{Name: "Number.Copy", Builtin: true}
	NumberClass.Traits[TraitOpAdd] = &Class{Name: "Number.Op.Add", Builtin: true, Props: map[string]*Value{
		"add": nativeMethod("add", numBinMethod(TraitOpAdd, func(a, b float64) float64 { return a + b })),
	}}
	NumberClass.Traits[TraitOpSub] = &Class{Name: "Number.Op.Sub", Builtin: true, Props: map[string]*Value{
		"sub": nativeMethod("sub", numBinMethod(TraitOpSub, func(a, b float64) float64 { return a - b })),
	}}
	NumberClass.Traits[TraitOpMul] = &Class{Name: "Number.Op.Mul", Builtin: true, Props: map[string]*Value{
		"mul": nativeMethod("mul", numBinMethod(TraitOpMul, func(a, b float64) float64 { return a * b })),
	}}
	NumberClass.Traits[TraitOpDiv] = &Class{Name: "Number.Op.Div", Builtin: true, Props: map[string]*Value{
		"div": nativeMethod("div", numBinMethod(TraitOpDiv, func(a, b float64) float64 { return a / b })),
	}}
	NumberClass.Traits[TraitOpEq] = &Class{Name: "Number.Op.Eq", Builtin: true, Props: map[string]*Value{
		"eq": nativeMethod("eq", numCmpMethod(TraitOpEq, func(a, b float64) bool { return a == b })),
	}}
	NumberClass.Traits[TraitOpGt] = &Class{Name: "Number.Op.Gt", Builtin: true, Props: map[string]*Value{
		"gt": nativeMethod("gt", numCmpMethod(TraitOpGt, func(a, b float64) bool { return a > b })),
	}}
	NumberClass.Traits[TraitOpLt] = &Class{Name: "Number.Op.Lt", Builtin: true, Props: map[string]*Value{
		"lt": nativeMethod("lt", numCmpMethod(TraitOpLt, func(a, b float64) bool { return a < b })),
	}}
	NumberClass.Traits[TraitOpInc] = &Class{Name: "Number.Op.Inc", Builtin: true, Props: map[string]*Value{
		"inc": nativeMethod("inc", numUnaryMethod(func(a float64) float64 { return a + 1 })),
	}}
	NumberClass.Traits[TraitOpDec] = &Class{Name: "Number.Op.Dec", Builtin: true, Props: map[string]*Value{
		"dec": nativeMethod("dec", numUnaryMethod(func(a float64) float64 { return a - 1 })),
	}}

	StringClass = &Class{Name: "String", Builtin: true, Props: map[string]*Value{}, Traits: map[*Trait]*Class{}}
	StringClass.Traits[TraitCopy] = &Class{Name: "String.Copy", Builtin: true}
	StringClass.Traits[TraitOpAdd] = &Class{Name: "String.Op.Add", Builtin: true, Props: map[string]*Value{
		"add": nativeMethod("add", func(p *Provider, frame *env.Frame, args []*Value) (*Value, error) {
			s, _ := Str(args[0])
			o, ok := Str(args[1])
			if !ok {
				return nil, errMissingTraitImpl(p, TraitOpAdd, args[0], args[1])
			}
			return NewString(s + o), nil
		}),
	}}
	StringClass.Traits[TraitOpMul] = &Class{Name: "String.Op.Mul", Builtin: true, Props: map[string]*Value{
		"mul": nativeMethod("mul", func(p *Provider, frame *env.Frame, args []*Value) (*Value, error) {
			s, _ := Str(args[0])
			n, ok := Num(args[1])
			if !ok {
				return nil, errMissingTraitImpl(p, TraitOpMul, args[0], args[1])
			}
			return NewString(strings.Repeat(s, int(n))), nil
		}),
	}}
	StringClass.Traits[TraitOpEq] = &Class{Name: "String.Op.Eq", Builtin: true, Props: map[string]*Value{
		"eq": nativeMethod("eq", func(p *Provider, frame *env.Frame, args []*Value) (*Value, error) {
			a, _ := Str(args[0])
			b, ok := Str(args[1])
			if !ok {
				return nil, errMissingTraitImpl(p, TraitOpEq, args[0], args[1])
			}
			return NewBoolean(a == b), nil
		}),
	}}
	StringClass.Traits[TraitOpGt] = &Class{Name: "String.Op.Gt", Builtin: true, Props: map[string]*Value{
		"gt": nativeMethod("gt", func(p *Provider, frame *env.Frame, args []*Value) (*Value, error) {
			a, _ := Str(args[0])
			b, ok := Str(args[1])
			if !ok {
				return nil, errMissingTraitImpl(p, TraitOpGt, args[0], args[1])
			}
			return NewBoolean(a > b), nil
		}),
	}}
	StringClass.Traits[TraitOpLt] = &Class{Name: "String.Op.Lt", Builtin: true, Props: map[string]*Value{
		"lt": nativeMethod("lt", func(p *Provider, frame *env.Frame, args []*Value) (*Value, error) {
			a, _ := Str(args[0])
			b, ok := Str(args[1])
			if !ok {
				return nil, errMissingTraitImpl(p, TraitOpLt, args[0], args[1])
			}
			return NewBoolean(a < b), nil
		}),
	}}
	StringClass.Traits[TraitOpDec] = &Class{Name: "String.Op.Dec", Builtin: true, Props: map[string]*Value{
		"dec": nativeMethod("dec", func(p *Provider, frame *env.Frame, args []*Value) (*Value, error) {
			s, _ := Str(args[0])
			if s == "" {
				return NewString(""), nil
			}
			runes := []rune(s)
			return NewString(string(runes[:len(runes)-1])), nil
		}),
	}}

	BooleanClass = &Class{Name: "Boolean", Builtin: true, Props: map[string]*Value{}, Traits: map[*Trait]*Class{}}
	BooleanClass.Traits[TraitCopy] = &Class{Name: "Boolean.Copy", Builtin: true}

	ArrayClass = &Class{Name: "Array", Builtin: true, Traits: map[*Trait]*Class{}}
	ArrayClass.Traits[TraitOpAdd] = &Class{Name: "Array.Op.Add", Builtin: true, Props: map[string]*Value{
		"add": nativeMethod("add", func(p *Provider, frame *env.Frame, args []*Value) (*Value, error) {
			a, _ := Arr(args[0])
			b, ok := Arr(args[1])
			if !ok {
				return nil, errMissingTraitImpl(p, TraitOpAdd, args[0], args[1])
			}
			out := make([]*Value, 0, len(a.Items)+len(b.Items))
			out = append(out, a.Items...)
			out = append(out, b.Items...)
			return NewArray(out), nil
		}),
	}}
	ArrayClass.Props = map[string]*Value{
		"push": nativeMethod("push", func(p *Provider, frame *env.Frame, args []*Value) (*Value, error) {
			a, _ := Arr(args[0])
			a.Items = append(a.Items, args[1:]...)
			return args[0], nil
		}),
		"pop": nativeMethod("pop", func(p *Provider, frame *env.Frame, args []*Value) (*Value, error) {
			a, _ := Arr(args[0])
			if len(a.Items) == 0 {
				return Null(), nil
			}
			last := a.Items[len(a.Items)-1]
			a.Items = a.Items[:len(a.Items)-1]
			return last, nil
		}),
	}

	FunctionClass.Props = map[string]*Value{
		"bind": nativeMethod("bind", func(p *Provider, frame *env.Frame, args []*Value) (*Value, error) {
			fd, _ := Fn(args[0])
			bound := *fd
			bound.Bound = args[1]
			return NewFunction(&bound), nil
		}),
	}
}

/*
errMissingTraitImpl reports that an operator trait has no
implementation between left and right's classes (§4.4's "identifies
both operand types" requirement), the same error
dispatchOperatorTrait raises when the left operand's class has no
trait impl at all.
*/
func errMissingTraitImpl(p *Provider, trait *Trait, left, right *Value) error {
	return p.NewRuntimeError(util.ErrMissingTraitImpl,
		trait.Name+" not implemented between "+classNameOf(left)+" and "+classNameOf(right), nil)
}

func numUnaryMethod(op func(float64) float64) NativeFunc {
	return func(p *Provider, frame *env.Frame, args []*Value) (*Value, error) {
		a, _ := Num(args[0])
		return NewNumber(op(a)), nil
	}
}

func numBinMethod(trait *Trait, op func(a, b float64) float64) NativeFunc {
	return func(p *Provider, frame *env.Frame, args []*Value) (*Value, error) {
		a, _ := Num(args[0])
		b, ok := Num(args[1])
		if !ok {
			return nil, errMissingTraitImpl(p, trait, args[0], args[1])
		}
		return NewNumber(op(a, b)), nil
	}
}

func numCmpMethod(trait *Trait, op func(a, b float64) bool) NativeFunc {
	return func(p *Provider, frame *env.Frame, args []*Value) (*Value, error) {
		a, _ := Num(args[0])
		b, ok := Num(args[1])
		if !ok {
			return nil, errMissingTraitImpl(p, trait, args[0], args[1])
		}
		return NewBoolean(op(a, b)), nil
	}
}
