/*
 * NS
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package interp is the tree-walking interpreter: the Value/Class/
// Trait/Ref/Instance model (§4.5-4.6 of the requirements), the
// dispatch-table executors (§4.4) and the built-in classes (§4.5).
package interp

import (
	"fmt"
	"strconv"
	"strings"

	"ns/env"
	"ns/parser"
)

/*
Kind tags what a Value's Data/Props mean - the tagged-variant shape
{kind, type?, data, props} this whole package works on. Every boxed
runtime value is a *Value; identity of the pointer is what makes Ref
aliasing observable (mutating the Value a Ref points at is visible to
every other holder of the same pointer).
*/
type Kind int

const (
	KindNull Kind = iota
	KindClass
	KindTrait
	KindRef
	KindInstance
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindClass:
		return "Class"
	case KindTrait:
		return "Trait"
	case KindRef:
		return "Ref"
	case KindInstance:
		return "Instance"
	}
	return "?"
}

/*
Value is the single runtime representation for everything NS code can
hold: Null/Class/Trait/Ref carry their payload in Data; Instance
(which covers Number, String, Boolean, Array, Function as well as
user-defined struct/enum instances) carries its payload in Data and,
for user types, its fields in Props.
*/
type Value struct {
	Kind  Kind
	Class *Class // owning Class for Instance; own definition for Class
	Data  interface{}
	Props map[string]*Value
}

/*
Class is a compile-time template: static properties (methods,
constants) and a trait-implementation table (trait identity -> a
sub-Class whose Props are that impl's methods).
*/
type Class struct {
	Name    string
	Props   map[string]*Value
	Traits  map[*Trait]*Class
	Builtin bool
}

/*
GetTrait returns the impl sub-Class for trait, or nil.
*/
func (c *Class) GetTrait(trait *Trait) *Class {
	if c == nil {
		return nil
	}
	return c.Traits[trait]
}

/*
GetTraitMethod returns the Callable for name inside trait's impl, or
nil if the class has no impl of trait or the impl lacks that method.
*/
func (c *Class) GetTraitMethod(trait *Trait, name string) *Value {
	impl := c.GetTrait(trait)
	if impl == nil {
		return nil
	}
	return impl.Props[name]
}

/*
Trait is an opaque identity carrying the ordered list of method names
it requires. Equality of traits is Go pointer identity, matching §4.5
directly.
*/
type Trait struct {
	Name    string
	Methods []string
}

/*
ArrayData is an Array Value's Data payload: boxed behind a pointer so
push/pop mutate the same Value every alias observes, the same way a
Ref's target does.
*/
type ArrayData struct {
	Items []*Value
}

/*
FuncData is a Function Value's Data payload.
*/
type FuncData struct {
	Name    string
	Params  []Param
	Body    parser.Node // the declaration's Block body; nil for Native
	Closure *env.Frame  // lexical scope captured at declaration time
	Bound   *Value      // receiver, set by `:` access or `bind`
	Native  NativeFunc
}

/*
Param mirrors parser.FunctionParameter but decoupled from the parser
package's Node type down to what interp actually needs: the name and
an optional default-value expression.
*/
type Param struct {
	Name    string
	Default parser.Node
}

/*
NativeFunc is the signature a Go-implemented built-in function (print,
the logic-gate constructors, require, ...) must expose.
*/
type NativeFunc func(p *Provider, frame *env.Frame, args []*Value) (*Value, error)

var nullSingleton = &Value{Kind: KindNull}

/*
Null returns the shared Null value.
*/
func Null() *Value { return nullSingleton }

func IsNull(v *Value) bool { return v == nil || v.Kind == KindNull }

/*
NewNumber boxes f as a Number instance.
*/
func NewNumber(f float64) *Value {
	return &Value{Kind: KindInstance, Class: NumberClass, Data: f}
}

/*
NewString boxes s as a String instance.
*/
func NewString(s string) *Value {
	return &Value{Kind: KindInstance, Class: StringClass, Data: s}
}

/*
NewBoolean boxes b as a Boolean instance.
*/
func NewBoolean(b bool) *Value {
	return &Value{Kind: KindInstance, Class: BooleanClass, Data: b}
}

/*
NewArray boxes items as an Array instance.
*/
func NewArray(items []*Value) *Value {
	return &Value{Kind: KindInstance, Class: ArrayClass, Data: &ArrayData{Items: items}}
}

/*
NewFunction boxes fd as a Function instance.
*/
func NewFunction(fd *FuncData) *Value {
	return &Value{Kind: KindInstance, Class: FunctionClass, Data: fd}
}

/*
NewRef wraps target as a first-class reference.
*/
func NewRef(target *Value) *Value {
	return &Value{Kind: KindRef, Data: target}
}

/*
RefTarget returns the Value a Ref points at, unwrapping nothing else.
*/
func RefTarget(ref *Value) (*Value, bool) {
	if ref == nil || ref.Kind != KindRef {
		return nil, false
	}
	return ref.Data.(*Value), true
}

/*
ClassValue wraps a Class definition as a first-class Value (what a
struct/enum declaration binds its name to, and what a Constructor
resolves StructName against).
*/
func ClassValue(c *Class) *Value {
	return &Value{Kind: KindClass, Class: c}
}

/*
TraitValue wraps a Trait identity as a first-class Value.
*/
func TraitValue(t *Trait) *Value {
	return &Value{Kind: KindTrait, Data: t}
}

/*
Num returns v's float64 payload; ok is false if v is not a Number.
*/
func Num(v *Value) (float64, bool) {
	if v == nil || v.Kind != KindInstance || v.Class != NumberClass {
		return 0, false
	}
	f, ok := v.Data.(float64)
	return f, ok
}

/*
Str returns v's string payload; ok is false if v is not a String.
*/
func Str(v *Value) (string, bool) {
	if v == nil || v.Kind != KindInstance || v.Class != StringClass {
		return "", false
	}
	s, ok := v.Data.(string)
	return s, ok
}

/*
Bool returns v's bool payload; ok is false if v is not a Boolean.
*/
func Bool(v *Value) (bool, bool) {
	if v == nil || v.Kind != KindInstance || v.Class != BooleanClass {
		return false, false
	}
	b, ok := v.Data.(bool)
	return b, ok
}

/*
Arr returns v's ArrayData; ok is false if v is not an Array.
*/
func Arr(v *Value) (*ArrayData, bool) {
	if v == nil || v.Kind != KindInstance || v.Class != ArrayClass {
		return nil, false
	}
	a, ok := v.Data.(*ArrayData)
	return a, ok
}

/*
Fn returns v's FuncData; ok is false if v is not a Function.
*/
func Fn(v *Value) (*FuncData, bool) {
	if v == nil || v.Kind != KindInstance || v.Class != FunctionClass {
		return nil, false
	}
	fd, ok := v.Data.(*FuncData)
	return fd, ok
}

/*
Truthy implements §4.4's boolean coercion: Null is false, Ref follows
its target, String is non-emptiness, Number is non-zero, Boolean is
itself, everything else (Class/Trait/user Instance) is true.
*/
func Truthy(v *Value) bool {
	if IsNull(v) {
		return false
	}
	switch v.Kind {
	case KindRef:
		t, _ := RefTarget(v)
		return Truthy(t)
	case KindInstance:
		switch v.Class {
		case NumberClass:
			f, _ := Num(v)
			return f != 0
		case StringClass:
			s, _ := Str(v)
			return s != ""
		case BooleanClass:
			b, _ := Bool(v)
			return b
		}
	}
	return true
}

/*
ToDisplayString renders v the way `print` does: no quotes around
strings, numbers without a trailing ".0" when they're integral.
*/
func ToDisplayString(v *Value) string {
	if IsNull(v) {
		return "null"
	}
	switch v.Kind {
	case KindRef:
		t, _ := RefTarget(v)
		return "&" + ToDisplayString(t)
	case KindClass:
		return fmt.Sprintf("<class %s>", v.Class.Name)
	case KindTrait:
		return fmt.Sprintf("<trait %s>", v.Data.(*Trait).Name)
	case KindInstance:
		switch v.Class {
		case NumberClass:
			f, _ := Num(v)
			return strconv.FormatFloat(f, 'g', -1, 64)
		case StringClass:
			s, _ := Str(v)
			return s
		case BooleanClass:
			b, _ := Bool(v)
			return strconv.FormatBool(b)
		case ArrayClass:
			a, _ := Arr(v)
			parts := make([]string, len(a.Items))
			for i, it := range a.Items {
				parts[i] = ToDisplayString(it)
			}
			return "[" + strings.Join(parts, ", ") + "]"
		case FunctionClass:
			fd, _ := Fn(v)
			return fmt.Sprintf("<function %s>", fd.Name)
		}
		if v.Class != nil {
			return fmt.Sprintf("<%s instance>", v.Class.Name)
		}
	}
	return "<value>"
}

/*
CopyScalar performs the built-in half of the automatic copy §4.4
describes: Number, String and Boolean always get a shallow Go-level
clone (a fresh *Value so assigning doesn't alias the source), Function
clones its FuncData so re-binding one copy's receiver (`bind`) never
mutates another. Everything else - Array, Class, Trait, Ref, a
user-defined struct instance - is returned unchanged here; a
user-defined Copy trait impl needs a Provider and Frame to invoke, so
that half lives in Provider.copyValue (provider.go), which falls back
to CopyScalar for the built-ins.
*/
func CopyScalar(v *Value) *Value {
	if v == nil || v.Kind != KindInstance {
		return v
	}
	switch v.Class {
	case NumberClass, StringClass, BooleanClass:
		clone := *v
		return &clone
	case FunctionClass:
		fd := *(v.Data.(*FuncData))
		clone := *v
		clone.Data = &fd
		return &clone
	}
	return v
}
