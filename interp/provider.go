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
	"fmt"

	"ns/config"
	"ns/env"
	"ns/parser"
	"ns/util"
)

/*
runtimeNew instantiates one executor for a Node.
*/
type runtimeNew func(*Provider, parser.Node) parser.Runtime

/*
providerMap maps every NodeKind to the executor that evaluates it.
Node feeders producing a kind this map has no entry for (there should
be none by the time SPEC_FULL.md is fully implemented) fall back to
invalidRuntimeInst.
*/
var providerMap = map[parser.NodeKind]runtimeNew{
	parser.KindBlock:         blockRuntimeInst,
	parser.KindLet:           letRuntimeInst,
	parser.KindReturn:        returnRuntimeInst,
	parser.KindBreak:         breakRuntimeInst,
	parser.KindContinue:      continueRuntimeInst,
	parser.KindIf:            ifRuntimeInst,
	parser.KindWhile:         whileRuntimeInst,
	parser.KindFor:           forRuntimeInst,
	parser.KindFunction:      functionRuntimeInst,
	parser.KindStruct:        structRuntimeInst,
	parser.KindEnum:          enumRuntimeInst,
	parser.KindImport:        importRuntimeInst,
	parser.KindName:          nameRuntimeInst,
	parser.KindNumber:        numberRuntimeInst,
	parser.KindString:        stringRuntimeInst,
	parser.KindAccessDot:     accessRuntimeInst,
	parser.KindAccessColon:   accessRuntimeInst,
	parser.KindAccessColonDouble: accessRuntimeInst,
	parser.KindCall:          callRuntimeInst,
	parser.KindIndex:         indexRuntimeInst,
	parser.KindPrefix:        prefixRuntimeInst,
	parser.KindPostfix:       postfixRuntimeInst,
	parser.KindBinary:        binaryRuntimeInst,
	parser.KindCast:          castRuntimeInst,
	parser.KindArray:         arrayRuntimeInst,
	parser.KindGeneric:       genericRuntimeInst,
	parser.KindTypeGeneric:   voidRuntimeInst,
	parser.KindConstructor:   constructorRuntimeInst,
	parser.KindExpression:    expressionRuntimeInst,
	parser.KindRefExpression: refExpressionRuntimeInst,
}

/*
Provider is the factory object producing executors for NS ASTs and the
shared services (import resolution, logging, call-depth limiting) they
need. Mirrors the teacher's RuntimeProvider/ImportLocator/Logger
bundle, with the ECA engine/cron/debugger fields dropped (no rule
engine or debugger surface in this module, see DESIGN.md).
*/
type Provider struct {
	Name          string
	ImportLocator util.ImportLocator
	Logger        util.Logger
	callDepth     int
	maxCallDepth  int

	/*
	InstallBuiltins, when set, populates a freshly created root Frame
	(the program's own, and every module's) with the standard built-ins
	(§6). It lives on Provider rather than being called directly from
	cli/main.go so RunModule (which `import` and `require` use) can apply it to a module's isolated
	root Frame without interp importing the stdlib package (which itself
	imports interp).
	*/
	InstallBuiltins func(*env.Frame)
}

/*
NewProvider returns a new Provider, defaulting ImportLocator to the
current directory and Logger to an in-memory ring buffer when nil.
*/
func NewProvider(name string, importLocator util.ImportLocator, logger util.Logger) *Provider {
	if importLocator == nil {
		importLocator = &util.FileImportLocator{Root: config.Str(config.ImportRoot)}
	}
	if logger == nil {
		logger = util.NewMemoryLogger(100)
	}
	return &Provider{
		Name:          name,
		ImportLocator: importLocator,
		Logger:        logger,
		maxCallDepth:  config.Int(config.MaxCallDepth),
	}
}

/*
Runtime returns the executor for node.
*/
func (p *Provider) Runtime(node parser.Node) parser.Runtime {
	if instFunc, ok := providerMap[node.Kind()]; ok {
		return instFunc(p, node)
	}
	return invalidRuntimeInst(p, node)
}

/*
NewRuntimeError creates a new RuntimeError anchored at node.
*/
func (p *Provider) NewRuntimeError(t error, detail string, node parser.Node) error {
	return util.NewRuntimeError(p.Name, t, detail, node)
}

/*
enterCall increments the call-depth counter, failing if MaxCallDepth
(config.MaxCallDepth, 0 = unbounded) would be exceeded. Call leaveCall
when the invocation returns, by deferring it immediately after a nil
error.
*/
func (p *Provider) enterCall(node parser.Node) error {
	if p.maxCallDepth > 0 && p.callDepth >= p.maxCallDepth {
		return p.NewRuntimeError(util.ErrRuntimeError,
			fmt.Sprintf("maximum call depth %d exceeded", p.maxCallDepth), node)
	}
	p.callDepth++
	return nil
}

func (p *Provider) leaveCall() { p.callDepth-- }

/*
copyValue performs the full automatic-copy dance (§4.4): built-in
scalars via CopyScalar, user-defined classes via an explicit Copy
trait impl invocation, anything else returned unchanged. Only the
value-consuming sites call it (let, constructor fields, assignment,
call arguments); `&` reaches storage through evalLvalueRef instead, so
it never copies. The wantLvalue flag is not consulted here.
*/
func (p *Provider) copyValue(frame *env.Frame, v *Value) (*Value, error) {
	if v == nil || v.Kind != KindInstance || v.Class == nil {
		return v, nil
	}
	if v.Class == NumberClass || v.Class == StringClass || v.Class == BooleanClass || v.Class == FunctionClass {
		return CopyScalar(v), nil
	}
	copyFn := v.Class.GetTraitMethod(TraitCopy, "copy")
	if copyFn == nil {
		return v, nil
	}
	return p.callFunction(frame, bindMethod(copyFn, v), nil, nil)
}

/*
bindMethod returns a copy of fn with its receiver set to recv, the
same rebinding AccessColon performs on instance method lookup (§4.4)
and `Function.bind` performs explicitly.
*/
func bindMethod(fn *Value, recv *Value) *Value {
	fd, ok := Fn(fn)
	if !ok {
		return fn
	}
	bound := *fd
	bound.Bound = recv
	return NewFunction(&bound)
}

/*
callFunction invokes fnVal (Native or NS-defined) with args, installing
self = fnVal's bound receiver (or Null) in the callee's closure-
extended frame (§4.4's Call rule). Native functions receive args
verbatim, preceded by the bound receiver when there is one, and are
responsible for their own arity checking.
*/
func (p *Provider) callFunction(frame *env.Frame, fnVal *Value, args []*Value, node parser.Node) (*Value, error) {
	fd, ok := Fn(fnVal)
	if !ok {
		return nil, p.NewRuntimeError(util.ErrNotCallable, ToDisplayString(fnVal), node)
	}

	if fd.Native != nil {
		if fd.Bound != nil {
			args = append([]*Value{fd.Bound}, args...)
		}
		return fd.Native(p, frame, args)
	}

	if fd.Body == nil {
		return nil, p.NewRuntimeError(util.ErrNotCallable, fmt.Sprintf("%q has no body", fd.Name), node)
	}

	if err := p.enterCall(node); err != nil {
		return nil, err
	}
	defer p.leaveCall()

	self := Null()
	if fd.Bound != nil {
		self = fd.Bound
	}
	bindings := map[string]interface{}{"self": self}
	if err := bindParams(p, frame, fd.Params, args, bindings, node); err != nil {
		return nil, err
	}

	closure := fd.Closure
	if closure == nil {
		closure = frame
	}
	callFrame := closure.Child(fd.Name, bindings)

	v, flow, err := evalNode(p, fd.Body, callFrame, nil, false)
	if err != nil {
		return nil, err
	}
	if flow != nil {
		if flow.Kind == FlowReturn {
			return flowValue(flow), nil
		}
		return nil, p.NewRuntimeError(util.ErrStrayControlFlow, flow.String(), node)
	}
	return v, nil
}

/*
bindParams maps positional args into fd's declared parameter slots
(this grammar has no keyword-call syntax, so binding is positional
only): a missing trailing arg falls back to the parameter's default
expression (evaluated in the caller's frame, before the call frame
exists, so it does not see the other parameters) or Null; a surplus
arg is an error.
*/
func bindParams(p *Provider, frame *env.Frame, params []Param, args []*Value, bindings map[string]interface{}, node parser.Node) error {
	if len(args) > len(params) {
		return p.NewRuntimeError(util.ErrWrongArgCount,
			fmt.Sprintf("expected at most %d argument(s), got %d", len(params), len(args)), node)
	}
	for i, param := range params {
		if i < len(args) {
			bindings[param.Name] = args[i]
			continue
		}
		if param.Default != nil {
			v, flow, err := evalNode(p, param.Default, frame, nil, false)
			if err != nil {
				return err
			}
			if flow != nil {
				return p.NewRuntimeError(util.ErrStrayControlFlow, flow.String(), node)
			}
			bindings[param.Name] = v
			continue
		}
		bindings[param.Name] = Null()
	}
	return nil
}

// --- shared executor plumbing ------------------------------------------

/*
baseRuntime holds the fields every executor needs: the provider (for
errors/logging/imports) and the node it services.
*/
type baseRuntime struct {
	p    *Provider
	node parser.Node
}

func newBaseRuntime(p *Provider, node parser.Node) *baseRuntime {
	return &baseRuntime{p: p, node: node}
}

func (rt *baseRuntime) Validate() error {
	for _, c := range rt.node.Children() {
		if c == nil {
			continue
		}
		if err := rt.p.Runtime(c).Validate(); err != nil {
			return err
		}
	}
	return nil
}

/*
evalChild evaluates child through the provider's dispatch table and
classifies the interface{} result into (*Value, *Flow, error): exactly
one of the first two is non-nil on a nil error.
*/
func (rt *baseRuntime) evalChild(child parser.Node, frame *env.Frame, is map[string]interface{}, wantLvalue bool) (*Value, *Flow, error) {
	return evalNode(rt.p, child, frame, is, wantLvalue)
}

/*
evalNode is the package-wide Eval entry point every executor funnels
child evaluation through.
*/
func evalNode(p *Provider, node parser.Node, frame *env.Frame, is map[string]interface{}, wantLvalue bool) (*Value, *Flow, error) {
	res, err := p.Runtime(node).Eval(frame, is, wantLvalue)
	if err != nil {
		return nil, nil, util.AddTraceToError(err, node).(error)
	}
	switch r := res.(type) {
	case *Flow:
		return nil, r, nil
	case *Value:
		return r, nil, nil
	case nil:
		return Null(), nil, nil
	default:
		return nil, nil, p.NewRuntimeError(util.ErrRuntimeError,
			fmt.Sprintf("internal error: unexpected eval result %T", res), node)
	}
}

/*
invalidRuntime handles any NodeKind providerMap has no entry for.
*/
type invalidRuntime struct{ *baseRuntime }

func invalidRuntimeInst(p *Provider, node parser.Node) parser.Runtime {
	return &invalidRuntime{newBaseRuntime(p, node)}
}

func (rt *invalidRuntime) Eval(frame parser.Frame, is map[string]interface{}, wantLvalue bool) (interface{}, error) {
	return nil, rt.p.NewRuntimeError(util.ErrRuntimeError,
		fmt.Sprintf("unknown construct: %s", rt.node.Kind()), rt.node)
}

/*
voidRuntime services nodes only ever consumed by their parent executor
directly (TypeGeneric - type expressions are parsed but never
evaluated, per §1's "no static type checking").
*/
type voidRuntime struct{ *baseRuntime }

func voidRuntimeInst(p *Provider, node parser.Node) parser.Runtime {
	return &voidRuntime{newBaseRuntime(p, node)}
}

func (rt *voidRuntime) Eval(frame parser.Frame, is map[string]interface{}, wantLvalue bool) (interface{}, error) {
	return Null(), nil
}
