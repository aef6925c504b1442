/*
 * NS
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

/*
Package util contains utility definitions and functions shared by the
interpreter and CLI: runtime error rendering, logging and module
import location.
*/
package util

import (
	"encoding/json"
	"errors"
	"fmt"

	"ns/parser"
)

/*
RuntimeError is a runtime related error, raised by an executor during
evaluation. It implements parser.Traceable so the CLI renders it
exactly like a parse error, labeled "Runtime Error" (§7 of the
requirements this module implements).
*/
type RuntimeError struct {
	Source string      // Name of the source which was given to the parser
	Type   error       // Error type (to be used for equal checks)
	Detail string      // Details of this error
	Node   parser.Node // AST node where the error occurred
	Line   int         // Line of the error
	Pos    int         // Position of the error
	Trace  []parser.Node
}

/*
Runtime related error types.
*/
var (
	ErrRuntimeError      = errors.New("runtime error")
	ErrUnboundName       = errors.New("unbound name")
	ErrNotCallable       = errors.New("not callable")
	ErrWrongArgCount     = errors.New("wrong number of arguments")
	ErrMissingTraitImpl  = errors.New("missing trait implementation")
	ErrInvalidAssignment = errors.New("invalid assignment target")
	ErrNotARef           = errors.New("not a reference")
	ErrNotABoolean       = errors.New("value is not a boolean")
	ErrNotANumber        = errors.New("value is not a number")
	ErrStrayControlFlow  = errors.New("stray return/break/continue")
	ErrImportFailed      = errors.New("import failed")
	ErrNotSupported      = errors.New("construct is parsed but not evaluated")

	// ErrReturn, ErrBreak and ErrContinue are not user-visible errors;
	// Flow (interp/flow.go) replaces the sentinel-error-as-control-flow
	// trick these constants would otherwise invite, per DESIGN NOTES §9.
)

/*
NewRuntimeError creates a new RuntimeError anchored at node, deriving
its source position from node's token when node is non-nil.
*/
func NewRuntimeError(source string, t error, detail string, node parser.Node) *RuntimeError {
	e := &RuntimeError{Source: source, Type: t, Detail: detail, Node: node}
	if node != nil {
		if tok := node.Tok(); tok != nil {
			e.Line = tok.Line
			e.Pos = tok.Col
		}
	}
	return e
}

/*
Error returns a human-readable string representation of this error.
*/
func (re *RuntimeError) Error() string {
	ret := fmt.Sprintf("Runtime Error in %s: %v (%v)", re.Source, re.Type, re.Detail)

	if re.Node != nil {
		ret = fmt.Sprintf("%s (Line:%d Pos:%d)", ret, re.Line+1, re.Pos+1)
	}

	for _, t := range re.GetTraceString() {
		ret += "\n  from " + t
	}

	return ret
}

/*
Unwrap exposes the sentinel Type so callers can test with errors.Is.
*/
func (re *RuntimeError) Unwrap() error { return re.Type }

/*
AddTrace adds a trace step.
*/
func (re *RuntimeError) AddTrace(n parser.Node) {
	re.Trace = append(re.Trace, n)
}

/*
GetTrace returns the current stacktrace.
*/
func (re *RuntimeError) GetTrace() []parser.Node {
	return re.Trace
}

/*
GetTraceString returns the current stacktrace as a string.
*/
func (re *RuntimeError) GetTraceString() []string {
	res := []string{}
	for _, n := range re.Trace {
		res = append(res, fmt.Sprintf("%s at line %d", n.String(), n.Tok().Line+1))
	}
	return res
}

/*
ToJSONObject returns this RuntimeError as a JSON object, e.g. for an
embedding host reporting failures over a wire protocol.
*/
func (re *RuntimeError) ToJSONObject() map[string]interface{} {
	t := ""
	if re.Type != nil {
		t = re.Type.Error()
	}
	return map[string]interface{}{
		"source": re.Source,
		"type":   t,
		"detail": re.Detail,
		"line":   re.Line + 1,
		"pos":    re.Pos + 1,
		"trace":  re.GetTraceString(),
	}
}

/*
MarshalJSON serializes this RuntimeError into a JSON string.
*/
func (re *RuntimeError) MarshalJSON() ([]byte, error) {
	return json.Marshal(re.ToJSONObject())
}

/*
AddTraceToError appends node to err's trace when err implements
parser.Traceable (every error an executor can return does), and
returns err unchanged otherwise. Executors call this once per
enclosing frame as an error unwinds, building the "from ... at line"
chain GetTraceString renders.
*/
func AddTraceToError(err error, node parser.Node) error {
	if tr, ok := err.(parser.Traceable); ok {
		tr.AddTrace(node)
	}
	return err
}
