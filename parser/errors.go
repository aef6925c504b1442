/*
 * NS
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package parser

import (
	"bytes"
	"fmt"
	"strings"
)

/*
Traceable is implemented by every diagnostic NS can raise (lex, parse
and runtime), so the CLI can render all three the same way regardless
of which pipeline stage failed.
*/
type Traceable interface {
	error
	AddTrace(n Node)
	GetTrace() []Node
	GetTraceString() []string
}

/*
ParseError is raised by the parser driver or a feeder: unexpected
token, mismatched enclosure, malformed/empty expression or an
unsupported construct (e.g. a type hint on a for-loop iterator).
Trace is accumulated by the driver walking up the current-feeder chain
at the moment of failure.
*/
type ParseError struct {
	Message string
	Line    int
	Column  int
	Span    int
	Source  string
	SrcLine string
	Trace   []Node
}

func newParseError(tok *Token, src *Source, message string) *ParseError {
	span := len(tok.Text)
	if tok.IsEOF() {
		span = 1
	}
	return &ParseError{
		Message: message,
		Line:    tok.Line,
		Column:  tok.Col,
		Span:    span,
		Source:  tok.Source,
		SrcLine: src.Line(tok.Line),
	}
}

func (e *ParseError) AddTrace(n Node) { e.Trace = append(e.Trace, n) }
func (e *ParseError) GetTrace() []Node { return e.Trace }

func (e *ParseError) GetTraceString() []string {
	var out []string
	for _, n := range e.Trace {
		out = append(out, fmt.Sprintf("%s at line %d", n.String(), n.Tok().Line+1))
	}
	return out
}

func (e *ParseError) Error() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Parse error in %s at line %d, column %d: %s",
		e.Source, e.Line+1, e.Column+1, e.Message)

	if e.SrcLine != "" {
		fmt.Fprintf(&buf, "\n%s\n", e.SrcLine)
		span := e.Span
		if span < 1 {
			span = 1
		}
		buf.WriteString(strings.Repeat(" ", e.Column))
		buf.WriteString(strings.Repeat("^", span))
	}

	for _, t := range e.GetTraceString() {
		fmt.Fprintf(&buf, "\n  from %s", t)
	}

	return buf.String()
}
