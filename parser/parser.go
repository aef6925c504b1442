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

import "fmt"

/*
Parser drives the single-pass, one-token-at-a-time descent over a
TokenStream. Every construct (Block, Let, Function, If, ...) is parsed
by a dedicated method that pulls tokens directly off the shared cursor
- the idiomatic Go rendition of the source language's reified "feeder"
objects: each parse* method still consumes exactly one token at a time
and maintains its own local state, but there is no separate virtual
stack-machine layer of Feeder objects with explicit push/pop/hand-off
plumbing (see DESIGN.md). The enclosure stack and the node-trace path
below are the two pieces of state a literal feeder chain would have
distributed across many small objects; here they live once on Parser.
*/
type Parser struct {
	ts   *TokenStream
	pos  int
	enc  []enclosure
	path []Node
}

type enclosure struct {
	opener *Token
	want   string
}

/*
Parse lexes src and parses the full token stream into a root Block.
The root Block's absent parent marks it as the top-level node.
*/
func Parse(src *Source) (*Block, error) {
	ts, err := Lex(src)
	if err != nil {
		return nil, err
	}
	p := &Parser{ts: ts}
	root, err := p.parseBlock(nil)
	if err != nil {
		return nil, err
	}
	if len(p.enc) != 0 {
		top := p.enc[len(p.enc)-1]
		return nil, p.errf(top.opener, "unexpected end of input: unclosed %q", top.opener.Text)
	}
	return root, nil
}

func (p *Parser) peek() *Token { return p.ts.At(p.pos) }

func (p *Parser) peekAt(off int) *Token { return p.ts.At(p.pos + off) }

func (p *Parser) next() *Token {
	t := p.ts.At(p.pos)
	if p.pos < len(p.ts.Tokens)-1 {
		p.pos++
	}
	return t
}

/*
enter pushes n onto the node-trace path for the duration of the
caller's parse* method, restoring it on return. Used with `defer
p.enter(n)()`. When a ParseError is raised while n (or a descendant)
is on the path, the driver's errf walks the path and records each
ancestor as a trace frame, exactly as the error-trace design
describes.
*/
func (p *Parser) enter(n Node) func() {
	p.path = append(p.path, n)
	return func() {
		p.path = p.path[:len(p.path)-1]
	}
}

func (p *Parser) errf(tok *Token, format string, args ...interface{}) error {
	e := newParseError(tok, p.ts.Source, fmt.Sprintf(format, args...))
	for i := len(p.path) - 1; i >= 0; i-- {
		e.AddTrace(p.path[i])
	}
	return e
}

func (p *Parser) pushEnclosure(opener *Token, want string) {
	p.enc = append(p.enc, enclosure{opener: opener, want: want})
}

func (p *Parser) popEnclosure(closerText string, closerTok *Token) error {
	if len(p.enc) == 0 {
		return p.errf(closerTok, "unmatched closing %q", closerText)
	}
	top := p.enc[len(p.enc)-1]
	if top.want != closerText {
		return p.errf(top.opener, "unclosed %q: expected %q but found %q at line %d",
			top.opener.Text, top.want, closerText, closerTok.Line+1)
	}
	p.enc = p.enc[:len(p.enc)-1]
	return nil
}
